package discovery

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Miner extracts embedded document links from HTML pages.
type Miner struct {
	client *http.Client
}

// NewMiner creates a Miner with the given per-fetch timeout.
func NewMiner(timeout time.Duration) *Miner {
	return &Miner{client: &http.Client{Timeout: timeout}}
}

// ExtractDocLinks fetches pageURL and returns the PDF links it embeds,
// resolved against the final post-redirect URL, deduplicated with order
// preserved. Non-HTML responses and transport failures yield an empty list;
// mining never raises.
func (m *Miner) ExtractDocLinks(ctx context.Context, pageURL string) []string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close() //nolint:errcheck

	if !strings.HasPrefix(strings.ToLower(resp.Header.Get("Content-Type")), "text/html") {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil
	}

	base := resp.Request.URL

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		abs, ok := resolveDocLink(base, href)
		if !ok || seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, abs)
	})
	return links
}

// resolveDocLink resolves href against base and keeps it only when the path
// targets a PDF. Query strings and fragments are stripped so the link
// identifies the document itself.
func resolveDocLink(base *url.URL, href string) (string, bool) {
	if href == "" {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if !strings.HasSuffix(strings.ToLower(abs.Path), ".pdf") {
		return "", false
	}
	abs.RawQuery = ""
	abs.Fragment = ""
	return abs.String(), true
}
