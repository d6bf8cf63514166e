package discovery

import (
	"context"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"
)

// conventionalPaths are the staff-directory locations commonly used by
// SIDEARM/Presto/CBSi/Arbiter athletics sites.
var conventionalPaths = []string{
	"/staff-directory",
	"/staff-directory/",
	"/athletics/staff-directory",
	"/athletics/staff-directory/",
	"/directory/staff",
	"/department/staff-directory",
	"/staff.aspx",
	"/staff.aspx?path=",
}

const fallbackBodyCap = 512 * 1024

// FallbackPage is a conventional-path page that resolved, served HTML, and
// carries staff-directory signals in its body.
type FallbackPage struct {
	URL         string // final, post-redirect
	StatusCode  int
	ContentType string
}

// FallbackProber probes conventional staff-directory paths when the search
// phase yields nothing for an institution.
type FallbackProber struct {
	client *http.Client
}

// NewFallbackProber creates a FallbackProber with the given per-fetch timeout.
func NewFallbackProber(timeout time.Duration) *FallbackProber {
	return &FallbackProber{client: &http.Client{Timeout: timeout}}
}

// CandidateURLs builds the conventional-path probe list for an institution's
// domains, deduplicated with order preserved. Pure; no network access.
func (f *FallbackProber) CandidateURLs(domain, athleticsDomain string) []string {
	var domains []string
	for _, d := range []string{domain, athleticsDomain} {
		if d != "" && !slices.Contains(domains, d) {
			domains = append(domains, d)
		}
	}

	seen := make(map[string]bool)
	var urls []string
	add := func(u string) {
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	for _, d := range domains {
		base := "https://" + d
		for _, p := range conventionalPaths {
			add(base + p)
		}
	}
	if domain != "" {
		add("https://athletics." + domain + "/staff-directory")
		add("https://athletics." + domain + "/staff-directory/")
	}
	return urls
}

// CheckPage fetches a candidate URL and accepts it only when the response is
// a successful HTML page whose body carries staff-directory signals. Any
// transport failure or rejection returns ok=false.
func (f *FallbackProber) CheckPage(ctx context.Context, url string) (FallbackPage, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FallbackPage{}, false
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return FallbackPage{}, false
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return FallbackPage{}, false
	}
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "text/html") {
		return FallbackPage{}, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, fallbackBodyCap))
	if err != nil {
		return FallbackPage{}, false
	}
	if !hasBodySignals(string(body)) {
		return FallbackPage{}, false
	}

	return FallbackPage{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
	}, true
}

