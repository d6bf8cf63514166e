package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// directoryKeywords is the ordered probe vocabulary: athletics-specific
// staff/contact signals counted in the first bytes of a candidate document.
var directoryKeywords = []string{
	"athletics staff directory",
	"athletic staff directory",
	"staff directory",
	"coaches directory",
	"coaching staff",
	"sports information",
	"athletics communications",
	"athletics contacts",
	"athletics phone",
	"athletic department",
}

// HeadResult is the outcome of a reachability check on a candidate URL.
type HeadResult struct {
	StatusCode  int
	ContentType string
	FinalURL    string
}

// Prober classifies candidate document URLs without downloading them in
// full. All transport failures read as absence of signal, never as errors.
type Prober struct {
	client   *http.Client
	byteCap  int
	minHits  int
	keywords []string
}

// NewProber creates a Prober. byteCap limits how much of a document the
// keyword probe fetches; minHits is the threshold for a high-confidence
// classification.
func NewProber(timeout time.Duration, byteCap, minHits int) *Prober {
	return &Prober{
		client:   &http.Client{Timeout: timeout},
		byteCap:  byteCap,
		minHits:  minHits,
		keywords: directoryKeywords,
	}
}

// Head checks that a URL resolves, following redirects. Some servers reject
// HEAD, so a streaming GET (body discarded) is tried before giving up.
func (p *Prober) Head(ctx context.Context, url string) (HeadResult, bool) {
	for _, method := range []string{http.MethodHead, http.MethodGet} {
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return HeadResult{}, false
		}
		resp, err := p.client.Do(req)
		if err != nil {
			continue
		}
		result := HeadResult{
			StatusCode:  resp.StatusCode,
			ContentType: strings.ToLower(resp.Header.Get("Content-Type")),
			FinalURL:    resp.Request.URL.String(),
		}
		_ = resp.Body.Close()
		return result, true
	}
	return HeadResult{}, false
}

// KeywordProbe fetches the first byteCap bytes of url and counts which
// directory keywords appear. Returns whether the hit count meets the
// threshold, and the count itself. (false, 0) on any transport failure.
func (p *Prober) KeywordProbe(ctx context.Context, url string) (bool, int) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, 0
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", p.byteCap))

	resp, err := p.client.Do(req)
	if err != nil {
		return false, 0
	}
	defer resp.Body.Close() //nolint:errcheck

	// Servers that ignore Range send the whole document; cap the read
	// either way. Decoding is lenient: the sample is scanned as raw bytes,
	// so broken encodings cannot fail the probe.
	sample, err := io.ReadAll(io.LimitReader(resp.Body, int64(p.byteCap)+1))
	if err != nil && len(sample) == 0 {
		return false, 0
	}

	text := strings.ToLower(string(sample))
	hits := 0
	for _, k := range p.keywords {
		if strings.Contains(text, k) {
			hits++
		}
	}
	return hits >= p.minHits, hits
}
