// Package normalize holds the shared normalization utilities: hostnames,
// filesystem slugs, area codes, and phone numbers.
package normalize

import (
	"net/url"
	"strings"
)

// Domain reduces a website value to a bare hostname: scheme stripped, leading
// "www." removed, lowercased. Returns "" for unusable input. Idempotent, so
// already-normalized values pass through unchanged.
func Domain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	return host
}
