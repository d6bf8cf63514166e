package discovery

import "strings"

// signalWords mark a URL or search-result metadata as athletics/coaching
// related, independent of document content.
var signalWords = []string{
	"athletics", "athletic", "coach", "coaches",
	"sports information", "communications", "directory",
}

// bodySignals are the looser needles required in a fallback-probed HTML page
// before its linked documents are worth harvesting.
var bodySignals = []string{
	"staff directory",
	"athletics",
	"coaches",
	"athletic department",
	"sports information",
}

// HeuristicMatch reports whether a search hit looks directory-like from its
// URL, title, or snippet alone.
func HeuristicMatch(url, title, snippet string) bool {
	urlL := strings.ToLower(url)
	titleL := strings.ToLower(title)
	snipL := strings.ToLower(snippet)
	for _, s := range signalWords {
		if strings.Contains(urlL, s) || strings.Contains(titleL, s) || strings.Contains(snipL, s) {
			return true
		}
	}
	return false
}

// hasBodySignals reports whether HTML body text carries staff-directory
// signals.
func hasBodySignals(body string) bool {
	text := strings.ToLower(body)
	for _, n := range bodySignals {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
