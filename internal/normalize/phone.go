package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

// areaCodePatterns are tried in order against the whole document text; the
// first capture wins. Directories typically announce the campus area code once
// in a header line.
var areaCodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Area Code \((\d{3})\)`),
	regexp.MustCompile(`(?i)Area Code: \((\d{3})\)`),
	regexp.MustCompile(`(?i)Area Code (\d{3})`),
	regexp.MustCompile(`(?i)Area Code: (\d{3})`),
	regexp.MustCompile(`(?i)\((\d{3})\) area code`),
}

// AreaCode detects the document-level 3-digit area code. Absence is not an
// error; callers leave 7-digit numbers unexpanded when ok is false.
func AreaCode(text string) (code string, ok bool) {
	for _, re := range areaCodePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// phoneShape pairs a phone pattern with its normalizer. Shapes are evaluated
// in priority order until one matches, so precedence is auditable here rather
// than buried in branching.
type phoneShape struct {
	re        *regexp.Regexp
	normalize func(match, areaCode string) string
}

var phoneShapes = []phoneShape{
	// (856) 256-4687, already canonical.
	{regexp.MustCompile(`\(\d{3}\)\s*\d{3}-\d{4}`), passthrough},
	// (856) 256.4687
	{regexp.MustCompile(`\(\d{3}\)\s*\d{3}\.\d{4}`), passthrough},
	// 856-256-4687 → (856) 256-4687
	{regexp.MustCompile(`\d{3}-\d{3}-\d{4}`), func(m, _ string) string {
		return fmt.Sprintf("(%s) %s", m[:3], m[4:])
	}},
	// 856.256.4687, left as matched.
	{regexp.MustCompile(`\d{3}\.\d{3}\.\d{4}`), passthrough},
	// 856 256-4687 → (856) 256-4687
	{regexp.MustCompile(`\d{3}\s+\d{3}-\d{4}`), func(m, _ string) string {
		parts := strings.Fields(m)
		return fmt.Sprintf("(%s) %s", parts[0], parts[1])
	}},
	// 256-4687, expanded with the detected area code when available.
	{regexp.MustCompile(`\d{3}-\d{4}`), expandLocal},
	// 256.4687
	{regexp.MustCompile(`\d{3}\.\d{4}`), expandLocal},
	// 2564687, bare 7 digits get a dash inserted before expansion.
	{regexp.MustCompile(`\b\d{7}\b`), func(m, areaCode string) string {
		return expandLocal(m[:3]+"-"+m[3:], areaCode)
	}},
}

func passthrough(m, _ string) string { return m }

func expandLocal(m, areaCode string) string {
	if areaCode == "" {
		return m
	}
	return fmt.Sprintf("(%s) %s", areaCode, m)
}

// Phone extracts the first phone number in line and normalizes it. Local
// 7-digit shapes are expanded with areaCode (pass "" to leave them as found);
// dashed 10-digit shapes are reformatted to the canonical (XXX) XXX-XXXX.
// Returns "" when no shape matches.
func Phone(line, areaCode string) string {
	for _, shape := range phoneShapes {
		if m := shape.re.FindString(line); m != "" {
			return shape.normalize(strings.TrimSpace(m), areaCode)
		}
	}
	return ""
}
