package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLen = 150

var (
	reservedChars = regexp.MustCompile(`[\\/:*?"<>|]+`)
	whitespace    = regexp.MustCompile(`\s+`)
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug turns an arbitrary title into a filesystem-safe name: diacritics
// folded, reserved characters and whitespace replaced with underscores,
// capped at 150 bytes. Empty input yields "file".
func Slug(value string) string {
	value = strings.TrimSpace(value)
	if folded, _, err := transform.String(deaccent, value); err == nil {
		value = folded
	}
	value = reservedChars.ReplaceAllString(value, "_")
	value = whitespace.ReplaceAllString(value, "_")
	if value == "" {
		return "file"
	}
	if len(value) > maxSlugLen {
		value = value[:maxSlugLen]
	}
	return value
}
