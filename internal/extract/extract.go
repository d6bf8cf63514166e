// Package extract parses staff-directory text into typed coach entries.
// Input is plain text, one person per line, as produced by PDF text
// extraction. Only lines that carry both an email address and the word
// "coach" become entries; everything else on a directory page is dropped.
package extract

import (
	"regexp"
	"strings"

	"github.com/reviewmycoach/coach-scout/internal/model"
	"github.com/reviewmycoach/coach-scout/internal/normalize"
)

var emailRe = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)

// Entries parses the full text of one directory document. The area code is
// detected once against the whole text; per-line parse failures degrade to
// missing fields, never to a dropped entry or an error.
func Entries(text string) []model.CoachEntry {
	areaCode, _ := normalize.AreaCode(text)

	var entries []model.CoachEntry
	for _, line := range strings.Split(text, "\n") {
		entry, ok := parseLine(line, areaCode)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// parseLine turns one directory line into an entry. A line qualifies only
// when it contains an email and the substring "coach"; administrative and
// facilities staff sharing the page are intentionally dropped.
func parseLine(line, areaCode string) (model.CoachEntry, bool) {
	loc := emailRe.FindStringIndex(line)
	if loc == nil {
		return model.CoachEntry{}, false
	}
	if !strings.Contains(strings.ToLower(line), "coach") {
		return model.CoachEntry{}, false
	}

	email := line[loc[0]:loc[1]]
	first, last := splitName(line[:loc[0]])

	return model.CoachEntry{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Username:  strings.SplitN(email, "@", 2)[0],
		Phone:     normalize.Phone(line, areaCode),
		FullLine:  strings.TrimSpace(line),
		Role:      "coach",
	}, true
}

// splitName derives first/last name from the text preceding the email. A
// leading honorific is stripped, then the first token is the first name and
// the second the last name. Longer names are truncated to two tokens; that
// is a known limitation of directory lines, which carry titles and phone
// text after the name.
func splitName(namePart string) (first, last string) {
	tokens := strings.Fields(strings.TrimSpace(namePart))
	if len(tokens) > 0 {
		switch strings.ToLower(tokens[0]) {
		case "dr.", "dr":
			tokens = tokens[1:]
		}
	}
	if len(tokens) > 0 {
		first = tokens[0]
	}
	if len(tokens) > 1 {
		last = tokens[1]
	}
	return first, last
}
