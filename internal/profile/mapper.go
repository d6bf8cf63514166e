// Package profile maps parsed coach entries onto canonical claimable
// profile records: sport tagging, role extraction, and the deterministic
// defaults a fresh unclaimed profile starts with.
package profile

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/reviewmycoach/coach-scout/internal/model"
)

var roleRe = regexp.MustCompile(`(?i)(Head Coach|Assistant Coach|Defensive Coordinator|[A-Za-z\s]+Coach)`)

// BatchContext carries the per-batch facts that apply to every profile from
// one directory: where the institution is, what organization the coaches
// belong to, which document the records came from, and the sport to assume
// when a line names none.
type BatchContext struct {
	DefaultSport string
	Location     string
	Organization string
	SourceURL    string
}

// Mapper builds profile records from coach entries.
type Mapper struct {
	table []SportTag
	ctx   BatchContext
	now   func() time.Time
}

// NewMapper creates a Mapper with the given sport table and batch context.
func NewMapper(table []SportTag, ctx BatchContext) *Mapper {
	if len(table) == 0 {
		table = defaultSportTable
	}
	if ctx.DefaultSport == "" {
		ctx.DefaultSport = "Soccer"
	}
	return &Mapper{table: table, ctx: ctx, now: time.Now}
}

// Map produces the canonical profile for one entry. Every run-independent
// field gets the same deterministic default; the claim-state fields start
// unclaimed and pending.
func (m *Mapper) Map(entry model.CoachEntry) model.CoachProfile {
	sports := tagSports(m.table, entry.FullLine, m.ctx.DefaultSport)
	role := extractRole(entry.FullLine)
	now := m.now().UTC()

	return model.CoachProfile{
		Username:    entry.Username,
		DisplayName: strings.TrimSpace(entry.FirstName + " " + entry.LastName),
		Email:       entry.Email,
		PhoneNumber: entry.Phone,
		Bio: fmt.Sprintf("Experienced %s specializing in %s.",
			strings.ToLower(role), strings.ToLower(strings.Join(sports, ", "))),
		Sports:         sports,
		Role:           role,
		Experience:     5,
		Certifications: []string{},
		HourlyRate:     0,
		Location:       m.ctx.Location,
		Organization:   m.ctx.Organization,
		SourceURL:      m.ctx.SourceURL,
		Availability:   []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		Specialties:    sports,
		Languages:      []string{"English"},
		AgeGroup:       []string{"Adult", "Teen", "Youth"},

		IsPublic:           true,
		IsClaimed:          false,
		VerificationStatus: model.VerificationPending,

		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MapAll maps a batch of entries in order.
func (m *Mapper) MapAll(entries []model.CoachEntry) []model.CoachProfile {
	profiles := make([]model.CoachProfile, 0, len(entries))
	for _, e := range entries {
		profiles = append(profiles, m.Map(e))
	}
	return profiles
}

// extractRole pulls the coaching title out of a directory line. "Coach"
// stands in when the line carries no recognizable title.
func extractRole(line string) string {
	if !strings.Contains(strings.ToLower(line), "coach") {
		return "Coach"
	}
	match := roleRe.FindStringSubmatch(line)
	if match == nil {
		return "Coach"
	}
	return strings.TrimSpace(match[1])
}
