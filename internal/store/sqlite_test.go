package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewmycoach/coach-scout/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testProfile(username string) model.CoachProfile {
	now := time.Date(2024, 9, 15, 12, 0, 0, 0, time.UTC)
	return model.CoachProfile{
		Username:           username,
		DisplayName:        "Mike Dickson",
		Email:              username + "@rowan.edu",
		PhoneNumber:        "(856) 256-4687",
		Sports:             []string{"Soccer"},
		Role:               "Head Coach",
		Experience:         5,
		IsPublic:           true,
		VerificationStatus: model.VerificationPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestSQLiteUpsertProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("create then update", func(t *testing.T) {
		s := newTestSQLite(t)
		p := testProfile("dickson")

		status, err := s.UpsertProfile(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, model.UpsertCreated, status)

		p.PhoneNumber = "(856) 256-9999"
		p.UpdatedAt = p.UpdatedAt.Add(time.Hour)
		status, err = s.UpsertProfile(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, model.UpsertUpdated, status)

		got, err := s.GetProfile(ctx, "dickson")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "(856) 256-9999", got.PhoneNumber)
		assert.Equal(t, testProfile("dickson").CreatedAt, got.CreatedAt, "update keeps original creation time")
	})

	t.Run("claimed profile is skipped", func(t *testing.T) {
		s := newTestSQLite(t)
		p := testProfile("bakersc")
		p.IsClaimed = true

		status, err := s.UpsertProfile(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, model.UpsertCreated, status)

		rerun := testProfile("bakersc")
		rerun.DisplayName = "Overwritten Name"
		status, err = s.UpsertProfile(ctx, rerun)
		require.NoError(t, err)
		assert.Equal(t, model.UpsertSkipped, status)

		got, err := s.GetProfile(ctx, "bakersc")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Mike Dickson", got.DisplayName, "claimed profiles are never overwritten")
	})

	t.Run("missing profile returns nil", func(t *testing.T) {
		s := newTestSQLite(t)
		got, err := s.GetProfile(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestSQLiteSaveDiscoveryRows(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	rows := []model.DiscoveryRow{
		{
			Institution: model.Institution{UnitID: "184782", Name: "Rowan University", State: "NJ", Domain: "rowan.edu"},
			Candidate: model.DocumentCandidate{
				Title:        "Staff Directory",
				FinalURL:     "https://rowan.edu/staff.pdf",
				StatusCode:   200,
				ContentType:  "application/pdf",
				Confidence:   model.ConfidenceHigh,
				KeywordHits:  3,
				DiscoveredAt: time.Now(),
			},
		},
		{
			Institution: model.Institution{Name: "Stockton University", State: "NJ", Domain: "stockton.edu"},
			Candidate: model.DocumentCandidate{
				Title:        "Athletics Contacts",
				FinalURL:     "https://stockton.edu/contacts.pdf",
				Confidence:   model.ConfidenceLow,
				DiscoveredAt: time.Now(),
			},
		},
	}

	n, err := s.SaveDiscoveryRows(ctx, "run-1", rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Replay of the same run must not duplicate rows.
	n, err = s.SaveDiscoveryRows(ctx, "run-1", rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM discovery_results`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestSQLiteSaveDiscoveryRowsEmpty(t *testing.T) {
	s := newTestSQLite(t)
	n, err := s.SaveDiscoveryRows(context.Background(), "run-1", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
