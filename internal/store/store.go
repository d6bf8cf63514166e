// Package store persists coach profiles and discovery results. Profiles are
// upserted by username with claim protection: once a coach has claimed a
// profile, batch runs never overwrite it.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/reviewmycoach/coach-scout/internal/model"
)

// Store defines the persistence interface for the pipeline.
type Store interface {
	// UpsertProfile writes one profile keyed by username. A claimed
	// existing profile is left untouched and reported as skipped.
	UpsertProfile(ctx context.Context, profile model.CoachProfile) (model.UpsertStatus, error)
	GetProfile(ctx context.Context, username string) (*model.CoachProfile, error)

	// SaveDiscoveryRows records a run's discovered documents, idempotent
	// on (run id, url).
	SaveDiscoveryRows(ctx context.Context, runID string, rows []model.DiscoveryRow) (int64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite", "":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}

// UpsertAll writes a batch of profiles and tallies the outcomes.
func UpsertAll(ctx context.Context, s Store, profiles []model.CoachProfile) (*model.UploadSummary, error) {
	summary := &model.UploadSummary{}
	for _, p := range profiles {
		status, err := s.UpsertProfile(ctx, p)
		if err != nil {
			return summary, eris.Wrapf(err, "store: upsert %s", p.Username)
		}
		switch status {
		case model.UpsertCreated:
			summary.Created++
		case model.UpsertUpdated:
			summary.Updated++
		case model.UpsertSkipped:
			summary.Skipped++
		}
	}
	return summary, nil
}
