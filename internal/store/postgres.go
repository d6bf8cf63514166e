package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/reviewmycoach/coach-scout/internal/db"
	"github.com/reviewmycoach/coach-scout/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS coaches (
	username   TEXT PRIMARY KEY,
	profile    JSONB NOT NULL,
	is_claimed BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS discovery_results (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	run_id          TEXT NOT NULL,
	unitid          TEXT,
	institution     TEXT NOT NULL,
	state           TEXT,
	domain          TEXT NOT NULL,
	doc_title       TEXT,
	url             TEXT NOT NULL,
	status_code     INTEGER,
	content_type    TEXT,
	query_used      TEXT,
	keyword_hits    INTEGER,
	confidence      TEXT,
	heuristic_match BOOLEAN,
	saved_path      TEXT,
	discovered_at   TIMESTAMPTZ NOT NULL,
	UNIQUE(run_id, url)
);

CREATE INDEX IF NOT EXISTS idx_coaches_is_claimed ON coaches(is_claimed);
CREATE INDEX IF NOT EXISTS idx_discovery_results_run_id ON discovery_results(run_id);
CREATE INDEX IF NOT EXISTS idx_discovery_results_domain ON discovery_results(domain);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) UpsertProfile(ctx context.Context, profile model.CoachProfile) (model.UpsertStatus, error) {
	var (
		claimed   bool
		createdAt time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT is_claimed, created_at FROM coaches WHERE username = $1`,
		profile.Username,
	).Scan(&claimed, &createdAt)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		profileJSON, err := json.Marshal(profile)
		if err != nil {
			return "", eris.Wrap(err, "postgres: marshal profile")
		}
		_, err = s.pool.Exec(ctx,
			`INSERT INTO coaches (username, profile, is_claimed, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
			profile.Username, string(profileJSON), profile.IsClaimed, profile.CreatedAt, profile.UpdatedAt,
		)
		if err != nil {
			return "", eris.Wrapf(err, "postgres: insert coach %s", profile.Username)
		}
		return model.UpsertCreated, nil

	case err != nil:
		return "", eris.Wrapf(err, "postgres: get coach %s", profile.Username)

	case claimed:
		return model.UpsertSkipped, nil
	}

	// Re-upload of an unclaimed profile keeps the original creation time.
	profile.CreatedAt = createdAt.UTC()
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal profile")
	}
	_, err = s.pool.Exec(ctx,
		`UPDATE coaches SET profile = $1, is_claimed = $2, updated_at = $3 WHERE username = $4`,
		string(profileJSON), profile.IsClaimed, profile.UpdatedAt, profile.Username,
	)
	if err != nil {
		return "", eris.Wrapf(err, "postgres: update coach %s", profile.Username)
	}
	return model.UpsertUpdated, nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, username string) (*model.CoachProfile, error) {
	var profileJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT profile FROM coaches WHERE username = $1`,
		username,
	).Scan(&profileJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get coach %s", username)
	}

	var profile model.CoachProfile
	if err := json.Unmarshal(profileJSON, &profile); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal coach %s", username)
	}
	return &profile, nil
}

var discoveryColumns = []string{
	"id", "run_id", "unitid", "institution", "state", "domain",
	"doc_title", "url", "status_code", "content_type",
	"query_used", "keyword_hits", "confidence", "heuristic_match",
	"saved_path", "discovered_at",
}

func (s *PostgresStore) SaveDiscoveryRows(ctx context.Context, runID string, rows []model.DiscoveryRow) (int64, error) {
	records := make([][]any, 0, len(rows))
	for _, row := range rows {
		c := row.Candidate
		records = append(records, []any{
			uuid.New().String(), runID,
			row.Institution.UnitID, row.Institution.Name, row.Institution.State, row.Institution.Domain,
			c.Title, c.FinalURL, c.StatusCode, c.ContentType,
			c.QueryUsed, c.KeywordHits, string(c.Confidence), c.HeuristicMatch,
			c.SavedPath, c.DiscoveredAt.UTC(),
		})
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "discovery_results",
		Columns:      discoveryColumns,
		ConflictKeys: []string{"run_id", "url"},
		UpdateCols:   []string{"saved_path", "keyword_hits", "confidence"},
	}, records)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: save discovery rows")
	}
	return n, nil
}
