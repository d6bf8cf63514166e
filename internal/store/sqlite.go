package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/reviewmycoach/coach-scout/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS coaches (
	username   TEXT PRIMARY KEY,
	profile    TEXT NOT NULL,
	is_claimed INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS discovery_results (
	id              TEXT PRIMARY KEY,
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
	heuristic_match INTEGER,
	saved_path      TEXT,
	discovered_at   DATETIME NOT NULL,
	UNIQUE(run_id, url)
);

CREATE INDEX IF NOT EXISTS idx_coaches_is_claimed ON coaches(is_claimed);
CREATE INDEX IF NOT EXISTS idx_discovery_results_run_id ON discovery_results(run_id);
CREATE INDEX IF NOT EXISTS idx_discovery_results_domain ON discovery_results(domain);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertProfile(ctx context.Context, profile model.CoachProfile) (model.UpsertStatus, error) {
	var (
		claimed   bool
		createdAt time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT is_claimed, created_at FROM coaches WHERE username = ?`,
		profile.Username,
	).Scan(&claimed, &createdAt)

	switch {
	case err == sql.ErrNoRows:
		profileJSON, err := json.Marshal(profile)
		if err != nil {
			return "", eris.Wrap(err, "sqlite: marshal profile")
		}
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO coaches (username, profile, is_claimed, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			profile.Username, string(profileJSON), profile.IsClaimed, profile.CreatedAt, profile.UpdatedAt,
		)
		if err != nil {
			return "", eris.Wrapf(err, "sqlite: insert coach %s", profile.Username)
		}
		return model.UpsertCreated, nil

	case err != nil:
		return "", eris.Wrapf(err, "sqlite: get coach %s", profile.Username)

	case claimed:
		return model.UpsertSkipped, nil
	}

	// Re-upload of an unclaimed profile keeps the original creation time.
	profile.CreatedAt = createdAt.UTC()
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal profile")
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE coaches SET profile = ?, is_claimed = ?, updated_at = ? WHERE username = ?`,
		string(profileJSON), profile.IsClaimed, profile.UpdatedAt, profile.Username,
	)
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: update coach %s", profile.Username)
	}
	return model.UpsertUpdated, nil
}

func (s *SQLiteStore) GetProfile(ctx context.Context, username string) (*model.CoachProfile, error) {
	var profileJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT profile FROM coaches WHERE username = ?`,
		username,
	).Scan(&profileJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get coach %s", username)
	}

	var profile model.CoachProfile
	if err := json.Unmarshal([]byte(profileJSON), &profile); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal coach %s", username)
	}
	return &profile, nil
}

func (s *SQLiteStore) SaveDiscoveryRows(ctx context.Context, runID string, rows []model.DiscoveryRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO discovery_results (
			id, run_id, unitid, institution, state, domain,
			doc_title, url, status_code, content_type,
			query_used, keyword_hits, confidence, heuristic_match,
			saved_path, discovered_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, url) DO UPDATE SET
			saved_path = excluded.saved_path,
			keyword_hits = excluded.keyword_hits,
			confidence = excluded.confidence
	`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	var n int64
	for _, row := range rows {
		c := row.Candidate
		_, err := stmt.ExecContext(ctx,
			uuid.New().String(), runID,
			row.Institution.UnitID, row.Institution.Name, row.Institution.State, row.Institution.Domain,
			c.Title, c.FinalURL, c.StatusCode, c.ContentType,
			c.QueryUsed, c.KeywordHits, string(c.Confidence), c.HeuristicMatch,
			c.SavedPath, c.DiscoveredAt.UTC(),
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert discovery row %s", c.FinalURL)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit tx")
	}
	return n, nil
}
