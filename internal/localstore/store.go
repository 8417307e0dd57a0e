// Package localstore implements the catalog and shard store on an embedded
// SQLite database for single-node deployments and tests.
package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed catalog and shard store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. ":memory:" opens a
// private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases shared and serializes
	// writers, which SQLite requires anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000; PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS candidates (
	seq   INTEGER PRIMARY KEY AUTOINCREMENT,
	id    TEXT NOT NULL UNIQUE,
	name  TEXT NOT NULL,
	party TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS questions (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	policy_area TEXT NOT NULL,
	text        TEXT NOT NULL DEFAULT '',
	type        TEXT NOT NULL,
	options     TEXT,
	embedding   TEXT,
	weight      REAL NOT NULL DEFAULT 1,
	bias_score  REAL
);

CREATE TABLE IF NOT EXISTS policy_positions (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	candidate_id TEXT NOT NULL,
	policy_area  TEXT NOT NULL,
	position     TEXT NOT NULL DEFAULT '',
	embedding    TEXT,
	stances      TEXT,
	extracted_at INTEGER,
	UNIQUE (candidate_id, policy_area)
);

CREATE TABLE IF NOT EXISTS aggregated_stats (
	stats_id        TEXT PRIMARY KEY,
	total_matches   INTEGER NOT NULL DEFAULT 0,
	total_questions INTEGER NOT NULL DEFAULT 0,
	last_updated    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS shard_candidates (
	stats_id     TEXT NOT NULL REFERENCES aggregated_stats(stats_id),
	candidate_id TEXT NOT NULL,
	count        INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (stats_id, candidate_id)
);
`

// CreateSchema creates all tables if they do not exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
