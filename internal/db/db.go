// Package db provides PostgreSQL storage for the question catalog, candidate
// positions and sharded match counters.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS candidates (
	seq        BIGSERIAL,
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	party      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS questions (
	seq         BIGSERIAL,
	id          TEXT PRIMARY KEY,
	policy_area TEXT NOT NULL,
	text        TEXT NOT NULL DEFAULT '',
	type        TEXT NOT NULL,
	options     TEXT[],
	embedding   DOUBLE PRECISION[],
	weight      DOUBLE PRECISION NOT NULL DEFAULT 1,
	bias_score  DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS policy_positions (
	seq          BIGSERIAL PRIMARY KEY,
	candidate_id TEXT NOT NULL,
	policy_area  TEXT NOT NULL,
	position     TEXT NOT NULL DEFAULT '',
	embedding    DOUBLE PRECISION[],
	stances      JSONB,
	extracted_at TIMESTAMPTZ,
	UNIQUE (candidate_id, policy_area)
);

CREATE TABLE IF NOT EXISTS aggregated_stats (
	stats_id        TEXT PRIMARY KEY,
	total_matches   BIGINT NOT NULL DEFAULT 0,
	total_questions BIGINT NOT NULL DEFAULT 0,
	candidate_stats JSONB NOT NULL DEFAULT '{}'::jsonb,
	last_updated    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// CreateSchema creates all tables if they do not exist.
func (db *DB) CreateSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
