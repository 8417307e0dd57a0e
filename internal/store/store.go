// Package store opens the configured catalog and shard store backend.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/candidate-match/internal/config"
	"github.com/jonathan/candidate-match/internal/db"
	"github.com/jonathan/candidate-match/internal/localstore"
	"github.com/jonathan/candidate-match/internal/types"
)

// Store is the full set of storage operations used by the server and the
// ingestion commands. Both backends implement it.
type Store interface {
	GetAllCandidatePositions(ctx context.Context) ([]types.PolicyPosition, error)
	GetQuestionsByIDs(ctx context.Context, ids []string) ([]types.Question, error)
	ListQuestions(ctx context.Context) ([]types.Question, error)
	GetCandidates(ctx context.Context, ids []string) ([]types.Candidate, error)

	UpsertCandidate(ctx context.Context, c types.Candidate) error
	UpsertQuestion(ctx context.Context, q types.Question) error
	UpsertPosition(ctx context.Context, p types.PolicyPosition) error
	UpdateQuestionEmbedding(ctx context.Context, questionID string, embedding []float64) error
	UpdatePositionEmbedding(ctx context.Context, candidateID string, area types.PolicyArea, embedding []float64) error

	BatchGetShards(ctx context.Context, keys []string) ([]types.AggregatedStats, error)
	IncrementShard(ctx context.Context, key string, inc types.StatsIncrement) error

	CreateSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*db.DB)(nil)
	_ Store = (*localstore.Store)(nil)
)

// Open connects to PostgreSQL for postgres URLs and opens a SQLite file
// otherwise. An empty URL is rejected.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch {
	case cfg.URL == "":
		return nil, fmt.Errorf("database url is required")
	case cfg.IsPostgres():
		pg, err := db.Connect(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		local, err := localstore.Open(ctx, strings.TrimPrefix(cfg.URL, "sqlite://"))
		if err != nil {
			return nil, err
		}
		return local, nil
	}
}

// Import writes a catalog into s. Candidates go first so positions never
// reference a missing candidate.
func Import(ctx context.Context, s Store, catalog *types.Catalog) error {
	for _, c := range catalog.Candidates {
		if err := s.UpsertCandidate(ctx, c); err != nil {
			return fmt.Errorf("candidate %s: %w", c.ID, err)
		}
	}
	for _, q := range catalog.Questions {
		if err := s.UpsertQuestion(ctx, q); err != nil {
			return fmt.Errorf("question %s: %w", q.QuestionID, err)
		}
	}
	for _, p := range catalog.Positions {
		if err := s.UpsertPosition(ctx, p); err != nil {
			return fmt.Errorf("position %s/%s: %w", p.CandidateID, p.PolicyArea, err)
		}
	}
	return nil
}
