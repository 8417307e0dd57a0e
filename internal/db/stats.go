package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/candidate-match/internal/types"
)

// BatchGetShards returns the shard records present for keys in one query.
// Keys with no record are omitted.
func (db *DB) BatchGetShards(ctx context.Context, keys []string) ([]types.AggregatedStats, error) {
	if len(keys) == 0 {
		return []types.AggregatedStats{}, nil
	}
	rows, err := db.pool.Query(ctx,
		`SELECT stats_id, total_matches, total_questions, candidate_stats, last_updated
		 FROM aggregated_stats
		 WHERE stats_id = ANY($1)`,
		keys,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats shards: %w", err)
	}
	defer rows.Close()

	shards := make([]types.AggregatedStats, 0)
	for rows.Next() {
		var (
			s          types.AggregatedStats
			candidates []byte
		)
		if err := rows.Scan(&s.StatsID, &s.TotalMatches, &s.TotalQuestions, &candidates, &s.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan stats shard: %w", err)
		}
		s.CandidateStats = make(map[string]int)
		if len(candidates) > 0 {
			if err := json.Unmarshal(candidates, &s.CandidateStats); err != nil {
				return nil, fmt.Errorf("failed to decode candidate stats for %s: %w", s.StatsID, err)
			}
		}
		shards = append(shards, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats shards: %w", err)
	}
	return shards, nil
}

// IncrementShard applies inc to the shard at key in a single statement. The
// row lock taken by ON CONFLICT DO UPDATE serializes concurrent increments.
func (db *DB) IncrementShard(ctx context.Context, key string, inc types.StatsIncrement) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO aggregated_stats (stats_id, total_matches, total_questions, candidate_stats, last_updated)
		 VALUES ($1, 1, $2, jsonb_build_object($3::text, 1), $4)
		 ON CONFLICT (stats_id) DO UPDATE SET
			total_matches = aggregated_stats.total_matches + 1,
			total_questions = aggregated_stats.total_questions + EXCLUDED.total_questions,
			candidate_stats = aggregated_stats.candidate_stats || jsonb_build_object(
				$3::text,
				COALESCE((aggregated_stats.candidate_stats ->> $3::text)::bigint, 0) + 1
			),
			last_updated = GREATEST(aggregated_stats.last_updated, EXCLUDED.last_updated)`,
		key, inc.QuestionsAnswered, inc.CandidateID, inc.At,
	)
	if err != nil {
		return fmt.Errorf("failed to increment stats shard %s: %w", key, err)
	}
	return nil
}
