package localstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/candidate-match/internal/types"
)

// BatchGetShards returns the shard records present for keys. Keys with no
// record are omitted.
func (s *Store) BatchGetShards(ctx context.Context, keys []string) ([]types.AggregatedStats, error) {
	if len(keys) == 0 {
		return []types.AggregatedStats{}, nil
	}
	in := placeholders(len(keys))
	args := toArgs(keys)

	rows, err := s.db.QueryContext(ctx,
		`SELECT stats_id, total_matches, total_questions, last_updated
		 FROM aggregated_stats WHERE stats_id IN (`+in+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats shards: %w", err)
	}

	index := make(map[string]int)
	shards := make([]types.AggregatedStats, 0)
	for rows.Next() {
		var (
			sh      types.AggregatedStats
			updated int64
		)
		if err := rows.Scan(&sh.StatsID, &sh.TotalMatches, &sh.TotalQuestions, &updated); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan stats shard: %w", err)
		}
		sh.LastUpdated = time.Unix(0, updated).UTC()
		sh.CandidateStats = make(map[string]int)
		index[sh.StatsID] = len(shards)
		shards = append(shards, sh)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating stats shards: %w", err)
	}
	rows.Close()

	if len(shards) == 0 {
		return shards, nil
	}

	crows, err := s.db.QueryContext(ctx,
		`SELECT stats_id, candidate_id, count FROM shard_candidates WHERE stats_id IN (`+in+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query shard candidates: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var (
			key, candidate string
			count          int
		)
		if err := crows.Scan(&key, &candidate, &count); err != nil {
			return nil, fmt.Errorf("failed to scan shard candidate: %w", err)
		}
		if i, ok := index[key]; ok {
			shards[i].CandidateStats[candidate] = count
		}
	}
	if err := crows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shard candidates: %w", err)
	}
	return shards, nil
}

// IncrementShard applies inc to the shard at key inside one transaction.
// Counters are updated in SQL so concurrent writers never lose increments.
func (s *Store) IncrementShard(ctx context.Context, key string, inc types.StatsIncrement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	at := inc.At.UnixNano()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO aggregated_stats (stats_id, total_matches, total_questions, last_updated)
		 VALUES (?, 1, ?, ?)
		 ON CONFLICT (stats_id) DO UPDATE SET
			total_matches = aggregated_stats.total_matches + 1,
			total_questions = aggregated_stats.total_questions + excluded.total_questions,
			last_updated = MAX(aggregated_stats.last_updated, excluded.last_updated)`,
		key, inc.QuestionsAnswered, at,
	); err != nil {
		return fmt.Errorf("failed to increment stats shard %s: %w", key, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO shard_candidates (stats_id, candidate_id, count)
		 VALUES (?, ?, 1)
		 ON CONFLICT (stats_id, candidate_id) DO UPDATE SET count = shard_candidates.count + 1`,
		key, inc.CandidateID,
	); err != nil {
		return fmt.Errorf("failed to increment candidate count on %s: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stats increment: %w", err)
	}
	return nil
}
