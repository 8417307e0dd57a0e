package stats

import (
	"context"

	"github.com/jonathan/candidate-match/internal/types"
)

// ShardStore persists per-shard counters.
type ShardStore interface {
	// BatchGetShards returns the records that exist for keys. Keys that were
	// never written are omitted rather than reported as errors.
	BatchGetShards(ctx context.Context, keys []string) ([]types.AggregatedStats, error)
	// IncrementShard atomically applies inc to the shard at key, creating it
	// if needed.
	IncrementShard(ctx context.Context, key string, inc types.StatsIncrement) error
}
