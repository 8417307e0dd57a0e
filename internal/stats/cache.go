package stats

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-match/internal/types"
)

// DefaultCacheTTL is how long a merged aggregate is served before refetching.
const DefaultCacheTTL = 30 * time.Second

// Cache is a read-through cache over the merged shard counters. Concurrent
// misses may each refetch; the last one to finish wins.
type Cache struct {
	store        ShardStore
	router       *Router
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
	logger       *zap.Logger

	mu       sync.RWMutex
	cached   *types.AggregatedStats
	filledAt time.Time
}

// CacheOption customizes a Cache.
type CacheOption func(*Cache)

// WithClock replaces the wall clock used for TTL checks.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithFetchTimeout bounds each batched shard read. Zero disables the bound.
func WithFetchTimeout(d time.Duration) CacheOption {
	return func(c *Cache) {
		c.fetchTimeout = d
	}
}

// WithLogger sets the logger used for refill diagnostics.
func WithLogger(logger *zap.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCache returns a cache over store. A non-positive ttl uses DefaultCacheTTL.
func NewCache(store ShardStore, router *Router, ttl time.Duration, opts ...CacheOption) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &Cache{
		store:        store,
		router:       router,
		ttl:          ttl,
		fetchTimeout: 5 * time.Second,
		now:          time.Now,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("stats_cache")
	return c
}

// GetAggregated returns the merged counters, refetching every shard when the
// cached copy is older than the TTL.
func (c *Cache) GetAggregated(ctx context.Context) (types.AggregatedStats, error) {
	c.mu.RLock()
	if c.cached != nil && c.now().Sub(c.filledAt) < c.ttl {
		out := clone(*c.cached)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	fetchCtx := ctx
	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.fetchTimeout)
		defer cancel()
	}

	keys := c.router.AllShardKeys()
	shards, err := c.store.BatchGetShards(fetchCtx, keys)
	if err != nil {
		return types.AggregatedStats{}, fmt.Errorf("failed to read stats shards: %w", err)
	}

	merged := Merge(shards)
	c.logger.Debug("refilled stats cache",
		zap.Int("shards_requested", len(keys)),
		zap.Int("shards_present", len(shards)),
		zap.Int("total_matches", merged.TotalMatches))

	c.mu.Lock()
	c.cached = &merged
	c.filledAt = c.now()
	c.mu.Unlock()

	return clone(merged), nil
}

// Merge sums shard counters entrywise. Shards missing from the input
// contribute nothing; LastUpdated is the latest across shards.
func Merge(shards []types.AggregatedStats) types.AggregatedStats {
	merged := types.AggregatedStats{
		StatsID:        LogicalKey,
		CandidateStats: make(map[string]int),
	}
	for _, s := range shards {
		merged.TotalMatches += s.TotalMatches
		merged.TotalQuestions += s.TotalQuestions
		for id, n := range s.CandidateStats {
			merged.CandidateStats[id] += n
		}
		if s.LastUpdated.After(merged.LastUpdated) {
			merged.LastUpdated = s.LastUpdated
		}
	}
	return merged
}

func clone(s types.AggregatedStats) types.AggregatedStats {
	s.CandidateStats = maps.Clone(s.CandidateStats)
	return s
}
