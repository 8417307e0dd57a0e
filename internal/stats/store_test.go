package stats

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/jonathan/candidate-match/internal/types"
)

// memStore is an in-memory ShardStore. Each increment is applied under a
// lock so concurrent writers never lose updates.
type memStore struct {
	mu       sync.Mutex
	shards   map[string]*types.AggregatedStats
	reads    int
	getErr   error
	incErr   error
	started  chan struct{}
	release  chan struct{}
	lastKeys []string
}

func newMemStore() *memStore {
	return &memStore{shards: make(map[string]*types.AggregatedStats)}
}

func (m *memStore) BatchGetShards(ctx context.Context, keys []string) ([]types.AggregatedStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	m.lastKeys = append([]string(nil), keys...)
	if m.getErr != nil {
		return nil, m.getErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []types.AggregatedStats
	for _, k := range keys {
		if s, ok := m.shards[k]; ok {
			cp := *s
			cp.CandidateStats = maps.Clone(s.CandidateStats)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (m *memStore) IncrementShard(ctx context.Context, key string, inc types.StatsIncrement) error {
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.incErr != nil {
		return m.incErr
	}
	s, ok := m.shards[key]
	if !ok {
		s = &types.AggregatedStats{StatsID: key, CandidateStats: make(map[string]int)}
		m.shards[key] = s
	}
	s.TotalMatches++
	s.TotalQuestions += inc.QuestionsAnswered
	s.CandidateStats[inc.CandidateID]++
	if inc.At.After(s.LastUpdated) {
		s.LastUpdated = inc.At
	}
	return nil
}

func (m *memStore) readCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

func (m *memStore) put(s types.AggregatedStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shards[s.StatsID] = &s
}

var errStoreDown = errors.New("store unavailable")
