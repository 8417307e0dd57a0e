// Package stats records anonymous match outcomes across sharded counters and
// serves a cached, merged view of them.
package stats

import (
	"fmt"
	"hash/fnv"
)

const (
	// LogicalKey is the single logical counter that is spread across shards.
	LogicalKey = "global"
	// DefaultShards is the shard count used when none is configured.
	DefaultShards = 100
)

// Router maps the logical counter onto a fixed set of physical shard keys.
type Router struct {
	keys []string
}

// NewRouter returns a router over n shards. A non-positive n uses DefaultShards.
func NewRouter(n int) *Router {
	if n <= 0 {
		n = DefaultShards
	}
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s-%d", LogicalKey, i)
	}
	return &Router{keys: keys}
}

// Shards returns the number of physical shards.
func (r *Router) Shards() int {
	return len(r.keys)
}

// AllShardKeys returns every shard key in index order.
func (r *Router) AllShardKeys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// WriteShardFor picks the one shard a write for eventID lands on. Event ids
// are per-match, so the choice is unrelated to which candidate was matched.
func (r *Router) WriteShardFor(eventID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(eventID))
	return r.keys[h.Sum32()%uint32(len(r.keys))]
}
