package stats

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_AllShardKeys(t *testing.T) {
	r := NewRouter(100)
	keys := r.AllShardKeys()

	require.Len(t, keys, 100)
	for i, k := range keys {
		assert.Equal(t, fmt.Sprintf("global-%d", i), k)
	}
	assert.Equal(t, "global-0", keys[0])
	assert.Equal(t, "global-99", keys[99])

	keys[0] = "mutated"
	assert.Equal(t, "global-0", r.AllShardKeys()[0], "returned slice must be a copy")
}

func TestRouter_DefaultShards(t *testing.T) {
	assert.Equal(t, DefaultShards, NewRouter(0).Shards())
	assert.Equal(t, DefaultShards, NewRouter(-3).Shards())
	assert.Equal(t, 7, NewRouter(7).Shards())
}

func TestRouter_WriteShardFor(t *testing.T) {
	r := NewRouter(10)
	valid := make(map[string]bool)
	for _, k := range r.AllShardKeys() {
		valid[k] = true
	}

	assert.Equal(t, r.WriteShardFor("event-1"), r.WriteShardFor("event-1"), "same event maps to same shard")

	counts := make(map[string]int)
	const events = 10000
	for i := 0; i < events; i++ {
		key := r.WriteShardFor(uuid.NewString())
		require.True(t, valid[key], "unexpected shard %q", key)
		counts[key]++
	}

	assert.Len(t, counts, 10, "every shard should receive writes")
	for key, n := range counts {
		// Expect ~1000 per shard; allow generous slack.
		assert.Greater(t, n, 700, "shard %s underloaded", key)
		assert.Less(t, n, 1300, "shard %s overloaded", key)
	}
}
