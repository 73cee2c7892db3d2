package shard

import (
	"hash/fnv"
	"sort"

	"github.com/dreamware/shardbench/internal/storage"
)

// Shard represents one independently-locked partition of the key space.
// Each shard owns its own storage and therefore its own mutex.
type Shard struct {
	ID    int                  // Index in [0, shardCount)
	Store *storage.MemoryStore // Accumulator for the keys routed here
}

// ShardInfo contains metadata about a shard
type ShardInfo struct {
	ID        int   // Shard identifier
	KeyCount  int   // Number of keys
	Sum       int64 // Sum of accumulated values
	Conflicts int64 // Writes that hit an existing key
}

// NewShard creates a new shard with in-memory storage
func NewShard(id int) *Shard {
	return &Shard{
		ID:    id,
		Store: storage.NewMemoryStore(),
	}
}

// IndexFor maps a key to its shard index using FNV-1a.
//
// The mapping is a pure function of the key and the shard count, so it is
// stable for the lifetime of a store: the same key always lands on the same
// shard and therefore always serializes on the same mutex.
//
// Parameters:
//   - key: Any string, including the empty string
//   - shardCount: Number of shards
//
// Returns:
//   - Shard index in [0, shardCount), or 0 when shardCount <= 0
func IndexFor(key string, shardCount int) int {
	if shardCount <= 0 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(shardCount))
}

// OwnsKey determines if this shard owns a given key
func (s *Shard) OwnsKey(key string, shardCount int) bool {
	if shardCount <= 0 {
		return false
	}
	return IndexFor(key, shardCount) == s.ID
}

// ListKeys returns all keys in the shard, sorted for stable output
func (s *Shard) ListKeys() []string {
	keys := s.Store.List()
	sort.Strings(keys)
	return keys
}

// Info returns metadata about the shard
func (s *Shard) Info() ShardInfo {
	stats := s.Store.Stats()

	return ShardInfo{
		ID:        s.ID,
		KeyCount:  stats.Keys,
		Sum:       stats.Sum,
		Conflicts: stats.Conflicts,
	}
}
