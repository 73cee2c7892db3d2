package shard

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// ErrInvalidConfiguration is returned when a store is built with a
// non-positive shard count. It is fatal for the caller; nothing retries it.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Stats holds the best-effort operation counters of a ShardedStore.
// They are instrumentation only and play no part in consistency checks.
type Stats struct {
	Reads     int64         // Read calls performed
	Writes    int64         // Write calls performed
	Conflicts int64         // Writes that merged into an existing key
	LockWait  time.Duration // Time spent waiting for shard locks
}

// ShardedStore is a fixed set of independently-locked accumulators.
//
// The shard slice is built once in NewShardedStore and never resized, so
// routing is stable and every operation on a key goes through exactly one
// mutex. No method ever holds more than one shard lock.
//
// Concurrency Model:
//   - Write and Read lock only the shard that owns the key
//   - Keys on different shards proceed fully in parallel
//   - TotalSum visits shards one at a time (weakly consistent under writes)
//   - Reads/writes counters are atomic and lock-free
type ShardedStore struct {
	shards []*Shard

	reads  atomic.Int64
	writes atomic.Int64
}

// NewShardedStore creates a store with shardCount partitions.
//
// Parameters:
//   - shardCount: Number of partitions (must be > 0)
//
// Returns:
//   - Initialized store
//   - ErrInvalidConfiguration (wrapped) when shardCount <= 0
//
// Example:
//
//	store, err := shard.NewShardedStore(4)
//	if err != nil {
//	    return err
//	}
//	store.Write("a", 100)
func NewShardedStore(shardCount int) (*ShardedStore, error) {
	if shardCount <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "shard count must be positive, got %d", shardCount)
	}

	shards := make([]*Shard, shardCount)
	for i := range shards {
		shards[i] = NewShard(i)
	}
	return &ShardedStore{shards: shards}, nil
}

// ShardCount returns the number of partitions. Immutable after construction.
func (s *ShardedStore) ShardCount() int {
	return len(s.shards)
}

// ShardFor returns the shard that owns key
func (s *ShardedStore) ShardFor(key string) *Shard {
	return s.shards[IndexFor(key, len(s.shards))]
}

// Shards returns the partitions in index order.
// The slice is a copy; the shards themselves are shared.
func (s *ShardedStore) Shards() []*Shard {
	out := make([]*Shard, len(s.shards))
	copy(out, s.shards)
	return out
}

// Write merges delta into key on its owning shard.
func (s *ShardedStore) Write(key string, delta int64) {
	s.ShardFor(key).Store.Add(key, delta)
	s.writes.Inc()
}

// Read returns the accumulated value for key.
// ok is false when the key has never been written; that is not an error.
func (s *ShardedStore) Read(key string) (value int64, ok bool) {
	value, ok = s.ShardFor(key).Store.Get(key)
	s.reads.Inc()
	return value, ok
}

// TotalSum adds up every key on every shard.
//
// Shard locks are taken one after another, never together, so while
// writers are running the result need not match any single instant.
// After all writers have joined it is exact.
func (s *ShardedStore) TotalSum() int64 {
	var total int64
	for _, sh := range s.shards {
		total += sh.Store.Sum()
	}
	return total
}

// Snapshot returns a copy of every shard's contents in index order
func (s *ShardedStore) Snapshot() []map[string]int64 {
	out := make([]map[string]int64, len(s.shards))
	for i, sh := range s.shards {
		out[i] = sh.Store.Snapshot()
	}
	return out
}

// Stats returns the operation counters plus conflict and lock-wait totals
// aggregated from every shard.
func (s *ShardedStore) Stats() Stats {
	stats := Stats{
		Reads:  s.reads.Load(),
		Writes: s.writes.Load(),
	}
	for _, sh := range s.shards {
		st := sh.Store.Stats()
		stats.Conflicts += st.Conflicts
		stats.LockWait += st.LockWait
	}
	return stats
}
