// Package shard implements the sharded accumulator at the center of
// shardbench: a fixed number of independently-locked partitions with
// deterministic key routing.
//
// # Overview
//
// A ShardedStore is built once with a shard count and never resized. Every
// key is routed to exactly one shard by hashing it with FNV-1a and taking the
// result modulo the shard count, so every operation on a key serializes on the
// same mutex for the whole life of the store.
//
//	┌──────────────────────────────────────────────┐
//	│                ShardedStore                  │
//	├──────────────────────────────────────────────┤
//	│  reads / writes (atomic counters)            │
//	├───────────┬───────────┬───────────┬──────────┤
//	│  Shard 0  │  Shard 1  │  Shard 2  │ Shard 3  │
//	│  mutex    │  mutex    │  mutex    │ mutex    │
//	│  map      │  map      │  map      │ map      │
//	└───────────┴───────────┴───────────┴──────────┘
//
//	"user_1" → fnv32a → 0x9a3c... % 4 → Shard 2
//
// # Operations
//
// Write (accumulate):
//   - Locks the owning shard only
//   - Adds the delta to the existing value or creates the key
//   - Counts one write
//
// Read:
//   - Locks the owning shard only
//   - Returns (value, true), or (0, false) for a never-written key
//   - Counts one read
//
// TotalSum:
//   - Visits shards in index order, one lock at a time
//   - Weakly consistent while writers run, exact after they have joined
//
// # Concurrency Model
//
// No method holds two locks at once, so lock-ordering deadlocks cannot
// happen. Operations on keys that route to different shards run in parallel
// with no ordering between them. The reads and writes counters are
// instrumentation kept with go.uber.org/atomic and are not part of any
// consistency check.
//
// # Error Handling
//
// ErrInvalidConfiguration: shard count was zero or negative
//   - Returned by NewShardedStore only
//   - Fatal for the caller; match with errors.Is
//
// An absent key on Read is not an error.
package shard
