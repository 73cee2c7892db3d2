// Package storage provides the partition-level accumulator used by every shard
// in shardbench. A partition is a plain map from key to accumulated integer
// guarded by exactly one mutex.
//
// # Overview
//
// Writes use accumulate-by-sum semantics: adding a delta to a key increases
// its value, and adding to an absent key creates it with the delta as its
// value. Reading a key that was never written is a normal outcome reported
// through a boolean, not an error.
//
//	┌─────────────────────────────────────┐
//	│            MemoryStore              │
//	├─────────────────────────────────────┤
//	│  mu:   sync.Mutex                   │
//	│  data: map[string]int64             │
//	├─────────────────────────────────────┤
//	│  adds / conflicts / lock wait       │
//	│  (atomic, best effort)              │
//	└─────────────────────────────────────┘
//
// # Concurrency and Thread Safety
//
// Locking Strategy:
//   - Add and Get take the mutex exclusively
//   - Sum, List, Snapshot and Stats take the same mutex, one partition at a time
//   - No operation ever holds a second lock
//
// Consistency Guarantees:
//   - A key's value equals the sum of every delta merged into it
//   - Operations on one partition are totally ordered by lock acquisition
//   - Nothing is guaranteed across partitions; callers aggregating several
//     partitions get a snapshot-ish result while writers are active
//
// # Instrumentation
//
// StoreStats reports key count, current sum, number of adds, the number of
// adds that hit an already-present key (conflicts) and the cumulative time
// callers of Add and Get spent waiting for the mutex. The counters are kept
// with go.uber.org/atomic so Stats never blocks a writer for longer than the
// sum pass.
//
// # Usage Examples
//
//	store := storage.NewMemoryStore()
//	store.Add("user_1", 100)
//	store.Add("user_1", 50)
//
//	if v, ok := store.Get("user_1"); ok {
//	    fmt.Println(v) // 150
//	}
//
//	if _, ok := store.Get("never_written"); !ok {
//	    // absent, not an error
//	}
package storage
