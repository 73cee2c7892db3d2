// Package coordinator exposes the operations benchmark workers issue against
// the sharded store and the global counter, and the values read back for the
// post-run consistency check.
//
// # Overview
//
// The coordinator owns one shard.ShardedStore and one counter.GlobalCounter.
// They are independent lock domains: nothing in either refers to the other.
//
//	┌─────────────────────────────────────┐
//	│           COORDINATOR               │
//	├─────────────────────────────────────┤
//	│  LocalWrite / LocalRead / Lookup    │──▶ ShardedStore (per-shard mutex)
//	│  CriticalUpdate                     │──▶ GlobalCounter (one mutex)
//	│  HybridOperation                    │──▶ both, one after the other
//	├─────────────────────────────────────┤
//	│  TotalLocalSum / GlobalCounterValue │
//	│  Difference / Stats                 │
//	└─────────────────────────────────────┘
//
// # Hybrid Operations
//
// HybridOperation(key, v) is LocalWrite(key, v) followed by
// CriticalUpdate(v). The two lock acquisitions are not coupled by any
// transaction and nothing is rolled back. Because both steps always run to
// completion on the calling goroutine, a workload made only of hybrid
// operations ends with
//
//	GlobalCounterValue() == TotalLocalSum()   // Difference() == 0
//
// Workloads that mix in plain LocalWrite or CriticalUpdate calls move the
// difference by exactly what those calls contributed.
//
// # Consistency Check
//
// TotalLocalSum and GlobalCounterValue are meant to be read after every
// worker has joined. Read concurrently they are still race-free, but the sum
// visits shards one at a time and may not reflect a single instant.
//
// # Metrics
//
// WithMetrics attaches a metrics.Collector; every operation is then counted
// and timed under its op label. Without it the coordinator does no extra work.
//
// # Usage Examples
//
//	coord, err := coordinator.New(4)
//	if err != nil {
//	    return err // wraps shard.ErrInvalidConfiguration
//	}
//
//	coord.HybridOperation("resource_1", 1500)
//	coord.CriticalUpdate(1)
//
//	fmt.Println(coord.Difference()) // 1
package coordinator
