// Package coordinator implements the workload API of shardbench.
// See doc.go for complete package documentation.
package coordinator

import (
	"time"

	"github.com/dreamware/shardbench/internal/counter"
	"github.com/dreamware/shardbench/internal/metrics"
	"github.com/dreamware/shardbench/internal/shard"
)

// Stats is the combined instrumentation of both lock domains.
type Stats struct {
	Reads      int64         // Local reads performed
	Writes     int64         // Local writes performed
	Conflicts  int64         // Local writes that hit an existing key
	Increments int64         // Global counter increments performed
	LockWait   time.Duration // Shard plus global lock wait
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithMetrics makes the coordinator report every operation to m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// Coordinator composes a ShardedStore and a GlobalCounter into the unit of
// work issued by benchmark workers.
//
// The two components share nothing. HybridOperation touches both through
// two separate lock acquisitions with no transaction spanning them, which is
// what the post-run consistency check measures.
//
// Thread Safety:
// All methods are safe for concurrent use. No method holds two locks at once.
type Coordinator struct {
	store   *shard.ShardedStore
	counter *counter.GlobalCounter
	metrics *metrics.Collector
}

// New creates a coordinator over a fresh store with shardCount partitions
// and a fresh global counter.
//
// Parameters:
//   - shardCount: Number of partitions (must be > 0)
//   - opts: Optional settings such as WithMetrics
//
// Returns:
//   - Coordinator ready for concurrent use
//   - shard.ErrInvalidConfiguration (wrapped) when shardCount <= 0
func New(shardCount int, opts ...Option) (*Coordinator, error) {
	store, err := shard.NewShardedStore(shardCount)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		store:   store,
		counter: counter.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Coordinator) observe(op string, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveOp(op, time.Since(start))
	}
}

// LocalWrite accumulates value into key on its shard.
func (c *Coordinator) LocalWrite(key string, value int64) {
	defer c.observe(metrics.OpLocalWrite, time.Now())
	c.store.Write(key, value)
}

// LocalRead reads key and discards the result. It exists for its
// contention and timing effect only.
func (c *Coordinator) LocalRead(key string) {
	defer c.observe(metrics.OpLocalRead, time.Now())
	c.store.Read(key)
}

// Lookup reads key and returns its accumulated value.
// ok is false for a key that has never been written.
func (c *Coordinator) Lookup(key string) (value int64, ok bool) {
	defer c.observe(metrics.OpLocalRead, time.Now())
	return c.store.Read(key)
}

// CriticalUpdate adds delta to the global counter.
func (c *Coordinator) CriticalUpdate(delta int64) {
	defer c.observe(metrics.OpCriticalUpdate, time.Now())
	c.counter.Increment(delta)
}

// HybridOperation writes value to key and then adds the same value to the
// global counter.
//
// The two steps take two different locks one after the other. Nothing rolls
// the first step back if the second does not happen, so the store total and
// the counter only agree because every hybrid operation runs both steps to
// completion on one goroutine.
func (c *Coordinator) HybridOperation(key string, value int64) {
	defer c.observe(metrics.OpHybrid, time.Now())
	c.store.Write(key, value)
	c.counter.Increment(value)
}

// TotalLocalSum returns the sum of every key on every shard.
// Weakly consistent while workers run; exact after they have joined.
func (c *Coordinator) TotalLocalSum() int64 {
	return c.store.TotalSum()
}

// GlobalCounterValue returns the global counter.
func (c *Coordinator) GlobalCounterValue() int64 {
	return c.counter.Value()
}

// Difference returns GlobalCounterValue minus TotalLocalSum.
func (c *Coordinator) Difference() int64 {
	return c.GlobalCounterValue() - c.TotalLocalSum()
}

// ShardCount returns the number of partitions in the store.
func (c *Coordinator) ShardCount() int {
	return c.store.ShardCount()
}

// ShardSnapshots returns a copy of every shard's contents in index order.
func (c *Coordinator) ShardSnapshots() []map[string]int64 {
	return c.store.Snapshot()
}

// Stats returns the instrumentation counters of both lock domains.
func (c *Coordinator) Stats() Stats {
	st := c.store.Stats()
	return Stats{
		Reads:      st.Reads,
		Writes:     st.Writes,
		Conflicts:  st.Conflicts,
		Increments: c.counter.Increments(),
		LockWait:   st.LockWait + c.counter.LockWait(),
	}
}
