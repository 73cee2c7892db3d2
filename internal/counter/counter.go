// Package counter implements the single globally-shared counter that every
// critical update in shardbench serializes on.
//
// All increments go through one sync.Mutex. The value underneath is a
// go.uber.org/atomic integer so Value can be read without the lock, but the
// mutex is still taken around every Increment: the contract is strict
// serialization of increments, not lock-free progress.
package counter

import (
	"sync"
	"time"

	"go.uber.org/atomic"
)

// GlobalCounter is an integer guarded by exactly one lock.
// The zero value is ready to use.
type GlobalCounter struct {
	mu    sync.Mutex
	value atomic.Int64

	increments atomic.Int64
	waitNanos  atomic.Int64
}

// New creates a counter starting at zero
func New() *GlobalCounter {
	return &GlobalCounter{}
}

// Increment adds delta under the counter's lock.
// Concurrent increments are never lost: after all callers return, Value
// equals the exact sum of every delta passed in.
func (c *GlobalCounter) Increment(delta int64) {
	start := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waitNanos.Add(int64(time.Since(start)))

	c.value.Add(delta)
	c.increments.Inc()
}

// Value returns the current value without taking the lock.
// Meant for reporting after all mutators have joined.
func (c *GlobalCounter) Value() int64 {
	return c.value.Load()
}

// Increments returns how many times Increment was called
func (c *GlobalCounter) Increments() int64 {
	return c.increments.Load()
}

// LockWait returns the cumulative time callers spent waiting for the lock
func (c *GlobalCounter) LockWait() time.Duration {
	return time.Duration(c.waitNanos.Load())
}
