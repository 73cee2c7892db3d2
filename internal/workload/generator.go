// Package workload implements the randomized actors that drive the
// coordinator during a benchmark run.
//
// Every worker owns an explicit *rand.Rand derived from the run seed and its
// own stream name, so a run is reproducible given its seed and no worker
// touches a process-wide random source.
package workload

import (
	"fmt"
	"math/rand"
	"time"
)

// Role identifies which generator a worker runs.
type Role string

// Worker roles
const (
	RoleLocal    Role = "local"
	RoleCritical Role = "critical"
	RoleHybrid   Role = "hybrid"
)

// Value ranges and key spaces of the fixed-iteration generators.
const (
	localKeys     = 3
	localValueMin = 100
	localValueMax = 999

	hybridValueMin = 1000
	hybridValueMax = 2000
)

// Operations is the write surface of the coordinator used by workers.
type Operations interface {
	LocalWrite(key string, value int64)
	LocalRead(key string)
	CriticalUpdate(delta int64)
	HybridOperation(key string, value int64)
}

// Delay pauses a worker between operations. It draws from the worker's own
// RNG so pauses are reproducible too.
type Delay func(rng *rand.Rand)

// NoDelay never pauses.
func NoDelay(*rand.Rand) {}

// RandomDelay pauses for a uniform duration in [0, max).
// A non-positive max yields NoDelay.
func RandomDelay(max time.Duration) Delay {
	if max <= 0 {
		return NoDelay
	}
	return func(rng *rand.Rand) {
		time.Sleep(time.Duration(rng.Int63n(int64(max))))
	}
}

// Worker is one actor of a partitioned run.
type Worker struct {
	ID         int
	Role       Role
	Iterations int
	RNG        *rand.Rand
	Delay      Delay
}

// NewWorker builds a worker with its own RNG stream derived from seed.
func NewWorker(id int, role Role, iterations int, seed int64, delay Delay) *Worker {
	if delay == nil {
		delay = NoDelay
	}
	return &Worker{
		ID:         id,
		Role:       role,
		Iterations: iterations,
		RNG:        NewRNG(seed, StreamWorker(role, id)),
		Delay:      delay,
	}
}

// Run issues Iterations operations against ops according to the worker's
// role. It returns once every iteration has completed; there is no
// cancellation.
func (w *Worker) Run(ops Operations) {
	for i := 0; i < w.Iterations; i++ {
		switch w.Role {
		case RoleLocal:
			w.local(ops)
		case RoleCritical:
			ops.CriticalUpdate(1)
		case RoleHybrid:
			ops.HybridOperation(HybridKey(w.ID), intBetween(w.RNG, hybridValueMin, hybridValueMax))
		}
		w.Delay(w.RNG)
	}
}

// local picks one of a few shared user keys and either writes a small value
// or reads it, with equal probability.
func (w *Worker) local(ops Operations) {
	key := fmt.Sprintf("user_%d", 1+w.RNG.Intn(localKeys))
	if w.RNG.Float64() < 0.5 {
		ops.LocalWrite(key, intBetween(w.RNG, localValueMin, localValueMax))
		return
	}
	ops.LocalRead(key)
}

// HybridKey is the per-worker key hybrid workers accumulate into.
func HybridKey(workerID int) string {
	return fmt.Sprintf("resource_%d", workerID)
}
