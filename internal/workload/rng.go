package workload

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// StreamTasks is the RNG stream name used to pre-generate queue-mode tasks.
const StreamTasks = "tasks"

// StreamWorker returns the RNG stream name for one worker.
func StreamWorker(role Role, id int) string {
	return fmt.Sprintf("%s_%d", role, id)
}

// NewRNG returns a deterministically-seeded source for the named stream.
//
// Derivation: seed XOR fnv1a64(name). Two streams with different names are
// isolated from each other, and the same (seed, name) pair always yields the
// same sequence.
//
// Thread-safety: the returned *rand.Rand is NOT thread-safe. Give each
// worker goroutine its own stream.
func NewRNG(seed int64, name string) *rand.Rand {
	return rand.New(rand.NewSource(seed ^ fnv1a64(name)))
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// intBetween returns a uniform integer in [lo, hi].
func intBetween(rng *rand.Rand, lo, hi int) int64 {
	return int64(lo + rng.Intn(hi-lo+1))
}
