package storage

import (
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Store defines the interface for an accumulating key-value partition.
// All implementations must be thread-safe for concurrent access.
type Store interface {
	// Add merges delta into the value for key, creating it when absent.
	// Reports whether the key already existed before the merge.
	Add(key string, delta int64) bool

	// Get returns the accumulated value for key.
	// The boolean is false when the key has never been written.
	Get(key string) (int64, bool)

	// Sum returns the sum of every value in the store
	Sum() int64

	// List returns all keys in the store
	// Order is not guaranteed
	List() []string

	// Snapshot returns a copy of the store contents
	Snapshot() map[string]int64

	// Stats returns storage statistics
	Stats() StoreStats
}

// StoreStats contains statistics about the store
type StoreStats struct {
	Keys      int           // Number of keys
	Sum       int64         // Sum of all accumulated values
	Adds      int64         // Number of Add calls
	Conflicts int64         // Adds that hit an existing key
	LockWait  time.Duration // Cumulative time spent waiting for the lock
}

// MemoryStore implements Store with an in-memory map.
// A single sync.Mutex guards the map; reads take it exclusively too so
// every operation on a key is totally ordered by lock acquisition.
type MemoryStore struct {
	mu   sync.Mutex       // Protects data
	data map[string]int64 // Accumulated values

	adds      atomic.Int64
	conflicts atomic.Int64
	waitNanos atomic.Int64
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]int64),
	}
}

// lock acquires the mutex for Add and Get and records how long the caller
// waited for it. Aggregation paths lock without timing.
func (m *MemoryStore) lock() {
	start := time.Now()
	m.mu.Lock()
	m.waitNanos.Add(int64(time.Since(start)))
}

// Add merges delta into key using accumulate-by-sum semantics
func (m *MemoryStore) Add(key string, delta int64) bool {
	m.lock()
	defer m.mu.Unlock()

	current, existed := m.data[key]
	m.data[key] = current + delta

	m.adds.Inc()
	if existed {
		m.conflicts.Inc()
	}
	return existed
}

// Get retrieves the accumulated value for key
func (m *MemoryStore) Get(key string) (int64, bool) {
	m.lock()
	defer m.mu.Unlock()

	value, exists := m.data[key]
	return value, exists
}

// Sum adds up every value while holding this store's lock only
func (m *MemoryStore) Sum() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total int64
	for _, value := range m.data {
		total += value
	}
	return total
}

// List returns all keys in the store
func (m *MemoryStore) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}
	return keys
}

// Snapshot returns a copy of the contents to prevent external modification
func (m *MemoryStore) Snapshot() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]int64, len(m.data))
	for key, value := range m.data {
		out[key] = value
	}
	return out
}

// Stats returns storage statistics
func (m *MemoryStore) Stats() StoreStats {
	m.mu.Lock()
	keys := len(m.data)
	var total int64
	for _, value := range m.data {
		total += value
	}
	m.mu.Unlock()

	return StoreStats{
		Keys:      keys,
		Sum:       total,
		Adds:      m.adds.Load(),
		Conflicts: m.conflicts.Load(),
		LockWait:  time.Duration(m.waitNanos.Load()),
	}
}
