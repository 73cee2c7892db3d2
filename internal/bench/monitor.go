package bench

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dreamware/shardbench/internal/coordinator"
)

// StatsSource is what the monitor samples. *coordinator.Coordinator
// satisfies it.
type StatsSource interface {
	Stats() coordinator.Stats
	GlobalCounterValue() int64
	TotalLocalSum() int64
}

// Sample is one progress observation taken while workers are running.
// LocalSum is weakly consistent: shards are summed one lock at a time.
type Sample struct {
	At            time.Time         // When the sample was taken
	Stats         coordinator.Stats // Operation counters at that time
	GlobalCounter int64             // Global counter value
	LocalSum      int64             // Sum across shards
}

// Monitor samples a running coordinator at a fixed interval and logs
// progress. It never touches the workers; stopping it has no effect on the
// run itself.
// Thread-safe: All methods are safe for concurrent access.
type Monitor struct {
	source   StatsSource        // Coordinator under observation
	log      logrus.FieldLogger // Progress logger
	onSample func(Sample)       // Optional callback per sample
	ctx      context.Context    // Internal context for Stop
	cancel   context.CancelFunc // Cancel function for shutdown
	samples  []Sample           // Every sample taken so far
	interval time.Duration      // How often to sample
	mu       sync.RWMutex       // Protects samples
	wg       sync.WaitGroup     // Wait group for graceful shutdown
}

// NewMonitor creates a monitor that samples source every interval.
//
// Parameters:
//   - interval: How often to sample (must be > 0)
//   - source: The coordinator to observe
//   - log: Destination for progress lines (nil uses the logrus standard logger)
//
// Example:
//
//	mon := NewMonitor(100*time.Millisecond, coord, nil)
//	mon.Start(ctx)
//	defer mon.Stop()
func NewMonitor(interval time.Duration, source StatsSource, log logrus.FieldLogger) *Monitor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Monitor{
		source:   source,
		log:      log,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetOnSample sets a callback invoked synchronously with every sample.
// Must be called before Start.
func (m *Monitor) SetOnSample(callback func(Sample)) {
	m.onSample = callback
}

// Start launches the sampling goroutine and returns immediately. Sampling
// stops when ctx is canceled or Stop is called.
func (m *Monitor) Start(ctx context.Context) {
	m.wg.Add(1)
	go m.loop(ctx)
}

func (m *Monitor) loop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.log.Debugf("Progress monitor started with interval %v", m.interval)

	// Take an initial sample immediately
	m.sample()

	for {
		select {
		case <-ticker.C:
			m.sample()
		case <-ctx.Done():
			m.log.Debug("Progress monitor stopping due to context cancellation")
			return
		case <-m.ctx.Done():
			m.log.Debug("Progress monitor stopped")
			return
		}
	}
}

// Stop shuts the monitor down and waits for the sampling goroutine to exit.
// Safe to call more than once.
func (m *Monitor) Stop() {
	m.cancel()
	m.wg.Wait()
}

func (m *Monitor) sample() {
	s := Sample{
		At:            time.Now(),
		Stats:         m.source.Stats(),
		GlobalCounter: m.source.GlobalCounterValue(),
		LocalSum:      m.source.TotalLocalSum(),
	}

	m.mu.Lock()
	m.samples = append(m.samples, s)
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{
		"reads":          s.Stats.Reads,
		"writes":         s.Stats.Writes,
		"increments":     s.Stats.Increments,
		"global_counter": s.GlobalCounter,
		"local_sum":      s.LocalSum,
	}).Info("progress")

	if m.onSample != nil {
		m.onSample(s)
	}
}

// Samples returns a copy of every sample taken so far.
func (m *Monitor) Samples() []Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Sample, len(m.samples))
	copy(out, m.samples)
	return out
}

// Latest returns the most recent sample, or nil before the first one.
func (m *Monitor) Latest() *Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.samples) == 0 {
		return nil
	}
	s := m.samples[len(m.samples)-1]
	return &s
}
