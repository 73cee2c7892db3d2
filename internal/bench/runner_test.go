package bench

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/shardbench/internal/config"
	"github.com/dreamware/shardbench/internal/metrics"
	"github.com/dreamware/shardbench/internal/workload"
)

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.MaxDelay = 0
	return cfg
}

func newTestRunner(t *testing.T, cfg config.Config) *Runner {
	t.Helper()
	r, err := NewRunner(cfg, WithLogger(quietLogger()), WithDelay(workload.NoDelay))
	require.NoError(t, err)
	return r
}

func TestPartition(t *testing.T) {
	count := func(slots []Slot) map[workload.Role]int {
		out := map[workload.Role]int{}
		for _, s := range slots {
			out[s.Role]++
		}
		return out
	}

	tests := []struct {
		threads                 int
		local, critical, hybrid int
	}{
		{1, 0, 0, 1},
		{2, 0, 0, 2},
		{3, 1, 1, 1},
		{4, 1, 1, 2},
		{8, 2, 2, 4},
		{64, 21, 21, 22},
	}

	for _, tt := range tests {
		slots := Partition(tt.threads)
		require.Len(t, slots, tt.threads)

		got := count(slots)
		assert.Equal(t, tt.local, got[workload.RoleLocal], "threads=%d local", tt.threads)
		assert.Equal(t, tt.critical, got[workload.RoleCritical], "threads=%d critical", tt.threads)
		assert.Equal(t, tt.hybrid, got[workload.RoleHybrid], "threads=%d hybrid", tt.threads)
	}

	t.Run("hybrid ids are unique", func(t *testing.T) {
		seen := map[int]bool{}
		for _, s := range Partition(8) {
			if s.Role != workload.RoleHybrid {
				continue
			}
			assert.False(t, seen[s.ID], "duplicate hybrid id %d", s.ID)
			seen[s.ID] = true
		}
	})
}

func TestNewRunnerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Shards = 0

	_, err := NewRunner(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid benchmark config")
}

func TestRunHybridOnlyIsConsistent(t *testing.T) {
	r := newTestRunner(t, testConfig())

	// one and two threads partition into hybrid workers only
	for _, threads := range []int{1, 2} {
		res, err := r.Run(context.Background(), threads)
		require.NoError(t, err)

		assert.Equal(t, int64(0), res.Difference, "threads=%d", threads)
		assert.Equal(t, res.GlobalCounter, res.TotalLocalSum)
		assert.Positive(t, res.GlobalCounter)
		assert.Equal(t, int64(threads*5), res.Writes)
		assert.Equal(t, int64(threads*5), res.Increments)
		assert.Equal(t, threads*5, res.Operations)
	}
}

func TestRunPartitioned(t *testing.T) {
	r := newTestRunner(t, testConfig())

	res, err := r.Run(context.Background(), 6)
	require.NoError(t, err)

	assert.Equal(t, 6, res.Threads)
	assert.Equal(t, 4, res.Shards)
	assert.Equal(t, config.ModePartitioned, res.Mode)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 30, res.Operations)
	assert.Len(t, res.ShardSnapshots, 4)

	// 2 local + 2 critical + 2 hybrid workers, 5 iterations each
	assert.Equal(t, int64(20), res.Increments)
	assert.Equal(t, int64(40), res.Reads+res.Writes+res.Increments)

	// the difference is exactly the critical updates minus the plain local writes
	var userSum int64
	for _, data := range res.ShardSnapshots {
		for k, v := range data {
			if strings.HasPrefix(k, "user_") {
				userSum += v
			}
		}
	}
	assert.Equal(t, int64(10)-userSum, res.Difference)
}

func TestRunReproducible(t *testing.T) {
	cfg := testConfig()

	a, err := newTestRunner(t, cfg).Run(context.Background(), 5)
	require.NoError(t, err)
	b, err := newTestRunner(t, cfg).Run(context.Background(), 5)
	require.NoError(t, err)

	// each worker owns its RNG stream, so totals match run to run
	assert.Equal(t, a.GlobalCounter, b.GlobalCounter)
	assert.Equal(t, a.TotalLocalSum, b.TotalLocalSum)
	assert.Equal(t, a.ShardSnapshots, b.ShardSnapshots)
}

func TestRunQueue(t *testing.T) {
	t.Run("hybrid-only tasks are consistent", func(t *testing.T) {
		cfg := testConfig()
		cfg.Mode = config.ModeQueue
		cfg.Operations = 300
		cfg.Weights = config.Weights{Hybrid: 1}

		res, err := newTestRunner(t, cfg).Run(context.Background(), 8)
		require.NoError(t, err)
		assert.Equal(t, 300, res.Operations)
		assert.Equal(t, int64(0), res.Difference)
		assert.Equal(t, int64(300), res.Writes)
		assert.Equal(t, int64(300), res.Increments)
	})

	t.Run("same work at every thread count", func(t *testing.T) {
		cfg := testConfig()
		cfg.Mode = config.ModeQueue
		cfg.Operations = 200
		cfg.Weights = config.Weights{Critical: 1, Hybrid: 1}
		cfg.ThreadCounts = []int{1, 4, 16}

		results, err := newTestRunner(t, cfg).Sweep(context.Background())
		require.NoError(t, err)
		require.Len(t, results, 3)

		for _, res := range results[1:] {
			assert.Equal(t, results[0].GlobalCounter, res.GlobalCounter)
			assert.Equal(t, results[0].TotalLocalSum, res.TotalLocalSum)
		}
	})
}

func TestSweep(t *testing.T) {
	cfg := testConfig()
	cfg.ThreadCounts = []int{1, 3, 9}
	r := newTestRunner(t, cfg)

	results, err := r.Sweep(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, threads := range cfg.ThreadCounts {
		assert.Equal(t, threads, results[i].Threads)
	}

	var buf strings.Builder
	require.NoError(t, metrics.WriteText(&buf, r.Gatherer()))
	assert.Contains(t, buf.String(), "shardbench_run_duration_seconds_count 3")
}

func TestSweepCanceled(t *testing.T) {
	r := newTestRunner(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := r.Sweep(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestRunRejectsNonPositiveThreads(t *testing.T) {
	r := newTestRunner(t, testConfig())
	_, err := r.Run(context.Background(), 0)
	assert.Error(t, err)
}

func TestRunWithMonitor(t *testing.T) {
	cfg := testConfig()
	cfg.SampleInterval = time.Millisecond
	res, err := newTestRunner(t, cfg).Run(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Threads)
}
