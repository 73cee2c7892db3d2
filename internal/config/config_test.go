package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4, cfg.Shards)
	assert.Equal(t, []int{1, 2, 4, 8, 16, 32, 64}, cfg.ThreadCounts)
	assert.Equal(t, 5, cfg.Iterations)
	assert.Equal(t, 100*time.Millisecond, cfg.MaxDelay)
	assert.Equal(t, ModePartitioned, cfg.Mode)
	assert.InDelta(t, 1.0, cfg.Weights.Total(), 1e-9)
}

func TestLoad(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		path := writeFile(t, `
shards: 8
thread_counts: [3, 6]
max_delay: 5ms
mode: queue
operations: 200
weights:
  local: 1
  critical: 0
  hybrid: 1
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, 8, cfg.Shards)
		assert.Equal(t, []int{3, 6}, cfg.ThreadCounts)
		assert.Equal(t, 5*time.Millisecond, cfg.MaxDelay)
		assert.Equal(t, ModeQueue, cfg.Mode)
		assert.Equal(t, 200, cfg.Operations)
		assert.Equal(t, Weights{Local: 1, Critical: 0, Hybrid: 1}, cfg.Weights)
		// untouched fields keep their defaults
		assert.Equal(t, 5, cfg.Iterations)
		assert.Equal(t, int64(42), cfg.Seed)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		path := writeFile(t, "shardz: 3\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing config")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero shards", func(c *Config) { c.Shards = 0 }, "shards must be positive"},
		{"negative shards", func(c *Config) { c.Shards = -1 }, "shards must be positive"},
		{"no thread counts", func(c *Config) { c.ThreadCounts = nil }, "thread count"},
		{"bad thread count", func(c *Config) { c.ThreadCounts = []int{1, 0} }, "thread_counts[1]"},
		{"negative delay", func(c *Config) { c.MaxDelay = -time.Second }, "max_delay"},
		{"negative sample interval", func(c *Config) { c.SampleInterval = -time.Second }, "sample_interval"},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }, "iterations"},
		{"unknown mode", func(c *Config) { c.Mode = "burst" }, "unknown mode"},
		{"queue without operations", func(c *Config) { c.Mode = ModeQueue; c.Operations = 0 }, "operations"},
		{"queue without keys", func(c *Config) { c.Mode = ModeQueue; c.KeySpace = 0 }, "key_space"},
		{"queue zero weights", func(c *Config) { c.Mode = ModeQueue; c.Weights = Weights{} }, "weights"},
		{"queue negative weight", func(c *Config) {
			c.Mode = ModeQueue
			c.Weights = Weights{Local: 2, Critical: -1}
		}, "weights"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
