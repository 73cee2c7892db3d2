// Package config holds the benchmark configuration and its YAML loader.
package config

import (
	"bytes"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Workload modes
const (
	// ModePartitioned splits the threads evenly between the local, critical
	// and hybrid generators, each running a fixed iteration count.
	ModePartitioned = "partitioned"
	// ModeQueue pre-generates a weighted task list that every worker drains.
	ModeQueue = "queue"
)

// Weights gives the relative share of each task kind in queue mode.
type Weights struct {
	Local    float64 `yaml:"local"`
	Critical float64 `yaml:"critical"`
	Hybrid   float64 `yaml:"hybrid"`
}

// Total returns the sum of the three weights
func (w Weights) Total() float64 {
	return w.Local + w.Critical + w.Hybrid
}

// Config is the top-level benchmark configuration.
// Loaded from YAML via Load(path) and overridden by CLI flags.
type Config struct {
	Shards         int           `yaml:"shards"`
	ThreadCounts   []int         `yaml:"thread_counts"`
	Iterations     int           `yaml:"iterations"`
	MaxDelay       time.Duration `yaml:"max_delay"`
	Seed           int64         `yaml:"seed"`
	Mode           string        `yaml:"mode"`
	Operations     int           `yaml:"operations"`
	Weights        Weights       `yaml:"weights"`
	KeySpace       int           `yaml:"key_space"`
	SampleInterval time.Duration `yaml:"sample_interval"`
}

// Default returns the configuration the original benchmark ran with.
func Default() Config {
	return Config{
		Shards:       4,
		ThreadCounts: []int{1, 2, 4, 8, 16, 32, 64},
		Iterations:   5,
		MaxDelay:     100 * time.Millisecond,
		Seed:         42,
		Mode:         ModePartitioned,
		Operations:   1000,
		Weights:      Weights{Local: 0.4, Critical: 0.2, Hybrid: 0.4},
		KeySpace:     10,
	}
}

// Load reads a YAML file on top of Default. Unknown fields are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing config")
	}
	return cfg, nil
}

// Validate checks that all fields are usable for a sweep.
func (c Config) Validate() error {
	if c.Shards <= 0 {
		return errors.Errorf("shards must be positive, got %d", c.Shards)
	}
	if len(c.ThreadCounts) == 0 {
		return errors.New("at least one thread count required")
	}
	for i, n := range c.ThreadCounts {
		if n <= 0 {
			return errors.Errorf("thread_counts[%d] must be positive, got %d", i, n)
		}
	}
	if c.MaxDelay < 0 {
		return errors.Errorf("max_delay must not be negative, got %s", c.MaxDelay)
	}
	if c.SampleInterval < 0 {
		return errors.Errorf("sample_interval must not be negative, got %s", c.SampleInterval)
	}

	switch c.Mode {
	case ModePartitioned:
		if c.Iterations <= 0 {
			return errors.Errorf("iterations must be positive, got %d", c.Iterations)
		}
	case ModeQueue:
		if c.Operations <= 0 {
			return errors.Errorf("operations must be positive, got %d", c.Operations)
		}
		if c.KeySpace <= 0 {
			return errors.Errorf("key_space must be positive, got %d", c.KeySpace)
		}
		w := c.Weights
		if w.Local < 0 || w.Critical < 0 || w.Hybrid < 0 || w.Total() <= 0 {
			return errors.Errorf("weights must be non-negative with a positive total, got %+v", w)
		}
	default:
		return errors.Errorf("unknown mode %q; valid: %s, %s", c.Mode, ModePartitioned, ModeQueue)
	}
	return nil
}
