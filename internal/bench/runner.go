package bench

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/sirupsen/logrus"

	"github.com/dreamware/shardbench/internal/config"
	"github.com/dreamware/shardbench/internal/coordinator"
	"github.com/dreamware/shardbench/internal/metrics"
	"github.com/dreamware/shardbench/internal/workload"
)

// Result is what one run at one thread count measured.
type Result struct {
	RunID          string             `json:"run_id"`
	Mode           string             `json:"mode"`
	Threads        int                `json:"threads"`
	Shards         int                `json:"shards"`
	Elapsed        time.Duration      `json:"elapsed_ns"`
	Operations     int                `json:"operations"`
	Throughput     float64            `json:"throughput_ops_per_sec"`
	GlobalCounter  int64              `json:"global_counter"`
	TotalLocalSum  int64              `json:"total_local_sum"`
	Difference     int64              `json:"difference"`
	Reads          int64              `json:"reads"`
	Writes         int64              `json:"writes"`
	Conflicts      int64              `json:"write_conflicts"`
	Increments     int64              `json:"increments"`
	AvgLockWait    time.Duration      `json:"avg_lock_wait_ns"`
	CPUPercent     float64            `json:"cpu_percent"`
	ShardSnapshots []map[string]int64 `json:"shards_data"`
}

// Slot is one worker position in a partitioned run.
type Slot struct {
	ID   int
	Role workload.Role
}

// Partition splits threads between the three generators: threads/3 local,
// threads/3 critical, threads/3 hybrid, and any remainder as extra hybrid
// workers. Extra hybrid workers take their position in the list as ID so
// their keys never collide with the first group.
func Partition(threads int) []Slot {
	per := threads / 3
	slots := make([]Slot, 0, threads)
	for _, role := range []workload.Role{workload.RoleLocal, workload.RoleCritical, workload.RoleHybrid} {
		for i := 0; i < per; i++ {
			slots = append(slots, Slot{ID: i, Role: role})
		}
	}
	for len(slots) < threads {
		slots = append(slots, Slot{ID: len(slots), Role: workload.RoleHybrid})
	}
	return slots
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the logger used for run progress
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// WithDelay overrides the pause between partitioned-mode operations.
// By default it is a random pause up to the configured max_delay.
func WithDelay(d workload.Delay) Option {
	return func(r *Runner) {
		r.delay = d
	}
}

// Runner drives benchmark runs for one configuration. Each run gets a fresh
// coordinator; metrics accumulate in the runner's registry across a sweep.
type Runner struct {
	cfg      config.Config
	log      logrus.FieldLogger
	delay    workload.Delay
	registry *prometheus.Registry
	metrics  *metrics.Collector
}

// NewRunner validates cfg and prepares a runner.
func NewRunner(cfg config.Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid benchmark config")
	}

	registry := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(registry)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:      cfg,
		log:      logrus.StandardLogger(),
		delay:    workload.RandomDelay(cfg.MaxDelay),
		registry: registry,
		metrics:  collector,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Gatherer exposes the runner's metrics registry
func (r *Runner) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Sweep runs once per configured thread count, in order.
func (r *Runner) Sweep(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, 0, len(r.cfg.ThreadCounts))
	for _, threads := range r.cfg.ThreadCounts {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := r.Run(ctx, threads)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Run executes one benchmark run with the given number of workers.
//
// All workers are started together and joined before any counter is read.
// Workers are never canceled: ctx only bounds the progress monitor and is
// checked before the run starts.
func (r *Runner) Run(ctx context.Context, threads int) (*Result, error) {
	if threads <= 0 {
		return nil, errors.Errorf("threads must be positive, got %d", threads)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	coord, err := coordinator.New(r.cfg.Shards, coordinator.WithMetrics(r.metrics))
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := r.log.WithFields(logrus.Fields{"run_id": runID, "threads": threads, "mode": r.cfg.Mode})
	log.Debug("starting run")

	var mon *Monitor
	if r.cfg.SampleInterval > 0 {
		mon = NewMonitor(r.cfg.SampleInterval, coord, log)
		mon.Start(ctx)
	}

	cpuBefore, cpuErr := readCPUTimes()
	start := time.Now()
	var ops int
	switch r.cfg.Mode {
	case config.ModeQueue:
		ops = r.runQueue(coord, threads)
	default:
		ops = r.runPartitioned(coord, threads)
	}
	elapsed := time.Since(start)

	var cpuPercent float64
	if cpuErr == nil {
		var cpuAfter cpu.TimesStat
		if cpuAfter, cpuErr = readCPUTimes(); cpuErr == nil {
			cpuPercent = busyPercent(cpuBefore, cpuAfter)
		}
	}
	if cpuErr != nil {
		log.WithError(cpuErr).Debug("cpu usage unavailable")
	}

	if mon != nil {
		mon.Stop()
	}
	r.metrics.ObserveRun(elapsed)

	res := collect(coord, runID, r.cfg.Mode, threads, ops, elapsed)
	res.CPUPercent = cpuPercent
	log.WithFields(logrus.Fields{
		"elapsed":    elapsed,
		"difference": res.Difference,
		"throughput": fmt.Sprintf("%.2f", res.Throughput),
		"cpu":        fmt.Sprintf("%.1f%%", res.CPUPercent),
	}).Info("run complete")
	return res, nil
}

// runPartitioned starts one goroutine per slot behind a start barrier and
// waits for all of them.
func (r *Runner) runPartitioned(coord *coordinator.Coordinator, threads int) int {
	slots := Partition(threads)
	workers := make([]*workload.Worker, len(slots))
	for i, s := range slots {
		workers[i] = workload.NewWorker(s.ID, s.Role, r.cfg.Iterations, r.cfg.Seed, r.delay)
	}

	begin := make(chan struct{})
	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(w *workload.Worker) {
			defer wg.Done()
			<-begin
			w.Run(coord)
		}(w)
	}
	close(begin)
	wg.Wait()

	return len(workers) * r.cfg.Iterations
}

// runQueue pre-generates the task list, then lets threads workers drain it.
// The task list depends only on the seed, so every thread count in a sweep
// executes the same work.
func (r *Runner) runQueue(coord *coordinator.Coordinator, threads int) int {
	tasks := workload.GenerateTasks(
		workload.NewRNG(r.cfg.Seed, workload.StreamTasks),
		r.cfg.Operations, r.cfg.Weights, r.cfg.KeySpace)

	queue := make(chan workload.Task, len(tasks))
	for _, t := range tasks {
		queue <- t
	}
	close(queue)

	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			rng := workload.NewRNG(r.cfg.Seed, fmt.Sprintf("queue_%d", id))
			for t := range queue {
				workload.Execute(coord, t, rng)
			}
		}(i)
	}
	wg.Wait()

	return len(tasks)
}

// collect reads every counter after the workers have joined.
func collect(coord *coordinator.Coordinator, runID, mode string, threads, ops int, elapsed time.Duration) *Result {
	stats := coord.Stats()
	global := coord.GlobalCounterValue()
	local := coord.TotalLocalSum()

	res := &Result{
		RunID:          runID,
		Mode:           mode,
		Threads:        threads,
		Shards:         coord.ShardCount(),
		Elapsed:        elapsed,
		Operations:     ops,
		GlobalCounter:  global,
		TotalLocalSum:  local,
		Difference:     global - local,
		Reads:          stats.Reads,
		Writes:         stats.Writes,
		Conflicts:      stats.Conflicts,
		Increments:     stats.Increments,
		ShardSnapshots: coord.ShardSnapshots(),
	}
	if elapsed > 0 {
		res.Throughput = float64(ops) / elapsed.Seconds()
	}
	if ops > 0 {
		res.AvgLockWait = stats.LockWait / time.Duration(ops)
	}
	return res
}
