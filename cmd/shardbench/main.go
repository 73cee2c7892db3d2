// Package main implements the shardbench command, which sweeps a sharded
// accumulator and a globally-locked counter across increasing worker counts
// and reports throughput and the post-run consistency check.
//
// For each thread count the command builds a fresh coordinator, starts every
// worker together, waits for all of them and then prints:
//   - Wall-clock time and throughput
//   - Final global counter and total local sum
//   - Their difference (zero for hybrid-only workloads)
//   - Per-shard contents and read/write counts
//
// Example usage:
//
//	# Original sweep: 1..64 threads, 4 shards, 5 iterations per worker
//	shardbench run
//
//	# Task-queue variant, no pauses, JSON output
//	shardbench run --mode queue --operations 1000 --max-delay 0 --format json
//
//	# Settings from a file, one flag overridden
//	shardbench run --config bench.yaml --threads 8,16
package main

import "github.com/sirupsen/logrus"

// logFatal is a variable to allow mocking logrus.Fatalf in tests.
var logFatal = logrus.Fatalf

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logFatal("%v", err)
	}
}
