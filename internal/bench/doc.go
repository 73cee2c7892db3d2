// Package bench drives the thread-count sweep over a coordinator and turns
// each run into a Result.
//
// # Runs
//
// Every run gets a fresh coordinator so no state leaks between thread
// counts. Two workload shapes are supported:
//
//   - partitioned: threads are split into local, critical and hybrid
//     workers (see Partition), each running a fixed number of iterations
//     with an optional random pause after each one.
//   - queue: a seeded, weighted task list is generated once and drained by
//     the workers through a closed channel, so every thread count does the
//     same work.
//
// Workers are released together through a start barrier and the run ends
// when the last one returns. There is no cancellation inside a run; the
// context is checked between runs.
//
// # Monitoring
//
// When a sample interval is configured, a Monitor polls the coordinator's
// counters while workers are active and logs progress. Values observed
// mid-run are weakly consistent; only the figures taken after all workers
// have joined are meaningful for the consistency check.
//
// # Reporting
//
// Report writes results either as the plain text summary or as JSON.
package bench
