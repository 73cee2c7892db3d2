// Package metrics exposes Prometheus collectors for shardbench operations.
//
// Every benchmark run owns its own registry so back-to-back runs in a sweep
// (and parallel tests) never collide on registration.
package metrics

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Operation labels
const (
	OpLocalWrite     = "local_write"
	OpLocalRead      = "local_read"
	OpCriticalUpdate = "critical_update"
	OpHybrid         = "hybrid"
)

// Collector groups the collectors one run reports into.
type Collector struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
	elapsed  prometheus.Histogram
}

// NewCollector builds the collectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shardbench",
				Name:      "ops_total",
				Help:      "Counter of operations issued against the coordinator.",
			}, []string{"op"}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shardbench",
				Name:      "op_duration_seconds",
				Help:      "Bucketed histogram of time (s) spent in an operation, lock wait included.",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 12),
			}, []string{"op"}),
		elapsed: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "shardbench",
				Name:      "run_duration_seconds",
				Help:      "Wall-clock duration (s) of benchmark runs.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
			}),
	}

	for _, col := range []prometheus.Collector{c.ops, c.duration, c.elapsed} {
		if err := reg.Register(col); err != nil {
			return nil, errors.Wrap(err, "register collector")
		}
	}
	return c, nil
}

// ObserveOp counts one operation and records how long it took
func (c *Collector) ObserveOp(op string, d time.Duration) {
	c.ops.WithLabelValues(op).Inc()
	c.duration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveRun records the wall-clock duration of one run
func (c *Collector) ObserveRun(d time.Duration) {
	c.elapsed.Observe(d.Seconds())
}

// WriteText dumps every metric family gathered from g in the Prometheus
// text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrapf(err, "write metric family %s", mf.GetName())
		}
	}
	return nil
}
