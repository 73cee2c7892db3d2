package bench

import (
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/cpu"
)

var errNoCPUTimes = errors.New("no cpu times reported")

// readCPUTimes returns the aggregate CPU times of the host. Replaced in tests.
var readCPUTimes = func() (cpu.TimesStat, error) {
	times, err := cpu.Times(false)
	if err != nil {
		return cpu.TimesStat{}, err
	}
	if len(times) == 0 {
		return cpu.TimesStat{}, errNoCPUTimes
	}
	return times[0], nil
}

// busyPercent returns the share of CPU time spent busy between two readings,
// in [0, 100]. Zero when no time elapsed between them.
func busyPercent(before, after cpu.TimesStat) float64 {
	total := cpuTotal(after) - cpuTotal(before)
	if total <= 0 {
		return 0
	}
	idle := (after.Idle + after.Iowait) - (before.Idle + before.Iowait)
	busy := total - idle
	switch {
	case busy <= 0:
		return 0
	case busy >= total:
		return 100
	}
	return busy / total * 100
}

// cpuTotal sums every accounted state. Guest time is already part of User on
// Linux and is left out.
func cpuTotal(t cpu.TimesStat) float64 {
	return t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
}
