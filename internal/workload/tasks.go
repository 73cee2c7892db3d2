package workload

import (
	"fmt"
	"math/rand"

	"github.com/dreamware/shardbench/internal/config"
)

const (
	taskValueMin = 100
	taskValueMax = 2000
)

// Task is one pre-generated unit of work in queue mode.
type Task struct {
	Kind  Role
	Key   string
	Value int64
}

// GenerateTasks builds n tasks with kinds drawn according to weights, keys
// drawn from resource_1..resource_keySpace and values in [100, 2000].
func GenerateTasks(rng *rand.Rand, n int, weights config.Weights, keySpace int) []Task {
	total := weights.Total()
	tasks := make([]Task, n)
	for i := range tasks {
		pick := rng.Float64() * total
		kind := RoleHybrid
		switch {
		case pick < weights.Local:
			kind = RoleLocal
		case pick < weights.Local+weights.Critical:
			kind = RoleCritical
		}
		tasks[i] = Task{
			Kind:  kind,
			Key:   fmt.Sprintf("resource_%d", 1+rng.Intn(keySpace)),
			Value: intBetween(rng, taskValueMin, taskValueMax),
		}
	}
	return tasks
}

// Execute runs one task. Local tasks flip a coin on rng to choose between a
// write and a read.
func Execute(ops Operations, task Task, rng *rand.Rand) {
	switch task.Kind {
	case RoleLocal:
		if rng.Float64() < 0.5 {
			ops.LocalWrite(task.Key, task.Value)
		} else {
			ops.LocalRead(task.Key)
		}
	case RoleCritical:
		ops.CriticalUpdate(task.Value)
	case RoleHybrid:
		ops.HybridOperation(task.Key, task.Value)
	}
}
