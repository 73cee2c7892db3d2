package bench

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	return &Result{
		RunID:         "run-1",
		Mode:          "partitioned",
		Threads:       8,
		Shards:        2,
		Elapsed:       1500 * time.Millisecond,
		Operations:    40,
		Throughput:    26.67,
		GlobalCounter: 280,
		TotalLocalSum: 280,
		Reads:         3,
		Writes:        40,
		CPUPercent:    42.5,
		ShardSnapshots: []map[string]int64{
			{"r": 280, "b": 1, "a": 2},
			{},
		},
	}
}

func TestReportText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Report(&buf, []*Result{sampleResult()}, FormatText))

	out := buf.String()
	assert.Contains(t, out, "Test with 8 threads completed in 1.5000 seconds\n")
	assert.Contains(t, out, "Final Global Counter = 280\n")
	assert.Contains(t, out, "Total Local Sum = 280\n")
	assert.Contains(t, out, "Difference = 0\n")
	assert.Contains(t, out, "Write Conflicts: 0, CPU: 42.5%\n")
	assert.Contains(t, out, "Shard 0: {a: 2, b: 1, r: 280}\n")
	assert.Contains(t, out, "Shard 1: {}\n")
	assert.Contains(t, out, "Total Reads: 3, Total Writes: 40\n")
	assert.Contains(t, out, "----------------------------------------\n")
}

func TestReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Report(&buf, []*Result{sampleResult()}, FormatJSON))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "run-1", decoded[0]["run_id"])
	assert.Equal(t, float64(280), decoded[0]["global_counter"])
	assert.Equal(t, 42.5, decoded[0]["cpu_percent"])
}

func TestFormatShard(t *testing.T) {
	tests := []struct {
		name     string
		data     map[string]int64
		expected string
	}{
		{"empty", map[string]int64{}, "{}"},
		{"nil", nil, "{}"},
		{"single", map[string]int64{"a": 150}, "{a: 150}"},
		{"sorted keys", map[string]int64{"user_3": 1, "resource_10": -2, "resource_1": 3}, "{resource_1: 3, resource_10: -2, user_3: 1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatShard(tt.data))
		})
	}
}

func TestReportUnknownFormat(t *testing.T) {
	err := Report(&bytes.Buffer{}, nil, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report format")
}
