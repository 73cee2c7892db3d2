package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Report formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Report writes results to w in the given format.
func Report(w io.Writer, results []*Result, format string) error {
	switch format {
	case FormatText, "":
		for _, res := range results {
			if err := writeText(w, res); err != nil {
				return errors.Wrap(err, "write text report")
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(results), "write json report")
	default:
		return errors.Errorf("unknown report format %q; valid: %s, %s", format, FormatText, FormatJSON)
	}
}

func writeText(w io.Writer, res *Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Test with %d threads completed in %.4f seconds\n", res.Threads, res.Elapsed.Seconds())
	fmt.Fprintf(&b, "Final Global Counter = %d\n", res.GlobalCounter)
	fmt.Fprintf(&b, "Total Local Sum = %d\n", res.TotalLocalSum)
	fmt.Fprintf(&b, "Difference = %d\n", res.Difference)
	fmt.Fprintf(&b, "Throughput: %.2f ops/s, Avg Lock Wait: %s, Write Conflicts: %d, CPU: %.1f%%\n",
		res.Throughput, res.AvgLockWait, res.Conflicts, res.CPUPercent)
	b.WriteString("Final Local Data:\n")
	for i, data := range res.ShardSnapshots {
		fmt.Fprintf(&b, "Shard %d: %s\n", i, formatShard(data))
	}
	fmt.Fprintf(&b, "Total Reads: %d, Total Writes: %d\n", res.Reads, res.Writes)
	b.WriteString(strings.Repeat("-", 40) + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// formatShard renders a shard's contents with keys in sorted order.
func formatShard(data map[string]int64) string {
	keys := maps.Keys(data)
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %d", k, data[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
