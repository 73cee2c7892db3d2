package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dreamware/shardbench/internal/bench"
	"github.com/dreamware/shardbench/internal/config"
	"github.com/dreamware/shardbench/internal/metrics"
)

// runFlags holds the CLI flags of the run command
type runFlags struct {
	configPath     string        // YAML config file
	shards         int           // Shards per store
	threads        []int         // Thread counts to sweep
	iterations     int           // Operations per worker in partitioned mode
	maxDelay       time.Duration // Max pause between operations
	seed           int64         // Seed for every worker RNG stream
	mode           string        // partitioned or queue
	operations     int           // Task count in queue mode
	sampleInterval time.Duration // Progress sampling interval, 0 disables
	format         string        // Report format
	printMetrics   bool          // Dump Prometheus metrics after the report
	logLevel       string        // Log verbosity level
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shardbench",
		Short:         "Concurrency micro-benchmark for a sharded accumulator and a global counter",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newRunCmd())
	return rootCmd
}

// newRunCmd builds the run subcommand
func newRunCmd() *cobra.Command {
	flags := &runFlags{}
	defaults := config.Default()

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the thread-count sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(flags.logLevel)
			if err != nil {
				return errors.Errorf("invalid log level: %s", flags.logLevel)
			}
			logrus.SetLevel(level)

			cfg, err := buildConfig(cmd, flags)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runBenchmark(ctx, cfg, cmd.OutOrStdout(), flags.format, flags.printMetrics)
		},
	}

	f := runCmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "Path to a YAML benchmark config")
	f.IntVar(&flags.shards, "shards", defaults.Shards, "Number of shards in the store")
	f.IntSliceVar(&flags.threads, "threads", defaults.ThreadCounts, "Comma-separated thread counts to sweep")
	f.IntVar(&flags.iterations, "iterations", defaults.Iterations, "Operations per worker (partitioned mode)")
	f.DurationVar(&flags.maxDelay, "max-delay", defaults.MaxDelay, "Max random pause between operations (partitioned mode)")
	f.Int64Var(&flags.seed, "seed", defaults.Seed, "Seed for worker random streams")
	f.StringVar(&flags.mode, "mode", defaults.Mode, "Workload mode (partitioned, queue)")
	f.IntVar(&flags.operations, "operations", defaults.Operations, "Number of tasks (queue mode)")
	f.DurationVar(&flags.sampleInterval, "sample-interval", defaults.SampleInterval, "Progress sampling interval, 0 disables")
	f.StringVar(&flags.format, "format", bench.FormatText, "Report format (text, json)")
	f.BoolVar(&flags.printMetrics, "metrics", false, "Print Prometheus metrics after the report")
	f.StringVar(&flags.logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	return runCmd
}

// buildConfig starts from the defaults, applies the config file when given
// and then every flag the user set explicitly.
func buildConfig(cmd *cobra.Command, flags *runFlags) (config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("shards") {
		cfg.Shards = flags.shards
	}
	if changed("threads") {
		cfg.ThreadCounts = flags.threads
	}
	if changed("iterations") {
		cfg.Iterations = flags.iterations
	}
	if changed("max-delay") {
		cfg.MaxDelay = flags.maxDelay
	}
	if changed("seed") {
		cfg.Seed = flags.seed
	}
	if changed("mode") {
		cfg.Mode = flags.mode
	}
	if changed("operations") {
		cfg.Operations = flags.operations
	}
	if changed("sample-interval") {
		cfg.SampleInterval = flags.sampleInterval
	}

	return cfg, cfg.Validate()
}

// runBenchmark sweeps cfg and writes the report (and optionally the
// metrics) to out.
func runBenchmark(ctx context.Context, cfg config.Config, out io.Writer, format string, printMetrics bool) error {
	if format != bench.FormatText && format != bench.FormatJSON {
		return errors.Errorf("unknown report format %q; valid: %s, %s", format, bench.FormatText, bench.FormatJSON)
	}

	runner, err := bench.NewRunner(cfg)
	if err != nil {
		return err
	}

	logrus.Infof("Starting sweep with %d shards, threads=%v, mode=%s, seed=%d",
		cfg.Shards, cfg.ThreadCounts, cfg.Mode, cfg.Seed)

	results, err := runner.Sweep(ctx)
	if err != nil {
		return errors.Wrap(err, "sweep")
	}

	if err := bench.Report(out, results, format); err != nil {
		return err
	}
	if printMetrics {
		return metrics.WriteText(out, runner.Gatherer())
	}
	return nil
}
