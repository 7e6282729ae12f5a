package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/utkarsh5026/poolbench/internal/bench"
	"github.com/utkarsh5026/poolbench/internal/config"
	"github.com/utkarsh5026/poolbench/internal/report"
)

// app holds the process streams and the chart display so tests can swap them.
type app struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	newDisplay func(chartFile string) report.Display
}

func defaultApp() *app {
	return &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		newDisplay: func(chartFile string) report.Display {
			return report.NewBrowserDisplay(chartFile)
		},
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poolbench",
		Short: "Compare a goroutine pool with a process pool",
		Long: `poolbench runs io_heavy and cpu_heavy tasks through a goroutine pool
(multithread) and a process pool (multiprocessor) at several pool sizes,
prints the mean time per evaluation and opens a bar chart of the results.

Every flag can also be set through a POOLBENCH_* environment variable
(e.g. POOLBENCH_REPETITIONS=3) or a YAML file passed with --config.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), cmd.Flags())
		},
	}
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().String("cpuprofile", "", "write a CPU profile of the sweep to this file")
	cmd.Flags().String("memprofile", "", "write a heap profile to this file on exit")
	return cmd
}

func (a *app) run(ctx context.Context, flags *pflag.FlagSet) (err error) {
	settings, err := config.Load(flags)
	if err != nil {
		return err
	}
	logger := newLogger(a.stderr, settings.Verbose)
	cfg := settings.Bench

	if path, _ := flags.GetString("cpuprofile"); path != "" {
		stop, err := startCPUProfile(path)
		if err != nil {
			return err
		}
		defer stop()
		logger.Info("cpu profiling enabled", "file", path)
	}
	if path, _ := flags.GetString("memprofile"); path != "" {
		defer func() {
			if werr := writeHeapProfile(path); werr != nil && err == nil {
				err = werr
			}
		}()
	}

	a.printHeader(cfg)

	evaluator := bench.NewEvaluator(cfg.Tasks, cfg.Params, bench.WithWorkerStderr(a.stderr))
	driver := bench.NewDriver(cfg, evaluator,
		bench.WithLogger(logger),
		bench.WithProgress(a.stderr),
		bench.WithOutput(a.stdout),
	)

	samples, err := driver.Run(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(a.stdout)
	reporter := report.NewReporter(a.stdout, a.display(settings.ChartFile), logger)
	return reporter.Report(ctx, samples)
}

func (a *app) display(chartFile string) report.Display {
	if a.newDisplay == nil {
		return nil
	}
	return a.newDisplay(chartFile)
}

func (a *app) printHeader(cfg bench.Config) {
	_, _ = bold.Fprintln(a.stdout, "═══════════════════════════════════════════════════════════")
	_, _ = bold.Fprintln(a.stdout, "POOL BENCHMARK: multithread vs multiprocessor")
	_, _ = bold.Fprintln(a.stdout, "═══════════════════════════════════════════════════════════")
	_, _ = fmt.Fprintf(a.stdout, "  CPUs: %d | Configurations: %d | Repetitions: %d | Tasks: %d\n\n",
		runtime.NumCPU(), len(cfg.Configurations()), cfg.Repetitions, cfg.Tasks)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
