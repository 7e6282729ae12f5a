package bench

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/utkarsh5026/poolbench/internal/rusage"
)

// Runner evaluates a single configuration. *Evaluator is the production
// implementation.
type Runner interface {
	Evaluate(ctx context.Context, c Configuration) (int, error)
}

// Sample is the measurement of one configuration.
type Sample struct {
	Configuration

	// MeanTime is the wall-clock time of one Evaluate call, averaged over
	// the repetitions.
	MeanTime time.Duration
	// CPUTime is the user+system CPU time of one call, averaged the same
	// way. It covers this process and the worker processes it reaped.
	CPUTime time.Duration
	// Sum is the result of the last repetition.
	Sum int
}

// Driver runs the whole sweep, one configuration at a time.
type Driver struct {
	cfg      Config
	runner   Runner
	logger   *slog.Logger
	progress io.Writer
	out      io.Writer
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithLogger sets the logger. Defaults to a logger that discards everything.
func WithLogger(l *slog.Logger) DriverOption {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithProgress draws a progress bar on w. No bar is drawn by default.
func WithProgress(w io.Writer) DriverOption {
	return func(d *Driver) {
		d.progress = w
	}
}

// WithOutput sets where the per-pair completion lines go. Defaults to io.Discard.
func WithOutput(w io.Writer) DriverOption {
	return func(d *Driver) {
		if w != nil {
			d.out = w
		}
	}
}

// NewDriver creates a driver for cfg that measures through runner.
func NewDriver(cfg Config, runner Runner, opts ...DriverOption) *Driver {
	d := &Driver{
		cfg:    cfg,
		runner: runner,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		out:    io.Discard,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var completed = color.New(color.FgGreen)

// Run measures every configuration in order and returns one sample each.
// Measurements never overlap. The first error stops the sweep; the samples
// gathered so far are returned with it.
func (d *Driver) Run(ctx context.Context) ([]Sample, error) {
	if err := d.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid benchmark config: %w", err)
	}

	configs := d.cfg.Configurations()
	bar := d.makeProgressBar(len(configs) * d.cfg.Repetitions)

	d.logger.Info("starting sweep",
		"configurations", len(configs),
		"repetitions", d.cfg.Repetitions,
		"tasks", d.cfg.Tasks)

	samples := make([]Sample, 0, len(configs))
	for i, c := range configs {
		if bar != nil {
			bar.Describe(fmt.Sprintf("Testing: %s", c))
		}

		sample, err := d.measure(ctx, c, func() {
			if bar != nil {
				_ = bar.Add(1)
			}
		})
		if err != nil {
			return samples, fmt.Errorf("benchmark %s: %w", c, err)
		}
		samples = append(samples, sample)

		d.logger.Debug("measured configuration",
			"strategy", c.Strategy,
			"workload", c.Kind,
			"workers", c.Workers,
			"mean", sample.MeanTime,
			"cpu", sample.CPUTime,
			"sum", sample.Sum)

		if (i+1)%len(d.cfg.WorkerCounts) == 0 {
			if bar != nil {
				_ = bar.Clear()
			}
			_, _ = completed.Fprintf(d.out, " -- completed evaluate: %s, %s -- \n", c.Strategy, c.Kind)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}
	return samples, nil
}

// measure times cfg.Repetitions successive calls for one configuration.
// step runs after each call, outside the timed window.
func (d *Driver) measure(ctx context.Context, c Configuration, step func()) (Sample, error) {
	var (
		sum     int
		elapsed time.Duration
		cpu     time.Duration
	)
	for range d.cfg.Repetitions {
		before, err := rusage.Now()
		if err != nil {
			return Sample{}, err
		}

		start := time.Now()
		sum, err = d.runner.Evaluate(ctx, c)
		elapsed += time.Since(start)
		if err != nil {
			return Sample{}, err
		}

		after, err := rusage.Now()
		if err != nil {
			return Sample{}, err
		}
		cpu += after.Sub(before).Total()

		step()
	}

	reps := time.Duration(d.cfg.Repetitions)
	return Sample{
		Configuration: c,
		MeanTime:      elapsed / reps,
		CPUTime:       cpu / reps,
		Sum:           sum,
	}, nil
}
func (d *Driver) makeProgressBar(total int) *progressbar.ProgressBar {
	if d.progress == nil {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Running sweep"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(d.progress),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
