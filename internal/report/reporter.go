// Package report turns benchmark samples into a printed table and a chart
// page.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/utkarsh5026/poolbench/internal/bench"
)

// Reporter prints the result table and shows the charts.
type Reporter struct {
	out     io.Writer
	display Display
	logger  *slog.Logger
}

// NewReporter creates a reporter printing to out. A nil logger discards.
func NewReporter(out io.Writer, display Display, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reporter{out: out, display: display, logger: logger}
}

// Report prints the table, renders both charts and hands them to the
// display. Any failure is returned; the table is already printed by then.
func (r *Reporter) Report(ctx context.Context, samples []bench.Sample) error {
	if len(samples) == 0 {
		return errors.New("no samples to report")
	}

	table := NewTable(samples)
	if err := table.Print(r.out); err != nil {
		return err
	}

	page, err := RenderPage(table)
	if err != nil {
		return err
	}
	r.logger.Debug("rendered chart page", "bytes", len(page), "series", len(table.Types()))

	if r.display == nil {
		return nil
	}
	if err := r.display.Show(ctx, page); err != nil {
		return fmt.Errorf("display charts: %w", err)
	}
	return nil
}
