package report

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/utkarsh5026/poolbench/internal/bench"
)

// Row is one line of the result table.
type Row struct {
	Strategy    string
	Workload    string
	Workers     int
	MeanSeconds float64
	CPUSeconds  float64
	// Type is the "strategy:workload" label the grouped chart splits on.
	Type string
}

// Table holds the rows in sweep order. It is built once and only read
// afterwards.
type Table struct {
	rows []Row
}

// NewTable converts the driver's samples into table rows.
func NewTable(samples []bench.Sample) *Table {
	rows := make([]Row, 0, len(samples))
	for _, s := range samples {
		pair := bench.Pair{Strategy: s.Strategy, Kind: s.Kind}
		rows = append(rows, Row{
			Strategy:    s.Strategy.String(),
			Workload:    s.Kind.String(),
			Workers:     s.Workers,
			MeanSeconds: s.MeanTime.Seconds(),
			CPUSeconds:  s.CPUTime.Seconds(),
			Type:        pair.String(),
		})
	}
	return &Table{rows: rows}
}

// Rows returns a copy of the rows.
func (t *Table) Rows() []Row {
	return append([]Row(nil), t.rows...)
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Types returns the distinct type labels in first-seen order.
func (t *Table) Types() []string {
	return distinct(t.rows, func(r Row) string { return r.Type })
}

// WorkerCounts returns the distinct worker counts in first-seen order.
func (t *Table) WorkerCounts() []int {
	return distinct(t.rows, func(r Row) int { return r.Workers })
}

// Print writes the table to w.
func (t *Table) Print(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.Header("method", "function", "n_workers", "time_spent", "cpu_time", "type")

	for _, r := range t.rows {
		if err := table.Append(
			r.Strategy,
			r.Workload,
			fmt.Sprintf("%d", r.Workers),
			formatSeconds(r.MeanSeconds),
			formatSeconds(r.CPUSeconds),
			r.Type,
		); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

func formatSeconds(s float64) string {
	d := time.Duration(s * float64(time.Second))
	return fmt.Sprintf("%.4f (%s)", s, d.Round(time.Microsecond))
}

func distinct[K comparable](rows []Row, key func(Row) K) []K {
	seen := make(map[K]struct{}, len(rows))
	var out []K
	for _, r := range rows {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
