package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	timeSeries = "time_spent"
	cpuSeries  = "cpu_time"
)

// BarChart plots one bar per row, labelled with the row's worker count,
// for wall time and CPU time.
func BarChart(t *Table) *charts.Bar {
	bar := newBar("Mean time per evaluation", "one bar per configuration, sweep order")

	labels := make([]string, 0, t.Len())
	times := make([]opts.BarData, 0, t.Len())
	cpu := make([]opts.BarData, 0, t.Len())
	for _, r := range t.rows {
		labels = append(labels, strconv.Itoa(r.Workers))
		times = append(times, opts.BarData{Name: r.Type, Value: r.MeanSeconds})
		cpu = append(cpu, opts.BarData{Name: r.Type, Value: r.CPUSeconds})
	}

	bar.SetXAxis(labels).
		AddSeries(timeSeries, times).
		AddSeries(cpuSeries, cpu)
	return bar
}

// GroupedBarChart plots time_spent per distinct worker count with one
// series per strategy:workload type. Rows sharing a type and worker count
// are averaged; a missing combination is left empty.
func GroupedBarChart(t *Table) *charts.Bar {
	bar := newBar("Mean time by worker count", "grouped by strategy:workload")

	workers := t.WorkerCounts()
	labels := make([]string, 0, len(workers))
	for _, n := range workers {
		labels = append(labels, strconv.Itoa(n))
	}
	bar.SetXAxis(labels)

	for _, typ := range t.Types() {
		data := make([]opts.BarData, 0, len(workers))
		for _, n := range workers {
			mean, ok := t.meanTime(typ, n)
			if !ok {
				data = append(data, opts.BarData{Value: nil})
				continue
			}
			data = append(data, opts.BarData{Value: mean})
		}
		bar.AddSeries(typ, data)
	}
	return bar
}

func (t *Table) meanTime(typ string, workers int) (float64, bool) {
	var total float64
	var n int
	for _, r := range t.rows {
		if r.Type == typ && r.Workers == workers {
			total += r.MeanSeconds
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}

func newBar(title, subtitle string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "poolbench",
			Width:     "1200px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "n_workers"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "seconds"}),
	)
	return bar
}

// RenderPage renders both charts, bar chart first, into one HTML page.
func RenderPage(t *Table) ([]byte, error) {
	page := components.NewPage()
	page.PageTitle = "poolbench results"
	page.AddCharts(BarChart(t), GroupedBarChart(t))

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("render charts: %w", err)
	}
	return buf.Bytes(), nil
}
