package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/poolbench/internal/bench"
	"github.com/utkarsh5026/poolbench/internal/workload"
)

func sweepSamples() []bench.Sample {
	cfg := bench.DefaultConfig()
	var samples []bench.Sample
	for i, c := range cfg.Configurations() {
		samples = append(samples, bench.Sample{
			Configuration: c,
			MeanTime:      time.Duration(i+1) * 10 * time.Millisecond,
			CPUTime:       time.Duration(i+1) * time.Millisecond,
			Sum:           450,
		})
	}
	return samples
}

type fakeDisplay struct {
	page  []byte
	calls int
	err   error
}

func (f *fakeDisplay) Show(_ context.Context, page []byte) error {
	f.calls++
	f.page = page
	return f.err
}

func TestNewTable(t *testing.T) {
	table := NewTable(sweepSamples())

	require.Equal(t, 28, table.Len())
	rows := table.Rows()
	assert.Equal(t, Row{
		Strategy:    "multithread",
		Workload:    "io_heavy",
		Workers:     1,
		MeanSeconds: 0.01,
		CPUSeconds:  0.001,
		Type:        "multithread:io_heavy",
	}, rows[0])
	assert.Equal(t, "multiprocessor:cpu_heavy", rows[27].Type)
	for _, r := range rows {
		assert.GreaterOrEqual(t, r.MeanSeconds, 0.0)
	}

	assert.Equal(t, []string{
		"multithread:io_heavy",
		"multithread:cpu_heavy",
		"multiprocessor:io_heavy",
		"multiprocessor:cpu_heavy",
	}, table.Types())
	assert.Equal(t, []int{1, 2, 4, 8, 16, 34, 64}, table.WorkerCounts())
}

func TestTable_Print(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTable(sweepSamples()).Print(&buf))

	out := buf.String()
	assert.Contains(t, out, "multiprocessor:cpu_heavy")
	assert.Contains(t, out, "0.0100")
	assert.Contains(t, out, "0.2800")
	assert.Equal(t, 7, strings.Count(out, "multiprocessor:cpu_heavy"))
}

func TestGroupedBarChart_OneSeriesPerType(t *testing.T) {
	bar := GroupedBarChart(NewTable(sweepSamples()))

	require.Len(t, bar.MultiSeries, 4)
	for _, s := range bar.MultiSeries {
		assert.Contains(t, s.Name, ":")
	}
}

func TestBarChart_OneBarPerRow(t *testing.T) {
	bar := BarChart(NewTable(sweepSamples()))

	require.Len(t, bar.MultiSeries, 2)
	assert.Equal(t, timeSeries, bar.MultiSeries[0].Name)
	assert.Equal(t, cpuSeries, bar.MultiSeries[1].Name)
}

func TestTable_MeanTimeAveragesDuplicates(t *testing.T) {
	c := bench.Configuration{Strategy: bench.Thread, Kind: workload.IOHeavy, Workers: 4}
	table := NewTable([]bench.Sample{
		{Configuration: c, MeanTime: time.Second},
		{Configuration: c, MeanTime: 3 * time.Second},
	})

	mean, ok := table.meanTime("multithread:io_heavy", 4)
	require.True(t, ok)
	assert.InDelta(t, 2.0, mean, 1e-9)

	_, ok = table.meanTime("multithread:io_heavy", 8)
	assert.False(t, ok)
}

func TestRenderPage(t *testing.T) {
	page, err := RenderPage(NewTable(sweepSamples()))
	require.NoError(t, err)

	html := string(page)
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "time_spent")
	assert.Contains(t, html, "multithread:io_heavy")
	assert.Contains(t, html, "multiprocessor:cpu_heavy")
}

func TestReporter_Report(t *testing.T) {
	var out bytes.Buffer
	display := &fakeDisplay{}

	err := NewReporter(&out, display, nil).Report(context.Background(), sweepSamples())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "multithread")
	assert.Equal(t, 1, display.calls)
	assert.Contains(t, string(display.page), "multiprocessor:io_heavy")
}

func TestReporter_DisplayErrorPropagates(t *testing.T) {
	var out bytes.Buffer
	display := &fakeDisplay{err: errors.New("no display")}

	err := NewReporter(&out, display, nil).Report(context.Background(), sweepSamples())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no display")
	assert.NotEmpty(t, out.String(), "table is printed before the charts")
}

func TestReporter_NoSamples(t *testing.T) {
	display := &fakeDisplay{}
	err := NewReporter(&bytes.Buffer{}, display, nil).Report(context.Background(), nil)
	assert.Error(t, err)
	assert.Zero(t, display.calls)
}

func TestBrowserDisplay_WritesAndWaitsForEnter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.html")
	var opened string
	var prompt bytes.Buffer

	d := &BrowserDisplay{
		Path: path,
		Open: func(p string) error { opened = p; return nil },
		In:   strings.NewReader("\n"),
		Out:  &prompt,
	}

	require.NoError(t, d.Show(context.Background(), []byte("<html></html>")))
	assert.Equal(t, path, opened)
	assert.Contains(t, prompt.String(), "Press Enter")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
}

func TestBrowserDisplay_TempFile(t *testing.T) {
	var opened string
	d := &BrowserDisplay{
		Open: func(p string) error { opened = p; return nil },
		In:   strings.NewReader(""),
	}

	require.NoError(t, d.Show(context.Background(), []byte("page")))
	t.Cleanup(func() { _ = os.Remove(opened) })

	assert.True(t, strings.HasSuffix(opened, ".html"))
	data, err := os.ReadFile(opened)
	require.NoError(t, err)
	assert.Equal(t, "page", string(data))
}

func TestBrowserDisplay_OpenError(t *testing.T) {
	d := &BrowserDisplay{
		Path: filepath.Join(t.TempDir(), "charts.html"),
		Open: func(string) error { return errors.New("no browser") },
	}

	err := d.Show(context.Background(), []byte("page"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no browser")
}

func TestBrowserDisplay_ContextCancelled(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close(); _ = w.Close() })

	d := &BrowserDisplay{
		Path: filepath.Join(t.TempDir(), "charts.html"),
		Open: func(string) error { return nil },
		In:   r,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = d.Show(ctx, []byte("page"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
