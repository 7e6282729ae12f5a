package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/poolbench/internal/bench"
	"github.com/utkarsh5026/poolbench/internal/workload"
)

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("poolbench", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(parseFlags(t))
	require.NoError(t, err)

	assert.Equal(t, bench.DefaultConfig(), s.Bench)
	assert.Empty(t, s.ChartFile)
	assert.False(t, s.Verbose)
	assert.Len(t, s.Bench.Configurations(), 28)
}

func TestLoad_NilFlagSet(t *testing.T) {
	s, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, bench.DefaultConfig(), s.Bench)
}

func TestLoad_Flags(t *testing.T) {
	s, err := Load(parseFlags(t,
		"--workers=1,4",
		"--repetitions=2",
		"--tasks=10",
		"--pairs=multiprocessor:cpu_heavy",
		"--io-delay=5ms",
		"--cpu-draws=1000",
		"--chart-file=out.html",
		"-v",
	))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 4}, s.Bench.WorkerCounts)
	assert.Equal(t, 2, s.Bench.Repetitions)
	assert.Equal(t, 10, s.Bench.Tasks)
	assert.Equal(t, []bench.Pair{{Strategy: bench.Process, Kind: workload.CPUHeavy}}, s.Bench.Pairs)
	assert.Equal(t, 5*time.Millisecond, s.Bench.Params.IODelay)
	assert.Equal(t, 1000, s.Bench.Params.CPUDraws)
	assert.Equal(t, "out.html", s.ChartFile)
	assert.True(t, s.Verbose)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("POOLBENCH_REPETITIONS", "3")
	t.Setenv("POOLBENCH_IO_DELAY", "20ms")
	t.Setenv("POOLBENCH_CHART_FILE", "env.html")
	t.Setenv("POOLBENCH_WORKERS", "1, 2,16")
	t.Setenv("POOLBENCH_PAIRS", "multithread:cpu_heavy,multiprocessor:cpu_heavy")

	s, err := Load(parseFlags(t))
	require.NoError(t, err)

	assert.Equal(t, 3, s.Bench.Repetitions)
	assert.Equal(t, 20*time.Millisecond, s.Bench.Params.IODelay)
	assert.Equal(t, "env.html", s.ChartFile)
	assert.Equal(t, []int{1, 2, 16}, s.Bench.WorkerCounts)
	assert.Equal(t, []bench.Pair{
		{Strategy: bench.Thread, Kind: workload.CPUHeavy},
		{Strategy: bench.Process, Kind: workload.CPUHeavy},
	}, s.Bench.Pairs)
}

func TestLoad_EnvWorkersNotANumber(t *testing.T) {
	t.Setenv("POOLBENCH_WORKERS", "1,two")

	_, err := Load(parseFlags(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"two"`)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("POOLBENCH_TASKS", "50")

	s, err := Load(parseFlags(t, "--tasks=7"))
	require.NoError(t, err)
	assert.Equal(t, 7, s.Bench.Tasks)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poolbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workers: [2, 8]
repetitions: 1
pairs:
  - multithread:io_heavy
  - multiprocessor:io_heavy
io-delay: 10ms
`), 0o644))

	s, err := Load(parseFlags(t, "--config="+path))
	require.NoError(t, err)

	assert.Equal(t, []int{2, 8}, s.Bench.WorkerCounts)
	assert.Equal(t, 1, s.Bench.Repetitions)
	assert.Equal(t, 100, s.Bench.Tasks)
	assert.Equal(t, []bench.Pair{
		{Strategy: bench.Thread, Kind: workload.IOHeavy},
		{Strategy: bench.Process, Kind: workload.IOHeavy},
	}, s.Bench.Pairs)
	assert.Equal(t, 10*time.Millisecond, s.Bench.Params.IODelay)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(parseFlags(t, "--config="+filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{name: "zero workers", args: []string{"--workers=0"}, is: bench.ErrInvalidWorkers},
		{name: "negative workers", args: []string{"--workers=4,-2"}, is: bench.ErrInvalidWorkers},
		{name: "unknown strategy", args: []string{"--pairs=multithreadd:io_heavy"}, is: bench.ErrUnknownStrategy},
		{name: "unknown workload", args: []string{"--pairs=multithread:disk_heavy"}, is: workload.ErrUnknownKind},
		{name: "zero repetitions", args: []string{"--repetitions=0"}},
		{name: "zero tasks", args: []string{"--tasks=0"}},
		{name: "malformed pair", args: []string{"--pairs=multithread"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(parseFlags(t, tt.args...))
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}
