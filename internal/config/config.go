// Package config resolves benchmark settings from flags, POOLBENCH_*
// environment variables and an optional YAML file, in that order of
// precedence, on top of the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/utkarsh5026/poolbench/internal/bench"
	"github.com/utkarsh5026/poolbench/internal/workload"
)

// EnvPrefix prefixes every environment override, e.g. POOLBENCH_REPETITIONS.
const EnvPrefix = "POOLBENCH"

const (
	keyWorkers     = "workers"
	keyRepetitions = "repetitions"
	keyTasks       = "tasks"
	keyPairs       = "pairs"
	keyIODelay     = "io-delay"
	keyCPUDraws    = "cpu-draws"
	keyChartFile   = "chart-file"
	keyVerbose     = "verbose"
	keyConfig      = "config"
)

// Settings is the resolved configuration of one run.
type Settings struct {
	Bench     bench.Config
	ChartFile string
	Verbose   bool
}

type rawSettings struct {
	// Workers is decoded as strings so a comma list from the environment
	// splits before conversion.
	Workers     []string      `mapstructure:"workers"`
	Repetitions int           `mapstructure:"repetitions"`
	Tasks       int           `mapstructure:"tasks"`
	Pairs       []string      `mapstructure:"pairs"`
	IODelay     time.Duration `mapstructure:"io-delay"`
	CPUDraws    int           `mapstructure:"cpu-draws"`
	ChartFile   string        `mapstructure:"chart-file"`
	Verbose     bool          `mapstructure:"verbose"`
}

func defaultPairNames() []string {
	pairs := bench.DefaultPairs()
	names := make([]string, 0, len(pairs))
	for _, p := range pairs {
		names = append(names, p.String())
	}
	return names
}

// RegisterFlags adds the benchmark flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	def := bench.DefaultConfig()

	fs.IntSlice(keyWorkers, def.WorkerCounts, "pool sizes to sweep")
	fs.Int(keyRepetitions, def.Repetitions, "evaluations per configuration")
	fs.Int(keyTasks, def.Tasks, "tasks dispatched per evaluation")
	fs.StringSlice(keyPairs, defaultPairNames(), "strategy:workload pairs to measure")
	fs.Duration(keyIODelay, def.Params.IODelay, "simulated wait of one io_heavy task")
	fs.Int(keyCPUDraws, def.Params.CPUDraws, "random draws summed by one cpu_heavy task")
	fs.String(keyChartFile, "", "write the chart page here instead of a temp file")
	fs.BoolP(keyVerbose, "v", false, "enable debug logging")
	fs.String(keyConfig, "", "YAML config file")
}

func setDefaults(v *viper.Viper) {
	def := bench.DefaultConfig()

	v.SetDefault(keyWorkers, def.WorkerCounts)
	v.SetDefault(keyRepetitions, def.Repetitions)
	v.SetDefault(keyTasks, def.Tasks)
	v.SetDefault(keyPairs, defaultPairNames())
	v.SetDefault(keyIODelay, def.Params.IODelay)
	v.SetDefault(keyCPUDraws, def.Params.CPUDraws)
	v.SetDefault(keyChartFile, "")
	v.SetDefault(keyVerbose, false)
}

// Load resolves the settings. fs may be nil, in which case only the
// environment and defaults apply. Invalid values are reported together.
func Load(fs *pflag.FlagSet) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Settings{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var raw rawSettings
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&raw, hook); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}

	return raw.resolve()
}

func (r rawSettings) resolve() (Settings, error) {
	var errs []error

	pairs := make([]bench.Pair, 0, len(r.Pairs))
	for _, name := range r.Pairs {
		p, err := bench.ParsePair(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pairs = append(pairs, p)
	}

	workers := make([]int, 0, len(r.Workers))
	for _, w := range r.Workers {
		n, err := strconv.Atoi(strings.Trim(w, " []"))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid worker count %q: %w", w, err))
			continue
		}
		workers = append(workers, n)
	}

	params := workload.DefaultParams()
	params.IODelay = r.IODelay
	params.CPUDraws = r.CPUDraws

	cfg := bench.Config{
		Pairs:        pairs,
		WorkerCounts: workers,
		Repetitions:  r.Repetitions,
		Tasks:        r.Tasks,
		Params:       params,
	}
	if len(errs) == 0 {
		if err := cfg.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return Settings{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return Settings{Bench: cfg, ChartFile: r.ChartFile, Verbose: r.Verbose}, nil
}
