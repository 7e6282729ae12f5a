package bench

import (
	"errors"
	"fmt"
	"strings"

	"github.com/utkarsh5026/poolbench/internal/workload"
)

// ErrInvalidWorkers is returned for a non-positive worker count.
var ErrInvalidWorkers = errors.New("worker count must be positive")

// Pair is a strategy/workload combination.
type Pair struct {
	Strategy Strategy
	Kind     workload.Kind
}

// ParsePair parses "strategy:workload", e.g. "multithread:io_heavy".
func ParsePair(s string) (Pair, error) {
	strategyName, kindName, ok := strings.Cut(s, ":")
	if !ok {
		return Pair{}, fmt.Errorf("invalid pair %q, want strategy:workload", s)
	}

	strategy, err := ParseStrategy(strings.TrimSpace(strategyName))
	if err != nil {
		return Pair{}, err
	}
	kind, err := workload.ParseKind(strings.TrimSpace(kindName))
	if err != nil {
		return Pair{}, err
	}
	return Pair{Strategy: strategy, Kind: kind}, nil
}

// String returns the "strategy:workload" label used to group chart bars.
func (p Pair) String() string {
	return p.Strategy.String() + ":" + p.Kind.String()
}

// Configuration is one measured point of the sweep.
type Configuration struct {
	Strategy Strategy
	Kind     workload.Kind
	Workers  int
}

func (c Configuration) String() string {
	return fmt.Sprintf("%s:%s/%d", c.Strategy, c.Kind, c.Workers)
}

// Validate checks the configuration before any pool is built.
func (c Configuration) Validate() error {
	if !c.Strategy.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStrategy, int(c.Strategy))
	}
	if !c.Kind.Valid() {
		return fmt.Errorf("%w: %d", workload.ErrUnknownKind, int(c.Kind))
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidWorkers, c.Workers)
	}
	return nil
}

// Config holds everything the sweep needs.
type Config struct {
	Pairs        []Pair
	WorkerCounts []int
	Repetitions  int
	Tasks        int
	Params       workload.Params
}

// DefaultPairs returns the four strategy/workload pairs in sweep order.
func DefaultPairs() []Pair {
	return []Pair{
		{Strategy: Thread, Kind: workload.IOHeavy},
		{Strategy: Thread, Kind: workload.CPUHeavy},
		{Strategy: Process, Kind: workload.IOHeavy},
		{Strategy: Process, Kind: workload.CPUHeavy},
	}
}

// DefaultWorkerCounts returns the pool sizes of the sweep.
func DefaultWorkerCounts() []int {
	return []int{1, 2, 4, 8, 16, 34, 64}
}

// DefaultConfig is 4 pairs x 7 worker counts, 5 repetitions of 100 tasks each.
func DefaultConfig() Config {
	return Config{
		Pairs:        DefaultPairs(),
		WorkerCounts: DefaultWorkerCounts(),
		Repetitions:  5,
		Tasks:        100,
		Params:       workload.DefaultParams(),
	}
}

// Validate reports every problem with the config at once.
func (c Config) Validate() error {
	var errs []error
	if len(c.Pairs) == 0 {
		errs = append(errs, errors.New("at least one strategy:workload pair is required"))
	}
	for _, p := range c.Pairs {
		if !p.Strategy.Valid() {
			errs = append(errs, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(p.Strategy)))
		}
		if !p.Kind.Valid() {
			errs = append(errs, fmt.Errorf("%w: %d", workload.ErrUnknownKind, int(p.Kind)))
		}
	}
	if len(c.WorkerCounts) == 0 {
		errs = append(errs, errors.New("at least one worker count is required"))
	}
	for _, n := range c.WorkerCounts {
		if n <= 0 {
			errs = append(errs, fmt.Errorf("%w, got %d", ErrInvalidWorkers, n))
		}
	}
	if c.Repetitions <= 0 {
		errs = append(errs, fmt.Errorf("repetitions must be positive, got %d", c.Repetitions))
	}
	if c.Tasks <= 0 {
		errs = append(errs, fmt.Errorf("tasks must be positive, got %d", c.Tasks))
	}
	if err := c.Params.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Configurations enumerates the sweep: pairs in the outer loop, worker
// counts in the inner loop.
func (c Config) Configurations() []Configuration {
	out := make([]Configuration, 0, len(c.Pairs)*len(c.WorkerCounts))
	for _, p := range c.Pairs {
		for _, n := range c.WorkerCounts {
			out = append(out, Configuration{Strategy: p.Strategy, Kind: p.Kind, Workers: n})
		}
	}
	return out
}
