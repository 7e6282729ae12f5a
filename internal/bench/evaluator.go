package bench

import (
	"context"
	"fmt"
	"io"

	"github.com/utkarsh5026/poolbench/internal/workload"
	"github.com/utkarsh5026/poolbench/pool"
)

// Evaluator runs one configuration: it builds the pool, maps the workload
// over the task indices and sums the results.
type Evaluator struct {
	tasks   int
	params  workload.Params
	command pool.CommandFunc
	stderr  io.Writer
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithProcessCommand sets how worker processes are started for the Process
// strategy. Defaults to pool.SelfCommand.
func WithProcessCommand(fn pool.CommandFunc) EvaluatorOption {
	return func(e *Evaluator) {
		e.command = fn
	}
}

// WithWorkerStderr sets where worker processes write their stderr.
func WithWorkerStderr(w io.Writer) EvaluatorOption {
	return func(e *Evaluator) {
		e.stderr = w
	}
}

// NewEvaluator creates an evaluator that dispatches tasks tasks per call.
func NewEvaluator(tasks int, params workload.Params, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		tasks:   tasks,
		params:  params,
		command: pool.SelfCommand,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs exactly e.tasks workload invocations through a pool sized to
// c.Workers and returns the sum of their results. The pool lives only for
// the duration of the call. An invalid configuration fails before any pool
// is created.
func (e *Evaluator) Evaluate(ctx context.Context, c Configuration) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	tasks := workload.Tasks(c.Kind, e.tasks, e.params)

	var (
		results []int
		err     error
	)
	switch c.Strategy {
	case Thread:
		wp := pool.NewWorkerPool[workload.Task, int](pool.WithWorkerCount(c.Workers))
		results, err = wp.Process(ctx, tasks, workload.Run)
	case Process:
		pp := pool.NewProcessPool[workload.Task, int](
			pool.WithWorkerCount(c.Workers),
			pool.WithCommand(e.command),
			pool.WithStderr(e.stderr),
		)
		results, err = pp.Process(ctx, tasks)
	}
	if err != nil {
		return 0, fmt.Errorf("evaluate %s: %w", c, err)
	}

	sum := 0
	for _, r := range results {
		sum += r
	}
	return sum, nil
}

// EvaluateByName resolves strategy and workload names, then evaluates.
// Unknown names fail with ErrUnknownStrategy or workload.ErrUnknownKind.
func (e *Evaluator) EvaluateByName(ctx context.Context, strategy, kind string, workers int) (int, error) {
	s, err := ParseStrategy(strategy)
	if err != nil {
		return 0, err
	}
	k, err := workload.ParseKind(kind)
	if err != nil {
		return 0, err
	}
	return e.Evaluate(ctx, Configuration{Strategy: s, Kind: k, Workers: workers})
}
