// Package workload holds the two synthetic tasks the benchmark maps over
// a pool: one that waits and one that computes. Both return a value in
// [0, 9] that only exists to be summed.
package workload

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Params sizes the workloads. It travels with every Task so that worker
// processes run with the parent's settings.
type Params struct {
	IODelay    time.Duration `json:"io_delay"`
	IOMaxDraw  int           `json:"io_max_draw"`
	CPUDraws   int           `json:"cpu_draws"`
	CPUMaxDraw int           `json:"cpu_max_draw"`
}

// DefaultParams returns a 100ms wait per I/O task and 110,000 draws in
// [0, 10] per CPU task.
func DefaultParams() Params {
	return Params{
		IODelay:    100 * time.Millisecond,
		IOMaxDraw:  10_000,
		CPUDraws:   110_000,
		CPUMaxDraw: 10,
	}
}

// Validate rejects parameters that would make a workload meaningless.
func (p Params) Validate() error {
	var errs []error
	if p.IODelay < 0 {
		errs = append(errs, fmt.Errorf("io delay must not be negative, got %v", p.IODelay))
	}
	if p.IOMaxDraw < 0 {
		errs = append(errs, fmt.Errorf("io max draw must not be negative, got %d", p.IOMaxDraw))
	}
	if p.CPUDraws <= 0 {
		errs = append(errs, fmt.Errorf("cpu draws must be positive, got %d", p.CPUDraws))
	}
	if p.CPUMaxDraw < 0 {
		errs = append(errs, fmt.Errorf("cpu max draw must not be negative, got %d", p.CPUMaxDraw))
	}
	return errors.Join(errs...)
}

// Task is a single unit of work handed to a pool.
type Task struct {
	Index  int    `json:"index"`
	Kind   Kind   `json:"kind"`
	Params Params `json:"params"`
}

// Tasks builds count tasks of the given kind with indices 0..count-1.
func Tasks(kind Kind, count int, params Params) []Task {
	tasks := make([]Task, count)
	for i := range count {
		tasks[i] = Task{Index: i, Kind: kind, Params: params}
	}
	return tasks
}

// Run executes a task. Its signature matches pool.ProcessFunc so it can be
// handed to either pool or to a worker process.
func Run(ctx context.Context, t Task) (int, error) {
	switch t.Kind {
	case IOHeavy:
		return IOHeavyTask(ctx, t.Params)
	case CPUHeavy:
		return CPUHeavyTask(ctx, t.Params)
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownKind, int(t.Kind))
	}
}

// IOHeavyTask draws a number in [0, IOMaxDraw], blocks for IODelay and
// returns the draw modulo 10.
func IOHeavyTask(ctx context.Context, p Params) (int, error) {
	draw := rand.IntN(p.IOMaxDraw + 1)

	timer := time.NewTimer(p.IODelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	return draw % 10, nil
}

// CPUHeavyTask sums CPUDraws numbers in [0, CPUMaxDraw] and returns the sum
// modulo 10.
func CPUHeavyTask(ctx context.Context, p Params) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	total := 0
	for range p.CPUDraws {
		total += rand.IntN(p.CPUMaxDraw + 1)
	}
	return total % 10, nil
}
