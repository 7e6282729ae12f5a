package pool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WorkerPool is a generic worker pool backed by goroutines.
// Each call to Process starts its own workers and joins all of them before
// returning, so a pool value never holds running goroutines between calls.
//
// Type parameters:
//   - T: The input task type
//   - R: The result type
type WorkerPool[T any, R any] struct {
	workerCount int
	taskBuffer  int
}

// NewWorkerPool creates a new worker pool with the given options.
// Default configuration: workers = GOMAXPROCS, buffer = worker count.
func NewWorkerPool[T any, R any](opts ...WorkerPoolOption) *WorkerPool[T, R] {
	cfg := newConfig(opts...)
	return &WorkerPool[T, R]{
		workerCount: cfg.workerCount,
		taskBuffer:  cfg.taskBuffer,
	}
}

// WorkerCount returns the configured number of workers.
func (wp *WorkerPool[T, R]) WorkerCount() int {
	return wp.workerCount
}

// Process runs processFn over tasks on at most WorkerCount goroutines and
// returns the results in task order. The first failing task cancels the
// rest; its error is returned once every goroutine has exited.
func (wp *WorkerPool[T, R]) Process(
	ctx context.Context,
	tasks []T,
	processFn ProcessFunc[T, R],
) ([]R, error) {
	if len(tasks) == 0 {
		return []R{}, nil
	}

	g, ctx := errgroup.WithContext(ctx)

	taskChan := make(chan indexedTask[T], wp.taskBuffer)
	resultChan := make(chan Result[R], len(tasks))

	for range min(wp.workerCount, len(tasks)) {
		g.Go(func() error {
			return worker(ctx, taskChan, resultChan, processFn)
		})
	}
	g.Go(func() error {
		return feed(ctx, tasks, taskChan)
	})

	err := g.Wait()
	close(resultChan)
	return collect(resultChan, len(tasks)), err
}

// feed sends every task with its index and closes taskChan.
func feed[T any](ctx context.Context, tasks []T, taskChan chan<- indexedTask[T]) error {
	defer close(taskChan)
	for idx, task := range tasks {
		select {
		case taskChan <- indexedTask[T]{index: idx, task: task}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// collect drains a closed result channel into task order. Failed tasks
// leave the zero value.
func collect[R any](resultChan <-chan Result[R], n int) []R {
	results := make([]R, n)
	for r := range resultChan {
		if r.Error == nil {
			results[r.Index] = r.Value
		}
	}
	return results
}
