package pool

import (
	"context"
	"fmt"
	"runtime"
)

// worker is the core worker function that processes tasks from the task channel.
// A failing task stops this worker and, through the errgroup, all the others.
func worker[T any, R any](
	ctx context.Context,
	taskChan <-chan indexedTask[T],
	resultChan chan<- Result[R],
	processFn ProcessFunc[T, R],
) error {
	for {
		select {
		case t, ok := <-taskChan:
			if !ok {
				return nil
			}

			result, err := processWithRecovery(ctx, t.task, processFn)

			select {
			case resultChan <- Result[R]{Value: result, Error: err, Index: t.index}:
			case <-ctx.Done():
				return ctx.Err()
			}
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// processWithRecovery executes a task and converts a panic into an error
// carrying the stack trace.
func processWithRecovery[T, R any](
	ctx context.Context,
	task T,
	processFn ProcessFunc[T, R],
) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("worker panic: %v\nstack trace:\n%s", r, buf[:n])
		}
	}()

	return processFn(ctx, task)
}
