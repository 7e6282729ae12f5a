package pool

import (
	"context"
	"fmt"
	"os/exec"
)

// ProcessFunc is a function type that defines how individual tasks are processed in the worker pool.
// It takes a context for cancellation control and a task of type T, returning a result of type R.
// If processing fails, it should return an error which will halt further processing.
//
// Type parameters:
//   - T: The type of input task to be processed
//   - R: The type of result produced after processing
type ProcessFunc[T any, R any] func(ctx context.Context, task T) (R, error)

// Result represents the outcome of processing a single task.
//
// Fields:
//   - Value: The result produced by processing the task (only valid if Error is nil)
//   - Error: Any error that occurred during task processing (nil if successful)
//   - Index: The original position of the task in the input slice
type Result[R any] struct {
	Value R
	Error error
	Index int
}

// CommandFunc builds the command used to start one worker process.
// The returned command must not be started; the pool wires its stdin and
// stdout to the worker protocol before starting it.
type CommandFunc func(ctx context.Context) (*exec.Cmd, error)

// TaskError is returned when a task fails inside a worker process.
// The original error value cannot cross the process boundary, so only its
// message is kept.
type TaskError struct {
	Index   int
	Message string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d failed in worker process: %s", e.Index, e.Message)
}

type indexedTask[T any] struct {
	index int
	task  T
}
