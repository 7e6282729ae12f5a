package pool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ProcessPool is a worker pool whose workers are operating system processes.
// Tasks and results cross the process boundary as JSON, so T and R must
// round-trip through encoding/json. The process side runs Serve.
//
// Every call to Process starts its own worker processes and reaps all of
// them before returning, on success and on error alike.
type ProcessPool[T any, R any] struct {
	workerCount int
	taskBuffer  int
	command     CommandFunc
	stderr      io.Writer
}

// NewProcessPool creates a process pool with the given options.
// Workers are started with SelfCommand unless WithCommand is given.
func NewProcessPool[T any, R any](opts ...WorkerPoolOption) *ProcessPool[T, R] {
	cfg := newConfig(opts...)

	// Each worker gets its own copier goroutine unless stderr is a file.
	stderr := cfg.stderr
	if _, ok := stderr.(*os.File); !ok {
		stderr = &lockedWriter{w: stderr}
	}

	return &ProcessPool[T, R]{
		workerCount: cfg.workerCount,
		taskBuffer:  cfg.taskBuffer,
		command:     cfg.command,
		stderr:      stderr,
	}
}

// lockedWriter lets several worker processes share one stderr writer.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// WorkerCount returns the configured number of worker processes.
func (pp *ProcessPool[T, R]) WorkerCount() int {
	return pp.workerCount
}

// Process sends every task to a worker process and returns the results in
// task order. The first failure (a task error, a crashed process or a
// cancelled context) stops all workers and is returned.
func (pp *ProcessPool[T, R]) Process(ctx context.Context, tasks []T) ([]R, error) {
	if len(tasks) == 0 {
		return []R{}, nil
	}

	g, ctx := errgroup.WithContext(ctx)

	taskChan := make(chan indexedTask[T], pp.taskBuffer)
	resultChan := make(chan Result[R], len(tasks))

	numWorkers := min(pp.workerCount, len(tasks))
	for id := range numWorkers {
		g.Go(func() error {
			return pp.runWorkerProcess(ctx, id, taskChan, resultChan)
		})
	}

	g.Go(func() error {
		return feed(ctx, tasks, taskChan)
	})

	err := g.Wait()
	close(resultChan)
	return collect(resultChan, len(tasks)), err
}

func (pp *ProcessPool[T, R]) runWorkerProcess(
	ctx context.Context,
	id int,
	taskChan <-chan indexedTask[T],
	resultChan chan<- Result[R],
) (err error) {
	wp, err := startWorkerProcess[T, R](ctx, pp.command, pp.stderr)
	if err != nil {
		return fmt.Errorf("failed to start worker process %d: %w", id, err)
	}
	defer func() {
		if cerr := wp.close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("worker process %d: %w", id, cerr))
		}
	}()

	for {
		select {
		case t, ok := <-taskChan:
			if !ok {
				return nil
			}
			value, err := wp.call(t.index, t.task)
			if err != nil {
				return err
			}
			resultChan <- Result[R]{Value: value, Index: t.index}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// workerProcess is the parent's handle on one running worker process.
type workerProcess[T any, R any] struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	out   *frameWriter
	in    *json.Decoder
}

func startWorkerProcess[T any, R any](
	ctx context.Context,
	command CommandFunc,
	stderr io.Writer,
) (*workerProcess[T, R], error) {
	cmd, err := command(ctx)
	if err != nil {
		return nil, err
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if cmd.Stderr == nil {
		cmd.Stderr = stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &workerProcess[T, R]{
		cmd:   cmd,
		stdin: stdin,
		out:   newFrameWriter(stdin),
		in:    newFrameReader(stdout),
	}, nil
}

// call sends a single task and blocks until its reply arrives.
func (wp *workerProcess[T, R]) call(index int, task T) (R, error) {
	var zero R

	if err := wp.out.write(request[T]{Index: index, Task: task}); err != nil {
		return zero, fmt.Errorf("failed to send task %d: %w", index, err)
	}

	var resp response[R]
	if err := wp.in.Decode(&resp); err != nil {
		return zero, fmt.Errorf("failed to receive result for task %d: %w", index, err)
	}
	if resp.Index != index {
		return zero, fmt.Errorf("worker replied for task %d while task %d was pending", resp.Index, index)
	}
	if resp.Error != "" {
		return zero, &TaskError{Index: index, Message: resp.Error}
	}
	return resp.Value, nil
}

// close signals end of input and reaps the process.
func (wp *workerProcess[T, R]) close() error {
	_ = wp.stdin.Close()
	return wp.cmd.Wait()
}
