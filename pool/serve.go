package pool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// WorkerEnv is the environment variable that marks a process as a pool worker.
const WorkerEnv = "POOLBENCH_WORKER"

// IsWorker reports whether the current process was started by a ProcessPool
// through SelfCommand.
func IsWorker() bool {
	return os.Getenv(WorkerEnv) == "1"
}

// SelfCommand starts the current executable again with WorkerEnv set.
// The program is expected to check IsWorker early in main (or TestMain)
// and hand control to Serve.
func SelfCommand(ctx context.Context) (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}

	cmd := exec.CommandContext(ctx, exe)
	cmd.Env = append(os.Environ(), WorkerEnv+"=1")
	return cmd, nil
}

// Serve runs the worker side of a ProcessPool. It reads task frames from r,
// processes them one at a time with processFn and writes a reply frame to w
// for each. It returns nil once r reaches EOF.
//
// A task error or panic is reported back to the parent in the reply frame;
// Serve itself keeps running and lets the parent decide to stop.
func Serve[T any, R any](
	ctx context.Context,
	r io.Reader,
	w io.Writer,
	processFn ProcessFunc[T, R],
) error {
	in := newFrameReader(r)
	out := newFrameWriter(w)

	for {
		var req request[T]
		if err := in.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to decode task frame: %w", err)
		}

		value, err := processWithRecovery(ctx, req.Task, processFn)
		resp := response[R]{Index: req.Index, Value: value}
		if err != nil {
			resp.Error = err.Error()
		}

		if err := out.write(resp); err != nil {
			return fmt.Errorf("failed to reply for task %d: %w", req.Index, err)
		}
	}
}
