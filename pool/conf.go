package pool

import (
	"io"
	"os"
	"runtime"
)

// WorkerPoolOption is a functional option shared by WorkerPool and ProcessPool.
type WorkerPoolOption func(*workerPoolConfig)

type workerPoolConfig struct {
	workerCount int
	taskBuffer  int
	command     CommandFunc
	stderr      io.Writer
}

func newConfig(opts ...WorkerPoolOption) *workerPoolConfig {
	cfg := &workerPoolConfig{
		workerCount: runtime.GOMAXPROCS(0),
		taskBuffer:  0, // Will be set to workerCount if not specified
		command:     SelfCommand,
		stderr:      os.Stderr,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.taskBuffer == 0 {
		cfg.taskBuffer = cfg.workerCount
	}
	return cfg
}

// WithWorkerCount sets the number of concurrent workers.
// For a ProcessPool this is the number of worker processes.
// If not specified, defaults to runtime.GOMAXPROCS(0).
func WithWorkerCount(count int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if count > 0 {
			cfg.workerCount = count
		}
	}
}

// WithTaskBuffer sets the buffer size for the task channel.
// If not specified, defaults to the number of workers.
func WithTaskBuffer(size int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if size >= 0 {
			cfg.taskBuffer = size
		}
	}
}

// WithCommand sets how a ProcessPool starts its worker processes.
// Defaults to SelfCommand. Ignored by WorkerPool.
func WithCommand(fn CommandFunc) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if fn != nil {
			cfg.command = fn
		}
	}
}

// WithStderr sets where worker processes write their stderr when the
// command does not set it itself. Defaults to os.Stderr.
func WithStderr(w io.Writer) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if w != nil {
			cfg.stderr = w
		}
	}
}
