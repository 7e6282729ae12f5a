// Command poolbench measures how a goroutine pool and a process pool scale
// with the number of workers on io-heavy and cpu-heavy tasks, prints the
// results and charts them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/utkarsh5026/poolbench/internal/workload"
	"github.com/utkarsh5026/poolbench/pool"
)

var (
	bold = color.New(color.Bold)
	red  = color.New(color.FgRed)
)

func main() {
	if pool.IsWorker() {
		os.Exit(serveWorker())
	}

	// Enable ANSI escape sequences on Windows for progress bar support
	enableWindowsANSI()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(defaultApp()).ExecuteContext(ctx); err != nil {
		stop()
		_, _ = red.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// serveWorker runs the worker side of the process pool on stdin/stdout and
// returns the exit code.
func serveWorker() int {
	if err := pool.Serve(context.Background(), os.Stdin, os.Stdout, workload.Run); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "poolbench worker: %v\n", err)
		return 2
	}
	return 0
}
