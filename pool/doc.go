// Package pool provides two generic worker pools with the same shape:
// WorkerPool runs tasks on goroutines inside the current process, and
// ProcessPool runs them in separate operating system processes.
//
// Both pools start their workers at the beginning of a Process call and
// release all of them before it returns, so nothing outlives the call.
//
// # Goroutine Pool
//
//	ctx := context.Background()
//	tasks := []int{1, 2, 3, 4}
//	wp := NewWorkerPool[int, int](WithWorkerCount(4))
//	results, err := wp.Process(ctx, tasks, func(ctx context.Context, t int) (int, error) {
//	    return t * 2, nil
//	})
//
// # Process Pool
//
// A ProcessPool starts worker processes with a CommandFunc. The default,
// SelfCommand, re-executes the current binary with WorkerEnv set, so the
// binary must dispatch to Serve when IsWorker reports true:
//
//	func main() {
//	    if pool.IsWorker() {
//	        if err := pool.Serve(ctx, os.Stdin, os.Stdout, double); err != nil {
//	            os.Exit(1)
//	        }
//	        return
//	    }
//	    pp := pool.NewProcessPool[int, int](pool.WithWorkerCount(4))
//	    results, err := pp.Process(ctx, []int{1, 2, 3})
//	}
//
// Parent and worker exchange newline-delimited JSON frames over the
// worker's stdin and stdout, one task in flight per worker. The worker
// must not write anything else to stdout.
//
// # Error Handling
//
// Both pools are fail-fast: the first error cancels the remaining workers
// and is returned. Panics in a task are converted to errors with a stack
// trace. A task failing inside a worker process surfaces as *TaskError.
package pool
