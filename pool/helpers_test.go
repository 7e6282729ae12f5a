package pool

import (
	"context"
	"testing"
)

// poolConfig is one pool implementation under test, reduced to a Process call
// that runs testWorkerFn.
type poolConfig struct {
	name    string
	process func(ctx context.Context, tasks []int) ([]int, error)
}

// getAllPools returns both pool implementations sized to workerCount.
func getAllPools(workerCount int) []poolConfig {
	return []poolConfig{
		{
			name: "Goroutines",
			process: func(ctx context.Context, tasks []int) ([]int, error) {
				wp := NewWorkerPool[int, int](WithWorkerCount(workerCount))
				return wp.Process(ctx, tasks, testWorkerFn)
			},
		},
		{
			name: "Processes",
			process: func(ctx context.Context, tasks []int) ([]int, error) {
				pp := NewProcessPool[int, int](WithWorkerCount(workerCount))
				return pp.Process(ctx, tasks)
			},
		},
	}
}

func runPoolTest(t *testing.T, testFunc func(t *testing.T, p poolConfig), workerCount int) {
	for _, p := range getAllPools(workerCount) {
		t.Run(p.name, func(t *testing.T) {
			testFunc(t, p)
		})
	}
}
