// Package parallel provides the fork-join primitive used to run one
// transposition task per plan-assigned thread.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	NumWorkers int // Number of worker goroutines a plan may request.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	return Config{NumWorkers: runtime.NumCPU()}
}

// Run executes f(task) for task in [0, n) and blocks until every task has
// completed. Tasks own disjoint output sub-ranges by construction, so no
// synchronization beyond the final join is needed. n <= 1 runs inline on
// the calling goroutine.
func Run(n int, f func(task int)) {
	if n <= 0 {
		return
	}
	if n == 1 {
		f(0)
		return
	}

	var wg sync.WaitGroup
	wg.Add(n)
	for t := 0; t < n; t++ {
		go func(task int) {
			defer wg.Done()
			f(task)
		}(t)
	}
	wg.Wait()
}
