// Package workerpool provides the bounded fan-out primitive shared by the
// Initial Evaluation Pass and each Optimization Loop step (spec §4.4,
// §4.5, §5): N independent units of work distributed across at most
// maxWorkers goroutines, joined at a single barrier.
package workerpool

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"go.viam.com/utils"
)

// Run dispatches fn(i) for every i in [0, n) across at most maxWorkers
// goroutines (maxWorkers <= 0 is treated as 1, honoring spec note (c): a
// host may request max_threads = 1 for deterministic tests). Run blocks
// until every worker has returned. Each worker goroutine is launched via
// utils.PanicCapturingGo so a panicking plugin cannot take down the host
// process; a recovered panic ends only that worker and is not reported to
// Run's caller.
//
// fn is responsible for its own cancellation checks; Run does not skip
// remaining indices once ctx is canceled, matching spec §5's "a mid-step
// cancel is not supported" — cancellation is a between-steps concern for
// the caller, not a per-task one.
func Run(ctx context.Context, n, maxWorkers int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if maxWorkers > n {
		maxWorkers = n
	}

	next := atomic.NewInt64(-1)
	var wg sync.WaitGroup
	wg.Add(maxWorkers)
	for w := 0; w < maxWorkers; w++ {
		utils.PanicCapturingGo(func() {
			defer wg.Done()
			for {
				i := int(next.Inc())
				if i >= n {
					return
				}
				fn(i)
			}
		})
	}
	wg.Wait()
}
