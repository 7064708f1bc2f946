package queue

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Options configures a Run.
type Options struct {
	Concurrency int           // Maximum number of items in flight.
	Delay       time.Duration // Pause a worker takes after each item.
	RateLimit   int           // Global dispatches per second, 0 for unlimited.
}

// Run executes worker over items with at most opts.Concurrency items in
// flight. Items are dispatched in list order; results are returned in
// completion order. Cancelling ctx stops new dispatches but never
// interrupts a worker that already started; the worker receives ctx and
// is expected to pass it to its own I/O.
func Run[T, R any](ctx context.Context, items []T, worker func(ctx context.Context, index int, item T) R, opts Options) []R {
	workers := min(opts.Concurrency, len(items))
	if workers <= 0 {
		return []R{}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	var (
		mu      sync.Mutex
		next    int
		results = make([]R, 0, len(items))
	)

	// claim hands out the next unclaimed index, or false once the list is
	// exhausted or the run was cancelled.
	claim := func() (int, bool) {
		if ctx.Err() != nil {
			return 0, false
		}
		mu.Lock()
		defer mu.Unlock()
		if next >= len(items) {
			return 0, false
		}
		idx := next
		next++
		return idx, true
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				idx, ok := claim()
				if !ok {
					return
				}
				// A claimed item is dropped if ctx ends while waiting for a token.
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return
					}
				}

				out := worker(ctx, idx, items[idx])

				mu.Lock()
				results = append(results, out)
				mu.Unlock()

				if opts.Delay > 0 && !sleep(ctx, opts.Delay) {
					return
				}
			}
		}()
	}
	wg.Wait()

	return results
}

// sleep waits for d, returning false if ctx is done first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
