package common

import (
	"context"
	"sync"
	"time"
)

// Fan-out defaults for services that hit the price provider once per
// ticker.
const (
	DefaultFetchWorkers = 4
	DefaultFetchTimeout = 10 * time.Second
)

// ForEach runs fn for every item on a bounded goroutine pool, each call
// under its own timeout, and returns once every call has finished. One
// slow or failing item never blocks the others beyond the pool bound.
func ForEach(ctx context.Context, items []string, workers int, timeout time.Duration, fn func(ctx context.Context, item string)) {
	if workers <= 0 {
		workers = DefaultFetchWorkers
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(item string) {
			defer wg.Done()
			defer func() { <-sem }()

			callCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			fn(callCtx, item)
		}(item)
	}
	wg.Wait()
}
