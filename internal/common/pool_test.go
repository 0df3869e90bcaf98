package common

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestForEachRunsEveryItem(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string]bool)

	ForEach(context.Background(), []string{"a", "b", "c", "d"}, 2, time.Second, func(ctx context.Context, item string) {
		mu.Lock()
		seen[item] = true
		mu.Unlock()
	})

	if len(seen) != 4 {
		t.Errorf("expected 4 items processed, got %d", len(seen))
	}
}

func TestForEachBoundsConcurrency(t *testing.T) {
	const workers = 3

	items := make([]string, 12)
	for i := range items {
		items[i] = fmt.Sprintf("t%d", i)
	}

	var mu sync.Mutex
	inFlight, peak := 0, 0

	ForEach(context.Background(), items, workers, time.Second, func(ctx context.Context, item string) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
	})

	if peak > workers {
		t.Errorf("expected at most %d concurrent calls, saw %d", workers, peak)
	}
}

func TestForEachSetsPerCallDeadline(t *testing.T) {
	var mu sync.Mutex
	var hadDeadline bool

	ForEach(context.Background(), []string{"a"}, 1, 50*time.Millisecond, func(ctx context.Context, item string) {
		_, ok := ctx.Deadline()
		mu.Lock()
		hadDeadline = ok
		mu.Unlock()
	})

	if !hadDeadline {
		t.Error("expected the call context to carry a deadline")
	}
}
