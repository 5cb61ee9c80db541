// Package workpool provides the bounded, errgroup-based fan-out used for the
// embarrassingly-parallel algebraic key computations in relation:
// near-field and interaction-list generation are pure functions of one key
// with no shared mutable state.
package workpool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Map applies f to every item in items, running at most workers goroutines
// concurrently, and returns the results in input order. workers <= 0 means
// runtime.GOMAXPROCS(0). f must not mutate shared state.
func Map[T, R any](ctx context.Context, workers int, items []T, f func(T) R) []R {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(items) {
		workers = len(items)
	}
	if workers <= 1 {
		out := make([]R, len(items))
		for i, item := range items {
			out[i] = f(item)
		}
		return out
	}

	out := make([]R, len(items))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			out[i] = f(item)
			return nil
		})
	}

	_ = g.Wait() // f never errors; Wait only blocks for completion.

	return out
}
