package workflow

import (
	"context"
	"sync"
)

// Result is the outcome of one enrichment lookup.
type Result[T any] struct {
	Value T
	Err   error
}

// enrich runs lookup for every item concurrently and waits for all of them.
// A failed lookup never affects its siblings.
func enrich[T, V any](ctx context.Context, items []T, lookup func(context.Context, T) (V, error)) []Result[V] {
	out := make([]Result[V], len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := lookup(ctx, item)
			out[i] = Result[V]{Value: v, Err: err}
		}()
	}
	wg.Wait()
	return out
}
