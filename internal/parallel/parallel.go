// Package parallel provides the chunked data-parallel fan-out used by
// the correspondence search and the normal-equation reduction.
//
// Work is split into contiguous index chunks whose boundaries depend
// only on the item count and worker count, never on scheduling. Callers
// that keep per-chunk partial results can therefore merge them in chunk
// order and get a deterministic result for a fixed worker count.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers normalizes a requested worker count. Non-positive values
// select runtime.GOMAXPROCS(0).
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// chunking returns the chunk size and chunk count for n items across
// the given worker count.
func chunking(n, workers int) (size, count int) {
	if n <= 0 {
		return 0, 0
	}
	w := Workers(workers)
	if w > n {
		w = n
	}
	size = (n + w - 1) / w
	count = (n + size - 1) / size
	return size, count
}

// ChunkCount returns the number of chunks For will schedule for n items
// and the given worker count.
func ChunkCount(n, workers int) int {
	_, count := chunking(n, workers)
	return count
}

// For runs fn over contiguous chunks of [0, n), one goroutine per
// chunk, and waits for all of them. fn receives the chunk index and the
// half-open index range it owns. The first error cancels the remaining
// chunks via the derived context and is returned.
func For(ctx context.Context, n, workers int, fn func(chunk, start, end int) error) error {
	size, count := chunking(n, workers)
	if count == 0 {
		return ctx.Err()
	}
	if count == 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(0, 0, n)
	}

	g, gctx := errgroup.WithContext(ctx)
	for c := 0; c < count; c++ {
		c := c
		start := c * size
		end := start + size
		if end > n {
			end = n
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(c, start, end)
		})
	}
	return g.Wait()
}
