// Package flat provides a brute-force nearest-neighbor backend.
//
// Every query scans all target points. That is O(len(queries) *
// len(target)) and only sensible for small clouds or as a reference to
// cross-check tree-based backends, which is exactly what the tests use
// it for.
package flat

import (
	"context"
	"math"

	"github.com/hupe1980/icpgo/distance"
	"github.com/hupe1980/icpgo/internal/parallel"
	"github.com/hupe1980/icpgo/nns"
)

// Compile-time check to ensure Index satisfies the nns.Index interface.
var _ nns.Index = (*Index)(nil)

// Options contains configuration options for the flat index.
type Options struct {
	// NumWorkers is the parallelism for query fan-out.
	// Non-positive selects GOMAXPROCS.
	NumWorkers int
}

// DefaultOptions contains the default configuration options for the
// flat index.
var DefaultOptions = Options{
	NumWorkers: 0,
}

// Index is a brute-force index over a fixed target point set.
// Immutable after construction; Build must not race with searches.
type Index struct {
	points [][3]float32
	opts   Options

	built       bool
	builtRadius float64
}

// New creates a flat index over the target points. The slice is
// referenced, not copied; the caller must not mutate it while the index
// is in use.
func New(points [][3]float32, optFns ...func(o *Options)) *Index {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Index{points: points, opts: opts}
}

// Build prepares the index for searches with the given radius.
func (idx *Index) Build(radius float64) error {
	if radius <= 0 {
		return &nns.ErrInvalidRadius{Radius: radius}
	}
	idx.built = true
	idx.builtRadius = radius
	return nil
}

// HybridSearch implements nns.Index.
func (idx *Index) HybridSearch(ctx context.Context, queries [][3]float32, radius float64) (*nns.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !idx.built {
		return nil, nns.ErrIndexNotBuilt
	}
	if radius != idx.builtRadius {
		return nil, &nns.ErrRadiusMismatch{Built: idx.builtRadius, Requested: radius}
	}

	maxSq := float32(radius * radius)
	matched := make([]int32, len(queries))
	dists := make([]float32, len(queries))

	err := parallel.For(ctx, len(queries), idx.opts.NumWorkers, func(_, start, end int) error {
		for qi := start; qi < end; qi++ {
			q := queries[qi]
			best := int32(-1)
			bestSq := float32(math.Inf(1))
			for ti, p := range idx.points {
				if sq := distance.SquaredL2(q, p); sq <= maxSq && sq < bestSq {
					best = int32(ti)
					bestSq = sq
				}
			}
			matched[qi] = best
			dists[qi] = bestSq
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return nns.Squeeze(matched, dists), nil
}
