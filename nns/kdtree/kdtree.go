// Package kdtree provides the default nearest-neighbor backend: a
// balanced 3D kd-tree over the target point set.
//
// The tree is constructed eagerly in New and never mutated afterwards,
// so any number of goroutines may query it concurrently. Build records
// the search radius the index is valid for, matching the contract that
// an index must be prepared for a radius before it is searched with it.
package kdtree

import (
	"context"
	"math"
	"slices"

	"github.com/hupe1980/icpgo/distance"
	"github.com/hupe1980/icpgo/internal/parallel"
	"github.com/hupe1980/icpgo/nns"
)

// Compile-time check to ensure Index satisfies the nns.Index interface.
var _ nns.Index = (*Index)(nil)

// Options contains configuration options for the kd-tree index.
type Options struct {
	// NumWorkers is the parallelism for query fan-out.
	// Non-positive selects GOMAXPROCS.
	NumWorkers int
}

// DefaultOptions contains the default configuration options for the
// kd-tree index.
var DefaultOptions = Options{
	NumWorkers: 0,
}

// node is one kd-tree node stored in a flat array. Children are array
// indices, -1 for none.
type node struct {
	point       int32
	left, right int32
	axis        int8
}

// Index is a balanced kd-tree over a fixed target point set.
type Index struct {
	points [][3]float32
	nodes  []node
	root   int32
	opts   Options

	built       bool
	builtRadius float64
}

// New creates a kd-tree over the target points. The slice is
// referenced, not copied; the caller must not mutate it while the index
// is in use.
func New(points [][3]float32, optFns ...func(o *Options)) *Index {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	idx := &Index{
		points: points,
		nodes:  make([]node, 0, len(points)),
		root:   -1,
		opts:   opts,
	}

	order := make([]int32, len(points))
	for i := range order {
		order[i] = int32(i)
	}
	idx.root = idx.build(order, 0)

	return idx
}

// build recursively splits order at the median of the cycling axis and
// returns the node index of the subtree root.
func (idx *Index) build(order []int32, depth int) int32 {
	if len(order) == 0 {
		return -1
	}
	axis := int8(depth % 3)

	slices.SortFunc(order, func(a, b int32) int {
		pa, pb := idx.points[a][axis], idx.points[b][axis]
		switch {
		case pa < pb:
			return -1
		case pa > pb:
			return 1
		default:
			// Stable fallback on the original index keeps the tree
			// shape deterministic for duplicate coordinates.
			return int(a - b)
		}
	})

	mid := len(order) / 2
	ni := int32(len(idx.nodes))
	idx.nodes = append(idx.nodes, node{point: order[mid], left: -1, right: -1, axis: axis})

	left := idx.build(order[:mid], depth+1)
	right := idx.build(order[mid+1:], depth+1)
	idx.nodes[ni].left = left
	idx.nodes[ni].right = right
	return ni
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
			best := int32(-1)
			bestSq := float32(math.Inf(1))
			idx.nearest(idx.root, queries[qi], maxSq, &best, &bestSq)
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

// nearest walks the subtree rooted at ni, tightening (best, bestSq) to
// the nearest point within maxSq.
func (idx *Index) nearest(ni int32, q [3]float32, maxSq float32, best *int32, bestSq *float32) {
	if ni < 0 {
		return
	}
	n := idx.nodes[ni]
	p := idx.points[n.point]

	if sq := distance.SquaredL2(q, p); sq <= maxSq && sq < *bestSq {
		*best = n.point
		*bestSq = sq
	}

	diff := q[n.axis] - p[n.axis]
	near, far := n.left, n.right
	if diff > 0 {
		near, far = n.right, n.left
	}

	idx.nearest(near, q, maxSq, best, bestSq)

	// The far side can only help if the splitting plane is closer than
	// both the current best and the radius bound.
	bound := *bestSq
	if maxSq < bound {
		bound = maxSq
	}
	if diff*diff <= bound {
		idx.nearest(far, q, maxSq, best, bestSq)
	}
}
