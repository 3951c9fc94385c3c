// Package nns defines the nearest-neighbor search contract consumed by
// the registration core.
//
// An Index is constructed over a fixed target point set, prepared once
// with Build for a given search radius, and then queried concurrently.
// Indexes are immutable after construction: Build records the radius
// the index is valid for and performs any backend-specific setup, and
// HybridSearch may be called from multiple goroutines.
package nns

import (
	"context"
	"errors"
	"fmt"
)

// ErrIndexNotBuilt is returned when HybridSearch is called before Build.
var ErrIndexNotBuilt = errors.New("nns: index not built")

// ErrInvalidRadius indicates a non-positive search radius.
type ErrInvalidRadius struct {
	Radius float64
}

func (e *ErrInvalidRadius) Error() string {
	return fmt.Sprintf("nns: invalid search radius: %g", e.Radius)
}

// ErrRadiusMismatch indicates a search with a radius the index was not
// built for.
type ErrRadiusMismatch struct {
	Built     float64
	Requested float64
}

func (e *ErrRadiusMismatch) Error() string {
	return fmt.Sprintf("nns: index built for radius %g, searched with %g", e.Built, e.Requested)
}

// Result is the squeezed outcome of a hybrid search: three parallel
// slices holding, per matched query, the query index, the index of its
// nearest target point, and the squared distance between them. Queries
// with no target point within the radius are dropped.
type Result struct {
	QueryIndices  []int
	TargetIndices []int
	Distances     []float32
}

// Len returns the number of matched queries.
func (r *Result) Len() int { return len(r.QueryIndices) }

// Squeeze compacts per-query match buffers into the parallel-slice
// result, preserving ascending query order. matched holds, per query,
// the nearest target index or -1 for no match within radius; dists
// holds the corresponding squared distances. Backends fill these
// buffers in parallel and squeeze after the join so the output order
// never depends on scheduling.
func Squeeze(matched []int32, dists []float32) *Result {
	n := 0
	for _, m := range matched {
		if m >= 0 {
			n++
		}
	}
	res := &Result{
		QueryIndices:  make([]int, 0, n),
		TargetIndices: make([]int, 0, n),
		Distances:     make([]float32, 0, n),
	}
	for qi, m := range matched {
		if m < 0 {
			continue
		}
		res.QueryIndices = append(res.QueryIndices, qi)
		res.TargetIndices = append(res.TargetIndices, int(m))
		res.Distances = append(res.Distances, dists[qi])
	}
	return res
}

// Index is a nearest-neighbor search index over a fixed target point
// set.
type Index interface {
	// Build prepares the index for searches with the given radius.
	// It must be called before HybridSearch.
	Build(radius float64) error

	// HybridSearch finds, for every query point, its single nearest
	// target point within radius, and drops unmatched queries. The
	// result order is ascending query index regardless of internal
	// parallelism. Fails if the index was not built for radius.
	HybridSearch(ctx context.Context, queries [][3]float32, radius float64) (*Result, error)
}
