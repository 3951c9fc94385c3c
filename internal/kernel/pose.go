// Package kernel implements the numerical core of point-to-plane
// registration: the parallel reduction that assembles the 6x6
// normal-equation system from correspondences, and the solve that turns
// it into a linearized pose increment.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/icpgo/internal/parallel"
)

// ErrSingularSystem indicates a normal-equation system with no usable
// information, e.g. from degenerate correspondence geometry.
var ErrSingularSystem = errors.New("singular normal-equation system")

const (
	// triLen is the number of entries in the packed upper triangle of
	// the symmetric 6x6 ATA matrix.
	triLen = 21

	// sysLen packs one partial system: 21 ATA entries plus 6 ATB
	// entries.
	sysLen = 27
)

// System is the reduced normal-equation system ATA * pose = ATB, with
// ATA stored as its packed upper triangle. Packing halves the reduction
// bandwidth; the full symmetric matrix is expanded only once, at solve
// time.
type System struct {
	ATA [triLen]float64
	ATB [6]float64
}

// TriIndex maps (j, k) with k <= j to the packed triangle slot, the
// same row-major lower-loop order the reduction uses.
func TriIndex(j, k int) int {
	return j*(j+1)/2 + k
}

// AssembleNormalEquations reduces all correspondences into a System.
//
// For correspondence (first[i], second[i]) with source point s, target
// point t and target normal n, the per-pair row is
// a = [cross(s, n), n] with residual b = (t - s) . n, accumulated as
// ATA += a aT (packed) and ATB += a b.
//
// The reduction is associative and commutative: work is split into
// contiguous chunks, each chunk sums into a private float64 partial,
// and partials are merged in chunk order after the join. For a fixed
// worker count the result is bit-identical across runs; across worker
// counts it agrees up to float64 rounding. Accumulation is always in
// float64 - float32 sums over millions of terms lose the increment
// entirely.
func AssembleNormalEquations(
	ctx context.Context,
	sourcePoints, targetPoints, targetNormals [][3]float32,
	first, second []int,
	numWorkers int,
) (System, error) {
	var sys System

	n := len(first)
	if len(second) != n {
		return sys, fmt.Errorf("kernel: correspondence length mismatch: %d != %d", n, len(second))
	}

	partials := make([][sysLen]float64, parallel.ChunkCount(n, numWorkers))

	err := parallel.For(ctx, n, numWorkers, func(chunk, start, end int) error {
		acc := &partials[chunk]
		for i := start; i < end; i++ {
			s := sourcePoints[first[i]]
			t := targetPoints[second[i]]
			nm := targetNormals[second[i]]

			sx, sy, sz := float64(s[0]), float64(s[1]), float64(s[2])
			tx, ty, tz := float64(t[0]), float64(t[1]), float64(t[2])
			nx, ny, nz := float64(nm[0]), float64(nm[1]), float64(nm[2])

			a := [6]float64{
				nz*sy - ny*sz,
				nx*sz - nz*sx,
				ny*sx - nx*sy,
				nx,
				ny,
				nz,
			}
			b := (tx-sx)*nx + (ty-sy)*ny + (tz-sz)*nz

			idx := 0
			for j := 0; j < 6; j++ {
				for k := 0; k <= j; k++ {
					acc[idx] += a[j] * a[k]
					idx++
				}
				acc[triLen+j] += a[j] * b
			}
		}
		return nil
	})
	if err != nil {
		return sys, err
	}

	for c := range partials {
		for i := 0; i < triLen; i++ {
			sys.ATA[i] += partials[c][i]
		}
		for j := 0; j < 6; j++ {
			sys.ATB[j] += partials[c][triLen+j]
		}
	}

	return sys, nil
}

// ExpandATA unpacks the triangle into the full symmetric 6x6 matrix.
func ExpandATA(tri [triLen]float64) *mat.SymDense {
	full := mat.NewSymDense(6, nil)
	idx := 0
	for j := 0; j < 6; j++ {
		for k := 0; k <= j; k++ {
			full.SetSym(j, k, tri[idx])
			idx++
		}
	}
	return full
}

// SolvePose solves ATA * pose = ATB for the linearized pose
// [wx wy wz tx ty tz].
//
// A plain LU solve handles the well-posed case. Rank-deficient systems
// (coplanar or colinear correspondence geometry leaves some of the six
// degrees of freedom unconstrained) fall back to an SVD minimum-norm
// least-squares solution, which zeroes the unconstrained components
// instead of failing outright. Only a system carrying no information at
// all reports ErrSingularSystem.
func SolvePose(sys System) ([6]float64, error) {
	var pose [6]float64

	ata := ExpandATA(sys.ATA)
	atb := mat.NewVecDense(6, append([]float64(nil), sys.ATB[:]...))

	var x mat.VecDense
	if err := x.SolveVec(ata, atb); err == nil {
		for i := 0; i < 6; i++ {
			pose[i] = x.AtVec(i)
		}
		return pose, nil
	}

	return solvePoseMinNorm(ata, sys.ATB)
}

// solvePoseMinNorm computes the SVD pseudo-inverse solution. Singular
// values below a relative tolerance of the largest are treated as zero.
func solvePoseMinNorm(ata *mat.SymDense, atb [6]float64) ([6]float64, error) {
	var pose [6]float64

	var svd mat.SVD
	if ok := svd.Factorize(ata, mat.SVDFull); !ok {
		return pose, fmt.Errorf("%w: SVD failed to converge", ErrSingularSystem)
	}

	values := svd.Values(nil)
	maxSV := values[0]
	if maxSV <= 0 || math.IsNaN(maxSV) || math.IsInf(maxSV, 0) {
		return pose, fmt.Errorf("%w: no usable singular values", ErrSingularSystem)
	}
	tol := maxSV * 1e-12

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// pose = V * pinv(S) * UT * atb
	var ub [6]float64
	for i := 0; i < 6; i++ {
		if values[i] <= tol {
			continue
		}
		var sum float64
		for j := 0; j < 6; j++ {
			sum += u.At(j, i) * atb[j]
		}
		ub[i] = sum / values[i]
	}
	for i := 0; i < 6; i++ {
		var sum float64
		for j := 0; j < 6; j++ {
			sum += v.At(i, j) * ub[j]
		}
		pose[i] = sum
	}

	return pose, nil
}

// ComputePosePointToPlane assembles and solves the point-to-plane
// system in one step.
func ComputePosePointToPlane(
	ctx context.Context,
	sourcePoints, targetPoints, targetNormals [][3]float32,
	first, second []int,
	numWorkers int,
) ([6]float64, error) {
	sys, err := AssembleNormalEquations(ctx, sourcePoints, targetPoints, targetNormals, first, second, numWorkers)
	if err != nil {
		return [6]float64{}, err
	}
	return SolvePose(sys)
}
