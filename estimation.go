package icpgo

import (
	"context"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/icpgo/internal/kernel"
	"github.com/hupe1980/icpgo/pointcloud"
	"github.com/hupe1980/icpgo/transform"
)

// TransformationEstimation computes a rigid transform from a set of
// correspondences. Implementations are stateless regarding the clouds;
// all inputs arrive per call.
type TransformationEstimation interface {
	// Method names the estimator for logs and metrics.
	Method() string

	// ComputeTransformation estimates the rigid transform that moves
	// the matched source points onto their target counterparts.
	ComputeTransformation(ctx context.Context, source, target *pointcloud.PointCloud, corres *CorrespondenceSet) (transform.Matrix, error)

	// ComputeRMSE reports the estimator's own residual over the
	// correspondences: point distances for point-to-point, plane
	// distances for point-to-plane. Returns 0 for an empty set.
	ComputeRMSE(source, target *pointcloud.PointCloud, corres *CorrespondenceSet) (float64, error)
}

// Compile-time checks to ensure both estimators satisfy the interface.
var _ TransformationEstimation = (*PointToPoint)(nil)
var _ TransformationEstimation = (*PointToPlane)(nil)

// validateEstimation runs the shared preconditions before any work is
// scheduled.
func validateEstimation(source, target *pointcloud.PointCloud, corres *CorrespondenceSet) error {
	if source.Device() != target.Device() {
		return &ErrDeviceMismatch{Source: source.Device(), Target: target.Device()}
	}
	return corres.validate()
}

// PointToPoint is the closed-form SVD estimator (Kabsch/Umeyama): the
// optimal rigid alignment minimizing the sum of squared point-to-point
// distances over fixed correspondences.
type PointToPoint struct{}

// NewPointToPoint creates a point-to-point estimator.
func NewPointToPoint() *PointToPoint {
	return &PointToPoint{}
}

// Method implements TransformationEstimation.
func (e *PointToPoint) Method() string { return "PointToPoint" }

// ComputeTransformation implements TransformationEstimation.
func (e *PointToPoint) ComputeTransformation(ctx context.Context, source, target *pointcloud.PointCloud, corres *CorrespondenceSet) (transform.Matrix, error) {
	if err := ctx.Err(); err != nil {
		return transform.Identity(), err
	}
	if err := validateEstimation(source, target, corres); err != nil {
		return transform.Identity(), err
	}
	if corres.Len() == 0 {
		return transform.Identity(), ErrNoCorrespondences
	}

	srcPts := source.Points()
	tgtPts := target.Points()
	invC := 1 / float64(corres.Len())

	var muS, muT r3.Vector
	for i := range corres.First {
		s := srcPts[corres.First[i]]
		t := tgtPts[corres.Second[i]]
		muS = muS.Add(r3.Vector{X: float64(s[0]), Y: float64(s[1]), Z: float64(s[2])})
		muT = muT.Add(r3.Vector{X: float64(t[0]), Y: float64(t[1]), Z: float64(t[2])})
	}
	muS = muS.Mul(invC)
	muT = muT.Mul(invC)

	// Cross-covariance Sigma = (1/C) sum (t - muT)(s - muS)^T.
	var cov [9]float64
	for i := range corres.First {
		s := srcPts[corres.First[i]]
		t := tgtPts[corres.Second[i]]
		ds := r3.Vector{X: float64(s[0]), Y: float64(s[1]), Z: float64(s[2])}.Sub(muS)
		dt := r3.Vector{X: float64(t[0]), Y: float64(t[1]), Z: float64(t[2])}.Sub(muT)
		cov[0] += dt.X * ds.X
		cov[1] += dt.X * ds.Y
		cov[2] += dt.X * ds.Z
		cov[3] += dt.Y * ds.X
		cov[4] += dt.Y * ds.Y
		cov[5] += dt.Y * ds.Z
		cov[6] += dt.Z * ds.X
		cov[7] += dt.Z * ds.Y
		cov[8] += dt.Z * ds.Z
	}
	for i := range cov {
		cov[i] *= invC
	}
	sigma := mat.NewDense(3, 3, cov[:])

	var svd mat.SVD
	if ok := svd.Factorize(sigma, mat.SVDFull); !ok {
		return transform.Identity(), fmt.Errorf("point-to-point: SVD failed to converge")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// Reflection correction keeps the rotation proper (det +1).
	s := mat.NewDiagDense(3, []float64{1, 1, 1})
	if mat.Det(&u)*mat.Det(&v) < 0 {
		s.SetDiag(2, -1)
	}

	var r mat.Dense
	r.Product(&u, s, v.T())

	t := muT.Sub(r3.Vector{
		X: r.At(0, 0)*muS.X + r.At(0, 1)*muS.Y + r.At(0, 2)*muS.Z,
		Y: r.At(1, 0)*muS.X + r.At(1, 1)*muS.Y + r.At(1, 2)*muS.Z,
		Z: r.At(2, 0)*muS.X + r.At(2, 1)*muS.Y + r.At(2, 2)*muS.Z,
	})

	return transform.FromRt(&r, t), nil
}

// ComputeRMSE implements TransformationEstimation.
func (e *PointToPoint) ComputeRMSE(source, target *pointcloud.PointCloud, corres *CorrespondenceSet) (float64, error) {
	if err := validateEstimation(source, target, corres); err != nil {
		return 0, err
	}
	if corres.Len() == 0 {
		return 0, nil
	}

	srcPts := source.Points()
	tgtPts := target.Points()

	var sum float64
	for i := range corres.First {
		s := srcPts[corres.First[i]]
		t := tgtPts[corres.Second[i]]
		dx := float64(s[0] - t[0])
		dy := float64(s[1] - t[1])
		dz := float64(s[2] - t[2])
		sum += dx*dx + dy*dy + dz*dz
	}
	return math.Sqrt(sum / float64(corres.Len())), nil
}

// PointToPlaneOptions contains configuration options for the
// point-to-plane estimator.
type PointToPlaneOptions struct {
	// NumWorkers is the parallelism for the normal-equation reduction.
	// Non-positive selects GOMAXPROCS.
	NumWorkers int
}

// PointToPlane is the linearized estimator: it assembles the 6x6
// normal-equation system from plane residuals against target normals
// and solves for a small pose increment. The resulting rotation block
// is the first-order approximation I + skew(w) and is not
// re-orthonormalized.
type PointToPlane struct {
	opts PointToPlaneOptions
}

// NewPointToPlane creates a point-to-plane estimator. The target cloud
// passed to ComputeTransformation must carry normals.
func NewPointToPlane(optFns ...func(o *PointToPlaneOptions)) *PointToPlane {
	var opts PointToPlaneOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return &PointToPlane{opts: opts}
}

// Method implements TransformationEstimation.
func (e *PointToPlane) Method() string { return "PointToPlane" }

// ComputeTransformation implements TransformationEstimation.
func (e *PointToPlane) ComputeTransformation(ctx context.Context, source, target *pointcloud.PointCloud, corres *CorrespondenceSet) (transform.Matrix, error) {
	if err := ctx.Err(); err != nil {
		return transform.Identity(), err
	}
	if err := validateEstimation(source, target, corres); err != nil {
		return transform.Identity(), err
	}
	if !target.HasNormals() {
		return transform.Identity(), ErrMissingNormals
	}
	if corres.Len() == 0 {
		return transform.Identity(), ErrNoCorrespondences
	}

	pose, err := kernel.ComputePosePointToPlane(
		ctx,
		source.Points(), target.Points(), target.Normals(),
		corres.First, corres.Second,
		e.opts.NumWorkers,
	)
	if err != nil {
		return transform.Identity(), translateError(err)
	}

	return transform.FromPose(pose), nil
}

// ComputeRMSE implements TransformationEstimation. The residual is the
// point-to-plane distance (s - t) . n. Returns 0 when the target has
// no normals.
func (e *PointToPlane) ComputeRMSE(source, target *pointcloud.PointCloud, corres *CorrespondenceSet) (float64, error) {
	if err := validateEstimation(source, target, corres); err != nil {
		return 0, err
	}
	if !target.HasNormals() || corres.Len() == 0 {
		return 0, nil
	}

	srcPts := source.Points()
	tgtPts := target.Points()
	tgtNrm := target.Normals()

	var sum float64
	for i := range corres.First {
		s := srcPts[corres.First[i]]
		t := tgtPts[corres.Second[i]]
		n := tgtNrm[corres.Second[i]]
		r := float64(s[0]-t[0])*float64(n[0]) +
			float64(s[1]-t[1])*float64(n[1]) +
			float64(s[2]-t[2])*float64(n[2])
		sum += r * r
	}
	return math.Sqrt(sum / float64(corres.Len())), nil
}
