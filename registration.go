package icpgo

import (
	"context"
	"math"
	"time"

	"github.com/hupe1980/icpgo/nns"
	"github.com/hupe1980/icpgo/pointcloud"
	"github.com/hupe1980/icpgo/transform"
)

// EvaluateRegistration measures how well transformation aligns source
// to target: fitness is the fraction of source points with a target
// neighbor within maxCorrespondenceDistance, inlier RMSE the
// root-mean-square distance over those matches.
//
// A non-positive maxCorrespondenceDistance yields a degenerate result
// (fitness 0, RMSE 0, no correspondences) rather than an error.
func EvaluateRegistration(ctx context.Context, source, target *pointcloud.PointCloud, maxCorrespondenceDistance float64, transformation transform.Matrix, optFns ...Option) (*RegistrationResult, error) {
	opts := applyOptions(optFns)

	if source.Device() != target.Device() {
		return nil, &ErrDeviceMismatch{Source: source.Device(), Target: target.Device()}
	}
	if maxCorrespondenceDistance <= 0 {
		return degenerateResult(transformation), nil
	}

	index := opts.newIndex(target.Points())
	if err := index.Build(maxCorrespondenceDistance); err != nil {
		return nil, err
	}

	working := source.Clone()
	if transformation != transform.Identity() {
		working.TransformInPlace(transformation)
	}

	return evaluateAligned(ctx, &opts, index, working, maxCorrespondenceDistance, transformation)
}

// RegistrationICP aligns source to target by iterating correspondence
// search and transform estimation until the convergence criteria are
// met or the iteration cap is reached. init seeds the alignment; pass
// transform.Identity() when no prior pose is known.
//
// The returned transformation maps the original source cloud into the
// target frame (init included). Both clouds are left untouched.
func RegistrationICP(ctx context.Context, source, target *pointcloud.PointCloud, maxCorrespondenceDistance float64, init transform.Matrix, estimation TransformationEstimation, criteria ICPConvergenceCriteria, optFns ...Option) (*RegistrationResult, error) {
	opts := applyOptions(optFns)

	if source.Device() != target.Device() {
		return nil, &ErrDeviceMismatch{Source: source.Device(), Target: target.Device()}
	}
	if _, ok := estimation.(*PointToPlane); ok && !target.HasNormals() {
		return nil, ErrMissingNormals
	}
	if maxCorrespondenceDistance <= 0 {
		return degenerateResult(init), nil
	}

	index := opts.newIndex(target.Points())
	if err := index.Build(maxCorrespondenceDistance); err != nil {
		return nil, err
	}

	working := source.Clone()
	current := init
	if init != transform.Identity() {
		working.TransformInPlace(init)
	}

	result, err := evaluateAligned(ctx, &opts, index, working, maxCorrespondenceDistance, current)
	if err != nil {
		return nil, err
	}
	opts.logger.LogIteration(ctx, 0, result.Fitness, result.InlierRMSE)

	prevFitness := result.Fitness
	prevRMSE := result.InlierRMSE
	converged := false

	iteration := 0
	for i := 0; i < criteria.MaxIteration; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// No matches within range: the estimators have nothing to work
		// with, so the loop stops at the current alignment.
		if result.Correspondences.Len() == 0 {
			break
		}

		estStart := time.Now()
		update, err := estimation.ComputeTransformation(ctx, working, target, result.Correspondences)
		opts.metricsCollector.RecordEstimation(estimation.Method(), time.Since(estStart), err)
		opts.logger.LogEstimation(ctx, estimation.Method(), err)
		if err != nil {
			return nil, err
		}

		current = update.Mul(current)
		working.TransformInPlace(update)

		iterStart := time.Now()
		result, err = evaluateAligned(ctx, &opts, index, working, maxCorrespondenceDistance, current)
		if err != nil {
			return nil, err
		}

		iteration = i + 1
		opts.logger.LogIteration(ctx, iteration, result.Fitness, result.InlierRMSE)
		opts.metricsCollector.RecordIteration(iteration, result.Fitness, result.InlierRMSE, time.Since(iterStart))

		if math.Abs(prevFitness-result.Fitness) < criteria.RelativeFitness &&
			math.Abs(prevRMSE-result.InlierRMSE) < criteria.RelativeRMSE {
			converged = true
			break
		}
		prevFitness = result.Fitness
		prevRMSE = result.InlierRMSE
	}

	opts.logger.LogConverged(ctx, iteration, converged, result.Fitness, result.InlierRMSE)
	return result, nil
}

// evaluateAligned searches correspondences for an already-transformed
// source cloud and folds them into a result carrying transformation.
func evaluateAligned(ctx context.Context, opts *options, index nns.Index, aligned *pointcloud.PointCloud, maxCorrespondenceDistance float64, transformation transform.Matrix) (*RegistrationResult, error) {
	start := time.Now()
	res, err := index.HybridSearch(ctx, aligned.Points(), maxCorrespondenceDistance)
	duration := time.Since(start)

	matches := 0
	if res != nil {
		matches = res.Len()
	}
	opts.metricsCollector.RecordSearch(matches, duration, err)
	opts.logger.LogSearch(ctx, aligned.Len(), matches, err)
	if err != nil {
		return nil, err
	}

	corres := correspondencesFromSearch(res)
	out := &RegistrationResult{
		Transformation:  transformation,
		Correspondences: corres,
	}
	if corres.Len() == 0 || aligned.Len() == 0 {
		return out, nil
	}

	var sum float64
	for _, d := range corres.Distances {
		sum += float64(d)
	}
	out.Fitness = float64(corres.Len()) / float64(aligned.Len())
	out.InlierRMSE = math.Sqrt(sum / float64(corres.Len()))
	return out, nil
}

func degenerateResult(transformation transform.Matrix) *RegistrationResult {
	return &RegistrationResult{
		Transformation:  transformation,
		Correspondences: &CorrespondenceSet{},
	}
}
