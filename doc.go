// Package icpgo provides rigid point-cloud registration: given a
// moving source cloud and a fixed target cloud, it iteratively finds
// the 6-DoF rigid transform that best aligns them (Iterative Closest
// Point).
//
// # Quick Start
//
//	source, _ := pointcloud.New(sourcePoints)
//	target, _ := pointcloud.New(targetPoints, pointcloud.WithNormals(targetNormals))
//
//	result, err := icpgo.RegistrationICP(
//	    ctx, source, target,
//	    0.07,                 // max correspondence distance
//	    transform.Identity(), // initial transform
//	    icpgo.NewPointToPlane(),
//	    icpgo.DefaultICPConvergenceCriteria(),
//	)
//
// result.Transformation maps source into the target frame;
// result.Fitness is the matched fraction of source points and
// result.InlierRMSE the root-mean-square distance over the matches.
//
// # Estimators
//
//   - NewPointToPoint: closed-form SVD (Kabsch/Umeyama) alignment of
//     matched points. Needs no normals.
//   - NewPointToPlane: linearized normal-equation solve against target
//     normals. Converges in fewer iterations on smooth surfaces; the
//     target cloud must carry normals.
//
// # Observability
//
// Structured logging and per-phase metrics are opt-in via WithLogger
// and WithMetricsCollector; both default to no-ops.
package icpgo
