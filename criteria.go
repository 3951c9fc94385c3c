package icpgo

// ICPConvergenceCriteria bounds the registration loop. The loop stops
// when BOTH the fitness change AND the inlier RMSE change between two
// consecutive iterations fall below their relative thresholds, or when
// MaxIteration is reached.
type ICPConvergenceCriteria struct {
	// RelativeFitness is the fitness-change threshold.
	RelativeFitness float64

	// RelativeRMSE is the inlier-RMSE-change threshold.
	RelativeRMSE float64

	// MaxIteration caps the number of iterations.
	MaxIteration int
}

// DefaultICPConvergenceCriteria returns the standard criteria:
// 1e-6 relative fitness, 1e-6 relative RMSE, 30 iterations.
func DefaultICPConvergenceCriteria() ICPConvergenceCriteria {
	return ICPConvergenceCriteria{
		RelativeFitness: 1e-6,
		RelativeRMSE:    1e-6,
		MaxIteration:    30,
	}
}
