package icpgo

import (
	"github.com/hupe1980/icpgo/nns"
	"github.com/hupe1980/icpgo/transform"
)

// CorrespondenceSet holds matched point pairs as three parallel
// slices: First indexes the source cloud, Second the target cloud, and
// Distances carries the squared distance per pair.
type CorrespondenceSet struct {
	First     []int
	Second    []int
	Distances []float32
}

// Len returns the number of correspondences.
func (c *CorrespondenceSet) Len() int {
	if c == nil {
		return 0
	}
	return len(c.First)
}

func (c *CorrespondenceSet) validate() error {
	if len(c.First) != len(c.Second) || len(c.First) != len(c.Distances) {
		return &ErrCorrespondenceLengthMismatch{
			First:     len(c.First),
			Second:    len(c.Second),
			Distances: len(c.Distances),
		}
	}
	return nil
}

// correspondencesFromSearch adopts a squeezed search result.
func correspondencesFromSearch(res *nns.Result) *CorrespondenceSet {
	return &CorrespondenceSet{
		First:     res.QueryIndices,
		Second:    res.TargetIndices,
		Distances: res.Distances,
	}
}

// RegistrationResult is the outcome of one evaluation or a full
// registration run.
type RegistrationResult struct {
	// Transformation maps the source cloud into the target frame.
	Transformation transform.Matrix

	// Fitness is the fraction of source points with a correspondence
	// within the distance threshold. Higher is better.
	Fitness float64

	// InlierRMSE is the root-mean-square distance over the matched
	// correspondences. Lower is better; 0 when there are no matches.
	InlierRMSE float64

	// Correspondences is the match set behind Fitness and InlierRMSE.
	Correspondences *CorrespondenceSet
}
