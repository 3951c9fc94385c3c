package icpgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/icpgo/internal/kernel"
	"github.com/hupe1980/icpgo/pointcloud"
)

var (
	// ErrSingularSystem is returned when the point-to-plane
	// normal-equation system carries no usable information, e.g. all
	// correspondences degenerate. The caller decides the fallback,
	// such as switching to the point-to-point estimator.
	ErrSingularSystem = errors.New("singular normal-equation system")

	// ErrNoCorrespondences is returned when an estimator is invoked
	// with an empty correspondence set. The registration loop guards
	// against this; it only surfaces when estimators are called
	// directly.
	ErrNoCorrespondences = errors.New("no correspondences")

	// ErrMissingNormals is returned when the point-to-plane estimator
	// is used with a target cloud that has no normals.
	ErrMissingNormals = errors.New("target point cloud has no normals")
)

// ErrDeviceMismatch indicates source and target clouds on different
// devices. Device placement is never coerced silently.
type ErrDeviceMismatch struct {
	Source pointcloud.Device
	Target pointcloud.Device
}

func (e *ErrDeviceMismatch) Error() string {
	return fmt.Sprintf("device mismatch: source %s, target %s", e.Source, e.Target)
}

// ErrCorrespondenceLengthMismatch indicates a correspondence set whose
// parallel slices disagree in length.
type ErrCorrespondenceLengthMismatch struct {
	First     int
	Second    int
	Distances int
}

func (e *ErrCorrespondenceLengthMismatch) Error() string {
	return fmt.Sprintf("correspondence length mismatch: first %d, second %d, distances %d",
		e.First, e.Second, e.Distances)
}

// translateError normalizes internal errors to the public taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, kernel.ErrSingularSystem) {
		return fmt.Errorf("%w: %w", ErrSingularSystem, err)
	}
	return err
}
