// Package pointcloud provides the in-memory point container consumed
// by the registration pipeline: float32 positions with optional
// per-point unit normals and a device tag.
//
// Clouds are read-mostly. The registration core never mutates a
// caller's cloud; transforming produces a copy unless the caller
// explicitly opts into in-place mutation of a cloud it owns.
package pointcloud

import (
	"fmt"

	"github.com/hupe1980/icpgo/transform"
)

// Device identifies where a point cloud's storage lives. Source and
// target clouds must share a device; a mismatch is a hard error at the
// entry of every registration operation.
type Device int

const (
	// DeviceCPU is host memory. The only device supported today.
	DeviceCPU Device = iota
)

// String returns a string representation of the Device.
func (d Device) String() string {
	switch d {
	case DeviceCPU:
		return "CPU:0"
	default:
		return fmt.Sprintf("Unknown(%d)", int(d))
	}
}

// ErrAttributeLengthMismatch indicates a per-point attribute whose
// length differs from the number of points.
type ErrAttributeLengthMismatch struct {
	Attribute string
	Points    int
	Actual    int
}

func (e *ErrAttributeLengthMismatch) Error() string {
	return fmt.Sprintf("pointcloud: %s length %d != points length %d", e.Attribute, e.Actual, e.Points)
}

// ErrInvalidVoxelSize indicates a non-positive voxel size.
type ErrInvalidVoxelSize struct {
	VoxelSize float64
}

func (e *ErrInvalidVoxelSize) Error() string {
	return fmt.Sprintf("pointcloud: invalid voxel size: %g", e.VoxelSize)
}

// Options contains configuration options for a point cloud.
type Options struct {
	// Normals are optional per-point unit normals. When set, the length
	// must match the number of points.
	Normals [][3]float32

	// Device tags the cloud's storage location.
	Device Device
}

// PointCloud is an ordered sequence of 3D points with optional
// per-point normals.
type PointCloud struct {
	points  [][3]float32
	normals [][3]float32
	device  Device
}

// New creates a point cloud over the given points. The points slice is
// copied so later caller mutations cannot alias into the cloud.
func New(points [][3]float32, optFns ...func(o *Options)) (*PointCloud, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Normals != nil && len(opts.Normals) != len(points) {
		return nil, &ErrAttributeLengthMismatch{
			Attribute: "normals",
			Points:    len(points),
			Actual:    len(opts.Normals),
		}
	}

	pc := &PointCloud{
		points: make([][3]float32, len(points)),
		device: opts.Device,
	}
	copy(pc.points, points)

	if opts.Normals != nil {
		pc.normals = make([][3]float32, len(opts.Normals))
		copy(pc.normals, opts.Normals)
	}

	return pc, nil
}

// WithNormals sets per-point normals.
func WithNormals(normals [][3]float32) func(o *Options) {
	return func(o *Options) {
		o.Normals = normals
	}
}

// WithDevice sets the device tag.
func WithDevice(device Device) func(o *Options) {
	return func(o *Options) {
		o.Device = device
	}
}

// Len returns the number of points.
func (pc *PointCloud) Len() int { return len(pc.points) }

// Points returns the positions. The returned slice aliases internal
// memory; callers must treat it as read-only.
func (pc *PointCloud) Points() [][3]float32 { return pc.points }

// Normals returns the per-point normals, or nil if absent. The
// returned slice aliases internal memory; callers must treat it as
// read-only.
func (pc *PointCloud) Normals() [][3]float32 { return pc.normals }

// HasNormals reports whether the cloud carries per-point normals.
func (pc *PointCloud) HasNormals() bool { return pc.normals != nil }

// Device returns the device tag.
func (pc *PointCloud) Device() Device { return pc.device }

// Clone returns a deep copy of the cloud.
func (pc *PointCloud) Clone() *PointCloud {
	out := &PointCloud{
		points: make([][3]float32, len(pc.points)),
		device: pc.device,
	}
	copy(out.points, pc.points)
	if pc.normals != nil {
		out.normals = make([][3]float32, len(pc.normals))
		copy(out.normals, pc.normals)
	}
	return out
}

// Transform returns a transformed copy of the cloud. Points get the
// full rigid motion; normals, when present, are rotated only.
func (pc *PointCloud) Transform(m transform.Matrix) *PointCloud {
	out := pc.Clone()
	out.TransformInPlace(m)
	return out
}

// TransformInPlace applies m to the cloud's own storage. Only for
// clouds the caller exclusively owns, such as the registration
// controller's working copy.
func (pc *PointCloud) TransformInPlace(m transform.Matrix) {
	for i, p := range pc.points {
		pc.points[i] = m.ApplyPoint(p)
	}
	for i, n := range pc.normals {
		pc.normals[i] = m.ApplyVector(n)
	}
}
