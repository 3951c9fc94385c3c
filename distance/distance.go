// Package distance provides scalar 3D vector kernels for the
// registration hot paths.
//
// All functions operate on [3]float32 points as stored in point clouds.
// They are branch-free and allocation-free so the correspondence search
// and residual assembly loops can call them per element.
package distance

import "math"

// SquaredL2 returns the squared Euclidean distance between a and b.
func SquaredL2(a, b [3]float32) float32 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return dx*dx + dy*dy + dz*dz
}

// Dot returns the dot product of a and b.
func Dot(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross returns the cross product a x b.
func Cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Norm returns the Euclidean length of v.
func Norm(v [3]float32) float32 {
	return float32(math.Sqrt(float64(Dot(v, v))))
}

// NormalizeCopy returns a unit-length copy of v.
// Returns false if v has zero norm.
func NormalizeCopy(v [3]float32) ([3]float32, bool) {
	n := Norm(v)
	if n == 0 {
		return [3]float32{}, false
	}
	inv := 1 / n
	return [3]float32{v[0] * inv, v[1] * inv, v[2] * inv}, true
}

// Sub returns a - b.
func Sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}
