// Package transform provides the 4x4 homogeneous rigid transformation
// used throughout registration.
//
// Matrices are stored and composed in float64 to bound drift across
// many ICP iterations, and applied to float32 point coordinates.
package transform

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a 4x4 homogeneous transformation. For rigid motions the
// upper-left 3x3 block is orthonormal with determinant +1, the last
// column is the translation and the bottom row is [0 0 0 1].
type Matrix [4][4]float64

// Identity returns the identity transformation.
func Identity() Matrix {
	return Matrix{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mul returns the composition m * other (other applied first).
func (m Matrix) Mul(other Matrix) Matrix {
	var out Matrix
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[i][k] * other[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// ApplyPoint transforms a point (rotation plus translation).
func (m Matrix) ApplyPoint(p [3]float32) [3]float32 {
	x, y, z := float64(p[0]), float64(p[1]), float64(p[2])
	return [3]float32{
		float32(m[0][0]*x + m[0][1]*y + m[0][2]*z + m[0][3]),
		float32(m[1][0]*x + m[1][1]*y + m[1][2]*z + m[1][3]),
		float32(m[2][0]*x + m[2][1]*y + m[2][2]*z + m[2][3]),
	}
}

// ApplyVector transforms a direction (rotation only, no translation).
// Used for per-point normals.
func (m Matrix) ApplyVector(v [3]float32) [3]float32 {
	x, y, z := float64(v[0]), float64(v[1]), float64(v[2])
	return [3]float32{
		float32(m[0][0]*x + m[0][1]*y + m[0][2]*z),
		float32(m[1][0]*x + m[1][1]*y + m[1][2]*z),
		float32(m[2][0]*x + m[2][1]*y + m[2][2]*z),
	}
}

// Translation returns the translation column.
func (m Matrix) Translation() r3.Vector {
	return r3.Vector{X: m[0][3], Y: m[1][3], Z: m[2][3]}
}

// Rotation returns the upper-left 3x3 block as a dense matrix.
func (m Matrix) Rotation() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})
}

// RotationDet returns the determinant of the rotation block.
// Rigid motions have determinant +1.
func (m Matrix) RotationDet() float64 {
	return mat.Det(m.Rotation())
}

// IsRigid reports whether m is a rigid motion within tol: rotation
// block orthonormal with determinant +1 and bottom row [0 0 0 1].
func (m Matrix) IsRigid(tol float64) bool {
	if math.Abs(m[3][0]) > tol || math.Abs(m[3][1]) > tol ||
		math.Abs(m[3][2]) > tol || math.Abs(m[3][3]-1) > tol {
		return false
	}
	r := m.Rotation()
	var rrt mat.Dense
	rrt.Mul(r, r.T())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(rrt.At(i, j)-want) > tol {
				return false
			}
		}
	}
	return math.Abs(mat.Det(r)-1) <= tol
}

// FromPose converts a linearized pose [wx wy wz tx ty tz] into a
// transformation using the small-angle approximation R = I + skew(w).
// The rotation block is intentionally not re-orthonormalized; for
// rotation angles below ~0.1 rad the orthogonality error stays below
// the angle squared.
func FromPose(pose [6]float64) Matrix {
	wx, wy, wz := pose[0], pose[1], pose[2]
	return Matrix{
		{1, -wz, wy, pose[3]},
		{wz, 1, -wx, pose[4]},
		{-wy, wx, 1, pose[5]},
		{0, 0, 0, 1},
	}
}

// FromRt assembles a transformation from a 3x3 rotation and a
// translation vector.
func FromRt(r mat.Matrix, t r3.Vector) Matrix {
	return Matrix{
		{r.At(0, 0), r.At(0, 1), r.At(0, 2), t.X},
		{r.At(1, 0), r.At(1, 1), r.At(1, 2), t.Y},
		{r.At(2, 0), r.At(2, 1), r.At(2, 2), t.Z},
		{0, 0, 0, 1},
	}
}
