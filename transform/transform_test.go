package transform

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// rotZ builds an exact rotation about the z axis.
func rotZ(angle float64) Matrix {
	c, s := math.Cos(angle), math.Sin(angle)
	return Matrix{
		{c, -s, 0, 0},
		{s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func TestIdentity(t *testing.T) {
	id := Identity()
	p := [3]float32{1.5, -2.5, 3.5}
	assert.Equal(t, p, id.ApplyPoint(p))
	assert.True(t, id.IsRigid(1e-12))
	assert.InDelta(t, 1, id.RotationDet(), 1e-12)
}

func TestMulComposition(t *testing.T) {
	// Rotating by a then b equals rotating by a+b.
	a, b := 0.3, 0.5
	composed := rotZ(a).Mul(rotZ(b))
	direct := rotZ(a + b)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.InDelta(t, direct[i][j], composed[i][j], 1e-12)
		}
	}
}

func TestApplyPointTranslation(t *testing.T) {
	m := Identity()
	m[0][3], m[1][3], m[2][3] = 0.1, -0.2, 0.3

	got := m.ApplyPoint([3]float32{1, 1, 1})
	assert.InDelta(t, 1.1, got[0], 1e-6)
	assert.InDelta(t, 0.8, got[1], 1e-6)
	assert.InDelta(t, 1.3, got[2], 1e-6)

	// Vectors are unaffected by translation.
	v := m.ApplyVector([3]float32{1, 1, 1})
	assert.Equal(t, [3]float32{1, 1, 1}, v)
}

func TestTranslation(t *testing.T) {
	m := Identity()
	m[0][3], m[1][3], m[2][3] = 4, 5, 6
	assert.Equal(t, r3.Vector{X: 4, Y: 5, Z: 6}, m.Translation())
}

func TestIsRigid(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		tol  float64
		want bool
	}{
		{"Rotation", rotZ(1.2), 1e-9, true},
		{"Scaled", Matrix{{2, 0, 0, 0}, {0, 2, 0, 0}, {0, 0, 2, 0}, {0, 0, 0, 1}}, 1e-9, false},
		{"Reflection", Matrix{{-1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}, 1e-9, false},
		{"BadBottomRow", Matrix{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0.5, 0, 0, 1}}, 1e-9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.IsRigid(tt.tol))
		})
	}
}

func TestFromPoseSmallAngle(t *testing.T) {
	// Pure translation is exact.
	m := FromPose([6]float64{0, 0, 0, 0.1, 0.2, 0.3})
	assert.True(t, m.IsRigid(1e-12))
	assert.InDelta(t, 0.1, m[0][3], 1e-12)

	// Small rotation: orthogonality error is bounded by the angle squared.
	angle := 0.05
	m = FromPose([6]float64{0, 0, angle, 0, 0, 0})
	r := m.Rotation()
	var rrt mat.Dense
	rrt.Mul(r, r.T())
	maxErr := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if e := math.Abs(rrt.At(i, j) - want); e > maxErr {
				maxErr = e
			}
		}
	}
	require.Less(t, maxErr, angle*angle*1.01)
}

func TestFromRt(t *testing.T) {
	r := mat.NewDense(3, 3, []float64{0, -1, 0, 1, 0, 0, 0, 0, 1})
	m := FromRt(r, r3.Vector{X: 1, Y: 2, Z: 3})
	got := m.ApplyPoint([3]float32{1, 0, 0})
	assert.InDelta(t, 1, got[0], 1e-6)
	assert.InDelta(t, 3, got[1], 1e-6)
	assert.InDelta(t, 3, got[2], 1e-6)
	assert.True(t, m.IsRigid(1e-12))
}
