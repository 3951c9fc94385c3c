package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     [3]float32
		expected float32
	}{
		{"Simple", [3]float32{1, 2, 3}, [3]float32{4, 5, 6}, 27},
		{"Zero", [3]float32{0, 0, 0}, [3]float32{0, 0, 0}, 0},
		{"Identical", [3]float32{1, 2, 3}, [3]float32{1, 2, 3}, 0},
		{"Mixed", [3]float32{1, -1, 0}, [3]float32{-1, 1, 0}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SquaredL2(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     [3]float32
		expected float32
	}{
		{"Simple", [3]float32{1, 2, 3}, [3]float32{4, 5, 6}, 32},
		{"Zero", [3]float32{0, 0, 0}, [3]float32{1, 1, 1}, 0},
		{"Orthogonal", [3]float32{1, 0, 0}, [3]float32{0, 1, 0}, 0},
		{"Mixed", [3]float32{1, -1, 2}, [3]float32{1, 1, -2}, -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dot(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestCross(t *testing.T) {
	tests := []struct {
		name     string
		a, b     [3]float32
		expected [3]float32
	}{
		{"XcrossY", [3]float32{1, 0, 0}, [3]float32{0, 1, 0}, [3]float32{0, 0, 1}},
		{"YcrossX", [3]float32{0, 1, 0}, [3]float32{1, 0, 0}, [3]float32{0, 0, -1}},
		{"Parallel", [3]float32{2, 2, 2}, [3]float32{1, 1, 1}, [3]float32{0, 0, 0}},
		{"General", [3]float32{1, 2, 3}, [3]float32{4, 5, 6}, [3]float32{-3, 6, -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cross(tt.a, tt.b)
			for i := 0; i < 3; i++ {
				assert.InDelta(t, tt.expected[i], got[i], 1e-5)
			}
		})
	}
}

func TestCrossOrthogonality(t *testing.T) {
	a := [3]float32{0.3, -1.2, 2.5}
	b := [3]float32{-0.7, 0.4, 1.1}
	c := Cross(a, b)
	assert.InDelta(t, 0, Dot(a, c), 1e-5)
	assert.InDelta(t, 0, Dot(b, c), 1e-5)
}

func TestNormalizeCopy(t *testing.T) {
	t.Run("Unit", func(t *testing.T) {
		v, ok := NormalizeCopy([3]float32{3, 0, 4})
		assert.True(t, ok)
		assert.InDelta(t, 0.6, v[0], 1e-5)
		assert.InDelta(t, 0, v[1], 1e-5)
		assert.InDelta(t, 0.8, v[2], 1e-5)
		assert.InDelta(t, 1, float64(Norm(v)), 1e-5)
	})

	t.Run("Zero", func(t *testing.T) {
		_, ok := NormalizeCopy([3]float32{0, 0, 0})
		assert.False(t, ok)
	})
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, 5, Norm([3]float32{3, 4, 0}), 1e-5)
	assert.InDelta(t, math.Sqrt(3), Norm([3]float32{1, 1, 1}), 1e-5)
}

func TestSub(t *testing.T) {
	got := Sub([3]float32{4, 5, 6}, [3]float32{1, 2, 3})
	assert.Equal(t, [3]float32{3, 3, 3}, got)
}
