package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/icpgo/transform"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformPoints generates num points uniformly inside the cube
// [minVal, maxVal)^3.
func (r *RNG) UniformPoints(num int, minVal, maxVal float32) [][3]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxVal - minVal
	points := make([][3]float32, num)
	for i := range points {
		points[i] = [3]float32{
			minVal + r.rand.Float32()*span,
			minVal + r.rand.Float32()*span,
			minVal + r.rand.Float32()*span,
		}
	}
	return points
}

// SpherePoints generates num points uniformly on a sphere of the given
// radius, each paired with its outward unit normal.
func (r *RNG) SpherePoints(num int, radius float64) (points, normals [][3]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	points = make([][3]float32, num)
	normals = make([][3]float32, num)
	for i := 0; i < num; i++ {
		z := 2*r.rand.Float64() - 1
		phi := 2 * math.Pi * r.rand.Float64()
		s := math.Sqrt(1 - z*z)
		nx, ny, nz := s*math.Cos(phi), s*math.Sin(phi), z
		normals[i] = [3]float32{float32(nx), float32(ny), float32(nz)}
		points[i] = [3]float32{
			float32(radius * nx),
			float32(radius * ny),
			float32(radius * nz),
		}
	}
	return points, normals
}

// Transformed returns a copy of points moved by m.
func Transformed(m transform.Matrix, points [][3]float32) [][3]float32 {
	out := make([][3]float32, len(points))
	for i, p := range points {
		out[i] = m.ApplyPoint(p)
	}
	return out
}

// SmallMotion builds a rigid transform from an axis-angle rotation and
// a translation. Useful for seeding registration scenarios with a known
// ground truth.
func SmallMotion(axis [3]float64, angle float64, translation [3]float64) transform.Matrix {
	n := math.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
	if n == 0 {
		m := transform.Identity()
		m[0][3], m[1][3], m[2][3] = translation[0], translation[1], translation[2]
		return m
	}
	ux, uy, uz := axis[0]/n, axis[1]/n, axis[2]/n
	c, s := math.Cos(angle), math.Sin(angle)
	ic := 1 - c
	return transform.Matrix{
		{c + ux*ux*ic, ux*uy*ic - uz*s, ux*uz*ic + uy*s, translation[0]},
		{uy*ux*ic + uz*s, c + uy*uy*ic, uy*uz*ic - ux*s, translation[1]},
		{uz*ux*ic - uy*s, uz*uy*ic + ux*s, c + uz*uz*ic, translation[2]},
		{0, 0, 0, 1},
	}
}
