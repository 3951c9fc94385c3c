package pointcloud

import (
	"math"

	"github.com/hupe1980/icpgo/distance"
)

// voxelKey addresses one voxel of the downsampling grid.
type voxelKey struct {
	x, y, z int32
}

// voxelAccum accumulates the points that fall into one voxel.
// Sums are kept in float64 so large clouds do not lose precision.
type voxelAccum struct {
	px, py, pz float64
	nx, ny, nz float64
	count      int
}

// VoxelDownSample reduces the cloud to one point per occupied voxel of
// an axis-aligned grid with the given edge length. Each output point is
// the centroid of its voxel; normals, when present, are averaged and
// re-normalized. Output order follows the first appearance of each
// voxel in the input, so the result is deterministic.
func (pc *PointCloud) VoxelDownSample(voxelSize float64) (*PointCloud, error) {
	if voxelSize <= 0 {
		return nil, &ErrInvalidVoxelSize{VoxelSize: voxelSize}
	}

	inv := 1 / voxelSize
	accums := make(map[voxelKey]*voxelAccum, len(pc.points))
	order := make([]voxelKey, 0, len(pc.points))

	for i, p := range pc.points {
		key := voxelKey{
			x: int32(math.Floor(float64(p[0]) * inv)),
			y: int32(math.Floor(float64(p[1]) * inv)),
			z: int32(math.Floor(float64(p[2]) * inv)),
		}
		acc, ok := accums[key]
		if !ok {
			acc = &voxelAccum{}
			accums[key] = acc
			order = append(order, key)
		}
		acc.px += float64(p[0])
		acc.py += float64(p[1])
		acc.pz += float64(p[2])
		if pc.normals != nil {
			n := pc.normals[i]
			acc.nx += float64(n[0])
			acc.ny += float64(n[1])
			acc.nz += float64(n[2])
		}
		acc.count++
	}

	out := &PointCloud{
		points: make([][3]float32, 0, len(order)),
		device: pc.device,
	}
	if pc.normals != nil {
		out.normals = make([][3]float32, 0, len(order))
	}

	for _, key := range order {
		acc := accums[key]
		invCount := 1 / float64(acc.count)
		out.points = append(out.points, [3]float32{
			float32(acc.px * invCount),
			float32(acc.py * invCount),
			float32(acc.pz * invCount),
		})
		if pc.normals != nil {
			n := [3]float32{
				float32(acc.nx * invCount),
				float32(acc.ny * invCount),
				float32(acc.nz * invCount),
			}
			if unit, ok := distance.NormalizeCopy(n); ok {
				n = unit
			}
			out.normals = append(out.normals, n)
		}
	}

	return out, nil
}
