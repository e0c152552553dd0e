package geom

import (
	"github.com/achilleasa/bvhtrace/types"
	"github.com/chewxy/math32"
)

// Far slab distances are scaled by this factor (1 + 2*gamma(3) for float32) so
// that rounding errors in the slab test never reject a box that encloses a
// triangle the ray actually hits.
const robustFarScale float32 = 1.0000004

// AABB is an axis-aligned bounding box. Index 0 holds the min corner and
// index 1 the max corner so that the slab test can select the near/far
// corner through the ray sign table without branching.
type AABB [2]types.Vec3

// Create an empty box. An empty box is the identity element for Extend.
func EmptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		types.Vec3{inf, inf, inf},
		types.Vec3{-inf, -inf, -inf},
	}
}

// Create a box from its min and max corners.
func NewAABB(min, max types.Vec3) AABB {
	return AABB{min, max}
}

// Get the min corner.
func (b AABB) Min() types.Vec3 {
	return b[0]
}

// Get the max corner.
func (b AABB) Max() types.Vec3 {
	return b[1]
}

// Grow the box so that it encloses other.
func (b *AABB) Extend(other AABB) {
	b[0] = types.MinVec3(b[0], other[0])
	b[1] = types.MaxVec3(b[1], other[1])
}

// Grow the box so that it encloses point p.
func (b *AABB) ExtendPoint(p types.Vec3) {
	b[0] = types.MinVec3(b[0], p)
	b[1] = types.MaxVec3(b[1], p)
}

// Returns true if the box does not enclose any point.
func (b AABB) IsEmpty() bool {
	return b[0][0] > b[1][0] || b[0][1] > b[1][1] || b[0][2] > b[1][2]
}

// Get the box extent along each axis.
func (b AABB) Side() types.Vec3 {
	return b[1].Sub(b[0])
}

// Get the box center.
func (b AABB) Center() types.Vec3 {
	return b[0].Add(b[1]).Mul(0.5)
}

// Get the axis along which the box has its largest extent.
func (b AABB) MaxAxis() types.Axis {
	return b.Side().MaxAxis()
}

// Calculate the box surface area. Empty boxes have zero area.
func (b AABB) SurfaceArea() float32 {
	if b.IsEmpty() {
		return 0
	}
	side := b.Side()
	return 2 * (side[0]*side[1] + side[1]*side[2] + side[0]*side[2])
}

// Returns true if p lies inside the box grown by eps on every side.
func (b AABB) Contains(p types.Vec3, eps float32) bool {
	for axis := 0; axis < 3; axis++ {
		if p[axis] < b[0][axis]-eps || p[axis] > b[1][axis]+eps {
			return false
		}
	}
	return true
}

// Returns true if other lies inside the box grown by eps on every side.
// Empty boxes are contained by any box.
func (b AABB) ContainsBox(other AABB, eps float32) bool {
	if other.IsEmpty() {
		return true
	}
	return b.Contains(other[0], eps) && b.Contains(other[1], eps)
}

// Intersect the ray described by q with the box slabs, narrowing
// [intervalMin, intervalMax] in place. Returns true if the narrowed interval
// is not empty.
//
// Slab distances are computed with the precomputed inverse direction; a zero
// direction component produces ±Inf which either keeps or collapses the
// interval depending on whether the origin lies inside that slab. If the
// origin lies exactly on a slab plane of such an axis the distance is NaN and
// the comparisons below leave the interval untouched, treating the boundary
// as inside. Far distances are scaled by robustFarScale.
func (b *AABB) Intersect(q *RayQuery, intervalMin, intervalMax *float32) bool {
	o := &q.Ray.Origin

	xMin := (b[q.Sign[0][0]][0] - o[0]) * q.InvDir[0]
	xMax := (b[q.Sign[0][1]][0] - o[0]) * q.InvDir[0] * robustFarScale
	yMin := (b[q.Sign[1][0]][1] - o[1]) * q.InvDir[1]
	yMax := (b[q.Sign[1][1]][1] - o[1]) * q.InvDir[1] * robustFarScale
	zMin := (b[q.Sign[2][0]][2] - o[2]) * q.InvDir[2]
	zMax := (b[q.Sign[2][1]][2] - o[2]) * q.InvDir[2] * robustFarScale

	if xMin > *intervalMin {
		*intervalMin = xMin
	}
	if yMin > *intervalMin {
		*intervalMin = yMin
	}
	if zMin > *intervalMin {
		*intervalMin = zMin
	}

	if xMax < *intervalMax {
		*intervalMax = xMax
	}
	if yMax < *intervalMax {
		*intervalMax = yMax
	}
	if zMax < *intervalMax {
		*intervalMax = zMax
	}

	return *intervalMin <= *intervalMax
}
