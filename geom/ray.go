package geom

import (
	"github.com/achilleasa/bvhtrace/types"
	"github.com/chewxy/math32"
)

// Offset applied by callers to the tmin of secondary rays to avoid
// re-hitting the surface they originate from.
const RayEpsilon float32 = 1e-4

// A ray with a valid parametric interval [TMin, TMax]. The direction does not
// need to be normalized; hit distances are expressed in units of Dir.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
	TMin   float32
	TMax   float32
}

// Create a ray with an unbounded [0, +Inf] interval.
func NewRay(origin, dir types.Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir,
		TMin:   0,
		TMax:   math32.Inf(1),
	}
}

// Create a ray from origin towards target that stops just short of it. The
// returned ray is suitable for shadow queries.
func NewSegment(origin, target types.Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    target.Sub(origin),
		TMin:   RayEpsilon,
		TMax:   1 - RayEpsilon,
	}
}

// Get the point at parametric distance t.
func (r *Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// RaySign holds, for each axis, the index of the near ([axis][0]) and far
// ([axis][1]) box corner for a given ray direction.
type RaySign [3][2]uint8

// RayQuery bundles a ray with the per-ray values that the box test needs.
// It is computed once per traversal rather than once per node.
type RayQuery struct {
	Ray    Ray
	InvDir types.Vec3
	Sign   RaySign
}

// Precompute the inverse direction and sign table for r. A direction
// component whose inverse is >= 0 (including +0) is classified as positive.
func NewRayQuery(r Ray) RayQuery {
	q := RayQuery{
		Ray:    r,
		InvDir: r.Dir.Inv(),
	}

	for axis := 0; axis < 3; axis++ {
		if q.InvDir[axis] < 0 {
			q.Sign[axis][0] = 1
			q.Sign[axis][1] = 0
		} else {
			q.Sign[axis][0] = 0
			q.Sign[axis][1] = 1
		}
	}

	return q
}
