package geom

import (
	"github.com/achilleasa/bvhtrace/types"
)

// A triangle defined by three vertices. No winding order is assumed.
type Triangle [3]types.Vec3

// Create a triangle from three vertices.
func NewTriangle(v0, v1, v2 types.Vec3) Triangle {
	return Triangle{v0, v1, v2}
}

// Get the triangle bounding box.
func (tri *Triangle) BBox() AABB {
	return AABB{
		types.MinVec3(types.MinVec3(tri[0], tri[1]), tri[2]),
		types.MaxVec3(types.MaxVec3(tri[0], tri[1]), tri[2]),
	}
}

// Get the triangle centroid (average of its vertices).
func (tri *Triangle) Centroid() types.Vec3 {
	return tri[0].Add(tri[1]).Add(tri[2]).Mul(1.0 / 3.0)
}

// Get the unit normal. Since there is no fixed winding order, the normal may
// point to either side of the triangle. Degenerate triangles return a zero
// vector.
func (tri *Triangle) Normal() types.Vec3 {
	return tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Normalize()
}

// Get the triangle area.
func (tri *Triangle) Area() float32 {
	return 0.5 * tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Len()
}

// Calculate the barycentric coordinates (alpha, beta) of the point where r
// crosses the triangle plane. The weight of the first vertex is
// 1 - alpha - beta.
func (tri *Triangle) Barycentric(r *Ray) (alpha, beta float32) {
	edge1 := tri[1].Sub(tri[0])
	edge2 := tri[2].Sub(tri[0])
	pvec := r.Dir.Cross(edge2)
	invDet := 1.0 / edge1.Dot(pvec)
	tvec := r.Origin.Sub(tri[0])
	qvec := tvec.Cross(edge1)

	return tvec.Dot(pvec) * invDet, r.Dir.Dot(qvec) * invDet
}

// Run the Möller–Trumbore test and return the hit distance. The bool result
// is false when the ray misses the triangle (including parallel rays and
// degenerate triangles whose determinant produces non-finite barycentrics).
func (tri *Triangle) intersect(r *Ray) (float32, bool) {
	edge1 := tri[1].Sub(tri[0])
	edge2 := tri[2].Sub(tri[0])

	pvec := r.Dir.Cross(edge2)
	invDet := 1.0 / edge1.Dot(pvec)

	tvec := r.Origin.Sub(tri[0])
	alpha := tvec.Dot(pvec) * invDet
	if !(alpha >= 0) || alpha > 1 {
		return 0, false
	}

	qvec := tvec.Cross(edge1)
	beta := r.Dir.Dot(qvec) * invDet
	if !(beta >= 0) || alpha+beta > 1 {
		return 0, false
	}

	t := edge2.Dot(qvec) * invDet
	if !(t >= r.TMin) || t > r.TMax {
		return 0, false
	}

	return t, true
}

// Intersect the triangle with r and update rec if the hit is closer than the
// one already recorded. The id is the value reported through rec.
func (tri *Triangle) Intersect(r *Ray, rec *HitRecord, id int32) bool {
	t, ok := tri.intersect(r)
	if !ok {
		return false
	}
	return rec.Offer(t, id)
}

// Returns true if r hits the triangle anywhere inside its [TMin, TMax]
// interval. Used for shadow rays where the closest hit is irrelevant.
func (tri *Triangle) Occludes(r *Ray) bool {
	_, ok := tri.intersect(r)
	return ok
}

// Find the closest hit by testing r against every triangle. This is the
// reference result that accelerators must reproduce.
func IntersectAll(tris []Triangle, r Ray) HitRecord {
	rec := NewHitRecord()
	for i := range tris {
		tris[i].Intersect(&r, &rec, int32(i))
	}
	return rec
}
