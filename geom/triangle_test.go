package geom

import (
	"math/rand"
	"testing"

	"github.com/achilleasa/bvhtrace/types"
	"github.com/chewxy/math32"
)

func TestTriangleIntersect(t *testing.T) {
	type spec struct {
		ray     Ray
		expHit  bool
		expDist float32
	}

	tri := NewTriangle(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0))
	specs := []spec{
		{NewRay(types.XYZ(0.2, 0.2, 5), types.XYZ(0, 0, -1)), true, 5},
		{NewRay(types.XYZ(0.2, 0.2, -5), types.XYZ(0, 0, 1)), true, 5},
		// Non-normalized direction scales the distance
		{NewRay(types.XYZ(0.2, 0.2, 5), types.XYZ(0, 0, -2)), true, 2.5},
		// Outside the triangle
		{NewRay(types.XYZ(5, 5, 5), types.XYZ(0, 0, -1)), false, 0},
		{NewRay(types.XYZ(0.6, 0.6, 5), types.XYZ(0, 0, -1)), false, 0},
		// Behind the origin
		{NewRay(types.XYZ(0.2, 0.2, 5), types.XYZ(0, 0, 1)), false, 0},
		// Parallel to the triangle plane
		{NewRay(types.XYZ(-1, 0.2, 0), types.XYZ(1, 0, 0)), false, 0},
		// Hit beyond tmax
		{Ray{Origin: types.XYZ(0.2, 0.2, 5), Dir: types.XYZ(0, 0, -1), TMin: 0, TMax: 4}, false, 0},
		// Hit before tmin
		{Ray{Origin: types.XYZ(0.2, 0.2, 5), Dir: types.XYZ(0, 0, -1), TMin: 6, TMax: 10}, false, 0},
	}

	for index, s := range specs {
		rec := NewHitRecord()
		hit := tri.Intersect(&s.ray, &rec, 7)
		if hit != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, hit)
		}
		if hit != tri.Occludes(&s.ray) {
			t.Fatalf("[spec %d] expected Occludes to agree with Intersect", index)
		}
		if !hit {
			if rec.Hit() {
				t.Fatalf("[spec %d] expected record to remain untouched; got %+v", index, rec)
			}
			continue
		}
		if rec.ID != 7 || math32.Abs(rec.Dist-s.expDist) > 1e-5 {
			t.Fatalf("[spec %d] expected hit {%f, 7}; got %+v", index, s.expDist, rec)
		}
	}
}

func TestTriangleIntersectOnlyKeepsCloserHits(t *testing.T) {
	tri := NewTriangle(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0))
	ray := NewRay(types.XYZ(0.2, 0.2, 5), types.XYZ(0, 0, -1))

	rec := HitRecord{Dist: 3, ID: 1}
	if tri.Intersect(&ray, &rec, 2) {
		t.Fatal("expected farther hit to be rejected")
	}
	if rec.Dist != 3 || rec.ID != 1 {
		t.Fatalf("expected record to be unchanged; got %+v", rec)
	}

	// Equal distance: the lower id wins regardless of visiting order.
	rec = HitRecord{Dist: 5, ID: 4}
	if !tri.Intersect(&ray, &rec, 2) || rec.ID != 2 {
		t.Fatalf("expected equal distance hit with lower id to win; got %+v", rec)
	}
	if tri.Intersect(&ray, &rec, 3) || rec.ID != 2 {
		t.Fatalf("expected equal distance hit with higher id to lose; got %+v", rec)
	}
}

func TestDegenerateTriangleNeverHits(t *testing.T) {
	specs := []Triangle{
		NewTriangle(types.XYZ(0, 0, 0), types.XYZ(0, 0, 0), types.XYZ(0, 0, 0)),
		NewTriangle(types.XYZ(0, 0, 0), types.XYZ(1, 1, 0), types.XYZ(2, 2, 0)),
	}

	ray := NewRay(types.XYZ(0.5, 0.5, 5), types.XYZ(0, 0, -1))
	for index, tri := range specs {
		rec := NewHitRecord()
		if tri.Intersect(&ray, &rec, 0) {
			t.Fatalf("[spec %d] expected degenerate triangle to be missed; got %+v", index, rec)
		}
		if tri.Area() != 0 {
			t.Fatalf("[spec %d] expected zero area; got %f", index, tri.Area())
		}
	}
}

func TestTriangleHelpers(t *testing.T) {
	tri := NewTriangle(types.XYZ(0, 0, 0), types.XYZ(3, 0, 0), types.XYZ(0, 3, 0))

	if exp, got := types.XYZ(1, 1, 0), tri.Centroid(); !exp.ApproxEqual(got, 1e-6) {
		t.Fatalf("expected centroid %v; got %v", exp, got)
	}
	if exp, got := NewAABB(types.XYZ(0, 0, 0), types.XYZ(3, 3, 0)), tri.BBox(); exp != got {
		t.Fatalf("expected bbox %v; got %v", exp, got)
	}
	if n := tri.Normal(); !n.ApproxEqual(types.XYZ(0, 0, 1), 1e-6) {
		t.Fatalf("expected normal (0, 0, 1); got %v", n)
	}
	if area := tri.Area(); math32.Abs(area-4.5) > 1e-5 {
		t.Fatalf("expected area 4.5; got %f", area)
	}

	ray := NewRay(types.XYZ(1, 0.5, 2), types.XYZ(0, 0, -1))
	alpha, beta := tri.Barycentric(&ray)
	hitPoint := tri[0].Mul(1 - alpha - beta).Add(tri[1].Mul(alpha)).Add(tri[2].Mul(beta))
	if !hitPoint.ApproxEqual(types.XYZ(1, 0.5, 0), 1e-5) {
		t.Fatalf("expected barycentrics to reconstruct (1, 0.5, 0); got %v", hitPoint)
	}
}

func TestNewSegment(t *testing.T) {
	tri := NewTriangle(types.XYZ(-1, -1, 1), types.XYZ(1, -1, 1), types.XYZ(0, 1, 1))

	blocked := NewSegment(types.XYZ(0, 0, 0), types.XYZ(0, 0, 2))
	if !tri.Occludes(&blocked) {
		t.Fatal("expected segment crossing the triangle to be occluded")
	}

	short := NewSegment(types.XYZ(0, 0, 0), types.XYZ(0, 0, 0.5))
	if tri.Occludes(&short) {
		t.Fatal("expected segment ending before the triangle not to be occluded")
	}
}

func TestIntersectAllFindsClosest(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tris := make([]Triangle, 0, 10)
	for i := 0; i < 10; i++ {
		z := float32(rng.Intn(100))
		tris = append(tris, NewTriangle(types.XYZ(-1, -1, z), types.XYZ(1, -1, z), types.XYZ(0, 1, z)))
	}

	rec := IntersectAll(tris, NewRay(types.XYZ(0, 0, -1), types.XYZ(0, 0, 1)))
	if !rec.Hit() {
		t.Fatal("expected a hit")
	}

	minZ := math32.Inf(1)
	for _, tri := range tris {
		minZ = math32.Min(minZ, tri[0][2])
	}
	if rec.Dist != minZ+1 {
		t.Fatalf("expected closest distance %f; got %f", minZ+1, rec.Dist)
	}
	if tris[rec.ID][0][2] != minZ {
		t.Fatalf("expected id of a triangle at z=%f; got %d", minZ, rec.ID)
	}
}
