package bvh

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/achilleasa/bvhtrace/geom"
	"github.com/achilleasa/bvhtrace/types"
)

var traversalOptions = []Options{
	DefaultOptions(),
	{LeafSize: 1, MaxDepth: DefaultMaxDepth, Split: BoxMidpoint},
	{LeafSize: 1, MaxDepth: DefaultMaxDepth, Split: CentroidMean},
	{LeafSize: 8, MaxDepth: 2, Split: CentroidMean},
}

func TestIntersectMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tris := randomTriangles(rng, 1500)
	rays := randomRays(rng, 3000)

	for _, opts := range traversalOptions {
		b := New(tris, opts)
		hits := 0
		for index, ray := range rays {
			exp := geom.IntersectAll(tris, ray)
			got := b.Intersect(ray)
			if got != exp {
				t.Fatalf("[%s/%d ray %d] expected hit %+v; got %+v", opts.Split, opts.LeafSize, index, exp, got)
			}
			if got.Hit() {
				hits++
			}
		}

		if hits == 0 {
			t.Fatalf("[%s/%d] expected some rays to hit the soup", opts.Split, opts.LeafSize)
		}
	}
}

func TestIntersectGrazingRays(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	tris := randomTriangles(rng, 800)

	// Rays aimed at triangle vertices and edge midpoints.
	var rays []geom.Ray
	for i := 0; i < 1500; i++ {
		tri := tris[rng.Intn(len(tris))]
		var target types.Vec3
		if i%2 == 0 {
			target = tri[rng.Intn(3)]
		} else {
			target = tri[0].Add(tri[1]).Mul(0.5)
		}
		origin := types.XYZ(rng.Float32()*80-40, rng.Float32()*80-40, rng.Float32()*80-40)
		rays = append(rays, geom.NewRay(origin, target.Sub(origin)))
	}

	// Rays parallel to the principal planes.
	for i := 0; i < 500; i++ {
		origin := types.XYZ(rng.Float32()*20-10, rng.Float32()*20-10, -30)
		dir := types.XYZ(0, 0, 1)
		if i%2 == 0 {
			origin = types.XYZ(-30, rng.Float32()*20-10, rng.Float32()*20-10)
			dir = types.XYZ(1, 0, 0)
		}
		rays = append(rays, geom.NewRay(origin, dir))
	}

	for _, opts := range traversalOptions {
		b := New(tris, opts)
		for index, ray := range rays {
			exp := geom.IntersectAll(tris, ray)
			got := b.Intersect(ray)
			if !geom.SameHit(got, exp, 1e-5) {
				t.Fatalf("[%s/%d ray %d] expected hit %+v; got %+v", opts.Split, opts.LeafSize, index, exp, got)
			}
		}
	}
}

func TestIntersectSharedEdges(t *testing.T) {
	// Rays hitting a grid exactly on shared edges and vertices.
	tris := gridTriangles(16, 16, 1)
	b := New(tris, Options{LeafSize: 1, MaxDepth: DefaultMaxDepth, Split: BoxMidpoint})

	for x := 0; x <= 16; x++ {
		for z := 0; z <= 16; z++ {
			ray := geom.NewRay(types.XYZ(float32(x), 5, float32(z)), types.XYZ(0, -1, 0))
			exp := geom.IntersectAll(tris, ray)
			got := b.Intersect(ray)
			if got != exp {
				t.Fatalf("[ray at %d, %d] expected hit %+v; got %+v", x, z, exp, got)
			}
			if !got.Hit() || got.Dist != 4 {
				t.Fatalf("[ray at %d, %d] expected hit at distance 4; got %+v", x, z, got)
			}
		}
	}
}

func TestIntersectRespectsRayInterval(t *testing.T) {
	tris := []geom.Triangle{
		geom.NewTriangle(types.XYZ(-1, -1, 1), types.XYZ(1, -1, 1), types.XYZ(0, 1, 1)),
		geom.NewTriangle(types.XYZ(-1, -1, 4), types.XYZ(1, -1, 4), types.XYZ(0, 1, 4)),
	}
	b := New(tris, Options{LeafSize: 1, MaxDepth: DefaultMaxDepth})

	type spec struct {
		tmin, tmax float32
		expID      int32
	}
	specs := []spec{
		{0, 10, 0},
		{2, 10, 1},
		{0, 0.5, geom.NoHit},
		{1.5, 3.5, geom.NoHit},
		{4.5, 10, geom.NoHit},
	}

	for index, s := range specs {
		ray := geom.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1))
		ray.TMin, ray.TMax = s.tmin, s.tmax
		if rec := b.Intersect(ray); rec.ID != s.expID {
			t.Fatalf("[spec %d] expected id %d; got %+v", index, s.expID, rec)
		}
	}
}

func TestOccludedAgreesWithIntersect(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	tris := randomTriangles(rng, 1000)

	for _, opts := range traversalOptions {
		b := New(tris, opts)
		blocked := 0
		for i := 0; i < 2000; i++ {
			from := types.XYZ(rng.Float32()*30-15, rng.Float32()*30-15, rng.Float32()*30-15)
			to := types.XYZ(rng.Float32()*30-15, rng.Float32()*30-15, rng.Float32()*30-15)
			ray := geom.NewSegment(from, to)

			exp := b.Intersect(ray).Hit()
			if got := b.Occluded(ray); got != exp {
				t.Fatalf("[%s/%d segment %d] expected occluded to be %t; got %t", opts.Split, opts.LeafSize, i, exp, got)
			}
			if exp {
				blocked++
			}
		}

		if blocked == 0 {
			t.Fatalf("[%s/%d] expected some segments to be blocked", opts.Split, opts.LeafSize)
		}
	}
}

func TestDeterministicBuildAndQueries(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	tris := randomTriangles(rng, 1200)
	rays := randomRays(rng, 500)

	for _, opts := range traversalOptions {
		b1 := New(tris, opts)
		b2 := New(tris, opts)

		if b1.NumNodes() != b2.NumNodes() {
			t.Fatalf("[%s] expected both builds to produce %d nodes; got %d", opts.Split, b1.NumNodes(), b2.NumNodes())
		}
		for i := range b1.nodes {
			if b1.nodes[i] != b2.nodes[i] {
				t.Fatalf("[%s] node %d differs between builds: %+v vs %+v", opts.Split, i, b1.nodes[i], b2.nodes[i])
			}
		}
		for i := range b1.indices {
			if b1.indices[i] != b2.indices[i] {
				t.Fatalf("[%s] index %d differs between builds", opts.Split, i)
			}
		}

		for index, ray := range rays {
			first := b1.Intersect(ray)
			if second := b1.Intersect(ray); first != second {
				t.Fatalf("[%s ray %d] expected repeated query to return %+v; got %+v", opts.Split, index, first, second)
			}
		}
	}
}

func TestIntersectCounted(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	tris := randomTriangles(rng, 2000)
	b := New(tris, DefaultOptions())

	var total Counters
	for _, ray := range randomRays(rng, 200) {
		var c Counters
		rec := b.IntersectCounted(ray, &c)
		if rec != b.Intersect(ray) {
			t.Fatal("expected counted query to return the same record as Intersect")
		}
		total.Add(c)
	}

	if total.Nodes == 0 || total.Triangles == 0 {
		t.Fatalf("expected non-zero counters; got %+v", total)
	}

	// The BVH must test far fewer triangles than a brute force scan.
	if bruteForce := 200 * len(tris); total.Triangles*5 > bruteForce {
		t.Fatalf("expected fewer than %d triangle tests; got %d", bruteForce/5, total.Triangles)
	}
}

func BenchmarkBuild(b *testing.B) {
	for _, numTris := range []int{1000, 100000} {
		tris := randomTriangles(rand.New(rand.NewSource(1)), numTris)
		for _, split := range []SplitStrategy{BoxMidpoint, CentroidMean} {
			b.Run(fmt.Sprintf("%s-%d", split, numTris), func(b *testing.B) {
				opts := DefaultOptions()
				opts.Split = split
				for i := 0; i < b.N; i++ {
					New(tris, opts)
				}
			})
		}
	}
}

func BenchmarkIntersect(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	tris := randomTriangles(rng, 100000)
	rays := randomRays(rng, 1024)
	bvh := New(tris, DefaultOptions())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bvh.Intersect(rays[i%len(rays)])
	}
}

func BenchmarkOccluded(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	tris := randomTriangles(rng, 100000)
	rays := randomRays(rng, 1024)
	bvh := New(tris, DefaultOptions())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bvh.Occluded(rays[i%len(rays)])
	}
}
