package scene

import (
	"math/rand"

	"github.com/achilleasa/bvhtrace/geom"
	"github.com/achilleasa/bvhtrace/types"
	"github.com/chewxy/math32"
)

// Generate n rays that start on a sphere enclosing bounds and are aimed at
// random points inside bounds. Ray directions are not normalized.
func RandomRays(rng *rand.Rand, bounds geom.AABB, n int) []geom.Ray {
	if bounds.IsEmpty() || n <= 0 {
		return nil
	}

	center := bounds.Center()
	radius := math32.Max(bounds.Side().Len(), 1)

	rays := make([]geom.Ray, n)
	for i := range rays {
		origin := center.Add(randomUnitVector(rng).Mul(radius))
		rays[i] = geom.NewRay(origin, randomPointIn(rng, bounds).Sub(origin))
	}
	return rays
}

// Generate n segments between random point pairs inside bounds. Segments
// exclude their end points and are used as shadow rays.
func RandomSegments(rng *rand.Rand, bounds geom.AABB, n int) []geom.Ray {
	if bounds.IsEmpty() || n <= 0 {
		return nil
	}

	rays := make([]geom.Ray, n)
	for i := range rays {
		rays[i] = geom.NewSegment(randomPointIn(rng, bounds), randomPointIn(rng, bounds))
	}
	return rays
}

func randomPointIn(rng *rand.Rand, bounds geom.AABB) types.Vec3 {
	side := bounds.Side()
	return types.XYZ(
		bounds[0][0]+rng.Float32()*side[0],
		bounds[0][1]+rng.Float32()*side[1],
		bounds[0][2]+rng.Float32()*side[2],
	)
}

func randomUnitVector(rng *rand.Rand) types.Vec3 {
	for {
		v := types.XYZ(float32(rng.NormFloat64()), float32(rng.NormFloat64()), float32(rng.NormFloat64()))
		if v.Len() > 1e-3 {
			return v.Normalize()
		}
	}
}
