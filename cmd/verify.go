package cmd

import (
	"errors"
	"fmt"

	"github.com/achilleasa/bvhtrace/geom"
	"github.com/achilleasa/bvhtrace/scene"
	"github.com/urfave/cli"
)

var errVerificationFailed = errors.New("BVH results do not match brute force")

// Compare BVH queries against a brute force scan over the same triangles.
func Verify(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	sc, rng, err := buildScene(ctx)
	if err != nil {
		return err
	}

	if err = sc.BVH.Validate(0); err != nil {
		return err
	}
	logger.Notice("BVH invariants hold")

	var (
		numRays     = ctx.Int("rays")
		tolerance   = float32(ctx.Float64("tolerance"))
		rays        = scene.RandomRays(rng, sc.BVH.Bounds(), numRays)
		mismatches  int
		idMismatch  int
		hits        int
		shadowFails int
	)

	for i, ray := range rays {
		exp := geom.IntersectAll(sc.Triangles, ray)
		got := sc.BVH.Intersect(ray)
		if got.Hit() {
			hits++
		}

		if !geom.SameHit(got, exp, tolerance) {
			mismatches++
			logger.Warningf("ray %d: expected %+v; got %+v", i, exp, got)
			continue
		}
		if got.ID != exp.ID {
			// Triangles sharing an edge may be hit at the same distance.
			idMismatch++
			logger.Debugf("ray %d: expected id %d; got %d at the same distance", i, exp.ID, got.ID)
		}
	}

	for i, seg := range scene.RandomSegments(rng, sc.BVH.Bounds(), numRays) {
		exp := geom.IntersectAll(sc.Triangles, seg).Hit()
		if got := sc.BVH.Occluded(seg); got != exp {
			shadowFails++
			logger.Warningf("segment %d: expected occluded to be %t; got %t", i, exp, got)
		}
	}

	logger.Noticef(
		"verified %d rays (%d hits) and %d segments: %d mismatches, %d shadow mismatches, %d equidistant id differences",
		len(rays), hits, numRays, mismatches, shadowFails, idMismatch,
	)

	if mismatches != 0 || shadowFails != 0 {
		return fmt.Errorf("%w: %d ray and %d segment mismatches", errVerificationFailed, mismatches, shadowFails)
	}
	return nil
}
