package cmd

import (
	"github.com/urfave/cli"
)

// Generate a scene, build its BVH and display the build statistics.
func BuildBVH(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	sc, _, err := buildScene(ctx)
	if err != nil {
		return err
	}

	if ctx.Bool("validate") {
		if err = sc.BVH.Validate(0); err != nil {
			return err
		}
		logger.Notice("BVH invariants hold")
	}

	logger.Noticef("BVH information:\n%s", sc.BVH.Describe())
	return nil
}
