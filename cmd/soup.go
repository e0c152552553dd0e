package cmd

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/achilleasa/bvhtrace/bvh"
	"github.com/achilleasa/bvhtrace/geom"
	"github.com/achilleasa/bvhtrace/scene"
	"github.com/achilleasa/bvhtrace/types"
	"github.com/chewxy/math32"
	"github.com/urfave/cli"
)

// Flags shared by all commands that generate a scene and build its BVH.
func SceneFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "mesh, m",
			Value: "random",
			Usage: "generated mesh type: random, sphere, grid or mixed",
		},
		cli.IntFlag{
			Name:  "triangles, n",
			Value: 100000,
			Usage: "approximate number of generated triangles",
		},
		cli.Float64Flag{
			Name:  "max-edge",
			Value: 1.0,
			Usage: "max triangle extent for random soups",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "random number generator seed",
		},
		cli.IntFlag{
			Name:  "leaf-size",
			Value: bvh.DefaultLeafSize,
			Usage: "max number of triangles per BVH leaf",
		},
		cli.IntFlag{
			Name:  "max-depth",
			Value: bvh.DefaultMaxDepth,
			Usage: "max BVH depth",
		},
		cli.StringFlag{
			Name:  "split",
			Value: bvh.BoxMidpoint.String(),
			Usage: "split plane strategy: midpoint or centroid",
		},
	}
}

// Parse the BVH build options from the command flags.
func bvhOptions(ctx *cli.Context) (bvh.Options, error) {
	split, err := bvh.SplitStrategyByName(ctx.String("split"))
	if err != nil {
		return bvh.Options{}, err
	}

	opts := bvh.Options{
		LeafSize: ctx.Int("leaf-size"),
		MaxDepth: ctx.Int("max-depth"),
		Split:    split,
	}
	return opts, opts.Validate()
}

// Generate the scene described by the command flags and compile it.
func buildScene(ctx *cli.Context) (*scene.Scene, *rand.Rand, error) {
	opts, err := bvhOptions(ctx)
	if err != nil {
		return nil, nil, err
	}

	rng := rand.New(rand.NewSource(ctx.Int64("seed")))
	meshes, err := generateMeshes(ctx.String("mesh"), rng, ctx.Int("triangles"), float32(ctx.Float64("max-edge")))
	if err != nil {
		return nil, nil, err
	}

	sc := scene.NewScene()
	for _, mesh := range meshes {
		if err = sc.AddMesh(mesh); err != nil {
			return nil, nil, err
		}
		logger.Infof("generated mesh %q with %d triangles", mesh.Name, len(mesh.Triangles))
	}

	sc.Compile(opts)
	logger.Noticef("built BVH over %d triangles in %s", len(sc.Triangles), sc.BVH.Stats().BuildTime)

	return sc, rng, nil
}

func generateMeshes(kind string, rng *rand.Rand, numTris int, maxEdge float32) ([]*scene.Mesh, error) {
	bounds := geom.NewAABB(types.Splat(-10), types.Splat(10))

	switch kind {
	case "random":
		mesh, err := scene.RandomSoup("soup", rng, numTris, bounds, maxEdge)
		return []*scene.Mesh{mesh}, err
	case "sphere":
		rings := sphereRings(numTris)
		mesh, err := scene.Sphere("sphere", types.XYZ(0, 0, 0), 10, rings, 2*rings)
		return []*scene.Mesh{mesh}, err
	case "grid":
		side := int(math.Max(1, math.Sqrt(float64(numTris)/2)))
		mesh, err := scene.Grid("grid", side, side, 20/float32(side))
		if err != nil {
			return nil, err
		}
		mesh.Transform(scene.NewTransform(types.XYZ(-10, 0, 10), math32.Pi/2, types.Splat(1)))
		return []*scene.Mesh{mesh}, nil
	case "mixed":
		return mixedMeshes(rng, numTris, maxEdge)
	}

	return nil, fmt.Errorf("unknown mesh type %q", kind)
}

// A ground grid with a few transformed spheres and a random soup floating
// above it. Each part receives about a third of the triangle budget.
func mixedMeshes(rng *rand.Rand, numTris int, maxEdge float32) ([]*scene.Mesh, error) {
	budget := numTris / 3
	side := int(math.Max(1, math.Sqrt(float64(budget)/2)))
	ground, err := scene.Grid("ground", side, side, 40/float32(side))
	if err != nil {
		return nil, err
	}
	ground.Transform(scene.NewTransform(types.XYZ(-20, -10, -20), 0, types.Splat(1)))

	meshes := []*scene.Mesh{ground}
	const numSpheres = 4
	rings := sphereRings(budget / numSpheres)
	for i := 0; i < numSpheres; i++ {
		sphere, err := scene.Sphere(fmt.Sprintf("sphere-%d", i), types.XYZ(0, 0, 0), 1, rings, 2*rings)
		if err != nil {
			return nil, err
		}
		yaw := rng.Float32() * 2 * math32.Pi
		scale := types.XYZ(2+rng.Float32()*2, 1+rng.Float32()*3, 2+rng.Float32()*2)
		pos := types.XYZ(rng.Float32()*30-15, -6, rng.Float32()*30-15)
		sphere.Transform(scene.NewTransform(pos, yaw, scale))
		meshes = append(meshes, sphere)
	}

	soupTris := numTris - len(ground.Triangles) - numSpheres*len(meshes[1].Triangles)
	if soupTris < 0 {
		soupTris = 0
	}
	soup, err := scene.RandomSoup("soup", rng, soupTris, geom.NewAABB(types.XYZ(-20, 0, -20), types.XYZ(20, 10, 20)), maxEdge)
	if err != nil {
		return nil, err
	}

	return append(meshes, soup), nil
}

func sphereRings(numTris int) int {
	return int(math.Max(2, math.Sqrt(float64(numTris)/4)))
}
