package main

import (
	"fmt"
	"os"
	"time"

	"github.com/achilleasa/bvhtrace/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "bvhtrace"
	app.Usage = "build bounding volume hierarchies over triangle soups and trace rays against them"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "build",
			Usage: "build a BVH over a generated triangle soup and display its statistics",
			Description: `
Generate a triangle soup, build a BVH over it using the selected split
strategy and termination policy and print tree statistics and memory usage.`,
			Flags: append(cmd.SceneFlags(),
				cli.BoolFlag{
					Name:  "validate",
					Usage: "check the tree invariants after building",
				},
			),
			Action: cmd.BuildBVH,
		},
		{
			Name:  "bench",
			Usage: "trace batches of random rays using a pool of tracers",
			Description: `
Split batches of random rays among a pool of cpu tracers that share the same
BVH and report per-tracer throughput and traversal statistics. The perfect
scheduler uses the timings of the previous batch to balance the next one.`,
			Flags: append(cmd.SceneFlags(),
				cli.IntFlag{
					Name:  "rays, r",
					Value: 1000000,
					Usage: "number of rays per batch",
				},
				cli.IntFlag{
					Name:  "batches, b",
					Value: 4,
					Usage: "number of traced batches",
				},
				cli.IntFlag{
					Name:  "tracers, t",
					Value: 0,
					Usage: "number of cpu tracers (0 = one per cpu)",
				},
				cli.StringFlag{
					Name:  "scheduler",
					Value: "perfect",
					Usage: "block scheduler: naive or perfect",
				},
				cli.BoolFlag{
					Name:  "shadows",
					Usage: "also trace a batch of shadow segments",
				},
				cli.DurationFlag{
					Name:  "timeout",
					Value: time.Duration(0),
					Usage: "abort tracing after this duration (0 = no limit)",
				},
			),
			Action: cmd.Bench,
		},
		{
			Name:  "verify",
			Usage: "compare BVH queries against a brute force scan",
			Description: `
Check the BVH structural invariants and compare the closest hit and shadow
query results for random rays against a linear scan over all triangles.
Exits with a non-zero status on any mismatch.`,
			Flags: append(cmd.SceneFlags(),
				cli.IntFlag{
					Name:  "rays, r",
					Value: 10000,
					Usage: "number of verified rays",
				},
				cli.Float64Flag{
					Name:  "tolerance",
					Value: 1e-5,
					Usage: "relative hit distance tolerance",
				},
			),
			Action: cmd.Verify,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
