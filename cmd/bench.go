package cmd

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/achilleasa/bvhtrace/renderer"
	"github.com/achilleasa/bvhtrace/scene"
	"github.com/achilleasa/bvhtrace/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Trace batches of random rays against a generated scene using a pool of
// tracers and report the throughput.
func Bench(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	var scheduler tracer.BlockScheduler
	switch ctx.String("scheduler") {
	case "naive":
		scheduler = tracer.NaiveScheduler()
	case "perfect":
		scheduler = tracer.PerfectScheduler()
	default:
		return fmt.Errorf("unknown scheduler %q", ctx.String("scheduler"))
	}

	sc, rng, err := buildScene(ctx)
	if err != nil {
		return err
	}

	r, err := renderer.NewDefault(sc.BVH, renderer.Options{
		NumTracers: ctx.Int("tracers"),
		Scheduler:  scheduler,
	})
	if err != nil {
		return err
	}
	defer r.Close()

	var (
		runCtx = context.Background()
		cancel context.CancelFunc
	)
	if timeout := ctx.Duration("timeout"); timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, timeout)
		defer cancel()
	}

	numRays := ctx.Int("rays")
	for batch := 0; batch < ctx.Int("batches"); batch++ {
		rays := scene.RandomRays(rng, sc.BVH.Bounds(), numRays)
		if _, err = r.Trace(runCtx, rays); err != nil {
			return err
		}
		displayBatchStats(fmt.Sprintf("batch %d", batch), r.Stats())
	}

	if ctx.Bool("shadows") {
		segments := scene.RandomSegments(rng, sc.BVH.Bounds(), numRays)
		if _, err = r.TraceOccluded(runCtx, segments); err != nil {
			return err
		}
		displayBatchStats("shadow batch", r.Stats())
	}

	return nil
}

func displayBatchStats(title string, stats renderer.BatchStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Rays", "% of batch", "Hits", "Nodes/ray", "Tris/ray", "Trace time", "Mrays/s"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockLength),
			fmt.Sprintf("%02.1f %%", stat.BatchPercent),
			fmt.Sprintf("%d", stat.Hits),
			perRay(stat.Nodes, stat.BlockLength),
			perRay(stat.Triangles, stat.BlockLength),
			stat.TraceTime.Round(time.Microsecond).String(),
			fmt.Sprintf("%.2f", stat.RaysPerSecond()/1e6),
		})
	}
	table.SetFooter([]string{
		"TOTAL",
		fmt.Sprintf("%d", stats.Rays),
		"",
		fmt.Sprintf("%d", stats.Hits()),
		"",
		"",
		stats.TraceTime.Round(time.Microsecond).String(),
		fmt.Sprintf("%.2f", stats.RaysPerSecond()/1e6),
	})

	table.Render()
	logger.Noticef("%s statistics (%s)\n%s", title, stats.Query, buf.String())
}

func perRay(count, rays int) string {
	if rays == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", float64(count)/float64(rays))
}
