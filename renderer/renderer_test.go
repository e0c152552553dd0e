package renderer

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/achilleasa/bvhtrace/bvh"
	"github.com/achilleasa/bvhtrace/geom"
	"github.com/achilleasa/bvhtrace/scene"
	"github.com/achilleasa/bvhtrace/tracer"
	"github.com/achilleasa/bvhtrace/types"
)

func TestParallelTraceMatchesSequential(t *testing.T) {
	accel, rays := testBatch(t, 4000, 5000)

	schedulers := []tracer.BlockScheduler{tracer.NaiveScheduler(), tracer.PerfectScheduler()}
	for _, sch := range schedulers {
		r, err := NewDefault(accel, Options{NumTracers: 4, Scheduler: sch})
		if err != nil {
			t.Fatal(err)
		}

		// Run a few batches so the perfect scheduler uses feedback.
		for batch := 0; batch < 3; batch++ {
			hits, err := r.Trace(context.Background(), rays)
			if err != nil {
				t.Fatal(err)
			}

			for i, ray := range rays {
				if exp := accel.Intersect(ray); hits[i] != exp {
					t.Fatalf("[batch %d ray %d] expected hit %+v; got %+v", batch, i, exp, hits[i])
				}
			}

			stats := r.Stats()
			if stats.Rays != len(rays) || len(stats.Tracers) != 4 {
				t.Fatalf("[batch %d] expected stats for %d rays and 4 tracers; got %+v", batch, len(rays), stats)
			}
			total := 0
			for _, st := range stats.Tracers {
				total += st.BlockLength
			}
			if total != len(rays) {
				t.Fatalf("[batch %d] expected block lengths to add up to %d; got %d", batch, len(rays), total)
			}
		}
		r.Close()
	}
}

func TestTraceOccluded(t *testing.T) {
	accel, _ := testBatch(t, 2000, 0)
	segments := scene.RandomSegments(rand.New(rand.NewSource(7)), accel.Bounds(), 3000)

	r, err := NewDefault(accel, Options{NumTracers: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	occluded, err := r.TraceOccluded(context.Background(), segments)
	if err != nil {
		t.Fatal(err)
	}

	blocked := 0
	for i, seg := range segments {
		if exp := accel.Occluded(seg); occluded[i] != exp {
			t.Fatalf("[segment %d] expected occluded to be %t; got %t", i, exp, occluded[i])
		}
		if occluded[i] {
			blocked++
		}
	}

	stats := r.Stats()
	if stats.Query != tracer.AnyHit || stats.Hits() != blocked {
		t.Fatalf("expected any-hit stats with %d hits; got %s with %d hits", blocked, stats.Query, stats.Hits())
	}
}

func TestTraceEmptyBatch(t *testing.T) {
	accel, _ := testBatch(t, 10, 0)
	r, err := NewDefault(accel, Options{NumTracers: 2})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	hits, err := r.Trace(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no results; got %d", len(hits))
	}
}

func TestRendererErrors(t *testing.T) {
	if _, err := NewDefault(nil, Options{}); !errors.Is(err, ErrNoAccelerator) {
		t.Fatalf("expected ErrNoAccelerator; got %v", err)
	}
	if _, err := New(tracer.NaiveScheduler()); !errors.Is(err, ErrNoTracers) {
		t.Fatalf("expected ErrNoTracers; got %v", err)
	}

	accel, rays := testBatch(t, 100, 5000)
	if _, err := NewDefault(accel, Options{NumTracers: -1}); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions; got %v", err)
	}

	r, err := NewDefault(accel, Options{NumTracers: 2})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err = r.Trace(ctx, rays); !errors.Is(err, ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted; got %v", err)
	}

	r.Close()
	if _, err = r.Trace(context.Background(), rays); !errors.Is(err, ErrRendererClosed) {
		t.Fatalf("expected ErrRendererClosed; got %v", err)
	}
}

func TestTracerFailurePropagates(t *testing.T) {
	expErr := errors.New("device lost")
	r, err := New(tracer.NaiveScheduler(), &failingTracer{err: expErr}, &failingTracer{})
	if err != nil {
		t.Fatal(err)
	}

	rays := make([]geom.Ray, 10)
	if _, err = r.Trace(context.Background(), rays); !errors.Is(err, expErr) {
		t.Fatalf("expected tracer error to propagate; got %v", err)
	}
}

func testBatch(t *testing.T, numTris, numRays int) (*bvh.BVH, []geom.Ray) {
	rng := rand.New(rand.NewSource(1))
	bounds := geom.NewAABB(types.XYZ(-10, -10, -10), types.XYZ(10, 10, 10))
	mesh, err := scene.RandomSoup("soup", rng, numTris, bounds, 2)
	if err != nil {
		t.Fatal(err)
	}

	sc := scene.NewScene()
	if err = sc.AddMesh(mesh); err != nil {
		t.Fatal(err)
	}
	accel := sc.Compile(bvh.DefaultOptions())

	return accel, scene.RandomRays(rng, accel.Bounds(), numRays)
}

type failingTracer struct {
	err   error
	stats tracer.Stats
}

func (ft *failingTracer) Id() string {
	return "failing"
}

func (ft *failingTracer) SpeedEstimate() float32 {
	return 1
}

func (ft *failingTracer) Trace(_ context.Context, req tracer.BlockRequest) error {
	ft.stats.BlockLength = req.Length
	return ft.err
}

func (ft *failingTracer) Stats() *tracer.Stats {
	return &ft.stats
}
