package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/bvhtrace/geom"
	"github.com/achilleasa/bvhtrace/log"
	"github.com/achilleasa/bvhtrace/tracer"
	"golang.org/x/sync/errgroup"
)

// A renderer that splits ray batches among a pool of tracers sharing the
// same accelerator.
type defaultRenderer struct {
	logger log.Logger

	// Batches are traced one at a time.
	sync.Mutex

	tracers   []tracer.Tracer
	scheduler tracer.BlockScheduler

	stats  BatchStats
	closed bool
}

// Create a renderer that attaches opts.NumTracers cpu tracers to accel.
func NewDefault(accel tracer.Accelerator, opts Options) (Renderer, error) {
	if accel == nil {
		return nil, ErrNoAccelerator
	}

	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	tracers := make([]tracer.Tracer, opts.NumTracers)
	for idx := range tracers {
		tracers[idx] = tracer.NewCPUTracer(fmt.Sprintf("cpu-%d", idx), accel)
	}

	return New(opts.Scheduler, tracers...)
}

// Create a renderer using the specified block scheduler and tracers.
func New(scheduler tracer.BlockScheduler, tracers ...tracer.Tracer) (Renderer, error) {
	if len(tracers) == 0 {
		return nil, ErrNoTracers
	}
	if scheduler == nil {
		scheduler = tracer.NaiveScheduler()
	}

	r := &defaultRenderer{
		logger:    log.New("renderer"),
		tracers:   tracers,
		scheduler: scheduler,
	}
	r.logger.Infof("attached %d tracers", len(tracers))

	return r, nil
}

// Find the closest hit for each ray of the batch.
func (r *defaultRenderer) Trace(ctx context.Context, rays []geom.Ray) ([]geom.HitRecord, error) {
	hits := make([]geom.HitRecord, len(rays))
	err := r.traceBatch(ctx, tracer.BlockRequest{
		Query: tracer.ClosestHit,
		Rays:  rays,
		Hits:  hits,
	})
	if err != nil {
		return nil, err
	}
	return hits, nil
}

// Check whether each ray of the batch is blocked.
func (r *defaultRenderer) TraceOccluded(ctx context.Context, rays []geom.Ray) ([]bool, error) {
	occluded := make([]bool, len(rays))
	err := r.traceBatch(ctx, tracer.BlockRequest{
		Query:    tracer.AnyHit,
		Rays:     rays,
		Occluded: occluded,
	})
	if err != nil {
		return nil, err
	}
	return occluded, nil
}

// Shutdown renderer and detach its tracers.
func (r *defaultRenderer) Close() {
	r.Lock()
	defer r.Unlock()

	r.closed = true
	r.tracers = nil
}

// Get statistics for the last traced batch.
func (r *defaultRenderer) Stats() BatchStats {
	r.Lock()
	defer r.Unlock()
	return r.stats
}

// Split the batch among the attached tracers and wait for all of them to
// complete. The request template carries the query type and the shared
// result buffers.
func (r *defaultRenderer) traceBatch(ctx context.Context, template tracer.BlockRequest) error {
	r.Lock()
	defer r.Unlock()

	if r.closed {
		return ErrRendererClosed
	}

	numRays := len(template.Rays)
	blockAssignment := r.scheduler.Schedule(r.tracers, numRays)

	start := time.Now()
	group, groupCtx := errgroup.WithContext(ctx)
	offset := 0
	for idx, tr := range r.tracers {
		req := template
		req.Offset = offset
		req.Length = blockAssignment[idx]
		offset += req.Length

		if req.Length == 0 {
			continue
		}

		tr := tr
		group.Go(func() error {
			return tr.Trace(groupCtx, req)
		})
	}

	if err := group.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrInterrupted, err)
		}
		return err
	}

	r.stats = BatchStats{
		Query:     template.Query,
		Tracers:   make([]TracerStat, len(r.tracers)),
		Rays:      numRays,
		TraceTime: time.Since(start),
	}
	for idx, tr := range r.tracers {
		stat := TracerStat{
			Id:          tr.Id(),
			BlockLength: blockAssignment[idx],
		}
		if numRays > 0 {
			stat.BatchPercent = 100.0 * float32(stat.BlockLength) / float32(numRays)
		}
		if stat.BlockLength > 0 {
			trStats := tr.Stats()
			stat.TraceTime = time.Duration(trStats.BlockTime)
			stat.Hits = trStats.Hits
			stat.Nodes = trStats.Counters.Nodes
			stat.Triangles = trStats.Counters.Triangles
		}
		r.stats.Tracers[idx] = stat
	}

	r.logger.Debugf("traced %d rays (%s) in %s", numRays, template.Query, r.stats.TraceTime)
	return nil
}
