package tracer

import (
	"context"
	"fmt"
	"time"

	"github.com/achilleasa/bvhtrace/log"
)

// The number of rays traced between context checks.
const cancelCheckInterval = 256

type cpuTracer struct {
	logger log.Logger

	// The tracer id.
	id string

	// The shared accelerator.
	accel Accelerator

	// Statistics for last traced block.
	stats *Stats

	speed float32
}

// Create a tracer that runs queries on the calling goroutine against accel.
func NewCPUTracer(id string, accel Accelerator) Tracer {
	return &cpuTracer{
		logger: log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:     id,
		accel:  accel,
		stats:  &Stats{},
		speed:  1.0,
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get the computation speed estimate.
func (tr *cpuTracer) SpeedEstimate() float32 {
	return tr.speed
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *Stats {
	return tr.stats
}

// Trace a block of rays.
func (tr *cpuTracer) Trace(ctx context.Context, req BlockRequest) error {
	if req.Offset < 0 || req.Length < 0 || req.Offset+req.Length > len(req.Rays) {
		return fmt.Errorf("%w: [%d, +%d) of %d rays", ErrInvalidBlock, req.Offset, req.Length, len(req.Rays))
	}

	switch req.Query {
	case ClosestHit:
		if len(req.Hits) < req.Offset+req.Length {
			return ErrMissingResults
		}
	case AnyHit:
		if len(req.Occluded) < req.Offset+req.Length {
			return ErrMissingResults
		}
	}

	stats := Stats{BlockLength: req.Length}
	start := time.Now()
	last := req.Offset + req.Length
	for i := req.Offset; i < last; i++ {
		if (i-req.Offset)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		if req.Query == AnyHit {
			req.Occluded[i] = tr.accel.Occluded(req.Rays[i])
			if req.Occluded[i] {
				stats.Hits++
			}
			continue
		}

		req.Hits[i] = tr.accel.IntersectCounted(req.Rays[i], &stats.Counters)
		if req.Hits[i].Hit() {
			stats.Hits++
		}
	}
	stats.BlockTime = time.Since(start).Nanoseconds()
	*tr.stats = stats

	tr.logger.Debugf("traced %d rays (%s) in %d us", req.Length, req.Query, stats.BlockTime/1e3)
	return nil
}
