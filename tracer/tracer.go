package tracer

import (
	"context"

	"github.com/achilleasa/bvhtrace/bvh"
	"github.com/achilleasa/bvhtrace/geom"
)

// The type of query that a tracer runs for each ray of a block.
type QueryType uint8

const (
	// Find the closest hit for each ray.
	ClosestHit QueryType = iota

	// Only check whether each ray is blocked (shadow rays).
	AnyHit
)

func (q QueryType) String() string {
	if q == AnyHit {
		return "any-hit"
	}
	return "closest-hit"
}

// Accelerator is implemented by the spatial index that tracers query.
// Implementations must be safe for concurrent use.
type Accelerator interface {
	IntersectCounted(ray geom.Ray, counters *bvh.Counters) geom.HitRecord
	Occluded(ray geom.Ray) bool
}

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start offset and length in the ray batch.
	Offset int
	Length int

	// The query to run.
	Query QueryType

	// The ray batch shared by all tracers.
	Rays []geom.Ray

	// Result slices indexed like Rays. Hits is written for ClosestHit
	// queries and Occluded for AnyHit queries. Tracers only write to the
	// [Offset, Offset+Length) range.
	Hits     []geom.HitRecord
	Occluded []bool
}

// Tracer statistics.
type Stats struct {
	// The traced block length
	BlockLength int

	// The time for tracing this block (in nanoseconds)
	BlockTime int64

	// Traversal counters for closest-hit queries.
	Counters bvh.Counters

	// Number of rays that hit something.
	Hits int
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the tracers computation speed estimate compared to a
	// baseline (single cpu core) implementation.
	SpeedEstimate() float32

	// Trace a block of rays. Trace blocks until the block is processed
	// or ctx is cancelled.
	Trace(ctx context.Context, req BlockRequest) error

	// Retrieve last block statistics.
	Stats() *Stats
}
