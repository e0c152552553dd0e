package renderer

import (
	"context"

	"github.com/achilleasa/bvhtrace/geom"
)

type Renderer interface {
	// Find the closest hit for each ray of the batch. The returned
	// records are indexed like rays.
	Trace(ctx context.Context, rays []geom.Ray) ([]geom.HitRecord, error)

	// Check whether each ray of the batch is blocked.
	TraceOccluded(ctx context.Context, rays []geom.Ray) ([]bool, error)

	// Shutdown renderer and detach its tracers.
	Close()

	// Get statistics for the last traced batch.
	Stats() BatchStats
}
