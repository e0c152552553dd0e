package renderer

import (
	"time"

	"github.com/achilleasa/bvhtrace/tracer"
)

type TracerStat struct {
	// The tracer id.
	Id string

	// The block length and the percentage of the batch it represents.
	BlockLength  int
	BatchPercent float32

	// Trace time for assigned block
	TraceTime time.Duration

	// Rays that hit something.
	Hits int

	// Traversal counters (closest-hit queries only).
	Nodes     int
	Triangles int
}

// Get the tracer throughput in rays per second.
func (s TracerStat) RaysPerSecond() float64 {
	if s.TraceTime <= 0 {
		return 0
	}
	return float64(s.BlockLength) / s.TraceTime.Seconds()
}

type BatchStats struct {
	// The query type of the batch.
	Query tracer.QueryType

	// Individual tracer stats.
	Tracers []TracerStat

	// Number of rays in the batch.
	Rays int

	// Total trace time for the entire batch.
	TraceTime time.Duration
}

// Get the batch throughput in rays per second.
func (s BatchStats) RaysPerSecond() float64 {
	if s.TraceTime <= 0 {
		return 0
	}
	return float64(s.Rays) / s.TraceTime.Seconds()
}

// Get the total number of rays that hit something.
func (s BatchStats) Hits() int {
	total := 0
	for _, st := range s.Tracers {
		total += st.Hits
	}
	return total
}
