package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split a ray batch into blocks of variable length and assign them to
	// the pool of tracers using feedback collected from previous batches.
	//
	// This function returns the block length assignment for each tracer
	// in the input list. The assignments always add up to numRays.
	Schedule(tracers []Tracer, numRays int) []int
}

type naiveScheduler struct{}

// Create a scheduler that splits batches using each tracer's speed estimate.
func NaiveScheduler() BlockScheduler {
	return naiveScheduler{}
}

func (naiveScheduler) Schedule(tracers []Tracer, numRays int) []int {
	weights := make([]float64, len(tracers))
	for idx, tr := range tracers {
		weights[idx] = float64(tr.SpeedEstimate())
	}
	return distribute(weights, numRays)
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent batches is approximately the same.
type perfectScheduler struct {
	blockAssignment []int
}

// Create a new perfect scheduler instance
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split the batch into blocks of variable length and assign them to the pool
// of tracers using feedback collected from previous batches.
//
// When previous batch information is available the scheduler uses the
// following formula for estimating the workload for tracer w and batch i+1:
// w_i, f_i+1 = (blockLen,w_i / time,w_i) / Σ(blockLen_i-1 / time,i-1)
func (sch *perfectScheduler) Schedule(tracers []Tracer, numRays int) []int {
	// If this is the first time we try to schedule or the number of tracers
	// has changed we need to reset the block assignments
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = NaiveScheduler().Schedule(tracers, numRays)
		return sch.blockAssignment
	}

	// Use last batch statistics. A tracer without a throughput sample
	// would never receive work again so fall back to the speed estimates.
	weights := make([]float64, len(tracers))
	for idx, tr := range tracers {
		stats := tr.Stats()
		if stats.BlockLength == 0 {
			sch.blockAssignment = NaiveScheduler().Schedule(tracers, numRays)
			return sch.blockAssignment
		}
		blockTime := stats.BlockTime
		if blockTime <= 0 {
			blockTime = 1
		}
		weights[idx] = float64(stats.BlockLength) / float64(blockTime)
	}

	sch.blockAssignment = distribute(weights, numRays)
	return sch.blockAssignment
}

// Split total proportionally to weights. In case the assignments don't add up
// to total the missing ones are appended to the first entry. If all weights
// are zero the total is split evenly.
func distribute(weights []float64, total int) []int {
	if len(weights) == 0 {
		return nil
	}

	var sum float64
	for _, w := range weights {
		if w > 0 {
			sum += w
		}
	}

	out := make([]int, len(weights))
	scheduled := 0
	for idx, w := range weights {
		switch {
		case sum == 0:
			out[idx] = total / len(weights)
		case w > 0:
			out[idx] = int(math.Floor(w * float64(total) / sum))
		}
		scheduled += out[idx]
	}

	out[0] += total - scheduled
	return out
}
