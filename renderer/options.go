package renderer

import (
	"fmt"
	"runtime"

	"github.com/achilleasa/bvhtrace/tracer"
)

type Options struct {
	// Number of cpu tracers to attach. If zero, one tracer per cpu is
	// attached.
	NumTracers int

	// Block scheduler. If nil, the naive scheduler is used.
	Scheduler tracer.BlockScheduler
}

func (o Options) withDefaults() (Options, error) {
	if o.NumTracers < 0 {
		return o, fmt.Errorf("%w: number of tracers must be >= 0; got %d", ErrInvalidOptions, o.NumTracers)
	}
	if o.NumTracers == 0 {
		o.NumTracers = runtime.NumCPU()
	}
	if o.Scheduler == nil {
		o.Scheduler = tracer.NaiveScheduler()
	}
	return o, nil
}
