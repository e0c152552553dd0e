package bvh

import (
	"fmt"

	"github.com/achilleasa/bvhtrace/log"
)

const (
	// Nodes with at most this many triangles become leafs.
	DefaultLeafSize = 3

	// Nodes deeper than this become leafs regardless of their triangle count.
	DefaultMaxDepth = 63

	// The largest supported MaxDepth. The traversal stack is sized for it.
	MaxDepthLimit = 63
)

// Options control BVH construction.
type Options struct {
	// The max number of triangles in a leaf created by the normal
	// termination rule.
	LeafSize int

	// The depth after which the builder stops partitioning.
	MaxDepth int

	// The strategy for placing the split plane along the split axis.
	Split SplitStrategy
}

// Get the default build options.
func DefaultOptions() Options {
	return Options{
		LeafSize: DefaultLeafSize,
		MaxDepth: DefaultMaxDepth,
		Split:    BoxMidpoint,
	}
}

// Check that options are within their supported ranges.
func (o Options) Validate() error {
	if o.LeafSize < 1 {
		return fmt.Errorf("%w: leaf size must be >= 1; got %d", ErrInvalidOptions, o.LeafSize)
	}
	if o.MaxDepth < 0 || o.MaxDepth > MaxDepthLimit {
		return fmt.Errorf("%w: max depth must be in [0, %d]; got %d", ErrInvalidOptions, MaxDepthLimit, o.MaxDepth)
	}
	return nil
}

// Replace out of range options with their defaults.
func (o Options) sanitize(logger log.Logger) Options {
	if o.LeafSize < 1 {
		logger.Warningf("invalid leaf size %d; using %d", o.LeafSize, DefaultLeafSize)
		o.LeafSize = DefaultLeafSize
	}
	if o.MaxDepth < 0 || o.MaxDepth > MaxDepthLimit {
		logger.Warningf("invalid max depth %d; using %d", o.MaxDepth, DefaultMaxDepth)
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Split == nil {
		o.Split = BoxMidpoint
	}
	return o
}
