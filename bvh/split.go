package bvh

import (
	"fmt"
	"strings"

	"github.com/achilleasa/bvhtrace/geom"
	"github.com/achilleasa/bvhtrace/types"
)

var (
	// Split at the midpoint of the node box along the split axis.
	BoxMidpoint SplitStrategy = boxMidpoint{}

	// Split at the mean of the triangle centroids along the split axis.
	CentroidMean SplitStrategy = centroidMean{}
)

// A SplitStrategy selects the split plane position for a node. Implementations
// must be deterministic for the same input.
type SplitStrategy interface {
	// Calculate the split plane position along axis for the triangles
	// referenced by indices. The node box encloses all of them.
	SplitPlane(tris []geom.Triangle, indices []int32, box geom.AABB, axis types.Axis) float32

	// The strategy name.
	String() string
}

// Look up a split strategy by name.
func SplitStrategyByName(name string) (SplitStrategy, error) {
	for _, s := range []SplitStrategy{BoxMidpoint, CentroidMean} {
		if strings.EqualFold(s.String(), name) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSplitStrategy, name)
}

type boxMidpoint struct{}

func (boxMidpoint) SplitPlane(_ []geom.Triangle, _ []int32, box geom.AABB, axis types.Axis) float32 {
	return (box[0][axis] + box[1][axis]) * 0.5
}

func (boxMidpoint) String() string {
	return "midpoint"
}

type centroidMean struct{}

func (centroidMean) SplitPlane(tris []geom.Triangle, indices []int32, _ geom.AABB, axis types.Axis) float32 {
	if len(indices) == 0 {
		return 0
	}

	// float64 accumulator; float32 drifts on large soups.
	var sum float64
	for _, id := range indices {
		sum += float64(tris[id].Centroid()[axis])
	}
	return float32(sum / float64(len(indices)))
}

func (centroidMean) String() string {
	return "centroid"
}
