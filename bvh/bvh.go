package bvh

import (
	"github.com/achilleasa/bvhtrace/geom"
)

// BVH is an immutable bounding volume hierarchy over a triangle soup. Once
// built, it may be queried concurrently from any number of goroutines.
type BVH struct {
	tris []geom.Triangle

	// Node arena; node 0 is the root.
	nodes []Node

	// Permutation of triangle indices; leafs reference ranges of it.
	indices []int32

	opts  Options
	stats Stats
}

// Get the box enclosing all triangles.
func (b *BVH) Bounds() geom.AABB {
	return b.nodes[0].Box
}

// Get the triangles the BVH was built from.
func (b *BVH) Triangles() []geom.Triangle {
	return b.tris
}

// Get the options used for building the BVH.
func (b *BVH) Options() Options {
	return b.opts
}

// Get build statistics.
func (b *BVH) Stats() Stats {
	return b.stats
}

// Get the number of nodes in the tree.
func (b *BVH) NumNodes() int {
	return len(b.nodes)
}

// Visit the tree nodes in depth-first order starting from the root. The
// callback receives the node index, a copy of the node, its depth and the
// original triangle indices owned by leaf nodes (nil for internal nodes).
// Returning false from the callback skips the node's children. The triIDs
// slice aliases BVH storage and must not be modified.
func (b *BVH) Walk(fn func(nodeIndex int32, node Node, depth int, triIDs []int32) bool) {
	type entry struct {
		nodeIndex int32
		depth     int
	}

	stack := []entry{{0, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := b.nodes[e.nodeIndex]
		var triIDs []int32
		if node.IsLeaf() {
			triIDs = b.indices[node.TriIndex : node.TriIndex+node.NumTris]
		}

		if !fn(e.nodeIndex, node, e.depth, triIDs) || node.IsLeaf() {
			continue
		}

		stack = append(stack, entry{node.Right, e.depth + 1}, entry{node.Left, e.depth + 1})
	}
}
