package bvh

import (
	"fmt"
)

// Check the structural invariants of the tree:
//
// - every node is either a leaf or an internal node with two children
// - every leaf box encloses the vertices of its triangles
// - every internal node box encloses the boxes of its children
// - every triangle is referenced by exactly one leaf
//
// Containment checks allow for an absolute error of eps. Any violation is
// reported as an error wrapping ErrInvariantViolation.
func (b *BVH) Validate(eps float32) error {
	seen := make([]int, len(b.tris))
	numNodes := int32(len(b.nodes))

	var err error
	fail := func(format string, args ...interface{}) bool {
		err = fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
		return false
	}

	b.Walk(func(nodeIndex int32, node Node, depth int, triIDs []int32) bool {
		if err != nil {
			return false
		}

		if node.IsLeaf() {
			if node.Left != -1 || node.Right != -1 {
				return fail("leaf node %d has children (%d, %d)", nodeIndex, node.Left, node.Right)
			}
			if node.TriIndex < 0 || node.NumTris < 0 || int(node.TriIndex+node.NumTris) > len(b.indices) {
				return fail("leaf node %d references out of range triangles [%d, +%d)", nodeIndex, node.TriIndex, node.NumTris)
			}
			for _, id := range triIDs {
				seen[id]++
				for _, v := range b.tris[id] {
					if !node.Box.Contains(v, eps) {
						return fail("leaf node %d box %v does not contain vertex %v of triangle %d", nodeIndex, node.Box, v, id)
					}
				}
			}
			return true
		}

		if node.NumTris != 0 {
			return fail("internal node %d references %d triangles", nodeIndex, node.NumTris)
		}
		for _, child := range []int32{node.Left, node.Right} {
			if child <= nodeIndex || child >= numNodes {
				return fail("internal node %d has invalid child index %d", nodeIndex, child)
			}
			if !node.Box.ContainsBox(b.nodes[child].Box, eps) {
				return fail("internal node %d box %v does not contain child %d box %v", nodeIndex, node.Box, child, b.nodes[child].Box)
			}
		}
		return true
	})

	if err != nil {
		return err
	}

	for id, count := range seen {
		if count != 1 {
			return fmt.Errorf("%w: triangle %d is referenced by %d leafs", ErrInvariantViolation, id, count)
		}
	}
	return nil
}
