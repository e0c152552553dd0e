package bvh

import "github.com/achilleasa/bvhtrace/geom"

// A BVH node is either an internal node with two children or a leaf that
// references a contiguous range of the BVH index permutation, never both:
//
// - internal nodes: Left/Right >= 0, TriIndex == -1, NumTris == 0
// - leafs: Left == Right == -1, TriIndex >= 0 and the node owns
//   indices[TriIndex : TriIndex+NumTris]
type Node struct {
	// Encloses everything beneath the node.
	Box geom.AABB

	// Child node indices.
	Left  int32
	Right int32

	// Leaf triangle range.
	TriIndex int32
	NumTris  int32
}

// Turn the node into an internal node with the given children.
func (n *Node) SetChildNodes(left, right int32) {
	n.Left = left
	n.Right = right
	n.TriIndex = -1
	n.NumTris = 0
}

// Turn the node into a leaf over indices[first : first+count].
func (n *Node) SetPrimitives(first, count int32) {
	n.Left = -1
	n.Right = -1
	n.TriIndex = first
	n.NumTris = count
}

// Get the leaf triangle range.
func (n *Node) Primitives() (first, count int32) {
	return n.TriIndex, n.NumTris
}

// Returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.TriIndex != -1
}
