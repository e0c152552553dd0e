package bvh

import (
	"time"

	"github.com/achilleasa/bvhtrace/geom"
	"github.com/achilleasa/bvhtrace/log"
	"github.com/achilleasa/bvhtrace/types"
)

type builder struct {
	logger log.Logger

	tris []geom.Triangle

	// Pre-allocated node arena; a binary tree over n leafs has at most
	// 2n-1 nodes.
	nodes []Node

	// Index permutation over tris. Partitioning only reorders this list.
	indices []int32

	// Bump allocator for nodes; the root is always node 0.
	addedNodes int32

	opts  Options
	stats Stats
}

// Construct a BVH over tris.
//
// The builder recursively splits the node box at the plane selected by the
// configured split strategy along the axis with the largest extent. If a
// plane leaves one side empty, the next two axes are tried in round-robin
// order before giving up and creating a leaf. Nodes with at most
// opts.LeafSize triangles or deeper than opts.MaxDepth also become leafs.
//
// The BVH keeps a reference to tris which must not be modified while the BVH
// is in use. An empty tris slice yields a BVH whose root is an empty leaf.
func New(tris []geom.Triangle, opts Options) *BVH {
	logger := log.New("bvh")
	numTris := len(tris)

	b := &builder{
		logger:     logger,
		tris:       tris,
		nodes:      make([]Node, nodeCapacity(numTris)),
		indices:    make([]int32, numTris),
		addedNodes: 1,
		opts:       opts.sanitize(logger),
		stats: Stats{
			Triangles: numTris,
		},
	}

	for i := range b.indices {
		b.indices[i] = int32(i)
	}

	start := time.Now()
	bounds := geom.EmptyAABB()
	for i := range tris {
		bounds.Extend(tris[i].BBox())
	}
	b.buildNode(0, 0, int32(numTris), bounds, 0)
	b.stats.Nodes = int(b.addedNodes)
	b.stats.BuildTime = time.Since(start)

	logger.Debugf(
		"BVH tree build time: %d ms, triangles: %d, maxDepth: %d, nodes: %d, leafs: %d, split: %s",
		b.stats.BuildTime.Nanoseconds()/1e6,
		numTris, b.stats.MaxDepth, b.stats.Nodes, b.stats.Leafs, b.opts.Split,
	)

	return &BVH{
		tris:    tris,
		nodes:   b.nodes[:b.addedNodes],
		indices: b.indices,
		opts:    b.opts,
		stats:   b.stats,
	}
}

func nodeCapacity(numTris int) int {
	if numTris == 0 {
		return 1
	}
	return 2*numTris - 1
}

// Recursively set up the node at nodeIndex for the triangles referenced by
// indices[triIndex : triIndex+numTris]. The box must enclose them.
func (b *builder) buildNode(nodeIndex, triIndex, numTris int32, box geom.AABB, depth int) {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	node := &b.nodes[nodeIndex]
	node.Box = box

	if int(numTris) <= b.opts.LeafSize {
		b.createLeaf(node, triIndex, numTris)
		return
	}
	if depth > b.opts.MaxDepth {
		b.stats.DepthLimitedLeafs++
		b.createLeaf(node, triIndex, numTris)
		return
	}

	var (
		split             int32
		leftBox, rightBox geom.AABB
		foundSplit        bool
	)

	// If the split fails along the max axis try the other two.
	axis := box.MaxAxis()
	for attempt := 0; attempt < 3; attempt++ {
		plane := b.opts.Split.SplitPlane(b.tris, b.indices[triIndex:triIndex+numTris], box, axis)
		leftBox, rightBox = geom.EmptyAABB(), geom.EmptyAABB()
		split = b.partition(triIndex, numTris, plane, axis, &leftBox, &rightBox)
		if split != 0 && split != numTris {
			foundSplit = true
			break
		}
		axis = (axis + 1) % 3
	}

	if !foundSplit {
		b.stats.UnsplittableLeafs++
		b.createLeaf(node, triIndex, numTris)
		return
	}

	left := b.addedNodes
	b.addedNodes += 2
	node.SetChildNodes(left, left+1)

	b.buildNode(left, triIndex, split, leftBox, depth+1)
	b.buildNode(left+1, triIndex+split, numTris-split, rightBox, depth+1)
}

// Partition indices[triIndex : triIndex+numTris] in place so that triangles
// whose centroid lies below plane along axis come first. Returns the number
// of triangles on the lower side; leftBox and rightBox are extended to
// enclose the triangles of each side.
func (b *builder) partition(triIndex, numTris int32, plane float32, axis types.Axis, leftBox, rightBox *geom.AABB) int32 {
	indices := b.indices[triIndex : triIndex+numTris]
	left := 0
	right := len(indices) - 1

	for left <= right {
		tri := &b.tris[indices[left]]
		if tri.Centroid()[axis] < plane {
			leftBox.Extend(tri.BBox())
			left++
		} else {
			rightBox.Extend(tri.BBox())
			indices[left], indices[right] = indices[right], indices[left]
			right--
		}
	}

	return int32(left)
}

func (b *builder) createLeaf(node *Node, triIndex, numTris int32) {
	node.SetPrimitives(triIndex, numTris)

	b.stats.Leafs++
	if int(numTris) > b.stats.MaxLeafSize {
		b.stats.MaxLeafSize = int(numTris)
	}
}
