package bvh

import (
	"github.com/achilleasa/bvhtrace/geom"
)

// The traversal stack holds at most one pending sibling per internal node on
// the current root-to-node path.
const traversalStackSize = MaxDepthLimit + 1

type stackEntry struct {
	nodeIndex int32

	// Entry distance of the ray into the node box.
	tmin float32
}

// Counters collect traversal statistics for a single query.
type Counters struct {
	// Number of visited nodes.
	Nodes int

	// Number of ray-triangle tests.
	Triangles int
}

// Add the values of other to c.
func (c *Counters) Add(other Counters) {
	c.Nodes += other.Nodes
	c.Triangles += other.Triangles
}

// Find the closest triangle intersected by ray within [ray.TMin, ray.TMax].
// The returned record's ID indexes the triangle slice passed to New; it is
// geom.NoHit if nothing was hit.
func (b *BVH) Intersect(ray geom.Ray) geom.HitRecord {
	return b.intersect(&ray, nil)
}

// Same as Intersect but also accumulates traversal statistics into counters.
func (b *BVH) IntersectCounted(ray geom.Ray, counters *Counters) geom.HitRecord {
	return b.intersect(&ray, counters)
}

func (b *BVH) intersect(ray *geom.Ray, counters *Counters) geom.HitRecord {
	rec := geom.NewHitRecord()
	q := geom.NewRayQuery(*ray)

	tmin, tmax := ray.TMin, ray.TMax
	if !b.nodes[0].Box.Intersect(&q, &tmin, &tmax) {
		return rec
	}

	var stack [traversalStackSize]stackEntry
	stackPos := 0
	nodeIndex := int32(0)

	for {
		node := &b.nodes[nodeIndex]
		if counters != nil {
			counters.Nodes++
		}

		if node.IsLeaf() {
			last := node.TriIndex + node.NumTris
			for i := node.TriIndex; i < last; i++ {
				id := b.indices[i]
				b.tris[id].Intersect(&q.Ray, &rec, id)
			}
			if counters != nil {
				counters.Triangles += int(node.NumTris)
			}
		} else {
			// Children are tested against the ray interval clipped to
			// the best hit so far, not against the parent interval.
			limit := ray.TMax
			if rec.Dist < limit {
				limit = rec.Dist
			}
			tmin0, tmax0 := ray.TMin, limit
			tmin1, tmax1 := ray.TMin, limit
			hit0 := b.nodes[node.Left].Box.Intersect(&q, &tmin0, &tmax0)
			hit1 := b.nodes[node.Right].Box.Intersect(&q, &tmin1, &tmax1)

			if hit0 && hit1 {
				// Visit the near child first.
				near, far, farTmin := node.Left, node.Right, tmin1
				if tmin1 < tmin0 {
					near, far, farTmin = node.Right, node.Left, tmin0
				}
				stack[stackPos] = stackEntry{nodeIndex: far, tmin: farTmin}
				stackPos++
				nodeIndex = near
				continue
			} else if hit0 {
				nodeIndex = node.Left
				continue
			} else if hit1 {
				nodeIndex = node.Right
				continue
			}
		}

		// Pop the next pending node, skipping any whose entry distance is
		// already beyond the closest hit.
		for {
			if stackPos == 0 {
				return rec
			}
			stackPos--
			if stack[stackPos].tmin <= rec.Dist {
				nodeIndex = stack[stackPos].nodeIndex
				break
			}
		}
	}
}

// Returns true if ray hits any triangle within [ray.TMin, ray.TMax]. The
// search stops at the first hit which makes it cheaper than Intersect for
// shadow rays.
func (b *BVH) Occluded(ray geom.Ray) bool {
	q := geom.NewRayQuery(ray)

	tmin, tmax := ray.TMin, ray.TMax
	if !b.nodes[0].Box.Intersect(&q, &tmin, &tmax) {
		return false
	}

	var stack [traversalStackSize]int32
	stackPos := 0
	nodeIndex := int32(0)

	for {
		node := &b.nodes[nodeIndex]
		if node.IsLeaf() {
			last := node.TriIndex + node.NumTris
			for i := node.TriIndex; i < last; i++ {
				if b.tris[b.indices[i]].Occludes(&q.Ray) {
					return true
				}
			}
		} else {
			tmin0, tmax0 := ray.TMin, ray.TMax
			tmin1, tmax1 := ray.TMin, ray.TMax
			hit0 := b.nodes[node.Left].Box.Intersect(&q, &tmin0, &tmax0)
			hit1 := b.nodes[node.Right].Box.Intersect(&q, &tmin1, &tmax1)

			if hit0 && hit1 {
				stack[stackPos] = node.Right
				stackPos++
				nodeIndex = node.Left
				continue
			} else if hit0 {
				nodeIndex = node.Left
				continue
			} else if hit1 {
				nodeIndex = node.Right
				continue
			}
		}

		if stackPos == 0 {
			return false
		}
		stackPos--
		nodeIndex = stack[stackPos]
	}
}
