package scene

import (
	"fmt"
	"sort"

	"github.com/achilleasa/bvhtrace/bvh"
	"github.com/achilleasa/bvhtrace/geom"
)

// A named group of triangles.
type Mesh struct {
	Name      string
	Triangles []geom.Triangle
}

// A Scene collects meshes into a single triangle soup and owns the BVH built
// over it.
type Scene struct {
	Meshes []*Mesh

	// The flattened triangle soup; triangle ids reported by the BVH index
	// this slice.
	Triangles []geom.Triangle

	// The accelerator; nil until Compile is called.
	BVH *bvh.BVH

	// Start offset of each mesh in Triangles.
	meshOffsets []int
}

func NewScene() *Scene {
	return &Scene{
		Meshes: make([]*Mesh, 0),
	}
}

// Add a mesh to the scene. Meshes cannot be added after the scene is compiled.
func (s *Scene) AddMesh(mesh *Mesh) error {
	if s.BVH != nil {
		return ErrSceneCompiled
	}
	for _, m := range s.Meshes {
		if m == mesh {
			return fmt.Errorf("scene: mesh %q already added", mesh.Name)
		}
	}
	s.Meshes = append(s.Meshes, mesh)
	return nil
}

// Flatten the scene meshes and build the BVH.
func (s *Scene) Compile(opts bvh.Options) *bvh.BVH {
	numTris := 0
	for _, m := range s.Meshes {
		numTris += len(m.Triangles)
	}

	s.Triangles = make([]geom.Triangle, 0, numTris)
	s.meshOffsets = make([]int, len(s.Meshes))
	for idx, m := range s.Meshes {
		s.meshOffsets[idx] = len(s.Triangles)
		s.Triangles = append(s.Triangles, m.Triangles...)
	}

	s.BVH = bvh.New(s.Triangles, opts)
	return s.BVH
}

// Find the closest hit along ray. The scene must be compiled.
func (s *Scene) Intersect(ray geom.Ray) geom.HitRecord {
	return s.BVH.Intersect(ray)
}

// Map a triangle id reported by the BVH back to its mesh and the triangle
// index within that mesh. Returns nil if id is out of range.
func (s *Scene) MeshForTriangle(id int32) (*Mesh, int) {
	if id < 0 || int(id) >= len(s.Triangles) {
		return nil, -1
	}

	// Find the last mesh whose offset is <= id; empty meshes share the
	// offset of their successor so search from the right.
	idx := sort.Search(len(s.meshOffsets), func(i int) bool {
		return s.meshOffsets[i] > int(id)
	}) - 1
	return s.Meshes[idx], int(id) - s.meshOffsets[idx]
}
