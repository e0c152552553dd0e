package scene

import (
	"fmt"
	"math/rand"

	"github.com/achilleasa/bvhtrace/geom"
	"github.com/achilleasa/bvhtrace/types"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Generate n random triangles with centers uniformly distributed inside
// bounds. Each vertex is offset from the triangle center by at most maxEdge/2
// along each axis.
func RandomSoup(name string, rng *rand.Rand, n int, bounds geom.AABB, maxEdge float32) (*Mesh, error) {
	if n < 0 || maxEdge < 0 || bounds.IsEmpty() {
		return nil, fmt.Errorf("%w: random soup with %d triangles, max edge %f and bounds %v", ErrInvalidGenerator, n, maxEdge, bounds)
	}

	jitter := func() float32 {
		return (rng.Float32() - 0.5) * maxEdge
	}

	tris := make([]geom.Triangle, n)
	for i := range tris {
		center := randomPointIn(rng, bounds)
		for v := 0; v < 3; v++ {
			tris[i][v] = center.Add(types.XYZ(jitter(), jitter(), jitter()))
		}
	}

	return &Mesh{Name: name, Triangles: tris}, nil
}

// Generate a UV sphere tessellated into rings x segments quads. The two polar
// rows are emitted as single triangles.
func Sphere(name string, center types.Vec3, radius float32, rings, segments int) (*Mesh, error) {
	if rings < 2 || segments < 3 || radius <= 0 {
		return nil, fmt.Errorf("%w: sphere with %d rings, %d segments and radius %f", ErrInvalidGenerator, rings, segments, radius)
	}

	point := func(ring, segment int) types.Vec3 {
		theta := math32.Pi * float32(ring) / float32(rings)
		phi := 2 * math32.Pi * float32(segment%segments) / float32(segments)
		return center.Add(types.XYZ(
			radius*math32.Sin(theta)*math32.Cos(phi),
			radius*math32.Cos(theta),
			radius*math32.Sin(theta)*math32.Sin(phi),
		))
	}

	tris := make([]geom.Triangle, 0, 2*rings*segments)
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			p00 := point(ring, seg)
			p01 := point(ring, seg+1)
			p10 := point(ring+1, seg)
			p11 := point(ring+1, seg+1)

			if ring != 0 {
				tris = append(tris, geom.NewTriangle(p00, p01, p11))
			}
			if ring != rings-1 {
				tris = append(tris, geom.NewTriangle(p00, p11, p10))
			}
		}
	}

	return &Mesh{Name: name, Triangles: tris}, nil
}

// Generate a grid of nx by nz square cells lying on the y=0 plane with its
// min corner at the origin. Each cell is split into two triangles.
func Grid(name string, nx, nz int, cellSize float32) (*Mesh, error) {
	if nx < 1 || nz < 1 || cellSize <= 0 {
		return nil, fmt.Errorf("%w: grid with %dx%d cells of size %f", ErrInvalidGenerator, nx, nz, cellSize)
	}

	tris := make([]geom.Triangle, 0, 2*nx*nz)
	for x := 0; x < nx; x++ {
		for z := 0; z < nz; z++ {
			x0, z0 := float32(x)*cellSize, float32(z)*cellSize
			x1, z1 := x0+cellSize, z0+cellSize
			tris = append(tris,
				geom.NewTriangle(types.XYZ(x0, 0, z0), types.XYZ(x1, 0, z0), types.XYZ(x0, 0, z1)),
				geom.NewTriangle(types.XYZ(x1, 0, z0), types.XYZ(x1, 0, z1), types.XYZ(x0, 0, z1)),
			)
		}
	}

	return &Mesh{Name: name, Triangles: tris}, nil
}

// Apply an affine transformation to all mesh vertices in place.
func (m *Mesh) Transform(xform mgl32.Mat4) {
	for i := range m.Triangles {
		for v := range m.Triangles[i] {
			p := m.Triangles[i][v]
			wp := xform.Mul4x1(mgl32.Vec3{p[0], p[1], p[2]}.Vec4(1.0)).Vec3()
			m.Triangles[i][v] = types.XYZ(wp[0], wp[1], wp[2])
		}
	}
}

// Build a transformation that scales, then rotates around the Y axis (angle
// in radians) and finally translates.
func NewTransform(translation types.Vec3, yaw float32, scale types.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(translation[0], translation[1], translation[2]).
		Mul4(mgl32.HomogRotate3DY(yaw)).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// Get the mesh bounding box.
func (m *Mesh) BBox() geom.AABB {
	box := geom.EmptyAABB()
	for i := range m.Triangles {
		box.Extend(m.Triangles[i].BBox())
	}
	return box
}
