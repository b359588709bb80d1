package scene

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Mesh is an indexed triangle mesh in the units of the file it was read from.
type Mesh struct {
	Name      string
	Source    string
	Vertices  []r3.Vector
	Triangles [][3]uint32
}

// Validate checks that every triangle references an existing vertex.
func (m *Mesh) Validate() error {
	n := uint32(len(m.Vertices))
	for i, tri := range m.Triangles {
		for _, idx := range tri {
			if idx >= n {
				return errors.Errorf("triangle %d references vertex %d but the mesh has %d vertices", i, idx, n)
			}
		}
	}
	return nil
}

// Bounds returns the axis aligned bounding box of the vertices.
func (m *Mesh) Bounds() (r3.Vector, r3.Vector) {
	if len(m.Vertices) == 0 {
		return r3.Vector{}, r3.Vector{}
	}
	lo := r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, v := range m.Vertices {
		lo = r3.Vector{X: math.Min(lo.X, v.X), Y: math.Min(lo.Y, v.Y), Z: math.Min(lo.Z, v.Z)}
		hi = r3.Vector{X: math.Max(hi.X, v.X), Y: math.Max(hi.Y, v.Y), Z: math.Max(hi.Z, v.Z)}
	}
	return lo, hi
}

// fan triangulates a convex polygon given by vertex indices.
func fan(poly []uint32) [][3]uint32 {
	tris := make([][3]uint32, 0, len(poly)-2)
	for i := 1; i+1 < len(poly); i++ {
		tris = append(tris, [3]uint32{poly[0], poly[i], poly[i+1]})
	}
	return tris
}
