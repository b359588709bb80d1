package scene

import (
	"github.com/golang/geo/r3"
	"github.com/hschendel/stl"
)

// ReadSTL reads an ASCII or binary STL file. Identical corner positions are merged into one vertex.
func ReadSTL(path string) (*Mesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mesh := &Mesh{Name: solid.Name, Source: path}
	vertMap := make(map[stl.Vec3]uint32)
	for _, t := range solid.Triangles {
		var tri [3]uint32
		for i, v := range t.Vertices {
			idx, ok := vertMap[v]
			if !ok {
				idx = uint32(len(mesh.Vertices))
				mesh.Vertices = append(mesh.Vertices, r3.Vector{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])})
				vertMap[v] = idx
			}
			tri[i] = idx
		}
		mesh.Triangles = append(mesh.Triangles, tri)
	}
	return mesh, nil
}
