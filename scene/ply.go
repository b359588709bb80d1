package scene

import (
	"os"

	"github.com/chenzhekl/goply"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ReadPLY reads an ASCII PLY file with x, y, z vertex properties and an optional face list.
func ReadPLY(path string) (mesh *Mesh, err error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	//nolint:errcheck
	defer f.Close()

	// the ply reader reports malformed input by panicking
	defer func() {
		if r := recover(); r != nil {
			mesh, err = nil, errors.Errorf("malformed PLY file %s: %v", path, r)
		}
	}()
	ply := goply.New(f)

	mesh = &Mesh{Source: path}
	for i, v := range ply.Elements("vertex") {
		var xyz [3]float64
		for j, prop := range []string{"x", "y", "z"} {
			value, ok := plyNumber(v[prop])
			if !ok {
				return nil, errors.Errorf("vertex %d has no numeric %q property", i, prop)
			}
			xyz[j] = value
		}
		mesh.Vertices = append(mesh.Vertices, r3.Vector{X: xyz[0], Y: xyz[1], Z: xyz[2]})
	}
	if len(mesh.Vertices) == 0 {
		return nil, errors.Errorf("PLY file %s has no vertices", path)
	}
	for i, face := range ply.Elements("face") {
		list, ok := plyList(face["vertex_indices"])
		if !ok {
			list, ok = plyList(face["vertex_index"])
		}
		if !ok || len(list) < 3 {
			return nil, errors.Errorf("face %d has no vertex index list", i)
		}
		poly := make([]uint32, 0, len(list))
		for _, raw := range list {
			idx, ok := plyNumber(raw)
			if !ok || idx < 0 {
				return nil, errors.Errorf("face %d has an invalid vertex index %v", i, raw)
			}
			poly = append(poly, uint32(idx))
		}
		mesh.Triangles = append(mesh.Triangles, fan(poly)...)
	}
	return mesh, nil
}

func plyList(v interface{}) ([]interface{}, bool) {
	switch l := v.(type) {
	case []interface{}:
		return l, true
	case []int32:
		return lo.Map(l, func(n int32, _ int) interface{} { return n }), true
	case []uint32:
		return lo.Map(l, func(n uint32, _ int) interface{} { return n }), true
	default:
		return nil, false
	}
}

func plyNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case int8:
		return float64(n), true
	case uint8:
		return float64(n), true
	case int16:
		return float64(n), true
	case uint16:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}
