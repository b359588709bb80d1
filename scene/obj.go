package scene

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ReadOBJ reads the geometry of a Wavefront OBJ file. Only vertex positions and faces are used;
// polygons are fan triangulated and negative (relative) indices are supported.
func ReadOBJ(path string) (*Mesh, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	//nolint:errcheck
	defer f.Close()
	mesh, err := DecodeOBJ(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	mesh.Source = path
	return mesh, nil
}

// maxOBJLine bounds a single OBJ line. Exporters write long face and group lines.
const maxOBJLine = 16 * 1024 * 1024

// DecodeOBJ reads OBJ geometry from r.
func DecodeOBJ(r io.Reader) (*Mesh, error) {
	mesh := &Mesh{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxOBJLine)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "o":
			if mesh.Name == "" && len(fields) > 1 {
				mesh.Name = strings.Join(fields[1:], " ")
			}
		case "v":
			if len(fields) < 4 {
				return nil, errors.Errorf("line %d: vertex needs 3 coordinates", lineNum)
			}
			var xyz [3]float64
			for i := range xyz {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineNum)
				}
				xyz[i] = v
			}
			mesh.Vertices = append(mesh.Vertices, r3.Vector{X: xyz[0], Y: xyz[1], Z: xyz[2]})
		case "f":
			if len(fields) < 4 {
				return nil, errors.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}
			poly := make([]uint32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, err := objIndex(ref, len(mesh.Vertices))
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineNum)
				}
				poly = append(poly, idx)
			}
			mesh.Triangles = append(mesh.Triangles, fan(poly)...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mesh, nil
}

// objIndex resolves the position part of a face vertex reference such as "3", "3/1" or "-1//2".
func objIndex(ref string, numVertices int) (uint32, error) {
	pos, _, _ := strings.Cut(ref, "/")
	i, err := strconv.Atoi(pos)
	if err != nil {
		return 0, errors.Wrapf(err, "bad face vertex %q", ref)
	}
	if i < 0 {
		i = numVertices + i + 1
	}
	if i < 1 || i > numVertices {
		return 0, errors.Errorf("face vertex %q out of range, %d vertices defined", ref, numVertices)
	}
	return uint32(i - 1), nil
}
