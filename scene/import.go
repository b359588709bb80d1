package scene

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ErrUnsupportedFormat is wrapped by the error returned when no import operator handles a file extension.
var ErrUnsupportedFormat = errors.New("unsupported mesh file format")

// NewUnsupportedFormatError returns the error for a file extension with no import operator.
func NewUnsupportedFormatError(ext string, supported []string) error {
	return errors.Wrapf(ErrUnsupportedFormat, "%q (must be one of %s)", ext, strings.Join(supported, ", "))
}

// ImportFunc reads a mesh file into memory.
type ImportFunc func(path string) (*Mesh, error)

// defaultImporters are the import operators every new scene starts with, keyed by lower-case extension.
func defaultImporters() map[string]ImportFunc {
	return map[string]ImportFunc{
		".obj": ReadOBJ,
		".stl": ReadSTL,
		".ply": ReadPLY,
	}
}

// RegisterImporter adds or replaces the import operator for an extension such as ".dae".
func (s *Scene) RegisterImporter(ext string, fn ImportFunc) {
	s.importers[strings.ToLower(ext)] = fn
}

// SupportedExtensions returns the extensions with an import operator, sorted.
func (s *Scene) SupportedExtensions() []string {
	exts := lo.Keys(s.importers)
	sort.Strings(exts)
	return exts
}

// CanImport reports whether the file extension of path has an import operator. Matching ignores case.
func (s *Scene) CanImport(path string) bool {
	_, ok := s.importers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Import reads the mesh file at path and adds it to the scene as a new object named after the file.
// The new object is returned.
func (s *Scene) Import(path string) (*Object, error) {
	ext := strings.ToLower(filepath.Ext(path))
	fn, ok := s.importers[ext]
	if !ok {
		return nil, NewUnsupportedFormatError(ext, s.SupportedExtensions())
	}
	mesh, err := fn(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to import %s", path)
	}
	if err := mesh.Validate(); err != nil {
		return nil, errors.Wrapf(err, "failed to import %s", path)
	}
	if mesh.Source == "" {
		mesh.Source = path
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if mesh.Name == "" {
		mesh.Name = name
	}
	obj := s.NewObject(name, mesh)
	s.logger.Debugw("imported mesh", "path", path, "object", obj.Name(),
		"vertices", len(mesh.Vertices), "triangles", len(mesh.Triangles))
	return obj, nil
}
