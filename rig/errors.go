package rig

import (
	"fmt"
	"strings"
)

// ModelLoadError is returned by BuildModel when the robot description cannot be turned into a
// model: the file is unreadable or malformed, the joint list names unknown or fixed joints, or
// a mesh cannot be found or read.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("failed to load robot model from %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// UnsupportedMeshFormatError is returned when a link's mesh file has an extension the scene cannot import.
type UnsupportedMeshFormatError struct {
	Link      string
	Path      string
	Extension string
	Supported []string
}

func (e *UnsupportedMeshFormatError) Error() string {
	return fmt.Sprintf("link %q: unsupported mesh file format %q for %s (must be one of %s)",
		e.Link, e.Extension, e.Path, strings.Join(e.Supported, ", "))
}

// DimensionMismatchError is returned by Update when the joint vector length differs from the model's degrees of freedom.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("expected %d joint positions, got %d", e.Expected, e.Actual)
}

// UnsupportedVisualError is returned in strict mode for a link whose visuals are all primitive shapes.
type UnsupportedVisualError struct {
	Link  string
	Kinds []string
}

func (e *UnsupportedVisualError) Error() string {
	return fmt.Sprintf("link %q has only primitive visuals (%s), an external mesh is required",
		e.Link, strings.Join(e.Kinds, ", "))
}
