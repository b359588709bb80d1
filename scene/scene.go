// Package scene is a small 3D scene: named objects carrying meshes, transform properties and
// keyframe tracks, a frame counter, and glTF export of the result.
//
// A Scene is a single-writer resource and is not safe for concurrent mutation.
package scene

import (
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/robotanim/logging"
)

// Default frame settings, matching a fresh document in common 3D authoring tools.
const (
	DefaultFrameStart = 1
	DefaultFrameEnd   = 250
	DefaultFPS        = 24
)

// Scene owns every object added to it. Object names are unique.
type Scene struct {
	name      string
	logger    logging.Logger
	objects   []*Object
	byName    map[string]*Object
	importers map[string]ImportFunc

	frame      int
	frameStart int
	frameEnd   int
	fps        int
	fpsBase    float64
}

// New returns an empty scene.
func New(name string, logger logging.Logger) *Scene {
	if logger == nil {
		logger = logging.NewBlankLogger("scene")
	}
	return &Scene{
		name:       name,
		logger:     logger,
		byName:     map[string]*Object{},
		importers:  defaultImporters(),
		frame:      DefaultFrameStart,
		frameStart: DefaultFrameStart,
		frameEnd:   DefaultFrameEnd,
		fps:        DefaultFPS,
		fpsBase:    1,
	}
}

// Name returns the scene name.
func (s *Scene) Name() string {
	return s.name
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	return len(s.objects)
}

// Objects returns the objects in creation order.
func (s *Scene) Objects() []*Object {
	return append([]*Object(nil), s.objects...)
}

// Object returns the object with the given name.
func (s *Scene) Object(name string) (*Object, bool) {
	obj, ok := s.byName[name]
	return obj, ok
}

// NewObject adds an object holding mesh (which may be nil) under the first free variant of name.
func (s *Scene) NewObject(name string, mesh *Mesh) *Object {
	obj := newObject(s.uniqueName(name), mesh)
	s.objects = append(s.objects, obj)
	s.byName[obj.name] = obj
	return obj
}

// Rename gives obj a new name and returns the name actually assigned. When another object already
// uses name, a numeric suffix is appended.
func (s *Scene) Rename(obj *Object, name string) (string, error) {
	if s.byName[obj.name] != obj {
		return "", errors.Errorf("object %q does not belong to scene %q", obj.name, s.name)
	}
	if name == obj.name {
		return name, nil
	}
	delete(s.byName, obj.name)
	obj.name = s.uniqueName(name)
	s.byName[obj.name] = obj
	return obj.name, nil
}

// Remove deletes the named object and reports whether it existed.
func (s *Scene) Remove(name string) bool {
	obj, ok := s.byName[name]
	if !ok {
		return false
	}
	delete(s.byName, name)
	for i, o := range s.objects {
		if o == obj {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			break
		}
	}
	return true
}

func (s *Scene) uniqueName(name string) string {
	if _, taken := s.byName[name]; !taken {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%03d", name, i)
		if _, taken := s.byName[candidate]; !taken {
			return candidate
		}
	}
}

// Frame returns the current frame.
func (s *Scene) Frame() int {
	return s.frame
}

// SetFrame moves the current frame. Frames outside the frame range are allowed.
func (s *Scene) SetFrame(frame int) {
	s.frame = frame
}

// FrameRange returns the first and last frame of the animation.
func (s *Scene) FrameRange() (int, int) {
	return s.frameStart, s.frameEnd
}

// SetFrameRange sets the first and last frame of the animation.
func (s *Scene) SetFrameRange(start, end int) error {
	if end < start {
		return errors.Errorf("frame range end %d is before start %d", end, start)
	}
	s.frameStart, s.frameEnd = start, end
	return nil
}

// FrameRate returns the playback rate as fps frames every fpsBase seconds.
func (s *Scene) FrameRate() (int, float64) {
	return s.fps, s.fpsBase
}

// SetFrameRate sets the playback rate to fps frames every fpsBase seconds.
func (s *Scene) SetFrameRate(fps int, fpsBase float64) error {
	if fps <= 0 || fpsBase <= 0 {
		return errors.Errorf("invalid frame rate %d/%f", fps, fpsBase)
	}
	s.fps, s.fpsBase = fps, fpsBase
	return nil
}

// FrameTime returns the time in seconds of a frame: frame * fpsBase / fps.
func (s *Scene) FrameTime(frame int) float64 {
	return float64(frame) * s.fpsBase / float64(s.fps)
}
