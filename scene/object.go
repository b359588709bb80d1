package scene

import (
	"sort"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/robotanim/spatialmath"
)

// RotationMode selects which rotation property of an object is in effect.
type RotationMode string

// Rotation modes.
const (
	RotationModeEuler      RotationMode = "XYZ"
	RotationModeQuaternion RotationMode = "QUATERNION"
)

// Animatable data paths.
const (
	LocationPath           = "location"
	RotationQuaternionPath = "rotation_quaternion"
	RotationEulerPath      = "rotation_euler"
	ScalePath              = "scale"
)

// Keyframe is the value of one data path at one frame. Quaternions are stored w, x, y, z.
type Keyframe struct {
	Frame int
	Value []float64
}

// Object is a named scene member with transform properties. Mesh is shared, not copied.
type Object struct {
	ID                 uuid.UUID
	Mesh               *Mesh
	Location           r3.Vector
	RotationMode       RotationMode
	RotationQuaternion quat.Number
	RotationEuler      spatialmath.EulerAngles
	Scale              r3.Vector

	name   string
	tracks map[string][]Keyframe
}

func newObject(name string, mesh *Mesh) *Object {
	return &Object{
		ID:                 uuid.New(),
		Mesh:               mesh,
		RotationMode:       RotationModeEuler,
		RotationQuaternion: quat.Number{Real: 1},
		Scale:              r3.Vector{X: 1, Y: 1, Z: 1},
		name:               name,
		tracks:             map[string][]Keyframe{},
	}
}

// Name returns the object name. Use Scene.Rename to change it.
func (o *Object) Name() string {
	return o.name
}

// Rotation returns the rotation in effect for the current rotation mode.
func (o *Object) Rotation() quat.Number {
	if o.RotationMode == RotationModeQuaternion {
		return spatialmath.Normalize(o.RotationQuaternion)
	}
	return o.RotationEuler.Quaternion()
}

// SetTransform sets location and rotation from a rigid transform and switches the object to quaternion rotation.
// The quaternion sign is chosen to stay in the hemisphere of the previous rotation so interpolated
// keyframes take the short path.
func (o *Object) SetTransform(tf spatialmath.Transform) {
	o.RotationMode = RotationModeQuaternion
	o.Location = tf.Point()
	q, prev := tf.Quaternion(), o.RotationQuaternion
	if q.Real*prev.Real+q.Imag*prev.Imag+q.Jmag*prev.Jmag+q.Kmag*prev.Kmag < 0 {
		q = spatialmath.Flip(q)
	}
	o.RotationQuaternion = q
}

func (o *Object) value(dataPath string) ([]float64, error) {
	switch dataPath {
	case LocationPath:
		return []float64{o.Location.X, o.Location.Y, o.Location.Z}, nil
	case RotationQuaternionPath:
		q := o.RotationQuaternion
		return []float64{q.Real, q.Imag, q.Jmag, q.Kmag}, nil
	case RotationEulerPath:
		return []float64{o.RotationEuler.Roll, o.RotationEuler.Pitch, o.RotationEuler.Yaw}, nil
	case ScalePath:
		return []float64{o.Scale.X, o.Scale.Y, o.Scale.Z}, nil
	default:
		return nil, errors.Errorf("object %q has no animatable property %q", o.name, dataPath)
	}
}

// KeyframeInsert records the current value of dataPath at frame. An existing keyframe at the
// same frame is replaced.
func (o *Object) KeyframeInsert(dataPath string, frame int) error {
	value, err := o.value(dataPath)
	if err != nil {
		return err
	}
	track := o.tracks[dataPath]
	i := sort.Search(len(track), func(i int) bool { return track[i].Frame >= frame })
	if i < len(track) && track[i].Frame == frame {
		track[i].Value = value
		return nil
	}
	track = append(track, Keyframe{})
	copy(track[i+1:], track[i:])
	track[i] = Keyframe{Frame: frame, Value: value}
	o.tracks[dataPath] = track
	return nil
}

// Keyframes returns the keyframes of dataPath ordered by frame.
func (o *Object) Keyframes(dataPath string) []Keyframe {
	return append([]Keyframe(nil), o.tracks[dataPath]...)
}

// AnimatedPaths returns the data paths that have at least one keyframe.
func (o *Object) AnimatedPaths() []string {
	var paths []string
	for _, p := range []string{LocationPath, RotationQuaternionPath, RotationEulerPath, ScalePath} {
		if len(o.tracks[p]) > 0 {
			paths = append(paths, p)
		}
	}
	return paths
}
