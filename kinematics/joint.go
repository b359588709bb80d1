package kinematics

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/robotanim/spatialmath"
	"go.viam.com/robotanim/urdf"
)

// Joint connects a parent link to a child link. Its transform is the fixed origin offset followed
// by the motion along or about the joint axis.
type Joint struct {
	name       string
	jointType  string
	parent     string
	child      string
	origin     spatialmath.Transform
	axis       r3.Vector
	min, max   float64
	stateIndex int // position in the model's joint list, -1 when locked or fixed
}

func newJoint(j *urdf.Joint) (*Joint, error) {
	switch j.Type {
	case urdf.FixedJoint, urdf.RevoluteJoint, urdf.ContinuousJoint, urdf.PrismaticJoint:
	default:
		return nil, NewUnsupportedJointTypeError(j.Name, j.Type)
	}
	origin, err := j.Origin.Transform()
	if err != nil {
		return nil, err
	}
	axis, err := j.Axis.Vector()
	if err != nil {
		return nil, err
	}
	joint := &Joint{
		name:       j.Name,
		jointType:  j.Type,
		parent:     j.Parent.Link,
		child:      j.Child.Link,
		origin:     origin,
		axis:       axis,
		min:        math.Inf(-1),
		max:        math.Inf(1),
		stateIndex: -1,
	}
	if j.Limit != nil && j.Type != urdf.ContinuousJoint && j.Limit.Lower < j.Limit.Upper {
		joint.min, joint.max = j.Limit.Lower, j.Limit.Upper
	}
	return joint, nil
}

// Name returns the joint name.
func (j *Joint) Name() string { return j.name }

// Type returns the URDF joint type.
func (j *Joint) Type() string { return j.jointType }

// Parent returns the parent link name.
func (j *Joint) Parent() string { return j.parent }

// Child returns the child link name.
func (j *Joint) Child() string { return j.child }

// Axis returns the unit joint axis in the joint frame.
func (j *Joint) Axis() r3.Vector { return j.axis }

// Limits returns the lower and upper joint limits. Unlimited joints report infinities.
func (j *Joint) Limits() (float64, float64) { return j.min, j.max }

// Movable reports whether the joint is one of the model's degrees of freedom.
func (j *Joint) Movable() bool { return j.stateIndex >= 0 }

// Transform returns the child link frame relative to the parent link frame at the given position.
func (j *Joint) Transform(position float64) spatialmath.Transform {
	switch j.jointType {
	case urdf.RevoluteJoint, urdf.ContinuousJoint:
		return spatialmath.Compose(j.origin, spatialmath.NewTransformFromOrientation(r3.Vector{}, spatialmath.NewR4AA(position, j.axis)))
	case urdf.PrismaticJoint:
		return spatialmath.Compose(j.origin, spatialmath.NewTransformFromPoint(j.axis.Mul(position)))
	default:
		return j.origin
	}
}
