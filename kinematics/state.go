package kinematics

import (
	"github.com/golang/geo/r3"

	"go.viam.com/robotanim/spatialmath"
)

// State is the full pose state pushed into a Model. Only Base and JointPositions affect
// transforms; velocities and gravity are carried for callers that record them.
type State struct {
	Base            spatialmath.Transform
	JointPositions  []float64
	BaseVelocity    [6]float64
	JointVelocities []float64
	Gravity         r3.Vector
}

// NewZeroState returns the reference pose for a model with dof degrees of freedom: identity base,
// zero joint positions, zero velocities and zero gravity.
func NewZeroState(dof int) State {
	return State{
		Base:            spatialmath.NewZeroTransform(),
		JointPositions:  make([]float64, dof),
		JointVelocities: make([]float64, dof),
	}
}

func (s State) clone() State {
	c := s
	c.JointPositions = append([]float64(nil), s.JointPositions...)
	c.JointVelocities = append([]float64(nil), s.JointVelocities...)
	return c
}
