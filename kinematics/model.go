// Package kinematics computes forward kinematics over the link tree of a URDF robot.
package kinematics

import (
	"fmt"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"go.viam.com/robotanim/spatialmath"
	"go.viam.com/robotanim/urdf"
	"go.viam.com/robotanim/utils"
)

// Model is a tree of links connected by joints. Links are nodes of a directed graph and every
// joint is an edge from its parent link to its child link. A subset of the movable joints,
// in a caller chosen order, make up the degrees of freedom; every other joint is held at zero.
type Model struct {
	name      string
	tree      *simple.DirectedGraph
	root      string
	linkIDs   map[string]int64
	linkNames []string
	// parentJoints is keyed by child link node ID.
	parentJoints map[int64]*Joint
	joints       []*Joint
	dof          []*Joint

	state State
	world map[string]spatialmath.Transform
}

// NewModel builds a model from a parsed robot description. jointNames selects and orders the
// degrees of freedom; nil means every movable joint in document order.
func NewModel(robot *urdf.Robot, jointNames []string) (*Model, error) {
	m := &Model{
		name:         robot.Name,
		tree:         simple.NewDirectedGraph(),
		linkIDs:      make(map[string]int64, len(robot.Links)),
		parentJoints: make(map[int64]*Joint, len(robot.Joints)),
	}
	for i, l := range robot.Links {
		if _, ok := m.linkIDs[l.Name]; ok {
			return nil, errors.Errorf("duplicate link %q", l.Name)
		}
		id := int64(i)
		m.linkIDs[l.Name] = id
		m.linkNames = append(m.linkNames, l.Name)
		m.tree.AddNode(simple.Node(id))
	}

	byName := make(map[string]*Joint, len(robot.Joints))
	for i := range robot.Joints {
		joint, err := newJoint(&robot.Joints[i])
		if err != nil {
			return nil, err
		}
		if _, ok := byName[joint.name]; ok {
			return nil, errors.Errorf("duplicate joint %q", joint.name)
		}
		parentID, ok := m.linkIDs[joint.parent]
		if !ok {
			return nil, NewUnknownLinkError(joint.parent)
		}
		childID, ok := m.linkIDs[joint.child]
		if !ok {
			return nil, NewUnknownLinkError(joint.child)
		}
		if parentID == childID {
			return nil, errors.Errorf("joint %q connects link %q to itself", joint.name, joint.parent)
		}
		if other, ok := m.parentJoints[childID]; ok {
			return nil, errors.Errorf("link %q is the child of both %q and %q", joint.child, other.name, joint.name)
		}
		m.tree.SetEdge(m.tree.NewEdge(simple.Node(parentID), simple.Node(childID)))
		m.parentJoints[childID] = joint
		m.joints = append(m.joints, joint)
		byName[joint.name] = joint
	}

	if _, err := topo.Sort(m.tree); err != nil {
		return nil, errors.Wrap(err, "robot description contains a kinematic loop")
	}
	roots := lo.Filter(m.linkNames, func(name string, _ int) bool {
		return m.tree.To(m.linkIDs[name]).Len() == 0
	})
	if len(roots) != 1 {
		return nil, errors.Errorf("expected exactly one root link, found %d: %v", len(roots), roots)
	}
	m.root = roots[0]

	if jointNames == nil {
		jointNames = robot.MovableJoints()
	}
	for i, name := range jointNames {
		joint, ok := byName[name]
		if !ok {
			return nil, NewUnknownJointError(name)
		}
		if joint.jointType == urdf.FixedJoint {
			return nil, NewFixedJointError(name)
		}
		if joint.stateIndex >= 0 {
			return nil, NewDuplicateJointError(name)
		}
		joint.stateIndex = i
		m.dof = append(m.dof, joint)
	}

	m.state = NewZeroState(len(m.dof))
	return m, nil
}

// Name returns the robot name.
func (m *Model) Name() string {
	return m.name
}

// DoF returns the number of degrees of freedom.
func (m *Model) DoF() int {
	return len(m.dof)
}

// JointNames returns the names of the degree of freedom joints, in state order.
func (m *Model) JointNames() []string {
	return lo.Map(m.dof, func(j *Joint, _ int) string { return j.name })
}

// Joints returns every joint of the robot in document order, locked and fixed ones included.
func (m *Model) Joints() []*Joint {
	return m.joints
}

// LinkNames returns every link name in document order.
func (m *Model) LinkNames() []string {
	return m.linkNames
}

// HasLink reports whether the model contains the named link.
func (m *Model) HasLink(name string) bool {
	_, ok := m.linkIDs[name]
	return ok
}

// Root returns the name of the link with no parent joint.
func (m *Model) Root() string {
	return m.root
}

// State returns a copy of the current state.
func (m *Model) State() State {
	return m.state.clone()
}

// SetState replaces the current state. Joint positions must match DoF; joint velocities may be
// empty or match DoF.
func (m *Model) SetState(s State) error {
	if len(s.JointPositions) != m.DoF() {
		return NewIncorrectDoFError(len(s.JointPositions), m.DoF())
	}
	if len(s.JointVelocities) != 0 && len(s.JointVelocities) != m.DoF() {
		return errors.Errorf("number of joint velocities %d does not match the model's degrees of freedom %d",
			len(s.JointVelocities), m.DoF())
	}
	m.state = s.clone()
	m.world = nil
	return nil
}

// WorldTransform returns the transform of the named link frame relative to the world at the current state.
func (m *Model) WorldTransform(link string) (spatialmath.Transform, error) {
	id, ok := m.linkIDs[link]
	if !ok {
		return spatialmath.Transform{}, NewUnknownLinkError(link)
	}
	if tf, ok := m.world[link]; ok {
		return tf, nil
	}
	if m.world == nil {
		m.world = map[string]spatialmath.Transform{}
	}
	joint, ok := m.parentJoints[id]
	if !ok {
		m.world[link] = m.state.Base
		return m.state.Base, nil
	}
	parent, err := m.WorldTransform(joint.parent)
	if err != nil {
		return spatialmath.Transform{}, err
	}
	tf := spatialmath.Compose(parent, joint.Transform(m.position(joint)))
	m.world[link] = tf
	return tf, nil
}

func (m *Model) position(j *Joint) float64 {
	if j.stateIndex < 0 {
		return 0
	}
	return m.state.JointPositions[j.stateIndex]
}

// String prints out a table of each joint with columns of index, name, type, parent, child, axis,
// limits and position. Unbounded limits are left blank.
func (m *Model) String() string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s (root %s, %d DoF)", m.name, m.root, m.DoF()))
	t.AppendHeader(table.Row{"#", "Joint", "Type", "Parent", "Child", "Axis", "Limits", "Position"})
	for _, j := range m.joints {
		index, position, axis, limits := "-", "", "", ""
		if j.stateIndex >= 0 {
			index = fmt.Sprintf("%d", j.stateIndex)
		}
		bounded := !math.IsInf(j.min, 0) && !math.IsInf(j.max, 0)
		switch j.jointType {
		case urdf.RevoluteJoint, urdf.ContinuousJoint:
			position = fmt.Sprintf("%.2f deg", utils.RadToDeg(m.position(j)))
			axis = fmt.Sprintf("X:%.2f, Y:%.2f, Z:%.2f", j.axis.X, j.axis.Y, j.axis.Z)
			if bounded {
				limits = fmt.Sprintf("[%.2f, %.2f] deg", utils.RadToDeg(j.min), utils.RadToDeg(j.max))
			}
		case urdf.PrismaticJoint:
			position = fmt.Sprintf("%.4f m", m.position(j))
			axis = fmt.Sprintf("X:%.2f, Y:%.2f, Z:%.2f", j.axis.X, j.axis.Y, j.axis.Z)
			if bounded {
				limits = fmt.Sprintf("[%.4f, %.4f] m", j.min, j.max)
			}
		}
		t.AppendRow(table.Row{index, j.name, j.jointType, j.parent, j.child, axis, limits, position})
	}
	return t.Render()
}
