package kinematics

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/robotanim/spatialmath"
	"go.viam.com/robotanim/urdf"
	"go.viam.com/robotanim/utils"
)

func loadArm(t *testing.T) *urdf.Robot {
	t.Helper()
	robot, err := urdf.ParseFile(utils.ResolveFile("urdf/testdata/arm.urdf"))
	test.That(t, err, test.ShouldBeNil)
	return robot
}

func TestNewModel(t *testing.T) {
	robot := loadArm(t)

	m, err := NewModel(robot, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Name(), test.ShouldEqual, "arm")
	test.That(t, m.Root(), test.ShouldEqual, "base_link")
	test.That(t, m.DoF(), test.ShouldEqual, 2)
	test.That(t, m.JointNames(), test.ShouldResemble, []string{"shoulder", "elbow"})
	test.That(t, m.LinkNames(), test.ShouldResemble, []string{"base_link", "upper_arm", "forearm", "tool"})
	test.That(t, m.Joints(), test.ShouldHaveLength, 3)
	test.That(t, m.HasLink("tool"), test.ShouldBeTrue)
	test.That(t, m.HasLink("gripper"), test.ShouldBeFalse)

	lo, hi := m.Joints()[0].Limits()
	test.That(t, lo, test.ShouldEqual, -3.14)
	test.That(t, hi, test.ShouldEqual, 3.14)
	test.That(t, m.String(), test.ShouldContainSubstring, "[-179.91, 179.91] deg")
	test.That(t, m.String(), test.ShouldContainSubstring, "[0.0000, 0.2000] m")

	state := m.State()
	test.That(t, state.JointPositions, test.ShouldResemble, []float64{0, 0})
	test.That(t, spatialmath.TransformAlmostEqual(state.Base, spatialmath.NewZeroTransform(), 1e-12), test.ShouldBeTrue)

	t.Run("reduced joint list", func(t *testing.T) {
		m, err := NewModel(robot, []string{"elbow", "shoulder"})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, m.JointNames(), test.ShouldResemble, []string{"elbow", "shoulder"})

		m, err = NewModel(robot, []string{"elbow"})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, m.DoF(), test.ShouldEqual, 1)
		test.That(t, m.String(), test.ShouldContainSubstring, "shoulder")

		m, err = NewModel(robot, []string{})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, m.DoF(), test.ShouldEqual, 0)
	})

	t.Run("bad joint lists", func(t *testing.T) {
		_, err := NewModel(robot, []string{"wrist"})
		test.That(t, err, test.ShouldBeError, NewUnknownJointError("wrist"))
		_, err = NewModel(robot, []string{"tool_mount"})
		test.That(t, err, test.ShouldBeError, NewFixedJointError("tool_mount"))
		_, err = NewModel(robot, []string{"elbow", "elbow"})
		test.That(t, err, test.ShouldBeError, NewDuplicateJointError("elbow"))
	})
}

func TestMalformedTrees(t *testing.T) {
	for _, tc := range []struct {
		name string
		xml  string
		msg  string
	}{
		{
			"floating joint",
			`<robot name="r"><link name="a"/><link name="b"/>` +
				`<joint name="j" type="floating"><parent link="a"/><child link="b"/></joint></robot>`,
			`unsupported type "floating"`,
		},
		{
			"two roots",
			`<robot name="r"><link name="a"/><link name="b"/></robot>`,
			"exactly one root",
		},
		{
			"two parents",
			`<robot name="r"><link name="a"/><link name="b"/><link name="c"/>` +
				`<joint name="j1" type="fixed"><parent link="a"/><child link="c"/></joint>` +
				`<joint name="j2" type="fixed"><parent link="b"/><child link="c"/></joint></robot>`,
			`child of both "j1" and "j2"`,
		},
		{
			"self loop",
			`<robot name="r"><link name="a"/><joint name="j" type="fixed"><parent link="a"/><child link="a"/></joint></robot>`,
			"to itself",
		},
		{
			"cycle",
			`<robot name="r"><link name="root"/><link name="a"/><link name="b"/>` +
				`<joint name="j1" type="fixed"><parent link="a"/><child link="b"/></joint>` +
				`<joint name="j2" type="fixed"><parent link="b"/><child link="a"/></joint></robot>`,
			"kinematic loop",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			robot, err := urdf.Parse([]byte(tc.xml))
			test.That(t, err, test.ShouldBeNil)
			_, err = NewModel(robot, nil)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.msg)
		})
	}
}

func TestWorldTransform(t *testing.T) {
	m, err := NewModel(loadArm(t), nil)
	test.That(t, err, test.ShouldBeNil)

	tool, err := m.WorldTransform("tool")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(tool.Point(), r3.Vector{Z: 0.6}, 1e-9), test.ShouldBeTrue)

	base := spatialmath.NewTransformFromPoint(r3.Vector{X: 1})
	err = m.SetState(State{Base: base, JointPositions: []float64{math.Pi / 2, 0.1}})
	test.That(t, err, test.ShouldBeNil)

	upper, err := m.WorldTransform("upper_arm")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(upper.Point(), r3.Vector{X: 1, Z: 0.1}, 1e-9), test.ShouldBeTrue)
	test.That(t, upper.Orientation().EulerAngles().Yaw, test.ShouldAlmostEqual, math.Pi/2)

	forearm, err := m.WorldTransform("forearm")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(forearm.Point(), r3.Vector{X: 1, Z: 0.5}, 1e-9), test.ShouldBeTrue)

	tool, err = m.WorldTransform("tool")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(tool.Point(), r3.Vector{X: 1, Z: 0.7}, 1e-9), test.ShouldBeTrue)
	// tool x axis is rotated by the shoulder, tool z axis is flipped by the mount
	test.That(t, spatialmath.R3VectorAlmostEqual(tool.TransformPoint(r3.Vector{X: 1}), r3.Vector{X: 1, Y: 1, Z: 0.7}, 1e-9), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(tool.TransformPoint(r3.Vector{Z: 1}), r3.Vector{X: 1, Z: -0.3}, 1e-9), test.ShouldBeTrue)

	root, err := m.WorldTransform("base_link")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.TransformAlmostEqual(root, base, 1e-12), test.ShouldBeTrue)

	_, err = m.WorldTransform("gripper")
	test.That(t, err, test.ShouldBeError, NewUnknownLinkError("gripper"))
}

func TestLockedJoints(t *testing.T) {
	m, err := NewModel(loadArm(t), []string{"elbow"})
	test.That(t, err, test.ShouldBeNil)
	err = m.SetState(State{Base: spatialmath.NewZeroTransform(), JointPositions: []float64{0.2}})
	test.That(t, err, test.ShouldBeNil)

	forearm, err := m.WorldTransform("forearm")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(forearm.Point(), r3.Vector{Z: 0.6}, 1e-9), test.ShouldBeTrue)
	test.That(t, spatialmath.QuaternionAlmostEqual(forearm.Quaternion(), spatialmath.NewZeroTransform().Quaternion(), 1e-9),
		test.ShouldBeTrue)
}

func TestSetState(t *testing.T) {
	m, err := NewModel(loadArm(t), nil)
	test.That(t, err, test.ShouldBeNil)

	err = m.SetState(State{Base: spatialmath.NewZeroTransform(), JointPositions: []float64{1}})
	test.That(t, err, test.ShouldBeError, NewIncorrectDoFError(1, 2))

	err = m.SetState(State{Base: spatialmath.NewZeroTransform(), JointPositions: []float64{1, 2}, JointVelocities: []float64{1}})
	test.That(t, err, test.ShouldNotBeNil)

	positions := []float64{0.5, 0.05}
	s := NewZeroState(2)
	s.JointPositions = positions
	test.That(t, m.SetState(s), test.ShouldBeNil)
	positions[0] = 3
	test.That(t, m.State().JointPositions, test.ShouldResemble, []float64{0.5, 0.05})
	test.That(t, m.String(), test.ShouldContainSubstring, "28.65 deg")
}
