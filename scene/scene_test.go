package scene

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/robotanim/logging"
	"go.viam.com/robotanim/spatialmath"
)

func TestObjectRegistry(t *testing.T) {
	sc := New("registry", logging.NewTestLogger(t))
	a := sc.NewObject("link", nil)
	b := sc.NewObject("link", nil)
	test.That(t, a.Name(), test.ShouldEqual, "link")
	test.That(t, b.Name(), test.ShouldEqual, "link.001")
	test.That(t, a.ID, test.ShouldNotEqual, b.ID)

	name, err := sc.Rename(b, "arm_link_mesh")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, name, test.ShouldEqual, "arm_link_mesh")
	got, ok := sc.Object("arm_link_mesh")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, got, test.ShouldEqual, b)
	_, ok = sc.Object("link.001")
	test.That(t, ok, test.ShouldBeFalse)

	name, err = sc.Rename(a, "arm_link_mesh")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, name, test.ShouldEqual, "arm_link_mesh.001")

	other := New("other", nil)
	_, err = other.Rename(a, "stolen")
	test.That(t, err, test.ShouldNotBeNil)

	test.That(t, sc.Remove("arm_link_mesh"), test.ShouldBeTrue)
	test.That(t, sc.Remove("arm_link_mesh"), test.ShouldBeFalse)
	test.That(t, sc.Len(), test.ShouldEqual, 1)
	test.That(t, sc.Objects()[0], test.ShouldEqual, a)
}

func TestFrames(t *testing.T) {
	sc := New("frames", nil)
	test.That(t, sc.Frame(), test.ShouldEqual, DefaultFrameStart)
	start, end := sc.FrameRange()
	test.That(t, start, test.ShouldEqual, DefaultFrameStart)
	test.That(t, end, test.ShouldEqual, DefaultFrameEnd)

	test.That(t, sc.SetFrameRange(0, 40), test.ShouldBeNil)
	test.That(t, sc.SetFrameRange(5, 4), test.ShouldNotBeNil)
	test.That(t, sc.SetFrameRate(40, 2), test.ShouldBeNil)
	test.That(t, sc.SetFrameRate(0, 2), test.ShouldNotBeNil)
	test.That(t, sc.SetFrameRate(40, 0), test.ShouldNotBeNil)
	fps, base := sc.FrameRate()
	test.That(t, fps, test.ShouldEqual, 40)
	test.That(t, base, test.ShouldEqual, 2.)
	test.That(t, sc.FrameTime(20), test.ShouldAlmostEqual, 1.)

	sc.SetFrame(7)
	test.That(t, sc.Frame(), test.ShouldEqual, 7)
}

func TestKeyframes(t *testing.T) {
	sc := New("keys", nil)
	obj := sc.NewObject("thing", nil)
	test.That(t, obj.RotationMode, test.ShouldEqual, RotationModeEuler)

	yaw := spatialmath.NewTransformFromOrientation(r3.Vector{X: 1}, &spatialmath.EulerAngles{Yaw: math.Pi / 2})
	obj.SetTransform(yaw)
	test.That(t, obj.RotationMode, test.ShouldEqual, RotationModeQuaternion)
	test.That(t, spatialmath.QuaternionAlmostEqual(obj.Rotation(), yaw.Quaternion(), 1e-9), test.ShouldBeTrue)

	test.That(t, obj.KeyframeInsert(LocationPath, 2), test.ShouldBeNil)
	obj.Location = r3.Vector{X: 5}
	test.That(t, obj.KeyframeInsert(LocationPath, 0), test.ShouldBeNil)
	obj.Location = r3.Vector{X: 9}
	test.That(t, obj.KeyframeInsert(LocationPath, 2), test.ShouldBeNil)
	test.That(t, obj.KeyframeInsert(RotationQuaternionPath, 0), test.ShouldBeNil)

	keys := obj.Keyframes(LocationPath)
	test.That(t, keys, test.ShouldResemble, []Keyframe{
		{Frame: 0, Value: []float64{5, 0, 0}},
		{Frame: 2, Value: []float64{9, 0, 0}},
	})
	rot := obj.Keyframes(RotationQuaternionPath)
	test.That(t, rot, test.ShouldHaveLength, 1)
	test.That(t, rot[0].Value[0], test.ShouldAlmostEqual, math.Cos(math.Pi/4))
	test.That(t, obj.AnimatedPaths(), test.ShouldResemble, []string{LocationPath, RotationQuaternionPath})

	err := obj.KeyframeInsert("color", 0)
	test.That(t, err, test.ShouldNotBeNil)

	obj.RotationMode = RotationModeEuler
	obj.RotationEuler = spatialmath.EulerAngles{Roll: math.Pi}
	test.That(t, spatialmath.QuaternionAlmostEqual(obj.Rotation(), quat.Number{Imag: 1}, 1e-9), test.ShouldBeTrue)
}

func TestSetTransformKeepsHemisphere(t *testing.T) {
	sc := New("test", logging.NewTestLogger(t))
	obj := sc.NewObject("spinner", nil)
	prev := obj.RotationQuaternion
	// a full turn in small steps never jumps to the opposite sign
	for i := 1; i <= 36; i++ {
		theta := float64(i) * 2 * math.Pi / 36
		obj.SetTransform(spatialmath.NewTransformFromOrientation(r3.Vector{}, spatialmath.NewR4AA(theta, r3.Vector{Z: 1})))
		q := obj.RotationQuaternion
		dot := q.Real*prev.Real + q.Imag*prev.Imag + q.Jmag*prev.Jmag + q.Kmag*prev.Kmag
		test.That(t, dot, test.ShouldBeGreaterThan, 0)
		prev = q
	}
	// after a full turn the quaternion is -1, the same rotation as the identity
	test.That(t, prev.Real, test.ShouldAlmostEqual, -1, 1e-9)
}
