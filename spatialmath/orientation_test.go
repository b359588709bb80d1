package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

// represent a 45 degree rotation around the x axis in all the representations
var (
	th    = math.Pi / 4.
	q45x  = quat.Number{Real: math.Cos(th / 2.), Imag: math.Sin(th / 2.)} // in quaternion representation
	aa45x = &R4AA{th, 1., 0., 0.}                                        // in axis-angle representation
	ea45x = &EulerAngles{Roll: th, Pitch: 0, Yaw: 0}                     // in euler angle representation
)

func TestZeroOrientation(t *testing.T) {
	zero := NewZeroOrientation()
	test.That(t, zero.AxisAngles(), test.ShouldResemble, &R4AA{RX: 1})
	test.That(t, zero.Quaternion(), test.ShouldResemble, quat.Number{Real: 1})
	test.That(t, zero.EulerAngles(), test.ShouldResemble, NewEulerAngles())
}

func TestQuaternions(t *testing.T) {
	qq45x := Quaternion(q45x)
	test.That(t, qq45x.AxisAngles().Theta, test.ShouldAlmostEqual, aa45x.Theta)
	test.That(t, qq45x.AxisAngles().RX, test.ShouldAlmostEqual, aa45x.RX)
	test.That(t, qq45x.AxisAngles().RY, test.ShouldAlmostEqual, aa45x.RY)
	test.That(t, qq45x.AxisAngles().RZ, test.ShouldAlmostEqual, aa45x.RZ)
	test.That(t, qq45x.EulerAngles().Roll, test.ShouldAlmostEqual, ea45x.Roll)
	test.That(t, qq45x.EulerAngles().Pitch, test.ShouldAlmostEqual, ea45x.Pitch)
	test.That(t, qq45x.EulerAngles().Yaw, test.ShouldAlmostEqual, ea45x.Yaw)
}

func TestEulerAngles(t *testing.T) {
	test.That(t, QuaternionAlmostEqual(ea45x.Quaternion(), q45x, 1e-9), test.ShouldBeTrue)
	test.That(t, ea45x.AxisAngles().Theta, test.ShouldAlmostEqual, aa45x.Theta)
	test.That(t, ea45x.AxisAngles().RX, test.ShouldAlmostEqual, aa45x.RX)

	t.Run("fixed axis order", func(t *testing.T) {
		// roll then yaw about the parent axes: x maps to y, y maps to z
		ea := &EulerAngles{Roll: math.Pi / 2, Yaw: math.Pi / 2}
		q := ea.Quaternion()
		test.That(t, R3VectorAlmostEqual(RotateVector(q, r3.Vector{X: 1}), r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)
		test.That(t, R3VectorAlmostEqual(RotateVector(q, r3.Vector{Y: 1}), r3.Vector{Z: 1}, 1e-9), test.ShouldBeTrue)
	})

	t.Run("round trip", func(t *testing.T) {
		ea := &EulerAngles{Roll: 0.3, Pitch: -0.7, Yaw: 2.1}
		back := QuatToEulerAngles(ea.Quaternion())
		test.That(t, back.Roll, test.ShouldAlmostEqual, ea.Roll)
		test.That(t, back.Pitch, test.ShouldAlmostEqual, ea.Pitch)
		test.That(t, back.Yaw, test.ShouldAlmostEqual, ea.Yaw)
	})
}

func TestAxisAngles(t *testing.T) {
	test.That(t, QuaternionAlmostEqual(aa45x.Quaternion(), q45x, 1e-9), test.ShouldBeTrue)
	test.That(t, aa45x.EulerAngles().Roll, test.ShouldAlmostEqual, ea45x.Roll)

	unnormalized := NewR4AA(th, r3.Vector{X: 5})
	test.That(t, QuaternionAlmostEqual(unnormalized.ToQuat(), q45x, 1e-9), test.ShouldBeTrue)
	test.That(t, (&R4AA{Theta: 1}).ToQuat(), test.ShouldResemble, quat.Number{Real: 1})
}

func TestQuaternionHelpers(t *testing.T) {
	t.Run("normalize", func(t *testing.T) {
		q := Normalize(quat.Number{Real: 2, Kmag: 2})
		test.That(t, quat.Abs(q), test.ShouldAlmostEqual, 1.)
		test.That(t, Normalize(quat.Number{}), test.ShouldResemble, quat.Number{Real: 1})
	})
	t.Run("double cover", func(t *testing.T) {
		test.That(t, QuaternionAlmostEqual(q45x, Flip(q45x), 1e-9), test.ShouldBeTrue)
		test.That(t, QuaternionAlmostEqual(q45x, quat.Number{Real: 1}, 1e-3), test.ShouldBeFalse)
	})
	t.Run("imaginary norm", func(t *testing.T) {
		test.That(t, ImagNorm(quat.Number{Real: 1}), test.ShouldEqual, 0.)
		test.That(t, ImagNorm(quat.Number{Real: 5, Imag: 3, Kmag: 4}), test.ShouldAlmostEqual, 5.)
	})
	t.Run("xyzw", func(t *testing.T) {
		test.That(t, NewQuaternionXYZW(1, 2, 3, 4), test.ShouldResemble, quat.Number{Real: 4, Imag: 1, Jmag: 2, Kmag: 3})
	})
	t.Run("between", func(t *testing.T) {
		q90z := (&EulerAngles{Yaw: math.Pi / 2}).Quaternion()
		q45z := Quaternion((&EulerAngles{Yaw: math.Pi / 4}).Quaternion())
		diff := OrientationBetween(&q45z, &q45z)
		test.That(t, OrientationAlmostEqual(diff, NewZeroOrientation()), test.ShouldBeTrue)
		q90 := Quaternion(q90z)
		test.That(t, OrientationBetween(&q45z, &q90).EulerAngles().Yaw, test.ShouldAlmostEqual, math.Pi/4)
	})
}
