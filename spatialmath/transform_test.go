package spatialmath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
)

func TestTransformBasics(t *testing.T) {
	zero := NewZeroTransform()
	test.That(t, zero.Point(), test.ShouldResemble, r3.Vector{})
	test.That(t, QuaternionAlmostEqual(zero.Quaternion(), quat.Number{Real: 1}, 1e-12), test.ShouldBeTrue)

	yaw90 := (&EulerAngles{Yaw: math.Pi / 2}).Quaternion()
	tf := NewTransform(r3.Vector{X: 1, Y: 2, Z: 3}, yaw90)
	test.That(t, tf.Point(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, QuaternionAlmostEqual(tf.Quaternion(), yaw90, 1e-9), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(tf.TransformPoint(r3.Vector{X: 1}), r3.Vector{X: 1, Y: 3, Z: 3}, 1e-9), test.ShouldBeTrue)
	test.That(t, tf.String(), test.ShouldContainSubstring, "X:1.000000")
}

func TestTransformCompose(t *testing.T) {
	yaw90 := NewTransformFromOrientation(r3.Vector{}, &EulerAngles{Yaw: math.Pi / 2})
	shift := NewTransformFromPoint(r3.Vector{X: 1})

	// the shift is applied in the rotated frame
	composed := Compose(yaw90, shift)
	test.That(t, R3VectorAlmostEqual(composed.Point(), r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, QuaternionAlmostEqual(composed.Quaternion(), yaw90.Quaternion(), 1e-9), test.ShouldBeTrue)

	composed = Compose(shift, yaw90)
	test.That(t, R3VectorAlmostEqual(composed.Point(), r3.Vector{X: 1}, 1e-9), test.ShouldBeTrue)

	inv := composed.Inverse()
	test.That(t, TransformAlmostEqual(Compose(composed, inv), NewZeroTransform(), 1e-9), test.ShouldBeTrue)
	test.That(t, TransformAlmostEqual(Compose(inv, composed), NewZeroTransform(), 1e-9), test.ShouldBeTrue)
}

func TestTransformQuaternionIsUnit(t *testing.T) {
	tf := NewTransform(r3.Vector{}, quat.Number{Real: 3, Imag: 1, Jmag: -2, Kmag: 0.5})
	test.That(t, quat.Abs(tf.Quaternion()), test.ShouldAlmostEqual, 1.)

	tf = NewTransform(r3.Vector{X: 4}, quat.Number{})
	test.That(t, TransformAlmostEqual(tf, NewTransformFromPoint(r3.Vector{X: 4}), 1e-12), test.ShouldBeTrue)
}

func TestTransformFromMatrix(t *testing.T) {
	for _, tc := range []struct {
		name  string
		rows  [4][4]float64
		valid bool
	}{
		{
			name:  "identity",
			rows:  [4][4]float64{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}},
			valid: true,
		},
		{
			name:  "yaw and translation",
			rows:  [4][4]float64{{0, -1, 0, 1}, {1, 0, 0, 2}, {0, 0, 1, 3}, {0, 0, 0, 1}},
			valid: true,
		},
		{
			name: "scaled",
			rows: [4][4]float64{{2, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}},
		},
		{
			name: "reflection",
			rows: [4][4]float64{{-1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}},
		},
		{
			name: "projective last row",
			rows: [4][4]float64{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 1, 1}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tf, err := NewTransformFromRows(tc.rows)
			if !tc.valid {
				test.That(t, errors.Is(err, ErrNotRigid), test.ShouldBeTrue)
				return
			}
			test.That(t, err, test.ShouldBeNil)
			test.That(t, tf.Point(), test.ShouldResemble, r3.Vector{X: tc.rows[0][3], Y: tc.rows[1][3], Z: tc.rows[2][3]})
		})
	}

	tf, err := NewTransformFromRows([4][4]float64{{0, -1, 0, 1}, {1, 0, 0, 2}, {0, 0, 1, 3}, {0, 0, 0, 1}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tf.Matrix().At(0, 1), test.ShouldEqual, -1.)
	test.That(t, tf.Matrix().At(1, 0), test.ShouldEqual, 1.)
	test.That(t, tf.Orientation().EulerAngles().Yaw, test.ShouldAlmostEqual, math.Pi/2)

	_, err = NewTransformFromMatrix(mgl64.Scale3D(1, 1, 1))
	test.That(t, err, test.ShouldBeNil)
}
