// Package spatialmath defines spatial mathematical operations on rigid transforms.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// rigidEpsilon is the tolerance used when checking that a matrix is a rigid transform.
const rigidEpsilon = 1e-6

// ErrNotRigid is returned when a matrix handed to NewTransformFromMatrix is not a rigid transform.
var ErrNotRigid = errors.New("matrix is not a rigid homogeneous transform")

// Transform is a rigid homogeneous transform: a proper rotation followed by a translation.
// The zero value is not a valid Transform; use NewZeroTransform.
type Transform struct {
	mat mgl64.Mat4
}

// NewZeroTransform returns the identity transform.
func NewZeroTransform() Transform {
	return Transform{mgl64.Ident4()}
}

// NewTransform builds a transform from a translation and a rotation quaternion. The quaternion
// is normalized; a zero quaternion is treated as no rotation.
func NewTransform(point r3.Vector, q quat.Number) Transform {
	m := quatToMat4(Normalize(q))
	m.Set(0, 3, point.X)
	m.Set(1, 3, point.Y)
	m.Set(2, 3, point.Z)
	return Transform{m}
}

// NewTransformFromPoint returns a pure translation.
func NewTransformFromPoint(point r3.Vector) Transform {
	return Transform{mgl64.Translate3D(point.X, point.Y, point.Z)}
}

// NewTransformFromOrientation builds a transform from a translation and any Orientation.
func NewTransformFromOrientation(point r3.Vector, o Orientation) Transform {
	if o == nil {
		return NewTransformFromPoint(point)
	}
	return NewTransform(point, o.Quaternion())
}

// NewTransformFromMatrix validates that m is rigid (orthonormal top-left block with determinant
// +1 and a last row of [0 0 0 1]) and wraps it.
func NewTransformFromMatrix(m mgl64.Mat4) (Transform, error) {
	if err := checkRigid(m); err != nil {
		return Transform{}, err
	}
	return Transform{m}, nil
}

// NewTransformFromRows is NewTransformFromMatrix for a row-major 4x4 array, the layout used by
// most numeric tooling when writing homogeneous matrices out by hand.
func NewTransformFromRows(rows [4][4]float64) (Transform, error) {
	m := mgl64.Mat4FromRows(
		mgl64.Vec4(rows[0]),
		mgl64.Vec4(rows[1]),
		mgl64.Vec4(rows[2]),
		mgl64.Vec4(rows[3]),
	)
	return NewTransformFromMatrix(m)
}

func checkRigid(m mgl64.Mat4) error {
	for col, want := range []float64{0, 0, 0, 1} {
		if math.Abs(m.At(3, col)-want) > rigidEpsilon {
			return errors.Wrapf(ErrNotRigid, "last row element %d is %f, expected %f", col, m.At(3, col), want)
		}
	}
	rot := m.Mat3()
	if !rot.Mul3(rot.Transpose()).ApproxEqualThreshold(mgl64.Ident3(), rigidEpsilon) {
		return errors.Wrap(ErrNotRigid, "rotation block is not orthonormal")
	}
	if det := rot.Det(); math.Abs(det-1) > rigidEpsilon {
		return errors.Wrapf(ErrNotRigid, "rotation block has determinant %f", det)
	}
	return nil
}

// Compose returns the transform a∘b, i.e. b expressed in the frame in which a is expressed.
func Compose(a, b Transform) Transform {
	return Transform{a.mat.Mul4(b.mat)}
}

// Matrix returns the underlying column-major homogeneous matrix.
func (t Transform) Matrix() mgl64.Mat4 {
	return t.mat
}

// Point returns the translation component.
func (t Transform) Point() r3.Vector {
	col := t.mat.Col(3)
	return r3.Vector{X: col[0], Y: col[1], Z: col[2]}
}

// Quaternion returns the rotation component as a unit quaternion.
func (t Transform) Quaternion() quat.Number {
	q := mgl64.Mat4ToQuat(t.mat)
	return Normalize(quat.Number{Real: q.W, Imag: q.V[0], Jmag: q.V[1], Kmag: q.V[2]})
}

// Orientation returns the rotation component as an Orientation.
func (t Transform) Orientation() Orientation {
	q := Quaternion(t.Quaternion())
	return &q
}

// Inverse returns the inverse rigid transform.
func (t Transform) Inverse() Transform {
	rotT := t.mat.Mat3().Transpose()
	p := t.Point()
	inv := rotT.Mat4()
	inv.Set(0, 3, -(rotT.At(0, 0)*p.X + rotT.At(0, 1)*p.Y + rotT.At(0, 2)*p.Z))
	inv.Set(1, 3, -(rotT.At(1, 0)*p.X + rotT.At(1, 1)*p.Y + rotT.At(1, 2)*p.Z))
	inv.Set(2, 3, -(rotT.At(2, 0)*p.X + rotT.At(2, 1)*p.Y + rotT.At(2, 2)*p.Z))
	return Transform{inv}
}

// TransformPoint applies the transform to a point.
func (t Transform) TransformPoint(p r3.Vector) r3.Vector {
	v := t.mat.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// String prints the translation and quaternion.
func (t Transform) String() string {
	p := t.Point()
	q := t.Quaternion()
	return fmt.Sprintf("{X:%.6f Y:%.6f Z:%.6f | W:%.6f X:%.6f Y:%.6f Z:%.6f}", p.X, p.Y, p.Z, q.Real, q.Imag, q.Jmag, q.Kmag)
}

// TransformAlmostEqual returns whether two transforms are equal up to epsilon in every matrix entry.
func TransformAlmostEqual(a, b Transform, epsilon float64) bool {
	return a.mat.ApproxEqualThreshold(b.mat, epsilon)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}

func quatToMat4(q quat.Number) mgl64.Mat4 {
	return mgl64.Quat{W: q.Real, V: mgl64.Vec3{q.Imag, q.Jmag, q.Kmag}}.Mat4()
}
