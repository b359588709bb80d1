package urdf

import (
	"encoding/xml"
	"path/filepath"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/robotanim/spatialmath"
	"go.viam.com/robotanim/utils"
)

// Geometry kinds.
const (
	BoxGeometry      = "box"
	CylinderGeometry = "cylinder"
	SphereGeometry   = "sphere"
	MeshGeometry     = "mesh"
)

// Visual is a struct which details the XML used in a URDF visual element.
type Visual struct {
	XMLName  xml.Name `xml:"visual"`
	Name     string   `xml:"name,attr,omitempty"`
	Origin   *Pose    `xml:"origin"`
	Geometry Geometry `xml:"geometry"`
}

// Collision is a struct which details the XML used in a URDF collision element.
type Collision struct {
	XMLName  xml.Name `xml:"collision"`
	Name     string   `xml:"name,attr,omitempty"`
	Origin   *Pose    `xml:"origin"`
	Geometry Geometry `xml:"geometry"`
}

// Geometry holds exactly one of the URDF shapes.
type Geometry struct {
	XMLName  xml.Name  `xml:"geometry"`
	Box      *Box      `xml:"box,omitempty"`
	Cylinder *Cylinder `xml:"cylinder,omitempty"`
	Sphere   *Sphere   `xml:"sphere,omitempty"`
	Mesh     *Mesh     `xml:"mesh,omitempty"`
}

// Box is a box centered on the visual origin.
type Box struct {
	Size string `xml:"size,attr"` // "x y z" format, in meters
}

// Cylinder is a cylinder along the z axis of the visual origin.
type Cylinder struct {
	Radius float64 `xml:"radius,attr"`
	Length float64 `xml:"length,attr"`
}

// Sphere is a sphere centered on the visual origin.
type Sphere struct {
	Radius float64 `xml:"radius,attr"` // in meters
}

// Mesh is an external mesh file.
type Mesh struct {
	Filename string `xml:"filename,attr"` // path or URI of the mesh file
	Scale    string `xml:"scale,attr,omitempty"`
}

// Axis is the joint axis expressed in the joint frame.
type Axis struct {
	XMLName xml.Name `xml:"axis"`
	XYZ     string   `xml:"xyz,attr"`
}

// Pose is a URDF origin element.
type Pose struct {
	XMLName xml.Name `xml:"origin"`
	RPY     string   `xml:"rpy,attr"` // Fixed frame angle "r p y" format, in radians
	XYZ     string   `xml:"xyz,attr"` // "x y z" format, in meters
}

// Kind names the shape held by the geometry, or returns the empty string if there is none.
func (g *Geometry) Kind() string {
	switch {
	case g.Mesh != nil:
		return MeshGeometry
	case g.Box != nil:
		return BoxGeometry
	case g.Cylinder != nil:
		return CylinderGeometry
	case g.Sphere != nil:
		return SphereGeometry
	default:
		return ""
	}
}

// Extension returns the lower-cased file extension of the mesh, including the dot.
func (m *Mesh) Extension() string {
	return strings.ToLower(filepath.Ext(m.Filename))
}

// ScaleVector returns the mesh scale, 1 1 1 when unset.
func (m *Mesh) ScaleVector() (r3.Vector, error) {
	s, err := utils.ParseVector3(m.Scale, [3]float64{1, 1, 1})
	if err != nil {
		return r3.Vector{X: 1, Y: 1, Z: 1}, err
	}
	return r3.Vector{X: s[0], Y: s[1], Z: s[2]}, nil
}

// Vector returns the unit joint axis. A missing axis element means 1 0 0.
func (a *Axis) Vector() (r3.Vector, error) {
	def := r3.Vector{X: 1}
	if a == nil {
		return def, nil
	}
	v, err := utils.ParseVector3(a.XYZ, [3]float64{1, 0, 0})
	if err != nil {
		return def, err
	}
	axis := r3.Vector{X: v[0], Y: v[1], Z: v[2]}
	if axis.Norm() < 1e-9 {
		return def, errors.New("joint axis has zero length")
	}
	return axis.Normalize(), nil
}

// Transform returns the rigid transform described by the origin. A nil origin is the identity.
func (p *Pose) Transform() (spatialmath.Transform, error) {
	if p == nil {
		return spatialmath.NewZeroTransform(), nil
	}
	xyz, err := utils.ParseVector3(p.XYZ, [3]float64{})
	if err != nil {
		return spatialmath.Transform{}, errors.Wrap(err, "xyz")
	}
	rpy, err := utils.ParseVector3(p.RPY, [3]float64{})
	if err != nil {
		return spatialmath.Transform{}, errors.Wrap(err, "rpy")
	}
	return spatialmath.NewTransformFromOrientation(
		r3.Vector{X: xyz[0], Y: xyz[1], Z: xyz[2]},
		&spatialmath.EulerAngles{Roll: rpy[0], Pitch: rpy[1], Yaw: rpy[2]},
	), nil
}

func (v *Visual) validate() error {
	if _, err := v.Origin.Transform(); err != nil {
		return errors.Wrap(err, "origin")
	}
	if v.Geometry.Mesh != nil {
		if v.Geometry.Mesh.Filename == "" {
			return errors.New("mesh without a filename")
		}
		if _, err := v.Geometry.Mesh.ScaleVector(); err != nil {
			return errors.Wrap(err, "mesh scale")
		}
	}
	return nil
}
