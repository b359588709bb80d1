// Package urdf reads robot descriptions written in the Universal Robot Description Format.
package urdf

import (
	"encoding/xml"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Extension is the file extension associated with URDF files.
const Extension string = "urdf"

// ErrNoModelInformation is returned when a URDF document has no content.
var ErrNoModelInformation = errors.New("no model information")

// Joint types understood by URDF.
const (
	FixedJoint      = "fixed"
	RevoluteJoint   = "revolute"
	ContinuousJoint = "continuous"
	PrismaticJoint  = "prismatic"
	FloatingJoint   = "floating"
	PlanarJoint     = "planar"
)

// Robot represents all supported fields in a URDF file. Links and Joints keep document order.
type Robot struct {
	XMLName xml.Name `xml:"robot"`
	Name    string   `xml:"name,attr"`
	Links   []Link   `xml:"link"`
	Joints  []Joint  `xml:"joint"`

	// Dir is the directory of the file the robot was read from. Relative mesh paths resolve against it.
	Dir string `xml:"-"`
}

// Link is a struct which details the XML used in a URDF link element.
type Link struct {
	XMLName    xml.Name    `xml:"link"`
	Name       string      `xml:"name,attr"`
	Visuals    []Visual    `xml:"visual"`
	Collisions []Collision `xml:"collision"`
}

// Joint is a struct which details the XML used in a URDF joint element.
type Joint struct {
	XMLName xml.Name `xml:"joint"`
	Name    string   `xml:"name,attr"`
	Type    string   `xml:"type,attr"`
	Parent  Frame    `xml:"parent"`
	Child   Frame    `xml:"child"`
	Origin  *Pose    `xml:"origin,omitempty"`
	Axis    *Axis    `xml:"axis,omitempty"`
	Limit   *Limit   `xml:"limit,omitempty"`
}

// Frame names the link on one side of a joint.
type Frame struct {
	Link string `xml:"link,attr"`
}

// Limit holds joint limits. Translation limits are in meters, revolute limits are in radians.
type Limit struct {
	XMLName  xml.Name `xml:"limit"`
	Lower    float64  `xml:"lower,attr"`
	Upper    float64  `xml:"upper,attr"`
	Effort   float64  `xml:"effort,attr"`
	Velocity float64  `xml:"velocity,attr"`
}

// Movable reports whether the joint contributes a degree of freedom.
func (j *Joint) Movable() bool {
	return j.Type != FixedJoint
}

// Link returns the link with the given name.
func (r *Robot) Link(name string) (*Link, bool) {
	for i := range r.Links {
		if r.Links[i].Name == name {
			return &r.Links[i], true
		}
	}
	return nil, false
}

// Joint returns the joint with the given name.
func (r *Robot) Joint(name string) (*Joint, bool) {
	for i := range r.Joints {
		if r.Joints[i].Name == name {
			return &r.Joints[i], true
		}
	}
	return nil, false
}

// MovableJoints returns the names of all non-fixed joints in document order.
func (r *Robot) MovableJoints() []string {
	names := make([]string, 0, len(r.Joints))
	for _, j := range r.Joints {
		if j.Movable() {
			names = append(names, j.Name)
		}
	}
	return names
}

// MeshVisual returns the first visual of the link whose geometry is an external mesh.
func (l *Link) MeshVisual() (*Visual, bool) {
	for i := range l.Visuals {
		if l.Visuals[i].Geometry.Mesh != nil {
			return &l.Visuals[i], true
		}
	}
	return nil, false
}

// Parse unmarshals URDF XML data and checks that it describes a well formed set of links and joints.
func Parse(xmlData []byte) (*Robot, error) {
	// empty data probably means that the read URDF has no actionable information
	if len(xmlData) == 0 {
		return nil, ErrNoModelInformation
	}
	robot := &Robot{}
	if err := xml.Unmarshal(xmlData, robot); err != nil {
		return nil, errors.Wrap(err, "failed to convert URDF data to equivalent Robot struct")
	}
	if err := robot.Validate(); err != nil {
		return nil, err
	}
	return robot, nil
}

// ParseFile reads a given file and parses the contained URDF XML data.
func ParseFile(filename string) (*Robot, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read URDF file")
	}
	robot, err := Parse(xmlData)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filename)
	}
	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	robot.Dir = filepath.Dir(abs)
	return robot, nil
}

// Validate reports every structural problem of the document: missing or duplicate names,
// joints pointing at unknown links, and malformed origins, axes and mesh scales.
func (r *Robot) Validate() error {
	var errs error
	if len(r.Links) == 0 {
		errs = multierr.Append(errs, errors.New("robot has no links"))
	}
	links := map[string]bool{}
	for _, l := range r.Links {
		if l.Name == "" {
			errs = multierr.Append(errs, errors.New("link without a name"))
			continue
		}
		if links[l.Name] {
			errs = multierr.Append(errs, errors.Errorf("duplicate link %q", l.Name))
		}
		links[l.Name] = true
		for i, v := range l.Visuals {
			if err := v.validate(); err != nil {
				errs = multierr.Append(errs, errors.Wrapf(err, "link %q visual %d", l.Name, i))
			}
		}
	}
	joints := map[string]bool{}
	for _, j := range r.Joints {
		if j.Name == "" {
			errs = multierr.Append(errs, errors.New("joint without a name"))
			continue
		}
		if joints[j.Name] {
			errs = multierr.Append(errs, errors.Errorf("duplicate joint %q", j.Name))
		}
		joints[j.Name] = true
		for _, end := range []string{j.Parent.Link, j.Child.Link} {
			if !links[end] {
				errs = multierr.Append(errs, errors.Errorf("joint %q references unknown link %q", j.Name, end))
			}
		}
		if _, err := j.Origin.Transform(); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "joint %q origin", j.Name))
		}
		if j.Movable() {
			if _, err := j.Axis.Vector(); err != nil {
				errs = multierr.Append(errs, errors.Wrapf(err, "joint %q axis", j.Name))
			}
		}
	}
	return errs
}
