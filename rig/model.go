// Package rig imports a URDF robot into a scene as one mesh object per link and poses those
// objects from base and joint states.
package rig

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/robotanim/kinematics"
	"go.viam.com/robotanim/logging"
	"go.viam.com/robotanim/scene"
	"go.viam.com/robotanim/spatialmath"
	"go.viam.com/robotanim/urdf"
)

// Link binds a URDF link to the scene object that displays it.
type Link struct {
	Name string
	Mesh *scene.Object
	// LinkToGeometry is the visual origin: the mesh pose relative to the link frame.
	LinkToGeometry spatialmath.Transform
}

// Model is an imported robot. Links holds only links with a mesh visual.
type Model struct {
	Name       string
	Links      map[string]*Link
	Kinematics *kinematics.Model
	Robot      *urdf.Robot

	scene  *scene.Scene
	logger logging.Logger
}

// MeshObjectName is the scene object name used for a link's mesh.
func MeshObjectName(modelName, linkName string) string {
	return fmt.Sprintf("%s_%s_mesh", modelName, linkName)
}

// BuildModel parses the URDF at urdfPath, builds a kinematic model whose degrees of freedom are
// jointList (nil means every movable joint in document order) and imports the first mesh visual
// of each link into sc. Objects already in sc under the expected name are reused, so importing the
// same model twice does not duplicate meshes. Every imported object is placed at its link's pose
// for the zero state.
//
// On failure objects imported before the failing link stay in the scene.
func BuildModel(sc *scene.Scene, name, urdfPath string, jointList []string, opts ...Option) (*Model, error) {
	o := newOptions(opts)
	logger := o.logger

	robot, err := urdf.ParseFile(urdfPath)
	if err != nil {
		return nil, &ModelLoadError{Path: urdfPath, Err: err}
	}
	kin, err := kinematics.NewModel(robot, jointList)
	if err != nil {
		return nil, &ModelLoadError{Path: urdfPath, Err: err}
	}

	m := &Model{
		Name:       name,
		Links:      map[string]*Link{},
		Kinematics: kin,
		Robot:      robot,
		scene:      sc,
		logger:     logger,
	}

	var created []string
	fail := func(err error) (*Model, error) {
		if len(created) > 0 {
			logger.Warnw("import failed, objects already imported remain in the scene",
				"model", name, "objects", created, "error", err)
		}
		return nil, err
	}

	for i := range robot.Links {
		link := &robot.Links[i]
		visual, ok := link.MeshVisual()
		if !ok {
			if o.strictVisuals && len(link.Visuals) > 0 {
				kinds := lo.Map(link.Visuals, func(v urdf.Visual, _ int) string { return v.Geometry.Kind() })
				return fail(&UnsupportedVisualError{Link: link.Name, Kinds: kinds})
			}
			logger.Debugw("skipping link without mesh visual", "link", link.Name, "visuals", len(link.Visuals))
			continue
		}

		objName := MeshObjectName(name, link.Name)
		obj, exists := sc.Object(objName)
		if exists {
			logger.Debugw("reusing scene object", "link", link.Name, "object", objName)
		} else {
			obj, err = importMesh(sc, urdfPath, robot.Dir, link.Name, visual.Geometry.Mesh, o.resolver)
			if err != nil {
				return fail(err)
			}
			if _, err := sc.Rename(obj, objName); err != nil {
				return fail(err)
			}
			created = append(created, objName)
		}

		scale, err := visual.Geometry.Mesh.ScaleVector()
		if err != nil {
			return fail(&ModelLoadError{Path: urdfPath, Err: errors.Wrapf(err, "link %q", link.Name)})
		}
		linkToGeometry, err := visual.Origin.Transform()
		if err != nil {
			return fail(&ModelLoadError{Path: urdfPath, Err: errors.Wrapf(err, "link %q", link.Name)})
		}
		obj.Scale = scale
		m.Links[link.Name] = &Link{Name: link.Name, Mesh: obj, LinkToGeometry: linkToGeometry}
	}

	if err := m.pose(); err != nil {
		return fail(err)
	}
	logger.Infow("imported robot model", "model", name, "urdf", urdfPath,
		"dof", kin.DoF(), "links", len(m.Links), "new_objects", len(created))
	return m, nil
}

func importMesh(
	sc *scene.Scene, urdfPath, baseDir, linkName string, mesh *urdf.Mesh, resolver *urdf.Resolver,
) (*scene.Object, error) {
	path, err := resolver.Resolve(mesh.Filename, baseDir)
	if err != nil {
		return nil, &ModelLoadError{Path: urdfPath, Err: errors.Wrapf(err, "link %q", linkName)}
	}
	if !sc.CanImport(path) {
		return nil, &UnsupportedMeshFormatError{
			Link:      linkName,
			Path:      path,
			Extension: mesh.Extension(),
			Supported: sc.SupportedExtensions(),
		}
	}
	obj, err := sc.Import(path)
	if err != nil {
		return nil, &ModelLoadError{Path: urdfPath, Err: errors.Wrapf(err, "link %q", linkName)}
	}
	return obj, nil
}

// DoF returns the number of joint positions Update expects.
func (m *Model) DoF() int {
	return m.Kinematics.DoF()
}

// JointNames returns the controlled joints in state vector order.
func (m *Model) JointNames() []string {
	return m.Kinematics.JointNames()
}

// LinkNames returns the names of the links that have a mesh object, sorted.
func (m *Model) LinkNames() []string {
	names := lo.Keys(m.Links)
	sort.Strings(names)
	return names
}

// Update poses every mesh object for the given base transform and joint positions and inserts
// location and rotation keyframes at the scene's current frame.
func (m *Model) Update(base spatialmath.Transform, jointPositions []float64) error {
	if len(jointPositions) != m.DoF() {
		return &DimensionMismatchError{Expected: m.DoF(), Actual: len(jointPositions)}
	}
	state := kinematics.NewZeroState(m.DoF())
	state.Base = base
	copy(state.JointPositions, jointPositions)
	if err := m.Kinematics.SetState(state); err != nil {
		return err
	}
	if err := m.pose(); err != nil {
		return err
	}
	frame := m.scene.Frame()
	for _, name := range m.LinkNames() {
		obj := m.Links[name].Mesh
		if err := obj.KeyframeInsert(scene.LocationPath, frame); err != nil {
			return err
		}
		if err := obj.KeyframeInsert(scene.RotationQuaternionPath, frame); err != nil {
			return err
		}
	}
	m.logger.Debugw("updated model", "model", m.Name, "frame", frame)
	return nil
}

// pose writes world(link)∘LinkToGeometry into every mesh object for the current kinematic state.
func (m *Model) pose() error {
	for _, name := range m.LinkNames() {
		link := m.Links[name]
		world, err := m.Kinematics.WorldTransform(name)
		if err != nil {
			return err
		}
		link.Mesh.SetTransform(spatialmath.Compose(world, link.LinkToGeometry))
	}
	return nil
}
