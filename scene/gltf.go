package scene

import (
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/robotanim/spatialmath"
)

// Document converts the scene to a glTF document: one node per object, one mesh per object with
// geometry, and a single animation sampling every keyframe track at its frame time.
func (s *Scene) Document() *gltf.Document {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "robotanim"
	doc.Scenes[0].Name = s.name
	doc.Scenes[0].Extras = map[string]interface{}{
		"frame_start": s.frameStart,
		"frame_end":   s.frameEnd,
		"fps":         s.fps,
		"fps_base":    s.fpsBase,
	}

	anim := &gltf.Animation{Name: s.name}
	for _, obj := range s.objects {
		q := obj.Rotation()
		node := &gltf.Node{
			Name:        obj.name,
			Translation: [3]float32{float32(obj.Location.X), float32(obj.Location.Y), float32(obj.Location.Z)},
			Rotation:    [4]float32{float32(q.Imag), float32(q.Jmag), float32(q.Kmag), float32(q.Real)},
			Scale:       [3]float32{float32(obj.Scale.X), float32(obj.Scale.Y), float32(obj.Scale.Z)},
			Extras:      map[string]interface{}{"id": obj.ID.String()},
		}
		if obj.Mesh != nil && len(obj.Mesh.Triangles) > 0 {
			node.Mesh = gltf.Index(writeMesh(doc, obj.Mesh))
		}
		nodeIndex := uint32(len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, node)
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, nodeIndex)
		s.writeTracks(doc, anim, obj, nodeIndex)
	}
	if len(anim.Channels) > 0 {
		doc.Animations = append(doc.Animations, anim)
	}
	return doc
}

func writeMesh(doc *gltf.Document, mesh *Mesh) uint32 {
	positions := lo.Map(mesh.Vertices, func(v r3.Vector, _ int) [3]float32 {
		return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
	})
	indices := make([]uint32, 0, 3*len(mesh.Triangles))
	for _, tri := range mesh.Triangles {
		indices = append(indices, tri[0], tri[1], tri[2])
	}
	positionAccessor := modeler.WritePosition(doc, positions)
	indicesAccessor := modeler.WriteIndices(doc, indices)
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: mesh.Name,
		Primitives: []*gltf.Primitive{
			{
				Indices:    gltf.Index(indicesAccessor),
				Attributes: map[string]uint32{"POSITION": positionAccessor},
			},
		},
	})
	return uint32(len(doc.Meshes) - 1)
}

// writeTracks adds one sampler and channel per animated property of obj. Euler tracks are
// exported as rotations, quaternion tracks take precedence when both exist.
func (s *Scene) writeTracks(doc *gltf.Document, anim *gltf.Animation, obj *Object, node uint32) {
	rotationPath := RotationQuaternionPath
	if len(obj.tracks[RotationQuaternionPath]) == 0 {
		rotationPath = RotationEulerPath
	}
	for _, track := range []struct {
		dataPath string
		target   gltf.TRSProperty
	}{
		{LocationPath, gltf.TRSTranslation},
		{rotationPath, gltf.TRSRotation},
		{ScalePath, gltf.TRSScale},
	} {
		keys := obj.tracks[track.dataPath]
		if len(keys) == 0 {
			continue
		}
		times := make([]float32, len(keys))
		for i, k := range keys {
			times[i] = float32(s.FrameTime(k.Frame))
		}
		var output uint32
		switch track.dataPath {
		case RotationQuaternionPath, RotationEulerPath:
			values := make([][4]float32, len(keys))
			for i, k := range keys {
				q := keyRotation(track.dataPath, k.Value)
				values[i] = [4]float32{float32(q.Imag), float32(q.Jmag), float32(q.Kmag), float32(q.Real)}
			}
			output = modeler.WriteAccessor(doc, gltf.TargetNone, values)
		default:
			values := make([][3]float32, len(keys))
			for i, k := range keys {
				values[i] = [3]float32{float32(k.Value[0]), float32(k.Value[1]), float32(k.Value[2])}
			}
			output = modeler.WriteAccessor(doc, gltf.TargetNone, values)
		}
		input := modeler.WriteAccessor(doc, gltf.TargetNone, times)
		anim.Samplers = append(anim.Samplers, &gltf.AnimationSampler{
			Input:  gltf.Index(input),
			Output: gltf.Index(output),
		})
		anim.Channels = append(anim.Channels, &gltf.Channel{
			Sampler: gltf.Index(uint32(len(anim.Samplers) - 1)),
			Target:  gltf.ChannelTarget{Node: gltf.Index(node), Path: track.target},
		})
	}
}

func keyRotation(dataPath string, v []float64) quat.Number {
	if dataPath == RotationEulerPath {
		return (&spatialmath.EulerAngles{Roll: v[0], Pitch: v[1], Yaw: v[2]}).Quaternion()
	}
	return spatialmath.Normalize(quat.Number{Real: v[0], Imag: v[1], Jmag: v[2], Kmag: v[3]})
}

// ExportGLTF writes the scene as binary glTF (.glb) or as JSON glTF with embedded buffers.
func (s *Scene) ExportGLTF(w io.Writer, binary bool) error {
	doc := s.Document()
	if !binary {
		for _, b := range doc.Buffers {
			b.URI = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b.Data)
		}
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = binary
	return errors.Wrap(enc.Encode(doc), "failed to encode glTF")
}

// SaveGLTF writes the scene to path, as binary glTF when the extension is .glb.
func (s *Scene) SaveGLTF(path string) (err error) {
	binary := strings.EqualFold(filepath.Ext(path), ".glb")
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	if err := s.ExportGLTF(f, binary); err != nil {
		return err
	}
	s.logger.Infow("saved scene", "path", path, "objects", len(s.objects))
	return nil
}
