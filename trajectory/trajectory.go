// Package trajectory reads recorded robot motions and plays them into a scene through a model.
package trajectory

import (
	"io"
	"math"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/num/quat"
	"gopkg.in/yaml.v3"

	"go.viam.com/robotanim/spatialmath"
)

// Trajectory is a sampled base and joint motion. Arrays are coordinate major: Position[i][k] is
// coordinate i of the base position at knot k, Orientation holds x, y, z, w quaternion rows and
// JointPositions[j][k] is joint j at knot k.
type Trajectory struct {
	Knots          int          `json:"knots"`
	Time           float64      `json:"Time"`
	Position       [3][]float64 `json:"position"`
	Orientation    [4][]float64 `json:"orientation"`
	JointPositions [][]float64  `json:"joint_pos"`
}

// Load reads and validates the trajectory file at path. YAML and JSON are both accepted.
func Load(path string) (*Trajectory, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	traj, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read trajectory %s", path)
	}
	if err := traj.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid trajectory %s", path)
	}
	return traj, nil
}

// Decode reads a trajectory record without validating it. Unknown keys are ignored.
func Decode(r io.Reader) (*Trajectory, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "malformed trajectory record")
	}
	if raw == nil {
		return nil, errors.New("empty trajectory record")
	}
	var traj Trajectory
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &traj,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, "malformed trajectory record")
	}
	return &traj, nil
}

// Validate reports every shape problem in the trajectory.
func (t *Trajectory) Validate() error {
	var err error
	if t.Knots <= 0 {
		err = multierr.Append(err, errors.Errorf("knots must be positive, got %d", t.Knots))
	}
	if !(t.Time > 0) || math.IsInf(t.Time, 0) {
		err = multierr.Append(err, errors.Errorf("Time must be a positive number, got %v", t.Time))
	}
	shapeOK := err == nil
	checkRow := func(field string, i int, row []float64) {
		if len(row) != t.Knots {
			shapeOK = false
			err = multierr.Append(err, errors.Errorf("%s row %d has %d values, expected %d", field, i, len(row), t.Knots))
			return
		}
		for k, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				err = multierr.Append(err, errors.Errorf("%s row %d has non-finite value at knot %d", field, i, k))
			}
		}
	}
	for i, row := range t.Position {
		checkRow("position", i, row)
	}
	for i, row := range t.Orientation {
		checkRow("orientation", i, row)
	}
	for i, row := range t.JointPositions {
		checkRow("joint_pos", i, row)
	}
	if shapeOK {
		for k := 0; k < t.Knots; k++ {
			if quat.Abs(t.quaternion(k)) < zeroQuatTolerance {
				err = multierr.Append(err, errors.Errorf("orientation at knot %d is a zero quaternion", k))
			}
		}
	}
	return err
}

const zeroQuatTolerance = 1e-12

// DoF returns the number of joints recorded per knot.
func (t *Trajectory) DoF() int {
	return len(t.JointPositions)
}

// KnotTime returns the time in seconds at which knot k is shown.
func (t *Trajectory) KnotTime(k int) float64 {
	return float64(k) * t.Time / float64(t.Knots)
}

func (t *Trajectory) checkKnot(k int) error {
	if k < 0 || k >= t.Knots {
		return errors.Errorf("knot %d out of range [0, %d)", k, t.Knots)
	}
	return nil
}

func (t *Trajectory) quaternion(k int) quat.Number {
	o := t.Orientation
	return spatialmath.NewQuaternionXYZW(o[0][k], o[1][k], o[2][k], o[3][k])
}

// BaseTransform returns the base pose at knot k.
func (t *Trajectory) BaseTransform(k int) (spatialmath.Transform, error) {
	if err := t.checkKnot(k); err != nil {
		return spatialmath.Transform{}, err
	}
	p := r3.Vector{X: t.Position[0][k], Y: t.Position[1][k], Z: t.Position[2][k]}
	return spatialmath.NewTransform(p, t.quaternion(k)), nil
}

// JointPositionsAt returns a fresh slice with every joint's position at knot k.
func (t *Trajectory) JointPositionsAt(k int) ([]float64, error) {
	if err := t.checkKnot(k); err != nil {
		return nil, err
	}
	q := make([]float64, len(t.JointPositions))
	for j, row := range t.JointPositions {
		q[j] = row[k]
	}
	return q, nil
}
