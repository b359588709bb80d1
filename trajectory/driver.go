package trajectory

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/robotanim/scene"
	"go.viam.com/robotanim/spatialmath"
)

// DimensionMismatchError is returned by Drive when the trajectory records a different number
// of joints per knot than the model drives.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("trajectory has %d joint positions per knot but the model has %d degrees of freedom",
		e.Actual, e.Expected)
}

// Updater poses a model for one knot. *rig.Model implements it.
type Updater interface {
	DoF() int
	Update(base spatialmath.Transform, jointPositions []float64) error
}

// Drive plays traj into sc through model. The scene is set to traj.Knots frames per traj.Time
// seconds with a frame range of 0 to traj.Knots. Knot k is keyed at frame k and the current
// frame is advanced once per knot, so it ends at traj.Knots.
//
// Drive stops with the context's error if ctx is done before a knot is applied.
func Drive(ctx context.Context, model Updater, sc *scene.Scene, traj *Trajectory) error {
	if err := traj.Validate(); err != nil {
		return err
	}
	if traj.DoF() != model.DoF() {
		return &DimensionMismatchError{Expected: model.DoF(), Actual: traj.DoF()}
	}
	if err := sc.SetFrameRate(traj.Knots, traj.Time); err != nil {
		return err
	}
	if err := sc.SetFrameRange(0, traj.Knots); err != nil {
		return err
	}
	start, _ := sc.FrameRange()
	sc.SetFrame(start)

	for k := 0; k < traj.Knots; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		base, err := traj.BaseTransform(k)
		if err != nil {
			return err
		}
		q, err := traj.JointPositionsAt(k)
		if err != nil {
			return err
		}
		if err := model.Update(base, q); err != nil {
			return errors.Wrapf(err, "failed to apply knot %d", k)
		}
		sc.SetFrame(start + k + 1)
	}
	return nil
}
