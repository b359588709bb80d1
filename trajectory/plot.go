package trajectory

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plot draws every joint position against time and saves the figure to path. The image format
// follows the file extension (png, svg, pdf, ...). jointNames labels the lines; it may be nil.
func Plot(traj *Trajectory, jointNames []string, path string) error {
	if err := traj.Validate(); err != nil {
		return err
	}
	if jointNames != nil && len(jointNames) != traj.DoF() {
		return errors.Errorf("got %d joint names for %d recorded joints", len(jointNames), traj.DoF())
	}
	if traj.DoF() == 0 {
		return errors.New("trajectory has no joint positions to plot")
	}

	p := plot.New()
	p.Title.Text = "Joint positions"
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "position (rad or m)"
	p.Add(plotter.NewGrid())

	lines := make([]interface{}, 0, 2*traj.DoF())
	for j, row := range traj.JointPositions {
		pts := make(plotter.XYs, len(row))
		for k, v := range row {
			pts[k].X = traj.KnotTime(k)
			pts[k].Y = v
		}
		name := fmt.Sprintf("joint %d", j)
		if jointNames != nil {
			name = jointNames[j]
		}
		lines = append(lines, name, pts)
	}
	if err := plotutil.AddLines(p, lines...); err != nil {
		return err
	}
	return p.Save(10*vg.Inch, 5*vg.Inch, path)
}
