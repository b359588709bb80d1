package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"go.viam.com/robotanim/config"
	"go.viam.com/robotanim/kinematics"
	"go.viam.com/robotanim/logging"
	"go.viam.com/robotanim/rig"
	"go.viam.com/robotanim/scene"
	"go.viam.com/robotanim/trajectory"
	"go.viam.com/robotanim/urdf"
)

const (
	loggerKey    = "logger"
	logCloserKey = "logCloser"
)

func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

func infof(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	color.New(color.Bold).Fprint(w, "Info: ")
	printf(w, format, a...)
}

func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	color.New(color.FgYellow, color.Bold).Fprint(w, "Warning: ")
	printf(w, format, a...)
}

func setupLoggerAction(c *cli.Context) error {
	logCfg := config.Default().Log
	if path := c.String(configFlag); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		logCfg = cfg.Log
	}
	if c.IsSet(logFileFlag) {
		logCfg.File = c.String(logFileFlag)
	}
	logger, closer, err := logCfg.NewLogger("robotanim", c.Bool(debugFlag))
	if err != nil {
		return err
	}
	logging.ReplaceGlobal(logger)
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[loggerKey] = logger
	c.App.Metadata[logCloserKey] = closer
	return nil
}

func closeLoggerAction(c *cli.Context) error {
	if closer, ok := c.App.Metadata[logCloserKey].(func() error); ok {
		// syncing a terminal or pipe fails on some platforms
		//nolint:errcheck
		closer()
	}
	return nil
}

func loggerFrom(c *cli.Context) logging.Logger {
	if logger, ok := c.App.Metadata[loggerKey].(logging.Logger); ok {
		return logger
	}
	return logging.Global()
}

// runConfig merges the config file, if any, with the command flags. Flags win.
func runConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String(configFlag); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if c.IsSet(urdfFlag) {
		cfg.Robot.URDF = c.String(urdfFlag)
	}
	if c.IsSet(nameFlag) {
		cfg.Robot.Name = c.String(nameFlag)
	}
	if c.IsSet(jointsFlag) {
		cfg.Robot.Joints = c.StringSlice(jointsFlag)
	}
	if c.IsSet(packagePathFlag) {
		cfg.Robot.PackagePaths = append(cfg.Robot.PackagePaths, c.StringSlice(packagePathFlag)...)
	}
	if c.IsSet(strictFlag) {
		cfg.Robot.StrictVisuals = c.Bool(strictFlag)
	}
	if c.IsSet(trajectoryFlag) {
		cfg.Trajectory = c.String(trajectoryFlag)
	}
	if c.IsSet(outputFlag) {
		cfg.Output = c.String(outputFlag)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func buildModel(c *cli.Context, cfg *config.Config, sc *scene.Scene) (*rig.Model, error) {
	opts := []rig.Option{
		rig.WithLogger(loggerFrom(c).Sublogger("rig")),
		rig.WithResolver(urdf.NewResolverFromEnv(cfg.Robot.PackagePaths...)),
	}
	if cfg.Robot.StrictVisuals {
		opts = append(opts, rig.WithStrictVisuals())
	}
	return rig.BuildModel(sc, cfg.Robot.Name, cfg.Robot.URDF, cfg.Robot.Joints, opts...)
}

// InspectAction prints the kinematic tree and the visual of every link.
func InspectAction(c *cli.Context) error {
	cfg, err := runConfig(c)
	if err != nil {
		return err
	}
	if cfg.Robot.URDF == "" {
		return errors.New("a robot description is required, pass --urdf or --config")
	}
	robot, err := urdf.ParseFile(cfg.Robot.URDF)
	if err != nil {
		return err
	}
	kin, err := kinematics.NewModel(robot, cfg.Robot.Joints)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", kin.String())

	resolver := urdf.NewResolverFromEnv(cfg.Robot.PackagePaths...)
	sc := scene.New(cfg.Robot.Name, loggerFrom(c))
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s links", robot.Name))
	t.AppendHeader(table.Row{"Link", "Visuals", "Mesh", "Resolved"})
	for i := range robot.Links {
		link := &robot.Links[i]
		kinds := lo.Map(link.Visuals, func(v urdf.Visual, _ int) string { return v.Geometry.Kind() })
		mesh, resolved := "", ""
		if visual, ok := link.MeshVisual(); ok {
			mesh = visual.Geometry.Mesh.Filename
			path, err := resolver.Resolve(mesh, robot.Dir)
			switch {
			case err != nil:
				resolved = "not found"
			case !sc.CanImport(path):
				resolved = fmt.Sprintf("%s (unsupported format)", path)
			default:
				resolved = path
			}
		}
		t.AppendRow(table.Row{link.Name, strings.Join(kinds, ", "), mesh, resolved})
	}
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// ImportAction imports a robot at its zero pose and saves the scene.
func ImportAction(c *cli.Context) error {
	cfg, err := runConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(false); err != nil {
		return err
	}
	logger := loggerFrom(c)
	sc := scene.New(cfg.Robot.Name, logger.Sublogger("scene"))
	model, err := buildModel(c, cfg, sc)
	if err != nil {
		return err
	}
	if err := sc.SaveGLTF(cfg.Output); err != nil {
		return err
	}
	infof(c.App.Writer, "Imported %d meshes of %q into %s", len(model.Links), model.Name, cfg.Output)
	return nil
}

// AnimateAction imports a robot, drives it through a recorded trajectory and saves the animated scene.
func AnimateAction(c *cli.Context) error {
	cfg, err := runConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(true); err != nil {
		return err
	}
	traj, err := trajectory.Load(cfg.Trajectory)
	if err != nil {
		return err
	}
	logger := loggerFrom(c)
	sc := scene.New(cfg.Robot.Name, logger.Sublogger("scene"))
	model, err := buildModel(c, cfg, sc)
	if err != nil {
		return err
	}
	if len(model.Links) == 0 {
		warningf(c.App.ErrWriter, "Robot %q has no mesh visuals, the animation will be empty", model.Name)
	}
	if err := trajectory.Drive(c.Context, model, sc, traj); err != nil {
		return err
	}
	if err := sc.SaveGLTF(cfg.Output); err != nil {
		return err
	}
	infof(c.App.Writer, "Animated %q over %d knots (%.3fs) into %s", model.Name, traj.Knots, traj.Time, cfg.Output)
	return nil
}

// PlotAction draws the joint positions of a trajectory. Joint names come from the robot
// description when one is given.
func PlotAction(c *cli.Context) error {
	cfg, err := runConfig(c)
	if err != nil {
		return err
	}
	if cfg.Trajectory == "" {
		return errors.New("a trajectory is required, pass --trajectory or --config")
	}
	traj, err := trajectory.Load(cfg.Trajectory)
	if err != nil {
		return err
	}
	var names []string
	if cfg.Robot.URDF != "" {
		robot, err := urdf.ParseFile(cfg.Robot.URDF)
		if err != nil {
			return err
		}
		kin, err := kinematics.NewModel(robot, cfg.Robot.Joints)
		if err != nil {
			return err
		}
		names = kin.JointNames()
	}
	out := c.String(outputFlag)
	if out == "" {
		out = strings.TrimSuffix(cfg.Trajectory, filepath.Ext(cfg.Trajectory)) + ".png"
	}
	if err := trajectory.Plot(traj, names, out); err != nil {
		return err
	}
	infof(c.App.Writer, "Plotted %d joints into %s", traj.DoF(), out)
	return nil
}
