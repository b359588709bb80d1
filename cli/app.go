// Package cli contains the robotanim command line application.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Global flags.
	configFlag  = "config"
	debugFlag   = "debug"
	logFileFlag = "log-file"

	// Command flags.
	urdfFlag        = "urdf"
	nameFlag        = "name"
	jointsFlag      = "joints"
	packagePathFlag = "package-path"
	strictFlag      = "strict-visuals"
	trajectoryFlag  = "trajectory"
	outputFlag      = "output"
)

var robotFlags = []cli.Flag{
	&cli.StringFlag{
		Name:      urdfFlag,
		Aliases:   []string{"u"},
		Usage:     "robot description `FILE`",
		TakesFile: true,
	},
	&cli.StringFlag{
		Name:  nameFlag,
		Usage: "model name used to prefix scene objects (defaults to the URDF file name)",
	},
	&cli.StringSliceFlag{
		Name:  jointsFlag,
		Usage: "driven joints in trajectory order (defaults to every movable joint)",
	},
	&cli.StringSliceFlag{
		Name:  packagePathFlag,
		Usage: "extra directories searched for package:// and model:// meshes",
	},
	&cli.BoolFlag{
		Name:  strictFlag,
		Usage: "fail on links whose visuals are all primitive shapes",
	},
}

var app = &cli.App{
	Name:            "robotanim",
	Usage:           "turn URDF robots and recorded motions into animated glTF scenes",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    configFlag,
			Aliases: []string{"c"},
			Usage:   "load run configuration from `FILE`",
		},
		&cli.BoolFlag{
			Name:    debugFlag,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.StringFlag{
			Name:  logFileFlag,
			Usage: "also write logs to `FILE`",
		},
	},
	Before: setupLoggerAction,
	After:  closeLoggerAction,
	Commands: []*cli.Command{
		{
			Name:   "inspect",
			Usage:  "print the joints and links of a robot description",
			Flags:  robotFlags,
			Action: InspectAction,
		},
		{
			Name:  "import",
			Usage: "import a robot's meshes and save the posed scene",
			Flags: append(append([]cli.Flag{}, robotFlags...),
				&cli.StringFlag{
					Name:    outputFlag,
					Aliases: []string{"o"},
					Usage:   "scene `FILE` to write, .glb or .gltf (defaults to <name>.glb)",
				},
			),
			Action: ImportAction,
		},
		{
			Name:  "animate",
			Usage: "import a robot, play a recorded trajectory through it and save the animated scene",
			Description: `Reads the trajectory (YAML or JSON with knots, Time, position, orientation and
joint_pos), keys one frame per knot at knots/Time frames per second and writes a glTF scene
with one animation.

Example:
robotanim animate --urdf model.urdf --joints hip,knee --trajectory jump.yaml --output jump.glb`,
			Flags: append(append([]cli.Flag{}, robotFlags...),
				&cli.StringFlag{
					Name:      trajectoryFlag,
					Aliases:   []string{"t"},
					Usage:     "recorded trajectory `FILE`",
					TakesFile: true,
				},
				&cli.StringFlag{
					Name:    outputFlag,
					Aliases: []string{"o"},
					Usage:   "scene `FILE` to write, .glb or .gltf (defaults to <name>.glb)",
				},
			),
			Action: AnimateAction,
		},
		{
			Name:  "plot",
			Usage: "plot the joint positions of a recorded trajectory",
			Flags: append(append([]cli.Flag{}, robotFlags...),
				&cli.StringFlag{
					Name:      trajectoryFlag,
					Aliases:   []string{"t"},
					Usage:     "recorded trajectory `FILE`",
					TakesFile: true,
				},
				&cli.StringFlag{
					Name:    outputFlag,
					Aliases: []string{"o"},
					Usage:   "image `FILE` to write (defaults to <trajectory>.png)",
				},
			),
			Action: PlotAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
