// Package config reads the YAML run configuration used by the command line tool.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"go.viam.com/robotanim/logging"
	"go.viam.com/robotanim/utils"
)

// Config describes one import or animation run.
type Config struct {
	Robot      RobotConfig `yaml:"robot"`
	Trajectory string      `yaml:"trajectory"`
	Output     string      `yaml:"output"`
	Log        LogConfig   `yaml:"log"`
}

// RobotConfig selects the robot description and the joints that are driven.
type RobotConfig struct {
	Name string `yaml:"name"`
	URDF string `yaml:"urdf"`
	// Joints lists the driven joints in trajectory order. When omitted every movable joint is
	// driven in document order.
	Joints        []string `yaml:"joints"`
	PackagePaths  []string `yaml:"package_paths"`
	StrictVisuals bool     `yaml:"strict_visuals"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns a Config with every optional value filled in.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the config file at path over the defaults, fills derived values and resolves
// relative paths against the file's directory.
func Load(path string) (*Config, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Read(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading config from %s", path)
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	cfg.ResolvePaths(dir)
	return cfg, nil
}

// Read parses YAML config data over the defaults. Environment variables written as $VAR or
// ${VAR} are expanded first. Unknown keys are an error.
func Read(data []byte) (*Config, error) {
	expanded, err := envsubst.Bytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "expanding environment variables")
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills values derived from other fields. The robot name defaults to the URDF file
// name and the output to "<name>.glb".
func (c *Config) ApplyDefaults() {
	if c.Robot.Name == "" && c.Robot.URDF != "" {
		c.Robot.Name = strings.TrimSuffix(filepath.Base(c.Robot.URDF), filepath.Ext(c.Robot.URDF))
	}
	if c.Output == "" && c.Robot.Name != "" {
		c.Output = c.Robot.Name + ".glb"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ResolvePaths makes every relative path in the config relative to dir.
func (c *Config) ResolvePaths(dir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Robot.URDF = resolve(c.Robot.URDF)
	for i, p := range c.Robot.PackagePaths {
		c.Robot.PackagePaths[i] = resolve(p)
	}
	c.Trajectory = resolve(c.Trajectory)
	c.Output = resolve(c.Output)
	c.Log.File = resolve(c.Log.File)
}

// Validate reports every problem with the config. A trajectory is only required when
// needTrajectory is set.
func (c *Config) Validate(needTrajectory bool) error {
	var err error
	if c.Robot.URDF == "" {
		err = multierr.Append(err, errors.New("robot.urdf is required"))
	} else if !utils.FileExists(c.Robot.URDF) {
		err = multierr.Append(err, errors.Errorf("robot.urdf %q does not exist", c.Robot.URDF))
	}
	if c.Robot.Name == "" {
		err = multierr.Append(err, errors.New("robot.name is required"))
	}
	seen := map[string]bool{}
	for _, j := range c.Robot.Joints {
		if seen[j] {
			err = multierr.Append(err, errors.Errorf("robot.joints lists %q more than once", j))
		}
		seen[j] = true
	}
	if needTrajectory {
		if c.Trajectory == "" {
			err = multierr.Append(err, errors.New("trajectory is required"))
		} else if !utils.FileExists(c.Trajectory) {
			err = multierr.Append(err, errors.Errorf("trajectory %q does not exist", c.Trajectory))
		}
	}
	switch strings.ToLower(filepath.Ext(c.Output)) {
	case ".glb", ".gltf":
	default:
		err = multierr.Append(err, errors.Errorf("output %q must end in .glb or .gltf", c.Output))
	}
	if _, levelErr := logging.ParseLevel(c.Log.Level); levelErr != nil {
		err = multierr.Append(err, levelErr)
	}
	return err
}
