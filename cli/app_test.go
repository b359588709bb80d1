package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.viam.com/robotanim/utils"
)

var (
	walkerURDF = utils.ResolveFile("rig/testdata/walker.urdf")
	hopYAML    = utils.ResolveFile("trajectory/testdata/hop.yaml")
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	err := NewApp(out, errOut).Run(append([]string{"robotanim"}, args...))
	return out.String(), err
}

func TestInspectAction(t *testing.T) {
	out, err := run(t, "inspect", "--urdf", walkerURDF)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "walker (root base_link, 2 DoF)")
	test.That(t, out, test.ShouldContainSubstring, "knee")
	test.That(t, out, test.ShouldContainSubstring, "[0.00, 143.24] deg")
	test.That(t, out, test.ShouldContainSubstring, "walker links")
	test.That(t, out, test.ShouldContainSubstring, "meshes/shin.ply")
	test.That(t, out, test.ShouldContainSubstring, "box")

	out, err = run(t, "inspect", "--urdf", utils.ResolveFile("rig/testdata/dae.urdf"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "unsupported format")

	_, err = run(t, "inspect")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = run(t, "inspect", "--urdf", walkerURDF, "--joints", "ankle")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestImportAction(t *testing.T) {
	output := filepath.Join(t.TempDir(), "walker.gltf")
	out, err := run(t, "import", "--urdf", walkerURDF, "--output", output)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, `Imported 3 meshes of "walker"`)
	test.That(t, utils.FileExists(output), test.ShouldBeTrue)

	_, err = run(t, "import", "--urdf", utils.ResolveFile("rig/testdata/dae.urdf"),
		"--output", filepath.Join(t.TempDir(), "dae.glb"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unsupported mesh file format")

	_, err = run(t, "import", "--urdf", walkerURDF, "--output", filepath.Join(t.TempDir(), "walker.obj"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestAnimateAction(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "hop.glb")
	out, err := run(t, "--log-file", filepath.Join(dir, "run.log"), "animate",
		"--urdf", walkerURDF, "--joints", "hip,knee", "--trajectory", hopYAML, "--output", output)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "over 4 knots")
	test.That(t, utils.FileExists(output), test.ShouldBeTrue)
	test.That(t, utils.FileExists(filepath.Join(dir, "run.log")), test.ShouldBeTrue)

	// the config file supplies everything but the output
	output = filepath.Join(dir, "configured.glb")
	_, err = run(t, "--config", utils.ResolveFile("config/testdata/walker.yaml"), "--log-file", filepath.Join(dir, "configured.log"),
		"animate", "--output", output)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, utils.FileExists(output), test.ShouldBeTrue)

	_, err = run(t, "animate", "--urdf", walkerURDF, "--joints", "hip", "--trajectory", hopYAML,
		"--output", filepath.Join(dir, "bad.glb"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = run(t, "animate", "--urdf", walkerURDF, "--output", filepath.Join(dir, "none.glb"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "trajectory is required")
}

func TestPlotAction(t *testing.T) {
	output := filepath.Join(t.TempDir(), "joints.png")
	out, err := run(t, "plot", "--urdf", walkerURDF, "--trajectory", hopYAML, "--output", output)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "Plotted 2 joints")
	test.That(t, utils.FileExists(output), test.ShouldBeTrue)

	_, err = run(t, "plot")
	test.That(t, err, test.ShouldNotBeNil)
}
