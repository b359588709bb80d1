package utils

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
)

const (
	// ROSPackagePathEnvVar lists ROS 1 package roots, searched when resolving package:// URIs.
	ROSPackagePathEnvVar = "ROS_PACKAGE_PATH"

	// AmentPrefixPathEnvVar lists ROS 2 install prefixes. Packages live under <prefix>/share.
	AmentPrefixPathEnvVar = "AMENT_PREFIX_PATH"

	// GazeboModelPathEnvVar lists Gazebo model directories, searched when resolving model:// URIs.
	GazeboModelPathEnvVar = "GAZEBO_MODEL_PATH"

	// MeshPathEnvVar lists extra directories to search for meshes, ahead of everything else.
	MeshPathEnvVar = "ROBOTANIM_MESH_PATH"
)

// MeshSearchPathsFromEnv returns the directories named by the mesh related environment
// variables, in lookup order and without duplicates.
func MeshSearchPathsFromEnv() []string {
	var paths []string
	paths = append(paths, splitEnvList(MeshPathEnvVar)...)
	paths = append(paths, splitEnvList(ROSPackagePathEnvVar)...)
	for _, prefix := range splitEnvList(AmentPrefixPathEnvVar) {
		paths = append(paths, filepath.Join(prefix, "share"))
	}
	paths = append(paths, splitEnvList(GazeboModelPathEnvVar)...)
	return lo.Uniq(paths)
}

func splitEnvList(name string) []string {
	return lo.Filter(filepath.SplitList(os.Getenv(name)), func(p string, _ int) bool {
		return p != ""
	})
}
