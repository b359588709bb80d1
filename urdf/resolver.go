package urdf

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/robotanim/utils"
)

// URI schemes accepted in mesh filenames.
const (
	PackageScheme = "package://"
	ModelScheme   = "model://"
	FileScheme    = "file://"
)

// ErrMeshNotFound is returned when no candidate location for a mesh URI exists on disk.
var ErrMeshNotFound = errors.New("mesh file not found")

// NewUnsupportedSchemeError is used when a mesh URI uses a scheme that cannot be read from disk.
func NewUnsupportedSchemeError(uri string) error {
	return errors.Errorf("unsupported URI scheme in mesh filename %q", uri)
}

// Resolver maps mesh filenames found in a URDF to local file paths.
type Resolver struct {
	searchPaths []string
}

// NewResolver returns a resolver which looks up package:// and model:// URIs under the given directories.
func NewResolver(searchPaths ...string) *Resolver {
	return &Resolver{searchPaths: searchPaths}
}

// NewResolverFromEnv returns a resolver searching the given directories first and then
// the ones listed by the ROS, ament and Gazebo environment variables.
func NewResolverFromEnv(searchPaths ...string) *Resolver {
	return NewResolver(append(append([]string{}, searchPaths...), utils.MeshSearchPathsFromEnv()...)...)
}

// SearchPaths returns the directories consulted for package:// and model:// URIs.
func (r *Resolver) SearchPaths() []string {
	return r.searchPaths
}

// Resolve returns the local path of a mesh filename. Plain relative paths are taken relative to
// baseDir. package://name/rest and model://name/rest are looked up as name/rest under every search
// path, under baseDir and its ancestors, and finally as rest under baseDir.
func (r *Resolver) Resolve(uri, baseDir string) (string, error) {
	var candidates []string
	switch {
	case strings.HasPrefix(uri, PackageScheme):
		candidates = r.packageCandidates(strings.TrimPrefix(uri, PackageScheme), baseDir)
	case strings.HasPrefix(uri, ModelScheme):
		candidates = r.packageCandidates(strings.TrimPrefix(uri, ModelScheme), baseDir)
	case strings.HasPrefix(uri, FileScheme):
		candidates = []string{localPath(strings.TrimPrefix(uri, FileScheme), baseDir)}
	case strings.Contains(uri, "://"):
		return "", NewUnsupportedSchemeError(uri)
	default:
		candidates = []string{localPath(uri, baseDir)}
	}
	for _, c := range candidates {
		if utils.FileExists(c) {
			return c, nil
		}
	}
	return "", errors.Wrapf(ErrMeshNotFound, "%q (tried %s)", uri, strings.Join(candidates, ", "))
}

func localPath(p, baseDir string) string {
	if filepath.IsAbs(p) || baseDir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(baseDir, p)
}

func (r *Resolver) packageCandidates(rest, baseDir string) []string {
	pkg, inner, found := strings.Cut(rest, "/")
	if !found {
		return nil
	}
	var candidates []string
	for _, dir := range r.searchPaths {
		// package relative paths may not climb out of the search path
		if c, err := utils.SafeJoinDir(dir, filepath.Join(pkg, inner)); err == nil {
			candidates = append(candidates, c)
		}
		if filepath.Base(dir) == pkg {
			if c, err := utils.SafeJoinDir(dir, inner); err == nil {
				candidates = append(candidates, c)
			}
		}
	}
	if baseDir != "" {
		for dir := filepath.Clean(baseDir); ; dir = filepath.Dir(dir) {
			if filepath.Base(dir) == pkg {
				candidates = append(candidates, filepath.Join(dir, inner))
			}
			candidates = append(candidates, filepath.Join(dir, pkg, inner))
			if parent := filepath.Dir(dir); parent == dir {
				break
			}
		}
		candidates = append(candidates, filepath.Join(baseDir, inner))
	}
	return candidates
}
