package workspace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/stackscope/pkg/errors"
)

// ManifestFile is the file name that marks a directory as a workspace project.
const ManifestFile = "package.json"

// ReadManifest parses the package.json at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data, path)
}

// ParseManifest decodes package.json content. The source argument is only
// used in error messages.
func ParseManifest(data []byte, source string) (*Manifest, error) {
	var pkg packageFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", source)
	}
	if err := errors.ValidateProjectName(pkg.Name); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	return &Manifest{
		Name:                 pkg.Name,
		Version:              pkg.Version,
		Dependencies:         pkg.Dependencies,
		DevDependencies:      pkg.DevDependencies,
		OptionalDependencies: pkg.OptionalDependencies,
		PeerDependencies:     pkg.PeerDependencies,
		Workspaces:           pkg.Workspaces,
	}, nil
}

// LoadProject reads the manifest in dir and returns the project rooted there.
func LoadProject(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", dir)
	}
	m, err := ReadManifest(filepath.Join(abs, ManifestFile))
	if err != nil {
		return nil, err
	}
	return &Project{Dir: abs, Manifest: *m}, nil
}

type packageFile struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	Workspaces           workspacesField   `json:"workspaces"`
}

// workspacesField accepts both the array form and the {"packages": [...]}
// object form of the "workspaces" field.
type workspacesField []string

func (w *workspacesField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*w = list
		return nil
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*w = obj.Packages
	return nil
}
