package adapters

import (
	"os"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"apt-resolve/internal/ports"
	"apt-resolve/internal/types"
)

type installedStateFileEntry struct {
	Version     string `yaml:"version"`
	InstallSize int64  `yaml:"install_size"`
	State       string `yaml:"state"`
	Essential   bool   `yaml:"essential"`
}

type installedStateFile struct {
	Installed map[string]installedStateFileEntry `yaml:"installed"`
}

// InstalledStateFileAdapter loads the caller's view of installed packages
// from a YAML fixture; the real status-file reader (dpkg's /var/lib/dpkg/
// status) is a collaborator outside core scope per spec.md §6 and §1's
// Non-goals.
type InstalledStateFileAdapter struct{}

func NewInstalledStateFileAdapter() *InstalledStateFileAdapter {
	return &InstalledStateFileAdapter{}
}

func (a *InstalledStateFileAdapter) Read(path string) (map[string]types.PkgStatus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("installed-state file not found: " + path).
			WithCause(err)
	}
	var raw installedStateFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid installed-state format").
			WithCause(err)
	}

	out := make(map[string]types.PkgStatus, len(raw.Installed))
	for name, entry := range raw.Installed {
		version, err := types.ParseVersion(entry.Version)
		if err != nil {
			return nil, err
		}
		out[name] = types.PkgStatus{
			Version:     version,
			InstallSize: entry.InstallSize,
			State:       types.InstallState(entry.State),
			Essential:   entry.Essential,
		}
	}
	return out, nil
}

var _ ports.InstalledStateReader = (*InstalledStateFileAdapter)(nil)
