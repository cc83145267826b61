package adapters

import (
	"os"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"apt-resolve/internal/ports"
	"apt-resolve/internal/types"
)

// blueprintFileEntry is the on-disk YAML shape of one Blueprint entry.
type blueprintFileEntry struct {
	Name         string `yaml:"name"`
	Requirement  string `yaml:"requirement"`
	UserVsVendor bool   `yaml:"user"`
	Local        bool   `yaml:"local"`
}

type blueprintFile struct {
	Packages []blueprintFileEntry `yaml:"packages"`
}

// BlueprintFileAdapter loads a Blueprint from a YAML fixture (spec.md §6:
// "blueprint/ignore-rule file formats" are out of core scope — only the
// parsed form is consumed; this is the demo boundary adapter).
type BlueprintFileAdapter struct{}

func NewBlueprintFileAdapter() *BlueprintFileAdapter {
	return &BlueprintFileAdapter{}
}

func (a *BlueprintFileAdapter) Read(path string) (types.Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Blueprint{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("blueprint file not found: " + path).
			WithCause(err)
	}
	var raw blueprintFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return types.Blueprint{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid blueprint format").
			WithCause(err)
	}

	entries := make([]types.BlueprintEntry, 0, len(raw.Packages))
	for _, p := range raw.Packages {
		req := types.VersionRequirement{}
		if p.Requirement != "" {
			parsed, err := types.ParseVersionRequirement(p.Requirement)
			if err != nil {
				return types.Blueprint{}, err
			}
			req = parsed
		}
		entries = append(entries, types.BlueprintEntry{
			Name:         p.Name,
			Requirement:  req,
			UserVsVendor: p.UserVsVendor,
			Local:        p.Local,
		})
	}
	return types.NewBlueprint(entries), nil
}

var _ ports.BlueprintReader = (*BlueprintFileAdapter)(nil)
