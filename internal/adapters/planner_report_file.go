package adapters

import (
	"os"
	"path/filepath"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"apt-resolve/internal/ports"
	"apt-resolve/internal/types"
)

type plannerReportInstallEntry struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	OldVersion  string `yaml:"old_version,omitempty"`
	DownloadURL string `yaml:"download_url,omitempty"`
}

type plannerReportRemoveEntry struct {
	Name      string `yaml:"name"`
	Essential bool   `yaml:"essential,omitempty"`
}

type plannerReportConfigureEntry struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type plannerReport struct {
	Install               []plannerReportInstallEntry   `yaml:"install"`
	Configure             []plannerReportConfigureEntry `yaml:"configure"`
	Remove                []plannerReportRemoveEntry    `yaml:"remove"`
	Purge                 []plannerReportRemoveEntry    `yaml:"purge"`
	Protected             []string                      `yaml:"protected,omitempty"`
	TotalDownloadSize     int64                         `yaml:"total_download_size"`
	EstimatedStorageDelta int64                         `yaml:"estimated_storage_delta"`
}

// PlannerReportFileAdapter renders a PlannedActions result as a YAML report
// (spec.md §6 "Planner output: the four ordered lists + aggregate sizes").
// The CLI's human-readable renderer and the installer's machine consumer are
// both out of core scope (spec.md §1 Non-goals); this adapter is the demo
// boundary writer in the same vein as the teacher's output adapters.
type PlannerReportFileAdapter struct{}

func NewPlannerReportFileAdapter() *PlannerReportFileAdapter {
	return &PlannerReportFileAdapter{}
}

func (a *PlannerReportFileAdapter) WritePlan(dir string, plan types.PlannedActions, pool *types.Pool) error {
	report := plannerReport{
		Protected:             plan.Protected,
		TotalDownloadSize:     plan.TotalDownloadSize(pool),
		EstimatedStorageDelta: plan.EstimatedStorageDelta(pool),
	}

	for _, action := range plan.Install {
		meta, ok := pool.Get(action.ID)
		if !ok {
			continue
		}
		entry := plannerReportInstallEntry{Name: meta.Name, Version: meta.Version.String()}
		if action.Old != nil {
			entry.OldVersion = action.Old.Version.String()
		}
		if meta.Source.Remote != nil {
			entry.DownloadURL = meta.Source.Remote.URL
		}
		report.Install = append(report.Install, entry)
	}
	for _, c := range plan.Configure {
		report.Configure = append(report.Configure, plannerReportConfigureEntry{Name: c.Name, Version: c.Version.String()})
	}
	for _, r := range plan.Remove {
		report.Remove = append(report.Remove, plannerReportRemoveEntry{Name: r.Name, Essential: r.Essential})
	}
	for _, r := range plan.Purge {
		report.Purge = append(report.Purge, plannerReportRemoveEntry{Name: r.Name, Essential: r.Essential})
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("cannot create report directory: " + dir).
			WithCause(err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("cannot render plan report").
			WithCause(err)
	}

	path := filepath.Join(dir, "plan.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("cannot write plan report: " + path).
			WithCause(err)
	}
	return nil
}

var _ ports.PlanWriter = (*PlannerReportFileAdapter)(nil)
