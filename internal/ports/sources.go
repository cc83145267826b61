package ports

import (
	"context"

	"apt-resolve/internal/types"
)

// RepoIndexSource populates a Pool from a remote repository index (spec.md
// §4.3 "Sources: repo-index adapter"). Malformed paragraphs are skipped and
// reported as ParseWarning rather than aborting the whole index. baseURL is
// both where the index itself is fetched from and the prefix joined onto
// each paragraph's Filename to form its download URL (spec.md §4.3).
type RepoIndexSource interface {
	Populate(ctx context.Context, pool *types.Pool, baseURL string) ([]types.ParseWarning, error)
}

// LocalArchiveSource populates a Pool with the single candidate described by
// one local .deb archive's control member (spec.md §4.3 "Sources:
// local-archive adapter"). A malformed archive is fatal, per spec.md §7.
type LocalArchiveSource interface {
	PopulateOne(pool *types.Pool, path string) error
}

// BlueprintReader loads the ordered, de-duped set of names the caller wants
// installed (spec.md §3 "Blueprint").
type BlueprintReader interface {
	Read(path string) (types.Blueprint, error)
}

// InstalledStateReader loads the caller's view of currently-installed
// packages, keyed by name (spec.md §6 "installed-state reader").
type InstalledStateReader interface {
	Read(path string) (map[string]types.PkgStatus, error)
}

// PlanWriter renders a PlannedActions result to the caller's chosen sink
// (spec.md §6 "Planner output").
type PlanWriter interface {
	WritePlan(dir string, plan types.PlannedActions, pool *types.Pool) error
}
