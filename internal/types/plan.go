package types

// InstallAction is a single install/upgrade/downgrade entry. The planner
// does not itself distinguish upgrade from downgrade — Old is populated
// whenever a previous version existed and renderers compare versions
// themselves (spec.md §4.8).
type InstallAction struct {
	ID  int
	Old *InstalledVersion
}

// InstalledVersion is the previously-installed (version, install_size) pair
// surfaced alongside an InstallAction or RemoveAction.
type InstalledVersion struct {
	Version     Version
	InstallSize int64
}

// ConfigureAction reconfigures a package left in a partially-applied dpkg
// state without necessarily changing its version.
type ConfigureAction struct {
	Name    string
	Version Version
}

// RemoveAction is a package present in installed state but absent from the
// resolved set.
type RemoveAction struct {
	Name        string
	InstallSize int64
	Essential   bool
}

// PlannedActions is the Planner boundary's public result: spec.md §6
// "four ordered lists... plus aggregate sizes".
type PlannedActions struct {
	Install   []InstallAction
	Configure []ConfigureAction
	Remove    []RemoveAction
	Purge     []RemoveAction

	// Protected lists names excluded from Remove/Purge by an ignore-rule
	// passthrough (SPEC_FULL.md §5 supplemented feature); they are reported
	// separately rather than silently dropped.
	Protected []string
}

// TotalDownloadSize sums download_size over remote Install entries.
func (p PlannedActions) TotalDownloadSize(pool *Pool) int64 {
	var total int64
	for _, action := range p.Install {
		meta, ok := pool.Get(action.ID)
		if !ok {
			continue
		}
		if meta.Source.Remote != nil {
			total += meta.Source.Remote.DownloadSize
		}
	}
	return total
}

// EstimatedStorageDelta computes Σ(new.install_size - old.install_size) over
// Install entries, minus Σ removed.install_size, per spec.md §4.8.
func (p PlannedActions) EstimatedStorageDelta(pool *Pool) int64 {
	var delta int64
	for _, action := range p.Install {
		meta, ok := pool.Get(action.ID)
		if !ok {
			continue
		}
		delta += meta.InstallSize
		if action.Old != nil {
			delta -= action.Old.InstallSize
		}
	}
	for _, r := range p.Remove {
		delta -= r.InstallSize
	}
	for _, r := range p.Purge {
		delta -= r.InstallSize
	}
	return delta
}
