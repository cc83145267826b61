package core

import "apt-resolve/internal/types"

// PlanOptions controls the non-core policy knobs the Planner boundary
// exposes to its caller (spec.md §4.8: "the caller decides policy").
type PlanOptions struct {
	// Purge marks names absent from R for purge rather than remove.
	Purge bool
	// Protect lists names that must never be removed or purged, even when
	// absent from R (SPEC_FULL.md §5 ignore-rule passthrough).
	Protect map[string]bool
}

// Plan diffs the resolved, sorted identifier set against installed state
// and produces the ordered action lists of spec.md §4.8.
func Plan(pool *types.Pool, installOrder []int, installed map[string]types.PkgStatus, opts PlanOptions) types.PlannedActions {
	var out types.PlannedActions
	resolvedNames := make(map[string]bool, len(installOrder))

	for _, p := range installOrder {
		meta, ok := pool.Get(p)
		if !ok {
			continue
		}
		resolvedNames[meta.Name] = true

		status, present := installed[meta.Name]
		if !present || isEffectivelyAbsent(status.State) {
			out.Install = append(out.Install, types.InstallAction{ID: p, Old: installedVersionOf(present, status)})
			continue
		}

		switch status.State {
		case types.StateInstalled:
			if status.Version.Equal(meta.Version) {
				continue
			}
			out.Install = append(out.Install, types.InstallAction{
				ID:  p,
				Old: &types.InstalledVersion{Version: status.Version, InstallSize: status.InstallSize},
			})
		case types.StateUnpacked, types.StateHalfConfigured, types.StateTriggerAwaited, types.StateTriggerPending:
			out.Configure = append(out.Configure, types.ConfigureAction{Name: meta.Name, Version: status.Version})
			if !status.Version.Equal(meta.Version) {
				out.Install = append(out.Install, types.InstallAction{
					ID:  p,
					Old: &types.InstalledVersion{Version: status.Version, InstallSize: status.InstallSize},
				})
			}
		}
	}

	for name, status := range installed {
		if resolvedNames[name] {
			continue
		}
		if opts.Protect[name] {
			out.Protected = append(out.Protected, name)
			continue
		}
		action := types.RemoveAction{Name: name, InstallSize: status.InstallSize, Essential: status.Essential}
		if opts.Purge {
			out.Purge = append(out.Purge, action)
		} else {
			out.Remove = append(out.Remove, action)
		}
	}

	return out
}

func isEffectivelyAbsent(state types.InstallState) bool {
	switch state {
	case types.StateNotInstalled, types.StateConfigFiles, types.StateHalfInstalled:
		return true
	default:
		return false
	}
}

func installedVersionOf(present bool, status types.PkgStatus) *types.InstalledVersion {
	if !present {
		return nil
	}
	return &types.InstalledVersion{Version: status.Version, InstallSize: status.InstallSize}
}
