package core

import "apt-resolve/internal/types"

// Warning is a recoverable rule-generation notice: an uninstallable
// dependency was turned into a forbidding unit clause rather than aborting
// the whole pool (spec.md §4.4).
type Warning struct {
	PackageID      int
	DependencyName string
	Message        string

	// Essential is set when the package the unit clause forbids is itself
	// tagged essential, so diagnostics can surface "this removes an
	// essential package" distinctly from an ordinary unsatisfied dependency.
	Essential bool
}

// GenerateClauses emits the CNF encoding of spec.md §4.4 for the given Pool.
// When subset is non-nil, only packages in subset get clauses, and
// dependency/exclusion resolution is filtered to subset (the "subset mode"
// of spec.md §4.4). Resolve and Diagnose pass a nil subset; the reduction
// step (§4.5 step 4) works through assumption literals, not subset mode.
func GenerateClauses(pool *types.Pool, subset []int) ([][]int, []Warning) {
	var inSubset func(id int) bool
	if subset == nil {
		inSubset = func(int) bool { return true }
	} else {
		set := make(map[int]bool, len(subset))
		for _, id := range subset {
			set[id] = true
		}
		inSubset = func(id int) bool { return set[id] }
	}

	var clauses [][]int
	var warnings []Warning

	for _, p := range pool.IterIDs() {
		if !inSubset(p) {
			continue
		}
		meta, _ := pool.Get(p)

		for _, group := range meta.Depends {
			var candidates []int
			seen := make(map[int]bool)
			for _, alt := range group.Alternatives {
				for _, id := range matchingCandidates(pool, alt, inSubset) {
					if !seen[id] {
						seen[id] = true
						candidates = append(candidates, id)
					}
				}
			}
			if len(candidates) == 0 {
				clauses = append(clauses, []int{-p})
				warnings = append(warnings, Warning{
					PackageID:      p,
					DependencyName: groupLabel(group),
					Message:        "no candidate satisfies dependency; package marked uninstallable",
					Essential:      meta.Essential,
				})
				continue
			}
			clause := append([]int{-p}, candidates...)
			clauses = append(clauses, clause)
		}

		for _, excl := range append(append([]types.Relation{}, meta.Breaks...), meta.Conflicts...) {
			for _, q := range matchingCandidates(pool, excl, inSubset) {
				clauses = append(clauses, []int{-p, -q})
			}
		}
	}

	clauses = append(clauses, atMostOneClauses(pool, inSubset)...)

	return clauses, warnings
}

// groupLabel joins a dependency group's alternative names with "|" for
// warning text, e.g. "b|c".
func groupLabel(group types.DependencyGroup) string {
	if len(group.Alternatives) == 1 {
		return group.Alternatives[0].Name
	}
	label := ""
	for i, alt := range group.Alternatives {
		if i > 0 {
			label += "|"
		}
		label += alt.Name
	}
	return label
}

// matchingCandidates resolves a relation to the set of ids that satisfy it:
// direct name matches plus providers of a matching virtual name, both
// filtered by inSubset and deduplicated.
func matchingCandidates(pool *types.Pool, rel types.Relation, inSubset func(int) bool) []int {
	seen := make(map[int]bool)
	var out []int
	for _, id := range pool.ByName(rel.Name) {
		if !inSubset(id) {
			continue
		}
		meta, _ := pool.Get(id)
		if !rel.Requirement.Contains(meta.Version) {
			continue
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, meta := range pool.FindAllProviders(rel.Name, rel.Requirement) {
		if !inSubset(meta.ID) || seen[meta.ID] {
			continue
		}
		seen[meta.ID] = true
		out = append(out, meta.ID)
	}
	return out
}

// atMostOneClauses emits the pairwise "at most one version per name"
// exclusion described in spec.md §4.4.
func atMostOneClauses(pool *types.Pool, inSubset func(int) bool) [][]int {
	var clauses [][]int
	for _, name := range pool.IterNames() {
		var ids []int
		for _, id := range pool.ByName(name) {
			if inSubset(id) {
				ids = append(ids, id)
			}
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				clauses = append(clauses, []int{-ids[i], -ids[j]})
			}
		}
	}
	return clauses
}
