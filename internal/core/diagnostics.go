package core

import "apt-resolve/internal/types"

// ExplainCandidates renders the multi-candidate listing mode
// (SPEC_FULL.md §5, grounded on original_source/src/actions/pick.rs): for
// every name with a candidate in the minimal unsat core, list every version
// of that name present in the pool, noting whether it is the one actually
// implicated in the conflict. This is the data a "pick a different version"
// prompt would be built from; prompting itself stays a CLI concern.
func ExplainCandidates(pool *types.Pool, core []int) []types.CandidateExplanation {
	inCore := make(map[int]bool, len(core))
	for _, lit := range core {
		inCore[absInt(lit)] = true
	}

	seenNames := make(map[string]bool)
	var out []types.CandidateExplanation
	for _, lit := range core {
		meta, ok := pool.Get(absInt(lit))
		if !ok || seenNames[meta.Name] {
			continue
		}
		seenNames[meta.Name] = true

		for _, id := range pool.ByName(meta.Name) {
			m, _ := pool.Get(id)
			reason := "not part of the minimal conflicting set"
			if inCore[id] {
				reason = "part of the minimal conflicting set"
			}
			out = append(out, types.CandidateExplanation{
				Name:    m.Name,
				Version: m.Version.String(),
				Reason:  reason,
			})
		}
	}
	return out
}

// minimalUnsatCore computes a minimal unsatisfiable subset of seed (a set of
// unit assumption literals known to be jointly UNSAT against problem) by
// deletion search: each literal is tried for removal in turn; removal is
// kept permanently if the shrunken set is still UNSAT. Processing every
// literal once this way yields a subset that is both UNSAT and minimal (no
// single remaining literal can be dropped without becoming SAT) — spec.md
// §4.7's "ask the SAT solver for its failed-core" built atop the plain
// solve primitive, per the design note in §9 (see DESIGN.md's sat.go entry
// for why gophersat's own API isn't used directly here).
func minimalUnsatCore(problem *satProblem, seed []int) []int {
	core := append([]int(nil), seed...)
	for _, lit := range seed {
		trial := removeOne(core, lit)
		if len(trial) == len(core) {
			continue // already removed earlier in the scan
		}
		if res := problem.solve(trial); !res.SAT {
			core = trial
		}
	}
	return core
}

func removeOne(lits []int, target int) []int {
	out := make([]int, 0, len(lits))
	removed := false
	for _, l := range lits {
		if !removed && l == target {
			removed = true
			continue
		}
		out = append(out, l)
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
