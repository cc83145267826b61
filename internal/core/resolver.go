package core

import (
	"sort"
	"time"

	"apt-resolve/internal/types"
)

// Resolve runs spec.md §4.5's seed → initial-solve → upgrade-loop →
// reduction → final-upgrade-loop algorithm against a finalized Pool and
// Blueprint, returning the feasible identifier set R. Grounded on
// original_source/src/solver/mod.rs's Solver.install, adapted from
// varisat's incremental assume/solve API to the rebuild-per-call satProblem
// wrapper (see sat.go), and on spec.md's stuck-set upgrade-loop termination
// rule (stricter than the original's single-shot upgrade attempt).
func Resolve(pool *types.Pool, bp types.Blueprint) ([]int, error) {
	r, _, err := resolveTimed(pool, bp)
	return r, err
}

// ResolveTiming is the per-phase wall-clock breakdown the bench/dry-run
// supplemented action reports (SPEC_FULL.md §5, grounded on
// original_source/src/actions/bench.rs).
type ResolveTiming struct {
	Seed         time.Duration
	InitialSolve time.Duration
	Upgrade      time.Duration
	Reduce       time.Duration
	FinalUpgrade time.Duration
}

// ResolveWithTiming runs the identical algorithm Resolve does, additionally
// timing each phase — the CLI's `resolve --dry-run` surfaces this without
// requiring a Planner boundary call.
func ResolveWithTiming(pool *types.Pool, bp types.Blueprint) ([]int, ResolveTiming, error) {
	return resolveTimed(pool, bp)
}

func resolveTimed(pool *types.Pool, bp types.Blueprint) ([]int, ResolveTiming, error) {
	var timing ResolveTiming

	seedStart := time.Now()
	seedUnits, vendorPinned, err := seedBlueprint(pool, bp)
	timing.Seed = time.Since(seedStart)
	if err != nil {
		return nil, timing, err
	}

	baseClauses, _ := GenerateClauses(pool, nil)
	problem := newSATProblem(pool, baseClauses)

	initialStart := time.Now()
	initial := problem.solve(seedUnits)
	timing.InitialSolve = time.Since(initialStart)
	if !initial.SAT {
		core := minimalUnsatCore(problem, seedUnits)
		candidates := make([]types.UnsatCandidate, len(core))
		for i, lit := range core {
			meta, _ := pool.Get(absInt(lit))
			candidates[i] = types.UnsatCandidate{Name: meta.Name, Version: meta.Version}
		}
		diagnostic := types.RenderUnsatDiagnostic(candidates)
		return nil, timing, types.ErrUnsolvable(candidates, diagnostic)
	}
	R := trueIDs(initial.Model)
	if err := checkAtMostOnePerName(pool, R); err != nil {
		return nil, timing, err
	}

	upgradeStart := time.Now()
	assume := upgradeLoop(pool, problem, seedUnits, &R)
	timing.Upgrade = time.Since(upgradeStart)

	reduceStart := time.Now()
	assume = reduce(pool, problem, seedUnits, assume, &R, vendorPinned)
	timing.Reduce = time.Since(reduceStart)

	finalStart := time.Now()
	upgradeLoop(pool, problem, seedUnits, &R, assume...)
	timing.FinalUpgrade = time.Since(finalStart)

	if err := checkAtMostOnePerName(pool, R); err != nil {
		return nil, timing, err
	}
	return R, timing, nil
}

// seedBlueprint runs spec.md §4.5 step 1 for every blueprint entry, also
// collecting the subset of seed ids whose entry was vendor-pinned.
func seedBlueprint(pool *types.Pool, bp types.Blueprint) ([]int, map[int]bool, error) {
	seedUnits := make([]int, 0, len(bp.Entries))
	vendorPinned := map[int]bool{}
	for _, entry := range bp.Entries {
		id, err := pickBest(pool, entry.Name, entry.Requirement, entry.Local)
		if err != nil {
			return nil, nil, err
		}
		seedUnits = append(seedUnits, id)
		if entry.UserVsVendor {
			vendorPinned[id] = true
		}
	}
	return seedUnits, vendorPinned, nil
}

// Diagnose is the "pick a different version" supplemented action
// (SPEC_FULL.md §5, grounded on original_source/src/actions/pick.rs): a
// caller-invoked, separate-from-Resolve pass that re-seeds and re-solves a
// blueprint purely to surface the multi-candidate listing for every name
// implicated in the conflict. Returns (nil, nil) when the blueprint is
// actually satisfiable — there is nothing to explain.
func Diagnose(pool *types.Pool, bp types.Blueprint) ([]types.CandidateExplanation, error) {
	seedUnits, _, err := seedBlueprint(pool, bp)
	if err != nil {
		return nil, err
	}
	baseClauses, _ := GenerateClauses(pool, nil)
	problem := newSATProblem(pool, baseClauses)
	res := problem.solve(seedUnits)
	if res.SAT {
		return nil, nil
	}
	core := minimalUnsatCore(problem, seedUnits)
	return ExplainCandidates(pool, core), nil
}

// pickBest mirrors Pool.PickBest but additionally restricts the candidate to
// a local-source one when the blueprint entry carries spec.md §3's `local`
// flag ("must resolve to a local-source candidate").
func pickBest(pool *types.Pool, name string, req types.VersionRequirement, localOnly bool) (int, error) {
	if !localOnly {
		return pool.PickBest(name, req)
	}
	for _, id := range pool.ByName(name) {
		meta, ok := pool.Get(id)
		if !ok || !req.Contains(meta.Version) {
			continue
		}
		if meta.Source.IsLocal() {
			return id, nil
		}
	}
	return 0, types.ErrNoCandidate(name, req)
}

// checkAtMostOnePerName guards against a SAT model inconsistent with the
// at-most-one-per-name clause GenerateClauses always emits: such a model
// would mean the solver returned a result its own formula forbids, which
// spec.md §7 treats as an InternalSolverError rather than a resolver bug to
// silently tolerate.
func checkAtMostOnePerName(pool *types.Pool, r []int) error {
	perName := map[string]int{}
	for _, id := range r {
		meta, ok := pool.Get(id)
		if !ok {
			return types.ErrInternalSolver("model selected an id absent from the pool")
		}
		perName[meta.Name]++
		if perName[meta.Name] > 1 {
			return types.ErrInternalSolver("model selected more than one candidate for name " + meta.Name)
		}
	}
	return nil
}

// upgradeLoop implements spec.md §4.5 step 3 (and step 5, reusing the same
// monotonically growing assumption set): repeatedly try to force every
// non-latest name onto a newer version, stopping once the set of non-latest
// names equals the set of names that cannot be improved ("stuck").
func upgradeLoop(pool *types.Pool, problem *satProblem, seedUnits []int, R *[]int, carry ...int) []int {
	assume := append([]int(nil), carry...)
	stuck := map[string]bool{}

	for {
		nonLatest := computeNonLatest(pool, *R)
		if len(nonLatest) == 0 {
			break
		}
		if stuckSetMatches(nonLatest, stuck) {
			break
		}

		progressed := false
		for _, name := range orderedNames(nonLatest) {
			olderLits := nonLatest[name]
			trial := append(append([]int(nil), assume...), olderLits...)
			full := append(append([]int(nil), seedUnits...), trial...)
			res := problem.solve(full)
			if res.SAT {
				assume = trial
				*R = trueIDs(res.Model)
				delete(stuck, name)
				progressed = true
			} else {
				stuck[name] = true
			}
		}
		if !progressed {
			break
		}
	}
	return assume
}

// reduce implements spec.md §4.5 step 4: try dropping each chosen package,
// keeping the removal only if it doesn't regress the non-latest count.
// Vendor-pinned seeds (spec.md §3: vendor entries are immutable from the
// resolver's perspective) are never attempted.
func reduce(pool *types.Pool, problem *satProblem, seedUnits []int, assume []int, R *[]int, vendorPinned map[int]bool) []int {
	snapshot := append([]int(nil), *R...)
	sortAscending(snapshot)

	for _, p := range snapshot {
		if vendorPinned[p] {
			continue
		}
		before := len(computeNonLatest(pool, *R))
		trial := append(append([]int(nil), assume...), -p)
		full := append(append([]int(nil), seedUnits...), trial...)
		res := problem.solve(full)
		if !res.SAT {
			continue // keep p; dropping it is infeasible
		}
		candidateR := trueIDs(res.Model)
		after := len(computeNonLatest(pool, candidateR))
		if after > before {
			continue // regresses the upgrade state; keep p
		}
		assume = trial
		*R = candidateR
	}
	return assume
}

// computeNonLatest returns, for every name in R with more than one
// candidate whose chosen id is not the newest, the negated literals of that
// id and every candidate at least as old (spec.md §4.5 step 3). Because the
// at-most-one-per-name clause holds, R contains at most one id per name.
func computeNonLatest(pool *types.Pool, R []int) map[string][]int {
	out := map[string][]int{}
	for _, r := range R {
		meta, ok := pool.Get(r)
		if !ok {
			continue
		}
		ids := pool.ByName(meta.Name)
		if len(ids) <= 1 || ids[0] == r {
			continue
		}
		idx := indexOf(ids, r)
		if idx < 0 {
			continue
		}
		lits := make([]int, 0, len(ids)-idx)
		for _, id := range ids[idx:] {
			lits = append(lits, -id)
		}
		out[meta.Name] = lits
	}
	return out
}

func stuckSetMatches(nonLatest map[string][]int, stuck map[string]bool) bool {
	if len(nonLatest) != len(stuck) {
		return false
	}
	for name := range nonLatest {
		if !stuck[name] {
			return false
		}
	}
	return true
}

// orderedNames returns the map's keys in a fixed deterministic order
// (lexicographic) so the upgrade loop's literal accumulation order, and
// therefore its result, is reproducible.
func orderedNames(m map[string][]int) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func indexOf(ids []int, target int) int {
	for i, id := range ids {
		if id == target {
			return i
		}
	}
	return -1
}

func sortAscending(ids []int) {
	sort.Ints(ids)
}
