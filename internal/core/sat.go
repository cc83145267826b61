package core

import (
	"github.com/crillab/gophersat/solver"

	"apt-resolve/internal/types"
)

// satProblem is the reusable, immutable half of a gophersat invocation: the
// base CNF clauses (rule generation, §4.4) plus a cost function that breaks
// ties toward fewer, newer packages. Assumptions are layered on top as extra
// unit clauses per call, since gophersat's public API (demonstrated by
// solveSAT in the teacher's apt_solver.go) offers no incremental
// assume/retract primitive to build on — see DESIGN.md's sat.go entry.
type satProblem struct {
	clauses  [][]int
	nbVars   int
	costLits []solver.Lit
	costWts  []int
}

// newSATProblem builds the base clause set and cost function from a
// finalized Pool: one cost-weighted literal per candidate, weighted so that
// leaving a candidate unselected is always cheaper than selecting it, and
// among selected candidates a newer version is cheaper than an older one of
// the same name.
func newSATProblem(pool *types.Pool, clauses [][]int) *satProblem {
	p := &satProblem{clauses: clauses, nbVars: maxVar(pool)}
	for _, name := range pool.IterNames() {
		ids := pool.ByName(name)
		for rank, id := range ids {
			p.costLits = append(p.costLits, solver.IntToLit(int32(id)))
			p.costWts = append(p.costWts, rank+1)
		}
	}
	return p
}

func maxVar(pool *types.Pool) int {
	max := 0
	for _, id := range pool.IterIDs() {
		if id > max {
			max = id
		}
	}
	return max
}

// solveResult is the outcome of a single SAT invocation.
type solveResult struct {
	SAT   bool
	Model []bool // 0-indexed: Model[id-1] is the truth value of variable id
}

// solve runs the base clauses plus one unit clause per assumption literal
// (positive id = forced true, negative id = forced false) and returns the
// resulting model, or SAT=false on UNSAT.
func (p *satProblem) solve(assumptions []int) solveResult {
	clauses := make([][]int, len(p.clauses), len(p.clauses)+len(assumptions))
	copy(clauses, p.clauses)
	for _, lit := range assumptions {
		clauses = append(clauses, []int{lit})
	}
	problem := solver.ParseSliceNb(clauses, p.nbVars)
	problem.SetCostFunc(p.costLits, p.costWts)
	sat := solver.New(problem)
	if cost := sat.Minimize(); cost < 0 {
		return solveResult{SAT: false}
	}
	return solveResult{SAT: true, Model: sat.Model()}
}

// trueIDs extracts the set of positive-literal ids from a model.
func trueIDs(model []bool) []int {
	var ids []int
	for i, v := range model {
		if v {
			ids = append(ids, i+1)
		}
	}
	return ids
}
