package core

import (
	"testing"

	"apt-resolve/internal/types"
)

func TestMinimalUnsatCoreDropsIrrelevantLiterals(t *testing.T) {
	pool := types.NewPool()
	a := pkg("a", "1.0")
	a.Conflicts = []types.Relation{{Name: "b", Requirement: types.Any()}}
	aID := pool.Add(a)
	bID := pool.Add(pkg("b", "1.0"))
	cID := pool.Add(pkg("c", "1.0")) // unrelated, must not appear in the core

	pool.Finalize()
	clauses, _ := GenerateClauses(pool, nil)
	problem := newSATProblem(pool, clauses)

	seed := []int{aID, bID, cID}
	res := problem.solve(seed)
	if res.SAT {
		t.Fatal("expected seed to be UNSAT for this test to be meaningful")
	}

	core := minimalUnsatCore(problem, seed)
	set := map[int]bool{}
	for _, lit := range core {
		set[lit] = true
	}
	if !set[aID] || !set[bID] {
		t.Errorf("expected a and b in the minimal core, got %v", core)
	}
	if set[cID] {
		t.Errorf("expected c to be dropped from the minimal core, got %v", core)
	}
	if res2 := problem.solve(core); res2.SAT {
		t.Error("expected the returned core to still be UNSAT")
	}
}

func TestExplainCandidatesListsEveryVersionOfImplicatedNames(t *testing.T) {
	pool := types.NewPool()
	a := pkg("a", "1.0")
	a.Conflicts = []types.Relation{{Name: "b", Requirement: types.Any()}}
	aID := pool.Add(a)
	bID := pool.Add(pkg("b", "1.0"))
	pool.Add(pkg("b", "2.0")) // a second version of b, not itself in the core

	pool.Finalize()
	clauses, _ := GenerateClauses(pool, nil)
	problem := newSATProblem(pool, clauses)

	seed := []int{aID, bID}
	if res := problem.solve(seed); res.SAT {
		t.Fatal("expected seed to be UNSAT for this test to be meaningful")
	}
	core := minimalUnsatCore(problem, seed)

	explanations := ExplainCandidates(pool, core)
	if len(explanations) != 3 {
		t.Fatalf("expected one entry per version of a and b (3 total), got %d: %+v", len(explanations), explanations)
	}
	foundB2 := false
	for _, e := range explanations {
		if e.Name == "b" && e.Version == "2.0" {
			foundB2 = true
			if e.Reason != "not part of the minimal conflicting set" {
				t.Errorf("expected b 2.0 to be excluded from the core, got reason %q", e.Reason)
			}
		}
	}
	if !foundB2 {
		t.Errorf("expected b 2.0 to be listed even though only b 1.0 is in the core, got %+v", explanations)
	}
}

func TestDiagnoseReturnsNilOnSatisfiableBlueprint(t *testing.T) {
	pool := types.NewPool()
	pool.Add(pkg("a", "1.0"))
	pool.Finalize()

	bp := types.NewBlueprint([]types.BlueprintEntry{{Name: "a", Requirement: types.Any()}})
	explanations, err := Diagnose(pool, bp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if explanations != nil {
		t.Errorf("expected nil explanations for a satisfiable blueprint, got %+v", explanations)
	}
}

func TestDiagnoseExplainsConflict(t *testing.T) {
	pool := types.NewPool()
	a := pkg("a", "1.0")
	a.Conflicts = []types.Relation{{Name: "b", Requirement: types.Any()}}
	pool.Add(a)
	pool.Add(pkg("b", "1.0"))
	pool.Finalize()

	bp := types.NewBlueprint([]types.BlueprintEntry{
		{Name: "a", Requirement: types.Any()},
		{Name: "b", Requirement: types.Any()},
	})
	explanations, err := Diagnose(pool, bp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(explanations) == 0 {
		t.Fatal("expected a non-empty candidate explanation for an unsatisfiable blueprint")
	}
}
