package core

import (
	"testing"

	"apt-resolve/internal/types"
)

func bpEntry(t *testing.T, name, req string) types.BlueprintEntry {
	t.Helper()
	r := types.Any()
	if req != "" {
		parsed, err := types.ParseVersionRequirement(req)
		if err != nil {
			t.Fatalf("parse requirement %q: %v", req, err)
		}
		r = parsed
	}
	return types.BlueprintEntry{Name: name, Requirement: r}
}

func resolvedNames(t *testing.T, pool *types.Pool, ids []int) map[string]string {
	t.Helper()
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		m, ok := pool.Get(id)
		if !ok {
			t.Fatalf("id %d not in pool", id)
		}
		out[m.Name] = m.Version.String()
	}
	return out
}

// Scenario 1: A depends B, B depends C, C depends A, all v1.
func TestResolveCycle(t *testing.T) {
	pool := types.NewPool()
	pool.Add(dependsOn(pkg("A", "1"), "B"))
	pool.Add(dependsOn(pkg("B", "1"), "C"))
	pool.Add(dependsOn(pkg("C", "1"), "A"))
	pool.Finalize()

	bp := types.NewBlueprint([]types.BlueprintEntry{bpEntry(t, "A", "")})
	r, err := Resolve(pool, bp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := resolvedNames(t, pool, r)
	for _, want := range []string{"A", "B", "C"} {
		if _, ok := names[want]; !ok {
			t.Errorf("expected %s in resolved set, got %v", want, names)
		}
	}

	order := SortInstallOrder(pool, r)
	if len(order) != 3 {
		t.Fatalf("expected all 3 in one sorted batch, got %d", len(order))
	}
}

// Scenario 2: x 1.0; x 2.0 depends y>=2; y 1.0; y 2.0. Blueprint x any.
// Expected R = {x 2.0, y 2.0}.
func TestResolveUpgrade(t *testing.T) {
	pool := types.NewPool()
	pool.Add(pkg("x", "1.0"))
	x2 := pkg("x", "2.0")
	x2 = dependsOnReq(x2, "y", ">=2")
	pool.Add(x2)
	pool.Add(pkg("y", "1.0"))
	pool.Add(pkg("y", "2.0"))
	pool.Finalize()

	bp := types.NewBlueprint([]types.BlueprintEntry{bpEntry(t, "x", "")})
	r, err := Resolve(pool, bp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := resolvedNames(t, pool, r)
	if names["x"] != "2.0" || names["y"] != "2.0" {
		t.Errorf("expected x 2.0 and y 2.0, got %v", names)
	}
}

// Scenario 3: a 1 conflicts b; b 1 any. Blueprint [a, b]. Expected Unsolvable.
func TestResolveConflictUnsolvable(t *testing.T) {
	pool := types.NewPool()
	a := pkg("a", "1")
	a.Conflicts = []types.Relation{{Name: "b", Requirement: types.Any()}}
	pool.Add(a)
	pool.Add(pkg("b", "1"))
	pool.Finalize()

	bp := types.NewBlueprint([]types.BlueprintEntry{bpEntry(t, "a", ""), bpEntry(t, "b", "")})
	_, err := Resolve(pool, bp)
	if err == nil {
		t.Fatal("expected an Unsolvable error")
	}
}

// Scenario 4: p 1.0 and p 2.0 exist; blueprint p =1.0. Expected R = {p 1.0}.
func TestResolveDowngradeHonored(t *testing.T) {
	pool := types.NewPool()
	pool.Add(pkg("p", "1.0"))
	pool.Add(pkg("p", "2.0"))
	pool.Finalize()

	bp := types.NewBlueprint([]types.BlueprintEntry{bpEntry(t, "p", "=1.0")})
	r, err := Resolve(pool, bp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := resolvedNames(t, pool, r)
	if names["p"] != "1.0" {
		t.Errorf("expected p 1.0, got %v", names)
	}
}

// Scenario 5: a depends (b|c); b; c; d depends b. Blueprint [a, d].
// Expected R = {a, b, d} (c dropped).
func TestResolveReductionDropsUnusedAlternative(t *testing.T) {
	pool := types.NewPool()
	pool.Add(dependsOn(pkg("a", "1"), "b", "c"))
	pool.Add(pkg("b", "1"))
	pool.Add(pkg("c", "1"))
	pool.Add(dependsOn(pkg("d", "1"), "b"))
	pool.Finalize()

	bp := types.NewBlueprint([]types.BlueprintEntry{bpEntry(t, "a", ""), bpEntry(t, "d", "")})
	r, err := Resolve(pool, bp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := resolvedNames(t, pool, r)
	for _, want := range []string{"a", "b", "d"} {
		if _, ok := names[want]; !ok {
			t.Errorf("expected %s in resolved set, got %v", want, names)
		}
	}
	if _, ok := names["c"]; ok {
		t.Errorf("expected c to be dropped, got %v", names)
	}
}

// Scenario 6: foo 1.0~rc1 and foo 1.0. Blueprint foo any. Expected 1.0 chosen.
func TestResolveTildePrefersRelease(t *testing.T) {
	pool := types.NewPool()
	pool.Add(pkg("foo", "1.0~rc1"))
	pool.Add(pkg("foo", "1.0"))
	pool.Finalize()

	bp := types.NewBlueprint([]types.BlueprintEntry{bpEntry(t, "foo", "")})
	r, err := Resolve(pool, bp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := resolvedNames(t, pool, r)
	if names["foo"] != "1.0" {
		t.Errorf("expected foo 1.0, got %v", names["foo"])
	}
}

// A blueprint entry flagged Local must resolve to a local-source candidate
// even when a newer remote candidate would otherwise win (spec.md §3).
func TestResolveLocalFlagPrefersLocalSourceCandidate(t *testing.T) {
	pool := types.NewPool()
	pool.Add(pkg("foo", "2.0")) // remote, newer, would win PickBest by itself
	local := pkg("foo", "1.0")
	local.Source = types.Source{Local: &types.LocalSource{Path: "/tmp/foo_1.0.deb"}}
	pool.Add(local)
	pool.Finalize()

	bp := types.NewBlueprint([]types.BlueprintEntry{{Name: "foo", Requirement: types.Any(), Local: true}})
	r, err := Resolve(pool, bp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := resolvedNames(t, pool, r)
	if names["foo"] != "1.0" {
		t.Errorf("expected the local-source 1.0 candidate, got %v", names["foo"])
	}
}

// A vendor-pinned (UserVsVendor) blueprint entry must never be dropped by
// reduction, even when nothing else in R still needs it (spec.md §3: "vendor
// entries are immutable from the resolver's perspective").
func TestResolveVendorPinSurvivesReduction(t *testing.T) {
	pool := types.NewPool()
	pool.Add(pkg("a", "1"))
	pool.Add(pkg("c", "1")) // unused by anything; would be a reduction candidate
	pool.Finalize()

	bp := types.NewBlueprint([]types.BlueprintEntry{
		{Name: "a", Requirement: types.Any()},
		{Name: "c", Requirement: types.Any(), UserVsVendor: true},
	})
	r, err := Resolve(pool, bp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := resolvedNames(t, pool, r)
	if _, ok := names["c"]; !ok {
		t.Errorf("expected vendor-pinned c to survive, got %v", names)
	}
}

func TestResolveWithTimingMatchesResolve(t *testing.T) {
	pool := types.NewPool()
	pool.Add(pkg("a", "1.0"))
	pool.Finalize()

	bp := types.NewBlueprint([]types.BlueprintEntry{bpEntry(t, "a", "")})
	r, timing, err := ResolveWithTiming(pool, bp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := resolvedNames(t, pool, r)
	if _, ok := names["a"]; !ok {
		t.Errorf("expected a in resolved set, got %v", names)
	}
	if timing.Seed < 0 || timing.InitialSolve < 0 {
		t.Errorf("expected non-negative timing, got %+v", timing)
	}
}

func dependsOnReq(m types.PackageMeta, name, req string) types.PackageMeta {
	parsed, err := types.ParseVersionRequirement(req)
	if err != nil {
		panic(err)
	}
	m.Depends = append(m.Depends, types.DependencyGroup{
		Alternatives: []types.Relation{{Name: name, Requirement: parsed}},
	})
	return m
}
