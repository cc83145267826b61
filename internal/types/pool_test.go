package types

import "testing"

func meta(name, version string) PackageMeta {
	v, _ := ParseVersion(version)
	return PackageMeta{Name: name, Version: v}
}

func TestPoolFinalizeSortsDescendingByVersion(t *testing.T) {
	p := NewPool()
	p.Add(meta("foo", "1.0"))
	p.Add(meta("foo", "2.0"))
	p.Add(meta("foo", "1.5"))
	p.Finalize()

	ids := p.ByName("foo")
	if len(ids) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(ids))
	}
	var versions []string
	for _, id := range ids {
		m, _ := p.Get(id)
		versions = append(versions, m.Version.String())
	}
	want := []string{"2.0", "1.5", "1.0"}
	for i, v := range want {
		if versions[i] != v {
			t.Errorf("position %d: want %q, got %q", i, v, versions[i])
		}
	}
}

func TestPoolIdentifiersAreOneIndexed(t *testing.T) {
	p := NewPool()
	id1 := p.Add(meta("a", "1.0"))
	id2 := p.Add(meta("b", "1.0"))
	if id1 != 1 || id2 != 2 {
		t.Errorf("expected ids 1, 2; got %d, %d", id1, id2)
	}
}

func TestPoolPickBestReturnsFirstSatisfying(t *testing.T) {
	p := NewPool()
	p.Add(meta("foo", "1.0"))
	p.Add(meta("foo", "2.0"))
	p.Finalize()

	req, _ := ParseVersionRequirement("<1.5")
	id, err := p.PickBest("foo", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := p.Get(id)
	if got.Version.String() != "1.0" {
		t.Errorf("expected 1.0, got %s", got.Version.String())
	}
}

func TestPoolPickBestNoCandidate(t *testing.T) {
	p := NewPool()
	p.Add(meta("foo", "1.0"))
	p.Finalize()

	req, _ := ParseVersionRequirement(">2.0")
	if _, err := p.PickBest("foo", req); err == nil {
		t.Error("expected NoCandidate error")
	}
}

func TestPoolFindAllProvidersMatchesVirtualPackage(t *testing.T) {
	p := NewPool()
	provider := meta("libfoo-impl", "1.0")
	provider.Provides = []Relation{{Name: "libfoo"}}
	p.Add(provider)
	p.Finalize()

	matches := p.FindAllProviders("libfoo", Any())
	if len(matches) != 1 || matches[0].Name != "libfoo-impl" {
		t.Errorf("expected libfoo-impl to provide libfoo, got %+v", matches)
	}
}

func TestPoolHasDebugCompanion(t *testing.T) {
	p := NewPool()
	p.Add(meta("foo", "1.0"))
	dbg := meta("foo-dbg", "1.0")
	dbg.Section = "debug"
	id := p.Add(dbg)
	p.Finalize()

	fooID := p.ByName("foo")[0]
	if !p.HasDebugCompanion(fooID) {
		t.Error("expected foo to have a debug companion")
	}
	if p.HasDebugCompanion(id) {
		t.Error("foo-dbg itself should not report a debug companion under this name")
	}
}
