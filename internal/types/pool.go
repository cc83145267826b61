package types

import "sort"

// Pool is the in-memory arena of all candidate PackageMeta (spec.md §3/§4.2).
// Identifiers are assigned 1, 2, … in insertion order; 0 is reserved.
type Pool struct {
	byID     map[int]PackageMeta
	order    []int // insertion order, also iter_ids() order
	nameToID map[string][]int
	finalized bool
}

// NewPool returns an empty Pool ready for Add.
func NewPool() *Pool {
	return &Pool{
		byID:     make(map[int]PackageMeta),
		nameToID: make(map[string][]int),
	}
}

// Add appends a candidate and returns its freshly assigned identifier. Must
// be called before Finalize; calling it afterward would leave nameToID's
// version ordering stale, so it panics rather than silently corrupting the
// Pool's sort invariant.
func (p *Pool) Add(meta PackageMeta) int {
	if p.finalized {
		panic("types: Pool.Add called after Finalize")
	}
	id := len(p.order) + 1
	meta.ID = id
	p.byID[id] = meta
	p.order = append(p.order, id)
	p.nameToID[meta.Name] = append(p.nameToID[meta.Name], id)
	return id
}

// Finalize sorts name_to_ids[name] by version descending, stably. Must be
// called exactly once after all Add calls; every other operation assumes
// finalized state.
func (p *Pool) Finalize() {
	for name, ids := range p.nameToID {
		sorted := append([]int(nil), ids...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return p.byID[sorted[i]].Version.Compare(p.byID[sorted[j]].Version) > 0
		})
		p.nameToID[name] = sorted
	}
	p.finalized = true
}

// Get returns the candidate for id, if any.
func (p *Pool) Get(id int) (PackageMeta, bool) {
	meta, ok := p.byID[id]
	return meta, ok
}

// ByName returns the identifiers for name in descending-version order
// (index 0 is newest). Returns nil if the name has no candidates.
func (p *Pool) ByName(name string) []int {
	return p.nameToID[name]
}

// IterNames returns every distinct candidate name, in first-insertion order.
func (p *Pool) IterNames() []string {
	seen := make(map[string]bool, len(p.nameToID))
	var names []string
	for _, id := range p.order {
		name := p.byID[id].Name
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// IterIDs returns every identifier in insertion order.
func (p *Pool) IterIDs() []int {
	return append([]int(nil), p.order...)
}

// Size returns the number of candidates in the Pool.
func (p *Pool) Size() int { return len(p.order) }

// FindProvider scans candidates in pool-insertion order for one whose
// Provides list contains (name, v) with v satisfying req, returning the
// first match. Used for "no package with this name, but X provides it"
// diagnostics.
func (p *Pool) FindProvider(name string, req VersionRequirement) (PackageMeta, bool) {
	for _, id := range p.order {
		meta := p.byID[id]
		for _, rel := range meta.Provides {
			if rel.Name == name && req.Contains(providedVersion(rel, meta)) {
				return meta, true
			}
		}
	}
	return PackageMeta{}, false
}

// FindAllProviders returns every candidate providing name with a version
// satisfying req, in pool-insertion order (SPEC_FULL.md §5 search feature).
func (p *Pool) FindAllProviders(name string, req VersionRequirement) []PackageMeta {
	var out []PackageMeta
	for _, id := range p.order {
		meta := p.byID[id]
		for _, rel := range meta.Provides {
			if rel.Name == name && req.Contains(providedVersion(rel, meta)) {
				out = append(out, meta)
				break
			}
		}
	}
	return out
}

// providedVersion resolves the version a "provides" relation advertises: an
// explicit bound in the relation's requirement if any side is set, else the
// providing package's own version (an unversioned Provides entry).
func providedVersion(rel Relation, provider PackageMeta) Version {
	if rel.Requirement.Lower != nil {
		return rel.Requirement.Lower.Version
	}
	if rel.Requirement.Upper != nil {
		return rel.Requirement.Upper.Version
	}
	return provider.Version
}

// HasDebugCompanion reports whether another candidate named "{name}-dbg",
// section "debug", with identical version exists.
func (p *Pool) HasDebugCompanion(id int) bool {
	meta, ok := p.byID[id]
	if !ok {
		return false
	}
	dbgName := meta.Name + "-dbg"
	for _, otherID := range p.nameToID[dbgName] {
		other := p.byID[otherID]
		if other.Section == "debug" && other.Version.Equal(meta.Version) {
			return true
		}
	}
	return false
}

// FindReplacement scans candidates whose Replaces list matches (name,
// version), returning the replacement's name.
func (p *Pool) FindReplacement(name string, version Version) (string, bool) {
	for _, id := range p.order {
		meta := p.byID[id]
		for _, rel := range meta.Replaces {
			if rel.Name == name && rel.Requirement.Contains(version) {
				return meta.Name, true
			}
		}
	}
	return "", false
}

// PickBest returns the first id in ByName(name) whose version satisfies req.
// Fails with NoCandidate if none.
func (p *Pool) PickBest(name string, req VersionRequirement) (int, error) {
	for _, id := range p.nameToID[name] {
		if req.Contains(p.byID[id].Version) {
			return id, nil
		}
	}
	return 0, ErrNoCandidate(name, req)
}
