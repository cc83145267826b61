package core

import (
	"sort"

	"apt-resolve/internal/types"
)

// SortInstallOrder orders the resolved set R into a safe installation
// sequence per spec.md §4.6: build the dependency graph restricted to R, run
// Tarjan SCC, and emit SCCs in the order Tarjan completes them — which is
// already leaf-first, since a node's SCC only finishes once every node it
// points to has finished (grounded on original_source/src/solver/sort.rs,
// which relies on the same property of petgraph's tarjan_scc). Within an
// SCC, members are emitted in ascending id order for stability. No graph
// library is wired here: none of the example repos imports one, so this is
// a from-scratch Tarjan (see DESIGN.md).
func SortInstallOrder(pool *types.Pool, r []int) []int {
	inR := make(map[int]bool, len(r))
	for _, id := range r {
		inR[id] = true
	}
	adj := dependencyGraph(pool, r, inR)

	t := &tarjan{
		adj:     adj,
		index:   map[int]int{},
		lowlink: map[int]int{},
		onStack: map[int]bool{},
	}

	roots := append([]int(nil), r...)
	sort.Ints(roots)
	for _, id := range roots {
		if _, visited := t.index[id]; !visited {
			t.strongConnect(id)
		}
	}

	out := make([]int, 0, len(r))
	for _, scc := range t.sccs {
		sort.Ints(scc)
		out = append(out, scc...)
	}
	return out
}

// dependencyGraph adds edge p -> q for every p, q in R where q satisfies one
// alternative of one of p's depends groups.
func dependencyGraph(pool *types.Pool, r []int, inR map[int]bool) map[int][]int {
	adj := make(map[int][]int, len(r))
	for _, p := range r {
		meta, ok := pool.Get(p)
		if !ok {
			continue
		}
		for _, group := range meta.Depends {
			for _, dep := range group.Alternatives {
				for _, q := range pool.ByName(dep.Name) {
					if !inR[q] {
						continue
					}
					qMeta, ok := pool.Get(q)
					if !ok || !dep.Requirement.Contains(qMeta.Version) {
						continue
					}
					adj[p] = append(adj[p], q)
				}
			}
		}
	}
	return adj
}

// tarjan holds the bookkeeping for one strongly-connected-components pass.
type tarjan struct {
	adj     map[int][]int
	index   map[int]int
	lowlink map[int]int
	onStack map[int]bool
	stack   []int
	counter int
	sccs    [][]int
}

func (t *tarjan) strongConnect(v int) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.adj[v] {
		if _, visited := t.index[w]; !visited {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []int
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}
