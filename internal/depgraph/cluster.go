// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package depgraph

import "github.com/crosscut-lang/crosscut/internal/syntax"

// DependencyCluster is a maximal strongly-connected component of the
// call graph, plus the two derived populations later passes fill in:
// the subset that provably diverges, and the topologically sorted list
// of non-diverging branches (spec.md §3 "Clusters").
type DependencyCluster struct {
	Functions []syntax.FunctionLocation

	// diverging holds the keys (FunctionLocation.Key()) of functions
	// within this cluster whose every branch was found (by Diverge) to
	// never terminate. Keyed by string, not FunctionLocation, for the
	// same reason funcGraph is: FunctionLocation is not a safe map key.
	diverging map[string]bool

	// SortedBranches holds the non-diverging branches of this cluster's
	// functions in topological (leaves-first) order, filled by Diverge.
	SortedBranches []syntax.BranchLocation
}

// Diverges reports whether loc names a function in this cluster whose
// every branch was found by Diverge to never terminate.
func (c *DependencyCluster) Diverges(loc syntax.FunctionLocation) bool {
	return c.diverging[loc.Key()]
}

// Clusters is the leaves-first sequence of DependencyClusters covering
// every function in the graph built by Build.
func Clusters(tree *syntax.Tree) []*DependencyCluster {
	g := Build(tree)
	sccOf, n := tarjanSCC(g)

	clusters := make([]*DependencyCluster, n)
	for i := range clusters {
		clusters[i] = &DependencyCluster{diverging: make(map[string]bool)}
	}
	for id, loc := range g.locations {
		scc := sccOf[node(id)]
		clusters[scc].Functions = append(clusters[scc].Functions, loc)
	}
	return clusters
}

// tarjanSCC computes strongly connected components of g using the
// classical Tarjan's algorithm, the way go/callgraph/vta/propagation.go
// does for points-to graphs. The result maps each node to the id of its
// SCC, in the range [0, n). SCCs are produced in reverse topological
// order of the condensation graph: id 0 is a sink of the graph (a
// function, or mutually recursive cluster, that calls nothing else),
// which is exactly the "leaves first" order spec.md §4.5 and §4.6
// require for cluster compilation.
func tarjanSCC(g *funcGraph) (sccOf map[node]int, n int) {
	type state struct {
		index   int
		lowLink int
		onStack bool
	}
	states := make(map[node]*state, len(g.locations))
	var stack []node

	sccOf = make(map[node]int, len(g.locations))
	sccID := 0

	var doSCC func(node)
	doSCC = func(v node) {
		idx := len(states)
		st := &state{index: idx, lowLink: idx, onStack: true}
		states[v] = st
		stack = append(stack, v)

		for w := range g.edges[v] {
			if ws, visited := states[w]; !visited {
				doSCC(w)
				ws = states[w]
				if ws.lowLink < st.lowLink {
					st.lowLink = ws.lowLink
				}
			} else if ws.onStack {
				if ws.index < st.lowLink {
					st.lowLink = ws.index
				}
			}
		}

		if st.lowLink == idx {
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				states[w].onStack = false
				sccOf[w] = sccID
				if w == v {
					break
				}
			}
			sccID++
		}
	}

	for id := node(0); int(id) < len(g.locations); id++ {
		if _, visited := states[id]; !visited {
			doSCC(id)
		}
	}

	return sccOf, sccID
}
