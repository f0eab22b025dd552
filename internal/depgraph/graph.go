// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package depgraph builds the call graph over named and local functions,
// condenses it into strongly-connected DependencyClusters ordered
// leaves-first, and (within each cluster) finds diverging branches via a
// second, finer SCC pass (spec.md §4.5).
package depgraph

import (
	"github.com/crosscut-lang/crosscut/internal/syntax"
)

// node is an internal numbering of every function (named and local) seen
// while walking the tree, used only inside this package's graph
// algorithms. Keeping the graph's own identifiers separate from
// syntax.FunctionLocation is the "give each function a stable location
// key and keep all cross-references in side tables" guidance in spec.md
// §9: the public DependencyCluster type exposes FunctionLocations, never
// these ints.
type node int

type funcGraph struct {
	locations []syntax.FunctionLocation
	idOf      map[string]node
	edges     map[node]map[node]bool
}

func newFuncGraph() *funcGraph {
	return &funcGraph{idOf: make(map[string]node), edges: make(map[node]map[node]bool)}
}

// nodeFor returns the stable node id for loc, keyed by loc.Key() rather
// than by loc itself: FunctionLocation holds pointer fields for its
// recursive Local case, so two FunctionLocations naming the same
// function but built at different call sites are distinct Go values
// even though they denote the same address.
func (g *funcGraph) nodeFor(loc syntax.FunctionLocation) node {
	key := loc.Key()
	if id, ok := g.idOf[key]; ok {
		return id
	}
	id := node(len(g.locations))
	g.locations = append(g.locations, loc)
	g.idOf[key] = id
	if g.edges[id] == nil {
		g.edges[id] = make(map[node]bool)
	}
	return id
}

func (g *funcGraph) addEdge(from, to node) {
	if g.edges[from] == nil {
		g.edges[from] = make(map[node]bool)
	}
	g.edges[from][to] = true
}

// Build walks tree and returns the call graph over every function
// (named and local). An edge is added from a function to every other
// function it calls directly (ExprCallUserDefinedRecursive) or contains
// as a local function literal (it must be compiled along with its
// parent, per spec.md §4.5 "edges from a function to every function it
// calls or references directly").
func Build(tree *syntax.Tree) *funcGraph {
	g := newFuncGraph()
	for _, idx := range tree.Functions.Indices() {
		nf, _ := tree.Functions.Get(idx)
		loc := syntax.NamedFunctionLocation(idx)
		g.nodeFor(loc)
		walkFunction(&nf.Inner, loc, g)
	}
	return g
}

func walkFunction(fn *syntax.Function, loc syntax.FunctionLocation, g *funcGraph) {
	from := g.nodeFor(loc)
	for _, bidx := range fn.Branches.Indices() {
		br, _ := fn.Branches.Get(bidx)
		brLoc := syntax.BranchLocation{Parent: loc, Index: bidx}
		for _, midx := range br.Body.Indices() {
			m, _ := br.Body.Get(midx)
			mLoc := syntax.MemberLocation{Parent: brLoc, Index: midx}
			switch m.Expression.Kind {
			case syntax.ExprCallUserDefinedRecursive:
				to := g.nodeFor(*m.Expression.UserDefinedCallee)
				g.addEdge(from, to)
			case syntax.ExprLocalFunction:
				localLoc := syntax.LocalFunctionLocation(mLoc)
				to := g.nodeFor(localLoc)
				g.addEdge(from, to)
				walkFunction(m.Expression.Local, localLoc, g)
			}
		}
	}
}
