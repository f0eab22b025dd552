// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tailpos

import (
	"testing"

	"github.com/crosscut-lang/crosscut/internal/parser"
	"github.com/crosscut-lang/crosscut/internal/resolve"
	"github.com/crosscut-lang/crosscut/internal/syntax"
	"github.com/crosscut-lang/crosscut/internal/token"
)

func parse(t *testing.T, src string, host resolve.Host) *syntax.Tree {
	t.Helper()
	toks, err := token.Tokenize(src)
	if err != nil {
		t.Fatal(err)
	}
	tree, err := parser.Parse(toks)
	if err != nil {
		t.Fatal(err)
	}
	tree, _ = resolve.Resolve(tree, host)
	return tree
}

func TestFindFlagsOnlyLastExecutableMember(t *testing.T) {
	host := resolve.StaticHost{Funcs: []resolve.HostFunction{{Name: "send", Number: 0}}}
	tree := parse(t, "main: fn br -> 1 send 2 send end end", host)

	fnIdx := tree.Functions.Indices()[0]
	fnLoc := syntax.NamedFunctionLocation(fnIdx)
	nf, _ := tree.Functions.Get(fnIdx)
	brLoc := syntax.BranchLocation{Parent: fnLoc, Index: nf.Inner.Branches.Indices()[0]}
	br, _ := nf.Inner.Branches.Get(brLoc.Index)

	tp := Find(tree)

	memberIndices := br.Body.Indices()
	if len(memberIndices) != 4 {
		t.Fatalf("got %d members in branch body, want 4", len(memberIndices))
	}

	firstLoc := syntax.MemberLocation{Parent: brLoc, Index: memberIndices[0]}
	lastLoc := syntax.MemberLocation{Parent: brLoc, Index: memberIndices[3]}

	if tp.IsTail(firstLoc) {
		t.Fatalf("first member %+v flagged tail, want only the last flagged", firstLoc)
	}
	if !tp.IsTail(lastLoc) {
		t.Fatalf("last member %+v not flagged tail", lastLoc)
	}
}

func TestFindSkipsTrailingComment(t *testing.T) {
	host := resolve.StaticHost{Funcs: []resolve.HostFunction{{Name: "send", Number: 0}}}
	tree := parse(t, "main: fn br -> 0 send # done\nend end", host)

	fnIdx := tree.Functions.Indices()[0]
	fnLoc := syntax.NamedFunctionLocation(fnIdx)
	nf, _ := tree.Functions.Get(fnIdx)
	brLoc := syntax.BranchLocation{Parent: fnLoc, Index: nf.Inner.Branches.Indices()[0]}
	br, _ := nf.Inner.Branches.Get(brLoc.Index)

	tp := Find(tree)

	var sawTailComment bool
	var tailCount int
	for _, midx := range br.Body.Indices() {
		m, _ := br.Body.Get(midx)
		loc := syntax.MemberLocation{Parent: brLoc, Index: midx}
		if tp.IsTail(loc) {
			tailCount++
			if m.Expression.Kind == syntax.ExprComment {
				sawTailComment = true
			}
		}
	}
	if sawTailComment {
		t.Fatal("a comment was flagged as the tail expression, want the call before it")
	}
	if tailCount != 1 {
		t.Fatalf("got %d tail-flagged members, want exactly 1", tailCount)
	}
}

func TestFindRecursesIntoLocalFunctions(t *testing.T) {
	host := resolve.StaticHost{Funcs: []resolve.HostFunction{{Name: "send", Number: 0}}}
	tree := parse(t, "main: fn br -> fn br -> 1 send 2 send end end eval end end", host)

	fnIdx := tree.Functions.Indices()[0]
	fnLoc := syntax.NamedFunctionLocation(fnIdx)
	nf, _ := tree.Functions.Get(fnIdx)
	outerBrLoc := syntax.BranchLocation{Parent: fnLoc, Index: nf.Inner.Branches.Indices()[0]}
	outerBr, _ := nf.Inner.Branches.Get(outerBrLoc.Index)

	var localMemberLoc syntax.MemberLocation
	var localFn *syntax.Function
	for _, midx := range outerBr.Body.Indices() {
		m, _ := outerBr.Body.Get(midx)
		if m.Expression.Kind == syntax.ExprLocalFunction {
			localMemberLoc = syntax.MemberLocation{Parent: outerBrLoc, Index: midx}
			localFn = m.Expression.Local
		}
	}
	if localFn == nil {
		t.Fatal("expected a local function member in the outer branch body")
	}

	tp := Find(tree)

	localFnLoc := syntax.LocalFunctionLocation(localMemberLoc)
	innerBrLoc := syntax.BranchLocation{Parent: localFnLoc, Index: localFn.Branches.Indices()[0]}
	innerBr, _ := localFn.Branches.Get(innerBrLoc.Index)

	innerMembers := innerBr.Body.Indices()
	if len(innerMembers) != 2 {
		t.Fatalf("got %d members in local function body, want 2", len(innerMembers))
	}
	firstLoc := syntax.MemberLocation{Parent: innerBrLoc, Index: innerMembers[0]}
	lastLoc := syntax.MemberLocation{Parent: innerBrLoc, Index: innerMembers[1]}

	if tp.IsTail(firstLoc) {
		t.Fatalf("first member of local function body %+v flagged tail", firstLoc)
	}
	if !tp.IsTail(lastLoc) {
		t.Fatalf("last member of local function body %+v not flagged tail", lastLoc)
	}
}
