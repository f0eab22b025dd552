// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"testing"

	"github.com/crosscut-lang/crosscut/internal/depgraph"
	"github.com/crosscut-lang/crosscut/internal/parser"
	"github.com/crosscut-lang/crosscut/internal/resolve"
	"github.com/crosscut-lang/crosscut/internal/syntax"
	"github.com/crosscut-lang/crosscut/internal/token"
)

func clusters(t *testing.T, src string, host resolve.Host) (*syntax.Tree, []*depgraph.DependencyCluster) {
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
	cs := depgraph.Clusters(tree)
	for _, c := range cs {
		depgraph.Diverge(tree, c)
	}
	return tree, cs
}

func TestCheckAcceptsConsistentBranches(t *testing.T) {
	src := "f: fn br 0 -> 1 end br n -> 2 end end  main: fn br -> 0 f end end"
	tree, cs := clusters(t, src, resolve.StaticHost{})
	if ms := Check(tree, cs); len(ms) != 0 {
		t.Fatalf("got mismatches %+v, want none", ms)
	}
}

func TestCheckFlagsInputArityMismatch(t *testing.T) {
	src := "f: fn br 0 -> 1 end br a b -> 2 end end  main: fn br -> 0 f end end"
	tree, cs := clusters(t, src, resolve.StaticHost{})
	ms := Check(tree, cs)

	var sawInputMismatch bool
	for _, m := range ms {
		if m.Name == "f" && m.Kind == InputArityMismatch {
			sawInputMismatch = true
		}
	}
	if !sawInputMismatch {
		t.Fatalf("got %+v, want an input arity mismatch for f", ms)
	}
}

func TestCheckFlagsOutputArityMismatch(t *testing.T) {
	src := "f: fn br 0 -> 1 end br n -> 1 2 end end  main: fn br -> 0 f end end"
	tree, cs := clusters(t, src, resolve.StaticHost{})
	ms := Check(tree, cs)

	var sawOutputMismatch bool
	for _, m := range ms {
		if m.Name == "f" && m.Kind == OutputArityMismatch {
			sawOutputMismatch = true
		}
	}
	if !sawOutputMismatch {
		t.Fatalf("got %+v, want an output arity mismatch for f", ms)
	}
}

func TestCheckSkipsReturnArityForDivergingFunction(t *testing.T) {
	src := "a: fn br -> b end end  b: fn br -> a end end  main: fn br -> a end end"
	tree, cs := clusters(t, src, resolve.StaticHost{})
	ms := Check(tree, cs)

	for _, m := range ms {
		if (m.Name == "a" || m.Name == "b") && m.Kind == OutputArityMismatch {
			t.Fatalf("diverging function %s should not be flagged for return arity, got %+v", m.Name, m)
		}
	}
}

func TestCheckUsesIntrinsicArityAcrossCalls(t *testing.T) {
	src := "add_one: fn br n -> n 1 + end end  main: fn br -> 1 add_one end end"
	tree, cs := clusters(t, src, resolve.StaticHost{})
	if ms := Check(tree, cs); len(ms) != 0 {
		t.Fatalf("got mismatches %+v, want none", ms)
	}
}
