// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"github.com/crosscut-lang/crosscut/internal/intrinsics"
	"github.com/crosscut-lang/crosscut/internal/syntax"
)

// Classification records how one identifier expression was resolved.
type Classification int

const (
	ClassLocalBinding Classification = iota
	ClassUserDefinedFunction
	ClassHostFunction
	ClassIntrinsic
	ClassUnresolved
)

// Resolution is the result of classifying one identifier expression.
type Resolution struct {
	Class Classification

	// FunctionLocation is set for ClassUserDefinedFunction.
	FunctionLocation syntax.FunctionLocation

	// HostNumber is set for ClassHostFunction.
	HostNumber uint8

	// IntrinsicName is set for ClassIntrinsic.
	IntrinsicName string
}

// FunctionCalls maps every identifier expression's MemberLocation to its
// Resolution. Local function bodies are walked too, addressed by the
// MemberLocation of the member that introduced them plus their own
// internal member indices (see syntax.LocalFunctionLocation).
type FunctionCalls struct {
	byLocation map[string]Resolution
}

func newFunctionCalls() *FunctionCalls {
	return &FunctionCalls{byLocation: make(map[string]Resolution)}
}

func (fc *FunctionCalls) set(loc syntax.MemberLocation, r Resolution) {
	fc.byLocation[loc.Key()] = r
}

// Lookup returns the resolution recorded at loc. loc need not be the
// same struct value recorded by set: MemberLocation recurses through
// pointer fields, so it compares by Key(), not by Go's built-in ==.
func (fc *FunctionCalls) Lookup(loc syntax.MemberLocation) (Resolution, bool) {
	r, ok := fc.byLocation[loc.Key()]
	return r, ok
}

// scope is a cons-list of parameter bindings in effect at some point in
// the tree; innermost scope is checked first, matching "innermost wins;
// shadowing is permitted" (spec.md §4.3).
type scope struct {
	names  map[string]bool
	parent *scope
}

func (s *scope) has(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.names[name] {
			return true
		}
	}
	return false
}

func push(parent *scope, params []syntax.Pattern) *scope {
	names := make(map[string]bool, len(params))
	for _, p := range params {
		if !p.IsLiteral {
			names[p.Identifier] = true
		}
	}
	return &scope{names: names, parent: parent}
}

// Resolve walks tree, classifying every identifier expression (including
// ones nested inside local function literals) according to the priority
// local binding > user-defined function > host function > intrinsic
// (spec.md §4.3). It returns the resolved tree (with matching Expression
// nodes rewritten to their classified form) and the FunctionCalls map.
func Resolve(tree *syntax.Tree, host Host) (*syntax.Tree, *FunctionCalls) {
	fc := newFunctionCalls()

	named := make(map[string]syntax.Index[syntax.NamedFunction])
	for _, idx := range tree.Functions.Indices() {
		nf, _ := tree.Functions.Get(idx)
		named[nf.Name] = idx
	}

	for _, idx := range tree.Functions.Indices() {
		nf, _ := tree.Functions.Get(idx)
		loc := syntax.NamedFunctionLocation(idx)
		resolveFunction(&nf.Inner, loc, nil, named, host, fc)
		tree.Functions.Set(idx, nf)
	}

	return tree, fc
}

func resolveFunction(fn *syntax.Function, loc syntax.FunctionLocation, parentScope *scope, named map[string]syntax.Index[syntax.NamedFunction], host Host, fc *FunctionCalls) {
	for _, bidx := range fn.Branches.Indices() {
		br, _ := fn.Branches.Get(bidx)
		brLoc := syntax.BranchLocation{Parent: loc, Index: bidx}
		sc := push(parentScope, br.Parameters)
		for _, midx := range br.Body.Indices() {
			m, _ := br.Body.Get(midx)
			mLoc := syntax.MemberLocation{Parent: brLoc, Index: midx}
			m.Expression = resolveExpression(m.Expression, mLoc, sc, named, host, fc)
			br.Body.Set(midx, m)
		}
		fn.Branches.Set(bidx, br)
	}
}

func resolveExpression(e syntax.Expression, loc syntax.MemberLocation, sc *scope, named map[string]syntax.Index[syntax.NamedFunction], host Host, fc *FunctionCalls) syntax.Expression {
	switch e.Kind {
	case syntax.ExprLocalFunction:
		inner := *e.Local
		resolveFunction(&inner, syntax.LocalFunctionLocation(loc), sc, named, host, fc)
		return syntax.LocalFunctionExpr(inner)

	case syntax.ExprIdentifier:
		name := e.Identifier

		if sc.has(name) {
			fc.set(loc, Resolution{Class: ClassLocalBinding})
			return syntax.BindingRefExpr(name)
		}
		if idx, ok := named[name]; ok {
			target := syntax.NamedFunctionLocation(idx)
			fc.set(loc, Resolution{Class: ClassUserDefinedFunction, FunctionLocation: target})
			return syntax.UserDefinedCallExpr(name, target)
		}
		if hf, ok := FunctionByName(host, name); ok {
			fc.set(loc, Resolution{Class: ClassHostFunction, HostNumber: hf.Number})
			return syntax.HostCallExpr(name, hf.Number)
		}
		if _, ok := intrinsics.Lookup(name); ok {
			fc.set(loc, Resolution{Class: ClassIntrinsic, IntrinsicName: name})
			return syntax.IntrinsicCallExpr(name)
		}
		fc.set(loc, Resolution{Class: ClassUnresolved})
		return syntax.UnresolvedExpr(name)

	default:
		return e
	}
}
