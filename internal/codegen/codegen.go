// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codegen walks a dependency-clustered syntax.Tree leaves-first
// and emits instr.Instructions plus a sourcemap.SourceMap, patching
// forward references within a cluster once every function in it has
// been compiled (spec.md §4.6). Grounded on
// crosscut/compiler/src/passes/generate_instructions (generate_instructions.rs,
// compile_functions.rs, compile_cluster.rs) for the overall shape:
// placeholder call into main at address 0, per-cluster compile loop,
// cluster-local patch map for recursive calls.
package codegen

import (
	"sort"

	"github.com/crosscut-lang/crosscut/internal/depgraph"
	"github.com/crosscut-lang/crosscut/internal/instr"
	"github.com/crosscut-lang/crosscut/internal/sourcemap"
	"github.com/crosscut-lang/crosscut/internal/syntax"
	"github.com/crosscut-lang/crosscut/internal/tailpos"
)

// CallSite records one CallFunction instruction's address and whether
// it was emitted as a tail call, for deferred patching.
type CallSite struct {
	Address    instr.InstructionAddress
	IsTailCall bool
}

// CallIndex maps a callee's FunctionLocation to every CallFunction
// instruction address that currently targets it, maintained
// incrementally as the generator runs (spec.md §4.7
// "call_instructions_by_callee"). Live patching (internal/changes)
// retargets calls through Output.CallsByHash and only re-keys this
// index (Forget/Adopt) when an updated function's location changes.
type CallIndex struct {
	byCallee map[string][]CallSite
}

func newCallIndex() *CallIndex {
	return &CallIndex{byCallee: make(map[string][]CallSite)}
}

func (c *CallIndex) record(callee syntax.FunctionLocation, site CallSite) {
	key := callee.Key()
	c.byCallee[key] = append(c.byCallee[key], site)
}

// CallsTo returns every recorded call site targeting callee.
func (c *CallIndex) CallsTo(callee syntax.FunctionLocation) []CallSite {
	return c.byCallee[callee.Key()]
}

// Forget removes callee's entry, returning what it held. Used by
// internal/changes after retargeting an updated function's calls: the
// old location's entry is consumed and replaced by the new one.
func (c *CallIndex) Forget(callee syntax.FunctionLocation) []CallSite {
	key := callee.Key()
	sites := c.byCallee[key]
	delete(c.byCallee, key)
	return sites
}

// Adopt installs sites under callee's key, used after retargeting to
// re-register them against the function's new location.
func (c *CallIndex) Adopt(callee syntax.FunctionLocation, sites []CallSite) {
	if len(sites) == 0 {
		return
	}
	key := callee.Key()
	c.byCallee[key] = append(c.byCallee[key], sites...)
}

// Output is everything the generator produces from one compile pass.
type Output struct {
	Instructions *instr.Instructions
	SourceMap    *sourcemap.SourceMap
	CallIndex    *CallIndex
	Clusters     []*depgraph.DependencyCluster

	// CallToMain is the address of the placeholder (or, once a `main`
	// function exists, the real tail call) created at address 0 of
	// every build (spec.md §4.6 "Call to main").
	CallToMain instr.InstructionAddress

	// CompiledAt maps every compiled FunctionLocation (named and local)
	// to the address of its first instruction. Keyed by location, so it
	// only resolves a callee reliably within the compile pass that
	// produced it: a later incremental compile of the same tree's next
	// revision assigns fresh indices even to functions whose content
	// didn't change.
	CompiledAt map[string]instr.InstructionAddress

	// CompiledHash maps a named function's content hash to its compiled
	// address, mirroring original_source's compiled_functions_by_hash.
	// Unlike CompiledAt, a hash survives index churn across rebuilds, so
	// internal/changes' incremental compile resolves calls into
	// unchanged functions through this map rather than CompiledAt.
	CompiledHash map[syntax.Hash]instr.InstructionAddress

	// CallsByHash mirrors CallIndex but keyed by the callee's content
	// hash at the time the call was compiled, the same way
	// original_source's call_instructions_by_callee is keyed by Hash
	// rather than by location: a rebuild that detects a function as
	// "updated" looks up its old hash here to find every call site that
	// needs retargeting to the new address, regardless of whether the
	// function's location (index) also changed.
	CallsByHash map[syntax.Hash][]CallSite
}

// CallsToHash returns every recorded call site whose callee hashed to h
// at compile time.
func (o *Output) CallsToHash(h syntax.Hash) []CallSite { return o.CallsByHash[h] }

// ForgetHash removes h's entry, returning what it held.
func (o *Output) ForgetHash(h syntax.Hash) []CallSite {
	sites := o.CallsByHash[h]
	delete(o.CallsByHash, h)
	return sites
}

// AdoptHash installs sites under h.
func (o *Output) AdoptHash(h syntax.Hash, sites []CallSite) {
	if len(sites) == 0 {
		return
	}
	o.CallsByHash[h] = append(o.CallsByHash[h], sites...)
}

// Generate compiles tree into instructions, leaves-first by
// dependency cluster, per spec.md §4.6.
func Generate(tree *syntax.Tree) *Output {
	tp := tailpos.Find(tree)
	clusters := depgraph.Clusters(tree)
	for _, c := range clusters {
		depgraph.Diverge(tree, c)
	}

	out := &Output{
		Instructions: &instr.Instructions{},
		SourceMap:    sourcemap.New(),
		CallIndex:    newCallIndex(),
		Clusters:     clusters,
		CompiledAt:   make(map[string]instr.InstructionAddress),
		CompiledHash: make(map[syntax.Hash]instr.InstructionAddress),
		CallsByHash:  make(map[syntax.Hash][]CallSite),
	}

	out.CallToMain = out.Instructions.Push(instr.TriggerEffectInstr(instr.EffectBuildError))

	g := &generator{tree: tree, tp: tp, out: out}
	for _, cluster := range clusters {
		g.compileCluster(cluster)
	}

	if mainLoc, ok := g.findMain(); ok {
		if addr, ok := out.CompiledAt[mainLoc.Key()]; ok {
			out.Instructions.Replace(out.CallToMain, instr.CallFunctionInstr(instr.CompiledFunction{Address: addr}, true))
			out.CallIndex.record(mainLoc, CallSite{Address: out.CallToMain, IsTailCall: true})
		}
	}

	return out
}

// GenerateIncremental extends a previous Output in place, compiling only
// the named functions in toCompile (newly added or updated, per
// internal/changes.Detect) against tree and appending their instructions
// onto prev's existing array. Unchanged functions are never revisited:
// calls out of the newly compiled code into them resolve through
// prev.CompiledHash, which survives the fact that tree reassigns indices
// even to functions whose bodies didn't change. Grounded directly on
// compile_cluster.rs's seed_queue_of_functions_to_compile, which seeds
// its queue only from `changes.new_or_updated_function`.
func GenerateIncremental(tree *syntax.Tree, prev *Output, toCompile []syntax.FunctionLocation) *Output {
	tp := tailpos.Find(tree)
	g := &generator{tree: tree, tp: tp, out: prev}
	cluster := &depgraph.DependencyCluster{Functions: toCompile}
	g.compileCluster(cluster)
	prev.Clusters = append(prev.Clusters, cluster)

	if mainLoc, ok := g.findMain(); ok {
		if addr, ok := prev.CompiledAt[mainLoc.Key()]; ok {
			if call, ok := prev.Instructions.Get(prev.CallToMain); !ok || call.Tag != instr.CallFunction || call.Callee.Address != addr {
				prev.Instructions.Replace(prev.CallToMain, instr.CallFunctionInstr(instr.CompiledFunction{Address: addr}, true))
				prev.CallIndex.record(mainLoc, CallSite{Address: prev.CallToMain, IsTailCall: true})
			}
		}
	}

	return prev
}

func (g *generator) findMain() (syntax.FunctionLocation, bool) {
	for _, idx := range g.tree.Functions.Indices() {
		nf, _ := g.tree.Functions.Get(idx)
		if nf.Name == "main" {
			return syntax.NamedFunctionLocation(idx), true
		}
	}
	return syntax.FunctionLocation{}, false
}

type generator struct {
	tree *syntax.Tree
	tp   *tailpos.TailPositions
	out  *Output
}

// pendingCall is a placeholder CallFunction instruction awaiting its
// real callee address, because that callee is elsewhere in the same
// cluster and may not have been compiled yet.
type pendingCall struct {
	site   CallSite
	callee syntax.FunctionLocation
}

func (g *generator) compileCluster(cluster *depgraph.DependencyCluster) {
	var pending []pendingCall

	// cluster.Functions also lists local functions: Build adds them as
	// graph nodes so Diverge's finer branch-level pass can see calls
	// into them. They are never compiled here, only inline, the first
	// time the member that defines them is reached (compileMember's
	// ExprLocalFunction case) — a local function has no name another
	// function could address it by, so every call to it lives inside
	// its own lexically enclosing named function's subtree and is
	// resolved entirely within that single compileFunction recursion.
	for _, loc := range cluster.Functions {
		if !loc.IsNamed() {
			continue
		}
		fn := g.tree.FunctionAt(loc)
		if fn == nil {
			continue
		}
		addr := g.compileFunction(fn, loc, &pending)
		g.out.CompiledAt[loc.Key()] = addr
		g.out.CompiledHash[syntax.HashFunction(*fn)] = addr
	}

	for _, p := range pending {
		addr, ok := g.out.CompiledAt[p.callee.Key()]
		if !ok {
			// Unreachable for a correctly built cluster: every callee
			// recorded as pending belongs to this same cluster and was
			// compiled in the loop above.
			continue
		}
		g.out.Instructions.Replace(p.site.Address, instr.CallFunctionInstr(instr.CompiledFunction{Address: addr}, p.site.IsTailCall))
		g.out.CallIndex.record(p.callee, p.site)
		if calleeFn := g.tree.FunctionAt(p.callee); calleeFn != nil {
			h := syntax.HashFunction(*calleeFn)
			g.out.CallsByHash[h] = append(g.out.CallsByHash[h], p.site)
		}
	}
}

// compileFunction emits fn's branches in declaration order and returns
// the address of its first instruction.
func (g *generator) compileFunction(fn *syntax.Function, loc syntax.FunctionLocation, pending *[]pendingCall) instr.InstructionAddress {
	first := g.out.Instructions.NextAddress()

	branchCount := fn.Branches.Len()
	var noMatchTargets []instr.InstructionAddress

	for _, bidx := range fn.Branches.Indices() {
		br, _ := fn.Branches.Get(bidx)
		brLoc := syntax.BranchLocation{Parent: loc, Index: bidx}
		isLast := int(bidx) == branchCount-1

		guardAddrs := g.compileGuard(br.Parameters)

		for _, midx := range br.Body.Indices() {
			m, _ := br.Body.Get(midx)
			mLoc := syntax.MemberLocation{Parent: brLoc, Index: midx}
			g.compileMember(m, mLoc, pending)
		}

		g.out.Instructions.Push(instr.ReturnInstr())

		branchEnd := g.out.Instructions.NextAddress()
		if isLast {
			noMatchTargets = append(noMatchTargets, guardAddrs...)
		} else {
			for _, a := range guardAddrs {
				patchGuardTarget(g.out.Instructions, a, branchEnd)
			}
		}
	}

	if len(noMatchTargets) > 0 {
		trailer := g.out.Instructions.Push(instr.TriggerEffectInstr(instr.EffectNoMatch))
		for _, a := range noMatchTargets {
			patchGuardTarget(g.out.Instructions, a, trailer)
		}
	}

	return first
}

func patchGuardTarget(ins *instr.Instructions, addr, target instr.InstructionAddress) {
	i, ok := ins.Get(addr)
	if !ok {
		return
	}
	i.Target = target
	ins.Replace(addr, i)
}

// compileGuard emits one instruction per parameter, checked against
// the operand stack from the top down: patterns are processed in
// reverse declaration order because a branch body's own pushes land on
// top of stack in the order they're written, so the *last* declared
// parameter is consumed first. Literal patterns get a GuardLiteral
// instruction whose mismatch target is patched by the caller once the
// branch's extent (or the function's NoMatch trailer) is known;
// consecutive identifier patterns are batched into one
// BindingsDefine.
func (g *generator) compileGuard(params []syntax.Pattern) []instr.InstructionAddress {
	var guardAddrs []instr.InstructionAddress
	var pendingNames []string

	flush := func() {
		if len(pendingNames) == 0 {
			return
		}
		names := make([]string, len(pendingNames))
		for i, n := range pendingNames {
			names[len(pendingNames)-1-i] = n
		}
		g.out.Instructions.Push(instr.BindingsDefineInstr(names...))
		pendingNames = pendingNames[:0]
	}

	for i := len(params) - 1; i >= 0; i-- {
		p := params[i]
		if p.IsLiteral {
			flush()
			addr := g.out.Instructions.Push(instr.GuardLiteralInstr(instr.ValueFromS32(p.Literal), 0))
			guardAddrs = append(guardAddrs, addr)
			continue
		}
		pendingNames = append(pendingNames, p.Identifier)
	}
	flush()

	return guardAddrs
}

func (g *generator) compileMember(m syntax.Member, loc syntax.MemberLocation, pending *[]pendingCall) {
	e := m.Expression
	switch e.Kind {
	case syntax.ExprComment:
		return

	case syntax.ExprLiteralInteger:
		addr := g.out.Instructions.Push(instr.PushInstr(instr.ValueFromS32(e.Integer)))
		g.out.SourceMap.Record(addr, loc)

	case syntax.ExprLocalBindingReference:
		addr := g.out.Instructions.Push(instr.BindingEvaluateInstr(e.Identifier))
		g.out.SourceMap.Record(addr, loc)

	case syntax.ExprCallHostFunction:
		a1 := g.out.Instructions.Push(instr.PushInstr(instr.ValueFromU32(uint32(e.HostFunctionNumber))))
		g.out.SourceMap.Record(a1, loc)
		a2 := g.out.Instructions.Push(instr.TriggerEffectInstr(instr.EffectHost))
		g.out.SourceMap.Record(a2, loc)

	case syntax.ExprCallIntrinsic:
		addr := g.out.Instructions.Push(instr.CallBuiltinInstr(e.IntrinsicName))
		g.out.SourceMap.Record(addr, loc)

	case syntax.ExprUnresolvedIdentifier:
		addr := g.out.Instructions.Push(instr.TriggerEffectInstr(instr.EffectBuildError))
		g.out.SourceMap.Record(addr, loc)

	case syntax.ExprCallUserDefinedRecursive:
		callee := *e.UserDefinedCallee
		isTail := g.tp.IsTail(loc)

		// Prefer the location-keyed address: correct and unambiguous
		// within this single compile pass. Fall back to the callee's
		// content hash, which is the only identity that survives an
		// incremental rebuild reassigning indices to functions whose
		// bodies didn't change (internal/changes.Apply calls
		// GenerateIncremental only for added/updated functions; everything else is found
		// this way).
		compiledAddr, ok := g.out.CompiledAt[callee.Key()]
		var calleeHash syntax.Hash
		haveHash := false
		if calleeFn := g.tree.FunctionAt(callee); calleeFn != nil {
			calleeHash = syntax.HashFunction(*calleeFn)
			haveHash = true
			if !ok {
				compiledAddr, ok = g.out.CompiledHash[calleeHash]
			}
		}

		if ok {
			addr := g.out.Instructions.Push(instr.CallFunctionInstr(instr.CompiledFunction{Address: compiledAddr}, isTail))
			g.out.SourceMap.Record(addr, loc)
			g.out.CallIndex.record(callee, CallSite{Address: addr, IsTailCall: isTail})
			if haveHash {
				g.out.CallsByHash[calleeHash] = append(g.out.CallsByHash[calleeHash], CallSite{Address: addr, IsTailCall: isTail})
			}
		} else {
			addr := g.out.Instructions.Push(instr.CallFunctionPlaceholder(isTail))
			g.out.SourceMap.Record(addr, loc)
			*pending = append(*pending, pendingCall{site: CallSite{Address: addr, IsTailCall: isTail}, callee: callee})
		}

	case syntax.ExprLocalFunction:
		jumpAddr := g.out.Instructions.Push(instr.JumpInstr(0))
		entry := g.out.Instructions.NextAddress()
		g.compileFunction(e.Local, syntax.LocalFunctionLocation(loc), pending)
		end := g.out.Instructions.NextAddress()
		patchGuardTarget(g.out.Instructions, jumpAddr, end)

		names := sortedNames(freeVariables(e.Local))
		addr := g.out.Instructions.Push(instr.MakeAnonymousFunctionInstr(entry, names))
		g.out.SourceMap.Record(addr, loc)
		g.out.CompiledAt[syntax.LocalFunctionLocation(loc).Key()] = entry
	}
}

func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// freeVariables returns the names referenced by fn (including inside
// its own nested local functions) that are not bound by one of fn's
// own branch parameters: the bindings a closure over fn must capture
// from its enclosing frame (the explicit-capture model recorded as a
// resolved Open Question in DESIGN.md).
func freeVariables(fn *syntax.Function) map[string]bool {
	free := make(map[string]bool)
	for _, bidx := range fn.Branches.Indices() {
		br, _ := fn.Branches.Get(bidx)
		bound := make(map[string]bool, len(br.Parameters))
		for _, p := range br.Parameters {
			if !p.IsLiteral {
				bound[p.Identifier] = true
			}
		}
		collectFreeVariables(br.Body, bound, free)
	}
	return free
}

func collectFreeVariables(body syntax.OrderedMap[syntax.Member, syntax.Member], bound, free map[string]bool) {
	for _, idx := range body.Indices() {
		m, _ := body.Get(idx)
		switch m.Expression.Kind {
		case syntax.ExprLocalBindingReference:
			if name := m.Expression.Identifier; !bound[name] {
				free[name] = true
			}
		case syntax.ExprLocalFunction:
			for name := range freeVariables(m.Expression.Local) {
				if !bound[name] {
					free[name] = true
				}
			}
		}
	}
}
