// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package devhost

import (
	"github.com/crosscut-lang/crosscut/internal/codegen"
	"github.com/crosscut-lang/crosscut/internal/instr"
	"github.com/crosscut-lang/crosscut/internal/protocol"
	"github.com/crosscut-lang/crosscut/internal/vm"
)

// ApplyCommand applies a debugger Command to l's running program.
// Callers serialize calls against Run's own access to l the way a
// single debugger connection serializes commands against one host
// (spec.md §6); this package does no locking of its own for it.
//
// CommandUpdateCode is deliberately not handled here: new code reaches
// a HostLoop exclusively through its BuildSlot, published by a
// Builder that already holds the syntax.Tree changes.Detect needs.
// Applying raw compiled output from the wire would only ever be able
// to replace the whole program, losing the live-patch behavior
// applyPending already gives every build from this process's own
// Builder.
func (l *HostLoop) ApplyCommand(cmd *protocol.Command) {
	switch cmd.Kind {
	case protocol.CommandBreakpointSet, protocol.CommandBreakpointClear:
		if l.rt != nil {
			protocol.ApplyBreakpointCommand(l.rt.Breakpoints, cmd)
		}

	case protocol.CommandStep:
		if l.rt != nil && l.rt.State() == vm.Running {
			l.rt.Step(l.build.Output.Instructions)
		}

	case protocol.CommandContinue:
		if l.rt == nil || l.rt.State() != vm.Stopped {
			return
		}
		if eff, _ := l.rt.Effect(); eff == instr.EffectBreakpoint {
			l.rt.Resume()
		}

	case protocol.CommandStop:
		l.rt = nil

	case protocol.CommandReset:
		l.reset()
	}
}

// reset recompiles the current build's tree from scratch -- a plain
// codegen.Generate rather than changes.Apply's incremental patch --
// and starts a fresh Runtime at its entry point, the way a from-
// scratch rebuild leaves no trace of whatever incremental CallIndex
// rewriting earlier live updates performed. Durable breakpoints
// survive the restart; ephemeral ones, tied to whatever single-step
// was in flight when Reset arrived, do not.
func (l *HostLoop) reset() {
	if l.build == nil {
		return
	}
	out := codegen.Generate(l.build.Tree)
	l.build = &Build{Tree: l.build.Tree, Output: out}

	fresh := vm.New(out.CallToMain, l.HeapSize)
	if l.rt != nil {
		l.rt.Breakpoints.CopyDurableTo(fresh.Breakpoints)
	}
	l.rt = fresh
}
