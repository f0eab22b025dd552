// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package devhost

import (
	"testing"

	"github.com/crosscut-lang/crosscut/internal/instr"
	"github.com/crosscut-lang/crosscut/internal/protocol"
	"github.com/crosscut-lang/crosscut/internal/vm"
)

func TestApplyCommandBreakpointSetDelegatesToRuntime(t *testing.T) {
	b := &Builder{Host: &DemoHost{}}
	build := mustCompile(t, b, "main: fn br -> 1 send end end")
	loop := &HostLoop{Host: &DemoHost{}, HeapSize: 64}
	loop.build = build
	loop.rt = vm.New(build.Output.CallToMain, 64)

	loop.ApplyCommand(&protocol.Command{Kind: protocol.CommandBreakpointSet, Address: build.Output.CallToMain})
	if !loop.rt.Breakpoints.IsDurable(build.Output.CallToMain) {
		t.Fatal("CommandBreakpointSet should install a durable breakpoint")
	}

	loop.ApplyCommand(&protocol.Command{Kind: protocol.CommandBreakpointClear, Address: build.Output.CallToMain})
	if loop.rt.Breakpoints.IsDurable(build.Output.CallToMain) {
		t.Fatal("CommandBreakpointClear should remove the durable breakpoint")
	}
}

func TestApplyCommandContinueResumesFromBreakpoint(t *testing.T) {
	b := &Builder{Host: &DemoHost{}}
	build := mustCompile(t, b, "main: fn br -> 1 send end end")
	loop := &HostLoop{Host: &DemoHost{}, HeapSize: 64}
	loop.build = build
	loop.rt = vm.New(build.Output.CallToMain, 64)
	loop.rt.Breakpoints.SetDurable(build.Output.CallToMain)

	loop.rt.Step(build.Output.Instructions)
	if loop.rt.State() != vm.Stopped {
		t.Fatalf("State = %v, want Stopped after hitting the breakpoint", loop.rt.State())
	}
	eff, _ := loop.rt.Effect()
	if eff != instr.EffectBreakpoint {
		t.Fatalf("Effect = %v, want EffectBreakpoint", eff)
	}

	loop.ApplyCommand(&protocol.Command{Kind: protocol.CommandContinue})
	if loop.rt.State() == vm.Stopped {
		t.Fatal("CommandContinue should clear a breakpoint-triggered stop")
	}
}

func TestApplyCommandStopDiscardsRuntime(t *testing.T) {
	b := &Builder{Host: &DemoHost{}}
	build := mustCompile(t, b, "main: fn br -> 1 send end end")
	loop := &HostLoop{Host: &DemoHost{}, HeapSize: 64}
	loop.build = build
	loop.rt = vm.New(build.Output.CallToMain, 64)

	loop.ApplyCommand(&protocol.Command{Kind: protocol.CommandStop})
	if loop.rt != nil {
		t.Fatal("CommandStop should discard the runtime")
	}
}

func TestApplyCommandResetPreservesDurableBreakpoints(t *testing.T) {
	b := &Builder{Host: &DemoHost{}}
	build := mustCompile(t, b, "main: fn br -> 1 send end end")
	loop := &HostLoop{Host: &DemoHost{}, HeapSize: 64}
	loop.build = build
	loop.rt = vm.New(build.Output.CallToMain, 64)
	loop.rt.Breakpoints.SetDurable(build.Output.CallToMain)
	loop.rt.Breakpoints.SetEphemeral(build.Output.CallToMain + 1)

	// Step once: the durable breakpoint at the entry stops the runtime,
	// so Reset restarts a stopped program rather than a fresh one.
	loop.rt.Step(build.Output.Instructions)

	loop.ApplyCommand(&protocol.Command{Kind: protocol.CommandReset})

	if loop.rt == nil {
		t.Fatal("CommandReset should leave a runnable runtime")
	}
	if loop.rt.Stack.Len() != 1 {
		t.Fatalf("Stack.Len() = %d, want 1 (single frame at main)", loop.rt.Stack.Len())
	}
	if !loop.rt.Breakpoints.IsDurable(build.Output.CallToMain) {
		t.Fatal("Reset should preserve durable breakpoints")
	}
	if loop.rt.Breakpoints.IsEphemeral(build.Output.CallToMain + 1) {
		t.Fatal("Reset should clear ephemeral breakpoints")
	}
}
