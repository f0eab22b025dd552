// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import (
	"testing"

	"github.com/crosscut-lang/crosscut/internal/codegen"
	"github.com/crosscut-lang/crosscut/internal/instr"
	"github.com/crosscut-lang/crosscut/internal/parser"
	"github.com/crosscut-lang/crosscut/internal/resolve"
	"github.com/crosscut-lang/crosscut/internal/token"
)

func compile(t *testing.T, src string, host resolve.Host) *codegen.Output {
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
	return codegen.Generate(tree)
}

// runUntilHost steps r until it either stops on a Host effect (returning
// the two operands a real host would read: the call number and the
// single argument beneath it) or leaves the Running state some other
// way, in which case it fails the test.
func runUntilHost(t *testing.T, r *Runtime, ins *instr.Instructions) (number, arg instr.Value) {
	t.Helper()
	for r.State() == Running {
		r.Step(ins)
	}
	if r.State() != Stopped {
		t.Fatalf("got state %v, want Stopped on a Host effect", r.State())
	}
	e, _ := r.Effect()
	if e != instr.EffectHost {
		t.Fatalf("got effect %v, want Host", e)
	}
	var ok1, ok2 bool
	number, ok1 = r.Operands.Pop()
	arg, ok2 = r.Operands.Pop()
	if !ok1 || !ok2 {
		t.Fatal("expected two operands on a Host effect")
	}
	return number, arg
}

func TestSimplestProgramCallsHostOnce(t *testing.T) {
	host := resolve.StaticHost{Funcs: []resolve.HostFunction{{Name: "send", Number: 0}}}
	out := compile(t, "main: fn br -> 0 send end end", host)

	r := New(0, 0)
	number, arg := runUntilHost(t, r, out.Instructions)
	if number.AsU32() != 0 || arg.AsS32() != 0 {
		t.Fatalf("got number=%d arg=%d, want 0, 0", number.AsU32(), arg.AsS32())
	}

	r.Advance()
	for r.State() == Running {
		r.Step(out.Instructions)
	}
	if r.State() != Finished {
		t.Fatalf("got state %v, want Finished", r.State())
	}
}

func TestAnonymousFunctionEvalMatchesDirectCall(t *testing.T) {
	host := resolve.StaticHost{Funcs: []resolve.HostFunction{{Name: "send", Number: 0}}}
	out := compile(t, "main: fn br -> fn br -> 0 send end end eval end end", host)

	r := New(0, 0)
	number, arg := runUntilHost(t, r, out.Instructions)
	if number.AsU32() != 0 || arg.AsS32() != 0 {
		t.Fatalf("got number=%d arg=%d, want 0, 0", number.AsU32(), arg.AsS32())
	}

	r.Advance()
	for r.State() == Running {
		r.Step(out.Instructions)
	}
	if r.State() != Finished {
		t.Fatalf("got state %v, want Finished", r.State())
	}
}

func TestTailCallMutualRecursionNeverGrowsStack(t *testing.T) {
	src := "a: fn br -> b end end  b: fn br -> a end end  main: fn br -> a end end"
	out := compile(t, src, resolve.StaticHost{})

	r := New(0, 0)
	for i := 0; i < 5000; i++ {
		r.Step(out.Instructions)
		if r.State() != Running {
			t.Fatalf("stopped being Running after %d steps: state=%v", i, r.State())
		}
		if r.Stack.Len() != 1 {
			t.Fatalf("call stack grew to %d frames at step %d; tail calls must reuse the frame", r.Stack.Len(), i)
		}
	}
}

func TestUnresolvedIdentifierTriggersBuildErrorAtItsLocation(t *testing.T) {
	out := compile(t, "main: fn br -> wobble end end", resolve.StaticHost{})

	r := New(0, 0)
	for r.State() == Running {
		r.Step(out.Instructions)
	}
	if r.State() != Stopped {
		t.Fatalf("got state %v, want Stopped", r.State())
	}
	e, _ := r.Effect()
	if e != instr.EffectBuildError {
		t.Fatalf("got effect %v, want BuildError", e)
	}

	addr := r.Stack.Top().NextInstruction
	loc, ok := out.SourceMap.LocationOf(addr)
	if !ok {
		t.Fatalf("no source-map entry for the instruction that triggered BuildError at %d", addr)
	}
	if loc.Index < 0 {
		t.Fatalf("unexpected location %+v", loc)
	}
}

func TestPatternMatchDispatchSendsBothBranches(t *testing.T) {
	host := resolve.StaticHost{Funcs: []resolve.HostFunction{{Name: "send", Number: 0}}}
	src := "f: fn br 0 -> 1 send end br n -> 2 send end end  main: fn br -> 0 f 7 f end end"
	out := compile(t, src, host)

	r := New(0, 0)

	_, arg1 := runUntilHost(t, r, out.Instructions)
	if arg1.AsS32() != 1 {
		t.Fatalf("first send carried %d, want 1", arg1.AsS32())
	}
	r.Advance()

	_, arg2 := runUntilHost(t, r, out.Instructions)
	if arg2.AsS32() != 2 {
		t.Fatalf("second send carried %d, want 2", arg2.AsS32())
	}
	r.Advance()

	for r.State() == Running {
		r.Step(out.Instructions)
	}
	if r.State() != Finished {
		t.Fatalf("got state %v, want Finished", r.State())
	}
}

func TestDurableBreakpointStopsWithoutAdvancing(t *testing.T) {
	host := resolve.StaticHost{Funcs: []resolve.HostFunction{{Name: "send", Number: 0}}}
	out := compile(t, "main: fn br -> 0 send end end", host)

	r := New(0, 0)
	r.Breakpoints.SetDurable(out.CallToMain)

	r.Step(out.Instructions)
	if r.State() != Stopped {
		t.Fatalf("got state %v, want Stopped at the breakpoint", r.State())
	}
	e, _ := r.Effect()
	if e != instr.EffectBreakpoint {
		t.Fatalf("got effect %v, want Breakpoint", e)
	}
	if r.Stack.Top().NextInstruction != out.CallToMain {
		t.Fatal("program counter should still point at the breakpointed instruction")
	}

	r.Resume()
	r.Step(out.Instructions)
	if r.State() != Stopped {
		t.Fatalf("durable breakpoint should hit again immediately: got state %v", r.State())
	}
}

func TestEphemeralBreakpointConsumedThenRunsThrough(t *testing.T) {
	host := resolve.StaticHost{Funcs: []resolve.HostFunction{{Name: "send", Number: 0}}}
	out := compile(t, "main: fn br -> 0 send end end", host)

	r := New(0, 0)
	r.Breakpoints.SetEphemeral(out.CallToMain)

	r.Step(out.Instructions)
	if r.State() != Stopped {
		t.Fatalf("got state %v, want Stopped at the breakpoint", r.State())
	}

	r.Resume()
	number, arg := runUntilHost(t, r, out.Instructions)
	if number.AsU32() != 0 || arg.AsS32() != 0 {
		t.Fatalf("got number=%d arg=%d, want 0, 0", number.AsU32(), arg.AsS32())
	}
}

func TestPopOperandOnEmptyStackDoesNotAdvance(t *testing.T) {
	ins := &instr.Instructions{}
	ins.Push(instr.CallBuiltinInstr("drop"))

	r := New(0, 0)
	r.Step(ins)

	if r.State() != Stopped {
		t.Fatalf("got state %v, want Stopped", r.State())
	}
	e, _ := r.Effect()
	if e != instr.EffectPopOperand {
		t.Fatalf("got effect %v, want PopOperand", e)
	}
	if r.Stack.Top().NextInstruction != 0 {
		t.Fatal("instruction should not have advanced")
	}
}

func TestDivideByZero(t *testing.T) {
	ins := &instr.Instructions{}
	ins.Push(instr.PushInstr(instr.ValueFromS32(1)))
	ins.Push(instr.PushInstr(instr.ValueFromS32(0)))
	ins.Push(instr.CallBuiltinInstr("/"))

	r := New(0, 0)
	for r.State() == Running {
		r.Step(ins)
	}
	e, _ := r.Effect()
	if e != instr.EffectDivideByZero {
		t.Fatalf("got effect %v, want DivideByZero", e)
	}
}

func TestIntegerOverflowOnAdd(t *testing.T) {
	ins := &instr.Instructions{}
	ins.Push(instr.PushInstr(instr.ValueFromS32(2147483647)))
	ins.Push(instr.PushInstr(instr.ValueFromS32(1)))
	ins.Push(instr.CallBuiltinInstr("+"))

	r := New(0, 0)
	for r.State() == Running {
		r.Step(ins)
	}
	e, _ := r.Effect()
	if e != instr.EffectIntegerOverflow {
		t.Fatalf("got effect %v, want IntegerOverflow", e)
	}
}

func TestCopyDuplicatesTopOfStack(t *testing.T) {
	ins := &instr.Instructions{}
	ins.Push(instr.PushInstr(instr.ValueFromS32(9)))
	ins.Push(instr.CallBuiltinInstr("copy"))
	ins.Push(instr.ReturnInstr())

	r := New(0, 0)
	for r.State() == Running {
		r.Step(ins)
	}
	if r.State() != Finished {
		t.Fatalf("got state %v, want Finished", r.State())
	}
	if r.Operands.Len() != 2 {
		t.Fatalf("got %d operands, want 2", r.Operands.Len())
	}
	vs := r.Operands.Values()
	if vs[0].AsS32() != 9 || vs[1].AsS32() != 9 {
		t.Fatalf("got %v, want two 9s", vs)
	}
}
