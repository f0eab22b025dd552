// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import (
	"github.com/crosscut-lang/crosscut/internal/breakpoints"
	"github.com/crosscut-lang/crosscut/internal/instr"
)

// Runtime is one running program: a call stack, the operand stack every
// frame shares, a closure table, a heap, an effect register, and the
// breakpoint sets a debugging host installs into. Grounded on
// original_source/crosscut/runtime/src/runtime.rs's Runtime{effect,
// evaluator} split, collapsed here into a single struct since Go has no
// need for the Rust version's separate Evaluator type once Stack and
// OperandStack each own their invariants.
type Runtime struct {
	Stack       *Stack
	Operands    *OperandStack
	Heap        *Heap
	Breakpoints *breakpoints.Set

	closures closures
	effect   effectRegister
}

// New starts a program at entry with a heap of heapSize bytes.
func New(entry instr.InstructionAddress, heapSize int) *Runtime {
	return &Runtime{
		Stack:       NewStack(entry),
		Operands:    &OperandStack{},
		Heap:        NewHeap(heapSize),
		Breakpoints: breakpoints.New(),
	}
}

// State reports the program's coarse status: Stopped while an effect is
// pending, Finished once the call stack has unwound completely, Running
// otherwise.
func (r *Runtime) State() State {
	if _, present := r.effect.Get(); present {
		return Stopped
	}
	if r.Stack.Len() == 0 {
		return Finished
	}
	return Running
}

// Effect returns the pending effect, if any.
func (r *Runtime) Effect() (instr.Effect, bool) { return r.effect.Get() }

// Fail sets the effect register directly, for a layer above the
// evaluator (the host protocol) reporting a violation the evaluator
// itself never detects on its own — a malformed Host response becomes
// InvalidHostEffect this way.
func (r *Runtime) Fail(e instr.Effect) bool { return r.effect.trigger(e) }

// Resume clears a pending effect without moving the program counter, so
// the next Step re-fetches and executes the same instruction. Correct
// for a Breakpoint (the instruction was never actually run) and for any
// effect whose cause the host fixed by mutating state rather than
// supplying a value (e.g. a live update that replaced a BuildError call
// site with a real one).
func (r *Runtime) Resume() { r.effect.clear() }

// Advance clears a pending effect and additionally moves the active
// frame's program counter past the instruction that triggered it.
// Needed after a Host effect: the host has already read its arguments
// and pushed a result, and re-running the same TriggerEffect{Host}
// instruction would just trigger Host again (spec.md §4.8
// "ignore_next_instruction... without this, that instruction would
// re-execute indefinitely").
func (r *Runtime) Advance() {
	if _, present := r.effect.Get(); !present {
		return
	}
	if f := r.Stack.Top(); f != nil {
		f.NextInstruction++
	}
	r.effect.clear()
}

// Step performs exactly one instruction's worth of work, or one
// breakpoint check, per spec.md §4.8. It is a no-op when the program is
// not Running.
func (r *Runtime) Step(instructions *instr.Instructions) {
	if r.State() != Running {
		return
	}

	frame := r.Stack.Top()
	addr := frame.NextInstruction

	if r.Breakpoints.Hit(addr) {
		r.effect.trigger(instr.EffectBreakpoint)
		return
	}

	ins, ok := instructions.Get(addr)
	if !ok {
		r.effect.trigger(instr.EffectCompilerBug)
		return
	}

	frame.NextInstruction = addr + 1
	if !r.dispatch(frame, ins) {
		frame.NextInstruction = addr
	}
}

// dispatch executes one instruction against frame, which is already the
// top of the call stack (and may cease to be, for Return). It reports
// false whenever it triggered an effect, telling Step to leave the
// frame's program counter pointing back at the instruction that failed.
func (r *Runtime) dispatch(frame *Frame, i instr.Instruction) bool {
	switch i.Tag {
	case instr.Push:
		r.Operands.Push(i.Value)
		return true

	case instr.BindingEvaluate:
		v, ok := frame.Bindings[i.Name]
		if !ok {
			r.effect.trigger(instr.EffectCompilerBug)
			return false
		}
		r.Operands.Push(v)
		return true

	case instr.BindingsDefine:
		names := i.BindingNames()
		for idx := len(names) - 1; idx >= 0; idx-- {
			v, ok := r.Operands.Pop()
			if !ok {
				r.effect.trigger(instr.EffectPopOperand)
				return false
			}
			frame.Bindings[names[idx]] = v
		}
		return true

	case instr.GuardLiteral:
		v, ok := r.Operands.Pop()
		if !ok {
			r.effect.trigger(instr.EffectPopOperand)
			return false
		}
		if v != i.Value {
			frame.NextInstruction = i.Target
		}
		return true

	case instr.Jump:
		frame.NextInstruction = i.Target
		return true

	case instr.CallFunction:
		if i.CalleePlaceholder {
			r.effect.trigger(instr.EffectCompilerBug)
			return false
		}
		if i.IsTailCall {
			frame.NextInstruction = i.Callee.Address
			for k := range frame.Bindings {
				delete(frame.Bindings, k)
			}
			return true
		}
		if !r.Stack.Push(i.Callee.Address, nil) {
			r.effect.trigger(instr.EffectPushStackFrame)
			return false
		}
		return true

	case instr.CallBuiltin:
		return r.callBuiltin(i.Name)

	case instr.Return:
		r.Stack.Pop()
		return true

	case instr.ReturnIfZero:
		v, ok := r.Operands.Pop()
		if !ok {
			r.effect.trigger(instr.EffectPopOperand)
			return false
		}
		if v.AsS32() == 0 {
			r.Stack.Pop()
		}
		return true

	case instr.ReturnIfNonZero:
		v, ok := r.Operands.Pop()
		if !ok {
			r.effect.trigger(instr.EffectPopOperand)
			return false
		}
		if v.AsS32() != 0 {
			r.Stack.Pop()
		}
		return true

	case instr.MakeAnonymousFunction:
		captures := make(map[string]instr.Value, len(i.CaptureNames))
		for _, name := range i.CaptureNames {
			v, ok := frame.Bindings[name]
			if !ok {
				r.effect.trigger(instr.EffectCompilerBug)
				return false
			}
			captures[name] = v
		}
		handle := r.closures.new(Closure{Entry: i.EntryAddress, Captures: captures})
		r.Operands.Push(instr.ValueFromU32(handle))
		return true

	case instr.TriggerEffect:
		r.effect.trigger(i.Effect)
		return false
	}

	r.effect.trigger(instr.EffectCompilerBug)
	return false
}

func (r *Runtime) pop1() (instr.Value, bool) {
	v, ok := r.Operands.Pop()
	if !ok {
		r.effect.trigger(instr.EffectPopOperand)
	}
	return v, ok
}

// pop2 pops the two operands a binary builtin consumes, returning them
// as (lhs, rhs): rhs was pushed last and so sits on top. If the second
// pop fails, rhs is pushed back so the stack is left exactly as it was
// found, matching the "instruction does not advance" contract for every
// other failure path.
func (r *Runtime) pop2() (lhs, rhs instr.Value, ok bool) {
	rhs, ok = r.pop1()
	if !ok {
		return instr.Value{}, instr.Value{}, false
	}
	lhs, ok = r.pop1()
	if !ok {
		r.Operands.Push(rhs)
		return instr.Value{}, instr.Value{}, false
	}
	return lhs, rhs, true
}
