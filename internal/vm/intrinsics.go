// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import "github.com/crosscut-lang/crosscut/internal/instr"

func boolValue(b bool) instr.Value {
	if b {
		return instr.ValueFromS32(1)
	}
	return instr.ValueFromS32(0)
}

// callBuiltin implements the fixed catalog internal/intrinsics
// describes, against this runtime's operand stack, call stack, and
// closure table. Grounded on the arity table in
// internal/intrinsics.catalog; one case per entry there, no more.
func (r *Runtime) callBuiltin(name string) bool {
	switch name {
	case "brk":
		r.effect.trigger(instr.EffectBreakpoint)
		return false

	case "drop":
		if _, ok := r.pop1(); !ok {
			return false
		}
		return true

	case "copy":
		v, ok := r.pop1()
		if !ok {
			return false
		}
		r.Operands.Push(v)
		r.Operands.Push(v)
		return true

	case "not":
		v, ok := r.pop1()
		if !ok {
			return false
		}
		r.Operands.Push(boolValue(v.AsS32() == 0))
		return true

	case "eval":
		v, ok := r.pop1()
		if !ok {
			return false
		}
		cl, ok := r.closures.get(v.AsU32())
		if !ok {
			r.effect.trigger(instr.EffectInvalidFunction)
			return false
		}
		bindings := make(map[string]instr.Value, len(cl.Captures))
		for k, cv := range cl.Captures {
			bindings[k] = cv
		}
		if !r.Stack.Push(cl.Entry, bindings) {
			r.effect.trigger(instr.EffectPushStackFrame)
			return false
		}
		return true
	}

	return r.callBinary(name)
}

// callBinary handles every two-operand intrinsic: arithmetic,
// comparison, and the fixed-width variants. Split from callBuiltin
// purely to keep that switch's single-operand cases readable.
func (r *Runtime) callBinary(name string) bool {
	lhs, rhs, ok := r.pop2()
	if !ok {
		return false
	}
	a, b := lhs.AsS32(), rhs.AsS32()

	switch name {
	case "+", "add_s32":
		sum := int64(a) + int64(b)
		if sum < minS32 || sum > maxS32 {
			r.effect.trigger(instr.EffectIntegerOverflow)
			return false
		}
		r.Operands.Push(instr.ValueFromS32(int32(sum)))
		return true

	case "-":
		diff := int64(a) - int64(b)
		if diff < minS32 || diff > maxS32 {
			r.effect.trigger(instr.EffectIntegerOverflow)
			return false
		}
		r.Operands.Push(instr.ValueFromS32(int32(diff)))
		return true

	case "*":
		prod := int64(a) * int64(b)
		if prod < minS32 || prod > maxS32 {
			r.effect.trigger(instr.EffectIntegerOverflow)
			return false
		}
		r.Operands.Push(instr.ValueFromS32(int32(prod)))
		return true

	case "/", "div_s32":
		if b == 0 {
			r.effect.trigger(instr.EffectDivideByZero)
			return false
		}
		r.Operands.Push(instr.ValueFromS32(a / b))
		return true

	case "%":
		if b == 0 {
			r.effect.trigger(instr.EffectDivideByZero)
			return false
		}
		r.Operands.Push(instr.ValueFromS32(a % b))
		return true

	case "=":
		r.Operands.Push(boolValue(a == b))
		return true
	case "!=":
		r.Operands.Push(boolValue(a != b))
		return true
	case "<":
		r.Operands.Push(boolValue(a < b))
		return true
	case ">":
		r.Operands.Push(boolValue(a > b))
		return true
	case "<=":
		r.Operands.Push(boolValue(a <= b))
		return true
	case ">=":
		r.Operands.Push(boolValue(a >= b))
		return true
	case "and":
		r.Operands.Push(boolValue(a != 0 && b != 0))
		return true
	case "or":
		r.Operands.Push(boolValue(a != 0 || b != 0))
		return true

	case "add_s8":
		la, oka := lhs.AsS8()
		lb, okb := rhs.AsS8()
		if !oka || !okb {
			r.effect.trigger(instr.EffectOperandOutOfBounds)
			return false
		}
		sum := int32(la) + int32(lb)
		if sum < -128 || sum > 127 {
			r.effect.trigger(instr.EffectIntegerOverflow)
			return false
		}
		r.Operands.Push(instr.ValueFromS32(sum))
		return true

	case "add_u8":
		ua, oka := lhs.AsU8()
		ub, okb := rhs.AsU8()
		if !oka || !okb {
			r.effect.trigger(instr.EffectOperandOutOfBounds)
			return false
		}
		sum := int(ua) + int(ub)
		if sum > 255 {
			r.effect.trigger(instr.EffectIntegerOverflow)
			return false
		}
		r.Operands.Push(instr.ValueFromU32(uint32(sum)))
		return true

	case "add_u8_wrap":
		ua, oka := lhs.AsU8()
		ub, okb := rhs.AsU8()
		if !oka || !okb {
			r.effect.trigger(instr.EffectOperandOutOfBounds)
			return false
		}
		r.Operands.Push(instr.ValueFromU32(uint32((int(ua) + int(ub)) % 256)))
		return true
	}

	// Unreachable for any name internal/intrinsics.Lookup accepts: the
	// compiler never emits CallBuiltin for a name outside that catalog.
	r.effect.trigger(instr.EffectCompilerBug)
	return false
}

const (
	minS32 = -2147483648
	maxS32 = 2147483647
)
