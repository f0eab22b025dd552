// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

// Tag identifies an Instruction variant. Instruction is modeled as a
// closed tagged union (the way go/ssa represents its instruction set as
// an interface with a fixed set of implementers), rather than one Go
// struct per variant, because the evaluator dispatches on tag far more
// often than it type-switches, and a single array of Instruction values
// is cheaper to store than an array of interfaces boxing pointers.
type Tag uint8

const (
	Push Tag = iota
	BindingEvaluate
	BindingsDefine
	CallFunction
	CallBuiltin
	Return
	ReturnIfZero
	ReturnIfNonZero
	MakeAnonymousFunction
	TriggerEffect

	// Jump and GuardLiteral are the two control-flow primitives the
	// generator needs beyond the variants spec.md names explicitly (it
	// introduces its instruction list with "including", not as an
	// exhaustive list the way it does for Effect). Jump skips over a
	// local function's inline body; GuardLiteral implements literal
	// pattern matching, falling through on a match and jumping to the
	// next branch (or the function's NoMatch trailer) otherwise.
	Jump
	GuardLiteral
)

func (t Tag) String() string {
	switch t {
	case Push:
		return "push"
	case BindingEvaluate:
		return "eval binding"
	case BindingsDefine:
		return "bind"
	case CallFunction:
		return "call"
	case CallBuiltin:
		return "builtin"
	case Return:
		return "return"
	case ReturnIfZero:
		return "return if zero"
	case ReturnIfNonZero:
		return "return if non-zero"
	case MakeAnonymousFunction:
		return "make anonymous function"
	case TriggerEffect:
		return "trigger effect"
	case Jump:
		return "jump"
	case GuardLiteral:
		return "guard literal"
	}
	return "unknown"
}

// Effect names the condition reported through the runtime's effect
// register (spec.md §4.9, exhaustive).
type Effect uint8

const (
	EffectBreakpoint Effect = iota
	EffectBuildError
	EffectCompilerBug
	EffectDivideByZero
	EffectIntegerOverflow
	EffectInvalidFunction
	EffectInvalidHostEffect
	EffectNoMatch
	EffectOperandOutOfBounds
	EffectPopOperand
	EffectPushStackFrame
	EffectHost
)

func (e Effect) String() string {
	switch e {
	case EffectBreakpoint:
		return "breakpoint"
	case EffectBuildError:
		return "build error"
	case EffectCompilerBug:
		return "compiler bug"
	case EffectDivideByZero:
		return "divide by zero"
	case EffectIntegerOverflow:
		return "integer overflow"
	case EffectInvalidFunction:
		return "invalid function"
	case EffectInvalidHostEffect:
		return "invalid host effect"
	case EffectNoMatch:
		return "no match"
	case EffectOperandOutOfBounds:
		return "operand out of bounds"
	case EffectPopOperand:
		return "pop operand"
	case EffectPushStackFrame:
		return "push stack frame"
	case EffectHost:
		return "host"
	}
	return "unknown"
}

// CompiledFunction is a value referencing the first instruction address
// of a compiled function, plus any environment captured at the point a
// local function literal was turned into a callable value.
type CompiledFunction struct {
	Address  InstructionAddress
	Captures []Value
}

// Instruction is one step of the evaluator's program. Exactly the
// fields relevant to Tag are populated; the zero value of every other
// field is unused and ignored, the same convention syntax.Expression
// uses for its own tagged union.
type Instruction struct {
	Tag Tag

	Value Value

	Name string

	Callee     CompiledFunction
	IsTailCall bool

	// CalleePlaceholder is true for a CallFunction instruction emitted
	// before its real callee was compiled (a forward reference within a
	// cluster; the entry slot at CallToMain is a TriggerEffect{BuildError}
	// instead, not a placeholder call).
	// codegen records such instructions in a patch map and overwrites
	// them in place once the real address is known; it never leaves
	// one unresolved past the end of a build.
	CalleePlaceholder bool

	EntryAddress InstructionAddress

	// CaptureNames is meaningful for MakeAnonymousFunction: the names,
	// resolved at compile time by free-variable analysis over the local
	// function's body, whose current values the runtime must snapshot
	// off the enclosing frame's bindings when constructing the closure.
	CaptureNames []string

	Effect Effect

	// Target is meaningful for Jump and GuardLiteral: the address
	// execution continues at (unconditionally for Jump; on pattern
	// mismatch for GuardLiteral).
	Target InstructionAddress
}

func PushInstr(v Value) Instruction { return Instruction{Tag: Push, Value: v} }

func BindingEvaluateInstr(name string) Instruction {
	return Instruction{Tag: BindingEvaluate, Name: name}
}

func BindingsDefineInstr(names ...string) Instruction {
	return Instruction{Tag: BindingsDefine, Name: joinNames(names)}
}

func CallFunctionInstr(callee CompiledFunction, isTailCall bool) Instruction {
	return Instruction{Tag: CallFunction, Callee: callee, IsTailCall: isTailCall}
}

func CallFunctionPlaceholder(isTailCall bool) Instruction {
	return Instruction{Tag: CallFunction, IsTailCall: isTailCall, CalleePlaceholder: true}
}

func CallBuiltinInstr(name string) Instruction { return Instruction{Tag: CallBuiltin, Name: name} }

func ReturnInstr() Instruction { return Instruction{Tag: Return} }

func ReturnIfZeroInstr() Instruction { return Instruction{Tag: ReturnIfZero} }

func ReturnIfNonZeroInstr() Instruction { return Instruction{Tag: ReturnIfNonZero} }

func MakeAnonymousFunctionInstr(entry InstructionAddress, captures []string) Instruction {
	return Instruction{Tag: MakeAnonymousFunction, EntryAddress: entry, CaptureNames: captures}
}

func TriggerEffectInstr(e Effect) Instruction { return Instruction{Tag: TriggerEffect, Effect: e} }

func JumpInstr(target InstructionAddress) Instruction {
	return Instruction{Tag: Jump, Target: target}
}

func GuardLiteralInstr(value Value, target InstructionAddress) Instruction {
	return Instruction{Tag: GuardLiteral, Value: value, Target: target}
}

// joinNames encodes BindingsDefine's name list into the single Name
// field using a separator that can't appear in an identifier, avoiding
// a second slice-valued field used by exactly one tag.
const nameSep = "\x00"

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += nameSep
		}
		out += n
	}
	return out
}

// BindingNames decodes the Name field of a BindingsDefine instruction.
func (i Instruction) BindingNames() []string {
	if i.Name == "" {
		return nil
	}
	var out []string
	start := 0
	for j := 0; j < len(i.Name); j++ {
		if i.Name[j] == nameSep[0] {
			out = append(out, i.Name[start:j])
			start = j + 1
		}
	}
	out = append(out, i.Name[start:])
	return out
}
