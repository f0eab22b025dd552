// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

import (
	"strconv"

	"golang.org/x/xerrors"

	"github.com/crosscut-lang/crosscut/internal/codegen"
	"github.com/crosscut-lang/crosscut/internal/instr"
	"github.com/crosscut-lang/crosscut/internal/syntax"
	"github.com/crosscut-lang/crosscut/internal/wire"
)

// FunctionInfo is the wire-facing summary of one named function: enough
// for a debugger to label a breakpoint or a stack frame without the
// wire message carrying the whole syntax tree, which the debugger
// already has a copy of from the same source text the build server
// compiled (spec.md §1 places the transport that carries source text
// outside this module's scope; CompilerOutput only needs to let the two
// sides agree on what a given address or location key refers to).
type FunctionInfo struct {
	Name        string
	LocationKey string
	Hash        string
}

// CompilerOutput is spec.md §6's "compiled artifact": instructions, the
// source map, and enough of the syntax tree/function-calls/dependencies
// summary for a debugger to display function names against locations.
// The full resolved tree, call graph, and arity-check results are not
// carried over the wire verbatim -- a debugger that needs them
// re-derives them locally by running internal/resolve, internal/depgraph,
// and internal/types against the same source text, which it already
// holds; CompilerOutput's job is to let the two sides agree on
// addresses and locations, not to duplicate the whole compiler.
type CompilerOutput struct {
	Instructions []instr.Instruction
	SourceMap    map[instr.InstructionAddress]string // address -> MemberLocation.Key()
	Functions    []FunctionInfo
	CallToMain   instr.InstructionAddress
}

// FromCodegenOutput extracts the wire-facing view of a codegen.Output
// compiled from tree.
func FromCodegenOutput(tree *syntax.Tree, out *codegen.Output) *CompilerOutput {
	co := &CompilerOutput{
		SourceMap:  make(map[instr.InstructionAddress]string),
		CallToMain: out.CallToMain,
	}

	for addr := instr.InstructionAddress(0); int(addr) < out.Instructions.Len(); addr++ {
		i, ok := out.Instructions.Get(addr)
		if !ok {
			continue
		}
		co.Instructions = append(co.Instructions, i)
		if loc, ok := out.SourceMap.LocationOf(addr); ok {
			co.SourceMap[addr] = loc.Key()
		}
	}

	for _, idx := range tree.Functions.Indices() {
		nf, _ := tree.Functions.Get(idx)
		loc := syntax.NamedFunctionLocation(idx)
		co.Functions = append(co.Functions, FunctionInfo{
			Name:        nf.Name,
			LocationKey: loc.Key(),
			Hash:        syntax.HashNamedFunction(nf).String(),
		})
	}

	return co
}

func (o *CompilerOutput) MarshalWire() (*wire.Message, error) {
	m := &wire.Message{}

	hdr := wire.NewFields().
		SetUint("call_to_main", uint64(o.CallToMain)).
		SetInt("instructions", int64(len(o.Instructions))).
		SetInt("functions", int64(len(o.Functions)))
	m.Sections = append(m.Sections, wire.Section{Name: "compiler-output", Body: hdr.Bytes()})

	for addr, ins := range o.Instructions {
		f := marshalInstruction(ins)
		if key, ok := o.SourceMap[instr.InstructionAddress(addr)]; ok {
			f.Set("location", key)
		}
		m.Sections = append(m.Sections, wire.Section{
			Name: "instructions/" + strconv.Itoa(addr),
			Body: f.Bytes(),
		})
	}

	for i, fi := range o.Functions {
		f := wire.NewFields().
			Set("name", fi.Name).
			Set("location", fi.LocationKey).
			Set("hash", fi.Hash)
		m.Sections = append(m.Sections, wire.Section{
			Name: "functions/" + strconv.Itoa(i),
			Body: f.Bytes(),
		})
	}

	return m, nil
}

func (o *CompilerOutput) UnmarshalWire(m *wire.Message) error {
	sec, ok := m.Section("compiler-output")
	if !ok {
		return xerrors.New("wire message has no \"compiler-output\" section")
	}
	f := wire.ParseFields(sec.Body)

	callToMain, ok := f.Uint("call_to_main")
	if !ok {
		return xerrors.New("compiler-output missing call_to_main")
	}
	o.CallToMain = instr.InstructionAddress(callToMain)

	nInstructions, _ := f.Int("instructions")
	nFunctions, _ := f.Int("functions")

	o.SourceMap = make(map[instr.InstructionAddress]string)
	for i := int64(0); i < nInstructions; i++ {
		sec, ok := m.Section("instructions/" + strconv.FormatInt(i, 10))
		if !ok {
			return xerrors.Errorf("compiler-output missing instructions/%d", i)
		}
		ins, loc, err := unmarshalInstruction(wire.ParseFields(sec.Body))
		if err != nil {
			return xerrors.Errorf("instructions/%d: %w", i, err)
		}
		o.Instructions = append(o.Instructions, ins)
		if loc != "" {
			o.SourceMap[instr.InstructionAddress(i)] = loc
		}
	}

	for i := int64(0); i < nFunctions; i++ {
		sec, ok := m.Section("functions/" + strconv.FormatInt(i, 10))
		if !ok {
			return xerrors.Errorf("compiler-output missing functions/%d", i)
		}
		ff := wire.ParseFields(sec.Body)
		name, _ := ff.Get("name")
		loc, _ := ff.Get("location")
		hash, _ := ff.Get("hash")
		o.Functions = append(o.Functions, FunctionInfo{Name: name, LocationKey: loc, Hash: hash})
	}

	return nil
}

var tagNames = map[instr.Tag]string{
	instr.Push:                  "push",
	instr.BindingEvaluate:       "binding-evaluate",
	instr.BindingsDefine:        "bindings-define",
	instr.CallFunction:          "call-function",
	instr.CallBuiltin:           "call-builtin",
	instr.Return:                "return",
	instr.ReturnIfZero:          "return-if-zero",
	instr.ReturnIfNonZero:       "return-if-non-zero",
	instr.MakeAnonymousFunction: "make-anonymous-function",
	instr.TriggerEffect:         "trigger-effect",
	instr.Jump:                  "jump",
	instr.GuardLiteral:          "guard-literal",
}

var tagByName = func() map[string]instr.Tag {
	m := make(map[string]instr.Tag, len(tagNames))
	for t, n := range tagNames {
		m[n] = t
	}
	return m
}()

func marshalInstruction(i instr.Instruction) *wire.Fields {
	f := wire.NewFields().Set("tag", tagNames[i.Tag])
	switch i.Tag {
	case instr.Push:
		f.SetUint("value", uint64(i.Value.AsU32()))
	case instr.BindingEvaluate:
		f.Set("name", i.Name)
	case instr.BindingsDefine:
		f.Set("name", i.Name)
	case instr.CallFunction:
		f.SetUint("callee", uint64(i.Callee.Address))
		f.SetBool("tail", i.IsTailCall)
		f.SetBool("placeholder", i.CalleePlaceholder)
	case instr.CallBuiltin:
		f.Set("name", i.Name)
	case instr.MakeAnonymousFunction:
		f.SetUint("entry", uint64(i.EntryAddress))
		f.Set("captures", joinStrings(i.CaptureNames))
	case instr.TriggerEffect:
		f.Set("effect", i.Effect.String())
	case instr.Jump, instr.GuardLiteral:
		f.SetUint("target", uint64(i.Target))
		if i.Tag == instr.GuardLiteral {
			f.SetUint("value", uint64(i.Value.AsU32()))
		}
	}
	return f
}

func unmarshalInstruction(f *wire.Fields) (instr.Instruction, string, error) {
	tagName, _ := f.Get("tag")
	tag, ok := tagByName[tagName]
	if !ok {
		return instr.Instruction{}, "", xerrors.Errorf("unknown instruction tag %q", tagName)
	}
	loc, _ := f.Get("location")

	switch tag {
	case instr.Push:
		v, _ := f.Uint("value")
		return instr.PushInstr(instr.ValueFromU32(uint32(v))), loc, nil
	case instr.BindingEvaluate:
		name, _ := f.Get("name")
		return instr.BindingEvaluateInstr(name), loc, nil
	case instr.BindingsDefine:
		name, _ := f.Get("name")
		return instr.Instruction{Tag: instr.BindingsDefine, Name: name}, loc, nil
	case instr.CallFunction:
		callee, _ := f.Uint("callee")
		tail, _ := f.Bool("tail")
		placeholder, _ := f.Bool("placeholder")
		return instr.Instruction{
			Tag:               instr.CallFunction,
			Callee:            instr.CompiledFunction{Address: instr.InstructionAddress(callee)},
			IsTailCall:        tail,
			CalleePlaceholder: placeholder,
		}, loc, nil
	case instr.CallBuiltin:
		name, _ := f.Get("name")
		return instr.CallBuiltinInstr(name), loc, nil
	case instr.Return:
		return instr.ReturnInstr(), loc, nil
	case instr.ReturnIfZero:
		return instr.ReturnIfZeroInstr(), loc, nil
	case instr.ReturnIfNonZero:
		return instr.ReturnIfNonZeroInstr(), loc, nil
	case instr.MakeAnonymousFunction:
		entry, _ := f.Uint("entry")
		capturesField, _ := f.Get("captures")
		return instr.MakeAnonymousFunctionInstr(instr.InstructionAddress(entry), splitStrings(capturesField)), loc, nil
	case instr.TriggerEffect:
		effectName, _ := f.Get("effect")
		eff, ok := effectByName(effectName)
		if !ok {
			return instr.Instruction{}, "", xerrors.Errorf("unknown effect %q", effectName)
		}
		return instr.TriggerEffectInstr(eff), loc, nil
	case instr.Jump:
		target, _ := f.Uint("target")
		return instr.JumpInstr(instr.InstructionAddress(target)), loc, nil
	case instr.GuardLiteral:
		target, _ := f.Uint("target")
		v, _ := f.Uint("value")
		return instr.GuardLiteralInstr(instr.ValueFromU32(uint32(v)), instr.InstructionAddress(target)), loc, nil
	}
	return instr.Instruction{}, "", xerrors.Errorf("unhandled instruction tag %q", tagName)
}
