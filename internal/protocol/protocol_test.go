// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

import (
	"reflect"
	"testing"

	"github.com/crosscut-lang/crosscut/internal/codegen"
	"github.com/crosscut-lang/crosscut/internal/instr"
	"github.com/crosscut-lang/crosscut/internal/parser"
	"github.com/crosscut-lang/crosscut/internal/resolve"
	"github.com/crosscut-lang/crosscut/internal/token"
	"github.com/crosscut-lang/crosscut/internal/wire"
)

func compileSource(t *testing.T, src string) *codegen.Output {
	t.Helper()
	toks, err := token.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	tree, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	host := resolve.StaticHost{Funcs: []resolve.HostFunction{{Name: "send", Number: 0}}}
	tree, _ = resolve.Resolve(tree, host)
	return codegen.Generate(tree)
}

func TestCompilerOutputRoundTrip(t *testing.T) {
	out := compileSource(t, "main: fn br -> 0 send end end")

	toks, _ := token.Tokenize("main: fn br -> 0 send end end")
	tree, _ := parser.Parse(toks)
	co := FromCodegenOutput(tree, out)

	data, err := wire.Encode(co)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got := &CompilerOutput{}
	if err := wire.Decode(data, got); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(got.Instructions) != len(co.Instructions) {
		t.Fatalf("got %d instructions, want %d", len(got.Instructions), len(co.Instructions))
	}
	for i := range co.Instructions {
		if !reflect.DeepEqual(got.Instructions[i], co.Instructions[i]) {
			t.Errorf("instruction %d = %+v, want %+v", i, got.Instructions[i], co.Instructions[i])
		}
	}
	if got.CallToMain != co.CallToMain {
		t.Errorf("CallToMain = %d, want %d", got.CallToMain, co.CallToMain)
	}
	if len(got.Functions) != 1 || got.Functions[0].Name != "main" {
		t.Errorf("Functions = %+v, want one entry named main", got.Functions)
	}
}

func TestCommandRoundTrip(t *testing.T) {
	cmd := &Command{Kind: CommandBreakpointSet, Address: instr.InstructionAddress(7)}

	data, err := wire.Encode(cmd)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got := &Command{}
	if err := wire.Decode(data, got); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Kind != cmd.Kind || got.Address != cmd.Address {
		t.Errorf("Command = %+v, want %+v", got, cmd)
	}
}

func TestUpdateFromHostRoundTripStopped(t *testing.T) {
	u := &UpdateFromHost{
		HasState: true,
		State:    StateStopped,
		Stopped: StoppedInfo{
			Effect:          instr.EffectHost,
			CurrentOperands: []instr.Value{instr.ValueFromU32(1), instr.ValueFromU32(2)},
		},
	}

	data, err := wire.Encode(u)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got := &UpdateFromHost{}
	if err := wire.Decode(data, got); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.HasState || got.State != StateStopped || got.Stopped.Effect != instr.EffectHost {
		t.Fatalf("UpdateFromHost = %+v, want State=Stopped Effect=Host", got)
	}
	if len(got.Stopped.CurrentOperands) != 2 {
		t.Fatalf("CurrentOperands = %v, want 2 entries", got.Stopped.CurrentOperands)
	}
}

func TestVersionCompatibility(t *testing.T) {
	if !CompatibleWith(Version) {
		t.Errorf("CompatibleWith(%s) = false, want true", Version)
	}
	if CompatibleWith("v1.0.0") {
		t.Errorf("CompatibleWith(v1.0.0) = true, want false")
	}
}
