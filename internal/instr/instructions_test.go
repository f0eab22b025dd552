// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import "testing"

func TestInstructionsPushGet(t *testing.T) {
	var ins Instructions
	a0 := ins.Push(PushInstr(ValueFromS32(1)))
	a1 := ins.Push(ReturnInstr())
	if a0 != 0 || a1 != 1 {
		t.Fatalf("addresses = %d, %d, want 0, 1", a0, a1)
	}
	got, ok := ins.Get(a0)
	if !ok || got.Tag != Push {
		t.Fatalf("Get(0) = %+v, %v", got, ok)
	}
	if _, ok := ins.Get(InstructionAddress(99)); ok {
		t.Fatalf("Get(99) should not be found")
	}
}

func TestInstructionsReplaceInPlace(t *testing.T) {
	var ins Instructions
	addr := ins.Push(CallFunctionPlaceholder(false))
	if ins.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ins.Len())
	}
	ok := ins.Replace(addr, CallFunctionInstr(CompiledFunction{Address: 42}, true))
	if !ok {
		t.Fatal("Replace failed")
	}
	got, _ := ins.Get(addr)
	if got.CalleePlaceholder {
		t.Fatal("placeholder should have been cleared by replace")
	}
	if got.Callee.Address != 42 || !got.IsTailCall {
		t.Fatalf("got %+v", got)
	}
	if ins.Len() != 1 {
		t.Fatalf("Replace must not change Len(), got %d", ins.Len())
	}
}

func TestBindingNamesRoundTrip(t *testing.T) {
	i := BindingsDefineInstr("a", "b", "c")
	got := i.BindingNames()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for idx := range want {
		if got[idx] != want[idx] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestValueRoundTrip(t *testing.T) {
	v := ValueFromS32(-17)
	if v.AsS32() != -17 {
		t.Fatalf("AsS32() = %d, want -17", v.AsS32())
	}
	u := ValueFromU32(200)
	n, ok := u.AsU8()
	if !ok || n != 200 {
		t.Fatalf("AsU8() = %d, %v, want 200, true", n, ok)
	}
	big := ValueFromU32(300)
	if _, ok := big.AsU8(); ok {
		t.Fatal("AsU8() should reject 300")
	}
}
