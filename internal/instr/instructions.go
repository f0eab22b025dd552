// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

// Instructions is the append-only array the generator emits into and
// the runtime fetches from. Only three operations are exposed: push,
// get, and replace-in-place — replace lets already-emitted instructions
// be patched without renumbering anything else (spec.md §3
// "InstructionAddress").
type Instructions struct {
	items []Instruction
}

func (ins *Instructions) NextAddress() InstructionAddress {
	return InstructionAddress(len(ins.items))
}

func (ins *Instructions) Push(i Instruction) InstructionAddress {
	addr := ins.NextAddress()
	ins.items = append(ins.items, i)
	return addr
}

func (ins *Instructions) Get(addr InstructionAddress) (Instruction, bool) {
	if int(addr) < 0 || int(addr) >= len(ins.items) {
		return Instruction{}, false
	}
	return ins.items[addr], true
}

// Replace overwrites the instruction at addr in place. It patches call
// targets (deferred intra-cluster calls and the entry call into main
// during a build, updated-function callees during live patching) and,
// during generation, the targets of GuardLiteral and Jump instructions
// emitted before their destination address was known (spec.md §4.6,
// §4.7).
func (ins *Instructions) Replace(addr InstructionAddress, i Instruction) bool {
	if int(addr) < 0 || int(addr) >= len(ins.items) {
		return false
	}
	ins.items[addr] = i
	return true
}

func (ins *Instructions) Len() int { return len(ins.items) }
