// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package instr defines the Instruction set the generator emits and the
// Runtime executes, the append-only Instructions array that stores them,
// and Value, the fixed-width operand type they work over (spec.md §3).
package instr

import "encoding/binary"

// Value is a fixed-width 4-byte operand, interpreted per-operation as
// signed or unsigned 8, 16, or 32-bit (spec.md §3 "Value").
type Value [4]byte

func ValueFromS32(v int32) Value {
	var b Value
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return b
}

func ValueFromU32(v uint32) Value {
	var b Value
	binary.LittleEndian.PutUint32(b[:], v)
	return b
}

func (v Value) AsS32() int32 { return int32(binary.LittleEndian.Uint32(v[:])) }
func (v Value) AsU32() uint32 { return binary.LittleEndian.Uint32(v[:]) }

func (v Value) AsS8() (int8, bool) {
	n := v.AsS32()
	if n < -128 || n > 127 {
		return 0, false
	}
	return int8(n), true
}

func (v Value) AsU8() (uint8, bool) {
	n := v.AsU32()
	if n > 255 {
		return 0, false
	}
	return uint8(n), true
}

// InstructionAddress is a 32-bit monotonically increasing index into the
// Instructions array. Addresses are never reused for different
// instructions (spec.md §3).
type InstructionAddress uint32
