// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sourcemap holds the two mirrored mappings between generated
// instructions and the syntax locations that produced them (spec.md
// §3 "SourceMap"). The forward map may have no entry for synthetic
// instructions the generator emits without a corresponding source
// expression (returns, guards, jumps, the entry call at CallToMain).
package sourcemap

import (
	"github.com/crosscut-lang/crosscut/internal/instr"
	"github.com/crosscut-lang/crosscut/internal/syntax"
)

type SourceMap struct {
	forward  map[instr.InstructionAddress]syntax.MemberLocation
	backward map[string][]instr.InstructionAddress
}

func New() *SourceMap {
	return &SourceMap{
		forward:  make(map[instr.InstructionAddress]syntax.MemberLocation),
		backward: make(map[string][]instr.InstructionAddress),
	}
}

// Record associates addr with loc in both directions. Call once per
// emitted instruction that corresponds to a source member; instructions
// with no corresponding member (Return, guards, jumps, the CallToMain
// slot) are
// simply never recorded. The reverse index is keyed by loc.Key()
// rather than loc itself, since MemberLocation recurses through
// pointer fields and so isn't safe to use directly as a map key.
func (m *SourceMap) Record(addr instr.InstructionAddress, loc syntax.MemberLocation) {
	m.forward[addr] = loc
	key := loc.Key()
	m.backward[key] = append(m.backward[key], addr)
}

func (m *SourceMap) LocationOf(addr instr.InstructionAddress) (syntax.MemberLocation, bool) {
	loc, ok := m.forward[addr]
	return loc, ok
}

func (m *SourceMap) AddressesOf(loc syntax.MemberLocation) []instr.InstructionAddress {
	return m.backward[loc.Key()]
}
