// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package breakpoints holds the two instruction-address sets a debugger
// front end installs into a running program: durable breakpoints, which
// persist across hits until explicitly cleared, and ephemeral ones,
// which fire exactly once and remove themselves (spec.md §4.10,
// "Breakpoints"). internal/vm consults a Set before dispatching every
// instruction; it never mutates one except through Hit's one-shot
// consumption of an ephemeral entry.
package breakpoints

import "github.com/crosscut-lang/crosscut/internal/instr"

// Set is the pair of breakpoint sets attached to one running program.
// The zero value is not usable; construct with New.
type Set struct {
	durable   map[instr.InstructionAddress]bool
	ephemeral map[instr.InstructionAddress]bool
}

func New() *Set {
	return &Set{
		durable:   make(map[instr.InstructionAddress]bool),
		ephemeral: make(map[instr.InstructionAddress]bool),
	}
}

// SetDurable installs (or re-installs, a no-op) a durable breakpoint at
// addr.
func (s *Set) SetDurable(addr instr.InstructionAddress) { s.durable[addr] = true }

// ClearDurable removes addr's durable breakpoint, if any. Clearing an
// address with none set is a no-op, keeping the operation idempotent.
func (s *Set) ClearDurable(addr instr.InstructionAddress) { delete(s.durable, addr) }

// SetEphemeral installs a one-shot breakpoint at addr. Used for
// single-step: the host sets one at the address following the
// instruction about to run, resumes, and it consumes itself the first
// time execution reaches it.
func (s *Set) SetEphemeral(addr instr.InstructionAddress) { s.ephemeral[addr] = true }

// ClearEphemeral removes addr's ephemeral breakpoint without triggering
// it, for a host that changes its mind about a pending single-step.
func (s *Set) ClearEphemeral(addr instr.InstructionAddress) { delete(s.ephemeral, addr) }

// CopyDurableTo installs every durable breakpoint in s onto dst,
// leaving dst's ephemeral set untouched. Used by a Reset command: the
// running program gets a brand new Set (single-step bookkeeping from
// whatever was paused doesn't carry over), but breakpoints a user
// placed intentionally should survive the restart.
func (s *Set) CopyDurableTo(dst *Set) {
	for addr := range s.durable {
		dst.SetDurable(addr)
	}
}

// ClearAllEphemeral drops every one-shot breakpoint while leaving
// durable ones untouched, the bulk form ClearEphemeral doesn't cover:
// used when a Reset command reinitializes a running program and the
// single-step bookkeeping from whatever was paused no longer applies.
func (s *Set) ClearAllEphemeral() {
	for addr := range s.ephemeral {
		delete(s.ephemeral, addr)
	}
}

// IsDurable and IsEphemeral report installed state without consuming
// anything, for a host inspecting breakpoints rather than running past
// them.
func (s *Set) IsDurable(addr instr.InstructionAddress) bool   { return s.durable[addr] }
func (s *Set) IsEphemeral(addr instr.InstructionAddress) bool { return s.ephemeral[addr] }

// Hit reports whether addr carries a breakpoint the evaluator must stop
// for, consuming the ephemeral entry if that's what matched. A durable
// breakpoint at the same address is left in place: only the one-shot
// entry is spent by a hit.
func (s *Set) Hit(addr instr.InstructionAddress) bool {
	hit := s.durable[addr]
	if s.ephemeral[addr] {
		hit = true
		delete(s.ephemeral, addr)
	}
	return hit
}
