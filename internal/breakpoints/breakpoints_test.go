// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package breakpoints

import (
	"testing"

	"github.com/crosscut-lang/crosscut/internal/instr"
)

func TestDurableBreakpointPersistsAcrossHits(t *testing.T) {
	s := New()
	s.SetDurable(5)
	if !s.Hit(5) {
		t.Fatal("want hit")
	}
	if !s.Hit(5) {
		t.Fatal("durable breakpoint should still be installed after a hit")
	}
}

func TestEphemeralBreakpointConsumesItself(t *testing.T) {
	s := New()
	s.SetEphemeral(5)
	if !s.Hit(5) {
		t.Fatal("want hit")
	}
	if s.Hit(5) {
		t.Fatal("ephemeral breakpoint should not fire twice")
	}
}

func TestHitConsumesEphemeralButLeavesDurable(t *testing.T) {
	s := New()
	s.SetDurable(5)
	s.SetEphemeral(5)
	if !s.Hit(5) {
		t.Fatal("want hit")
	}
	if s.IsEphemeral(5) {
		t.Fatal("ephemeral entry should be consumed")
	}
	if !s.IsDurable(5) {
		t.Fatal("durable entry should survive")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	s := New()
	s.ClearDurable(5)
	s.ClearEphemeral(5)
	if s.Hit(5) {
		t.Fatal("clearing an unset breakpoint should not hit")
	}
}

func TestNoBreakpointDoesNotHit(t *testing.T) {
	s := New()
	if s.Hit(instr.InstructionAddress(0)) {
		t.Fatal("fresh set should never hit")
	}
}

func TestClearAllEphemeralLeavesDurable(t *testing.T) {
	s := New()
	s.SetDurable(5)
	s.SetEphemeral(5)
	s.SetEphemeral(9)
	s.ClearAllEphemeral()
	if s.IsEphemeral(5) || s.IsEphemeral(9) {
		t.Fatal("ephemeral breakpoints should all be cleared")
	}
	if !s.IsDurable(5) {
		t.Fatal("durable breakpoint should survive ClearAllEphemeral")
	}
}

func TestCopyDurableTo(t *testing.T) {
	src := New()
	src.SetDurable(3)
	src.SetDurable(7)
	src.SetEphemeral(3)

	dst := New()
	dst.SetEphemeral(11)
	src.CopyDurableTo(dst)

	if !dst.IsDurable(3) || !dst.IsDurable(7) {
		t.Fatal("durable breakpoints should be copied")
	}
	if dst.IsEphemeral(3) {
		t.Fatal("CopyDurableTo should not copy ephemeral breakpoints")
	}
	if !dst.IsEphemeral(11) {
		t.Fatal("CopyDurableTo should not disturb dst's existing ephemeral breakpoints")
	}
}
