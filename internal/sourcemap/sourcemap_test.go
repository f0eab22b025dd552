// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sourcemap

import (
	"testing"

	"github.com/crosscut-lang/crosscut/internal/instr"
	"github.com/crosscut-lang/crosscut/internal/syntax"
)

func TestRecordAndLookupBothDirections(t *testing.T) {
	m := New()
	idx := syntax.Index[syntax.NamedFunction](0)
	loc := syntax.MemberLocation{
		Parent: syntax.BranchLocation{Parent: syntax.NamedFunctionLocation(idx), Index: 0},
		Index:  0,
	}
	m.Record(5, loc)
	m.Record(7, loc)

	got, ok := m.LocationOf(5)
	if !ok || got != loc {
		t.Fatalf("LocationOf(5) = %+v, %v", got, ok)
	}
	addrs := m.AddressesOf(loc)
	if len(addrs) != 2 || addrs[0] != 5 || addrs[1] != 7 {
		t.Fatalf("AddressesOf = %v", addrs)
	}
}

func TestUnrecordedAddressNotFound(t *testing.T) {
	m := New()
	if _, ok := m.LocationOf(instr.InstructionAddress(123)); ok {
		t.Fatal("expected no mapping for unrecorded address")
	}
}
