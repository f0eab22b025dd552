// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import "github.com/crosscut-lang/crosscut/internal/instr"

// Closure is the runtime representation of a callable value constructed
// by MakeAnonymousFunction: an entry address plus the bindings captured
// from the frame active at construction time (spec.md §4.6 "constructs
// a callable value capturing any referenced bindings").
type Closure struct {
	Entry    instr.InstructionAddress
	Captures map[string]instr.Value
}

// closures is the runtime-owned table callable values are handles into.
// instr.Value is a fixed 4 bytes, too narrow to hold an entry address
// plus an arbitrary-length capture set directly, so MakeAnonymousFunction
// pushes a table index instead and the eval intrinsic (internal/vm's
// only consumer of a closure handle) looks the real Closure up by it.
// This mirrors how the heap turns an opaque 32-bit offset into
// arbitrarily large host-owned storage, applied here to core-owned
// closure storage instead (a resolved Open Question, see DESIGN.md).
type closures struct {
	items []Closure
}

// new appends cl and returns its handle.
func (c *closures) new(cl Closure) uint32 {
	handle := uint32(len(c.items))
	c.items = append(c.items, cl)
	return handle
}

func (c *closures) get(handle uint32) (Closure, bool) {
	if handle >= uint32(len(c.items)) {
		return Closure{}, false
	}
	return c.items[handle], true
}
