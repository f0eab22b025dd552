// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

// Heap is the linear, opaque memory arena builtins like store/load
// address by 32-bit offset (spec.md §3 "Heap", §5 "the heap is owned by
// the host; the core accesses it only through builtins"). It carries no
// allocator or garbage collector: the host decides how offsets are
// handed out, the same simplification spec.md's non-goals call for.
type Heap struct {
	bytes []byte
}

func NewHeap(size int) *Heap {
	return &Heap{bytes: make([]byte, size)}
}

func (h *Heap) Len() int { return len(h.bytes) }

// Load copies n bytes starting at offset into a fresh slice, reporting
// false if the range falls outside the arena.
func (h *Heap) Load(offset uint32, n int) ([]byte, bool) {
	start := int(offset)
	if start < 0 || n < 0 || start+n > len(h.bytes) {
		return nil, false
	}
	out := make([]byte, n)
	copy(out, h.bytes[start:start+n])
	return out, true
}

// Store writes data at offset, reporting false without writing anything
// if the range falls outside the arena.
func (h *Heap) Store(offset uint32, data []byte) bool {
	start := int(offset)
	if start < 0 || start+len(data) > len(h.bytes) {
		return false
	}
	copy(h.bytes[start:], data)
	return true
}
