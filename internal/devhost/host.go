// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package devhost

import (
	"sync"

	"golang.org/x/xerrors"

	"github.com/crosscut-lang/crosscut/internal/instr"
	"github.com/crosscut-lang/crosscut/internal/resolve"
	"github.com/crosscut-lang/crosscut/internal/vm"
)

// Host is the embedding contract a host loop drives a Runtime against.
// It extends resolve.Host, the static Functions() table the compiler
// needs to resolve host calls, with Invoke, the runtime-side half: given
// that the operand stack has already had its effect number popped,
// Invoke is responsible for popping exactly number's ParameterCount
// arguments, doing whatever the host function does, and pushing exactly
// ResultCount values back.
type Host interface {
	resolve.Host
	Invoke(rt *vm.Runtime, number uint8) error
}

// Demo host function numbers. A real embedder defines its own; these
// exist so cmd/capi-build has something concrete to link a program
// against (spec.md §5's "a minimal host" example).
const (
	FuncSend  uint8 = 0
	FuncStore uint8 = 1
	FuncLoad  uint8 = 2
)

// DemoHost is a minimal embedding: send(value) records a value for the
// caller to inspect, store(offset, value) and load(offset) give
// programs read/write access to the heap a real embedder would back
// with something meaningful (a canvas, a socket buffer, a save file).
type DemoHost struct {
	mu   sync.Mutex
	sent []instr.Value
}

func (h *DemoHost) Functions() []resolve.HostFunction {
	return []resolve.HostFunction{
		{Name: "send", Number: FuncSend, Signature: resolve.Signature{ParameterCount: 1, ResultCount: 0}},
		{Name: "store", Number: FuncStore, Signature: resolve.Signature{ParameterCount: 2, ResultCount: 0}},
		{Name: "load", Number: FuncLoad, Signature: resolve.Signature{ParameterCount: 1, ResultCount: 1}},
	}
}

// Sent returns every value passed to send so far, in call order.
func (h *DemoHost) Sent() []instr.Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]instr.Value(nil), h.sent...)
}

func (h *DemoHost) Invoke(rt *vm.Runtime, number uint8) error {
	switch number {
	case FuncSend:
		v, ok := rt.Operands.Pop()
		if !ok {
			return xerrors.New("devhost: send: missing argument")
		}
		h.mu.Lock()
		h.sent = append(h.sent, v)
		h.mu.Unlock()
		return nil

	case FuncStore:
		value, ok := rt.Operands.Pop()
		if !ok {
			return xerrors.New("devhost: store: missing value argument")
		}
		offset, ok := rt.Operands.Pop()
		if !ok {
			return xerrors.New("devhost: store: missing offset argument")
		}
		if !rt.Heap.Store(offset.AsU32(), value[:]) {
			return xerrors.Errorf("devhost: store: offset %d out of range", offset.AsU32())
		}
		return nil

	case FuncLoad:
		offset, ok := rt.Operands.Pop()
		if !ok {
			return xerrors.New("devhost: load: missing offset argument")
		}
		data, ok := rt.Heap.Load(offset.AsU32(), 4)
		if !ok {
			return xerrors.Errorf("devhost: load: offset %d out of range", offset.AsU32())
		}
		var v instr.Value
		copy(v[:], data)
		rt.Operands.Push(v)
		return nil
	}
	return xerrors.Errorf("devhost: unknown host function %d", number)
}
