// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import "github.com/crosscut-lang/crosscut/internal/instr"

// RecursionLimit bounds the call stack's depth. Grounded on
// capi-runtime/src/runtime/call_stack.rs's RECURSION_LIMIT; a tail call
// reuses its frame in place rather than pushing one (spec.md §4.8 "tail
// calls do not grow the stack"), so recursion through a tail position
// never counts against it.
const RecursionLimit = 8

// Stack is the call stack: an ordered sequence of Frames, the top one
// always the currently executing activation.
type Stack struct {
	frames []Frame
}

// NewStack returns a call stack with one frame, ready to begin
// execution at entry.
func NewStack(entry instr.InstructionAddress) *Stack {
	return &Stack{frames: []Frame{newFrame(entry, nil)}}
}

// Top returns the active frame, or nil if the stack has unwound
// completely (the program has finished).
func (s *Stack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return &s.frames[len(s.frames)-1]
}

func (s *Stack) Len() int { return len(s.frames) }

// Addresses returns the NextInstruction of every frame, bottom (the
// entry call) to top (the active one), for a debugger host rendering
// the full call stack rather than just Top() (spec.md §6's
// ActiveFunctions, one location per frame).
func (s *Stack) Addresses() []instr.InstructionAddress {
	addrs := make([]instr.InstructionAddress, len(s.frames))
	for i, f := range s.frames {
		addrs[i] = f.NextInstruction
	}
	return addrs
}

// Push adds a new frame above the current one, for a non-tail call.
// It reports false without modifying the stack if doing so would
// exceed RecursionLimit.
func (s *Stack) Push(entry instr.InstructionAddress, bindings map[string]instr.Value) bool {
	if len(s.frames) >= RecursionLimit {
		return false
	}
	s.frames = append(s.frames, newFrame(entry, bindings))
	return true
}

// Pop removes and returns the active frame, used by Return.
func (s *Stack) Pop() (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f, true
}
