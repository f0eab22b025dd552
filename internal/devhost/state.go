// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package devhost

import (
	"github.com/crosscut-lang/crosscut/internal/protocol"
	"github.com/crosscut-lang/crosscut/internal/syntax"
	"github.com/crosscut-lang/crosscut/internal/vm"
)

// State reports l's current runtime state as a protocol.UpdateFromHost,
// the wire-facing notification a debugger host long-polls for (spec.md
// §6). Stopped carries the richer payload SPEC_FULL.md's "Debugger
// state model" supplement adds: one FunctionLocation per active call
// frame, not just the top one, resolved from each frame's
// NextInstruction through the current build's SourceMap.
func (l *HostLoop) State() protocol.UpdateFromHost {
	if l.rt == nil {
		return protocol.UpdateFromHost{HasState: true, State: protocol.StateFinished}
	}

	switch l.rt.State() {
	case vm.Finished:
		return protocol.UpdateFromHost{HasState: true, State: protocol.StateFinished}

	case vm.Stopped:
		eff, _ := l.rt.Effect()
		return protocol.UpdateFromHost{
			HasState: true,
			State:    protocol.StateStopped,
			Stopped: protocol.StoppedInfo{
				Effect:          eff,
				ActiveFunctions: l.activeFunctions(),
				CurrentOperands: l.rt.Operands.Values(),
			},
		}

	default:
		return protocol.UpdateFromHost{HasState: true, State: protocol.StateRunning}
	}
}

// activeFunctions resolves every frame on the call stack to the
// FunctionLocation it is currently executing within, skipping a frame
// whose address has no source-map entry (a synthetic instruction with
// no corresponding member, such as the entry call at CallToMain that a
// program stopped before its first step still points at).
func (l *HostLoop) activeFunctions() []syntax.FunctionLocation {
	if l.build == nil {
		return nil
	}
	var locs []syntax.FunctionLocation
	for _, addr := range l.rt.Stack.Addresses() {
		memberLoc, ok := l.build.Output.SourceMap.LocationOf(addr)
		if !ok {
			continue
		}
		locs = append(locs, memberLoc.Parent.Parent)
	}
	return locs
}
