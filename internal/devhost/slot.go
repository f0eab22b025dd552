// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package devhost is a reference, out-of-core implementation of the two
// cooperative host-side tasks spec.md §5 describes the contract for but
// places outside the core's scope: a builder task that recompiles on
// source changes and publishes into a single-producer single-consumer
// latest-value slot, and a host loop that applies updates, drives the
// evaluator, and services host effects. Grounded on
// original_source/capi/server/src/{build,server,start}.rs for the
// publish/long-poll shape and gopls/internal/cache/load.go for using
// errgroup.Group to run cooperating tasks that cancel together.
package devhost

import (
	"context"
	"sync"

	"github.com/crosscut-lang/crosscut/internal/codegen"
	"github.com/crosscut-lang/crosscut/internal/protocol"
	"github.com/crosscut-lang/crosscut/internal/syntax"
)

// Build is one compiled revision: the resolved tree codegen ran against,
// paired with its compiled output. The builder task and host loop run in
// the same process, so the slot carries these native types directly
// rather than round-tripping through internal/wire; Snapshot converts to
// the wire-facing protocol.CompilerOutput on demand, for a debugger
// connection that is a separate process.
type Build struct {
	Tree   *syntax.Tree
	Output *codegen.Output
}

// Snapshot returns the wire-facing view of b, suitable for a
// CommandUpdateCode or a debugger's initial sync.
func (b *Build) Snapshot() *protocol.CompilerOutput {
	return protocol.FromCodegenOutput(b.Tree, b.Output)
}

// BuildSlot holds the most recently published Build, the way
// original_source's build server answers long-poll requests against a
// Versioned<CompilerOutput>. One builder task publishes; any number of
// host loops or debugger connections await.
type BuildSlot struct {
	mu      sync.Mutex
	latest  protocol.Versioned[*Build]
	changed chan struct{}
}

func NewBuildSlot() *BuildSlot {
	return &BuildSlot{changed: make(chan struct{})}
}

// Publish installs payload as the slot's latest value, stamped with
// timestamp, and wakes every pending Await call. timestamp must be
// strictly greater than any previously published value for Await's
// long-poll comparison to make sense; the builder task is the only
// writer and is responsible for this invariant.
func (s *BuildSlot) Publish(timestamp int64, payload *Build) {
	s.mu.Lock()
	s.latest = protocol.Versioned[*Build]{
		Timestamp: timestamp,
		Version:   protocol.Version,
		Payload:   payload,
	}
	old := s.changed
	s.changed = make(chan struct{})
	s.mu.Unlock()
	close(old)
}

// Latest returns the most recently published value without blocking.
// The zero Versioned value (Payload == nil) is returned if nothing has
// been published yet.
func (s *BuildSlot) Latest() protocol.Versioned[*Build] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Await blocks until a value newer than lastSeen is published, or ctx is
// cancelled. This is the long-poll primitive spec.md §6 describes:
// clients long-poll with their last seen timestamp and are answered
// when the server's timestamp exceeds it.
func (s *BuildSlot) Await(ctx context.Context, lastSeen int64) (protocol.Versioned[*Build], error) {
	for {
		s.mu.Lock()
		v := s.latest
		wake := s.changed
		s.mu.Unlock()

		if v.Payload != nil && v.Timestamp > lastSeen {
			return v, nil
		}

		select {
		case <-ctx.Done():
			return protocol.Versioned[*Build]{}, ctx.Err()
		case <-wake:
		}
	}
}
