// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package devhost

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/crosscut-lang/crosscut/internal/codegen"
	"github.com/crosscut-lang/crosscut/internal/event"
	"github.com/crosscut-lang/crosscut/internal/parser"
	"github.com/crosscut-lang/crosscut/internal/resolve"
	"github.com/crosscut-lang/crosscut/internal/token"
)

// SourceReader returns the current contents of the program under
// development. A real embedder backs this with a file read; spec.md §1
// puts the filesystem watcher that would trigger a re-read out of
// scope, so Builder polls it instead (the same simplification
// cmd/capi-build's flag-driven interval makes explicit).
type SourceReader func() (string, error)

// Builder recompiles whenever Read's result changes and publishes the
// result into Slot. Two changes arriving within Debounce of each other
// collapse into a single compile, the way original_source/capi-desktop's
// loader/watch.rs coalesces a burst of filesystem events from a save
// that touches several files at once.
type Builder struct {
	Slot     *BuildSlot
	Host     resolve.Host
	Read     SourceReader
	Debounce time.Duration
	Poll     time.Duration

	// Now supplies the slot's publish timestamp; overridable in tests.
	Now func() int64
}

// Run polls Read at Poll intervals and recompiles on every observed
// change, debounced by Debounce. It returns when ctx is cancelled, or
// the first time Read returns an error.
func (b *Builder) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	changed := make(chan string, 1)

	g.Go(func() error { return b.poll(ctx, changed) })
	g.Go(func() error { return b.compileOnChange(ctx, changed) })

	return g.Wait()
}

func (b *Builder) poll(ctx context.Context, changed chan<- string) error {
	ticker := time.NewTicker(b.Poll)
	defer ticker.Stop()

	last := ""
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			src, err := b.Read()
			if err != nil {
				return err
			}
			if src == last {
				continue
			}
			last = src
			select {
			case changed <- src:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// compileOnChange debounces bursts of source changes: each new value
// received resets the wait, and only the last one seen within a quiet
// period actually triggers a compile.
func (b *Builder) compileOnChange(ctx context.Context, changed <-chan string) error {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var pending string
	have := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case src := <-changed:
			pending = src
			have = true
			timer.Reset(b.Debounce)
		case <-timer.C:
			if !have {
				continue
			}
			have = false
			b.compileAndPublish(ctx, pending)
		}
	}
}

func (b *Builder) compileAndPublish(ctx context.Context, src string) {
	build, err := b.compile(src)
	if err != nil {
		event.Log(ctx, "compile failed", event.Err(err))
		return
	}
	nowFn := b.Now
	if nowFn == nil {
		nowFn = func() int64 { return time.Now().UnixNano() }
	}
	b.Slot.Publish(nowFn(), build)
	event.Log(ctx, "published build", event.Int("instructions", build.Output.Instructions.Len()))
}

// compile runs the full front-to-back pipeline spec.md §4 describes:
// tokenize, parse, resolve against the host's function table, generate.
// An error from tokenizing (internal/token's error types) or parsing
// (internal/compileerr's) is returned unwrapped so the caller can log
// its own position information.
func (b *Builder) compile(src string) (*Build, error) {
	toks, err := token.Tokenize(src)
	if err != nil {
		return nil, err
	}
	tree, err := parser.Parse(toks)
	if err != nil {
		return nil, err
	}
	tree, _ = resolve.Resolve(tree, b.Host)
	out := codegen.Generate(tree)
	return &Build{Tree: tree, Output: out}, nil
}
