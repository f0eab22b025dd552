// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package event is a small structured logging helper used by
// internal/devhost's builder task and host loop. It is modeled on the
// teacher's internal/event/export package (Printer.WriteEvent),
// collapsed to a single flat package: this module has no tracing
// backend to export to (no OTLP collector in scope), so the teacher's
// core/keys/label subpackage split exists here only where it earns its
// keep -- one Label type, one Log entry point. The evaluator core
// itself (internal/vm) never calls this package: it stays
// allocation-free and logs nothing per instruction (spec.md §5).
package event

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// Label is one key=value pair attached to a logged event.
type Label struct {
	Key   string
	Value string
}

func String(key, value string) Label { return Label{Key: key, Value: value} }
func Int(key string, value int) Label {
	return Label{Key: key, Value: fmt.Sprintf("%d", value)}
}
func Err(err error) Label { return Label{Key: "error", Value: err.Error()} }

// Writer receives formatted event lines. Defaults to os.Stderr;
// overridden in tests that want to capture output.
var Writer io.Writer = os.Stderr

// Now is overridable in tests; defaults to the wall clock.
var Now = time.Now

// Log writes one event line to Writer in the form
//
//	2006/01/02 15:04:05 msg
//		key=value
//		key=value
//
// matching the teacher's Printer.WriteEvent format. ctx is accepted but
// unused beyond a future cancellation-aware sink; every call site
// already has one in hand from the builder task or host loop.
func Log(ctx context.Context, msg string, labels ...Label) {
	fmt.Fprintf(Writer, "%s %s\n", Now().Format("2006/01/02 15:04:05"), msg)
	for _, l := range labels {
		fmt.Fprintf(Writer, "\t%s=%s\n", l.Key, l.Value)
	}
}
