// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve classifies every identifier expression in a
// syntax.Tree into one of {local binding, user-defined function, host
// function, intrinsic, unresolved} (spec.md §4.3). Tail positions are
// computed separately, by internal/tailpos.
package resolve

// HostFunction describes one function the embedding host exposes to
// Crosscut programs. Number is the opaque operand pushed before a
// TriggerEffect{Host} instruction (spec.md §6 "Host effect protocol").
type HostFunction struct {
	Name      string
	Number    uint8
	Signature Signature
}

// Signature records arity only; the language has no static type system
// beyond primitive tags (spec.md §1 non-goals).
type Signature struct {
	ParameterCount int
	ResultCount    int
}

// Host is the contract the core requires from its embedder (spec.md §6).
type Host interface {
	Functions() []HostFunction
}

// FunctionByNumber and FunctionByName are derivable defaults over any
// Host, matching the "derivable defaults" language in spec.md §6.
func FunctionByNumber(h Host, n uint8) (HostFunction, bool) {
	for _, f := range h.Functions() {
		if f.Number == n {
			return f, true
		}
	}
	return HostFunction{}, false
}

func FunctionByName(h Host, name string) (HostFunction, bool) {
	for _, f := range h.Functions() {
		if f.Name == name {
			return f, true
		}
	}
	return HostFunction{}, false
}

// StaticHost is a Host backed by a fixed slice, sufficient for tests and
// for the reference devhost implementation.
type StaticHost struct {
	Funcs []HostFunction
}

func (h StaticHost) Functions() []HostFunction { return h.Funcs }
