// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax holds the structured representation of a Crosscut
// program produced by the parser: an ordered tree of named functions,
// branches, and members, together with the stable index-path locations
// that name every node in it.
package syntax

// Index is a position within an ordered collection, phantom-typed on the
// kind of thing it indexes so that an Index[Branch] cannot be confused
// with an Index[Member] at compile time. It plays the role that
// go/ssa.Function pointers play in the teacher's IR, except that
// Crosscut locations are plain integers: stable across recompiles of
// unrelated functions, and safe to use as map keys.
type Index[T any] int

// OrderedMap is a small ordered association from Index[T] to V, used
// everywhere the spec calls for an "ordered mapping": NamedFunctions,
// Branches, and Members are all one. Iteration order is insertion order.
type OrderedMap[T any, V any] struct {
	values []V
}

// Append adds v and returns the index it was stored at.
func (m *OrderedMap[T, V]) Append(v V) Index[T] {
	idx := Index[T](len(m.values))
	m.values = append(m.values, v)
	return idx
}

// Get returns the value at idx and whether it exists.
func (m *OrderedMap[T, V]) Get(idx Index[T]) (V, bool) {
	var zero V
	if idx < 0 || int(idx) >= len(m.values) {
		return zero, false
	}
	return m.values[idx], true
}

// Set overwrites the value at idx. idx must already exist.
func (m *OrderedMap[T, V]) Set(idx Index[T], v V) {
	m.values[int(idx)] = v
}

// Len returns the number of entries.
func (m *OrderedMap[T, V]) Len() int {
	return len(m.values)
}

// Indices returns every index in insertion order.
func (m *OrderedMap[T, V]) Indices() []Index[T] {
	out := make([]Index[T], m.Len())
	for i := range out {
		out[i] = Index[T](i)
	}
	return out
}

// All iterates over (index, value) pairs in insertion order.
func (m *OrderedMap[T, V]) All(yield func(Index[T], V) bool) {
	for i, v := range m.values {
		if !yield(Index[T](i), v) {
			return
		}
	}
}
