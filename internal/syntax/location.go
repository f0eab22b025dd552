// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// FunctionLocation names a function: either one of the named, top-level
// functions, or a local (anonymous) function addressed by the member it
// was written at. This mirrors the "named or local" split in
// capi/compiler/src/code/syntax/location/function.rs: local functions have
// no name of their own, so their stable address is where they appear in
// the source, not an identifier.
type FunctionLocation struct {
	// Named is set when this location names a top-level function.
	Named *Index[NamedFunction]
	// Local is set when this location names an anonymous function
	// literal nested inside some branch body.
	Local *MemberLocation
}

func NamedFunctionLocation(idx Index[NamedFunction]) FunctionLocation {
	return FunctionLocation{Named: &idx}
}

func LocalFunctionLocation(loc MemberLocation) FunctionLocation {
	return FunctionLocation{Local: &loc}
}

// IsNamed reports whether the location refers to a named function.
func (l FunctionLocation) IsNamed() bool { return l.Named != nil }

// Key returns a canonical, comparable encoding of l. FunctionLocation
// itself holds pointers (Local recurses through MemberLocation back to
// FunctionLocation, which Go can only express with an indirection), so
// it is not safe to use directly as a map key: two FunctionLocations
// built separately from the same named index would compare unequal by
// Go's built-in ==, which looks at pointer identity rather than
// pointee value. Key collapses a location to a plain string so that
// side tables keyed by location (the patch maps, divergence sets,
// source map) behave the way the spec's "stable location key" design
// note expects.
func (l FunctionLocation) Key() string {
	if l.Named != nil {
		return "n" + strconv.Itoa(int(*l.Named))
	}
	if l.Local != nil {
		return "l" + l.Local.Key()
	}
	return ""
}

// Equal compares two FunctionLocations structurally.
func (l FunctionLocation) Equal(o FunctionLocation) bool {
	switch {
	case l.Named != nil && o.Named != nil:
		return *l.Named == *o.Named
	case l.Local != nil && o.Local != nil:
		return l.Local.Equal(*o.Local)
	default:
		return false
	}
}

// BranchLocation names one branch of a function.
type BranchLocation struct {
	Parent FunctionLocation
	Index  Index[Branch]
}

func (l BranchLocation) Equal(o BranchLocation) bool {
	return l.Index == o.Index && l.Parent.Equal(o.Parent)
}

func (l BranchLocation) Key() string {
	return fmt.Sprintf("%s.%d", l.Parent.Key(), l.Index)
}

// MemberLocation names one member within a branch's body. This is the
// stable address used throughout the rest of the pipeline: the source
// map, the call-instruction patch tables, and the debugger protocol all
// key off MemberLocation rather than off any pointer into the syntax
// tree, exactly so that a recompile that reuses unchanged subtrees keeps
// the same addresses for them.
type MemberLocation struct {
	Parent BranchLocation
	Index  Index[Member]
}

func (l MemberLocation) Equal(o MemberLocation) bool {
	return l.Index == o.Index && l.Parent.Equal(o.Parent)
}

func (l MemberLocation) Key() string {
	return fmt.Sprintf("%s.%d", l.Parent.Key(), l.Index)
}

// keyScanner reads a Key() string left to right. Key()'s grammar is
// self-delimiting (an 'n' marker is always followed by exactly one
// digit run, an 'l' marker is always followed by exactly one nested
// FunctionLocation key and then exactly two dot-separated digit runs),
// so a single-pass recursive-descent parser suffices -- no lookahead
// past the next rune is ever needed.
type keyScanner struct {
	s   string
	pos int
}

func (s *keyScanner) peek() (byte, bool) {
	if s.pos >= len(s.s) {
		return 0, false
	}
	return s.s[s.pos], true
}

func (s *keyScanner) expect(c byte) error {
	b, ok := s.peek()
	if !ok || b != c {
		return xerrors.Errorf("location key %q: expected %q at offset %d", s.s, c, s.pos)
	}
	s.pos++
	return nil
}

func (s *keyScanner) digits() (int, error) {
	start := s.pos
	for s.pos < len(s.s) && s.s[s.pos] >= '0' && s.s[s.pos] <= '9' {
		s.pos++
	}
	if s.pos == start {
		return 0, xerrors.Errorf("location key %q: expected digits at offset %d", s.s, start)
	}
	n, err := strconv.Atoi(s.s[start:s.pos])
	return n, err
}

// ParseFunctionLocationKey parses a string produced by
// FunctionLocation.Key back into a FunctionLocation. It is the wire
// protocol's way of naming a function without re-sending the whole
// syntax tree: internal/protocol's Stopped payload references functions
// by this key.
func ParseFunctionLocationKey(key string) (FunctionLocation, error) {
	sc := &keyScanner{s: key}
	loc, err := sc.parseFunctionLocation()
	if err != nil {
		return FunctionLocation{}, err
	}
	if sc.pos != len(key) {
		return FunctionLocation{}, xerrors.Errorf("location key %q: trailing data at offset %d", key, sc.pos)
	}
	return loc, nil
}

func (s *keyScanner) parseFunctionLocation() (FunctionLocation, error) {
	c, ok := s.peek()
	if !ok {
		return FunctionLocation{}, xerrors.Errorf("location key %q: unexpected end of input", s.s)
	}
	switch c {
	case 'n':
		s.pos++
		idx, err := s.digits()
		if err != nil {
			return FunctionLocation{}, err
		}
		return NamedFunctionLocation(Index[NamedFunction](idx)), nil
	case 'l':
		s.pos++
		parentFn, err := s.parseFunctionLocation()
		if err != nil {
			return FunctionLocation{}, err
		}
		if err := s.expect('.'); err != nil {
			return FunctionLocation{}, err
		}
		branchIdx, err := s.digits()
		if err != nil {
			return FunctionLocation{}, err
		}
		if err := s.expect('.'); err != nil {
			return FunctionLocation{}, err
		}
		memberIdx, err := s.digits()
		if err != nil {
			return FunctionLocation{}, err
		}
		member := MemberLocation{
			Parent: BranchLocation{Parent: parentFn, Index: Index[Branch](branchIdx)},
			Index:  Index[Member](memberIdx),
		}
		return LocalFunctionLocation(member), nil
	default:
		return FunctionLocation{}, xerrors.Errorf("location key %q: unexpected marker %q at offset %d", s.s, c, s.pos)
	}
}

// ParseMemberLocationKey parses a string produced by
// MemberLocation.Key back into a MemberLocation.
func ParseMemberLocationKey(key string) (MemberLocation, error) {
	// A MemberLocation's key is "<branch key>.<member index>", and a
	// BranchLocation's key is "<function key>.<branch index>". Find the
	// two trailing dot-separated integers by splitting from the right,
	// then parse the remaining prefix as a FunctionLocation key.
	lastDot := strings.LastIndexByte(key, '.')
	if lastDot < 0 {
		return MemberLocation{}, xerrors.Errorf("member location key %q: missing member index", key)
	}
	memberIdx, err := strconv.Atoi(key[lastDot+1:])
	if err != nil {
		return MemberLocation{}, xerrors.Errorf("member location key %q: %w", key, err)
	}
	rest := key[:lastDot]

	secondLastDot := strings.LastIndexByte(rest, '.')
	if secondLastDot < 0 {
		return MemberLocation{}, xerrors.Errorf("member location key %q: missing branch index", key)
	}
	branchIdx, err := strconv.Atoi(rest[secondLastDot+1:])
	if err != nil {
		return MemberLocation{}, xerrors.Errorf("member location key %q: %w", key, err)
	}

	fnLoc, err := ParseFunctionLocationKey(rest[:secondLastDot])
	if err != nil {
		return MemberLocation{}, err
	}
	return MemberLocation{
		Parent: BranchLocation{Parent: fnLoc, Index: Index[Branch](branchIdx)},
		Index:  Index[Member](memberIdx),
	}, nil
}
