// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Hash is a stable content identity for a syntax node, computed bottom-up:
// children are hashed first, and a parent's hash mixes in the hashes of
// its children in declared order (§3 "Hash / content identity"). Two
// structurally identical functions hash equal regardless of where in the
// source, or under what name, they appear; two functions with the same
// name but different bodies hash differently. Hash intentionally ignores
// a NamedFunction's Name for exactly this reason — identity answers "is
// this the same thing", name answers "what do we call it", and
// internal/changes needs both, kept separate (spec.md §9 design note).
type Hash [32]byte

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// hasher accumulates a canonical byte stream and finalizes it to a Hash.
// It is not safe for concurrent use.
type hasher struct {
	h [sha256.Size]byte // unused; the input stream accumulates in b
	b []byte
}

func newHasher() *hasher { return &hasher{} }

func (h *hasher) tag(t byte) *hasher {
	h.b = append(h.b, t)
	return h
}

func (h *hasher) str(s string) *hasher {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(s)))
	h.b = append(h.b, lenBuf[:]...)
	h.b = append(h.b, s...)
	return h
}

func (h *hasher) i32(v int32) *hasher {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	h.b = append(h.b, buf[:]...)
	return h
}

func (h *hasher) u8(v uint8) *hasher {
	h.b = append(h.b, v)
	return h
}

func (h *hasher) child(c Hash) *hasher {
	h.b = append(h.b, c[:]...)
	return h
}

func (h *hasher) sum() Hash {
	return sha256.Sum256(h.b)
}

// HashFunction computes the content hash of a Function: the hashes of its
// branches, mixed in declared order.
func HashFunction(f Function) Hash {
	h := newHasher().tag('F')
	for _, idx := range f.Branches.Indices() {
		b, _ := f.Branches.Get(idx)
		h.child(HashBranch(b))
	}
	return h.sum()
}

// HashBranch computes the content hash of a Branch.
func HashBranch(b Branch) Hash {
	h := newHasher().tag('B')
	for _, p := range b.Parameters {
		h.child(HashPattern(p))
	}
	for _, idx := range b.Body.Indices() {
		m, _ := b.Body.Get(idx)
		h.child(HashMember(m))
	}
	return h.sum()
}

// HashPattern computes the content hash of a Pattern.
func HashPattern(p Pattern) Hash {
	h := newHasher().tag('P')
	if p.IsLiteral {
		h.tag('L').i32(p.Literal)
	} else {
		h.tag('I').str(p.Identifier)
	}
	return h.sum()
}

// HashMember computes the content hash of a Member.
func HashMember(m Member) Hash {
	h := newHasher().tag('M').child(HashExpression(m.Expression))
	if m.Type != nil {
		h.tag('T').str(m.Type.Name)
	} else {
		h.tag('t')
	}
	return h.sum()
}

// HashExpression computes the content hash of an Expression.
// ExprCallUserDefinedRecursive, unresolved identifiers and binding
// references are hashed just like the pre-resolution ExprIdentifier they
// came from, so that re-resolving an unchanged identifier after a live
// update never spuriously changes a function's hash; host and intrinsic
// calls are hashed under tags of their own.
func HashExpression(e Expression) Hash {
	h := newHasher().tag('E')
	switch e.Kind {
	case ExprIdentifier, ExprUnresolvedIdentifier, ExprLocalBindingReference:
		h.tag('i').str(e.Identifier)
	case ExprLiteralInteger:
		h.tag('n').i32(e.Integer)
	case ExprLocalFunction:
		h.tag('f').child(HashFunction(*e.Local))
	case ExprComment:
		h.tag('c').str(e.Comment)
	case ExprCallUserDefinedRecursive:
		// Hash by identifier, not by resolved location, so hashing
		// is stable whether or not resolution has run yet.
		h.tag('i').str(e.Identifier)
	case ExprCallHostFunction:
		h.tag('h').str(e.Identifier)
	case ExprCallIntrinsic:
		h.tag('x').str(e.IntrinsicName)
	default:
		h.tag('?')
	}
	return h.sum()
}

// HashNamedFunction computes the content hash of a NamedFunction's body,
// ignoring its Name.
func HashNamedFunction(f NamedFunction) Hash {
	return HashFunction(f.Inner)
}
