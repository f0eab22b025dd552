// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"testing"

	"github.com/crosscut-lang/crosscut/internal/syntax"
	"github.com/crosscut-lang/crosscut/internal/token"
)

func mustTokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := token.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	return toks
}

func TestParseSimplestProgram(t *testing.T) {
	toks := mustTokenize(t, "main: fn br -> 0 send end end")
	tree, err := Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tree.Functions.Len() != 1 {
		t.Fatalf("got %d named functions, want 1", tree.Functions.Len())
	}
	nf, _ := tree.Functions.Get(0)
	if nf.Name != "main" {
		t.Fatalf("got name %q, want main", nf.Name)
	}
	if nf.Inner.Branches.Len() != 1 {
		t.Fatalf("got %d branches, want 1", nf.Inner.Branches.Len())
	}
	br, _ := nf.Inner.Branches.Get(0)
	if len(br.Parameters) != 0 {
		t.Fatalf("got %d parameters, want 0", len(br.Parameters))
	}
	if br.Body.Len() != 2 {
		t.Fatalf("got %d members, want 2", br.Body.Len())
	}
	m0, _ := br.Body.Get(0)
	if m0.Expression.Kind != syntax.ExprLiteralInteger || m0.Expression.Integer != 0 {
		t.Fatalf("member 0 = %+v, want literal 0", m0.Expression)
	}
	m1, _ := br.Body.Get(1)
	if m1.Expression.Kind != syntax.ExprIdentifier || m1.Expression.Identifier != "send" {
		t.Fatalf("member 1 = %+v, want identifier send", m1.Expression)
	}
}

func TestParsePatternDispatch(t *testing.T) {
	src := "f: fn br 0 -> 1 send end br n -> 2 send end end  main: fn br -> 0 f 7 f end end"
	tree, err := Parse(mustTokenize(t, src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tree.Functions.Len() != 2 {
		t.Fatalf("got %d named functions, want 2", tree.Functions.Len())
	}
	f, _ := tree.Functions.Get(0)
	if f.Inner.Branches.Len() != 2 {
		t.Fatalf("got %d branches for f, want 2", f.Inner.Branches.Len())
	}
	br0, _ := f.Inner.Branches.Get(0)
	if len(br0.Parameters) != 1 || !br0.Parameters[0].IsLiteral || br0.Parameters[0].Literal != 0 {
		t.Fatalf("branch 0 parameters = %+v", br0.Parameters)
	}
	br1, _ := f.Inner.Branches.Get(1)
	if len(br1.Parameters) != 1 || br1.Parameters[0].IsLiteral || br1.Parameters[0].Identifier != "n" {
		t.Fatalf("branch 1 parameters = %+v", br1.Parameters)
	}
}

func TestParseLocalFunction(t *testing.T) {
	src := "main: fn br -> fn br -> 0 send end end eval end end"
	tree, err := Parse(mustTokenize(t, src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	nf, _ := tree.Functions.Get(0)
	br, _ := nf.Inner.Branches.Get(0)
	if br.Body.Len() != 2 {
		t.Fatalf("got %d members, want 2 (local fn, eval)", br.Body.Len())
	}
	m0, _ := br.Body.Get(0)
	if m0.Expression.Kind != syntax.ExprLocalFunction {
		t.Fatalf("member 0 kind = %v, want ExprLocalFunction", m0.Expression.Kind)
	}
	m1, _ := br.Body.Get(1)
	if m1.Expression.Kind != syntax.ExprIdentifier || m1.Expression.Identifier != "eval" {
		t.Fatalf("member 1 = %+v, want identifier eval", m1.Expression)
	}
}

func TestParseComment(t *testing.T) {
	src := "main: fn br -> # a trailing remark\nend end"
	tree, err := Parse(mustTokenize(t, src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	nf, _ := tree.Functions.Get(0)
	br, _ := nf.Inner.Branches.Get(0)
	if br.Body.Len() != 1 {
		t.Fatalf("got %d members, want 1", br.Body.Len())
	}
	m, _ := br.Body.Get(0)
	if m.Expression.Kind != syntax.ExprComment || m.Expression.Comment != " a trailing remark" {
		t.Fatalf("member = %+v", m.Expression)
	}
}

func TestParseTypeAnnotation(t *testing.T) {
	src := "main: fn br -> 0: i32. end end"
	tree, err := Parse(mustTokenize(t, src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	nf, _ := tree.Functions.Get(0)
	br, _ := nf.Inner.Branches.Get(0)
	m, _ := br.Body.Get(0)
	if m.Type == nil || m.Type.Name != "i32" {
		t.Fatalf("member type = %+v, want i32", m.Type)
	}
}

func TestParseUnexpectedToken(t *testing.T) {
	_, err := Parse(mustTokenize(t, "main: br -> end end"))
	if err == nil {
		t.Fatalf("Parse: expected error, got nil")
	}
	if _, ok := err.(interface{ Error() string }); !ok {
		t.Fatalf("Parse: err does not implement error")
	}
}

func TestParseExpectedMoreTokens(t *testing.T) {
	_, err := Parse(mustTokenize(t, "main: fn br ->"))
	if err == nil {
		t.Fatalf("Parse: expected error, got nil")
	}
}

func TestParseNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"main",
		"main:",
		"main: fn",
		"main: fn br",
		"main: fn br ->",
		"main: fn br -> end",
		": fn br -> end end",
		"1: fn br -> end end",
	}
	for _, in := range inputs {
		toks, err := token.Tokenize(in)
		if err != nil {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Parse(%q) panicked: %v", in, r)
				}
			}()
			Parse(toks)
		}()
	}
}
