// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package token

import (
	"reflect"
	"testing"
)

func TestTokenizeSimplestProgram(t *testing.T) {
	got, err := Tokenize("main: fn br -> 0 send end end")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []Token{
		Identifier("main"),
		MakeDelimiter(DelimiterColon),
		MakeKeyword(KeywordFn),
		MakeKeyword(KeywordBr),
		MakeDelimiter(DelimiterArrow),
		IntegerLiteral(0),
		Identifier("send"),
		MakeKeyword(KeywordEnd),
		MakeKeyword(KeywordEnd),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenizeCommentLine(t *testing.T) {
	got, err := Tokenize("# hello world\nfoo")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []Token{
		CommentLine(" hello world"),
		Identifier("foo"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenizeEmbeddedPunctuators(t *testing.T) {
	got, err := Tokenize("f: fn br a, b -> a end end")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []Token{
		Identifier("f"),
		MakeDelimiter(DelimiterColon),
		MakeKeyword(KeywordFn),
		MakeKeyword(KeywordBr),
		Identifier("a"),
		MakeDelimiter(DelimiterComma),
		Identifier("b"),
		MakeDelimiter(DelimiterArrow),
		Identifier("a"),
		MakeKeyword(KeywordEnd),
		MakeKeyword(KeywordEnd),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenizeTypeAnnotation(t *testing.T) {
	got, err := Tokenize("x: i32.")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []Token{
		Identifier("x"),
		MakeDelimiter(DelimiterColon),
		Identifier("i32"),
		MakeDelimiter(DelimiterPeriod),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenizeIntegerOverflow(t *testing.T) {
	_, err := Tokenize("9999999999999")
	if err == nil {
		t.Fatalf("Tokenize: expected overflow error, got nil")
	}
	if _, ok := err.(*OverflowError); !ok {
		t.Fatalf("Tokenize: err = %v (%T), want *OverflowError", err, err)
	}
}

func TestTokenizeInvalidUTF8(t *testing.T) {
	_, err := Tokenize("abc\xffdef")
	if err == nil {
		t.Fatalf("Tokenize: expected an invalid-rune error, got nil")
	}
	rerr, ok := err.(*InvalidRuneError)
	if !ok {
		t.Fatalf("Tokenize: err = %v (%T), want *InvalidRuneError", err, err)
	}
	if rerr.Offset != 3 {
		t.Errorf("InvalidRuneError.Offset = %d, want 3", rerr.Offset)
	}
	if rerr.Error() == "" {
		t.Errorf("InvalidRuneError.Error() returned empty string")
	}
}

func TestTokenizeNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"   \t\n  ",
		"###",
		"->->->",
		",,,::::",
		"\x00\x01weird\x02",
		"fn br -> end end",
	}
	for _, in := range inputs {
		if _, err := Tokenize(in); err != nil {
			// Overflow and invalid UTF-8 are the only failure modes,
			// and none of these inputs contain a digit run or a
			// malformed byte.
			t.Errorf("Tokenize(%q): unexpected error %v", in, err)
		}
	}
}
