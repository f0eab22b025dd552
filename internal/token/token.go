// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package token defines the lexical tokens of Crosscut source text and a
// tokenizer that turns raw UTF-8 text into a flat sequence of them.
package token

import "fmt"

// Keyword identifies one of the three reserved identifiers.
type Keyword int

const (
	KeywordFn Keyword = iota
	KeywordBr
	KeywordEnd
)

func (k Keyword) String() string {
	switch k {
	case KeywordFn:
		return "fn"
	case KeywordBr:
		return "br"
	case KeywordEnd:
		return "end"
	default:
		return fmt.Sprintf("Keyword(%d)", int(k))
	}
}

// Delimiter identifies one of the four punctuation tokens.
type Delimiter int

const (
	// DelimiterComma separates parameters: `,`.
	DelimiterComma Delimiter = iota
	// DelimiterColon introduces a syntactic element, such as a type
	// annotation: `:`.
	DelimiterColon
	// DelimiterArrow maps parameters to a branch body: `->`.
	DelimiterArrow
	// DelimiterPeriod terminates an expression where needed: `.`.
	DelimiterPeriod
)

func (d Delimiter) String() string {
	switch d {
	case DelimiterComma:
		return ","
	case DelimiterColon:
		return ":"
	case DelimiterArrow:
		return "->"
	case DelimiterPeriod:
		return "."
	default:
		return fmt.Sprintf("Delimiter(%d)", int(d))
	}
}

// Kind identifies which field of a Token is meaningful.
type Kind int

const (
	KindCommentLine Kind = iota
	KindIdentifier
	KindIntegerLiteral
	KindKeyword
	KindDelimiter
)

// Token is a single lexical unit of Crosscut source. Exactly one of the
// fields indicated by Kind is populated; the others are zero.
type Token struct {
	Kind Kind

	// Comment holds the text of a CommentLine token, without the leading
	// '#' and without the trailing newline.
	Comment string

	// Identifier holds the name of an Identifier token.
	Identifier string

	// Integer holds the decoded value of an IntegerLiteral token.
	Integer int32

	Keyword   Keyword
	Delimiter Delimiter
}

func CommentLine(text string) Token   { return Token{Kind: KindCommentLine, Comment: text} }
func Identifier(name string) Token    { return Token{Kind: KindIdentifier, Identifier: name} }
func IntegerLiteral(v int32) Token    { return Token{Kind: KindIntegerLiteral, Integer: v} }
func MakeKeyword(k Keyword) Token     { return Token{Kind: KindKeyword, Keyword: k} }
func MakeDelimiter(d Delimiter) Token { return Token{Kind: KindDelimiter, Delimiter: d} }

func (t Token) String() string {
	switch t.Kind {
	case KindCommentLine:
		return "#" + t.Comment
	case KindIdentifier:
		return t.Identifier
	case KindIntegerLiteral:
		return fmt.Sprintf("%d", t.Integer)
	case KindKeyword:
		return t.Keyword.String()
	case KindDelimiter:
		return t.Delimiter.String()
	default:
		return fmt.Sprintf("Token(kind=%d)", int(t.Kind))
	}
}

// IsKeyword reports whether t is the given keyword.
func (t Token) IsKeyword(k Keyword) bool {
	return t.Kind == KindKeyword && t.Keyword == k
}

// IsDelimiter reports whether t is the given delimiter.
func (t Token) IsDelimiter(d Delimiter) bool {
	return t.Kind == KindDelimiter && t.Delimiter == d
}
