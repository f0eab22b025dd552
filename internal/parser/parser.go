// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parser builds a syntax.Tree out of a flat token.Token sequence.
// It is a hand-written recursive-descent parser in the shape of
// go/parser: one function per grammar production, an "expect and
// advance" helper, and no error recovery — the first malformed
// construct aborts the parse (spec.md §4.2).
package parser

import (
	"github.com/crosscut-lang/crosscut/internal/compileerr"
	"github.com/crosscut-lang/crosscut/internal/syntax"
	"github.com/crosscut-lang/crosscut/internal/token"
)

type parser struct {
	tokens []token.Token
	pos    int
}

// Parse builds a syntax.Tree from tokens. The grammar accepted is:
//
//	Program    = { NamedFunction } .
//	NamedFunction = identifier ":" "fn" Branches "end" .
//	Branches   = Branch { Branch } .
//	Branch     = "br" Parameters "->" Body .
//	Parameters = [ Pattern { "," Pattern } ] .
//	Pattern    = identifier | integer .
//	Body       = { Member } .
//	Member     = Expression [ ":" SyntaxType ] .
//	Expression = identifier | integer | CommentLine | LocalFunction .
//	LocalFunction = "fn" Branches "end" .
//	SyntaxType = identifier .
func Parse(tokens []token.Token) (*syntax.Tree, error) {
	p := &parser{tokens: tokens}
	tree := &syntax.Tree{}
	for !p.atEnd() {
		nf, err := p.parseNamedFunction()
		if err != nil {
			return nil, err
		}
		tree.Functions.Append(*nf)
	}
	return tree, nil
}

func (p *parser) atEnd() bool { return p.pos >= len(p.tokens) }

func (p *parser) peek() (token.Token, bool) {
	if p.atEnd() {
		return token.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) advance() (token.Token, error) {
	t, ok := p.peek()
	if !ok {
		return token.Token{}, compileerr.ErrExpectedMoreTokens
	}
	p.pos++
	return t, nil
}

func (p *parser) expectIdentifier() (string, error) {
	t, err := p.advance()
	if err != nil {
		return "", err
	}
	if t.Kind != token.KindIdentifier {
		return "", compileerr.UnexpectedToken(t)
	}
	return t.Identifier, nil
}

func (p *parser) expectKeyword(k token.Keyword) error {
	t, err := p.advance()
	if err != nil {
		return err
	}
	if !t.IsKeyword(k) {
		return compileerr.UnexpectedToken(t)
	}
	return nil
}

func (p *parser) expectDelimiter(d token.Delimiter) error {
	t, err := p.advance()
	if err != nil {
		return err
	}
	if !t.IsDelimiter(d) {
		return compileerr.UnexpectedToken(t)
	}
	return nil
}

func (p *parser) atKeyword(k token.Keyword) bool {
	t, ok := p.peek()
	return ok && t.IsKeyword(k)
}

func (p *parser) atDelimiter(d token.Delimiter) bool {
	t, ok := p.peek()
	return ok && t.IsDelimiter(d)
}

func (p *parser) parseNamedFunction() (*syntax.NamedFunction, error) {
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if err := p.expectDelimiter(token.DelimiterColon); err != nil {
		return nil, err
	}
	inner, err := p.parseFnExpression()
	if err != nil {
		return nil, err
	}
	return &syntax.NamedFunction{Name: name, Inner: *inner}, nil
}

// parseFnExpression parses `"fn" Branches "end"`, used for both named
// function definitions and local function literals.
func (p *parser) parseFnExpression() (*syntax.Function, error) {
	if err := p.expectKeyword(token.KeywordFn); err != nil {
		return nil, err
	}
	var fn syntax.Function
	for p.atKeyword(token.KeywordBr) {
		branch, err := p.parseBranch()
		if err != nil {
			return nil, err
		}
		fn.Branches.Append(*branch)
	}
	if fn.Branches.Len() == 0 {
		return nil, compileerr.ErrExpectedMoreTokens
	}
	if err := p.expectKeyword(token.KeywordEnd); err != nil {
		return nil, err
	}
	return &fn, nil
}

func (p *parser) parseBranch() (*syntax.Branch, error) {
	if err := p.expectKeyword(token.KeywordBr); err != nil {
		return nil, err
	}
	params, err := p.parseParameters()
	if err != nil {
		return nil, err
	}
	if err := p.expectDelimiter(token.DelimiterArrow); err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &syntax.Branch{Parameters: params, Body: *body}, nil
}

func (p *parser) parseParameters() ([]syntax.Pattern, error) {
	var params []syntax.Pattern
	if p.atDelimiter(token.DelimiterArrow) {
		return params, nil
	}
	for {
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		params = append(params, pat)
		if !p.atDelimiter(token.DelimiterComma) {
			break
		}
		if _, err := p.advance(); err != nil {
			return nil, err
		}
	}
	return params, nil
}

func (p *parser) parsePattern() (syntax.Pattern, error) {
	t, err := p.advance()
	if err != nil {
		return syntax.Pattern{}, err
	}
	switch t.Kind {
	case token.KindIdentifier:
		return syntax.IdentifierPattern(t.Identifier), nil
	case token.KindIntegerLiteral:
		return syntax.LiteralPattern(t.Integer), nil
	default:
		return syntax.Pattern{}, compileerr.UnexpectedToken(t)
	}
}

// parseBody parses a sequence of members, stopping when it sees `end` or
// `br` (the start of the next branch) or runs out of tokens.
func (p *parser) parseBody() (*syntax.OrderedMap[syntax.Member, syntax.Member], error) {
	var body syntax.OrderedMap[syntax.Member, syntax.Member]
	for {
		if p.atKeyword(token.KeywordEnd) || p.atKeyword(token.KeywordBr) || p.atEnd() {
			return &body, nil
		}
		m, err := p.parseMember()
		if err != nil {
			return nil, err
		}
		body.Append(*m)
	}
}

func (p *parser) parseMember() (*syntax.Member, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	m := &syntax.Member{Expression: expr}
	if p.atDelimiter(token.DelimiterColon) {
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		m.Type = &syntax.SyntaxType{Name: name}
		if p.atDelimiter(token.DelimiterPeriod) {
			if _, err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (p *parser) parseExpression() (syntax.Expression, error) {
	t, err := p.advance()
	if err != nil {
		return syntax.Expression{}, err
	}
	switch t.Kind {
	case token.KindCommentLine:
		return syntax.CommentExpr(t.Comment), nil
	case token.KindIdentifier:
		return syntax.IdentifierExpr(t.Identifier), nil
	case token.KindIntegerLiteral:
		return syntax.LiteralExpr(t.Integer), nil
	case token.KindKeyword:
		if t.Keyword == token.KeywordFn {
			p.pos-- // parseFnExpression expects to consume 'fn' itself
			fn, err := p.parseFnExpression()
			if err != nil {
				return syntax.Expression{}, err
			}
			return syntax.LocalFunctionExpr(*fn), nil
		}
		return syntax.Expression{}, compileerr.UnexpectedToken(t)
	default:
		return syntax.Expression{}, compileerr.UnexpectedToken(t)
	}
}
