// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compileerr holds the typed, wrapped errors returned by the
// tokenizer, parser, and resolver. Per spec.md §7, these are input
// errors: they abort compilation of the affected build but never panic
// and never affect an already-running Runtime. Wrapping follows the
// teacher's house style of using golang.org/x/xerrors rather than bare
// fmt.Errorf, matching gopls/internal/lsp/cache's load/check pipeline.
package compileerr

import (
	"golang.org/x/xerrors"

	"github.com/crosscut-lang/crosscut/internal/token"
)

// ErrExpectedMoreTokens is returned when the parser runs out of input
// mid-construct.
var ErrExpectedMoreTokens = xerrors.New("expected more tokens")

// UnexpectedTokenError reports that the parser found a token it could
// not use in the current grammar position.
type UnexpectedTokenError struct {
	Actual token.Token
}

func (e *UnexpectedTokenError) Error() string {
	return xerrors.Errorf("unexpected token: %v", e.Actual).Error()
}

// UnexpectedToken wraps t as an *UnexpectedTokenError.
func UnexpectedToken(t token.Token) error {
	return &UnexpectedTokenError{Actual: t}
}

// Wrap annotates err with a message the way the teacher's cache package
// annotates load/check failures, preserving err for errors.Is/As via
// golang.org/x/xerrors' %w verb.
func Wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	return xerrors.Errorf("%s: %w", msg, err)
}
