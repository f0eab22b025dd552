// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package token

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/runenames"
)

// OverflowError reports that a purely-digits run did not fit in a signed
// 32-bit integer.
type OverflowError struct {
	Literal string
}

func (e *OverflowError) Error() string {
	return "integer literal out of range: " + e.Literal
}

// InvalidRuneError reports a byte sequence in the source text that is
// not valid UTF-8. The message names the rune actually decoded there
// (replacement character included) by its Unicode character name, the
// way gopls/internal/golang/hover.go uses runenames to describe a rune
// under the cursor, so the offending byte is diagnosable without a hex
// dump.
type InvalidRuneError struct {
	Rune   rune
	Offset int
}

func (e *InvalidRuneError) Error() string {
	name := runenames.Name(e.Rune)
	if name == "" {
		return fmt.Sprintf("invalid byte at offset %d", e.Offset)
	}
	return fmt.Sprintf("invalid byte at offset %d: %s", e.Offset, name)
}

var keywords = map[string]Keyword{
	"fn":  KeywordFn,
	"br":  KeywordBr,
	"end": KeywordEnd,
}

// Tokenize turns text into a flat token sequence. It never panics and
// never loops forever; its only failure modes are an out-of-range
// integer literal and a malformed UTF-8 byte sequence. Unknown but
// validly-encoded characters are preserved verbatim inside
// identifier-like runs and left for the parser or resolver to reject.
func Tokenize(text string) ([]Token, error) {
	var (
		tokens []Token
		buf    strings.Builder
	)

	flushCore := func() error {
		if buf.Len() == 0 {
			return nil
		}
		s := buf.String()
		buf.Reset()
		if kw, ok := keywords[s]; ok {
			tokens = append(tokens, MakeKeyword(kw))
			return nil
		}
		if isIntegerLiteral(s) {
			n, err := strconv.ParseInt(s, 10, 32)
			if err != nil {
				return &OverflowError{Literal: s}
			}
			tokens = append(tokens, IntegerLiteral(int32(n)))
			return nil
		}
		tokens = append(tokens, Identifier(s))
		return nil
	}

	runes, err := decodeRunes(text)
	if err != nil {
		return nil, err
	}
	i := 0
	for i < len(runes) {
		r := runes[i]

		if r == '#' {
			if err := flushCore(); err != nil {
				return nil, err
			}
			i++
			start := i
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			tokens = append(tokens, CommentLine(string(runes[start:i])))
			if i < len(runes) {
				i++ // consume the newline
			}
			continue
		}

		if isSpace(r) {
			if err := flushCore(); err != nil {
				return nil, err
			}
			i++
			continue
		}

		buf.WriteRune(r)
		i++

		s := buf.String()
		if strings.HasSuffix(s, "->") {
			core := s[:len(s)-2]
			buf.Reset()
			buf.WriteString(core)
			if err := flushCore(); err != nil {
				return nil, err
			}
			tokens = append(tokens, MakeDelimiter(DelimiterArrow))
			continue
		}
		if d, ok := singleDelimiter(rune(s[len(s)-1])); ok {
			core := s[:len(s)-1]
			buf.Reset()
			buf.WriteString(core)
			if err := flushCore(); err != nil {
				return nil, err
			}
			tokens = append(tokens, MakeDelimiter(d))
			continue
		}
	}

	if err := flushCore(); err != nil {
		return nil, err
	}

	return tokens, nil
}

// decodeRunes converts text to a rune slice the way []rune(text) does,
// except it rejects invalid UTF-8 instead of silently substituting
// utf8.RuneError: a malformed byte is almost always a mis-pasted or
// mis-encoded source file, not an intentional replacement character.
func decodeRunes(text string) ([]rune, error) {
	runes := make([]rune, 0, len(text))
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size <= 1 {
			return nil, &InvalidRuneError{Rune: r, Offset: i}
		}
		runes = append(runes, r)
		i += size
	}
	return runes, nil
}

func singleDelimiter(r rune) (Delimiter, bool) {
	switch r {
	case ',':
		return DelimiterComma, true
	case ':':
		return DelimiterColon, true
	case '.':
		return DelimiterPeriod, true
	default:
		return 0, false
	}
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return r != utf8.RuneError && r <= ' '
	}
}

func isIntegerLiteral(s string) bool {
	if s == "" {
		return false
	}
	start := 0
	if s[0] == '-' {
		start = 1
	}
	if start == len(s) {
		return false
	}
	for _, r := range s[start:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
