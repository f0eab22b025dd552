// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command capidoc renders the leading comment lines of each top-level
// function in a Crosscut source file as HTML, the way godoc renders Go
// doc comments -- except a doc comment here is Markdown, run through
// goldmark, rather than godoc's plain-text-with-headers convention.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"html"
	"io"
	"log"
	"os"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/crosscut-lang/crosscut/internal/parser"
	"github.com/crosscut-lang/crosscut/internal/syntax"
	"github.com/crosscut-lang/crosscut/internal/token"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `usage: capidoc source.cc

capidoc prints one HTML section per top-level function, rendering its
leading comment lines as Markdown.
`)
	flag.PrintDefaults()
}

func main() {
	log.SetPrefix("capidoc: ")
	log.SetFlags(0)

	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	toks, err := token.Tokenize(string(data))
	if err != nil {
		log.Fatal(err)
	}
	tree, err := parser.Parse(toks)
	if err != nil {
		log.Fatal(err)
	}

	if err := render(os.Stdout, tree); err != nil {
		log.Fatal(err)
	}
}

// render writes one <section> per named function in tree to w, with its
// leading doc comment (the run of comment members at the start of its
// first branch's body) rendered as Markdown.
func render(w io.Writer, tree *syntax.Tree) error {
	var md goldmark.Markdown = goldmark.New()

	for _, idx := range tree.Functions.Indices() {
		nf, ok := tree.Functions.Get(idx)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "<section id=%q>\n<h2>%s</h2>\n", html.EscapeString(nf.Name), html.EscapeString(nf.Name))

		doc := leadingComment(nf.Inner)
		if doc != "" {
			var buf bytes.Buffer
			if err := md.Convert([]byte(doc), &buf); err != nil {
				return fmt.Errorf("rendering doc comment for %s: %w", nf.Name, err)
			}
			if _, err := buf.WriteTo(w); err != nil {
				return err
			}
		}
		fmt.Fprintln(w, "</section>")
	}
	return nil
}

// leadingComment returns the text of the consecutive ExprComment members
// at the start of fn's first branch's body, one line per member, joined
// with newlines so a blank-comment-line paragraph break survives into
// the Markdown source goldmark sees.
func leadingComment(fn syntax.Function) string {
	indices := fn.Branches.Indices()
	if len(indices) == 0 {
		return ""
	}
	br, ok := fn.Branches.Get(indices[0])
	if !ok {
		return ""
	}

	var lines []string
	for _, midx := range br.Body.Indices() {
		m, ok := br.Body.Get(midx)
		if !ok || m.Expression.Kind != syntax.ExprComment {
			break
		}
		lines = append(lines, m.Expression.Comment)
	}
	return strings.Join(lines, "\n")
}
