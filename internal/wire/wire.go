// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wire implements the self-describing textual format spec.md
// §6 requires for messages between a runtime host and a debugger host:
// human-readable, and round-tripping serialize -> deserialize is total
// and lossless for every message variant.
//
// The format borrows txtar's delimiter convention -- a free-form
// comment followed by zero or more "-- name --"-delimited sections --
// without txtar's generic file-archive machinery: every section here
// is a flat run of "key: value" lines (see Fields), there is no CRLF
// archive mode to support, and a section name never needs escaping.
// Within a section body, Fields lays out scalar data as "key: value"
// lines, the minimal record every protocol message is built from.
package wire

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Message is the parsed form of a wire document.
type Message struct {
	Comment  []byte
	Sections []Section
}

// Section is one named, ordered division of a Message.
type Section struct {
	Name string
	Body []byte
}

// Section returns the first section named name, if present.
func (m *Message) Section(name string) (Section, bool) {
	for _, s := range m.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// SectionsWithPrefix returns every section whose name begins with
// prefix, in declaration order. Compound and repeated values (a
// CompilerOutput's instructions, a call stack's frames) are encoded as
// a run of sections sharing a "instructions/" or "frames/" prefix
// rather than nesting one Message inside another section body, keeping
// Parse single-pass.
func (m *Message) SectionsWithPrefix(prefix string) []Section {
	var out []Section
	for _, s := range m.Sections {
		if strings.HasPrefix(s.Name, prefix) {
			out = append(out, s)
		}
	}
	return out
}

// Marshaler is implemented by any type with a wire encoding.
type Marshaler interface {
	MarshalWire() (*Message, error)
}

// Unmarshaler is implemented by any type that can be populated from a
// parsed Message.
type Unmarshaler interface {
	UnmarshalWire(*Message) error
}

// Encode renders v's wire Message to bytes.
func Encode(v Marshaler) ([]byte, error) {
	m, err := v.MarshalWire()
	if err != nil {
		return nil, err
	}
	return Format(m), nil
}

// Decode parses data and populates v from it.
func Decode(data []byte, v Unmarshaler) error {
	return v.UnmarshalWire(Parse(data))
}

// Format returns the serialized form of m. It assumes m is well-formed:
// m.Comment and every section's Body contain no section marker lines,
// and every section Name is non-empty.
func Format(m *Message) []byte {
	var buf bytes.Buffer
	buf.Write(fixNL(m.Comment))
	for _, s := range m.Sections {
		fmt.Fprintf(&buf, "-- %s --\n", s.Name)
		buf.Write(fixNL(s.Body))
	}
	return buf.Bytes()
}

// Parse parses the serialized form of a Message. The returned Message
// holds slices of data; there is no possible syntax error -- a line
// that isn't a well-formed "-- name --" marker is just another body
// line, whichever section (or the leading comment) is currently open.
func Parse(data []byte) *Message {
	m := new(Message)
	lines := splitLines(data)

	name := ""
	start := 0
	assign := func(end int) {
		body := fixNL(bytes.Join(lines[start:end], nil))
		if name == "" {
			m.Comment = body
		} else {
			m.Sections = append(m.Sections, Section{Name: name, Body: body})
		}
	}
	for i, line := range lines {
		next, ok := sectionName(line)
		if !ok {
			continue
		}
		assign(i)
		name, start = next, i+1
	}
	assign(len(lines))
	return m
}

var (
	marker    = []byte("-- ")
	markerEnd = []byte(" --")
)

// splitLines splits data on '\n', with each line keeping its own
// trailing newline so that re-joining a contiguous run of lines
// reproduces the original bytes exactly. A final line with no
// trailing newline is kept as-is.
func splitLines(data []byte) [][]byte {
	var lines [][]byte
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			return append(lines, data)
		}
		lines = append(lines, data[:i+1])
		data = data[i+1:]
	}
	return lines
}

// sectionName reports whether line is a "-- name --" section marker
// and, if so, its trimmed name. A Fields-encoded body line is always
// "key: value", which can never collide with this shape, so a single
// per-line check is sufficient -- no lookahead across lines, and no
// line-ending variant to account for, since wire messages are produced
// and consumed by this codec alone and never hand-edited.
func sectionName(line []byte) (string, bool) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	if !bytes.HasPrefix(line, marker) || !bytes.HasSuffix(line, markerEnd) || len(line) < len(marker)+len(markerEnd) {
		return "", false
	}
	return strings.TrimSpace(string(line[len(marker) : len(line)-len(markerEnd)])), true
}

// If data is empty or ends in "\n", fixNL returns data. Otherwise it
// returns a new slice consisting of data with a final "\n" added.
func fixNL(data []byte) []byte {
	if len(data) == 0 || bytes.HasSuffix(data, []byte("\n")) {
		return data
	}
	d := make([]byte, len(data)+1)
	copy(d, data)
	d[len(d)-1] = '\n'
	return d
}

// Fields is an ordered set of "key: value" pairs, the scalar record a
// section body holds. Insertion order is preserved on output so two
// encodings of the same data compare byte-identical.
type Fields struct {
	order []string
	kv    map[string]string
}

func NewFields() *Fields {
	return &Fields{kv: make(map[string]string)}
}

func (f *Fields) Set(key, value string) *Fields {
	if _, ok := f.kv[key]; !ok {
		f.order = append(f.order, key)
	}
	f.kv[key] = value
	return f
}

func (f *Fields) SetInt(key string, value int64) *Fields {
	return f.Set(key, strconv.FormatInt(value, 10))
}

func (f *Fields) SetUint(key string, value uint64) *Fields {
	return f.Set(key, strconv.FormatUint(value, 10))
}

func (f *Fields) SetBool(key string, value bool) *Fields {
	return f.Set(key, strconv.FormatBool(value))
}

func (f *Fields) Get(key string) (string, bool) {
	v, ok := f.kv[key]
	return v, ok
}

func (f *Fields) Int(key string) (int64, bool) {
	v, ok := f.kv[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	return n, err == nil
}

func (f *Fields) Uint(key string) (uint64, bool) {
	v, ok := f.kv[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 64)
	return n, err == nil
}

func (f *Fields) Bool(key string) (bool, bool) {
	v, ok := f.kv[key]
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	return b, err == nil
}

// Bytes renders f as a section body, one "key: value" line per field in
// the order each key was first set.
func (f *Fields) Bytes() []byte {
	var buf bytes.Buffer
	for _, k := range f.order {
		fmt.Fprintf(&buf, "%s: %s\n", k, f.kv[k])
	}
	return buf.Bytes()
}

// ParseFields reads a section body written by Fields.Bytes. Lines with
// no ": " separator, and blank lines, are ignored rather than rejected
// -- matching txtar's "no possible syntax errors" stance.
func ParseFields(body []byte) *Fields {
	f := NewFields()
	for _, line := range strings.Split(string(body), "\n") {
		if line == "" {
			continue
		}
		i := strings.Index(line, ": ")
		if i < 0 {
			continue
		}
		f.Set(line[:i], line[i+2:])
	}
	return f
}
