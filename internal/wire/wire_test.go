// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"
)

func TestFormatParseRoundTrip(t *testing.T) {
	m := &Message{
		Comment: []byte("a command\n"),
		Sections: []Section{
			{Name: "kind", Body: []byte("step\n")},
			{Name: "payload", Body: []byte("address: 12\n")},
		},
	}
	data := Format(m)
	got := Parse(data)

	if !bytes.Equal(got.Comment, m.Comment) {
		t.Fatalf("comment: got %q, want %q", got.Comment, m.Comment)
	}
	if len(got.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(got.Sections))
	}
	for i, s := range m.Sections {
		if got.Sections[i].Name != s.Name || !bytes.Equal(got.Sections[i].Body, s.Body) {
			t.Fatalf("section %d: got %+v, want %+v", i, got.Sections[i], s)
		}
	}
}

func TestParseMissingTrailingNewlineIsAddedBack(t *testing.T) {
	data := []byte("-- only --\nno newline at end")
	got := Parse(data)
	s, ok := got.Section("only")
	if !ok {
		t.Fatal("expected section \"only\"")
	}
	if !bytes.Equal(s.Body, []byte("no newline at end\n")) {
		t.Fatalf("got %q", s.Body)
	}
}

func TestSectionsWithPrefixPreservesOrder(t *testing.T) {
	data := []byte("-- instructions/0 --\npush\n-- instructions/1 --\nreturn\n-- other --\nx\n")
	m := Parse(data)
	got := m.SectionsWithPrefix("instructions/")
	if len(got) != 2 || got[0].Name != "instructions/0" || got[1].Name != "instructions/1" {
		t.Fatalf("got %+v", got)
	}
}

func TestFieldsRoundTrip(t *testing.T) {
	f := NewFields()
	f.Set("name", "main").SetInt("address", -3).SetUint("handle", 7).SetBool("tail", true)

	got := ParseFields(f.Bytes())
	if v, _ := got.Get("name"); v != "main" {
		t.Fatalf("name: got %q", v)
	}
	if v, ok := got.Int("address"); !ok || v != -3 {
		t.Fatalf("address: got %d, %v", v, ok)
	}
	if v, ok := got.Uint("handle"); !ok || v != 7 {
		t.Fatalf("handle: got %d, %v", v, ok)
	}
	if v, ok := got.Bool("tail"); !ok || !v {
		t.Fatalf("tail: got %v, %v", v, ok)
	}
}

func TestFieldsPreservesInsertionOrder(t *testing.T) {
	f := NewFields()
	f.Set("b", "2")
	f.Set("a", "1")
	f.Set("b", "3")

	want := "b: 3\na: 1\n"
	if got := string(f.Bytes()); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

type roundTripper struct {
	Name    string
	Address int64
}

func (r *roundTripper) MarshalWire() (*Message, error) {
	f := NewFields().Set("name", r.Name)
	f.SetInt("address", r.Address)
	return &Message{Sections: []Section{{Name: "value", Body: f.Bytes()}}}, nil
}

func (r *roundTripper) UnmarshalWire(m *Message) error {
	s, ok := m.Section("value")
	if !ok {
		return errNoValueSection
	}
	f := ParseFields(s.Body)
	r.Name, _ = f.Get("name")
	r.Address, _ = f.Int("address")
	return nil
}

var errNoValueSection = &wireError{"missing value section"}

type wireError struct{ msg string }

func (e *wireError) Error() string { return e.msg }

func TestEncodeDecodeThroughMarshaler(t *testing.T) {
	in := &roundTripper{Name: "f", Address: 42}
	data, err := Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	out := new(roundTripper)
	if err := Decode(data, out); err != nil {
		t.Fatal(err)
	}
	if *out != *in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}
