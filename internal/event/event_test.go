// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestLogFormatsLabels(t *testing.T) {
	var buf bytes.Buffer
	oldWriter, oldNow := Writer, Now
	defer func() { Writer, Now = oldWriter, oldNow }()

	Writer = &buf
	Now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	Log(context.Background(), "build failed", String("file", "a.cc"), Int("line", 12))

	got := buf.String()
	want := "2024/01/02 03:04:05 build failed\n\tfile=a.cc\n\tline=12\n"
	if got != want {
		t.Fatalf("Log output = %q, want %q", got, want)
	}
}

func TestLogWithNoLabels(t *testing.T) {
	var buf bytes.Buffer
	oldWriter := Writer
	defer func() { Writer = oldWriter }()
	Writer = &buf

	Log(context.Background(), "hello")

	if !strings.HasSuffix(buf.String(), "hello\n") {
		t.Fatalf("Log output = %q, want suffix %q", buf.String(), "hello\n")
	}
}
