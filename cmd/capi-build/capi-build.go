// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command capi-build runs a Crosscut program against a minimal demo
// host, recompiling and hot-patching it whenever the source file on
// disk changes. It exists to exercise internal/devhost end to end; a
// real embedder links the package directly rather than shelling out to
// this binary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/crosscut-lang/crosscut/internal/devhost"
)

var (
	pollFlag     = flag.Duration("poll", 200*time.Millisecond, "how often to check the source file for changes")
	debounceFlag = flag.Duration("debounce", 30*time.Millisecond, "quiet period after a change before recompiling")
	heapFlag     = flag.Int("heap", 4096, "heap size in bytes given to the running program")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `usage: capi-build [flags] source.cc

capi-build watches source.cc, compiling it against a demo host exposing
send/store/load, and hot-patches the running program on every change.

Flags:

`)
	flag.PrintDefaults()
}

func main() {
	log.SetPrefix("capi-build: ")
	log.SetFlags(0)

	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	host := &devhost.DemoHost{}
	slot := devhost.NewBuildSlot()

	builder := &devhost.Builder{
		Slot: slot,
		Host: host,
		Read: func() (string, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return "", err
			}
			return string(data), nil
		},
		Debounce: *debounceFlag,
		Poll:     *pollFlag,
	}
	loop := &devhost.HostLoop{
		Slot:     slot,
		Host:     host,
		HeapSize: *heapFlag,
	}

	if err := devhost.Start(ctx, builder, loop); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}
