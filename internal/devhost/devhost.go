// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package devhost

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Start runs builder and loop concurrently, cancelling both the moment
// either returns (including when ctx itself is cancelled), the same
// all-or-nothing shutdown errgroup.Group gives gopls's concurrent
// package loader. cmd/capi-build's main is this call plus flag parsing.
func Start(ctx context.Context, builder *Builder, loop *HostLoop) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return builder.Run(ctx) })
	g.Go(func() error { return loop.Run(ctx) })
	return g.Wait()
}
