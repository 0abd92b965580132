// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"image"
	"io"

	"github.com/gogpu/layertree/graphics"
)

// Backend is the interface that all playback targets must implement.
// A Backend is a graphics.Context with a lifecycle: Begin allocates the
// target surface, End flushes it.
//
// Backends are created via the registry using NewBackend(name) and
// registered via Register() in their init() functions:
//
//	func init() {
//	    recording.Register("raster", func() recording.Backend {
//	        return NewBackend()
//	    })
//	}
type Backend interface {
	graphics.Context

	// Begin initializes the backend for rendering at the given dimensions.
	Begin(width, height int) error

	// End finalizes the rendering and prepares the output.
	End() error
}

// ImageBackend extends Backend with access to the rasterized result.
type ImageBackend interface {
	Backend

	// Image returns the rendered image. Only valid after End.
	Image() *image.RGBA
}

// WriterBackend extends Backend with the ability to encode its output.
type WriterBackend interface {
	Backend

	// WriteTo writes the rendered content to w. Only valid after End.
	WriteTo(w io.Writer) (int64, error)
}
