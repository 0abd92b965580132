// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package filter

import "image"

// Filter transforms the pixels of src inside bounds into dst.
// src and dst must have the same bounds and may not alias.
type Filter interface {
	Apply(src, dst *image.RGBA, bounds image.Rectangle)

	// ExpandBounds returns the area affected when input is filtered.
	ExpandBounds(input image.Rectangle) image.Rectangle
}

// Chain applies filters in sequence.
type Chain []Filter

// Apply runs every filter, ping-ponging between dst and a scratch image.
// The result always ends up in dst.
func (c Chain) Apply(src, dst *image.RGBA, bounds image.Rectangle) {
	if len(c) == 0 {
		copy(dst.Pix, src.Pix)
		return
	}

	in := src
	var scratch *image.RGBA
	for i, f := range c {
		out := dst
		if i%2 != (len(c)-1)%2 {
			if scratch == nil {
				scratch = image.NewRGBA(src.Bounds())
			}
			out = scratch
		}
		clear(out.Pix)
		f.Apply(in, out, bounds)
		bounds = f.ExpandBounds(bounds)
		in = out
	}
}

// ExpandBounds returns input grown by every filter in the chain.
func (c Chain) ExpandBounds(input image.Rectangle) image.Rectangle {
	for _, f := range c {
		input = f.ExpandBounds(input)
	}
	return input
}

// Outsets returns how far the chain can draw beyond each edge of its input.
func (c Chain) Outsets() (top, right, bottom, left int) {
	base := image.Rect(0, 0, 1, 1)
	r := c.ExpandBounds(base)
	return -r.Min.Y, r.Max.X - 1, r.Max.Y - 1, -r.Min.X
}

// HasOutsets reports whether the chain paints outside its input.
func (c Chain) HasOutsets() bool {
	t, r, b, l := c.Outsets()
	return t != 0 || r != 0 || b != 0 || l != 0
}

func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
