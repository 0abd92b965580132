// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package filter

import (
	"image"
	"image/color"
)

// Test helper functions shared across filter tests.

// filledImage returns a w x h image with c painted inside fill.
func filledImage(w, h int, fill image.Rectangle, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := fill.Min.Y; y < fill.Max.Y; y++ {
		for x := fill.Min.X; x < fill.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// near reports whether two channel values differ by at most tol.
func near(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	return d >= -tol && d <= tol
}
