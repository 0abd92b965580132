// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package graphics

import (
	"image"
	"image/color"
)

// RoundedRect is a rectangle with elliptical corners, in the order
// top-left, top-right, bottom-right, bottom-left.
type RoundedRect struct {
	Rect  FloatRect
	Radii [4]FloatSize
}

// IsRounded reports whether any corner has a non-zero radius.
func (r RoundedRect) IsRounded() bool {
	for _, c := range r.Radii {
		if c.W > 0 && c.H > 0 {
			return true
		}
	}
	return false
}

// Translate returns r moved by (dx, dy).
func (r RoundedRect) Translate(dx, dy float64) RoundedRect {
	r.Rect = r.Rect.Translate(dx, dy)
	return r
}

// Context is the drawing surface layers paint into. Implementations keep a
// state stack holding the current transform and clip; Save and Restore must
// be balanced, and so must BeginTransparencyLayer and EndTransparencyLayer.
type Context interface {
	// Save pushes the current transform and clip.
	Save()

	// Restore pops the state pushed by the matching Save.
	Restore()

	// Translate prepends a translation to the current transform.
	Translate(dx, dy float64)

	// ConcatCTM prepends m to the current transform.
	ConcatCTM(m AffineTransform)

	// ClipRect intersects the clip with r in current user space.
	ClipRect(r FloatRect)

	// ClipRoundedRect intersects the clip with a rounded rectangle.
	ClipRoundedRect(r RoundedRect)

	// BeginTransparencyLayer starts an offscreen group that is composited
	// with the given opacity and blend mode when it ends.
	BeginTransparencyLayer(opacity float64, mode BlendMode)

	// EndTransparencyLayer composites the innermost group.
	EndTransparencyLayer()

	// FillRect fills r with a solid color.
	FillRect(r FloatRect, c color.Color)

	// StrokeRect outlines r with the given line width.
	StrokeRect(r FloatRect, c color.Color, width float64)

	// DrawImage draws img scaled into dst.
	DrawImage(img image.Image, dst FloatRect)
}
