// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"math"

	"github.com/gogpu/layertree/graphics"
)

// PixelSnapper rounds layout geometry to device pixels before it reaches a
// graphics.Context.
type PixelSnapper interface {
	SnapRect(r LayoutRect) graphics.FloatRect
	SnapPoint(p LayoutPoint) graphics.FloatPoint
}

// RoundHalfUpSnapper snaps to the nearest device pixel, rounding halves up.
// Scale is the device scale factor; zero is treated as 1.
type RoundHalfUpSnapper struct {
	Scale float64
}

func (s RoundHalfUpSnapper) scale() float64 {
	if s.Scale <= 0 {
		return 1
	}
	return s.Scale
}

func (s RoundHalfUpSnapper) snap(v float64) float64 {
	k := s.scale()
	return math.Floor(v*k+0.5) / k
}

// SnapPoint rounds p to device pixels.
func (s RoundHalfUpSnapper) SnapPoint(p LayoutPoint) graphics.FloatPoint {
	return graphics.FloatPoint{X: s.snap(UnitToFloat(p.X)), Y: s.snap(UnitToFloat(p.Y))}
}

// SnapRect snaps both edges of r so adjacent rectangles stay adjacent.
func (s RoundHalfUpSnapper) SnapRect(r LayoutRect) graphics.FloatRect {
	if IsInfiniteRect(r) {
		return toFloatRect(r)
	}
	x0, y0 := s.snap(UnitToFloat(r.Min.X)), s.snap(UnitToFloat(r.Min.Y))
	x1, y1 := s.snap(UnitToFloat(r.Max.X)), s.snap(UnitToFloat(r.Max.Y))
	return graphics.FloatRect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
