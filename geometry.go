// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"math"
	"strconv"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/layertree/graphics"
)

// LayoutUnit is a length in 26.6 fixed point, 1/64 of a CSS pixel.
type LayoutUnit = fixed.Int26_6

// LayoutPoint is a point in layout units.
type LayoutPoint = fixed.Point26_6

// LayoutRect is a half-open rectangle in layout units. Max is exclusive.
type LayoutRect = fixed.Rectangle26_6

// LayoutSize is a width and height in layout units.
type LayoutSize struct {
	W, H LayoutUnit
}

// infiniteCoordinate bounds the infinite rectangle. It is small enough that
// the width of the rectangle still fits in an Int26_6.
const infiniteCoordinate LayoutUnit = 1 << 29

// Unit converts CSS pixels to layout units, rounding to the nearest 1/64.
func Unit(px float64) LayoutUnit {
	return LayoutUnit(math.Round(px * 64))
}

// UnitToFloat converts layout units to CSS pixels.
func UnitToFloat(u LayoutUnit) float64 {
	return float64(u) / 64
}

// Point returns a LayoutPoint at (x, y) CSS pixels.
func Point(x, y float64) LayoutPoint {
	return LayoutPoint{X: Unit(x), Y: Unit(y)}
}

// Size returns a LayoutSize of w by h CSS pixels.
func Size(w, h float64) LayoutSize {
	return LayoutSize{W: Unit(w), H: Unit(h)}
}

// Rect returns the rectangle with origin (x, y) and size w by h in CSS pixels.
func Rect(x, y, w, h float64) LayoutRect {
	origin := Point(x, y)
	return rectAt(origin, Size(w, h))
}

// InfiniteRect returns the sentinel rectangle used for "no clip".
func InfiniteRect() LayoutRect {
	return LayoutRect{
		Min: LayoutPoint{X: -infiniteCoordinate, Y: -infiniteCoordinate},
		Max: LayoutPoint{X: infiniteCoordinate, Y: infiniteCoordinate},
	}
}

// IsInfiniteRect reports whether r is the infinite sentinel.
func IsInfiniteRect(r LayoutRect) bool {
	return r == InfiniteRect()
}

func rectAt(p LayoutPoint, s LayoutSize) LayoutRect {
	return LayoutRect{Min: p, Max: LayoutPoint{X: p.X + s.W, Y: p.Y + s.H}}
}

func rectSize(r LayoutRect) LayoutSize {
	return LayoutSize{W: r.Max.X - r.Min.X, H: r.Max.Y - r.Min.Y}
}

func (s LayoutSize) isEmpty() bool {
	return s.W <= 0 || s.H <= 0
}

// moveRect translates r by p. The infinite rectangle does not move.
func moveRect(r LayoutRect, p LayoutPoint) LayoutRect {
	if IsInfiniteRect(r) {
		return r
	}
	return r.Add(p)
}

func rectsIntersect(a, b LayoutRect) bool {
	return !a.Intersect(b).Empty()
}

func inflateRect(r LayoutRect, d LayoutUnit) LayoutRect {
	if IsInfiniteRect(r) {
		return r
	}
	r.Min.X -= d
	r.Min.Y -= d
	r.Max.X += d
	r.Max.Y += d
	return r
}

func expandRect(r LayoutRect, top, right, bottom, left LayoutUnit) LayoutRect {
	if IsInfiniteRect(r) {
		return r
	}
	r.Min.X -= left
	r.Min.Y -= top
	r.Max.X += right
	r.Max.Y += bottom
	return r
}

func toFloatRect(r LayoutRect) graphics.FloatRect {
	return graphics.FloatRect{
		X: UnitToFloat(r.Min.X),
		Y: UnitToFloat(r.Min.Y),
		W: UnitToFloat(r.Max.X - r.Min.X),
		H: UnitToFloat(r.Max.Y - r.Min.Y),
	}
}

func toFloatPoint(p LayoutPoint) graphics.FloatPoint {
	return graphics.FloatPoint{X: UnitToFloat(p.X), Y: UnitToFloat(p.Y)}
}

func fromFloatPoint(p graphics.FloatPoint) LayoutPoint {
	return Point(p.X, p.Y)
}

// enclosingLayoutRect returns the smallest layout rectangle containing r.
func enclosingLayoutRect(r graphics.FloatRect) LayoutRect {
	limit := float64(infiniteCoordinate) / 64
	clampF := func(v float64) float64 { return math.Max(-limit, math.Min(limit, v)) }
	return LayoutRect{
		Min: LayoutPoint{
			X: LayoutUnit(math.Floor(clampF(r.X) * 64)),
			Y: LayoutUnit(math.Floor(clampF(r.Y) * 64)),
		},
		Max: LayoutPoint{
			X: LayoutUnit(math.Ceil(clampF(r.Right()) * 64)),
			Y: LayoutUnit(math.Ceil(clampF(r.Bottom()) * 64)),
		},
	}
}

// mapRectThrough maps a layout rect through m, keeping the infinite
// rectangle infinite.
func mapRectThrough(m graphics.TransformationMatrix, r LayoutRect) LayoutRect {
	if IsInfiniteRect(r) {
		return r
	}
	return enclosingLayoutRect(m.MapRect(toFloatRect(r)))
}

func formatUnit(u LayoutUnit) string {
	return strconv.FormatFloat(UnitToFloat(u), 'f', -1, 64)
}

func formatPoint(p LayoutPoint) string {
	return "(" + formatUnit(p.X) + "," + formatUnit(p.Y) + ")"
}

func formatSize(s LayoutSize) string {
	return formatUnit(s.W) + "x" + formatUnit(s.H)
}

func formatRect(r LayoutRect) string {
	if IsInfiniteRect(r) {
		return "infinite"
	}
	return "[" + formatUnit(r.Min.X) + "," + formatUnit(r.Min.Y) + " " + formatSize(rectSize(r)) + "]"
}
