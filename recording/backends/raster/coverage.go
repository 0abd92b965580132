// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"image"
	"math"

	"github.com/gogpu/layertree/graphics"
)

// coverage samples inside at every device pixel center within
// deviceBounds, mapped back through the inverse CTM, and intersects the
// result with clip. It returns a canvas-sized mask.
//
// Coverage is binary: pixel-center sampling keeps clip edges on integer
// device pixels for snapped layer geometry.
func (b *Backend) coverage(deviceBounds graphics.FloatRect, inside func(graphics.FloatPoint) bool, clip *image.Alpha) *image.Alpha {
	canvas := b.root.Bounds()
	mask := image.NewAlpha(canvas)
	if !b.ctm.IsInvertible() {
		return mask
	}
	inv := b.ctm.Invert()

	area := image.Rect(
		int(math.Floor(deviceBounds.X)), int(math.Floor(deviceBounds.Y)),
		int(math.Ceil(deviceBounds.Right())), int(math.Ceil(deviceBounds.Bottom())),
	).Intersect(canvas)
	if clip != nil {
		area = area.Intersect(clip.Bounds())
	}

	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			if clip != nil && clip.Pix[clip.PixOffset(x, y)] == 0 {
				continue
			}
			p := inv.TransformPoint(graphics.Pt(float64(x)+0.5, float64(y)+0.5))
			if inside(p) {
				mask.Pix[mask.PixOffset(x, y)] = 0xff
			}
		}
	}
	return mask
}

func rectContains(r graphics.FloatRect) func(graphics.FloatPoint) bool {
	return r.Contains
}

func roundedRectContains(r graphics.RoundedRect) func(graphics.FloatPoint) bool {
	rect := r.Rect
	return func(p graphics.FloatPoint) bool {
		if !rect.Contains(p) {
			return false
		}
		// Corner ellipse centers, clockwise from top-left.
		centers := [4]graphics.FloatPoint{
			{X: rect.X + r.Radii[0].W, Y: rect.Y + r.Radii[0].H},
			{X: rect.Right() - r.Radii[1].W, Y: rect.Y + r.Radii[1].H},
			{X: rect.Right() - r.Radii[2].W, Y: rect.Bottom() - r.Radii[2].H},
			{X: rect.X + r.Radii[3].W, Y: rect.Bottom() - r.Radii[3].H},
		}
		for i, c := range centers {
			rad := r.Radii[i]
			if rad.W <= 0 || rad.H <= 0 {
				continue
			}
			outsideX := (i == 0 || i == 3) && p.X < c.X || (i == 1 || i == 2) && p.X > c.X
			outsideY := (i == 0 || i == 1) && p.Y < c.Y || (i == 2 || i == 3) && p.Y > c.Y
			if !outsideX || !outsideY {
				continue
			}
			dx := (p.X - c.X) / rad.W
			dy := (p.Y - c.Y) / rad.H
			if dx*dx+dy*dy > 1 {
				return false
			}
		}
		return true
	}
}
