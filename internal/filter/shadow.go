// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package filter

import (
	"image"
	"image/color"
	"math"
)

// DropShadowFilter implements drop-shadow(). It extracts the alpha
// channel, blurs it, colorizes it, offsets it and composites the original
// image over the result.
type DropShadowFilter struct {
	OffsetX, OffsetY int

	// BlurRadius is the standard deviation of the shadow blur.
	BlurRadius float64

	Color color.RGBA
}

// NewDropShadowFilter creates a new drop shadow filter.
func NewDropShadowFilter(offsetX, offsetY int, blurRadius float64, c color.Color) *DropShadowFilter {
	return &DropShadowFilter{
		OffsetX:    offsetX,
		OffsetY:    offsetY,
		BlurRadius: blurRadius,
		Color:      color.RGBAModel.Convert(c).(color.RGBA),
	}
}

// Apply draws the shadow and the source into dst.
func (f *DropShadowFilter) Apply(src, dst *image.RGBA, bounds image.Rectangle) {
	if src == nil || dst == nil {
		return
	}
	area := f.ExpandBounds(bounds).Intersect(dst.Bounds())
	if area.Empty() {
		return
	}
	width, height := area.Dx(), area.Dy()

	alpha := make([]float32, width*height)
	extractAlpha(src, alpha, area, f.OffsetX, f.OffsetY)

	if f.BlurRadius > 0 {
		blurred := make([]float32, width*height)
		blurAlphaChannel(alpha, blurred, width, height, f.BlurRadius)
		alpha = blurred
	}

	compositeShadow(src, dst, alpha, area, f.Color)
}

// ExpandBounds grows input by the blur extent plus the offset direction.
func (f *DropShadowFilter) ExpandBounds(input image.Rectangle) image.Rectangle {
	blur := int(math.Ceil(f.BlurRadius * 3))
	left, right, top, bottom := blur, blur, blur, blur
	if f.OffsetX < 0 {
		left -= f.OffsetX
	} else {
		right += f.OffsetX
	}
	if f.OffsetY < 0 {
		top -= f.OffsetY
	} else {
		bottom += f.OffsetY
	}
	return image.Rect(input.Min.X-left, input.Min.Y-top, input.Max.X+right, input.Max.Y+bottom)
}

// extractAlpha reads the source alpha shifted by the shadow offset into a
// buffer covering area.
func extractAlpha(src *image.RGBA, alpha []float32, area image.Rectangle, dx, dy int) {
	sb := src.Bounds()
	width := area.Dx()
	for y := area.Min.Y; y < area.Max.Y; y++ {
		sy := y - dy
		if sy < sb.Min.Y || sy >= sb.Max.Y {
			continue
		}
		for x := area.Min.X; x < area.Max.X; x++ {
			sx := x - dx
			if sx < sb.Min.X || sx >= sb.Max.X {
				continue
			}
			alpha[(y-area.Min.Y)*width+(x-area.Min.X)] = float32(src.Pix[src.PixOffset(sx, sy)+3]) / 255
		}
	}
}

// blurAlphaChannel runs a separable Gaussian over a single channel.
func blurAlphaChannel(src, dst []float32, width, height int, radius float64) {
	kernel := CachedGaussianKernel(radius)
	half := len(kernel) / 2
	temp := make([]float32, width*height)

	for y := range height {
		for x := range width {
			var sum float32
			for k, w := range kernel {
				kx := clampInt(x+k-half, 0, width-1)
				sum += src[y*width+kx] * w
			}
			temp[y*width+x] = sum
		}
	}
	for y := range height {
		for x := range width {
			var sum float32
			for k, w := range kernel {
				ky := clampInt(y+k-half, 0, height-1)
				sum += temp[ky*width+x] * w
			}
			dst[y*width+x] = sum
		}
	}
}

// compositeShadow colorizes the shadow alpha and draws src over it.
func compositeShadow(src, dst *image.RGBA, shadowAlpha []float32, area image.Rectangle, c color.RGBA) {
	sb := src.Bounds()
	width := area.Dx()

	// c is premultiplied; scale it by the per-pixel shadow coverage.
	cr, cg, cb, ca := float32(c.R), float32(c.G), float32(c.B), float32(c.A)

	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			cov := shadowAlpha[(y-area.Min.Y)*width+(x-area.Min.X)]

			var sr, sg, sbl, sa float32
			if (image.Point{X: x, Y: y}).In(sb) {
				i := src.PixOffset(x, y)
				sr, sg, sbl, sa = float32(src.Pix[i]), float32(src.Pix[i+1]), float32(src.Pix[i+2]), float32(src.Pix[i+3])
			}
			inv := 1 - sa/255

			di := dst.PixOffset(x, y)
			dst.Pix[di+0] = clampUint8(sr + cr*cov*inv)
			dst.Pix[di+1] = clampUint8(sg + cg*cov*inv)
			dst.Pix[di+2] = clampUint8(sbl + cb*cov*inv)
			dst.Pix[di+3] = clampUint8(sa + ca*cov*inv)
		}
	}
}
