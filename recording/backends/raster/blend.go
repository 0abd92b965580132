// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/layertree/graphics"
)

// composite draws src onto dst with the given opacity and blend mode,
// following the W3C Compositing and Blending Level 1 formulas:
//
//	Co = (1 - Sa)*Cb + (1 - Ba)*Cs + Sa*Ba*B(Cb, Cs)
//	Ao = Sa + Ba*(1 - Sa)
//
// Both images hold premultiplied alpha.
func composite(dst, src *image.RGBA, opacity float64, mode graphics.BlendMode) {
	r := dst.Bounds().Intersect(src.Bounds())
	if opacity <= 0 || r.Empty() {
		return
	}
	if mode == graphics.BlendNormal {
		alpha := image.NewUniform(color.Alpha{A: uint8(math.Round(opacity * 255))})
		draw.DrawMask(dst, r, src, r.Min, alpha, image.Point{}, draw.Over)
		return
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			si := src.PixOffset(x, y)
			if src.Pix[si+3] == 0 {
				continue
			}
			di := dst.PixOffset(x, y)
			s := unpack(src.Pix[si:si+4], opacity)
			d := unpack(dst.Pix[di:di+4], 1)
			pack(dst.Pix[di:di+4], blendPixel(s, d, mode))
		}
	}
}

// rgba is a premultiplied color with channels in [0, 1].
type rgba struct {
	r, g, b, a float64
}

func unpack(p []uint8, opacity float64) rgba {
	return rgba{
		r: float64(p[0]) / 255 * opacity,
		g: float64(p[1]) / 255 * opacity,
		b: float64(p[2]) / 255 * opacity,
		a: float64(p[3]) / 255 * opacity,
	}
}

func pack(p []uint8, c rgba) {
	p[0] = uint8(math.Round(clamp01(c.r) * 255))
	p[1] = uint8(math.Round(clamp01(c.g) * 255))
	p[2] = uint8(math.Round(clamp01(c.b) * 255))
	p[3] = uint8(math.Round(clamp01(c.a) * 255))
}

func blendPixel(s, d rgba, mode graphics.BlendMode) rgba {
	if mode == graphics.BlendPlusLighter {
		return rgba{r: s.r + d.r, g: s.g + d.g, b: s.b + d.b, a: math.Min(1, s.a+d.a)}
	}

	// Unpremultiplied source and backdrop.
	var sc, dc [3]float64
	if s.a > 0 {
		sc = [3]float64{s.r / s.a, s.g / s.a, s.b / s.a}
	}
	if d.a > 0 {
		dc = [3]float64{d.r / d.a, d.g / d.a, d.b / d.a}
	}

	var mixed [3]float64
	if mode.IsSeparable() {
		f := separable(mode)
		for i := range 3 {
			mixed[i] = f(dc[i], sc[i])
		}
	} else {
		mixed = nonSeparable(mode, dc, sc)
	}

	out := rgba{a: s.a + d.a*(1-s.a)}
	sp := [3]float64{s.r, s.g, s.b}
	dp := [3]float64{d.r, d.g, d.b}
	var res [3]float64
	for i := range 3 {
		res[i] = (1-s.a)*dp[i] + (1-d.a)*sp[i] + s.a*d.a*mixed[i]
	}
	out.r, out.g, out.b = res[0], res[1], res[2]
	return out
}

// separable returns B(Cb, Cs) for a separable mode.
func separable(mode graphics.BlendMode) func(cb, cs float64) float64 {
	switch mode {
	case graphics.BlendMultiply:
		return func(cb, cs float64) float64 { return cb * cs }
	case graphics.BlendScreen:
		return screen
	case graphics.BlendOverlay:
		return func(cb, cs float64) float64 { return hardLight(cs, cb) }
	case graphics.BlendDarken:
		return math.Min
	case graphics.BlendLighten:
		return math.Max
	case graphics.BlendColorDodge:
		return func(cb, cs float64) float64 {
			switch {
			case cb == 0:
				return 0
			case cs >= 1:
				return 1
			default:
				return math.Min(1, cb/(1-cs))
			}
		}
	case graphics.BlendColorBurn:
		return func(cb, cs float64) float64 {
			switch {
			case cb >= 1:
				return 1
			case cs <= 0:
				return 0
			default:
				return 1 - math.Min(1, (1-cb)/cs)
			}
		}
	case graphics.BlendHardLight:
		return hardLight
	case graphics.BlendSoftLight:
		return softLight
	case graphics.BlendDifference:
		return func(cb, cs float64) float64 { return math.Abs(cb - cs) }
	case graphics.BlendExclusion:
		return func(cb, cs float64) float64 { return cb + cs - 2*cb*cs }
	default:
		return func(_, cs float64) float64 { return cs }
	}
}

func screen(cb, cs float64) float64 {
	return cb + cs - cb*cs
}

func hardLight(cb, cs float64) float64 {
	if cs <= 0.5 {
		return cb * 2 * cs
	}
	return screen(cb, 2*cs-1)
}

func softLight(cb, cs float64) float64 {
	if cs <= 0.5 {
		return cb - (1-2*cs)*cb*(1-cb)
	}
	var d float64
	if cb <= 0.25 {
		d = ((16*cb-12)*cb + 4) * cb
	} else {
		d = math.Sqrt(cb)
	}
	return cb + (2*cs-1)*(d-cb)
}

func nonSeparable(mode graphics.BlendMode, cb, cs [3]float64) [3]float64 {
	switch mode {
	case graphics.BlendHue:
		return setLum(setSat(cs, sat(cb)), lum(cb))
	case graphics.BlendSaturation:
		return setLum(setSat(cb, sat(cs)), lum(cb))
	case graphics.BlendColor:
		return setLum(cs, lum(cb))
	default: // luminosity
		return setLum(cb, lum(cs))
	}
}

func lum(c [3]float64) float64 {
	return 0.3*c[0] + 0.59*c[1] + 0.11*c[2]
}

func sat(c [3]float64) float64 {
	return math.Max(c[0], math.Max(c[1], c[2])) - math.Min(c[0], math.Min(c[1], c[2]))
}

func setLum(c [3]float64, l float64) [3]float64 {
	d := l - lum(c)
	return clipColor([3]float64{c[0] + d, c[1] + d, c[2] + d})
}

func clipColor(c [3]float64) [3]float64 {
	l := lum(c)
	n := math.Min(c[0], math.Min(c[1], c[2]))
	x := math.Max(c[0], math.Max(c[1], c[2]))
	for i := range 3 {
		if n < 0 && l != n {
			c[i] = l + (c[i]-l)*l/(l-n)
		}
		if x > 1 && x != l {
			c[i] = l + (c[i]-l)*(1-l)/(x-l)
		}
	}
	return c
}

func setSat(c [3]float64, s float64) [3]float64 {
	// Indices of min, mid and max channels.
	lo, mid, hi := 0, 1, 2
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}
	if c[mid] > c[hi] {
		mid, hi = hi, mid
	}
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}
	var out [3]float64
	if c[hi] > c[lo] {
		out[mid] = (c[mid] - c[lo]) * s / (c[hi] - c[lo])
		out[hi] = s
	}
	return out
}
