// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package filter

import (
	"image"
	"math"
)

// ColorMatrixFilter applies a 4x5 color transformation matrix:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// The matrix operates on unpremultiplied channels in [0, 1]; the fifth
// column is the offset.
type ColorMatrixFilter struct {
	// Matrix is row-major: [0-4] R, [5-9] G, [10-14] B, [15-19] A.
	Matrix [20]float32
}

// Filter Effects luminance coefficients.
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// NewColorMatrixFilter creates a color matrix filter with the given matrix.
func NewColorMatrixFilter(matrix [20]float32) *ColorMatrixFilter {
	return &ColorMatrixFilter{Matrix: matrix}
}

// NewIdentityColorMatrix returns a pass-through filter.
func NewIdentityColorMatrix() *ColorMatrixFilter {
	return &ColorMatrixFilter{Matrix: [20]float32{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}}
}

// NewGrayscaleFilter implements grayscale(amount), amount in [0, 1].
func NewGrayscaleFilter(amount float64) *ColorMatrixFilter {
	a := float32(1 - clampAmount(amount))
	return &ColorMatrixFilter{Matrix: [20]float32{
		lumR + (1-lumR)*a, lumG - lumG*a, lumB - lumB*a, 0, 0,
		lumR - lumR*a, lumG + (1-lumG)*a, lumB - lumB*a, 0, 0,
		lumR - lumR*a, lumG - lumG*a, lumB + (1-lumB)*a, 0, 0,
		0, 0, 0, 1, 0,
	}}
}

// NewSepiaFilter implements sepia(amount), amount in [0, 1].
func NewSepiaFilter(amount float64) *ColorMatrixFilter {
	a := float32(1 - clampAmount(amount))
	return &ColorMatrixFilter{Matrix: [20]float32{
		0.393 + 0.607*a, 0.769 - 0.769*a, 0.189 - 0.189*a, 0, 0,
		0.349 - 0.349*a, 0.686 + 0.314*a, 0.168 - 0.168*a, 0, 0,
		0.272 - 0.272*a, 0.534 - 0.534*a, 0.131 + 0.869*a, 0, 0,
		0, 0, 0, 1, 0,
	}}
}

// NewSaturateFilter implements saturate(amount); 0 is grayscale, 1 unchanged.
func NewSaturateFilter(amount float64) *ColorMatrixFilter {
	s := float32(math.Max(0, amount))
	return &ColorMatrixFilter{Matrix: [20]float32{
		lumR + (1-lumR)*s, lumG - lumG*s, lumB - lumB*s, 0, 0,
		lumR - lumR*s, lumG + (1-lumG)*s, lumB - lumB*s, 0, 0,
		lumR - lumR*s, lumG - lumG*s, lumB + (1-lumB)*s, 0, 0,
		0, 0, 0, 1, 0,
	}}
}

// NewHueRotateFilter implements hue-rotate(angle), angle in degrees.
func NewHueRotateFilter(degrees float64) *ColorMatrixFilter {
	sin64, cos64 := math.Sincos(degrees * math.Pi / 180)
	sin, cos := float32(sin64), float32(cos64)
	return &ColorMatrixFilter{Matrix: [20]float32{
		lumR + cos*(1-lumR) - sin*lumR, lumG - cos*lumG - sin*lumG, lumB - cos*lumB + sin*(1-lumB), 0, 0,
		lumR - cos*lumR + sin*0.143, lumG + cos*(1-lumG) + sin*0.140, lumB - cos*lumB - sin*0.283, 0, 0,
		lumR - cos*lumR - sin*(1-lumR), lumG - cos*lumG + sin*lumG, lumB + cos*(1-lumB) + sin*lumB, 0, 0,
		0, 0, 0, 1, 0,
	}}
}

// NewInvertFilter implements invert(amount), amount in [0, 1].
func NewInvertFilter(amount float64) *ColorMatrixFilter {
	a := float32(clampAmount(amount))
	return &ColorMatrixFilter{Matrix: [20]float32{
		1 - 2*a, 0, 0, 0, a,
		0, 1 - 2*a, 0, 0, a,
		0, 0, 1 - 2*a, 0, a,
		0, 0, 0, 1, 0,
	}}
}

// NewOpacityFilter implements opacity(amount), amount in [0, 1].
func NewOpacityFilter(amount float64) *ColorMatrixFilter {
	m := NewIdentityColorMatrix()
	m.Matrix[18] = float32(clampAmount(amount))
	return m
}

// NewBrightnessFilter implements brightness(amount); 1 is unchanged.
func NewBrightnessFilter(amount float64) *ColorMatrixFilter {
	b := float32(math.Max(0, amount))
	return &ColorMatrixFilter{Matrix: [20]float32{
		b, 0, 0, 0, 0,
		0, b, 0, 0, 0,
		0, 0, b, 0, 0,
		0, 0, 0, 1, 0,
	}}
}

// NewContrastFilter implements contrast(amount); 1 is unchanged.
func NewContrastFilter(amount float64) *ColorMatrixFilter {
	c := float32(math.Max(0, amount))
	off := (1 - c) / 2
	return &ColorMatrixFilter{Matrix: [20]float32{
		c, 0, 0, 0, off,
		0, c, 0, 0, off,
		0, 0, c, 0, off,
		0, 0, 0, 1, 0,
	}}
}

// Apply transforms every pixel of bounds.
func (f *ColorMatrixFilter) Apply(src, dst *image.RGBA, bounds image.Rectangle) {
	if src == nil || dst == nil {
		return
	}
	r := bounds.Intersect(src.Bounds()).Intersect(dst.Bounds())
	m := &f.Matrix

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			si := src.PixOffset(x, y)
			a := float32(src.Pix[si+3]) / 255

			// Unpremultiply; the matrix is defined on straight alpha.
			var cr, cg, cb float32
			if a > 0 {
				cr = float32(src.Pix[si+0]) / 255 / a
				cg = float32(src.Pix[si+1]) / 255 / a
				cb = float32(src.Pix[si+2]) / 255 / a
			}

			nr := m[0]*cr + m[1]*cg + m[2]*cb + m[3]*a + m[4]
			ng := m[5]*cr + m[6]*cg + m[7]*cb + m[8]*a + m[9]
			nb := m[10]*cr + m[11]*cg + m[12]*cb + m[13]*a + m[14]
			na := clampUnit(m[15]*cr + m[16]*cg + m[17]*cb + m[18]*a + m[19])

			di := dst.PixOffset(x, y)
			dst.Pix[di+0] = clampUint8(clampUnit(nr) * na * 255)
			dst.Pix[di+1] = clampUint8(clampUnit(ng) * na * 255)
			dst.Pix[di+2] = clampUint8(clampUnit(nb) * na * 255)
			dst.Pix[di+3] = clampUint8(na * 255)
		}
	}
}

// ExpandBounds returns input unchanged.
func (f *ColorMatrixFilter) ExpandBounds(input image.Rectangle) image.Rectangle {
	return input
}

// Multiply returns a filter equivalent to applying f, then other.
func (f *ColorMatrixFilter) Multiply(other *ColorMatrixFilter) *ColorMatrixFilter {
	a := &other.Matrix
	b := &f.Matrix

	result := &ColorMatrixFilter{}
	r := &result.Matrix
	for row := range 4 {
		for col := range 4 {
			var sum float32
			for k := range 4 {
				sum += a[row*5+k] * b[k*5+col]
			}
			r[row*5+col] = sum
		}
		r[row*5+4] = a[row*5+0]*b[4] + a[row*5+1]*b[9] +
			a[row*5+2]*b[14] + a[row*5+3]*b[19] + a[row*5+4]
	}
	return result
}

func clampAmount(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func clampUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
