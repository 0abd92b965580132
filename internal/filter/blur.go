// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package filter

import (
	"image"
	"math"
	"sync"
)

// BlurFilter applies separable Gaussian blur, the CSS blur() function.
// The horizontal and vertical passes run independently, giving
// O(w*h*(rx+ry)) instead of O(w*h*rx*ry).
type BlurFilter struct {
	// RadiusX is the horizontal standard deviation in pixels.
	RadiusX float64

	// RadiusY is the vertical standard deviation in pixels.
	RadiusY float64
}

// NewBlurFilter creates a blur with equal radius in both directions.
func NewBlurFilter(radius float64) *BlurFilter {
	return &BlurFilter{RadiusX: radius, RadiusY: radius}
}

// Apply blurs src into dst. Pixels are read from the expanded bounds so
// color bleeds into the outset area.
func (f *BlurFilter) Apply(src, dst *image.RGBA, bounds image.Rectangle) {
	if src == nil || dst == nil {
		return
	}
	if f.RadiusX <= 0 && f.RadiusY <= 0 {
		copyRegion(src, dst, bounds)
		return
	}

	area := f.ExpandBounds(bounds).Intersect(src.Bounds()).Intersect(dst.Bounds())
	if area.Empty() {
		return
	}
	width, height := area.Dx(), area.Dy()

	temp := getTempBuffer(width, height)
	defer putTempBuffer(temp)

	blurHorizontal(src, temp, area, CachedGaussianKernel(f.RadiusX))
	blurVertical(temp, dst, area, CachedGaussianKernel(f.RadiusY))
}

// ExpandBounds grows input by three standard deviations on each side.
func (f *BlurFilter) ExpandBounds(input image.Rectangle) image.Rectangle {
	ex := int(math.Ceil(f.RadiusX * 3))
	ey := int(math.Ceil(f.RadiusY * 3))
	return image.Rect(input.Min.X-ex, input.Min.Y-ey, input.Max.X+ex, input.Max.Y+ey)
}

// blurHorizontal convolves each row of area in src into temp. Samples
// outside the image read as transparent.
func blurHorizontal(src *image.RGBA, temp []float32, area image.Rectangle, kernel []float32) {
	half := len(kernel) / 2
	sb := src.Bounds()
	width := area.Dx()

	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			var r, g, b, a float32
			for k, weight := range kernel {
				kx := x + k - half
				if kx < sb.Min.X || kx >= sb.Max.X {
					continue
				}
				i := src.PixOffset(kx, y)
				r += float32(src.Pix[i+0]) * weight
				g += float32(src.Pix[i+1]) * weight
				b += float32(src.Pix[i+2]) * weight
				a += float32(src.Pix[i+3]) * weight
			}
			ti := ((y-area.Min.Y)*width + (x - area.Min.X)) * 4
			temp[ti+0], temp[ti+1], temp[ti+2], temp[ti+3] = r, g, b, a
		}
	}
}

// blurVertical convolves each column of temp into area of dst.
func blurVertical(temp []float32, dst *image.RGBA, area image.Rectangle, kernel []float32) {
	half := len(kernel) / 2
	width, height := area.Dx(), area.Dy()

	for y := range height {
		for x := range width {
			var r, g, b, a float32
			for k, weight := range kernel {
				ky := y + k - half
				if ky < 0 || ky >= height {
					continue
				}
				ti := (ky*width + x) * 4
				r += temp[ti+0] * weight
				g += temp[ti+1] * weight
				b += temp[ti+2] * weight
				a += temp[ti+3] * weight
			}
			di := dst.PixOffset(area.Min.X+x, area.Min.Y+y)
			dst.Pix[di+0] = clampUint8(r)
			dst.Pix[di+1] = clampUint8(g)
			dst.Pix[di+2] = clampUint8(b)
			dst.Pix[di+3] = clampUint8(a)
		}
	}
}

// copyRegion copies the pixels of bounds from src to dst.
func copyRegion(src, dst *image.RGBA, bounds image.Rectangle) {
	r := bounds.Intersect(src.Bounds()).Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := src.PixOffset(r.Min.X, y)
		di := dst.PixOffset(r.Min.X, y)
		copy(dst.Pix[di:di+r.Dx()*4], src.Pix[si:si+r.Dx()*4])
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

var tempBufferPool = sync.Pool{
	New: func() any {
		return &floatBuffer{data: make([]float32, 256*256*4)}
	},
}

// getTempBuffer returns a zeroed buffer of at least width*height*4 elements.
func getTempBuffer(width, height int) []float32 {
	size := width * height * 4
	wrapper := tempBufferPool.Get().(*floatBuffer)
	if len(wrapper.data) < size {
		tempBufferPool.Put(wrapper)
		return make([]float32, size)
	}
	buf := wrapper.data[:size]
	clear(buf)
	return buf
}

// putTempBuffer returns a buffer to the pool.
func putTempBuffer(buf []float32) {
	if cap(buf) <= 16*1024*1024 {
		tempBufferPool.Put(&floatBuffer{data: buf[:cap(buf)]})
	}
}
