// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package raster provides a raster backend for the recording system.
// It renders recordings into an *image.RGBA using golang.org/x/image/draw.
//
// The raster backend serves several purposes:
//   - Reference implementation of graphics.Context
//   - Offscreen surface for layer filters
//   - Pixel comparison testing and PNG export
//
// # Supported Features
//
//   - Solid rectangle fills and strokes
//   - Affine transforms, including rotation and skew
//   - Rectangular and rounded clips, sampled at pixel centers
//   - Transparency layers with opacity and every CSS blend mode
//   - Scaled and transformed image drawing
//
// # Example
//
//	import _ "github.com/gogpu/layertree/recording/backends/raster"
//
//	backend, _ := recording.NewBackend("raster")
//	rec.FinishRecording().Playback(backend)
//	img := backend.(recording.ImageBackend).Image()
package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/layertree/graphics"
	"github.com/gogpu/layertree/recording"
)

func init() {
	recording.Register("raster", func() recording.Backend {
		return NewBackend()
	})
}

// Backend renders into an *image.RGBA.
type Backend struct {
	width, height int

	root   *image.RGBA
	target *image.RGBA

	ctm   graphics.AffineTransform
	clip  *image.Alpha // nil means unclipped
	stack []state

	groups []group
}

// state is the part of the context saved by Save.
type state struct {
	ctm  graphics.AffineTransform
	clip *image.Alpha
}

// group is an open transparency layer.
type group struct {
	parent  *image.RGBA
	opacity float64
	mode    graphics.BlendMode
}

var (
	_ recording.Backend       = (*Backend)(nil)
	_ recording.ImageBackend  = (*Backend)(nil)
	_ recording.WriterBackend = (*Backend)(nil)
)

// NewBackend creates a new raster backend.
// The backend must be initialized with Begin before use.
func NewBackend() *Backend {
	return &Backend{}
}

// NewBackendForImage creates a backend drawing directly into img.
// Begin must not be called on it.
func NewBackendForImage(img *image.RGBA) *Backend {
	b := &Backend{}
	b.reset(img)
	return b
}

func (b *Backend) reset(img *image.RGBA) {
	b.width, b.height = img.Bounds().Dx(), img.Bounds().Dy()
	b.root = img
	b.target = img
	b.ctm = graphics.Identity()
	b.clip = nil
	b.stack = b.stack[:0]
	b.groups = b.groups[:0]
}

// Begin allocates a transparent canvas of the given size.
func (b *Backend) Begin(width, height int) error {
	b.reset(image.NewRGBA(image.Rect(0, 0, width, height)))
	return nil
}

// End composites any transparency layer left open.
func (b *Backend) End() error {
	for len(b.groups) > 0 {
		b.EndTransparencyLayer()
	}
	return nil
}

// Save saves the current transform and clip.
func (b *Backend) Save() {
	b.stack = append(b.stack, state{ctm: b.ctm, clip: b.clip})
}

// Restore restores the state from the stack. No-op on an empty stack.
func (b *Backend) Restore() {
	if len(b.stack) == 0 {
		return
	}
	s := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.ctm, b.clip = s.ctm, s.clip
}

// Translate prepends a translation.
func (b *Backend) Translate(dx, dy float64) {
	b.ctm = b.ctm.Multiply(graphics.Translate(dx, dy))
}

// ConcatCTM prepends m.
func (b *Backend) ConcatCTM(m graphics.AffineTransform) {
	b.ctm = b.ctm.Multiply(m)
}

// Transform returns the current transform.
func (b *Backend) Transform() graphics.AffineTransform {
	return b.ctm
}

// ClipRect intersects the clip with r.
func (b *Backend) ClipRect(r graphics.FloatRect) {
	b.clip = b.coverage(b.ctm.TransformRect(r), rectContains(r), b.clip)
}

// ClipRoundedRect intersects the clip with a rounded rectangle.
func (b *Backend) ClipRoundedRect(r graphics.RoundedRect) {
	if !r.IsRounded() {
		b.ClipRect(r.Rect)
		return
	}
	b.clip = b.coverage(b.ctm.TransformRect(r.Rect), roundedRectContains(r), b.clip)
}

// BeginTransparencyLayer redirects drawing into a fresh transparent canvas.
func (b *Backend) BeginTransparencyLayer(opacity float64, mode graphics.BlendMode) {
	b.groups = append(b.groups, group{
		parent:  b.target,
		opacity: clamp01(opacity),
		mode:    mode,
	})
	b.target = image.NewRGBA(b.root.Bounds())
}

// EndTransparencyLayer composites the innermost group onto its parent.
func (b *Backend) EndTransparencyLayer() {
	if len(b.groups) == 0 {
		return
	}
	g := b.groups[len(b.groups)-1]
	b.groups = b.groups[:len(b.groups)-1]

	src := b.target
	b.target = g.parent
	composite(b.target, src, g.opacity, g.mode)
}

// FillRect fills r with c.
func (b *Backend) FillRect(r graphics.FloatRect, c color.Color) {
	if r.IsEmpty() {
		return
	}
	b.fill(b.ctm.TransformRect(r), rectContains(r), c)
}

// StrokeRect strokes r with a line centered on its edges.
func (b *Backend) StrokeRect(r graphics.FloatRect, c color.Color, width float64) {
	if width <= 0 {
		return
	}
	outer := r.Inflate(width / 2)
	inner := r.Inflate(-width / 2)
	inOuter, inInner := rectContains(outer), rectContains(inner)
	b.fill(b.ctm.TransformRect(outer), func(p graphics.FloatPoint) bool {
		return inOuter(p) && (inner.IsEmpty() || !inInner(p))
	}, c)
}

// DrawImage draws img scaled into dst under the current transform.
func (b *Backend) DrawImage(img image.Image, dst graphics.FloatRect) {
	sr := img.Bounds()
	if sr.Empty() || dst.IsEmpty() {
		return
	}
	place := graphics.Translate(dst.X, dst.Y).
		Multiply(graphics.Scale(dst.W/float64(sr.Dx()), dst.H/float64(sr.Dy()))).
		Multiply(graphics.Translate(-float64(sr.Min.X), -float64(sr.Min.Y)))
	m := b.ctm.Multiply(place)

	var opts *draw.Options
	if b.clip != nil {
		opts = &draw.Options{DstMask: b.clip}
	}
	if m.IsTranslation() && m.C == float64(int(m.C)) && m.F == float64(int(m.F)) {
		dr := sr.Add(image.Pt(int(m.C), int(m.F)))
		draw.NearestNeighbor.Scale(b.target, dr, img, sr, draw.Over, opts)
		return
	}
	s2d := f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
	draw.ApproxBiLinear.Transform(b.target, s2d, img, sr, draw.Over, opts)
}

// Image returns the rendered image.
func (b *Backend) Image() *image.RGBA {
	return b.root
}

// WriteTo writes the rendered content as PNG to the given writer.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := png.Encode(cw, b.root)
	return cw.n, err
}

// SavePNG saves the image as PNG.
func (b *Backend) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := b.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Width returns the backend width.
func (b *Backend) Width() int {
	return b.width
}

// Height returns the backend height.
func (b *Backend) Height() int {
	return b.height
}

// fill paints c through the coverage of inside, limited to deviceBounds.
func (b *Backend) fill(deviceBounds graphics.FloatRect, inside func(graphics.FloatPoint) bool, c color.Color) {
	mask := b.coverage(deviceBounds, inside, b.clip)
	r := mask.Bounds()
	draw.DrawMask(b.target, r, image.NewUniform(c), image.Point{}, mask, r.Min, draw.Over)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
