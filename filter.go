// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"image"
	"math"

	"github.com/gogpu/layertree/graphics"
	"github.com/gogpu/layertree/internal/filter"
	"github.com/gogpu/layertree/recording"
	"github.com/gogpu/layertree/recording/backends/raster"
)

// maxFilterPixels bounds the offscreen surface of a filtered layer.
const maxFilterPixels = 1 << 24

// filterChain converts l's filter list into the offscreen filters that
// implement it. movesPixels is set when some output pixel depends on its
// neighbours.
func (l *Layer) filterChain() (chain filter.Chain, movesPixels bool) {
	ops := l.renderer.Style().Filter
	if len(ops) == 0 {
		return nil, false
	}
	chain = make(filter.Chain, 0, len(ops))
	for _, op := range ops {
		if op.MovesPixels() {
			movesPixels = true
		}
		if f := newFilter(op); f != nil {
			chain = append(chain, f)
		}
	}
	return chain, movesPixels
}

func newFilter(op FilterOperation) filter.Filter {
	switch op.Kind {
	case FilterBlur:
		return filter.NewBlurFilter(op.Amount)
	case FilterDropShadow:
		return filter.NewDropShadowFilter(int(math.Round(op.OffsetX)), int(math.Round(op.OffsetY)), op.Amount, op.Color)
	case FilterGrayscale:
		return filter.NewGrayscaleFilter(op.Amount)
	case FilterSepia:
		return filter.NewSepiaFilter(op.Amount)
	case FilterSaturate:
		return filter.NewSaturateFilter(op.Amount)
	case FilterHueRotate:
		return filter.NewHueRotateFilter(op.Amount)
	case FilterInvert:
		return filter.NewInvertFilter(op.Amount)
	case FilterOpacity:
		return filter.NewOpacityFilter(op.Amount)
	case FilterBrightness:
		return filter.NewBrightnessFilter(op.Amount)
	case FilterContrast:
		return filter.NewContrastFilter(op.Amount)
	}
	return nil
}

// filterOutsets is how far l's filters draw outside its box.
func (l *Layer) filterOutsets() (top, right, bottom, left LayoutUnit) {
	chain, _ := l.filterChain()
	if !chain.HasOutsets() {
		return 0, 0, 0, 0
	}
	t, r, b, lft := chain.Outsets()
	return Unit(float64(t)), Unit(float64(r)), Unit(float64(b)), Unit(float64(lft))
}

// filterPainter redirects a filtered layer's painting into a recording
// that is rasterized, filtered and drawn back as an image.
type filterPainter struct {
	layer       *Layer
	chain       filter.Chain
	recorder    *recording.Recorder
	sourceRect  LayoutRect
	pixelRect   image.Rectangle
	movesPixels bool
}

// beginFilterPainting returns nil when nothing of the filtered layer
// intersects the dirty rect.
func (l *Layer) beginFilterPainting(info *LayerPaintingInfo, offsetFromRoot LayoutPoint) *filterPainter {
	chain, moves := l.filterChain()
	t, r, b, left := l.filterOutsets()

	box := expandRect(moveRect(l.localBoundingBox(), offsetFromRoot), t, r, b, left)
	// Pixels just outside the dirty rect can bleed into it.
	dirty := expandRect(info.PaintDirtyRect, b, left, t, r)
	src := box.Intersect(dirty)
	if src.Empty() {
		return nil
	}

	f := toFloatRect(src.Add(info.SubpixelOffset))
	px := image.Rect(
		int(math.Floor(f.X)), int(math.Floor(f.Y)),
		int(math.Ceil(f.Right())), int(math.Ceil(f.Bottom())),
	)
	if px.Empty() {
		return nil
	}
	if px.Dx()*px.Dy() > maxFilterPixels {
		Logger().Warn("layertree: filter surface too large, layer not painted",
			"layer", l.id, "width", px.Dx(), "height", px.Dy())
		return nil
	}

	rec := recording.NewRecorder(px.Dx(), px.Dy())
	rec.Translate(-float64(px.Min.X), -float64(px.Min.Y))
	Logger().Debug("layertree: filter offscreen",
		"layer", l.id, "rect", px.String(), "filters", len(chain))

	return &filterPainter{
		layer:       l,
		chain:       chain,
		recorder:    rec,
		sourceRect:  src,
		pixelRect:   px,
		movesPixels: moves,
	}
}

// endFilterPainting rasterizes the recorded content, runs the filter chain
// and draws the result into ctx, clipped to clip.
func (l *Layer) endFilterPainting(ctx graphics.Context, info *LayerPaintingInfo, fp *filterPainter, clip ClipRect) {
	rec := fp.recorder.FinishRecording()
	backend := raster.NewBackend()
	if err := rec.Playback(backend); err != nil {
		Logger().Warn("layertree: filter playback failed", "layer", l.id, "err", err)
		return
	}
	src := backend.Image()
	if src == nil {
		return
	}
	dst := image.NewRGBA(src.Bounds())
	if len(fp.chain) == 0 {
		copy(dst.Pix, src.Pix)
	} else {
		fp.chain.Apply(src, dst, src.Bounds())
	}

	saved := l.clipToRect(ctx, info, clip, false)
	ctx.DrawImage(dst, graphics.FloatRect{
		X: float64(fp.pixelRect.Min.X),
		Y: float64(fp.pixelRect.Min.Y),
		W: float64(fp.pixelRect.Dx()),
		H: float64(fp.pixelRect.Dy()),
	})
	restoreClip(ctx, info, saved, clip)
}
