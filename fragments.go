// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"github.com/gogpu/layertree/graphics"
)

// LayerFragment is the part of a layer shown in one column of an enclosing
// multi-column flow. An unfragmented layer has exactly one fragment with a
// zero Translation.
type LayerFragment struct {
	// LayerBounds is the border box in the root layer's flow coordinates.
	LayerBounds LayoutRect
	// Background and Foreground are the clips of the fragment, in the
	// root layer's visual coordinates.
	Background ClipRect
	Foreground ClipRect
	// Translation moves flow coordinates to visual coordinates.
	Translation        LayoutPoint
	ShouldPaintContent bool
}

type layerRectsFunc func(l *Layer, ctx ClipRectsContext, dirty LayoutRect, offsetFromRoot LayoutPoint) LayerRects

// paginationLayerFor returns l's enclosing pagination layer when it lies
// inside ctx's root, so that fragmentation applies to this paint.
func (l *Layer) paginationLayerFor(root *Layer) *Layer {
	pag := l.EnclosingPaginationLayer()
	if pag == nil {
		return nil
	}
	for cur := pag; cur != nil; cur = cur.Parent() {
		if cur == root {
			return pag
		}
	}
	return nil
}

// collectFragments splits l into the fragments that intersect dirty.
func (l *Layer) collectFragments(ctx ClipRectsContext, dirty LayoutRect, offsetFromRoot LayoutPoint) []LayerFragment {
	return l.fragments(ctx, dirty, offsetFromRoot, (*Layer).CalculateRects)
}

// transformedLayerRects clips a transformed layer by its parent only: the
// layer's own box says nothing about where its transformed content lands.
func (l *Layer) transformedLayerRects(ctx ClipRectsContext, dirty LayoutRect, offsetFromRoot LayoutPoint) LayerRects {
	clip := ClipRect{Rect: dirty}
	if l != ctx.RootLayer && l.Parent() != nil {
		clip = l.backgroundClipRect(ctx).IntersectRect(dirty)
	}
	return LayerRects{Bounds: rectAt(offsetFromRoot, l.size), Background: clip, Foreground: clip}
}

func (l *Layer) fragments(ctx ClipRectsContext, dirty LayoutRect, offsetFromRoot LayoutPoint, rects layerRectsFunc) []LayerFragment {
	pag := l.paginationLayerFor(ctx.RootLayer)
	cs, ok := columnsOf(pag)
	if !ok {
		r := rects(l, ctx, dirty, offsetFromRoot)
		return []LayerFragment{{
			LayerBounds:        r.Bounds,
			Background:         r.Background,
			Foreground:         r.Foreground,
			ShouldPaintContent: l.intersectsDamageRect(r.Bounds, r.Background, offsetFromRoot),
		}}
	}

	// The pagination layer's own fragments carry any outer fragmentation.
	pagOffset := pag.OffsetFromAncestor(ctx.RootLayer)
	outer := pag.fragments(ctx, dirty, pagOffset, (*Layer).CalculateRects)

	// Clips between the pagination layer and l, in flow coordinates. The
	// flow is taller than the multicol box, so its overflow clip is left
	// out; columns clip instead.
	flowCtx := ClipRectsContext{RootLayer: pag, Type: TemporaryClipRects, IgnoreOverflowClip: true}
	flow := rects(l, flowCtx, InfiniteRect(), l.OffsetFromAncestor(pag))
	bounds := l.boundingBox(pag)
	layerBounds := rectAt(offsetFromRoot, l.size)

	var out []LayerFragment
	for _, o := range outer {
		if o.Foreground.IsEmpty() {
			continue
		}
		for i := 0; i < cs.Count; i++ {
			portion := cs.FlowPortion(i)
			if !rectsIntersect(portion, bounds) {
				continue
			}
			translation := o.Translation.Add(cs.Translation(i))
			column := ClipRect{Rect: moveRect(portion, pagOffset)}
			toVisual := func(c ClipRect) ClipRect {
				return c.Move(pagOffset).Intersect(column).Move(translation).Intersect(o.Foreground).IntersectRect(dirty)
			}
			bg := toVisual(flow.Background)
			fg := toVisual(flow.Foreground)
			out = append(out, LayerFragment{
				LayerBounds:        layerBounds,
				Background:         bg,
				Foreground:         fg,
				Translation:        translation,
				ShouldPaintContent: !bg.IsEmpty(),
			})
		}
	}
	Logger().Debug("layertree: fragments", "layer", l.id, "pagination", pag.id, "count", len(out))
	return out
}

// columnsOf returns the column geometry of a pagination layer.
func columnsOf(pag *Layer) (ColumnSet, bool) {
	if pag == nil {
		return ColumnSet{}, false
	}
	cs, ok := pag.renderer.Columns()
	if !ok || cs.Count < 1 || cs.Height <= 0 {
		return ColumnSet{}, false
	}
	return cs, true
}

// intersectsDamageRect reports whether the content of l can show inside
// damage. The root always paints, since it paints the canvas background.
func (l *Layer) intersectsDamageRect(layerBounds LayoutRect, damage ClipRect, offsetFromRoot LayoutPoint) bool {
	if damage.IsEmpty() {
		return false
	}
	if l.IsRootLayer() || damage.IsInfinite() {
		return true
	}
	if damage.Intersects(layerBounds) {
		return true
	}
	return damage.Intersects(moveRect(l.localBoundingBox(), offsetFromRoot))
}

// paintTransformedLayerIntoFragments paints a transformed layer once per
// column of its pagination layer, each time clipped to the column.
func (l *Layer) paintTransformedLayerIntoFragments(ctx graphics.Context, info *LayerPaintingInfo, flags PaintLayerFlags) {
	clipCtx := ClipRectsContext{RootLayer: info.RootLayer, Type: clipRectsTypeFor(flags)}
	offset := l.OffsetFromAncestor(info.RootLayer)
	fragments := l.fragments(clipCtx, info.PaintDirtyRect, offset, (*Layer).transformedLayerRects)

	parent := l.Parent()
	for _, f := range fragments {
		if f.Background.IsEmpty() {
			continue
		}
		saved := false
		if parent != nil && !info.unclipped {
			saved = parent.clipToRect(ctx, info, f.Background, false)
		}
		l.paintLayerByApplyingTransform(ctx, info, flags, f.Translation)
		restoreClip(ctx, info, saved, f.Background)
	}
}
