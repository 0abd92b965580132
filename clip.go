// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"math"

	"github.com/gogpu/layertree/graphics"
)

// ClipRect is a clip in root layer coordinates. When AffectedByRadius is
// set the rectangle over-approximates the clip and painting must also
// apply the rounded clips of the ancestors that produced it.
type ClipRect struct {
	Rect             LayoutRect
	AffectedByRadius bool
}

// InfiniteClipRect returns the clip that clips nothing.
func InfiniteClipRect() ClipRect {
	return ClipRect{Rect: InfiniteRect()}
}

// IsInfinite reports whether c clips nothing.
func (c ClipRect) IsInfinite() bool { return IsInfiniteRect(c.Rect) }

// IsEmpty reports whether c clips everything.
func (c ClipRect) IsEmpty() bool { return c.Rect.Empty() }

// Intersect returns the clip admitted by both c and o.
func (c ClipRect) Intersect(o ClipRect) ClipRect {
	switch {
	case c.IsInfinite():
		return o
	case o.IsInfinite():
		return c
	}
	return ClipRect{Rect: c.Rect.Intersect(o.Rect), AffectedByRadius: c.AffectedByRadius || o.AffectedByRadius}
}

// IntersectRect clips c to r.
func (c ClipRect) IntersectRect(r LayoutRect) ClipRect {
	return c.Intersect(ClipRect{Rect: r})
}

// Intersects reports whether c admits part of r.
func (c ClipRect) Intersects(r LayoutRect) bool {
	if c.IsInfinite() {
		return !r.Empty()
	}
	return rectsIntersect(c.Rect, r)
}

// Move translates c. The infinite clip stays infinite.
func (c ClipRect) Move(p LayoutPoint) ClipRect {
	c.Rect = moveRect(c.Rect, p)
	return c
}

func (c ClipRect) String() string {
	if c.AffectedByRadius {
		return formatRect(c.Rect) + " (radius)"
	}
	return formatRect(c.Rect)
}

// ClipRects are the three clips handed down to child layers, one per
// positioning scheme: in-flow content is clipped by OverflowClipRect,
// absolutely positioned content by PosClipRect and fixed content by
// FixedClipRect. Fixed is set below a layer that behaves as fixed.
type ClipRects struct {
	OverflowClipRect ClipRect
	FixedClipRect    ClipRect
	PosClipRect      ClipRect
	Fixed            bool
}

func infiniteClipRects() ClipRects {
	return ClipRects{
		OverflowClipRect: InfiniteClipRect(),
		FixedClipRect:    InfiniteClipRect(),
		PosClipRect:      InfiniteClipRect(),
	}
}

// ClipRectsType selects a clip rects computation. Every type except
// TemporaryClipRects is cached per layer.
type ClipRectsType uint8

const (
	// PaintingClipRects are used by the paint traversal.
	PaintingClipRects ClipRectsType = iota
	// RootRelativeClipRects are relative to the tree root and used by hit
	// testing and compositing.
	RootRelativeClipRects
	// AbsoluteClipRects ignore the painting root.
	AbsoluteClipRects
	numCachedClipRectsTypes
	// TemporaryClipRects never read or write a cache. They are used while
	// the meaning of a cached ancestor result would be wrong, as inside
	// reflections, filters and fragmentation.
	TemporaryClipRects ClipRectsType = numCachedClipRectsTypes
)

var clipRectsTypeNames = [...]string{"painting", "root-relative", "absolute", "temporary"}

func (t ClipRectsType) String() string {
	if int(t) < len(clipRectsTypeNames) {
		return clipRectsTypeNames[t]
	}
	return "unknown"
}

// ClipRectsContext selects the coordinate space and cache slot of a clip
// query.
type ClipRectsContext struct {
	// RootLayer is the layer whose coordinate space the clips are in.
	RootLayer *Layer
	Type      ClipRectsType
	// IgnoreOverflowClip leaves out the overflow clip of RootLayer itself.
	IgnoreOverflowClip bool
}

func (c ClipRectsContext) respectOverflowClip() bool { return !c.IgnoreOverflowClip }

type clipRectsCacheEntry struct {
	rects *ClipRects
	// root validates the entry: a different root means recompute.
	root *Layer
}

// clipRectsCache holds one entry per cached type and overflow clip option.
// Entries may share a *ClipRects with the parent's entry; shared values
// are never mutated.
type clipRectsCache struct {
	entries [numCachedClipRectsTypes][2]clipRectsCacheEntry
}

func boolIndex(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (l *Layer) cachedClipRects(ctx ClipRectsContext) *ClipRects {
	if l.clipRectsCache == nil || ctx.Type >= numCachedClipRectsTypes {
		return nil
	}
	e := l.clipRectsCache.entries[ctx.Type][boolIndex(ctx.respectOverflowClip())]
	if e.root != ctx.RootLayer {
		return nil
	}
	return e.rects
}

// updateClipRects fills the cache for ctx from the root down and returns
// the entry for l.
func (l *Layer) updateClipRects(ctx ClipRectsContext) *ClipRects {
	if rects := l.cachedClipRects(ctx); rects != nil {
		return rects
	}
	var parentRects *ClipRects
	if p := l.Parent(); p != nil && l != ctx.RootLayer {
		parentRects = p.updateClipRects(ctx)
	}
	rects := l.calculateClipRects(ctx)
	shared := &rects
	if parentRects != nil && *parentRects == rects {
		shared = parentRects
	}
	if l.clipRectsCache == nil {
		l.clipRectsCache = &clipRectsCache{}
	}
	l.clipRectsCache.entries[ctx.Type][boolIndex(ctx.respectOverflowClip())] = clipRectsCacheEntry{
		rects: shared,
		root:  ctx.RootLayer,
	}
	return shared
}

// ClipRects returns the clips l hands to its child layers.
func (l *Layer) ClipRects(ctx ClipRectsContext) ClipRects {
	if ctx.Type == TemporaryClipRects {
		return l.calculateClipRects(ctx)
	}
	return *l.updateClipRects(ctx)
}

// parentClipRects returns the clips l's parent hands down.
func (l *Layer) parentClipRects(ctx ClipRectsContext) ClipRects {
	p := l.Parent()
	if ctx.Type == TemporaryClipRects {
		return p.calculateClipRects(ctx)
	}
	return *p.updateClipRects(ctx)
}

// calculateClipRects computes the clips l hands to its children, starting
// from the parent's clips and intersecting l's own.
func (l *Layer) calculateClipRects(ctx ClipRectsContext) ClipRects {
	isClippingRoot := l == ctx.RootLayer
	rects := infiniteClipRects()
	if p := l.Parent(); p != nil && !isClippingRoot {
		rects = l.parentClipRects(ctx)
	}

	s := l.renderer.Style()
	switch {
	case l.BehavesAsFixed() || l.isInTopLayer():
		// Fixed content escapes every scrolling ancestor.
		rects.PosClipRect = rects.FixedClipRect
		rects.OverflowClipRect = rects.FixedClipRect
		rects.Fixed = true
	case s.IsInFlowPositioned():
		rects.PosClipRect = rects.OverflowClipRect
	case s.IsOutOfFlowPositioned():
		rects.OverflowClipRect = rects.PosClipRect
	}

	if !isClippingRoot || ctx.respectOverflowClip() {
		offset := l.OffsetFromAncestor(ctx.RootLayer)
		if hasNonVisibleOverflow(l.renderer) {
			clip := ClipRect{
				Rect:             moveRect(l.overflowClipRect(), offset),
				AffectedByRadius: s.HasBorderRadius(),
			}
			rects.OverflowClipRect = clip.Intersect(rects.OverflowClipRect)
			if canContainAbsolutePosition(l.renderer) {
				rects.PosClipRect = clip.Intersect(rects.PosClipRect)
			}
			if canContainFixedPosition(l.renderer) {
				rects.FixedClipRect = clip.Intersect(rects.FixedClipRect)
			}
		}
		if s.HasClip() {
			clip := ClipRect{Rect: moveRect(*s.Clip, offset)}
			rects.PosClipRect = clip.Intersect(rects.PosClipRect)
			rects.OverflowClipRect = clip.Intersect(rects.OverflowClipRect)
			rects.FixedClipRect = clip.Intersect(rects.FixedClipRect)
		}
	}
	return rects
}

// overflowClipRect is the local rectangle l clips its content to. The
// root clips to the viewport.
func (l *Layer) overflowClipRect() LayoutRect {
	if l.IsRootLayer() {
		return rectAt(LayoutPoint{}, l.tree.viewportSize)
	}
	return paddingBoxRect(l.renderer)
}

// backgroundClipRect returns the clip for l's own background: the channel
// of the parent's clips matching l's positioning.
func (l *Layer) backgroundClipRect(ctx ClipRectsContext) ClipRect {
	if l == ctx.RootLayer || l.Parent() == nil {
		return InfiniteClipRect()
	}
	if l.IsReflection() {
		// The replica is clipped where its owner is.
		return l.Parent().backgroundClipRect(ctx)
	}
	parentRects := l.parentClipRects(ctx)
	s := l.renderer.Style()
	switch {
	case s.IsFixedPositioned() || l.isInTopLayer():
		return parentRects.FixedClipRect
	case s.IsAbsolutePositioned():
		return parentRects.PosClipRect
	}
	return parentRects.OverflowClipRect
}

// BackgroundClipRect returns the clip applied to l's background, in the
// coordinate space of ctx.RootLayer.
func (l *Layer) BackgroundClipRect(ctx ClipRectsContext) ClipRect {
	return l.backgroundClipRect(ctx)
}

// LayerRects are the per-layer rectangles the paint and hit-test
// traversals clip with.
type LayerRects struct {
	// Bounds is the border box in root coordinates.
	Bounds LayoutRect
	// Background clips the layer's own background and border.
	Background ClipRect
	// Foreground clips the layer's content and child layers.
	Foreground ClipRect
}

// CalculateRects computes l's clips for a paint or hit test covering
// dirtyRect. offsetFromRoot is l's offset in ctx.RootLayer's space.
func (l *Layer) CalculateRects(ctx ClipRectsContext, dirtyRect LayoutRect, offsetFromRoot LayoutPoint) LayerRects {
	var out LayerRects
	if l != ctx.RootLayer && l.Parent() != nil {
		out.Background = l.backgroundClipRect(ctx).IntersectRect(dirtyRect)
	} else {
		out.Background = ClipRect{Rect: dirtyRect}
	}
	out.Bounds = rectAt(offsetFromRoot, l.size)
	out.Foreground = out.Background

	s := l.renderer.Style()
	overflow := hasNonVisibleOverflow(l.renderer)
	if !overflow && !s.HasClip() {
		return out
	}
	if overflow && (l != ctx.RootLayer || ctx.respectOverflowClip()) {
		out.Foreground = out.Foreground.IntersectRect(moveRect(l.overflowClipRect(), offsetFromRoot))
		if s.HasBorderRadius() {
			out.Foreground.AffectedByRadius = true
		}
	}
	if s.HasClip() {
		clip := moveRect(*s.Clip, offsetFromRoot)
		out.Background = out.Background.IntersectRect(clip)
		out.Foreground = out.Foreground.IntersectRect(clip)
	}
	// Visual overflow such as outsets is not clipped by the layer's own
	// overflow clip.
	out.Background = out.Background.IntersectRect(moveRect(l.localBoundingBox(), offsetFromRoot))
	return out
}

// clearClipRects drops l's cached clips.
func (l *Layer) clearClipRects() {
	l.clipRectsCache = nil
}

// clearClipRectsIncludingDescendants drops cached clips in l's subtree,
// reflection included.
func (l *Layer) clearClipRectsIncludingDescendants() {
	l.clipRectsCache = nil
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		c.clearClipRectsIncludingDescendants()
	}
	if l.reflection != nil {
		l.reflection.clearClipRectsIncludingDescendants()
	}
}

// ClearClipRects drops the cached clips of l and its descendants.
func (l *Layer) ClearClipRects() { l.clearClipRectsIncludingDescendants() }

// containingBlock returns the renderer that positions r.
func containingBlock(r Renderer) Renderer {
	s := r.Style()
	p := r.Parent()
	switch {
	case s.IsFixedPositioned():
		for p != nil && !canContainFixedPosition(p) {
			p = p.Parent()
		}
	case s.IsAbsolutePositioned():
		for p != nil && !canContainAbsolutePosition(p) {
			p = p.Parent()
		}
	}
	return p
}

// ancestorLayerIsInContainingBlockChain reports whether ancestor's renderer
// contains l's renderer through containing blocks rather than only through
// tree nesting.
func (l *Layer) ancestorLayerIsInContainingBlockChain(ancestor *Layer) bool {
	if ancestor == l {
		return true
	}
	for cb := containingBlock(l.renderer); cb != nil; cb = containingBlock(cb) {
		if cb == ancestor.renderer {
			return true
		}
	}
	return false
}

// clipToRect applies clip to ctx, together with the rounded clips of the
// ancestors when the clip was affected by a border radius. It reports
// whether the context state was saved, in which case restoreClip must be
// called.
func (l *Layer) clipToRect(ctx graphics.Context, info *LayerPaintingInfo, clip ClipRect, includeSelf bool) bool {
	needsClipping := !clip.IsInfinite() && clip.Rect != info.PaintDirtyRect
	if !needsClipping && !clip.AffectedByRadius {
		return false
	}
	ctx.Save()
	snapper := l.tree.snapper
	if needsClipping {
		ctx.ClipRect(snapper.SnapRect(clip.Rect.Add(info.SubpixelOffset)))
		info.pushRegionClip(clip.Rect)
	}
	if !clip.AffectedByRadius {
		return true
	}

	start := l.Parent()
	if includeSelf {
		start = l
	}
	for cur := start; cur != nil; cur = cur.Parent() {
		s := cur.renderer.Style()
		if hasNonVisibleOverflow(cur.renderer) && s.HasBorderRadius() && l.ancestorLayerIsInContainingBlockChain(cur) {
			box := rectAt(cur.OffsetFromAncestor(info.RootLayer), cur.size).Add(info.SubpixelOffset)
			ctx.ClipRoundedRect(innerBorderRoundedRect(snapper, box, s))
		}
		if cur == info.RootLayer {
			break
		}
	}
	return true
}

// restoreClip undoes a clipToRect that returned true.
func restoreClip(ctx graphics.Context, info *LayerPaintingInfo, saved bool, clip ClipRect) {
	if !saved {
		return
	}
	if !clip.IsInfinite() && clip.Rect != info.PaintDirtyRect {
		info.popRegionClip()
	}
	ctx.Restore()
}

// innerBorderRoundedRect is the padding box of a border box with the
// style's radius reduced by the border width.
func innerBorderRoundedRect(snapper PixelSnapper, borderBox LayoutRect, s *Style) graphics.RoundedRect {
	bw := Unit(s.BorderWidth)
	r := snapper.SnapRect(inflateRect(borderBox, -bw))
	radius := math.Max(0, s.BorderRadius-s.BorderWidth)
	rr := graphics.RoundedRect{Rect: r}
	for i := range rr.Radii {
		rr.Radii[i] = graphics.FloatSize{W: radius, H: radius}
	}
	return rr
}
