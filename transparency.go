// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"github.com/gogpu/layertree/graphics"
)

// isTransparent reports whether l must be painted into a transparency
// group: partial opacity, a mask, a blend mode, or isolation of blending
// descendants.
func (l *Layer) isTransparent() bool {
	s := l.renderer.Style()
	if s.HasOpacity() || s.HasMask || s.HasBlendMode() {
		return true
	}
	return l.hasNotIsolatedBlendingDescendant && l.isCSSStackingContext && !l.IsRootLayer()
}

// paintsWithTransparency: composited layers get their opacity from the
// compositor unless the paint flattens.
func (l *Layer) paintsWithTransparency(behavior PaintBehavior) bool {
	if !l.isTransparent() {
		return false
	}
	return behavior&PaintBehaviorFlattenCompositingLayers != 0 || !l.IsComposited()
}

// transparentPaintingAncestor returns the nearest stacking ancestor that
// paints into a transparency group, stopping at composited layers.
func (l *Layer) transparentPaintingAncestor() *Layer {
	if l.IsComposited() {
		return nil
	}
	for cur := l.stackingContext(); cur != nil; cur = cur.stackingContext() {
		if cur.IsComposited() {
			return nil
		}
		if cur.isTransparent() {
			return cur
		}
	}
	return nil
}

// beginTransparencyLayers opens l's group, and first the groups of its
// transparent ancestors, unless they are already open. Groups are opened
// lazily, when the first content that belongs in them is painted.
func (l *Layer) beginTransparencyLayers(ctx graphics.Context, info *LayerPaintingInfo, dirty LayoutRect) {
	transparent := l.paintsWithTransparency(info.PaintBehavior)
	if transparent && l.usedTransparency {
		return
	}
	if a := l.transparentPaintingAncestor(); a != nil {
		a.beginTransparencyLayers(ctx, info, dirty)
	}
	if !transparent {
		return
	}

	l.usedTransparency = true
	ctx.Save()
	extent := l.paintingExtent(info.RootLayer, dirty, info.PaintBehavior).Add(info.SubpixelOffset)
	ctx.ClipRect(l.tree.snapper.SnapRect(extent))

	s := l.renderer.Style()
	ctx.BeginTransparencyLayer(s.Opacity, s.BlendMode)
}

// paintingExtent is the part of the dirty rect l's group must cover, in
// root's coordinates.
func (l *Layer) paintingExtent(root *Layer, dirty LayoutRect, behavior PaintBehavior) LayoutRect {
	return l.transparencyClipBox(root, behavior).Intersect(dirty)
}

// transparencyClipBox returns the area covered by l, its descendants and
// its reflection, grown by filter outsets, in root's coordinates.
func (l *Layer) transparencyClipBox(root *Layer, behavior PaintBehavior) LayoutRect {
	offset := l.OffsetFromAncestor(root)
	if root != l && l.paintsWithTransform(behavior) {
		// Map the local box through the transform; the transformed box is
		// the best bound available.
		local := l.transparencyClipBox(l, behavior)
		m := l.renderableTransform(behavior).TranslateRight(UnitToFloat(offset.X), UnitToFloat(offset.Y))
		return mapRectThrough(m, local)
	}

	box := l.localBoundingBox()
	box = l.expandClipRectForDescendantsAndReflection(box, behavior)
	if t, r, b, left := l.filterOutsets(); t|r|b|left != 0 {
		box = expandRect(box, t, r, b, left)
	}
	return moveRect(box, offset)
}

// expandClipRectForDescendantsAndReflection grows clip, in l's local
// coordinates, by every descendant. A transparent layer is always a
// stacking context, so walking the layer tree covers every z-order
// descendant.
func (l *Layer) expandClipRectForDescendantsAndReflection(clip LayoutRect, behavior PaintBehavior) LayoutRect {
	if !l.renderer.Style().HasMask {
		for c := l.FirstChild(); c != nil; c = c.NextSibling() {
			clip = clip.Union(c.transparencyClipBox(l, behavior))
		}
	}
	if l.reflection != nil {
		clip = clip.Union(l.reflectedRect(clip))
	}
	return clip
}

// reflectedRect mirrors r, in l's local coordinates, the way the
// reflection layer draws it.
func (l *Layer) reflectedRect(r LayoutRect) LayoutRect {
	if l.reflection == nil || l.reflection.transform == nil {
		return r
	}
	return mapRectThrough(*l.reflection.transform, r)
}
