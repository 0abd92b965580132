// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"image/color"

	"github.com/gogpu/layertree/graphics"
)

// Box is a reference Renderer: a rectangle with a style, laid out by its
// owner. It paints backgrounds, borders, a content fill, outlines and
// scrollbars, which is enough to exercise every layer tree traversal.
//
// Mutations go through the methods below, which keep the owning Tree's
// layers in sync.
type Box struct {
	kind   RendererKind
	pseudo PseudoElement
	name   string
	style  *Style

	parent, firstChild, lastChild *Box
	prev, next                    *Box

	layer *Layer
	tree  *Tree

	location LayoutPoint
	size     LayoutSize
	overflow *LayoutRect
	scroll   LayoutPoint

	// replicaOf is set on the box that paints a reflection.
	replicaOf *Layer
}

// NewBox returns a detached box. A nil style means the initial style.
func NewBox(kind RendererKind, name string, s *Style) *Box {
	if s == nil {
		s = NewStyle()
	}
	return &Box{kind: kind, name: name, style: s}
}

func (b *Box) Kind() RendererKind    { return b.kind }
func (b *Box) Pseudo() PseudoElement { return b.pseudo }
func (b *Box) Style() *Style         { return b.style }
func (b *Box) Name() string          { return b.name }
func (b *Box) Layer() *Layer         { return b.layer }
func (b *Box) SetLayer(l *Layer)     { b.layer = l }
func (b *Box) Size() LayoutSize      { return b.size }

// SetPseudo marks b as generated content. Call it before inserting b.
func (b *Box) SetPseudo(p PseudoElement) { b.pseudo = p }

// Parent returns the parent box. A replica's parent is its owner.
func (b *Box) Parent() Renderer {
	if b.replicaOf != nil {
		return b.replicaOf.renderer
	}
	if b.parent == nil {
		return nil
	}
	return b.parent
}

func (b *Box) FirstChild() Renderer {
	if b.firstChild == nil {
		return nil
	}
	return b.firstChild
}

func (b *Box) NextSibling() Renderer {
	if b.next == nil {
		return nil
	}
	return b.next
}

// ParentBox, FirstChildBox and NextSiblingBox walk the box tree without
// going through the Renderer interface.
func (b *Box) ParentBox() *Box      { return b.parent }
func (b *Box) FirstChildBox() *Box  { return b.firstChild }
func (b *Box) NextSiblingBox() *Box { return b.next }

// Location includes the relative or sticky offset of in-flow positioned
// boxes.
func (b *Box) Location() LayoutPoint {
	if b.style.IsInFlowPositioned() {
		return b.location.Add(b.style.Offset)
	}
	return b.location
}

// VisualOverflowRect is the border box united with any overflow set by
// SetVisualOverflow.
func (b *Box) VisualOverflowRect() LayoutRect {
	r := borderBoxRect(b)
	if b.overflow != nil {
		r = r.Union(*b.overflow)
	}
	return r
}

func (b *Box) ScrollPosition() LayoutPoint { return b.scroll }

// Columns splits a multi-column flow box into style.ColumnCount columns of
// equal width, each as tall as the box.
func (b *Box) Columns() (ColumnSet, bool) {
	n := b.style.ColumnCount
	if b.kind != RendererMultiColumnFlow || n < 1 {
		return ColumnSet{}, false
	}
	gap := Unit(b.style.ColumnGap)
	width := (b.size.W - gap*LayoutUnit(n-1)) / LayoutUnit(n)
	if width <= 0 {
		return ColumnSet{}, false
	}
	return ColumnSet{Count: n, Width: width, Gap: gap, Height: b.size.H}, true
}

// AppendChild adds c as the last child of b.
func (b *Box) AppendChild(c *Box) {
	b.InsertChildBefore(c, nil)
}

// InsertChildBefore inserts c before the child before, or last when before
// is nil. c must be detached.
func (b *Box) InsertChildBefore(c, before *Box) {
	c.parent = b
	if before == nil {
		c.prev = b.lastChild
		if b.lastChild != nil {
			b.lastChild.next = c
		} else {
			b.firstChild = c
		}
		b.lastChild = c
	} else {
		c.prev = before.prev
		c.next = before
		if before.prev != nil {
			before.prev.next = c
		} else {
			b.firstChild = c
		}
		before.prev = c
	}
	if b.tree != nil {
		b.tree.RendererInserted(c)
		b.invalidateLayout()
	}
}

// RemoveChild detaches c, destroying the layers of its subtree.
func (b *Box) RemoveChild(c *Box) {
	if c.parent != b {
		return
	}
	if b.tree != nil {
		b.tree.RendererWillBeRemoved(c)
	}
	if c.prev != nil {
		c.prev.next = c.next
	} else {
		b.firstChild = c.next
	}
	if c.next != nil {
		c.next.prev = c.prev
	} else {
		b.lastChild = c.prev
	}
	c.parent, c.prev, c.next = nil, nil, nil
	if b.tree != nil {
		b.invalidateLayout()
	}
}

// SetStyle replaces the style and lets the tree react to the difference.
func (b *Box) SetStyle(s *Style) {
	old := b.style
	b.style = s
	if b.tree == nil {
		return
	}
	if diff := old.Diff(s); diff != StyleDifferenceEqual {
		b.tree.RendererStyleChanged(b, diff, old)
	}
}

// SetFrame sets the location, relative to the parent box, and the size.
func (b *Box) SetFrame(loc LayoutPoint, size LayoutSize) {
	if b.location == loc && b.size == size {
		return
	}
	b.location = loc
	b.size = size
	b.invalidateLayout()
}

// SetScrollPosition scrolls the content of an overflow box.
func (b *Box) SetScrollPosition(p LayoutPoint) {
	if b.scroll == p {
		return
	}
	b.scroll = p
	if b.layer != nil {
		b.layer.clearClipRectsIncludingDescendants()
		b.layer.setNeedsPositionUpdate(AllChildrenNeedPositionUpdate)
	}
}

// SetVisualOverflow records overflow, in local coordinates, beyond the
// border box.
func (b *Box) SetVisualOverflow(r LayoutRect) {
	b.overflow = &r
	if l := enclosingLayer(b); l != nil {
		l.setNeedsPositionUpdate(NeedsPositionUpdate)
	}
}

// invalidateLayout marks the layers whose geometry depends on b.
func (b *Box) invalidateLayout() {
	if b.layer != nil {
		b.layer.clearClipRectsIncludingDescendants()
		b.layer.setNeedsPositionUpdate(NeedsPositionUpdate | AllChildrenNeedPositionUpdate)
	}
	if p := b.Parent(); p != nil {
		if l := enclosingLayer(p); l != nil {
			l.clearClipRectsIncludingDescendants()
			l.setNeedsPositionUpdate(NeedsPositionUpdate | AllChildrenNeedPositionUpdate)
		}
	}
}

var (
	scrollbarTrackColor = color.RGBA{R: 0xd9, G: 0xd9, B: 0xd9, A: 0xff}
	resizerColor        = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

func snapRect(pi *PaintInfo, r LayoutRect) graphics.FloatRect {
	if pi.Snapper == nil {
		return toFloatRect(r)
	}
	return pi.Snapper.SnapRect(r)
}

// Paint paints one phase of b and of the descendants that do not paint
// themselves through a layer.
func (b *Box) Paint(pi *PaintInfo, paintOffset LayoutPoint) {
	origin := paintOffset.Add(b.Location())
	if b.replicaOf != nil {
		if pi.Phase == PaintPhaseForeground && pi.Regions == nil {
			b.paintReplica(pi, origin)
		}
		return
	}

	self := pi.ShouldPaintWithinRoot(b) && b.style.IsVisible()
	switch pi.Phase {
	case PaintPhaseBlockBackground:
		if self {
			b.paintBoxDecorations(pi, origin)
		}
	case PaintPhaseChildBlockBackground:
		if self {
			b.paintBoxDecorations(pi, origin)
		}
		b.paintChildren(pi, paintOffset, origin, PaintPhaseChildBlockBackground)
	case PaintPhaseChildBlockBackgrounds:
		b.paintChildren(pi, paintOffset, origin, PaintPhaseChildBlockBackground)
	case PaintPhaseFloat:
		b.paintChildren(pi, paintOffset, origin, PaintPhaseFloat)
	case PaintPhaseForeground:
		if self && b.style.Color.A > 0 {
			pi.Context.FillRect(snapRect(pi, paddingBoxRect(b).Add(origin)), b.style.Color)
		}
		b.paintChildren(pi, paintOffset, origin, PaintPhaseForeground)
	case PaintPhaseOutline:
		if self {
			b.paintOutline(pi, origin)
		}
		b.paintChildren(pi, paintOffset, origin, PaintPhaseOutline)
	case PaintPhaseSelfOutline:
		if self {
			b.paintOutline(pi, origin)
		}
	case PaintPhaseChildOutlines:
		b.paintChildren(pi, paintOffset, origin, PaintPhaseOutline)
	case PaintPhaseEventRegion, PaintPhaseAccessibility:
		if pi.Regions != nil && pi.ShouldPaintWithinRoot(b) &&
			(b.style.IsVisible() || pi.Phase == PaintPhaseAccessibility) {
			pi.Regions.Add(b, toFloatRect(rectAt(origin, b.size)))
		}
		b.paintChildren(pi, paintOffset, origin, pi.Phase)
	}
}

// paintFloat paints a float child completely, as floats paint atomically
// in their own phase.
func (b *Box) paintFloat(pi *PaintInfo, paintOffset LayoutPoint) {
	phase := pi.Phase
	for _, p := range []PaintPhase{PaintPhaseBlockBackground, PaintPhaseChildBlockBackgrounds,
		PaintPhaseFloat, PaintPhaseForeground, PaintPhaseOutline} {
		pi.Phase = p
		b.Paint(pi, paintOffset)
	}
	pi.Phase = phase
}

func (b *Box) childrenOrigin(paintOffset, origin LayoutPoint) LayoutPoint {
	if b.kind == RendererTableRow {
		// Cells are positioned in the row's parent.
		return paintOffset
	}
	if hasNonVisibleOverflow(b) {
		return origin.Sub(b.scroll)
	}
	return origin
}

// paintChildren paints the children of b with phase. A multi-column flow
// paints its children once per column, clipped and translated.
func (b *Box) paintChildren(pi *PaintInfo, paintOffset, origin LayoutPoint, phase PaintPhase) {
	if b.firstChild == nil {
		return
	}
	childOrigin := b.childrenOrigin(paintOffset, origin)
	cs, ok := b.Columns()
	if !ok || cs.Count < 2 {
		b.paintChildList(pi, childOrigin, phase)
		return
	}

	saved := *pi
	for i := 0; i < cs.Count; i++ {
		column := cs.ColumnRect(i).Add(origin)
		if !rectsIntersect(column, pi.Rect) {
			continue
		}
		t := cs.Translation(i)
		tx, ty := UnitToFloat(t.X), UnitToFloat(t.Y)

		pi.Context.Save()
		pi.Context.ClipRect(snapRect(pi, column))
		pi.Context.Translate(tx, ty)
		if pi.Regions != nil {
			pi.Regions.PushClip(toFloatRect(column))
			pi.Regions.PushTransform(graphics.Translate(tx, ty))
		}
		pi.Rect = moveRect(column.Intersect(saved.Rect), LayoutPoint{X: -t.X, Y: -t.Y})
		b.paintChildList(pi, childOrigin, phase)
		*pi = saved
		if pi.Regions != nil {
			pi.Regions.PopTransform()
			pi.Regions.PopClip()
		}
		pi.Context.Restore()
	}
}

func (b *Box) paintChildList(pi *PaintInfo, childOrigin LayoutPoint, phase PaintPhase) {
	saved := pi.Phase
	for c := b.firstChild; c != nil; c = c.next {
		if c.layer != nil && c.layer.isSelfPaintingLayer {
			continue
		}
		switch {
		case c.style.Float && phase == PaintPhaseFloat:
			c.paintFloat(pi, childOrigin)
			continue
		case c.style.Float:
			continue
		}
		pi.Phase = phase
		c.Paint(pi, childOrigin)
	}
	pi.Phase = saved
}

func (b *Box) paintBoxDecorations(pi *PaintInfo, origin LayoutPoint) {
	s := b.style
	box := rectAt(origin, b.size)
	if s.BackgroundColor.A > 0 {
		pi.Context.FillRect(snapRect(pi, box), s.BackgroundColor)
	}
	if s.BorderWidth > 0 && s.BorderColor.A > 0 {
		half := Unit(s.BorderWidth / 2)
		pi.Context.StrokeRect(snapRect(pi, inflateRect(box, -half)), s.BorderColor, s.BorderWidth)
	}
	if !s.OverlayScrollbars {
		b.PaintOverflowControls(pi, origin.Sub(b.Location()))
	}
}

func (b *Box) paintOutline(pi *PaintInfo, origin LayoutPoint) {
	s := b.style
	if s.OutlineWidth <= 0 || s.OutlineColor.A == 0 {
		return
	}
	half := Unit(s.OutlineWidth / 2)
	pi.Context.StrokeRect(snapRect(pi, inflateRect(rectAt(origin, b.size), half)), s.OutlineColor, s.OutlineWidth)
}

// PaintOverflowControls paints the scrollbar tracks and the resizer.
func (b *Box) PaintOverflowControls(pi *PaintInfo, paintOffset LayoutPoint) {
	if !b.style.IsVisible() {
		return
	}
	origin := paintOffset.Add(b.Location())
	vertical, horizontal, resizer := overflowControlRects(b)
	for _, r := range []LayoutRect{vertical, horizontal} {
		if !r.Empty() {
			pi.Context.FillRect(snapRect(pi, r.Add(origin)), scrollbarTrackColor)
		}
	}
	if !resizer.Empty() {
		pi.Context.FillRect(snapRect(pi, resizer.Add(origin)), resizerColor)
	}
}

// HitTest tests b and, unless filter is HitTestSelf, its descendants that
// are not hit tested through a layer. Later children are in front.
func (b *Box) HitTest(request HitTestRequest, result *HitTestResult, location HitTestLocation, accumulatedOffset LayoutPoint, filter HitTestFilter) bool {
	if b.replicaOf != nil {
		return false
	}
	origin := accumulatedOffset.Add(b.Location())

	if filter != HitTestSelf && b.lastChild != nil {
		childOrigin := b.childrenOrigin(accumulatedOffset, origin)
		if cs, ok := b.Columns(); ok && cs.Count > 1 {
			for i := cs.Count - 1; i >= 0; i-- {
				if !location.Intersects(cs.ColumnRect(i).Add(origin)) {
					continue
				}
				if b.hitTestChildren(request, result, location.move(cs.Translation(i)), childOrigin) {
					return true
				}
			}
		} else if b.hitTestChildren(request, result, location, childOrigin) {
			return true
		}
	}

	if filter == HitTestDescendants || !b.style.IsVisible() || b.style.PointerEvents == PointerEventsNone {
		return false
	}
	if !location.Intersects(rectAt(origin, b.size)) {
		return false
	}
	if request.ResultIsList() {
		if result.Renderer == nil {
			result.SetRenderer(b, location.Point().Sub(origin))
		}
		result.AddRenderer(b)
		return false
	}
	result.SetRenderer(b, location.Point().Sub(origin))
	return true
}

func (b *Box) hitTestChildren(request HitTestRequest, result *HitTestResult, location HitTestLocation, childOrigin LayoutPoint) bool {
	for c := b.lastChild; c != nil; c = c.prev {
		if c.layer != nil && c.layer.isSelfPaintingLayer {
			continue
		}
		if c.HitTest(request, result, location, childOrigin, HitTestAll) {
			return true
		}
	}
	return false
}

var _ Renderer = (*Box)(nil)
