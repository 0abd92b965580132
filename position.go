// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"errors"
	"fmt"
)

// LayerPositionUpdates records which parts of a subtree need their geometry
// recomputed by the next position update.
type LayerPositionUpdates uint8

const (
	// NeedsPositionUpdate marks the layer itself.
	NeedsPositionUpdate LayerPositionUpdates = 1 << iota
	// DescendantNeedsPositionUpdate is the summary bit: some layer below
	// this one is marked. It is propagated to ancestors.
	DescendantNeedsPositionUpdate
	// AllChildrenNeedPositionUpdate forces every child to update.
	AllChildrenNeedPositionUpdate
	// AllDescendantsNeedPositionUpdate forces the whole subtree to update.
	AllDescendantsNeedPositionUpdate
)

// setNeedsPositionUpdate marks l and sets the summary bit on its
// ancestors. Propagation stops at the first ancestor that already has the
// summary bit, because everything above it has it too.
func (l *Layer) setNeedsPositionUpdate(flags LayerPositionUpdates) {
	l.positionUpdates |= flags
	for p := l.Parent(); p != nil; p = p.Parent() {
		if p.positionUpdates&DescendantNeedsPositionUpdate != 0 {
			break
		}
		p.positionUpdates |= DescendantNeedsPositionUpdate
	}
}

// SetNeedsPositionUpdate schedules l, and with AllDescendantsNeedPositionUpdate
// its subtree, for the next position update.
func (l *Layer) SetNeedsPositionUpdate(flags LayerPositionUpdates) {
	l.setNeedsPositionUpdate(flags)
}

// PositionUpdates returns the pending update bits of l.
func (l *Layer) PositionUpdates() LayerPositionUpdates { return l.positionUpdates }

// ancestorState summarizes properties of a layer's ancestors that change
// how the layer is positioned, clipped or composited.
type ancestorState struct {
	hasFixedAncestor               bool
	hasFixedContainingAncestor     bool
	hasTransformedAncestor         bool
	has3DTransformedAncestor       bool
	hasStickyAncestor              bool
	hasPaginatedAncestor           bool
	hasCompositedScrollingAncestor bool
}

// stateForChildren returns the state l's children inherit.
func (l *Layer) stateForChildren() ancestorState {
	s := l.ancestorState
	style := l.renderer.Style()
	s.hasFixedAncestor = s.hasFixedAncestor || l.BehavesAsFixed()
	if !l.IsRootLayer() && canContainFixedPosition(l.renderer) {
		s.hasFixedContainingAncestor = true
	}
	s.hasTransformedAncestor = s.hasTransformedAncestor || l.transform != nil
	s.has3DTransformedAncestor = s.has3DTransformedAncestor || l.has3DTransform()
	s.hasStickyAncestor = s.hasStickyAncestor || style.Position == PositionSticky
	s.hasPaginatedAncestor = s.hasPaginatedAncestor || l.isPaginationRoot()
	s.hasCompositedScrollingAncestor = s.hasCompositedScrollingAncestor || l.UsesCompositedScrolling()
	return s
}

func (s ancestorState) String() string {
	flag := func(b bool, c byte) byte {
		if b {
			return c
		}
		return '-'
	}
	return string([]byte{
		flag(s.hasFixedAncestor, 'F'),
		flag(s.hasFixedContainingAncestor, 'C'),
		flag(s.hasTransformedAncestor, 'T'),
		flag(s.has3DTransformedAncestor, '3'),
		flag(s.hasStickyAncestor, 'S'),
		flag(s.hasPaginatedAncestor, 'P'),
		flag(s.hasCompositedScrollingAncestor, 'O'),
	})
}

// HasFixedAncestor reports whether some ancestor layer behaves as fixed.
func (l *Layer) HasFixedAncestor() bool { return l.ancestorState.hasFixedAncestor }

// HasTransformedAncestor reports whether some ancestor layer is transformed.
func (l *Layer) HasTransformedAncestor() bool { return l.ancestorState.hasTransformedAncestor }

func (l *Layer) Has3DTransformedAncestor() bool { return l.ancestorState.has3DTransformedAncestor }
func (l *Layer) HasStickyAncestor() bool        { return l.ancestorState.hasStickyAncestor }
func (l *Layer) HasPaginatedAncestor() bool     { return l.ancestorState.hasPaginatedAncestor }

func (l *Layer) HasCompositedScrollingAncestor() bool {
	return l.ancestorState.hasCompositedScrollingAncestor
}

// RepaintRects are the areas a layer covers in root layer coordinates.
type RepaintRects struct {
	ClippedOverflowRect LayoutRect
	OutlineBoundsRect   LayoutRect
}

// RepaintRects returns the rects computed by the last position update.
// ok is false before the first update or after a reparent.
func (l *Layer) RepaintRects() (r RepaintRects, ok bool) {
	return l.repaintRects, l.repaintRectsValid
}

// ScrollingScopes returns the scope l's box scrolls with and the scope its
// contents scroll with. They differ only for scrollable layers.
func (l *Layer) ScrollingScopes() (box, contents ScrollingScope) {
	return l.boxScrollingScope, l.contentsScrollingScope
}

// EnclosingPaginationLayer returns the multi-column layer whose flow l is
// fragmented by, or nil.
func (l *Layer) EnclosingPaginationLayer() *Layer {
	return l.tree.lookup(l.enclosingPagination)
}

type positionUpdateMode uint8

const (
	positionUpdateWrite positionUpdateMode = iota
	positionUpdateVerify
)

// ConsistencyError describes a cached layer value that differs from the
// value a full recomputation produces.
type ConsistencyError struct {
	Layer      LayerID
	Name       string
	Field      string
	Cached     string
	Recomputed string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("layertree: layer %d (%s): stale %s: cached %s, recomputed %s",
		e.Layer, e.Name, e.Field, e.Cached, e.Recomputed)
}

// positionUpdater carries the state of one traversal.
type positionUpdater struct {
	mode           positionUpdateMode
	didFullRepaint bool
	errs           []error
	visited        int
}

func (u *positionUpdater) mismatch(l *Layer, field string, cached, recomputed any) {
	u.errs = append(u.errs, &ConsistencyError{
		Layer:      l.id,
		Name:       l.renderer.Name(),
		Field:      field,
		Cached:     fmt.Sprint(cached),
		Recomputed: fmt.Sprint(recomputed),
	})
}

// UpdateLayerPositionsAfterLayout recomputes layer geometry after a layout
// pass. Only dirty subtrees are visited unless environmentChanged, which
// forces every layer. Repaint rect changes are added to the tree's damage
// unless the caller already repainted everything.
func (t *Tree) UpdateLayerPositionsAfterLayout(didFullRepaint, environmentChanged bool) {
	if environmentChanged {
		t.root.positionUpdates |= NeedsPositionUpdate | AllDescendantsNeedPositionUpdate
	}
	t.updateLayerPositions(didFullRepaint)
}

// UpdateLayerPositionsAfterStyleChange applies geometry changes caused by
// style changes that did not need layout.
func (t *Tree) UpdateLayerPositionsAfterStyleChange() {
	t.updateLayerPositions(false)
}

// UpdateLayerPositionsAfterScroll moves layers after scroll offsets changed.
func (t *Tree) UpdateLayerPositionsAfterScroll() {
	t.updateLayerPositions(false)
}

func (t *Tree) updateLayerPositions(didFullRepaint bool) {
	u := &positionUpdater{mode: positionUpdateWrite, didFullRepaint: didFullRepaint}
	t.root.recursiveUpdateLayerPositions(u, false, false)
	Logger().Debug("layertree: layer positions updated", "visited", u.visited)
	if t.assertions {
		if err := t.VerifyLayerPositions(); err != nil {
			panic(err)
		}
	}
}

// VerifyLayerPositions recomputes the geometry of every layer without
// writing it and reports each cached value that is stale. A stale value
// means some change did not mark the layer for a position update.
func (t *Tree) VerifyLayerPositions() error {
	u := &positionUpdater{mode: positionUpdateVerify}
	t.root.recursiveUpdateLayerPositions(u, true, true)
	if len(u.errs) == 0 {
		return nil
	}
	Logger().Warn("layertree: stale layer positions", "count", len(u.errs))
	return errors.Join(u.errs...)
}

// recursiveUpdateLayerPositions is shared by both modes. In write mode it
// skips clean subtrees; in verify mode it visits everything and compares.
func (l *Layer) recursiveUpdateLayerPositions(u *positionUpdater, forceSelf, forceSubtree bool) {
	u.visited++
	state := ancestorState{}
	if p := l.Parent(); p != nil {
		state = p.childAncestorState
	}

	stateChanged := state != l.ancestorState
	needsSelf := forceSelf || forceSubtree || stateChanged || l.positionUpdates&NeedsPositionUpdate != 0
	geometryChanged := false

	if u.mode == positionUpdateWrite {
		if needsSelf {
			geometryChanged = l.writePosition(u, state)
		}
	} else {
		l.verifyPosition(u, state)
	}

	childState := l.stateForChildren()
	if u.mode == positionUpdateWrite {
		if childState != l.childAncestorState {
			l.childAncestorState = childState
			geometryChanged = true
		}
	} else if childState != l.childAncestorState {
		u.mismatch(l, "child ancestor state", l.childAncestorState, childState)
	}

	subtree := forceSubtree || geometryChanged || l.positionUpdates&AllDescendantsNeedPositionUpdate != 0
	children := subtree || l.positionUpdates&AllChildrenNeedPositionUpdate != 0
	descendantDirty := l.positionUpdates&DescendantNeedsPositionUpdate != 0
	if u.mode == positionUpdateWrite {
		l.positionUpdates = 0
	}

	if children || descendantDirty || u.mode == positionUpdateVerify {
		for c := l.FirstChild(); c != nil; c = c.NextSibling() {
			c.recursiveUpdateLayerPositions(u, children, subtree)
		}
	}
	if l.reflection != nil {
		if u.mode == positionUpdateWrite && needsSelf {
			l.updateReflectionStyle()
		}
		l.reflection.recursiveUpdateLayerPositions(u, needsSelf, subtree)
	}
}

// writePosition recomputes l's geometry and reports whether anything its
// descendants depend on changed.
func (l *Layer) writePosition(u *positionUpdater, state ancestorState) bool {
	l.ancestorState = state
	l.clearClipRects()

	oldLocation, oldSize := l.location, l.size
	oldTransform := l.transform
	oldPagination := l.enclosingPagination

	l.location = l.computeLocation()
	l.size = l.renderer.Size()
	l.updateTransform()
	l.enclosingPagination = l.computeEnclosingPagination()
	l.updateScrollingScopes()

	changed := oldLocation != l.location || oldSize != l.size ||
		oldPagination != l.enclosingPagination || !equalPtr(oldTransform, l.transform)
	if changed {
		l.SetNeedsCompositingGeometryUpdate()
	}

	rects := l.computeRepaintRects()
	if l.repaintRectsValid && rects != l.repaintRects {
		if !u.didFullRepaint {
			l.tree.addDamage(l.repaintRects.ClippedOverflowRect)
			l.tree.addDamage(rects.ClippedOverflowRect)
		}
		if o, ok := l.renderer.(RepaintObserver); ok {
			o.RepaintRectsChanged(l.repaintRects, rects)
		}
	} else if !l.repaintRectsValid && !u.didFullRepaint {
		l.tree.addDamage(rects.ClippedOverflowRect)
	}
	l.repaintRects = rects
	l.repaintRectsValid = true
	return changed
}

func (l *Layer) verifyPosition(u *positionUpdater, state ancestorState) {
	if state != l.ancestorState {
		u.mismatch(l, "ancestor state", l.ancestorState, state)
		// Everything below depends on the state; comparing further only
		// repeats the same error.
		return
	}
	if loc := l.computeLocation(); loc != l.location {
		u.mismatch(l, "location", formatPoint(l.location), formatPoint(loc))
	}
	if size := l.renderer.Size(); size != l.size {
		u.mismatch(l, "size", formatSize(l.size), formatSize(size))
	}
	if p := l.computeEnclosingPagination(); p != l.enclosingPagination {
		u.mismatch(l, "enclosing pagination layer", l.enclosingPagination, p)
	}
	if s := l.renderer.Style(); s.HasTransform() != (l.transform != nil) {
		u.mismatch(l, "transform", l.transform != nil, s.HasTransform())
	} else if l.transform != nil {
		m := styleTransform(s, l.renderer.Size())
		if c := l.tree.compositor; c != nil && !c.CanRender3DTransforms() {
			m = m.MakeAffine()
		}
		if m != *l.transform {
			u.mismatch(l, "transform", *l.transform, m)
		}
	}
	if box, ok := l.expectedBoxScrollingScope(); ok && box != l.boxScrollingScope {
		u.mismatch(l, "box scrolling scope", l.boxScrollingScope, box)
	}
	if l.isScrollable() == (l.contentsScrollingScope == l.boxScrollingScope) {
		u.mismatch(l, "contents scrolling scope", l.contentsScrollingScope, l.boxScrollingScope)
	}
	if l.repaintRectsValid {
		if rects := l.computeRepaintRects(); rects != l.repaintRects {
			u.mismatch(l, "repaint rects", formatRect(l.repaintRects.ClippedOverflowRect),
				formatRect(rects.ClippedOverflowRect))
		}
	}
	if l.positionUpdates&NeedsPositionUpdate != 0 {
		u.mismatch(l, "position update flags", l.positionUpdates, LayerPositionUpdates(0))
	}
}

// computeLocation places l in its parent layer's coordinate space.
func (l *Layer) computeLocation() LayoutPoint {
	parent := l.Parent()
	if parent == nil || l.IsReflection() {
		return LayoutPoint{}
	}
	r := l.renderer
	if l.BehavesAsFixed() {
		// Fixed layers are placed in the viewport, which is the root space.
		return r.Location().Sub(parent.OffsetFromAncestor(nil))
	}

	loc := r.Location()
	cur := r.Parent()
	for cur != nil && cur.Layer() == nil {
		// Rows and cells share the coordinate space of the row's parent.
		if cur.Kind() != RendererTableRow {
			loc = loc.Add(cur.Location())
		}
		cur = cur.Parent()
	}
	if cur != nil && cur.Kind() == RendererTableRow && r.Kind() == RendererTableCell {
		loc = loc.Sub(cur.Location())
	}
	if hasNonVisibleOverflow(parent.renderer) {
		loc = loc.Sub(parent.renderer.ScrollPosition())
	}
	return loc
}

// isPaginationRoot reports whether l's renderer fragments its content into
// columns.
func (l *Layer) isPaginationRoot() bool {
	cs, ok := l.renderer.Columns()
	return ok && cs.Count > 1
}

func (l *Layer) computeEnclosingPagination() LayerID {
	p := l.Parent()
	if p == nil || l.IsReflection() || l.BehavesAsFixed() {
		return 0
	}
	if p.isPaginationRoot() {
		return p.id
	}
	if p.transform != nil {
		// A transform establishes its own coordinate space; fragmenting
		// through it is not supported.
		return 0
	}
	return p.enclosingPagination
}

func (l *Layer) isScrollable() bool {
	return l.IsRootLayer() || l.renderer.Style().HasScrollableOverflow()
}

// expectedBoxScrollingScope derives the box scope from the parent. ok is
// false for the root, whose scope is allocated once.
func (l *Layer) expectedBoxScrollingScope() (ScrollingScope, bool) {
	p := l.Parent()
	if p == nil {
		return 0, false
	}
	if l.BehavesAsFixed() {
		return l.tree.root.boxScrollingScope, true
	}
	return p.contentsScrollingScope, true
}

func (l *Layer) updateScrollingScopes() {
	if box, ok := l.expectedBoxScrollingScope(); ok {
		l.boxScrollingScope = box
	} else if l.boxScrollingScope == 0 {
		l.boxScrollingScope = l.tree.scrollingScopes.Next()
	}
	switch {
	case !l.isScrollable():
		l.contentsScrollingScope = l.boxScrollingScope
	case l.contentsScrollingScope == 0 || l.contentsScrollingScope == l.boxScrollingScope:
		l.contentsScrollingScope = l.tree.scrollingScopes.Next()
	}
}

// computeRepaintRects maps l's visual overflow and outline into root
// coordinates, clipped by the ancestors' clips when no transform is in the
// way.
func (l *Layer) computeRepaintRects() RepaintRects {
	overflow := l.mapRectToRoot(l.localBoundingBox())
	outline := borderBoxRect(l.renderer)
	if w := l.renderer.Style().OutlineWidth; w > 0 {
		outline = inflateRect(outline, Unit(w))
	}
	outline = l.mapRectToRoot(outline)

	if l.Parent() != nil && !l.ancestorState.hasTransformedAncestor && !l.IsReflection() {
		clip := l.backgroundClipRect(ClipRectsContext{
			RootLayer: l.tree.root,
			Type:      TemporaryClipRects,
		})
		if !clip.IsInfinite() {
			overflow = overflow.Intersect(clip.Rect)
		}
	}
	return RepaintRects{ClippedOverflowRect: overflow, OutlineBoundsRect: outline}
}

// mapRectToRoot maps r from l's local space to the root, through every
// transform on the way.
func (l *Layer) mapRectToRoot(r LayoutRect) LayoutRect {
	for cur := l; cur != nil; cur = cur.Parent() {
		if cur.transform != nil {
			r = mapRectThrough(*cur.transform, r)
		}
		r = moveRect(r, cur.location)
	}
	return r
}
