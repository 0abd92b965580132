// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"slices"
)

// ScrollingScope groups layers that scroll together.
type ScrollingScope uint64

// ScrollingScopeSequence hands out scrolling scopes for one document.
type ScrollingScopeSequence struct {
	next ScrollingScope
}

// Next returns a fresh scope. Scopes start at 1.
func (s *ScrollingScopeSequence) Next() ScrollingScope {
	s.next++
	return s.next
}

// Reset restarts the sequence, making scope numbering deterministic.
func (s *ScrollingScopeSequence) Reset() {
	s.next = 0
}

// Tree owns the layers of one document: the layer arena, the root layer and
// the document-wide state the layers share.
//
// A Tree is not safe for concurrent use. All mutation and all traversals run
// on the goroutine that owns the document.
type Tree struct {
	layers       []*Layer
	root         *Layer
	rootRenderer Renderer

	compositor   Compositor
	snapper      PixelSnapper
	assertions   bool
	viewportSize LayoutSize

	scrollingScopes ScrollingScopeSequence

	topLayer           []Renderer
	viewTransitionRoot Renderer

	damage []LayoutRect

	// containsDirtyOverlayScrollbars is set by a paint pass that skipped
	// overlay scrollbars; the root then runs a second pass for them.
	containsDirtyOverlayScrollbars bool
}

// NewTree creates layers for every renderer under root that needs one.
// root is normally a RendererView box and always gets a layer.
func NewTree(root Renderer, opts ...TreeOption) *Tree {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	t := &Tree{
		layers:       []*Layer{nil},
		rootRenderer: root,
		compositor:   o.compositor,
		snapper:      o.snapper,
		assertions:   o.assertions,
		viewportSize: o.viewportSize,
	}
	if t.viewportSize.isEmpty() {
		t.viewportSize = root.Size()
	}
	t.attach(root)
	t.root = root.Layer()
	return t
}

// Root returns the root layer.
func (t *Tree) Root() *Layer { return t.root }

// Layer returns the layer with the given ID, or nil if it was destroyed.
func (t *Tree) Layer(id LayerID) *Layer { return t.lookup(id) }

func (t *Tree) lookup(id LayerID) *Layer {
	if id == 0 || int(id) >= len(t.layers) {
		return nil
	}
	return t.layers[id]
}

// LayerCount returns the number of live layers, reflections included.
func (t *Tree) LayerCount() int {
	n := 0
	for _, l := range t.layers {
		if l != nil {
			n++
		}
	}
	return n
}

// Compositor returns the attached compositor, or nil.
func (t *Tree) Compositor() Compositor { return t.compositor }

// SetCompositor attaches c and marks every layer for a compositing update.
func (t *Tree) SetCompositor(c Compositor) {
	t.compositor = c
	if t.root != nil {
		t.root.SetDescendantsNeedCompositingRequirementsTraversal()
		t.root.SetNeedsCompositingConfigurationUpdate()
	}
}

// AssertionsEnabled reports whether consistency checks panic.
func (t *Tree) AssertionsEnabled() bool { return t.assertions }

// ViewportSize returns the size used for the root clip.
func (t *Tree) ViewportSize() LayoutSize { return t.viewportSize }

// SetViewportSize resizes the viewport and schedules a full position update.
func (t *Tree) SetViewportSize(w, h float64) {
	t.viewportSize = Size(w, h)
	if t.root != nil {
		t.root.clearClipRectsIncludingDescendants()
		t.root.setNeedsPositionUpdate(AllDescendantsNeedPositionUpdate)
	}
}

// ScrollingScopes exposes the document's scope sequence.
func (t *Tree) ScrollingScopes() *ScrollingScopeSequence { return &t.scrollingScopes }

// TakeDamage returns the rectangles invalidated since the last call, in root
// layer coordinates, and clears them.
func (t *Tree) TakeDamage() []LayoutRect {
	d := t.damage
	t.damage = nil
	return d
}

func (t *Tree) addDamage(r LayoutRect) {
	if r.Empty() {
		return
	}
	t.damage = append(t.damage, r)
}

func (t *Tree) requiresLayer(r Renderer) bool {
	if r == t.rootRenderer {
		return true
	}
	s := r.Style()
	switch {
	case r.Kind() == RendererView, r.Kind() == RendererReplica:
		return true
	case s.IsPositioned(), s.CreatesStackingContext():
		return true
	case hasNonVisibleOverflow(r), isSpecialReplaced(r):
		return true
	case r.Kind() == RendererMultiColumnFlow, r.Kind() == RendererTableRow:
		return true
	case s.Resize != ResizeNone, r.Pseudo() == PseudoViewTransitionCapture:
		return true
	}
	return t.isInTopLayer(r) || r == t.viewTransitionRoot
}

// attach creates layers for r and its subtree.
func (t *Tree) attach(r Renderer) {
	if b, ok := r.(*Box); ok {
		b.tree = t
	}
	if r.Layer() == nil && t.requiresLayer(r) {
		t.createLayer(r)
	}
	for c := r.FirstChild(); c != nil; c = c.NextSibling() {
		t.attach(c)
	}
}

func (t *Tree) createLayer(r Renderer) *Layer {
	id := LayerID(len(t.layers))
	l := newLayer(t, id, r)
	t.layers = append(t.layers, l)
	r.SetLayer(l)
	l.insertOnlyThisLayer()
	l.updateReflection()
	l.updateSelfPaintingLayer()
	Logger().Debug("layertree: layer created", "layer", id, "renderer", r.Name())
	return l
}

func (t *Tree) destroyLayer(l *Layer) {
	if l.reflection != nil {
		l.removeReflection()
	}
	if l.Parent() != nil {
		if c := t.compositor; c != nil {
			c.ClearBackingIncludingDescendants(l)
		}
		l.removeOnlyThisLayer()
	}
	l.renderer.SetLayer(nil)
	t.layers[l.id] = nil
	Logger().Debug("layertree: layer destroyed", "layer", l.id, "renderer", l.renderer.Name())
}

// RendererInserted must be called after r was added to the renderer tree.
// It creates layers for the new subtree and links them in renderer order.
func (t *Tree) RendererInserted(r Renderer) {
	t.attach(r)
	if enc := enclosingLayer(r.Parent()); enc != nil {
		enc.dirtyVisibleContentStatus()
	}
}

// RendererWillBeRemoved must be called before r leaves the renderer tree.
// Layers in r's subtree are destroyed.
func (t *Tree) RendererWillBeRemoved(r Renderer) {
	if enc := enclosingLayer(r.Parent()); enc != nil {
		if l := r.Layer(); l != nil && l.Parent() == enc {
			enc.addDamageForLayer(l)
		}
		removeLayers(r, enc)
		// Recomputed lazily, once r is unlinked.
		enc.dirtyVisibleContentStatus()
	}
	t.detach(r)
	t.topLayer = slices.DeleteFunc(t.topLayer, func(x Renderer) bool { return x == r })
}

func (t *Tree) detach(r Renderer) {
	for c := r.FirstChild(); c != nil; c = c.NextSibling() {
		t.detach(c)
	}
	if l := r.Layer(); l != nil {
		if l.reflection != nil {
			l.removeReflection()
		}
		for c := l.FirstChild(); c != nil; c = l.FirstChild() {
			l.removeChild(c)
		}
		l.renderer.SetLayer(nil)
		t.layers[l.id] = nil
	}
	if b, ok := r.(*Box); ok {
		b.tree = nil
	}
}

func (l *Layer) addDamageForLayer(child *Layer) {
	if child.repaintRectsValid {
		l.tree.addDamage(child.repaintRects.ClippedOverflowRect)
	}
}

// AddToTopLayer promotes r to the document's top layer. It paints above
// everything else, after the root's positive z-order list.
func (t *Tree) AddToTopLayer(r Renderer) {
	if t.isInTopLayer(r) {
		return
	}
	t.topLayer = append(t.topLayer, r)
	t.topLayerChanged(r)
}

// RemoveFromTopLayer returns r to normal stacking.
func (t *Tree) RemoveFromTopLayer(r Renderer) {
	n := len(t.topLayer)
	t.topLayer = slices.DeleteFunc(t.topLayer, func(x Renderer) bool { return x == r })
	if len(t.topLayer) != n {
		t.topLayerChanged(r)
	}
}

// TopLayer returns the promoted renderers in promotion order.
func (t *Tree) TopLayer() []Renderer { return slices.Clone(t.topLayer) }

func (t *Tree) isInTopLayer(r Renderer) bool {
	return slices.Contains(t.topLayer, r)
}

func (t *Tree) topLayerChanged(r Renderer) {
	t.RendererStyleChanged(r, StyleDifferenceLayout, r.Style())
	if t.root != nil {
		t.root.dirtyZOrderLists()
		t.root.dirtyNormalFlowList()
	}
}

// SetViewTransitionRoot marks r as the containing block of an active view
// transition, or clears it when r is nil. While set, layers with a
// view-transition-name are treated as captured.
func (t *Tree) SetViewTransitionRoot(r Renderer) {
	old := t.viewTransitionRoot
	t.viewTransitionRoot = r
	if old != nil && old.Parent() != nil {
		t.RendererStyleChanged(old, StyleDifferenceLayout, old.Style())
	}
	if r != nil {
		t.RendererStyleChanged(r, StyleDifferenceLayout, r.Style())
	}
	if t.root != nil {
		t.root.dirtyZOrderLists()
		t.root.dirtyNormalFlowList()
	}
}

// ViewTransitionActive reports whether a view transition root is set.
func (t *Tree) ViewTransitionActive() bool { return t.viewTransitionRoot != nil }

func (l *Layer) isViewTransitionContainingBlock() bool {
	return l.tree.viewTransitionRoot != nil && l.renderer == l.tree.viewTransitionRoot
}

// isViewTransitionCaptured reports whether l is painted through the view
// transition snapshot instead of its normal paint-order parent.
func (l *Layer) isViewTransitionCaptured() bool {
	if l.tree.viewTransitionRoot == nil || l.kind == LayerViewTransitionCapture || l.isViewTransitionContainingBlock() {
		return false
	}
	return l.renderer.Style().ViewTransitionName != ""
}
