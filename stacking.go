// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"fmt"
	"slices"
)

func (l *Layer) shouldBeCSSStackingContext() bool {
	if l.IsRootLayer() || l.kind == LayerReflection || l.kind == LayerViewTransitionCapture {
		return true
	}
	if l.isInTopLayer() || l.isViewTransitionContainingBlock() {
		return true
	}
	return l.renderer.Style().CreatesStackingContext()
}

// shouldBeNormalFlowOnly: a layer paints in document order with its
// siblings unless it establishes a stacking context, clips overflow, is
// special replaced content or roots a fragmentation context. Positioned
// boxes with z-index: auto are normal flow only, so their negative z-index
// descendants stack in the enclosing stacking context.
func (l *Layer) shouldBeNormalFlowOnly() bool {
	if l.IsRootLayer() || l.isCSSStackingContext {
		return false
	}
	r := l.renderer
	switch {
	case hasNonVisibleOverflow(r), isSpecialReplaced(r):
		return false
	case r.Kind() == RendererMultiColumnFlow, r.Style().SpecifiesColumns():
		return false
	}
	return true
}

func (l *Layer) shouldBeSelfPaintingLayer() bool {
	if !l.isNormalFlowOnly {
		return true
	}
	s := l.renderer.Style()
	if s.OverlayScrollbars && s.HasScrollableOverflow() {
		return true
	}
	if l.UsesCompositedScrolling() {
		return true
	}
	switch l.renderer.Kind() {
	case RendererTableRow, RendererCanvas, RendererVideo, RendererEmbeddedObject,
		RendererIFrame, RendererMultiColumnFlow:
		return true
	}
	return false
}

// UsesCompositedScrolling reports a scroller hinted with will-change:
// scroll-position. Its contents move on the compositor.
func (l *Layer) UsesCompositedScrolling() bool {
	s := l.renderer.Style()
	return s.HasScrollableOverflow() && s.WillChange&WillChangeScrollPosition != 0
}

// updateStackingFlags re-derives the three classification bits and
// dirties lists wherever membership changed.
func (l *Layer) updateStackingFlags() {
	l.setIsCSSStackingContext(l.shouldBeCSSStackingContext())
	l.updateNormalFlowOnly()
	l.updateSelfPaintingLayer()
}

func (l *Layer) setIsCSSStackingContext(v bool) {
	if l.isCSSStackingContext == v {
		return
	}
	was := l.IsStackingContext()
	l.isCSSStackingContext = v
	if was != l.IsStackingContext() {
		l.isStackingContextChanged()
	} else {
		l.dirtyStackingContextZOrderLists()
	}
}

// SetIsOpportunisticStackingContext lets a compositor treat l as a stacking
// context for layer ordering even though CSS does not require one.
func (l *Layer) SetIsOpportunisticStackingContext(v bool) {
	if l.isOpportunisticStackingContext == v {
		return
	}
	was := l.IsStackingContext()
	l.isOpportunisticStackingContext = v
	if was != l.IsStackingContext() {
		l.isStackingContextChanged()
	}
}

// isStackingContextChanged rebuilds ordering from scratch: l's descendants
// move between l's lists and the enclosing stacking context's lists.
func (l *Layer) isStackingContextChanged() {
	l.dirtyStackingContextZOrderLists()
	if l.IsStackingContext() {
		l.dirtyZOrderLists()
	} else {
		l.clearZOrderLists()
	}
	l.dirty3DTransformedDescendantStatus()
	l.SetNeedsCompositingConfigurationUpdate()
	l.SetNeedsCompositingPaintOrderChildrenUpdate()
}

func (l *Layer) updateNormalFlowOnly() {
	v := l.shouldBeNormalFlowOnly()
	if v == l.isNormalFlowOnly {
		return
	}
	l.isNormalFlowOnly = v
	if p := l.Parent(); p != nil {
		p.dirtyNormalFlowList()
	}
	l.dirtyStackingContextZOrderLists()
}

func (l *Layer) updateSelfPaintingLayer() {
	v := l.shouldBeSelfPaintingLayer()
	if v == l.isSelfPaintingLayer {
		return
	}
	l.isSelfPaintingLayer = v
	if p := l.Parent(); p != nil {
		p.dirtyAncestorChainDescendantFlags()
	}
}

func (l *Layer) dirtyZOrderLists() {
	l.posZOrderList = nil
	l.negZOrderList = nil
	l.zOrderListsDirty = true
	l.dirty3DTransformedDescendantStatus()
	l.SetNeedsCompositingPaintOrderChildrenUpdate()
}

func (l *Layer) clearZOrderLists() {
	l.posZOrderList = nil
	l.negZOrderList = nil
	l.zOrderListsDirty = false
}

func (l *Layer) dirtyStackingContextZOrderLists() {
	if sc := l.stackingContext(); sc != nil {
		sc.dirtyZOrderLists()
	}
}

func (l *Layer) dirtyNormalFlowList() {
	l.normalFlowList = nil
	l.normalFlowListDirty = true
	l.SetNeedsCompositingPaintOrderChildrenUpdate()
}

// updateLayerListsIfNeeded makes the paint order lists and descendant
// flags of l current.
func (l *Layer) updateLayerListsIfNeeded() {
	l.updateDescendantDependentFlags()
	l.updateZOrderLists()
	l.updateNormalFlowList()
}

func (l *Layer) updateZOrderLists() {
	if !l.zOrderListsDirty {
		return
	}
	if !l.IsStackingContext() {
		l.clearZOrderLists()
		return
	}
	l.rebuildZOrderLists()
}

func (l *Layer) rebuildZOrderLists() {
	if l.tree.assertions && !l.layerListMutationAllowed {
		panic(fmt.Sprintf("layertree: %v z-order lists rebuilt during iteration", l))
	}
	var pos, neg []*Layer
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		if !c.isExcludedFromPaintOrderCollection() {
			c.collectLayers(&pos, &neg)
		}
	}

	// Equal z-index keeps document order.
	byZ := func(a, b *Layer) int { return a.ZIndex() - b.ZIndex() }
	slices.SortStableFunc(pos, byZ)
	slices.SortStableFunc(neg, byZ)

	if l.IsRootLayer() {
		pos = l.tree.appendAlwaysOnTopLayers(pos)
	}

	l.posZOrderList = pos
	l.negZOrderList = neg
	l.zOrderListsDirty = false
	Logger().Debug("layertree: z-order lists rebuilt", "layer", l.id,
		"positive", len(pos), "negative", len(neg))
}

// isExcludedFromPaintOrderCollection is true for layers painted from
// somewhere other than their tree parent's lists.
func (l *Layer) isExcludedFromPaintOrderCollection() bool {
	return l.IsReflection() || l.isInTopLayer() || l.isViewTransitionContainingBlock()
}

// collectLayers appends l, if it is z-ordered, and the z-ordered layers of
// its subtree that belong to the same stacking context.
func (l *Layer) collectLayers(pos, neg *[]*Layer) {
	l.updateDescendantDependentFlags()

	isStacking := l.IsStackingContext()
	include := l.hasVisibleContent || (l.hasVisibleDescendant && isStacking)

	if !l.isNormalFlowOnly {
		if include {
			l.wasOmittedFromZOrderTree = false
			if l.ZIndex() >= 0 {
				*pos = append(*pos, l)
			} else {
				*neg = append(*neg, l)
			}
		} else if !l.wasOmittedFromZOrderTree {
			l.wasOmittedFromZOrderTree = true
			if c := l.tree.compositor; c != nil {
				c.ClearBackingIncludingDescendants(l)
			}
		}
	}

	if isStacking || !(include || l.hasVisibleDescendant) {
		return
	}
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		if !c.isExcludedFromPaintOrderCollection() {
			c.collectLayers(pos, neg)
		}
	}
}

func (t *Tree) appendAlwaysOnTopLayers(pos []*Layer) []*Layer {
	for _, r := range t.topLayer {
		if l := r.Layer(); l != nil && l != t.root {
			pos = append(pos, l)
		}
	}
	if r := t.viewTransitionRoot; r != nil {
		if l := r.Layer(); l != nil && l != t.root {
			pos = append(pos, l)
		}
	}
	return pos
}

func (l *Layer) updateNormalFlowList() {
	if !l.normalFlowListDirty {
		return
	}
	var list []*Layer
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		if c.isNormalFlowOnly && !c.isExcludedFromPaintOrderCollection() {
			list = append(list, c)
		}
	}
	l.normalFlowList = list
	l.normalFlowListDirty = false
}

// PositiveZOrderList returns the layers painted after l's content, sorted by
// ascending z-index. It is empty unless l is a stacking context.
func (l *Layer) PositiveZOrderList() []*Layer {
	l.updateLayerListsIfNeeded()
	return l.posZOrderList
}

// NegativeZOrderList returns the layers with negative z-index painted after
// l's background, sorted ascending.
func (l *Layer) NegativeZOrderList() []*Layer {
	l.updateLayerListsIfNeeded()
	return l.negZOrderList
}

// NormalFlowList returns the normal-flow-only children in document order.
func (l *Layer) NormalFlowList() []*Layer {
	l.updateLayerListsIfNeeded()
	return l.normalFlowList
}

// ZOrderListsDirty reports whether the z-order lists need rebuilding.
func (l *Layer) ZOrderListsDirty() bool { return l.zOrderListsDirty }

// NormalFlowListDirty reports whether the normal flow list needs rebuilding.
func (l *Layer) NormalFlowListDirty() bool { return l.normalFlowListDirty }
