// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

// dirtyAncestorChainDescendantFlags marks l and its ancestors for a
// recomputation of descendant-dependent flags. Propagation stops at the
// first ancestor that is already dirty, since its ancestors are too.
func (l *Layer) dirtyAncestorChainDescendantFlags() {
	for cur := l; cur != nil; cur = cur.Parent() {
		if cur.descendantDependentFlagsDirty {
			break
		}
		cur.descendantDependentFlagsDirty = true
	}
}

// dirtyVisibleContentStatus is called when the visibility of l's renderer or
// one of its non-layer descendants changed.
func (l *Layer) dirtyVisibleContentStatus() {
	l.visibleContentStatusDirty = true
	if p := l.Parent(); p != nil {
		p.dirtyAncestorChainDescendantFlags()
	}
	// Omitted layers must re-enter the z-order lists once visible.
	l.dirtyStackingContextZOrderLists()
}

// updateDescendantDependentFlags recomputes the flags summarizing l's
// subtree, visiting only dirty branches.
func (l *Layer) updateDescendantDependentFlags() {
	if l.descendantDependentFlagsDirty {
		var visible, selfPainting, viewportConstrained, blending bool
		for c := l.FirstChild(); c != nil; c = c.NextSibling() {
			c.updateDescendantDependentFlags()
			visible = visible || c.hasVisibleContent || c.hasVisibleDescendant || c.isAlwaysIncluded()
			selfPainting = selfPainting || c.isSelfPaintingLayer || c.hasSelfPaintingLayerDescendant
			cs := c.renderer.Style()
			viewportConstrained = viewportConstrained || c.hasViewportConstrainedDescendant ||
				cs.Position == PositionFixed || cs.Position == PositionSticky
			blending = blending || cs.HasBlendMode() ||
				(c.hasNotIsolatedBlendingDescendant && !c.isolatesBlending())
		}
		l.hasVisibleDescendant = visible
		l.hasSelfPaintingLayerDescendant = selfPainting
		l.hasViewportConstrainedDescendant = viewportConstrained
		l.hasNotIsolatedBlendingDescendant = blending
		l.descendantDependentFlagsDirty = false
	}
	if l.visibleContentStatusDirty {
		l.hasVisibleContent = computeHasVisibleContent(l.renderer)
		l.visibleContentStatusDirty = false
	}
}

// isAlwaysIncluded marks layers that count as visible descendants whatever
// their own visibility.
func (l *Layer) isAlwaysIncluded() bool {
	return l.isInTopLayer() || l.isViewTransitionContainingBlock()
}

// isolatesBlending reports whether blend modes of descendants stop at l.
func (l *Layer) isolatesBlending() bool {
	return l.IsStackingContext() && (l.hasNotIsolatedBlendingDescendant || l.renderer.Style().IsolatesBlending())
}

// computeHasVisibleContent: r is visible or some descendant painted by r's
// layer is visible.
func computeHasVisibleContent(r Renderer) bool {
	if r.Style().IsVisible() {
		return true
	}
	for c := r.FirstChild(); c != nil; c = c.NextSibling() {
		if hasLayer(c) {
			continue
		}
		if computeHasVisibleContent(c) {
			return true
		}
	}
	return false
}

// dirty3DTransformedDescendantStatus marks the stacking context chain up to
// the enclosing flattening layer.
func (l *Layer) dirty3DTransformedDescendantStatus() {
	cur := l.stackingContext()
	if cur == nil {
		return
	}
	cur.has3DTransformedDescendantDirty = true
	for cur != nil && cur.preserves3D() {
		cur.has3DTransformedDescendantDirty = true
		cur = cur.stackingContext()
	}
}

// update3DTransformedDescendantStatus returns whether l or, within a
// preserve-3d hierarchy, its descendants have a 3D transform.
func (l *Layer) update3DTransformedDescendantStatus() bool {
	if l.has3DTransformedDescendantDirty {
		l.has3DTransformedDescendant = false
		l.updateZOrderLists()
		// Transformed and preserve-3d layers are always z-ordered.
		for _, c := range l.posZOrderList {
			if c.update3DTransformedDescendantStatus() {
				l.has3DTransformedDescendant = true
			}
		}
		for _, c := range l.negZOrderList {
			if c.update3DTransformedDescendantStatus() {
				l.has3DTransformedDescendant = true
			}
		}
		l.has3DTransformedDescendantDirty = false
	}
	if l.preserves3D() {
		return l.has3DTransform() || l.has3DTransformedDescendant
	}
	return l.has3DTransform()
}

// HasVisibleContent reports whether l's own renderer paints something
// visible.
func (l *Layer) HasVisibleContent() bool {
	l.updateDescendantDependentFlags()
	return l.hasVisibleContent
}

// HasVisibleDescendant reports whether a descendant layer is visible or is
// always included in painting.
func (l *Layer) HasVisibleDescendant() bool {
	l.updateDescendantDependentFlags()
	return l.hasVisibleDescendant
}

// HasSelfPaintingLayerDescendant reports whether any descendant layer paints
// itself.
func (l *Layer) HasSelfPaintingLayerDescendant() bool {
	l.updateDescendantDependentFlags()
	return l.hasSelfPaintingLayerDescendant
}

func (l *Layer) HasViewportConstrainedDescendant() bool {
	l.updateDescendantDependentFlags()
	return l.hasViewportConstrainedDescendant
}

func (l *Layer) HasNotIsolatedBlendingDescendants() bool {
	l.updateDescendantDependentFlags()
	return l.hasNotIsolatedBlendingDescendant
}

// Has3DTransformedDescendant reports 3D transforms among the z-ordered
// descendants of l.
func (l *Layer) Has3DTransformedDescendant() bool {
	l.update3DTransformedDescendantStatus()
	return l.has3DTransformedDescendant
}
