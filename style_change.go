// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

// RendererStyleChanged must be called after r's style changed from old.
// It creates or destroys r's layer when the need for one changed and
// otherwise updates the layer's cached state for diff.
func (t *Tree) RendererStyleChanged(r Renderer, diff StyleDifference, old *Style) {
	if r != t.rootRenderer && r.Parent() == nil {
		// Detached renderers have no layers to update.
		return
	}
	l := r.Layer()
	needsLayer := t.requiresLayer(r)

	switch {
	case needsLayer && l == nil:
		l = t.createLayer(r)
		l.setNeedsPositionUpdate(NeedsPositionUpdate | AllDescendantsNeedPositionUpdate)
		if p := l.Parent(); p != nil {
			// r's content no longer counts toward its old enclosing layer.
			p.dirtyVisibleContentStatus()
		}
		return
	case !needsLayer && l != nil:
		parent := l.Parent()
		if parent != nil {
			parent.addDamageForLayer(l)
		}
		t.destroyLayer(l)
		if enc := enclosingLayer(r); enc != nil {
			// r's content now paints in enc, which may have been invisible.
			enc.dirtyVisibleContentStatus()
		}
		if parent != nil {
			parent.setNeedsPositionUpdate(AllDescendantsNeedPositionUpdate)
		}
		return
	case l == nil:
		enc := enclosingLayer(r)
		if enc == nil {
			return
		}
		if old == nil || old.Visibility != r.Style().Visibility {
			enc.dirtyVisibleContentStatus()
		}
		if diff >= StyleDifferenceRepaint {
			enc.addDamageForLayer(enc)
		}
		if diff >= StyleDifferenceLayoutPositionedMovementOnly {
			enc.setNeedsPositionUpdate(NeedsPositionUpdate | AllDescendantsNeedPositionUpdate)
		}
		return
	}
	l.StyleChanged(diff, old)
}

// StyleChanged updates l after its renderer's style changed from old.
func (l *Layer) StyleChanged(diff StyleDifference, old *Style) {
	s := l.renderer.Style()
	Logger().Debug("layertree: style changed", "layer", l.id, "diff", diff)

	l.updateStackingFlags()
	if old == nil || !equalZIndex(old.ZIndex, s.ZIndex) || old.Position != s.Position {
		l.dirtyStackingContextZOrderLists()
	}
	if old == nil || old.Visibility != s.Visibility {
		l.dirtyVisibleContentStatus()
	}
	if p := l.Parent(); p != nil && diff >= StyleDifferenceRepaintLayer {
		// Blend modes and fixed positioning are summarized by ancestors.
		p.dirtyAncestorChainDescendantFlags()
	}

	l.updateTransform()
	l.updateReflection()

	if diff >= StyleDifferenceRepaint {
		l.addDamageForLayer(l)
	}

	switch {
	case diff >= StyleDifferenceLayoutPositionedMovementOnly:
		// Repaint rects below l depend on its clip and offsets even where
		// a child's own geometry is unchanged.
		l.clearClipRectsIncludingDescendants()
		l.setNeedsPositionUpdate(NeedsPositionUpdate | AllDescendantsNeedPositionUpdate)
		l.SetNeedsCompositingGeometryUpdate()
		l.SetNeedsCompositingConfigurationUpdate()
	case diff == StyleDifferenceRepaintLayer:
		l.clearClipRectsIncludingDescendants()
		l.setNeedsPositionUpdate(NeedsPositionUpdate | AllDescendantsNeedPositionUpdate)
		l.SetNeedsCompositingConfigurationUpdate()
	case diff == StyleDifferenceRecompositeLayer:
		l.SetNeedsCompositingConfigurationUpdate()
	}
}
