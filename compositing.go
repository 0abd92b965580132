// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

// Compositor decides which layers get their own backing store. The layer
// tree only reports changes through the dirty flags below and asks a few
// questions during painting; backing memory is owned by the compositor.
//
// A nil Compositor means nothing is composited.
type Compositor interface {
	// IsComposited reports whether l paints into its own backing.
	IsComposited(l *Layer) bool
	// PaintsIntoProvidedBacking reports whether l shares the backing of
	// another layer.
	PaintsIntoProvidedBacking(l *Layer) bool
	// HasCompositedFilter reports whether l's filter is applied by the
	// compositor instead of by software painting.
	HasCompositedFilter(l *Layer) bool
	// CanRender3DTransforms reports whether 3D transforms survive
	// compositing. When false, layer transforms are flattened.
	CanRender3DTransforms() bool

	// LayerWasAdded and LayerWillBeRemoved bracket changes to the layer tree.
	LayerWasAdded(parent, child *Layer)
	LayerWillBeRemoved(parent, child *Layer)
	// ClearBackingIncludingDescendants drops backings for l's subtree.
	ClearBackingIncludingDescendants(l *Layer)
}

type compositingUpdateFlags uint8

const (
	needsCompositingConfigurationUpdate compositingUpdateFlags = 1 << iota
	needsCompositingGeometryUpdate
	needsCompositingPaintOrderChildrenUpdate
	needsCompositingRequirementsTraversal
	descendantsNeedCompositingRequirementsTraversal
	descendantsNeedUpdateBackingAndHierarchyTraversal
)

// CompositingUpdates summarizes the pending compositing work on a layer.
type CompositingUpdates struct {
	Configuration                    bool
	Geometry                         bool
	PaintOrderChildren               bool
	RequirementsTraversal            bool
	DescendantsRequirementsTraversal bool
	DescendantsBackingTraversal      bool
}

func (l *Layer) setCompositingFlag(f compositingUpdateFlags) {
	if l.compositingUpdates&f == f {
		return
	}
	l.compositingUpdates |= f
	l.setAncestorsHaveCompositingDirtyFlag(descendantsNeedUpdateBackingAndHierarchyTraversal)
}

// setAncestorsHaveCompositingDirtyFlag marks the paint-order ancestors,
// stopping at the first one that already carries f.
func (l *Layer) setAncestorsHaveCompositingDirtyFlag(f compositingUpdateFlags) {
	for p := l.paintOrderParent(); p != nil; p = p.paintOrderParent() {
		if p.compositingUpdates&f != 0 {
			break
		}
		p.compositingUpdates |= f
	}
}

// SetNeedsCompositingConfigurationUpdate asks the compositor to
// re-evaluate whether and how l is composited.
func (l *Layer) SetNeedsCompositingConfigurationUpdate() {
	l.setCompositingFlag(needsCompositingConfigurationUpdate)
}

// SetNeedsCompositingGeometryUpdate asks the compositor to reposition l's
// backing.
func (l *Layer) SetNeedsCompositingGeometryUpdate() {
	l.setCompositingFlag(needsCompositingGeometryUpdate)
}

func (l *Layer) SetNeedsCompositingPaintOrderChildrenUpdate() {
	l.setCompositingFlag(needsCompositingPaintOrderChildrenUpdate)
}

// SetNeedsCompositingRequirementsTraversal marks l for the requirements
// pass without touching its descendants.
func (l *Layer) SetNeedsCompositingRequirementsTraversal() {
	l.compositingUpdates |= needsCompositingRequirementsTraversal
	l.setAncestorsHaveCompositingDirtyFlag(descendantsNeedCompositingRequirementsTraversal)
}

// SetDescendantsNeedCompositingRequirementsTraversal marks every layer
// under l for the requirements pass.
func (l *Layer) SetDescendantsNeedCompositingRequirementsTraversal() {
	l.compositingUpdates |= descendantsNeedCompositingRequirementsTraversal
	l.setAncestorsHaveCompositingDirtyFlag(descendantsNeedCompositingRequirementsTraversal)
}

// CompositingUpdates returns the pending flags of l.
func (l *Layer) CompositingUpdates() CompositingUpdates {
	f := l.compositingUpdates
	return CompositingUpdates{
		Configuration:                    f&needsCompositingConfigurationUpdate != 0,
		Geometry:                         f&needsCompositingGeometryUpdate != 0,
		PaintOrderChildren:               f&needsCompositingPaintOrderChildrenUpdate != 0,
		RequirementsTraversal:            f&needsCompositingRequirementsTraversal != 0,
		DescendantsRequirementsTraversal: f&descendantsNeedCompositingRequirementsTraversal != 0,
		DescendantsBackingTraversal:      f&descendantsNeedUpdateBackingAndHierarchyTraversal != 0,
	}
}

// NeedsCompositingUpdate reports whether any flag is set on l.
func (l *Layer) NeedsCompositingUpdate() bool { return l.compositingUpdates != 0 }

// ClearCompositingUpdates resets l's flags after the compositor handled
// them.
func (l *Layer) ClearCompositingUpdates() { l.compositingUpdates = 0 }

// IsComposited asks the tree's compositor about l.
func (l *Layer) IsComposited() bool {
	c := l.tree.compositor
	return c != nil && c.IsComposited(l)
}

func (l *Layer) paintsIntoProvidedBacking() bool {
	c := l.tree.compositor
	return c != nil && c.PaintsIntoProvidedBacking(l)
}

func (l *Layer) hasCompositedFilter() bool {
	c := l.tree.compositor
	return c != nil && c.HasCompositedFilter(l)
}

// paintsWithTransform: composited layers apply their transform on the
// backing unless the paint flattens.
func (l *Layer) paintsWithTransform(behavior PaintBehavior) bool {
	if l.transform == nil {
		return false
	}
	return behavior&PaintBehaviorFlattenCompositingLayers != 0 || !l.IsComposited()
}

// paintsWithFilters: software filters run only when the compositor does
// not apply them.
func (l *Layer) paintsWithFilters() bool {
	if !l.renderer.Style().HasFilter() {
		return false
	}
	return !l.IsComposited() || !l.hasCompositedFilter()
}
