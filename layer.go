// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"fmt"

	"github.com/gogpu/layertree/graphics"
)

// LayerID is a stable handle into a Tree's layer arena. IDs are never
// reused; zero means no layer.
type LayerID uint32

// LayerKind distinguishes layers whose renderer needs special treatment.
type LayerKind uint8

const (
	LayerNormal LayerKind = iota
	LayerReflection
	LayerPseudoBefore
	LayerPseudoAfter
	LayerViewTransitionCapture
)

var layerKindNames = [...]string{"normal", "reflection", "::before", "::after", "view-transition"}

func (k LayerKind) String() string {
	if int(k) < len(layerKindNames) {
		return layerKindNames[k]
	}
	return "unknown"
}

// Layer groups a renderer and its non-layer descendants for independent
// stacking, clipping, transforms and painting.
//
// Tree links are arena handles resolved through the owning Tree. Paint order
// lists and clip rects are caches owned by the layer and invalidated on
// structural change.
type Layer struct {
	id       LayerID
	tree     *Tree
	renderer Renderer
	kind     LayerKind

	parent     LayerID
	firstChild LayerID
	lastChild  LayerID
	prev       LayerID
	next       LayerID

	posZOrderList  []*Layer
	negZOrderList  []*Layer
	normalFlowList []*Layer

	zOrderListsDirty         bool
	normalFlowListDirty      bool
	wasOmittedFromZOrderTree bool

	isNormalFlowOnly               bool
	isCSSStackingContext           bool
	isOpportunisticStackingContext bool
	isSelfPaintingLayer            bool

	visibleContentStatusDirty        bool
	descendantDependentFlagsDirty    bool
	has3DTransformedDescendantDirty  bool
	hasVisibleContent                bool
	hasVisibleDescendant             bool
	hasSelfPaintingLayerDescendant   bool
	hasViewportConstrainedDescendant bool
	has3DTransformedDescendant       bool
	hasNotIsolatedBlendingDescendant bool

	location      LayoutPoint
	size          LayoutSize
	transform     *graphics.TransformationMatrix
	ancestorState ancestorState

	// childAncestorState is the state l last handed to its children.
	childAncestorState ancestorState
	// enclosingPagination is the nearest multi-column layer whose flow
	// this layer lives in.
	enclosingPagination LayerID

	boxScrollingScope      ScrollingScope
	contentsScrollingScope ScrollingScope

	positionUpdates   LayerPositionUpdates
	repaintRects      RepaintRects
	repaintRectsValid bool

	clipRectsCache *clipRectsCache

	compositingUpdates compositingUpdateFlags

	reflection    *Layer
	reflectionBox *Box

	usedTransparency         bool
	paintingInsideReflection bool
	layerListMutationAllowed bool
}

func newLayer(t *Tree, id LayerID, r Renderer) *Layer {
	l := &Layer{
		id:                              id,
		tree:                            t,
		renderer:                        r,
		kind:                            layerKindFor(r),
		zOrderListsDirty:                true,
		normalFlowListDirty:             true,
		visibleContentStatusDirty:       true,
		descendantDependentFlagsDirty:   true,
		has3DTransformedDescendantDirty: true,
		positionUpdates:                 NeedsPositionUpdate,
		layerListMutationAllowed:        true,
	}
	l.isCSSStackingContext = l.shouldBeCSSStackingContext()
	l.isNormalFlowOnly = l.shouldBeNormalFlowOnly()
	l.isSelfPaintingLayer = l.shouldBeSelfPaintingLayer()
	l.updateTransform()
	return l
}

func layerKindFor(r Renderer) LayerKind {
	if r.Kind() == RendererReplica {
		return LayerReflection
	}
	switch r.Pseudo() {
	case PseudoBefore:
		return LayerPseudoBefore
	case PseudoAfter:
		return LayerPseudoAfter
	case PseudoViewTransitionCapture:
		return LayerViewTransitionCapture
	}
	return LayerNormal
}

// ID returns the arena handle of l.
func (l *Layer) ID() LayerID { return l.id }

// Tree returns the tree that owns l.
func (l *Layer) Tree() *Tree { return l.tree }

// Renderer returns the box l belongs to.
func (l *Layer) Renderer() Renderer { return l.renderer }

// Kind returns the layer discriminator.
func (l *Layer) Kind() LayerKind { return l.kind }

// IsReflection reports whether l is a -webkit-box-reflect replica layer.
func (l *Layer) IsReflection() bool { return l.kind == LayerReflection }

func (l *Layer) Parent() *Layer          { return l.tree.lookup(l.parent) }
func (l *Layer) FirstChild() *Layer      { return l.tree.lookup(l.firstChild) }
func (l *Layer) LastChild() *Layer       { return l.tree.lookup(l.lastChild) }
func (l *Layer) NextSibling() *Layer     { return l.tree.lookup(l.next) }
func (l *Layer) PreviousSibling() *Layer { return l.tree.lookup(l.prev) }

// Children returns the child layers in renderer order.
func (l *Layer) Children() []*Layer {
	var out []*Layer
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, c)
	}
	return out
}

// IsRootLayer reports whether l is the layer of the tree's root renderer.
func (l *Layer) IsRootLayer() bool { return l.renderer == l.tree.rootRenderer }

// Location is the layer origin in its parent's coordinate space, after
// ancestor scroll offsets.
func (l *Layer) Location() LayoutPoint { return l.location }

// Size is the border box size.
func (l *Layer) Size() LayoutSize { return l.size }

// ReflectionLayer returns the replica layer, or nil.
func (l *Layer) ReflectionLayer() *Layer { return l.reflection }

// ZIndex returns the z-index used for sorting. Layers that are not CSS
// stacking contexts, and those with z-index: auto, sort as zero.
func (l *Layer) ZIndex() int {
	s := l.renderer.Style()
	if l.isCSSStackingContext && s.IsPositioned() && s.ZIndex != nil {
		return *s.ZIndex
	}
	return 0
}

func (l *Layer) IsNormalFlowOnly() bool               { return l.isNormalFlowOnly }
func (l *Layer) IsCSSStackingContext() bool           { return l.isCSSStackingContext }
func (l *Layer) IsOpportunisticStackingContext() bool { return l.isOpportunisticStackingContext }
func (l *Layer) IsSelfPaintingLayer() bool            { return l.isSelfPaintingLayer }

// IsStackingContext is the union of the CSS and opportunistic bits.
func (l *Layer) IsStackingContext() bool {
	return l.isCSSStackingContext || l.isOpportunisticStackingContext
}

// BehavesAsFixed reports position: fixed without a containing ancestor that
// captures fixed descendants.
func (l *Layer) BehavesAsFixed() bool {
	return l.renderer.Style().IsFixedPositioned() && !l.ancestorState.hasFixedContainingAncestor
}

// HasTransform reports whether l has a CSS transform matrix.
func (l *Layer) HasTransform() bool { return l.transform != nil }

// Transform returns the layer transform in local coordinates.
func (l *Layer) Transform() (graphics.TransformationMatrix, bool) {
	if l.transform == nil {
		return graphics.NewIdentityMatrix(), false
	}
	return *l.transform, true
}

func (l *Layer) preserves3D() bool {
	return l.renderer.Style().Preserves3D()
}

func (l *Layer) has3DTransform() bool {
	return l.transform != nil && !l.transform.IsAffine()
}

func (l *Layer) isInTopLayer() bool {
	return l.tree.isInTopLayer(l.renderer)
}

// stackingContext returns the nearest ancestor that is a stacking context.
func (l *Layer) stackingContext() *Layer {
	p := l.Parent()
	for p != nil && !p.IsStackingContext() {
		p = p.Parent()
	}
	return p
}

// paintOrderParent is the layer whose lists l is painted from.
func (l *Layer) paintOrderParent() *Layer {
	if l.IsRootLayer() {
		return nil
	}
	if l.isInTopLayer() || l.isViewTransitionContainingBlock() {
		return l.tree.root
	}
	if l.isNormalFlowOnly {
		return l.Parent()
	}
	return l.stackingContext()
}

func (l *Layer) String() string {
	return fmt.Sprintf("layer#%d (%s)", l.id, l.renderer.Name())
}

// checkLayerListMutationAllowed enforces the reentrancy contract of the
// paint and hit-test list walks.
func (l *Layer) checkLayerListMutationAllowed() {
	if l.tree.assertions && !l.layerListMutationAllowed {
		panic(fmt.Sprintf("layertree: %v child list mutated during iteration", l))
	}
}

func (l *Layer) addChild(child *Layer, before *Layer) {
	l.checkLayerListMutationAllowed()

	var prev *Layer
	if before != nil {
		prev = before.PreviousSibling()
	} else {
		prev = l.LastChild()
	}
	if prev != nil {
		child.prev = prev.id
		prev.next = child.id
	} else {
		l.firstChild = child.id
	}
	if before != nil {
		before.prev = child.id
		child.next = before.id
	} else {
		l.lastChild = child.id
	}
	child.parent = l.id

	l.dirtyPaintOrderListsOnChildChange(child)
	child.clearClipRectsIncludingDescendants()
	child.setNeedsPositionUpdate(NeedsPositionUpdate | AllDescendantsNeedPositionUpdate)
	l.dirtyAncestorChainDescendantFlags()
	child.dirty3DTransformedDescendantStatus()

	if c := l.tree.compositor; c != nil {
		c.LayerWasAdded(l, child)
	}
	l.SetDescendantsNeedCompositingRequirementsTraversal()
}

func (l *Layer) removeChild(old *Layer) {
	l.checkLayerListMutationAllowed()

	if c := l.tree.compositor; c != nil {
		c.LayerWillBeRemoved(l, old)
	}
	if prev := old.PreviousSibling(); prev != nil {
		prev.next = old.next
	}
	if next := old.NextSibling(); next != nil {
		next.prev = old.prev
	}
	if l.firstChild == old.id {
		l.firstChild = old.next
	}
	if l.lastChild == old.id {
		l.lastChild = old.prev
	}

	l.dirtyPaintOrderListsOnChildChange(old)
	old.dirty3DTransformedDescendantStatus()

	old.prev, old.next, old.parent = 0, 0, 0

	l.dirtyAncestorChainDescendantFlags()
	l.setNeedsPositionUpdate(DescendantNeedsPositionUpdate)
	l.SetDescendantsNeedCompositingRequirementsTraversal()
}

func (l *Layer) dirtyPaintOrderListsOnChildChange(child *Layer) {
	if child.isNormalFlowOnly {
		l.dirtyNormalFlowList()
	}
	if !child.isNormalFlowOnly || child.firstChild != 0 {
		// The stacking context may be missing while generated content is
		// being built; its lists start dirty in that case anyway.
		child.dirtyStackingContextZOrderLists()
	}
}

// insertOnlyThisLayer connects a newly created layer below the enclosing
// layer of its renderer and adopts the layers of descendant renderers.
func (l *Layer) insertOnlyThisLayer() {
	rp := l.renderer.Parent()
	if l.parent == 0 && rp != nil {
		parentLayer := enclosingLayer(rp)
		before := findNextLayer(rp, parentLayer, l.renderer, true)
		parentLayer.addChild(l, before)
	}
	for c := l.renderer.FirstChild(); c != nil; c = c.NextSibling() {
		moveLayers(c, l.Parent(), l)
	}
}

// removeOnlyThisLayer unlinks l and reparents its children to l's parent at
// l's position, so the subtree keeps painting.
func (l *Layer) removeOnlyThisLayer() {
	parent := l.Parent()
	if parent == nil {
		return
	}
	l.clearClipRectsIncludingDescendants()
	nextSib := l.NextSibling()

	for current := l.FirstChild(); current != nil; {
		next := current.NextSibling()
		l.removeChild(current)
		parent.addChild(current, nextSib)
		current.repaintRectsValid = false
		current = next
	}
	parent.removeChild(l)
}

// enclosingLayer returns the layer of r or of its nearest ancestor.
func enclosingLayer(r Renderer) *Layer {
	for ; r != nil; r = r.Parent() {
		if l := r.Layer(); l != nil {
			return l
		}
	}
	return nil
}

// findNextLayer finds the layer that should follow start among the children
// of parentLayer, scanning renderers after start in tree order.
func findNextLayer(r Renderer, parentLayer *Layer, start Renderer, checkParent bool) *Layer {
	ourLayer := r.Layer()
	if ourLayer != nil && ourLayer.Parent() == parentLayer {
		return ourLayer
	}
	if ourLayer == nil || ourLayer == parentLayer {
		child := r.FirstChild()
		if start != nil {
			child = start.NextSibling()
		}
		for ; child != nil; child = child.NextSibling() {
			if next := findNextLayer(child, parentLayer, nil, false); next != nil {
				return next
			}
		}
	}
	if ourLayer == parentLayer {
		return nil
	}
	if checkParent && r.Parent() != nil {
		return findNextLayer(r.Parent(), parentLayer, r, true)
	}
	return nil
}

// moveLayers moves the topmost layers in r's subtree from oldParent to
// newParent.
func moveLayers(r Renderer, oldParent, newParent *Layer) {
	if l := r.Layer(); l != nil {
		if oldParent != nil && l.Parent() == oldParent {
			oldParent.removeChild(l)
		}
		if l.parent == 0 && newParent != nil {
			newParent.addChild(l, nil)
		}
		return
	}
	for c := r.FirstChild(); c != nil; c = c.NextSibling() {
		moveLayers(c, oldParent, newParent)
	}
}

// removeLayers detaches every topmost layer in r's subtree from parentLayer.
func removeLayers(r Renderer, parentLayer *Layer) {
	if l := r.Layer(); l != nil {
		if l.Parent() == parentLayer {
			parentLayer.removeChild(l)
		}
		return
	}
	for c := r.FirstChild(); c != nil; c = c.NextSibling() {
		removeLayers(c, parentLayer)
	}
}

// OffsetFromAncestor returns the position of l's origin in ancestor's
// coordinate space. ancestor need not be an ancestor: the offset is then
// taken through the root.
func (l *Layer) OffsetFromAncestor(ancestor *Layer) LayoutPoint {
	var offset LayoutPoint
	cur := l
	for cur != nil && cur != ancestor {
		offset = offset.Add(cur.location)
		cur = cur.Parent()
	}
	if cur == ancestor || ancestor == nil {
		return offset
	}
	return offset.Sub(ancestor.OffsetFromAncestor(nil))
}

// ConvertToLayerCoords maps p from l's coordinate space into ancestor's.
func (l *Layer) ConvertToLayerCoords(ancestor *Layer, p LayoutPoint) LayoutPoint {
	return p.Add(l.OffsetFromAncestor(ancestor))
}

func (l *Layer) convertRectToLayerCoords(ancestor *Layer, r LayoutRect) LayoutRect {
	return moveRect(r, l.OffsetFromAncestor(ancestor))
}

// localBoundingBox is the visual overflow rect in local coordinates.
func (l *Layer) localBoundingBox() LayoutRect {
	return l.renderer.VisualOverflowRect()
}

// boundingBox returns the visual overflow of l in ancestor's coordinates,
// including l's own transform.
func (l *Layer) boundingBox(ancestor *Layer) LayoutRect {
	r := l.localBoundingBox()
	if l.transform != nil {
		r = mapRectThrough(*l.transform, r)
	}
	return moveRect(r, l.OffsetFromAncestor(ancestor))
}
