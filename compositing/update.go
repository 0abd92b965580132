// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compositing

import (
	"slices"

	"github.com/gogpu/layertree"
)

// compositingState is threaded through the paint-order walk. A layer
// receives its parent's state and passes a derived state to its own
// paint-order children.
type compositingState struct {
	compositingAncestor     *layertree.Layer
	stackingContextAncestor *layertree.Layer
	backingSharingAncestor  *layertree.Layer

	subtreeIsCompositing bool
	testingOverlap       bool

	// fullTraversal forces every later layer in paint order to be
	// re-evaluated, since its overlap may have changed.
	fullTraversal bool
	// descendantsRequireUpdate forces the subtree to be re-evaluated.
	descendantsRequireUpdate bool
}

func (s *compositingState) forPaintOrderChildren(l *layertree.Layer) compositingState {
	child := compositingState{
		compositingAncestor:      s.compositingAncestor,
		stackingContextAncestor:  s.stackingContextAncestor,
		backingSharingAncestor:   s.backingSharingAncestor,
		testingOverlap:           s.testingOverlap,
		fullTraversal:            s.fullTraversal,
		descendantsRequireUpdate: s.descendantsRequireUpdate,
	}
	if l.IsStackingContext() {
		child.stackingContextAncestor = l
	}
	return child
}

func (s *compositingState) updateWithDescendantState(child compositingState, l *layertree.Layer, composited bool) {
	s.subtreeIsCompositing = s.subtreeIsCompositing || child.subtreeIsCompositing || composited
	s.fullTraversal = s.fullTraversal || child.fullTraversal
}

// Update re-evaluates which layers composite. Layer positions must be up
// to date. Layers whose decision may have changed are found through the
// compositing dirty flags of the tree; they are cleared afterwards.
// Update reports whether the set of backings changed.
func (c *Compositor) Update() bool {
	if c.tree == nil {
		return false
	}
	root := c.tree.Root()
	if root == nil || (!root.NeedsCompositingUpdate() && !c.hierarchyDirty) {
		return false
	}
	c.pruneDestroyedLayers()

	before := c.snapshotBackings()
	om := newOverlapMap()
	var ss sharingState
	state := compositingState{
		testingOverlap:           true,
		descendantsRequireUpdate: c.hierarchyDirty,
	}
	c.computeRequirements(root, om, &state, &ss)
	if ss.stackingContext != nil {
		ss.end(root)
	}
	c.applySharing(ss.finished)
	clearCompositingUpdates(root)
	// Layers that lost their provider are re-decided on the next update.
	c.hierarchyDirty = c.sharingInvalidated
	c.sharingInvalidated = false

	changed := !sameBackings(before, c.snapshotBackings())
	layertree.Logger().Debug("compositing: updated", "backings", c.backingCount(), "changed", changed)
	return changed
}

func clearCompositingUpdates(l *layertree.Layer) {
	l.ClearCompositingUpdates()
	if r := l.ReflectionLayer(); r != nil {
		r.ClearCompositingUpdates()
	}
	for ch := l.FirstChild(); ch != nil; ch = ch.NextSibling() {
		clearCompositingUpdates(ch)
	}
}

// pruneDestroyedLayers drops state of layers that left the tree without
// passing through LayerWillBeRemoved.
func (c *Compositor) pruneDestroyedLayers() {
	for l := range c.layers {
		if c.tree.Layer(l.ID()) != l {
			c.clearBacking(l)
		}
	}
}

func (c *Compositor) backingCount() int {
	n := 0
	for _, s := range c.layers {
		if s.backing != nil {
			n++
		}
	}
	return n
}

type backingKey struct {
	layer    *layertree.Layer
	provider *layertree.Layer
}

func (c *Compositor) snapshotBackings() map[backingKey]bool {
	m := make(map[backingKey]bool, len(c.layers))
	for l, s := range c.layers {
		if s.backing != nil || s.provider != nil {
			m[backingKey{l, s.provider}] = true
		}
	}
	return m
}

func sameBackings(a, b map[backingKey]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// extent is the area l paints, in root layer coordinates.
func extent(l *layertree.Layer) layertree.LayoutRect {
	if r, ok := l.RepaintRects(); ok {
		return r.ClippedOverflowRect
	}
	return l.Renderer().VisualOverflowRect().Add(l.OffsetFromAncestor(nil))
}

func (c *Compositor) computeRequirements(l *layertree.Layer, om *overlapMap, cs *compositingState, ss *sharingState) {
	updates := l.CompositingUpdates()
	dirty := updates.Configuration || updates.RequirementsTraversal || updates.PaintOrderChildren ||
		updates.DescendantsRequirementsTraversal || updates.DescendantsBackingTraversal
	if !dirty && !cs.fullTraversal && !cs.descendantsRequireUpdate {
		c.traverseUnchangedSubtree(l, om, cs, ss)
		return
	}

	cs.fullTraversal = cs.fullTraversal || updates.RequirementsTraversal
	cs.descendantsRequireUpdate = cs.descendantsRequireUpdate || updates.DescendantsRequirementsTraversal

	st := c.state(l)
	wasComposited := st.backing != nil
	willBeComposited := wasComposited
	reason := indirectNone
	if cs.subtreeIsCompositing {
		reason = indirectStacking
	}
	if updates.Configuration || cs.fullTraversal || cs.descendantsRequireUpdate {
		st.indirect = indirectNone
		willBeComposited = c.needsToBeComposited(l, st)
	}

	layerExtent := extent(l)

	var providedBacking *provider
	if c.backingSharing && !willBeComposited && cs.subtreeIsCompositing && canBeComposited(l) {
		if p := ss.candidateFor(l); p != nil {
			p.sharing = append(p.sharing, l)
			reason = indirectNone
			providedBacking = p
		}
	}

	if !willBeComposited && providedBacking == nil && !om.isEmpty() && cs.testingOverlap {
		if om.overlaps(layerExtent) {
			reason = indirectOverlap
		} else {
			reason = indirectNone
		}
	}

	// Video controls draw on top of the video surface.
	if cs.compositingAncestor != nil && cs.compositingAncestor.Renderer().Kind() == layertree.RendererVideo {
		reason = indirectOverlap
	}

	if reason != indirectNone {
		st.indirect = reason
	}

	if !willBeComposited && mustCompositeForIndirectReasons(st.indirect) && canBeComposited(l) {
		layertree.Logger().Debug("compositing: indirect reason", "layer", l.ID(), "sharing", providedBacking != nil)
		willBeComposited = true
		if providedBacking != nil {
			providedBacking.sharing = deleteLayer(providedBacking.sharing, l)
			providedBacking = nil
		}
	}

	current := cs.forPaintOrderChildren(l)
	didPushContainer := false

	layerWillComposite := func() {
		current.testingOverlap = true
		current.compositingAncestor = l
		current.backingSharingAncestor = nil
		if providedBacking != nil {
			providedBacking.sharing = deleteLayer(providedBacking.sharing, l)
			providedBacking = nil
			st.indirect = indirectOverlap
		} else if !didPushContainer {
			om.pushContainer(false)
			didPushContainer = true
		}
		willBeComposited = true
	}

	if willBeComposited {
		layerWillComposite()
	} else if providedBacking != nil {
		current.backingSharingAncestor = l
		om.pushContainer(false)
		didPushContainer = true
	}

	snap, haveSnap := c.updateBackingSharingBeforeDescendants(ss, l, layerExtent, willBeComposited, cs.stackingContextAncestor)

	descendantsAddedToOverlap := current.compositingAncestor != nil && !current.compositingAncestor.IsRootLayer()

	if neg := l.NegativeZOrderList(); len(neg) > 0 {
		speculative := false
		if !didPushContainer {
			om.pushContainer(true)
			didPushContainer = true
			speculative = true
		}
		for _, child := range neg {
			c.computeRequirements(child, om, &current, ss)
			// A layer with composited negative z-order children needs a
			// backing so its contents draw above them.
			if !willBeComposited && current.subtreeIsCompositing {
				st.indirect = indirectBackgroundLayer
				layerWillComposite()
				om.confirmSpeculativeContainer()
			}
		}
		if speculative {
			if om.maybePopSpeculativeContainer() {
				didPushContainer = false
			} else if !willBeComposited {
				st.indirect = indirectBackgroundLayer
				layerWillComposite()
			}
		}
	}
	for _, child := range l.NormalFlowList() {
		c.computeRequirements(child, om, &current, ss)
	}
	for _, child := range l.PositiveZOrderList() {
		c.computeRequirements(child, om, &current, ss)
	}
	st.hasCompositingDescendant = current.subtreeIsCompositing

	becameCompositedAfterDescendants := false
	if l.IsRootLayer() {
		c.compositingMode = current.subtreeIsCompositing || c.directReasons(l) != 0
		willBeComposited = c.compositingMode
	} else if !willBeComposited && canBeComposited(l) {
		if r := c.computeIndirectReason(l, current.subtreeIsCompositing, providedBacking != nil); r != indirectNone {
			st.indirect = r
			layerWillComposite()
			current.subtreeIsCompositing = true
			becameCompositedAfterDescendants = true
		}
	}

	c.updateBacking(l, st, willBeComposited)
	st.provider = nil
	if !willBeComposited && providedBacking != nil {
		st.provider = providedBacking.layer
	}

	cs.updateWithDescendantState(current, l, willBeComposited)
	c.updateBackingSharingAfterDescendants(ss, l, layerExtent, st, cs.stackingContextAncestor, snap, haveSnap)

	contributes := (current.compositingAncestor != nil && !current.compositingAncestor.IsRootLayer()) || current.backingSharingAncestor != nil
	c.updateOverlapMap(om, layerExtent, didPushContainer, contributes, becameCompositedAfterDescendants && !descendantsAddedToOverlap)

	if st.backing == nil && st.provider == nil && st.indirect == indirectNone && !st.hasCompositingDescendant {
		delete(c.layers, l)
	}
}

// traverseUnchangedSubtree keeps the previous decisions for l's subtree
// and only records what it paints in the overlap map.
func (c *Compositor) traverseUnchangedSubtree(l *layertree.Layer, om *overlapMap, cs *compositingState, ss *sharingState) {
	st := c.lookup(l)
	composited := st != nil && st.backing != nil
	layerExtent := extent(l)

	current := cs.forPaintOrderChildren(l)
	didPushContainer := false
	if composited {
		current.testingOverlap = true
		current.compositingAncestor = l
		current.backingSharingAncestor = nil
		om.pushContainer(false)
		didPushContainer = true
	} else if st != nil && st.provider != nil {
		if p := ss.candidateFor(l); p != nil && p.layer == st.provider {
			p.sharing = append(p.sharing, l)
			current.backingSharingAncestor = l
			om.pushContainer(false)
			didPushContainer = true
		} else {
			st.provider = nil
			c.sharingInvalidated = true
		}
	}

	snap, haveSnap := c.updateBackingSharingBeforeDescendants(ss, l, layerExtent, composited, cs.stackingContextAncestor)

	for _, child := range l.NegativeZOrderList() {
		c.traverseUnchangedSubtree(child, om, &current, ss)
	}
	for _, child := range l.NormalFlowList() {
		c.traverseUnchangedSubtree(child, om, &current, ss)
	}
	for _, child := range l.PositiveZOrderList() {
		c.traverseUnchangedSubtree(child, om, &current, ss)
	}

	cs.updateWithDescendantState(current, l, composited)
	if st != nil {
		c.updateBackingSharingAfterDescendants(ss, l, layerExtent, st, cs.stackingContextAncestor, snap, haveSnap)
	}
	contributes := (current.compositingAncestor != nil && !current.compositingAncestor.IsRootLayer()) || current.backingSharingAncestor != nil
	c.updateOverlapMap(om, layerExtent, didPushContainer, contributes, false)
}

func (c *Compositor) updateOverlapMap(om *overlapMap, r layertree.LayoutRect, didPushContainer, contributes, addDescendantsToOverlap bool) {
	// A layer that composited after its descendants were walked did not
	// have them recorded; its extent covers them.
	if contributes || addDescendantsToOverlap {
		om.add(r)
	}
	if didPushContainer {
		om.popContainer()
	}
}

// updateBacking creates or releases l's backing.
func (c *Compositor) updateBacking(l *layertree.Layer, st *layerState, required bool) {
	switch {
	case required && st.backing == nil:
		st.backing = &Backing{Descriptor: newBackingDescriptor(l, c.scale, c.format)}
		layertree.Logger().Debug("compositing: backing created", "layer", l.ID(),
			"width", st.backing.Descriptor.Width, "height", st.backing.Descriptor.Height)
		l.SetNeedsCompositingGeometryUpdate()
	case required:
		st.backing.Descriptor = newBackingDescriptor(l, c.scale, c.format)
	case st.backing != nil:
		c.releaseBacking(l, st)
		return
	default:
		return
	}
	st.backing.Reasons = c.ReasonsForCompositing(l)
}

func (c *Compositor) releaseBacking(l *layertree.Layer, st *layerState) {
	for _, shared := range st.backing.sharing {
		if ss := c.lookup(shared); ss != nil && ss.provider == l {
			ss.provider = nil
		}
	}
	st.backing = nil
	layertree.Logger().Debug("compositing: backing released", "layer", l.ID())
}

func (c *Compositor) updateBackingSharingBeforeDescendants(ss *sharingState, l *layertree.Layer, bounds layertree.LayoutRect, willBeComposited bool, stackingContext *layertree.Layer) (sharingSnapshot, bool) {
	if ss.stackingContext != nil && willBeComposited && !ss.isAdditionalCandidate(l, bounds, stackingContext) {
		// Later layers must composite to draw above l.
		ss.end(l)
	}
	return ss.snapshot()
}

func (c *Compositor) updateBackingSharingAfterDescendants(ss *sharingState, l *layertree.Layer, bounds layertree.LayoutRect, st *layerState, stackingContext *layertree.Layer, snap sharingSnapshot, haveSnap bool) {
	composited := st.backing != nil
	if composited {
		ss.removeSharingLayer(l)
	}
	if l == ss.stackingContext {
		ss.end(l)
		return
	}
	if !composited || stackingContext == nil || !c.backingSharing {
		return
	}
	if !st.hasCompositingDescendant {
		if ss.stackingContext == nil {
			ss.start(l, bounds, stackingContext)
			return
		}
		if ss.isAdditionalCandidate(l, bounds, stackingContext) {
			ss.addCandidate(l, bounds, snap, haveSnap)
			return
		}
	}
	if haveSnap && snap.sequence == ss.sequence {
		ss.end(l)
	}
}

// applySharing stores the sharing layers collected for each provider and
// drops provider links that did not survive the walk.
func (c *Compositor) applySharing(providers []*provider) {
	for _, s := range c.layers {
		if s.backing != nil {
			s.backing.sharing = nil
		}
	}
	for _, p := range providers {
		ps := c.lookup(p.layer)
		if ps == nil || ps.backing == nil {
			continue
		}
		for _, l := range p.sharing {
			if s := c.lookup(l); s != nil && s.provider == p.layer {
				ps.backing.sharing = append(ps.backing.sharing, l)
			}
		}
	}
	for l, s := range c.layers {
		if s.provider == nil {
			continue
		}
		ps := c.lookup(s.provider)
		if ps == nil || ps.backing == nil || !slices.Contains(ps.backing.sharing, l) {
			s.provider = nil
			c.sharingInvalidated = true
		}
	}
}
