// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compositing

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/layertree"
)

// Backing is the surface allocated for a composited layer.
type Backing struct {
	// Descriptor describes the surface. The host allocates it on its
	// device; the compositor only tracks it.
	Descriptor BackingDescriptor
	// Reasons are the reasons the layer composites, as of the last Update.
	Reasons Reason

	sharing []*layertree.Layer
}

// SharingLayers returns the layers painting into this backing, in paint
// order.
func (b *Backing) SharingLayers() []*layertree.Layer {
	return append([]*layertree.Layer(nil), b.sharing...)
}

type layerState struct {
	backing  *Backing
	indirect indirectReason
	// provider is the composited layer whose backing this layer paints
	// into, when sharing.
	provider *layertree.Layer

	hasCompositingDescendant bool
}

// Compositor is a reference layertree.Compositor. It decides which layers
// get a backing by walking the layer tree in paint order, the way a
// browser compositor does: some layers composite for direct reasons
// (3D transforms, video, fixed position), others because they would
// otherwise draw on top of a composited layer.
//
// Call Update after the layer positions were updated and before painting.
type Compositor struct {
	tree   *layertree.Tree
	device DeviceProvider
	format gputypes.TextureFormat
	scale  float64

	render3D           bool
	acceleratedFilters bool
	backingSharing     bool

	layers             map[*layertree.Layer]*layerState
	compositingMode    bool
	hierarchyDirty     bool
	sharingInvalidated bool
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithDevice sets the device the backings are described for.
func WithDevice(d DeviceProvider) Option {
	return func(c *Compositor) { c.device = d }
}

// WithDeviceScale sets the device pixel ratio of backings. Default: 1.
func WithDeviceScale(s float64) Option {
	return func(c *Compositor) {
		if s > 0 {
			c.scale = s
		}
	}
}

// With3DTransforms controls whether 3D transforms survive compositing.
// Default: true.
func With3DTransforms(on bool) Option {
	return func(c *Compositor) { c.render3D = on }
}

// WithAcceleratedFilters makes filters a reason to composite and applies
// them on the backing instead of painting them. Default: false.
func WithAcceleratedFilters(on bool) Option {
	return func(c *Compositor) { c.acceleratedFilters = on }
}

// WithBackingSharing enables painting overlapping layers into the backing
// of a composited layer below them. Default: true.
func WithBackingSharing(on bool) Option {
	return func(c *Compositor) { c.backingSharing = on }
}

// New returns a Compositor. Attach it to a tree before use.
func New(opts ...Option) *Compositor {
	c := &Compositor{
		device:         NullDeviceProvider{},
		scale:          1,
		render3D:       true,
		backingSharing: true,
		layers:         make(map[*layertree.Layer]*layerState),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.format = backingFormat(c.device)
	return c
}

// Attach installs c as t's compositor.
func (c *Compositor) Attach(t *layertree.Tree) {
	c.tree = t
	c.hierarchyDirty = true
	t.SetCompositor(c)
}

// Tree returns the attached tree.
func (c *Compositor) Tree() *layertree.Tree { return c.tree }

// Format returns the texture format of backings.
func (c *Compositor) Format() gputypes.TextureFormat { return c.format }

// InCompositingMode reports whether any layer composites. The root layer
// composites exactly when this is true.
func (c *Compositor) InCompositingMode() bool { return c.compositingMode }

func (c *Compositor) state(l *layertree.Layer) *layerState {
	s := c.layers[l]
	if s == nil {
		s = &layerState{}
		c.layers[l] = s
	}
	return s
}

func (c *Compositor) lookup(l *layertree.Layer) *layerState {
	return c.layers[l]
}

// IsComposited implements layertree.Compositor.
func (c *Compositor) IsComposited(l *layertree.Layer) bool {
	s := c.lookup(l)
	return s != nil && s.backing != nil
}

// PaintsIntoProvidedBacking implements layertree.Compositor.
func (c *Compositor) PaintsIntoProvidedBacking(l *layertree.Layer) bool {
	s := c.lookup(l)
	return s != nil && s.provider != nil
}

// HasCompositedFilter implements layertree.Compositor.
func (c *Compositor) HasCompositedFilter(l *layertree.Layer) bool {
	return c.acceleratedFilters && c.IsComposited(l) && l.Renderer().Style().HasFilter()
}

// CanRender3DTransforms implements layertree.Compositor.
func (c *Compositor) CanRender3DTransforms() bool { return c.render3D }

// LayerWasAdded implements layertree.Compositor.
func (c *Compositor) LayerWasAdded(parent, child *layertree.Layer) {
	c.hierarchyDirty = true
	layertree.Logger().Debug("compositing: layer added", "parent", parent.ID(), "layer", child.ID())
}

// LayerWillBeRemoved implements layertree.Compositor. The removed subtree
// loses its backings; it is re-evaluated if it is added again.
func (c *Compositor) LayerWillBeRemoved(parent, child *layertree.Layer) {
	c.hierarchyDirty = true
	c.ClearBackingIncludingDescendants(child)
}

// ClearBackingIncludingDescendants implements layertree.Compositor.
func (c *Compositor) ClearBackingIncludingDescendants(l *layertree.Layer) {
	c.clearBacking(l)
	if r := l.ReflectionLayer(); r != nil {
		c.clearBacking(r)
	}
	for ch := l.FirstChild(); ch != nil; ch = ch.NextSibling() {
		c.ClearBackingIncludingDescendants(ch)
	}
}

func (c *Compositor) clearBacking(l *layertree.Layer) {
	s := c.lookup(l)
	if s == nil {
		return
	}
	if s.backing != nil {
		layertree.Logger().Debug("compositing: backing released", "layer", l.ID())
		for _, shared := range s.backing.sharing {
			if ss := c.lookup(shared); ss != nil && ss.provider == l {
				ss.provider = nil
			}
		}
	}
	if s.provider != nil {
		if ps := c.lookup(s.provider); ps != nil && ps.backing != nil {
			ps.backing.sharing = deleteLayer(ps.backing.sharing, l)
		}
	}
	delete(c.layers, l)
}

// Backing returns l's backing, or nil.
func (c *Compositor) Backing(l *layertree.Layer) *Backing {
	if s := c.lookup(l); s != nil {
		return s.backing
	}
	return nil
}

// BackingProvider returns the layer whose backing l paints into, or nil.
func (c *Compositor) BackingProvider(l *layertree.Layer) *layertree.Layer {
	if s := c.lookup(l); s != nil {
		return s.provider
	}
	return nil
}

// CompositedLayers returns the composited layers in paint order.
func (c *Compositor) CompositedLayers() []*layertree.Layer {
	var out []*layertree.Layer
	if c.tree == nil || c.tree.Root() == nil {
		return nil
	}
	var walk func(l *layertree.Layer)
	walk = func(l *layertree.Layer) {
		for _, ch := range l.NegativeZOrderList() {
			walk(ch)
		}
		if c.IsComposited(l) {
			out = append(out, l)
		}
		for _, ch := range l.NormalFlowList() {
			walk(ch)
		}
		for _, ch := range l.PositiveZOrderList() {
			walk(ch)
		}
	}
	walk(c.tree.Root())
	return out
}

// ReasonsForCompositing returns why l composites, or 0 when it does not.
func (c *Compositor) ReasonsForCompositing(l *layertree.Layer) Reason {
	s := c.lookup(l)
	if s == nil || s.backing == nil {
		return 0
	}
	reasons := c.directReasons(l)
	switch s.indirect {
	case indirectStacking:
		reasons |= ReasonStacking
	case indirectOverlap:
		reasons |= ReasonOverlap
	case indirectBackgroundLayer:
		reasons |= ReasonNegativeZIndexChildren
	case indirectClipping:
		reasons |= ReasonClipsCompositingDescendants
	case indirectPerspective:
		reasons |= ReasonPerspective
	case indirectPreserve3D:
		reasons |= ReasonPreserve3D
	case indirectGraphicalEffect:
		st := l.Renderer().Style()
		if l.HasTransform() {
			reasons |= ReasonTransformWithCompositedDescendants
		}
		if st.HasOpacity() {
			reasons |= ReasonOpacityWithCompositedDescendants
		}
		if st.HasMask {
			reasons |= ReasonMaskWithCompositedDescendants
		}
		if st.Reflection != nil {
			reasons |= ReasonReflectionWithCompositedDescendants
		}
		if st.HasFilter() || st.HasBackdropFilter() {
			reasons |= ReasonFilterWithCompositedDescendants
		}
		if st.IsolatesBlending() {
			reasons |= ReasonIsolatesCompositedBlendingDescendants
		}
		if st.HasBlendMode() {
			reasons |= ReasonBlendingWithCompositedDescendants
		}
		if st.ClipPath != nil {
			reasons |= ReasonClipsCompositingDescendants
		}
	}
	if l.IsRootLayer() && c.compositingMode {
		reasons |= ReasonRoot
	}
	return reasons
}

// directReasons are the reasons that depend on l alone.
func (c *Compositor) directReasons(l *layertree.Layer) Reason {
	r := l.Renderer()
	s := r.Style()
	var reasons Reason
	if c.render3D && s.Has3DTransform() {
		reasons |= ReasonTransform3D
	}
	switch r.Kind() {
	case layertree.RendererVideo:
		reasons |= ReasonVideo
	case layertree.RendererCanvas:
		reasons |= ReasonCanvas
	case layertree.RendererEmbeddedObject:
		reasons |= ReasonPlugin
	case layertree.RendererIFrame:
		reasons |= ReasonIFrame
	}
	if c.render3D && s.BackfaceVisibility == layertree.BackfaceHidden {
		reasons |= ReasonBackfaceVisibilityHidden
	}
	if s.HasBackdropFilter() || (c.acceleratedFilters && s.HasFilter()) {
		reasons |= ReasonFilters
	}
	if s.WillChange&(layertree.WillChangeTransform|layertree.WillChangeOpacity|layertree.WillChangeFilter) != 0 {
		reasons |= ReasonWillChange
	}
	if !l.IsRootLayer() && l.BehavesAsFixed() {
		reasons |= ReasonPositionFixed
	}
	if s.Position == layertree.PositionSticky && l.HasCompositedScrollingAncestor() {
		reasons |= ReasonPositionSticky
	}
	if l.UsesCompositedScrolling() {
		reasons |= ReasonOverflowScrolling
	}
	return reasons
}

// canBeComposited: reflections paint through their owner's backing.
func canBeComposited(l *layertree.Layer) bool {
	return l.IsSelfPaintingLayer() && !l.IsReflection()
}

func mustCompositeForIndirectReasons(r indirectReason) bool {
	return r != indirectNone && r != indirectStacking
}

func (c *Compositor) needsToBeComposited(l *layertree.Layer, s *layerState) bool {
	if !canBeComposited(l) {
		return false
	}
	return c.directReasons(l) != 0 || mustCompositeForIndirectReasons(s.indirect) ||
		(l.IsRootLayer() && c.compositingMode)
}

// computeIndirectReason finds effects of l that must be applied on the
// compositor because descendants composite.
func (c *Compositor) computeIndirectReason(l *layertree.Layer, hasCompositedDescendants, paintsIntoProvidedBacking bool) indirectReason {
	s := l.Renderer().Style()
	if hasCompositedDescendants && (l.HasTransform() || s.HasOpacity() || s.HasMask || s.Reflection != nil ||
		s.HasFilter() || s.HasBackdropFilter() || s.HasBlendMode() || s.IsolatesBlending() || s.ClipPath != nil) {
		return indirectGraphicalEffect
	}
	if l.Has3DTransformedDescendant() {
		if s.Preserves3D() {
			return indirectPreserve3D
		}
		if s.HasPerspective() {
			return indirectPerspective
		}
	}
	if hasCompositedDescendants && !l.IsRootLayer() && s.HasNonVisibleOverflow() {
		return indirectClipping
	}
	return indirectNone
}

func deleteLayer(list []*layertree.Layer, l *layertree.Layer) []*layertree.Layer {
	out := list[:0]
	for _, x := range list {
		if x != l {
			out = append(out, x)
		}
	}
	return out
}
