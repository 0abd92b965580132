// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compositing

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/layertree"
)

func newRoot() *layertree.Box {
	root := layertree.NewBox(layertree.RendererView, "view", nil)
	root.SetFrame(layertree.Point(0, 0), layertree.Size(800, 600))
	return root
}

func positioned(name string, z int, x, y, w, h float64, edit func(*layertree.Style)) *layertree.Box {
	s := layertree.NewStyle()
	s.Position = layertree.PositionRelative
	s.ZIndex = layertree.Z(z)
	if edit != nil {
		edit(s)
	}
	b := layertree.NewBox(layertree.RendererBlock, name, s)
	b.SetFrame(layertree.Point(x, y), layertree.Size(w, h))
	return b
}

func transform3D(s *layertree.Style) {
	s.Transform = []layertree.TransformOperation{layertree.RotateXOp(30)}
}

// build attaches a compositor to a tree rooted at root and runs one update.
func build(t *testing.T, root *layertree.Box, opts ...Option) (*layertree.Tree, *Compositor) {
	t.Helper()
	tree := layertree.NewTree(root)
	c := New(opts...)
	c.Attach(tree)
	tree.UpdateLayerPositionsAfterLayout(true, false)
	c.Update()
	return tree, c
}

func names(layers []*layertree.Layer) []string {
	out := make([]string, 0, len(layers))
	for _, l := range layers {
		out = append(out, l.Renderer().Name())
	}
	return out
}

func TestNoCompositingReasons(t *testing.T) {
	root := newRoot()
	root.AppendChild(positioned("a", 1, 10, 10, 100, 100, nil))
	tree, c := build(t, root)

	if c.InCompositingMode() {
		t.Error("InCompositingMode() = true, want false")
	}
	if c.IsComposited(tree.Root()) {
		t.Error("root is composited without composited descendants")
	}
	if got := c.CompositedLayers(); len(got) != 0 {
		t.Errorf("CompositedLayers() = %v, want none", names(got))
	}
}

func TestDirectReasons(t *testing.T) {
	tests := []struct {
		name string
		kind layertree.RendererKind
		edit func(*layertree.Style)
		opts []Option
		want Reason
	}{
		{"3d transform", layertree.RendererBlock, transform3D, nil, ReasonTransform3D},
		{"video", layertree.RendererVideo, nil, nil, ReasonVideo},
		{"canvas", layertree.RendererCanvas, nil, nil, ReasonCanvas},
		{"iframe", layertree.RendererIFrame, nil, nil, ReasonIFrame},
		{"plugin", layertree.RendererEmbeddedObject, nil, nil, ReasonPlugin},
		{"will-change", layertree.RendererBlock, func(s *layertree.Style) {
			s.WillChange = layertree.WillChangeOpacity
		}, nil, ReasonWillChange},
		{"backface hidden", layertree.RendererBlock, func(s *layertree.Style) {
			s.BackfaceVisibility = layertree.BackfaceHidden
		}, nil, ReasonBackfaceVisibilityHidden},
		{"accelerated filter", layertree.RendererBlock, func(s *layertree.Style) {
			s.Filter = []layertree.FilterOperation{layertree.BlurFilterOp(2)}
		}, []Option{WithAcceleratedFilters(true)}, ReasonFilters},
		{"overflow scrolling", layertree.RendererBlock, func(s *layertree.Style) {
			s.OverflowX, s.OverflowY = layertree.OverflowScroll, layertree.OverflowScroll
			s.WillChange = layertree.WillChangeScrollPosition
		}, nil, ReasonOverflowScrolling},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := layertree.NewStyle()
			s.Position = layertree.PositionRelative
			s.ZIndex = layertree.Z(1)
			if tt.edit != nil {
				tt.edit(s)
			}
			b := layertree.NewBox(tt.kind, "b", s)
			b.SetFrame(layertree.Point(10, 10), layertree.Size(100, 50))
			root := newRoot()
			root.AppendChild(b)
			tree, c := build(t, root, tt.opts...)

			l := b.Layer()
			if !c.IsComposited(l) {
				t.Fatalf("layer not composited")
			}
			if got := c.Backing(l).Reasons; got != tt.want {
				t.Errorf("Reasons = %v, want %v", got, tt.want)
			}
			if !c.IsComposited(tree.Root()) {
				t.Error("root not composited in compositing mode")
			}
			if got := c.ReasonsForCompositing(tree.Root()); !got.Has(ReasonRoot) {
				t.Errorf("root reasons = %v, want root", got)
			}
		})
	}
}

func TestFilterNotAcceleratedByDefault(t *testing.T) {
	root := newRoot()
	b := positioned("blur", 1, 0, 0, 50, 50, func(s *layertree.Style) {
		s.Filter = []layertree.FilterOperation{layertree.BlurFilterOp(2)}
	})
	root.AppendChild(b)
	_, c := build(t, root)

	if c.IsComposited(b.Layer()) {
		t.Error("filter composited without accelerated filters")
	}
	if c.HasCompositedFilter(b.Layer()) {
		t.Error("HasCompositedFilter() = true, want false")
	}
}

func TestOverlapCompositing(t *testing.T) {
	root := newRoot()
	a := positioned("a", 1, 0, 0, 100, 100, transform3D)
	b := positioned("b", 2, 50, 50, 100, 100, nil)
	far := positioned("far", 3, 400, 400, 50, 50, nil)
	root.AppendChild(a)
	root.AppendChild(b)
	root.AppendChild(far)
	_, c := build(t, root)

	want := []string{"view", "a", "b"}
	if diff := cmp.Diff(want, names(c.CompositedLayers())); diff != "" {
		t.Errorf("composited layers mismatch (-want +got):\n%s", diff)
	}
	if got := c.ReasonsForCompositing(b.Layer()); got != ReasonOverlap {
		t.Errorf("b reasons = %v, want %v", got, ReasonOverlap)
	}
	if c.IsComposited(far.Layer()) {
		t.Error("non-overlapping layer composited")
	}
}

func TestLayerBelowCompositedLayerStaysInSoftware(t *testing.T) {
	root := newRoot()
	below := positioned("below", 1, 0, 0, 100, 100, nil)
	above := positioned("above", 2, 50, 50, 100, 100, transform3D)
	root.AppendChild(below)
	root.AppendChild(above)
	_, c := build(t, root)

	if c.IsComposited(below.Layer()) {
		t.Error("layer painted before the composited layer was composited")
	}
	if !c.IsComposited(above.Layer()) {
		t.Error("3D transformed layer not composited")
	}
}

func TestNegativeZOrderChildrenComposite(t *testing.T) {
	root := newRoot()
	parent := positioned("parent", 0, 0, 0, 200, 200, nil)
	neg := positioned("neg", -1, 10, 10, 50, 50, transform3D)
	parent.AppendChild(neg)
	root.AppendChild(parent)
	_, c := build(t, root)

	if !c.IsComposited(neg.Layer()) {
		t.Fatal("negative z-order child not composited")
	}
	if got := c.ReasonsForCompositing(parent.Layer()); !got.Has(ReasonNegativeZIndexChildren) {
		t.Errorf("parent reasons = %v, want negative z-index children", got)
	}
}

func TestGraphicalEffectWithCompositedDescendants(t *testing.T) {
	root := newRoot()
	parent := positioned("parent", 1, 0, 0, 200, 200, func(s *layertree.Style) {
		s.Opacity = 0.5
	})
	child := positioned("child", 1, 10, 10, 50, 50, transform3D)
	parent.AppendChild(child)
	root.AppendChild(parent)
	_, c := build(t, root)

	if got := c.ReasonsForCompositing(parent.Layer()); !got.Has(ReasonOpacityWithCompositedDescendants) {
		t.Errorf("parent reasons = %v, want opacity with composited descendants", got)
	}
}

func TestBackingSharing(t *testing.T) {
	root := newRoot()
	scroller := layertree.NewBox(layertree.RendererBlock, "scroller", nil)
	ss := scroller.Style().Clone()
	ss.OverflowX, ss.OverflowY = layertree.OverflowScroll, layertree.OverflowScroll
	ss.WillChange = layertree.WillChangeScrollPosition
	scroller.SetStyle(ss)
	scroller.SetFrame(layertree.Point(0, 0), layertree.Size(300, 300))
	inner := positioned("inner", 1, 20, 20, 50, 50, nil)
	scroller.AppendChild(inner)
	root.AppendChild(scroller)
	_, c := build(t, root)

	if !c.IsComposited(scroller.Layer()) {
		t.Fatal("scroller not composited")
	}
	if c.IsComposited(inner.Layer()) {
		t.Error("inner layer got its own backing, want shared")
	}
	if got := c.BackingProvider(inner.Layer()); got != scroller.Layer() {
		t.Errorf("BackingProvider(inner) = %v, want %v", got, scroller.Layer())
	}
	if !c.PaintsIntoProvidedBacking(inner.Layer()) {
		t.Error("PaintsIntoProvidedBacking(inner) = false, want true")
	}
	if diff := cmp.Diff([]string{"inner"}, names(c.Backing(scroller.Layer()).SharingLayers())); diff != "" {
		t.Errorf("sharing layers mismatch (-want +got):\n%s", diff)
	}
}

func TestBackingSharingDisabled(t *testing.T) {
	root := newRoot()
	scroller := layertree.NewBox(layertree.RendererBlock, "scroller", nil)
	ss := scroller.Style().Clone()
	ss.OverflowX, ss.OverflowY = layertree.OverflowScroll, layertree.OverflowScroll
	ss.WillChange = layertree.WillChangeScrollPosition
	scroller.SetStyle(ss)
	scroller.SetFrame(layertree.Point(0, 0), layertree.Size(300, 300))
	inner := positioned("inner", 1, 20, 20, 50, 50, nil)
	scroller.AppendChild(inner)
	root.AppendChild(scroller)
	_, c := build(t, root, WithBackingSharing(false))

	if c.PaintsIntoProvidedBacking(inner.Layer()) {
		t.Error("layer shares a backing with sharing disabled")
	}
	if !c.IsComposited(inner.Layer()) {
		t.Error("overlapping layer not composited")
	}
}

func TestUpdateClearsFlags(t *testing.T) {
	root := newRoot()
	root.AppendChild(positioned("a", 1, 0, 0, 100, 100, transform3D))
	tree, c := build(t, root)

	if tree.Root().NeedsCompositingUpdate() {
		t.Errorf("root flags = %+v after update, want none", tree.Root().CompositingUpdates())
	}
	if c.Update() {
		t.Error("second Update() = true, want false")
	}
}

func TestStyleChangeRecomposites(t *testing.T) {
	root := newRoot()
	b := positioned("b", 1, 0, 0, 100, 100, nil)
	root.AppendChild(b)
	tree, c := build(t, root)
	if c.IsComposited(b.Layer()) {
		t.Fatal("layer composited before the style change")
	}

	s := b.Style().Clone()
	transform3D(s)
	b.SetStyle(s)
	tree.UpdateLayerPositionsAfterStyleChange()
	if !c.Update() {
		t.Error("Update() = false after gaining a 3D transform, want true")
	}
	if !c.IsComposited(b.Layer()) {
		t.Error("layer not composited after gaining a 3D transform")
	}
}

func TestRemovedLayerLosesBacking(t *testing.T) {
	root := newRoot()
	b := positioned("b", 1, 0, 0, 100, 100, transform3D)
	root.AppendChild(b)
	tree, c := build(t, root)

	l := b.Layer()
	if !c.IsComposited(l) {
		t.Fatal("layer not composited")
	}
	root.RemoveChild(b)
	if c.IsComposited(l) {
		t.Error("removed layer still composited")
	}
	tree.UpdateLayerPositionsAfterLayout(false, false)
	c.Update()
	if c.InCompositingMode() {
		t.Error("InCompositingMode() = true with nothing composited")
	}
	if c.IsComposited(tree.Root()) {
		t.Error("root still composited")
	}
}

func TestLayerIsCompositedAsksCompositor(t *testing.T) {
	root := newRoot()
	b := positioned("b", 1, 0, 0, 100, 100, transform3D)
	root.AppendChild(b)
	tree, c := build(t, root)

	if !tree.Root().IsComposited() || !b.Layer().IsComposited() {
		t.Fatal("layers not composited through the tree")
	}
	if c.Tree() != tree {
		t.Error("Tree() does not return the attached tree")
	}
}

func TestWithout3DTransforms(t *testing.T) {
	root := newRoot()
	b := positioned("b", 1, 0, 0, 100, 100, transform3D)
	root.AppendChild(b)
	_, c := build(t, root, With3DTransforms(false))

	if c.CanRender3DTransforms() {
		t.Error("CanRender3DTransforms() = true, want false")
	}
	if c.IsComposited(b.Layer()) {
		t.Error("3D transform composited without 3D support")
	}
}

func TestBackingDescriptor(t *testing.T) {
	root := newRoot()
	b := positioned("b", 1, 0, 0, 100.5, 40, transform3D)
	root.AppendChild(b)
	_, c := build(t, root, WithDeviceScale(2))

	got := c.Backing(b.Layer()).Descriptor
	if got.Width != 201 || got.Height != 80 {
		t.Errorf("backing size = %dx%d, want 201x80", got.Width, got.Height)
	}
	if got.Format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format = %v, want RGBA8Unorm", got.Format)
	}
}

type bgraDevice struct{ NullDeviceProvider }

func (bgraDevice) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

func TestBackingFormatFollowsDevice(t *testing.T) {
	tests := []struct {
		name string
		dev  gpucontext.DeviceProvider
		want gputypes.TextureFormat
	}{
		{"null device", NullDeviceProvider{}, gputypes.TextureFormatRGBA8Unorm},
		{"bgra surface", bgraDevice{}, gputypes.TextureFormatBGRA8Unorm},
		{"no device", nil, gputypes.TextureFormatRGBA8Unorm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithDevice(tt.dev))
			if got := c.Format(); got != tt.want {
				t.Errorf("Format() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReasonString(t *testing.T) {
	tests := []struct {
		r    Reason
		want string
	}{
		{0, "none"},
		{ReasonVideo, "video"},
		{ReasonTransform3D | ReasonOverlap, "3D transform, overlap"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("Reason(%d).String() = %q, want %q", uint32(tt.r), got, tt.want)
		}
	}
}
