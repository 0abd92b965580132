// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestZOrderListsSortByZIndex(t *testing.T) {
	tree := newTestTree(t, 400, 400,
		block("p2", 0, 0, 10, 10, positioned(PositionRelative, Z(2))),
		block("n1", 0, 0, 10, 10, positioned(PositionRelative, Z(-1))),
		block("z0a", 0, 0, 10, 10, positioned(PositionRelative, Z(0))),
		block("n3", 0, 0, 10, 10, positioned(PositionAbsolute, Z(-3))),
		block("z0b", 0, 0, 10, 10, positioned(PositionRelative, Z(0))),
	)
	root := tree.Root()

	if diff := cmp.Diff([]string{"z0a", "z0b", "p2"}, layerNames(root.PositiveZOrderList())); diff != "" {
		t.Errorf("positive z-order list mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"n3", "n1"}, layerNames(root.NegativeZOrderList())); diff != "" {
		t.Errorf("negative z-order list mismatch (-want +got):\n%s", diff)
	}
	if root.ZOrderListsDirty() {
		t.Error("z-order lists still dirty after reading them")
	}
}

func TestZIndexIgnoredWithoutPositioning(t *testing.T) {
	clip := block("clip", 0, 0, 10, 10, styled(func(s *Style) {
		s.OverflowX, s.OverflowY = OverflowHidden, OverflowHidden
		s.ZIndex = Z(7)
	}))
	rel := block("rel", 0, 0, 10, 10, positioned(PositionRelative, Z(3)))
	newTestTree(t, 100, 100, clip, rel)

	if got := clip.Layer().ZIndex(); got != 0 {
		t.Errorf("static ZIndex() = %d, want 0", got)
	}
	if got := rel.Layer().ZIndex(); got != 3 {
		t.Errorf("relative ZIndex() = %d, want 3", got)
	}
}

func TestNormalFlowOnlyLayers(t *testing.T) {
	rel := block("rel", 0, 0, 50, 50, positioned(PositionRelative, nil))
	neg := block("neg", 0, 0, 10, 10, positioned(PositionRelative, Z(-1)))
	clip := block("clip", 0, 60, 100, 100, styled(func(s *Style) {
		s.OverflowX, s.OverflowY = OverflowHidden, OverflowHidden
	}), neg)
	tree := newTestTree(t, 400, 400, rel, clip)
	root := tree.Root()

	rl := rel.Layer()
	if rl == nil {
		t.Fatal("relative box has no layer")
	}
	if !rl.IsNormalFlowOnly() || rl.IsSelfPaintingLayer() || rl.IsStackingContext() {
		t.Errorf("rel normalFlowOnly=%v selfPainting=%v stacking=%v, want true false false",
			rl.IsNormalFlowOnly(), rl.IsSelfPaintingLayer(), rl.IsStackingContext())
	}
	if diff := cmp.Diff([]string{"rel"}, layerNames(root.NormalFlowList())); diff != "" {
		t.Errorf("normal flow list mismatch (-want +got):\n%s", diff)
	}

	cl := clip.Layer()
	if cl.IsNormalFlowOnly() || cl.IsStackingContext() {
		t.Errorf("clip normalFlowOnly=%v stacking=%v, want false false", cl.IsNormalFlowOnly(), cl.IsStackingContext())
	}
	if diff := cmp.Diff([]string{"clip"}, layerNames(root.PositiveZOrderList())); diff != "" {
		t.Errorf("positive z-order list mismatch (-want +got):\n%s", diff)
	}
	// A non-stacking clipper does not own z-order lists; its descendants
	// stack in the enclosing context.
	if diff := cmp.Diff([]string{"neg"}, layerNames(root.NegativeZOrderList())); diff != "" {
		t.Errorf("negative z-order list mismatch (-want +got):\n%s", diff)
	}
	if got := cl.NegativeZOrderList(); len(got) != 0 {
		t.Errorf("clip negative list = %v, want empty", layerNames(got))
	}
}

func TestStackingContextChangeMovesDescendants(t *testing.T) {
	child := block("child", 0, 0, 10, 10, positioned(PositionRelative, Z(1)))
	parent := block("parent", 0, 0, 100, 100, positioned(PositionRelative, nil), child)
	tree := newTestTree(t, 200, 200, parent)
	root := tree.Root()

	if diff := cmp.Diff([]string{"child"}, layerNames(root.PositiveZOrderList())); diff != "" {
		t.Fatalf("before: root positive list mismatch (-want +got):\n%s", diff)
	}

	s := parent.Style().Clone()
	s.Opacity = 0.5
	parent.SetStyle(s)

	pl := parent.Layer()
	if !pl.IsStackingContext() || pl.IsNormalFlowOnly() {
		t.Fatalf("parent stacking=%v normalFlowOnly=%v after opacity, want true false",
			pl.IsStackingContext(), pl.IsNormalFlowOnly())
	}
	if diff := cmp.Diff([]string{"parent"}, layerNames(root.PositiveZOrderList())); diff != "" {
		t.Errorf("after: root positive list mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"child"}, layerNames(pl.PositiveZOrderList())); diff != "" {
		t.Errorf("after: parent positive list mismatch (-want +got):\n%s", diff)
	}
	if got := root.NormalFlowList(); len(got) != 0 {
		t.Errorf("root normal flow list = %v, want empty", layerNames(got))
	}
}

func TestInvisibleLayerOmittedFromZOrder(t *testing.T) {
	hidden := block("hidden", 0, 0, 10, 10, styled(func(s *Style) {
		s.Position = PositionRelative
		s.ZIndex = Z(1)
		s.Visibility = VisibilityHidden
	}))
	tree := newTestTree(t, 100, 100, hidden)
	root := tree.Root()

	if got := root.PositiveZOrderList(); len(got) != 0 {
		t.Fatalf("positive list with hidden layer = %v, want empty", layerNames(got))
	}
	if hidden.Layer().HasVisibleContent() {
		t.Error("hidden layer reports visible content")
	}

	s := hidden.Style().Clone()
	s.Visibility = VisibilityVisible
	hidden.SetStyle(s)

	if diff := cmp.Diff([]string{"hidden"}, layerNames(root.PositiveZOrderList())); diff != "" {
		t.Errorf("positive list after showing mismatch (-want +got):\n%s", diff)
	}
}

func TestTopLayerPaintsLast(t *testing.T) {
	dialog := block("dialog", 0, 0, 50, 50, nil)
	front := block("front", 0, 0, 50, 50, positioned(PositionRelative, Z(100)))
	tree := newTestTree(t, 100, 100, dialog, front)
	root := tree.Root()

	if dialog.Layer() != nil {
		t.Fatal("static block has a layer before promotion")
	}
	tree.AddToTopLayer(dialog)
	if dialog.Layer() == nil {
		t.Fatal("top layer renderer has no layer")
	}
	if !dialog.Layer().IsStackingContext() {
		t.Error("top layer is not a stacking context")
	}
	if diff := cmp.Diff([]string{"front", "dialog"}, layerNames(root.PositiveZOrderList())); diff != "" {
		t.Errorf("positive list mismatch (-want +got):\n%s", diff)
	}

	tree.RemoveFromTopLayer(dialog)
	if dialog.Layer() != nil {
		t.Error("layer kept after leaving the top layer")
	}
	if diff := cmp.Diff([]string{"front"}, layerNames(root.PositiveZOrderList())); diff != "" {
		t.Errorf("positive list after removal mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveChildDestroysLayers(t *testing.T) {
	inner := block("inner", 0, 0, 10, 10, positioned(PositionAbsolute, Z(1)))
	outer := block("outer", 0, 0, 50, 50, positioned(PositionRelative, Z(1)), inner)
	tree := newTestTree(t, 100, 100, outer)

	if got := tree.LayerCount(); got != 3 {
		t.Fatalf("LayerCount() = %d, want 3", got)
	}
	id := inner.Layer().ID()

	outer.ParentBox().RemoveChild(outer)

	if got := tree.LayerCount(); got != 1 {
		t.Errorf("LayerCount() after removal = %d, want 1", got)
	}
	if tree.Layer(id) != nil {
		t.Error("removed descendant layer is still reachable by ID")
	}
	if got := tree.Root().PositiveZOrderList(); len(got) != 0 {
		t.Errorf("positive list after removal = %v, want empty", layerNames(got))
	}
}

func TestSelfPaintingLayerKinds(t *testing.T) {
	scroller := func(f func(s *Style)) *Style {
		return styled(func(s *Style) {
			s.OverflowX, s.OverflowY = OverflowScroll, OverflowScroll
			f(s)
		})
	}
	tests := []struct {
		name           string
		kind           RendererKind
		style          *Style
		normalFlowOnly bool
		selfPainting   bool
	}{
		{"canvas", RendererCanvas, nil, false, true},
		{"video", RendererVideo, nil, false, true},
		{"embedded object", RendererEmbeddedObject, nil, false, true},
		{"iframe", RendererIFrame, nil, false, true},
		{"table row", RendererTableRow, nil, true, true},
		{"multicolumn flow", RendererMultiColumnFlow, nil, false, true},
		{"overlay scrollbars", RendererBlock, scroller(func(s *Style) { s.OverlayScrollbars = true }), false, true},
		{"composited scrolling", RendererBlock, scroller(func(s *Style) { s.WillChange = WillChangeScrollPosition }), false, true},
		{"relative block", RendererBlock, positioned(PositionRelative, nil), true, false},
		{"relative canvas", RendererCanvas, positioned(PositionRelative, nil), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBox(tt.kind, "box", tt.style)
			b.SetFrame(Point(0, 0), Size(40, 40))
			newTestTree(t, 100, 100, b)

			l := b.Layer()
			if l == nil {
				t.Fatal("no layer")
			}
			if got := l.IsNormalFlowOnly(); got != tt.normalFlowOnly {
				t.Errorf("IsNormalFlowOnly() = %v, want %v", got, tt.normalFlowOnly)
			}
			if got := l.IsSelfPaintingLayer(); got != tt.selfPainting {
				t.Errorf("IsSelfPaintingLayer() = %v, want %v", got, tt.selfPainting)
			}
			if tt.kind == RendererBlock && tt.style.HasScrollableOverflow() {
				if got := l.UsesCompositedScrolling(); got != (tt.name == "composited scrolling") {
					t.Errorf("UsesCompositedScrolling() = %v", got)
				}
			}
		})
	}
}

func TestAutoZIndexPositionedBoxDoesNotStack(t *testing.T) {
	neg := block("neg", 0, 0, 10, 10, positioned(PositionAbsolute, Z(-1)))
	rel := block("rel", 0, 0, 50, 50, positioned(PositionRelative, nil), neg)
	tree := newTestTree(t, 100, 100, rel)
	root := tree.Root()

	rl := rel.Layer()
	if rl.IsStackingContext() || !rl.IsNormalFlowOnly() {
		t.Errorf("rel stacking=%v normalFlowOnly=%v, want false true", rl.IsStackingContext(), rl.IsNormalFlowOnly())
	}
	if diff := cmp.Diff([]string{"neg"}, layerNames(root.NegativeZOrderList())); diff != "" {
		t.Errorf("root negative list mismatch (-want +got):\n%s", diff)
	}
	if got := rl.NegativeZOrderList(); len(got) != 0 {
		t.Errorf("rel negative list = %v, want empty", layerNames(got))
	}

	// Giving rel a z-index pulls neg into rel's own context.
	s := rel.Style().Clone()
	s.ZIndex = Z(0)
	rel.SetStyle(s)
	if got := root.NegativeZOrderList(); len(got) != 0 {
		t.Errorf("root negative list after z-index = %v, want empty", layerNames(got))
	}
	if diff := cmp.Diff([]string{"neg"}, layerNames(rl.NegativeZOrderList())); diff != "" {
		t.Errorf("rel negative list mismatch (-want +got):\n%s", diff)
	}
}

func TestDestroyedLayerRevealsHiddenParentContent(t *testing.T) {
	child := block("child", 0, 0, 40, 40, background(blue, func(s *Style) {
		s.Position, s.ZIndex = PositionAbsolute, Z(0)
		s.Visibility = VisibilityHidden
	}))
	parent := block("parent", 0, 0, 100, 100, styled(func(s *Style) {
		s.Position, s.ZIndex = PositionRelative, Z(0)
		s.Visibility = VisibilityHidden
	}), child)
	tree := newTestTree(t, 200, 200, parent)
	root := tree.Root()

	if got := root.PositiveZOrderList(); len(got) != 0 {
		t.Fatalf("positive list with hidden content = %v, want empty", layerNames(got))
	}

	// child loses its layer and now paints as visible content of parent.
	s := child.Style().Clone()
	s.Position, s.ZIndex = PositionStatic, nil
	s.Visibility = VisibilityVisible
	child.SetStyle(s)
	tree.UpdateLayerPositionsAfterStyleChange()

	if child.Layer() != nil {
		t.Fatal("static child kept its layer")
	}
	if !parent.Layer().HasVisibleContent() {
		t.Error("parent does not report the visible child content")
	}
	if diff := cmp.Diff([]string{"parent"}, layerNames(root.PositiveZOrderList())); diff != "" {
		t.Errorf("root positive list mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]color.RGBA{blue}, fillColors(record(t, tree, PaintRequest{}))); diff != "" {
		t.Errorf("fills mismatch (-want +got):\n%s", diff)
	}
}

func TestCreatedLayerHidesContentFromParent(t *testing.T) {
	child := block("child", 0, 0, 40, 40, background(blue, nil))
	parent := block("parent", 0, 0, 100, 100, styled(func(s *Style) {
		s.Position, s.ZIndex = PositionRelative, Z(0)
		s.Visibility = VisibilityHidden
	}), child)
	tree := newTestTree(t, 200, 200, parent)
	root := tree.Root()

	if diff := cmp.Diff([]string{"parent"}, layerNames(root.PositiveZOrderList())); diff != "" {
		t.Fatalf("root positive list mismatch (-want +got):\n%s", diff)
	}

	s := child.Style().Clone()
	s.Position, s.ZIndex = PositionAbsolute, Z(0)
	s.Visibility = VisibilityHidden
	child.SetStyle(s)
	tree.UpdateLayerPositionsAfterStyleChange()

	if parent.Layer().HasVisibleContent() {
		t.Error("parent still reports content that moved to the child layer")
	}
	if got := root.PositiveZOrderList(); len(got) != 0 {
		t.Errorf("root positive list = %v, want empty", layerNames(got))
	}
	if got := fillColors(record(t, tree, PaintRequest{})); len(got) != 0 {
		t.Errorf("fills = %v, want none", got)
	}
}
