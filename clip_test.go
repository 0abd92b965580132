// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"testing"
)

func overflowHidden(s *Style) {
	s.OverflowX, s.OverflowY = OverflowHidden, OverflowHidden
}

func TestBackgroundClipChannels(t *testing.T) {
	rel := block("rel", 0, 0, 300, 300, positioned(PositionRelative, Z(1)))
	abs := block("abs", 0, 0, 300, 300, positioned(PositionAbsolute, Z(1)))
	fixed := block("fixed", 0, 0, 300, 300, positioned(PositionFixed, nil))
	clipper := block("clipper", 10, 10, 100, 100, styled(overflowHidden), rel, abs, fixed)
	newTestTree(t, 400, 400, clipper)

	ctx := ClipRectsContext{RootLayer: clipper.Layer().Tree().Root(), Type: RootRelativeClipRects}
	tests := []struct {
		name string
		box  *Box
		want ClipRect
	}{
		{"in-flow clipped", rel, ClipRect{Rect: Rect(10, 10, 100, 100)}},
		// A static clipper is not the containing block of either.
		{"absolute escapes", abs, ClipRect{Rect: Rect(0, 0, 400, 400)}},
		{"fixed escapes", fixed, ClipRect{Rect: Rect(0, 0, 400, 400)}},
		{"clipper itself", clipper, ClipRect{Rect: Rect(0, 0, 400, 400)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.Layer().BackgroundClipRect(ctx); got != tt.want {
				t.Errorf("BackgroundClipRect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPositionedClipperContainsAbsolute(t *testing.T) {
	abs := block("abs", 0, 0, 300, 300, positioned(PositionAbsolute, Z(1)))
	clipper := block("clipper", 10, 10, 100, 100, styled(func(s *Style) {
		overflowHidden(s)
		s.Position = PositionRelative
	}), abs)
	tree := newTestTree(t, 400, 400, clipper)

	ctx := ClipRectsContext{RootLayer: tree.Root(), Type: PaintingClipRects}
	want := ClipRect{Rect: Rect(10, 10, 100, 100)}
	if got := abs.Layer().BackgroundClipRect(ctx); got != want {
		t.Errorf("BackgroundClipRect() = %v, want %v", got, want)
	}
}

func TestNestedClipsIntersect(t *testing.T) {
	leaf := block("leaf", 0, 0, 500, 500, positioned(PositionRelative, Z(1)))
	c2 := block("c2", 100, 100, 300, 300, styled(overflowHidden), leaf)
	c1 := block("c1", 0, 0, 300, 300, styled(overflowHidden), c2)
	tree := newTestTree(t, 400, 400, c1)

	ctx := ClipRectsContext{RootLayer: tree.Root(), Type: RootRelativeClipRects}
	want := ClipRect{Rect: Rect(100, 100, 200, 200)}
	if got := leaf.Layer().BackgroundClipRect(ctx); got != want {
		t.Errorf("BackgroundClipRect() = %v, want %v", got, want)
	}

	// Each level can only shrink what its parent hands down.
	parent := c2.Layer().ClipRects(ctx)
	child := leaf.Layer().ClipRects(ctx)
	if child.OverflowClipRect.Rect.Intersect(parent.OverflowClipRect.Rect) != child.OverflowClipRect.Rect {
		t.Errorf("child overflow clip %v escapes parent %v", child.OverflowClipRect, parent.OverflowClipRect)
	}
}

func TestTemporaryClipRectsMatchCached(t *testing.T) {
	leaf := block("leaf", 0, 0, 500, 500, positioned(PositionRelative, Z(1)))
	c := block("c", 20, 20, 100, 100, styled(overflowHidden), leaf)
	tree := newTestTree(t, 400, 400, c)

	cached := leaf.Layer().ClipRects(ClipRectsContext{RootLayer: tree.Root(), Type: PaintingClipRects})
	temp := leaf.Layer().ClipRects(ClipRectsContext{RootLayer: tree.Root(), Type: TemporaryClipRects})
	if cached != temp {
		t.Errorf("temporary clip rects %+v differ from cached %+v", temp, cached)
	}
}

func TestClipRectsInvalidatedByLayout(t *testing.T) {
	rel := block("rel", 0, 0, 300, 300, positioned(PositionRelative, Z(1)))
	clipper := block("clipper", 10, 10, 100, 100, styled(overflowHidden), rel)
	tree := newTestTree(t, 400, 400, clipper)

	ctx := ClipRectsContext{RootLayer: tree.Root(), Type: PaintingClipRects}
	if got, want := rel.Layer().BackgroundClipRect(ctx), (ClipRect{Rect: Rect(10, 10, 100, 100)}); got != want {
		t.Fatalf("BackgroundClipRect() = %v, want %v", got, want)
	}

	clipper.SetFrame(Point(20, 20), Size(50, 50))
	tree.UpdateLayerPositionsAfterLayout(false, false)

	if got, want := rel.Layer().BackgroundClipRect(ctx), (ClipRect{Rect: Rect(20, 20, 50, 50)}); got != want {
		t.Errorf("BackgroundClipRect() after layout = %v, want %v", got, want)
	}
}

func TestIgnoreOverflowClipOfRoot(t *testing.T) {
	rel := block("rel", 0, 0, 300, 300, positioned(PositionRelative, Z(1)))
	clipper := block("clipper", 10, 10, 100, 100, styled(overflowHidden), rel)
	newTestTree(t, 400, 400, clipper)

	ctx := ClipRectsContext{RootLayer: clipper.Layer(), Type: TemporaryClipRects, IgnoreOverflowClip: true}
	if got := rel.Layer().BackgroundClipRect(ctx); !got.IsInfinite() {
		t.Errorf("BackgroundClipRect() ignoring the root's clip = %v, want infinite", got)
	}

	ctx.IgnoreOverflowClip = false
	if got, want := rel.Layer().BackgroundClipRect(ctx), (ClipRect{Rect: Rect(0, 0, 100, 100)}); got != want {
		t.Errorf("BackgroundClipRect() in clipper space = %v, want %v", got, want)
	}
}

func TestClipRectIntersect(t *testing.T) {
	inf := InfiniteClipRect()
	r := ClipRect{Rect: Rect(0, 0, 10, 10)}
	rounded := ClipRect{Rect: Rect(5, 5, 10, 10), AffectedByRadius: true}

	if got := inf.Intersect(r); got != r {
		t.Errorf("InfiniteClipRect().Intersect(r) = %v, want %v", got, r)
	}
	if got := r.Intersect(inf); got != r {
		t.Errorf("r.Intersect(InfiniteClipRect()) = %v, want %v", got, r)
	}
	got := r.Intersect(rounded)
	want := ClipRect{Rect: Rect(5, 5, 5, 5), AffectedByRadius: true}
	if got != want {
		t.Errorf("r.Intersect(rounded) = %v, want %v", got, want)
	}
	if !inf.Move(Point(3, 3)).IsInfinite() {
		t.Error("moved infinite clip is no longer infinite")
	}
}
