// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"testing"

	"github.com/gogpu/layertree/graphics"
)

func viewBox(w, h float64) *Box {
	view := NewBox(RendererView, "view", nil)
	view.SetFrame(LayoutPoint{}, Size(w, h))
	return view
}

func TestDefaultOptions(t *testing.T) {
	tree := NewTree(viewBox(300, 200))

	if got, want := tree.snapper, PixelSnapper(RoundHalfUpSnapper{Scale: 1}); got != want {
		t.Errorf("snapper = %v, want %v", got, want)
	}
	if tree.Compositor() != nil {
		t.Errorf("Compositor() = %v, want nil", tree.Compositor())
	}
	if tree.AssertionsEnabled() {
		t.Error("AssertionsEnabled() = true by default")
	}
	if got, want := tree.ViewportSize(), Size(300, 200); got != want {
		t.Errorf("ViewportSize() = %v, want %v", got, want)
	}
}

func TestTreeOptions(t *testing.T) {
	fc := &fakeCompositor{composited: map[*Layer]bool{}}
	snapper := RoundHalfUpSnapper{Scale: 2}
	tree := NewTree(viewBox(300, 200),
		WithCompositor(fc),
		WithPixelSnapper(snapper),
		WithAssertions(true),
		WithViewportSize(640, 480),
	)

	if tree.Compositor() != fc {
		t.Errorf("Compositor() = %v, want the configured compositor", tree.Compositor())
	}
	if tree.snapper != PixelSnapper(snapper) {
		t.Errorf("snapper = %v, want %v", tree.snapper, snapper)
	}
	if !tree.AssertionsEnabled() {
		t.Error("AssertionsEnabled() = false")
	}
	if got, want := tree.ViewportSize(), Size(640, 480); got != want {
		t.Errorf("ViewportSize() = %v, want %v", got, want)
	}
}

func TestWithPixelSnapperNilKeepsDefault(t *testing.T) {
	tree := NewTree(viewBox(10, 10), WithPixelSnapper(nil))
	if tree.snapper == nil {
		t.Fatal("snapper = nil")
	}
	if got, want := tree.snapper, PixelSnapper(RoundHalfUpSnapper{Scale: 1}); got != want {
		t.Errorf("snapper = %v, want %v", got, want)
	}
}

func TestRoundHalfUpSnapper(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		in    LayoutRect
		want  graphics.FloatRect
	}{
		{"integral", 1, Rect(1, 2, 3, 4), graphics.NewRect(1, 2, 3, 4)},
		{"halves round up", 1, Rect(0.5, 1.5, 10, 10), graphics.NewRect(1, 2, 10, 10)},
		{"edges snap independently", 1, Rect(0.25, 0, 10.5, 1), graphics.NewRect(0, 0, 11, 1)},
		{"device scale", 2, Rect(0.25, 0, 10, 10), graphics.NewRect(0.5, 0, 10, 10)},
		{"zero scale is one", 0, Rect(0.5, 0, 1, 1), graphics.NewRect(1, 0, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := RoundHalfUpSnapper{Scale: tt.scale}
			if got := s.SnapRect(tt.in); got != tt.want {
				t.Errorf("SnapRect(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
