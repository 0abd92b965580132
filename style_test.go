// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"testing"

	"github.com/gogpu/layertree/graphics"
)

func TestCreatesStackingContext(t *testing.T) {
	tests := []struct {
		name string
		edit func(s *Style)
		want bool
	}{
		{"initial", func(*Style) {}, false},
		{"relative without z-index", func(s *Style) { s.Position = PositionRelative }, false},
		{"relative with z-index", func(s *Style) { s.Position, s.ZIndex = PositionRelative, Z(0) }, true},
		{"static with z-index", func(s *Style) { s.ZIndex = Z(3) }, false},
		{"fixed", func(s *Style) { s.Position = PositionFixed }, true},
		{"sticky", func(s *Style) { s.Position = PositionSticky }, true},
		{"opacity", func(s *Style) { s.Opacity = 0.99 }, true},
		{"transform", func(s *Style) { s.Transform = []TransformOperation{ScaleOp(2, 2)} }, true},
		{"filter", func(s *Style) { s.Filter = []FilterOperation{BlurFilterOp(2)} }, true},
		{"blend mode", func(s *Style) { s.BlendMode = graphics.BlendMultiply }, true},
		{"isolation", func(s *Style) { s.Isolation = IsolationIsolate }, true},
		{"will-change opacity", func(s *Style) { s.WillChange = WillChangeOpacity }, true},
		{"contain paint", func(s *Style) { s.Contain = ContainPaint }, true},
		{"reflection", func(s *Style) { s.Reflection = &Reflection{} }, true},
		{"overflow hidden", overflowHidden, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := styled(tt.edit).CreatesStackingContext(); got != tt.want {
				t.Errorf("CreatesStackingContext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStyleDiff(t *testing.T) {
	tests := []struct {
		name string
		edit func(s *Style)
		want StyleDifference
	}{
		{"equal", func(*Style) {}, StyleDifferenceEqual},
		{"position", func(s *Style) { s.Position = PositionAbsolute }, StyleDifferenceLayout},
		{"overflow", overflowHidden, StyleDifferenceLayout},
		{"reflection added", func(s *Style) { s.Reflection = &Reflection{} }, StyleDifferenceLayout},
		{"offset", func(s *Style) { s.Offset = Point(1, 0) }, StyleDifferenceLayoutPositionedMovementOnly},
		{"z-index", func(s *Style) { s.ZIndex = Z(1) }, StyleDifferenceRepaintLayer},
		{"transform", func(s *Style) { s.Transform = []TransformOperation{TranslateOp(1, 0)} }, StyleDifferenceRepaintLayer},
		{"becomes translucent", func(s *Style) { s.Opacity = 0.5 }, StyleDifferenceRepaintLayer},
		{"visibility", func(s *Style) { s.Visibility = VisibilityHidden }, StyleDifferenceRepaintLayer},
		{"background", func(s *Style) { s.BackgroundColor = red }, StyleDifferenceRepaint},
		{"pointer-events", func(s *Style) { s.PointerEvents = PointerEventsNone }, StyleDifferenceRecompositeLayer},
	}
	base := NewStyle()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Diff(styled(tt.edit)); got != tt.want {
				t.Errorf("Diff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStyleDiffOpacityValue(t *testing.T) {
	a := styled(func(s *Style) { s.Opacity = 0.5 })
	b := styled(func(s *Style) { s.Opacity = 0.25 })
	if got := a.Diff(b); got != StyleDifferenceRecompositeLayer {
		t.Errorf("Diff() = %v, want %v", got, StyleDifferenceRecompositeLayer)
	}
	if got := (*Style)(nil).Diff(a); got != StyleDifferenceLayout {
		t.Errorf("nil.Diff() = %v, want %v", got, StyleDifferenceLayout)
	}
}

func TestStyleCloneIsDeep(t *testing.T) {
	s := styled(func(s *Style) {
		s.Position, s.ZIndex = PositionRelative, Z(4)
		s.Transform = []TransformOperation{TranslateOp(1, 2)}
	})
	c := s.Clone()
	*c.ZIndex = 9
	c.Transform[0] = TranslateOp(5, 5)
	if *s.ZIndex != 4 {
		t.Errorf("original z-index = %d after editing the clone", *s.ZIndex)
	}
	if s.Transform[0] != TranslateOp(1, 2) {
		t.Errorf("original transform = %v after editing the clone", s.Transform[0])
	}
}
