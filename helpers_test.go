// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"image/color"
	"testing"

	"github.com/gogpu/layertree/recording"
)

var (
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.RGBA{R: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
	blue  = color.RGBA{B: 0xff, A: 0xff}
)

// styled returns the initial style modified by f.
func styled(f func(s *Style)) *Style {
	s := NewStyle()
	if f != nil {
		f(s)
	}
	return s
}

// positioned is a style with the given position scheme and z-index.
func positioned(p Position, z *int) *Style {
	return styled(func(s *Style) {
		s.Position = p
		s.ZIndex = z
	})
}

// block returns a box with a frame and children.
func block(name string, x, y, w, h float64, s *Style, children ...*Box) *Box {
	b := NewBox(RendererBlock, name, s)
	b.SetFrame(Point(x, y), Size(w, h))
	for _, c := range children {
		b.AppendChild(c)
	}
	return b
}

// newTestTree builds a tree for a w x h view and runs the first position
// update.
func newTestTree(t *testing.T, w, h float64, children ...*Box) *Tree {
	t.Helper()
	view := NewBox(RendererView, "view", nil)
	view.SetFrame(LayoutPoint{}, Size(w, h))
	for _, c := range children {
		view.AppendChild(c)
	}
	tree := NewTree(view, WithAssertions(true))
	tree.UpdateLayerPositionsAfterLayout(true, false)
	return tree
}

func layerNames(layers []*Layer) []string {
	var out []string
	for _, l := range layers {
		out = append(out, l.Renderer().Name())
	}
	return out
}

// record paints tree into a recorder of the view's size.
func record(t *testing.T, tree *Tree, req PaintRequest) *recording.Recording {
	t.Helper()
	size := tree.ViewportSize()
	rec := recording.NewRecorder(int(UnitToFloat(size.W)), int(UnitToFloat(size.H)))
	req.Context = rec
	tree.Paint(req)
	if d := rec.SaveDepth(); d != 0 {
		t.Errorf("SaveDepth() after paint = %d, want 0", d)
	}
	if d := rec.GroupDepth(); d != 0 {
		t.Errorf("GroupDepth() after paint = %d, want 0", d)
	}
	return rec.FinishRecording()
}

// fillColors lists the colors of the recorded FillRect commands in order.
func fillColors(r *recording.Recording) []color.RGBA {
	var out []color.RGBA
	for _, c := range r.Filter(recording.CmdFillRect) {
		out = append(out, c.(recording.FillRectCommand).Color)
	}
	return out
}
