// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"testing"

	"github.com/gogpu/layertree/recording"
)

// columnScene lays out a two-column flow of 100x100 columns with a 20px
// gap. item spans the bottom of the first column and the top of the
// second.
func columnScene(t *testing.T) (*Tree, *Box, *Box) {
	t.Helper()
	item := block("item", 0, 80, 50, 40, background(red, func(s *Style) {
		s.Position, s.ZIndex = PositionRelative, Z(1)
	}))
	mc := NewBox(RendererMultiColumnFlow, "mc", styled(func(s *Style) {
		s.ColumnCount = 2
		s.ColumnGap = 20
	}))
	mc.SetFrame(LayoutPoint{}, Size(220, 100))
	mc.AppendChild(item)
	return newTestTree(t, 400, 400, mc), mc, item
}

func TestColumnSetGeometry(t *testing.T) {
	_, mc, _ := columnScene(t)
	cs, ok := mc.Columns()
	if !ok {
		t.Fatal("Columns() = false for a multi-column flow")
	}
	want := ColumnSet{Count: 2, Width: Unit(100), Gap: Unit(20), Height: Unit(100)}
	if cs != want {
		t.Errorf("Columns() = %+v, want %+v", cs, want)
	}
	if got, want := cs.ColumnRect(1), Rect(120, 0, 100, 100); got != want {
		t.Errorf("ColumnRect(1) = %v, want %v", got, want)
	}
	if got, want := cs.Translation(1), Point(120, -100); got != want {
		t.Errorf("Translation(1) = %v, want %v", got, want)
	}
}

func TestLayerInColumnsIsFragmented(t *testing.T) {
	tree, mc, item := columnScene(t)

	if got := item.Layer().EnclosingPaginationLayer(); got != mc.Layer() {
		t.Fatalf("EnclosingPaginationLayer() = %v, want %v", got, mc.Layer())
	}
	if !item.Layer().HasPaginatedAncestor() {
		t.Error("HasPaginatedAncestor() = false")
	}

	r := record(t, tree, PaintRequest{})
	reds := 0
	for _, c := range r.Filter(recording.CmdFillRect) {
		if c.(recording.FillRectCommand).Color == red {
			reds++
		}
	}
	if reds != 2 {
		t.Errorf("item painted %d times, want once per column", reds)
	}
}

func TestHitTestInColumns(t *testing.T) {
	tree, _, _ := columnScene(t)
	tests := []struct {
		name string
		x, y float64
		want string
	}{
		{"first column", 10, 90, "item"},
		{"second column", 130, 10, "item"},
		{"column gap", 110, 10, "mc"},
		{"above item", 10, 50, "mc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hitName(t, tree, HitTestRequest{Type: HitTestReadOnly}, tt.x, tt.y); got != tt.want {
				t.Errorf("hit %q, want %q", got, tt.want)
			}
		})
	}
}
