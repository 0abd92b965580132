// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"slices"
	"testing"

	"github.com/gogpu/layertree/recording"
)

func mirrorBox() *Box {
	return block("mirror", 10, 10, 50, 50, background(red, func(s *Style) {
		s.Position, s.ZIndex = PositionRelative, Z(1)
		s.Reflection = &Reflection{Direction: ReflectBelow, Offset: 5}
	}))
}

func TestReflectionLayer(t *testing.T) {
	mirror := mirrorBox()
	tree := newTestTree(t, 200, 200, mirror)
	owner := mirror.Layer()

	rl := owner.ReflectionLayer()
	if rl == nil {
		t.Fatal("ReflectionLayer() = nil")
	}
	if !rl.IsReflection() || rl.Kind() != LayerReflection {
		t.Errorf("reflection kind = %v, want reflection", rl.Kind())
	}
	if rl.Parent() != owner {
		t.Errorf("reflection parent = %v, want %v", rl.Parent(), owner)
	}
	if slices.Contains(owner.Children(), rl) {
		t.Error("reflection is listed among the owner's children")
	}
	for _, l := range tree.Root().PositiveZOrderList() {
		if l.IsReflection() {
			t.Error("reflection is in the root's z-order list")
		}
	}
	if got := tree.LayerCount(); got != 3 {
		t.Errorf("LayerCount() = %d, want 3", got)
	}
	if got, want := rl.Renderer().Name(), "mirror::reflection"; got != want {
		t.Errorf("reflection renderer = %q, want %q", got, want)
	}
}

func TestReflectionPaintsOwnerTwice(t *testing.T) {
	tree := newTestTree(t, 200, 200, mirrorBox())
	r := record(t, tree, PaintRequest{})
	reds := 0
	for _, c := range r.Filter(recording.CmdFillRect) {
		if c.(recording.FillRectCommand).Color == red {
			reds++
		}
	}
	if reds != 2 {
		t.Errorf("owner painted %d times, want 2 (content and reflection)", reds)
	}
}

func TestReflectionRemovedWithStyle(t *testing.T) {
	mirror := mirrorBox()
	tree := newTestTree(t, 200, 200, mirror)
	id := mirror.Layer().ReflectionLayer().ID()

	s := mirror.Style().Clone()
	s.Reflection = nil
	mirror.SetStyle(s)
	tree.UpdateLayerPositionsAfterStyleChange()

	if mirror.Layer().ReflectionLayer() != nil {
		t.Error("reflection kept after the style dropped it")
	}
	if tree.Layer(id) != nil {
		t.Error("reflection layer still reachable by ID")
	}
	if got := tree.LayerCount(); got != 2 {
		t.Errorf("LayerCount() = %d, want 2", got)
	}
}
