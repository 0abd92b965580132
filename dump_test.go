// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func dumpScene(t *testing.T) *Tree {
	t.Helper()
	return newTestTree(t, 100, 100,
		block("a", 10, 10, 20, 20, positioned(PositionRelative, Z(2))),
		block("n", 0, 0, 10, 10, positioned(PositionRelative, Z(-1))),
	)
}

func TestWritePaintOrderTree(t *testing.T) {
	tree := dumpScene(t)
	var b strings.Builder
	if err := tree.WritePaintOrderTree(&b); err != nil {
		t.Fatalf("WritePaintOrderTree() error = %v", err)
	}
	want := "- negative z-order list\n# normal flow list\n+ positive z-order list\n\n" +
		"  layer#1 (view) normal at (0,0) size 100x100\n" +
		"-   layer#3 (n) normal at (0,0) size 10x10 z=-1\n" +
		"+   layer#2 (a) normal at (10,10) size 20x20 z=2\n"
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Errorf("paint order dump mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteLayerTree(t *testing.T) {
	tree := dumpScene(t)
	var b strings.Builder
	if err := tree.WriteLayerTree(&b); err != nil {
		t.Fatalf("WriteLayerTree() error = %v", err)
	}
	out := b.String()
	if !strings.HasPrefix(out, layerTreeLegend) {
		t.Error("layer tree dump does not start with the legend")
	}
	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, layerTreeLegend+"\n"), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("layer lines = %d, want 3:\n%s", len(lines), out)
	}
	if !strings.HasSuffix(lines[0], " layer#1 (view) normal at (0,0) size 100x100") || lines[0][0] != 'S' {
		t.Errorf("root line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "   layer#2 (a) normal at (10,10) size 20x20 z=2") {
		t.Errorf("child line = %q", lines[1])
	}
}

func TestWriteLayerPositionTree(t *testing.T) {
	tree := dumpScene(t)
	var b strings.Builder
	if err := tree.WriteLayerPositionTree(&b); err != nil {
		t.Fatalf("WriteLayerPositionTree() error = %v", err)
	}
	out := b.String()
	for _, want := range []string{
		"---- ------- layer#1 (view) offset (0,0)",
		"layer#2 (a) offset (10,10)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("position dump does not contain %q:\n%s", want, out)
		}
	}
}

func TestLayerString(t *testing.T) {
	tree := dumpScene(t)
	if got, want := tree.Root().String(), "layer#1 (view)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
