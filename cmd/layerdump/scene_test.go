// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/layertree"
)

const sampleScene = `{
  "viewport": {"width": 200, "height": 100},
  "root": {
    "name": "view",
    "frame": [0, 0, 200, 100],
    "style": {"background": "#fff"},
    "children": [
      {
        "name": "a",
        "frame": [10, 10, 80, 80],
        "style": {"position": "relative", "z": 2, "background": "#ff0000", "opacity": 0.5}
      },
      {
        "name": "b",
        "frame": [100, 10, 80, 80],
        "style": {
          "position": "absolute",
          "z": -1,
          "transform": [{"fn": "rotateX", "args": [30]}],
          "overflow": "hidden",
          "overflowY": "scroll",
          "willChange": ["transform", "scroll-position"],
          "filter": [{"fn": "blur", "args": [4]}, {"fn": "drop-shadow", "args": [1, 2, 3], "color": "#00000080"}]
        }
      }
    ]
  }
}`

func TestDecodeScene(t *testing.T) {
	s, err := decodeScene(strings.NewReader(sampleScene))
	if err != nil {
		t.Fatalf("decodeScene() error = %v", err)
	}
	tree, err := s.build()
	if err != nil {
		t.Fatalf("build() error = %v", err)
	}

	if got := tree.LayerCount(); got != 3 {
		t.Errorf("LayerCount() = %d, want 3", got)
	}
	root := tree.Root()
	if got := root.Renderer().Kind(); got != layertree.RendererView {
		t.Errorf("root kind = %v, want view", got)
	}
	if got := tree.ViewportSize(); got != layertree.Size(200, 100) {
		t.Errorf("ViewportSize() = %v, want 200x100", got)
	}

	a := root.FirstChild()
	b := a.NextSibling()
	if a == nil || b == nil {
		t.Fatal("root layer is missing children")
	}
	as := a.Renderer().Style()
	if as.Position != layertree.PositionRelative || as.ZIndex == nil || *as.ZIndex != 2 || as.Opacity != 0.5 {
		t.Errorf("a style = %v z=%v opacity=%v", as.Position, as.ZIndex, as.Opacity)
	}
	if as.BackgroundColor != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("a background = %v, want opaque red", as.BackgroundColor)
	}

	bs := b.Renderer().Style()
	if bs.OverflowX != layertree.OverflowHidden || bs.OverflowY != layertree.OverflowScroll {
		t.Errorf("b overflow = %v/%v, want hidden/scroll", bs.OverflowX, bs.OverflowY)
	}
	if !bs.Has3DTransform() {
		t.Error("b has no 3D transform")
	}
	wantWill := layertree.WillChangeTransform | layertree.WillChangeScrollPosition
	if bs.WillChange != wantWill {
		t.Errorf("b will-change = %v, want %v", bs.WillChange, wantWill)
	}
	wantFilter := []layertree.FilterOperation{
		layertree.BlurFilterOp(4),
		layertree.DropShadowFilterOp(1, 2, 3, color.RGBA{A: 0x80}),
	}
	if diff := cmp.Diff(wantFilter, bs.Filter); diff != "" {
		t.Errorf("b filter mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"b"}, layerNames(root.NegativeZOrderList())); diff != "" {
		t.Errorf("negative z-order list mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a"}, layerNames(root.PositiveZOrderList())); diff != "" {
		t.Errorf("positive z-order list mismatch (-want +got):\n%s", diff)
	}
}

func layerNames(layers []*layertree.Layer) []string {
	var out []string
	for _, l := range layers {
		out = append(out, l.Renderer().Name())
	}
	return out
}

func TestDecodeSceneErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"no root", `{"viewport": {"width": 10, "height": 10}}`, errNoRoot},
		{"bad position", `{"root": {"children": [{"style": {"position": "floating"}}]}}`, errUnknownName},
		{"bad kind", `{"root": {"children": [{"kind": "marquee"}]}}`, errUnknownName},
		{"bad overflow", `{"root": {"style": {"overflow": "sideways"}}}`, errUnknownName},
		{"bad color", `{"root": {"style": {"background": "red"}}}`, errBadColor},
		{"transform args", `{"root": {"style": {"transform": [{"fn": "skew", "args": [1]}]}}}`, errBadArgs},
		{"filter name", `{"root": {"style": {"filter": [{"fn": "glow", "args": [1]}]}}}`, errUnknownName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := decodeScene(strings.NewReader(tt.input))
			if err == nil {
				_, err = s.build()
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeSceneMalformedJSON(t *testing.T) {
	if _, err := decodeScene(strings.NewReader(`{"root": `)); err == nil {
		t.Error("decodeScene() accepted truncated JSON")
	}
}

func TestLoadSceneWithoutPath(t *testing.T) {
	if _, err := loadScene(""); !errors.Is(err, errNoScene) {
		t.Errorf("loadScene(\"\") error = %v, want %v", err, errNoScene)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#fff", color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{"#102030", color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}},
		{"#10203040", color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
	}
	for _, tt := range tests {
		got, err := parseColor(tt.in)
		if err != nil {
			t.Errorf("parseColor(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "fff", "#ff", "#zzzzzz"} {
		if _, err := parseColor(bad); !errors.Is(err, errBadColor) {
			t.Errorf("parseColor(%q) error = %v, want %v", bad, err, errBadColor)
		}
	}
}
