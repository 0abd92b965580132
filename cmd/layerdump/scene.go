// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/gogpu/layertree"
	"github.com/gogpu/layertree/graphics"
)

var (
	errNoScene     = errors.New("no scene file given")
	errNoRoot      = errors.New("scene has no root box")
	errUnknownName = errors.New("unknown keyword")
	errBadArgs     = errors.New("wrong number of arguments")
	errBadColor    = errors.New("malformed color")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// scene is the on-disk description of a box tree.
//
//	{
//	  "viewport": {"width": 800, "height": 600},
//	  "root": {"name": "view", "frame": [0, 0, 800, 600], "children": [...]}
//	}
type scene struct {
	Viewport *viewportSpec `json:"viewport"`
	Root     *boxSpec      `json:"root"`
}

type viewportSpec struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type boxSpec struct {
	Name     string      `json:"name"`
	Kind     string      `json:"kind"`
	Frame    [4]float64  `json:"frame"`
	Scroll   [2]float64  `json:"scroll"`
	Overflow *[4]float64 `json:"overflow"`
	TopLayer bool        `json:"topLayer"`
	Style    styleSpec   `json:"style"`
	Children []*boxSpec  `json:"children"`
}

type styleSpec struct {
	Position string      `json:"position"`
	Z        *int        `json:"z"`
	Offset   [2]float64  `json:"offset"`
	Opacity  *float64    `json:"opacity"`
	Blend    string      `json:"blend"`
	Isolate  bool        `json:"isolate"`
	Clip     *[4]float64 `json:"clip"`

	Transform       []functionSpec `json:"transform"`
	TransformOrigin *[2]float64    `json:"transformOrigin"`
	Preserve3D      bool           `json:"preserve3d"`
	Perspective     float64        `json:"perspective"`
	BackfaceHidden  bool           `json:"backfaceHidden"`

	Filter         []functionSpec `json:"filter"`
	BackdropFilter []functionSpec `json:"backdropFilter"`
	Mask           bool           `json:"mask"`
	ClipPathInset  *[4]float64    `json:"clipPathInset"`
	Reflect        string         `json:"reflect"`

	Overflow  string   `json:"overflow"`
	OverflowX string   `json:"overflowX"`
	OverflowY string   `json:"overflowY"`
	Overlay   bool     `json:"overlayScrollbars"`
	Resize    string   `json:"resize"`
	Hidden    bool     `json:"hidden"`
	NoPointer bool     `json:"noPointerEvents"`
	Contain   []string `json:"contain"`

	WillChange         []string `json:"willChange"`
	ViewTransitionName string   `json:"viewTransitionName"`
	Float              bool     `json:"float"`
	Columns            int      `json:"columns"`
	ColumnGap          float64  `json:"columnGap"`

	Background   string  `json:"background"`
	Border       string  `json:"border"`
	BorderWidth  float64 `json:"borderWidth"`
	BorderRadius float64 `json:"borderRadius"`
	Outline      string  `json:"outline"`
	OutlineWidth float64 `json:"outlineWidth"`
	Color        string  `json:"color"`
}

// functionSpec is one CSS transform or filter function: a name and its
// numeric arguments. Drop shadows carry their color separately.
type functionSpec struct {
	Fn    string    `json:"fn"`
	Args  []float64 `json:"args"`
	Color string    `json:"color"`
}

func loadScene(path string) (*scene, error) {
	if path == "" {
		return nil, errNoScene
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()
	return decodeScene(f)
}

func decodeScene(r io.Reader) (*scene, error) {
	var s scene
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if s.Root == nil {
		return nil, errNoRoot
	}
	return &s, nil
}

// build creates the box tree and its layer tree. Layer positions are
// brought up to date before returning.
func (s *scene) build(opts ...layertree.TreeOption) (*layertree.Tree, error) {
	var topLayer []*layertree.Box
	root, err := s.Root.build(layertree.RendererView, &topLayer)
	if err != nil {
		return nil, err
	}
	if s.Viewport != nil {
		opts = append(opts, layertree.WithViewportSize(s.Viewport.Width, s.Viewport.Height))
	}
	tree := layertree.NewTree(root, opts...)
	for _, b := range topLayer {
		tree.AddToTopLayer(b)
	}
	tree.UpdateLayerPositionsAfterLayout(true, false)
	return tree, nil
}

func (b *boxSpec) build(defaultKind layertree.RendererKind, topLayer *[]*layertree.Box) (*layertree.Box, error) {
	kind := defaultKind
	if b.Kind != "" {
		k, err := parseKeyword("kind", b.Kind, layertree.RendererReplica)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	style, err := b.Style.style()
	if err != nil {
		return nil, fmt.Errorf("box %q: %w", b.Name, err)
	}
	box := layertree.NewBox(kind, b.Name, style)
	box.SetFrame(layertree.Point(b.Frame[0], b.Frame[1]), layertree.Size(b.Frame[2], b.Frame[3]))
	if b.Overflow != nil {
		box.SetVisualOverflow(layertree.Rect(b.Overflow[0], b.Overflow[1], b.Overflow[2], b.Overflow[3]))
	}
	box.SetScrollPosition(layertree.Point(b.Scroll[0], b.Scroll[1]))
	if b.TopLayer {
		*topLayer = append(*topLayer, box)
	}
	for _, c := range b.Children {
		child, err := c.build(layertree.RendererBlock, topLayer)
		if err != nil {
			return nil, err
		}
		box.AppendChild(child)
	}
	return box, nil
}

func (sp *styleSpec) style() (*layertree.Style, error) {
	s := layertree.NewStyle()
	var err error
	if sp.Position != "" {
		if s.Position, err = parseKeyword("position", sp.Position, layertree.PositionSticky); err != nil {
			return nil, err
		}
	}
	s.ZIndex = sp.Z
	s.Offset = layertree.Point(sp.Offset[0], sp.Offset[1])
	if sp.Opacity != nil {
		s.Opacity = *sp.Opacity
	}
	if sp.Blend != "" {
		mode, ok := graphics.ParseBlendMode(sp.Blend)
		if !ok {
			return nil, fmt.Errorf("blend %q: %w", sp.Blend, errUnknownName)
		}
		s.BlendMode = mode
	}
	if sp.Isolate {
		s.Isolation = layertree.IsolationIsolate
	}
	if sp.Clip != nil {
		r := layertree.Rect(sp.Clip[0], sp.Clip[1], sp.Clip[2], sp.Clip[3])
		s.Clip = &r
	}

	for _, fn := range sp.Transform {
		op, err := fn.transform()
		if err != nil {
			return nil, err
		}
		s.Transform = append(s.Transform, op)
	}
	if sp.TransformOrigin != nil {
		s.TransformOrigin = graphics.Pt(sp.TransformOrigin[0], sp.TransformOrigin[1])
	}
	if sp.Preserve3D {
		s.TransformStyle = layertree.TransformStylePreserve3D
	}
	s.Perspective = sp.Perspective
	if sp.BackfaceHidden {
		s.BackfaceVisibility = layertree.BackfaceHidden
	}

	if s.Filter, err = filters(sp.Filter); err != nil {
		return nil, err
	}
	if s.BackdropFilter, err = filters(sp.BackdropFilter); err != nil {
		return nil, err
	}
	s.HasMask = sp.Mask
	if sp.ClipPathInset != nil {
		in := sp.ClipPathInset
		s.ClipPath = &layertree.InsetClipPath{Top: in[0], Right: in[1], Bottom: in[2], Left: in[3]}
	}
	if sp.Reflect != "" {
		dir, ok := reflectDirections[sp.Reflect]
		if !ok {
			return nil, fmt.Errorf("reflect %q: %w", sp.Reflect, errUnknownName)
		}
		s.Reflection = &layertree.Reflection{Direction: dir}
	}

	if s.OverflowX, err = parseOverflow(sp.Overflow, sp.OverflowX); err != nil {
		return nil, err
	}
	if s.OverflowY, err = parseOverflow(sp.Overflow, sp.OverflowY); err != nil {
		return nil, err
	}
	s.OverlayScrollbars = sp.Overlay
	if sp.Resize != "" {
		r, ok := resizeValues[sp.Resize]
		if !ok {
			return nil, fmt.Errorf("resize %q: %w", sp.Resize, errUnknownName)
		}
		s.Resize = r
	}
	if sp.Hidden {
		s.Visibility = layertree.VisibilityHidden
	}
	if sp.NoPointer {
		s.PointerEvents = layertree.PointerEventsNone
	}
	for _, c := range sp.Contain {
		v, ok := containValues[c]
		if !ok {
			return nil, fmt.Errorf("contain %q: %w", c, errUnknownName)
		}
		s.Contain |= v
	}
	for _, w := range sp.WillChange {
		v, ok := willChangeValues[w]
		if !ok {
			return nil, fmt.Errorf("will-change %q: %w", w, errUnknownName)
		}
		s.WillChange |= v
	}
	s.ViewTransitionName = sp.ViewTransitionName
	s.Float = sp.Float
	s.ColumnCount = sp.Columns
	s.ColumnGap = sp.ColumnGap

	s.BorderWidth = sp.BorderWidth
	s.BorderRadius = sp.BorderRadius
	s.OutlineWidth = sp.OutlineWidth
	colors := []struct {
		src string
		dst *color.RGBA
	}{
		{sp.Background, &s.BackgroundColor},
		{sp.Border, &s.BorderColor},
		{sp.Outline, &s.OutlineColor},
		{sp.Color, &s.Color},
	}
	for _, c := range colors {
		if c.src == "" {
			continue
		}
		if *c.dst, err = parseColor(c.src); err != nil {
			return nil, err
		}
	}
	return s, nil
}

var (
	overflowValues = map[string]layertree.Overflow{
		"visible": layertree.OverflowVisible,
		"hidden":  layertree.OverflowHidden,
		"clip":    layertree.OverflowClip,
		"scroll":  layertree.OverflowScroll,
		"auto":    layertree.OverflowAuto,
	}
	resizeValues = map[string]layertree.Resize{
		"none":       layertree.ResizeNone,
		"both":       layertree.ResizeBoth,
		"horizontal": layertree.ResizeHorizontal,
		"vertical":   layertree.ResizeVertical,
	}
	containValues = map[string]layertree.Containment{
		"layout": layertree.ContainLayout,
		"paint":  layertree.ContainPaint,
		"size":   layertree.ContainSize,
		"style":  layertree.ContainStyle,
	}
	willChangeValues = map[string]layertree.WillChange{
		"transform":       layertree.WillChangeTransform,
		"opacity":         layertree.WillChangeOpacity,
		"filter":          layertree.WillChangeFilter,
		"scroll-position": layertree.WillChangeScrollPosition,
	}
	reflectDirections = map[string]layertree.ReflectionDirection{
		"below": layertree.ReflectBelow,
		"above": layertree.ReflectAbove,
		"left":  layertree.ReflectLeft,
		"right": layertree.ReflectRight,
	}
)

// parseOverflow applies the per-axis value over the shorthand.
func parseOverflow(shorthand, axis string) (layertree.Overflow, error) {
	v := axis
	if v == "" {
		v = shorthand
	}
	if v == "" {
		return layertree.OverflowVisible, nil
	}
	o, ok := overflowValues[v]
	if !ok {
		return 0, fmt.Errorf("overflow %q: %w", v, errUnknownName)
	}
	return o, nil
}

// parseKeyword matches s against the String form of every value up to last.
func parseKeyword[T interface {
	~uint8
	String() string
}](field, s string, last T) (T, error) {
	for v := T(0); v <= last; v++ {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%s %q: %w", field, s, errUnknownName)
}

func (f functionSpec) transform() (layertree.TransformOperation, error) {
	a := f.Args
	want := func(n ...int) error {
		for _, m := range n {
			if len(a) == m {
				return nil
			}
		}
		return fmt.Errorf("%s(%d args): %w", f.Fn, len(a), errBadArgs)
	}
	switch f.Fn {
	case "translate":
		if err := want(2, 3); err != nil {
			return layertree.TransformOperation{}, err
		}
		if len(a) == 3 {
			return layertree.Translate3DOp(a[0], a[1], a[2]), nil
		}
		return layertree.TranslateOp(a[0], a[1]), nil
	case "scale":
		if err := want(1, 2); err != nil {
			return layertree.TransformOperation{}, err
		}
		if len(a) == 1 {
			return layertree.ScaleOp(a[0], a[0]), nil
		}
		return layertree.ScaleOp(a[0], a[1]), nil
	case "rotate", "rotateX", "rotateY", "perspective":
		if err := want(1); err != nil {
			return layertree.TransformOperation{}, err
		}
		switch f.Fn {
		case "rotateX":
			return layertree.RotateXOp(a[0]), nil
		case "rotateY":
			return layertree.RotateYOp(a[0]), nil
		case "perspective":
			return layertree.PerspectiveOp(a[0]), nil
		}
		return layertree.RotateOp(a[0]), nil
	case "skew":
		if err := want(2); err != nil {
			return layertree.TransformOperation{}, err
		}
		return layertree.SkewOp(a[0], a[1]), nil
	case "matrix3d":
		if err := want(16); err != nil {
			return layertree.TransformOperation{}, err
		}
		return layertree.Matrix3DOp([16]float64(a)), nil
	}
	return layertree.TransformOperation{}, fmt.Errorf("transform %q: %w", f.Fn, errUnknownName)
}

func filters(specs []functionSpec) ([]layertree.FilterOperation, error) {
	var ops []layertree.FilterOperation
	for _, f := range specs {
		kind, err := parseKeyword("filter", f.Fn, layertree.FilterDropShadow)
		if err != nil {
			return nil, err
		}
		switch kind {
		case layertree.FilterDropShadow:
			if len(f.Args) != 3 {
				return nil, fmt.Errorf("%s(%d args): %w", f.Fn, len(f.Args), errBadArgs)
			}
			c, err := parseColor(f.Color)
			if err != nil {
				return nil, err
			}
			ops = append(ops, layertree.DropShadowFilterOp(f.Args[0], f.Args[1], f.Args[2], c))
		default:
			if len(f.Args) != 1 {
				return nil, fmt.Errorf("%s(%d args): %w", f.Fn, len(f.Args), errBadArgs)
			}
			if kind == layertree.FilterBlur {
				ops = append(ops, layertree.BlurFilterOp(f.Args[0]))
			} else {
				ops = append(ops, layertree.ColorFilterOp(kind, f.Args[0]))
			}
		}
	}
	return ops, nil
}

// parseColor accepts #rgb, #rrggbb and #rrggbbaa.
func parseColor(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("%q: %w", s, errBadColor)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("%q: %w", s, errBadColor)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%q: %w", s, errBadColor)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
