// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

// RendererKind tells the layer core which special cases apply to a box.
type RendererKind uint8

const (
	RendererBlock RendererKind = iota
	RendererInline
	RendererView
	RendererTableRow
	RendererTableCell
	RendererCanvas
	RendererVideo
	RendererIFrame
	RendererEmbeddedObject
	RendererMultiColumnFlow
	RendererReplica
)

var rendererKindNames = [...]string{
	"block", "inline", "view", "table-row", "table-cell", "canvas",
	"video", "iframe", "object", "multicol", "replica",
}

func (k RendererKind) String() string {
	if int(k) < len(rendererKindNames) {
		return rendererKindNames[k]
	}
	return "unknown"
}

// PseudoElement identifies generated boxes.
type PseudoElement uint8

const (
	PseudoNone PseudoElement = iota
	PseudoBefore
	PseudoAfter
	PseudoViewTransitionCapture
)

// Renderer is what a layer needs from the box that owns it. The box tree
// owns layers: a renderer creates its layer through the Tree and keeps the
// only strong reference to it.
type Renderer interface {
	Kind() RendererKind
	Pseudo() PseudoElement
	Style() *Style
	// Name is a short label used in debug dumps.
	Name() string

	Parent() Renderer
	FirstChild() Renderer
	NextSibling() Renderer

	Layer() *Layer
	SetLayer(l *Layer)

	// Location is the border box origin relative to the parent renderer,
	// including any relative offset. Fixed-position renderers whose layer
	// behaves as fixed are placed relative to the viewport instead. Table
	// cells share the coordinate space of their row's parent.
	Location() LayoutPoint
	Size() LayoutSize
	// VisualOverflowRect is in local coordinates and contains the border box.
	VisualOverflowRect() LayoutRect
	ScrollPosition() LayoutPoint
	// Columns describes the column geometry of a multi-column flow.
	Columns() (ColumnSet, bool)

	// Paint draws one phase of this renderer and its descendants that do
	// not have self-painting layers. paintOffset is the position of the
	// parent renderer's origin in the coordinate space of info.Context.
	Paint(info *PaintInfo, paintOffset LayoutPoint)
	PaintOverflowControls(info *PaintInfo, paintOffset LayoutPoint)
	HitTest(request HitTestRequest, result *HitTestResult, location HitTestLocation, accumulatedOffset LayoutPoint, filter HitTestFilter) bool
}

// RepaintObserver is implemented by renderers that want to hear about
// repaint rect changes computed during a position update.
type RepaintObserver interface {
	RepaintRectsChanged(old, new RepaintRects)
}

// ColumnSet is the geometry of a multi-column flow. Content is laid out in a
// single flow of column width; column i shows the slice [i*Height,
// (i+1)*Height) of the flow.
type ColumnSet struct {
	Count  int
	Width  LayoutUnit
	Gap    LayoutUnit
	Height LayoutUnit
}

// FlowPortion returns the slice of the flow shown in column i.
func (c ColumnSet) FlowPortion(i int) LayoutRect {
	y := c.Height * LayoutUnit(i)
	return LayoutRect{Min: LayoutPoint{Y: y}, Max: LayoutPoint{X: c.Width, Y: y + c.Height}}
}

// Translation maps flow coordinates in column i to visual coordinates.
func (c ColumnSet) Translation(i int) LayoutPoint {
	return LayoutPoint{X: (c.Width + c.Gap) * LayoutUnit(i), Y: -c.Height * LayoutUnit(i)}
}

// ColumnRect returns column i in the visual coordinates of the flow box.
func (c ColumnSet) ColumnRect(i int) LayoutRect {
	return c.FlowPortion(i).Add(c.Translation(i))
}

func isDescendantOf(r, ancestor Renderer) bool {
	for p := r; p != nil; p = p.Parent() {
		if p == ancestor {
			return true
		}
	}
	return false
}

func hasLayer(r Renderer) bool {
	return r != nil && r.Layer() != nil
}

func borderBoxRect(r Renderer) LayoutRect {
	return rectAt(LayoutPoint{}, r.Size())
}

// paddingBoxRect is the overflow clip rect in local coordinates.
func paddingBoxRect(r Renderer) LayoutRect {
	bw := Unit(r.Style().BorderWidth)
	return inflateRect(borderBoxRect(r), -bw)
}

func hasNonVisibleOverflow(r Renderer) bool {
	if r.Kind() == RendererView {
		return true
	}
	return r.Style().HasNonVisibleOverflow()
}

func isSpecialReplaced(r Renderer) bool {
	switch r.Kind() {
	case RendererCanvas, RendererVideo, RendererIFrame, RendererEmbeddedObject:
		return true
	}
	return false
}

func canContainFixedPosition(r Renderer) bool {
	s := r.Style()
	return r.Kind() == RendererView || s.HasTransformRelatedProperty() || s.Contain&(ContainPaint|ContainLayout) != 0
}

func canContainAbsolutePosition(r Renderer) bool {
	return canContainFixedPosition(r) || r.Style().IsPositioned()
}
