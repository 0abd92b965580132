// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// The dumps below are for debugging. Their format is not stable.

const layerTreeLegend = `S  stacking context (s: opportunistic)
N  normal flow only
P  self-painting layer
V  has visible content (v: visible descendant only)
T  transformed (3: 3D transform)
C  composited
Z  z-order lists dirty (z: normal flow list dirty)
D  descendant flags dirty
R  has reflection (r: is a reflection)
`

// WriteLayerTree writes the layer tree in tree order, one layer per line
// with a column of one-letter flags.
func (t *Tree) WriteLayerTree(w io.Writer) error {
	var b strings.Builder
	b.WriteString(layerTreeLegend)
	b.WriteString("\n")
	if t.root != nil {
		t.root.writeLayerTree(&b, 0)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (l *Layer) writeLayerTree(b *strings.Builder, depth int) {
	fmt.Fprintf(b, "%s %s%s\n", l.flagColumns(), strings.Repeat("  ", depth), l.describe())
	if l.reflection != nil {
		l.reflection.writeLayerTree(b, depth+1)
	}
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		c.writeLayerTree(b, depth+1)
	}
}

func (l *Layer) flagColumns() string {
	flag := func(on bool, c byte) byte {
		if on {
			return c
		}
		return '-'
	}
	stacking := flag(l.isCSSStackingContext, 'S')
	if !l.isCSSStackingContext && l.isOpportunisticStackingContext {
		stacking = 's'
	}
	visible := flag(l.hasVisibleContent, 'V')
	if !l.hasVisibleContent && l.hasVisibleDescendant {
		visible = 'v'
	}
	transform := flag(l.transform != nil, 'T')
	if l.has3DTransform() {
		transform = '3'
	}
	lists := flag(l.zOrderListsDirty, 'Z')
	if !l.zOrderListsDirty && l.normalFlowListDirty {
		lists = 'z'
	}
	reflection := flag(l.reflection != nil, 'R')
	if l.IsReflection() {
		reflection = 'r'
	}
	return string([]byte{
		stacking,
		flag(l.isNormalFlowOnly, 'N'),
		flag(l.isSelfPaintingLayer, 'P'),
		visible,
		transform,
		flag(l.IsComposited(), 'C'),
		lists,
		flag(l.descendantDependentFlagsDirty, 'D'),
		reflection,
	})
}

func (l *Layer) describe() string {
	s := fmt.Sprintf("%s %s at %s size %s", l, l.kind, formatPoint(l.location), formatSize(l.size))
	if z := l.renderer.Style().ZIndex; z != nil {
		s += fmt.Sprintf(" z=%d", *z)
	}
	return s
}

// WritePaintOrderTree writes the layers in the order they paint. Each
// stacking context lists its negative z-order layers (-), then its
// normal flow layers (#), then its positive z-order layers (+).
func (t *Tree) WritePaintOrderTree(w io.Writer) error {
	var b strings.Builder
	b.WriteString("- negative z-order list\n# normal flow list\n+ positive z-order list\n\n")
	if t.root != nil {
		fmt.Fprintf(&b, "  %s\n", t.root.describe())
		t.root.writePaintOrder(&b, 1)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (l *Layer) writePaintOrder(b *strings.Builder, depth int) {
	l.updateLayerListsIfNeeded()
	lists := []struct {
		mark byte
		list []*Layer
	}{
		{'-', l.negZOrderList},
		{'#', l.normalFlowList},
		{'+', l.posZOrderList},
	}
	for _, e := range lists {
		for _, c := range e.list {
			fmt.Fprintf(b, "%c %s%s\n", e.mark, strings.Repeat("  ", depth), c.describe())
			c.writePaintOrder(b, depth+1)
		}
	}
}

const layerPositionLegend = `U  needs position update
d  descendant needs position update
c  all children need position update
a  all descendants need position update

ancestor state: F fixed, C fixed containing block, T transformed,
3 3D transformed, S sticky, P paginated, O composited scrolling
`

// WriteLayerPositionTree writes the cached geometry and position update
// bits of every layer.
func (t *Tree) WriteLayerPositionTree(w io.Writer) error {
	var b strings.Builder
	b.WriteString(layerPositionLegend)
	b.WriteString("\n")
	if t.root != nil {
		t.root.writePositionTree(&b, 0)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (l *Layer) writePositionTree(b *strings.Builder, depth int) {
	flag := func(f LayerPositionUpdates, c byte) byte {
		if l.positionUpdates&f != 0 {
			return c
		}
		return '-'
	}
	bits := string([]byte{
		flag(NeedsPositionUpdate, 'U'),
		flag(DescendantNeedsPositionUpdate, 'd'),
		flag(AllChildrenNeedPositionUpdate, 'c'),
		flag(AllDescendantsNeedPositionUpdate, 'a'),
	})
	repaint := "invalid"
	if l.repaintRectsValid {
		repaint = formatRect(l.repaintRects.ClippedOverflowRect)
	}
	fmt.Fprintf(b, "%s %s %s%s offset %s repaint %s", bits, l.ancestorState, strings.Repeat("  ", depth),
		l, formatPoint(l.OffsetFromAncestor(nil)), repaint)
	if pag := l.EnclosingPaginationLayer(); pag != nil {
		fmt.Fprintf(b, " pagination layer#%d", pag.id)
	}
	b.WriteString("\n")
	if l.reflection != nil {
		l.reflection.writePositionTree(b, depth+1)
	}
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		c.writePositionTree(b, depth+1)
	}
}

// ShowLayerTree writes the layer tree to stderr.
func (t *Tree) ShowLayerTree() { _ = t.WriteLayerTree(os.Stderr) }

// ShowPaintOrderTree writes the paint order to stderr.
func (t *Tree) ShowPaintOrderTree() { _ = t.WritePaintOrderTree(os.Stderr) }

// ShowLayerPositionTree writes the position tree to stderr.
func (t *Tree) ShowLayerPositionTree() { _ = t.WriteLayerPositionTree(os.Stderr) }
