// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package layertree groups a tree of rendered boxes into layers and walks
// them to paint and hit test content in visual order.
//
// # Overview
//
// A Layer is created for every box that needs independent stacking,
// clipping, transforms or compositing. Layers form a Tree that mirrors the
// render tree; each stacking context keeps paint order lists (negative
// z-order, normal flow, positive z-order) that are rebuilt lazily.
//
// # Quick Start
//
//	root := layertree.NewBox(layertree.RendererView, "view", nil)
//	root.SetFrame(layertree.Point(0, 0), layertree.Size(800, 600))
//
//	s := layertree.NewStyle()
//	s.Position = layertree.PositionRelative
//	s.ZIndex = layertree.Z(1)
//	box := layertree.NewBox(layertree.RendererBlock, "box", s)
//	box.SetFrame(layertree.Point(10, 10), layertree.Size(100, 100))
//	root.AppendChild(box)
//
//	tree := layertree.NewTree(root)
//	tree.UpdateLayerPositionsAfterLayout(true, false)
//
//	rec := recording.NewRecorder(800, 600)
//	tree.Paint(layertree.PaintRequest{Context: rec})
//
// # Coordinates
//
// Layout geometry uses 26.6 fixed point (golang.org/x/image/math/fixed).
// A layer's location is relative to its parent layer, after the parent's
// scroll offset. Layers that behave as fixed are placed in the viewport,
// which is the root layer's coordinate space. Inside a multi-column flow,
// locations are in the flow's coordinates; fragments map them to columns.
//
// # Caches and dirty bits
//
// Paint order lists, clip rects, descendant-dependent flags and positions
// are cached per layer and invalidated by mutation. Tree.VerifyLayerPositions
// recomputes positions without writing and reports every stale cache.
//
// # Concurrency
//
// A Tree is confined to one goroutine. Logging goes through Logger, which
// is safe for concurrent use.
package layertree
