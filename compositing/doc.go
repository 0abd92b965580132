// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package compositing decides which layers of a layertree.Tree paint into
// their own backing surface.
//
// A Compositor walks the layers in paint order. A layer composites for a
// direct reason (a 3D transform, video, position: fixed, a composited
// scroller) or for an indirect one: it would draw on top of a composited
// layer, it has composited negative z-order children, or an effect such
// as opacity must apply to composited descendants. Layers that would
// composite only because of overlap may instead share the backing of a
// composited layer they are contained in.
//
//	c := compositing.New(compositing.WithDevice(host))
//	c.Attach(tree)
//	tree.UpdateLayerPositionsAfterLayout(true, false)
//	c.Update()
//	for _, l := range c.CompositedLayers() {
//	    desc := c.Backing(l).Descriptor
//	    // allocate desc on the device, then l.PaintIntoBacking(...)
//	}
//
// Backing memory belongs to the host. The compositor only describes each
// backing with a BackingDescriptor whose format follows the host device.
package compositing
