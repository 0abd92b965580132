// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compositing

import (
	"math"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/layertree"
)

// DeviceProvider gives the compositor access to the host's GPU device.
// The compositor never creates a device; it only reads the surface format
// to pick the backing format.
type DeviceProvider = gpucontext.DeviceProvider

// NullDeviceProvider is a DeviceProvider for CPU-only hosts. Backings are
// described but never allocated on a device.
type NullDeviceProvider struct{}

// Device returns nil.
func (NullDeviceProvider) Device() gpucontext.Device { return nil }

// Queue returns nil.
func (NullDeviceProvider) Queue() gpucontext.Queue { return nil }

// Adapter returns nil.
func (NullDeviceProvider) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns TextureFormatUndefined.
func (NullDeviceProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

var _ DeviceProvider = NullDeviceProvider{}

// BackingDescriptor describes the surface a composited layer paints into.
type BackingDescriptor struct {
	// Label is a debug label, "layer#N (name)".
	Label string

	// Width and Height are in device pixels and at least 1.
	Width  uint32
	Height uint32

	// Format follows the device surface format, RGBA8Unorm when the
	// device has none.
	Format gputypes.TextureFormat

	// Bounds is the painted area in the layer's local coordinates.
	Bounds layertree.LayoutRect
}

// backingFormat picks the texture format for backings on dev.
func backingFormat(dev DeviceProvider) gputypes.TextureFormat {
	if dev == nil {
		return gputypes.TextureFormatRGBA8Unorm
	}
	switch f := dev.SurfaceFormat(); f {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return f
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

func newBackingDescriptor(l *layertree.Layer, scale float64, format gputypes.TextureFormat) BackingDescriptor {
	bounds := l.Renderer().VisualOverflowRect()
	w := layertree.UnitToFloat(bounds.Max.X - bounds.Min.X)
	h := layertree.UnitToFloat(bounds.Max.Y - bounds.Min.Y)
	return BackingDescriptor{
		Label:  l.String(),
		Width:  devicePixels(w * scale),
		Height: devicePixels(h * scale),
		Format: format,
		Bounds: bounds,
	}
}

func devicePixels(v float64) uint32 {
	if v < 1 || math.IsNaN(v) {
		return 1
	}
	return uint32(math.Ceil(v))
}
