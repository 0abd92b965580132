// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"image"
	"image/color"

	"github.com/gogpu/layertree/graphics"
)

// RegionContext turns a paint pass into a geometry collection pass. The
// traversal mirrors the transforms and clips it would apply to a graphics
// context, and renderers report their areas with Add during Phase.
type RegionContext interface {
	// Phase is PaintPhaseEventRegion or PaintPhaseAccessibility.
	Phase() PaintPhase
	PushTransform(m graphics.AffineTransform)
	PopTransform()
	// PushClip intersects the clip with r in the current transform's space.
	PushClip(r graphics.FloatRect)
	PopClip()
	// Add records rect, in the current transform's space, for r.
	Add(r Renderer, rect graphics.FloatRect)
}

// Region is one collected area in the coordinate space of the paint root.
type Region struct {
	Renderer Renderer
	Rect     graphics.FloatRect
}

type regionClip struct {
	rect    graphics.FloatRect
	bounded bool
}

// regionCollector tracks the transform and clip stacks shared by both
// region kinds.
type regionCollector struct {
	transforms []graphics.AffineTransform
	clips      []regionClip
	regions    []Region
}

func (c *regionCollector) transform() graphics.AffineTransform {
	if len(c.transforms) == 0 {
		return graphics.Identity()
	}
	return c.transforms[len(c.transforms)-1]
}

func (c *regionCollector) clip() regionClip {
	if len(c.clips) == 0 {
		return regionClip{}
	}
	return c.clips[len(c.clips)-1]
}

func (c *regionCollector) PushTransform(m graphics.AffineTransform) {
	c.transforms = append(c.transforms, c.transform().Multiply(m))
}

func (c *regionCollector) PopTransform() {
	if len(c.transforms) > 0 {
		c.transforms = c.transforms[:len(c.transforms)-1]
	}
}

func (c *regionCollector) PushClip(r graphics.FloatRect) {
	mapped := c.transform().TransformRect(r)
	cur := c.clip()
	if cur.bounded {
		mapped = mapped.Intersect(cur.rect)
	}
	c.clips = append(c.clips, regionClip{rect: mapped, bounded: true})
}

func (c *regionCollector) PopClip() {
	if len(c.clips) > 0 {
		c.clips = c.clips[:len(c.clips)-1]
	}
}

func (c *regionCollector) add(r Renderer, rect graphics.FloatRect) {
	mapped := c.transform().TransformRect(rect)
	if cur := c.clip(); cur.bounded {
		mapped = mapped.Intersect(cur.rect)
	}
	if mapped.IsEmpty() {
		return
	}
	c.regions = append(c.regions, Region{Renderer: r, Rect: mapped})
}

// Regions returns the areas collected so far in paint order.
func (c *regionCollector) Regions() []Region { return c.regions }

// EventRegionContext collects the areas that receive pointer events.
type EventRegionContext struct {
	regionCollector
}

// NewEventRegionContext returns an empty event region collector.
func NewEventRegionContext() *EventRegionContext { return &EventRegionContext{} }

func (*EventRegionContext) Phase() PaintPhase { return PaintPhaseEventRegion }

// Add ignores renderers with pointer-events: none.
func (c *EventRegionContext) Add(r Renderer, rect graphics.FloatRect) {
	if r.Style().PointerEvents == PointerEventsNone {
		return
	}
	c.add(r, rect)
}

// AccessibilityRegionContext collects the geometry of every renderer the
// pass visits, including ones that paint nothing because of opacity: 0.
type AccessibilityRegionContext struct {
	regionCollector
}

func NewAccessibilityRegionContext() *AccessibilityRegionContext {
	return &AccessibilityRegionContext{}
}

func (*AccessibilityRegionContext) Phase() PaintPhase { return PaintPhaseAccessibility }

func (c *AccessibilityRegionContext) Add(r Renderer, rect graphics.FloatRect) {
	c.add(r, rect)
}

var (
	_ RegionContext = (*EventRegionContext)(nil)
	_ RegionContext = (*AccessibilityRegionContext)(nil)
)

func (info *LayerPaintingInfo) regionPhase() (PaintPhase, bool) {
	if info.Regions == nil {
		return 0, false
	}
	return info.Regions.Phase(), true
}

func (info *LayerPaintingInfo) collectingAccessibilityRegions() bool {
	return info.Regions != nil && info.Regions.Phase() == PaintPhaseAccessibility
}

func (info *LayerPaintingInfo) pushRegionTransform(m graphics.AffineTransform) {
	if info.Regions != nil {
		info.Regions.PushTransform(m)
	}
}

func (info *LayerPaintingInfo) popRegionTransform() {
	if info.Regions != nil {
		info.Regions.PopTransform()
	}
}

// pushRegionClip mirrors a clip applied to the graphics context, so it is
// offset by the subpixel offset the same way.
func (info *LayerPaintingInfo) pushRegionClip(r LayoutRect) {
	if info.Regions != nil {
		info.Regions.PushClip(toFloatRect(r.Add(info.SubpixelOffset)))
	}
}

func (info *LayerPaintingInfo) pushRegionFloatClip(r graphics.FloatRect) {
	if info.Regions != nil {
		info.Regions.PushClip(r)
	}
}

func (info *LayerPaintingInfo) popRegionClip() {
	if info.Regions != nil {
		info.Regions.PopClip()
	}
}

// discardContext is the graphics.Context of passes that produce no pixels.
type discardContext struct{}

func (discardContext) Save()                                               {}
func (discardContext) Restore()                                            {}
func (discardContext) Translate(float64, float64)                          {}
func (discardContext) ConcatCTM(graphics.AffineTransform)                  {}
func (discardContext) ClipRect(graphics.FloatRect)                         {}
func (discardContext) ClipRoundedRect(graphics.RoundedRect)                {}
func (discardContext) BeginTransparencyLayer(float64, graphics.BlendMode)  {}
func (discardContext) EndTransparencyLayer()                               {}
func (discardContext) FillRect(graphics.FloatRect, color.Color)            {}
func (discardContext) StrokeRect(graphics.FloatRect, color.Color, float64) {}
func (discardContext) DrawImage(image.Image, graphics.FloatRect)           {}
