// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"image/color"
	"slices"

	"github.com/gogpu/layertree/graphics"
)

// Position is the CSS position scheme.
type Position uint8

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
	PositionSticky
)

var positionNames = [...]string{"static", "relative", "absolute", "fixed", "sticky"}

func (p Position) String() string {
	if int(p) < len(positionNames) {
		return positionNames[p]
	}
	return "unknown"
}

// Overflow is the CSS overflow value along one axis.
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowClip
	OverflowScroll
	OverflowAuto
)

// Visibility is the CSS visibility value.
type Visibility uint8

const (
	VisibilityVisible Visibility = iota
	VisibilityHidden
	VisibilityCollapse
)

// TransformStyle selects flat or preserve-3d rendering of children.
type TransformStyle uint8

const (
	TransformStyleFlat TransformStyle = iota
	TransformStylePreserve3D
)

// BackfaceVisibility controls whether the back of a layer is drawn.
type BackfaceVisibility uint8

const (
	BackfaceVisible BackfaceVisibility = iota
	BackfaceHidden
)

// Isolation is the CSS isolation value.
type Isolation uint8

const (
	IsolationAuto Isolation = iota
	IsolationIsolate
)

// Containment is a set of CSS contain values.
type Containment uint8

const (
	ContainLayout Containment = 1 << iota
	ContainPaint
	ContainSize
	ContainStyle
)

// WillChange is a set of properties named by CSS will-change.
type WillChange uint8

const (
	WillChangeTransform WillChange = 1 << iota
	WillChangeOpacity
	WillChangeFilter
	WillChangeScrollPosition
)

// Resize is the CSS resize value.
type Resize uint8

const (
	ResizeNone Resize = iota
	ResizeBoth
	ResizeHorizontal
	ResizeVertical
)

// PointerEvents is the CSS pointer-events value.
type PointerEvents uint8

const (
	PointerEventsAuto PointerEvents = iota
	PointerEventsNone
)

// ReflectionDirection is the side -webkit-box-reflect mirrors towards.
type ReflectionDirection uint8

const (
	ReflectBelow ReflectionDirection = iota
	ReflectAbove
	ReflectLeft
	ReflectRight
)

// Reflection describes -webkit-box-reflect.
type Reflection struct {
	Direction ReflectionDirection
	Offset    float64
}

// InsetClipPath is clip-path: inset(top right bottom left round radius).
type InsetClipPath struct {
	Top, Right, Bottom, Left float64
	Radius                   float64
}

// Style is the computed style the layer tree reads. Create one with
// NewStyle; the zero value has opacity 0.
type Style struct {
	Position Position
	// ZIndex is nil for z-index: auto.
	ZIndex *int
	// Offset is the relative or sticky displacement.
	Offset LayoutPoint

	Opacity   float64
	BlendMode graphics.BlendMode
	Isolation Isolation

	Transform []TransformOperation
	// TransformOrigin is a fraction of the border box size.
	TransformOrigin    graphics.FloatPoint
	TransformStyle     TransformStyle
	Perspective        float64
	PerspectiveOrigin  graphics.FloatPoint
	BackfaceVisibility BackfaceVisibility

	Filter         []FilterOperation
	BackdropFilter []FilterOperation
	HasMask        bool
	ClipPath       *InsetClipPath
	// Clip is the CSS clip rectangle in local coordinates. It only applies
	// to absolutely and fixed positioned boxes.
	Clip *LayoutRect

	OverflowX, OverflowY Overflow
	OverlayScrollbars    bool
	Resize               Resize

	Visibility    Visibility
	PointerEvents PointerEvents
	Contain       Containment
	WillChange    WillChange

	ViewTransitionName string
	Reflection         *Reflection

	Float bool

	ColumnCount int
	ColumnGap   float64

	BackgroundColor color.RGBA
	BorderColor     color.RGBA
	BorderWidth     float64
	BorderRadius    float64
	OutlineColor    color.RGBA
	OutlineWidth    float64
	// Color fills the content box during the foreground phase.
	Color color.RGBA
}

// NewStyle returns the initial style: static, opaque, visible.
func NewStyle() *Style {
	return &Style{
		Opacity:           1,
		TransformOrigin:   graphics.Pt(0.5, 0.5),
		PerspectiveOrigin: graphics.Pt(0.5, 0.5),
	}
}

// Z returns a pointer to v for use as Style.ZIndex.
func Z(v int) *int {
	return &v
}

// Clone returns a deep copy of s.
func (s *Style) Clone() *Style {
	c := *s
	if s.ZIndex != nil {
		c.ZIndex = Z(*s.ZIndex)
	}
	c.Transform = slices.Clone(s.Transform)
	c.Filter = slices.Clone(s.Filter)
	c.BackdropFilter = slices.Clone(s.BackdropFilter)
	if s.ClipPath != nil {
		cp := *s.ClipPath
		c.ClipPath = &cp
	}
	if s.Clip != nil {
		r := *s.Clip
		c.Clip = &r
	}
	if s.Reflection != nil {
		r := *s.Reflection
		c.Reflection = &r
	}
	return &c
}

func (s *Style) IsPositioned() bool        { return s.Position != PositionStatic }
func (s *Style) IsFixedPositioned() bool   { return s.Position == PositionFixed }
func (s *Style) IsAbsolutePositioned() bool { return s.Position == PositionAbsolute }

// IsOutOfFlowPositioned reports absolute or fixed positioning.
func (s *Style) IsOutOfFlowPositioned() bool {
	return s.Position == PositionAbsolute || s.Position == PositionFixed
}

// IsInFlowPositioned reports relative or sticky positioning.
func (s *Style) IsInFlowPositioned() bool {
	return s.Position == PositionRelative || s.Position == PositionSticky
}

func (s *Style) HasOpacity() bool { return s.Opacity < 1 }
func (s *Style) HasTransform() bool { return len(s.Transform) > 0 }
func (s *Style) HasPerspective() bool { return s.Perspective > 0 }

// Has3DTransform reports whether any transform function leaves the plane.
func (s *Style) Has3DTransform() bool {
	for _, op := range s.Transform {
		if op.is3D() {
			return true
		}
	}
	return false
}

func (s *Style) Preserves3D() bool { return s.TransformStyle == TransformStylePreserve3D }
func (s *Style) HasFilter() bool { return len(s.Filter) > 0 }
func (s *Style) HasBackdropFilter() bool { return len(s.BackdropFilter) > 0 }
func (s *Style) HasBlendMode() bool { return s.BlendMode != graphics.BlendNormal }
func (s *Style) IsolatesBlending() bool { return s.Isolation == IsolationIsolate }
func (s *Style) HasBorderRadius() bool { return s.BorderRadius > 0 }
func (s *Style) IsVisible() bool { return s.Visibility == VisibilityVisible }
func (s *Style) SpecifiesColumns() bool { return s.ColumnCount > 1 }

// HasNonVisibleOverflow reports whether either axis clips.
func (s *Style) HasNonVisibleOverflow() bool {
	return s.OverflowX != OverflowVisible || s.OverflowY != OverflowVisible
}

// HasScrollableOverflow reports whether either axis can scroll.
func (s *Style) HasScrollableOverflow() bool {
	scrolls := func(o Overflow) bool { return o == OverflowScroll || o == OverflowAuto }
	return scrolls(s.OverflowX) || scrolls(s.OverflowY)
}

// HasClip reports whether the CSS clip property is in effect.
func (s *Style) HasClip() bool {
	return s.Clip != nil && s.IsOutOfFlowPositioned()
}

// HasTransformRelatedProperty reports transform, perspective, preserve-3d
// or a will-change hint for transform.
func (s *Style) HasTransformRelatedProperty() bool {
	return s.HasTransform() || s.HasPerspective() || s.Preserves3D() || s.WillChange&WillChangeTransform != 0
}

// CreatesStackingContext reports whether the style alone establishes a CSS
// stacking context.
func (s *Style) CreatesStackingContext() bool {
	switch {
	case s.IsPositioned() && s.ZIndex != nil:
		return true
	case s.Position == PositionFixed || s.Position == PositionSticky:
		return true
	case s.HasOpacity(), s.HasTransformRelatedProperty():
		return true
	case s.HasFilter(), s.HasBackdropFilter(), s.ClipPath != nil, s.HasMask:
		return true
	case s.HasBlendMode(), s.IsolatesBlending():
		return true
	case s.WillChange&(WillChangeOpacity|WillChangeFilter) != 0:
		return true
	case s.Contain&(ContainPaint|ContainLayout) != 0:
		return true
	case s.ViewTransitionName != "", s.Reflection != nil:
		return true
	}
	return false
}

// Diff classifies how much work changing from s to other requires.
func (s *Style) Diff(other *Style) StyleDifference {
	if s == nil || other == nil {
		return StyleDifferenceLayout
	}
	switch {
	case s.Position != other.Position,
		s.OverflowX != other.OverflowX, s.OverflowY != other.OverflowY,
		s.ColumnCount != other.ColumnCount, s.ColumnGap != other.ColumnGap,
		s.BorderWidth != other.BorderWidth, s.Float != other.Float,
		(s.Reflection == nil) != (other.Reflection == nil),
		s.Contain != other.Contain:
		return StyleDifferenceLayout
	}
	if s.Offset != other.Offset {
		return StyleDifferenceLayoutPositionedMovementOnly
	}
	switch {
	case !equalZIndex(s.ZIndex, other.ZIndex),
		!slices.Equal(s.Transform, other.Transform),
		s.TransformOrigin != other.TransformOrigin,
		s.TransformStyle != other.TransformStyle,
		s.Perspective != other.Perspective,
		s.PerspectiveOrigin != other.PerspectiveOrigin,
		s.BackfaceVisibility != other.BackfaceVisibility,
		!slices.Equal(s.Filter, other.Filter),
		!slices.Equal(s.BackdropFilter, other.BackdropFilter),
		s.HasMask != other.HasMask,
		!equalPtr(s.ClipPath, other.ClipPath),
		!equalPtr(s.Clip, other.Clip),
		!equalPtr(s.Reflection, other.Reflection),
		s.BlendMode != other.BlendMode,
		s.Isolation != other.Isolation,
		s.Visibility != other.Visibility,
		s.WillChange != other.WillChange,
		s.ViewTransitionName != other.ViewTransitionName,
		s.HasOpacity() != other.HasOpacity(),
		s.OverlayScrollbars != other.OverlayScrollbars,
		s.Resize != other.Resize:
		return StyleDifferenceRepaintLayer
	}
	switch {
	case s.BackgroundColor != other.BackgroundColor,
		s.BorderColor != other.BorderColor,
		s.BorderRadius != other.BorderRadius,
		s.OutlineColor != other.OutlineColor,
		s.OutlineWidth != other.OutlineWidth,
		s.Color != other.Color:
		return StyleDifferenceRepaint
	}
	if s.Opacity != other.Opacity || s.PointerEvents != other.PointerEvents {
		return StyleDifferenceRecompositeLayer
	}
	return StyleDifferenceEqual
}

func equalZIndex(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// StyleDifference orders style changes by the work they cause.
type StyleDifference uint8

const (
	StyleDifferenceEqual StyleDifference = iota
	StyleDifferenceRecompositeLayer
	StyleDifferenceRepaint
	StyleDifferenceRepaintLayer
	StyleDifferenceLayoutPositionedMovementOnly
	StyleDifferenceSimplifiedLayout
	StyleDifferenceLayout
)

var styleDifferenceNames = [...]string{
	"Equal", "RecompositeLayer", "Repaint", "RepaintLayer",
	"LayoutPositionedMovementOnly", "SimplifiedLayout", "Layout",
}

func (d StyleDifference) String() string {
	if int(d) < len(styleDifferenceNames) {
		return styleDifferenceNames[d]
	}
	return "Unknown"
}
