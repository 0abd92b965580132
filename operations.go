// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"image/color"
	"math"

	"github.com/gogpu/layertree/graphics"
)

// TransformOperationKind identifies a CSS transform function.
type TransformOperationKind uint8

const (
	TransformTranslate TransformOperationKind = iota
	TransformScale
	TransformRotate
	TransformRotateX
	TransformRotateY
	TransformSkew
	TransformPerspective
	TransformMatrix3D
)

// TransformOperation is one function of a CSS transform list. Angles are
// in degrees.
type TransformOperation struct {
	Kind    TransformOperationKind
	X, Y, Z float64
	Angle   float64
	Matrix  [16]float64
}

func TranslateOp(x, y float64) TransformOperation {
	return TransformOperation{Kind: TransformTranslate, X: x, Y: y}
}

func Translate3DOp(x, y, z float64) TransformOperation {
	return TransformOperation{Kind: TransformTranslate, X: x, Y: y, Z: z}
}

func ScaleOp(x, y float64) TransformOperation {
	return TransformOperation{Kind: TransformScale, X: x, Y: y, Z: 1}
}

func RotateOp(deg float64) TransformOperation {
	return TransformOperation{Kind: TransformRotate, Angle: deg}
}

func RotateXOp(deg float64) TransformOperation {
	return TransformOperation{Kind: TransformRotateX, Angle: deg}
}

func RotateYOp(deg float64) TransformOperation {
	return TransformOperation{Kind: TransformRotateY, Angle: deg}
}

func SkewOp(xDeg, yDeg float64) TransformOperation {
	return TransformOperation{Kind: TransformSkew, X: xDeg, Y: yDeg}
}

func PerspectiveOp(d float64) TransformOperation {
	return TransformOperation{Kind: TransformPerspective, Z: d}
}

// Matrix3DOp takes the sixteen values of CSS matrix3d() in column order.
func Matrix3DOp(v [16]float64) TransformOperation {
	return TransformOperation{Kind: TransformMatrix3D, Matrix: v}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// apply returns m with op applied before it.
func (op TransformOperation) apply(m graphics.TransformationMatrix) graphics.TransformationMatrix {
	switch op.Kind {
	case TransformTranslate:
		return m.Translate3D(op.X, op.Y, op.Z)
	case TransformScale:
		z := op.Z
		if z == 0 {
			z = 1
		}
		return m.Scale3D(op.X, op.Y, z)
	case TransformRotate:
		return m.RotateZ(radians(op.Angle))
	case TransformRotateX:
		return m.RotateX(radians(op.Angle))
	case TransformRotateY:
		return m.RotateY(radians(op.Angle))
	case TransformSkew:
		return m.Skew(radians(op.X), radians(op.Y))
	case TransformPerspective:
		return m.ApplyPerspective(op.Z)
	case TransformMatrix3D:
		return m.Multiply(graphics.NewMatrix3D(op.Matrix))
	}
	return m
}

// is3D reports whether op can move content out of the z=0 plane.
func (op TransformOperation) is3D() bool {
	switch op.Kind {
	case TransformRotateX, TransformRotateY, TransformPerspective:
		return true
	case TransformTranslate:
		return op.Z != 0
	case TransformScale:
		return op.Z != 0 && op.Z != 1
	case TransformMatrix3D:
		return !graphics.NewMatrix3D(op.Matrix).IsAffine()
	}
	return false
}

// FilterOperationKind identifies a CSS filter function.
type FilterOperationKind uint8

const (
	FilterBlur FilterOperationKind = iota
	FilterGrayscale
	FilterSepia
	FilterSaturate
	FilterHueRotate
	FilterInvert
	FilterOpacity
	FilterBrightness
	FilterContrast
	FilterDropShadow
)

var filterKindNames = [...]string{
	"blur", "grayscale", "sepia", "saturate", "hue-rotate",
	"invert", "opacity", "brightness", "contrast", "drop-shadow",
}

func (k FilterOperationKind) String() string {
	if int(k) < len(filterKindNames) {
		return filterKindNames[k]
	}
	return "unknown"
}

// FilterOperation is one function of a CSS filter list. Amount holds the
// blur radius, the hue rotation in degrees, or the function argument.
type FilterOperation struct {
	Kind             FilterOperationKind
	Amount           float64
	OffsetX, OffsetY float64
	Color            color.RGBA
}

func BlurFilterOp(radius float64) FilterOperation {
	return FilterOperation{Kind: FilterBlur, Amount: radius}
}

func DropShadowFilterOp(dx, dy, radius float64, c color.RGBA) FilterOperation {
	return FilterOperation{Kind: FilterDropShadow, OffsetX: dx, OffsetY: dy, Amount: radius, Color: c}
}

func ColorFilterOp(kind FilterOperationKind, amount float64) FilterOperation {
	return FilterOperation{Kind: kind, Amount: amount}
}

// MovesPixels reports whether output pixels depend on neighbouring input.
func (op FilterOperation) MovesPixels() bool {
	return op.Kind == FilterBlur || op.Kind == FilterDropShadow
}
