// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package graphics

import "math"

// AffineTransform represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type AffineTransform struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() AffineTransform {
	return AffineTransform{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float64) AffineTransform {
	return AffineTransform{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
	}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) AffineTransform {
	return AffineTransform{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
	}
}

// Multiply multiplies two matrices (m * other). The result applies other
// first, then m.
func (m AffineTransform) Multiply(other AffineTransform) AffineTransform {
	return AffineTransform{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m AffineTransform) TransformPoint(p FloatPoint) FloatPoint {
	return FloatPoint{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// TransformRect returns the bounding box of r after transformation.
func (m AffineTransform) TransformRect(r FloatRect) FloatRect {
	q := QuadFromRect(r)
	return FloatQuad{
		P1: m.TransformPoint(q.P1),
		P2: m.TransformPoint(q.P2),
		P3: m.TransformPoint(q.P3),
		P4: m.TransformPoint(q.P4),
	}.BoundingBox()
}

// IsInvertible reports whether the matrix has a non-zero determinant.
func (m AffineTransform) IsInvertible() bool {
	return math.Abs(m.A*m.E-m.B*m.D) >= 1e-10
}

// Invert returns the inverse matrix.
// Returns the identity matrix if the matrix is not invertible.
func (m AffineTransform) Invert() AffineTransform {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-10 {
		return Identity()
	}

	invDet := 1.0 / det
	return AffineTransform{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m AffineTransform) IsIdentity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 &&
		m.D == 0 && m.E == 1 && m.F == 0
}

// IsTranslation returns true if the matrix is only a translation.
func (m AffineTransform) IsTranslation() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1
}

// PreservesAxisAlignment reports whether axis-aligned rectangles stay
// axis-aligned (scale, translation and multiples of 90 degree rotation).
func (m AffineTransform) PreservesAxisAlignment() bool {
	return (m.B == 0 && m.D == 0) || (m.A == 0 && m.E == 0)
}
