// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package graphics

import "math"

// TransformationMatrix is a 4x4 matrix in the row-vector convention used by
// CSS transforms: M[i][j] is m(i+1)(j+1), a point p maps to p*M and the
// translation components are M41, M42 and M43.
type TransformationMatrix struct {
	m [4][4]float64
}

// clampedProjection is the coordinate returned for points projected behind
// the viewer. Large enough to read as infinity, small enough not to overflow
// fixed-point layout units.
const clampedProjection = 100000000.0 / 64

// NewIdentityMatrix returns the 4x4 identity matrix.
func NewIdentityMatrix() TransformationMatrix {
	var t TransformationMatrix
	t.m[0][0], t.m[1][1], t.m[2][2], t.m[3][3] = 1, 1, 1, 1
	return t
}

// MatrixFromAffine embeds a 2D affine transform in a 4x4 matrix.
func MatrixFromAffine(a AffineTransform) TransformationMatrix {
	t := NewIdentityMatrix()
	t.m[0][0], t.m[0][1] = a.A, a.D
	t.m[1][0], t.m[1][1] = a.B, a.E
	t.m[3][0], t.m[3][1] = a.C, a.F
	return t
}

// NewMatrix3D builds a matrix from its sixteen components in m11..m44 order.
func NewMatrix3D(v [16]float64) TransformationMatrix {
	var t TransformationMatrix
	for i := range 4 {
		for j := range 4 {
			t.m[i][j] = v[i*4+j]
		}
	}
	return t
}

// Component accessors, named after the CSS matrix3d() parameters.
func (t TransformationMatrix) M11() float64 { return t.m[0][0] }
func (t TransformationMatrix) M12() float64 { return t.m[0][1] }
func (t TransformationMatrix) M13() float64 { return t.m[0][2] }
func (t TransformationMatrix) M14() float64 { return t.m[0][3] }
func (t TransformationMatrix) M21() float64 { return t.m[1][0] }
func (t TransformationMatrix) M22() float64 { return t.m[1][1] }
func (t TransformationMatrix) M23() float64 { return t.m[1][2] }
func (t TransformationMatrix) M24() float64 { return t.m[1][3] }
func (t TransformationMatrix) M31() float64 { return t.m[2][0] }
func (t TransformationMatrix) M32() float64 { return t.m[2][1] }
func (t TransformationMatrix) M33() float64 { return t.m[2][2] }
func (t TransformationMatrix) M34() float64 { return t.m[2][3] }
func (t TransformationMatrix) M41() float64 { return t.m[3][0] }
func (t TransformationMatrix) M42() float64 { return t.m[3][1] }
func (t TransformationMatrix) M43() float64 { return t.m[3][2] }
func (t TransformationMatrix) M44() float64 { return t.m[3][3] }

// Multiply returns other*t in row-vector terms: the result applies other
// first and then t, which matches the left-to-right order of a CSS
// transform list built with successive calls.
func (t TransformationMatrix) Multiply(other TransformationMatrix) TransformationMatrix {
	var r TransformationMatrix
	for i := range 4 {
		for j := range 4 {
			var sum float64
			for k := range 4 {
				sum += other.m[i][k] * t.m[k][j]
			}
			r.m[i][j] = sum
		}
	}
	return r
}

// Translate3D returns t with a translation applied before it.
func (t TransformationMatrix) Translate3D(tx, ty, tz float64) TransformationMatrix {
	m := NewIdentityMatrix()
	m.m[3][0], m.m[3][1], m.m[3][2] = tx, ty, tz
	return t.Multiply(m)
}

// Translate returns t with a 2D translation applied before it.
func (t TransformationMatrix) Translate(tx, ty float64) TransformationMatrix {
	return t.Translate3D(tx, ty, 0)
}

// TranslateRight returns t followed by a translation.
func (t TransformationMatrix) TranslateRight(tx, ty float64) TransformationMatrix {
	m := NewIdentityMatrix()
	m.m[3][0], m.m[3][1] = tx, ty
	return m.Multiply(t)
}

// Scale3D returns t with a scale applied before it.
func (t TransformationMatrix) Scale3D(sx, sy, sz float64) TransformationMatrix {
	m := NewIdentityMatrix()
	m.m[0][0], m.m[1][1], m.m[2][2] = sx, sy, sz
	return t.Multiply(m)
}

// RotateZ returns t with a rotation about the z axis (radians) applied before it.
func (t TransformationMatrix) RotateZ(angle float64) TransformationMatrix {
	sin, cos := math.Sincos(angle)
	m := NewIdentityMatrix()
	m.m[0][0], m.m[0][1] = cos, sin
	m.m[1][0], m.m[1][1] = -sin, cos
	return t.Multiply(m)
}

// RotateX returns t with a rotation about the x axis (radians) applied before it.
func (t TransformationMatrix) RotateX(angle float64) TransformationMatrix {
	sin, cos := math.Sincos(angle)
	m := NewIdentityMatrix()
	m.m[1][1], m.m[1][2] = cos, sin
	m.m[2][1], m.m[2][2] = -sin, cos
	return t.Multiply(m)
}

// RotateY returns t with a rotation about the y axis (radians) applied before it.
func (t TransformationMatrix) RotateY(angle float64) TransformationMatrix {
	sin, cos := math.Sincos(angle)
	m := NewIdentityMatrix()
	m.m[0][0], m.m[0][2] = cos, -sin
	m.m[2][0], m.m[2][2] = sin, cos
	return t.Multiply(m)
}

// Skew returns t with a 2D skew (radians) applied before it.
func (t TransformationMatrix) Skew(ax, ay float64) TransformationMatrix {
	m := NewIdentityMatrix()
	m.m[0][1] = math.Tan(ay)
	m.m[1][0] = math.Tan(ax)
	return t.Multiply(m)
}

// ApplyPerspective returns t with a perspective projection of the given
// distance applied before it. A distance <= 0 leaves t unchanged.
func (t TransformationMatrix) ApplyPerspective(d float64) TransformationMatrix {
	if d <= 0 {
		return t
	}
	m := NewIdentityMatrix()
	m.m[2][3] = -1 / d
	return t.Multiply(m)
}

// IsIdentity reports whether t is the identity matrix.
func (t TransformationMatrix) IsIdentity() bool {
	return t == NewIdentityMatrix()
}

// IsAffine reports whether t only acts in the x/y plane.
func (t TransformationMatrix) IsAffine() bool {
	return t.m[0][2] == 0 && t.m[0][3] == 0 &&
		t.m[1][2] == 0 && t.m[1][3] == 0 &&
		t.m[2][0] == 0 && t.m[2][1] == 0 && t.m[2][2] == 1 && t.m[2][3] == 0 &&
		t.m[3][2] == 0 && t.m[3][3] == 1
}

// IsIdentityOrTranslation reports whether t is a pure 2D or 3D translation.
func (t TransformationMatrix) IsIdentityOrTranslation() bool {
	return t.m[0][0] == 1 && t.m[0][1] == 0 && t.m[0][2] == 0 && t.m[0][3] == 0 &&
		t.m[1][0] == 0 && t.m[1][1] == 1 && t.m[1][2] == 0 && t.m[1][3] == 0 &&
		t.m[2][0] == 0 && t.m[2][1] == 0 && t.m[2][2] == 1 && t.m[2][3] == 0 &&
		t.m[3][3] == 1
}

// ToAffine drops the 3D components and returns the x/y affine part.
func (t TransformationMatrix) ToAffine() AffineTransform {
	return AffineTransform{
		A: t.m[0][0], B: t.m[1][0], C: t.m[3][0],
		D: t.m[0][1], E: t.m[1][1], F: t.m[3][1],
	}
}

// MakeAffine returns the affine part of t as a 4x4 matrix.
func (t TransformationMatrix) MakeAffine() TransformationMatrix {
	return MatrixFromAffine(t.ToAffine())
}

// Flatten removes the z contributions while keeping the perspective row, so
// the result maps onto the z=0 plane as a flattened 3D rendering would.
func (t TransformationMatrix) Flatten() TransformationMatrix {
	r := t
	r.m[0][2], r.m[1][2], r.m[3][2] = 0, 0, 0
	r.m[2][0], r.m[2][1], r.m[2][3] = 0, 0, 0
	r.m[2][2] = 1
	return r
}

// Determinant returns the determinant of t.
func (t TransformationMatrix) Determinant() float64 {
	m := &t.m
	var det float64
	for j := range 4 {
		sign := 1.0
		if j%2 == 1 {
			sign = -1
		}
		det += sign * m[0][j] * minor3(m, 0, j)
	}
	return det
}

// IsInvertible reports whether t has an inverse.
func (t TransformationMatrix) IsInvertible() bool {
	det := t.Determinant()
	return !math.IsNaN(det) && math.Abs(det) >= 1e-12
}

// Inverse returns the inverse of t and whether it exists.
func (t TransformationMatrix) Inverse() (TransformationMatrix, bool) {
	if t.IsIdentityOrTranslation() {
		r := t
		r.m[3][0], r.m[3][1], r.m[3][2] = -t.m[3][0], -t.m[3][1], -t.m[3][2]
		return r, true
	}

	det := t.Determinant()
	if math.IsNaN(det) || math.Abs(det) < 1e-12 {
		return TransformationMatrix{}, false
	}

	var r TransformationMatrix
	for i := range 4 {
		for j := range 4 {
			sign := 1.0
			if (i+j)%2 == 1 {
				sign = -1
			}
			// Adjugate is the transpose of the cofactor matrix.
			r.m[j][i] = sign * minor3(&t.m, i, j) / det
		}
	}
	return r, true
}

// minor3 returns the determinant of the 3x3 matrix left after removing row
// and col from m.
func minor3(m *[4][4]float64, row, col int) float64 {
	var s [3][3]float64
	si := 0
	for i := range 4 {
		if i == row {
			continue
		}
		sj := 0
		for j := range 4 {
			if j == col {
				continue
			}
			s[si][sj] = m[i][j]
			sj++
		}
		si++
	}
	return s[0][0]*(s[1][1]*s[2][2]-s[1][2]*s[2][1]) -
		s[0][1]*(s[1][0]*s[2][2]-s[1][2]*s[2][0]) +
		s[0][2]*(s[1][0]*s[2][1]-s[1][1]*s[2][0])
}

// MapPoint3D maps a 3D point, dividing by w when the matrix projects.
func (t TransformationMatrix) MapPoint3D(p FloatPoint3D) FloatPoint3D {
	x := p.X*t.m[0][0] + p.Y*t.m[1][0] + p.Z*t.m[2][0] + t.m[3][0]
	y := p.X*t.m[0][1] + p.Y*t.m[1][1] + p.Z*t.m[2][1] + t.m[3][1]
	z := p.X*t.m[0][2] + p.Y*t.m[1][2] + p.Z*t.m[2][2] + t.m[3][2]
	w := p.X*t.m[0][3] + p.Y*t.m[1][3] + p.Z*t.m[2][3] + t.m[3][3]
	if w != 1 && w != 0 {
		x /= w
		y /= w
		z /= w
	}
	return FloatPoint3D{X: x, Y: y, Z: z}
}

// MapPoint maps a 2D point lying on the z=0 plane.
func (t TransformationMatrix) MapPoint(p FloatPoint) FloatPoint {
	if t.IsAffine() {
		return t.ToAffine().TransformPoint(p)
	}
	r := t.MapPoint3D(FloatPoint3D{X: p.X, Y: p.Y})
	return FloatPoint{X: r.X, Y: r.Y}
}

// MapQuad maps the four corners of q.
func (t TransformationMatrix) MapQuad(q FloatQuad) FloatQuad {
	return FloatQuad{
		P1: t.MapPoint(q.P1),
		P2: t.MapPoint(q.P2),
		P3: t.MapPoint(q.P3),
		P4: t.MapPoint(q.P4),
	}
}

// MapRect returns the bounding box of r after mapping.
func (t TransformationMatrix) MapRect(r FloatRect) FloatRect {
	if t.IsIdentityOrTranslation() {
		return r.Translate(t.m[3][0], t.m[3][1])
	}
	return t.MapQuad(QuadFromRect(r)).BoundingBox()
}

// ProjectPoint casts a ray parallel to the z axis through p in the
// destination plane, intersects it with the plane z=0 transformed by t, and
// returns the intersection mapped by t. Use on an inverse matrix to find the
// source-plane point under a screen point. The second result reports whether
// the point lay behind the viewer and was clamped.
func (t TransformationMatrix) ProjectPoint(p FloatPoint) (FloatPoint, bool) {
	if t.m[2][2] == 0 {
		// The projection plane is parallel to the ray.
		return FloatPoint{}, false
	}

	x, y := p.X, p.Y
	z := -(t.m[0][2]*x + t.m[1][2]*y + t.m[3][2]) / t.m[2][2]

	outX := x*t.m[0][0] + y*t.m[1][0] + z*t.m[2][0] + t.m[3][0]
	outY := x*t.m[0][1] + y*t.m[1][1] + z*t.m[2][1] + t.m[3][1]
	w := x*t.m[0][3] + y*t.m[1][3] + z*t.m[2][3] + t.m[3][3]
	if w <= 0 {
		return FloatPoint{X: math.Copysign(clampedProjection, outX), Y: math.Copysign(clampedProjection, outY)}, true
	}
	if w != 1 {
		outX /= w
		outY /= w
	}
	return FloatPoint{X: outX, Y: outY}, false
}

// ProjectQuad projects each corner of q.
func (t TransformationMatrix) ProjectQuad(q FloatQuad) FloatQuad {
	p1, _ := t.ProjectPoint(q.P1)
	p2, _ := t.ProjectPoint(q.P2)
	p3, _ := t.ProjectPoint(q.P3)
	p4, _ := t.ProjectPoint(q.P4)
	return FloatQuad{P1: p1, P2: p2, P3: p3, P4: p4}
}
