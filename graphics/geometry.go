// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package graphics

import "math"

// FloatPoint is a 2D point with float64 coordinates.
type FloatPoint struct {
	X, Y float64
}

// Pt creates a FloatPoint from x, y coordinates.
func Pt(x, y float64) FloatPoint {
	return FloatPoint{X: x, Y: y}
}

// Add returns the sum of two points.
func (p FloatPoint) Add(q FloatPoint) FloatPoint {
	return FloatPoint{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points.
func (p FloatPoint) Sub(q FloatPoint) FloatPoint {
	return FloatPoint{X: p.X - q.X, Y: p.Y - q.Y}
}

// FloatPoint3D is a point in 3D space.
type FloatPoint3D struct {
	X, Y, Z float64
}

// FloatSize is a width/height pair.
type FloatSize struct {
	W, H float64
}

// FloatRect is an axis-aligned rectangle.
type FloatRect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Width and height
}

// NewRect creates a FloatRect from position and size.
func NewRect(x, y, w, h float64) FloatRect {
	return FloatRect{X: x, Y: y, W: w, H: h}
}

// Right returns the right edge x-coordinate.
func (r FloatRect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the bottom edge y-coordinate.
func (r FloatRect) Bottom() float64 {
	return r.Y + r.H
}

// IsEmpty returns true if the rectangle has zero area.
func (r FloatRect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains returns true if the point is inside the rectangle.
// The right and bottom edges are exclusive.
func (r FloatRect) Contains(p FloatPoint) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects returns true if two rectangles overlap.
func (r FloatRect) Intersects(other FloatRect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return other.X < r.Right() && r.X < other.Right() &&
		other.Y < r.Bottom() && r.Y < other.Bottom()
}

// Intersect returns the intersection of two rectangles.
// Returns an empty rectangle if they don't intersect.
func (r FloatRect) Intersect(other FloatRect) FloatRect {
	x0 := math.Max(r.X, other.X)
	y0 := math.Max(r.Y, other.Y)
	x1 := math.Min(r.Right(), other.Right())
	y1 := math.Min(r.Bottom(), other.Bottom())

	if x1 <= x0 || y1 <= y0 {
		return FloatRect{}
	}
	return FloatRect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Union returns the smallest rectangle containing both rectangles.
// Empty rectangles are ignored.
func (r FloatRect) Union(other FloatRect) FloatRect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x0 := math.Min(r.X, other.X)
	y0 := math.Min(r.Y, other.Y)
	x1 := math.Max(r.Right(), other.Right())
	y1 := math.Max(r.Bottom(), other.Bottom())
	return FloatRect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Translate returns the rectangle moved by dx, dy.
func (r FloatRect) Translate(dx, dy float64) FloatRect {
	return FloatRect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Inflate returns the rectangle grown by d on every side.
func (r FloatRect) Inflate(d float64) FloatRect {
	return FloatRect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// FloatQuad is a quadrilateral given by its four corners in clockwise order.
type FloatQuad struct {
	P1, P2, P3, P4 FloatPoint
}

// QuadFromRect returns the quad covering r.
func QuadFromRect(r FloatRect) FloatQuad {
	return FloatQuad{
		P1: FloatPoint{X: r.X, Y: r.Y},
		P2: FloatPoint{X: r.Right(), Y: r.Y},
		P3: FloatPoint{X: r.Right(), Y: r.Bottom()},
		P4: FloatPoint{X: r.X, Y: r.Bottom()},
	}
}

// BoundingBox returns the smallest rectangle containing all four corners.
func (q FloatQuad) BoundingBox() FloatRect {
	minX := math.Min(math.Min(q.P1.X, q.P2.X), math.Min(q.P3.X, q.P4.X))
	maxX := math.Max(math.Max(q.P1.X, q.P2.X), math.Max(q.P3.X, q.P4.X))
	minY := math.Min(math.Min(q.P1.Y, q.P2.Y), math.Min(q.P3.Y, q.P4.Y))
	maxY := math.Max(math.Max(q.P1.Y, q.P2.Y), math.Max(q.P3.Y, q.P4.Y))
	return FloatRect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Move returns the quad translated by dx, dy.
func (q FloatQuad) Move(dx, dy float64) FloatQuad {
	d := FloatPoint{X: dx, Y: dy}
	return FloatQuad{P1: q.P1.Add(d), P2: q.P2.Add(d), P3: q.P3.Add(d), P4: q.P4.Add(d)}
}

// IsRectilinear reports whether the quad is an axis-aligned rectangle.
func (q FloatQuad) IsRectilinear() bool {
	return (q.P1.X == q.P2.X && q.P2.Y == q.P3.Y && q.P3.X == q.P4.X && q.P4.Y == q.P1.Y) ||
		(q.P1.Y == q.P2.Y && q.P2.X == q.P3.X && q.P3.Y == q.P4.Y && q.P4.X == q.P1.X)
}

// ContainsPoint reports whether p lies inside the quad. The quad must be
// convex, which holds for any rectangle mapped through an affine transform.
func (q FloatQuad) ContainsPoint(p FloatPoint) bool {
	return isPointInTriangle(p, q.P1, q.P2, q.P3) || isPointInTriangle(p, q.P1, q.P3, q.P4)
}

func isPointInTriangle(p, t1, t2, t3 FloatPoint) bool {
	// Compute vectors
	v0 := t3.Sub(t1)
	v1 := t2.Sub(t1)
	v2 := p.Sub(t1)

	// Compute dot products
	dot00 := v0.X*v0.X + v0.Y*v0.Y
	dot01 := v0.X*v1.X + v0.Y*v1.Y
	dot02 := v0.X*v2.X + v0.Y*v2.Y
	dot11 := v1.X*v1.X + v1.Y*v1.Y
	dot12 := v1.X*v2.X + v1.Y*v2.Y

	denom := dot00*dot11 - dot01*dot01
	if denom == 0 {
		return false
	}

	// Compute barycentric coordinates
	inv := 1 / denom
	u := (dot11*dot02 - dot01*dot12) * inv
	v := (dot00*dot12 - dot01*dot02) * inv
	return u >= 0 && v >= 0 && u+v <= 1
}
