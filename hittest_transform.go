// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"github.com/gogpu/layertree/graphics"
)

// HitTestingTransformState carries a hit location down through transformed
// layers. Inside a preserve-3d hierarchy transforms are accumulated without
// flattening, so the location can be mapped into each layer's plane and the
// depth of the hit recovered.
type HitTestingTransformState struct {
	// The location in the plane of the last flattening layer.
	lastPlanarPoint graphics.FloatPoint
	lastPlanarQuad  graphics.FloatQuad
	lastPlanarArea  graphics.FloatQuad

	// accumulated maps the current layer's plane to the last flattened plane.
	accumulated  graphics.TransformationMatrix
	accumulating bool
}

func newHitTestingTransformState(point graphics.FloatPoint, quad, area graphics.FloatQuad) *HitTestingTransformState {
	return &HitTestingTransformState{
		lastPlanarPoint: point,
		lastPlanarQuad:  quad,
		lastPlanarArea:  area,
		accumulated:     graphics.NewIdentityMatrix(),
	}
}

func (s *HitTestingTransformState) clone() *HitTestingTransformState {
	c := *s
	return &c
}

// translate prepends a translation. Unless accumulate is set the state is
// flattened afterwards.
func (s *HitTestingTransformState) translate(x, y float64, accumulate bool) {
	s.accumulated = s.accumulated.Translate(x, y)
	if !accumulate {
		s.flattenWithTransform(s.accumulated)
	}
	s.accumulating = accumulate
}

// applyTransform prepends m, which maps a child plane into the current one.
func (s *HitTestingTransformState) applyTransform(m graphics.TransformationMatrix, accumulate bool) {
	s.accumulated = s.accumulated.Multiply(m)
	if !accumulate {
		s.flattenWithTransform(s.accumulated)
	}
	s.accumulating = accumulate
}

// flatten projects the location into the current plane and starts a new
// accumulation from there.
func (s *HitTestingTransformState) flatten() {
	s.flattenWithTransform(s.accumulated)
}

func (s *HitTestingTransformState) flattenWithTransform(m graphics.TransformationMatrix) {
	if inv, ok := m.Inverse(); ok {
		s.lastPlanarPoint, _ = inv.ProjectPoint(s.lastPlanarPoint)
		s.lastPlanarQuad = inv.ProjectQuad(s.lastPlanarQuad)
		s.lastPlanarArea = inv.ProjectQuad(s.lastPlanarArea)
	}
	s.accumulated = graphics.NewIdentityMatrix()
	s.accumulating = false
}

// mappedPoint is the hit point in the current layer's plane.
func (s *HitTestingTransformState) mappedPoint() graphics.FloatPoint {
	inv, ok := s.accumulated.Inverse()
	if !ok {
		return s.lastPlanarPoint
	}
	p, _ := inv.ProjectPoint(s.lastPlanarPoint)
	return p
}

func (s *HitTestingTransformState) mappedQuad() graphics.FloatQuad {
	inv, ok := s.accumulated.Inverse()
	if !ok {
		return s.lastPlanarQuad
	}
	return inv.ProjectQuad(s.lastPlanarQuad)
}

// boundsOfMappedArea is the hit test rect in the current layer's plane.
func (s *HitTestingTransformState) boundsOfMappedArea() LayoutRect {
	inv, ok := s.accumulated.Inverse()
	if !ok {
		return enclosingLayoutRect(s.lastPlanarArea.BoundingBox())
	}
	return enclosingLayoutRect(inv.ProjectQuad(s.lastPlanarArea).BoundingBox())
}

// computeZOffset maps the hit point back through the accumulated transform
// to find its depth relative to the flattening container.
func computeZOffset(s *HitTestingTransformState) float64 {
	if s == nil || s.accumulated.IsAffine() {
		return 0
	}
	p := s.mappedPoint()
	return s.accumulated.MapPoint3D(graphics.FloatPoint3D{X: p.X, Y: p.Y}).Z
}

// createLocalTransformState builds the state for hit testing l. Without a
// container state it starts from location, which is in root's space.
func (l *Layer) createLocalTransformState(root, container *Layer, hitTestRect LayoutRect, location HitTestLocation, containerState *HitTestingTransformState, translation LayoutPoint) *HitTestingTransformState {
	var state *HitTestingTransformState
	var offset LayoutPoint
	if containerState != nil {
		state = containerState.clone()
		offset = l.OffsetFromAncestor(container)
	} else {
		state = newHitTestingTransformState(location.transformedPoint, location.transformedQuad,
			graphics.QuadFromRect(toFloatRect(hitTestRect)))
		offset = l.OffsetFromAncestor(root)
	}
	offset = offset.Add(translation)

	if l.transform != nil || (container != nil && container.renderer.Style().HasPerspective()) {
		state.applyTransform(l.transformFromContainer(container, offset), true)
	} else {
		state.translate(UnitToFloat(offset.X), UnitToFloat(offset.Y), true)
	}
	return state
}
