// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"github.com/gogpu/layertree/graphics"
)

// updateTransform rebuilds the cached transform from style. Layers whose
// renderer has no transform operations keep a nil matrix.
func (l *Layer) updateTransform() {
	had3D := l.has3DTransform()
	s := l.renderer.Style()
	if !s.HasTransform() {
		l.transform = nil
	} else {
		m := styleTransform(s, l.renderer.Size())
		if c := l.tree.compositor; c != nil && !c.CanRender3DTransforms() {
			m = m.MakeAffine()
		}
		l.transform = &m
	}
	if had3D != l.has3DTransform() {
		l.dirty3DTransformedDescendantStatus()
	}
}

// styleTransform composes the transform list of s around its transform
// origin for a border box of the given size.
func styleTransform(s *Style, size LayoutSize) graphics.TransformationMatrix {
	ox := s.TransformOrigin.X * UnitToFloat(size.W)
	oy := s.TransformOrigin.Y * UnitToFloat(size.H)
	m := graphics.NewIdentityMatrix().Translate(ox, oy)
	for _, op := range s.Transform {
		m = op.apply(m)
	}
	return m.Translate(-ox, -oy)
}

// renderableTransform is the matrix used for painting. Flattening paints
// drop the 3D part so the result is drawable by a 2D context.
func (l *Layer) renderableTransform(behavior PaintBehavior) graphics.TransformationMatrix {
	if l.transform == nil {
		return graphics.NewIdentityMatrix()
	}
	if behavior&PaintBehaviorFlattenCompositingLayers != 0 {
		return l.transform.MakeAffine()
	}
	return *l.transform
}

// perspectiveTransform is the perspective l applies to its children, around
// the perspective origin. ok is false without perspective.
func (l *Layer) perspectiveTransform() (m graphics.TransformationMatrix, ok bool) {
	s := l.renderer.Style()
	if !s.HasPerspective() {
		return graphics.NewIdentityMatrix(), false
	}
	ox := s.PerspectiveOrigin.X * UnitToFloat(l.size.W)
	oy := s.PerspectiveOrigin.Y * UnitToFloat(l.size.H)
	m = graphics.NewIdentityMatrix().Translate(ox, oy).ApplyPerspective(s.Perspective).Translate(-ox, -oy)
	return m, true
}

// transformFromContainer returns the matrix mapping l's local space into
// container's: l's own transform, its offset in the container and the
// container's perspective.
func (l *Layer) transformFromContainer(container *Layer, offset LayoutPoint) graphics.TransformationMatrix {
	m := graphics.NewIdentityMatrix()
	if l.transform != nil {
		m = *l.transform
	}
	m = m.TranslateRight(UnitToFloat(offset.X), UnitToFloat(offset.Y))
	if container != nil && container.renderer.Style().HasPerspective() {
		if p, ok := container.perspectiveTransform(); ok {
			// Perspective acts in the container's space, after the offset.
			m = p.Multiply(m)
		}
	}
	return m
}

// reflectionOperations returns the transform list that mirrors a box of the
// given size for a -webkit-box-reflect value. Used with a centered origin.
func reflectionOperations(r Reflection, size LayoutSize) []TransformOperation {
	w, h := UnitToFloat(size.W), UnitToFloat(size.H)
	switch r.Direction {
	case ReflectAbove:
		return []TransformOperation{ScaleOp(1, -1), TranslateOp(0, h), TranslateOp(0, r.Offset)}
	case ReflectRight:
		return []TransformOperation{TranslateOp(w, 0), TranslateOp(r.Offset, 0), ScaleOp(-1, 1)}
	case ReflectLeft:
		return []TransformOperation{ScaleOp(-1, 1), TranslateOp(w, 0), TranslateOp(r.Offset, 0)}
	}
	return []TransformOperation{TranslateOp(0, h), TranslateOp(0, r.Offset), ScaleOp(1, -1)}
}

// enclosingTransformedAncestor returns the nearest ancestor with a
// transform, or the root layer.
func (l *Layer) enclosingTransformedAncestor() *Layer {
	p := l.Parent()
	for p != nil && !p.IsRootLayer() && p.transform == nil {
		p = p.Parent()
	}
	return p
}
