// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"math"

	"github.com/gogpu/layertree/graphics"
)

// HitTestRequestType is a set of hit test options.
type HitTestRequestType uint8

const (
	HitTestReadOnly HitTestRequestType = 1 << iota
	HitTestActive
	HitTestRelease
	// HitTestIgnoreClipping tests content hidden by overflow clips.
	HitTestIgnoreClipping
	// HitTestCollectMultiple gathers every renderer under the location
	// instead of stopping at the front-most one.
	HitTestCollectMultiple
)

// HitTestRequest describes what a hit test looks for.
type HitTestRequest struct {
	Type HitTestRequestType
}

func (r HitTestRequest) IgnoreClipping() bool  { return r.Type&HitTestIgnoreClipping != 0 }
func (r HitTestRequest) ResultIsList() bool    { return r.Type&HitTestCollectMultiple != 0 }
func (r HitTestRequest) ActiveOrRelease() bool { return r.Type&(HitTestActive|HitTestRelease) != 0 }

// HitTestFilter restricts Renderer.HitTest to the renderer itself or to
// its descendants.
type HitTestFilter uint8

const (
	HitTestAll HitTestFilter = iota
	HitTestSelf
	HitTestDescendants
)

// HitTestLocation is a point or an area being hit tested. Below a
// transform the location is kept as a float point and quad in the layer's
// plane.
type HitTestLocation struct {
	point       LayoutPoint
	boundingBox LayoutRect

	transformedPoint graphics.FloatPoint
	transformedQuad  graphics.FloatQuad
	isRectBased      bool
	isRectilinear    bool
}

// NewHitTestLocation tests a single point.
func NewHitTestLocation(p LayoutPoint) HitTestLocation {
	box := rectAt(p, Size(1, 1))
	return HitTestLocation{
		point:            p,
		boundingBox:      box,
		transformedPoint: toFloatPoint(p),
		transformedQuad:  graphics.QuadFromRect(toFloatRect(box)),
		isRectilinear:    true,
	}
}

// NewRectHitTestLocation tests every renderer intersecting r.
func NewRectHitTestLocation(r LayoutRect) HitTestLocation {
	center := LayoutPoint{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
	return HitTestLocation{
		point:            center,
		boundingBox:      r,
		transformedPoint: toFloatPoint(center),
		transformedQuad:  graphics.QuadFromRect(toFloatRect(r)),
		isRectBased:      true,
		isRectilinear:    true,
	}
}

func newMappedHitTestLocation(p graphics.FloatPoint, q graphics.FloatQuad, rectBased bool) HitTestLocation {
	loc := HitTestLocation{
		point:            fromFloatPoint(p),
		transformedPoint: p,
		transformedQuad:  q,
		isRectBased:      rectBased,
		isRectilinear:    q.IsRectilinear(),
	}
	if rectBased {
		loc.boundingBox = enclosingLayoutRect(q.BoundingBox())
	} else {
		loc.boundingBox = rectAt(loc.point, Size(1, 1))
	}
	return loc
}

// Point returns the tested point, or the center of a tested area.
func (h HitTestLocation) Point() LayoutPoint       { return h.point }
func (h HitTestLocation) BoundingBox() LayoutRect { return h.boundingBox }
func (h HitTestLocation) IsRectBased() bool       { return h.isRectBased }

// Intersects reports whether the location touches r.
func (h HitTestLocation) Intersects(r LayoutRect) bool {
	if IsInfiniteRect(r) {
		return true
	}
	fr := toFloatRect(r)
	if !h.isRectBased {
		p := h.transformedPoint
		return p.X >= fr.X && p.X < fr.Right() && p.Y >= fr.Y && p.Y < fr.Bottom()
	}
	return fr.Intersects(h.transformedQuad.BoundingBox())
}

func (h HitTestLocation) intersectsClip(c ClipRect) bool {
	return c.IsInfinite() || h.Intersects(c.Rect)
}

// move returns the location shifted by -d.
func (h HitTestLocation) move(d LayoutPoint) HitTestLocation {
	if d == (LayoutPoint{}) {
		return h
	}
	dx, dy := UnitToFloat(d.X), UnitToFloat(d.Y)
	h.point = h.point.Sub(d)
	h.boundingBox = moveRect(h.boundingBox, LayoutPoint{X: -d.X, Y: -d.Y})
	h.transformedPoint = h.transformedPoint.Sub(graphics.Pt(dx, dy))
	h.transformedQuad = h.transformedQuad.Move(-dx, -dy)
	return h
}

// OverflowControl identifies a scrollbar or resizer hit.
type OverflowControl uint8

const (
	OverflowControlNone OverflowControl = iota
	OverflowControlVerticalScrollbar
	OverflowControlHorizontalScrollbar
	OverflowControlResizer
)

// HitTestResult receives the outcome of a hit test.
type HitTestResult struct {
	Renderer Renderer
	Layer    *Layer
	// LocalPoint is the hit point in Renderer's coordinates.
	LocalPoint      LayoutPoint
	OverflowControl OverflowControl
	// Renderers lists every renderer hit by a HitTestCollectMultiple
	// request, front to back.
	Renderers []Renderer
}

// SetRenderer records r as the hit renderer.
func (res *HitTestResult) SetRenderer(r Renderer, local LayoutPoint) {
	res.Renderer = r
	res.LocalPoint = local
}

// AddRenderer appends r to the list of a multiple-renderer test.
func (res *HitTestResult) AddRenderer(r Renderer) {
	for _, x := range res.Renderers {
		if x == r {
			return
		}
	}
	res.Renderers = append(res.Renderers, r)
}

func (res *HitTestResult) append(other *HitTestResult) {
	if res.Renderer == nil && other.Renderer != nil {
		res.Renderer, res.Layer, res.LocalPoint = other.Renderer, other.Layer, other.LocalPoint
		res.OverflowControl = other.OverflowControl
	}
	for _, r := range other.Renderers {
		res.AddRenderer(r)
	}
}

// scrollbarThickness is the size of scrollbars and of the resizer corner.
const scrollbarThickness = 15

// overflowControlRects returns the scrollbar and resizer rects of r in its
// local coordinates. Empty rects mean the control is absent.
func overflowControlRects(r Renderer) (vertical, horizontal, resizer LayoutRect) {
	s := r.Style()
	inner := paddingBoxRect(r)
	t := Unit(scrollbarThickness)
	if s.HasScrollableOverflow() {
		if s.OverflowY == OverflowScroll || s.OverflowY == OverflowAuto {
			vertical = LayoutRect{
				Min: LayoutPoint{X: inner.Max.X - t, Y: inner.Min.Y},
				Max: LayoutPoint{X: inner.Max.X, Y: inner.Max.Y},
			}
		}
		if s.OverflowX == OverflowScroll || s.OverflowX == OverflowAuto {
			horizontal = LayoutRect{
				Min: LayoutPoint{X: inner.Min.X, Y: inner.Max.Y - t},
				Max: LayoutPoint{X: inner.Max.X, Y: inner.Max.Y},
			}
		}
	}
	if s.Resize != ResizeNone && hasNonVisibleOverflow(r) {
		resizer = LayoutRect{Min: LayoutPoint{X: inner.Max.X - t, Y: inner.Max.Y - t}, Max: inner.Max}
	}
	return vertical, horizontal, resizer
}

// HitTest finds the front-most renderer at location, which is in root layer
// coordinates. It reports whether anything was hit.
func (t *Tree) HitTest(request HitTestRequest, location HitTestLocation, result *HitTestResult) bool {
	root := t.root
	if root == nil {
		return false
	}
	hitTestRect := location.BoundingBox()
	if !request.IgnoreClipping() {
		hitTestRect = hitTestRect.Intersect(root.overflowClipRect())
	}

	hit := root.hitTestLayer(root, nil, request, result, hitTestRect, location, false, nil, nil)
	if hit == nil && request.ActiveOrRelease() && root.overflowClipRect().Intersect(location.BoundingBox()) != (LayoutRect{}) {
		// Presses outside all content go to the root.
		result.SetRenderer(root.renderer, location.Point())
		hit = root
	}
	if hit != nil && result.Layer == nil {
		result.Layer = hit
	}
	if request.ResultIsList() {
		return len(result.Renderers) > 0
	}
	return hit != nil
}

func hitTestClipRectsType(root *Layer) ClipRectsType {
	if root.IsRootLayer() {
		return RootRelativeClipRects
	}
	return TemporaryClipRects
}

// hitTestLayer walks l's paint order front to back. location and
// hitTestRect are in root's coordinates; container is the layer whose list
// l was reached from.
func (l *Layer) hitTestLayer(root, container *Layer, request HitTestRequest, result *HitTestResult, hitTestRect LayoutRect, location HitTestLocation, appliedTransform bool, state *HitTestingTransformState, zOffset *float64) *Layer {
	l.updateDescendantDependentFlags()
	if !l.isSelfPaintingLayer && !l.hasSelfPaintingLayerDescendant {
		return nil
	}
	if l.IsReflection() {
		return nil
	}

	if l.transform != nil && !appliedTransform {
		if l.paginationLayerFor(root) != nil {
			return l.hitTestTransformedLayerInFragments(root, container, request, result, hitTestRect, location, state, zOffset)
		}
		if p := l.Parent(); p != nil && !request.IgnoreClipping() {
			clip := l.backgroundClipRect(ClipRectsContext{RootLayer: root, Type: hitTestClipRectsType(root)})
			if !location.intersectsClip(clip) {
				return nil
			}
		}
		return l.hitTestLayerByApplyingTransform(root, container, request, result, hitTestRect, location, state, zOffset, LayoutPoint{})
	}

	l.updateLayerListsIfNeeded()
	l.update3DTransformedDescendantStatus()

	var local *HitTestingTransformState
	switch {
	case appliedTransform:
		local = state
	case state != nil || l.has3DTransformedDescendant || l.preserves3D():
		local = l.createLocalTransformState(root, container, hitTestRect, location, state, LayoutPoint{})
	}

	if local != nil && l.renderer.Style().BackfaceVisibility == BackfaceHidden {
		// A negative z scale in the inverse means the back faces the viewer.
		if inv, ok := local.accumulated.Inverse(); ok && inv.M33() < 0 {
			return nil
		}
	}

	unflattened := local
	if local != nil && !l.preserves3D() {
		unflattened = local.clone()
		local.flatten()
	}

	localZ := math.Inf(-1)
	var zForDescendants, zForContents *float64
	depthSort := false
	if l.preserves3D() {
		depthSort = true
		if zOffset != nil {
			zForDescendants, zForContents = zOffset, zOffset
		} else {
			zForDescendants, zForContents = &localZ, &localZ
		}
	} else if zOffset != nil {
		zForContents = zOffset
	}

	var candidate *Layer
	lists := [][]*Layer{l.posZOrderList, l.normalFlowList}
	for _, list := range lists {
		if hit := l.hitTestList(list, root, request, result, hitTestRect, location, local, zForDescendants, zOffset, unflattened, depthSort); hit != nil {
			if !depthSort {
				return hit
			}
			candidate = hit
		}
	}

	fragments := l.fragments(ClipRectsContext{RootLayer: root, Type: hitTestClipRectsType(root)},
		hitTestRect, l.OffsetFromAncestor(root), (*Layer).CalculateRects)

	if l.isSelfPaintingLayer {
		if control, localPoint, ok := l.hitTestOverflowControls(fragments, location); ok {
			result.SetRenderer(l.renderer, localPoint)
			result.Layer = l
			result.OverflowControl = control
			return l
		}

		var temp HitTestResult
		hit, inside := l.hitTestContentsForFragments(fragments, request, &temp, location, HitTestDescendants)
		if hit && isHitCandidate(l, false, zForContents, unflattened) {
			temp.Layer = l
			if request.ResultIsList() {
				result.append(&temp)
			} else {
				*result = temp
			}
			if !depthSort {
				return l
			}
			candidate = l
		} else if inside && request.ResultIsList() {
			result.append(&temp)
		}
	}

	if hit := l.hitTestList(l.negZOrderList, root, request, result, hitTestRect, location, local, zForDescendants, zOffset, unflattened, depthSort); hit != nil {
		if !depthSort {
			return hit
		}
		candidate = hit
	}
	if candidate != nil {
		return candidate
	}

	if l.isSelfPaintingLayer {
		var temp HitTestResult
		hit, inside := l.hitTestContentsForFragments(fragments, request, &temp, location, HitTestSelf)
		if hit && isHitCandidate(l, false, zForContents, unflattened) {
			temp.Layer = l
			if request.ResultIsList() {
				result.append(&temp)
			} else {
				*result = temp
			}
			return l
		}
		if inside && request.ResultIsList() {
			result.append(&temp)
		}
	}
	return nil
}

// hitTestList tests list from front to back. With depth sorting every
// child is tested and the one nearest to the viewer wins.
func (l *Layer) hitTestList(list []*Layer, root *Layer, request HitTestRequest, result *HitTestResult, hitTestRect LayoutRect, location HitTestLocation, state *HitTestingTransformState, zForDescendants, zOffset *float64, unflattened *HitTestingTransformState, depthSort bool) *Layer {
	if len(list) == 0 || !l.hasSelfPaintingLayerDescendant {
		return nil
	}
	detector := newLayerListMutationDetector(l)
	defer detector.release()

	var found *Layer
	for i := len(list) - 1; i >= 0; i-- {
		var temp HitTestResult
		hit := list[i].hitTestLayer(root, l, request, &temp, hitTestRect, location, false, state, zForDescendants)
		if request.ResultIsList() {
			result.append(&temp)
		}
		if isHitCandidate(hit, depthSort, zOffset, unflattened) {
			found = hit
			if !request.ResultIsList() {
				*result = temp
			}
			if !depthSort {
				break
			}
		}
	}
	return found
}

// isHitCandidate decides whether hit wins. Inside a depth-sorting context
// a layer only wins when its hit point is nearer than the best so far.
func isHitCandidate(hit *Layer, canDepthSort bool, zOffset *float64, state *HitTestingTransformState) bool {
	if hit == nil {
		return false
	}
	if canDepthSort {
		return true
	}
	if zOffset != nil {
		z := computeZOffset(state)
		if z > *zOffset {
			*zOffset = z
			return true
		}
		return false
	}
	return true
}

// hitTestLayerByApplyingTransform maps the location into l's plane and
// tests l with itself as the root.
func (l *Layer) hitTestLayerByApplyingTransform(root, container *Layer, request HitTestRequest, result *HitTestResult, hitTestRect LayoutRect, location HitTestLocation, state *HitTestingTransformState, zOffset *float64, translation LayoutPoint) *Layer {
	next := l.createLocalTransformState(root, container, hitTestRect, location, state, translation)
	if !next.accumulated.IsInvertible() {
		return nil
	}
	p := next.mappedPoint()
	localLocation := newMappedHitTestLocation(p, next.mappedQuad(), location.IsRectBased())
	localRect := next.boundsOfMappedArea()
	if !location.IsRectBased() {
		// A mirroring transform leaves the mapped point on the far edge
		// of the mapped area, outside its half-open bounds.
		localRect = localRect.Union(enclosingLayoutRect(graphics.NewRect(p.X, p.Y, 1, 1)))
	}
	return l.hitTestLayer(l, container, request, result, localRect, localLocation, true, next, zOffset)
}

// hitTestTransformedLayerInFragments tests a transformed layer once per
// column of its pagination layer, front-most column last painted first.
func (l *Layer) hitTestTransformedLayerInFragments(root, container *Layer, request HitTestRequest, result *HitTestResult, hitTestRect LayoutRect, location HitTestLocation, state *HitTestingTransformState, zOffset *float64) *Layer {
	clipCtx := ClipRectsContext{RootLayer: root, Type: hitTestClipRectsType(root)}
	fragments := l.fragments(clipCtx, hitTestRect, l.OffsetFromAncestor(root), (*Layer).transformedLayerRects)
	for i := len(fragments) - 1; i >= 0; i-- {
		f := fragments[i]
		if !request.IgnoreClipping() && !location.intersectsClip(f.Background) {
			continue
		}
		if hit := l.hitTestLayerByApplyingTransform(root, container, request, result, hitTestRect, location, state, zOffset, f.Translation); hit != nil {
			return hit
		}
	}
	return nil
}

// hitTestContentsForFragments asks the renderer about each fragment, last
// first. inside reports whether the location fell inside any fragment clip.
func (l *Layer) hitTestContentsForFragments(fragments []LayerFragment, request HitTestRequest, result *HitTestResult, location HitTestLocation, filter HitTestFilter) (hit, inside bool) {
	for i := len(fragments) - 1; i >= 0; i-- {
		f := fragments[i]
		clip := f.Foreground
		if filter == HitTestSelf {
			clip = f.Background
		}
		if !request.IgnoreClipping() && !location.intersectsClip(clip) {
			continue
		}
		inside = true
		flowLocation := location.move(f.Translation)
		offset := f.LayerBounds.Min.Sub(l.renderer.Location())
		if l.renderer.HitTest(request, result, flowLocation, offset, filter) {
			return true, true
		}
	}
	return false, inside
}

// hitTestOverflowControls tests the resizer and scrollbars of l, which sit
// above its content.
func (l *Layer) hitTestOverflowControls(fragments []LayerFragment, location HitTestLocation) (OverflowControl, LayoutPoint, bool) {
	vertical, horizontal, resizer := overflowControlRects(l.renderer)
	controls := []struct {
		kind OverflowControl
		rect LayoutRect
	}{
		{OverflowControlResizer, resizer},
		{OverflowControlVerticalScrollbar, vertical},
		{OverflowControlHorizontalScrollbar, horizontal},
	}
	for i := len(fragments) - 1; i >= 0; i-- {
		f := fragments[i]
		if !location.intersectsClip(f.Background) {
			continue
		}
		origin := f.LayerBounds.Min.Add(f.Translation)
		for _, c := range controls {
			if c.rect.Empty() {
				continue
			}
			if location.Intersects(c.rect.Add(origin)) {
				return c.kind, location.Point().Sub(origin), true
			}
		}
	}
	return OverflowControlNone, LayoutPoint{}, false
}
