// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

import (
	"github.com/gogpu/layertree/graphics"
)

// PaintBehavior modifies a whole paint pass.
type PaintBehavior uint16

const (
	// PaintBehaviorSkipRootBackground leaves out the root layer's
	// background, for hosts that paint it themselves.
	PaintBehaviorSkipRootBackground PaintBehavior = 1 << iota
	// PaintBehaviorRootBackgroundOnly paints only the root background.
	PaintBehaviorRootBackgroundOnly
	// PaintBehaviorFlattenCompositingLayers paints composited layers into
	// the caller's context and flattens 3D transforms. Used for snapshots.
	PaintBehaviorFlattenCompositingLayers
	PaintBehaviorCompositedOverflowScrollContent
	PaintBehaviorEventRegionIncludeForeground
	PaintBehaviorEventRegionIncludeBackground
	PaintBehaviorSnapshotting
	PaintBehaviorFixedAndStickyLayersOnly
)

// PaintBehaviorNormal is the default behavior.
const PaintBehaviorNormal PaintBehavior = 0

// PaintPhase selects what a renderer draws when asked to paint.
type PaintPhase uint8

const (
	PaintPhaseBlockBackground PaintPhase = iota
	PaintPhaseChildBlockBackground
	PaintPhaseChildBlockBackgrounds
	PaintPhaseFloat
	PaintPhaseForeground
	PaintPhaseOutline
	PaintPhaseChildOutlines
	PaintPhaseSelfOutline
	PaintPhaseSelection
	PaintPhaseCollapsedTableBorders
	PaintPhaseTextClip
	PaintPhaseMask
	PaintPhaseClippingMask
	PaintPhaseEventRegion
	PaintPhaseAccessibility
)

var paintPhaseNames = [...]string{
	"BlockBackground", "ChildBlockBackground", "ChildBlockBackgrounds", "Float",
	"Foreground", "Outline", "ChildOutlines", "SelfOutline", "Selection",
	"CollapsedTableBorders", "TextClip", "Mask", "ClippingMask", "EventRegion",
	"Accessibility",
}

func (p PaintPhase) String() string {
	if int(p) < len(paintPhaseNames) {
		return paintPhaseNames[p]
	}
	return "Unknown"
}

// PaintLayerFlags carry per-layer state through the paint recursion.
type PaintLayerFlags uint16

const (
	// PaintLayerHaveTransparency: some ancestor in the current pass paints
	// into a transparency group that may not have begun yet.
	PaintLayerHaveTransparency PaintLayerFlags = 1 << iota
	// PaintLayerAppliedTransform: the layer's transform is already on the
	// context.
	PaintLayerAppliedTransform
	PaintLayerTemporaryClipRects
	PaintLayerPaintingReflection
	PaintLayerPaintingOverlayScrollbars
	PaintLayerPaintingCompositingBackgroundPhase
	PaintLayerPaintingCompositingForegroundPhase
	PaintLayerPaintingCompositingMaskPhase
	PaintLayerPaintingCompositingClipPathPhase
	PaintLayerPaintingOverflowContents
	PaintLayerPaintingRootBackgroundOnly
	PaintLayerPaintingSkipRootBackground
	PaintLayerPaintingChildClippingMaskPhase
	// PaintLayerPaintingSkipDescendantViewTransition skips layers that are
	// painted through a view transition snapshot.
	PaintLayerPaintingSkipDescendantViewTransition
	PaintLayerCollectingEventRegion
)

// PaintLayerPaintingCompositingAllPhases selects every phase a backing can
// be split into.
const PaintLayerPaintingCompositingAllPhases = PaintLayerPaintingCompositingBackgroundPhase |
	PaintLayerPaintingCompositingForegroundPhase |
	PaintLayerPaintingCompositingMaskPhase |
	PaintLayerPaintingCompositingClipPathPhase

// PaintInfo is handed to Renderer.Paint.
type PaintInfo struct {
	Context graphics.Context
	// Rect is the area to paint in the coordinate space of Context.
	Rect     LayoutRect
	Phase    PaintPhase
	Behavior PaintBehavior
	// PaintContainer is the layer whose contents are being painted.
	PaintContainer *Layer
	// SubtreePaintRoot limits painting to a renderer subtree when set.
	SubtreePaintRoot Renderer
	Regions          RegionContext
	Snapper          PixelSnapper
}

// ShouldPaintWithinRoot reports whether r is inside the subtree being
// painted.
func (pi *PaintInfo) ShouldPaintWithinRoot(r Renderer) bool {
	return pi.SubtreePaintRoot == nil || isDescendantOf(r, pi.SubtreePaintRoot)
}

// LayerPaintingInfo is the state shared by one paint recursion. RootLayer
// defines the coordinate space of PaintDirtyRect and of every clip; it is
// reset to the transformed layer when a transform is applied.
type LayerPaintingInfo struct {
	RootLayer        *Layer
	SubtreePaintRoot Renderer
	PaintDirtyRect   LayoutRect
	// SubpixelOffset is the fraction of a device pixel dropped when the
	// context was snapped for a transform.
	SubpixelOffset LayoutPoint
	PaintBehavior  PaintBehavior
	Regions        RegionContext

	// unclipped is set while painting the source of a pixel-moving filter,
	// which must see content outside the layer's clips.
	unclipped bool
}

// PaintRequest describes one paint or region collection pass.
type PaintRequest struct {
	// Context receives the drawing. It may be nil for region collection.
	Context graphics.Context
	// DirtyRect is in root layer coordinates. The zero rect paints
	// everything.
	DirtyRect        LayoutRect
	SubpixelOffset   LayoutPoint
	Behavior         PaintBehavior
	SubtreePaintRoot Renderer
	Flags            PaintLayerFlags
	// Regions switches the pass to event or accessibility region collection.
	Regions RegionContext
}

// Paint paints the whole tree from the root layer.
func (t *Tree) Paint(req PaintRequest) {
	t.root.Paint(req)
}

// Paint paints l and its paint-order descendants. Composited descendants
// are left to the compositor unless the request flattens.
func (l *Layer) Paint(req PaintRequest) {
	ctx := req.Context
	if ctx == nil {
		ctx = discardContext{}
	}
	dirty := req.DirtyRect
	if dirty == (LayoutRect{}) {
		dirty = InfiniteRect()
	}
	info := LayerPaintingInfo{
		RootLayer:        l,
		SubtreePaintRoot: req.SubtreePaintRoot,
		PaintDirtyRect:   dirty,
		SubpixelOffset:   req.SubpixelOffset,
		PaintBehavior:    req.Behavior,
		Regions:          req.Regions,
	}
	flags := req.Flags
	if req.Behavior&PaintBehaviorSkipRootBackground != 0 {
		flags |= PaintLayerPaintingSkipRootBackground
	}
	if req.Behavior&PaintBehaviorRootBackgroundOnly != 0 {
		flags |= PaintLayerPaintingRootBackgroundOnly
	}
	if req.Regions != nil && req.Regions.Phase() == PaintPhaseEventRegion {
		flags |= PaintLayerCollectingEventRegion
	}

	l.tree.containsDirtyOverlayScrollbars = false
	l.paintLayer(ctx, &info, flags)

	if l.tree.containsDirtyOverlayScrollbars && req.Regions == nil {
		l.tree.containsDirtyOverlayScrollbars = false
		l.paintLayer(ctx, &info, flags|PaintLayerPaintingOverlayScrollbars)
	}
}

// PaintIntoBacking paints l's contents into the backing the compositor
// allocated for it. The transform, opacity and filters of l are applied by
// the compositor and are not painted. phases selects the backing phases.
func (l *Layer) PaintIntoBacking(ctx graphics.Context, dirty LayoutRect, behavior PaintBehavior, phases PaintLayerFlags) {
	info := LayerPaintingInfo{RootLayer: l, PaintDirtyRect: dirty, PaintBehavior: behavior}
	l.paintLayerContents(ctx, &info, phases)
}

// PaintIntoProvidedBacking paints a layer that shares provider's backing.
// Coordinates are those of provider.
func (l *Layer) PaintIntoProvidedBacking(ctx graphics.Context, provider *Layer, dirty LayoutRect, behavior PaintBehavior) {
	info := LayerPaintingInfo{RootLayer: provider, PaintDirtyRect: dirty, PaintBehavior: behavior}
	l.paintLayerWithEffects(ctx, &info, PaintLayerTemporaryClipRects)
}

func (l *Layer) paintLayer(ctx graphics.Context, info *LayerPaintingInfo, flags PaintLayerFlags) {
	flatten := info.PaintBehavior&PaintBehaviorFlattenCompositingLayers != 0
	if l.IsComposited() {
		if !flatten {
			// Painted through PaintIntoBacking.
			return
		}
		flags |= PaintLayerTemporaryClipRects
	} else if l.paintsIntoProvidedBacking() && !flatten {
		return
	}

	if l.renderer.Style().Opacity <= 0 && !info.collectingAccessibilityRegions() {
		return
	}
	l.updateDescendantDependentFlags()
	if !l.isSelfPaintingLayer && !l.hasSelfPaintingLayerDescendant {
		return
	}
	l.paintLayerWithEffects(ctx, info, flags)
}

func (l *Layer) paintLayerWithEffects(ctx graphics.Context, info *LayerPaintingInfo, flags PaintLayerFlags) {
	l.updateDescendantDependentFlags()
	if l.paintsWithTransparency(info.PaintBehavior) {
		flags |= PaintLayerHaveTransparency
	}

	if !l.paintsWithTransform(info.PaintBehavior) || flags&PaintLayerAppliedTransform != 0 {
		l.paintLayerContentsAndReflection(ctx, info, flags)
		return
	}

	m := l.renderableTransform(info.PaintBehavior)
	if !m.IsInvertible() {
		Logger().Debug("layertree: non-invertible transform, layer not painted", "layer", l.id)
		return
	}

	parent := l.Parent()
	if flags&PaintLayerHaveTransparency != 0 {
		// Groups enclosing this layer must be open before the transform
		// is pushed.
		if parent != nil {
			parent.beginTransparencyLayers(ctx, info, info.PaintDirtyRect)
		} else {
			l.beginTransparencyLayers(ctx, info, info.PaintDirtyRect)
		}
	}

	if l.paginationLayerFor(info.RootLayer) != nil {
		l.paintTransformedLayerIntoFragments(ctx, info, flags)
		return
	}

	saved := false
	clip := InfiniteClipRect()
	if parent != nil {
		clip = l.backgroundClipRect(ClipRectsContext{
			RootLayer: info.RootLayer,
			Type:      clipRectsTypeFor(flags),
		}).IntersectRect(info.PaintDirtyRect)
		if !info.unclipped {
			saved = parent.clipToRect(ctx, info, clip, false)
		}
	}
	l.paintLayerByApplyingTransform(ctx, info, flags, LayoutPoint{})
	restoreClip(ctx, info, saved, clip)
}

func clipRectsTypeFor(flags PaintLayerFlags) ClipRectsType {
	if flags&PaintLayerTemporaryClipRects != 0 {
		return TemporaryClipRects
	}
	return PaintingClipRects
}

// paintLayerByApplyingTransform pushes l's transform, snapped to device
// pixels, and paints l with itself as the new root layer. translation is
// an extra offset such as a pagination fragment's.
func (l *Layer) paintLayerByApplyingTransform(ctx graphics.Context, info *LayerPaintingInfo, flags PaintLayerFlags, translation LayoutPoint) {
	offset := l.OffsetFromAncestor(info.RootLayer).Add(translation).Add(info.SubpixelOffset)
	snapped := l.tree.snapper.SnapPoint(offset)
	m := l.renderableTransform(info.PaintBehavior).TranslateRight(snapped.X, snapped.Y)

	ctx.Save()
	ctx.ConcatCTM(m.ToAffine())
	info.pushRegionTransform(m.ToAffine())

	local := *info
	local.RootLayer = l
	local.SubpixelOffset = offset.Sub(fromFloatPoint(snapped))
	if inv, ok := m.Inverse(); ok {
		local.PaintDirtyRect = mapRectThrough(inv, info.PaintDirtyRect)
	}
	l.paintLayerContentsAndReflection(ctx, &local, flags)

	info.popRegionTransform()
	ctx.Restore()
}

func (l *Layer) paintLayerContentsAndReflection(ctx graphics.Context, info *LayerPaintingInfo, flags PaintLayerFlags) {
	flags &^= PaintLayerAppliedTransform

	usedBefore := l.usedTransparency
	if l.reflection != nil && !l.paintingInsideReflection {
		// The replica paints inside l's group, which stays open for the
		// contents and is closed here.
		if flags&PaintLayerHaveTransparency != 0 {
			l.beginTransparencyLayers(ctx, info, info.PaintDirtyRect)
		}
		l.paintingInsideReflection = true
		l.reflection.paintLayer(ctx, info, flags&^PaintLayerHaveTransparency|PaintLayerPaintingReflection)
		l.paintingInsideReflection = false
	}

	l.paintLayerContents(ctx, info, flags|PaintLayerPaintingCompositingAllPhases)

	if l.usedTransparency && !usedBefore {
		ctx.EndTransparencyLayer()
		ctx.Restore()
		l.usedTransparency = false
	}
}

// paintLayerContents paints l's own phases and its paint-order lists in
// back-to-front order.
func (l *Layer) paintLayerContents(ctx graphics.Context, info *LayerPaintingInfo, flags PaintLayerFlags) {
	l.updateLayerListsIfNeeded()

	s := l.renderer.Style()
	haveTransparency := flags&PaintLayerHaveTransparency != 0
	overlayPass := flags&PaintLayerPaintingOverlayScrollbars != 0
	regionPhase, collecting := info.regionPhase()
	isRoot := l.IsRootLayer()

	shouldPaintContent := l.hasVisibleContent && l.isSelfPaintingLayer && !overlayPass
	if shouldPaintContent && !collecting && hasOverlayScrollbars(l.renderer) {
		l.tree.containsDirtyOverlayScrollbars = true
	}

	offsetFromRoot := l.OffsetFromAncestor(info.RootLayer)
	usedBefore := l.usedTransparency

	applyClipPath := s.ClipPath != nil && flags&PaintLayerPaintingCompositingClipPathPhase != 0 && !overlayPass
	wantsFilter := l.paintsWithFilters() && !overlayPass && !collecting &&
		flags&PaintLayerPaintingCompositingForegroundPhase != 0

	if haveTransparency && (applyClipPath || wantsFilter) {
		// Groups must enclose the state saved below.
		l.beginTransparencyLayers(ctx, info, info.PaintDirtyRect)
	}

	var clipPath graphics.RoundedRect
	if applyClipPath {
		clipPath = l.clipPathRect(offsetFromRoot.Add(info.SubpixelOffset))
		ctx.Save()
		ctx.ClipRoundedRect(clipPath)
		info.pushRegionFloatClip(clipPath.Rect)
	}

	local := *info
	current := ctx
	var fp *filterPainter
	skip := false
	if wantsFilter {
		fp = l.beginFilterPainting(info, offsetFromRoot)
		if fp == nil {
			skip = true
		} else {
			current = fp.recorder
			local.PaintDirtyRect = fp.sourceRect
			local.unclipped = local.unclipped || fp.movesPixels
		}
	}

	if !skip {
		clipCtx := ClipRectsContext{
			RootLayer:          local.RootLayer,
			Type:               clipRectsTypeFor(flags),
			IgnoreOverflowClip: flags&PaintLayerPaintingOverflowContents != 0,
		}
		fragments := l.collectFragments(clipCtx, local.PaintDirtyRect, offsetFromRoot)
		childFlags := flags &^ (PaintLayerPaintingChildClippingMaskPhase |
			PaintLayerPaintingRootBackgroundOnly | PaintLayerPaintingSkipRootBackground)

		paintsBackground := shouldPaintContent && !collecting &&
			flags&PaintLayerPaintingCompositingBackgroundPhase != 0 &&
			!(isRoot && flags&PaintLayerPaintingSkipRootBackground != 0)
		paintsForeground := flags&PaintLayerPaintingCompositingForegroundPhase != 0 &&
			!(isRoot && flags&PaintLayerPaintingRootBackgroundOnly != 0)

		if paintsBackground {
			l.paintBackgroundForFragments(current, ctx, &local, fragments, haveTransparency)
		}
		if paintsForeground {
			l.paintList(l.negZOrderList, current, &local, childFlags)

			if shouldPaintContent {
				phases := foregroundPhases
				if collecting {
					phases = []PaintPhase{regionPhase}
				}
				l.paintForegroundForFragments(current, ctx, &local, fragments, phases, haveTransparency)
				if !collecting {
					l.paintOutlineForFragments(current, &local, fragments)
				}
			}

			l.paintList(l.normalFlowList, current, &local, childFlags)
			l.paintList(l.posZOrderList, current, &local, childFlags)
		}

		if overlayPass && hasOverlayScrollbars(l.renderer) {
			l.paintOverflowControlsForFragments(current, &local, fragments)
		}

		if fp != nil {
			clip := ClipRect{Rect: fp.sourceRect}
			if len(fragments) > 0 {
				clip = fragments[0].Background
			}
			l.endFilterPainting(ctx, info, fp, clip)
		}

		if shouldPaintContent && !collecting {
			if s.HasMask && flags&PaintLayerPaintingCompositingMaskPhase != 0 {
				l.paintMaskForFragments(ctx, info, fragments)
			}
			if flags&PaintLayerPaintingChildClippingMaskPhase != 0 {
				l.paintChildClippingMaskForFragments(ctx, info, fragments)
			}
		}
	}

	if applyClipPath {
		info.popRegionClip()
		ctx.Restore()
	}

	if l.usedTransparency && !usedBefore {
		ctx.EndTransparencyLayer()
		ctx.Restore()
		l.usedTransparency = false
	}
}

// foregroundPhases are painted one after another over every fragment,
// since a phase must finish in all columns before the next starts.
var foregroundPhases = []PaintPhase{
	PaintPhaseChildBlockBackgrounds,
	PaintPhaseFloat,
	PaintPhaseForeground,
	PaintPhaseChildOutlines,
}

func hasOverlayScrollbars(r Renderer) bool {
	s := r.Style()
	return s.OverlayScrollbars && s.HasScrollableOverflow()
}

// clipPathRect is the inset clip-path in context coordinates for a layer
// whose border box starts at origin.
func (l *Layer) clipPathRect(origin LayoutPoint) graphics.RoundedRect {
	cp := l.renderer.Style().ClipPath
	box := borderBoxRect(l.renderer).Add(origin)
	box = expandRect(box, -Unit(cp.Top), -Unit(cp.Right), -Unit(cp.Bottom), -Unit(cp.Left))
	if box.Empty() {
		box = LayoutRect{Min: box.Min, Max: box.Min}
	}
	rr := graphics.RoundedRect{Rect: l.tree.snapper.SnapRect(box)}
	for i := range rr.Radii {
		rr.Radii[i] = graphics.FloatSize{W: cp.Radius, H: cp.Radius}
	}
	return rr
}

func (l *Layer) paintList(list []*Layer, ctx graphics.Context, info *LayerPaintingInfo, flags PaintLayerFlags) {
	if len(list) == 0 || !l.hasSelfPaintingLayerDescendant {
		return
	}
	detector := newLayerListMutationDetector(l)
	defer detector.release()

	for _, child := range list {
		if flags&PaintLayerPaintingSkipDescendantViewTransition != 0 && child.isViewTransitionCaptured() {
			continue
		}
		child.paintLayer(ctx, info, flags)
	}
}

func (l *Layer) paintBackgroundForFragments(ctx, transparencyCtx graphics.Context, info *LayerPaintingInfo, fragments []LayerFragment, haveTransparency bool) {
	for _, f := range fragments {
		if !f.ShouldPaintContent || f.Background.IsEmpty() {
			continue
		}
		if haveTransparency {
			l.beginTransparencyLayers(transparencyCtx, info, info.PaintDirtyRect)
		}
		saved := false
		if !info.unclipped {
			saved = l.clipToRect(ctx, info, f.Background, false)
		}
		l.paintFragmentPhase(ctx, info, f, PaintPhaseBlockBackground, f.Background)
		restoreClip(ctx, info, saved, f.Background)
	}
}

func (l *Layer) paintForegroundForFragments(ctx, transparencyCtx graphics.Context, info *LayerPaintingInfo, fragments []LayerFragment, phases []PaintPhase, haveTransparency bool) {
	if haveTransparency {
		for _, f := range fragments {
			if f.ShouldPaintContent && !f.Foreground.IsEmpty() {
				l.beginTransparencyLayers(transparencyCtx, info, info.PaintDirtyRect)
				break
			}
		}
	}

	// A single fragment is clipped once for all phases.
	single := len(fragments) == 1 && fragments[0].ShouldPaintContent && !fragments[0].Foreground.IsEmpty()
	saved := false
	if single && !info.unclipped {
		saved = l.clipToRect(ctx, info, fragments[0].Foreground, true)
	}
	for _, phase := range phases {
		for _, f := range fragments {
			if !f.ShouldPaintContent || f.Foreground.IsEmpty() {
				continue
			}
			fragmentSaved := false
			if !single && !info.unclipped {
				fragmentSaved = l.clipToRect(ctx, info, f.Foreground, true)
			}
			l.paintFragmentPhase(ctx, info, f, phase, f.Foreground)
			restoreClip(ctx, info, fragmentSaved, f.Foreground)
		}
	}
	if single {
		restoreClip(ctx, info, saved, fragments[0].Foreground)
	}
}

func (l *Layer) paintOutlineForFragments(ctx graphics.Context, info *LayerPaintingInfo, fragments []LayerFragment) {
	for _, f := range fragments {
		if f.Background.IsEmpty() {
			continue
		}
		saved := false
		if !info.unclipped {
			saved = l.clipToRect(ctx, info, f.Background, false)
		}
		l.paintFragmentPhase(ctx, info, f, PaintPhaseSelfOutline, f.Background)
		restoreClip(ctx, info, saved, f.Background)
	}
}

func (l *Layer) paintMaskForFragments(ctx graphics.Context, info *LayerPaintingInfo, fragments []LayerFragment) {
	for _, f := range fragments {
		if !f.ShouldPaintContent || f.Background.IsEmpty() {
			continue
		}
		saved := l.clipToRect(ctx, info, f.Background, false)
		l.paintFragmentPhase(ctx, info, f, PaintPhaseMask, f.Background)
		restoreClip(ctx, info, saved, f.Background)
	}
}

func (l *Layer) paintChildClippingMaskForFragments(ctx graphics.Context, info *LayerPaintingInfo, fragments []LayerFragment) {
	for _, f := range fragments {
		if !f.ShouldPaintContent || f.Foreground.IsEmpty() {
			continue
		}
		saved := l.clipToRect(ctx, info, f.Foreground, true)
		l.paintFragmentPhase(ctx, info, f, PaintPhaseClippingMask, f.Foreground)
		restoreClip(ctx, info, saved, f.Foreground)
	}
}

func (l *Layer) paintOverflowControlsForFragments(ctx graphics.Context, info *LayerPaintingInfo, fragments []LayerFragment) {
	for _, f := range fragments {
		if f.Background.IsEmpty() {
			continue
		}
		saved := l.clipToRect(ctx, info, f.Background, false)
		pi, offset := l.fragmentPaintInfo(ctx, info, f, PaintPhaseBlockBackground, f.Background)
		l.renderer.PaintOverflowControls(pi, offset)
		restoreClip(ctx, info, saved, f.Background)
	}
}

// paintFragmentPhase asks the renderer to paint one phase of one fragment.
// clip is the rect already applied to ctx.
func (l *Layer) paintFragmentPhase(ctx graphics.Context, info *LayerPaintingInfo, f LayerFragment, phase PaintPhase, clip ClipRect) {
	if f.Translation != (LayoutPoint{}) {
		tx, ty := UnitToFloat(f.Translation.X), UnitToFloat(f.Translation.Y)
		ctx.Save()
		ctx.Translate(tx, ty)
		info.pushRegionTransform(graphics.Translate(tx, ty))
		defer func() {
			info.popRegionTransform()
			ctx.Restore()
		}()
	}
	pi, offset := l.fragmentPaintInfo(ctx, info, f, phase, clip)
	l.renderer.Paint(pi, offset)
}

// fragmentPaintInfo builds the renderer-facing paint info for f. The
// returned offset is the origin of the renderer's parent.
func (l *Layer) fragmentPaintInfo(ctx graphics.Context, info *LayerPaintingInfo, f LayerFragment, phase PaintPhase, clip ClipRect) (*PaintInfo, LayoutPoint) {
	dirty := clip.Rect
	if f.Translation != (LayoutPoint{}) {
		dirty = moveRect(dirty, LayoutPoint{X: -f.Translation.X, Y: -f.Translation.Y})
	}
	pi := &PaintInfo{
		Context:          ctx,
		Rect:             dirty,
		Phase:            phase,
		Behavior:         info.PaintBehavior,
		PaintContainer:   l,
		SubtreePaintRoot: info.SubtreePaintRoot,
		Regions:          info.Regions,
		Snapper:          l.tree.snapper,
	}
	offset := f.LayerBounds.Min.Sub(l.renderer.Location()).Add(info.SubpixelOffset)
	return pi, offset
}
