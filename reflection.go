// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

// updateReflection creates or removes the replica layer to match
// -webkit-box-reflect on l's renderer.
//
// The replica layer is owned by l. Its parent is l but it is not one of l's
// children, so it never appears in paint-order lists; l paints it directly
// before its own contents.
func (l *Layer) updateReflection() {
	s := l.renderer.Style()
	if s.Reflection == nil {
		if l.reflection != nil {
			l.removeReflection()
		}
		return
	}
	if l.reflection == nil {
		box := newReplicaBox(l)
		t := l.tree
		rl := newLayer(t, LayerID(len(t.layers)), box)
		t.layers = append(t.layers, rl)
		rl.parent = l.id
		box.layer = rl
		l.reflection = rl
		l.reflectionBox = box
		Logger().Debug("layertree: reflection created", "layer", l.id, "reflection", rl.id)
	}
	l.updateReflectionStyle()
}

func (l *Layer) removeReflection() {
	rl := l.reflection
	if rl == nil {
		return
	}
	rl.renderer.SetLayer(nil)
	l.tree.layers[rl.id] = nil
	l.reflection = nil
	l.reflectionBox = nil
	l.clearClipRects()
	Logger().Debug("layertree: reflection removed", "layer", l.id, "reflection", rl.id)
}

// updateReflectionStyle copies the owner's geometry onto the replica and
// rebuilds the mirroring transform.
func (l *Layer) updateReflectionStyle() {
	box := l.reflectionBox
	if box == nil {
		return
	}
	box.style = replicaStyle(l.renderer)
	box.size = l.renderer.Size()
	overflow := l.renderer.VisualOverflowRect()
	box.overflow = &overflow

	rl := l.reflection
	rl.updateTransform()
	rl.updateStackingFlags()
	rl.visibleContentStatusDirty = true
}

// replicaStyle is the style of the box that paints owner mirrored: only the
// reflection transform and owner's visibility carry over.
func replicaStyle(owner Renderer) *Style {
	ownerStyle := owner.Style()
	s := NewStyle()
	s.Visibility = ownerStyle.Visibility
	s.PointerEvents = PointerEventsNone
	if ownerStyle.Reflection != nil {
		s.Transform = reflectionOperations(*ownerStyle.Reflection, owner.Size())
	}
	return s
}

func newReplicaBox(owner *Layer) *Box {
	b := &Box{
		kind:      RendererReplica,
		name:      owner.renderer.Name() + "::reflection",
		style:     replicaStyle(owner.renderer),
		size:      owner.renderer.Size(),
		replicaOf: owner,
		tree:      owner.tree,
	}
	overflow := owner.renderer.VisualOverflowRect()
	b.overflow = &overflow
	return b
}

// paintReplica paints the owner of the replica box b in the replica's
// coordinate space. The owner skips its own reflection while inside it.
func (b *Box) paintReplica(pi *PaintInfo, origin LayoutPoint) {
	owner := b.replicaOf
	info := LayerPaintingInfo{
		RootLayer:        owner,
		SubtreePaintRoot: pi.SubtreePaintRoot,
		PaintDirtyRect:   moveRect(pi.Rect, LayoutPoint{X: -origin.X, Y: -origin.Y}),
		SubpixelOffset:   origin,
		PaintBehavior:    pi.Behavior,
	}
	owner.paintLayerWithEffects(pi.Context, &info,
		PaintLayerHaveTransparency|PaintLayerAppliedTransform|PaintLayerTemporaryClipRects|PaintLayerPaintingReflection)
}
