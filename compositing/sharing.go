// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compositing

import (
	"slices"

	"github.com/gogpu/layertree"
)

// A layer that would composite only because it overlaps a composited
// sibling can often paint into that sibling's backing instead. The
// composited layer is the provider; the layers painting into it are its
// sharing layers. Sharing is confined to one stacking context and ends as
// soon as another layer composites in front of the provider.

type provider struct {
	layer   *layertree.Layer
	bounds  layertree.LayoutRect
	sharing []*layertree.Layer
}

type sharingSnapshot struct {
	sequence int
	count    int
}

type sharingState struct {
	candidates      []*provider
	stackingContext *layertree.Layer
	sequence        int
	// finished collects providers whose sequence ended.
	finished []*provider
}

func (s *sharingState) snapshot() (sharingSnapshot, bool) {
	if s.stackingContext == nil {
		return sharingSnapshot{}, false
	}
	return sharingSnapshot{sequence: s.sequence, count: len(s.candidates)}, true
}

func (s *sharingState) start(l *layertree.Layer, bounds layertree.LayoutRect, stackingContext *layertree.Layer) {
	s.candidates = append(s.candidates[:0], &provider{layer: l, bounds: bounds})
	s.stackingContext = stackingContext
}

// addCandidate inserts l in z-order, at the position captured before l's
// descendants were traversed.
func (s *sharingState) addCandidate(l *layertree.Layer, bounds layertree.LayoutRect, snap sharingSnapshot, haveSnap bool) {
	p := &provider{layer: l, bounds: bounds}
	if !haveSnap || snap.sequence != s.sequence || snap.count > len(s.candidates) {
		s.candidates = slices.Insert(s.candidates, 0, p)
		return
	}
	s.candidates = slices.Insert(s.candidates, snap.count, p)
}

func (s *sharingState) end(endLayer *layertree.Layer) {
	for _, c := range s.candidates {
		c.sharing = deleteLayer(c.sharing, endLayer)
		s.finished = append(s.finished, c)
	}
	s.candidates = nil
	s.stackingContext = nil
	s.sequence++
}

// isAdditionalCandidate allows several providers only for composited
// scrollers, which clip their sharing layers, and only when they do not
// overlap.
func (s *sharingState) isAdditionalCandidate(l *layertree.Layer, bounds layertree.LayoutRect, stackingContext *layertree.Layer) bool {
	if len(s.candidates) == 0 || stackingContext == nil || stackingContext != s.stackingContext {
		return false
	}
	if !s.candidates[0].layer.UsesCompositedScrolling() || !l.UsesCompositedScrolling() {
		return false
	}
	for _, c := range s.candidates {
		if !bounds.Intersect(c.bounds).Empty() {
			return false
		}
	}
	return true
}

// candidateFor returns the provider l can paint into, or nil.
func (s *sharingState) candidateFor(l *layertree.Layer) *provider {
	if l.ReflectionLayer() != nil {
		return nil
	}
	for _, c := range s.candidates {
		if c.layer != l && inContainingBlockChain(l, c.layer) {
			return c
		}
	}
	return nil
}

func (s *sharingState) removeSharingLayer(l *layertree.Layer) {
	for _, c := range s.candidates {
		c.sharing = deleteLayer(c.sharing, l)
	}
}

// inContainingBlockChain reports whether ancestor is on the chain of
// layers that contain l. Out-of-flow layers skip ancestors that cannot
// contain them.
func inContainingBlockChain(l, ancestor *layertree.Layer) bool {
	pos := l.Renderer().Style().Position
	for p := l.Parent(); p != nil; p = p.Parent() {
		s := p.Renderer().Style()
		contains := true
		switch pos {
		case layertree.PositionAbsolute:
			contains = s.IsPositioned() || s.HasTransformRelatedProperty() || p.IsRootLayer()
		case layertree.PositionFixed:
			contains = s.HasTransformRelatedProperty() || p.IsRootLayer()
		}
		if !contains {
			continue
		}
		if p == ancestor {
			return true
		}
		pos = s.Position
	}
	return false
}
