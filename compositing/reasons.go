// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compositing

import (
	"math/bits"
	"strings"
)

// Reason is a set of reasons a layer got its own backing.
type Reason uint32

const (
	ReasonTransform3D Reason = 1 << iota
	ReasonVideo
	ReasonCanvas
	ReasonPlugin
	ReasonIFrame
	ReasonBackfaceVisibilityHidden
	ReasonFilters
	ReasonWillChange
	ReasonPositionFixed
	ReasonPositionSticky
	ReasonOverflowScrolling
	ReasonStacking
	ReasonOverlap
	ReasonNegativeZIndexChildren
	ReasonTransformWithCompositedDescendants
	ReasonOpacityWithCompositedDescendants
	ReasonMaskWithCompositedDescendants
	ReasonReflectionWithCompositedDescendants
	ReasonFilterWithCompositedDescendants
	ReasonBlendingWithCompositedDescendants
	ReasonIsolatesCompositedBlendingDescendants
	ReasonClipsCompositingDescendants
	ReasonPerspective
	ReasonPreserve3D
	ReasonRoot
)

var reasonNames = [...]string{
	"3D transform",
	"video",
	"canvas",
	"plugin",
	"iframe",
	"backface-visibility: hidden",
	"filters",
	"will-change",
	"position: fixed",
	"position: sticky",
	"async overflow scrolling",
	"stacking",
	"overlap",
	"negative z-index children",
	"transform with composited descendants",
	"opacity with composited descendants",
	"mask with composited descendants",
	"reflection with composited descendants",
	"filter with composited descendants",
	"blending with composited descendants",
	"isolates composited blending descendants",
	"clips compositing descendants",
	"perspective",
	"preserve-3d",
	"root",
}

// Has reports whether every reason in o is in r.
func (r Reason) Has(o Reason) bool { return r&o == o }

// String lists the reasons separated by commas.
func (r Reason) String() string {
	if r == 0 {
		return "none"
	}
	var names []string
	for v := uint32(r); v != 0; v &= v - 1 {
		i := bits.TrailingZeros32(v)
		if i < len(reasonNames) {
			names = append(names, reasonNames[i])
		}
	}
	return strings.Join(names, ", ")
}

// indirectReason is why a layer composites because of other layers.
type indirectReason uint8

const (
	indirectNone indirectReason = iota
	indirectStacking
	indirectOverlap
	indirectBackgroundLayer
	indirectGraphicalEffect
	indirectPerspective
	indirectPreserve3D
	indirectClipping
)
