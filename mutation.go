// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

// layerListMutationDetector marks a layer's lists as being iterated. While
// it is held, adding or removing children of the layer or rebuilding its
// z-order lists panics on trees built with assertions.
type layerListMutationDetector struct {
	layer    *Layer
	previous bool
}

func newLayerListMutationDetector(l *Layer) layerListMutationDetector {
	d := layerListMutationDetector{layer: l, previous: l.layerListMutationAllowed}
	l.layerListMutationAllowed = false
	return d
}

func (d layerListMutationDetector) release() {
	d.layer.layerListMutationAllowed = d.previous
}
