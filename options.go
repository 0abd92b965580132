// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layertree

// TreeOption configures a Tree during creation.
//
// Example:
//
//	// Plain software painting
//	tree := layertree.NewTree(view)
//
//	// With a compositor and debug verification
//	tree := layertree.NewTree(view,
//	    layertree.WithCompositor(c),
//	    layertree.WithAssertions(true))
type TreeOption func(*treeOptions)

// treeOptions holds optional configuration for Tree creation.
type treeOptions struct {
	compositor   Compositor
	snapper      PixelSnapper
	assertions   bool
	viewportSize LayoutSize
}

func defaultOptions() treeOptions {
	return treeOptions{
		snapper: RoundHalfUpSnapper{Scale: 1},
	}
}

// WithCompositor attaches the component that owns composited backings.
// Without one, every layer paints into its ancestor's context.
func WithCompositor(c Compositor) TreeOption {
	return func(o *treeOptions) {
		o.compositor = c
	}
}

// WithPixelSnapper replaces the default round-half-up snapping at scale 1.
func WithPixelSnapper(s PixelSnapper) TreeOption {
	return func(o *treeOptions) {
		if s != nil {
			o.snapper = s
		}
	}
}

// WithAssertions enables consistency checks that panic on violation:
// layer position verification after each update pass and the layer list
// mutation detector.
func WithAssertions(enabled bool) TreeOption {
	return func(o *treeOptions) {
		o.assertions = enabled
	}
}

// WithViewportSize sets the viewport used for the root clip and for
// fixed-position layers. It defaults to the size of the root renderer.
func WithViewportSize(w, h float64) TreeOption {
	return func(o *treeOptions) {
		o.viewportSize = Size(w, h)
	}
}
