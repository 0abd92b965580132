// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package filter implements the CSS filter functions applied to the
// offscreen image of a filtered layer.
//
// Filters read and write premultiplied *image.RGBA surfaces:
//   - Gaussian blur (separable, two passes)
//   - Drop shadow (alpha extract, blur, colorize, offset)
//   - Color matrix functions (grayscale, sepia, saturate, hue-rotate,
//     invert, opacity, brightness, contrast)
//
// A Chain applies several filters in order and reports the combined
// outsets, which the layer tree adds to the painted area so blur and
// shadow pixels outside the layer's box are not clipped away.
package filter
