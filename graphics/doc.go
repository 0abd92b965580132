// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package graphics holds the float geometry, transform matrices and the
// drawing Context interface shared by the layer tree, the command recorder
// and the raster backend.
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Z increases toward the viewer
//
// TransformationMatrix follows the row-vector convention: a point p maps to
// p*M, so translation lives in M41, M42 and M43 and Multiply(other) applies
// other first.
package graphics
