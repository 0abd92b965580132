// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package filter

import (
	"math"
	"sync"
)

// GaussianKernel returns a normalized 1D Gaussian kernel whose standard
// deviation is the CSS blur radius. It spans three deviations on each side,
// so len is 2*ceil(3*radius)+1. A radius <= 0 yields the identity [1].
func GaussianKernel(radius float64) []float32 {
	if radius <= 0 {
		return []float32{1}
	}
	half := int(math.Ceil(radius * 3))
	weights := make([]float64, 2*half+1)
	var total float64
	for i := range weights {
		d := float64(i - half)
		weights[i] = math.Exp(-d * d / (2 * radius * radius))
		total += weights[i]
	}
	kernel := make([]float32, len(weights))
	for i, w := range weights {
		kernel[i] = float32(w / total)
	}
	return kernel
}

// maxCachedKernels bounds the shared cache. Filters on a page tend to reuse
// a handful of radii.
const maxCachedKernels = 64

// kernels maps a radius quantized to 1/100 px to its kernel. Kernels are
// never mutated after creation, so callers share the slices.
var kernels struct {
	sync.Mutex
	byKey map[int][]float32
	order []int
}

// CachedGaussianKernel is GaussianKernel backed by a shared cache that
// drops the oldest radius once full.
func CachedGaussianKernel(radius float64) []float32 {
	key := int(math.Round(radius * 100))

	kernels.Lock()
	defer kernels.Unlock()
	if k, ok := kernels.byKey[key]; ok {
		return k
	}
	if kernels.byKey == nil {
		kernels.byKey = make(map[int][]float32, maxCachedKernels)
	}
	if len(kernels.order) == maxCachedKernels {
		delete(kernels.byKey, kernels.order[0])
		kernels.order = kernels.order[1:]
	}
	k := GaussianKernel(radius)
	kernels.byKey[key] = k
	kernels.order = append(kernels.order, key)
	return k
}
