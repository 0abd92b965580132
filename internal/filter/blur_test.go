// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package filter

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestBlurFilterExpandBounds(t *testing.T) {
	tests := []struct {
		name  string
		r     float64
		input image.Rectangle
		want  image.Rectangle
	}{
		{"zero radius", 0, image.Rect(10, 10, 100, 100), image.Rect(10, 10, 100, 100)},
		{"radius 5", 5, image.Rect(0, 0, 100, 100), image.Rect(-15, -15, 115, 115)},
		{"fractional", 1.2, image.Rect(0, 0, 10, 10), image.Rect(-4, -4, 14, 14)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewBlurFilter(tt.r).ExpandBounds(tt.input); got != tt.want {
				t.Errorf("ExpandBounds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlurZeroRadiusCopies(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	src := filledImage(10, 10, image.Rect(2, 2, 5, 5), red)
	dst := image.NewRGBA(src.Bounds())

	NewBlurFilter(0).Apply(src, dst, src.Bounds())

	if dst.RGBAAt(3, 3) != red {
		t.Errorf("pixel = %v, want red", dst.RGBAAt(3, 3))
	}
}

func TestBlurSpreadsAlpha(t *testing.T) {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	src := filledImage(40, 40, image.Rect(15, 15, 25, 25), white)
	dst := image.NewRGBA(src.Bounds())

	NewBlurFilter(2).Apply(src, dst, image.Rect(15, 15, 25, 25))

	center := dst.RGBAAt(20, 20)
	edge := dst.RGBAAt(14, 20)
	far := dst.RGBAAt(2, 2)
	if center.A < 200 {
		t.Errorf("center alpha = %d, want mostly opaque", center.A)
	}
	if edge.A == 0 || edge.A >= center.A {
		t.Errorf("edge alpha = %d, want between 0 and %d", edge.A, center.A)
	}
	if far.A != 0 {
		t.Errorf("far alpha = %d, want 0", far.A)
	}
}

func TestGaussianKernelNormalized(t *testing.T) {
	for _, r := range []float64{0.5, 1, 3, 7.5} {
		var sum float64
		k := GaussianKernel(r)
		for _, v := range k {
			sum += float64(v)
		}
		if math.Abs(sum-1) > 1e-5 {
			t.Errorf("radius %g: kernel sums to %g", r, sum)
		}
		if want := 2*int(math.Ceil(r*3)) + 1; len(k) != want {
			t.Errorf("radius %g: len = %d, want %d", r, len(k), want)
		}
	}
	if k := GaussianKernel(0); len(k) != 1 || k[0] != 1 {
		t.Errorf("zero radius kernel = %v, want [1]", k)
	}
}

func TestCachedGaussianKernel(t *testing.T) {
	a := CachedGaussianKernel(2)
	b := CachedGaussianKernel(2)
	if &a[0] != &b[0] {
		t.Error("expected cached kernel to be reused")
	}
}
