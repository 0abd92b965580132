// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package graphics

// BlendMode is a CSS mix-blend-mode value.
type BlendMode uint8

// Blend modes, in the order of the CSS Compositing and Blending keywords.
const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
	BlendPlusLighter
)

var blendModeNames = [...]string{
	BlendNormal:      "normal",
	BlendMultiply:    "multiply",
	BlendScreen:      "screen",
	BlendOverlay:     "overlay",
	BlendDarken:      "darken",
	BlendLighten:     "lighten",
	BlendColorDodge:  "color-dodge",
	BlendColorBurn:   "color-burn",
	BlendHardLight:   "hard-light",
	BlendSoftLight:   "soft-light",
	BlendDifference:  "difference",
	BlendExclusion:   "exclusion",
	BlendHue:         "hue",
	BlendSaturation:  "saturation",
	BlendColor:       "color",
	BlendLuminosity:  "luminosity",
	BlendPlusLighter: "plus-lighter",
}

// String returns the CSS keyword for the mode.
func (m BlendMode) String() string {
	if int(m) < len(blendModeNames) {
		return blendModeNames[m]
	}
	return "unknown"
}

// ParseBlendMode returns the mode for a CSS keyword.
func ParseBlendMode(s string) (BlendMode, bool) {
	for i, name := range blendModeNames {
		if name == s {
			return BlendMode(i), true
		}
	}
	return BlendNormal, false
}

// IsSeparable reports whether the mode blends each channel independently.
func (m BlendMode) IsSeparable() bool {
	return m < BlendHue || m == BlendPlusLighter
}
