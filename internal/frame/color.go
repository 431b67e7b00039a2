// Package frame defines the pixel and frame value types shared by every
// effect, filter, and output-stage component: PixelColor, Frame, and
// PresentedFrame.
package frame

import (
	"github.com/lucasb-eyer/go-colorful"
)

// PixelColor is a single unit of color data with a continuous alpha channel.
//
// Alpha is not premultiplied: all compositing works in straight color with a
// separate float alpha, and conversion to a PresentedFrame is the one place
// the alpha gets flattened away.
type PixelColor struct {
	R     uint8   `json:"r"`
	G     uint8   `json:"g"`
	B     uint8   `json:"b"`
	Alpha float64 `json:"alpha"`
}

// Black is fully opaque black.
var Black = PixelColor{R: 0, G: 0, B: 0, Alpha: 1}

// NewPixelColor builds a PixelColor from explicit channels and alpha.
func NewPixelColor(r, g, b uint8, alpha float64) PixelColor {
	return PixelColor{R: r, G: g, B: b, Alpha: alpha}
}

// NewOpaque builds a fully-opaque PixelColor from an (r, g, b) triple.
func NewOpaque(r, g, b uint8) PixelColor {
	return PixelColor{R: r, G: g, B: b, Alpha: 1}
}

// FromHSL builds a PixelColor from hue [0,360), saturation [0,1], lightness
// [0,1], and an explicit alpha.
func FromHSL(hue, saturation, lightness, alpha float64) PixelColor {
	c := colorful.Hsl(hue, saturation, lightness)
	r, g, b := c.Clamped().RGB255()
	return PixelColor{R: r, G: g, B: b, Alpha: alpha}
}

// HSL returns the pixel's hue [0,360), saturation [0,1], and lightness [0,1].
// Alpha is not part of the conversion.
func (p PixelColor) HSL() (hue, saturation, lightness float64) {
	c := colorful.Color{R: float64(p.R) / 255, G: float64(p.G) / 255, B: float64(p.B) / 255}
	return c.Hsl()
}

// WithAlpha returns a copy of p with alpha replaced.
func (p PixelColor) WithAlpha(alpha float64) PixelColor {
	p.Alpha = alpha
	return p
}

// Lerp linearly interpolates each channel (and alpha) independently toward
// other by t. t is not clamped; callers wanting a clamped blend should clamp
// t themselves.
func (p PixelColor) Lerp(other PixelColor, t float64) PixelColor {
	return PixelColor{
		R:     lerpChannel(p.R, other.R, t),
		G:     lerpChannel(p.G, other.G, t),
		B:     lerpChannel(p.B, other.B, t),
		Alpha: p.Alpha*(1-t) + other.Alpha*t,
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}

// saturatingAddU8 adds two channels, clamping at 255 instead of wrapping.
func saturatingAddU8(a, b uint8) uint8 {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}

// AdditiveBlend combines two pixels with saturating per-channel addition;
// resulting alpha is the max of the two.
func AdditiveBlend(a, b PixelColor) PixelColor {
	return PixelColor{
		R:     saturatingAddU8(a.R, b.R),
		G:     saturatingAddU8(a.G, b.G),
		B:     saturatingAddU8(a.B, b.B),
		Alpha: maxFloat(a.Alpha, b.Alpha),
	}
}

// AlphaOver composites fg over bg using standard "over" alpha blending:
// out = fg*alpha + bg*(1-alpha) per channel. Resulting alpha is the max of
// the two, matching the compositor contract in the render pipeline.
func AlphaOver(bg, fg PixelColor) PixelColor {
	a := fg.Alpha
	inv := 1 - a
	return PixelColor{
		R:     uint8(float64(bg.R)*inv + float64(fg.R)*a),
		G:     uint8(float64(bg.G)*inv + float64(fg.G)*a),
		B:     uint8(float64(bg.B)*inv + float64(fg.B)*a),
		Alpha: maxFloat(bg.Alpha, fg.Alpha),
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
