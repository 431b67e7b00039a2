// Package filters implements PresentedFrame -> PresentedFrame
// post-processing stages applied after compositing, outside the
// render-state lock.
package filters

import (
	"math"

	"github.com/Glitch752/RoomLEDs/internal/frame"
)

// Filter maps a PresentedFrame to another PresentedFrame of the same
// length.
type Filter interface {
	Apply(f frame.PresentedFrame) frame.PresentedFrame
}

// GammaCorrection applies byte = round(255 * (byte/255)^gamma) to every
// channel of every pixel, via a 256-entry lookup table that rebuilds itself
// only when Gamma changes between calls.
type GammaCorrection struct {
	Gamma float64

	builtFor float64
	lut      [256]byte
	hasLUT   bool
}

// NewGammaCorrection returns a filter for the given exponent.
func NewGammaCorrection(gamma float64) *GammaCorrection {
	return &GammaCorrection{Gamma: gamma}
}

func (g *GammaCorrection) ensureLUT() {
	if g.hasLUT && g.builtFor == g.Gamma {
		return
	}
	for i := range g.lut {
		normalized := float64(i) / 255
		g.lut[i] = byte(math.Round(255 * math.Pow(normalized, g.Gamma)))
	}
	g.builtFor = g.Gamma
	g.hasLUT = true
}

// Apply implements Filter.
func (g *GammaCorrection) Apply(f frame.PresentedFrame) frame.PresentedFrame {
	g.ensureLUT()
	out := f.Clone()
	for i, b := range out.Bytes {
		out.Bytes[i] = g.lut[b]
	}
	return out
}

// Chain applies a sequence of filters in order.
func Chain(f frame.PresentedFrame, filters ...Filter) frame.PresentedFrame {
	for _, flt := range filters {
		f = flt.Apply(f)
	}
	return f
}
