package effects

import (
	"math"

	"github.com/Glitch752/RoomLEDs/internal/frame"
)

// FlashingColor fills the whole frame with a sinusoidal interpolation
// between ColorA and ColorB, oscillating at Speed Hz with a phase Offset
// in seconds.
type FlashingColor struct {
	Speed  float64          `json:"speed"`
	Offset float64          `json:"offset"`
	ColorA frame.PixelColor `json:"color_a"`
	ColorB frame.PixelColor `json:"color_b"`
}

// NewFlashingColor wraps a FlashingColor effect as an Any.
func NewFlashingColor(speed, offset float64, colorA, colorB frame.PixelColor) *Any {
	return wrap("FlashingColor", &FlashingColor{Speed: speed, Offset: offset, ColorA: colorA, ColorB: colorB})
}

// Render implements Effect.
func (fc *FlashingColor) Render(ctx RenderContext, info *RenderInfo) frame.Frame {
	phase := 2 * math.Pi * fc.Speed * (ctx.Time + fc.Offset)
	// (sin+1)/2 maps the oscillation to [0,1] for the lerp ratio.
	t := (math.Sin(phase) + 1) / 2

	color := fc.ColorA.Lerp(fc.ColorB, t)

	f := frame.Empty(ctx.Pixels)
	for i := 0; i < ctx.Pixels; i++ {
		f.Set(i, color)
	}
	return f
}
