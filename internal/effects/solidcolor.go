package effects

import "github.com/Glitch752/RoomLEDs/internal/frame"

// SolidColor paints pixels [Start, Stop) with Color, leaving the rest
// transparent black.
type SolidColor struct {
	Color frame.PixelColor `json:"color"`
	Start int              `json:"start"`
	Stop  int              `json:"stop"`
}

// NewSolidColor wraps a SolidColor effect as an Any.
func NewSolidColor(color frame.PixelColor, start, stop int) *Any {
	return wrap("SolidColor", &SolidColor{Color: color, Start: start, Stop: stop})
}

// Render implements Effect.
func (s *SolidColor) Render(ctx RenderContext, info *RenderInfo) frame.Frame {
	f := frame.Empty(ctx.Pixels)
	start, stop := s.Start, s.Stop
	if start < 0 {
		start = 0
	}
	if stop > ctx.Pixels {
		stop = ctx.Pixels
	}
	for i := start; i < stop; i++ {
		f.Set(i, s.Color)
	}
	return f
}
