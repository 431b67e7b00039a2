package effects

import "github.com/Glitch752/RoomLEDs/internal/frame"

// Stripe paints repeating bands of StripeWidth pixels, each fading linearly
// into the next color in StripeColors (wrapping back to the first at the
// end of the list).
type Stripe struct {
	StripeWidth  int                `json:"stripe_width"`
	StripeColors []frame.PixelColor `json:"stripe_colors"`
}

// NewStripe wraps a Stripe effect as an Any.
func NewStripe(stripeWidth int, stripeColors []frame.PixelColor) *Any {
	return wrap("Stripe", &Stripe{StripeWidth: stripeWidth, StripeColors: stripeColors})
}

// Render implements Effect.
func (s *Stripe) Render(ctx RenderContext, info *RenderInfo) frame.Frame {
	f := frame.Empty(ctx.Pixels)
	n := len(s.StripeColors)
	if n == 0 || s.StripeWidth <= 0 {
		return f
	}

	patternLen := s.StripeWidth * n
	for i := 0; i < ctx.Pixels; i++ {
		pos := i % patternLen
		stripeIndex := pos / s.StripeWidth
		within := float64(pos%s.StripeWidth) / float64(s.StripeWidth)

		current := s.StripeColors[stripeIndex]
		next := s.StripeColors[(stripeIndex+1)%n]
		f.Set(i, current.Lerp(next, within))
	}
	return f
}
