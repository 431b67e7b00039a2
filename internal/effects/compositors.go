package effects

import "github.com/Glitch752/RoomLEDs/internal/frame"

// AdditiveCompositor renders every child with the same context and combines
// the results pixel-by-pixel with saturating channel-wise addition; alpha
// is the max across children. A child returning a shorter frame simply
// contributes nothing past its own length.
type AdditiveCompositor struct {
	Children []*Any `json:"children"`
}

// NewAdditiveCompositor wraps an AdditiveCompositor effect as an Any.
func NewAdditiveCompositor(children ...*Any) *Any {
	return wrap("AdditiveCompositor", &AdditiveCompositor{Children: children})
}

// Render implements Effect.
func (a *AdditiveCompositor) Render(ctx RenderContext, info *RenderInfo) frame.Frame {
	out := frame.Empty(ctx.Pixels)
	for _, child := range a.Children {
		rendered := child.Render(ctx, info)
		n := rendered.Len()
		if n > ctx.Pixels {
			n = ctx.Pixels
		}
		for i := 0; i < n; i++ {
			out.Set(i, frame.AdditiveBlend(out.Get(i), rendered.Get(i)))
		}
	}
	return out
}

// AlphaCompositor renders every child with the same context and composites
// them in order, bottom to top, using standard "over" alpha blending.
type AlphaCompositor struct {
	Children []*Any `json:"children"`
}

// NewAlphaCompositor wraps an AlphaCompositor effect as an Any.
func NewAlphaCompositor(children ...*Any) *Any {
	return wrap("AlphaCompositor", &AlphaCompositor{Children: children})
}

// Render implements Effect.
func (a *AlphaCompositor) Render(ctx RenderContext, info *RenderInfo) frame.Frame {
	out := frame.Empty(ctx.Pixels)
	for _, child := range a.Children {
		rendered := child.Render(ctx, info)
		n := rendered.Len()
		if n > ctx.Pixels {
			n = ctx.Pixels
		}
		for i := 0; i < n; i++ {
			out.Set(i, frame.AlphaOver(out.Get(i), rendered.Get(i)))
		}
	}
	return out
}
