package effects

import "github.com/Glitch752/RoomLEDs/internal/frame"

// WebsocketInput paints pixel i from bytes 3i, 3i+1, 3i+2 of
// info.WebsocketInput. Pixels beyond the buffer, or the whole frame when no
// buffer has been submitted, stay transparent.
type WebsocketInput struct{}

// NewWebsocketInput wraps a WebsocketInput effect as an Any.
func NewWebsocketInput() *Any {
	return wrap("WebsocketInput", &WebsocketInput{})
}

// Render implements Effect.
func (w *WebsocketInput) Render(ctx RenderContext, info *RenderInfo) frame.Frame {
	f := frame.Empty(ctx.Pixels)
	buf := info.WebsocketInput
	for i := 0; i < ctx.Pixels; i++ {
		base := i * 3
		if base+2 >= len(buf) {
			break
		}
		f.Set(i, frame.NewOpaque(buf[base], buf[base+1], buf[base+2]))
	}
	return f
}
