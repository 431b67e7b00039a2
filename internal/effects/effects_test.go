package effects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Glitch752/RoomLEDs/internal/expr"
	"github.com/Glitch752/RoomLEDs/internal/frame"
)

func renderInfo() *RenderInfo {
	return NewRenderInfo(nil)
}

func TestSolidColorScenario(t *testing.T) {
	e := NewSolidColor(frame.NewPixelColor(10, 20, 30, 0.5), 1, 3)
	ctx := RenderContext{Pixels: 4}
	f := e.Render(ctx, renderInfo())

	assert.Equal(t, frame.PixelColor{R: 0, G: 0, B: 0, Alpha: 0}, f.Get(0))
	assert.Equal(t, frame.NewPixelColor(10, 20, 30, 0.5), f.Get(1))
	assert.Equal(t, frame.NewPixelColor(10, 20, 30, 0.5), f.Get(2))
	assert.Equal(t, frame.PixelColor{R: 0, G: 0, B: 0, Alpha: 0}, f.Get(3))

	presented := frame.Present(f)
	assert.Equal(t, []byte{0, 0, 0, 5, 10, 15, 5, 10, 15, 0, 0, 0}, presented.Bytes)
}

func TestRotateWrapScenario(t *testing.T) {
	colors := []frame.PixelColor{
		frame.NewOpaque(1, 0, 0),
		frame.NewOpaque(2, 0, 0),
		frame.NewOpaque(3, 0, 0),
		frame.NewOpaque(4, 0, 0),
		frame.NewOpaque(5, 0, 0),
	}
	child := frame.Empty(5)
	for i, c := range colors {
		child.Set(i, c)
	}

	childEffect := wrap("fixed", fixedFrameEffect{f: child})
	ctx := RenderContext{Pixels: 5}

	right := Rotate{Child: childEffect, Rotation: expr.NewLiteral(2)}
	rightOut := right.Render(ctx, renderInfo())
	assert.Equal(t, []frame.PixelColor{colors[3], colors[4], colors[0], colors[1], colors[2]}, toSlice(rightOut))

	left := Rotate{Child: childEffect, Rotation: expr.NewLiteral(-1)}
	leftOut := left.Render(ctx, renderInfo())
	assert.Equal(t, []frame.PixelColor{colors[1], colors[2], colors[3], colors[4], colors[0]}, toSlice(leftOut))
}

func TestAdditiveSaturationScenario(t *testing.T) {
	a := wrap("fixed", fixedFrameEffect{f: solidFrame(4, frame.NewOpaque(200, 0, 0))})
	b := wrap("fixed", fixedFrameEffect{f: solidFrame(4, frame.NewOpaque(200, 0, 0))})

	comp := AdditiveCompositor{Children: []*Any{a, b}}
	out := comp.Render(RenderContext{Pixels: 4}, renderInfo())
	assert.Equal(t, frame.NewOpaque(255, 0, 0), out.Get(0))
}

func TestAlphaOverScenario(t *testing.T) {
	bottom := wrap("fixed", fixedFrameEffect{f: solidFrame(1, frame.NewOpaque(255, 0, 0))})
	top := wrap("fixed", fixedFrameEffect{f: solidFrame(1, frame.NewPixelColor(0, 0, 255, 0.5))})

	comp := AlphaCompositor{Children: []*Any{bottom, top}}
	out := comp.Render(RenderContext{Pixels: 1}, renderInfo())
	assert.Equal(t, frame.NewPixelColor(127, 0, 127, 1), out.Get(0))
}

func TestAlphaCompositorSingletonIdentity(t *testing.T) {
	x := wrap("fixed", fixedFrameEffect{f: solidFrame(3, frame.NewOpaque(9, 9, 9))})
	comp := AlphaCompositor{Children: []*Any{x}}
	out := comp.Render(RenderContext{Pixels: 3}, renderInfo())
	direct := x.Render(RenderContext{Pixels: 3}, renderInfo())
	assert.Equal(t, toSlice(direct), toSlice(out))
}

func TestJSONRoundTripAllEffectVariants(t *testing.T) {
	variants := []*Any{
		NewSolidColor(frame.NewOpaque(1, 2, 3), 0, 1),
		NewFlashingColor(1, 0, frame.NewOpaque(1, 2, 3), frame.NewOpaque(4, 5, 6)),
		NewStripe(2, []frame.PixelColor{frame.NewOpaque(1, 2, 3), frame.NewOpaque(4, 5, 6)}),
		NewWebsocketInput(),
		NewRotate(NewSolidColor(frame.Black, 0, 1), expr.NewLiteral(3)),
		NewAdditiveCompositor(NewSolidColor(frame.Black, 0, 1)),
		NewAlphaCompositor(NewSolidColor(frame.Black, 0, 1)),
	}

	for _, v := range variants {
		data, err := json.Marshal(v)
		require.NoError(t, err)

		var decoded Any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, v.Kind(), decoded.Kind())
	}
}

func TestUnknownEffectTypeErrors(t *testing.T) {
	var decoded Any
	err := json.Unmarshal([]byte(`{"type":"Sparkle"}`), &decoded)
	assert.Error(t, err)
}

func TestTemporaryEffectCompositorLifecycle(t *testing.T) {
	comp := NewTemporaryEffectCompositor()
	info := renderInfo()

	comp.Enqueue(NewDurationTemporaryEffect(NewSolidColor(frame.NewOpaque(1, 1, 1), 0, 1), 2))

	ctx := RenderContext{Pixels: 1}
	info.Time = 0
	out := comp.Render(ctx, info)
	assert.Equal(t, frame.NewOpaque(1, 1, 1), out.Get(0))
	assert.Equal(t, 1, comp.Len())

	info.Time = 1
	comp.Render(ctx, info)
	assert.Equal(t, 1, comp.Len())

	info.Time = 2
	comp.Render(ctx, info)
	assert.Equal(t, 0, comp.Len())
}

// fixedFrameEffect is a test double returning a precomputed Frame,
// standing in for effects whose rendering isn't under test.
type fixedFrameEffect struct {
	f frame.Frame
}

func (f fixedFrameEffect) Render(ctx RenderContext, info *RenderInfo) frame.Frame {
	return f.f
}

func solidFrame(pixels int, c frame.PixelColor) frame.Frame {
	f := frame.Empty(pixels)
	for i := 0; i < pixels; i++ {
		f.Set(i, c)
	}
	return f
}

func toSlice(f frame.Frame) []frame.PixelColor {
	out := make([]frame.PixelColor, f.Len())
	for i := range out {
		out[i] = f.Get(i)
	}
	return out
}
