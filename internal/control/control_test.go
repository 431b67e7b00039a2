package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Glitch752/RoomLEDs/internal/effects"
	"github.com/Glitch752/RoomLEDs/internal/frame"
	"github.com/Glitch752/RoomLEDs/internal/render"
)

func newSurface(t *testing.T) (*Surface, *render.State) {
	t.Helper()
	state := render.New(10, nil)
	return New(state), state
}

func TestReplaceEffectValidJSON(t *testing.T) {
	s, state := newSurface(t)

	data, err := effects.NewSolidColor(frame.NewOpaque(1, 2, 3), 0, 10).MarshalJSON()
	require.NoError(t, err)

	require.NoError(t, s.ReplaceEffect(data))

	require.True(t, state.TryLock(time.Millisecond))
	defer state.Unlock()
	out := state.Effect().Render(effects.RenderContext{Pixels: 10}, state.Info())
	assert.Equal(t, frame.NewOpaque(1, 2, 3), out.Get(0))
}

func TestReplaceEffectEmptyInstallsBlack(t *testing.T) {
	s, state := newSurface(t)
	require.NoError(t, s.ReplaceEffect(nil))

	require.True(t, state.TryLock(time.Millisecond))
	defer state.Unlock()
	assert.Equal(t, "SolidColor", state.Effect().Kind())
}

func TestReplaceEffectMalformedJSONLeavesPreviousInPlace(t *testing.T) {
	s, state := newSurface(t)
	red, err := effects.NewSolidColor(frame.NewOpaque(255, 0, 0), 0, 10).MarshalJSON()
	require.NoError(t, err)
	require.NoError(t, s.ReplaceEffect(red))

	err = s.ReplaceEffect([]byte("not json"))
	assert.Error(t, err)

	require.True(t, state.TryLock(time.Millisecond))
	defer state.Unlock()
	out := state.Effect().Render(effects.RenderContext{Pixels: 10}, state.Info())
	assert.Equal(t, frame.NewOpaque(255, 0, 0), out.Get(0), "previous effect must survive a bad decode")
}

func TestSubmitWebsocketInputStoresBuffer(t *testing.T) {
	s, state := newSurface(t)
	require.NoError(t, s.SubmitWebsocketInput([]byte{1, 2, 3}))

	require.True(t, state.TryLock(time.Millisecond))
	defer state.Unlock()
	assert.Equal(t, []byte{1, 2, 3}, state.Info().WebsocketInput)
}

func TestStatsSnapshotReflectsRenderInfo(t *testing.T) {
	s, state := newSurface(t)

	require.True(t, state.TryLock(time.Millisecond))
	state.Info().RecordFrameTime(0.016)
	state.Unlock()

	stats, err := s.StatsSnapshot()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Frames)
	assert.Equal(t, []float64{0.016}, stats.FrameTimes)
}

func TestEnqueueTemporaryEffectAddsToQueue(t *testing.T) {
	s, state := newSurface(t)

	body := []byte(`{"type":"Duration","duration":1,"effect":{"type":"SolidColor","color":{"r":1,"g":2,"b":3,"alpha":1},"start":0,"stop":10}}`)
	require.NoError(t, s.EnqueueTemporaryEffect(body))

	require.True(t, state.TryLock(time.Millisecond))
	defer state.Unlock()
	assert.Equal(t, 1, state.TemporaryEffects().Len())
}
