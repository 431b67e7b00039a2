package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Glitch752/RoomLEDs/internal/frame"
)

func TestFullAfterTwoPushes(t *testing.T) {
	r := New(2)
	f := frame.Present(frame.Empty(1))

	assert.True(t, r.TryPush(f))
	assert.True(t, r.TryPush(f))
	assert.True(t, r.IsFull())
	assert.False(t, r.TryPush(f))
}

func TestPopThenPushSucceeds(t *testing.T) {
	r := New(2)
	f := frame.Present(frame.Empty(1))

	require := assert.New(t)
	require.True(r.TryPush(f))
	require.True(r.TryPush(f))

	_, ok := r.TryPop()
	require.True(ok)
	require.False(r.IsFull())
	require.True(r.TryPush(f))
}

func TestTryPopEmpty(t *testing.T) {
	r := New(2)
	_, ok := r.TryPop()
	assert.False(t, ok)
}

func TestFIFOOrder(t *testing.T) {
	r := New(2)
	a := frame.PresentedFrame{Bytes: []byte{1}}
	b := frame.PresentedFrame{Bytes: []byte{2}}

	r.TryPush(a)
	r.TryPush(b)

	got1, _ := r.TryPop()
	got2, _ := r.TryPop()
	assert.Equal(t, a, got1)
	assert.Equal(t, b, got2)
}
