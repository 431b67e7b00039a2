package idle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Glitch752/RoomLEDs/internal/frame"
)

type recordingDevice struct {
	calls []bool
}

func (r *recordingDevice) SetPower(on bool) { r.calls = append(r.calls, on) }
func (r *recordingDevice) GetStats() (PowerStats, bool) { return PowerStats{}, false }

func blackFrame() frame.PresentedFrame {
	return frame.PresentedFrame{Bytes: make([]byte, 12)}
}

func nonBlackFrame() frame.PresentedFrame {
	return frame.PresentedFrame{Bytes: []byte{1, 0, 0, 0, 0, 0}}
}

func TestDebouncedTransitionScenario(t *testing.T) {
	device := &recordingDevice{}
	tr := New(5*time.Second, 0, device)

	base := time.Unix(0, 0)
	clock := base
	tr.SetClock(func() time.Time { return clock })

	for i := 0; i < 5; i++ {
		tr.Update(blackFrame())
		clock = clock.Add(time.Second)
	}
	// First update commits immediately (idle starts unknown); the black
	// frames after it keep the latched idle state, so they commit nothing
	// further.
	require.GreaterOrEqual(t, len(device.calls), 1)
	assert.False(t, device.calls[0], "first-ever update commits immediately with power off (idle)")
}

func TestIdleTransitionEndToEndScenario(t *testing.T) {
	device := &recordingDevice{}
	tr := New(60*time.Second, 0, device)

	base := time.Unix(0, 0)
	clock := base
	tr.SetClock(func() time.Time { return clock })

	for i := 0; i < 120; i++ {
		tr.Update(blackFrame())
		clock = clock.Add(time.Second)
	}

	offCalls := countFalse(device.calls)
	assert.Equal(t, 1, offCalls, "exactly one set_power(false) for the idle transition")

	tr.Update(nonBlackFrame())
	clock = clock.Add(time.Second)
	tr.Update(nonBlackFrame())
	assert.True(t, device.calls[len(device.calls)-1])
}

func countFalse(calls []bool) int {
	n := 0
	for _, c := range calls {
		if !c {
			n++
		}
	}
	return n
}
