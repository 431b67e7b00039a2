// Package control implements the boundary operations any external
// surface (HTTP handler, CLI, test) uses to drive a running render.State:
// replacing the root effect, enqueuing a temporary effect, submitting
// websocket pixel data, and reading a render-loop stats snapshot.
package control

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Glitch752/RoomLEDs/internal/effects"
	"github.com/Glitch752/RoomLEDs/internal/frame"
	"github.com/Glitch752/RoomLEDs/internal/render"
)

// lockTimeout bounds how long a control operation will wait for
// render.State; these calls happen far less often than render-loop ticks,
// so a more generous deadline than the render loop's own 1ms is
// appropriate without risking a real stall.
const lockTimeout = 20 * time.Millisecond

// ErrLockTimeout is returned by every operation in this package when the
// render-state lock could not be acquired within lockTimeout.
var ErrLockTimeout = fmt.Errorf("control: could not acquire render state")

// Surface wraps a render.State with the operations an external control
// plane needs. A zero Surface is not usable; build one with New.
type Surface struct {
	state *render.State
}

// New wraps state.
func New(state *render.State) *Surface {
	return &Surface{state: state}
}

// ReplaceEffect decodes data as a tagged AnyEffect and installs it as the
// root effect. On a decode error the previous root effect is left in
// place and the error is returned, matching the control plane's
// fail-safe-by-keeping-the-last-good-state contract. A nil/empty data
// installs solid black, the same fallback the original handler used for
// an absent effect body.
func (s *Surface) ReplaceEffect(data []byte) error {
	if len(data) == 0 {
		return s.setEffect(effects.NewSolidColor(frame.Black, 0, s.state.Pixels))
	}

	var e effects.Any
	if err := json.Unmarshal(data, &e); err != nil {
		return fmt.Errorf("control: decoding effect: %w", err)
	}
	return s.setEffect(&e)
}

func (s *Surface) setEffect(e *effects.Any) error {
	if !s.state.TryLock(lockTimeout) {
		return ErrLockTimeout
	}
	defer s.state.Unlock()
	s.state.SetEffect(e)
	return nil
}

// EnqueueTemporaryEffect decodes data as a tagged AnyTemporaryEffect and
// appends it to the temporary-effect queue.
func (s *Surface) EnqueueTemporaryEffect(data []byte) error {
	var e effects.AnyTemporaryEffect
	if err := json.Unmarshal(data, &e); err != nil {
		return fmt.Errorf("control: decoding temporary effect: %w", err)
	}

	if !s.state.TryLock(lockTimeout) {
		return ErrLockTimeout
	}
	defer s.state.Unlock()
	s.state.TemporaryEffects().Enqueue(&e)
	return nil
}

// SubmitWebsocketInput replaces the raw pixel buffer the WebsocketInput
// effect reads from.
func (s *Surface) SubmitWebsocketInput(data []byte) error {
	if !s.state.TryLock(lockTimeout) {
		return ErrLockTimeout
	}
	defer s.state.Unlock()
	s.state.Info().WebsocketInput = data
	return nil
}

// Stats is a point-in-time snapshot of render-loop health.
type Stats struct {
	Frames          uint64
	Time            float64
	FrameTimes      []float64
	DebugText       string
	HasPresentedFrame bool
}

// StatsSnapshot reads a consistent Stats snapshot from the shared
// RenderInfo.
func (s *Surface) StatsSnapshot() (Stats, error) {
	if !s.state.TryLock(lockTimeout) {
		return Stats{}, ErrLockTimeout
	}
	defer s.state.Unlock()

	info := s.state.Info()
	return Stats{
		Frames:            info.Frames,
		Time:              info.Time,
		FrameTimes:        info.FrameTimes(),
		DebugText:         info.DebugText,
		HasPresentedFrame: info.HasPresentedFrame,
	}, nil
}
