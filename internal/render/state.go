// Package render implements RenderState (the object the control plane and
// the render loop share) and the dedicated render-thread loop that keeps
// the SPSC frame ring full.
package render

import (
	"time"

	"github.com/Glitch752/RoomLEDs/internal/effects"
	"github.com/Glitch752/RoomLEDs/internal/frame"
	"github.com/Glitch752/RoomLEDs/internal/spatialmap"
)

// tryMutex is a non-reentrant mutex supporting try-lock-for-deadline,
// which sync.Mutex does not offer. A buffered channel of capacity one
// plays the role of the lock token.
type tryMutex chan struct{}

func newTryMutex() tryMutex {
	return make(tryMutex, 1)
}

// TryLockTimeout attempts to acquire the lock, giving up after d.
func (m tryMutex) TryLockTimeout(d time.Duration) bool {
	select {
	case m <- struct{}{}:
		return true
	case <-time.After(d):
		return false
	}
}

// Unlock releases the lock. Calling Unlock without a held lock panics, the
// same as sync.Mutex.
func (m tryMutex) Unlock() {
	select {
	case <-m:
	default:
		panic("render: Unlock of unlocked tryMutex")
	}
}

// State is the object the control plane and the render loop share:
// RenderInfo, the root effect, and the temporary-effect queue, all behind
// a single non-reentrant lock. Lock order: this is the innermost lock —
// no other lock may be held while acquiring it.
type State struct {
	Pixels int

	lock             tryMutex
	info             *effects.RenderInfo
	effect           *effects.Any
	temporaryEffects *effects.TemporaryEffectCompositor
}

// New builds a State for a pixels-pixel installation whose per-pixel
// physical locations are locations, with a default solid-black root
// effect. RenderState is created once at startup and lives for the
// process.
func New(pixels int, locations []spatialmap.Location) *State {
	return &State{
		Pixels:           pixels,
		lock:             newTryMutex(),
		info:             effects.NewRenderInfo(locations),
		effect:           effects.NewSolidColor(frame.Black, 0, pixels),
		temporaryEffects: effects.NewTemporaryEffectCompositor(),
	}
}

// TryLock attempts to acquire the lock, giving up after deadline (the
// render loop passes 1ms). Other holders (control-plane handlers) are
// expected to release within milliseconds and never perform network or
// disk I/O while holding it.
func (s *State) TryLock(deadline time.Duration) bool {
	return s.lock.TryLockTimeout(deadline)
}

// Unlock releases the lock acquired by TryLock.
func (s *State) Unlock() {
	s.lock.Unlock()
}

// Info returns the shared RenderInfo. Callers must hold the lock.
func (s *State) Info() *effects.RenderInfo {
	return s.info
}

// Effect returns the current root effect. Callers must hold the lock.
func (s *State) Effect() *effects.Any {
	return s.effect
}

// SetEffect atomically replaces the root effect tree. Callers must hold
// the lock.
func (s *State) SetEffect(e *effects.Any) {
	s.effect = e
}

// TemporaryEffects returns the FIFO compositor queue. Callers must hold
// the lock.
func (s *State) TemporaryEffects() *effects.TemporaryEffectCompositor {
	return s.temporaryEffects
}
