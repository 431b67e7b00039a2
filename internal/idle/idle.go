// Package idle implements the debounced idle-power controller: it watches
// every PresentedFrame for all-zero (fully dark) content and switches an
// external power device off once the installation has been dark long
// enough, back on as soon as it isn't.
package idle

import (
	"time"

	"github.com/Glitch752/RoomLEDs/internal/frame"
)

// PowerUpdateInterval is how often the last power command is re-issued
// regardless of transitions, protecting against a missed command leaving
// the relay in the wrong state.
const PowerUpdateInterval = 10 * time.Minute

// PowerStats is a point-in-time reading from a PowerDevice.
type PowerStats struct {
	CurrentPowerUsageWatts float64
}

// PowerDevice abstracts the physical power relay. SetPower failures are
// logged by implementations and never propagate as panics.
type PowerDevice interface {
	SetPower(on bool)
	GetStats() (PowerStats, bool)
}

// Tracker is a debounced state machine over the idle/active distinction. A
// zero Tracker is not usable; build one with New.
type Tracker struct {
	risingDebounce  time.Duration
	fallingDebounce time.Duration
	device          PowerDevice

	idle   *bool
	active bool

	lastSwitchTarget bool
	lastSwitchAt     time.Time
	debouncing       bool

	lastPowerUpdateAt time.Time
	now               func() time.Time
}

// New builds a Tracker. risingDebounce governs non-idle -> idle
// transitions; fallingDebounce governs idle -> non-idle.
func New(risingDebounce, fallingDebounce time.Duration, device PowerDevice) *Tracker {
	return &Tracker{
		risingDebounce:  risingDebounce,
		fallingDebounce: fallingDebounce,
		device:          device,
		now:             time.Now,
	}
}

// SetClock overrides the time source; tests use this to drive the debounce
// logic deterministically instead of sleeping in real time.
func (t *Tracker) SetClock(now func() time.Time) {
	t.now = now
}

// IsIdle reports the latched idle state; unknown reads as not-idle.
func (t *Tracker) IsIdle() bool {
	return t.idle != nil && *t.idle
}

// Update feeds one PresentedFrame through the debounce state machine,
// committing a power-state transition and issuing the periodic refresh
// exactly as described in the render loop's per-tick contract.
func (t *Tracker) Update(f frame.PresentedFrame) {
	now := t.now()
	if t.lastPowerUpdateAt.IsZero() {
		t.lastPowerUpdateAt = now
		t.lastSwitchAt = now
	}

	target := f.AllZero()

	if target != t.lastSwitchTarget || t.idle == nil {
		t.lastSwitchTarget = target
		t.lastSwitchAt = now
		t.debouncing = true
	}

	debounceTime := t.fallingDebounce
	if target {
		debounceTime = t.risingDebounce
	}

	shouldCommit := t.idle == nil ||
		(t.debouncing && now.Sub(t.lastSwitchAt) >= debounceTime && target != *t.idle)
	if shouldCommit {
		t.debouncing = false
		t.lastPowerUpdateAt = now
		idle := target
		t.idle = &idle
		t.device.SetPower(!idle)
	}

	if now.Sub(t.lastPowerUpdateAt) > PowerUpdateInterval {
		t.lastPowerUpdateAt = now
		idle := t.idle != nil && *t.idle
		t.device.SetPower(!idle)
	}
}
