package render

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/Glitch752/RoomLEDs/internal/effects"
	"github.com/Glitch752/RoomLEDs/internal/filters"
	"github.com/Glitch752/RoomLEDs/internal/frame"
	"github.com/Glitch752/RoomLEDs/internal/idle"
	"github.com/Glitch752/RoomLEDs/internal/priority"
	"github.com/Glitch752/RoomLEDs/internal/ring"
)

// lockDeadline is the hard try-lock budget the render loop uses to
// acquire State every tick.
const lockDeadline = time.Millisecond

// Loop is the single dedicated render worker. It keeps Ring full, dropping
// a frame whenever it cannot acquire State within lockDeadline.
type Loop struct {
	State       *State
	Ring        *ring.Ring
	Filters     []filters.Filter
	IdleTracker *idle.Tracker
	// IdleTrackerEnabled gates whether frames are fed to IdleTracker at
	// all — the HOSTNAME=="lighting" production guard.
	IdleTrackerEnabled bool
	Logger             *zap.Logger

	lastTime time.Time
}

// Run pins the calling goroutine to its OS thread, attempts to elevate its
// scheduling priority, and then runs the render loop until ctx is
// canceled.
func (l *Loop) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	priority.Elevate(l.Logger)

	l.lastTime = time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		l.tick()
	}
}

// tick runs exactly one render-loop iteration: the locked render phase,
// the unlocked filter phase, idle tracking, and ring dispatch.
func (l *Loop) tick() {
	now := time.Now()
	delta := now.Sub(l.lastTime).Seconds()
	l.lastTime = now

	presented, ok := l.renderLocked(delta)
	if !ok {
		l.Logger.Warn("dropped frame: render-state lock contention")
		return
	}

	presented = filters.Chain(presented, l.Filters...)

	if l.IdleTrackerEnabled && l.IdleTracker != nil {
		l.IdleTracker.Update(presented)
	}

	for !l.Ring.TryPush(presented) {
		l.Ring.Park()
	}
}

// renderLocked acquires State, advances its clock and frame counter,
// renders one Frame, flattens it, and stores it as the latest observable
// frame — all before releasing the lock.
func (l *Loop) renderLocked(delta float64) (frame.PresentedFrame, bool) {
	if !l.State.TryLock(lockDeadline) {
		return frame.PresentedFrame{}, false
	}
	defer l.State.Unlock()

	info := l.State.Info()
	info.Time += delta
	info.RecordFrameTime(delta)

	ctx := effects.RenderContext{Delta: delta, Time: info.Time, Pixels: l.State.Pixels}

	base := l.State.Effect().Render(ctx, info)
	overlay := l.State.TemporaryEffects().Render(ctx, info)
	combined := compositeOverlay(base, overlay)

	presented := frame.Present(combined)
	info.CurrentPresentedFrame = presented
	info.HasPresentedFrame = true

	return presented, true
}

// compositeOverlay alpha-blends the temporary-effect overlay over the root
// effect's output, matching the render loop's
// AlphaCompositor.composite([effect, temporary_effects]) contract.
func compositeOverlay(base, overlay frame.Frame) frame.Frame {
	n := base.Len()
	out := frame.Empty(n)
	for i := 0; i < n; i++ {
		out.Set(i, frame.AlphaOver(base.Get(i), overlay.Get(i)))
	}
	return out
}
