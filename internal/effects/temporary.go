package effects

import (
	"encoding/json"
	"fmt"

	"github.com/Glitch752/RoomLEDs/internal/frame"
)

// AnyTemporaryEffect wraps any TemporaryEffect for serialization, the same
// tagged-union shape Any uses for the plain effect graph.
type AnyTemporaryEffect struct {
	kind   string
	effect TemporaryEffect
}

func wrapTemporary(kind string, e TemporaryEffect) *AnyTemporaryEffect {
	return &AnyTemporaryEffect{kind: kind, effect: e}
}

// NewDurationTemporaryEffect wraps a DurationTemporaryEffect as an
// AnyTemporaryEffect.
func NewDurationTemporaryEffect(effect *Any, duration float64) *AnyTemporaryEffect {
	return wrapTemporary("Duration", &DurationTemporaryEffect{Effect: effect, Duration: duration})
}

// Render implements Effect.
func (a *AnyTemporaryEffect) Render(ctx RenderContext, info *RenderInfo) frame.Frame {
	if a == nil || a.effect == nil {
		return frame.Empty(ctx.Pixels)
	}
	return a.effect.Render(ctx, info)
}

// Start implements TemporaryEffect.
func (a *AnyTemporaryEffect) Start(info *RenderInfo) {
	if a != nil && a.effect != nil {
		a.effect.Start(info)
	}
}

// IsFinished implements TemporaryEffect.
func (a *AnyTemporaryEffect) IsFinished(info *RenderInfo) bool {
	return a == nil || a.effect == nil || a.effect.IsFinished(info)
}

// Stop implements TemporaryEffect.
func (a *AnyTemporaryEffect) Stop(info *RenderInfo) {
	if a != nil && a.effect != nil {
		a.effect.Stop(info)
	}
}

// MarshalJSON writes {"type": <kind>, ...fields}.
func (a AnyTemporaryEffect) MarshalJSON() ([]byte, error) {
	inner, err := json.Marshal(a.effect)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(inner, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	typeTag, err := json.Marshal(a.kind)
	if err != nil {
		return nil, err
	}
	fields["type"] = typeTag
	return json.Marshal(fields)
}

// UnmarshalJSON dispatches on the "type" discriminator. Duration is
// presently the only defined temporary-effect kind.
func (a *AnyTemporaryEffect) UnmarshalJSON(data []byte) error {
	var disc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &disc); err != nil {
		return err
	}

	switch disc.Type {
	case "Duration":
		var v DurationTemporaryEffect
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		a.kind = disc.Type
		a.effect = &v
	default:
		return fmt.Errorf("effects: unknown temporary effect type %q", disc.Type)
	}
	return nil
}

// DurationTemporaryEffect renders Effect until Duration seconds have
// elapsed since it started.
type DurationTemporaryEffect struct {
	Effect   *Any    `json:"effect"`
	Duration float64 `json:"duration"`

	startTime float64
}

// Render implements Effect.
func (d *DurationTemporaryEffect) Render(ctx RenderContext, info *RenderInfo) frame.Frame {
	return d.Effect.Render(ctx, info)
}

// Start implements TemporaryEffect.
func (d *DurationTemporaryEffect) Start(info *RenderInfo) {
	d.startTime = info.Time
}

// IsFinished implements TemporaryEffect.
func (d *DurationTemporaryEffect) IsFinished(info *RenderInfo) bool {
	return info.Time-d.startTime >= d.Duration
}

// Stop implements TemporaryEffect.
func (d *DurationTemporaryEffect) Stop(info *RenderInfo) {}

// TemporaryEffectCompositor is the FIFO queue of temporary effects layered
// over the root effect. Only the head of the queue ever renders.
type TemporaryEffectCompositor struct {
	queue   []*AnyTemporaryEffect
	running bool
}

// NewTemporaryEffectCompositor returns an empty compositor.
func NewTemporaryEffectCompositor() *TemporaryEffectCompositor {
	return &TemporaryEffectCompositor{}
}

// Enqueue appends a temporary effect to the back of the queue.
func (t *TemporaryEffectCompositor) Enqueue(e *AnyTemporaryEffect) {
	t.queue = append(t.queue, e)
}

// Len returns the number of queued temporary effects, including the head.
func (t *TemporaryEffectCompositor) Len() int {
	return len(t.queue)
}

// Render implements Effect. Each tick it starts the queue head if it is not
// yet running, renders it, and, if it then reports finished, stops it and
// pops it. An empty queue renders a transparent frame.
func (t *TemporaryEffectCompositor) Render(ctx RenderContext, info *RenderInfo) frame.Frame {
	if len(t.queue) == 0 {
		return frame.Empty(ctx.Pixels)
	}

	head := t.queue[0]
	if !t.running {
		head.Start(info)
		t.running = true
	}

	out := head.Render(ctx, info)

	if head.IsFinished(info) {
		head.Stop(info)
		t.queue = t.queue[1:]
		t.running = false
	}

	return out
}
