// Package effects implements the effect graph: a closed tagged-union of
// render-tree node types that each turn a RenderContext/RenderInfo pair into
// a Frame, plus the temporary-effect FIFO compositor layered on top.
package effects

import (
	"github.com/Glitch752/RoomLEDs/internal/frame"
	"github.com/Glitch752/RoomLEDs/internal/spatialmap"
)

// RenderContext carries the per-call parameters every effect renders with.
type RenderContext struct {
	// Delta is the time since the previous render, in seconds.
	Delta float64
	// Time is the cumulative render-loop time, in seconds.
	Time float64
	// Pixels is the pixel count of the Frame the effect must return.
	Pixels int
}

// RenderInfo is the process-wide, mutable state shared by every effect
// across renders. A render may read and write it; the render loop owns
// serializing access via RenderState's lock.
type RenderInfo struct {
	// Time is accumulated seconds since the render loop started.
	Time float64

	// frameTimes is a fixed-size ring of the last K frame deltas; Frames
	// counts total frames produced. Indexed modulo len(frameTimes) so
	// recording a frame time never allocates; each tick still allocates
	// its rendered Frames and PresentedFrame.
	frameTimes [100]float64
	Frames     uint64

	// CurrentPresentedFrame is the last flattened frame, readable by
	// observers once HasPresentedFrame is true.
	CurrentPresentedFrame frame.PresentedFrame
	HasPresentedFrame      bool

	// DebugText is free-form diagnostic text set by effects.
	DebugText string

	// PixelLocations is the materialized spatial-map array, size P.
	PixelLocations []spatialmap.Location

	// WebsocketInput is an optional raw byte buffer submitted by a client
	// for the WebsocketInput effect; that effect consumes it by reading,
	// the control plane produces it by writing.
	WebsocketInput []byte
}

// NewRenderInfo builds a RenderInfo for pixelLocations produced by a
// spatial map.
func NewRenderInfo(pixelLocations []spatialmap.Location) *RenderInfo {
	return &RenderInfo{PixelLocations: pixelLocations}
}

// RecordFrameTime advances the frame-time ring and frame counter. Called
// once per render-loop tick, before that tick's frame is rendered.
func (r *RenderInfo) RecordFrameTime(delta float64) {
	r.frameTimes[r.Frames%uint64(len(r.frameTimes))] = delta
	r.Frames++
}

// FrameTimes returns a copy of the recorded frame deltas, oldest first,
// truncated to min(Frames, K).
func (r *RenderInfo) FrameTimes() []float64 {
	k := uint64(len(r.frameTimes))
	count := r.Frames
	if count > k {
		count = k
	}
	out := make([]float64, count)
	for i := uint64(0); i < count; i++ {
		// oldest is at (Frames - count) % K when Frames >= K, else simply i.
		var idx uint64
		if r.Frames <= k {
			idx = i
		} else {
			idx = (r.Frames - count + i) % k
		}
		out[i] = r.frameTimes[idx]
	}
	return out
}

// Effect is a render-tree node: one operation, render, producing exactly
// context.Pixels pixels. Render may mutate internal effect state (e.g.
// accumulated phase) and may mutate info (debug text, consuming
// WebsocketInput), but must not block. Every implementation in this
// package returns a newly allocated Frame from each call.
type Effect interface {
	Render(ctx RenderContext, info *RenderInfo) frame.Frame
}

// TemporaryEffect is an Effect with an explicit lifecycle: started once,
// polled for completion every tick, stopped once.
type TemporaryEffect interface {
	Effect
	Start(info *RenderInfo)
	IsFinished(info *RenderInfo) bool
	Stop(info *RenderInfo)
}
