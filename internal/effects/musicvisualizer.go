package effects

import (
	"math"
	"net"
	"sync"
	"time"

	"github.com/Glitch752/RoomLEDs/internal/frame"
)

// blockSize is the number of pixels each amplitude byte in a datagram
// represents before interpolation.
const blockSize = 4

// pulseSectionWidth is the half-width (in pixels, inclusive) of each
// fallback pulse cluster.
const pulseSectionWidth = 3

// fallbackAfter is how long without a datagram before MusicVisualizer
// switches to the pulsing-red fallback pattern.
const fallbackAfter = 2 * time.Second

// MusicVisualizer listens for UDP amplitude datagrams on Port and renders a
// hue gradient driven by the latest one. Each datagram holds P/blockSize
// amplitude bytes, linearly interpolated across the frame. When no
// datagram has arrived for fallbackAfter, it renders a pulsing-red fallback
// instead.
//
// The UDP socket is exclusively owned by the effect instance and never
// shared. It is opened when the effect is decoded from JSON, or on the
// first render for one built with NewMusicVisualizer.
type MusicVisualizer struct {
	Port int `json:"port"`

	mu           sync.Mutex
	conn         *net.UDPConn
	amplitudes   []byte
	lastPacketAt time.Time
	readBuf      []byte
}

// NewMusicVisualizer wraps a MusicVisualizer effect as an Any. The UDP
// socket is opened lazily on the first render.
func NewMusicVisualizer(port int) *Any {
	return wrap("MusicVisualizer", &MusicVisualizer{Port: port})
}

func (m *MusicVisualizer) start() error {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: m.Port})
	if err != nil {
		return err
	}
	m.conn = conn
	m.readBuf = make([]byte, 65507)
	return nil
}

// drain reads every pending datagram, keeping only the latest — "multiple
// datagrams per render tick: the latest wins; earlier ones are drained."
func (m *MusicVisualizer) drain() {
	if m.conn == nil {
		return
	}
	for {
		_ = m.conn.SetReadDeadline(time.Now())
		n, err := m.conn.Read(m.readBuf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		m.amplitudes = append(m.amplitudes[:0], m.readBuf[:n]...)
		m.lastPacketAt = time.Now()
	}
}

// Render implements Effect.
func (m *MusicVisualizer) Render(ctx RenderContext, info *RenderInfo) frame.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		if err := m.start(); err != nil {
			return m.renderFallback(ctx)
		}
	}
	m.drain()

	if m.lastPacketAt.IsZero() || time.Since(m.lastPacketAt) > fallbackAfter || len(m.amplitudes) == 0 {
		return m.renderFallback(ctx)
	}
	return m.renderFromAmplitudes(ctx)
}

func (m *MusicVisualizer) renderFromAmplitudes(ctx RenderContext) frame.Frame {
	f := frame.Empty(ctx.Pixels)
	ampCount := len(m.amplitudes)
	if ctx.Pixels == 0 {
		return f
	}

	for i := 0; i < ctx.Pixels; i++ {
		amp := m.interpolateAmplitude(i, ctx.Pixels, ampCount)
		hue := 360 * float64(i) / float64(ctx.Pixels)
		f.Set(i, frame.FromHSL(hue, 0.5, amp/255, 1))
	}
	return f
}

func (m *MusicVisualizer) interpolateAmplitude(pixel, pixels, ampCount int) float64 {
	if ampCount == 1 {
		return float64(m.amplitudes[0])
	}
	pos := float64(pixel) * float64(ampCount-1) / float64(pixels-1)
	idx0 := int(math.Floor(pos))
	if idx0 >= ampCount-1 {
		return float64(m.amplitudes[ampCount-1])
	}
	frac := pos - float64(idx0)
	return float64(m.amplitudes[idx0])*(1-frac) + float64(m.amplitudes[idx0+1])*frac
}

func (m *MusicVisualizer) renderFallback(ctx RenderContext) frame.Frame {
	f := frame.Empty(ctx.Pixels)
	if ctx.Pixels == 0 {
		return f
	}

	alpha := math.Sin(2*ctx.Time)*0.4 + 0.4
	red := frame.NewPixelColor(255, 0, 0, alpha)

	paintCluster := func(center int) {
		for d := -pulseSectionWidth; d <= pulseSectionWidth; d++ {
			idx := euclideanMod(center+d, ctx.Pixels)
			f.Set(idx, red)
		}
	}

	paintCluster(0)
	paintCluster(ctx.Pixels / 2)
	return f
}
