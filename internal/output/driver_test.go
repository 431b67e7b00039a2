package output

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Glitch752/RoomLEDs/internal/cobs"
	"github.com/Glitch752/RoomLEDs/internal/frame"
)

// fakePort is an in-memory serialPort double: writes land in Written,
// reads are served from a queue of canned inbound byte slices. A read with
// nothing queued returns (0, nil), matching the real port's timeout
// behavior rather than erroring.
type fakePort struct {
	mu      sync.Mutex
	Written bytes.Buffer
	inbound [][]byte
}

func (p *fakePort) queueInbound(b []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inbound = append(p.inbound, b)
}

func (p *fakePort) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.inbound) == 0 {
		return 0, nil
	}
	next := p.inbound[0]
	n := copy(buf, next)
	if n == len(next) {
		p.inbound = p.inbound[1:]
	} else {
		p.inbound[0] = next[n:]
	}
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Written.Write(b)
}

func (p *fakePort) Close() error { return nil }

func (p *fakePort) SetReadTimeout(time.Duration) error { return nil }

var _ serialPort = (*fakePort)(nil)
var _ io.ReadWriteCloser = (*fakePort)(nil)

func encodedPacket(t *testing.T, bs ...byte) []byte {
	t.Helper()
	return append(cobs.Encode(bs), 0x00)
}

func TestIdentifySuccess(t *testing.T) {
	port := &fakePort{}
	port.queueInbound(encodedPacket(t, responseHandshake, 1))

	d := newDriver("/dev/fake0", port, zap.NewNop())
	d.identify()

	require.NotNil(t, d.ID)
	assert.Equal(t, 1, *d.ID)
}

func TestIdentifyOutOfRangeIDLeavesNil(t *testing.T) {
	port := &fakePort{}
	port.queueInbound(encodedPacket(t, responseHandshake, 9))

	d := newDriver("/dev/fake0", port, zap.NewNop())
	d.identify()

	assert.Nil(t, d.ID)
}

func TestIdentifyNoResponseLeavesNilAfterAllAttempts(t *testing.T) {
	port := &fakePort{}
	d := newDriver("/dev/fake0", port, zap.NewNop())
	d.identify()
	assert.Nil(t, d.ID)
}

func TestStrandLocationDefaultsToIndexZero(t *testing.T) {
	d := newDriver("/dev/fake0", &fakePort{}, zap.NewNop())
	assert.Equal(t, DriverLocations[0], d.strandLocation())
}

func TestSendFrameWritesReversedStrandOne(t *testing.T) {
	port := &fakePort{}
	d := newDriver("/dev/fake0", port, zap.NewNop())
	id := 1
	d.ID = &id // DriverLocations[1] = {405, 0}, reversed, length 406

	presented := frame.Present(frame.Empty(812))
	for i := 0; i < 812; i++ {
		presented.Bytes[i*3] = byte(i % 256)
	}

	require.NoError(t, d.SendFrame(presented))

	written := port.Written.Bytes()
	require.True(t, len(written) > 0)
	assert.Equal(t, byte(0x00), written[len(written)-1], "frame command must end with the COBS delimiter")

	decoded, err := cobs.Decode(bytes.TrimSuffix(written, []byte{0x00}))
	require.NoError(t, err)
	require.Len(t, decoded, 1+406*3)
	assert.Equal(t, byte(commandSendFrame), decoded[0])
	assert.Equal(t, byte(405%256), decoded[1], "reversed strand starts at pixel 405")
	assert.Equal(t, byte(0), decoded[1+405*3], "reversed strand ends at pixel 0")
}

func TestSetBrightnessSendsCommand(t *testing.T) {
	port := &fakePort{}
	d := newDriver("/dev/fake0", port, zap.NewNop())
	require.NoError(t, d.SetBrightness(200))

	decoded, err := cobs.Decode(bytes.TrimSuffix(port.Written.Bytes(), []byte{0x00}))
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, byte(commandSetBrightness), decoded[0])
	assert.Equal(t, byte(200), decoded[1])
}
