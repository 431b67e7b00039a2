// Package output drives the two USB-attached microcontroller strands: port
// discovery, an identify handshake, strand-direction mapping, and the
// per-frame COBS-framed dispatch loop.
package output

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"

	"github.com/Glitch752/RoomLEDs/internal/cobs"
	"github.com/Glitch752/RoomLEDs/internal/frame"
)

// BaudRate is the highest rate the ESP8266 firmware on each driver can be
// pushed to.
const BaudRate = 1_000_000

// ArduinoVID and ArduinoPID identify the USB-to-serial chip on every driver
// board; port discovery filters on this pair.
const (
	ArduinoVID = 0x10C4
	ArduinoPID = 0xEA60
)

// NumDrivers is the number of microcontroller strands this installation is
// wired for.
const NumDrivers = 2

const (
	commandIdentify      = 'i'
	commandSetBrightness = 'b'
	commandSendFrame     = '<'
	responseReady        = 'r'
	responseHandshake    = 'i'
	responseDebug        = 'd'

	identifyAttempts   = 5
	identifyRetryDelay = 100 * time.Millisecond
	identifyTimeout    = 100 * time.Millisecond
	readyTimeout       = 100 * time.Millisecond
	readPollTimeout    = 10 * time.Millisecond
)

// StrandLocation describes the inclusive pixel range a driver is
// responsible for. If End is less than Start, the strand runs in reverse.
type StrandLocation struct {
	Start int
	End   int
}

// DriverLocations is the fixed start/end pixel mapping for each of the two
// physical strands, in driver-ID order.
var DriverLocations = [NumDrivers]StrandLocation{
	{Start: 406, End: 811},
	{Start: 405, End: 0},
}

// Reversed reports whether a strand's pixel data must be walked back to
// front before transmission.
func (s StrandLocation) Reversed() bool {
	return s.End < s.Start
}

// errTimeout signals that no packet arrived before a caller-supplied
// deadline elapsed; it is not an I/O error.
var errTimeout = errors.New("output: timed out waiting for packet")

// serialPort is the subset of serial.Port this package depends on, so
// tests can substitute a fake. A Read that times out (per go.bug.st/serial
// semantics) returns (0, nil), not an error.
type serialPort interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Driver owns one open connection to a microcontroller strand.
type Driver struct {
	PortName string
	ID       *int

	port    serialPort
	logger  *zap.Logger
	strands [NumDrivers]StrandLocation
}

// DiscoverPorts lists serial ports matching ArduinoVID/ArduinoPID, sorted
// by port name. Order alone does not guarantee correct driver-to-strand
// assignment, which is why OpenDriver always runs the identify handshake.
func DiscoverPorts() ([]string, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("output: listing serial ports: %w", err)
	}

	var names []string
	for _, d := range details {
		if !d.IsUSB {
			continue
		}
		vid, err1 := parseHex(d.VID)
		pid, err2 := parseHex(d.PID)
		if err1 != nil || err2 != nil {
			continue
		}
		if vid == ArduinoVID && pid == ArduinoPID {
			names = append(names, d.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func parseHex(s string) (int, error) {
	var v int
	_, err := fmt.Sscanf(s, "%x", &v)
	return v, err
}

// OpenDriver opens portName at baudRate and runs the identify handshake.
// strands is the configured pixel-range mapping for each driver ID; a
// driver that fails to identify within identifyAttempts is still
// returned, with ID left nil and strand assignment defaulting to index 0,
// so a single misbehaving board does not halt the others.
func OpenDriver(portName string, baudRate int, strands [NumDrivers]StrandLocation, logger *zap.Logger) (*Driver, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("output: opening %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(readPollTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("output: setting read timeout on %s: %w", portName, err)
	}

	d := newDriver(portName, port, logger)
	d.strands = strands
	d.identify()
	return d, nil
}

func newDriver(portName string, port serialPort, logger *zap.Logger) *Driver {
	return &Driver{PortName: portName, port: port, logger: logger, strands: DriverLocations}
}

// Close releases the underlying port.
func (d *Driver) Close() error {
	return d.port.Close()
}

// strandLocation returns the pixel range this driver owns, defaulting to
// index 0 when identification never succeeded.
func (d *Driver) strandLocation() StrandLocation {
	if d.ID == nil {
		return d.strands[0]
	}
	return d.strands[*d.ID]
}

// readByte reads a single byte, reporting ok=false (no error) on a poll
// timeout rather than treating it as failure.
func (d *Driver) readByte() (b byte, ok bool, err error) {
	buf := make([]byte, 1)
	n, err := d.port.Read(buf)
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	return buf[0], true, nil
}

// sendCommand COBS-frames command+data and writes it, retrying forever on
// a write timeout (reported by the port as a (0, nil) short write, so a
// partial write is treated the same way) and logging, without retrying,
// any genuine I/O error.
func (d *Driver) sendCommand(command byte, data []byte) error {
	message := make([]byte, 0, len(data)+1)
	message = append(message, command)
	message = append(message, data...)

	encoded := cobs.Encode(message)
	encoded = append(encoded, 0x00)

	for written := 0; written < len(encoded); {
		n, err := d.port.Write(encoded[written:])
		if err != nil {
			d.logger.Warn("failed to write to driver", zap.String("port", d.PortName), zap.Error(err))
			return err
		}
		written += n
	}
	return nil
}

// readPacket reads one COBS-framed packet terminated by 0x00 within
// deadline. A leading stray 0x00 (the firmware occasionally emits one on a
// cold boot) is skipped rather than treated as an empty packet.
func (d *Driver) readPacket(deadline time.Duration) ([]byte, error) {
	start := time.Now()
	var packet []byte
	for {
		b, ok, err := d.readByte()
		if err != nil {
			return nil, err
		}
		if !ok {
			if time.Since(start) > deadline {
				return nil, errTimeout
			}
			continue
		}

		if b == 0x00 && len(packet) == 0 {
			continue
		}
		packet = append(packet, b)
		if b == 0x00 {
			break
		}
	}

	decoded, err := cobs.Decode(packet[:len(packet)-1])
	if err != nil {
		return nil, fmt.Errorf("output: decoding packet from %s: %w", d.PortName, err)
	}
	return decoded, nil
}

// waitForPacketDiscardOthers waits for a packet whose first byte is
// wantType, logging (and discarding) any debug packets seen along the way.
func (d *Driver) waitForPacketDiscardOthers(wantType byte, deadline time.Duration) ([]byte, error) {
	start := time.Now()
	for {
		remaining := deadline - time.Since(start)
		if remaining <= 0 {
			return nil, errTimeout
		}
		packet, err := d.readPacket(remaining)
		if err != nil {
			return nil, err
		}
		if len(packet) == 0 {
			continue
		}
		if packet[0] == wantType {
			return packet[1:], nil
		}
		if packet[0] == responseDebug {
			d.logger.Debug("driver debug message", zap.String("port", d.PortName), zap.Binary("data", packet))
		}
	}
}

// identify runs the handshake: send the identify command, wait for the
// handshake response, retry up to identifyAttempts times. A response with
// an out-of-range ID is treated as a failed attempt.
func (d *Driver) identify() {
	for attempt := 1; attempt <= identifyAttempts; attempt++ {
		if err := d.sendCommand(commandIdentify, nil); err != nil {
			time.Sleep(identifyRetryDelay)
			continue
		}

		response, err := d.waitForPacketDiscardOthers(responseHandshake, identifyTimeout)
		if err != nil || len(response) == 0 {
			d.logger.Warn("failed to identify driver", zap.String("port", d.PortName), zap.Int("attempt", attempt))
			time.Sleep(identifyRetryDelay)
			continue
		}

		id := int(response[0])
		if id >= NumDrivers {
			d.logger.Warn("driver reported out-of-range id", zap.String("port", d.PortName), zap.Int("id", id))
			time.Sleep(identifyRetryDelay)
			continue
		}
		d.ID = &id
		d.logger.Info("identified driver", zap.String("port", d.PortName), zap.Int("id", id))
		return
	}
}

// SetBrightness sends the global brightness command.
func (d *Driver) SetBrightness(brightness byte) error {
	return d.sendCommand(commandSetBrightness, []byte{brightness})
}

// SendFrame waits for the driver's ready token (best-effort: absence is
// expected on the very first frame), extracts this driver's strand range
// from presented, reversing it if the strand runs end-to-start, and
// dispatches it as a frame command.
func (d *Driver) SendFrame(presented frame.PresentedFrame) error {
	_, _ = d.waitForPacketDiscardOthers(responseReady, readyTimeout)

	loc := d.strandLocation()
	start, end := loc.Start, loc.End
	reverse := loc.Reversed()
	if reverse {
		start, end = end, start
	}
	end++ // inclusive range

	length := end - start
	data := make([]byte, length*3)
	for i := 0; i < length; i++ {
		var pixelIndex int
		if reverse {
			pixelIndex = end - 1 - i
		} else {
			pixelIndex = start + i
		}
		r, g, b := presented.Get(pixelIndex)
		data[i*3+0] = r
		data[i*3+1] = g
		data[i*3+2] = b
	}

	return d.sendCommand(commandSendFrame, data)
}
