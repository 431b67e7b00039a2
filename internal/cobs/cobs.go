// Package cobs implements Consistent Overhead Byte Stuffing: the
// zero-free framing format used on the serial link to every LED driver.
// Encode never emits a 0x00 byte; callers append the frame's trailing 0x00
// delimiter themselves, since COBS only concerns itself with the payload.
package cobs

import "errors"

// ErrZeroByte is returned by Decode when the encoded buffer contains a
// literal 0x00, which can never appear in valid COBS output.
var ErrZeroByte = errors.New("cobs: zero byte in encoded data")

// ErrMalformedBlock is returned by Decode when a length byte claims more
// bytes than remain in the buffer.
var ErrMalformedBlock = errors.New("cobs: malformed block")

// ErrEmptyPacket is returned by Decode when the encoded buffer is empty, or
// decodes to zero bytes.
var ErrEmptyPacket = errors.New("cobs: empty packet")

// Encode returns the COBS encoding of data. The result contains no 0x00
// bytes. Encoding an empty slice returns a single length byte (the
// degenerate zero-length block).
func Encode(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/254+1)
	out = append(out, 0) // placeholder for the first code byte
	codeIdx := 0
	code := byte(1)

	for _, b := range data {
		if b == 0 {
			out[codeIdx] = code
			codeIdx = len(out)
			out = append(out, 0)
			code = 1
			continue
		}
		out = append(out, b)
		code++
		if code == 0xFF {
			out[codeIdx] = code
			codeIdx = len(out)
			out = append(out, 0)
			code = 1
		}
	}
	out[codeIdx] = code
	return out
}

// Decode reverses Encode. An empty input, a literal 0x00 in the input, a
// length byte overrunning the buffer, or a decode producing zero bytes are
// all errors — the wire protocol never needs to carry an empty packet.
func Decode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPacket
	}

	out := make([]byte, 0, len(data))
	i := 0
	for i < len(data) {
		code := int(data[i])
		if code == 0 {
			return nil, ErrZeroByte
		}
		i++

		blockEnd := i + code - 1
		if blockEnd > len(data) {
			return nil, ErrMalformedBlock
		}
		for _, b := range data[i:blockEnd] {
			if b == 0 {
				return nil, ErrZeroByte
			}
		}
		out = append(out, data[i:blockEnd]...)
		i = blockEnd

		if code < 0xFF && i < len(data) {
			out = append(out, 0)
		}
	}

	if len(out) == 0 {
		return nil, ErrEmptyPacket
	}
	return out, nil
}
