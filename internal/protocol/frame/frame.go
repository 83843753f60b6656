// Package frame reads and writes whole OpenFlow messages: the eight byte
// ofp_header followed by the message body.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/ofwire/internal/protocol"
)

const HeaderLen uint16 = 8

var (
	ErrShortHeader     = errors.New("frame: short ofp_header")
	ErrLengthTooSmall  = errors.New("frame: length smaller than ofp_header")
	ErrPayloadTooLarge = errors.New("frame: payload too large")
)

// Header is ofp_header.
type Header struct {
	Version protocol.Version
	Type    uint8
	Length  uint16
	XID     uint32
}

// Frame is one complete wire message.
type Frame struct {
	Header  Header
	Payload []byte
}

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxPayloadBytes uint64
}

func DefaultLimits() Limits {
	return Limits{MaxPayloadBytes: uint64(0xffff - HeaderLen)}
}

func ReadFrame(r io.Reader, limits Limits) (Frame, error) {
	var fixed [HeaderLen]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return Frame{}, ErrShortHeader
		}
		return Frame{}, err
	}

	h, err := DecodeHeader(fixed[:])
	if err != nil {
		return Frame{}, err
	}
	if h.Length < HeaderLen {
		return Frame{}, ErrLengthTooSmall
	}
	payloadLen := uint64(h.Length - HeaderLen)
	if payloadLen > limits.MaxPayloadBytes {
		return Frame{}, ErrPayloadTooLarge
	}

	payload := make([]byte, payloadLen)
	if payloadLen > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Frame{}, fmt.Errorf("%w: %v", protocol.ErrTruncated, err)
		}
	}
	return Frame{Header: h, Payload: payload}, nil
}

// WriteFrame backfills the header length from the payload.
func WriteFrame(w io.Writer, f Frame, limits Limits) error {
	payloadLen := uint64(len(f.Payload))
	if payloadLen > limits.MaxPayloadBytes || payloadLen > uint64(0xffff-HeaderLen) {
		return ErrPayloadTooLarge
	}

	h := f.Header
	h.Length = HeaderLen + uint16(payloadLen)
	if _, err := w.Write(EncodeHeader(h)); err != nil {
		return err
	}
	if payloadLen > 0 {
		if _, err := w.Write(f.Payload); err != nil {
			return err
		}
	}
	return nil
}

func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderLen)
	buf[0] = byte(h.Version)
	buf[1] = h.Type
	binary.BigEndian.PutUint16(buf[2:4], h.Length)
	binary.BigEndian.PutUint32(buf[4:8], h.XID)
	return buf
}

func DecodeHeader(b []byte) (Header, error) {
	if len(b) != int(HeaderLen) {
		return Header{}, fmt.Errorf("frame: invalid ofp_header length: %d", len(b))
	}
	return Header{
		Version: protocol.Version(b[0]),
		Type:    b[1],
		Length:  binary.BigEndian.Uint16(b[2:4]),
		XID:     binary.BigEndian.Uint32(b[4:8]),
	}, nil
}
