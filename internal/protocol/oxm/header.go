// Package oxm encodes OpenFlow extensible match entries.
//
// The 32-bit OXM header packs class:16, field:7, hasmask:1 and length:8.
package oxm

import (
	"encoding/binary"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/bits"
)

const (
	ClassNXM0             uint16 = 0x0000
	ClassNXM1             uint16 = 0x0001
	ClassOpenFlowBasic    uint16 = 0x8000
	ClassPacketRegs       uint16 = 0x8001
	ClassExperimenter     uint16 = 0xffff
	HeaderLen                    = 4
	ExperimenterHeaderLen        = 8
)

var (
	classBits   = bits.Field{Start: 0, Width: 16}
	fieldBits   = bits.Field{Start: 16, Width: 7}
	hasMaskBits = bits.Field{Start: 23, Width: 1}
	lengthBits  = bits.Field{Start: 24, Width: 8}
)

// Header is an unpacked OXM header. Length counts the payload (value plus
// mask, plus the experimenter id for the experimenter class).
type Header struct {
	Class   uint16
	Field   uint8
	HasMask bool
	Length  uint8
}

// Pack returns the wire form of h.
func (h Header) Pack() ([]byte, error) {
	out := make([]byte, HeaderLen)
	mask := uint64(0)
	if h.HasMask {
		mask = 1
	}
	for _, s := range []struct {
		f bits.Field
		v uint64
	}{
		{classBits, uint64(h.Class)},
		{fieldBits, uint64(h.Field)},
		{hasMaskBits, mask},
		{lengthBits, uint64(h.Length)},
	} {
		if err := s.f.Set(out, s.v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Unpack parses a 4-byte OXM header.
func Unpack(raw []byte) (Header, error) {
	if len(raw) < HeaderLen {
		return Header{}, protocol.Errorf("unpack oxm", 0, protocol.ErrTruncated, "have %d bytes", len(raw))
	}
	class, _ := classBits.Get(raw)
	field, _ := fieldBits.Get(raw)
	mask, _ := hasMaskBits.Get(raw)
	length, _ := lengthBits.Get(raw)
	return Header{Class: uint16(class), Field: uint8(field), HasMask: mask == 1, Length: uint8(length)}, nil
}

// Uint32 is the header as one big-endian word, the form used by NXM
// register ids.
func (h Header) Uint32() (uint32, error) {
	raw, err := h.Pack()
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(raw), nil
}
