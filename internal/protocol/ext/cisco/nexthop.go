package cisco

import (
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tlv"
)

// Address types of a next hop.
const (
	AddressNone  uint8 = 0
	AddressP2P   uint8 = 1
	AddressIPv4  uint8 = 2
	AddressIPv6  uint8 = 3
	AddressMAC48 uint8 = 4
)

// Extra types qualify the next hop address.
const (
	ExtraNone               uint8 = 0
	ExtraPort               uint8 = 1
	ExtraRouteDistinguisher uint8 = 2
)

// extraSlotLen is the fixed room reserved for the extra block.
const extraSlotLen = 8

// NextHop outputs to a next hop. Port is meaningful for ExtraPort and
// RouteDistinguisher for ExtraRouteDistinguisher. Address holds the raw
// address bytes for the address type.
type NextHop struct {
	AddressType        uint8
	ExtraType          uint8
	Port               uint32
	RouteDistinguisher uint64
	Address            []byte
}

func (NextHop) Class() registry.Class { return registry.ClassAction }
func (NextHop) Discriminator() registry.Discriminator {
	return registry.ExperimenterSubtype(Experimenter, uint32(SubtypeNextHop))
}

// AddressLen returns the address block width of t.
func AddressLen(t uint8) (int, bool) {
	switch t {
	case AddressNone, AddressP2P:
		return 0, true
	case AddressIPv4:
		return 4, true
	case AddressIPv6:
		return 16, true
	case AddressMAC48:
		return 6, true
	default:
		return 0, false
	}
}

// ExtraLen returns the meaningful width of the extra block for t.
func ExtraLen(t uint8) (int, bool) {
	switch t {
	case ExtraNone:
		return 0, true
	case ExtraPort:
		return 4, true
	case ExtraRouteDistinguisher:
		return 8, true
	default:
		return 0, false
	}
}

func nextHopCodec() registry.Codec {
	return &tlv.Codec[NextHop]{
		Name:       "cisco_next_hop",
		Frame:      frame,
		Header:     header(SubtypeNextHop),
		EncodeBody: encodeNextHop,
		DecodeBody: decodeNextHop,
	}
}

func encodeNextHop(w *buffer.Writer, a NextHop) error {
	const op = "encode cisco next hop"
	addrLen, ok := AddressLen(a.AddressType)
	if !ok {
		return unsupported(op, w.Len(), "address type", a.AddressType)
	}
	extraLen, ok := ExtraLen(a.ExtraType)
	if !ok {
		return unsupported(op, w.Len(), "address extra type", a.ExtraType)
	}
	if len(a.Address) != addrLen {
		return errWrongSize(op, w.Len(), "address", len(a.Address), addrLen)
	}
	w.PutUint8(a.AddressType)
	w.PutUint8(a.ExtraType)
	switch a.ExtraType {
	case ExtraPort:
		w.PutUint32(a.Port)
	case ExtraRouteDistinguisher:
		w.PutUint64(a.RouteDistinguisher)
	}
	w.PutZeros(extraSlotLen - extraLen)
	w.PutBytes(a.Address)
	return nil
}

func decodeNextHop(r *buffer.Reader, _ tlv.Header) (NextHop, error) {
	const op = "decode cisco next hop"
	var a NextHop
	var err error
	start := r.Offset()
	if a.AddressType, err = r.Uint8(); err != nil {
		return a, err
	}
	if a.ExtraType, err = r.Uint8(); err != nil {
		return a, err
	}
	addrLen, ok := AddressLen(a.AddressType)
	if !ok {
		return a, unsupported(op, start, "address type", a.AddressType)
	}
	extraLen, ok := ExtraLen(a.ExtraType)
	if !ok {
		return a, unsupported(op, start+1, "address extra type", a.ExtraType)
	}
	switch a.ExtraType {
	case ExtraPort:
		a.Port, err = r.Uint32()
	case ExtraRouteDistinguisher:
		a.RouteDistinguisher, err = r.Uint64()
	}
	if err != nil {
		return a, err
	}
	if err := r.SkipZeros(extraSlotLen - extraLen); err != nil {
		return a, err
	}
	if addrLen > 0 {
		a.Address, err = r.Bytes(addrLen)
	}
	return a, err
}
