// Package cisco implements the Cisco vendor actions: output to next hop
// and set VRF.
package cisco

import (
	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/action"
	"github.com/danmuck/ofwire/internal/protocol/expkey"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tlv"
)

const Experimenter uint32 = 0x0000000c

const (
	SubtypeNextHop uint16 = 1
	SubtypeVRF     uint16 = 2
)

var frame = tlv.Frame{Shape: tlv.ShapeExperimenterSub16, Padding: tlv.PadIncluded}

func header(sub uint16) tlv.Header {
	return tlv.Header{Type: action.TypeVendor, Experimenter: Experimenter, Subtype: uint32(sub)}
}

// Register adds the Cisco action dispatcher and subtypes for v.
func Register(b *registry.Builder, v protocol.Version) error {
	d := &action.VendorDispatcher{Name: "cisco", Version: v, Experimenter: Experimenter, Shape: tlv.ShapeExperimenterSub16}
	if err := b.Register(d.Key(), d); err != nil {
		return err
	}
	if err := b.Register(expkey.ActionSubtype(v, Experimenter, uint32(SubtypeNextHop)), nextHopCodec()); err != nil {
		return err
	}
	return b.Register(expkey.ActionSubtype(v, Experimenter, uint32(SubtypeVRF)), vrfCodec())
}

func unsupported(op string, offset int, what string, value uint8) error {
	return protocol.Errorf(op, offset, protocol.ErrUnsupportedVariant, "%s %d", what, value)
}

func errWrongSize(op string, offset int, what string, got, want int) error {
	return protocol.Errorf(op, offset, protocol.ErrMalformedLength, "%s is %d bytes, want %d", what, got, want)
}
