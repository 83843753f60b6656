// Package meter implements OF1.3 meter bands and the meter config
// multipart entry that carries them.
package meter

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/expkey"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tlv"
)

const (
	TypeDrop         uint16 = 1
	TypeDSCPRemark   uint16 = 2
	TypeExperimenter uint16 = 0xffff

	// experimenterOffset is where an experimenter band carries its id:
	// after type, length, rate and burst size.
	experimenterOffset = 12
)

var Frame = tlv.Frame{Shape: tlv.ShapeStandard, Padding: tlv.PadIncluded}

type Band interface {
	registry.Value
}

type Drop struct {
	Rate      uint32
	BurstSize uint32
}

func (Drop) Class() registry.Class { return registry.ClassMeterBand }
func (Drop) Discriminator() registry.Discriminator { return registry.Standard(TypeDrop) }

type DSCPRemark struct {
	Rate      uint32
	BurstSize uint32
	PrecLevel uint8
}

func (DSCPRemark) Class() registry.Class { return registry.ClassMeterBand }
func (DSCPRemark) Discriminator() registry.Discriminator { return registry.Standard(TypeDSCPRemark) }

type Experimenter struct {
	Rate         uint32
	BurstSize    uint32
	Experimenter uint32
	Data         []byte
}

func (Experimenter) Class() registry.Class { return registry.ClassMeterBand }
func (b Experimenter) Discriminator() registry.Discriminator {
	return registry.Experimenter(b.Experimenter)
}

func putRate(w *buffer.Writer, rate, burst uint32) {
	w.PutUint32(rate)
	w.PutUint32(burst)
}

func readRate(r *buffer.Reader) (uint32, uint32, error) {
	rate, err := r.Uint32()
	if err != nil {
		return 0, 0, err
	}
	burst, err := r.Uint32()
	return rate, burst, err
}

func dropCodec() registry.Codec {
	return &tlv.Codec[Drop]{
		Name:   "drop",
		Frame:  Frame,
		Header: tlv.Header{Type: TypeDrop},
		EncodeBody: func(w *buffer.Writer, b Drop) error {
			putRate(w, b.Rate, b.BurstSize)
			return nil
		},
		DecodeBody: func(r *buffer.Reader, _ tlv.Header) (Drop, error) {
			rate, burst, err := readRate(r)
			return Drop{Rate: rate, BurstSize: burst}, err
		},
	}
}

func dscpRemarkCodec() registry.Codec {
	return &tlv.Codec[DSCPRemark]{
		Name:   "dscp_remark",
		Frame:  Frame,
		Header: tlv.Header{Type: TypeDSCPRemark},
		EncodeBody: func(w *buffer.Writer, b DSCPRemark) error {
			putRate(w, b.Rate, b.BurstSize)
			w.PutUint8(b.PrecLevel)
			return nil
		},
		DecodeBody: func(r *buffer.Reader, _ tlv.Header) (DSCPRemark, error) {
			rate, burst, err := readRate(r)
			if err != nil {
				return DSCPRemark{}, err
			}
			prec, err := r.Uint8()
			return DSCPRemark{Rate: rate, BurstSize: burst, PrecLevel: prec}, err
		},
	}
}

// ExperimenterCodec carries a vendor band's data opaquely. Vendors
// register it under expkey.MeterBand.
func ExperimenterCodec(experimenter uint32) registry.Codec {
	return &tlv.Codec[Experimenter]{
		Name:   fmt.Sprintf("experimenter_band_0x%08x", experimenter),
		Frame:  Frame,
		Header: tlv.Header{Type: TypeExperimenter},
		EncodeBody: func(w *buffer.Writer, b Experimenter) error {
			if b.Experimenter != experimenter {
				return fmt.Errorf("%w: band experimenter 0x%08x", protocol.ErrUnsupportedVariant, b.Experimenter)
			}
			putRate(w, b.Rate, b.BurstSize)
			w.PutUint32(b.Experimenter)
			w.PutBytes(b.Data)
			return nil
		},
		DecodeBody: func(r *buffer.Reader, _ tlv.Header) (Experimenter, error) {
			var b Experimenter
			var err error
			if b.Rate, b.BurstSize, err = readRate(r); err != nil {
				return b, err
			}
			if b.Experimenter, err = r.Uint32(); err != nil {
				return b, err
			}
			if b.Experimenter != experimenter {
				return b, fmt.Errorf("%w: band experimenter 0x%08x", protocol.ErrUnsupportedVariant, b.Experimenter)
			}
			b.Data, err = r.Bytes(r.Remaining())
			return b, err
		},
	}
}

// KeyAt resolves the codec key of the band at the cursor.
func KeyAt(r *buffer.Reader, v protocol.Version) (registry.Key, error) {
	t, err := tlv.PeekType(r)
	if err != nil {
		return registry.Key{}, err
	}
	if t == TypeExperimenter {
		exp, err := r.PeekUint32(experimenterOffset)
		if err != nil {
			return registry.Key{}, err
		}
		return expkey.MeterBand(v, exp), nil
	}
	return registry.NewKey(v, registry.ClassMeterBand, registry.Standard(t)), nil
}

func EncodeBands(w *buffer.Writer, reg *registry.Registry, v protocol.Version, bands []Band) error {
	for _, b := range bands {
		c, err := reg.Lookup(registry.KeyOf(v, b))
		if err != nil {
			return err
		}
		if err := c.Encode(w, b); err != nil {
			return err
		}
	}
	return nil
}

func DecodeBands(r *buffer.Reader, reg *registry.Registry, v protocol.Version) ([]Band, error) {
	out := make([]Band, 0)
	for r.Remaining() > 0 {
		k, err := KeyAt(r, v)
		if err != nil {
			return nil, err
		}
		c, err := reg.Lookup(k)
		if err != nil {
			return nil, err
		}
		got, err := c.Decode(r)
		if err != nil {
			return nil, err
		}
		b, ok := got.(Band)
		if !ok {
			return nil, fmt.Errorf("%w: band codec returned %T", protocol.ErrUnsupportedVariant, got)
		}
		out = append(out, b)
	}
	return out, nil
}

// Register adds the standard band codecs. Meters exist from OF1.3.
func Register(b *registry.Builder, v protocol.Version) error {
	if v != protocol.OF13 {
		return nil
	}
	if err := b.Register(registry.NewKey(v, registry.ClassMeterBand, registry.Standard(TypeDrop)), dropCodec()); err != nil {
		return err
	}
	return b.Register(registry.NewKey(v, registry.ClassMeterBand, registry.Standard(TypeDSCPRemark)), dscpRemarkCodec())
}
