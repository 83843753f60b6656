// Package queue implements queue properties and the ofp_packet_queue
// descriptions of a queue config reply.
package queue

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/expkey"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tlv"
)

const (
	TypeMinRate      uint16 = 1
	TypeMaxRate      uint16 = 2
	TypeExperimenter uint16 = 0xffff

	// RateDisabled marks a rate above 1000 permille.
	RateDisabled uint16 = 0xffff

	// property header is type, len, pad4
	experimenterOffset = 8
)

var Frame = tlv.Frame{Shape: tlv.ShapeStandard, Padding: tlv.PadIncluded}

type Property interface {
	registry.Value
}

// MinRate is a guaranteed rate in 1/10 of a percent.
type MinRate struct {
	Rate uint16
}

func (MinRate) Class() registry.Class { return registry.ClassQueueProperty }
func (MinRate) Discriminator() registry.Discriminator { return registry.Standard(TypeMinRate) }

type MaxRate struct {
	Rate uint16
}

func (MaxRate) Class() registry.Class { return registry.ClassQueueProperty }
func (MaxRate) Discriminator() registry.Discriminator { return registry.Standard(TypeMaxRate) }

type Experimenter struct {
	Experimenter uint32
	Data         []byte
}

func (Experimenter) Class() registry.Class { return registry.ClassQueueProperty }
func (p Experimenter) Discriminator() registry.Discriminator {
	return registry.Experimenter(p.Experimenter)
}

func rateCodec[T MinRate | MaxRate](name string, typ uint16) registry.Codec {
	return &tlv.Codec[T]{
		Name:   name,
		Frame:  Frame,
		Header: tlv.Header{Type: typ},
		EncodeBody: func(w *buffer.Writer, p T) error {
			w.PutZeros(4)
			switch v := any(p).(type) {
			case MinRate:
				w.PutUint16(v.Rate)
			case MaxRate:
				w.PutUint16(v.Rate)
			}
			return nil
		},
		DecodeBody: func(r *buffer.Reader, _ tlv.Header) (T, error) {
			var out T
			if err := r.SkipZeros(4); err != nil {
				return out, err
			}
			rate, err := r.Uint16()
			if err != nil {
				return out, err
			}
			switch p := any(&out).(type) {
			case *MinRate:
				p.Rate = rate
			case *MaxRate:
				p.Rate = rate
			}
			return out, nil
		},
	}
}

// ExperimenterCodec carries a vendor queue property's data opaquely.
// Vendors register it under expkey.QueueProperty.
func ExperimenterCodec(experimenter uint32) registry.Codec {
	return &tlv.Codec[Experimenter]{
		Name:   fmt.Sprintf("experimenter_queue_prop_0x%08x", experimenter),
		Frame:  Frame,
		Header: tlv.Header{Type: TypeExperimenter},
		EncodeBody: func(w *buffer.Writer, p Experimenter) error {
			if p.Experimenter != experimenter {
				return fmt.Errorf("%w: queue property experimenter 0x%08x", protocol.ErrUnsupportedVariant, p.Experimenter)
			}
			w.PutZeros(4)
			w.PutUint32(p.Experimenter)
			w.PutZeros(4)
			w.PutBytes(p.Data)
			return nil
		},
		DecodeBody: func(r *buffer.Reader, _ tlv.Header) (Experimenter, error) {
			var p Experimenter
			if err := r.SkipZeros(4); err != nil {
				return p, err
			}
			exp, err := r.Uint32()
			if err != nil {
				return p, err
			}
			if exp != experimenter {
				return p, fmt.Errorf("%w: queue property experimenter 0x%08x", protocol.ErrUnsupportedVariant, exp)
			}
			if err := r.SkipZeros(4); err != nil {
				return p, err
			}
			p.Experimenter = exp
			p.Data, err = r.Bytes(r.Remaining())
			return p, err
		},
	}
}

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
		return expkey.QueueProperty(v, exp), nil
	}
	return registry.NewKey(v, registry.ClassQueueProperty, registry.Standard(t)), nil
}

func EncodeProperties(w *buffer.Writer, reg *registry.Registry, v protocol.Version, props []Property) error {
	for _, p := range props {
		c, err := reg.Lookup(registry.KeyOf(v, p))
		if err != nil {
			return err
		}
		if err := c.Encode(w, p); err != nil {
			return err
		}
	}
	return nil
}

func DecodeProperties(r *buffer.Reader, reg *registry.Registry, v protocol.Version) ([]Property, error) {
	out := make([]Property, 0)
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
		p, ok := got.(Property)
		if !ok {
			return nil, fmt.Errorf("%w: queue property codec returned %T", protocol.ErrUnsupportedVariant, got)
		}
		out = append(out, p)
	}
	return out, nil
}

// Register adds min-rate for both versions and max-rate for OF1.3.
func Register(b *registry.Builder, v protocol.Version) error {
	if err := b.Register(registry.NewKey(v, registry.ClassQueueProperty, registry.Standard(TypeMinRate)),
		rateCodec[MinRate]("min_rate", TypeMinRate)); err != nil {
		return err
	}
	if v == protocol.OF10 {
		return nil
	}
	return b.Register(registry.NewKey(v, registry.ClassQueueProperty, registry.Standard(TypeMaxRate)),
		rateCodec[MaxRate]("max_rate", TypeMaxRate))
}
