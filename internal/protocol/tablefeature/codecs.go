package tablefeature

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/action"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/expkey"
	"github.com/danmuck/ofwire/internal/protocol/instruction"
	"github.com/danmuck/ofwire/internal/protocol/oxm"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tlv"
)

// propertyCodec frames one property code. Payload bodies receive the
// registry so id lists can dispatch through it.
type propertyCodec[T Property] struct {
	name    string
	code    uint16
	version protocol.Version
	reg     *registry.Registry
	encode  func(*buffer.Writer, *registry.Registry, protocol.Version, T) error
	decode  func(*buffer.Reader, *registry.Registry, protocol.Version, uint16) (T, error)
}

func (c *propertyCodec[T]) InjectRegistry(r *registry.Registry) { c.reg = r }

func (c *propertyCodec[T]) Encode(w *buffer.Writer, v any) error {
	p, ok := v.(T)
	if !ok || p.Discriminator() != registry.Standard(c.code) {
		return fmt.Errorf("%w: %s codec cannot encode %T", protocol.ErrUnsupportedVariant, c.name, v)
	}
	return tlv.Encode(w, Frame, tlv.Header{Type: c.code}, p, func(w *buffer.Writer, p T) error {
		return c.encode(w, c.reg, c.version, p)
	})
}

func (c *propertyCodec[T]) EncodeHeader(*buffer.Writer, any) error {
	return fmt.Errorf("%w: %s has no header-only form", protocol.ErrUnsupportedVariant, c.name)
}

func (c *propertyCodec[T]) Decode(r *buffer.Reader) (any, error) {
	start := r.Offset()
	return tlv.Decode(r, Frame, func(p *buffer.Reader, h tlv.Header) (T, error) {
		if h.Type != c.code {
			var zero T
			return zero, protocol.Errorf("decode "+c.name, start, protocol.ErrUnsupportedVariant, "type %d", h.Type)
		}
		return c.decode(p, c.reg, c.version, h.Type)
	})
}

func (c *propertyCodec[T]) DecodeHeader(*buffer.Reader) (any, error) {
	return nil, fmt.Errorf("%w: %s has no header-only form", protocol.ErrUnsupportedVariant, c.name)
}

func instructionsCodec(v protocol.Version, code uint16) registry.Codec {
	return &propertyCodec[Instructions]{
		name:    TypeName(code),
		code:    code,
		version: v,
		encode: func(w *buffer.Writer, reg *registry.Registry, v protocol.Version, p Instructions) error {
			return instruction.EncodeIDs(w, reg, v, p.IDs)
		},
		decode: func(r *buffer.Reader, reg *registry.Registry, v protocol.Version, t uint16) (Instructions, error) {
			ids, err := instruction.DecodeIDs(r, reg, v)
			return Instructions{Miss: t == TypeInstructionsMiss, IDs: ids}, err
		},
	}
}

func nextTablesCodec(v protocol.Version, code uint16) registry.Codec {
	return &propertyCodec[NextTables]{
		name:    TypeName(code),
		code:    code,
		version: v,
		encode: func(w *buffer.Writer, _ *registry.Registry, _ protocol.Version, p NextTables) error {
			w.PutBytes(p.TableIDs)
			return nil
		},
		decode: func(r *buffer.Reader, _ *registry.Registry, _ protocol.Version, t uint16) (NextTables, error) {
			ids, err := r.Bytes(r.Remaining())
			return NextTables{Miss: t == TypeNextTablesMiss, TableIDs: ids}, err
		},
	}
}

func actionsCodec(v protocol.Version, code uint16) registry.Codec {
	return &propertyCodec[Actions]{
		name:    TypeName(code),
		code:    code,
		version: v,
		encode: func(w *buffer.Writer, reg *registry.Registry, v protocol.Version, p Actions) error {
			return action.EncodeIDs(w, reg, v, p.IDs)
		},
		decode: func(r *buffer.Reader, reg *registry.Registry, v protocol.Version, t uint16) (Actions, error) {
			ids, err := action.DecodeIDs(r, reg, v)
			return Actions{Type: t, IDs: ids}, err
		},
	}
}

func oxmCodec(v protocol.Version, code uint16) registry.Codec {
	return &propertyCodec[OXM]{
		name:    TypeName(code),
		code:    code,
		version: v,
		encode: func(w *buffer.Writer, reg *registry.Registry, v protocol.Version, p OXM) error {
			return oxm.EncodeIDs(w, reg, v, p.IDs)
		},
		decode: func(r *buffer.Reader, reg *registry.Registry, v protocol.Version, t uint16) (OXM, error) {
			if r.Remaining()%oxm.HeaderLen != 0 {
				return OXM{}, protocol.Errorf("decode "+TypeName(t), r.Offset(), protocol.ErrMalformedLength,
					"%d bytes is not a whole number of oxm ids", r.Remaining())
			}
			ids, err := oxm.DecodeIDs(r, reg, v)
			return OXM{Type: t, IDs: ids}, err
		},
	}
}

var experimenterFrame = tlv.Frame{Shape: tlv.ShapeExperimenterSub32, Padding: tlv.PadExcluded}

// ExperimenterCodec carries a vendor property as opaque data. Vendors
// register it under expkey.TableFeatureProperty.
type ExperimenterCodec struct {
	Version      protocol.Version
	Experimenter uint32
}

func (c *ExperimenterCodec) Key() registry.Key {
	return expkey.TableFeatureProperty(c.Version, c.Experimenter)
}

func (c *ExperimenterCodec) Encode(w *buffer.Writer, v any) error {
	p, ok := v.(Experimenter)
	if !ok || p.Experimenter != c.Experimenter {
		return fmt.Errorf("%w: experimenter property codec 0x%08x cannot encode %T", protocol.ErrUnsupportedVariant, c.Experimenter, v)
	}
	h := tlv.Header{Type: pick(p.Miss, TypeExperimenter, TypeExperimenterMiss), Experimenter: p.Experimenter, Subtype: p.ExpType}
	return tlv.Encode(w, experimenterFrame, h, p.Data, func(w *buffer.Writer, data []byte) error {
		w.PutBytes(data)
		return nil
	})
}

func (c *ExperimenterCodec) EncodeHeader(*buffer.Writer, any) error {
	return fmt.Errorf("%w: experimenter property has no header-only form", protocol.ErrUnsupportedVariant)
}

func (c *ExperimenterCodec) Decode(r *buffer.Reader) (any, error) {
	start := r.Offset()
	return tlv.Decode(r, experimenterFrame, func(p *buffer.Reader, h tlv.Header) (Experimenter, error) {
		if h.Type != TypeExperimenter && h.Type != TypeExperimenterMiss {
			return Experimenter{}, protocol.Errorf("decode experimenter property", start, protocol.ErrUnsupportedVariant, "type %d", h.Type)
		}
		if h.Experimenter != c.Experimenter {
			return Experimenter{}, protocol.Errorf("decode experimenter property", start, protocol.ErrUnsupportedVariant,
				"experimenter 0x%08x", h.Experimenter)
		}
		data, err := p.Bytes(p.Remaining())
		return Experimenter{Miss: h.Type == TypeExperimenterMiss, Experimenter: h.Experimenter, ExpType: h.Subtype, Data: data}, err
	})
}

func (c *ExperimenterCodec) DecodeHeader(*buffer.Reader) (any, error) {
	return nil, fmt.Errorf("%w: experimenter property has no header-only form", protocol.ErrUnsupportedVariant)
}

func standardKey(v protocol.Version, code uint16) registry.Key {
	return registry.NewKey(v, registry.ClassTableFeatureProperty, registry.Standard(code))
}

// Register adds the standard property codecs. Table features exist from
// OF1.3 only.
func Register(b *registry.Builder, v protocol.Version) error {
	if v != protocol.OF13 {
		return nil
	}
	table := map[uint16]registry.Codec{
		TypeInstructions:     instructionsCodec(v, TypeInstructions),
		TypeInstructionsMiss: instructionsCodec(v, TypeInstructionsMiss),
		TypeNextTables:       nextTablesCodec(v, TypeNextTables),
		TypeNextTablesMiss:   nextTablesCodec(v, TypeNextTablesMiss),
	}
	for _, code := range actionTypes {
		table[code] = actionsCodec(v, code)
	}
	for _, code := range oxmTypes {
		table[code] = oxmCodec(v, code)
	}
	for code, c := range table {
		if err := b.Register(standardKey(v, code), c); err != nil {
			return err
		}
	}
	return nil
}
