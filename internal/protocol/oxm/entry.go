package oxm

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/registry"
)

// legacyClassKey marks NXM classes in registry keys. They carry no
// experimenter id on the wire, so they are keyed under a reserved one.
const legacyClassKey uint32 = 0xffff0000

// Entry is one match field. Value and Mask are raw network-order bytes;
// Mask is set only when Header.HasMask is.
type Entry struct {
	Header       Header
	Experimenter uint32
	Value        []byte
	Mask         []byte
}

func (e Entry) Class() registry.Class { return registry.ClassMatchEntry }

func (e Entry) Discriminator() registry.Discriminator {
	return discriminator(e.Header.Class, e.Header.Field, e.Experimenter)
}

func discriminator(class uint16, field uint8, experimenter uint32) registry.Discriminator {
	switch class {
	case ClassOpenFlowBasic:
		return registry.Standard(uint16(field))
	case ClassExperimenter:
		return registry.ExperimenterSubtype(experimenter, uint32(field))
	default:
		return registry.ExperimenterSubtype(legacyClassKey|uint32(class), uint32(field))
	}
}

// Key returns the registry key for a field of any class.
func Key(v protocol.Version, class uint16, field uint8, experimenter uint32) registry.Key {
	return registry.NewKey(v, registry.ClassMatchEntry, discriminator(class, field, experimenter))
}

// FixedCodec handles a field whose value has a fixed width.
type FixedCodec struct {
	Name         string
	OXMClass     uint16
	Field        uint8
	Experimenter uint32
	Size         int
	Maskable     bool
}

func (c *FixedCodec) expLen() int {
	if c.OXMClass == ClassExperimenter {
		return 4
	}
	return 0
}

func (c *FixedCodec) payloadLen(hasMask bool) int {
	n := c.Size
	if hasMask {
		n *= 2
	}
	return n + c.expLen()
}

func (c *FixedCodec) entry(op string, v any) (Entry, error) {
	e, ok := v.(Entry)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s codec cannot %s %T", protocol.ErrUnsupportedVariant, c.Name, op, v)
	}
	if e.Header.Class != c.OXMClass || e.Header.Field != c.Field {
		return Entry{}, fmt.Errorf("%w: %s codec given class 0x%04x field %d", protocol.ErrUnsupportedVariant, c.Name, e.Header.Class, e.Header.Field)
	}
	if e.Header.HasMask && !c.Maskable {
		return Entry{}, fmt.Errorf("%w: %s is not maskable", protocol.ErrUnsupportedVariant, c.Name)
	}
	return e, nil
}

func (c *FixedCodec) putHeader(w *buffer.Writer, hasMask bool) error {
	h := Header{Class: c.OXMClass, Field: c.Field, HasMask: hasMask, Length: uint8(c.payloadLen(hasMask))}
	raw, err := h.Pack()
	if err != nil {
		return err
	}
	w.PutBytes(raw)
	if c.OXMClass == ClassExperimenter {
		w.PutUint32(c.Experimenter)
	}
	return nil
}

func (c *FixedCodec) Encode(w *buffer.Writer, v any) error {
	e, err := c.entry("encode", v)
	if err != nil {
		return err
	}
	if len(e.Value) != c.Size || (e.Header.HasMask && len(e.Mask) != c.Size) {
		return protocol.Errorf("encode "+c.Name, w.Len(), protocol.ErrMalformedLength,
			"value %d mask %d bytes, want %d", len(e.Value), len(e.Mask), c.Size)
	}
	if err := c.putHeader(w, e.Header.HasMask); err != nil {
		return err
	}
	w.PutBytes(e.Value)
	if e.Header.HasMask {
		w.PutBytes(e.Mask)
	}
	return nil
}

func (c *FixedCodec) EncodeHeader(w *buffer.Writer, v any) error {
	e, err := c.entry("encode header", v)
	if err != nil {
		return err
	}
	return c.putHeader(w, e.Header.HasMask)
}

func (c *FixedCodec) readHeader(r *buffer.Reader) (Entry, error) {
	start := r.Offset()
	raw, err := r.Bytes(HeaderLen)
	if err != nil {
		return Entry{}, err
	}
	h, _ := Unpack(raw)
	if h.Class != c.OXMClass || h.Field != c.Field {
		return Entry{}, protocol.Errorf("decode "+c.Name, start, protocol.ErrUnsupportedVariant, "class 0x%04x field %d", h.Class, h.Field)
	}
	if h.HasMask && !c.Maskable {
		return Entry{}, protocol.Errorf("decode "+c.Name, start, protocol.ErrUnsupportedVariant, "mask on unmaskable field")
	}
	e := Entry{Header: h}
	if c.OXMClass == ClassExperimenter {
		if e.Experimenter, err = r.Uint32(); err != nil {
			return Entry{}, err
		}
		if e.Experimenter != c.Experimenter {
			return Entry{}, protocol.Errorf("decode "+c.Name, start, protocol.ErrUnsupportedVariant, "experimenter 0x%08x", e.Experimenter)
		}
	}
	return e, nil
}

func (c *FixedCodec) Decode(r *buffer.Reader) (any, error) {
	start := r.Offset()
	e, err := c.readHeader(r)
	if err != nil {
		return nil, err
	}
	if int(e.Header.Length) != c.payloadLen(e.Header.HasMask) {
		return nil, protocol.Errorf("decode "+c.Name, start, protocol.ErrMalformedLength,
			"length %d, want %d", e.Header.Length, c.payloadLen(e.Header.HasMask))
	}
	if e.Value, err = r.Bytes(c.Size); err != nil {
		return nil, err
	}
	if e.Header.HasMask {
		if e.Mask, err = r.Bytes(c.Size); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (c *FixedCodec) DecodeHeader(r *buffer.Reader) (any, error) {
	return c.readHeader(r)
}

// Register adds codecs for every OpenFlow basic field. Only OF1.3 carries
// OXM.
func Register(b *registry.Builder, v protocol.Version) error {
	if v != protocol.OF13 {
		return nil
	}
	for _, code := range BasicFields() {
		f := basicFields[code]
		c := &FixedCodec{Name: f.name, OXMClass: ClassOpenFlowBasic, Field: code, Size: f.size, Maskable: f.maskable}
		if err := b.Register(Key(v, ClassOpenFlowBasic, code, 0), c); err != nil {
			return err
		}
	}
	return nil
}
