package tlv

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
)

// Codec adapts a typed payload codec to registry.Codec. Header holds the
// type code, and for experimenter shapes the experimenter id and subtype,
// that the codec writes and expects.
type Codec[T any] struct {
	Name       string
	Frame      Frame
	Header     Header
	EncodeBody func(*buffer.Writer, T) error
	DecodeBody func(*buffer.Reader, Header) (T, error)
	// FromHeader builds the value for the header-only form. Nil means the
	// codec has no header-only form.
	FromHeader func(Header) (T, error)
}

func (c *Codec[T]) value(op string, v any) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s codec cannot %s %T", protocol.ErrUnsupportedVariant, c.Name, op, v)
	}
	return t, nil
}

func (c *Codec[T]) Encode(w *buffer.Writer, v any) error {
	t, err := c.value("encode", v)
	if err != nil {
		return err
	}
	return Encode(w, c.Frame, c.Header, t, c.EncodeBody)
}

func (c *Codec[T]) EncodeHeader(w *buffer.Writer, v any) error {
	if c.FromHeader == nil {
		return fmt.Errorf("%w: %s has no header-only form", protocol.ErrUnsupportedVariant, c.Name)
	}
	if _, err := c.value("encode header", v); err != nil {
		return err
	}
	EncodeHeader(w, c.Frame, c.Header)
	return nil
}

func (c *Codec[T]) Decode(r *buffer.Reader) (any, error) {
	start := r.Offset()
	return Decode(r, c.Frame, func(payload *buffer.Reader, h Header) (T, error) {
		if err := c.match(start, h); err != nil {
			var zero T
			return zero, err
		}
		if c.DecodeBody == nil {
			var zero T
			return zero, nil
		}
		return c.DecodeBody(payload, h)
	})
}

func (c *Codec[T]) DecodeHeader(r *buffer.Reader) (any, error) {
	if c.FromHeader == nil {
		return nil, fmt.Errorf("%w: %s has no header-only form", protocol.ErrUnsupportedVariant, c.Name)
	}
	start := r.Offset()
	h, err := DecodeHeader(r, c.Frame)
	if err != nil {
		return nil, err
	}
	if err := c.match(start, h); err != nil {
		return nil, err
	}
	return c.FromHeader(h)
}

func (c *Codec[T]) match(offset int, h Header) error {
	want := c.Header
	if h.Type != want.Type {
		return protocol.Errorf("decode "+c.Name, offset, protocol.ErrUnsupportedVariant, "type %d, want %d", h.Type, want.Type)
	}
	if c.Frame.Shape != ShapeStandard && h.Experimenter != want.Experimenter {
		return protocol.Errorf("decode "+c.Name, offset, protocol.ErrUnsupportedVariant,
			"experimenter 0x%08x, want 0x%08x", h.Experimenter, want.Experimenter)
	}
	if (c.Frame.Shape == ShapeExperimenterSub16 || c.Frame.Shape == ShapeExperimenterSub32) && h.Subtype != want.Subtype {
		return protocol.Errorf("decode "+c.Name, offset, protocol.ErrUnsupportedVariant, "subtype %d, want %d", h.Subtype, want.Subtype)
	}
	return nil
}
