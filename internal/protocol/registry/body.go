package registry

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
)

// BodyCodec adapts typed functions for an untyped message body, such as an
// experimenter error or a vendor multipart reply. Bodies span the rest of
// the reader and have no header-only form.
type BodyCodec[T any] struct {
	Name       string
	EncodeBody func(*buffer.Writer, T) error
	DecodeBody func(*buffer.Reader) (T, error)
}

func (c *BodyCodec[T]) Encode(w *buffer.Writer, v any) error {
	t, ok := v.(T)
	if !ok {
		return fmt.Errorf("%w: %s codec cannot encode %T", protocol.ErrUnsupportedVariant, c.Name, v)
	}
	return c.EncodeBody(w, t)
}

func (c *BodyCodec[T]) EncodeHeader(*buffer.Writer, any) error {
	return fmt.Errorf("%w: %s has no header-only form", protocol.ErrUnsupportedVariant, c.Name)
}

func (c *BodyCodec[T]) Decode(r *buffer.Reader) (any, error) {
	start := r.Offset()
	v, err := c.DecodeBody(r)
	if err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, protocol.Errorf("decode "+c.Name, start, protocol.ErrMalformedLength, "%d unread body bytes", r.Remaining())
	}
	return v, nil
}

func (c *BodyCodec[T]) DecodeHeader(*buffer.Reader) (any, error) {
	return nil, fmt.Errorf("%w: %s has no header-only form", protocol.ErrUnsupportedVariant, c.Name)
}
