// Package tlv implements the type/length framing shared by OpenFlow
// actions, instructions, table-feature properties, meter bands and queue
// properties. Concrete codecs supply only their payload.
package tlv

import (
	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
)

// ExperimenterType is the type code every experimenter TLV carries.
const ExperimenterType uint16 = 0xffff

// Shape is the header layout in front of the payload.
type Shape int

const (
	ShapeStandard          Shape = iota // type, length
	ShapeExperimenter                   // + experimenter u32
	ShapeExperimenterSub16              // + experimenter u32, subtype u16
	ShapeExperimenterSub32              // + experimenter u32, exp_type u32
)

func (s Shape) Width() int {
	switch s {
	case ShapeExperimenter:
		return 8
	case ShapeExperimenterSub16:
		return 10
	case ShapeExperimenterSub32:
		return 12
	default:
		return 4
	}
}

// Padding decides whether the length field counts trailing alignment bytes.
type Padding int

const (
	// PadIncluded: length covers header, payload and padding. Actions,
	// instructions, meter bands and queue properties.
	PadIncluded Padding = iota
	// PadExcluded: length covers header and payload; padding follows.
	// Table-feature properties.
	PadExcluded
	// PadNone: no alignment at all.
	PadNone
)

type Frame struct {
	Shape   Shape
	Padding Padding
	Align   int
}

func (f Frame) alignment() int {
	if f.Align <= 0 {
		return 8
	}
	return f.Align
}

// Header is the decoded TLV header. Experimenter and Subtype are zero for
// shapes that do not carry them.
type Header struct {
	Type         uint16
	Length       uint16
	Experimenter uint32
	Subtype      uint32
}

func putExtension(w *buffer.Writer, s Shape, h Header) {
	switch s {
	case ShapeExperimenter:
		w.PutUint32(h.Experimenter)
	case ShapeExperimenterSub16:
		w.PutUint32(h.Experimenter)
		w.PutUint16(uint16(h.Subtype))
	case ShapeExperimenterSub32:
		w.PutUint32(h.Experimenter)
		w.PutUint32(h.Subtype)
	}
}

func readExtension(r *buffer.Reader, s Shape, h *Header) error {
	var err error
	switch s {
	case ShapeExperimenter:
		h.Experimenter, err = r.Uint32()
	case ShapeExperimenterSub16:
		if h.Experimenter, err = r.Uint32(); err != nil {
			return err
		}
		var sub uint16
		sub, err = r.Uint16()
		h.Subtype = uint32(sub)
	case ShapeExperimenterSub32:
		if h.Experimenter, err = r.Uint32(); err != nil {
			return err
		}
		h.Subtype, err = r.Uint32()
	}
	return err
}

// Encode writes one complete TLV: header, payload from body, padding, and
// the backpatched length. On error nothing of the unit is left in w.
func Encode[T any](w *buffer.Writer, f Frame, h Header, v T, body func(*buffer.Writer, T) error) error {
	m := w.Mark()
	if err := encode(w, m, f, h, v, body); err != nil {
		w.Truncate(m)
		return err
	}
	return nil
}

func encode[T any](w *buffer.Writer, m buffer.Mark, f Frame, h Header, v T, body func(*buffer.Writer, T) error) error {
	w.PutUint16(h.Type)
	tok := w.StartLength(m, buffer.Width16)
	putExtension(w, f.Shape, h)
	if body != nil {
		if err := body(w, v); err != nil {
			return err
		}
	}
	switch f.Padding {
	case PadIncluded:
		w.PadTo(m, f.alignment())
		_, err := w.FinishLength(tok)
		return err
	case PadExcluded:
		if _, err := w.FinishLength(tok); err != nil {
			return err
		}
		w.PadTo(m, f.alignment())
		return nil
	default:
		_, err := w.FinishLength(tok)
		return err
	}
}

// EncodeHeader writes the header-only (id) form. Its length field equals
// the header width.
func EncodeHeader(w *buffer.Writer, f Frame, h Header) {
	w.PutUint16(h.Type)
	w.PutUint16(uint16(f.Shape.Width()))
	putExtension(w, f.Shape, h)
}

// DecodeHeader consumes exactly the header width. The length field is
// returned as read and not validated.
func DecodeHeader(r *buffer.Reader, f Frame) (Header, error) {
	var h Header
	var err error
	if h.Type, err = r.Uint16(); err != nil {
		return h, err
	}
	if h.Length, err = r.Uint16(); err != nil {
		return h, err
	}
	if err := readExtension(r, f.Shape, &h); err != nil {
		return h, err
	}
	return h, nil
}

// Decode reads one complete TLV. body sees a reader bounded to the payload
// and must consume all of it; under PadIncluded only trailing alignment
// bytes may remain. Alignment bytes must be zero.
func Decode[T any](r *buffer.Reader, f Frame, body func(*buffer.Reader, Header) (T, error)) (T, error) {
	var zero T
	start := r.Offset()
	h, err := DecodeHeader(r, f)
	if err != nil {
		return zero, err
	}
	width := f.Shape.Width()
	align := f.alignment()
	length := int(h.Length)
	if length < width {
		return zero, protocol.Errorf("decode tlv", start, protocol.ErrMalformedLength,
			"length %d below header width %d", length, width)
	}
	if f.Padding == PadIncluded && length%align != 0 {
		return zero, protocol.Errorf("decode tlv", start, protocol.ErrMalformedLength,
			"length %d not a multiple of %d", length, align)
	}
	payload, err := r.Sub(length - width)
	if err != nil {
		return zero, err
	}
	v, err := body(payload, h)
	if err != nil {
		return zero, err
	}
	left := payload.Remaining()
	if f.Padding == PadIncluded {
		consumed := length - left
		if buffer.Pad(consumed, align) != left {
			return zero, protocol.Errorf("decode tlv", start, protocol.ErrMalformedLength,
				"type %d: %d unread payload bytes", h.Type, left)
		}
		if err := payload.SkipZeros(left); err != nil {
			return zero, err
		}
	} else if left != 0 {
		return zero, protocol.Errorf("decode tlv", start, protocol.ErrMalformedLength,
			"type %d: %d unread payload bytes", h.Type, left)
	}
	if f.Padding == PadExcluded {
		if err := r.SkipZeros(buffer.Pad(length, align)); err != nil {
			return zero, err
		}
	}
	return v, nil
}

// PeekType returns the type code of the TLV at the cursor.
func PeekType(r *buffer.Reader) (uint16, error) {
	return r.PeekUint16(0)
}

// PeekLength returns the length field of the TLV at the cursor.
func PeekLength(r *buffer.Reader) (uint16, error) {
	return r.PeekUint16(2)
}

// PeekExperimenter returns the experimenter id following type and length.
func PeekExperimenter(r *buffer.Reader) (uint32, error) {
	return r.PeekUint32(4)
}

// PeekSubtype returns the vendor subtype of an experimenter TLV of shape s.
func PeekSubtype(r *buffer.Reader, s Shape) (uint32, error) {
	switch s {
	case ShapeExperimenterSub16:
		v, err := r.PeekUint16(8)
		return uint32(v), err
	case ShapeExperimenterSub32:
		return r.PeekUint32(8)
	default:
		return 0, protocol.Errorf("peek subtype", r.Offset(), protocol.ErrUnsupportedVariant, "shape %d has no subtype", s)
	}
}
