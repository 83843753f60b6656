// Package message implements the bodies of OFPT_ERROR and the
// experimenter (OF1.3) or vendor (OF1.0) message, dispatching vendor
// payloads through the codec registry.
package message

import (
	"errors"
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/expkey"
	"github.com/danmuck/ofwire/internal/protocol/registry"
)

const ErrorTypeExperimenter uint16 = 0xffff

// Options tune body decoding.
type Options struct {
	// Lenient returns unregistered vendor bodies as raw values instead of
	// failing with protocol.ErrUnknownKey.
	Lenient bool
}

// Error is a standard error body. Data carries at least 64 bytes of the
// failed request, as sent by the switch.
type Error struct {
	Type uint16
	Code uint16
	Data []byte
}

// ExperimenterError is an OF1.3 error with type 0xffff.
type ExperimenterError struct {
	ExpType      uint16
	Experimenter uint32
	Data         []byte
}

func (ExperimenterError) Class() registry.Class { return registry.ClassError }
func (e ExperimenterError) Discriminator() registry.Discriminator {
	return registry.Experimenter(e.Experimenter)
}

// ExperimenterErrorCodec passes a vendor's error data through unchanged.
func ExperimenterErrorCodec(experimenter uint32) registry.Codec {
	return &registry.BodyCodec[ExperimenterError]{
		Name: fmt.Sprintf("experimenter_error_0x%08x", experimenter),
		EncodeBody: func(w *buffer.Writer, e ExperimenterError) error {
			if e.Experimenter != experimenter {
				return fmt.Errorf("%w: error experimenter 0x%08x", protocol.ErrUnsupportedVariant, e.Experimenter)
			}
			putExperimenterError(w, e)
			return nil
		},
		DecodeBody: readExperimenterError,
	}
}

func putExperimenterError(w *buffer.Writer, e ExperimenterError) {
	w.PutUint16(ErrorTypeExperimenter)
	w.PutUint16(e.ExpType)
	w.PutUint32(e.Experimenter)
	w.PutBytes(e.Data)
}

func readExperimenterError(r *buffer.Reader) (ExperimenterError, error) {
	var e ExperimenterError
	start := r.Offset()
	t, err := r.Uint16()
	if err != nil {
		return e, err
	}
	if t != ErrorTypeExperimenter {
		return e, protocol.Errorf("decode experimenter error", start, protocol.ErrUnsupportedVariant, "type %d", t)
	}
	if e.ExpType, err = r.Uint16(); err != nil {
		return e, err
	}
	if e.Experimenter, err = r.Uint32(); err != nil {
		return e, err
	}
	e.Data, err = r.Bytes(r.Remaining())
	return e, err
}

// EncodeError writes an Error or an ExperimenterError body. Experimenter
// errors only exist from OF1.3.
func EncodeError(w *buffer.Writer, reg *registry.Registry, v protocol.Version, body any) error {
	switch e := body.(type) {
	case Error:
		w.PutUint16(e.Type)
		w.PutUint16(e.Code)
		w.PutBytes(e.Data)
		return nil
	case ExperimenterError:
		if v == protocol.OF10 {
			return fmt.Errorf("%w: experimenter error in OF%s", protocol.ErrUnsupportedVariant, v)
		}
		c, err := reg.Lookup(registry.KeyOf(v, e))
		if err != nil {
			return err
		}
		return c.Encode(w, e)
	default:
		return fmt.Errorf("%w: error body %T", protocol.ErrUnsupportedVariant, body)
	}
}

// DecodeError reads an error body spanning the rest of r.
func DecodeError(r *buffer.Reader, reg *registry.Registry, v protocol.Version, opts Options) (any, error) {
	t, err := r.PeekUint16(0)
	if err != nil {
		return nil, err
	}
	if t == ErrorTypeExperimenter && v != protocol.OF10 {
		exp, err := r.PeekUint32(4)
		if err != nil {
			return nil, err
		}
		return decodeVendor(r, reg, expkey.ErrorMessage(v, exp), opts, func(r *buffer.Reader) (any, error) {
			return readExperimenterError(r)
		})
	}
	var e Error
	if e.Type, err = r.Uint16(); err != nil {
		return nil, err
	}
	if e.Code, err = r.Uint16(); err != nil {
		return nil, err
	}
	if e.Data, err = r.Bytes(r.Remaining()); err != nil {
		return nil, err
	}
	return e, nil
}

// decodeVendor resolves k and decodes with it, or falls back to raw when
// opts allow and no codec is registered.
func decodeVendor(r *buffer.Reader, reg *registry.Registry, k registry.Key, opts Options, raw func(*buffer.Reader) (any, error)) (any, error) {
	c, err := reg.Lookup(k)
	if err != nil {
		if opts.Lenient && errors.Is(err, protocol.ErrUnknownKey) {
			return raw(r)
		}
		return nil, err
	}
	return c.Decode(r)
}
