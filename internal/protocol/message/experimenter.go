package message

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/expkey"
	"github.com/danmuck/ofwire/internal/protocol/registry"
)

// Experimenter is an OF1.3 OFPT_EXPERIMENTER body.
type Experimenter struct {
	Experimenter uint32
	ExpType      uint32
	Data         []byte
}

func (Experimenter) Class() registry.Class { return registry.ClassExperimenterMessage }
func (m Experimenter) Discriminator() registry.Discriminator {
	return registry.ExperimenterSubtype(m.Experimenter, m.ExpType)
}

// Vendor is an OF1.0 OFPT_VENDOR body.
type Vendor struct {
	Vendor uint32
	Data   []byte
}

func (Vendor) Class() registry.Class { return registry.ClassExperimenterMessage }
func (m Vendor) Discriminator() registry.Discriminator {
	return registry.Experimenter(m.Vendor)
}

func readExperimenter(r *buffer.Reader) (Experimenter, error) {
	var m Experimenter
	var err error
	if m.Experimenter, err = r.Uint32(); err != nil {
		return m, err
	}
	if m.ExpType, err = r.Uint32(); err != nil {
		return m, err
	}
	m.Data, err = r.Bytes(r.Remaining())
	return m, err
}

func readVendor(r *buffer.Reader) (Vendor, error) {
	var m Vendor
	var err error
	if m.Vendor, err = r.Uint32(); err != nil {
		return m, err
	}
	m.Data, err = r.Bytes(r.Remaining())
	return m, err
}

// ExperimenterCodec passes one experimenter message type through as raw data.
func ExperimenterCodec(experimenter, expType uint32) registry.Codec {
	return &registry.BodyCodec[Experimenter]{
		Name: fmt.Sprintf("experimenter_0x%08x_%d", experimenter, expType),
		EncodeBody: func(w *buffer.Writer, m Experimenter) error {
			if m.Experimenter != experimenter || m.ExpType != expType {
				return fmt.Errorf("%w: experimenter 0x%08x type %d", protocol.ErrUnsupportedVariant, m.Experimenter, m.ExpType)
			}
			w.PutUint32(m.Experimenter)
			w.PutUint32(m.ExpType)
			w.PutBytes(m.Data)
			return nil
		},
		DecodeBody: readExperimenter,
	}
}

func VendorCodec(vendor uint32) registry.Codec {
	return &registry.BodyCodec[Vendor]{
		Name: fmt.Sprintf("vendor_0x%08x", vendor),
		EncodeBody: func(w *buffer.Writer, m Vendor) error {
			if m.Vendor != vendor {
				return fmt.Errorf("%w: vendor 0x%08x", protocol.ErrUnsupportedVariant, m.Vendor)
			}
			w.PutUint32(m.Vendor)
			w.PutBytes(m.Data)
			return nil
		},
		DecodeBody: readVendor,
	}
}

// EncodeExperimenter writes any registered experimenter or vendor message
// value for v.
func EncodeExperimenter(w *buffer.Writer, reg *registry.Registry, v protocol.Version, body registry.Value) error {
	if body.Class() != registry.ClassExperimenterMessage {
		return fmt.Errorf("%w: %s value in experimenter message", protocol.ErrUnsupportedVariant, body.Class())
	}
	c, err := reg.Lookup(registry.KeyOf(v, body))
	if err != nil {
		return err
	}
	return c.Encode(w, body)
}

// DecodeExperimenter reads an experimenter (OF1.3) or vendor (OF1.0) body
// spanning the rest of r.
func DecodeExperimenter(r *buffer.Reader, reg *registry.Registry, v protocol.Version, opts Options) (any, error) {
	exp, err := r.PeekUint32(0)
	if err != nil {
		return nil, err
	}
	if v == protocol.OF10 {
		return decodeVendor(r, reg, expkey.VendorMessage(v, exp), opts, func(r *buffer.Reader) (any, error) {
			return readVendor(r)
		})
	}
	expType, err := r.PeekUint32(4)
	if err != nil {
		return nil, err
	}
	return decodeVendor(r, reg, expkey.ExperimenterMessage(v, exp, expType), opts, func(r *buffer.Reader) (any, error) {
		return readExperimenter(r)
	})
}
