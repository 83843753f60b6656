package action

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/expkey"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tlv"
)

var idFrame = tlv.Frame{Shape: tlv.ShapeExperimenter, Padding: tlv.PadNone}

// VendorDispatcher is registered under expkey.Action for one experimenter.
// It peeks the vendor subtype and forwards to the codec registered under
// expkey.ActionSubtype. It also owns the 8-byte header-only id form.
type VendorDispatcher struct {
	Name         string
	Version      protocol.Version
	Experimenter uint32
	// Shape tells where the subtype sits after the experimenter id.
	Shape tlv.Shape
	reg   *registry.Registry
}

func (d *VendorDispatcher) InjectRegistry(r *registry.Registry) { d.reg = r }

func (d *VendorDispatcher) Key() registry.Key {
	return expkey.Action(d.Version, d.Experimenter)
}

func (d *VendorDispatcher) subtype(sub uint32) (registry.Codec, error) {
	if d.reg == nil {
		return nil, fmt.Errorf("%w: %s dispatcher not built", protocol.ErrUnknownKey, d.Name)
	}
	return d.reg.Lookup(expkey.ActionSubtype(d.Version, d.Experimenter, sub))
}

func (d *VendorDispatcher) check(v any) (Action, error) {
	a, ok := v.(Action)
	if !ok {
		return nil, fmt.Errorf("%w: %s dispatcher cannot encode %T", protocol.ErrUnsupportedVariant, d.Name, v)
	}
	disc := a.Discriminator()
	if disc.Kind == registry.KindStandard || disc.Experimenter != d.Experimenter {
		return nil, fmt.Errorf("%w: %s dispatcher given %s", protocol.ErrUnsupportedVariant, d.Name, disc)
	}
	return a, nil
}

func (d *VendorDispatcher) Encode(w *buffer.Writer, v any) error {
	a, err := d.check(v)
	if err != nil {
		return err
	}
	disc := a.Discriminator()
	if disc.Kind != registry.KindExperimenterSubtype {
		return fmt.Errorf("%w: %s id has no body", protocol.ErrUnsupportedVariant, d.Name)
	}
	c, err := d.subtype(disc.Subtype)
	if err != nil {
		return err
	}
	return c.Encode(w, a)
}

func (d *VendorDispatcher) EncodeHeader(w *buffer.Writer, v any) error {
	if _, err := d.check(v); err != nil {
		return err
	}
	tlv.EncodeHeader(w, idFrame, tlv.Header{Type: TypeVendor, Experimenter: d.Experimenter})
	return nil
}

func (d *VendorDispatcher) Decode(r *buffer.Reader) (any, error) {
	sub, err := tlv.PeekSubtype(r, d.Shape)
	if err != nil {
		return nil, err
	}
	c, err := d.subtype(sub)
	if err != nil {
		return nil, err
	}
	return c.Decode(r)
}

func (d *VendorDispatcher) DecodeHeader(r *buffer.Reader) (any, error) {
	start := r.Offset()
	h, err := tlv.DecodeHeader(r, idFrame)
	if err != nil {
		return nil, err
	}
	if h.Type != TypeVendor || h.Experimenter != d.Experimenter {
		return nil, protocol.Errorf("decode "+d.Name+" id", start, protocol.ErrUnsupportedVariant,
			"type %d experimenter 0x%08x", h.Type, h.Experimenter)
	}
	return ExperimenterID{Experimenter: d.Experimenter}, nil
}
