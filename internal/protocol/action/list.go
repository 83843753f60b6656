package action

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/expkey"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tlv"
)

// KeyAt resolves the codec key of the action at the cursor. Vendor actions
// resolve to their vendor's dispatcher.
func KeyAt(r *buffer.Reader, v protocol.Version) (registry.Key, error) {
	t, err := tlv.PeekType(r)
	if err != nil {
		return registry.Key{}, err
	}
	if t == TypeVendor {
		exp, err := tlv.PeekExperimenter(r)
		if err != nil {
			return registry.Key{}, err
		}
		return expkey.Action(v, exp), nil
	}
	return standardKey(v, t), nil
}

// idKey routes vendor ids to the dispatcher, which owns the 8-byte id form.
func idKey(v protocol.Version, a Action) registry.Key {
	d := a.Discriminator()
	if d.Kind == registry.KindExperimenterSubtype {
		return expkey.Action(v, d.Experimenter)
	}
	return registry.KeyOf(v, a)
}

func asAction(got any) (Action, error) {
	a, ok := got.(Action)
	if !ok {
		return nil, fmt.Errorf("%w: action codec returned %T", protocol.ErrUnsupportedVariant, got)
	}
	return a, nil
}

func Encode(w *buffer.Writer, reg *registry.Registry, v protocol.Version, a Action) error {
	c, err := reg.Lookup(registry.KeyOf(v, a))
	if err != nil {
		return err
	}
	return c.Encode(w, a)
}

func Decode(r *buffer.Reader, reg *registry.Registry, v protocol.Version) (Action, error) {
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
	return asAction(got)
}

// EncodeList writes each action fully framed and padded, in order.
func EncodeList(w *buffer.Writer, reg *registry.Registry, v protocol.Version, actions []Action) error {
	for _, a := range actions {
		if err := Encode(w, reg, v, a); err != nil {
			return err
		}
	}
	return nil
}

// DecodeList reads actions until r is exhausted, preserving order.
func DecodeList(r *buffer.Reader, reg *registry.Registry, v protocol.Version) ([]Action, error) {
	out := make([]Action, 0)
	for r.Remaining() > 0 {
		a, err := Decode(r, reg, v)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// EncodeIDs writes header-only actions: 4 bytes each, 8 for vendor ids.
func EncodeIDs(w *buffer.Writer, reg *registry.Registry, v protocol.Version, ids []Action) error {
	for _, a := range ids {
		c, err := reg.Lookup(idKey(v, a))
		if err != nil {
			return err
		}
		if err := c.EncodeHeader(w, a); err != nil {
			return err
		}
	}
	return nil
}

// DecodeIDs reads header-only actions until r is exhausted.
func DecodeIDs(r *buffer.Reader, reg *registry.Registry, v protocol.Version) ([]Action, error) {
	out := make([]Action, 0)
	for r.Remaining() > 0 {
		k, err := KeyAt(r, v)
		if err != nil {
			return nil, err
		}
		c, err := reg.Lookup(k)
		if err != nil {
			return nil, err
		}
		got, err := c.DecodeHeader(r)
		if err != nil {
			return nil, err
		}
		a, err := asAction(got)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
