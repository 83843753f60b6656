package instruction

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/expkey"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tlv"
)

func keyAt(r *buffer.Reader, v protocol.Version) (registry.Key, error) {
	t, err := tlv.PeekType(r)
	if err != nil {
		return registry.Key{}, err
	}
	if t == TypeExperimenter {
		exp, err := tlv.PeekExperimenter(r)
		if err != nil {
			return registry.Key{}, err
		}
		return expkey.Instruction(v, exp), nil
	}
	return registry.NewKey(v, registry.ClassInstruction, registry.Standard(t)), nil
}

func asInstruction(got any) (Instruction, error) {
	i, ok := got.(Instruction)
	if !ok {
		return nil, fmt.Errorf("%w: instruction codec returned %T", protocol.ErrUnsupportedVariant, got)
	}
	return i, nil
}

func EncodeList(w *buffer.Writer, reg *registry.Registry, v protocol.Version, list []Instruction) error {
	for _, i := range list {
		c, err := reg.Lookup(registry.KeyOf(v, i))
		if err != nil {
			return err
		}
		if err := c.Encode(w, i); err != nil {
			return err
		}
	}
	return nil
}

func DecodeList(r *buffer.Reader, reg *registry.Registry, v protocol.Version) ([]Instruction, error) {
	return decodeAll(r, reg, v, false)
}

func EncodeIDs(w *buffer.Writer, reg *registry.Registry, v protocol.Version, ids []Instruction) error {
	for _, i := range ids {
		c, err := reg.Lookup(registry.KeyOf(v, i))
		if err != nil {
			return err
		}
		if err := c.EncodeHeader(w, i); err != nil {
			return err
		}
	}
	return nil
}

func DecodeIDs(r *buffer.Reader, reg *registry.Registry, v protocol.Version) ([]Instruction, error) {
	return decodeAll(r, reg, v, true)
}

func decodeAll(r *buffer.Reader, reg *registry.Registry, v protocol.Version, headerOnly bool) ([]Instruction, error) {
	out := make([]Instruction, 0)
	for r.Remaining() > 0 {
		k, err := keyAt(r, v)
		if err != nil {
			return nil, err
		}
		c, err := reg.Lookup(k)
		if err != nil {
			return nil, err
		}
		var got any
		if headerOnly {
			got, err = c.DecodeHeader(r)
		} else {
			got, err = c.Decode(r)
		}
		if err != nil {
			return nil, err
		}
		i, err := asInstruction(got)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}
