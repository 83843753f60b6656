package oxm

import (
	"encoding/binary"
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/registry"
)

// PeekKey resolves the registry key of the entry at the cursor without
// consuming it.
func PeekKey(r *buffer.Reader, v protocol.Version) (registry.Key, error) {
	raw, err := r.PeekUint32(0)
	if err != nil {
		return registry.Key{}, err
	}
	h, _ := Unpack(binary.BigEndian.AppendUint32(nil, raw))
	var exp uint32
	if h.Class == ClassExperimenter {
		if exp, err = r.PeekUint32(4); err != nil {
			return registry.Key{}, err
		}
	}
	return Key(v, h.Class, h.Field, exp), nil
}

func asEntry(v any) (Entry, error) {
	e, ok := v.(Entry)
	if !ok {
		return Entry{}, fmt.Errorf("%w: match entry codec returned %T", protocol.ErrUnsupportedVariant, v)
	}
	return e, nil
}

// EncodeEntries writes full entries back to back, unpadded.
func EncodeEntries(w *buffer.Writer, reg *registry.Registry, v protocol.Version, entries []Entry) error {
	for _, e := range entries {
		c, err := reg.Lookup(registry.KeyOf(v, e))
		if err != nil {
			return err
		}
		if err := c.Encode(w, e); err != nil {
			return err
		}
	}
	return nil
}

// DecodeEntries reads full entries until r is exhausted.
func DecodeEntries(r *buffer.Reader, reg *registry.Registry, v protocol.Version) ([]Entry, error) {
	return decodeAll(r, reg, v, false)
}

// EncodeIDs writes header-only entries, as table-feature properties carry.
func EncodeIDs(w *buffer.Writer, reg *registry.Registry, v protocol.Version, ids []Entry) error {
	for _, e := range ids {
		c, err := reg.Lookup(registry.KeyOf(v, e))
		if err != nil {
			return err
		}
		if err := c.EncodeHeader(w, e); err != nil {
			return err
		}
	}
	return nil
}

// DecodeIDs reads header-only entries until r is exhausted.
func DecodeIDs(r *buffer.Reader, reg *registry.Registry, v protocol.Version) ([]Entry, error) {
	return decodeAll(r, reg, v, true)
}

func decodeAll(r *buffer.Reader, reg *registry.Registry, v protocol.Version, headerOnly bool) ([]Entry, error) {
	out := make([]Entry, 0)
	for r.Remaining() > 0 {
		k, err := PeekKey(r, v)
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
		e, err := asEntry(got)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
