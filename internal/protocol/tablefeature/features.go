package tablefeature

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/expkey"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tlv"
)

const (
	// FeaturesHeaderLen is the fixed part of ofp_table_features.
	FeaturesHeaderLen = 64
	MaxTableNameLen   = 32
)

// TableFeatures is one entry of a table features multipart body.
type TableFeatures struct {
	TableID       uint8
	Name          string
	MetadataMatch uint64
	MetadataWrite uint64
	Config        uint32
	MaxEntries    uint32
	Properties    []Property
}

// KeyAt resolves the codec key of the property at the cursor.
func KeyAt(r *buffer.Reader, v protocol.Version) (registry.Key, error) {
	t, err := tlv.PeekType(r)
	if err != nil {
		return registry.Key{}, err
	}
	if t == TypeExperimenter || t == TypeExperimenterMiss {
		exp, err := tlv.PeekExperimenter(r)
		if err != nil {
			return registry.Key{}, err
		}
		return expkey.TableFeatureProperty(v, exp), nil
	}
	return standardKey(v, t), nil
}

func EncodeProperties(w *buffer.Writer, reg *registry.Registry, v protocol.Version, props []Property) error {
	for _, p := range props {
		c, err := reg.Lookup(registry.KeyOf(v, p))
		if err != nil {
			return err
		}
		if err := c.Encode(w, p); err != nil {
			return err
		}
	}
	return nil
}

// DecodeProperties reads properties until r is exhausted, in wire order.
func DecodeProperties(r *buffer.Reader, reg *registry.Registry, v protocol.Version) ([]Property, error) {
	out := make([]Property, 0)
	for r.Remaining() > 0 {
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
		p, ok := got.(Property)
		if !ok {
			return nil, fmt.Errorf("%w: property codec returned %T", protocol.ErrUnsupportedVariant, got)
		}
		out = append(out, p)
	}
	return out, nil
}

func EncodeFeatures(w *buffer.Writer, reg *registry.Registry, v protocol.Version, tf TableFeatures) error {
	m := w.Mark()
	tok := w.StartLength(m, buffer.Width16)
	w.PutUint8(tf.TableID)
	w.PutZeros(5)
	if err := w.PutFixedString(tf.Name, MaxTableNameLen); err != nil {
		return err
	}
	w.PutUint64(tf.MetadataMatch)
	w.PutUint64(tf.MetadataWrite)
	w.PutUint32(tf.Config)
	w.PutUint32(tf.MaxEntries)
	if err := EncodeProperties(w, reg, v, tf.Properties); err != nil {
		return err
	}
	_, err := w.FinishLength(tok)
	return err
}

func DecodeFeatures(r *buffer.Reader, reg *registry.Registry, v protocol.Version) (TableFeatures, error) {
	var tf TableFeatures
	start := r.Offset()
	length, err := r.Uint16()
	if err != nil {
		return tf, err
	}
	if length < FeaturesHeaderLen {
		return tf, protocol.Errorf("decode table features", start, protocol.ErrMalformedLength,
			"length %d below %d", length, FeaturesHeaderLen)
	}
	body, err := r.Sub(int(length) - 2)
	if err != nil {
		return tf, err
	}
	if tf.TableID, err = body.Uint8(); err != nil {
		return tf, err
	}
	if err = body.SkipZeros(5); err != nil {
		return tf, err
	}
	if tf.Name, err = body.FixedString(MaxTableNameLen); err != nil {
		return tf, err
	}
	if tf.MetadataMatch, err = body.Uint64(); err != nil {
		return tf, err
	}
	if tf.MetadataWrite, err = body.Uint64(); err != nil {
		return tf, err
	}
	if tf.Config, err = body.Uint32(); err != nil {
		return tf, err
	}
	if tf.MaxEntries, err = body.Uint32(); err != nil {
		return tf, err
	}
	if tf.Properties, err = DecodeProperties(body, reg, v); err != nil {
		return tf, err
	}
	return tf, nil
}
