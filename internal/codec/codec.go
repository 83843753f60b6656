package codec

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/observability"
	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/rs/zerolog/log"
)

// Encode writes val, fully framed, with the codec registered for its key.
func Encode(reg *registry.Registry, w *buffer.Writer, v protocol.Version, val registry.Value) error {
	start := w.Len()
	k := registry.KeyOf(v, val)
	err := encode(reg, w, k, val)
	record("encode", k.Class.String(), w.Len()-start, err)
	return err
}

func encode(reg *registry.Registry, w *buffer.Writer, k registry.Key, val registry.Value) error {
	c, err := reg.Lookup(k)
	if err != nil {
		return err
	}
	return c.Encode(w, val)
}

// Decode reads one value with the codec named by hint. The hint comes from
// framing the caller has already parsed and must carry version v.
func Decode(reg *registry.Registry, r *buffer.Reader, v protocol.Version, hint registry.Key) (any, error) {
	start := r.Remaining()
	out, err := decode(reg, r, v, hint)
	record("decode", hint.Class.String(), start-r.Remaining(), err)
	return out, err
}

func decode(reg *registry.Registry, r *buffer.Reader, v protocol.Version, hint registry.Key) (any, error) {
	if hint.Version != v {
		return nil, fmt.Errorf("%w: %s hint for OF%s", protocol.ErrUnknownKey, hint, v)
	}
	c, err := reg.Lookup(hint)
	if err != nil {
		return nil, err
	}
	return c.Decode(r)
}

func record(op, class string, size int, err error) {
	observability.RecordCodec(op, class, size, err)
	if err != nil {
		log.Debug().
			Err(err).
			Str("op", op).
			Str("class", class).
			Str("kind", protocol.Kind(err)).
			Msg("codec call failed")
	}
}
