package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/rs/zerolog/log"
)

var ErrSealed = errors.New("registry: builder already built")

// Codec reads and writes one variant. A codec that has no header-only form
// returns protocol.ErrUnsupportedVariant from EncodeHeader/DecodeHeader.
type Codec interface {
	Encode(w *buffer.Writer, v any) error
	EncodeHeader(w *buffer.Writer, v any) error
	Decode(r *buffer.Reader) (any, error)
	DecodeHeader(r *buffer.Reader) (any, error)
}

// Injector is implemented by codecs that dispatch nested items back through
// the registry. Build hands them the finished registry.
type Injector interface {
	InjectRegistry(*Registry)
}

type Builder struct {
	codecs map[Key]Codec
	err    error
	sealed bool
}

func NewBuilder() *Builder {
	return &Builder{codecs: make(map[Key]Codec)}
}

// Register adds one codec. A second registration for the same key fails
// with protocol.ErrDuplicateKey, and the error is also remembered so Build
// refuses to produce a registry.
func (b *Builder) Register(k Key, c Codec) error {
	if b.sealed {
		return ErrSealed
	}
	if c == nil {
		return b.fail(fmt.Errorf("registry: nil codec for %s", k))
	}
	if _, exists := b.codecs[k]; exists {
		return b.fail(fmt.Errorf("%w: %s", protocol.ErrDuplicateKey, k))
	}
	b.codecs[k] = c
	log.Trace().Str("key", k.String()).Msg("codec registered")
	return nil
}

// MustRegister panics on error; for static tables built at init.
func (b *Builder) MustRegister(k Key, c Codec) {
	if err := b.Register(k, c); err != nil {
		panic(err)
	}
}

func (b *Builder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}
	return err
}

// Build freezes the registrations. The builder cannot be used afterwards.
func (b *Builder) Build() (*Registry, error) {
	if b.sealed {
		return nil, ErrSealed
	}
	b.sealed = true
	if b.err != nil {
		return nil, b.err
	}
	reg := &Registry{codecs: b.codecs}
	b.codecs = nil
	for _, c := range reg.codecs {
		if inj, ok := c.(Injector); ok {
			inj.InjectRegistry(reg)
		}
	}
	log.Debug().Int("codecs", len(reg.codecs)).Msg("codec registry built")
	return reg, nil
}

// Registry is the frozen key-to-codec table.
type Registry struct {
	codecs map[Key]Codec
}

func (r *Registry) Lookup(k Key) (Codec, error) {
	c, ok := r.codecs[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", protocol.ErrUnknownKey, k)
	}
	return c, nil
}

func (r *Registry) Len() int { return len(r.codecs) }

// Keys returns every registered key in a stable order.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.codecs))
	for k := range r.codecs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys
}

func keyLess(a, b Key) bool {
	if a.Version != b.Version {
		return a.Version < b.Version
	}
	if a.Class != b.Class {
		return a.Class < b.Class
	}
	da, db := a.Discriminator, b.Discriminator
	if da.Kind != db.Kind {
		return da.Kind < db.Kind
	}
	if da.Code != db.Code {
		return da.Code < db.Code
	}
	if da.Experimenter != db.Experimenter {
		return da.Experimenter < db.Experimenter
	}
	return da.Subtype < db.Subtype
}
