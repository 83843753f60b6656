// Package codec populates the codec registry and exposes the encode and
// decode entry points used by the tools.
package codec

import (
	"fmt"
	"sort"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/action"
	"github.com/danmuck/ofwire/internal/protocol/instruction"
	"github.com/danmuck/ofwire/internal/protocol/meter"
	"github.com/danmuck/ofwire/internal/protocol/oxm"
	"github.com/danmuck/ofwire/internal/protocol/queue"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tablefeature"
	"github.com/danmuck/ofwire/internal/protocol/ext/cisco"
	"github.com/danmuck/ofwire/internal/protocol/ext/nicira"
	"github.com/rs/zerolog/log"
)

// RegisterFunc adds one family of codecs for a version.
type RegisterFunc func(*registry.Builder, protocol.Version) error

var builtins = []struct {
	name     string
	register RegisterFunc
}{
	{"action", action.Register},
	{"instruction", instruction.Register},
	{"oxm", oxm.Register},
	{"table_feature", tablefeature.Register},
	{"meter_band", meter.Register},
	{"queue_property", queue.Register},
}

var vendors = map[string]RegisterFunc{
	"nicira": nicira.Register,
	"cisco":  cisco.Register,
}

// VendorNames lists the vendor extensions NewRegistry knows, sorted.
func VendorNames() []string {
	out := make([]string, 0, len(vendors))
	for name := range vendors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type options struct {
	versions []protocol.Version
	vendors  []string
	extra    []RegisterFunc
}

type Option func(*options)

// WithVersions limits the registry to the given protocol versions.
func WithVersions(vs ...protocol.Version) Option {
	return func(o *options) { o.versions = append([]protocol.Version(nil), vs...) }
}

// WithVendors selects vendor extensions by name. An empty list disables
// all of them.
func WithVendors(names ...string) Option {
	return func(o *options) { o.vendors = append([]string{}, names...) }
}

// WithRegister adds caller-provided codecs after the built-in ones.
func WithRegister(fns ...RegisterFunc) Option {
	return func(o *options) { o.extra = append(o.extra, fns...) }
}

// NewRegistry registers the built-in codecs and the enabled vendor
// extensions for every enabled version. Any duplicate key aborts
// construction.
func NewRegistry(opts ...Option) (*registry.Registry, error) {
	o := options{versions: protocol.Versions, vendors: VendorNames()}
	for _, opt := range opts {
		opt(&o)
	}
	fns := make([]RegisterFunc, 0, len(builtins)+len(o.vendors)+len(o.extra))
	for _, b := range builtins {
		fns = append(fns, b.register)
	}
	for _, name := range o.vendors {
		fn, ok := vendors[name]
		if !ok {
			return nil, fmt.Errorf("codec: unknown vendor %q", name)
		}
		fns = append(fns, fn)
	}
	fns = append(fns, o.extra...)

	b := registry.NewBuilder()
	for _, v := range o.versions {
		if !v.Valid() {
			return nil, fmt.Errorf("%w: 0x%02x", protocol.ErrUnsupportedVersion, uint8(v))
		}
		for _, fn := range fns {
			if err := fn(b, v); err != nil {
				return nil, err
			}
		}
	}
	reg, err := b.Build()
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int("codecs", reg.Len()).
		Strs("vendors", o.vendors).
		Msg("codec registry ready")
	return reg, nil
}
