package oxm

import (
	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tlv"
)

// MatchTypeOXM is the only ofp_match type OF1.3 defines in practice.
const MatchTypeOXM uint16 = 1

var matchFrame = tlv.Frame{Shape: tlv.ShapeStandard, Padding: tlv.PadExcluded}

// Match is an ofp_match: OXM entries whose length excludes the trailing
// padding to 8 bytes.
type Match struct {
	Entries []Entry
}

func EncodeMatch(w *buffer.Writer, reg *registry.Registry, v protocol.Version, m Match) error {
	return tlv.Encode(w, matchFrame, tlv.Header{Type: MatchTypeOXM}, m, func(w *buffer.Writer, m Match) error {
		return EncodeEntries(w, reg, v, m.Entries)
	})
}

func DecodeMatch(r *buffer.Reader, reg *registry.Registry, v protocol.Version) (Match, error) {
	start := r.Offset()
	return tlv.Decode(r, matchFrame, func(p *buffer.Reader, h tlv.Header) (Match, error) {
		if h.Type != MatchTypeOXM {
			return Match{}, protocol.Errorf("decode match", start, protocol.ErrUnsupportedVariant, "match type %d", h.Type)
		}
		entries, err := DecodeEntries(p, reg, v)
		if err != nil {
			return Match{}, err
		}
		return Match{Entries: entries}, nil
	})
}
