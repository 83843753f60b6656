package meter

import (
	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/registry"
)

const configHeaderLen = 8

// Config flags.
const (
	FlagKBPS  uint16 = 1 << 0
	FlagPKTPS uint16 = 1 << 1
	FlagBurst uint16 = 1 << 2
	FlagStats uint16 = 1 << 3
)

// Config is one ofp_meter_config entry of a meter config reply.
type Config struct {
	Flags   uint16
	MeterID uint32
	Bands   []Band
}

func EncodeConfig(w *buffer.Writer, reg *registry.Registry, v protocol.Version, c Config) error {
	tok := w.StartLength(w.Mark(), buffer.Width16)
	w.PutUint16(c.Flags)
	w.PutUint32(c.MeterID)
	if err := EncodeBands(w, reg, v, c.Bands); err != nil {
		return err
	}
	_, err := w.FinishLength(tok)
	return err
}

func DecodeConfig(r *buffer.Reader, reg *registry.Registry, v protocol.Version) (Config, error) {
	var c Config
	start := r.Offset()
	length, err := r.Uint16()
	if err != nil {
		return c, err
	}
	if length < configHeaderLen {
		return c, protocol.Errorf("decode meter config", start, protocol.ErrMalformedLength, "length %d", length)
	}
	body, err := r.Sub(int(length) - 2)
	if err != nil {
		return c, err
	}
	if c.Flags, err = body.Uint16(); err != nil {
		return c, err
	}
	if c.MeterID, err = body.Uint32(); err != nil {
		return c, err
	}
	c.Bands, err = DecodeBands(body, reg, v)
	return c, err
}
