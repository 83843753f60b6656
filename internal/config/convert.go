package config

import (
	"github.com/danmuck/ofwire/internal/codec"
	"github.com/danmuck/ofwire/internal/protocol/frame"
)

// CodecOptions maps the config onto registry construction options.
func (c InspectorConfig) CodecOptions() []codec.Option {
	return []codec.Option{
		codec.WithVersions(c.Versions...),
		codec.WithVendors(c.Vendors...),
	}
}

func (c InspectorConfig) MessageOptions() codec.MessageOptions {
	return codec.MessageOptions{
		Lenient: c.Lenient,
		Limits:  frame.Limits{MaxPayloadBytes: uint64(c.MaxMessageBytes - int(frame.HeaderLen))},
	}
}
