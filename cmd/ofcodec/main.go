package main

import (
	"context"
	"os"

	"github.com/danmuck/ofwire/internal/codec"
	"github.com/danmuck/ofwire/internal/observability"
	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	version string
	vendors []string
	lenient bool
	json    bool
}

func (o *rootOptions) registry() (*registry.Registry, protocol.Version, error) {
	v, err := protocol.ParseVersion(o.version)
	if err != nil {
		return nil, 0, err
	}
	reg, err := codec.NewRegistry(codec.WithVendors(o.vendors...))
	if err != nil {
		return nil, 0, err
	}
	return reg, v, nil
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "ofcodec",
		Short:         "Decode and encode OpenFlow wire payloads",
		Long:          "ofcodec decodes hex OpenFlow payloads (action lists, instructions, matches, table features, whole messages) and encodes a few common actions.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.version, "version", "1.3", "OpenFlow version of the payload (1.0 or 1.3)")
	flags.StringSliceVar(&opts.vendors, "vendors", codec.VendorNames(), "vendor extensions to enable")
	flags.BoolVar(&opts.lenient, "lenient", false, "keep unknown experimenter bodies as raw bytes")
	flags.BoolVar(&opts.json, "json", false, "print results as JSON")

	cmd.AddCommand(newDecodeCommand(opts), newEncodeCommand(opts), newKeysCommand(opts))
	return cmd
}

func main() {
	observability.InitLogger("ofcodec")
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Str("kind", protocol.Kind(err)).Msg("ofcodec failed")
		os.Exit(1)
	}
}
