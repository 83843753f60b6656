package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/ofwire/internal/codec"
	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/spf13/cobra"
)

type decodeFunc func(reg *registry.Registry, v protocol.Version, hex string) ([]codec.Item, error)

func newDecodeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a hex payload",
	}

	targets := []struct {
		use   string
		short string
		fn    decodeFunc
	}{
		{"actions [hex|-]", "Decode an action list", func(reg *registry.Registry, v protocol.Version, s string) ([]codec.Item, error) {
			got, err := codec.DecodeActionsHex(reg, v, s)
			return codec.DescribeAll(got), err
		}},
		{"instructions [hex|-]", "Decode an instruction list", func(reg *registry.Registry, v protocol.Version, s string) ([]codec.Item, error) {
			got, err := codec.DecodeInstructionsHex(reg, v, s)
			return codec.DescribeAll(got), err
		}},
		{"match [hex|-]", "Decode an OXM match", func(reg *registry.Registry, v protocol.Version, s string) ([]codec.Item, error) {
			got, err := codec.DecodeMatchHex(reg, v, s)
			return codec.DescribeAll(got.Entries), err
		}},
		{"table-features [hex|-]", "Decode a table features body", func(reg *registry.Registry, v protocol.Version, s string) ([]codec.Item, error) {
			got, err := codec.DecodeTableFeaturesHex(reg, v, s)
			return codec.DescribeAll(got), err
		}},
	}
	for _, target := range targets {
		fn := target.fn
		cmd.AddCommand(&cobra.Command{
			Use:   target.use,
			Short: target.short,
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				hex, err := readHex(cmd, args)
				if err != nil {
					return err
				}
				reg, v, err := opts.registry()
				if err != nil {
					return err
				}
				items, err := fn(reg, v, hex)
				if err != nil {
					return err
				}
				return printItems(cmd.OutOrStdout(), items, opts.json)
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "message [hex|-]",
		Short: "Decode one whole OpenFlow message; the version comes from its header",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hex, err := readHex(cmd, args)
			if err != nil {
				return err
			}
			reg, _, err := opts.registry()
			if err != nil {
				return err
			}
			m, err := codec.DecodeMessageHex(reg, hex, codec.MessageOptions{Lenient: opts.lenient})
			if err != nil {
				return err
			}
			return printMessage(cmd.OutOrStdout(), m, opts.json)
		},
	})
	return cmd
}

// readHex takes the payload from args, or from stdin when absent or "-".
func readHex(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return "", fmt.Errorf("no hex payload given")
	}
	return s, nil
}
