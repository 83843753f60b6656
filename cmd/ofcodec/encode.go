package main

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/codec"
	"github.com/danmuck/ofwire/internal/protocol/action"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/ext/nicira"
	"github.com/spf13/cobra"
)

type encodeOptions struct {
	port   uint32
	maxLen uint16

	reg   uint8
	ofs   uint16
	nbits uint8
	value uint64

	table  uint8
	inPort uint16
}

func newEncodeCommand(opts *rootOptions) *cobra.Command {
	var eo encodeOptions
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a single action as hex",
	}

	output := &cobra.Command{
		Use:   "output",
		Short: "Encode an output action",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, opts, action.Output{Port: eo.port, MaxLen: eo.maxLen})
		},
	}
	output.Flags().Uint32Var(&eo.port, "port", 0, "output port")
	output.Flags().Uint16Var(&eo.maxLen, "max-len", 0xffff, "bytes sent to the controller")

	regLoad := &cobra.Command{
		Use:   "reg-load",
		Short: "Encode a Nicira reg_load into a register",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dst, err := nicira.Reg(int(eo.reg))
			if err != nil {
				return err
			}
			return runEncode(cmd, opts, nicira.RegLoad{Ofs: eo.ofs, NBits: eo.nbits, Dst: dst, Value: eo.value})
		},
	}
	regLoad.Flags().Uint8Var(&eo.reg, "reg", 0, "destination register index")
	regLoad.Flags().Uint16Var(&eo.ofs, "ofs", 0, "first destination bit")
	regLoad.Flags().Uint8Var(&eo.nbits, "nbits", 32, "number of bits written")
	regLoad.Flags().Uint64Var(&eo.value, "value", 0, "value to load")

	resubmit := &cobra.Command{
		Use:   "resubmit-table",
		Short: "Encode a Nicira resubmit to a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, opts, nicira.ResubmitTable{InPort: eo.inPort, Table: eo.table})
		},
	}
	resubmit.Flags().Uint16Var(&eo.inPort, "in-port", nicira.InPort, "input port seen by the resubmitted lookup")
	resubmit.Flags().Uint8Var(&eo.table, "table", 0, "table to resubmit to")

	cmd.AddCommand(output, regLoad, resubmit)
	return cmd
}

func runEncode(cmd *cobra.Command, opts *rootOptions, val registry.Value) error {
	reg, v, err := opts.registry()
	if err != nil {
		return err
	}
	s, err := codec.EncodeHex(reg, v, val)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), s)
	return err
}

func newKeysCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List every registered codec key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := opts.registry()
			if err != nil {
				return err
			}
			for _, k := range reg.Keys() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), k); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
