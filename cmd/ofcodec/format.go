package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/ofwire/internal/codec"
	"github.com/danmuck/ofwire/internal/protocol/action"
	"github.com/danmuck/ofwire/internal/protocol/oxm"
	"github.com/google/gopacket/layers"
)

func printItems(out io.Writer, items []codec.Item, asJSON bool) error {
	if asJSON {
		return writeJSON(out, items)
	}
	for i, item := range items {
		if _, err := fmt.Fprintf(out, "%d: %s %s\n", i, item.Type, detail(item.Value)); err != nil {
			return err
		}
	}
	return nil
}

func printMessage(out io.Writer, m codec.Message, asJSON bool) error {
	if asJSON {
		return writeJSON(out, map[string]any{
			"version": m.Header.Version.String(),
			"type":    m.Header.Type,
			"length":  m.Header.Length,
			"xid":     m.Header.XID,
			"kind":    m.Kind,
			"body":    codec.Describe(m.Body),
		})
	}
	_, err := fmt.Fprintf(out, "of%s type=%d len=%d xid=%d kind=%s\n",
		m.Header.Version, m.Header.Type, m.Header.Length, m.Header.XID, m.Kind)
	if err != nil || m.Body == nil {
		return err
	}
	item := codec.Describe(m.Body)
	_, err = fmt.Fprintf(out, "  %s %s\n", item.Type, detail(item.Value))
	return err
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// detail renders a decoded value, naming EtherTypes where the value holds one.
func detail(v any) string {
	switch val := v.(type) {
	case action.PushVLAN:
		return etherType(val.EtherType)
	case action.PushMPLS:
		return etherType(val.EtherType)
	case action.PopMPLS:
		return etherType(val.EtherType)
	case action.PushPBB:
		return etherType(val.EtherType)
	case action.SetField:
		return entry(val.Field)
	case oxm.Entry:
		return entry(val)
	default:
		return fmt.Sprintf("%+v", v)
	}
}

func etherType(t uint16) string {
	return fmt.Sprintf("ethertype=0x%04x (%s)", t, layers.EthernetType(t))
}

func entry(e oxm.Entry) string {
	name := fmt.Sprintf("class=0x%04x field=%d", e.Header.Class, e.Header.Field)
	if e.Header.Class == oxm.ClassOpenFlowBasic {
		name = oxm.FieldName(e.Header.Field)
		if e.Header.Field == oxm.FieldEthType && len(e.Value) == 2 && !e.Header.HasMask {
			return "eth_type " + etherType(uint16(e.Value[0])<<8|uint16(e.Value[1]))
		}
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteString("=")
	b.WriteString(hex.EncodeToString(e.Value))
	if e.Header.HasMask {
		b.WriteString("/")
		b.WriteString(hex.EncodeToString(e.Mask))
	}
	return b.String()
}
