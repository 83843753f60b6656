package action

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/oxm"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tlv"
)

// Frame is the framing of every action: length includes padding to 8.
var Frame = tlv.Frame{Shape: tlv.ShapeStandard, Padding: tlv.PadIncluded}

func zeroValue[T any](tlv.Header) (T, error) {
	var z T
	return z, nil
}

func empty[T Action](name string, code uint16) *tlv.Codec[T] {
	return &tlv.Codec[T]{
		Name:       name,
		Frame:      Frame,
		Header:     tlv.Header{Type: code},
		FromHeader: zeroValue[T],
	}
}

func withBody[T Action](name string, code uint16, enc func(*buffer.Writer, T) error, dec func(*buffer.Reader, tlv.Header) (T, error)) *tlv.Codec[T] {
	c := empty[T](name, code)
	c.EncodeBody = enc
	c.DecodeBody = dec
	return c
}

func ttlCodec[T Action](name string, code uint16, get func(T) uint8, build func(uint8) T) *tlv.Codec[T] {
	return withBody(name, code,
		func(w *buffer.Writer, a T) error {
			w.PutUint8(get(a))
			return nil
		},
		func(r *buffer.Reader, _ tlv.Header) (T, error) {
			v, err := r.Uint8()
			return build(v), err
		})
}

func etherTypeCodec[T Action](name string, code uint16, get func(T) uint16, build func(uint16) T) *tlv.Codec[T] {
	return withBody(name, code,
		func(w *buffer.Writer, a T) error {
			w.PutUint16(get(a))
			return nil
		},
		func(r *buffer.Reader, _ tlv.Header) (T, error) {
			v, err := r.Uint16()
			return build(v), err
		})
}

func u32Codec[T Action](name string, code uint16, get func(T) uint32, build func(uint32) T) *tlv.Codec[T] {
	return withBody(name, code,
		func(w *buffer.Writer, a T) error {
			w.PutUint32(get(a))
			return nil
		},
		func(r *buffer.Reader, _ tlv.Header) (T, error) {
			v, err := r.Uint32()
			return build(v), err
		})
}

func output13() registry.Codec {
	return withBody("output", TypeOutput,
		func(w *buffer.Writer, a Output) error {
			w.PutUint32(a.Port)
			w.PutUint16(a.MaxLen)
			return nil
		},
		func(r *buffer.Reader, _ tlv.Header) (Output, error) {
			var a Output
			var err error
			if a.Port, err = r.Uint32(); err != nil {
				return a, err
			}
			a.MaxLen, err = r.Uint16()
			return a, err
		})
}

func output10() registry.Codec {
	return withBody("output", TypeOutput,
		func(w *buffer.Writer, a Output) error {
			if a.Port > 0xffff {
				return fmt.Errorf("%w: OF1.0 output port 0x%x exceeds u16", protocol.ErrUnsupportedVariant, a.Port)
			}
			w.PutUint16(uint16(a.Port))
			w.PutUint16(a.MaxLen)
			return nil
		},
		func(r *buffer.Reader, _ tlv.Header) (Output, error) {
			var a Output
			port, err := r.Uint16()
			if err != nil {
				return a, err
			}
			a.Port = uint32(port)
			a.MaxLen, err = r.Uint16()
			return a, err
		})
}

func enqueue10() registry.Codec {
	return withBody("enqueue", OF10TypeEnqueue,
		func(w *buffer.Writer, a Enqueue) error {
			w.PutUint16(a.Port)
			w.PutZeros(6)
			w.PutUint32(a.QueueID)
			return nil
		},
		func(r *buffer.Reader, _ tlv.Header) (Enqueue, error) {
			var a Enqueue
			var err error
			if a.Port, err = r.Uint16(); err != nil {
				return a, err
			}
			if err = r.SkipZeros(6); err != nil {
				return a, err
			}
			a.QueueID, err = r.Uint32()
			return a, err
		})
}

func dlAddr10(name string, code uint16) registry.Codec {
	return withBody(name, code,
		func(w *buffer.Writer, a SetDLAddr) error {
			w.PutBytes(a.Addr[:])
			return nil
		},
		func(r *buffer.Reader, h tlv.Header) (SetDLAddr, error) {
			a := SetDLAddr{Dst: h.Type == OF10TypeSetDLDst}
			raw, err := r.Bytes(6)
			if err != nil {
				return a, err
			}
			copy(a.Addr[:], raw)
			return a, nil
		})
}

func nwAddr10(name string, code uint16) registry.Codec {
	return withBody(name, code,
		func(w *buffer.Writer, a SetNwAddr) error {
			w.PutBytes(a.Addr[:])
			return nil
		},
		func(r *buffer.Reader, h tlv.Header) (SetNwAddr, error) {
			a := SetNwAddr{Dst: h.Type == OF10TypeSetNwDst}
			raw, err := r.Bytes(4)
			if err != nil {
				return a, err
			}
			copy(a.Addr[:], raw)
			return a, nil
		})
}

func tpPort10(name string, code uint16) registry.Codec {
	return withBody(name, code,
		func(w *buffer.Writer, a SetTpPort) error {
			w.PutUint16(a.Port)
			return nil
		},
		func(r *buffer.Reader, h tlv.Header) (SetTpPort, error) {
			port, err := r.Uint16()
			return SetTpPort{Dst: h.Type == OF10TypeSetTpDst, Port: port}, err
		})
}

// setFieldCodec wraps one OXM entry; the entry codec comes from the
// registry.
type setFieldCodec struct {
	version protocol.Version
	reg     *registry.Registry
}

func (c *setFieldCodec) InjectRegistry(r *registry.Registry) { c.reg = r }

func (c *setFieldCodec) Encode(w *buffer.Writer, v any) error {
	sf, ok := v.(SetField)
	if !ok {
		return fmt.Errorf("%w: set_field codec cannot encode %T", protocol.ErrUnsupportedVariant, v)
	}
	if sf.Field.Header.HasMask {
		return fmt.Errorf("%w: set_field with mask", protocol.ErrUnsupportedVariant)
	}
	entry, err := c.reg.Lookup(registry.KeyOf(c.version, sf.Field))
	if err != nil {
		return err
	}
	return tlv.Encode(w, Frame, tlv.Header{Type: TypeSetField}, sf, func(w *buffer.Writer, sf SetField) error {
		return entry.Encode(w, sf.Field)
	})
}

func (c *setFieldCodec) EncodeHeader(w *buffer.Writer, v any) error {
	if _, ok := v.(SetField); !ok {
		return fmt.Errorf("%w: set_field codec cannot encode %T", protocol.ErrUnsupportedVariant, v)
	}
	tlv.EncodeHeader(w, Frame, tlv.Header{Type: TypeSetField})
	return nil
}

func (c *setFieldCodec) Decode(r *buffer.Reader) (any, error) {
	return tlv.Decode(r, Frame, func(p *buffer.Reader, h tlv.Header) (SetField, error) {
		k, err := oxm.PeekKey(p, c.version)
		if err != nil {
			return SetField{}, err
		}
		entry, err := c.reg.Lookup(k)
		if err != nil {
			return SetField{}, err
		}
		got, err := entry.Decode(p)
		if err != nil {
			return SetField{}, err
		}
		e, ok := got.(oxm.Entry)
		if !ok {
			return SetField{}, fmt.Errorf("%w: match entry codec returned %T", protocol.ErrUnsupportedVariant, got)
		}
		return SetField{Field: e}, nil
	})
}

func (c *setFieldCodec) DecodeHeader(r *buffer.Reader) (any, error) {
	if _, err := tlv.DecodeHeader(r, Frame); err != nil {
		return nil, err
	}
	return SetField{}, nil
}

func standardKey(v protocol.Version, code uint16) registry.Key {
	return registry.NewKey(v, registry.ClassAction, registry.Standard(code))
}

func codecs13(v protocol.Version) map[uint16]registry.Codec {
	return map[uint16]registry.Codec{
		TypeOutput:     output13(),
		TypeCopyTTLOut: empty[CopyTTLOut]("copy_ttl_out", TypeCopyTTLOut),
		TypeCopyTTLIn:  empty[CopyTTLIn]("copy_ttl_in", TypeCopyTTLIn),
		TypeSetMplsTTL: ttlCodec("set_mpls_ttl", TypeSetMplsTTL,
			func(a SetMplsTTL) uint8 { return a.TTL }, func(v uint8) SetMplsTTL { return SetMplsTTL{TTL: v} }),
		TypeDecMplsTTL: empty[DecMplsTTL]("dec_mpls_ttl", TypeDecMplsTTL),
		TypePushVLAN: etherTypeCodec("push_vlan", TypePushVLAN,
			func(a PushVLAN) uint16 { return a.EtherType }, func(v uint16) PushVLAN { return PushVLAN{EtherType: v} }),
		TypePopVLAN: empty[PopVLAN]("pop_vlan", TypePopVLAN),
		TypePushMPLS: etherTypeCodec("push_mpls", TypePushMPLS,
			func(a PushMPLS) uint16 { return a.EtherType }, func(v uint16) PushMPLS { return PushMPLS{EtherType: v} }),
		TypePopMPLS: etherTypeCodec("pop_mpls", TypePopMPLS,
			func(a PopMPLS) uint16 { return a.EtherType }, func(v uint16) PopMPLS { return PopMPLS{EtherType: v} }),
		TypeSetQueue: u32Codec("set_queue", TypeSetQueue,
			func(a SetQueue) uint32 { return a.QueueID }, func(v uint32) SetQueue { return SetQueue{QueueID: v} }),
		TypeGroup: u32Codec("group", TypeGroup,
			func(a Group) uint32 { return a.GroupID }, func(v uint32) Group { return Group{GroupID: v} }),
		TypeSetNwTTL: ttlCodec("set_nw_ttl", TypeSetNwTTL,
			func(a SetNwTTL) uint8 { return a.TTL }, func(v uint8) SetNwTTL { return SetNwTTL{TTL: v} }),
		TypeDecNwTTL: empty[DecNwTTL]("dec_nw_ttl", TypeDecNwTTL),
		TypeSetField: &setFieldCodec{version: v},
		TypePushPBB: etherTypeCodec("push_pbb", TypePushPBB,
			func(a PushPBB) uint16 { return a.EtherType }, func(v uint16) PushPBB { return PushPBB{EtherType: v} }),
		TypePopPBB: empty[PopPBB]("pop_pbb", TypePopPBB),
	}
}

func codecs10() map[uint16]registry.Codec {
	return map[uint16]registry.Codec{
		TypeOutput: output10(),
		OF10TypeSetVLANVID: etherTypeCodec("set_vlan_vid", OF10TypeSetVLANVID,
			func(a SetVLANVID) uint16 { return a.VID }, func(v uint16) SetVLANVID { return SetVLANVID{VID: v} }),
		OF10TypeSetVLANPCP: ttlCodec("set_vlan_pcp", OF10TypeSetVLANPCP,
			func(a SetVLANPCP) uint8 { return a.PCP }, func(v uint8) SetVLANPCP { return SetVLANPCP{PCP: v} }),
		OF10TypeStripVLAN: empty[StripVLAN]("strip_vlan", OF10TypeStripVLAN),
		OF10TypeSetDLSrc:  dlAddr10("set_dl_src", OF10TypeSetDLSrc),
		OF10TypeSetDLDst:  dlAddr10("set_dl_dst", OF10TypeSetDLDst),
		OF10TypeSetNwSrc:  nwAddr10("set_nw_src", OF10TypeSetNwSrc),
		OF10TypeSetNwDst:  nwAddr10("set_nw_dst", OF10TypeSetNwDst),
		OF10TypeSetNwTOS: ttlCodec("set_nw_tos", OF10TypeSetNwTOS,
			func(a SetNwTOS) uint8 { return a.TOS }, func(v uint8) SetNwTOS { return SetNwTOS{TOS: v} }),
		OF10TypeSetTpSrc: tpPort10("set_tp_src", OF10TypeSetTpSrc),
		OF10TypeSetTpDst: tpPort10("set_tp_dst", OF10TypeSetTpDst),
		OF10TypeEnqueue:  enqueue10(),
	}
}

// Register adds the standard action codecs of version v.
func Register(b *registry.Builder, v protocol.Version) error {
	var table map[uint16]registry.Codec
	switch v {
	case protocol.OF10:
		table = codecs10()
	case protocol.OF13:
		table = codecs13(v)
	default:
		return fmt.Errorf("%w: %s", protocol.ErrUnsupportedVersion, v)
	}
	for code, c := range table {
		if err := b.Register(standardKey(v, code), c); err != nil {
			return err
		}
	}
	return nil
}
