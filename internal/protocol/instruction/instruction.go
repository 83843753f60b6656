// Package instruction implements OF1.3 flow instructions. The action
// instructions nest a full action list, each action framed and padded on
// its own, inside the instruction's length.
package instruction

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/action"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tlv"
)

const (
	TypeGotoTable     uint16 = 1
	TypeWriteMetadata uint16 = 2
	TypeWriteActions  uint16 = 3
	TypeApplyActions  uint16 = 4
	TypeClearActions  uint16 = 5
	TypeMeter         uint16 = 6
	TypeExperimenter  uint16 = 0xffff
)

var Frame = tlv.Frame{Shape: tlv.ShapeStandard, Padding: tlv.PadIncluded}

type Instruction interface {
	registry.Value
}

type GotoTable struct{ TableID uint8 }

func (GotoTable) Class() registry.Class { return registry.ClassInstruction }
func (GotoTable) Discriminator() registry.Discriminator { return registry.Standard(TypeGotoTable) }

type WriteMetadata struct {
	Metadata uint64
	Mask     uint64
}

func (WriteMetadata) Class() registry.Class { return registry.ClassInstruction }
func (WriteMetadata) Discriminator() registry.Discriminator {
	return registry.Standard(TypeWriteMetadata)
}

type WriteActions struct{ Actions []action.Action }

func (WriteActions) Class() registry.Class { return registry.ClassInstruction }
func (WriteActions) Discriminator() registry.Discriminator { return registry.Standard(TypeWriteActions) }

type ApplyActions struct{ Actions []action.Action }

func (ApplyActions) Class() registry.Class { return registry.ClassInstruction }
func (ApplyActions) Discriminator() registry.Discriminator { return registry.Standard(TypeApplyActions) }

type ClearActions struct{}

func (ClearActions) Class() registry.Class { return registry.ClassInstruction }
func (ClearActions) Discriminator() registry.Discriminator { return registry.Standard(TypeClearActions) }

type Meter struct{ MeterID uint32 }

func (Meter) Class() registry.Class { return registry.ClassInstruction }
func (Meter) Discriminator() registry.Discriminator { return registry.Standard(TypeMeter) }

func zeroValue[T any](tlv.Header) (T, error) {
	var z T
	return z, nil
}

func gotoTable() registry.Codec {
	return &tlv.Codec[GotoTable]{
		Name:   "goto_table",
		Frame:  Frame,
		Header: tlv.Header{Type: TypeGotoTable},
		EncodeBody: func(w *buffer.Writer, i GotoTable) error {
			w.PutUint8(i.TableID)
			return nil
		},
		DecodeBody: func(r *buffer.Reader, _ tlv.Header) (GotoTable, error) {
			id, err := r.Uint8()
			return GotoTable{TableID: id}, err
		},
		FromHeader: zeroValue[GotoTable],
	}
}

func writeMetadata() registry.Codec {
	return &tlv.Codec[WriteMetadata]{
		Name:   "write_metadata",
		Frame:  Frame,
		Header: tlv.Header{Type: TypeWriteMetadata},
		EncodeBody: func(w *buffer.Writer, i WriteMetadata) error {
			w.PutZeros(4)
			w.PutUint64(i.Metadata)
			w.PutUint64(i.Mask)
			return nil
		},
		DecodeBody: func(r *buffer.Reader, _ tlv.Header) (WriteMetadata, error) {
			var i WriteMetadata
			var err error
			if err = r.SkipZeros(4); err != nil {
				return i, err
			}
			if i.Metadata, err = r.Uint64(); err != nil {
				return i, err
			}
			i.Mask, err = r.Uint64()
			return i, err
		},
		FromHeader: zeroValue[WriteMetadata],
	}
}

func clearActions() registry.Codec {
	return &tlv.Codec[ClearActions]{
		Name:       "clear_actions",
		Frame:      Frame,
		Header:     tlv.Header{Type: TypeClearActions},
		FromHeader: zeroValue[ClearActions],
	}
}

func meter() registry.Codec {
	return &tlv.Codec[Meter]{
		Name:   "meter",
		Frame:  Frame,
		Header: tlv.Header{Type: TypeMeter},
		EncodeBody: func(w *buffer.Writer, i Meter) error {
			w.PutUint32(i.MeterID)
			return nil
		},
		DecodeBody: func(r *buffer.Reader, _ tlv.Header) (Meter, error) {
			id, err := r.Uint32()
			return Meter{MeterID: id}, err
		},
		FromHeader: zeroValue[Meter],
	}
}

// actionsCodec frames write-actions and apply-actions: header, 4 pad bytes,
// then the nested action list.
type actionsCodec struct {
	name    string
	code    uint16
	version protocol.Version
	reg     *registry.Registry
	get     func(Instruction) ([]action.Action, bool)
	build   func([]action.Action) Instruction
}

func (c *actionsCodec) InjectRegistry(r *registry.Registry) { c.reg = r }

func (c *actionsCodec) actions(v any) ([]action.Action, error) {
	if i, ok := v.(Instruction); ok {
		if actions, ok := c.get(i); ok {
			return actions, nil
		}
	}
	return nil, fmt.Errorf("%w: %s codec cannot encode %T", protocol.ErrUnsupportedVariant, c.name, v)
}

func (c *actionsCodec) Encode(w *buffer.Writer, v any) error {
	actions, err := c.actions(v)
	if err != nil {
		return err
	}
	return tlv.Encode(w, Frame, tlv.Header{Type: c.code}, actions, func(w *buffer.Writer, actions []action.Action) error {
		w.PutZeros(4)
		return action.EncodeList(w, c.reg, c.version, actions)
	})
}

func (c *actionsCodec) EncodeHeader(w *buffer.Writer, v any) error {
	if _, err := c.actions(v); err != nil {
		return err
	}
	tlv.EncodeHeader(w, Frame, tlv.Header{Type: c.code})
	return nil
}

func (c *actionsCodec) Decode(r *buffer.Reader) (any, error) {
	start := r.Offset()
	return tlv.Decode(r, Frame, func(p *buffer.Reader, h tlv.Header) (Instruction, error) {
		if h.Type != c.code {
			return nil, protocol.Errorf("decode "+c.name, start, protocol.ErrUnsupportedVariant, "type %d", h.Type)
		}
		if err := p.SkipZeros(4); err != nil {
			return nil, err
		}
		actions, err := action.DecodeList(p, c.reg, c.version)
		if err != nil {
			return nil, err
		}
		return c.build(actions), nil
	})
}

func (c *actionsCodec) DecodeHeader(r *buffer.Reader) (any, error) {
	if _, err := tlv.DecodeHeader(r, Frame); err != nil {
		return nil, err
	}
	return c.build(nil), nil
}

// Register adds the instruction codecs. Instructions exist from OF1.1, so
// OF1.0 registers nothing.
func Register(b *registry.Builder, v protocol.Version) error {
	if v != protocol.OF13 {
		return nil
	}
	table := map[uint16]registry.Codec{
		TypeGotoTable:     gotoTable(),
		TypeWriteMetadata: writeMetadata(),
		TypeWriteActions: &actionsCodec{
			name:    "write_actions",
			code:    TypeWriteActions,
			version: v,
			get: func(i Instruction) ([]action.Action, bool) {
				wa, ok := i.(WriteActions)
				return wa.Actions, ok
			},
			build: func(a []action.Action) Instruction { return WriteActions{Actions: a} },
		},
		TypeApplyActions: &actionsCodec{
			name:    "apply_actions",
			code:    TypeApplyActions,
			version: v,
			get: func(i Instruction) ([]action.Action, bool) {
				aa, ok := i.(ApplyActions)
				return aa.Actions, ok
			},
			build: func(a []action.Action) Instruction { return ApplyActions{Actions: a} },
		},
		TypeClearActions: clearActions(),
		TypeMeter:        meter(),
	}
	for code, c := range table {
		if err := b.Register(registry.NewKey(v, registry.ClassInstruction, registry.Standard(code)), c); err != nil {
			return err
		}
	}
	return nil
}
