// Package nicira implements the Nicira (NX) vendor actions and the NXM
// register match fields they address.
package nicira

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/action"
	"github.com/danmuck/ofwire/internal/protocol/bits"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/expkey"
	"github.com/danmuck/ofwire/internal/protocol/oxm"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tlv"
)

const Experimenter uint32 = 0x00002320

const (
	SubtypeResubmit      uint16 = 1
	SubtypeRegMove       uint16 = 6
	SubtypeRegLoad       uint16 = 7
	SubtypeResubmitTable uint16 = 14

	// NumRegs is the number of NXM_NX_REG registers.
	NumRegs = 8
	// InPort as a resubmit port keeps the packet's ingress port.
	InPort uint16 = 0xfff8
)

var frame = tlv.Frame{Shape: tlv.ShapeExperimenterSub16, Padding: tlv.PadIncluded}

// ofs_nbits packs the start bit into the top ten bits and nbits-1 into the
// low six.
var (
	ofsBits   = bits.Field{Start: 0, Width: 10}
	nbitsBits = bits.Field{Start: 10, Width: 6}
)

type Resubmit struct {
	InPort uint16
}

type ResubmitTable struct {
	InPort uint16
	Table  uint8
}

// RegLoad writes Value into bits [Ofs, Ofs+NBits) of the field named by
// the NXM header Dst.
type RegLoad struct {
	Ofs   uint16
	NBits uint8
	Dst   uint32
	Value uint64
}

type RegMove struct {
	NBits  uint16
	SrcOfs uint16
	DstOfs uint16
	Src    uint32
	Dst    uint32
}

func disc(sub uint16) registry.Discriminator {
	return registry.ExperimenterSubtype(Experimenter, uint32(sub))
}

func (Resubmit) Class() registry.Class                      { return registry.ClassAction }
func (Resubmit) Discriminator() registry.Discriminator      { return disc(SubtypeResubmit) }
func (ResubmitTable) Class() registry.Class                 { return registry.ClassAction }
func (ResubmitTable) Discriminator() registry.Discriminator { return disc(SubtypeResubmitTable) }
func (RegLoad) Class() registry.Class                       { return registry.ClassAction }
func (RegLoad) Discriminator() registry.Discriminator       { return disc(SubtypeRegLoad) }
func (RegMove) Class() registry.Class                       { return registry.ClassAction }
func (RegMove) Discriminator() registry.Discriminator       { return disc(SubtypeRegMove) }

// Reg returns the NXM header word of register n, as used by RegLoad.Dst.
func Reg(n int) (uint32, error) {
	if n < 0 || n >= NumRegs {
		return 0, fmt.Errorf("%w: register %d outside 0..%d", protocol.ErrOutOfRange, n, NumRegs-1)
	}
	return oxm.Header{Class: oxm.ClassNXM1, Field: uint8(n), Length: 4}.Uint32()
}

// MustReg is Reg for constant register numbers; it panics when n is out of range.
func MustReg(n int) uint32 {
	word, err := Reg(n)
	if err != nil {
		panic(err)
	}
	return word
}

// PackOfsNbits builds the ofs_nbits word.
func PackOfsNbits(ofs uint16, nbits uint8) (uint16, error) {
	if nbits == 0 || nbits > 64 {
		return 0, fmt.Errorf("%w: nbits %d", protocol.ErrOutOfRange, nbits)
	}
	var raw [2]byte
	if err := ofsBits.Set(raw[:], uint64(ofs)); err != nil {
		return 0, err
	}
	if err := nbitsBits.Set(raw[:], uint64(nbits-1)); err != nil {
		return 0, err
	}
	return uint16(raw[0])<<8 | uint16(raw[1]), nil
}

func UnpackOfsNbits(word uint16) (uint16, uint8) {
	raw := []byte{byte(word >> 8), byte(word)}
	ofs, _ := ofsBits.Get(raw)
	n, _ := nbitsBits.Get(raw)
	return uint16(ofs), uint8(n) + 1
}

func header(sub uint16) tlv.Header {
	return tlv.Header{Type: action.TypeVendor, Experimenter: Experimenter, Subtype: uint32(sub)}
}

func resubmitCodec() registry.Codec {
	return &tlv.Codec[Resubmit]{
		Name:   "nx_resubmit",
		Frame:  frame,
		Header: header(SubtypeResubmit),
		EncodeBody: func(w *buffer.Writer, a Resubmit) error {
			w.PutUint16(a.InPort)
			return nil
		},
		DecodeBody: func(r *buffer.Reader, _ tlv.Header) (Resubmit, error) {
			p, err := r.Uint16()
			return Resubmit{InPort: p}, err
		},
	}
}

func resubmitTableCodec() registry.Codec {
	return &tlv.Codec[ResubmitTable]{
		Name:   "nx_resubmit_table",
		Frame:  frame,
		Header: header(SubtypeResubmitTable),
		EncodeBody: func(w *buffer.Writer, a ResubmitTable) error {
			w.PutUint16(a.InPort)
			w.PutUint8(a.Table)
			return nil
		},
		DecodeBody: func(r *buffer.Reader, _ tlv.Header) (ResubmitTable, error) {
			var a ResubmitTable
			var err error
			if a.InPort, err = r.Uint16(); err != nil {
				return a, err
			}
			a.Table, err = r.Uint8()
			return a, err
		},
	}
}

func regLoadCodec() registry.Codec {
	return &tlv.Codec[RegLoad]{
		Name:   "nx_reg_load",
		Frame:  frame,
		Header: header(SubtypeRegLoad),
		EncodeBody: func(w *buffer.Writer, a RegLoad) error {
			word, err := PackOfsNbits(a.Ofs, a.NBits)
			if err != nil {
				return err
			}
			if a.NBits < 64 && a.Value>>a.NBits != 0 {
				return fmt.Errorf("%w: value 0x%x wider than %d bits", protocol.ErrOutOfRange, a.Value, a.NBits)
			}
			w.PutUint16(word)
			w.PutUint32(a.Dst)
			w.PutUint64(a.Value)
			return nil
		},
		DecodeBody: func(r *buffer.Reader, _ tlv.Header) (RegLoad, error) {
			var a RegLoad
			word, err := r.Uint16()
			if err != nil {
				return a, err
			}
			a.Ofs, a.NBits = UnpackOfsNbits(word)
			if a.Dst, err = r.Uint32(); err != nil {
				return a, err
			}
			a.Value, err = r.Uint64()
			return a, err
		},
	}
}

func regMoveCodec() registry.Codec {
	return &tlv.Codec[RegMove]{
		Name:   "nx_reg_move",
		Frame:  frame,
		Header: header(SubtypeRegMove),
		EncodeBody: func(w *buffer.Writer, a RegMove) error {
			w.PutUint16(a.NBits)
			w.PutUint16(a.SrcOfs)
			w.PutUint16(a.DstOfs)
			w.PutUint32(a.Src)
			w.PutUint32(a.Dst)
			return nil
		},
		DecodeBody: func(r *buffer.Reader, _ tlv.Header) (RegMove, error) {
			var a RegMove
			var err error
			for _, p := range []*uint16{&a.NBits, &a.SrcOfs, &a.DstOfs} {
				if *p, err = r.Uint16(); err != nil {
					return a, err
				}
			}
			if a.Src, err = r.Uint32(); err != nil {
				return a, err
			}
			a.Dst, err = r.Uint32()
			return a, err
		},
	}
}

// Register adds the NX action dispatcher and subtypes for v and, for OF1.3,
// the NXM register match fields.
func Register(b *registry.Builder, v protocol.Version) error {
	d := &action.VendorDispatcher{Name: "nicira", Version: v, Experimenter: Experimenter, Shape: tlv.ShapeExperimenterSub16}
	if err := b.Register(d.Key(), d); err != nil {
		return err
	}
	for sub, c := range map[uint16]registry.Codec{
		SubtypeResubmit:      resubmitCodec(),
		SubtypeRegMove:       regMoveCodec(),
		SubtypeRegLoad:       regLoadCodec(),
		SubtypeResubmitTable: resubmitTableCodec(),
	} {
		if err := b.Register(expkey.ActionSubtype(v, Experimenter, uint32(sub)), c); err != nil {
			return err
		}
	}
	if v != protocol.OF13 {
		return nil
	}
	for n := 0; n < NumRegs; n++ {
		c := &oxm.FixedCodec{Name: fmt.Sprintf("nxm_nx_reg%d", n), OXMClass: oxm.ClassNXM1, Field: uint8(n), Size: 4, Maskable: true}
		if err := b.Register(oxm.Key(v, oxm.ClassNXM1, uint8(n), 0), c); err != nil {
			return err
		}
	}
	return nil
}
