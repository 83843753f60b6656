package cisco

import (
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tlv"
)

const (
	VPNTypeID   uint8 = 1
	VPNTypeName uint8 = 2

	VRFNameLen = 32
)

// VRF sets the packet's VRF, by numeric VPN id or by name.
type VRF struct {
	VPNType uint8
	VPNID   uint64
	Name    string
}

func (VRF) Class() registry.Class { return registry.ClassAction }
func (VRF) Discriminator() registry.Discriminator {
	return registry.ExperimenterSubtype(Experimenter, uint32(SubtypeVRF))
}

func vrfCodec() registry.Codec {
	return &tlv.Codec[VRF]{
		Name:   "cisco_vrf",
		Frame:  frame,
		Header: header(SubtypeVRF),
		EncodeBody: func(w *buffer.Writer, a VRF) error {
			at := w.Len()
			w.PutUint8(a.VPNType)
			w.PutZeros(5)
			switch a.VPNType {
			case VPNTypeID:
				w.PutUint64(a.VPNID)
				return nil
			case VPNTypeName:
				return w.PutFixedString(a.Name, VRFNameLen)
			default:
				return unsupported("encode cisco vrf", at, "vpn type", a.VPNType)
			}
		},
		DecodeBody: func(r *buffer.Reader, _ tlv.Header) (VRF, error) {
			var a VRF
			var err error
			start := r.Offset()
			if a.VPNType, err = r.Uint8(); err != nil {
				return a, err
			}
			if err = r.SkipZeros(5); err != nil {
				return a, err
			}
			switch a.VPNType {
			case VPNTypeID:
				a.VPNID, err = r.Uint64()
			case VPNTypeName:
				a.Name, err = r.FixedString(VRFNameLen)
			default:
				err = unsupported("decode cisco vrf", start, "vpn type", a.VPNType)
			}
			return a, err
		},
	}
}
