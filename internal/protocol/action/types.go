// Package action holds the standard OpenFlow action codecs and the
// list helpers that dispatch each action through the registry.
package action

import (
	"github.com/danmuck/ofwire/internal/protocol/oxm"
	"github.com/danmuck/ofwire/internal/protocol/registry"
)

// Action is any value the action codecs encode. Standard actions use their
// type code as discriminator; vendor actions use experimenter plus subtype.
type Action interface {
	registry.Value
}

// OF1.3 action type codes.
const (
	TypeOutput     uint16 = 0
	TypeCopyTTLOut uint16 = 11
	TypeCopyTTLIn  uint16 = 12
	TypeSetMplsTTL uint16 = 15
	TypeDecMplsTTL uint16 = 16
	TypePushVLAN   uint16 = 17
	TypePopVLAN    uint16 = 18
	TypePushMPLS   uint16 = 19
	TypePopMPLS    uint16 = 20
	TypeSetQueue   uint16 = 21
	TypeGroup      uint16 = 22
	TypeSetNwTTL   uint16 = 23
	TypeDecNwTTL   uint16 = 24
	TypeSetField   uint16 = 25
	TypePushPBB    uint16 = 26
	TypePopPBB     uint16 = 27
	TypeVendor     uint16 = 0xffff
)

// OF1.0 action type codes that differ from OF1.3.
const (
	OF10TypeSetVLANVID uint16 = 1
	OF10TypeSetVLANPCP uint16 = 2
	OF10TypeStripVLAN  uint16 = 3
	OF10TypeSetDLSrc   uint16 = 4
	OF10TypeSetDLDst   uint16 = 5
	OF10TypeSetNwSrc   uint16 = 6
	OF10TypeSetNwDst   uint16 = 7
	OF10TypeSetNwTOS   uint16 = 8
	OF10TypeSetTpSrc   uint16 = 9
	OF10TypeSetTpDst   uint16 = 10
	OF10TypeEnqueue    uint16 = 11
)

// Output forwards to a port. OF1.0 carries the port as u16.
type Output struct {
	Port   uint32
	MaxLen uint16
}

func (Output) Class() registry.Class { return registry.ClassAction }
func (Output) Discriminator() registry.Discriminator { return registry.Standard(TypeOutput) }

type CopyTTLOut struct{}

func (CopyTTLOut) Class() registry.Class { return registry.ClassAction }
func (CopyTTLOut) Discriminator() registry.Discriminator { return registry.Standard(TypeCopyTTLOut) }

type CopyTTLIn struct{}

func (CopyTTLIn) Class() registry.Class { return registry.ClassAction }
func (CopyTTLIn) Discriminator() registry.Discriminator { return registry.Standard(TypeCopyTTLIn) }

type SetMplsTTL struct{ TTL uint8 }

func (SetMplsTTL) Class() registry.Class { return registry.ClassAction }
func (SetMplsTTL) Discriminator() registry.Discriminator { return registry.Standard(TypeSetMplsTTL) }

type DecMplsTTL struct{}

func (DecMplsTTL) Class() registry.Class { return registry.ClassAction }
func (DecMplsTTL) Discriminator() registry.Discriminator { return registry.Standard(TypeDecMplsTTL) }

type PushVLAN struct{ EtherType uint16 }

func (PushVLAN) Class() registry.Class { return registry.ClassAction }
func (PushVLAN) Discriminator() registry.Discriminator { return registry.Standard(TypePushVLAN) }

type PopVLAN struct{}

func (PopVLAN) Class() registry.Class { return registry.ClassAction }
func (PopVLAN) Discriminator() registry.Discriminator { return registry.Standard(TypePopVLAN) }

type PushMPLS struct{ EtherType uint16 }

func (PushMPLS) Class() registry.Class { return registry.ClassAction }
func (PushMPLS) Discriminator() registry.Discriminator { return registry.Standard(TypePushMPLS) }

type PopMPLS struct{ EtherType uint16 }

func (PopMPLS) Class() registry.Class { return registry.ClassAction }
func (PopMPLS) Discriminator() registry.Discriminator { return registry.Standard(TypePopMPLS) }

type SetQueue struct{ QueueID uint32 }

func (SetQueue) Class() registry.Class { return registry.ClassAction }
func (SetQueue) Discriminator() registry.Discriminator { return registry.Standard(TypeSetQueue) }

type Group struct{ GroupID uint32 }

func (Group) Class() registry.Class { return registry.ClassAction }
func (Group) Discriminator() registry.Discriminator { return registry.Standard(TypeGroup) }

type SetNwTTL struct{ TTL uint8 }

func (SetNwTTL) Class() registry.Class { return registry.ClassAction }
func (SetNwTTL) Discriminator() registry.Discriminator { return registry.Standard(TypeSetNwTTL) }

type DecNwTTL struct{}

func (DecNwTTL) Class() registry.Class { return registry.ClassAction }
func (DecNwTTL) Discriminator() registry.Discriminator { return registry.Standard(TypeDecNwTTL) }

// SetField rewrites one header field. Field.Mask must be empty.
type SetField struct{ Field oxm.Entry }

func (SetField) Class() registry.Class { return registry.ClassAction }
func (SetField) Discriminator() registry.Discriminator { return registry.Standard(TypeSetField) }

type PushPBB struct{ EtherType uint16 }

func (PushPBB) Class() registry.Class { return registry.ClassAction }
func (PushPBB) Discriminator() registry.Discriminator { return registry.Standard(TypePushPBB) }

type PopPBB struct{}

func (PopPBB) Class() registry.Class { return registry.ClassAction }
func (PopPBB) Discriminator() registry.Discriminator { return registry.Standard(TypePopPBB) }

// OF1.0 only.

type SetVLANVID struct{ VID uint16 }

func (SetVLANVID) Class() registry.Class { return registry.ClassAction }
func (SetVLANVID) Discriminator() registry.Discriminator { return registry.Standard(OF10TypeSetVLANVID) }

type SetVLANPCP struct{ PCP uint8 }

func (SetVLANPCP) Class() registry.Class { return registry.ClassAction }
func (SetVLANPCP) Discriminator() registry.Discriminator { return registry.Standard(OF10TypeSetVLANPCP) }

type StripVLAN struct{}

func (StripVLAN) Class() registry.Class { return registry.ClassAction }
func (StripVLAN) Discriminator() registry.Discriminator { return registry.Standard(OF10TypeStripVLAN) }

// SetDLAddr rewrites the Ethernet source (Dst false) or destination.
type SetDLAddr struct {
	Dst  bool
	Addr [6]byte
}

func (SetDLAddr) Class() registry.Class { return registry.ClassAction }
func (a SetDLAddr) Discriminator() registry.Discriminator {
	if a.Dst {
		return registry.Standard(OF10TypeSetDLDst)
	}
	return registry.Standard(OF10TypeSetDLSrc)
}

type SetNwAddr struct {
	Dst  bool
	Addr [4]byte
}

func (SetNwAddr) Class() registry.Class { return registry.ClassAction }
func (a SetNwAddr) Discriminator() registry.Discriminator {
	if a.Dst {
		return registry.Standard(OF10TypeSetNwDst)
	}
	return registry.Standard(OF10TypeSetNwSrc)
}

type SetNwTOS struct{ TOS uint8 }

func (SetNwTOS) Class() registry.Class { return registry.ClassAction }
func (SetNwTOS) Discriminator() registry.Discriminator { return registry.Standard(OF10TypeSetNwTOS) }

type SetTpPort struct {
	Dst  bool
	Port uint16
}

func (SetTpPort) Class() registry.Class { return registry.ClassAction }
func (a SetTpPort) Discriminator() registry.Discriminator {
	if a.Dst {
		return registry.Standard(OF10TypeSetTpDst)
	}
	return registry.Standard(OF10TypeSetTpSrc)
}

type Enqueue struct {
	Port    uint16
	QueueID uint32
}

func (Enqueue) Class() registry.Class { return registry.ClassAction }
func (Enqueue) Discriminator() registry.Discriminator { return registry.Standard(OF10TypeEnqueue) }

// ExperimenterID is the header-only form of a vendor action, as listed in
// table-feature properties.
type ExperimenterID struct{ Experimenter uint32 }

func (ExperimenterID) Class() registry.Class { return registry.ClassAction }
func (a ExperimenterID) Discriminator() registry.Discriminator {
	return registry.Experimenter(a.Experimenter)
}
