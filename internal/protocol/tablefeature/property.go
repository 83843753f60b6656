// Package tablefeature implements the properties of an OF1.3 table
// features reply. A property's length covers header and payload only; the
// padding to 8 bytes follows outside it.
package tablefeature

import (
	"github.com/danmuck/ofwire/internal/protocol/action"
	"github.com/danmuck/ofwire/internal/protocol/instruction"
	"github.com/danmuck/ofwire/internal/protocol/oxm"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tlv"
)

const (
	TypeInstructions      uint16 = 0
	TypeInstructionsMiss  uint16 = 1
	TypeNextTables        uint16 = 2
	TypeNextTablesMiss    uint16 = 3
	TypeWriteActions      uint16 = 4
	TypeWriteActionsMiss  uint16 = 5
	TypeApplyActions      uint16 = 6
	TypeApplyActionsMiss  uint16 = 7
	TypeMatch             uint16 = 8
	TypeWildcards         uint16 = 10
	TypeWriteSetField     uint16 = 12
	TypeWriteSetFieldMiss uint16 = 13
	TypeApplySetField     uint16 = 14
	TypeApplySetFieldMiss uint16 = 15
	TypeExperimenter      uint16 = 0xfffe
	TypeExperimenterMiss  uint16 = 0xffff
)

var Frame = tlv.Frame{Shape: tlv.ShapeStandard, Padding: tlv.PadExcluded}

type Property interface {
	registry.Value
}

// Instructions lists the instruction ids a table supports.
type Instructions struct {
	Miss bool
	IDs  []instruction.Instruction
}

func (Instructions) Class() registry.Class { return registry.ClassTableFeatureProperty }
func (p Instructions) Discriminator() registry.Discriminator {
	return registry.Standard(pick(p.Miss, TypeInstructions, TypeInstructionsMiss))
}

type NextTables struct {
	Miss     bool
	TableIDs []uint8
}

func (NextTables) Class() registry.Class { return registry.ClassTableFeatureProperty }
func (p NextTables) Discriminator() registry.Discriminator {
	return registry.Standard(pick(p.Miss, TypeNextTables, TypeNextTablesMiss))
}

// Actions lists header-only action ids. Type is one of the four
// write/apply action property codes.
type Actions struct {
	Type uint16
	IDs  []action.Action
}

func (Actions) Class() registry.Class { return registry.ClassTableFeatureProperty }
func (p Actions) Discriminator() registry.Discriminator { return registry.Standard(p.Type) }

// OXM lists header-only match field ids. Type is one of the match,
// wildcards or set-field property codes.
type OXM struct {
	Type uint16
	IDs  []oxm.Entry
}

func (OXM) Class() registry.Class { return registry.ClassTableFeatureProperty }
func (p OXM) Discriminator() registry.Discriminator { return registry.Standard(p.Type) }

// Experimenter is an opaque vendor property.
type Experimenter struct {
	Miss         bool
	Experimenter uint32
	ExpType      uint32
	Data         []byte
}

func (Experimenter) Class() registry.Class { return registry.ClassTableFeatureProperty }
func (p Experimenter) Discriminator() registry.Discriminator {
	return registry.Experimenter(p.Experimenter)
}

func pick(miss bool, regular, onMiss uint16) uint16 {
	if miss {
		return onMiss
	}
	return regular
}

var (
	actionTypes = []uint16{TypeWriteActions, TypeWriteActionsMiss, TypeApplyActions, TypeApplyActionsMiss}
	oxmTypes    = []uint16{TypeMatch, TypeWildcards, TypeWriteSetField, TypeWriteSetFieldMiss, TypeApplySetField, TypeApplySetFieldMiss}
)

var typeNames = map[uint16]string{
	TypeInstructions:      "instructions",
	TypeInstructionsMiss:  "instructions_miss",
	TypeNextTables:        "next_tables",
	TypeNextTablesMiss:    "next_tables_miss",
	TypeWriteActions:      "write_actions",
	TypeWriteActionsMiss:  "write_actions_miss",
	TypeApplyActions:      "apply_actions",
	TypeApplyActionsMiss:  "apply_actions_miss",
	TypeMatch:             "match",
	TypeWildcards:         "wildcards",
	TypeWriteSetField:     "write_setfield",
	TypeWriteSetFieldMiss: "write_setfield_miss",
	TypeApplySetField:     "apply_setfield",
	TypeApplySetFieldMiss: "apply_setfield_miss",
	TypeExperimenter:      "experimenter",
	TypeExperimenterMiss:  "experimenter_miss",
}

func TypeName(t uint16) string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}
