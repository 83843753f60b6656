// Package registry maps codec keys to codecs.
//
// A Builder collects registrations during startup and Build freezes them
// into a Registry. The Registry has no mutating methods, so any number of
// goroutines may look codecs up concurrently.
package registry

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
)

// Class is the wire location a codec serves.
type Class uint8

const (
	ClassAction Class = iota + 1
	ClassInstruction
	ClassMatchEntry
	ClassTableFeatureProperty
	ClassMeterBand
	ClassQueueProperty
	ClassError
	ClassExperimenterMessage
	ClassMultipartReply
	ClassMultipartRequest
)

var classNames = map[Class]string{
	ClassAction:               "action",
	ClassInstruction:          "instruction",
	ClassMatchEntry:           "match_entry",
	ClassTableFeatureProperty: "table_feature_property",
	ClassMeterBand:            "meter_band",
	ClassQueueProperty:        "queue_property",
	ClassError:                "error",
	ClassExperimenterMessage:  "experimenter_message",
	ClassMultipartReply:       "multipart_reply",
	ClassMultipartRequest:     "multipart_request",
}

func (c Class) String() string {
	if n, ok := classNames[c]; ok {
		return n
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// ParseClass is the inverse of Class.String.
func ParseClass(raw string) (Class, error) {
	for c, n := range classNames {
		if n == raw {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: class %q", protocol.ErrUnknownKey, raw)
}

type DiscriminatorKind uint8

const (
	KindStandard DiscriminatorKind = iota
	KindExperimenter
	KindExperimenterSubtype
)

// Discriminator selects a variant within a class: a standard type code, an
// experimenter id, or an experimenter id plus subtype.
type Discriminator struct {
	Kind         DiscriminatorKind
	Code         uint16
	Experimenter uint32
	Subtype      uint32
}

func Standard(code uint16) Discriminator {
	return Discriminator{Kind: KindStandard, Code: code}
}

func Experimenter(id uint32) Discriminator {
	return Discriminator{Kind: KindExperimenter, Experimenter: id}
}

func ExperimenterSubtype(id, subtype uint32) Discriminator {
	return Discriminator{Kind: KindExperimenterSubtype, Experimenter: id, Subtype: subtype}
}

func (d Discriminator) String() string {
	switch d.Kind {
	case KindExperimenter:
		return fmt.Sprintf("exp=0x%08x", d.Experimenter)
	case KindExperimenterSubtype:
		return fmt.Sprintf("exp=0x%08x/sub=%d", d.Experimenter, d.Subtype)
	default:
		return fmt.Sprintf("type=%d", d.Code)
	}
}

// Key identifies exactly one codec. Lookups compare every field.
type Key struct {
	Version       protocol.Version
	Class         Class
	Discriminator Discriminator
}

func NewKey(v protocol.Version, c Class, d Discriminator) Key {
	return Key{Version: v, Class: c, Discriminator: d}
}

func (k Key) String() string {
	return fmt.Sprintf("of%s/%s/%s", k.Version, k.Class, k.Discriminator)
}

// Value is implemented by every encodable codec value.
type Value interface {
	Class() Class
	Discriminator() Discriminator
}

// KeyOf derives the encode key for v.
func KeyOf(v protocol.Version, val Value) Key {
	return NewKey(v, val.Class(), val.Discriminator())
}
