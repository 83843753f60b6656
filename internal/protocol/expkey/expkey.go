// Package expkey builds the registry keys for experimenter (vendor)
// extensions. Every wire location has its own constructor so that the same
// experimenter id used in two places never resolves to the same codec.
package expkey

import (
	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/registry"
)

func ErrorMessage(v protocol.Version, experimenter uint32) registry.Key {
	return registry.NewKey(v, registry.ClassError, registry.Experimenter(experimenter))
}

// ExperimenterMessage keys an OF1.3+ experimenter message body.
func ExperimenterMessage(v protocol.Version, experimenter, expType uint32) registry.Key {
	return registry.NewKey(v, registry.ClassExperimenterMessage, registry.ExperimenterSubtype(experimenter, expType))
}

// VendorMessage keys an OF1.0 vendor message body, which has no type.
func VendorMessage(v protocol.Version, vendor uint32) registry.Key {
	return registry.NewKey(v, registry.ClassExperimenterMessage, registry.Experimenter(vendor))
}

func MultipartReply(v protocol.Version, experimenter, expType uint32) registry.Key {
	return registry.NewKey(v, registry.ClassMultipartReply, registry.ExperimenterSubtype(experimenter, expType))
}

// MultipartReplyVendor keys an OF1.0 vendor stats reply body.
func MultipartReplyVendor(v protocol.Version, vendor uint32) registry.Key {
	return registry.NewKey(v, registry.ClassMultipartReply, registry.Experimenter(vendor))
}

func MultipartRequest(v protocol.Version, experimenter, expType uint32) registry.Key {
	return registry.NewKey(v, registry.ClassMultipartRequest, registry.ExperimenterSubtype(experimenter, expType))
}

// MultipartRequestVendor keys an OF1.0 vendor stats request body.
func MultipartRequestVendor(v protocol.Version, vendor uint32) registry.Key {
	return registry.NewKey(v, registry.ClassMultipartRequest, registry.Experimenter(vendor))
}

// TableFeatureProperty keys an experimenter table-feature property. Reply
// and request bodies carry the same encoding, so they share the codec.
func TableFeatureProperty(v protocol.Version, experimenter uint32) registry.Key {
	return registry.NewKey(v, registry.ClassTableFeatureProperty, registry.Experimenter(experimenter))
}

func MultipartRequestTableFeature(v protocol.Version, experimenter uint32) registry.Key {
	return TableFeatureProperty(v, experimenter)
}

func MeterBand(v protocol.Version, experimenter uint32) registry.Key {
	return registry.NewKey(v, registry.ClassMeterBand, registry.Experimenter(experimenter))
}

func QueueProperty(v protocol.Version, experimenter uint32) registry.Key {
	return registry.NewKey(v, registry.ClassQueueProperty, registry.Experimenter(experimenter))
}

// Action keys the dispatcher for one vendor's actions.
func Action(v protocol.Version, experimenter uint32) registry.Key {
	return registry.NewKey(v, registry.ClassAction, registry.Experimenter(experimenter))
}

// ActionSubtype keys a single vendor action behind that vendor's dispatcher.
func ActionSubtype(v protocol.Version, experimenter, subtype uint32) registry.Key {
	return registry.NewKey(v, registry.ClassAction, registry.ExperimenterSubtype(experimenter, subtype))
}

func Instruction(v protocol.Version, experimenter uint32) registry.Key {
	return registry.NewKey(v, registry.ClassInstruction, registry.Experimenter(experimenter))
}

// MatchEntry keys an experimenter OXM field.
func MatchEntry(v protocol.Version, experimenter uint32, field uint8) registry.Key {
	return registry.NewKey(v, registry.ClassMatchEntry, registry.ExperimenterSubtype(experimenter, uint32(field)))
}
