// Package protocol owns the OpenFlow wire contract shared by every codec.
//
// Ownership boundary:
// - protocol versions and error kinds (this package)
// - bit and byte cursor primitives (bits, buffer)
// - TLV framing and the codec registry (tlv, registry, expkey)
// - concrete codecs per wire location (action, instruction, oxm, tablefeature, ...)
package protocol
