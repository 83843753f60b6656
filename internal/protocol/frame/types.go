package frame

import "github.com/danmuck/ofwire/internal/protocol"

// Body names the message families this module decodes.
type Body int

const (
	BodyOther Body = iota
	BodyError
	BodyExperimenter
	BodyMultipartRequest
	BodyMultipartReply
)

const (
	TypeHello        uint8 = 0
	TypeError        uint8 = 1
	TypeEchoRequest  uint8 = 2
	TypeEchoReply    uint8 = 3
	TypeExperimenter uint8 = 4 // OFPT_VENDOR in OF1.0

	TypeStatsRequest10     uint8 = 16
	TypeStatsReply10       uint8 = 17
	TypeMultipartRequest13 uint8 = 18
	TypeMultipartReply13   uint8 = 19
)

// BodyOf maps a header to the body family it carries.
func BodyOf(h Header) Body {
	switch h.Type {
	case TypeError:
		return BodyError
	case TypeExperimenter:
		return BodyExperimenter
	}
	switch {
	case h.Version == protocol.OF10 && h.Type == TypeStatsRequest10,
		h.Version == protocol.OF13 && h.Type == TypeMultipartRequest13:
		return BodyMultipartRequest
	case h.Version == protocol.OF10 && h.Type == TypeStatsReply10,
		h.Version == protocol.OF13 && h.Type == TypeMultipartReply13:
		return BodyMultipartReply
	}
	return BodyOther
}

// MultipartType returns the message type of a multipart (stats) request
// or reply for v.
func MultipartType(v protocol.Version, reply bool) uint8 {
	switch {
	case v == protocol.OF10 && reply:
		return TypeStatsReply10
	case v == protocol.OF10:
		return TypeStatsRequest10
	case reply:
		return TypeMultipartReply13
	default:
		return TypeMultipartRequest13
	}
}

func (b Body) String() string {
	switch b {
	case BodyError:
		return "error"
	case BodyExperimenter:
		return "experimenter"
	case BodyMultipartRequest:
		return "multipart_request"
	case BodyMultipartReply:
		return "multipart_reply"
	default:
		return "other"
	}
}
