package codec

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/frame"
	"github.com/danmuck/ofwire/internal/protocol/message"
	"github.com/danmuck/ofwire/internal/protocol/multipart"
	"github.com/danmuck/ofwire/internal/protocol/registry"
)

// Message is one decoded OpenFlow message. Body is nil for message types
// this module does not decode; Payload always holds the raw body.
type Message struct {
	Header  frame.Header
	Kind    string
	Body    any
	Payload []byte
}

type MessageOptions struct {
	Lenient bool
	Limits  frame.Limits
}

// DecodeMessage reads one whole message and decodes its body by type.
func DecodeMessage(reg *registry.Registry, raw []byte, opts MessageOptions) (Message, error) {
	if opts.Limits == (frame.Limits{}) {
		opts.Limits = frame.DefaultLimits()
	}
	var m Message
	src := bytes.NewReader(raw)
	f, err := frame.ReadFrame(src, opts.Limits)
	if err == nil && src.Len() != 0 {
		err = fmt.Errorf("%w: %d bytes after message", protocol.ErrMalformedLength, src.Len())
	}
	if err == nil && !f.Header.Version.Valid() {
		err = fmt.Errorf("%w: 0x%02x", protocol.ErrUnsupportedVersion, uint8(f.Header.Version))
	}
	if err != nil {
		record("decode_message", "frame", len(raw), err)
		return m, err
	}
	m.Header = f.Header
	m.Payload = f.Payload
	kind := frame.BodyOf(f.Header)
	m.Kind = kind.String()

	v := f.Header.Version
	r := buffer.NewReader(f.Payload)
	mopts := message.Options{Lenient: opts.Lenient}
	switch kind {
	case frame.BodyError:
		m.Body, err = message.DecodeError(r, reg, v, mopts)
	case frame.BodyExperimenter:
		m.Body, err = message.DecodeExperimenter(r, reg, v, mopts)
	case frame.BodyMultipartReply:
		mc := multipart.New(reg)
		mc.Lenient = opts.Lenient
		m.Body, err = mc.DecodeReply(r, v)
	case frame.BodyMultipartRequest:
		mc := multipart.New(reg)
		mc.Lenient = opts.Lenient
		m.Body, err = mc.DecodeRequest(r, v)
	}
	record("decode_message", m.Kind, len(raw), err)
	if err != nil {
		return Message{}, err
	}
	return m, nil
}

func DecodeMessageHex(reg *registry.Registry, s string, opts MessageOptions) (Message, error) {
	raw, err := ParseHex(s)
	if err != nil {
		return Message{}, err
	}
	return DecodeMessage(reg, raw, opts)
}

// Item tags a decoded value with its Go type name for display.
type Item struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func Describe(v any) Item {
	t := reflect.TypeOf(v)
	if t == nil {
		return Item{Type: "nil"}
	}
	return Item{Type: t.String(), Value: v}
}

// DescribeAll tags every element of a slice value.
func DescribeAll[T any](vs []T) []Item {
	out := make([]Item, 0, len(vs))
	for _, v := range vs {
		out = append(out, Describe(v))
	}
	return out
}
