package queue

import (
	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/registry"
)

// PacketQueue is one ofp_packet_queue. OF1.0 has no port field and a
// shorter header.
type PacketQueue struct {
	QueueID    uint32
	Port       uint32
	Properties []Property
}

func packetQueueHeaderLen(v protocol.Version) int {
	if v == protocol.OF10 {
		return 8
	}
	return 16
}

func EncodePacketQueue(w *buffer.Writer, reg *registry.Registry, v protocol.Version, q PacketQueue) error {
	start := w.Mark()
	w.PutUint32(q.QueueID)
	var tok buffer.LengthToken
	if v == protocol.OF10 {
		tok = w.StartLength(start, buffer.Width16)
		w.PutZeros(2)
	} else {
		w.PutUint32(q.Port)
		tok = w.StartLength(start, buffer.Width16)
		w.PutZeros(6)
	}
	if err := EncodeProperties(w, reg, v, q.Properties); err != nil {
		return err
	}
	_, err := w.FinishLength(tok)
	return err
}

func DecodePacketQueue(r *buffer.Reader, reg *registry.Registry, v protocol.Version) (PacketQueue, error) {
	var q PacketQueue
	start := r.Offset()
	var err error
	if q.QueueID, err = r.Uint32(); err != nil {
		return q, err
	}
	if v != protocol.OF10 {
		if q.Port, err = r.Uint32(); err != nil {
			return q, err
		}
	}
	length, err := r.Uint16()
	if err != nil {
		return q, err
	}
	hdr := packetQueueHeaderLen(v)
	if int(length) < hdr {
		return q, protocol.Errorf("decode packet queue", start, protocol.ErrMalformedLength, "length %d below %d", length, hdr)
	}
	if v == protocol.OF10 {
		err = r.SkipZeros(2)
	} else {
		err = r.SkipZeros(6)
	}
	if err != nil {
		return q, err
	}
	props, err := r.Sub(int(length) - hdr)
	if err != nil {
		return q, err
	}
	q.Properties, err = DecodeProperties(props, reg, v)
	return q, err
}
