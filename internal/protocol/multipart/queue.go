package multipart

import (
	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
)

const (
	QueueStatsLen13 = 40
	QueueStatsLen10 = 32

	// AllQueues and AnyPort select every queue or port in a request.
	AllQueues uint32 = 0xffffffff
	AnyPort13 uint32 = 0xffffffff
	AnyPort10 uint32 = 0xfffc
)

// QueueStats is one per-queue counter record. OF1.0 records carry a
// 16-bit port and no duration.
type QueueStats struct {
	PortNo       uint32
	QueueID      uint32
	TxBytes      uint64
	TxPackets    uint64
	TxErrors     uint64
	DurationSec  uint32
	DurationNsec uint32
}

type QueueStatsReply struct {
	Stats []QueueStats
}

type QueueStatsRequest struct {
	PortNo  uint32
	QueueID uint32
}

func queueStatsLen(v protocol.Version) int {
	if v == protocol.OF10 {
		return QueueStatsLen10
	}
	return QueueStatsLen13
}

func putPort(w *buffer.Writer, v protocol.Version, port uint32) error {
	if v != protocol.OF10 {
		w.PutUint32(port)
		return nil
	}
	if port > 0xffff {
		return protocol.Errorf("encode queue stats", w.Len(), protocol.ErrOutOfRange, "port %d exceeds u16", port)
	}
	w.PutUint16(uint16(port))
	w.PutZeros(2)
	return nil
}

func readPort(r *buffer.Reader, v protocol.Version) (uint32, error) {
	if v != protocol.OF10 {
		return r.Uint32()
	}
	port, err := r.Uint16()
	if err != nil {
		return 0, err
	}
	return uint32(port), r.SkipZeros(2)
}

func putQueueStats(w *buffer.Writer, v protocol.Version, s QueueStats) error {
	if err := putPort(w, v, s.PortNo); err != nil {
		return err
	}
	w.PutUint32(s.QueueID)
	w.PutUint64(s.TxBytes)
	w.PutUint64(s.TxPackets)
	w.PutUint64(s.TxErrors)
	if v != protocol.OF10 {
		w.PutUint32(s.DurationSec)
		w.PutUint32(s.DurationNsec)
	}
	return nil
}

func decodeQueueStats(r *buffer.Reader, v protocol.Version) (QueueStatsReply, error) {
	size := queueStatsLen(v)
	if r.Remaining()%size != 0 {
		return QueueStatsReply{}, protocol.Errorf("decode queue stats", r.Offset(), protocol.ErrMalformedLength,
			"%d bytes is not a multiple of %d", r.Remaining(), size)
	}
	out := QueueStatsReply{Stats: make([]QueueStats, 0, r.Remaining()/size)}
	for r.Remaining() > 0 {
		var s QueueStats
		var err error
		if s.PortNo, err = readPort(r, v); err != nil {
			return QueueStatsReply{}, err
		}
		if s.QueueID, err = r.Uint32(); err != nil {
			return QueueStatsReply{}, err
		}
		if s.TxBytes, err = r.Uint64(); err != nil {
			return QueueStatsReply{}, err
		}
		if s.TxPackets, err = r.Uint64(); err != nil {
			return QueueStatsReply{}, err
		}
		if s.TxErrors, err = r.Uint64(); err != nil {
			return QueueStatsReply{}, err
		}
		if v != protocol.OF10 {
			if s.DurationSec, err = r.Uint32(); err != nil {
				return QueueStatsReply{}, err
			}
			if s.DurationNsec, err = r.Uint32(); err != nil {
				return QueueStatsReply{}, err
			}
		}
		out.Stats = append(out.Stats, s)
	}
	return out, nil
}

func putQueueStatsRequest(w *buffer.Writer, v protocol.Version, q QueueStatsRequest) error {
	if err := putPort(w, v, q.PortNo); err != nil {
		return err
	}
	w.PutUint32(q.QueueID)
	return nil
}

func readQueueStatsRequest(r *buffer.Reader, v protocol.Version) (QueueStatsRequest, error) {
	var q QueueStatsRequest
	var err error
	if q.PortNo, err = readPort(r, v); err != nil {
		return q, err
	}
	q.QueueID, err = r.Uint32()
	return q, err
}
