// Package multipart implements multipart (OF1.3) and stats (OF1.0)
// request and reply bodies: table features, queue stats, meter config and
// vendor extensions keyed through the registry.
package multipart

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/meter"
	"github.com/danmuck/ofwire/internal/protocol/tablefeature"
)

const (
	TypeQueue         uint16 = 5
	TypeMeterConfig   uint16 = 10
	TypeTableFeatures uint16 = 12
	TypeExperimenter  uint16 = 0xffff

	FlagMore uint16 = 1 << 0
)

// Reply is a multipart reply body. The wire type follows from Body.
type Reply struct {
	Flags uint16
	Body  any
}

type Request struct {
	Flags uint16
	Body  any
}

// TableFeatures is the body of both the request and the reply.
type TableFeatures struct {
	Tables []tablefeature.TableFeatures
}

type MeterConfigReply struct {
	Configs []meter.Config
}

type MeterConfigRequest struct {
	MeterID uint32
}

// headerLen is type, flags and, from OF1.3, four pad bytes.
func headerLen(v protocol.Version) int {
	if v == protocol.OF10 {
		return 4
	}
	return 8
}

func typeOf(v protocol.Version, body any) (uint16, error) {
	switch body.(type) {
	case QueueStatsReply, QueueStatsRequest:
		return TypeQueue, nil
	case ExperimenterBody, VendorBody:
		return TypeExperimenter, nil
	case TableFeatures, MeterConfigReply, MeterConfigRequest:
		if v == protocol.OF10 {
			return 0, fmt.Errorf("%w: %T in OF%s", protocol.ErrUnsupportedVariant, body, v)
		}
		if _, ok := body.(TableFeatures); ok {
			return TypeTableFeatures, nil
		}
		return TypeMeterConfig, nil
	default:
		return 0, fmt.Errorf("%w: multipart body %T", protocol.ErrUnsupportedVariant, body)
	}
}

func putHeader(w *buffer.Writer, v protocol.Version, t, flags uint16) {
	w.PutUint16(t)
	w.PutUint16(flags)
	if v != protocol.OF10 {
		w.PutZeros(4)
	}
}

func readHeader(r *buffer.Reader, v protocol.Version) (uint16, uint16, error) {
	t, err := r.Uint16()
	if err != nil {
		return 0, 0, err
	}
	flags, err := r.Uint16()
	if err != nil {
		return 0, 0, err
	}
	if v != protocol.OF10 {
		err = r.SkipZeros(4)
	}
	return t, flags, err
}

func encodeTables(w *buffer.Writer, c *Codec, v protocol.Version, tables []tablefeature.TableFeatures) error {
	for _, tf := range tables {
		if err := tablefeature.EncodeFeatures(w, c.reg, v, tf); err != nil {
			return err
		}
	}
	return nil
}

func decodeTables(r *buffer.Reader, c *Codec, v protocol.Version) (TableFeatures, error) {
	out := TableFeatures{Tables: make([]tablefeature.TableFeatures, 0)}
	for r.Remaining() > 0 {
		tf, err := tablefeature.DecodeFeatures(r, c.reg, v)
		if err != nil {
			return out, err
		}
		out.Tables = append(out.Tables, tf)
	}
	return out, nil
}
