package multipart

import (
	"errors"
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/expkey"
	"github.com/danmuck/ofwire/internal/protocol/meter"
	"github.com/danmuck/ofwire/internal/protocol/registry"
)

// Codec reads and writes multipart bodies against one registry.
type Codec struct {
	reg *registry.Registry
	// Lenient keeps unregistered vendor bodies as raw values.
	Lenient bool
}

func New(reg *registry.Registry) *Codec {
	return &Codec{reg: reg}
}

func (c *Codec) EncodeReply(w *buffer.Writer, v protocol.Version, rep Reply) error {
	t, err := typeOf(v, rep.Body)
	if err != nil {
		return err
	}
	putHeader(w, v, t, rep.Flags)
	switch b := rep.Body.(type) {
	case TableFeatures:
		return encodeTables(w, c, v, b.Tables)
	case QueueStatsReply:
		for _, s := range b.Stats {
			if err := putQueueStats(w, v, s); err != nil {
				return err
			}
		}
		return nil
	case MeterConfigReply:
		for _, mc := range b.Configs {
			if err := meter.EncodeConfig(w, c.reg, v, mc); err != nil {
				return err
			}
		}
		return nil
	case ExperimenterBody:
		return c.encodeVendor(w, expkey.MultipartReply(v, b.Experimenter, b.ExpType), b)
	case VendorBody:
		return c.encodeVendor(w, expkey.MultipartReplyVendor(v, b.Vendor), b)
	default:
		return fmt.Errorf("%w: %T is not a reply body", protocol.ErrUnsupportedVariant, rep.Body)
	}
}

// DecodeReply reads a reply body spanning the rest of r.
func (c *Codec) DecodeReply(r *buffer.Reader, v protocol.Version) (Reply, error) {
	start := r.Offset()
	t, flags, err := readHeader(r, v)
	if err != nil {
		return Reply{}, err
	}
	rep := Reply{Flags: flags}
	switch {
	case t == TypeQueue:
		rep.Body, err = decodeQueueStats(r, v)
	case t == TypeTableFeatures && v != protocol.OF10:
		rep.Body, err = decodeTables(r, c, v)
	case t == TypeMeterConfig && v != protocol.OF10:
		configs := make([]meter.Config, 0)
		for r.Remaining() > 0 && err == nil {
			var mc meter.Config
			if mc, err = meter.DecodeConfig(r, c.reg, v); err == nil {
				configs = append(configs, mc)
			}
		}
		rep.Body = MeterConfigReply{Configs: configs}
	case t == TypeExperimenter:
		rep.Body, err = c.decodeVendor(r, v, expkey.MultipartReply, expkey.MultipartReplyVendor)
	default:
		err = protocol.Errorf("decode multipart reply", start, protocol.ErrUnsupportedVariant, "type %d in OF%s", t, v)
	}
	if err != nil {
		return Reply{}, err
	}
	return rep, nil
}

func (c *Codec) EncodeRequest(w *buffer.Writer, v protocol.Version, req Request) error {
	t, err := typeOf(v, req.Body)
	if err != nil {
		return err
	}
	putHeader(w, v, t, req.Flags)
	switch b := req.Body.(type) {
	case TableFeatures:
		return encodeTables(w, c, v, b.Tables)
	case QueueStatsRequest:
		return putQueueStatsRequest(w, v, b)
	case MeterConfigRequest:
		w.PutUint32(b.MeterID)
		w.PutZeros(4)
		return nil
	case ExperimenterBody:
		return c.encodeVendor(w, expkey.MultipartRequest(v, b.Experimenter, b.ExpType), b)
	case VendorBody:
		return c.encodeVendor(w, expkey.MultipartRequestVendor(v, b.Vendor), b)
	default:
		return fmt.Errorf("%w: %T is not a request body", protocol.ErrUnsupportedVariant, req.Body)
	}
}

func (c *Codec) DecodeRequest(r *buffer.Reader, v protocol.Version) (Request, error) {
	start := r.Offset()
	t, flags, err := readHeader(r, v)
	if err != nil {
		return Request{}, err
	}
	req := Request{Flags: flags}
	switch {
	case t == TypeQueue:
		req.Body, err = readQueueStatsRequest(r, v)
	case t == TypeTableFeatures && v != protocol.OF10:
		req.Body, err = decodeTables(r, c, v)
	case t == TypeMeterConfig && v != protocol.OF10:
		var id uint32
		if id, err = r.Uint32(); err == nil {
			err = r.SkipZeros(4)
		}
		req.Body = MeterConfigRequest{MeterID: id}
	case t == TypeExperimenter:
		req.Body, err = c.decodeVendor(r, v, expkey.MultipartRequest, expkey.MultipartRequestVendor)
	default:
		err = protocol.Errorf("decode multipart request", start, protocol.ErrUnsupportedVariant, "type %d in OF%s", t, v)
	}
	if err != nil {
		return Request{}, err
	}
	if r.Remaining() != 0 {
		return Request{}, protocol.Errorf("decode multipart request", start, protocol.ErrMalformedLength, "%d trailing bytes", r.Remaining())
	}
	return req, nil
}

func (c *Codec) encodeVendor(w *buffer.Writer, k registry.Key, body any) error {
	codec, err := c.reg.Lookup(k)
	if err != nil {
		return err
	}
	return codec.Encode(w, body)
}

// decodeVendor picks the OF1.3 experimenter key or the OF1.0 vendor key
// for the body at r.
func (c *Codec) decodeVendor(r *buffer.Reader, v protocol.Version,
	expKey func(protocol.Version, uint32, uint32) registry.Key,
	vendorKey func(protocol.Version, uint32) registry.Key,
) (any, error) {
	exp, err := r.PeekUint32(0)
	if err != nil {
		return nil, err
	}
	var k registry.Key
	if v == protocol.OF10 {
		k = vendorKey(v, exp)
	} else {
		expType, err := r.PeekUint32(4)
		if err != nil {
			return nil, err
		}
		k = expKey(v, exp, expType)
	}
	codec, err := c.reg.Lookup(k)
	if err != nil {
		if c.Lenient && errors.Is(err, protocol.ErrUnknownKey) {
			if v == protocol.OF10 {
				return readVendorBody(r)
			}
			return readExperimenterBody(r)
		}
		return nil, err
	}
	return codec.Decode(r)
}
