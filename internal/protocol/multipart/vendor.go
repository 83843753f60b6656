package multipart

import (
	"fmt"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/registry"
)

// ExperimenterBody is an OF1.3 experimenter multipart body.
type ExperimenterBody struct {
	Experimenter uint32
	ExpType      uint32
	Data         []byte
}

// VendorBody is an OF1.0 vendor stats body.
type VendorBody struct {
	Vendor uint32
	Data   []byte
}

func readExperimenterBody(r *buffer.Reader) (ExperimenterBody, error) {
	var b ExperimenterBody
	var err error
	if b.Experimenter, err = r.Uint32(); err != nil {
		return b, err
	}
	if b.ExpType, err = r.Uint32(); err != nil {
		return b, err
	}
	b.Data, err = r.Bytes(r.Remaining())
	return b, err
}

func readVendorBody(r *buffer.Reader) (VendorBody, error) {
	var b VendorBody
	var err error
	if b.Vendor, err = r.Uint32(); err != nil {
		return b, err
	}
	b.Data, err = r.Bytes(r.Remaining())
	return b, err
}

// ExperimenterCodec carries one experimenter multipart type as raw data.
// Register it under expkey.MultipartReply or expkey.MultipartRequest.
func ExperimenterCodec(experimenter, expType uint32) registry.Codec {
	return &registry.BodyCodec[ExperimenterBody]{
		Name: fmt.Sprintf("multipart_experimenter_0x%08x_%d", experimenter, expType),
		EncodeBody: func(w *buffer.Writer, b ExperimenterBody) error {
			if b.Experimenter != experimenter || b.ExpType != expType {
				return fmt.Errorf("%w: experimenter 0x%08x type %d", protocol.ErrUnsupportedVariant, b.Experimenter, b.ExpType)
			}
			w.PutUint32(b.Experimenter)
			w.PutUint32(b.ExpType)
			w.PutBytes(b.Data)
			return nil
		},
		DecodeBody: readExperimenterBody,
	}
}

// VendorCodec carries one OF1.0 vendor's stats bodies as raw data.
func VendorCodec(vendor uint32) registry.Codec {
	return &registry.BodyCodec[VendorBody]{
		Name: fmt.Sprintf("multipart_vendor_0x%08x", vendor),
		EncodeBody: func(w *buffer.Writer, b VendorBody) error {
			if b.Vendor != vendor {
				return fmt.Errorf("%w: vendor 0x%08x", protocol.ErrUnsupportedVariant, b.Vendor)
			}
			w.PutUint32(b.Vendor)
			w.PutBytes(b.Data)
			return nil
		},
		DecodeBody: readVendorBody,
	}
}
