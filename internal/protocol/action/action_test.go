package action

import (
	"errors"
	"testing"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/expkey"
	"github.com/danmuck/ofwire/internal/protocol/oxm"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tlv"
	"github.com/danmuck/ofwire/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

const testVendor uint32 = 0x00abcdef

// mark is a toy vendor action: experimenter header, subtype 3, u32 mark.
type mark struct{ Value uint32 }

func (mark) Class() registry.Class { return registry.ClassAction }
func (mark) Discriminator() registry.Discriminator {
	return registry.ExperimenterSubtype(testVendor, 3)
}

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	b := registry.NewBuilder()
	for _, v := range protocol.Versions {
		if err := Register(b, v); err != nil {
			t.Fatalf("register %s: %v", v, err)
		}
	}
	if err := oxm.Register(b, protocol.OF13); err != nil {
		t.Fatalf("register oxm: %v", err)
	}
	d := &VendorDispatcher{Name: "toy", Version: protocol.OF13, Experimenter: testVendor, Shape: tlv.ShapeExperimenterSub16}
	b.MustRegister(d.Key(), d)
	b.MustRegister(expkey.ActionSubtype(protocol.OF13, testVendor, 3), &tlv.Codec[mark]{
		Name:   "toy_mark",
		Frame:  tlv.Frame{Shape: tlv.ShapeExperimenterSub16, Padding: tlv.PadIncluded},
		Header: tlv.Header{Type: TypeVendor, Experimenter: testVendor, Subtype: 3},
		EncodeBody: func(w *buffer.Writer, m mark) error {
			w.PutUint32(m.Value)
			return nil
		},
		DecodeBody: func(r *buffer.Reader, _ tlv.Header) (mark, error) {
			v, err := r.Uint32()
			return mark{Value: v}, err
		},
	})
	reg, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return reg
}

func encode(t *testing.T, reg *registry.Registry, v protocol.Version, actions ...Action) []byte {
	t.Helper()
	w := buffer.NewWriter(64)
	if err := EncodeList(w, reg, v, actions); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return w.Bytes()
}

func TestDecMplsTTLWireForm(t *testing.T) {
	testlog.Start(t)
	reg := newRegistry(t)
	got := encode(t, reg, protocol.OF13, DecMplsTTL{})
	want := []byte{0x00, 0x10, 0x00, 0x08, 0, 0, 0, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected bytes (-want +got):\n%s", diff)
	}
	back, err := DecodeList(buffer.NewReader(got), reg, protocol.OF13)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]Action{DecMplsTTL{}}, back); diff != "" {
		t.Fatalf("decode mismatch:\n%s", diff)
	}
}

func TestSetQueueWireForm(t *testing.T) {
	testlog.Start(t)
	reg := newRegistry(t)
	got := encode(t, reg, protocol.OF13, SetQueue{QueueID: 7})
	want := []byte{0x00, 0x15, 0x00, 0x08, 0, 0, 0, 7}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected bytes (-want +got):\n%s", diff)
	}
	back, err := DecodeList(buffer.NewReader(got), reg, protocol.OF13)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]Action{SetQueue{QueueID: 7}}, back); diff != "" {
		t.Fatalf("decode mismatch:\n%s", diff)
	}
}

func TestOutputIsVersionSpecific(t *testing.T) {
	reg := newRegistry(t)
	out := Output{Port: 3, MaxLen: 0xffff}

	of13 := encode(t, reg, protocol.OF13, out)
	want13 := []byte{0, 0, 0, 16, 0, 0, 0, 3, 0xff, 0xff, 0, 0, 0, 0, 0, 0}
	if diff := cmp.Diff(want13, of13); diff != "" {
		t.Fatalf("OF1.3 output (-want +got):\n%s", diff)
	}

	of10 := encode(t, reg, protocol.OF10, out)
	want10 := []byte{0, 0, 0, 8, 0, 3, 0xff, 0xff}
	if diff := cmp.Diff(want10, of10); diff != "" {
		t.Fatalf("OF1.0 output (-want +got):\n%s", diff)
	}

	err := EncodeList(buffer.NewWriter(8), reg, protocol.OF10, []Action{Output{Port: 0xfffffffd}})
	if !errors.Is(err, protocol.ErrUnsupportedVariant) {
		t.Fatalf("expected ErrUnsupportedVariant for wide OF1.0 port, got %v", err)
	}
}

func TestListRoundTripPreservesOrder(t *testing.T) {
	reg := newRegistry(t)
	in := []Action{
		PushVLAN{EtherType: 0x8100},
		SetField{Field: oxm.Entry{Header: oxm.Header{Class: oxm.ClassOpenFlowBasic, Field: oxm.FieldVlanVID, Length: 2}, Value: []byte{0x10, 0x64}}},
		SetMplsTTL{TTL: 9},
		Group{GroupID: 7},
		CopyTTLIn{},
		SetQueue{QueueID: 2},
		Output{Port: 1},
		mark{Value: 0xcafe},
	}
	raw := encode(t, reg, protocol.OF13, in...)
	if len(raw)%8 != 0 {
		t.Fatalf("expected list of 8-aligned actions, got %d bytes", len(raw))
	}
	got, err := DecodeList(buffer.NewReader(raw), reg, protocol.OF13)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestOF10ActionsRoundTrip(t *testing.T) {
	reg := newRegistry(t)
	in := []Action{
		SetVLANVID{VID: 100},
		SetVLANPCP{PCP: 5},
		StripVLAN{},
		SetDLAddr{Dst: true, Addr: [6]byte{0, 1, 2, 3, 4, 5}},
		SetNwAddr{Addr: [4]byte{10, 0, 0, 1}},
		SetNwTOS{TOS: 0x20},
		SetTpPort{Dst: true, Port: 443},
		Enqueue{Port: 2, QueueID: 9},
	}
	raw := encode(t, reg, protocol.OF10, in...)
	if len(raw) != 8+8+8+16+8+8+8+16 {
		t.Fatalf("unexpected encoded size %d", len(raw))
	}
	got, err := DecodeList(buffer.NewReader(raw), reg, protocol.OF10)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestType11DependsOnVersion(t *testing.T) {
	reg := newRegistry(t)
	raw := []byte{0, 11, 0, 8, 0, 0, 0, 0}
	got, err := DecodeList(buffer.NewReader(raw), reg, protocol.OF13)
	if err != nil || len(got) != 1 || got[0] != (CopyTTLOut{}) {
		t.Fatalf("expected copy_ttl_out, got %v err=%v", got, err)
	}
	_, err = DecodeList(buffer.NewReader(raw), reg, protocol.OF10)
	if !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected OF1.0 enqueue to need 16 bytes, got %v", err)
	}
}

func TestUnknownActionType(t *testing.T) {
	reg := newRegistry(t)
	_, err := DecodeList(buffer.NewReader([]byte{0, 99, 0, 8, 0, 0, 0, 0}), reg, protocol.OF13)
	if !errors.Is(err, protocol.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	vendor := []byte{0xff, 0xff, 0, 16, 0, 0, 0x12, 0x34, 0, 1, 0, 0, 0, 0, 0, 0}
	_, err = DecodeList(buffer.NewReader(vendor), reg, protocol.OF13)
	if !errors.Is(err, protocol.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey for unregistered vendor, got %v", err)
	}
}

func TestUnknownVendorSubtype(t *testing.T) {
	reg := newRegistry(t)
	raw := []byte{0xff, 0xff, 0, 16, 0x00, 0xab, 0xcd, 0xef, 0, 4, 0, 0, 0, 0, 0, 0}
	_, err := DecodeList(buffer.NewReader(raw), reg, protocol.OF13)
	if !errors.Is(err, protocol.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestMalformedActionLength(t *testing.T) {
	reg := newRegistry(t)
	_, err := DecodeList(buffer.NewReader([]byte{0, 22, 0, 12, 0, 0, 0, 7, 0, 0, 0, 0}), reg, protocol.OF13)
	if !errors.Is(err, protocol.ErrMalformedLength) {
		t.Fatalf("expected ErrMalformedLength, got %v", err)
	}
	_, err = DecodeList(buffer.NewReader([]byte{0, 22, 0, 8, 0, 0}), reg, protocol.OF13)
	if !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestIDsAreHeaderOnly(t *testing.T) {
	reg := newRegistry(t)
	w := buffer.NewWriter(32)
	ids := []Action{Output{}, Group{}, mark{}}
	if err := EncodeIDs(w, reg, protocol.OF13, ids); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{0, 0, 0, 4, 0, 22, 0, 4, 0xff, 0xff, 0, 8, 0x00, 0xab, 0xcd, 0xef}
	if diff := cmp.Diff(want, w.Bytes()); diff != "" {
		t.Fatalf("unexpected bytes (-want +got):\n%s", diff)
	}
	got, err := DecodeIDs(buffer.NewReader(w.Bytes()), reg, protocol.OF13)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	wantIDs := []Action{Output{}, Group{}, ExperimenterID{Experimenter: testVendor}}
	if diff := cmp.Diff(wantIDs, got); diff != "" {
		t.Fatalf("ids (-want +got):\n%s", diff)
	}
}

func TestSetFieldRejectsMask(t *testing.T) {
	reg := newRegistry(t)
	sf := SetField{Field: oxm.Entry{
		Header: oxm.Header{Class: oxm.ClassOpenFlowBasic, Field: oxm.FieldIPv4Dst, HasMask: true},
		Value:  []byte{10, 0, 0, 1},
		Mask:   []byte{255, 0, 0, 0},
	}}
	if err := EncodeList(buffer.NewWriter(16), reg, protocol.OF13, []Action{sf}); !errors.Is(err, protocol.ErrUnsupportedVariant) {
		t.Fatalf("expected ErrUnsupportedVariant, got %v", err)
	}
}

func TestVendorIDHasNoBody(t *testing.T) {
	reg := newRegistry(t)
	err := EncodeList(buffer.NewWriter(16), reg, protocol.OF13, []Action{ExperimenterID{Experimenter: testVendor}})
	if !errors.Is(err, protocol.ErrUnsupportedVariant) {
		t.Fatalf("expected ErrUnsupportedVariant, got %v", err)
	}
}
