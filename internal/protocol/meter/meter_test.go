package meter

import (
	"errors"
	"testing"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/expkey"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

const testVendor uint32 = 0x00c0ffee

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	b := registry.NewBuilder()
	if err := Register(b, protocol.OF13); err != nil {
		t.Fatalf("register: %v", err)
	}
	b.MustRegister(expkey.MeterBand(protocol.OF13, testVendor), ExperimenterCodec(testVendor))
	reg, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return reg
}

func TestBandWireForms(t *testing.T) {
	testlog.Start(t)
	reg := newRegistry(t)
	w := buffer.NewWriter(48)
	bands := []Band{
		Drop{Rate: 1000, BurstSize: 10},
		DSCPRemark{Rate: 500, BurstSize: 5, PrecLevel: 2},
		Experimenter{Rate: 1, BurstSize: 2, Experimenter: testVendor, Data: []byte{0xaa, 0xbb, 0xcc, 0xdd}},
	}
	if err := EncodeBands(w, reg, protocol.OF13, bands); err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw := w.Bytes()
	want := []byte{
		0, 1, 0, 16, 0, 0, 0x03, 0xe8, 0, 0, 0, 10, 0, 0, 0, 0,
		0, 2, 0, 16, 0, 0, 0x01, 0xf4, 0, 0, 0, 5, 2, 0, 0, 0,
		0xff, 0xff, 0, 24, 0, 0, 0, 1, 0, 0, 0, 2, 0x00, 0xc0, 0xff, 0xee, 0xaa, 0xbb, 0xcc, 0xdd, 0, 0, 0, 0,
	}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Fatalf("unexpected bytes (-want +got):\n%s", diff)
	}
	got, err := DecodeBands(buffer.NewReader(raw), reg, protocol.OF13)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// trailing padding is not data
	bands[2] = Experimenter{Rate: 1, BurstSize: 2, Experimenter: testVendor, Data: []byte{0xaa, 0xbb, 0xcc, 0xdd, 0, 0, 0, 0}}
	if diff := cmp.Diff(bands, got); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestUnknownExperimenterBand(t *testing.T) {
	reg := newRegistry(t)
	raw := []byte{0xff, 0xff, 0, 16, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 7}
	if _, err := DecodeBands(buffer.NewReader(raw), reg, protocol.OF13); !errors.Is(err, protocol.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestConfigEntry(t *testing.T) {
	reg := newRegistry(t)
	in := Config{Flags: FlagKBPS | FlagStats, MeterID: 42, Bands: []Band{Drop{Rate: 10, BurstSize: 1}}}
	w := buffer.NewWriter(24)
	if err := EncodeConfig(w, reg, protocol.OF13, in); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if w.Len() != 24 || w.Bytes()[1] != 24 {
		t.Fatalf("expected 24-byte entry, got %d", w.Len())
	}
	got, err := DecodeConfig(buffer.NewReader(w.Bytes()), reg, protocol.OF13)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestConfigRejectsShortLength(t *testing.T) {
	reg := newRegistry(t)
	if _, err := DecodeConfig(buffer.NewReader([]byte{0, 4, 0, 0, 0, 0, 0, 1}), reg, protocol.OF13); !errors.Is(err, protocol.ErrMalformedLength) {
		t.Fatalf("expected ErrMalformedLength, got %v", err)
	}
}
