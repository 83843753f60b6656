package tlv

import (
	"errors"
	"testing"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/google/go-cmp/cmp"
)

var (
	actionFrame   = Frame{Shape: ShapeStandard, Padding: PadIncluded}
	propertyFrame = Frame{Shape: ShapeStandard, Padding: PadExcluded}
	vendorFrame   = Frame{Shape: ShapeExperimenterSub16, Padding: PadIncluded}
)

func writeBytes(w *buffer.Writer, b []byte) error {
	w.PutBytes(b)
	return nil
}

func readAll(r *buffer.Reader, _ Header) ([]byte, error) {
	return r.Bytes(r.Remaining())
}

func TestEncodeEmptyPayloadIncludesPadding(t *testing.T) {
	w := buffer.NewWriter(8)
	if err := Encode[[]byte](w, actionFrame, Header{Type: 16}, nil, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{0x00, 0x10, 0x00, 0x08, 0, 0, 0, 0}
	if diff := cmp.Diff(want, w.Bytes()); diff != "" {
		t.Fatalf("unexpected bytes (-want +got):\n%s", diff)
	}
}

func TestEncodeExcludedPaddingCountsPayloadOnly(t *testing.T) {
	w := buffer.NewWriter(8)
	if err := Encode(w, propertyFrame, Header{Type: 2}, []byte{2, 5, 9}, writeBytes); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{0x00, 0x02, 0x00, 0x07, 2, 5, 9, 0}
	if diff := cmp.Diff(want, w.Bytes()); diff != "" {
		t.Fatalf("unexpected bytes (-want +got):\n%s", diff)
	}

	got, err := Decode(buffer.NewReader(w.Bytes()), propertyFrame, readAll)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]byte{2, 5, 9}, got); diff != "" {
		t.Fatalf("unexpected payload:\n%s", diff)
	}
}

func TestEncodeExperimenterShape(t *testing.T) {
	w := buffer.NewWriter(16)
	h := Header{Type: ExperimenterType, Experimenter: 0x2320, Subtype: 7}
	if err := Encode(w, vendorFrame, h, []byte{1, 2, 3, 4}, writeBytes); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{0xff, 0xff, 0x00, 0x10, 0x00, 0x00, 0x23, 0x20, 0x00, 0x07, 1, 2, 3, 4, 0, 0}
	if diff := cmp.Diff(want, w.Bytes()); diff != "" {
		t.Fatalf("unexpected bytes (-want +got):\n%s", diff)
	}
	r := buffer.NewReader(w.Bytes())
	sub, err := PeekSubtype(r, ShapeExperimenterSub16)
	if err != nil || sub != 7 {
		t.Fatalf("expected subtype 7, got %d err=%v", sub, err)
	}
	var seen Header
	_, err = Decode(r, vendorFrame, func(p *buffer.Reader, h Header) ([]byte, error) {
		seen = h
		return p.Bytes(4)
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if seen.Experimenter != 0x2320 || seen.Subtype != 7 || seen.Length != 16 {
		t.Fatalf("unexpected header %+v", seen)
	}
}

func TestDecodeRejectsShortLength(t *testing.T) {
	_, err := Decode(buffer.NewReader([]byte{0, 16, 0, 2, 0, 0, 0, 0}), actionFrame, readAll)
	if !errors.Is(err, protocol.ErrMalformedLength) {
		t.Fatalf("expected ErrMalformedLength, got %v", err)
	}
}

func TestDecodeRejectsUnalignedIncludedLength(t *testing.T) {
	_, err := Decode(buffer.NewReader([]byte{0, 16, 0, 6, 0, 0, 0, 0}), actionFrame, readAll)
	if !errors.Is(err, protocol.ErrMalformedLength) {
		t.Fatalf("expected ErrMalformedLength, got %v", err)
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	_, err := Decode(buffer.NewReader([]byte{0, 0, 0, 16, 0, 0, 0, 1}), actionFrame, readAll)
	if !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDecodeRejectsUnreadPayload(t *testing.T) {
	// two bytes of payload the body ignores
	data := []byte{0, 2, 0, 6, 1, 2, 0, 0}
	_, err := Decode(buffer.NewReader(data), propertyFrame, func(*buffer.Reader, Header) (int, error) {
		return 0, nil
	})
	if !errors.Is(err, protocol.ErrMalformedLength) {
		t.Fatalf("expected ErrMalformedLength, got %v", err)
	}

	// body stops short of trailing padding by more than an alignment unit
	data = []byte{0, 0, 0, 16, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0}
	_, err = Decode(buffer.NewReader(data), actionFrame, func(*buffer.Reader, Header) (int, error) {
		return 0, nil
	})
	if !errors.Is(err, protocol.ErrMalformedLength) {
		t.Fatalf("expected ErrMalformedLength, got %v", err)
	}
}

func TestDecodeExcludedPaddingMustBePresent(t *testing.T) {
	_, err := Decode(buffer.NewReader([]byte{0, 2, 0, 7, 2, 5, 9}), propertyFrame, readAll)
	if !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated for missing pad, got %v", err)
	}
}

func TestHeaderOnlyConsumesWidth(t *testing.T) {
	w := buffer.NewWriter(16)
	EncodeHeader(w, Frame{Shape: ShapeStandard}, Header{Type: 22})
	EncodeHeader(w, Frame{Shape: ShapeExperimenter}, Header{Type: ExperimenterType, Experimenter: 0xc})
	want := []byte{0, 22, 0, 4, 0xff, 0xff, 0, 8, 0, 0, 0, 0x0c}
	if diff := cmp.Diff(want, w.Bytes()); diff != "" {
		t.Fatalf("unexpected bytes (-want +got):\n%s", diff)
	}
	r := buffer.NewReader(w.Bytes())
	h, err := DecodeHeader(r, Frame{Shape: ShapeStandard})
	if err != nil || h.Type != 22 || r.Offset() != 4 {
		t.Fatalf("unexpected header %+v offset=%d err=%v", h, r.Offset(), err)
	}
	h, err = DecodeHeader(r, Frame{Shape: ShapeExperimenter})
	if err != nil || h.Experimenter != 0xc || r.Remaining() != 0 {
		t.Fatalf("unexpected experimenter header %+v err=%v", h, err)
	}
}

type scalar struct{ V uint32 }

func TestCodecChecksTypeAndValue(t *testing.T) {
	c := &Codec[scalar]{
		Name:   "group",
		Frame:  actionFrame,
		Header: Header{Type: 22},
		EncodeBody: func(w *buffer.Writer, s scalar) error {
			w.PutUint32(s.V)
			return nil
		},
		DecodeBody: func(r *buffer.Reader, _ Header) (scalar, error) {
			v, err := r.Uint32()
			return scalar{V: v}, err
		},
	}
	w := buffer.NewWriter(8)
	if err := c.Encode(w, scalar{V: 7}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := c.Encode(w, "nope"); !errors.Is(err, protocol.ErrUnsupportedVariant) {
		t.Fatalf("expected ErrUnsupportedVariant for wrong value, got %v", err)
	}
	if err := c.EncodeHeader(w, scalar{}); !errors.Is(err, protocol.ErrUnsupportedVariant) {
		t.Fatalf("expected ErrUnsupportedVariant for missing header form, got %v", err)
	}
	got, err := c.Decode(buffer.NewReader(w.Bytes()))
	if err != nil || got != (scalar{V: 7}) {
		t.Fatalf("expected scalar 7, got %v err=%v", got, err)
	}
	wrong := []byte{0, 21, 0, 8, 0, 0, 0, 7}
	if _, err := c.Decode(buffer.NewReader(wrong)); !errors.Is(err, protocol.ErrUnsupportedVariant) {
		t.Fatalf("expected ErrUnsupportedVariant for type mismatch, got %v", err)
	}
}

func TestDecodeRejectsNonZeroPadding(t *testing.T) {
	// output-shaped unit: 6 payload bytes, 6 alignment bytes
	data := []byte{0, 0, 0, 16, 0, 0, 0, 3, 0xff, 0xff, 0, 0, 0xde, 0xad, 0xbe, 0xef}
	read6 := func(p *buffer.Reader, _ Header) ([]byte, error) { return p.Bytes(6) }
	if _, err := Decode(buffer.NewReader(data), actionFrame, read6); !errors.Is(err, protocol.ErrMalformedLength) {
		t.Fatalf("expected ErrMalformedLength for dirty included padding, got %v", err)
	}

	excluded := []byte{0, 2, 0, 7, 2, 5, 9, 0x01}
	if _, err := Decode(buffer.NewReader(excluded), propertyFrame, readAll); !errors.Is(err, protocol.ErrMalformedLength) {
		t.Fatalf("expected ErrMalformedLength for dirty excluded padding, got %v", err)
	}
}

func TestEncodeFailureLeavesWriterClean(t *testing.T) {
	w := buffer.NewWriter(16)
	w.PutUint16(0xabcd)
	boom := errors.New("body failed")
	err := Encode(w, actionFrame, Header{Type: 3}, []byte{1, 2}, func(w *buffer.Writer, b []byte) error {
		w.PutBytes(b)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected body error, got %v", err)
	}
	if diff := cmp.Diff([]byte{0xab, 0xcd}, w.Bytes()); diff != "" {
		t.Fatalf("partial unit left in writer (-want +got):\n%s", diff)
	}
}
