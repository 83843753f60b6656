package buffer

import (
	"errors"
	"testing"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/google/go-cmp/cmp"
)

func TestFinishLengthPatchesReservedField(t *testing.T) {
	w := NewWriter(16)
	w.PutUint8(0xaa)
	m := w.Mark()
	w.PutUint16(0x0010)
	tok := w.StartLength(m, Width16)
	w.PutUint32(0xdeadbeef)
	n, err := w.FinishLength(tok)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if n != 8 {
		t.Fatalf("expected unit length 8, got %d", n)
	}
	want := []byte{0xaa, 0x00, 0x10, 0x00, 0x08, 0xde, 0xad, 0xbe, 0xef}
	if diff := cmp.Diff(want, w.Bytes()); diff != "" {
		t.Fatalf("unexpected bytes (-want +got):\n%s", diff)
	}
}

func TestFinishLengthAfterPadding(t *testing.T) {
	w := NewWriter(0)
	m := w.Mark()
	w.PutUint16(2)
	tok := w.StartLength(m, Width16)
	w.PutBytes([]byte{2, 5, 9})
	if pad := w.PadTo(m, 8); pad != 1 {
		t.Fatalf("expected 1 pad byte, got %d", pad)
	}
	n, _ := w.FinishLength(tok)
	if n != 8 || w.Len() != 8 {
		t.Fatalf("expected length 8, got n=%d len=%d", n, w.Len())
	}
}

func TestPadToAlignsRelativeToMark(t *testing.T) {
	w := NewWriter(0)
	w.PutZeros(3)
	m := w.Mark()
	w.PutZeros(5)
	if pad := w.PadTo(m, 8); pad != 3 {
		t.Fatalf("expected 3 pad bytes relative to mark, got %d", pad)
	}
	if w.Len() != 11 {
		t.Fatalf("expected 11 bytes, got %d", w.Len())
	}
	if pad := w.PadTo(m, 8); pad != 0 {
		t.Fatalf("expected aligned unit to stay put, got %d", pad)
	}
}

func TestFinishLengthOverflow(t *testing.T) {
	w := NewWriter(0)
	tok := w.StartLength(w.Mark(), Width16)
	w.PutZeros(0x10000)
	if _, err := w.FinishLength(tok); !errors.Is(err, protocol.ErrMalformedLength) {
		t.Fatalf("expected ErrMalformedLength, got %v", err)
	}

	w.Reset()
	tok = w.StartLength(w.Mark(), Width32)
	w.PutZeros(0x10000)
	if n, err := w.FinishLength(tok); err != nil || n != 0x10004 {
		t.Fatalf("expected u32 length 0x10004, got %#x err=%v", n, err)
	}
}

func TestPadHelpers(t *testing.T) {
	if Pad8(7) != 1 || Pad8(8) != 0 || Pad8(0) != 0 || Pad8(9) != 7 {
		t.Fatalf("unexpected Pad8 values")
	}
	if Align8(13) != 16 || Align8(16) != 16 {
		t.Fatalf("unexpected Align8 values")
	}
}

func TestReaderReadsBigEndian(t *testing.T) {
	r := NewReader([]byte{1, 0, 2, 0, 0, 0, 3, 0, 0, 0, 0, 0, 0, 0, 4, 9, 9})
	u8, _ := r.Uint8()
	u16, _ := r.Uint16()
	u32, _ := r.Uint32()
	u64, _ := r.Uint64()
	if u8 != 1 || u16 != 2 || u32 != 3 || u64 != 4 {
		t.Fatalf("unexpected values %d %d %d %d", u8, u16, u32, u64)
	}
	if r.Offset() != 15 || r.Remaining() != 2 {
		t.Fatalf("unexpected cursor offset=%d remaining=%d", r.Offset(), r.Remaining())
	}
}

func TestReaderTruncation(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	if _, err := r.Uint32(); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if r.Offset() != 0 {
		t.Fatalf("expected failed read to leave cursor, got %d", r.Offset())
	}
	if _, err := r.Bytes(4); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if err := r.Skip(-1); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated for negative skip, got %v", err)
	}
	if _, err := r.PeekUint32(0); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated on peek, got %v", err)
	}
}

func TestReaderBytesAreCopies(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	r := NewReader(src)
	got, _ := r.Bytes(4)
	src[0] = 0xff
	if got[0] != 1 {
		t.Fatalf("expected copy to be independent of caller buffer")
	}
}

func TestSubReaderIsBoundedAndOffsetAware(t *testing.T) {
	r := NewReader([]byte{0, 0, 0xab, 0xcd, 0xef, 0x11})
	_ = r.Skip(2)
	sub, err := r.Sub(2)
	if err != nil {
		t.Fatalf("sub: %v", err)
	}
	if r.Offset() != 4 {
		t.Fatalf("expected parent advanced to 4, got %d", r.Offset())
	}
	v, _ := sub.PeekUint16(0)
	if v != 0xabcd {
		t.Fatalf("expected 0xabcd, got %#x", v)
	}
	_, _ = sub.Uint8()
	_, err = sub.Uint16()
	var ce *protocol.CodecError
	if !errors.As(err, &ce) || ce.Offset != 3 {
		t.Fatalf("expected truncation at absolute offset 3, got %v", err)
	}
}

func TestFixedString(t *testing.T) {
	w := NewWriter(0)
	if err := w.PutFixedString("vrf-red", 32); err != nil {
		t.Fatalf("put: %v", err)
	}
	if w.Len() != 32 {
		t.Fatalf("expected 32 bytes, got %d", w.Len())
	}
	s, err := NewReader(w.Bytes()).FixedString(32)
	if err != nil || s != "vrf-red" {
		t.Fatalf("expected vrf-red, got %q err=%v", s, err)
	}
	if err := w.PutFixedString("toolong", 3); !errors.Is(err, protocol.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestTruncateDropsPartialUnit(t *testing.T) {
	w := NewWriter(16)
	w.PutUint16(0xaaaa)
	m := w.Mark()
	w.PutUint32(0xdeadbeef)
	w.Truncate(m)
	if diff := cmp.Diff([]byte{0xaa, 0xaa}, w.Bytes()); diff != "" {
		t.Fatalf("unexpected bytes (-want +got):\n%s", diff)
	}
	w.Truncate(Mark(10))
	if w.Len() != 2 {
		t.Fatalf("expected truncate past the end to be a no-op, got len %d", w.Len())
	}
}

func TestSkipZeros(t *testing.T) {
	r := NewReader([]byte{0, 0, 0, 7, 0})
	if err := r.SkipZeros(3); err != nil {
		t.Fatalf("skip zeros: %v", err)
	}
	err := r.SkipZeros(2)
	if !errors.Is(err, protocol.ErrMalformedLength) {
		t.Fatalf("expected ErrMalformedLength for non-zero byte, got %v", err)
	}
	var ce *protocol.CodecError
	if !errors.As(err, &ce) || ce.Offset != 3 {
		t.Fatalf("expected error at offset 3, got %v", err)
	}
	if r.Offset() != 3 {
		t.Fatalf("expected cursor to stay at 3, got %d", r.Offset())
	}
	if err := r.SkipZeros(4); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}
