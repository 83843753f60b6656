// Package buffer provides the byte cursors every codec reads from and
// writes into. Multi-byte integers are big-endian.
package buffer

import (
	"encoding/binary"

	"github.com/danmuck/ofwire/internal/protocol"
)

// Width is the size of a length field.
type Width int

const (
	Width16 Width = 2
	Width32 Width = 4
)

// Mark is the writer offset where a TLV unit starts.
type Mark int

// LengthToken remembers a reserved length field and the unit it measures.
type LengthToken struct {
	unit  Mark
	at    int
	width Width
}

// Writer is a growable output cursor. Length fields are reserved with
// StartLength and patched by FinishLength once the unit is complete.
type Writer struct {
	buf []byte
}

func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

func (w *Writer) Len() int { return len(w.buf) }

// Bytes returns the committed bytes. The slice aliases the writer.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) Reset() { w.buf = w.buf[:0] }

func (w *Writer) Mark() Mark { return Mark(len(w.buf)) }

// Truncate drops everything written since m.
func (w *Writer) Truncate(m Mark) {
	if int(m) >= 0 && int(m) < len(w.buf) {
		w.buf = w.buf[:m]
	}
}

func (w *Writer) PutUint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) PutUint16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

func (w *Writer) PutUint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

func (w *Writer) PutUint64(v uint64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

func (w *Writer) PutBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *Writer) PutZeros(n int) {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}

// PutFixedString writes s null-padded to exactly n bytes. Longer strings
// fail with ErrOutOfRange; a terminating zero is not required when s fills
// the field.
func (w *Writer) PutFixedString(s string, n int) error {
	if len(s) > n {
		return protocol.Errorf("put string", len(w.buf), protocol.ErrOutOfRange, "%d bytes exceed field of %d", len(s), n)
	}
	w.buf = append(w.buf, s...)
	w.PutZeros(n - len(s))
	return nil
}

// StartLength reserves a zero length field at the cursor for the unit that
// started at m.
func (w *Writer) StartLength(m Mark, width Width) LengthToken {
	t := LengthToken{unit: m, at: len(w.buf), width: width}
	w.PutZeros(int(width))
	return t
}

// FinishLength patches cursor-minus-unit-start into the reserved field and
// returns the patched value.
func (w *Writer) FinishLength(t LengthToken) (int, error) {
	n := len(w.buf) - int(t.unit)
	switch t.width {
	case Width16:
		if n > 0xffff {
			return 0, protocol.Errorf("finish length", int(t.unit), protocol.ErrMalformedLength, "%d bytes exceed u16", n)
		}
		binary.BigEndian.PutUint16(w.buf[t.at:], uint16(n))
	case Width32:
		if uint64(n) > 0xffffffff {
			return 0, protocol.Errorf("finish length", int(t.unit), protocol.ErrMalformedLength, "%d bytes exceed u32", n)
		}
		binary.BigEndian.PutUint32(w.buf[t.at:], uint32(n))
	default:
		return 0, protocol.Errorf("finish length", int(t.unit), protocol.ErrMalformedLength, "unsupported width %d", t.width)
	}
	return n, nil
}

// PadTo appends zeros until the distance from m is a multiple of alignment
// and returns the number of bytes added.
func (w *Writer) PadTo(m Mark, alignment int) int {
	if alignment <= 1 {
		return 0
	}
	pad := Pad(len(w.buf)-int(m), alignment)
	w.PutZeros(pad)
	return pad
}

// Pad returns the bytes needed to bring n to a multiple of alignment.
func Pad(n, alignment int) int {
	return (alignment - n%alignment) % alignment
}

func Pad8(n int) int { return Pad(n, 8) }

func Align8(n int) int { return n + Pad8(n) }
