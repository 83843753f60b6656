package buffer

import (
	"encoding/binary"

	"github.com/danmuck/ofwire/internal/protocol"
)

// Reader is a bounded input cursor over a caller-owned slice. Values handed
// back are copies; the reader keeps no reference after a call returns.
type Reader struct {
	data []byte
	pos  int
	base int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset is the absolute position, including the offset of parent readers.
func (r *Reader) Offset() int { return r.base + r.pos }

func (r *Reader) Remaining() int { return len(r.data) - r.pos }

func (r *Reader) need(op string, n int) error {
	if n < 0 || r.Remaining() < n {
		return protocol.Errorf(op, r.Offset(), protocol.ErrTruncated, "need %d bytes, have %d", n, r.Remaining())
	}
	return nil
}

func (r *Reader) Uint8() (uint8, error) {
	if err := r.need("read u8", 1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *Reader) Uint16() (uint16, error) {
	if err := r.need("read u16", 2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) Uint32() (uint32, error) {
	if err := r.need("read u32", 4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) Uint64() (uint64, error) {
	if err := r.need("read u64", 8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.need("read bytes", n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// FixedString reads an n-byte null-padded field, stopping at the first zero.
func (r *Reader) FixedString(n int) (string, error) {
	raw, err := r.Bytes(n)
	if err != nil {
		return "", err
	}
	for i, b := range raw {
		if b == 0 {
			return string(raw[:i]), nil
		}
	}
	return string(raw), nil
}

func (r *Reader) Skip(n int) error {
	if err := r.need("skip", n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// SkipZeros consumes n bytes that must all be zero, as alignment padding is.
func (r *Reader) SkipZeros(n int) error {
	if err := r.need("skip padding", n); err != nil {
		return err
	}
	for i, b := range r.data[r.pos : r.pos+n] {
		if b != 0 {
			return protocol.Errorf("skip padding", r.Offset()+i, protocol.ErrMalformedLength, "non-zero padding byte 0x%02x", b)
		}
	}
	r.pos += n
	return nil
}

// PeekUint16 reads at off bytes past the cursor without consuming.
func (r *Reader) PeekUint16(off int) (uint16, error) {
	if off < 0 || r.Remaining() < off+2 {
		return 0, protocol.Errorf("peek u16", r.Offset()+off, protocol.ErrTruncated, "have %d bytes", r.Remaining())
	}
	return binary.BigEndian.Uint16(r.data[r.pos+off:]), nil
}

func (r *Reader) PeekUint32(off int) (uint32, error) {
	if off < 0 || r.Remaining() < off+4 {
		return 0, protocol.Errorf("peek u32", r.Offset()+off, protocol.ErrTruncated, "have %d bytes", r.Remaining())
	}
	return binary.BigEndian.Uint32(r.data[r.pos+off:]), nil
}

// Sub carves the next n bytes into a child reader and advances past them.
func (r *Reader) Sub(n int) (*Reader, error) {
	if err := r.need("sub reader", n); err != nil {
		return nil, err
	}
	child := &Reader{data: r.data[r.pos : r.pos+n], base: r.Offset()}
	r.pos += n
	return child, nil
}
