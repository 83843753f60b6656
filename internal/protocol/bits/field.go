package bits

import "github.com/danmuck/ofwire/internal/protocol"

// Field names a fixed bit window inside a packed word.
type Field struct {
	Start int
	Width int
}

func (f Field) Get(data []byte) (uint64, error) {
	if f.Width > 64 {
		return 0, protocol.Errorf("field get", f.Start, protocol.ErrOutOfRange, "width %d", f.Width)
	}
	raw, err := GetBits(data, f.Start, f.Width)
	if err != nil {
		return 0, err
	}
	return ToNumber(raw, f.Width), nil
}

// Set writes v into the window. Values wider than the field fail rather
// than being truncated.
func (f Field) Set(data []byte, v uint64) error {
	if f.Width > 64 {
		return protocol.Errorf("field set", f.Start, protocol.ErrOutOfRange, "width %d", f.Width)
	}
	if f.Width < 64 && v>>uint(f.Width) != 0 {
		return protocol.Errorf("field set", f.Start, protocol.ErrOutOfRange,
			"value %d does not fit %d bits", v, f.Width)
	}
	return InsertBits(data, ToByteArray(v, f.Width), f.Start, f.Width)
}

// Max is the largest value the field can hold.
func (f Field) Max() uint64 {
	if f.Width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(f.Width) - 1
}
