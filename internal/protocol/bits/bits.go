// Package bits reads and writes sub-byte fields in big-endian byte slices.
//
// Bit 0 is the most significant bit of byte 0. Extracted fields are
// right-aligned: a 10-bit field comes back as two bytes whose top six bits
// are zero.
package bits

import (
	"github.com/danmuck/ofwire/internal/protocol"
)

// GetBits copies numBits bits starting at startBit into a fresh,
// right-aligned slice of ceil(numBits/8) bytes.
func GetBits(data []byte, startBit, numBits int) ([]byte, error) {
	if numBits == 0 && startBit >= 0 {
		return []byte{}, nil
	}
	if err := checkWindow("get bits", len(data), startBit, numBits); err != nil {
		return nil, err
	}
	out := make([]byte, ByteLen(numBits))
	shift := len(out)*8 - numBits
	for i := 0; i < numBits; i++ {
		if bitAt(data, startBit+i) {
			setBit(out, shift+i, true)
		}
	}
	return out, nil
}

// InsertBits writes the low numBits of the right-aligned src into dest at
// startBit. Bits of dest outside the window are left untouched.
func InsertBits(dest, src []byte, startBit, numBits int) error {
	if err := checkWindow("insert bits", len(dest), startBit, numBits); err != nil {
		return err
	}
	if len(src)*8 < numBits {
		return protocol.Errorf("insert bits", startBit, protocol.ErrOutOfRange,
			"source holds %d bits, need %d", len(src)*8, numBits)
	}
	shift := len(src)*8 - numBits
	for i := 0; i < numBits; i++ {
		setBit(dest, startBit+i, bitAt(src, shift+i))
	}
	return nil
}

// ToByteArray serializes the low widthBits of value big-endian into exactly
// ceil(widthBits/8) bytes.
func ToByteArray(value uint64, widthBits int) []byte {
	if widthBits <= 0 {
		return []byte{}
	}
	if widthBits < 64 {
		value &= 1<<uint(widthBits) - 1
	}
	n := ByteLen(widthBits)
	out := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = byte(value)
		value >>= 8
	}
	return out
}

// ToByteArraySigned serializes the two's complement form of value.
func ToByteArraySigned(value int64, widthBits int) []byte {
	return ToByteArray(uint64(value), widthBits)
}

// ToNumber returns the value of the low numBits of data, numBits <= 64.
func ToNumber(data []byte, numBits int) uint64 {
	var v uint64
	for _, b := range data {
		v = v<<8 | uint64(b)
	}
	if numBits >= 64 {
		return v
	}
	if numBits <= 0 {
		return 0
	}
	return v & (1<<uint(numBits) - 1)
}

// MSBMask returns a byte with the n most significant bits set.
func MSBMask(n int) byte {
	if n >= 8 {
		return 0xff
	}
	if n <= 0 {
		return 0
	}
	return byte(0xff << uint(8-n))
}

// LSBMask returns a byte with the n least significant bits set.
func LSBMask(n int) byte {
	if n >= 8 {
		return 0xff
	}
	if n <= 0 {
		return 0
	}
	return byte(1<<uint(n) - 1)
}

func ByteLen(numBits int) int {
	return (numBits + 7) / 8
}

func checkWindow(op string, dataLen, startBit, numBits int) error {
	if startBit < 0 || numBits < 0 {
		return protocol.Errorf(op, startBit, protocol.ErrOutOfRange, "negative window start=%d bits=%d", startBit, numBits)
	}
	total := dataLen * 8
	if startBit >= total && numBits > 0 {
		return protocol.Errorf(op, startBit, protocol.ErrOutOfRange, "start beyond %d bits", total)
	}
	if startBit+numBits > total {
		return protocol.Errorf(op, startBit, protocol.ErrOutOfRange, "window of %d bits exceeds %d", numBits, total)
	}
	return nil
}

func bitAt(data []byte, i int) bool {
	return data[i/8]&(0x80>>uint(i%8)) != 0
}

func setBit(data []byte, i int, on bool) {
	mask := byte(0x80 >> uint(i%8))
	if on {
		data[i/8] |= mask
	} else {
		data[i/8] &^= mask
	}
}
