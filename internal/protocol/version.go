package protocol

import (
	"fmt"
	"strings"
)

// Version is the ofp_header version byte.
type Version uint8

const (
	OF10 Version = 0x01
	OF13 Version = 0x04
)

// Versions lists every supported version in wire order.
var Versions = []Version{OF10, OF13}

func (v Version) Valid() bool {
	return v == OF10 || v == OF13
}

func (v Version) String() string {
	switch v {
	case OF10:
		return "1.0"
	case OF13:
		return "1.3"
	default:
		return fmt.Sprintf("0x%02x", uint8(v))
	}
}

func ParseVersion(raw string) (Version, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1.0", "10", "of10", "0x01":
		return OF10, nil
	case "1.3", "13", "of13", "0x04":
		return OF13, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedVersion, raw)
	}
}
