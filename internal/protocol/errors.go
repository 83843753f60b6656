package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated          = errors.New("protocol: truncated message")
	ErrMalformedLength    = errors.New("protocol: malformed length")
	ErrUnsupportedVariant = errors.New("protocol: unsupported variant")
	ErrUnknownKey         = errors.New("protocol: unknown codec key")
	ErrDuplicateKey       = errors.New("protocol: duplicate codec key")
	ErrOutOfRange         = errors.New("protocol: out of range")
	ErrUnsupportedVersion = errors.New("protocol: unsupported version")
)

// CodecError locates a failure inside a buffer. Err is always one of the
// sentinel kinds above, possibly wrapped.
type CodecError struct {
	Op     string
	Offset int
	Err    error
	Detail string
}

func (e *CodecError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s at offset %d: %v", e.Op, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s at offset %d: %v: %s", e.Op, e.Offset, e.Err, e.Detail)
}

func (e *CodecError) Unwrap() error { return e.Err }

// Errorf builds a CodecError of the given kind.
func Errorf(op string, offset int, kind error, format string, args ...any) error {
	return &CodecError{Op: op, Offset: offset, Err: kind, Detail: fmt.Sprintf(format, args...)}
}

var kinds = []struct {
	err   error
	label string
}{
	{ErrTruncated, "truncated"},
	{ErrMalformedLength, "malformed_length"},
	{ErrUnsupportedVariant, "unsupported_variant"},
	{ErrUnknownKey, "unknown_key"},
	{ErrDuplicateKey, "duplicate_key"},
	{ErrOutOfRange, "out_of_range"},
	{ErrUnsupportedVersion, "unsupported_version"},
}

// Kind returns a stable label for metrics and logs. Errors outside the
// codec taxonomy map to "other"; nil maps to "".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.label
		}
	}
	return "other"
}
