package codec

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/action"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/instruction"
	"github.com/danmuck/ofwire/internal/protocol/oxm"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tablefeature"
)

// ParseHex accepts plain hex with optional 0x prefix, whitespace, colons
// or dashes between bytes.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':', '-':
			return -1
		}
		return r
	}, s)
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("codec: invalid hex: %w", err)
	}
	return raw, nil
}

// EncodeHex encodes vals back to back and returns lower-case hex.
func EncodeHex(reg *registry.Registry, v protocol.Version, vals ...registry.Value) (string, error) {
	w := buffer.NewWriter(64)
	for _, val := range vals {
		if err := Encode(reg, w, v, val); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(w.Bytes()), nil
}

// decodeAll runs fn over the whole of s and fails on trailing bytes.
func decodeAll[T any](op, class, s string, fn func(*buffer.Reader) (T, error)) (T, error) {
	var zero T
	raw, err := ParseHex(s)
	if err != nil {
		return zero, err
	}
	r := buffer.NewReader(raw)
	out, err := fn(r)
	if err == nil && r.Remaining() != 0 {
		err = protocol.Errorf(op, r.Offset(), protocol.ErrMalformedLength, "%d trailing bytes", r.Remaining())
	}
	record(op, class, len(raw), err)
	if err != nil {
		return zero, err
	}
	return out, nil
}

func DecodeActionsHex(reg *registry.Registry, v protocol.Version, s string) ([]action.Action, error) {
	return decodeAll("decode_actions", registry.ClassAction.String(), s, func(r *buffer.Reader) ([]action.Action, error) {
		return action.DecodeList(r, reg, v)
	})
}

func DecodeInstructionsHex(reg *registry.Registry, v protocol.Version, s string) ([]instruction.Instruction, error) {
	return decodeAll("decode_instructions", registry.ClassInstruction.String(), s, func(r *buffer.Reader) ([]instruction.Instruction, error) {
		return instruction.DecodeList(r, reg, v)
	})
}

// DecodeMatchHex reads one ofp_match.
func DecodeMatchHex(reg *registry.Registry, v protocol.Version, s string) (oxm.Match, error) {
	return decodeAll("decode_match", registry.ClassMatchEntry.String(), s, func(r *buffer.Reader) (oxm.Match, error) {
		return oxm.DecodeMatch(r, reg, v)
	})
}

// DecodeTableFeaturesHex reads consecutive ofp_table_features bodies.
func DecodeTableFeaturesHex(reg *registry.Registry, v protocol.Version, s string) ([]tablefeature.TableFeatures, error) {
	return decodeAll("decode_table_features", registry.ClassTableFeatureProperty.String(), s, func(r *buffer.Reader) ([]tablefeature.TableFeatures, error) {
		out := make([]tablefeature.TableFeatures, 0)
		for r.Remaining() > 0 {
			tf, err := tablefeature.DecodeFeatures(r, reg, v)
			if err != nil {
				return nil, err
			}
			out = append(out, tf)
		}
		return out, nil
	})
}
