package abi

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

var (
	// ErrMalformedHex reports odd-length or non-hex string input.
	ErrMalformedHex = errors.New("abi: malformed hex input")
	// ErrOverflow reports a zero-pad target shorter than the input.
	ErrOverflow = errors.New("abi: value too long to zero-pad")
)

// Arrayify converts bytecode supplied as either a raw []byte or a hex
// string into a byte slice. The 0x prefix is optional and hex digits are
// case-insensitive. Raw byte input is returned as-is, without copying.
func Arrayify(input any) ([]byte, error) {
	switch v := input.(type) {
	case []byte:
		return v, nil
	case string:
		s := strings.TrimPrefix(v, "0x")
		if !strings.HasPrefix(v, "0x") {
			s = strings.TrimPrefix(v, "0X")
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedHex, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: unsupported input type %T", ErrMalformedHex, input)
	}
}

// Hexlify returns the 0x-prefixed lowercase hex encoding of b.
func Hexlify(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// ZeroPad left-pads b with zero bytes to exactly length. The input is
// not modified.
func ZeroPad(b []byte, length int) ([]byte, error) {
	if len(b) > length {
		return nil, fmt.Errorf("%w: %d bytes into %d", ErrOverflow, len(b), length)
	}
	out := make([]byte, length)
	copy(out[length-len(b):], b)
	return out, nil
}

// BytesToInt interprets b as a big-endian unsigned integer. Empty input
// yields 0. PUSH immediates are at most 32 bytes; wider input keeps only
// the trailing 32 bytes. Values beyond 64 bits are truncated, which is
// harmless for the jump offsets this is used on.
func BytesToInt(b []byte) uint64 {
	if len(b) == 0 {
		return 0
	}
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	var x uint256.Int
	x.SetBytes(b)
	return x.Uint64()
}
