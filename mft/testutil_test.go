package mft_test

import (
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.Nilf(t, err, "unable to convert input hex to []byte: %v", err)
	return b
}

// putUint16/putUint64 write little-endian values into b at offset, growing b if necessary, and return the
// (possibly reallocated) slice - used by the record-builder helpers below to lay out synthetic MFT records
// field by field the way the decoders expect to find them.
func putUint16(b []byte, offset int, v uint16) []byte {
	b = ensureLen(b, offset+2)
	binary.LittleEndian.PutUint16(b[offset:], v)
	return b
}

func putUint32(b []byte, offset int, v uint32) []byte {
	b = ensureLen(b, offset+4)
	binary.LittleEndian.PutUint32(b[offset:], v)
	return b
}

func putUint64(b []byte, offset int, v uint64) []byte {
	b = ensureLen(b, offset+8)
	binary.LittleEndian.PutUint64(b[offset:], v)
	return b
}

func putBytes(b []byte, offset int, data []byte) []byte {
	b = ensureLen(b, offset+len(data))
	copy(b[offset:], data)
	return b
}

func ensureLen(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	grown := make([]byte, n)
	copy(grown, b)
	return grown
}

// utf16le encodes s as UTF-16LE bytes, assuming s contains only BMP characters (true of every name used in
// these tests).
func utf16le(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		out = append(out, byte(r), byte(r>>8))
	}
	return out
}
