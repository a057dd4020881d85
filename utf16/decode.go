// Package utf16 decodes the UTF-16 byte runs NTFS stores its strings in (file names, attribute names, reparse
// targets) into Go strings.
package utf16

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// DecodeString converts b, a sequence of UTF-16 code units in the given byte order, into a string. An odd
// number of input bytes is an error, since it cannot be a whole number of code units. Unpaired surrogates are
// replaced with U+FFFD rather than rejected; on-disk names containing them are legal in the POSIX namespace.
func DecodeString(b []byte, bo binary.ByteOrder) (string, error) {
	if len(b)%2 != 0 {
		return "", fmt.Errorf("length %d is not a whole number of UTF-16 code units", len(b))
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = bo.Uint16(b[i*2:])
	}
	return string(utf16.Decode(units)), nil
}

// DecodeLittleEndianString is DecodeString with binary.LittleEndian, the byte order NTFS itself uses for every
// string it stores.
func DecodeLittleEndianString(b []byte) (string, error) {
	return DecodeString(b, binary.LittleEndian)
}
