package mft_test

import (
	"testing"

	"github.com/scanollie/ntfsmft/mft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFixupPatchesSectorTrailers(t *testing.T) {
	record := make([]byte, 1024)
	const usn = 0x0007
	record[0x1FE] = byte(usn)
	record[0x1FF] = byte(usn >> 8)
	record[0x3FE] = byte(usn)
	record[0x3FF] = byte(usn >> 8)

	record = putUint16(record, 0x30, usn)
	// original bytes the update sequence array stashed away, per sector
	record = putUint16(record, 0x32, 0xAAAA)
	record = putUint16(record, 0x34, 0xBBBB)

	out, err := mft.ApplyFixup(record, 0x30, 3)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAA), out[0x1FE])
	assert.Equal(t, byte(0xAA), out[0x1FF])
	assert.Equal(t, byte(0xBB), out[0x3FE])
	assert.Equal(t, byte(0xBB), out[0x3FF])

	// original record is left untouched
	assert.Equal(t, byte(usn), record[0x1FE])
}

func TestApplyFixupMismatchIsError(t *testing.T) {
	record := make([]byte, 1024)
	record = putUint16(record, 0x30, 0x0007)
	record[0x1FE] = 0x99
	record[0x1FF] = 0x99

	_, err := mft.ApplyFixup(record, 0x30, 2)
	assert.Error(t, err)
}

func TestApplyFixupZeroCount(t *testing.T) {
	record := []byte{1, 2, 3, 4}
	out, err := mft.ApplyFixup(record, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, record, out)
}
