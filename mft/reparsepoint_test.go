package mft_test

import (
	"testing"

	"github.com/scanollie/ntfsmft/mft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReparsePointSymlink(t *testing.T) {
	target := utf16le(`C:\Users\Public`)
	b := make([]byte, 20+len(target))
	b = putUint32(b, 0, mft.ReparseTagSymlink)
	b = putUint16(b, 8, 0)                  // substitute name offset
	b = putUint16(b, 10, uint16(len(target))) // substitute name length
	copy(b[20:], target)

	rp, ok := mft.ParseReparsePoint(b)
	require.True(t, ok)
	assert.Equal(t, mft.ReparseTagSymlink, rp.Tag)
	assert.Equal(t, `C:\Users\Public`, rp.TargetPath)
}

func TestParseReparsePointJunction(t *testing.T) {
	target := utf16le(`\??\C:\mnt`)
	b := make([]byte, 20+len(target))
	b = putUint32(b, 0, mft.ReparseTagMountPoint)
	b = putUint16(b, 8, 0)
	b = putUint16(b, 10, uint16(len(target)))
	copy(b[20:], target)

	rp, ok := mft.ParseReparsePoint(b)
	require.True(t, ok)
	assert.Equal(t, mft.ReparseTagMountPoint, rp.Tag)
	assert.Equal(t, `\??\C:\mnt`, rp.TargetPath)
}

func TestParseReparsePointUnknownTagHasNoTarget(t *testing.T) {
	b := make([]byte, 8)
	b = putUint32(b, 0, 0x12345678)

	rp, ok := mft.ParseReparsePoint(b)
	require.True(t, ok)
	assert.Equal(t, uint32(0x12345678), rp.Tag)
	assert.Empty(t, rp.TargetPath)
}

func TestParseReparsePointTooShort(t *testing.T) {
	_, ok := mft.ParseReparsePoint([]byte{1, 2, 3})
	assert.False(t, ok)
}
