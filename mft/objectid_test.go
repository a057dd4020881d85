package mft_test

import (
	"regexp"
	"testing"

	"github.com/scanollie/ntfsmft/mft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var guidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func TestFormatObjectID(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10}
	guid, ok := mft.FormatObjectID(b)
	require.True(t, ok)
	assert.Regexp(t, guidPattern, guid)
	assert.Equal(t, "04030201-0605-0807-090a-0b0c0d0e0f10", guid)
}

func TestFormatObjectIDTooShort(t *testing.T) {
	_, ok := mft.FormatObjectID(make([]byte, 10))
	assert.False(t, ok)
}

func TestParseObjectIDMinimal(t *testing.T) {
	b := make([]byte, 16)
	for i := range b {
		b[i] = byte(i)
	}
	oid, ok := mft.ParseObjectID(b)
	require.True(t, ok)
	assert.Regexp(t, guidPattern, oid.ObjectId)
	assert.Empty(t, oid.BirthVolumeId)
	assert.Empty(t, oid.BirthObjectId)
	assert.Empty(t, oid.DomainId)
}

func TestParseObjectIDWithBirthIds(t *testing.T) {
	b := make([]byte, 64)
	for i := range b {
		b[i] = byte(i)
	}
	oid, ok := mft.ParseObjectID(b)
	require.True(t, ok)
	assert.Regexp(t, guidPattern, oid.ObjectId)
	assert.Regexp(t, guidPattern, oid.BirthVolumeId)
	assert.Regexp(t, guidPattern, oid.BirthObjectId)
	assert.Regexp(t, guidPattern, oid.DomainId)
}
