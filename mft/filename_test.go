package mft_test

import (
	"testing"

	"github.com/scanollie/ntfsmft/mft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileNameAttributeContent(t *testing.T, parent mft.FileReference, allocated, real uint64, namespace mft.FileNamespace, name string) []byte {
	t.Helper()
	nameBytes := utf16le(name)
	b := make([]byte, 0x42+len(nameBytes))
	parentRaw := uint64(parent.RecordNumber) | uint64(parent.SequenceNumber)<<48
	b = putUint64(b, 0x00, parentRaw)
	b = putUint64(b, 0x28, allocated)
	b = putUint64(b, 0x30, real)
	b[0x40] = byte(len(name))
	b[0x41] = byte(namespace)
	copy(b[0x42:], nameBytes)
	return b
}

func TestParseFileName(t *testing.T) {
	content := fileNameAttributeContent(t, mft.FileReference{RecordNumber: 616674, SequenceNumber: 4}, 106496, 104490, mft.FileNamespaceWin32AndDos, "logo-250.png")

	fn, ok := mft.ParseFileName(content)
	require.True(t, ok)

	expected := mft.FileName{
		ParentDirectory: mft.FileReference{RecordNumber: 616674, SequenceNumber: 4},
		AllocatedSize:   106496,
		RealSize:        104490,
		Namespace:       mft.FileNamespaceWin32AndDos,
		Name:            "logo-250.png",
	}
	assert.Equal(t, expected, fn)
}

func TestParseFileNameTooShort(t *testing.T) {
	_, ok := mft.ParseFileName(make([]byte, 10))
	assert.False(t, ok)
}

func TestParseFileNameTruncatedName(t *testing.T) {
	content := fileNameAttributeContent(t, mft.FileReference{}, 0, 0, mft.FileNamespacePosix, "readme.txt")
	truncated := content[:len(content)-4]
	_, ok := mft.ParseFileName(truncated)
	assert.False(t, ok)
}
