package mft_test

import (
	"testing"

	"github.com/scanollie/ntfsmft/mft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttributeNamedResidentAttribute(t *testing.T) {
	input := decodeHex(t, "8000000070000000000518000000050044000000280000002400530052004100540000000000000033ceb8f33800010310000c00040000000100000001000000000000000200000000000000000000000300000001000000000000000000000000000000f4c400000000000000000000")

	attribute, ok := mft.ParseAttribute(input)
	require.True(t, ok)

	expected := mft.Attribute{
		Type:     0x80,
		Resident: true,
		Name:     "$SRAT",
		Data:     decodeHex(t, "33ceb8f33800010310000c00040000000100000001000000000000000200000000000000000000000300000001000000000000000000000000000000f4c400000000000000000000"),
	}
	assert.Equal(t, expected, attribute)
}

func TestParseAttributeNamedNonResidentAttribute(t *testing.T) {
	input := decodeHex(t, "a000000050000000010440000000080000000000000000000200000000000000480000000000000000300000000000000030000000000000003000000000000024004900330030002103081200000000")

	attribute, ok := mft.ParseAttribute(input)
	require.True(t, ok)

	expected := mft.Attribute{
		Type:          0xA0,
		Resident:      false,
		Name:          "$I30",
		ActualSize:    12288,
		AllocatedSize: 12288,
		Data:          []byte{0x21, 0x3, 0x8, 0x12, 0x0, 0x0, 0x0, 0x0},
	}
	assert.Equal(t, expected, attribute)
}

func TestParseAttributeTooShort(t *testing.T) {
	_, ok := mft.ParseAttribute([]byte{1, 2, 3})
	assert.False(t, ok)
}

func TestParseAttributesStopsAtTerminator(t *testing.T) {
	b := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	attrs := mft.ParseAttributes(b)
	assert.Empty(t, attrs)
}

func TestParseAttributesCorruptLengthTerminatesWalk(t *testing.T) {
	// a well-formed attribute followed by one claiming an impossible length
	first := residentAttributeBytes(t, mft.AttributeTypeFileName, []byte{1, 2, 3, 4})
	b := append(append([]byte{}, first...), 0x10, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0x7F)

	attrs := mft.ParseAttributes(b)
	require.Len(t, attrs, 1)
	assert.Equal(t, mft.AttributeTypeFileName, attrs[0].Type)
}

func TestFindAttributes(t *testing.T) {
	attrs := []mft.Attribute{
		{Type: mft.AttributeTypeFileName},
		{Type: mft.AttributeTypeData},
		{Type: mft.AttributeTypeFileName},
	}
	found := mft.FindAttributes(attrs, mft.AttributeTypeFileName)
	assert.Len(t, found, 2)

	assert.Empty(t, mft.FindAttributes(attrs, mft.AttributeTypeObjectId))
}

func TestAttributeTypeName(t *testing.T) {
	assert.Equal(t, "$STANDARD_INFORMATION", mft.AttributeTypeStandardInformation.Name())
	assert.Equal(t, "$FILE_NAME", mft.AttributeTypeFileName.Name())
	assert.Equal(t, "unknown", mft.AttributeType(0x1234).Name())
}

// residentAttributeBytes builds the bytes of a single resident attribute header plus content, as ParseAttribute
// expects to find it (content starting right after a 24-byte header, matching the $FILE_NAME/$DATA layout used
// throughout the record-level tests).
func residentAttributeBytes(t *testing.T, attrType mft.AttributeType, content []byte) []byte {
	t.Helper()
	const headerLen = 24
	b := make([]byte, headerLen+len(content))
	b = putUint32(b, 0x00, uint32(attrType))
	b = putUint32(b, 0x04, uint32(headerLen+len(content)))
	b[0x08] = 0 // resident
	b[0x09] = 0 // name length
	b = putUint32(b, 0x10, uint32(len(content)))
	b = putUint16(b, 0x14, uint16(headerLen))
	copy(b[headerLen:], content)
	return b
}
