package mft

import (
	"github.com/scanollie/ntfsmft/binutil"
	"github.com/scanollie/ntfsmft/utf16"
)

// AttributeListEntry is one entry of a $ATTRIBUTE_LIST attribute: a pointer to an attribute that actually lives
// on a different (extension) record than the one the list itself is attached to. Large or heavily-fragmented
// files spill attributes - most often additional $DATA runs - into extension records this way once a single
// record can no longer hold them all.
type AttributeListEntry struct {
	Type                AttributeType
	Name                string
	BaseRecordReference FileReference
}

// ParseAttributeList decodes a $ATTRIBUTE_LIST attribute's content.
func ParseAttributeList(b []byte) []AttributeListEntry {
	entries := make([]AttributeListEntry, 0)
	r := binutil.NewLittleEndianReader(b)
	offset := 0

	for offset < len(b) {
		er := r.ReaderFrom(offset)

		entryLength, ok := er.TryUint16(0x04)
		if !ok || entryLength == 0 || int(entryLength) > len(b)-offset {
			break
		}
		attrType, ok := er.TryUint32(0x00)
		if !ok {
			break
		}
		nameLength, ok := er.TryByte(0x06)
		if !ok {
			break
		}
		nameOffset, ok := er.TryByte(0x07)
		if !ok {
			break
		}
		baseRecordRaw, ok := er.TryRead(0x08, 8)
		if !ok {
			break
		}
		baseRecord, err := ParseFileReference(baseRecordRaw)
		if err != nil {
			break
		}

		name := ""
		if nameLength != 0 {
			nameBytes, ok := er.TryRead(int(nameOffset), int(nameLength)*2)
			if ok {
				name, _ = utf16.DecodeLittleEndianString(nameBytes)
			}
		}

		entries = append(entries, AttributeListEntry{
			Type:                AttributeType(attrType),
			Name:                name,
			BaseRecordReference: baseRecord,
		})

		offset += int(entryLength)
	}

	return entries
}
