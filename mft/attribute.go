package mft

import (
	"github.com/scanollie/ntfsmft/binutil"
	"github.com/scanollie/ntfsmft/utf16"
)

// AttributeType represents the type of an Attribute. Use Name() to get the attribute type's name.
type AttributeType uint32

// Known values for AttributeType. Only StandardInformation, AttributeList, FileName, ObjectId, Data, ReparsePoint
// and EAInformation are actually decoded by this package (see the entry assembler in entry.go); the rest are
// recognized for labeling purposes only and are otherwise ignored during a walk, per the attribute header
// walker's contract: an unrecognized type never terminates the walk.
const (
	AttributeTypeStandardInformation AttributeType = 0x10       // $STANDARD_INFORMATION; always resident
	AttributeTypeAttributeList       AttributeType = 0x20       // $ATTRIBUTE_LIST; mixed residency
	AttributeTypeFileName            AttributeType = 0x30       // $FILE_NAME; always resident
	AttributeTypeObjectId            AttributeType = 0x40       // $OBJECT_ID; always resident
	AttributeTypeSecurityDescriptor  AttributeType = 0x50       // $SECURITY_DESCRIPTOR; always resident?
	AttributeTypeVolumeName          AttributeType = 0x60       // $VOLUME_NAME; always resident?
	AttributeTypeVolumeInformation   AttributeType = 0x70       // $VOLUME_INFORMATION; never resident?
	AttributeTypeData                AttributeType = 0x80       // $DATA; mixed residency
	AttributeTypeIndexRoot           AttributeType = 0x90       // $INDEX_ROOT; always resident
	AttributeTypeIndexAllocation     AttributeType = 0xa0       // $INDEX_ALLOCATION; never resident?
	AttributeTypeBitmap              AttributeType = 0xb0       // $BITMAP; nearly always resident?
	AttributeTypeReparsePoint        AttributeType = 0xc0       // $REPARSE_POINT; always resident?
	AttributeTypeEAInformation       AttributeType = 0xd0       // $EA_INFORMATION; always resident
	AttributeTypeEA                  AttributeType = 0xe0       // $EA; nearly always resident?
	AttributeTypePropertySet         AttributeType = 0xf0       // $PROPERTY_SET
	AttributeTypeLoggedUtilityStream AttributeType = 0x100      // $LOGGED_UTILITY_STREAM; always resident
	AttributeTypeTerminator          AttributeType = 0xFFFFFFFF // marks the end of the attribute list
)

// Name returns a string representation of the attribute type, e.g. "$STANDARD_INFORMATION" or "$FILE_NAME". For an
// attribute type that is unknown, Name returns "unknown".
func (at AttributeType) Name() string {
	switch at {
	case AttributeTypeStandardInformation:
		return "$STANDARD_INFORMATION"
	case AttributeTypeAttributeList:
		return "$ATTRIBUTE_LIST"
	case AttributeTypeFileName:
		return "$FILE_NAME"
	case AttributeTypeObjectId:
		return "$OBJECT_ID"
	case AttributeTypeSecurityDescriptor:
		return "$SECURITY_DESCRIPTOR"
	case AttributeTypeVolumeName:
		return "$VOLUME_NAME"
	case AttributeTypeVolumeInformation:
		return "$VOLUME_INFORMATION"
	case AttributeTypeData:
		return "$DATA"
	case AttributeTypeIndexRoot:
		return "$INDEX_ROOT"
	case AttributeTypeIndexAllocation:
		return "$INDEX_ALLOCATION"
	case AttributeTypeBitmap:
		return "$BITMAP"
	case AttributeTypeReparsePoint:
		return "$REPARSE_POINT"
	case AttributeTypeEAInformation:
		return "$EA_INFORMATION"
	case AttributeTypeEA:
		return "$EA"
	case AttributeTypePropertySet:
		return "$PROPERTY_SET"
	case AttributeTypeLoggedUtilityStream:
		return "$LOGGED_UTILITY_STREAM"
	}
	return "unknown"
}

// Attribute is one parsed attribute header plus its raw content, found while walking a record's attribute stream.
// When Resident is true, Data holds the attribute's value directly; when false, Data holds the non-resident
// header's tail (data runs for $DATA, or whatever the attribute-specific layout puts there).
type Attribute struct {
	Type        AttributeType
	Resident    bool
	Name        string
	AttributeId int
	ActualSize  uint64
	// AllocatedSize is the on-disk space reserved for a non-resident attribute's content, always a whole number
	// of clusters; zero for a resident attribute, whose content occupies no clusters of its own.
	AllocatedSize uint64
	Data          []byte
}

// ParseAttributes walks the tagged, length-prefixed attribute stream starting at the beginning of b, stopping at
// the first AttributeTypeTerminator marker, the first structurally invalid header, or when b is exhausted.
// Bounds failures in an attribute's length and zero-length attributes terminate the walk without error: per the
// walker's contract, only attributes already consumed are returned. An attribute whose length is sound but whose
// name or content fails ParseAttribute's bounds checks is skipped, and the walk continues after it.
func ParseAttributes(b []byte) []Attribute {
	attributes := make([]Attribute, 0)
	for len(b) > 0 {
		r := binutil.NewLittleEndianReader(b)
		attrType, ok := r.TryUint32(0)
		if !ok || attrType == uint32(AttributeTypeTerminator) {
			break
		}

		length, ok := r.TryUint32(4)
		if !ok || length == 0 || int64(length) > int64(len(b)) {
			break
		}

		recordData, ok := r.TryRead(0, int(length))
		if !ok {
			break
		}

		if attribute, ok := ParseAttribute(recordData); ok {
			attributes = append(attributes, attribute)
		}
		b = r.ReadFrom(int(length))
	}
	return attributes
}

// ParseAttribute parses the header and content of a single attribute from b, where b contains exactly that
// attribute's bytes (as sliced out by ParseAttributes, or by a caller with its own attribute-length bookkeeping).
// It returns ok=false on any bounds failure, matching the per-attribute soft-failure policy: the caller should
// skip this attribute and continue walking rather than treat it as fatal.
func ParseAttribute(b []byte) (Attribute, bool) {
	r := binutil.NewLittleEndianReader(b)

	nameLength, ok := r.TryByte(0x09)
	if !ok {
		return Attribute{}, false
	}
	nameOffset, ok := r.TryUint16(0x0A)
	if !ok {
		return Attribute{}, false
	}

	name := ""
	if nameLength != 0 {
		nameBytes, ok := r.TryRead(int(nameOffset), int(nameLength)*2)
		if !ok {
			return Attribute{}, false
		}
		name, _ = utf16.DecodeLittleEndianString(nameBytes)
	}

	nonResidentByte, ok := r.TryByte(0x08)
	if !ok {
		return Attribute{}, false
	}
	resident := nonResidentByte == 0x00

	var attributeData []byte
	actualSize := uint64(0)
	allocatedSize := uint64(0)
	if resident {
		dataOffset, ok := r.TryUint16(0x14)
		if !ok {
			return Attribute{}, false
		}
		dataLength, ok := r.TryUint32(0x10)
		if !ok {
			return Attribute{}, false
		}
		attributeData, ok = r.TryRead(int(dataOffset), int(dataLength))
		if !ok {
			return Attribute{}, false
		}
	} else {
		dataOffset, ok := r.TryUint16(0x20)
		if !ok {
			return Attribute{}, false
		}
		actualSize, ok = r.TryUint64(0x30)
		if !ok {
			return Attribute{}, false
		}
		if size, ok := r.TryUint64(0x38); ok {
			allocatedSize = size
		}
		if int(dataOffset) > len(b) {
			return Attribute{}, false
		}
		attributeData = r.ReadFrom(int(dataOffset))
	}

	attrType, ok := r.TryUint32(0)
	if !ok {
		return Attribute{}, false
	}

	return Attribute{
		Type:          AttributeType(attrType),
		Resident:      resident,
		Name:          name,
		AttributeId:   0,
		ActualSize:    actualSize,
		AllocatedSize: allocatedSize,
		Data:          binutil.Duplicate(attributeData),
	}, true
}

// FindAttributes returns every attribute of the given type within attrs, preserving on-disk order.
func FindAttributes(attrs []Attribute, attrType AttributeType) []Attribute {
	found := make([]Attribute, 0)
	for _, a := range attrs {
		if a.Type == attrType {
			found = append(found, a)
		}
	}
	return found
}
