package mft

import "github.com/scanollie/ntfsmft/binutil"

// DefaultRecordSize is the record size assumed by ParseRecord and ScanImage: 1024 bytes, the size used by every
// NTFS volume formatted since Windows XP. A volume with a non-standard record size (reported by its boot sector)
// should use ParseRecordWithSize / ScanImageWithRecordSize instead.
const DefaultRecordSize = 1024

// recordSignature is the 4-byte magic every valid file record starts with ("FILE"). A record whose first four
// bytes don't match this is not a file record at all - most commonly a record slot that was always empty, or one
// whose sector was never committed to disk.
var recordSignature = [4]byte{'F', 'I', 'L', 'E'}

// RecordFlag holds the bitfield at a file record header's flags field.
type RecordFlag uint16

// Known values for RecordFlag.
const (
	RecordFlagInUse       RecordFlag = 0x0001
	RecordFlagIsDirectory RecordFlag = 0x0002
)

// Is reports whether every bit set in flag is also set in rf.
func (rf RecordFlag) Is(flag RecordFlag) bool {
	return rf&flag == flag
}

// AlternateFilename is one of a record's non-canonical $FILE_NAME attributes - for example the short 8.3 DOS
// name paired with a long Win32 name.
type AlternateFilename struct {
	Name      string
	Namespace FileNamespace
}

// Entry is a single file record, fully decoded: its identity, its canonical name, every attribute this package
// recognizes, and the data streams it carries. It is what ScanImage and ParseRecord hand back for every record
// that passes the signature gate and carries at least one decodable $FILE_NAME, whether or not it's currently in
// use.
type Entry struct {
	// Offset is the byte offset within the scanned image where this record was found - the position ScanImage
	// was iterating over when the signature gate passed, not anything read from the record itself.
	Offset int

	RecordNumber   uint64
	SequenceNumber uint16
	HardLinkCount  uint16
	InUse          bool
	IsDirectory    bool

	// BaseRecordReference is the base record this record is an extension of, or a zero-value FileReference
	// (RecordNumber 0) when this record is itself a base record.
	BaseRecordReference FileReference

	// ParentDirectory, Name and Namespace come from the canonical $FILE_NAME attribute, selected per
	// selectCanonicalFileName. Alternates holds every other $FILE_NAME attribute on the record.
	ParentDirectory FileReference
	Name            string
	Namespace       FileNamespace
	Alternates      []AlternateFilename

	// AllocatedSize and RealSize are the file sizes recorded on the canonical $FILE_NAME attribute. $FILE_NAME
	// sizes are only reliably updated when the file's name changes, so for an in-use file the unnamed $DATA
	// stream's DataStream.Size is usually the fresher number.
	AllocatedSize uint64
	RealSize      uint64

	// FileAttributes mirrors StandardInformation's flags field for convenience; zero when StandardInformation
	// is absent, since $FILE_NAME carries no flags of its own.
	FileAttributes FileAttribute

	// StandardInformation is nil when the record has no $STANDARD_INFORMATION attribute, or when that
	// attribute's timestamps did not all decode - see ParseStandardInformation.
	StandardInformation *StandardInformation

	// ObjectID is nil when the record has no $OBJECT_ID attribute.
	ObjectID *ObjectID

	// ReparsePoint is nil when the record has no $REPARSE_POINT attribute.
	ReparsePoint *ReparsePoint

	// HasEAInformation reports whether the record carries an $EA_INFORMATION attribute (extended attributes
	// present). The extended attribute values themselves are not decoded.
	HasEAInformation bool

	// DataStreams holds every $DATA attribute on the record, in the order they appear on disk.
	DataStreams []DataStream

	// AttributeList holds every entry of the record's $ATTRIBUTE_LIST attribute, if any: pointers to attributes
	// that live on extension records because this record ran out of room for them. The record assembler does
	// not follow these references itself - resolving them means parsing another record elsewhere in the image,
	// which is the caller's concern, not the core decoder's.
	AttributeList []AttributeListEntry
}

// ParseRecord parses the DefaultRecordSize bytes of image starting at offset into an Entry. It returns ok=false
// when those bytes don't form a valid record: too short a slice, a signature mismatch, a record header that
// fails its own internal bounds checks, or no decodable $FILE_NAME attribute. Fixup is deliberately not applied
// (ApplyFixup is the separate step that does it), so a record split across multiple physical sectors may have
// corrupted trailing bytes in its attribute stream; the attribute walker's soft-failure policy means this drops
// the affected attributes or truncates that record's attribute list rather than rejecting the record outright.
func ParseRecord(image []byte, offset int) (Entry, bool) {
	return ParseRecordWithSize(image, offset, DefaultRecordSize)
}

// ParseRecordWithSize is ParseRecord for a volume whose file record segment size differs from
// DefaultRecordSize (reported by that volume's boot sector as FileRecordSegmentSizeInBytes).
func ParseRecordWithSize(image []byte, offset int, recordSize int) (Entry, bool) {
	if offset < 0 || recordSize <= 0 || offset+recordSize > len(image) {
		return Entry{}, false
	}
	record := image[offset : offset+recordSize]
	r := binutil.NewLittleEndianReader(record)

	sig, ok := r.TryRead(0, 4)
	if !ok || [4]byte{sig[0], sig[1], sig[2], sig[3]} != recordSignature {
		return Entry{}, false
	}

	flags, ok := r.TryUint16(0x16)
	if !ok {
		return Entry{}, false
	}
	recordFlags := RecordFlag(flags)

	baseRecordRaw, ok := r.TryRead(0x20, 8)
	if !ok {
		return Entry{}, false
	}
	baseRecord, err := ParseFileReference(baseRecordRaw)
	if err != nil {
		return Entry{}, false
	}

	sequenceNumber, ok := r.TryUint16(0x10)
	if !ok {
		return Entry{}, false
	}

	hardLinkCount, ok := r.TryUint16(0x12)
	if !ok {
		return Entry{}, false
	}

	attributesOffset, ok := r.TryUint16(0x14)
	if !ok {
		return Entry{}, false
	}
	attributeBytes, ok := r.TryRead(int(attributesOffset), len(record)-int(attributesOffset))
	if !ok {
		return Entry{}, false
	}

	mftRecordNumber, ok := r.TryUint32(0x2C)
	if !ok {
		return Entry{}, false
	}

	attrs := ParseAttributes(attributeBytes)

	entry := Entry{
		Offset:              offset,
		RecordNumber:        uint64(mftRecordNumber),
		SequenceNumber:      sequenceNumber,
		HardLinkCount:       hardLinkCount,
		InUse:               recordFlags.Is(RecordFlagInUse),
		IsDirectory:         recordFlags.Is(RecordFlagIsDirectory),
		BaseRecordReference: baseRecord,
	}

	fileNames := make([]FileName, 0, 1)
	for _, a := range attrs {
		switch a.Type {
		case AttributeTypeStandardInformation:
			if entry.StandardInformation == nil {
				if si, ok := ParseStandardInformation(a.Data); ok {
					entry.StandardInformation = &si
				}
			}
		case AttributeTypeFileName:
			if fn, ok := ParseFileName(a.Data); ok {
				fileNames = append(fileNames, fn)
			}
		case AttributeTypeObjectId:
			if entry.ObjectID == nil {
				if oid, ok := ParseObjectID(a.Data); ok {
					entry.ObjectID = &oid
				}
			}
		case AttributeTypeReparsePoint:
			if entry.ReparsePoint == nil {
				if rp, ok := ParseReparsePoint(a.Data); ok {
					entry.ReparsePoint = &rp
				}
			}
		case AttributeTypeEAInformation:
			entry.HasEAInformation = true
		case AttributeTypeData:
			entry.DataStreams = append(entry.DataStreams, dataStreamFromAttribute(a))
		case AttributeTypeAttributeList:
			entry.AttributeList = append(entry.AttributeList, ParseAttributeList(a.Data)...)
		}
	}

	canonical, alternates, ok := selectCanonicalFileName(fileNames)
	if !ok {
		return Entry{}, false
	}
	entry.ParentDirectory = canonical.ParentDirectory
	entry.Name = canonical.Name
	entry.Namespace = canonical.Namespace
	entry.Alternates = alternates
	entry.AllocatedSize = canonical.AllocatedSize
	entry.RealSize = canonical.RealSize
	if entry.StandardInformation != nil {
		entry.FileAttributes = entry.StandardInformation.FileAttributes
	}

	return entry, true
}
