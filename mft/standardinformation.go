package mft

import (
	"time"

	"github.com/scanollie/ntfsmft/binutil"
)

// FileAttribute is the raw Windows file attribute bitmask as stored in $STANDARD_INFORMATION and $FILE_NAME.
type FileAttribute uint32

// Known bits of FileAttribute.
const (
	FileAttributeReadOnly          FileAttribute = 0x00000001
	FileAttributeHidden            FileAttribute = 0x00000002
	FileAttributeSystem            FileAttribute = 0x00000004
	FileAttributeDirectory         FileAttribute = 0x00000010
	FileAttributeArchive           FileAttribute = 0x00000020
	FileAttributeDevice            FileAttribute = 0x00000040
	FileAttributeNormal            FileAttribute = 0x00000080
	FileAttributeTemporary         FileAttribute = 0x00000100
	FileAttributeSparseFile        FileAttribute = 0x00000200
	FileAttributeReparsePoint      FileAttribute = 0x00000400
	FileAttributeCompressed        FileAttribute = 0x00000800
	FileAttributeOffline           FileAttribute = 0x00001000
	FileAttributeNotContentIndexed FileAttribute = 0x00002000
	FileAttributeEncrypted         FileAttribute = 0x00004000
)

// Is reports whether every bit set in flag is also set in fa.
func (fa FileAttribute) Is(flag FileAttribute) bool {
	return fa&flag == flag
}

// FileAttributes is the decoded form of FileAttribute: one named boolean per recognized bit, for callers that
// would rather range over named fields than test bitmasks.
type FileAttributes struct {
	ReadOnly          bool
	Hidden            bool
	System            bool
	Directory         bool
	Archive           bool
	Device            bool
	Normal            bool
	Temporary         bool
	SparseFile        bool
	ReparsePoint      bool
	Compressed        bool
	Offline           bool
	NotContentIndexed bool
	Encrypted         bool
}

// Flags decodes fa into a FileAttributes struct of named booleans.
func (fa FileAttribute) Flags() FileAttributes {
	return FileAttributes{
		ReadOnly:          fa.Is(FileAttributeReadOnly),
		Hidden:            fa.Is(FileAttributeHidden),
		System:            fa.Is(FileAttributeSystem),
		Directory:         fa.Is(FileAttributeDirectory),
		Archive:           fa.Is(FileAttributeArchive),
		Device:            fa.Is(FileAttributeDevice),
		Normal:            fa.Is(FileAttributeNormal),
		Temporary:         fa.Is(FileAttributeTemporary),
		SparseFile:        fa.Is(FileAttributeSparseFile),
		ReparsePoint:      fa.Is(FileAttributeReparsePoint),
		Compressed:        fa.Is(FileAttributeCompressed),
		Offline:           fa.Is(FileAttributeOffline),
		NotContentIndexed: fa.Is(FileAttributeNotContentIndexed),
		Encrypted:         fa.Is(FileAttributeEncrypted),
	}
}

// filetimeEpochOffsetSeconds is the number of seconds between the FILETIME epoch (1601-01-01 UTC) and the Unix
// epoch (1970-01-01 UTC).
const filetimeEpochOffsetSeconds = 11644473600

// ConvertFileTime converts a Windows FILETIME (100-nanosecond ticks since 1601-01-01 UTC) to a time.Time. A ft of
// zero, or one that converts outside the year range 1601-9999, is not a real timestamp and ConvertFileTime
// returns ok=false for it rather than a nonsensical time.
func ConvertFileTime(ft uint64) (t time.Time, ok bool) {
	if ft == 0 {
		return time.Time{}, false
	}
	seconds := int64(ft/10_000_000) - filetimeEpochOffsetSeconds
	nanos := int64(ft%10_000_000) * 100
	t = time.Unix(seconds, nanos).UTC()
	if t.Year() < 1601 || t.Year() > 9999 {
		return time.Time{}, false
	}
	return t, true
}

// StandardInformation is the decoded content of a $STANDARD_INFORMATION attribute.
type StandardInformation struct {
	Creation             time.Time
	FileLastModified     time.Time
	MftLastModified      time.Time
	LastAccess           time.Time
	FileAttributes       FileAttribute
	OwnerId              uint32
	SecurityId           uint32
	UpdateSequenceNumber uint64
}

// ParseStandardInformation decodes a $STANDARD_INFORMATION attribute's content. The four timestamps must each be
// present and representable (see ConvertFileTime); if any one of them is absent, ParseStandardInformation returns
// ok=false and discards the whole attribute rather than reporting partial timestamps, mirroring the strict
// all-or-nothing behavior of the tool this format was reverse engineered from.
func ParseStandardInformation(b []byte) (StandardInformation, bool) {
	if len(b) < 0x30 {
		return StandardInformation{}, false
	}
	r := binutil.NewLittleEndianReader(b)

	creationTicks, ok := r.TryUint64(0x00)
	if !ok {
		return StandardInformation{}, false
	}
	modifiedTicks, ok := r.TryUint64(0x08)
	if !ok {
		return StandardInformation{}, false
	}
	mftModifiedTicks, ok := r.TryUint64(0x10)
	if !ok {
		return StandardInformation{}, false
	}
	accessedTicks, ok := r.TryUint64(0x18)
	if !ok {
		return StandardInformation{}, false
	}

	creation, ok := ConvertFileTime(creationTicks)
	if !ok {
		return StandardInformation{}, false
	}
	modified, ok := ConvertFileTime(modifiedTicks)
	if !ok {
		return StandardInformation{}, false
	}
	mftModified, ok := ConvertFileTime(mftModifiedTicks)
	if !ok {
		return StandardInformation{}, false
	}
	accessed, ok := ConvertFileTime(accessedTicks)
	if !ok {
		return StandardInformation{}, false
	}

	fileAttributes, ok := r.TryUint32(0x20)
	if !ok {
		return StandardInformation{}, false
	}

	si := StandardInformation{
		Creation:         creation,
		FileLastModified: modified,
		MftLastModified:  mftModified,
		LastAccess:       accessed,
		FileAttributes:   FileAttribute(fileAttributes),
	}

	if ownerId, ok := r.TryUint32(0x30); ok {
		si.OwnerId = ownerId
	}
	if securityId, ok := r.TryUint32(0x34); ok {
		si.SecurityId = securityId
	}
	if usn, ok := r.TryUint64(0x40); ok {
		si.UpdateSequenceNumber = usn
	}

	return si, true
}
