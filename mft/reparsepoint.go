package mft

import (
	"github.com/scanollie/ntfsmft/binutil"
	"github.com/scanollie/ntfsmft/utf16"
)

// Well-known reparse tags. A reparse point whose tag isn't one of these is still reported, just with an empty
// TargetPath, since the target path layout is vendor specific for most non-Microsoft tags.
const (
	ReparseTagSymlink    uint32 = 0xA000000C
	ReparseTagMountPoint uint32 = 0xA0000003
)

// ReparsePoint is the decoded content of a $REPARSE_POINT attribute.
type ReparsePoint struct {
	Tag        uint32
	TargetPath string
}

// ParseReparsePoint decodes a $REPARSE_POINT attribute's content. For ReparseTagSymlink and ReparseTagMountPoint,
// TargetPath holds the substitute name out of the reparse data buffer; for any other tag, TargetPath is empty
// since those buffers follow a vendor-specific layout this package doesn't know how to interpret.
func ParseReparsePoint(b []byte) (ReparsePoint, bool) {
	if len(b) < 8 {
		return ReparsePoint{}, false
	}
	r := binutil.NewLittleEndianReader(b)

	tag, ok := r.TryUint32(0)
	if !ok {
		return ReparsePoint{}, false
	}

	rp := ReparsePoint{Tag: tag}
	if (tag != ReparseTagSymlink && tag != ReparseTagMountPoint) || len(b) < 20 {
		return rp, true
	}

	substituteNameOffset, ok := r.TryUint16(8)
	if !ok {
		return rp, true
	}
	substituteNameLength, ok := r.TryUint16(10)
	if !ok {
		return rp, true
	}

	const pathBufferStart = 20
	nameBytes, ok := r.TryRead(pathBufferStart+int(substituteNameOffset), int(substituteNameLength))
	if !ok {
		return rp, true
	}
	name, err := utf16.DecodeLittleEndianString(nameBytes)
	if err == nil {
		rp.TargetPath = name
	}
	return rp, true
}
