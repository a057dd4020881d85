package mft

import (
	"github.com/scanollie/ntfsmft/binutil"
	"github.com/scanollie/ntfsmft/utf16"
)

// FileNamespace identifies which of NTFS's parallel naming conventions a FileName was recorded under.
type FileNamespace byte

// Known values for FileNamespace.
const (
	FileNamespacePosix       FileNamespace = 0
	FileNamespaceWin32       FileNamespace = 1
	FileNamespaceDos         FileNamespace = 2
	FileNamespaceWin32AndDos FileNamespace = 3
)

// FileName is the decoded content of a single $FILE_NAME attribute. A record may carry more than one of these,
// one per namespace/hard link; AlternateFilename (in entry.go) is what a caller sees once Entry has picked the
// canonical one for display.
type FileName struct {
	ParentDirectory FileReference
	AllocatedSize   uint64
	RealSize        uint64
	Namespace       FileNamespace
	Name            string
}

// ParseFileName decodes a $FILE_NAME attribute's content.
func ParseFileName(b []byte) (FileName, bool) {
	if len(b) < 0x42 {
		return FileName{}, false
	}
	r := binutil.NewLittleEndianReader(b)

	parentRaw, ok := r.TryRead(0x00, 8)
	if !ok {
		return FileName{}, false
	}
	parent, err := ParseFileReference(parentRaw)
	if err != nil {
		return FileName{}, false
	}

	allocatedSize, ok := r.TryUint64(0x28)
	if !ok {
		return FileName{}, false
	}
	realSize, ok := r.TryUint64(0x30)
	if !ok {
		return FileName{}, false
	}

	nameLength, ok := r.TryByte(0x40)
	if !ok {
		return FileName{}, false
	}
	namespace, ok := r.TryByte(0x41)
	if !ok {
		return FileName{}, false
	}

	nameBytes, ok := r.TryRead(0x42, int(nameLength)*2)
	if !ok {
		return FileName{}, false
	}
	name, err := utf16.DecodeLittleEndianString(nameBytes)
	if err != nil {
		return FileName{}, false
	}

	return FileName{
		ParentDirectory: parent,
		AllocatedSize:   allocatedSize,
		RealSize:        realSize,
		Namespace:       FileNamespace(namespace),
		Name:            name,
	}, true
}

// canonicalNamespacePriority orders namespaces by preference when picking the canonical name for an entry:
// Win32 and Win32&DOS names share top priority (a record's long name, however it happens to be flagged), then
// POSIX, then a DOS-only short name (8.3, paired with a separate Win32 FileName on the same record) last. Ties
// within a class are broken by on-disk order, not by this function.
func canonicalNamespacePriority(ns FileNamespace) int {
	switch ns {
	case FileNamespaceWin32, FileNamespaceWin32AndDos:
		return 0
	case FileNamespacePosix:
		return 1
	default:
		return 2
	}
}

// selectCanonicalFileName picks the display name for a record out of all of its parsed $FILE_NAME attributes,
// preferring Win32/Win32&DOS over POSIX over whatever appeared first on disk, and returns the rest as
// alternate filenames in their original order. It returns ok=false when names is empty.
func selectCanonicalFileName(names []FileName) (canonical FileName, alternates []AlternateFilename, ok bool) {
	if len(names) == 0 {
		return FileName{}, nil, false
	}

	best := 0
	for i := 1; i < len(names); i++ {
		if canonicalNamespacePriority(names[i].Namespace) < canonicalNamespacePriority(names[best].Namespace) {
			best = i
		}
	}

	alternates = make([]AlternateFilename, 0, len(names)-1)
	for i, fn := range names {
		if i == best {
			continue
		}
		alternates = append(alternates, AlternateFilename{Name: fn.Name, Namespace: fn.Namespace})
	}

	return names[best], alternates, true
}
