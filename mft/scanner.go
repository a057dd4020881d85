package mft

import "iter"

// scanStride is the byte alignment candidate record offsets are assumed to fall on. NTFS packs file records
// back-to-back within the MFT, so in principle only a stride equal to the record size would ever hit a real
// record boundary; a surface scan over a raw image can't assume the $MFT itself starts where expected, so it
// instead strides at the coarsest alignment every NTFS record is guaranteed to respect and lets the signature
// gate in ParseRecordWithSize reject the offsets that don't land on a real record.
const scanStride = 8

// ScanImage strides over image at scanStride-byte offsets from 0 and yields an Entry for every candidate offset
// whose record ParseRecordWithSize decodes (signature gate passed, at least one $FILE_NAME), in ascending offset
// order. It is a plain range-over-func iterator:
// nothing is read until the caller actually ranges over it, and a caller that stops partway (a break, or a
// for-range combined with an early return) leaves the rest of the image untouched and can only resume by
// re-invoking the scan from the start.
//
//	for entry := range mft.ScanImage(image) {
//		if !entry.InUse {
//			continue
//		}
//		...
//	}
func ScanImage(image []byte) iter.Seq[Entry] {
	return ScanImageWithRecordSize(image, DefaultRecordSize)
}

// ScanImageWithRecordSize is ScanImage for a volume whose file record segment size differs from
// DefaultRecordSize (as reported by that volume's boot sector).
func ScanImageWithRecordSize(image []byte, recordSize int) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if recordSize <= 0 {
			return
		}
		for offset := 0; offset+4 <= len(image); offset += scanStride {
			entry, ok := ParseRecordWithSize(image, offset, recordSize)
			if !ok {
				continue
			}
			if !yield(entry) {
				return
			}
		}
	}
}
