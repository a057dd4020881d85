package mft

import (
	"fmt"

	"github.com/scanollie/ntfsmft/binutil"
)

const bytesPerFixupSector = 512

// ApplyFixup reverses the "update sequence array" trick NTFS uses to detect a torn write across sector boundaries:
// the last two bytes of every 512-byte sector in the record are replaced on disk with a sequence number, and the
// two real bytes they displaced are stashed in the update sequence array at updateSequenceOffset. ApplyFixup
// checks that every sector actually ends with that sequence number and then writes the real bytes back, returning
// a new slice; the input is never modified. Core scanning (ParseRecord, ScanImage) does not call this - see
// ParseRecord for what that means for an unfixed record.
func ApplyFixup(record []byte, updateSequenceOffset int, updateSequenceCount int) ([]byte, error) {
	out := binutil.Duplicate(record)
	r := binutil.NewLittleEndianReader(out)

	if updateSequenceCount == 0 {
		return out, nil
	}

	usn, ok := r.TryUint16(updateSequenceOffset)
	if !ok {
		return nil, fmt.Errorf("update sequence number at offset %d is out of bounds", updateSequenceOffset)
	}

	for sector := 0; sector < updateSequenceCount-1; sector++ {
		sectorEnd := (sector+1)*bytesPerFixupSector - 2
		actual, ok := r.TryUint16(sectorEnd)
		if !ok {
			return nil, fmt.Errorf("sector %d fixup position %d is out of bounds", sector, sectorEnd)
		}
		if actual != usn {
			return nil, fmt.Errorf("fixup mismatch in sector %d: expected update sequence number %04x, got %04x", sector, usn, actual)
		}

		replacement, ok := r.TryRead(updateSequenceOffset+2+sector*2, 2)
		if !ok {
			return nil, fmt.Errorf("replacement value %d is out of bounds", sector)
		}
		out[sectorEnd] = replacement[0]
		out[sectorEnd+1] = replacement[1]
	}

	return out, nil
}
