package mft

import (
	"github.com/scanollie/ntfsmft/binutil"
	"github.com/scanollie/ntfsmft/fragment"
)

// DataRun is one entry of a non-resident attribute's data run list: ClusterCount consecutive clusters starting
// at the absolute logical cluster number ClusterOffset (or, for a sparse run, no clusters on disk at all).
type DataRun struct {
	// ClusterOffset is the absolute LCN this run starts at - the cumulative sum of every signed delta decoded
	// up to and including this run, not the delta itself. A sparse run (no space allocated on disk) is signaled
	// on the wire by an offset field width of zero; its delta contributes 0 to the running sum, so
	// ClusterOffset equals whatever the current LCN already was (0 if this is the first run).
	ClusterOffset int64
	ClusterCount  uint64
	Sparse        bool
}

// ParseDataRuns decodes a non-resident attribute's data run stream: a sequence of headers (one nibble giving the
// byte width of the following cluster-count field, the other nibble giving the byte width of the following
// signed cluster-offset delta), terminated by a zero header byte. A width of zero for the offset field marks a
// sparse run, contributing no delta. Offsets are sign-extended from their stored width: a run can move the
// current LCN backwards after a heavily fragmented extent. Each emitted run's ClusterOffset is the running LCN
// total after applying that run's delta, not the delta on its own. ParseDataRuns stops, returning what it has
// decoded so far, at the first malformed header or truncated field rather than failing the whole attribute.
func ParseDataRuns(b []byte) []DataRun {
	runs := make([]DataRun, 0)
	r := binutil.NewLittleEndianReader(b)
	offset := 0
	lcn := int64(0)

	for {
		header, ok := r.TryByte(offset)
		if !ok || header == 0 {
			break
		}
		offset++

		lengthFieldBytes := int(header & 0x0F)
		offsetFieldBytes := int((header >> 4) & 0x0F)

		if lengthFieldBytes == 0 || lengthFieldBytes > 8 || offsetFieldBytes > 8 {
			break
		}

		lengthBytes, ok := r.TryRead(offset, lengthFieldBytes)
		if !ok {
			break
		}
		length := bytesToUint64LE(lengthBytes)
		offset += lengthFieldBytes

		sparse := offsetFieldBytes == 0
		if !sparse {
			offsetBytes, ok := r.TryRead(offset, offsetFieldBytes)
			if !ok {
				break
			}
			lcn += signExtend(offsetBytes)
			offset += offsetFieldBytes
		}

		runs = append(runs, DataRun{ClusterOffset: lcn, ClusterCount: length, Sparse: sparse})
	}

	return runs
}

func bytesToUint64LE(b []byte) uint64 {
	var v uint64
	for i, by := range b {
		v |= uint64(by) << (8 * uint(i))
	}
	return v
}

// signExtend interprets b as a little-endian two's complement integer of its own width and sign-extends it to
// int64, matching the on-disk encoding of a data run's cluster offset delta.
func signExtend(b []byte) int64 {
	v := bytesToUint64LE(b)
	bits := uint(len(b)) * 8
	if bits < 64 && v&(1<<(bits-1)) != 0 {
		v |= ^uint64(0) << bits
	}
	return int64(v)
}

// DataRunsToFragments converts a sequence of data runs (each already carrying its absolute logical cluster
// number, per DataRun.ClusterOffset) into absolute byte-offset fragments suitable for fragment.Reader. Sparse
// runs are omitted entirely: there is nothing on disk to read for them.
func DataRunsToFragments(runs []DataRun, bytesPerCluster int) []fragment.Fragment {
	fragments := make([]fragment.Fragment, 0, len(runs))
	for _, run := range runs {
		if run.Sparse {
			continue
		}
		fragments = append(fragments, fragment.Fragment{
			Offset: run.ClusterOffset * int64(bytesPerCluster),
			Length: int64(run.ClusterCount) * int64(bytesPerCluster),
		})
	}
	return fragments
}
