package mft

// DataStream describes one $DATA attribute found on a record: the unnamed stream holds a file's own content,
// while a named stream is an NTFS alternate data stream ("file.txt:secret").
type DataStream struct {
	Name     string
	Resident bool

	// Size is the stream's actual size in bytes, as reported by the attribute (len(content) for a resident
	// stream, the non-resident header's real size for the rest).
	Size uint64

	// AllocatedSize is the on-disk space reserved for the stream - equal to Size for a resident stream, and
	// the non-resident header's allocated size (always a multiple of the cluster size) otherwise.
	AllocatedSize uint64

	// ResidentData holds the stream's content directly when Resident is true.
	ResidentData []byte

	// DataRuns holds the non-resident layout when Resident is false; empty for a resident stream.
	DataRuns []DataRun
}

// dataStreamFromAttribute builds a DataStream from a $DATA attribute already parsed by ParseAttribute.
func dataStreamFromAttribute(a Attribute) DataStream {
	ds := DataStream{Name: a.Name, Resident: a.Resident}
	if a.Resident {
		ds.Size = uint64(len(a.Data))
		ds.AllocatedSize = ds.Size
		ds.ResidentData = a.Data
	} else {
		ds.Size = a.ActualSize
		ds.AllocatedSize = a.AllocatedSize
		ds.DataRuns = ParseDataRuns(a.Data)
	}
	return ds
}
