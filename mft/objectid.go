package mft

import "fmt"

// FormatObjectID formats the first 16 bytes of a $OBJECT_ID attribute's content (the object's own GUID) as a
// canonical GUID string. The first three fields are byte-swapped to little-endian the way Windows stores a GUID
// on disk (the final two fields are stored big-endian already), matching how the file system itself prints a
// GUID. FormatObjectID returns ok=false when b is shorter than 16 bytes.
func FormatObjectID(b []byte) (string, bool) {
	if len(b) < 16 {
		return "", false
	}
	return fmt.Sprintf(
		"%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		b[3], b[2], b[1], b[0],
		b[5], b[4],
		b[7], b[6],
		b[8], b[9],
		b[10], b[11], b[12], b[13], b[14], b[15],
	), true
}

// ObjectID is the decoded content of a $OBJECT_ID attribute. BirthVolumeId, BirthObjectId and DomainId are only
// present when the attribute is at least 64 bytes; a record that was never moved across volumes typically has
// none of them.
type ObjectID struct {
	ObjectId      string
	BirthVolumeId string
	BirthObjectId string
	DomainId      string
}

// ParseObjectID decodes a $OBJECT_ID attribute's content.
func ParseObjectID(b []byte) (ObjectID, bool) {
	objectId, ok := FormatObjectID(b)
	if !ok {
		return ObjectID{}, false
	}
	oid := ObjectID{ObjectId: objectId}
	if len(b) >= 64 {
		oid.BirthVolumeId, _ = FormatObjectID(b[16:32])
		oid.BirthObjectId, _ = FormatObjectID(b[32:48])
		oid.DomainId, _ = FormatObjectID(b[48:64])
	}
	return oid, true
}
