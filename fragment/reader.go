// Package fragment presents a list of byte ranges scattered around an underlying stream as one contiguous
// logical stream. Its typical use is reassembling a non-resident NTFS attribute's content from its data runs;
// mft.DataRunsToFragments converts decoded runs into the Fragment values a Reader consumes.
package fragment

import (
	"fmt"
	"io"
)

// Fragment is one extent of the logical stream: Length bytes starting at the absolute byte Offset within the
// underlying stream. Fragments need not appear in ascending Offset order; a heavily fragmented attribute's
// extents regularly jump backwards.
type Fragment struct {
	Offset int64
	Length int64
}

// TotalLength returns the combined length in bytes of all fragments - the size of the logical stream a Reader
// over them will produce.
func TotalLength(fragments []Fragment) int64 {
	var total int64
	for _, f := range fragments {
		total += f.Length
	}
	return total
}

// Reader reads the fragments in list order, seeking the underlying io.ReadSeeker to each fragment's Offset as
// the previous one is exhausted. Because fragments may precede one another in the underlying stream, the
// io.ReadSeeker must support seeking from the start, not just forward. After the last fragment is exhausted,
// every Read returns io.EOF.
//
// A Read near the end of a fragment returns only the bytes left in that fragment, which may be fewer than
// len(p); the next Read moves on to the following fragment. Wrap the Reader in io.ReadFull or bufio.Reader if
// whole-buffer reads are needed.
type Reader struct {
	src       io.ReadSeeker
	fragments []Fragment
	idx       int
	remaining int64
}

// NewReader returns a Reader that presents fragments, in order, as one logical stream over src.
func NewReader(src io.ReadSeeker, fragments []Fragment) *Reader {
	return &Reader{src: src, fragments: fragments, idx: -1, remaining: 0}
}

// advance seeks src to the start of the next fragment. It reports io.EOF once no fragments remain.
func (r *Reader) advance() error {
	r.idx++
	if r.idx >= len(r.fragments) {
		return io.EOF
	}
	next := r.fragments[r.idx]
	seeked, err := r.src.Seek(next.Offset, io.SeekStart)
	if err != nil {
		return fmt.Errorf("unable to seek to fragment at offset %d: %w", next.Offset, err)
	}
	if seeked != next.Offset {
		return fmt.Errorf("wanted to seek to %d but reached %d", next.Offset, seeked)
	}
	r.remaining = next.Length
	return nil
}

func (r *Reader) Read(p []byte) (n int, err error) {
	if r.idx >= len(r.fragments) {
		return 0, io.EOF
	}

	if len(p) == 0 {
		return 0, nil
	}

	if r.remaining == 0 {
		if err := r.advance(); err != nil {
			return 0, err
		}
	}

	target := p
	if int64(len(p)) > r.remaining {
		target = p[:r.remaining]
	}

	n, err = io.ReadFull(r.src, target)
	r.remaining -= int64(n)
	return n, err
}
