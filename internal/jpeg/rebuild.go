package jpeg

import (
	"bytes"
	"fmt"

	"github.com/simonhull/jpegcaption/internal/binary"
	"github.com/simonhull/jpegcaption/internal/types"
)

// Rebuild returns a new stream in which seg is replaced by a segment with
// the same marker carrying payload. Everything outside seg is copied
// unchanged. original is never modified.
func Rebuild(original []byte, seg Segment, payload []byte) ([]byte, error) {
	if seg.Offset < 2 || seg.Length < 2 || seg.End() > len(original) {
		return nil, &types.MalformedImageError{
			Offset: int64(seg.Offset),
			Reason: fmt.Sprintf("%s segment [%d, %d) outside stream of %d bytes", seg.Marker.Name(), seg.Offset, seg.End(), len(original)),
		}
	}
	return splice(original, seg.Offset, seg.End(), seg.Marker, payload)
}

// Insert returns a new stream with a marker segment carrying payload placed
// at offset at. original is never modified.
func Insert(original []byte, at int, marker Marker, payload []byte) ([]byte, error) {
	if at < 2 || at > len(original) {
		return nil, &types.MalformedImageError{
			Offset: int64(at),
			Reason: fmt.Sprintf("insertion point outside stream of %d bytes", len(original)),
		}
	}
	return splice(original, at, at, marker, payload)
}

// splice writes original[:from], the new segment, then original[to:].
func splice(original []byte, from, to int, marker Marker, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, &types.SegmentOverflowError{Marker: marker.Name(), Size: len(payload)}
	}

	var buf bytes.Buffer
	buf.Grow(len(original) - (to - from) + 4 + len(payload))

	// Writes to a bytes.Buffer cannot fail.
	sw := binary.NewSafeWriter(&buf)
	_ = sw.WriteBytes(original[:from])
	_ = sw.WriteBytes([]byte{0xFF, byte(marker)})
	_ = binary.Write(sw, uint16(len(payload)+2))
	_ = sw.WriteBytes(payload)
	_ = sw.WriteBytes(original[to:])

	return buf.Bytes(), nil
}
