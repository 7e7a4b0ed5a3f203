package jpeg

import (
	"bytes"
	"fmt"

	"github.com/simonhull/jpegcaption/internal/binary"
	"github.com/simonhull/jpegcaption/internal/types"
)

// Segment is a length-carrying marker segment inside a JPEG stream.
type Segment struct {
	Marker Marker
	Offset int // index of the 0xFF immediately preceding the marker code
	Length int // declared length: the two length bytes plus the payload
}

// PayloadOffset returns the index of the first payload byte.
func (s Segment) PayloadOffset() int {
	return s.Offset + 4
}

// End returns the index one past the last payload byte.
func (s Segment) End() int {
	return s.Offset + 2 + s.Length
}

// Payload returns the segment's payload within data. The result aliases data.
func (s Segment) Payload(data []byte) []byte {
	return data[s.PayloadOffset():s.End()]
}

// Locate finds the first Exif APP1 segment in data.
//
// The walk stops at SOS or EOI, since no metadata segment can follow them,
// or at the end of the buffer. APP1 segments carrying other payloads (XMP)
// are skipped. Returns false when no Exif segment exists.
func Locate(data []byte) (Segment, bool, error) {
	var (
		found Segment
		ok    bool
	)
	err := walk(data, func(seg Segment) bool {
		if seg.Marker == APP1 && bytes.HasPrefix(seg.Payload(data), []byte(ExifIdentifier)) {
			found, ok = seg, true
			return false
		}
		return true
	})
	if err != nil {
		return Segment{}, false, err
	}
	return found, ok, nil
}

// Segments returns every length-carrying segment before the scan data.
func Segments(data []byte) ([]Segment, error) {
	segments := make([]Segment, 0, 8)
	err := walk(data, func(seg Segment) bool {
		segments = append(segments, seg)
		return true
	})
	if err != nil {
		return nil, err
	}
	return segments, nil
}

// InsertionPoint returns where a new APP1 segment belongs: right after SOI,
// or after a leading APP0 (JFIF) segment, which must stay first.
func InsertionPoint(data []byte) (int, error) {
	segments, err := Segments(data)
	if err != nil {
		return 0, err
	}
	if len(segments) > 0 && segments[0].Offset == 2 && segments[0].Marker == APP0 {
		return segments[0].End(), nil
	}
	return 2, nil
}

// walk calls visit for each length-carrying segment until visit returns
// false or the header part of the stream ends.
func walk(data []byte, visit func(Segment) bool) error {
	if len(data) < 2 || data[0] != 0xFF || Marker(data[1]) != SOI {
		return &types.MalformedImageError{Reason: "missing SOI marker"}
	}

	sr := binary.NewBytesReader(data, "jpeg")
	size := int64(len(data))
	offset := int64(2)

	for offset < size {
		if data[offset] != 0xFF {
			return &types.MalformedImageError{
				Offset: offset,
				Reason: fmt.Sprintf("expected marker, found 0x%02X", data[offset]),
			}
		}

		// 0xFF fill bytes may precede the marker code.
		for offset+1 < size && data[offset+1] == 0xFF {
			offset++
		}
		if offset+1 >= size {
			return nil
		}

		marker := Marker(data[offset+1])
		switch {
		case marker == 0:
			return &types.MalformedImageError{Offset: offset, Reason: "invalid marker 0x00"}
		case marker == EOI || marker == SOS:
			return nil
		case marker.Standalone():
			offset += 2
			continue
		}

		seg, err := readSegmentHeader(sr, offset, marker)
		if err != nil {
			return err
		}
		if !visit(seg) {
			return nil
		}
		offset = int64(seg.End())
	}

	return nil
}

// readSegmentHeader reads the length field of the segment at offset.
func readSegmentHeader(sr *binary.SafeReader, offset int64, marker Marker) (Segment, error) {
	length, err := binary.ReadBE[uint16](sr, offset+2, "segment length")
	if err != nil {
		return Segment{}, &types.MalformedImageError{
			Offset: offset,
			Reason: fmt.Sprintf("%s length field runs past end of stream", marker.Name()),
		}
	}

	if length < 2 {
		return Segment{}, &types.MalformedImageError{
			Offset: offset,
			Reason: fmt.Sprintf("invalid %s length %d (minimum is 2)", marker.Name(), length),
		}
	}

	seg := Segment{Marker: marker, Offset: int(offset), Length: int(length)}
	if int64(seg.End()) > sr.Size() {
		return Segment{}, &types.MalformedImageError{
			Offset: offset,
			Reason: fmt.Sprintf("%s segment of %d bytes runs past end of stream (size %d)", marker.Name(), length, sr.Size()),
		}
	}

	return seg, nil
}
