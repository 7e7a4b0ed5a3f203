package exif

import (
	"bytes"
	"fmt"

	"github.com/simonhull/jpegcaption/internal/binary"
	"github.com/simonhull/jpegcaption/internal/jpeg"
	"github.com/simonhull/jpegcaption/internal/types"
)

const (
	identifierSize = len(jpeg.ExifIdentifier)
	headerSize     = 8  // byte order (2), magic (2), IFD0 offset (4)
	entrySize      = 12 // tag (2), type (2), count (4), value or offset (4)
	tiffMagic      = 42
)

// Entry is one record of an image file directory.
type Entry struct {
	Tag         uint16
	Type        FieldType
	Count       uint32
	ValueOffset uint32 // raw slot; an offset only when the value is not inline

	pos int // offset of the record from the TIFF header
}

// Size returns the byte length of the entry's value.
func (e Entry) Size() uint64 {
	return uint64(e.Count) * uint64(e.Type.Size())
}

// Inline reports whether the value lives in the entry's 4-byte slot.
func (e Entry) Inline() bool {
	return e.Size() <= 4
}

// valuePos returns the offset of the value bytes from the TIFF header.
func (e Entry) valuePos() int {
	if e.Inline() {
		return e.pos + 8
	}
	return int(e.ValueOffset)
}

// Directory is the decoded IFD0 of an Exif payload.
type Directory struct {
	Order   binary.Endianness
	Offset  uint32 // IFD0 position relative to the TIFF header
	Entries []Entry
	Next    uint32 // IFD1 position, 0 when absent
}

// Find returns the index of the first entry with the given tag.
// Later duplicates are never consulted.
func (d *Directory) Find(tag uint16) (int, bool) {
	for i, e := range d.Entries {
		if e.Tag == tag {
			return i, true
		}
	}
	return -1, false
}

// Parse decodes the TIFF header and IFD0 of an Exif APP1 payload.
//
// Offsets in returned errors are relative to the TIFF header.
func Parse(payload []byte) (*Directory, error) {
	if !bytes.HasPrefix(payload, []byte(jpeg.ExifIdentifier)) {
		return nil, &types.MalformedImageError{Reason: "APP1 payload lacks Exif identifier"}
	}
	sr := binary.NewBytesReader(payload[identifierSize:], "exif")

	order, ifd0, err := readHeader(sr)
	if err != nil {
		return nil, err
	}

	if ifd0 < headerSize {
		return nil, &types.MalformedImageError{Offset: 4, Reason: fmt.Sprintf("IFD0 offset %d points into the TIFF header", ifd0)}
	}

	dir := &Directory{Order: order, Offset: ifd0}
	cr := binary.NewChainReader(binary.NewReader(sr, int64(ifd0), order))

	count := binary.ReadChained[uint16](cr, "IFD0 entry count")
	if err := cr.Error(); err != nil {
		return nil, err
	}
	tableEnd := uint64(ifd0) + 2 + uint64(count)*entrySize + 4

	dir.Entries = make([]Entry, 0, count)
	for i := 0; i < int(count); i++ {
		e := Entry{pos: int(cr.Offset())}
		e.Tag = binary.ReadChained[uint16](cr, "entry tag")
		e.Type = FieldType(binary.ReadChained[uint16](cr, "entry type"))
		e.Count = binary.ReadChained[uint32](cr, "entry count")
		e.ValueOffset = binary.ReadChained[uint32](cr, "entry value")
		if err := cr.Error(); err != nil {
			return nil, err
		}

		if err := checkEntry(e, sr.Size(), uint64(ifd0), tableEnd); err != nil {
			return nil, err
		}
		dir.Entries = append(dir.Entries, e)
	}

	dir.Next = binary.ReadChained[uint32](cr, "next IFD offset")
	if err := cr.Error(); err != nil {
		return nil, err
	}
	if next := uint64(dir.Next); next != 0 && (next < headerSize || next >= uint64(ifd0) && next < tableEnd) {
		return nil, &types.MalformedImageError{
			Offset: int64(tableEnd) - 4,
			Reason: fmt.Sprintf("IFD1 offset %d overlaps the TIFF header or IFD0", dir.Next),
		}
	}

	return dir, nil
}

func readHeader(sr *binary.SafeReader) (binary.Endianness, uint32, error) {
	r := binary.NewReader(sr, 0, binary.BigEndian)
	cr := binary.NewChainReader(r)

	mark := cr.Bytes(2, "byte order mark")
	if err := cr.Error(); err != nil {
		return 0, 0, err
	}

	switch string(mark) {
	case "II":
		r.SetEndian(binary.LittleEndian)
	case "MM":
		r.SetEndian(binary.BigEndian)
	default:
		return 0, 0, &types.MalformedImageError{Reason: fmt.Sprintf("invalid TIFF byte order mark %q", mark)}
	}

	magic := binary.ReadChained[uint16](cr, "TIFF magic")
	ifd0 := binary.ReadChained[uint32](cr, "IFD0 offset")
	if err := cr.Error(); err != nil {
		return 0, 0, err
	}

	if magic != tiffMagic {
		return 0, 0, &types.MalformedImageError{Offset: 2, Reason: fmt.Sprintf("invalid TIFF magic %d", magic)}
	}

	return r.Endian(), ifd0, nil
}

// shared reports whether an out-of-line value of entry i also holds part of
// another entry's value or the start of IFD1.
func (d *Directory) shared(i int) bool {
	lo := uint64(d.Entries[i].ValueOffset)
	hi := lo + d.Entries[i].Size()
	if next := uint64(d.Next); next != 0 && next >= lo && next < hi {
		return true
	}
	for j, e := range d.Entries {
		if j == i || e.Inline() {
			continue
		}
		if start := uint64(e.ValueOffset); start < hi && lo < start+e.Size() {
			return true
		}
	}
	return false
}

// checkEntry validates the type of e and, for out-of-line values, that the
// value lies inside the buffer and clear of the header and the IFD0 table
// spanning [tableStart, tableEnd).
func checkEntry(e Entry, size int64, tableStart, tableEnd uint64) error {
	if !e.Type.Valid() {
		return &types.UnsupportedFieldTypeError{Tag: e.Tag, Type: uint16(e.Type), Offset: int64(e.pos)}
	}
	if e.Inline() {
		return nil
	}
	if uint64(e.ValueOffset)+e.Size() > uint64(size) {
		return &types.TruncatedSegmentError{
			Name:   "exif",
			What:   fmt.Sprintf("value of tag 0x%04X", e.Tag),
			Offset: int64(e.ValueOffset),
			Length: int(e.Size()),
			Size:   size,
		}
	}
	start, end := uint64(e.ValueOffset), uint64(e.ValueOffset)+e.Size()
	if start < headerSize || start < tableEnd && tableStart < end {
		return &types.MalformedImageError{
			Offset: int64(e.pos),
			Reason: fmt.Sprintf("value of tag 0x%04X at %d overlaps the TIFF header or IFD0", e.Tag, e.ValueOffset),
		}
	}
	return nil
}
