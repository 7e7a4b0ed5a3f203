package exif

import (
	"bytes"
	"fmt"

	"github.com/simonhull/jpegcaption/internal/binary"
	"github.com/simonhull/jpegcaption/internal/jpeg"
	"github.com/simonhull/jpegcaption/internal/types"
)

// Strategy names how WriteTag stored a value.
type Strategy string

const (
	StrategyInline  Strategy = "inline"   // value fits the entry's 4-byte slot
	StrategyInPlace Strategy = "in-place" // overwrote the existing out-of-line value
	StrategyResize  Strategy = "resize"   // grew the out-of-line value at the end of the data
	StrategyAppend  Strategy = "append"   // appended after the existing data
	StrategyInsert  Strategy = "insert"   // created the entry and relocated IFD0
)

// ReadTag returns a copy of the value of the first entry with the given tag.
// Returns false when IFD0 has no such entry.
func ReadTag(payload []byte, tag uint16) ([]byte, bool, error) {
	dir, err := Parse(payload)
	if err != nil {
		return nil, false, err
	}

	i, ok := dir.Find(tag)
	if !ok {
		return nil, false, nil
	}

	e := dir.Entries[i]
	tiff := payload[identifierSize:]
	start := e.valuePos()
	return bytes.Clone(tiff[start : start+int(e.Size())]), true, nil
}

// WriteTag returns a copy of payload in which the first entry with the given
// tag holds value as an ASCII field of len(value) bytes. The entry is created
// when absent. Later duplicates of the tag are left untouched and payload
// itself is never modified. An old value region that other entries also
// point into is neither overwritten nor cleared.
func WriteTag(payload []byte, tag uint16, value []byte) ([]byte, Strategy, error) {
	dir, err := Parse(payload)
	if err != nil {
		return nil, "", err
	}

	ed := &editor{
		tiff:  bytes.Clone(payload[identifierSize:]),
		order: dir.Order,
	}

	var strategy Strategy
	if i, ok := dir.Find(tag); ok {
		strategy = ed.replace(dir, i, value)
	} else {
		if len(dir.Entries) == 0xFFFF {
			return nil, "", &types.MalformedImageError{
				Offset: int64(dir.Offset),
				Reason: fmt.Sprintf("IFD0 already holds %d entries", len(dir.Entries)),
			}
		}
		ed.insert(dir, tag, value)
		strategy = StrategyInsert
	}

	out := make([]byte, 0, identifierSize+len(ed.tiff))
	out = append(out, jpeg.ExifIdentifier...)
	out = append(out, ed.tiff...)
	return out, strategy, nil
}

// NewPayload builds an Exif payload whose IFD0 holds a single ASCII entry.
func NewPayload(order binary.Endianness, tag uint16, value []byte) []byte {
	var buf bytes.Buffer
	sw := binary.NewSafeWriter(&buf)

	// Writes to a bytes.Buffer cannot fail.
	_ = sw.WriteString(jpeg.ExifIdentifier)
	if order == binary.LittleEndian {
		_ = sw.WriteString("II")
	} else {
		_ = sw.WriteString("MM")
	}
	_ = binary.WriteEndian[uint16](sw, tiffMagic, order)
	_ = binary.WriteEndian[uint32](sw, headerSize, order)

	_ = binary.WriteEndian[uint16](sw, 1, order)
	_ = binary.WriteEndian(sw, tag, order)
	_ = binary.WriteEndian(sw, uint16(ASCII), order)
	_ = binary.WriteEndian(sw, uint32(len(value)), order)
	if len(value) <= 4 {
		_ = sw.WriteBytes(value)
		_ = sw.Pad(4 - len(value))
	} else {
		// value follows this slot and the next pointer
		_ = binary.WriteEndian(sw, uint32(sw.Offset())-uint32(identifierSize)+8, order)
	}
	_ = binary.WriteEndian[uint32](sw, 0, order)

	if len(value) > 4 {
		_ = sw.WriteBytes(value)
	}

	return buf.Bytes()
}

// editor mutates a private copy of the TIFF data.
type editor struct {
	tiff  []byte
	order binary.Endianness
}

func (ed *editor) replace(dir *Directory, i int, value []byte) Strategy {
	old := dir.Entries[i]
	newSize := len(value)
	oldSize := int(old.Size())
	oldOff := int(old.ValueOffset)
	// owned is set when the old out-of-line value belongs to this entry alone.
	owned := !old.Inline() && !dir.shared(i)

	switch {
	case newSize <= 4:
		if owned {
			clear(ed.tiff[oldOff : oldOff+oldSize])
		}
		ed.putHeader(old.pos, old.Tag, newSize)
		slot := ed.tiff[old.pos+8 : old.pos+12]
		clear(slot)
		copy(slot, value)
		return StrategyInline

	case owned && newSize <= oldSize:
		copy(ed.tiff[oldOff:], value)
		clear(ed.tiff[oldOff+newSize : oldOff+oldSize])
		ed.putHeader(old.pos, old.Tag, newSize)
		return StrategyInPlace

	case owned && oldOff+oldSize == len(ed.tiff):
		ed.tiff = append(ed.tiff[:oldOff], value...)
		ed.putHeader(old.pos, old.Tag, newSize)
		return StrategyResize

	default:
		if owned {
			clear(ed.tiff[oldOff : oldOff+oldSize])
		}
		off := ed.appendData(value)
		ed.putHeader(old.pos, old.Tag, newSize)
		binary.Put(ed.tiff, old.pos+8, off, ed.order)
		return StrategyAppend
	}
}

// insert adds a new entry. IFD0 cannot grow in place without shifting the
// data behind it, so the table is rewritten at the end of the data with one
// more entry and the header pointer is moved. No existing value moves.
func (ed *editor) insert(dir *Directory, tag uint16, value []byte) {
	var slot [4]byte
	if len(value) <= 4 {
		copy(slot[:], value)
	} else {
		off := ed.appendData(value)
		binary.Put(slot[:], 0, off, ed.order)
	}

	n := len(dir.Entries)
	tableStart := int(dir.Offset) + 2
	records := bytes.Clone(ed.tiff[tableStart : tableStart+n*entrySize])

	// Retire the old table; nothing references it after the header moves.
	clear(ed.tiff[int(dir.Offset) : tableStart+n*entrySize+4])

	table := make([]byte, 2+(n+1)*entrySize+4)
	binary.Put(table, 0, uint16(n+1), ed.order)
	copy(table[2:], records)
	rec := 2 + n*entrySize
	binary.Put(table, rec, tag, ed.order)
	binary.Put(table, rec+2, uint16(ASCII), ed.order)
	binary.Put(table, rec+4, uint32(len(value)), ed.order)
	copy(table[rec+8:], slot[:])
	binary.Put(table, rec+entrySize, dir.Next, ed.order)

	off := ed.appendData(table)
	binary.Put(ed.tiff, 4, off, ed.order)
}

// appendData appends b at the next word boundary and returns its offset.
func (ed *editor) appendData(b []byte) uint32 {
	if len(ed.tiff)%2 == 1 {
		ed.tiff = append(ed.tiff, 0)
	}
	off := uint32(len(ed.tiff))
	ed.tiff = append(ed.tiff, b...)
	return off
}

func (ed *editor) putHeader(pos int, tag uint16, count int) {
	binary.Put(ed.tiff, pos, tag, ed.order)
	binary.Put(ed.tiff, pos+2, uint16(ASCII), ed.order)
	binary.Put(ed.tiff, pos+4, uint32(count), ed.order)
}
