// Package jpegtest builds synthetic JPEG streams and Exif payloads for tests.
package jpegtest

import (
	"bytes"
	"encoding/binary"
)

// Segment encodes a length-carrying marker segment.
func Segment(marker byte, payload []byte) []byte {
	buf := &bytes.Buffer{}
	buf.Write([]byte{0xFF, marker})
	binary.Write(buf, binary.BigEndian, uint16(len(payload)+2))
	buf.Write(payload)
	return buf.Bytes()
}

// JPEG concatenates SOI, the given chunks, and EOI.
func JPEG(chunks ...[]byte) []byte {
	buf := &bytes.Buffer{}
	buf.Write([]byte{0xFF, 0xD8})
	for _, c := range chunks {
		buf.Write(c)
	}
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

// Scan returns a minimal SOS segment followed by entropy-coded bytes that
// contain a stuffed 0xFF00 and a restart marker.
func Scan() []byte {
	buf := &bytes.Buffer{}
	buf.Write(Segment(0xDA, []byte{0x01, 0x01, 0x00, 0x00, 0x3F, 0x00}))
	buf.Write([]byte{0x12, 0xFF, 0x00, 0x34, 0xFF, 0xD0, 0x56, 0x78, 0x9A})
	return buf.Bytes()
}

// JFIF returns a standard APP0 JFIF segment.
func JFIF() []byte {
	return Segment(0xE0, []byte{'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00})
}

// XMP returns an APP1 segment carrying an XMP packet.
func XMP() []byte {
	payload := append([]byte("http://ns.adobe.com/xap/1.0/\x00"), []byte(`<x:xmpmeta xmlns:x="adobe:ns:meta/"/>`)...)
	return Segment(0xE1, payload)
}

// Field is a directory entry to encode. Values of up to 4 bytes are stored
// inline; longer values are laid out after the table in field order.
type Field struct {
	Value []byte
	Count uint32
	Tag   uint16
	Type  uint16
}

// ASCII returns a NUL-terminated ASCII field.
func ASCII(tag uint16, s string) Field {
	return Field{Tag: tag, Type: 2, Count: uint32(len(s) + 1), Value: append([]byte(s), 0)}
}

// Short returns a single SHORT field.
func Short(tag uint16, v uint16, order binary.ByteOrder) Field {
	value := make([]byte, 2)
	order.PutUint16(value, v)
	return Field{Tag: tag, Type: 3, Count: 1, Value: value}
}

// Exif builds an APP1 payload ("Exif\0\0" + TIFF) whose IFD0 holds fields.
func Exif(order binary.ByteOrder, fields ...Field) []byte {
	return ExifWithNext(order, 0, fields...)
}

// ExifWithNext is Exif with an explicit next-IFD pointer.
func ExifWithNext(order binary.ByteOrder, next uint32, fields ...Field) []byte {
	tiff := &bytes.Buffer{}
	if order == binary.LittleEndian {
		tiff.WriteString("II")
	} else {
		tiff.WriteString("MM")
	}
	binary.Write(tiff, order, uint16(42))
	binary.Write(tiff, order, uint32(8))

	dataStart := 8 + 2 + 12*len(fields) + 4
	data := &bytes.Buffer{}

	binary.Write(tiff, order, uint16(len(fields)))
	for _, f := range fields {
		binary.Write(tiff, order, f.Tag)
		binary.Write(tiff, order, f.Type)
		binary.Write(tiff, order, f.Count)
		if len(f.Value) <= 4 {
			slot := make([]byte, 4)
			copy(slot, f.Value)
			tiff.Write(slot)
			continue
		}
		if (dataStart+data.Len())%2 == 1 {
			data.WriteByte(0)
		}
		binary.Write(tiff, order, uint32(dataStart+data.Len()))
		data.Write(f.Value)
	}
	binary.Write(tiff, order, next)
	tiff.Write(data.Bytes())

	return append([]byte("Exif\x00\x00"), tiff.Bytes()...)
}
