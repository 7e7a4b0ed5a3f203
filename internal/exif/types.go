// Package exif decodes and edits IFD0 of an Exif APP1 payload.
//
// The payload starts with the "Exif\0\0" identifier followed by a TIFF
// header. Every offset stored in the directory is relative to the start of
// that TIFF header.
package exif

import "fmt"

// TagImageDescription is the IFD0 tag that holds the image caption.
const TagImageDescription uint16 = 0x010E

// FieldType is the TIFF data type of a directory entry.
type FieldType uint16

// TIFF 6.0 data types.
const (
	BYTE      FieldType = 1
	ASCII     FieldType = 2
	SHORT     FieldType = 3
	LONG      FieldType = 4
	RATIONAL  FieldType = 5
	SBYTE     FieldType = 6
	UNDEFINED FieldType = 7
	SSHORT    FieldType = 8
	SLONG     FieldType = 9
	SRATIONAL FieldType = 10
	FLOAT     FieldType = 11
	DOUBLE    FieldType = 12
	IFD       FieldType = 13 // Supplement 1
)

// Valid reports whether t is a recognized field type.
func (t FieldType) Valid() bool {
	return t >= BYTE && t <= IFD
}

// Size returns the width in bytes of a single value of type t, or 0 for an
// unrecognized type.
func (t FieldType) Size() uint32 {
	switch t {
	case BYTE, ASCII, SBYTE, UNDEFINED:
		return 1
	case SHORT, SSHORT:
		return 2
	case LONG, SLONG, FLOAT, IFD:
		return 4
	case RATIONAL, SRATIONAL, DOUBLE:
		return 8
	default:
		return 0
	}
}

func (t FieldType) String() string {
	switch t {
	case BYTE:
		return "BYTE"
	case ASCII:
		return "ASCII"
	case SHORT:
		return "SHORT"
	case LONG:
		return "LONG"
	case RATIONAL:
		return "RATIONAL"
	case SBYTE:
		return "SBYTE"
	case UNDEFINED:
		return "UNDEFINED"
	case SSHORT:
		return "SSHORT"
	case SLONG:
		return "SLONG"
	case SRATIONAL:
		return "SRATIONAL"
	case FLOAT:
		return "FLOAT"
	case DOUBLE:
		return "DOUBLE"
	case IFD:
		return "IFD"
	default:
		return fmt.Sprintf("FieldType(%d)", uint16(t))
	}
}
