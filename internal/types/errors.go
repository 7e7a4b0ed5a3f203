// Package types provides the error taxonomy shared by the caption codec.
package types

import "fmt"

// TruncatedSegmentError is returned when a declared size or offset points
// beyond the end of the buffer being decoded.
type TruncatedSegmentError struct {
	Name   string // buffer being read ("exif", "jpeg")
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *TruncatedSegmentError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: truncated segment: offset %d out of bounds (size: %d) while reading %s",
			e.Name, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: truncated segment: read of %d bytes at offset %d would exceed size %d while reading %s",
		e.Name, e.Length, e.Offset, e.Size, e.What)
}

// MalformedImageError is returned when the input is not a JPEG stream or its
// marker structure is corrupt.
type MalformedImageError struct {
	Reason string
	Offset int64
}

func (e *MalformedImageError) Error() string {
	return fmt.Sprintf("malformed image at offset %d: %s", e.Offset, e.Reason)
}

// UnsupportedFieldTypeError is returned when a directory entry declares a
// field type outside BYTE..IFD.
type UnsupportedFieldTypeError struct {
	Tag    uint16
	Type   uint16
	Offset int64
}

func (e *UnsupportedFieldTypeError) Error() string {
	return fmt.Sprintf("unsupported field type %d for tag 0x%04X at offset %d", e.Type, e.Tag, e.Offset)
}

// FetchFailedError wraps a failure to acquire image bytes from a URL.
type FetchFailedError struct {
	Err        error
	URL        string
	StatusCode int // 0 when no response was received
}

func (e *FetchFailedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchFailedError) Unwrap() error { return e.Err }

// SegmentOverflowError is returned when a rebuilt segment no longer fits the
// 16-bit JPEG length field.
type SegmentOverflowError struct {
	Marker string
	Size   int
}

func (e *SegmentOverflowError) Error() string {
	return fmt.Sprintf("%s segment payload of %d bytes exceeds the maximum of 65533", e.Marker, e.Size)
}

// InvalidCaptionError indicates a caption that cannot be stored as EXIF ASCII.
type InvalidCaptionError struct {
	Reason string
}

func (e *InvalidCaptionError) Error() string {
	return "invalid caption: " + e.Reason
}
