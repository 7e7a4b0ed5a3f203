// Package binary provides type-safe binary writing primitives with offset tracking.
package binary

import (
	"io"
)

// SafeWriter wraps io.Writer with position tracking.
type SafeWriter struct {
	w      io.Writer
	offset int64
}

// NewSafeWriter creates a new SafeWriter.
func NewSafeWriter(w io.Writer) *SafeWriter {
	return &SafeWriter{
		w:      w,
		offset: 0,
	}
}

// Offset returns the current position (number of bytes written).
func (sw *SafeWriter) Offset() int64 {
	return sw.offset
}

// WriteBytes writes raw bytes to the underlying writer.
func (sw *SafeWriter) WriteBytes(b []byte) error {
	n, err := sw.w.Write(b)
	sw.offset += int64(n)
	return err
}

// WriteString writes a string as bytes to the underlying writer.
func (sw *SafeWriter) WriteString(s string) error {
	return sw.WriteBytes([]byte(s))
}

// Pad writes n zero bytes.
func (sw *SafeWriter) Pad(n int) error {
	if n <= 0 {
		return nil
	}
	return sw.WriteBytes(make([]byte, n))
}

// Write writes a value of type T in big-endian byte order.
func Write[T Uint](sw *SafeWriter, val T) error {
	return WriteEndian(sw, val, BigEndian)
}

// WriteEndian writes a value of type T in the given byte order.
func WriteEndian[T Uint](sw *SafeWriter, val T, endian Endianness) error {
	buf := make([]byte, SizeOf[T]())
	encode(buf, val, endian)
	return sw.WriteBytes(buf)
}

// Put encodes val into b at off in the given byte order.
// The caller guarantees that b is large enough.
func Put[T Uint](b []byte, off int, val T, endian Endianness) {
	encode(b[off:off+SizeOf[T]()], val, endian)
}
