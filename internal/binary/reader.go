// Package binary provides type-safe binary reading primitives with bounds checking
package binary

import (
	"bytes"
	"fmt"
	"io"

	"github.com/simonhull/jpegcaption/internal/types"
)

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
type SafeReader struct {
	r    io.ReaderAt
	name string
	size int64
}

// NewSafeReader creates a new SafeReader. name labels the buffer in errors.
func NewSafeReader(r io.ReaderAt, size int64, name string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		name: name,
	}
}

// NewBytesReader creates a SafeReader over an in-memory buffer.
func NewBytesReader(b []byte, name string) *SafeReader {
	return NewSafeReader(bytes.NewReader(b), int64(len(b)), name)
}

// Size returns the number of readable bytes.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// ReadAt reads bytes at the given offset with context for error messages.
//
// Out-of-range reads fail with *types.TruncatedSegmentError.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off >= sr.size || off+int64(len(b)) > sr.size {
		return &types.TruncatedSegmentError{
			Name:   sr.name,
			What:   what,
			Offset: off,
			Length: len(b),
			Size:   sr.size,
		}
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.name, what, off, err)
	}

	if n < len(b) {
		return fmt.Errorf("%s: short read for %s at offset %d: got %d bytes, expected %d",
			sr.name, what, off, n, len(b))
	}

	return nil
}

// Reader provides sequential reading with automatic offset tracking.
type Reader struct {
	*SafeReader
	offset int64
	endian Endianness
}

// NewReader creates a new Reader starting at the given offset.
func NewReader(sr *SafeReader, offset int64, endian Endianness) *Reader {
	return &Reader{
		SafeReader: sr,
		offset:     offset,
		endian:     endian,
	}
}

// ReadValue reads a numeric value in the reader's byte order and advances the offset.
func ReadValue[T Uint](r *Reader, what string) (T, error) {
	val, err := ReadEndian[T](r.SafeReader, r.offset, what, r.endian)
	if err != nil {
		var zero T
		return zero, err
	}

	r.offset += int64(SizeOf[T]())
	return val, nil
}

// ReadBytes reads n raw bytes and advances the offset.
func (r *Reader) ReadBytes(n int, what string) ([]byte, error) {
	buf := make([]byte, n)
	if err := r.SafeReader.ReadAt(buf, r.offset, what); err != nil {
		return nil, err
	}

	r.offset += int64(n)
	return buf, nil
}

// Offset returns the current offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Endian returns the byte order used by ReadValue.
func (r *Reader) Endian() Endianness {
	return r.endian
}

// SetEndian switches the byte order for subsequent reads.
func (r *Reader) SetEndian(e Endianness) {
	r.endian = e
}

// ChainReader allows chaining multiple reads with deferred error checking.
// This avoids repetitive "if err != nil" checks.
type ChainReader struct {
	*Reader
	err error
}

// NewChainReader creates a new ChainReader.
func NewChainReader(r *Reader) *ChainReader {
	return &ChainReader{Reader: r}
}

// ReadChained reads a value with deferred error checking.
// If a previous read failed, returns zero value without attempting read.
func ReadChained[T Uint](cr *ChainReader, what string) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadValue[T](cr.Reader, what)
	if err != nil {
		cr.err = err
		var zero T
		return zero
	}

	return val
}

// Bytes reads n raw bytes, accumulating any error.
func (cr *ChainReader) Bytes(n int, what string) []byte {
	if cr.err != nil {
		return nil
	}

	val, err := cr.Reader.ReadBytes(n, what)
	if err != nil {
		cr.err = err
		return nil
	}

	return val
}

// Error returns the accumulated error, if any.
func (cr *ChainReader) Error() error {
	return cr.err
}
