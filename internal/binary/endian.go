package binary

import "encoding/binary"

// Endianness represents byte order for multi-byte values.
type Endianness int

const (
	// BigEndian uses big-endian byte order.
	// Used by: JPEG marker lengths, "MM" (Motorola) TIFF headers.
	BigEndian Endianness = iota

	// LittleEndian uses little-endian byte order.
	// Used by: "II" (Intel) TIFF headers, most phone cameras.
	LittleEndian
)

// ByteOrder returns the encoding/binary byte order for e.
func (e Endianness) ByteOrder() binary.ByteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (e Endianness) String() string {
	if e == LittleEndian {
		return "little-endian"
	}
	return "big-endian"
}

// Uint is the set of fixed-width unsigned integers the readers and writers handle.
type Uint interface {
	uint8 | uint16 | uint32 | uint64
}

// SizeOf returns the encoded width of T in bytes.
func SizeOf[T Uint]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

// ReadBE reads a numeric value of type T at the given offset using big-endian byte order.
//
// This is a convenience wrapper for ReadEndian with BigEndian.
//
// Example:
//
//	segLen, err := binary.ReadBE[uint16](sr, offset+2, "segment length")
func ReadBE[T Uint](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, BigEndian)
}

// ReadEndian reads a numeric value of type T at the given offset with specified byte order.
// TIFF data picks its byte order at runtime, so IFD decoding goes through here.
func ReadEndian[T Uint](sr *SafeReader, off int64, what string, endian Endianness) (T, error) {
	buf := make([]byte, SizeOf[T]())
	if err := sr.ReadAt(buf, off, what); err != nil {
		var zero T
		return zero, err
	}
	return decode[T](buf, endian), nil
}

func decode[T Uint](buf []byte, endian Endianness) T {
	order := endian.ByteOrder()
	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(buf[0])
	case uint16:
		return T(order.Uint16(buf))
	case uint32:
		return T(order.Uint32(buf))
	default:
		return T(order.Uint64(buf))
	}
}

func encode[T Uint](buf []byte, val T, endian Endianness) {
	order := endian.ByteOrder()
	var zero T
	switch any(zero).(type) {
	case uint8:
		buf[0] = byte(val)
	case uint16:
		order.PutUint16(buf, uint16(val))
	case uint32:
		order.PutUint32(buf, uint32(val))
	default:
		order.PutUint64(buf, uint64(val))
	}
}
