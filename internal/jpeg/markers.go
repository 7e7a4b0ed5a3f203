// Package jpeg locates and rewrites marker segments in a JPEG byte stream.
//
// Only the header part of the stream is walked (up to SOS or EOI). Entropy
// coded scan data is never interpreted; it is copied through verbatim.
package jpeg

import "fmt"

// Marker is the code byte following 0xFF that identifies a segment.
type Marker uint8

const (
	TEM  Marker = 0x01
	SOF0 Marker = 0xC0 // SOFn = SOF0+n, n = 0-15 excluding 4, 8 and 12
	DHT  Marker = 0xC4
	RST0 Marker = 0xD0 // RSTn = RST0+n, n = 0-7
	RST7 Marker = 0xD7
	SOI  Marker = 0xD8
	EOI  Marker = 0xD9
	SOS  Marker = 0xDA
	DQT  Marker = 0xDB
	APP0 Marker = 0xE0 // APPn = APP0+n, n = 0-15
	APP1 Marker = 0xE1
	COM  Marker = 0xFE
)

// MaxPayload is the largest payload a length-carrying segment can hold.
const MaxPayload = 0xFFFF - 2

// ExifIdentifier prefixes the payload of an Exif APP1 segment.
const ExifIdentifier = "Exif\x00\x00"

// Standalone reports whether m is a marker without a length field.
func (m Marker) Standalone() bool {
	return m == TEM || m == SOI || m == EOI || (m >= RST0 && m <= RST7)
}

// Name returns the conventional name of a marker.
func (m Marker) Name() string {
	switch {
	case m == TEM:
		return "TEM"
	case m == DHT:
		return "DHT"
	case m == SOI:
		return "SOI"
	case m == EOI:
		return "EOI"
	case m == SOS:
		return "SOS"
	case m == DQT:
		return "DQT"
	case m == COM:
		return "COM"
	case m >= RST0 && m <= RST7:
		return fmt.Sprintf("RST%d", m-RST0)
	case m >= APP0 && m <= APP0+0xF:
		return fmt.Sprintf("APP%d", m-APP0)
	case m >= SOF0 && m <= SOF0+0xF:
		return fmt.Sprintf("SOF%d", m-SOF0)
	default:
		return fmt.Sprintf("0x%02X", uint8(m))
	}
}

func (m Marker) String() string { return m.Name() }
