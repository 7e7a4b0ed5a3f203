package exif

import (
	"bytes"
	"strings"

	"github.com/simonhull/jpegcaption/internal/types"
)

// EncodeASCII encodes s as a NUL-terminated EXIF ASCII value.
func EncodeASCII(s string) ([]byte, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, &types.InvalidCaptionError{Reason: "contains a NUL byte"}
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b, nil
}

// DecodeASCII returns the text before the first NUL in b.
func DecodeASCII(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
