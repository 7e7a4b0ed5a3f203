package jpegcaption

import (
	"errors"

	"github.com/simonhull/jpegcaption/internal/fetch"
	"github.com/simonhull/jpegcaption/internal/types"
)

// FetchFailedError is returned when a URL source cannot be downloaded.
type FetchFailedError = types.FetchFailedError

// MalformedImageError is returned when the input is not a JPEG stream or its
// marker or TIFF structure is corrupt.
type MalformedImageError = types.MalformedImageError

// TruncatedSegmentError is returned when a declared size or offset runs past
// the end of the data.
type TruncatedSegmentError = types.TruncatedSegmentError

// UnsupportedFieldTypeError is returned for IFD0 entries with an unknown field type.
type UnsupportedFieldTypeError = types.UnsupportedFieldTypeError

// SegmentOverflowError is returned when the rewritten Exif segment would not
// fit a JPEG segment.
type SegmentOverflowError = types.SegmentOverflowError

// InvalidCaptionError is returned for captions that cannot be stored as an
// EXIF ASCII value.
type InvalidCaptionError = types.InvalidCaptionError

var (
	// ErrNilSource is returned when a nil Source or nil *Blob is passed.
	ErrNilSource = errors.New("jpegcaption: nil source")

	// ErrValidationFailed is returned by SetCaption with WithValidation when
	// the written caption does not read back unchanged.
	ErrValidationFailed = errors.New("jpegcaption: caption did not read back unchanged")

	// ErrImageTooLarge is wrapped by FetchFailedError when a download exceeds
	// the limit set by WithMaxImageSize.
	ErrImageTooLarge = fetch.ErrTooLarge
)
