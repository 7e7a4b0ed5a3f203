package jpegcaption

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/simonhull/jpegcaption/internal/exif"
	"github.com/simonhull/jpegcaption/internal/jpeg"
)

// GetCaption returns the EXIF ImageDescription of src.
//
// A JPEG without an Exif segment, or whose IFD0 has no ImageDescription,
// has the caption "". Only the first Exif APP1 segment is consulted.
//
// Example:
//
//	caption, err := jpegcaption.GetCaption(ctx, jpegcaption.URL("https://example.com/photo.jpg"))
func GetCaption(ctx context.Context, src Source, opts ...Option) (string, error) {
	o, err := newOptions(opts)
	if err != nil {
		return "", err
	}
	return getCaption(ctx, src, o)
}

func getCaption(ctx context.Context, src Source, o *options) (string, error) {
	if src == nil {
		return "", ErrNilSource
	}
	blob, err := src.load(ctx, o)
	if err != nil {
		return "", err
	}
	return readCaption(blob.Data, o.logger)
}

// SetCaption returns a copy of src whose EXIF ImageDescription is title.
//
// The Exif segment is created when missing. Every other byte of the image,
// including the entropy-coded scan data, is carried over unchanged. The
// result keeps the media type of src and never shares memory with it.
func SetCaption(ctx context.Context, title string, src Source, opts ...Option) (*Blob, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, ErrNilSource
	}

	blob, err := src.load(ctx, o)
	if err != nil {
		return nil, err
	}

	data, err := writeCaption(blob.Data, title, o)
	if err != nil {
		return nil, err
	}

	mt := blob.MediaType
	if mt == "" {
		mt = MediaTypeJPEG
	}
	return &Blob{Data: data, MediaType: mt}, nil
}

// ReadCaption returns the EXIF ImageDescription of a JPEG stream.
func ReadCaption(data []byte) (string, error) {
	return readCaption(data, defaultOptions().logger)
}

// WriteCaption returns a copy of a JPEG stream whose EXIF ImageDescription
// is title. data is not modified.
func WriteCaption(data []byte, title string) ([]byte, error) {
	return writeCaption(data, title, defaultOptions())
}

func readCaption(data []byte, log *slog.Logger) (string, error) {
	seg, ok, err := jpeg.Locate(data)
	if err != nil {
		return "", fmt.Errorf("locate exif segment: %w", err)
	}
	if !ok {
		log.Debug("caption.segment.absent", "bytes", len(data))
		return "", nil
	}

	value, ok, err := exif.ReadTag(seg.Payload(data), exif.TagImageDescription)
	if err != nil {
		return "", fmt.Errorf("read exif segment at offset %d: %w", seg.Offset, err)
	}
	log.Debug("caption.read",
		"segment_offset", seg.Offset,
		"segment_length", seg.Length,
		"tag_present", ok,
	)
	if !ok {
		return "", nil
	}
	return exif.DecodeASCII(value), nil
}

func writeCaption(data []byte, title string, o *options) ([]byte, error) {
	value, err := exif.EncodeASCII(title)
	if err != nil {
		return nil, err
	}

	seg, ok, err := jpeg.Locate(data)
	if err != nil {
		return nil, fmt.Errorf("locate exif segment: %w", err)
	}

	var out []byte
	if ok {
		payload, strategy, err := exif.WriteTag(seg.Payload(data), exif.TagImageDescription, value)
		if err != nil {
			return nil, fmt.Errorf("rewrite exif segment at offset %d: %w", seg.Offset, err)
		}
		o.logger.Debug("caption.write",
			"strategy", string(strategy),
			"segment_offset", seg.Offset,
			"payload_bytes", len(payload),
			"delta", len(payload)-(seg.Length-2),
		)
		if out, err = jpeg.Rebuild(data, seg, payload); err != nil {
			return nil, err
		}
	} else {
		at, err := jpeg.InsertionPoint(data)
		if err != nil {
			return nil, err
		}
		payload := exif.NewPayload(o.byteOrder, exif.TagImageDescription, value)
		o.logger.Debug("caption.write",
			"strategy", "new-segment",
			"segment_offset", at,
			"payload_bytes", len(payload),
			"byte_order", o.byteOrder.String(),
		)
		if out, err = jpeg.Insert(data, at, jpeg.APP1, payload); err != nil {
			return nil, err
		}
	}

	if o.verify {
		got, err := readCaption(out, o.logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
		if got != title {
			return nil, fmt.Errorf("%w: got %q, want %q", ErrValidationFailed, got, title)
		}
	}

	return out, nil
}
