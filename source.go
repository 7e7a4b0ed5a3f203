package jpegcaption

import (
	"context"

	"github.com/simonhull/jpegcaption/internal/fetch"
)

// MediaTypeJPEG is the media type given to results whose source declared none.
const MediaTypeJPEG = "image/jpeg"

// Source is an image to read from or write to: a URL or a *Blob.
type Source interface {
	load(ctx context.Context, o *options) (*Blob, error)
}

// Blob is an in-memory image.
type Blob struct {
	Data      []byte
	MediaType string
}

// URL is the address of a remote image, downloaded with an HTTP GET.
type URL string

func (b *Blob) load(ctx context.Context, _ *options) (*Blob, error) {
	if b == nil {
		return nil, ErrNilSource
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

func (u URL) load(ctx context.Context, o *options) (*Blob, error) {
	c := &fetch.Client{
		HTTP:     o.httpClient,
		Logger:   o.logger,
		MaxBytes: o.maxImageSize,
	}

	res, err := c.Fetch(ctx, string(u))
	if err != nil {
		return nil, err
	}

	mt := res.MediaType
	if mt == "" {
		mt = MediaTypeJPEG
	}
	return &Blob{Data: res.Data, MediaType: mt}, nil
}
