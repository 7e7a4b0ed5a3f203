package jpegcaption

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/simonhull/jpegcaption/internal/binary"
)

// DefaultMaxImageSize caps downloaded images unless WithMaxImageSize says
// otherwise.
const DefaultMaxImageSize = 64 << 20

// ByteOrder selects the TIFF byte order of a newly created Exif segment.
type ByteOrder = binary.Endianness

const (
	BigEndian    = binary.BigEndian
	LittleEndian = binary.LittleEndian
)

// Option configures GetCaption, SetCaption and GetCaptions.
//
// Example:
//
//	blob, err := jpegcaption.SetCaption(ctx, "Harbour at dusk", src,
//	    jpegcaption.WithValidation(),
//	    jpegcaption.WithLogger(slog.Default()),
//	)
type Option func(*options)

type options struct {
	httpClient   *http.Client
	logger       *slog.Logger
	maxImageSize int64 // 0 = no limit
	byteOrder    ByteOrder
	verify       bool // re-read the caption after writing
}

func defaultOptions() *options {
	return &options{
		httpClient:   http.DefaultClient,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxImageSize: DefaultMaxImageSize,
		byteOrder:    BigEndian,
	}
}

func newOptions(opts []Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *options) validate() error {
	if o.httpClient == nil {
		return fmt.Errorf("jpegcaption: nil HTTP client")
	}
	if o.logger == nil {
		return fmt.Errorf("jpegcaption: nil logger")
	}
	if o.maxImageSize < 0 {
		return fmt.Errorf("jpegcaption: negative max image size %d", o.maxImageSize)
	}
	if o.byteOrder != BigEndian && o.byteOrder != LittleEndian {
		return fmt.Errorf("jpegcaption: unknown byte order %d", o.byteOrder)
	}
	return nil
}

// WithHTTPClient sets the client used to download URL sources.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithMaxImageSize limits the size of downloaded images in bytes. Zero
// removes the limit.
func WithMaxImageSize(n int64) Option {
	return func(o *options) {
		o.maxImageSize = n
	}
}

// WithLogger routes debug records about segment lookup, write strategy and
// downloads to l. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithValidation makes SetCaption decode its own output and fail unless the
// caption reads back unchanged.
func WithValidation() Option {
	return func(o *options) {
		o.verify = true
	}
}

// WithByteOrder sets the byte order used when SetCaption has to create the
// Exif segment from scratch. Existing segments keep their byte order.
func WithByteOrder(order ByteOrder) Option {
	return func(o *options) {
		o.byteOrder = order
	}
}
