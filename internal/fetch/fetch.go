// Package fetch retrieves image bytes over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/simonhull/jpegcaption/internal/types"
)

// ErrTooLarge is wrapped by a FetchFailedError when the body exceeds MaxBytes.
var ErrTooLarge = errors.New("response body exceeds size limit")

// Client downloads images. The zero value uses http.DefaultClient, no size
// limit, and discards logs.
type Client struct {
	HTTP     *http.Client
	Logger   *slog.Logger
	MaxBytes int64 // 0 means unlimited
}

// Result is a downloaded image.
type Result struct {
	Data      []byte
	MediaType string // Content-Type without parameters; empty when undeclared
}

// Fetch performs a GET of url bound to ctx.
func (c *Client) Fetch(ctx context.Context, url string) (*Result, error) {
	start := time.Now()
	log := c.logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &types.FetchFailedError{URL: url, Err: err}
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return nil, &types.FetchFailedError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &types.FetchFailedError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %q", resp.Status),
		}
	}

	body := io.Reader(resp.Body)
	if c.MaxBytes > 0 {
		if resp.ContentLength > c.MaxBytes {
			return nil, &types.FetchFailedError{URL: url, StatusCode: resp.StatusCode, Err: ErrTooLarge}
		}
		body = io.LimitReader(resp.Body, c.MaxBytes+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &types.FetchFailedError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}
	if c.MaxBytes > 0 && int64(len(data)) > c.MaxBytes {
		return nil, &types.FetchFailedError{URL: url, StatusCode: resp.StatusCode, Err: ErrTooLarge}
	}

	res := &Result{Data: data, MediaType: mediaType(resp.Header.Get("Content-Type"))}

	log.Debug("fetch.done",
		"url", url,
		"status", resp.StatusCode,
		"bytes", len(data),
		"media_type", res.MediaType,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (c *Client) client() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mediaType strips parameters from a Content-Type header value.
func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mt
}
