package jpegcaption

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// GetCaptions reads the captions of several sources concurrently.
//
// Every source is attempted; one failure does not stop the others. The
// returned slice is parallel to srcs and holds "" for sources that failed.
// Failures are reported together as a *multierror.Error, in source order.
// Sources not yet started when ctx is canceled fail with ctx.Err().
//
// Example:
//
//	captions, err := jpegcaption.GetCaptions(ctx, []jpegcaption.Source{
//	    jpegcaption.URL("https://example.com/a.jpg"),
//	    &jpegcaption.Blob{Data: data},
//	})
func GetCaptions(ctx context.Context, srcs []Source, opts ...Option) ([]string, error) {
	if len(srcs) == 0 {
		return nil, nil
	}

	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	captions := make([]string, len(srcs))
	failures := make([]error, len(srcs))

	for i, src := range srcs {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				failures[i] = err
				return nil
			}

			caption, err := getCaption(ctx, src, o)
			if err != nil {
				failures[i] = err
				return nil
			}
			captions[i] = caption
			return nil
		})
	}
	_ = g.Wait()

	var result *multierror.Error
	for i, err := range failures {
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("source %d: %w", i, err))
		}
	}
	return captions, result.ErrorOrNil()
}
