package metadata

import (
	"context"
	"time"

	"handyman/internal/media/ffprobe"
)

// Prober reports the playback duration of a media file in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// ProberFunc adapts a plain function to the Prober interface.
type ProberFunc func(ctx context.Context, path string) (float64, error)

func (f ProberFunc) Duration(ctx context.Context, path string) (float64, error) {
	return f(ctx, path)
}

// FFprobe runs the ffprobe binary for each lookup.
type FFprobe struct {
	Binary string
	// Timeout bounds a single probe. Zero means no limit beyond ctx.
	Timeout time.Duration
}

func (p FFprobe) Duration(ctx context.Context, path string) (float64, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	return ffprobe.Duration(ctx, p.Binary, path)
}
