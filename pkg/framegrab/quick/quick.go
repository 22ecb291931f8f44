// Package quick extracts frames with the in-process adapters: media is
// fetched, decoded with the codec-specific backend and drawn on an
// in-memory surface.
package quick

import (
	"context"

	"github.com/user/framesnap/pkg/adapters/fetch"
	"github.com/user/framesnap/pkg/adapters/ggrenderer"
	"github.com/user/framesnap/pkg/adapters/logger"
	"github.com/user/framesnap/pkg/adapters/mp4video"
	"github.com/user/framesnap/pkg/adapters/smartdecoder"
	"github.com/user/framesnap/pkg/adapters/systemclock"
	"github.com/user/framesnap/pkg/framegrab"
	"github.com/user/framesnap/pkg/ports"
)

type settings struct {
	fetcher     ports.Fetcher
	decoder     ports.VideoDecoder
	logger      ports.Logger
	ffmpegPath  string
	jpegQuality int
}

// Option configures Extract.
type Option func(*settings)

// WithFetcher replaces the default locator fetcher.
func WithFetcher(f ports.Fetcher) Option {
	return func(s *settings) { s.fetcher = f }
}

// WithDecoder replaces the default MP4 decoder.
func WithDecoder(d ports.VideoDecoder) Option {
	return func(s *settings) { s.decoder = d }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l ports.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithFFmpegPath sets the ffmpeg binary used for H.264.
func WithFFmpegPath(path string) Option {
	return func(s *settings) { s.ffmpegPath = path }
}

// WithJPEGQuality sets the quality of JPEG frames.
func WithJPEGQuality(q int) Option {
	return func(s *settings) { s.jpegQuality = q }
}

// Extract samples the frames described by opts.
func Extract(ctx context.Context, opts framegrab.RawOptions, options ...Option) ([]framegrab.CapturedFrame, error) {
	s := settings{
		logger:      logger.NewNoop(),
		jpegQuality: ggrenderer.DefaultJPEGQuality,
	}
	for _, opt := range options {
		opt(&s)
	}
	if s.fetcher == nil {
		s.fetcher = fetch.New()
	}
	if s.decoder == nil {
		s.decoder = smartdecoder.New(smartdecoder.Options{FFmpegPath: s.ffmpegPath})
	}

	source := mp4video.New(s.fetcher, s.decoder, s.logger)
	defer source.Close()

	surface := ggrenderer.NewSurface(ggrenderer.WithJPEGQuality(s.jpegQuality))
	return framegrab.New(source, surface, systemclock.New(), s.logger).Extract(ctx, opts)
}
