// Package mp4video implements ports.VideoSource for MP4 files decoded in
// process. It behaves like a media element: loading and seeking complete in
// the background and are reported through the OnSeeked and OnError handlers.
package mp4video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/user/framesnap/pkg/ports"
)

var (
	// ErrClosed is returned by Assign after Close.
	ErrClosed = errors.New("mp4video: source closed")

	// ErrNoPicture is returned by CurrentFrame before a picture is decoded.
	ErrNoPicture = errors.New("mp4video: no picture available")
)

// Source is a seekable video backed by a ports.VideoDecoder.
//
// All media is fetched and indexed before the source reports its duration,
// so the ready state jumps from HaveNothing to HaveEnoughData.
type Source struct {
	fetcher ports.Fetcher
	decoder ports.VideoDecoder
	logger  ports.Logger

	mu       sync.Mutex
	info     ports.StreamInfo
	state    ports.ReadyState
	current  float64
	picture  image.Image
	seeking  bool
	pending  float64
	gen      uint64
	lastErr  error
	onSeeked func()
	onError  func(err error)
	wake     chan struct{}
	cancel   context.CancelFunc
	closed   bool
	worker   sync.WaitGroup
}

// New creates a Source that reads media through fetcher and decodes it with decoder.
// The decoder is owned by the source and closed by Close.
func New(fetcher ports.Fetcher, decoder ports.VideoDecoder, logger ports.Logger) *Source {
	return &Source{
		fetcher: fetcher,
		decoder: decoder,
		logger:  logger.WithComponent("mp4video"),
	}
}

// Assign starts loading the media behind locator, abandoning any previous one.
// Load failures are reported through OnError.
func (s *Source) Assign(ctx context.Context, locator string) error {
	s.stopWorker()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.info = ports.StreamInfo{}
	s.state = ports.HaveNothing
	s.current = 0
	s.picture = nil
	s.seeking = false
	s.lastErr = nil
	s.wake = make(chan struct{}, 1)

	s.worker.Add(1)
	go s.run(loadCtx, locator, s.wake)
	return nil
}

// run loads the media and then serves seek requests until ctx is cancelled.
func (s *Source) run(ctx context.Context, locator string, wake <-chan struct{}) {
	defer s.worker.Done()

	if err := s.load(ctx, locator); err != nil {
		if ctx.Err() == nil {
			s.fail(fmt.Errorf("load %s: %w", locator, err))
		}
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-wake:
		}

		s.mu.Lock()
		gen, target := s.gen, s.pending
		s.mu.Unlock()

		frame, err := s.decoder.DecodeAt(target)
		if err != nil {
			s.fail(fmt.Errorf("seek to %.3f: %w", target, err))
			return
		}
		s.complete(gen, frame)
	}
}

func (s *Source) load(ctx context.Context, locator string) error {
	data, err := s.fetcher.Fetch(ctx, locator)
	if err != nil {
		return err
	}
	s.logger.Debug("Fetched %d bytes from %s", len(data), locator)

	info, err := s.decoder.Open(bytes.NewReader(data))
	if err != nil {
		return err
	}
	frame, err := s.decoder.DecodeAt(0)
	if err != nil {
		return fmt.Errorf("decode first picture: %w", err)
	}
	s.logger.Debug("Loaded %s video %dx%d, %.3f s, %d frames", info.Codec, info.Width, info.Height, info.Duration, info.FrameCount)

	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.info = info
	s.picture = frame.Image
	s.state = ports.HaveEnoughData
	return nil
}

// complete publishes the result of seek gen unless a newer seek superseded it.
func (s *Source) complete(gen uint64, frame ports.VideoFrame) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.picture = frame.Image
	s.seeking = false
	handler := s.onSeeked
	s.mu.Unlock()

	if handler != nil {
		handler()
	}
}

func (s *Source) fail(err error) {
	s.logger.Debug("Video source error: %v", err)

	s.mu.Lock()
	s.lastErr = err
	s.seeking = false
	handler := s.onError
	s.mu.Unlock()

	if handler != nil {
		handler(err)
	}
}

// Duration returns the media duration in seconds, or NaN until it is known.
func (s *Source) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state < ports.HaveMetadata {
		return math.NaN()
	}
	return s.info.Duration
}

// CurrentTime returns the playback position in seconds.
func (s *Source) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetCurrentTime requests a seek. The position is clamped to the media and
// CurrentTime reflects it at once. Requests made before the media is loaded
// are ignored.
func (s *Source) SetCurrentTime(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state < ports.HaveMetadata || s.lastErr != nil {
		return
	}
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	seconds = min(seconds, s.info.Duration)

	s.gen++
	s.pending = seconds
	s.current = seconds
	s.seeking = true

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Seeking reports whether a seek request is still in progress.
func (s *Source) Seeking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seeking
}

// NaturalSize returns the picture dimensions, or zeros until loaded.
func (s *Source) NaturalSize() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info.Width, s.info.Height
}

// ReadyState returns the current load progress.
func (s *Source) ReadyState() ports.ReadyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Info returns the stream properties of the loaded media.
func (s *Source) Info() ports.StreamInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// Err returns the last fatal error, if any.
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// OnSeeked registers the seek-complete handler.
func (s *Source) OnSeeked(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSeeked = fn
}

// OnError registers the fatal-error handler.
func (s *Source) OnError(fn func(err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = fn
}

// CurrentFrame returns the picture at the current position.
func (s *Source) CurrentFrame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.picture == nil {
		return nil, ErrNoPicture
	}
	return s.picture, nil
}

// Close stops background work and releases the decoder.
func (s *Source) Close() error {
	s.stopWorker()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.decoder.Close()
	return nil
}

// stopWorker cancels the current load and waits for it to exit.
func (s *Source) stopWorker() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.worker.Wait()
}

var (
	_ ports.VideoSource = (*Source)(nil)
	_ ports.FrameReader = (*Source)(nil)
)
