package ports

import (
	"context"
	"image"
)

// ReadyState describes how much of a video source has been loaded.
// The ladder mirrors the readiness levels of an HTML media element.
type ReadyState int

const (
	// HaveNothing means no information about the media is available.
	HaveNothing ReadyState = iota
	// HaveMetadata means duration and natural size are known.
	HaveMetadata
	// HaveCurrentData means the picture at the current position is available.
	HaveCurrentData
	// HaveFutureData means data past the current position is available.
	HaveFutureData
	// HaveEnoughData means the whole media is available.
	HaveEnoughData
)

// String returns the string representation of the ready state.
func (s ReadyState) String() string {
	switch s {
	case HaveNothing:
		return "nothing"
	case HaveMetadata:
		return "metadata"
	case HaveCurrentData:
		return "current-data"
	case HaveFutureData:
		return "future-data"
	case HaveEnoughData:
		return "enough-data"
	default:
		return "unknown"
	}
}

// VideoSource abstracts a seekable video whose loading and seeking complete
// asynchronously and are reported through notifications.
type VideoSource interface {
	// Assign points the source at a media locator and starts loading it.
	// Loading continues in the background; failures are reported through OnError.
	Assign(ctx context.Context, locator string) error

	// Duration returns the media duration in seconds.
	// It returns NaN or +Inf while the duration is not yet known.
	Duration() float64

	// CurrentTime returns the current playback position in seconds.
	CurrentTime() float64

	// SetCurrentTime requests a seek. Completion is reported through OnSeeked.
	SetCurrentTime(seconds float64)

	// Seeking reports whether a seek request is still in progress.
	Seeking() bool

	// NaturalSize returns the intrinsic picture dimensions, or zeros if unknown.
	NaturalSize() (width, height int)

	// ReadyState returns the current load progress.
	ReadyState() ReadyState

	// OnSeeked registers the seek-complete handler, replacing any previous one.
	// Passing nil removes the handler.
	OnSeeked(fn func())

	// OnError registers the fatal-error handler, replacing any previous one.
	// Passing nil removes the handler.
	OnError(fn func(err error))

	// Close releases the source.
	Close() error
}

// FrameReader is implemented by sources that expose the current picture
// as an image.Image.
type FrameReader interface {
	// CurrentFrame returns the picture at the current position.
	CurrentFrame() (image.Image, error)
}
