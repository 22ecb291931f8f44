package framegrab

import (
	"errors"
	"fmt"
)

var (
	// ErrNoLocator is returned when RawOptions.URL is empty.
	ErrNoLocator = errors.New("framegrab: no video locator")

	// ErrExtractionInProgress is returned when Extract is called while
	// another extraction is using the same source.
	ErrExtractionInProgress = errors.New("framegrab: extraction already in progress")

	// errSeekPending is returned when a second seek is issued before the
	// first one completed.
	errSeekPending = errors.New("framegrab: seek already pending")
)

// SourceError wraps a fatal error reported by the video source.
// Extract absorbs it and returns an empty result instead.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return "framegrab: video source failed"
	}
	return fmt.Sprintf("framegrab: video source failed: %v", e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
