package ports

import (
	"image"
	"io"
)

// VideoFrame represents a decoded video frame with timing information.
type VideoFrame struct {
	Image     image.Image
	Timestamp float64 // Presentation position in seconds
	Duration  float64 // Duration in seconds
}

// StreamInfo describes the video track of a container.
type StreamInfo struct {
	Codec      string
	Width      int
	Height     int
	Duration   float64 // Seconds
	FrameCount int
}

// VideoDecoder abstracts random-access video decoding.
type VideoDecoder interface {
	// Open parses the container and prepares the decoder.
	Open(reader io.ReadSeeker) (StreamInfo, error)

	// DecodeAt decodes the frame displayed at the given position in seconds.
	DecodeAt(seconds float64) (VideoFrame, error)

	// Close releases decoder resources.
	Close()
}
