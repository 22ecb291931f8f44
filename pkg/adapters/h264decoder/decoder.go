// Package h264decoder decodes H.264 pictures from an MP4 sample table using an
// external ffmpeg process.
package h264decoder

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/user/framesnap/pkg/adapters/mp4reader"
)

var (
	// ErrNotInitialized is returned when decoder methods are called before initialization.
	ErrNotInitialized = errors.New("h264decoder: decoder not initialized")

	// ErrDecodeFailed is returned when ffmpeg produced no picture for a run.
	ErrDecodeFailed = errors.New("h264decoder: decode failed")

	// ErrFFmpegNotFound is returned when ffmpeg is not found.
	ErrFFmpegNotFound = errors.New("h264decoder: ffmpeg not found in PATH")
)

// Decoder decodes runs of H.264 samples.
type Decoder struct {
	mu         sync.Mutex
	customPath string
	ffmpegPath string
}

// New creates a new H.264 decoder.
func New() *Decoder {
	return &Decoder{}
}

// SetFFmpegPath makes Init use the given ffmpeg binary instead of searching for one.
func (d *Decoder) SetFFmpegPath(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.customPath = path
}

// Init locates ffmpeg.
func (d *Decoder) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	path, err := findFFmpeg(d.customPath)
	if err != nil {
		return err
	}
	d.ffmpegPath = path
	return nil
}

// DecodeRun decodes samples first..target of track in decode order and
// returns the picture of sample target. first should be a sync sample.
func (d *Decoder) DecodeRun(track *mp4reader.Track, first, target int) (image.Image, error) {
	d.mu.Lock()
	path := d.ffmpegPath
	d.mu.Unlock()
	if path == "" {
		return nil, ErrNotInitialized
	}
	if first < 0 || target < first || target >= len(track.Samples) {
		return nil, fmt.Errorf("h264decoder: invalid run %d..%d of %d samples", first, target, len(track.Samples))
	}

	stream := buildAnnexB(track, first, target)
	pictures, err := runFFmpeg(path, stream)
	if err != nil {
		return nil, err
	}
	if len(pictures) == 0 {
		return nil, ErrDecodeFailed
	}

	// ffmpeg emits pictures in display order.
	rank := track.DisplayRank(first, target, target)
	if rank >= len(pictures) {
		rank = len(pictures) - 1
	}
	return pictures[rank], nil
}

// Close releases decoder resources.
func (d *Decoder) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ffmpegPath = ""
}

// IsAvailable reports whether ffmpeg can be found.
func IsAvailable() bool {
	_, err := findFFmpeg("")
	return err == nil
}
