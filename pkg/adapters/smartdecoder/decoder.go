// Package smartdecoder provides a random-access video decoder that detects the
// codec of an MP4 file and selects the appropriate backend.
package smartdecoder

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"sync"

	"github.com/user/framesnap/pkg/adapters/av1decoder"
	"github.com/user/framesnap/pkg/adapters/codecdetect"
	"github.com/user/framesnap/pkg/adapters/h264decoder"
	"github.com/user/framesnap/pkg/adapters/mp4reader"
	"github.com/user/framesnap/pkg/ports"
)

// Codec represents the video codec type (re-exported from codecdetect).
type Codec = codecdetect.Codec

const (
	// CodecH264 represents H.264/AVC codec.
	CodecH264 = codecdetect.CodecH264
	// CodecAV1 represents AV1 codec.
	CodecAV1 = codecdetect.CodecAV1
	// CodecUnknown represents an unknown codec.
	CodecUnknown = codecdetect.CodecUnknown
)

// Backend represents the decoding backend used.
type Backend string

const (
	// BackendFFmpeg represents FFmpeg-based decoding.
	BackendFFmpeg Backend = "ffmpeg"
	// BackendLibaom represents libaom for AV1 decoding.
	BackendLibaom Backend = "libaom"
)

// Info contains information about the selected decoder.
type Info struct {
	// Codec is the detected codec.
	Codec Codec
	// Backend is the decoding backend being used.
	Backend Backend
}

// Options configures the smart decoder behavior.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
}

var (
	// ErrUnsupportedCodec is returned when the codec is not supported.
	ErrUnsupportedCodec = errors.New("smartdecoder: unsupported codec")
	// ErrNoDecoderAvailable is returned when no decoder is available for the codec.
	ErrNoDecoderAvailable = errors.New("smartdecoder: no decoder available")
	// ErrNotOpen is returned when DecodeAt is called before Open.
	ErrNotOpen = errors.New("smartdecoder: no stream open")
)

// runDecoder decodes a run of samples that starts at a sync sample.
type runDecoder interface {
	DecodeRun(track *mp4reader.Track, first, target int) (image.Image, error)
	Close()
}

// Decoder implements ports.VideoDecoder for MP4 files.
// Decoded pictures are cached by sample, so repeated positions that map to
// the same picture are decoded once.
type Decoder struct {
	opts Options

	mu      sync.Mutex
	track   *mp4reader.Track
	backend runDecoder
	info    Info

	cachedIndex int
	cached      ports.VideoFrame

	// newBackend selects the backend for a codec. Replaced in tests.
	newBackend func(codec Codec, opts Options) (runDecoder, Backend, error)
}

// New creates a decoder. Call Open before decoding.
func New(opts Options) *Decoder {
	return &Decoder{
		opts:        opts,
		cachedIndex: -1,
		newBackend:  createBackend,
	}
}

// Open parses the container and prepares a backend for its video codec.
// A previously opened stream is closed first.
func (d *Decoder) Open(reader io.ReadSeeker) (ports.StreamInfo, error) {
	track, err := mp4reader.Read(reader)
	if err != nil {
		return ports.StreamInfo{}, err
	}
	if !track.Codec.Supported() {
		return ports.StreamInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedCodec, track.Codec)
	}

	backend, kind, err := d.newBackend(track.Codec, d.opts)
	if err != nil {
		return ports.StreamInfo{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()
	d.track = track
	d.backend = backend
	d.info = Info{Codec: track.Codec, Backend: kind}

	return ports.StreamInfo{
		Codec:      string(track.Codec),
		Width:      track.Width,
		Height:     track.Height,
		Duration:   track.Duration(),
		FrameCount: len(track.Samples),
	}, nil
}

// DecodeAt decodes the picture displayed at the given position. Positions
// outside the stream are clamped to the first or last picture.
func (d *Decoder) DecodeAt(seconds float64) (ports.VideoFrame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.track == nil {
		return ports.VideoFrame{}, ErrNotOpen
	}
	if math.IsNaN(seconds) {
		seconds = 0
	}

	index := d.track.IndexAt(seconds)
	if index == d.cachedIndex {
		return d.cached, nil
	}

	first := d.track.SyncBefore(index)
	img, err := d.backend.DecodeRun(d.track, first, index)
	if err != nil {
		return ports.VideoFrame{}, fmt.Errorf("decode sample %d: %w", index, err)
	}

	d.cachedIndex = index
	d.cached = ports.VideoFrame{
		Image:     img,
		Timestamp: d.track.Time(index),
		Duration:  d.track.SampleDuration(index),
	}
	return d.cached, nil
}

// Info returns information about the selected backend.
func (d *Decoder) Info() Info {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.info
}

// Close releases decoder resources.
func (d *Decoder) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()
}

func (d *Decoder) closeLocked() {
	if d.backend != nil {
		d.backend.Close()
	}
	d.backend = nil
	d.track = nil
	d.cachedIndex = -1
	d.cached = ports.VideoFrame{}
}

func createBackend(codec Codec, opts Options) (runDecoder, Backend, error) {
	switch codec {
	case CodecAV1:
		dec := av1decoder.New()
		if err := dec.Init(); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrNoDecoderAvailable, err)
		}
		return dec, BackendLibaom, nil

	case CodecH264:
		dec := h264decoder.New()
		if opts.FFmpegPath != "" {
			dec.SetFFmpegPath(opts.FFmpegPath)
		}
		if err := dec.Init(); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrNoDecoderAvailable, err)
		}
		return dec, BackendFFmpeg, nil

	default:
		return nil, "", ErrUnsupportedCodec
	}
}

// DetectCodecFromReader detects the codec from a reader without creating a decoder.
func DetectCodecFromReader(reader io.ReadSeeker) (Codec, error) {
	return codecdetect.DetectFromReader(reader)
}

// IsH264Available checks if H.264 decoding is available.
func IsH264Available() bool {
	return h264decoder.IsAvailable()
}

var _ ports.VideoDecoder = (*Decoder)(nil)
