// Package framegrab samples still frames from a video at computed or
// explicit timestamps.
//
// Callers describe what they want with loosely typed RawOptions. Once the
// video source reports its duration and natural size, the options are
// resolved into an immutable Plan, and the Extractor seeks the source to
// each planned timestamp, renders the picture onto a Surface and encodes it.
package framegrab

// LoadFunc is invoked once, right before the first frame is captured.
type LoadFunc func()

// ProgressFunc is invoked after each captured frame with the number of frames
// done so far and the total planned.
type ProgressFunc func(done, total int)

// RawOptions is the caller's description of an extraction.
//
// Only URL is required. Every other field is optional and loosely typed:
// numbers may be any Go numeric type or a canonical numeric string, as
// produced by YAML, JSON or command-line decoding. Invalid values are never
// rejected; Resolve replaces them with defaults.
type RawOptions struct {
	// URL locates the video.
	URL string `yaml:"url" json:"url"`

	// Format is the encoding media type, e.g. "image/jpeg". Default "image/png".
	Format string `yaml:"format,omitempty" json:"format,omitempty"`

	// Offsets lists explicit timestamps in seconds. When at least one valid
	// offset remains after filtering, Count and the time window are ignored.
	Offsets any `yaml:"offsets,omitempty" json:"offsets,omitempty"`

	// StartTime and EndTime bound the sampling window in seconds.
	StartTime any `yaml:"start_time,omitempty" json:"startTime,omitempty"`
	EndTime   any `yaml:"end_time,omitempty" json:"endTime,omitempty"`

	// Count is the number of evenly spaced frames. Default 1.
	Count any `yaml:"count,omitempty" json:"count,omitempty"`

	// Width and Height are the output dimensions in pixels. Missing
	// dimensions are derived from the video's aspect ratio.
	Width  any `yaml:"width,omitempty" json:"width,omitempty"`
	Height any `yaml:"height,omitempty" json:"height,omitempty"`

	// OnProgress must be a func(done, total int) or ProgressFunc to be used.
	OnProgress any `yaml:"-" json:"-"`

	// OnLoad must be a func() or LoadFunc to be used.
	OnLoad any `yaml:"-" json:"-"`
}

// CapturedFrame is one sampled picture.
type CapturedFrame struct {
	// Offset is the position reported by the source after seeking. It can
	// differ slightly from the requested timestamp.
	Offset float64 `json:"offset"`

	// Image is the encoded picture as a data URL.
	Image string `json:"image"`
}
