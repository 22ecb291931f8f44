// Package summarizer provides summary generation for extraction results.
package summarizer

import "time"

// Summary contains all data collected during an extraction run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time `json:"generatedAt"`

	// Video source
	Source SourceInfo `json:"source"`

	// Resolved sampling plan
	Plan PlanInfo `json:"plan"`

	// Captured frames in capture order
	Frames []FrameInfo `json:"frames"`

	// Written files
	Output OutputInfo `json:"output"`
}

// SourceInfo describes the video the frames were taken from.
type SourceInfo struct {
	Locator     string  `json:"locator"`
	Backend     string  `json:"backend"`
	DurationSec float64 `json:"durationSec"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

// PlanInfo describes the resolved sampling plan.
type PlanInfo struct {
	Explicit    bool    `json:"explicit"` // Offsets were given explicitly
	Format      string  `json:"format"`
	Count       int     `json:"count"`
	StartSec    float64 `json:"startSec"`
	EndSec      float64 `json:"endSec"`
	IntervalSec float64 `json:"intervalSec"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

// FrameInfo describes a single captured frame.
type FrameInfo struct {
	Index     int     `json:"index"`
	OffsetSec float64 `json:"offsetSec"`
	File      string  `json:"file,omitempty"` // Empty when the frame was not written
	Bytes     int     `json:"bytes"`
}

// OutputInfo describes the files written by the run.
type OutputInfo struct {
	Dir          string `json:"dir"`
	Manifest     string `json:"manifest,omitempty"`
	Sprite       string `json:"sprite,omitempty"`
	SpriteWidth  int    `json:"spriteWidth"`
	SpriteHeight int    `json:"spriteHeight"`
	TotalBytes   int64  `json:"totalBytes"`
	ElapsedMs    int    `json:"elapsedMs"`
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets the video source information.
func (b *Builder) WithSource(locator, backend string, durationSec float64, width, height int) *Builder {
	b.summary.Source = SourceInfo{
		Locator:     locator,
		Backend:     backend,
		DurationSec: durationSec,
		Width:       width,
		Height:      height,
	}
	return b
}

// WithPlan sets the sampling plan.
func (b *Builder) WithPlan(plan PlanInfo) *Builder {
	b.summary.Plan = plan
	return b
}

// WithFrames sets the frame table.
func (b *Builder) WithFrames(frames []FrameInfo) *Builder {
	b.summary.Frames = frames
	return b
}

// WithOutput sets the output details.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
