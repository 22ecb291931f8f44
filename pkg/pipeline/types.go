package pipeline

import (
	"image"
	"image/color"

	"github.com/user/framesnap/pkg/framegrab"
	"github.com/user/framesnap/pkg/ports"
)

// =============================================================================
// Common Types
// =============================================================================

// Dimension represents width and height.
type Dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rectangle represents a rectangular area.
type Rectangle struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SourceInfo describes the video as observed by the extraction.
type SourceInfo struct {
	Locator  string  `json:"locator"`
	Backend  string  `json:"backend"`
	Duration float64 `json:"duration"` // Seconds, 0 when unknown
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

// =============================================================================
// Extract Stage Types
// =============================================================================

// ExtractInput contains parameters for frame extraction.
type ExtractInput struct {
	Options framegrab.RawOptions
}

// ExtractResult contains the sampled frames.
type ExtractResult struct {
	// Plan is nil when the source failed before it became ready.
	Plan   *framegrab.Plan
	Frames []framegrab.CapturedFrame
	Source SourceInfo

	// ElapsedMs is the wall time of the extraction.
	ElapsedMs int
}

// =============================================================================
// Layout Stage Types
// =============================================================================

// LayoutInput contains parameters for the sprite grid calculation.
type LayoutInput struct {
	FrameCount  int // Number of cells
	CellWidth   int // Width of one frame
	CellHeight  int // Height of one frame
	Columns     int // Number of columns (default: 5)
	Gap         int // Gap between cells (default: 4)
	Padding     int // Padding around the grid (default: 8)
	BorderWidth int // Border drawn around each cell (default: 1)
	LabelHeight int // Height of the timestamp label under each cell (default: 0)
}

// DefaultLayoutInput returns LayoutInput with default values.
func DefaultLayoutInput() LayoutInput {
	return LayoutInput{
		Columns:     5,
		Gap:         4,
		Padding:     8,
		BorderWidth: 1,
	}
}

// LayoutResult contains the calculated sprite dimensions and positions.
type LayoutResult struct {
	// Canvas is the size of the whole sprite sheet.
	Canvas Dimension `json:"canvas"`

	Columns int `json:"columns"`
	Rows    int `json:"rows"`
	Border  int `json:"border"`

	// Cells holds one frame rectangle per frame, in capture order.
	Cells []Rectangle `json:"cells"`

	// Labels holds the label area under each cell. Empty without labels.
	Labels []Rectangle `json:"labels,omitempty"`
}

// =============================================================================
// Sprite Stage Types
// =============================================================================

// SpriteInput contains parameters for sprite sheet composition.
type SpriteInput struct {
	Frames     []framegrab.CapturedFrame
	Layout     LayoutResult
	Theme      SpriteTheme
	ShowLabels bool
	Format     ports.ImageFormat
	Quality    int // JPEG quality (1-100)
}

// SpriteTheme defines sprite sheet styling.
type SpriteTheme struct {
	BackgroundColor color.Color
	BorderColor     color.Color
	LabelColor      color.Color
	FontPath        string
}

// DefaultSpriteTheme returns a default sprite theme.
func DefaultSpriteTheme() SpriteTheme {
	return SpriteTheme{
		BackgroundColor: color.RGBA{R: 30, G: 30, B: 30, A: 255},
		BorderColor:     color.RGBA{R: 80, G: 80, B: 80, A: 255},
		LabelColor:      color.RGBA{R: 220, G: 220, B: 220, A: 255},
	}
}

// SpriteResult contains the composed sprite sheet.
type SpriteResult struct {
	Image image.Image
	Data  []byte
	Cells []SpriteCell
}

// SpriteCell locates one frame inside the sprite sheet.
type SpriteCell struct {
	Index  int     `json:"index"`
	Offset float64 `json:"offset"`
	Rectangle
}

// =============================================================================
// Export Stage Types
// =============================================================================

// ExportInput contains the frames and sprite to persist.
type ExportInput struct {
	Dir    string
	Frames []framegrab.CapturedFrame
	Plan   *framegrab.Plan
	Source SourceInfo

	// Sprite is optional.
	Sprite     *SpriteResult
	SpriteName string // File name of the sprite, e.g. "sprite.png"
}

// ExportResult lists the files written.
type ExportResult struct {
	Files        []ExportedFile
	ManifestPath string
	SpritePath   string
	TotalBytes   int64
}

// ExportedFile is one frame written to disk.
type ExportedFile struct {
	Index     int     `json:"index"`
	Offset    float64 `json:"offset"`
	Path      string  `json:"path"`
	MediaType string  `json:"mediaType"`
	Bytes     int     `json:"bytes"`
}
