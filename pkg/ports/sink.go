package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SavePlanJSON saves the resolved extraction plan as JSON.
	SavePlanJSON(data []byte) error

	// SaveLayoutJSON saves the sprite layout calculation result as JSON.
	SaveLayoutJSON(data []byte) error

	// SaveFrame saves an encoded captured frame.
	SaveFrame(index int, data []byte, ext string) error

	// SaveSprite saves the composed sprite sheet.
	SaveSprite(img image.Image) error
}
