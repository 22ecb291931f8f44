package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts image processing operations used when composing
// captured frames.
type Renderer interface {
	// CreateCanvas returns a canvas filled with bg.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// DecodeImage decodes data. FormatAuto sniffs the format.
	DecodeImage(data []byte, format ImageFormat) (image.Image, error)

	// EncodeImage encodes img as JPEG or PNG. Quality applies to JPEG only.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage scales img to exactly width x height.
	ResizeImage(img image.Image, width, height int) image.Image
}

// Canvas is the drawing target a sprite sheet is composed on.
type Canvas interface {
	// DrawImage copies img with its top-left corner at (x, y).
	DrawImage(img image.Image, x, y int)

	// StrokeRect outlines the rectangle with a line of the given width.
	StrokeRect(x, y, w, h int, c color.Color, width float64)

	// DrawText draws a single line of text anchored at (x, y). The text is
	// vertically centered on y and aligned horizontally by style.Align.
	DrawText(text string, x, y int, style TextStyle)

	ToImage() image.Image
}

// TextStyle defines text rendering properties.
type TextStyle struct {
	FontSize float64
	FontPath string
	Color    color.Color
	Align    TextAlign
}

// TextAlign specifies text alignment.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
	// FormatAuto detects the format from the data when decoding.
	FormatAuto
)

// ParseImageFormat maps a file extension or media type to an ImageFormat.
// Unrecognized values map to FormatAuto.
func ParseImageFormat(s string) ImageFormat {
	switch s {
	case "jpg", "jpeg", "image/jpeg":
		return FormatJPEG
	case "png", "image/png":
		return FormatPNG
	default:
		return FormatAuto
	}
}
