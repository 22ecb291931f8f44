// Package ggrenderer provides raster drawing on top of the gg library: the
// Surface frames are captured onto and the Canvas sprite sheets are composed on.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/framesnap/pkg/ports"
)

// Renderer implements ports.Renderer.
type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(bg)
	dc.Clear()
	return &Canvas{dc: dc}
}

func (r *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch format {
	case ports.FormatJPEG:
		img, err = jpeg.Decode(bytes.NewReader(data))
	case ports.FormatPNG:
		img, err = png.Decode(bytes.NewReader(data))
	default:
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var mediaType string
	switch format {
	case ports.FormatJPEG:
		mediaType = MediaJPEG
	case ports.FormatPNG:
		mediaType = MediaPNG
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}
	data, _, err := encodeMedia(img, mediaType, quality)
	return data, err
}

// ResizeImage scales with Catmull-Rom, which keeps thumbnails of
// downscaled video frames sharp.
func (r *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas implements ports.Canvas on a gg.Context. Font faces are loaded
// once per path and size; a font that fails to load falls back to gg's
// built-in face for the rest of the canvas' life.
type Canvas struct {
	dc    *gg.Context
	fonts map[fontKey]bool
	face  fontKey
}

type fontKey struct {
	path string
	size float64
}

func (c *Canvas) DrawImage(img image.Image, x, y int) {
	c.dc.DrawImage(img, x, y)
}

func (c *Canvas) StrokeRect(x, y, w, h int, col color.Color, width float64) {
	if width <= 0 {
		return
	}
	// Inset by half the line width so the stroke stays inside the rectangle.
	half := width / 2
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.DrawRectangle(float64(x)+half, float64(y)+half, float64(w)-width, float64(h)-width)
	c.dc.Stroke()
}

func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	c.useFont(style.FontPath, style.FontSize)
	c.dc.SetColor(style.Color)

	ax := 0.0
	switch style.Align {
	case ports.AlignCenter:
		ax = 0.5
	case ports.AlignRight:
		ax = 1.0
	}
	c.dc.DrawStringAnchored(text, float64(x), float64(y), ax, 0.5)
}

func (c *Canvas) useFont(path string, size float64) {
	key := fontKey{path: path, size: size}
	if path == "" || size <= 0 || key == c.face {
		return
	}
	if c.fonts == nil {
		c.fonts = make(map[fontKey]bool)
	}
	if ok, tried := c.fonts[key]; tried && !ok {
		return
	}
	ok := c.dc.LoadFontFace(path, size) == nil
	c.fonts[key] = ok
	if ok {
		c.face = key
	}
}

func (c *Canvas) ToImage() image.Image {
	return c.dc.Image()
}

var _ ports.Canvas = (*Canvas)(nil)
