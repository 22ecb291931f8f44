package ggrenderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/image/draw"

	"github.com/user/framesnap/pkg/ports"
)

// Default surface size, the same as an unsized HTML canvas.
const (
	DefaultSurfaceWidth  = 300
	DefaultSurfaceHeight = 150
)

// ErrNotFrameReader is returned by RenderFrom for sources that cannot
// expose their current picture.
var ErrNotFrameReader = errors.New("ggrenderer: source does not expose its pictures")

// Surface implements ports.Surface on an in-memory RGBA raster.
type Surface struct {
	mu      sync.Mutex
	dc      *gg.Context
	quality int
}

// SurfaceOption configures a Surface.
type SurfaceOption func(*Surface)

// WithJPEGQuality sets the quality of JPEG output, 1 to 100.
func WithJPEGQuality(q int) SurfaceOption {
	return func(s *Surface) {
		if q >= 1 && q <= 100 {
			s.quality = q
		}
	}
}

// NewSurface creates a transparent surface of the default size.
func NewSurface(opts ...SurfaceOption) *Surface {
	s := &Surface{
		dc:      gg.NewContext(DefaultSurfaceWidth, DefaultSurfaceHeight),
		quality: DefaultJPEGQuality,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resize replaces the raster with a transparent one of the given size.
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dc = gg.NewContext(max(1, width), max(1, height))
}

// Clear resets every pixel to transparent black.
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dc.SetColor(color.Transparent)
	s.dc.Clear()
}

// RenderFrom draws the current picture of src scaled into the rectangle.
func (s *Surface) RenderFrom(src ports.VideoSource, x, y, width, height float64) error {
	reader, ok := src.(ports.FrameReader)
	if !ok {
		return ErrNotFrameReader
	}
	img, err := reader.CurrentFrame()
	if err != nil {
		return fmt.Errorf("read current picture: %w", err)
	}

	rect := image.Rect(
		int(math.Round(x)), int(math.Round(y)),
		int(math.Round(x+width)), int(math.Round(y+height)),
	)
	if rect.Empty() || img.Bounds().Empty() {
		return nil
	}

	scaled := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dc.DrawImage(scaled, rect.Min.X, rect.Min.Y)
	return nil
}

// Encode returns the raster as a data URL. Formats that cannot be encoded
// fall back to PNG.
func (s *Surface) Encode(format string) (string, error) {
	s.mu.Lock()
	img := s.dc.Image()
	s.mu.Unlock()

	data, mediaType, err := encodeMedia(img, format, s.quality)
	if err != nil {
		return "", err
	}
	return dataurl.New(data, mediaType).String(), nil
}

// Image returns the current raster.
func (s *Surface) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dc.Image()
}

var _ ports.Surface = (*Surface)(nil)
