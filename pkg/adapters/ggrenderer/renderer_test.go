package ggrenderer

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/framesnap/pkg/ports"
)

func fill(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func rgb(c color.Color) [3]uint8 {
	r, g, b, _ := c.RGBA()
	return [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

func TestRenderer_CreateCanvas(t *testing.T) {
	canvas := New().CreateCanvas(64, 32, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img := canvas.ToImage()

	assert.Equal(t, image.Rect(0, 0, 64, 32), img.Bounds())
	assert.Equal(t, [3]uint8{10, 20, 30}, rgb(img.At(63, 31)))
}

func TestRenderer_EncodeDecode(t *testing.T) {
	r := New()
	src := fill(40, 20, color.RGBA{R: 255, A: 255})

	tests := []struct {
		name     string
		format   ports.ImageFormat
		decodeAs ports.ImageFormat
	}{
		{"jpeg", ports.FormatJPEG, ports.FormatJPEG},
		{"png", ports.FormatPNG, ports.FormatPNG},
		{"png sniffed", ports.FormatPNG, ports.FormatAuto},
		{"jpeg sniffed", ports.FormatJPEG, ports.FormatAuto},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := r.EncodeImage(src, tt.format, 80)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			img, err := r.DecodeImage(data, tt.decodeAs)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds(), img.Bounds())
			assert.Greater(t, rgb(img.At(20, 10))[0], uint8(200))
		})
	}
}

func TestRenderer_Errors(t *testing.T) {
	r := New()
	_, err := r.EncodeImage(fill(2, 2, color.Black), ports.FormatAuto, 0)
	assert.Error(t, err)

	_, err = r.DecodeImage([]byte("not an image"), ports.FormatAuto)
	assert.Error(t, err)
}

func TestRenderer_ResizeImage(t *testing.T) {
	r := New()
	resized := r.ResizeImage(fill(100, 60, color.White), 50, 30)
	assert.Equal(t, image.Rect(0, 0, 50, 30), resized.Bounds())

	degenerate := r.ResizeImage(fill(10, 10, color.White), 0, -4)
	assert.Equal(t, image.Rect(0, 0, 1, 1), degenerate.Bounds())
}

func TestCanvas_DrawImage(t *testing.T) {
	canvas := New().CreateCanvas(100, 100, color.White)
	canvas.DrawImage(fill(20, 20, color.RGBA{R: 255, A: 255}), 10, 10)
	img := canvas.ToImage()

	assert.Equal(t, [3]uint8{255, 0, 0}, rgb(img.At(15, 15)))
	assert.Equal(t, [3]uint8{255, 255, 255}, rgb(img.At(35, 35)))
}

func TestCanvas_StrokeRect(t *testing.T) {
	canvas := New().CreateCanvas(100, 100, color.White)
	canvas.StrokeRect(10, 10, 30, 30, color.Black, 2)
	img := canvas.ToImage()

	assert.Equal(t, [3]uint8{0, 0, 0}, rgb(img.At(10, 20)), "left edge")
	assert.Equal(t, [3]uint8{255, 255, 255}, rgb(img.At(25, 25)), "interior untouched")
	assert.Equal(t, [3]uint8{255, 255, 255}, rgb(img.At(41, 20)), "nothing outside")

	// Zero width draws nothing.
	canvas.StrokeRect(50, 50, 10, 10, color.Black, 0)
	assert.Equal(t, [3]uint8{255, 255, 255}, rgb(canvas.ToImage().At(50, 55)))
}

func TestCanvas_DrawText(t *testing.T) {
	canvas := New().CreateCanvas(200, 50, color.White)
	style := ports.TextStyle{
		FontSize: 14,
		FontPath: filepath.Join(t.TempDir(), "missing.ttf"),
		Color:    color.Black,
		Align:    ports.AlignCenter,
	}

	// A missing font falls back to the built-in face.
	canvas.DrawText("0:01.500", 100, 25, style)
	canvas.DrawText("0:03.000", 100, 25, style)

	dark := false
	img := canvas.ToImage()
	for x := 60; x < 140 && !dark; x++ {
		for y := 15; y < 35; y++ {
			if rgb(img.At(x, y))[0] < 128 {
				dark = true
				break
			}
		}
	}
	assert.True(t, dark, "expected text pixels near the anchor")
}
