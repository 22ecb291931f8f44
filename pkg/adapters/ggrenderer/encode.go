package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultJPEGQuality matches the quality browsers use for canvas exports.
const DefaultJPEGQuality = 92

// Media types the surface can encode.
const (
	MediaPNG  = "image/png"
	MediaJPEG = "image/jpeg"
	MediaGIF  = "image/gif"
	MediaBMP  = "image/bmp"
	MediaTIFF = "image/tiff"
)

// NormalizeMediaType maps a requested media type to one that can be encoded.
// Unknown types fall back to PNG.
func NormalizeMediaType(mediaType string) string {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	switch mt {
	case MediaPNG, MediaJPEG, MediaGIF, MediaBMP, MediaTIFF:
		return mt
	case "image/jpg":
		return MediaJPEG
	default:
		return MediaPNG
	}
}

// Extension returns the file extension for a media type, without the dot.
func Extension(mediaType string) string {
	switch NormalizeMediaType(mediaType) {
	case MediaJPEG:
		return "jpg"
	case MediaGIF:
		return "gif"
	case MediaBMP:
		return "bmp"
	case MediaTIFF:
		return "tiff"
	default:
		return "png"
	}
}

// encodeMedia encodes img as mediaType and returns the data with the media
// type actually used.
func encodeMedia(img image.Image, mediaType string, quality int) ([]byte, string, error) {
	mt := NormalizeMediaType(mediaType)
	var buf bytes.Buffer
	var err error

	switch mt {
	case MediaJPEG:
		if quality < 1 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	case MediaGIF:
		err = gif.Encode(&buf, img, nil)
	case MediaBMP:
		err = bmp.Encode(&buf, img)
	case MediaTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, "", fmt.Errorf("encode %s: %w", mt, err)
	}
	return buf.Bytes(), mt, nil
}
