package pipeline

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/vincent-petithory/dataurl"
)

// DecodedFrame is the payload of a captured frame's data URL.
type DecodedFrame struct {
	Data      []byte
	MediaType string // Detected from the bytes, e.g. "image/png"
	Extension string // Without the dot, e.g. "png"
}

// DecodeFrame decodes a data URL produced by a surface. The media type is
// sniffed from the payload because browsers silently fall back to PNG.
func DecodeFrame(image string) (DecodedFrame, error) {
	du, err := dataurl.DecodeString(image)
	if err != nil {
		return DecodedFrame{}, fmt.Errorf("decode data URL: %w", err)
	}
	if len(du.Data) == 0 {
		return DecodedFrame{}, fmt.Errorf("decode data URL: empty payload")
	}

	detected := mimetype.Detect(du.Data)
	mediaType := detected.String()
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	ext := strings.TrimPrefix(detected.Extension(), ".")
	if ext == "" {
		ext = "bin"
	}
	if ext == "jpeg" {
		ext = "jpg"
	}

	return DecodedFrame{
		Data:      du.Data,
		MediaType: mediaType,
		Extension: ext,
	}, nil
}
