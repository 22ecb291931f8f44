// Package codecdetect identifies the video codec of MP4 files.
package codecdetect

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
)

// Codec represents a video codec type.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecAV1     Codec = "av1"
	CodecHEVC    Codec = "hevc"
	CodecUnknown Codec = "unknown"
)

// Supported reports whether frames of this codec can be decoded.
func (c Codec) Supported() bool {
	return c == CodecH264 || c == CodecAV1
}

// DetectFromFile detects the video codec used in an MP4 file.
func DetectFromFile(path string) (Codec, error) {
	f, err := os.Open(path)
	if err != nil {
		return CodecUnknown, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return DetectFromReader(f)
}

// DetectFromReader detects the video codec from an io.ReadSeeker and
// rewinds it afterwards.
func DetectFromReader(reader io.ReadSeeker) (Codec, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return CodecUnknown, fmt.Errorf("decode mp4: %w", err)
	}

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return CodecUnknown, fmt.Errorf("seek: %w", err)
	}

	codec, trak := DetectFromMP4(mp4File)
	if trak == nil {
		return CodecUnknown, fmt.Errorf("no video track found")
	}
	return codec, nil
}

// DetectFromBytes detects the video codec from MP4 data bytes.
func DetectFromBytes(data []byte) (Codec, error) {
	return DetectFromReader(bytes.NewReader(data))
}

// DetectFromMP4 returns the codec and the first video track of a parsed file.
// The track is nil when the file has no video track. Fragmented files are
// searched through their init segment.
func DetectFromMP4(mp4File *mp4.File) (Codec, *mp4.TrakBox) {
	var moov *mp4.MoovBox
	switch {
	case mp4File.IsFragmented() && mp4File.Init != nil:
		moov = mp4File.Init.Moov
	default:
		moov = mp4File.Moov
	}
	if moov == nil {
		return CodecUnknown, nil
	}

	for _, trak := range moov.Traks {
		if !IsVideoTrack(trak) {
			continue
		}
		return DetectTrack(trak), trak
	}
	return CodecUnknown, nil
}

// IsVideoTrack reports whether trak carries video and has a sample description.
func IsVideoTrack(trak *mp4.TrakBox) bool {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
		return false
	}
	return trak.Mdia.Minf != nil && trak.Mdia.Minf.Stbl != nil && trak.Mdia.Minf.Stbl.Stsd != nil
}

// DetectTrack returns the codec of a video track from its sample entry.
func DetectTrack(trak *mp4.TrakBox) Codec {
	if !IsVideoTrack(trak) {
		return CodecUnknown
	}

	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		switch child.Type() {
		case "avc1", "avc3":
			return CodecH264
		case "av01":
			return CodecAV1
		case "hvc1", "hev1":
			return CodecHEVC
		}
	}
	return CodecUnknown
}
