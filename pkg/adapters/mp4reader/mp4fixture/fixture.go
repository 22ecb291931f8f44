// Package mp4fixture writes small fragmented MP4 files for tests.
// Sample payloads are opaque, so the files parse but do not decode.
package mp4fixture

import (
	"bytes"
	"fmt"

	"github.com/Eyevinn/mp4ff/av1"
	"github.com/Eyevinn/mp4ff/mp4"
)

// Timescale is the track timescale of generated files.
const Timescale = 12800

// FrameDuration is the duration of every generated sample (25 fps).
const FrameDuration = Timescale / 25

// ConfigOBUs is written to the av1C box of generated files.
var ConfigOBUs = []byte{0x0a, 0x0b, 0x00, 0x00, 0x00, 0x24, 0xcf, 0x7f, 0x0d, 0xbf, 0xff, 0x30, 0x08}

// Sample describes one generated sample.
type Sample struct {
	Data []byte
	Sync bool

	// CTO is the composition time offset in timescale units.
	CTO int32
}

// AV1 builds a single-fragment AV1 file with one video track.
func AV1(width, height int, samples []Sample) ([]byte, error) {
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(Timescale, "video", "en")
	trak := init.Moov.Trak

	av1C := &mp4.Av1CBox{
		CodecConfRec: av1.CodecConfRec{
			Version:            1,
			SeqLevelIdx0:       8,
			ChromaSubsamplingX: 1,
			ChromaSubsamplingY: 1,
			ConfigOBUs:         ConfigOBUs,
		},
	}
	trak.Mdia.Minf.Stbl.Stsd.AddChild(mp4.CreateVisualSampleEntryBox("av01", uint16(width), uint16(height), av1C))
	trak.Tkhd.Width = mp4.Fixed32(width << 16)
	trak.Tkhd.Height = mp4.Fixed32(height << 16)

	frag, err := mp4.CreateFragment(1, 1)
	if err != nil {
		return nil, fmt.Errorf("create fragment: %w", err)
	}
	for i, s := range samples {
		flags := mp4.NonSyncSampleFlags
		if s.Sync {
			flags = mp4.SyncSampleFlags
		}
		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags:                 flags,
				Size:                  uint32(len(s.Data)),
				Dur:                   FrameDuration,
				CompositionTimeOffset: s.CTO,
			},
			DecodeTime: uint64(i) * FrameDuration,
			Data:       s.Data,
		})
	}

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "av01", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode ftyp: %w", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode moov: %w", err)
	}
	if err := frag.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode fragment: %w", err)
	}
	return buf.Bytes(), nil
}

// Frames returns n opaque samples with a sync sample every gop samples.
func Frames(n, gop int) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = Sample{Data: []byte{byte(i), 0xff}, Sync: i%gop == 0}
	}
	return samples
}

// Audio builds an init segment with a single audio track.
func Audio() ([]byte, error) {
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(48000, "audio", "en")

	var buf bytes.Buffer
	if err := init.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode init: %w", err)
	}
	return buf.Bytes(), nil
}
