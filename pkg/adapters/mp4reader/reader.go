// Package mp4reader builds a random-access sample table for the video track
// of progressive and fragmented MP4 files.
package mp4reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/framesnap/pkg/adapters/codecdetect"
)

var (
	// ErrNoVideoTrack is returned when the file has no video track.
	ErrNoVideoTrack = errors.New("mp4reader: no video track found")

	// ErrNoSamples is returned when the video track has no samples.
	ErrNoSamples = errors.New("mp4reader: video track has no samples")
)

// Sample is one coded picture of the video track.
type Sample struct {
	Data []byte

	// DecodeTime and PresentationTime are in track timescale units.
	// PresentationTime is shifted so the first displayed picture is at zero.
	DecodeTime       uint64
	PresentationTime int64
	Dur              uint32

	Sync bool
}

// Track is the sample table of a video track. Samples are in decode order.
type Track struct {
	ID        uint32
	Codec     codecdetect.Codec
	Timescale uint32
	Width     int
	Height    int

	// ParameterSets holds out-of-band decoder configuration: SPS and PPS
	// NAL units for H.264, configuration OBUs for AV1.
	ParameterSets [][]byte

	Samples []Sample

	// display lists sample indices in presentation order.
	display []int
}

// Read parses an MP4 file and returns the sample table of its first video track.
func Read(reader io.ReadSeeker) (*Track, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}

	codec, trak := codecdetect.DetectFromMP4(mp4File)
	if trak == nil {
		return nil, ErrNoVideoTrack
	}

	track := &Track{
		ID:        trak.Tkhd.TrackID,
		Codec:     codec,
		Timescale: 1000,
	}
	if trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Timescale > 0 {
		track.Timescale = trak.Mdia.Mdhd.Timescale
	}
	track.readSampleEntry(trak)

	if mp4File.IsFragmented() {
		err = track.readFragments(mp4File)
	} else {
		err = track.readSampleTable(trak.Mdia.Minf.Stbl, reader)
	}
	if err != nil {
		return nil, err
	}
	if len(track.Samples) == 0 {
		return nil, ErrNoSamples
	}

	track.index()
	return track, nil
}

// ReadBytes parses MP4 data held in memory.
func ReadBytes(data []byte) (*Track, error) {
	return Read(bytes.NewReader(data))
}

func (t *Track) readSampleEntry(trak *mp4.TrakBox) {
	t.Width = int(trak.Tkhd.Width >> 16)
	t.Height = int(trak.Tkhd.Height >> 16)

	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		entry, ok := child.(*mp4.VisualSampleEntryBox)
		if !ok {
			continue
		}
		if entry.Width > 0 && entry.Height > 0 {
			t.Width = int(entry.Width)
			t.Height = int(entry.Height)
		}
		if entry.AvcC != nil {
			for _, sps := range entry.AvcC.SPSnalus {
				t.ParameterSets = append(t.ParameterSets, sps)
			}
			for _, pps := range entry.AvcC.PPSnalus {
				t.ParameterSets = append(t.ParameterSets, pps)
			}
		}
		if entry.Av1C != nil && len(entry.Av1C.CodecConfRec.ConfigOBUs) > 0 {
			t.ParameterSets = append(t.ParameterSets, entry.Av1C.CodecConfRec.ConfigOBUs)
		}
		return
	}
}

func (t *Track) readFragments(mp4File *mp4.File) error {
	var trex *mp4.TrexBox
	if mp4File.Init != nil && mp4File.Init.Moov != nil && mp4File.Init.Moov.Mvex != nil {
		for _, tr := range mp4File.Init.Moov.Mvex.Trexs {
			if tr.TrackID == t.ID {
				trex = tr
				break
			}
		}
	}

	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd.TrackID != t.ID {
					continue
				}

				samples, err := frag.GetFullSamples(trex)
				if err != nil {
					return fmt.Errorf("get samples: %w", err)
				}
				for _, s := range samples {
					t.Samples = append(t.Samples, Sample{
						Data:             s.Data,
						DecodeTime:       s.DecodeTime,
						PresentationTime: int64(s.DecodeTime) + int64(s.CompositionTimeOffset),
						Dur:              s.Dur,
						Sync:             s.Flags == mp4.SyncSampleFlags,
					})
				}
			}
		}
	}

	// Files written without sync flags are treated as all-intra.
	if !t.anySync() {
		for i := range t.Samples {
			t.Samples[i].Sync = true
		}
	}
	return nil
}

func (t *Track) readSampleTable(stbl *mp4.StblBox, reader io.ReadSeeker) error {
	if stbl.Stsz == nil {
		return fmt.Errorf("no stsz box found")
	}

	syncSamples := make(map[uint32]bool)
	if stbl.Stss != nil {
		for _, nr := range stbl.Stss.SampleNumber {
			syncSamples[nr] = true
		}
	}

	for nr := uint32(1); nr <= stbl.Stsz.SampleNumber; nr++ {
		data, err := getSampleData(stbl, reader, nr)
		if err != nil {
			return fmt.Errorf("read sample %d: %w", nr, err)
		}

		var decodeTime uint64
		var dur uint32
		if stbl.Stts != nil {
			decodeTime, dur = stbl.Stts.GetDecodeTime(nr)
		}
		pts := int64(decodeTime)
		if stbl.Ctts != nil {
			pts += int64(stbl.Ctts.GetCompositionTimeOffset(nr))
		}

		t.Samples = append(t.Samples, Sample{
			Data:             data,
			DecodeTime:       decodeTime,
			PresentationTime: pts,
			Dur:              dur,
			// Without an stss box every sample is a sync sample.
			Sync: stbl.Stss == nil || syncSamples[nr],
		})
	}
	return nil
}

func (t *Track) anySync() bool {
	for _, s := range t.Samples {
		if s.Sync {
			return true
		}
	}
	return false
}

// index normalizes presentation times and builds the display order.
func (t *Track) index() {
	first := t.Samples[0].PresentationTime
	for _, s := range t.Samples {
		first = min(first, s.PresentationTime)
	}
	for i := range t.Samples {
		t.Samples[i].PresentationTime -= first
	}

	t.display = make([]int, len(t.Samples))
	for i := range t.display {
		t.display[i] = i
	}
	sort.SliceStable(t.display, func(a, b int) bool {
		return t.Samples[t.display[a]].PresentationTime < t.Samples[t.display[b]].PresentationTime
	})
}

// Duration returns the presentation length of the track in seconds.
func (t *Track) Duration() float64 {
	last := t.Samples[t.display[len(t.display)-1]]
	return t.seconds(last.PresentationTime + int64(last.Dur))
}

// Time returns the presentation position of sample i in seconds.
func (t *Track) Time(i int) float64 {
	return t.seconds(t.Samples[i].PresentationTime)
}

// SampleDuration returns the display duration of sample i in seconds.
func (t *Track) SampleDuration(i int) float64 {
	return t.seconds(int64(t.Samples[i].Dur))
}

// IndexAt returns the index of the sample displayed at the given position.
// Positions before the first picture map to the first one and positions past
// the end map to the last one.
func (t *Track) IndexAt(seconds float64) int {
	ticks := int64(math.Round(seconds * float64(t.Timescale)))
	n := sort.Search(len(t.display), func(k int) bool {
		return t.Samples[t.display[k]].PresentationTime > ticks
	})
	if n == 0 {
		return t.display[0]
	}
	return t.display[n-1]
}

// SyncBefore returns the index of the last sync sample at or before i in
// decode order, or 0 when there is none.
func (t *Track) SyncBefore(i int) int {
	for j := i; j >= 0; j-- {
		if t.Samples[j].Sync {
			return j
		}
	}
	return 0
}

// DisplayRank returns the position of sample i among samples first..last
// sorted by presentation time.
func (t *Track) DisplayRank(first, last, i int) int {
	rank := 0
	pts := t.Samples[i].PresentationTime
	for j := first; j <= last; j++ {
		p := t.Samples[j].PresentationTime
		if p < pts || (p == pts && j < i) {
			rank++
		}
	}
	return rank
}

func (t *Track) seconds(ticks int64) float64 {
	return float64(ticks) / float64(t.Timescale)
}

// getSampleData reads one sample of a progressive file.
func getSampleData(stbl *mp4.StblBox, reader io.ReadSeeker, sampleNr uint32) ([]byte, error) {
	if stbl.Stsc == nil || stbl.Stsz == nil {
		return nil, fmt.Errorf("missing stsc or stsz box")
	}

	chunkNr, firstSampleInChunk, err := stbl.Stsc.ChunkNrFromSampleNr(int(sampleNr))
	if err != nil {
		return nil, fmt.Errorf("get chunk nr: %w", err)
	}

	var chunkOffset uint64
	switch {
	case stbl.Stco != nil:
		chunkOffset, err = stbl.Stco.GetOffset(chunkNr)
		if err != nil {
			return nil, fmt.Errorf("get chunk offset: %w", err)
		}
	case stbl.Co64 != nil:
		if chunkNr < 1 || chunkNr > len(stbl.Co64.ChunkOffset) {
			return nil, fmt.Errorf("chunk nr out of range")
		}
		chunkOffset = stbl.Co64.ChunkOffset[chunkNr-1]
	default:
		return nil, fmt.Errorf("no stco or co64 box")
	}

	offset := chunkOffset
	for s := uint32(firstSampleInChunk); s < sampleNr; s++ {
		offset += uint64(stbl.Stsz.GetSampleSize(int(s)))
	}

	if _, err := reader.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to sample: %w", err)
	}
	data := make([]byte, stbl.Stsz.GetSampleSize(int(sampleNr)))
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, fmt.Errorf("read sample: %w", err)
	}
	return data, nil
}
