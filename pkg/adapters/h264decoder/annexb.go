package h264decoder

import "github.com/user/framesnap/pkg/adapters/mp4reader"

var startCode = []byte{0, 0, 0, 1}

// buildAnnexB converts samples first..last to an Annex B elementary stream.
// Parameter sets are repeated in front of every sync sample.
func buildAnnexB(track *mp4reader.Track, first, last int) []byte {
	var out []byte
	for i := first; i <= last; i++ {
		sample := track.Samples[i]
		if sample.Sync || i == first {
			for _, ps := range track.ParameterSets {
				out = append(out, startCode...)
				out = append(out, ps...)
			}
		}
		out = appendAnnexB(out, sample.Data)
	}
	return out
}

// appendAnnexB converts AVCC format (length-prefixed NALUs) to Annex B
// format (start code prefixed) and appends it to dst. A truncated trailing
// NALU is dropped.
func appendAnnexB(dst, data []byte) []byte {
	offset := 0
	for offset+4 <= len(data) {
		naluLen := int(data[offset])<<24 | int(data[offset+1])<<16 |
			int(data[offset+2])<<8 | int(data[offset+3])
		offset += 4

		if naluLen < 0 || offset+naluLen > len(data) {
			break
		}

		dst = append(dst, startCode...)
		dst = append(dst, data[offset:offset+naluLen]...)
		offset += naluLen
	}
	return dst
}
