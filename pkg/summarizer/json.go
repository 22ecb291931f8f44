package summarizer

import (
	"encoding/json"
	"math"
	"path/filepath"
	"strings"
)

// JSONFormatter renders a summary as indented JSON. Unknown durations and
// other non-finite numbers are written as null.
type JSONFormatter struct{}

func (JSONFormatter) Format(summary *Summary) string {
	data, err := json.MarshalIndent(jsonSummary(summary), "", "  ")
	if err != nil {
		return "{}\n"
	}
	return string(data) + "\n"
}

// ForPath picks the formatter for a summary file by its extension: ".json"
// gets JSON, anything else gets markdown.
func ForPath(path string, opts ...MarkdownOption) Formatter {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSONFormatter{}
	}
	return NewMarkdownFormatter(opts...)
}

type finite float64

func (f finite) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// jsonSummary mirrors Summary with float fields that tolerate NaN.
func jsonSummary(s *Summary) any {
	type source struct {
		SourceInfo
		DurationSec finite `json:"durationSec"`
	}
	type plan struct {
		PlanInfo
		StartSec    finite `json:"startSec"`
		EndSec      finite `json:"endSec"`
		IntervalSec finite `json:"intervalSec"`
	}
	type frame struct {
		FrameInfo
		OffsetSec finite `json:"offsetSec"`
	}

	frames := make([]frame, len(s.Frames))
	for i, f := range s.Frames {
		frames[i] = frame{FrameInfo: f, OffsetSec: finite(f.OffsetSec)}
	}
	return struct {
		*Summary
		Source source  `json:"source"`
		Plan   plan    `json:"plan"`
		Frames []frame `json:"frames"`
	}{
		Summary: s,
		Source:  source{SourceInfo: s.Source, DurationSec: finite(s.Source.DurationSec)},
		Plan: plan{
			PlanInfo:    s.Plan,
			StartSec:    finite(s.Plan.StartSec),
			EndSec:      finite(s.Plan.EndSec),
			IntervalSec: finite(s.Plan.IntervalSec),
		},
		Frames: frames,
	}
}
