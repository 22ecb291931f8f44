package summarizer

import (
	"encoding/json"
	"math"
	"testing"
)

func TestJSONFormatter_Format(t *testing.T) {
	s := sampleSummary()
	s.Source.DurationSec = math.NaN()

	out := JSONFormatter{}.Format(s)

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	source := got["source"].(map[string]any)
	if source["locator"] != s.Source.Locator {
		t.Errorf("locator: %v", source["locator"])
	}
	if v, ok := source["durationSec"]; !ok || v != nil {
		t.Errorf("expected null duration, got %v", v)
	}

	frames := got["frames"].([]any)
	if len(frames) != len(s.Frames) {
		t.Fatalf("expected %d frames, got %d", len(s.Frames), len(frames))
	}
	last := frames[len(frames)-1].(map[string]any)
	if last["offsetSec"] != s.Frames[len(s.Frames)-1].OffsetSec {
		t.Errorf("offset: %v", last["offsetSec"])
	}

	if _, ok := got["generatedAt"]; !ok {
		t.Error("expected generatedAt")
	}
	if _, ok := got["output"].(map[string]any)["totalBytes"]; !ok {
		t.Error("expected output.totalBytes")
	}
}

func TestForPath(t *testing.T) {
	if _, ok := ForPath("out/summary.JSON").(JSONFormatter); !ok {
		t.Error("expected JSON formatter for .JSON")
	}
	if _, ok := ForPath("out/summary.md").(*MarkdownFormatter); !ok {
		t.Error("expected markdown formatter for .md")
	}
	if _, ok := ForPath("summary").(*MarkdownFormatter); !ok {
		t.Error("expected markdown formatter without extension")
	}
}
