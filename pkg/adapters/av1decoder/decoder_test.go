package av1decoder

import (
	"bytes"
	"errors"
	"testing"

	"github.com/user/framesnap/pkg/adapters/mp4reader"
)

func TestDecoder_Init(t *testing.T) {
	decoder := New()
	if err := decoder.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	// Re-initializing resets the state without leaking the old context.
	if err := decoder.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	decoder.Close()
	decoder.Close()
}

func TestDecoder_DecodeWithoutInit(t *testing.T) {
	decoder := New()
	if _, err := decoder.DecodeFrame([]byte{0x00}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestDecoder_DecodeEmptyData(t *testing.T) {
	decoder := New()
	if err := decoder.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer decoder.Close()

	if _, err := decoder.DecodeFrame([]byte{}); err == nil {
		t.Error("expected error when decoding empty data")
	}
}

func TestDecodeRun_InvalidRange(t *testing.T) {
	decoder := New()
	defer decoder.Close()

	track := &mp4reader.Track{Samples: []mp4reader.Sample{{Sync: true}}}
	for _, r := range [][2]int{{-1, 0}, {1, 0}, {0, 1}} {
		if _, err := decoder.DecodeRun(track, r[0], r[1]); err == nil {
			t.Errorf("run %v: expected an error", r)
		}
	}
}

func TestWithConfigOBUs(t *testing.T) {
	got := withConfigOBUs([][]byte{{0x0a, 0x01}}, []byte{0x32, 0x00})
	if !bytes.Equal(got, []byte{0x0a, 0x01, 0x32, 0x00}) {
		t.Errorf("unexpected temporal unit %v", got)
	}

	data := []byte{0x12, 0x00}
	if got := withConfigOBUs(nil, data); !bytes.Equal(got, data) {
		t.Errorf("expected data unchanged, got %v", got)
	}
}
