package smartdecoder

import (
	"bytes"
	"errors"
	"image"
	"math"
	"testing"

	"github.com/user/framesnap/pkg/adapters/mp4reader"
	"github.com/user/framesnap/pkg/adapters/mp4reader/mp4fixture"
)

type run struct{ first, target int }

type fakeBackend struct {
	runs   []run
	err    error
	closed bool
}

func (f *fakeBackend) DecodeRun(track *mp4reader.Track, first, target int) (image.Image, error) {
	f.runs = append(f.runs, run{first, target})
	if f.err != nil {
		return nil, f.err
	}
	// Encode the target sample in the picture width.
	return image.NewGray(image.Rect(0, 0, target+1, 1)), nil
}

func (f *fakeBackend) Close() { f.closed = true }

func newTestDecoder(t *testing.T, backend *fakeBackend) *Decoder {
	t.Helper()
	d := New(Options{})
	d.newBackend = func(codec Codec, opts Options) (runDecoder, Backend, error) {
		return backend, BackendLibaom, nil
	}
	return d
}

func fixture(t *testing.T, n, gop int) *bytes.Reader {
	t.Helper()
	data, err := mp4fixture.AV1(160, 90, mp4fixture.Frames(n, gop))
	if err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	return bytes.NewReader(data)
}

func TestOpen(t *testing.T) {
	d := newTestDecoder(t, &fakeBackend{})
	defer d.Close()

	info, err := d.Open(fixture(t, 50, 10))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if info.Codec != "av1" {
		t.Errorf("codec: expected av1, got %s", info.Codec)
	}
	if info.Width != 160 || info.Height != 90 {
		t.Errorf("size: expected 160x90, got %dx%d", info.Width, info.Height)
	}
	if math.Abs(info.Duration-2) > 1e-9 {
		t.Errorf("duration: expected 2, got %v", info.Duration)
	}
	if info.FrameCount != 50 {
		t.Errorf("frame count: expected 50, got %d", info.FrameCount)
	}
	if got := d.Info(); got.Codec != CodecAV1 || got.Backend != BackendLibaom {
		t.Errorf("unexpected info %+v", got)
	}
}

func TestDecodeAt(t *testing.T) {
	backend := &fakeBackend{}
	d := newTestDecoder(t, backend)
	defer d.Close()

	if _, err := d.Open(fixture(t, 50, 10)); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	frame, err := d.DecodeAt(0.5)
	if err != nil {
		t.Fatalf("DecodeAt failed: %v", err)
	}
	if frame.Image.Bounds().Dx() != 13 {
		t.Errorf("expected sample 12, got %d", frame.Image.Bounds().Dx()-1)
	}
	if math.Abs(frame.Timestamp-0.48) > 1e-9 || math.Abs(frame.Duration-0.04) > 1e-9 {
		t.Errorf("unexpected timing %v/%v", frame.Timestamp, frame.Duration)
	}
	if len(backend.runs) != 1 || backend.runs[0] != (run{10, 12}) {
		t.Errorf("expected run 10..12, got %v", backend.runs)
	}

	// Same picture is served from the cache.
	if _, err := d.DecodeAt(0.51); err != nil {
		t.Fatalf("DecodeAt failed: %v", err)
	}
	if len(backend.runs) != 1 {
		t.Errorf("expected cached picture, got %d runs", len(backend.runs))
	}

	// Out of range positions clamp.
	if _, err := d.DecodeAt(100); err != nil {
		t.Fatalf("DecodeAt failed: %v", err)
	}
	if _, err := d.DecodeAt(math.NaN()); err != nil {
		t.Fatalf("DecodeAt failed: %v", err)
	}
	want := []run{{10, 12}, {40, 49}, {0, 0}}
	if len(backend.runs) != len(want) {
		t.Fatalf("expected runs %v, got %v", want, backend.runs)
	}
	for i := range want {
		if backend.runs[i] != want[i] {
			t.Errorf("run %d: expected %v, got %v", i, want[i], backend.runs[i])
		}
	}
}

func TestDecodeAtErrors(t *testing.T) {
	d := New(Options{})
	if _, err := d.DecodeAt(0); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}

	broken := errors.New("corrupt bitstream")
	d = newTestDecoder(t, &fakeBackend{err: broken})
	defer d.Close()
	if _, err := d.Open(fixture(t, 5, 5)); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := d.DecodeAt(0); !errors.Is(err, broken) {
		t.Errorf("expected backend error, got %v", err)
	}
}

func TestCloseReleasesBackend(t *testing.T) {
	backend := &fakeBackend{}
	d := newTestDecoder(t, backend)
	if _, err := d.Open(fixture(t, 5, 5)); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	d.Close()
	if !backend.closed {
		t.Error("expected backend to be closed")
	}
	if _, err := d.DecodeAt(0); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen after Close, got %v", err)
	}
}

func TestOpenUnsupported(t *testing.T) {
	d := New(Options{})
	data, err := mp4fixture.Audio()
	if err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	if _, err := d.Open(bytes.NewReader(data)); !errors.Is(err, mp4reader.ErrNoVideoTrack) {
		t.Errorf("expected ErrNoVideoTrack, got %v", err)
	}
}

func TestCreateBackendRejectsUnknownCodec(t *testing.T) {
	if _, _, err := createBackend(CodecUnknown, Options{}); !errors.Is(err, ErrUnsupportedCodec) {
		t.Errorf("expected ErrUnsupportedCodec, got %v", err)
	}
}
