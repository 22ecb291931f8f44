package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/vincent-petithory/dataurl"

	"github.com/user/framesnap/pkg/adapters/ggrenderer"
	"github.com/user/framesnap/pkg/adapters/logger"
	"github.com/user/framesnap/pkg/framegrab"
	"github.com/user/framesnap/pkg/mocks"
	"github.com/user/framesnap/pkg/pipeline"
	"github.com/user/framesnap/pkg/ports"
	"github.com/user/framesnap/pkg/stages/export"
	"github.com/user/framesnap/pkg/stages/extract"
	"github.com/user/framesnap/pkg/stages/layout"
	"github.com/user/framesnap/pkg/stages/sprite"
)

// mockExtractStage is a mock for the extract stage.
type mockExtractStage struct {
	result pipeline.ExtractResult
	err    error
	input  pipeline.ExtractInput
}

func (m *mockExtractStage) Execute(ctx context.Context, input pipeline.ExtractInput) (pipeline.ExtractResult, error) {
	m.input = input
	if m.err != nil {
		return pipeline.ExtractResult{}, m.err
	}
	return m.result, nil
}

// mockLayoutStage is a mock for the layout stage.
type mockLayoutStage struct {
	result pipeline.LayoutResult
	err    error
	input  pipeline.LayoutInput
	called bool
}

func (m *mockLayoutStage) Execute(ctx context.Context, input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
	m.called = true
	m.input = input
	if m.err != nil {
		return pipeline.LayoutResult{}, m.err
	}
	return m.result, nil
}

// mockSpriteStage is a mock for the sprite stage.
type mockSpriteStage struct {
	result pipeline.SpriteResult
	err    error
	input  pipeline.SpriteInput
	called bool
}

func (m *mockSpriteStage) Execute(ctx context.Context, input pipeline.SpriteInput) (pipeline.SpriteResult, error) {
	m.called = true
	m.input = input
	if m.err != nil {
		return pipeline.SpriteResult{}, m.err
	}
	return m.result, nil
}

// mockExportStage is a mock for the export stage.
type mockExportStage struct {
	result pipeline.ExportResult
	err    error
	input  pipeline.ExportInput
	called bool
}

func (m *mockExportStage) Execute(ctx context.Context, input pipeline.ExportInput) (pipeline.ExportResult, error) {
	m.called = true
	m.input = input
	if m.err != nil {
		return pipeline.ExportResult{}, m.err
	}
	return m.result, nil
}

func sampleExtract() pipeline.ExtractResult {
	return pipeline.ExtractResult{
		Plan: &framegrab.Plan{Format: "image/png", Count: 2, EndTime: 4, Interval: 2, Width: 128, Height: 72},
		Frames: []framegrab.CapturedFrame{
			{Offset: 0, Image: "data:image/png;base64,AA=="},
			{Offset: 2, Image: "data:image/png;base64,AA=="},
		},
		Source:    pipeline.SourceInfo{Locator: "clip.mp4", Backend: "mp4", Duration: 4, Width: 1280, Height: 720},
		ElapsedMs: 42,
	}
}

func TestOrchestrator_Run(t *testing.T) {
	extractStage := &mockExtractStage{result: sampleExtract()}
	layoutStage := &mockLayoutStage{
		result: pipeline.LayoutResult{
			Canvas:  pipeline.Dimension{Width: 280, Height: 90},
			Columns: 2,
			Rows:    1,
			Cells:   []pipeline.Rectangle{{X: 9, Y: 9, Width: 128, Height: 72}, {X: 143, Y: 9, Width: 128, Height: 72}},
		},
	}
	spriteStage := &mockSpriteStage{result: pipeline.SpriteResult{Data: []byte("sprite")}}
	exportStage := &mockExportStage{
		result: pipeline.ExportResult{
			Files:        []pipeline.ExportedFile{{Index: 0, Path: "frame-0001.png"}, {Index: 1, Path: "frame-0002.png"}},
			ManifestPath: filepath.Join("out", "frames.json"),
			SpritePath:   filepath.Join("out", "sprite.png"),
			TotalBytes:   1234,
		},
	}
	sink := mocks.NewDebugSink(true)

	orch := New(extractStage, layoutStage, spriteStage, exportStage, sink, logger.NewNoop())

	config := DefaultConfig()
	config.Options = framegrab.RawOptions{URL: "clip.mp4", Count: 2}
	config.OutputDir = "out"
	config.Sprite = true
	config.ShowLabels = true
	config.SpriteFormat = "jpeg"
	config.BackgroundColor = [4]uint8{1, 2, 3, 255}

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if extractStage.input.Options.URL != "clip.mp4" {
		t.Errorf("extract stage got %+v", extractStage.input.Options)
	}

	// Layout is derived from the plan's frame size.
	if layoutStage.input.FrameCount != 2 || layoutStage.input.CellWidth != 128 || layoutStage.input.CellHeight != 72 {
		t.Errorf("unexpected layout input: %+v", layoutStage.input)
	}
	if layoutStage.input.LabelHeight != config.LabelHeight {
		t.Errorf("expected label height %d, got %d", config.LabelHeight, layoutStage.input.LabelHeight)
	}
	if len(sink.LayoutJSON) == 0 {
		t.Error("expected layout JSON to be saved")
	}

	if spriteStage.input.Format != ports.FormatJPEG {
		t.Errorf("expected JPEG sprite format, got %v", spriteStage.input.Format)
	}
	if spriteStage.input.Theme.BackgroundColor != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("expected background override, got %v", spriteStage.input.Theme.BackgroundColor)
	}

	if exportStage.input.Dir != "out" || exportStage.input.Sprite == nil || exportStage.input.SpriteName != "sprite.png" {
		t.Errorf("unexpected export input: %+v", exportStage.input)
	}

	if result.FrameCount != 2 || result.ElapsedMs != 42 {
		t.Errorf("unexpected result counts: %+v", result)
	}
	if result.SpriteWidth != 280 || result.SpriteHeight != 90 {
		t.Errorf("expected sprite 280x90, got %dx%d", result.SpriteWidth, result.SpriteHeight)
	}
	if result.TotalBytes != 1234 || result.ManifestPath == "" || len(result.Files) != 2 {
		t.Errorf("unexpected export result: %+v", result)
	}
	if result.Source.Locator != "clip.mp4" {
		t.Errorf("unexpected source: %+v", result.Source)
	}
}

func TestOrchestrator_Run_WithoutSprite(t *testing.T) {
	layoutStage := &mockLayoutStage{}
	spriteStage := &mockSpriteStage{}
	exportStage := &mockExportStage{}

	orch := New(&mockExtractStage{result: sampleExtract()}, layoutStage, spriteStage, exportStage, mocks.NewDebugSink(false), logger.NewNoop())

	config := DefaultConfig()
	config.Options = framegrab.RawOptions{URL: "clip.mp4"}
	config.OutputDir = "out"

	if _, err := orch.Run(context.Background(), config); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if layoutStage.called || spriteStage.called {
		t.Error("sprite stages should not run when the sprite is disabled")
	}
	if !exportStage.called || exportStage.input.Sprite != nil {
		t.Errorf("expected export without sprite, got %+v", exportStage.input)
	}
}

func TestOrchestrator_Run_InMemory(t *testing.T) {
	exportStage := &mockExportStage{}
	orch := New(&mockExtractStage{result: sampleExtract()}, &mockLayoutStage{}, &mockSpriteStage{}, exportStage, mocks.NewDebugSink(false), logger.NewNoop())

	config := DefaultConfig()
	config.Options = framegrab.RawOptions{URL: "clip.mp4"}

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exportStage.called {
		t.Error("export should not run without an output directory")
	}
	if len(result.Frames) != 2 {
		t.Errorf("expected frames kept in memory, got %d", len(result.Frames))
	}
}

func TestOrchestrator_Run_NoFrames(t *testing.T) {
	spriteStage := &mockSpriteStage{}
	exportStage := &mockExportStage{}
	extracted := pipeline.ExtractResult{Frames: []framegrab.CapturedFrame{}}

	orch := New(&mockExtractStage{result: extracted}, &mockLayoutStage{}, spriteStage, exportStage, mocks.NewDebugSink(false), logger.NewNoop())

	config := DefaultConfig()
	config.Options = framegrab.RawOptions{URL: "broken.mp4"}
	config.OutputDir = "out"
	config.Sprite = true

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spriteStage.called {
		t.Error("sprite should be skipped without frames")
	}
	if !exportStage.called {
		t.Error("manifest should still be written")
	}
	if result.FrameCount != 0 {
		t.Errorf("expected no frames, got %d", result.FrameCount)
	}
}

func TestOrchestrator_Run_StageErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		extract *mockExtractStage
		layout  *mockLayoutStage
		sprite  *mockSpriteStage
		export  *mockExportStage
	}{
		{"extract", &mockExtractStage{err: boom}, &mockLayoutStage{}, &mockSpriteStage{}, &mockExportStage{}},
		{"layout", &mockExtractStage{result: sampleExtract()}, &mockLayoutStage{err: boom}, &mockSpriteStage{}, &mockExportStage{}},
		{"sprite", &mockExtractStage{result: sampleExtract()}, &mockLayoutStage{}, &mockSpriteStage{err: boom}, &mockExportStage{}},
		{"export", &mockExtractStage{result: sampleExtract()}, &mockLayoutStage{}, &mockSpriteStage{}, &mockExportStage{err: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch := New(tt.extract, tt.layout, tt.sprite, tt.export, mocks.NewDebugSink(false), logger.NewNoop())

			config := DefaultConfig()
			config.Options = framegrab.RawOptions{URL: "clip.mp4"}
			config.OutputDir = "out"
			config.Sprite = true

			_, err := orch.Run(context.Background(), config)
			if !errors.Is(err, boom) {
				t.Errorf("expected wrapped stage error, got %v", err)
			}
		})
	}
}

// TestOrchestrator_Run_RealStages wires the real stages around mock ports.
func TestOrchestrator_Run_RealStages(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 32, 18))); err != nil {
		t.Fatal(err)
	}
	frameURL := dataurl.New(buf.Bytes(), "image/png").String()

	source := &mocks.VideoSource{DurationValue: 6, Width: 1920, Height: 1080}
	surface := &mocks.Surface{
		EncodeFunc: func(format string) (string, error) { return frameURL, nil },
	}
	fs := mocks.NewFileSystem()
	sink := mocks.NewDebugSink(false)
	log := logger.NewNoop()

	extractor := framegrab.New(source, surface, &mocks.Clock{}, log)
	orch := New(
		extract.New(extractor, source, sink, log, "mp4"),
		layout.NewStage(),
		sprite.NewStage(ggrenderer.New(), sink, log, 2),
		export.NewStage(fs, log),
		sink,
		log,
	)

	config := DefaultConfig()
	config.Options = framegrab.RawOptions{URL: "clip.mp4", Count: 3, Width: 32}
	config.OutputDir = "out"
	config.Sprite = true

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	source.Close()

	if result.FrameCount != 3 {
		t.Fatalf("expected 3 frames, got %d", result.FrameCount)
	}
	for _, name := range []string{"frame-0001.png", "frame-0002.png", "frame-0003.png", "sprite.png", "frames.json"} {
		if _, ok := fs.GetFile(filepath.Join("out", name)); !ok {
			t.Errorf("expected %s to be written", name)
		}
	}

	// 3 columns of 32x18 cells with default padding, gap and border.
	wantWidth := 8*2 + 3*34 + 2*4
	if result.SpriteWidth != wantWidth {
		t.Errorf("sprite width: expected %d, got %d", wantWidth, result.SpriteWidth)
	}
	data, _ := fs.GetFile(filepath.Join("out", "sprite.png"))
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("sprite is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != wantWidth {
		t.Errorf("sprite image width: expected %d, got %d", wantWidth, img.Bounds().Dx())
	}
}
