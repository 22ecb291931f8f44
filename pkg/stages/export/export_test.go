package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/vincent-petithory/dataurl"

	"github.com/user/framesnap/pkg/adapters/logger"
	"github.com/user/framesnap/pkg/framegrab"
	"github.com/user/framesnap/pkg/mocks"
	"github.com/user/framesnap/pkg/pipeline"
)

func frameURL(t *testing.T, mediaType string) (string, []byte) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 3, 3))
	var buf bytes.Buffer
	var err error
	if mediaType == "image/jpeg" {
		err = jpeg.Encode(&buf, img, nil)
	} else {
		err = png.Encode(&buf, img)
	}
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return dataurl.New(buf.Bytes(), mediaType).String(), buf.Bytes()
}

func TestStage_Execute(t *testing.T) {
	fs := mocks.NewFileSystem()
	stage := NewStage(fs, logger.NewNoop())

	pngURL, pngData := frameURL(t, "image/png")
	jpgURL, jpgData := frameURL(t, "image/jpeg")
	plan := &framegrab.Plan{Format: "image/png", Count: 2, EndTime: 4, Interval: 2, Width: 3, Height: 3}

	result, err := stage.Execute(context.Background(), pipeline.ExportInput{
		Dir: "out",
		Frames: []framegrab.CapturedFrame{
			{Offset: 0, Image: pngURL},
			{Offset: 2, Image: jpgURL},
		},
		Plan:   plan,
		Source: pipeline.SourceInfo{Locator: "clip.mp4", Backend: "mp4", Duration: 4, Width: 3, Height: 3},
		Sprite: &pipeline.SpriteResult{
			Image: image.NewRGBA(image.Rect(0, 0, 20, 10)),
			Data:  []byte("sprite-bytes"),
			Cells: []pipeline.SpriteCell{{Index: 0}, {Index: 1, Offset: 2}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if exists, _ := fs.Exists(context.Background(), "out"); !exists {
		t.Error("expected output directory created")
	}

	got, ok := fs.GetFile(filepath.Join("out", "frame-0001.png"))
	if !ok || !bytes.Equal(got, pngData) {
		t.Error("frame-0001.png missing or different")
	}
	got, ok = fs.GetFile(filepath.Join("out", "frame-0002.jpg"))
	if !ok || !bytes.Equal(got, jpgData) {
		t.Error("frame-0002.jpg missing or different")
	}
	got, ok = fs.GetFile(filepath.Join("out", DefaultSpriteName))
	if !ok || string(got) != "sprite-bytes" {
		t.Error("sprite missing or different")
	}

	if len(result.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(result.Files))
	}
	if result.Files[1].MediaType != "image/jpeg" || result.Files[1].Offset != 2 {
		t.Errorf("unexpected second file: %+v", result.Files[1])
	}
	wantTotal := int64(len(pngData) + len(jpgData) + len("sprite-bytes"))
	if result.TotalBytes != wantTotal {
		t.Errorf("total bytes: expected %d, got %d", wantTotal, result.TotalBytes)
	}

	raw, ok := fs.GetFile(result.ManifestPath)
	if !ok {
		t.Fatalf("manifest not written at %s", result.ManifestPath)
	}
	var manifest Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if manifest.Source.Locator != "clip.mp4" {
		t.Errorf("manifest source: %+v", manifest.Source)
	}
	if manifest.Plan == nil || manifest.Plan.Count != 2 {
		t.Errorf("manifest plan: %+v", manifest.Plan)
	}
	if len(manifest.Frames) != 2 || manifest.Frames[0].Path != "frame-0001.png" {
		t.Errorf("manifest frames: %+v", manifest.Frames)
	}
	if manifest.Sprite == nil || manifest.Sprite.Width != 20 || manifest.Sprite.Height != 10 || len(manifest.Sprite.Cells) != 2 {
		t.Errorf("manifest sprite: %+v", manifest.Sprite)
	}
}

func TestStage_Execute_NoFrames(t *testing.T) {
	fs := mocks.NewFileSystem()
	result, err := NewStage(fs, logger.NewNoop()).Execute(context.Background(), pipeline.ExportInput{
		Dir:        "out",
		Frames:     []framegrab.CapturedFrame{},
		SpriteName: "sheet.jpg",
		Sprite:     &pipeline.SpriteResult{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	files := fs.GetAllFiles()
	if len(files) != 1 {
		t.Errorf("expected only the manifest, got %d files", len(files))
	}
	if result.SpritePath != "" {
		t.Errorf("expected no sprite for empty data, got %s", result.SpritePath)
	}

	var manifest map[string]interface{}
	if err := json.Unmarshal(files[result.ManifestPath], &manifest); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if frames, ok := manifest["frames"].([]interface{}); !ok || len(frames) != 0 {
		t.Errorf("expected an empty frames array, got %v", manifest["frames"])
	}
}

func TestStage_Execute_Errors(t *testing.T) {
	good, _ := frameURL(t, "image/png")

	t.Run("no directory", func(t *testing.T) {
		_, err := NewStage(mocks.NewFileSystem(), logger.NewNoop()).Execute(context.Background(), pipeline.ExportInput{})
		if err == nil {
			t.Error("expected error")
		}
	})

	t.Run("bad frame", func(t *testing.T) {
		_, err := NewStage(mocks.NewFileSystem(), logger.NewNoop()).Execute(context.Background(), pipeline.ExportInput{
			Dir:    "out",
			Frames: []framegrab.CapturedFrame{{Image: "nope"}},
		})
		if err == nil {
			t.Error("expected error")
		}
	})

	t.Run("write failure", func(t *testing.T) {
		fs := mocks.NewFileSystem()
		fs.WriteFileFunc = func(path string, data []byte) error {
			return errors.New("read-only")
		}
		_, err := NewStage(fs, logger.NewNoop()).Execute(context.Background(), pipeline.ExportInput{
			Dir:    "out",
			Frames: []framegrab.CapturedFrame{{Image: good}},
		})
		if err == nil {
			t.Error("expected error")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewStage(mocks.NewFileSystem(), logger.NewNoop()).Execute(ctx, pipeline.ExportInput{
			Dir:    "out",
			Frames: []framegrab.CapturedFrame{{Image: good}},
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestStage_Execute_RemovesStaleFiles(t *testing.T) {
	fs := mocks.NewFileSystem()
	previous, _ := json.Marshal(Manifest{
		Frames: []pipeline.ExportedFile{
			{Index: 0, Path: "frame-0001.png"},
			{Index: 1, Path: "frame-0002.png"},
			{Index: 2, Path: "frame-0003.png"},
			{Index: 3, Path: "../outside.png"},
		},
		Sprite: &SpriteManifest{File: "old-sheet.png"},
	})
	fs.Put(filepath.Join("out", ManifestName), previous)
	for _, name := range []string{"frame-0001.png", "frame-0002.png", "frame-0003.png", "old-sheet.png", "notes.txt"} {
		fs.Put(filepath.Join("out", name), []byte("old"))
	}

	good, data := frameURL(t, "image/png")
	_, err := NewStage(fs, logger.NewNoop()).Execute(context.Background(), pipeline.ExportInput{
		Dir:    "out",
		Frames: []framegrab.CapturedFrame{{Image: good}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		filepath.Join("out", "frame-0002.png"),
		filepath.Join("out", "frame-0003.png"),
		filepath.Join("out", "old-sheet.png"),
	}
	got := fs.Removed()
	if len(got) != len(want) {
		t.Fatalf("removed: expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("removed[%d]: expected %s, got %s", i, want[i], got[i])
		}
	}
	if b, ok := fs.GetFile(filepath.Join("out", "frame-0001.png")); !ok || !bytes.Equal(b, data) {
		t.Error("frame-0001.png should hold the new frame")
	}
	if _, ok := fs.GetFile(filepath.Join("out", "notes.txt")); !ok {
		t.Error("unrelated files must survive")
	}
}

func TestStage_Execute_CorruptPreviousManifest(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.Put(filepath.Join("out", ManifestName), []byte("{not json"))

	good, _ := frameURL(t, "image/png")
	_, err := NewStage(fs, logger.NewNoop()).Execute(context.Background(), pipeline.ExportInput{
		Dir:    "out",
		Frames: []framegrab.CapturedFrame{{Image: good}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.Removed()) != 0 {
		t.Errorf("expected nothing removed, got %v", fs.Removed())
	}
}

func TestFrameName(t *testing.T) {
	if got := FrameName(0, "png"); got != "frame-0001.png" {
		t.Errorf("FrameName(0) = %q", got)
	}
	if got := FrameName(41, "jpg"); got != "frame-0042.jpg" {
		t.Errorf("FrameName(41) = %q", got)
	}
}
