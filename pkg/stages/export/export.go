// Package export implements the stage that writes frames to disk.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/user/framesnap/pkg/framegrab"
	"github.com/user/framesnap/pkg/pipeline"
	"github.com/user/framesnap/pkg/ports"
)

const (
	// ManifestName is the file name of the JSON manifest.
	ManifestName = "frames.json"

	// DefaultSpriteName is used when the input names no sprite file.
	DefaultSpriteName = "sprite.png"
)

// Manifest is the content of frames.json.
type Manifest struct {
	Source pipeline.SourceInfo     `json:"source"`
	Plan   *framegrab.Plan         `json:"plan,omitempty"`
	Frames []pipeline.ExportedFile `json:"frames"`
	Sprite *SpriteManifest         `json:"sprite,omitempty"`
}

// SpriteManifest locates every frame inside the sprite sheet.
type SpriteManifest struct {
	File   string                `json:"file"`
	Width  int                   `json:"width"`
	Height int                   `json:"height"`
	Cells  []pipeline.SpriteCell `json:"cells"`
}

// Stage writes captured frames, the sprite and the manifest.
type Stage struct {
	fs     ports.FileSystem
	logger ports.Logger
}

// NewStage creates a new export stage.
func NewStage(fs ports.FileSystem, logger ports.Logger) *Stage {
	return &Stage{
		fs:     fs,
		logger: logger.WithComponent("export"),
	}
}

// Execute writes frame-0001.<ext>... in capture order, then the sprite and
// frames.json. Paths in the manifest are relative to the output directory.
func (s *Stage) Execute(ctx context.Context, input pipeline.ExportInput) (pipeline.ExportResult, error) {
	if input.Dir == "" {
		return pipeline.ExportResult{}, fmt.Errorf("no output directory")
	}
	if err := s.fs.MkdirAll(ctx, input.Dir); err != nil {
		return pipeline.ExportResult{}, fmt.Errorf("create output directory: %w", err)
	}
	previous := s.readManifest(ctx, input.Dir)

	result := pipeline.ExportResult{
		Files: make([]pipeline.ExportedFile, 0, len(input.Frames)),
	}

	for i, frame := range input.Frames {
		if err := ctx.Err(); err != nil {
			return pipeline.ExportResult{}, err
		}

		decoded, err := pipeline.DecodeFrame(frame.Image)
		if err != nil {
			return pipeline.ExportResult{}, fmt.Errorf("frame %d: %w", i, err)
		}
		name := FrameName(i, decoded.Extension)
		if err := s.fs.WriteFile(ctx, filepath.Join(input.Dir, name), decoded.Data); err != nil {
			return pipeline.ExportResult{}, fmt.Errorf("write %s: %w", name, err)
		}
		s.logger.Debug("Wrote %s (%d bytes)", name, len(decoded.Data))

		result.Files = append(result.Files, pipeline.ExportedFile{
			Index:     i,
			Offset:    frame.Offset,
			Path:      name,
			MediaType: decoded.MediaType,
			Bytes:     len(decoded.Data),
		})
		result.TotalBytes += int64(len(decoded.Data))
	}

	manifest := Manifest{
		Source: input.Source,
		Plan:   input.Plan,
		Frames: result.Files,
	}

	if input.Sprite != nil && len(input.Sprite.Data) > 0 {
		name := input.SpriteName
		if name == "" {
			name = DefaultSpriteName
		}
		path := filepath.Join(input.Dir, name)
		if err := s.fs.WriteFile(ctx, path, input.Sprite.Data); err != nil {
			return pipeline.ExportResult{}, fmt.Errorf("write sprite: %w", err)
		}
		result.SpritePath = path
		result.TotalBytes += int64(len(input.Sprite.Data))

		sm := &SpriteManifest{File: name, Cells: input.Sprite.Cells}
		if input.Sprite.Image != nil {
			sm.Width = input.Sprite.Image.Bounds().Dx()
			sm.Height = input.Sprite.Image.Bounds().Dy()
		}
		manifest.Sprite = sm
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return pipeline.ExportResult{}, fmt.Errorf("encode manifest: %w", err)
	}
	result.ManifestPath = filepath.Join(input.Dir, ManifestName)
	if err := s.fs.WriteFile(ctx, result.ManifestPath, data); err != nil {
		return pipeline.ExportResult{}, fmt.Errorf("write manifest: %w", err)
	}

	if previous != nil {
		s.removeStale(ctx, input.Dir, previous, &manifest)
	}
	return result, nil
}

// readManifest returns the manifest left by an earlier run, or nil.
func (s *Stage) readManifest(ctx context.Context, dir string) *Manifest {
	path := filepath.Join(dir, ManifestName)
	if ok, err := s.fs.Exists(ctx, path); err != nil || !ok {
		return nil
	}
	data, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		s.logger.Warn("Cannot read previous manifest: %s", err)
		return nil
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		s.logger.Warn("Cannot read previous manifest: %s", err)
		return nil
	}
	return &m
}

// removeStale deletes files listed in the previous manifest that the
// current one no longer references. Only bare file names are touched.
func (s *Stage) removeStale(ctx context.Context, dir string, previous, current *Manifest) {
	keep := make(map[string]bool, len(current.Frames)+1)
	for _, f := range current.Frames {
		keep[f.Path] = true
	}
	if current.Sprite != nil {
		keep[current.Sprite.File] = true
	}

	var stale []string
	for _, f := range previous.Frames {
		stale = append(stale, f.Path)
	}
	if previous.Sprite != nil {
		stale = append(stale, previous.Sprite.File)
	}

	for _, name := range stale {
		if name == "" || keep[name] || name == ManifestName || filepath.Base(name) != name {
			continue
		}
		if err := s.fs.Remove(ctx, filepath.Join(dir, name)); err != nil {
			s.logger.Warn("Cannot remove stale file %s: %s", name, err)
			continue
		}
		s.logger.Debug("Removed stale file %s", name)
	}
}

// FrameName returns the file name of the frame at a zero-based index.
func FrameName(index int, ext string) string {
	return fmt.Sprintf("frame-%04d.%s", index+1, ext)
}
