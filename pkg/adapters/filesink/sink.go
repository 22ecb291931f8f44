// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/framesnap/pkg/ports"
)

// Sink saves debug output to files under a base directory:
//
//	plan.json
//	layout.json
//	frames/raw-0000.<ext>
//	sprite.png
//
// Debug output is best effort and never cancelled with the run.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SavePlanJSON saves the resolved extraction plan as JSON.
func (s *Sink) SavePlanJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "plan.json")
	return s.fs.WriteFile(context.Background(), path, data)
}

// SaveLayoutJSON saves the sprite layout as JSON.
func (s *Sink) SaveLayoutJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "layout.json")
	return s.fs.WriteFile(context.Background(), path, data)
}

// SaveFrame saves a captured frame as it was encoded by the surface.
func (s *Sink) SaveFrame(index int, data []byte, ext string) error {
	dir := filepath.Join(s.baseDir, "frames")
	if err := s.fs.MkdirAll(context.Background(), dir); err != nil {
		return err
	}
	if ext == "" {
		ext = "bin"
	}
	path := filepath.Join(dir, fmt.Sprintf("raw-%04d.%s", index, ext))
	return s.fs.WriteFile(context.Background(), path, data)
}

// SaveSprite saves the composed sprite sheet as PNG.
func (s *Sink) SaveSprite(img image.Image) error {
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode sprite: %w", err)
	}
	path := filepath.Join(s.baseDir, "sprite.png")
	return s.fs.WriteFile(context.Background(), path, data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
