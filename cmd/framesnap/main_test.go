package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/user/framesnap/pkg/config"
	"github.com/user/framesnap/pkg/framegrab"
	"github.com/user/framesnap/pkg/orchestrator"
	"github.com/user/framesnap/pkg/pipeline"
)

// parseExtract runs the extract flag parsing and config merging only.
func parseExtract(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	var cfg config.Config
	var loadErr error
	app := &cli.App{
		Name: "framesnap",
		Commands: []*cli.Command{{
			Name:  "extract",
			Flags: extractFlags(),
			Action: func(c *cli.Context) error {
				cfg, loadErr = loadConfig(c)
				return nil
			},
		}},
	}
	require.NoError(t, app.RunContext(context.Background(), append([]string{"framesnap", "extract"}, args...)))
	return cfg, loadErr
}

func TestLoadConfig_Flags(t *testing.T) {
	cfg, err := parseExtract(t,
		"-o", "out",
		"--count", "8",
		"--offsets", "1,2.5",
		"--width", "320",
		"--sprite",
		"--columns", "4",
		"--no-headless",
		"--log-level", "debug",
		"clip.mp4",
	)
	require.NoError(t, err)

	assert.Equal(t, "clip.mp4", cfg.URL)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "8", cfg.Count)
	assert.Equal(t, []string{"1", "2.5"}, cfg.Offsets)
	assert.Equal(t, "320", cfg.Width)
	assert.True(t, cfg.Sprite.Enabled)
	assert.Equal(t, 4, cfg.Sprite.Columns)
	assert.False(t, cfg.Headless)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Untouched settings keep their defaults.
	assert.Equal(t, "mp4", cfg.Backend)
	assert.Equal(t, 90, cfg.Sprite.Quality)
}

func TestLoadConfig_Precedence(t *testing.T) {
	job := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(job, []byte("url: from-file.mp4\ncount: 3\nbackend: chrome\nsprite:\n  gap: 10\n"), 0644))
	t.Setenv("FRAMESNAP_COUNT", "6")
	t.Setenv("FRAMESNAP_SPRITE_GAP", "12")

	cfg, err := parseExtract(t, "--config", job, "--gap", "2")
	require.NoError(t, err)

	assert.Equal(t, "from-file.mp4", cfg.URL)
	assert.Equal(t, "chrome", cfg.Backend)
	assert.Equal(t, "6", cfg.Count)
	assert.Equal(t, 2, cfg.Sprite.Gap)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing url", func(t *testing.T) {
		_, err := parseExtract(t, "-o", "out")
		assert.Error(t, err)
	})

	t.Run("invalid backend", func(t *testing.T) {
		_, err := parseExtract(t, "--backend", "vlc", "clip.mp4")
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("sprite without output", func(t *testing.T) {
		_, err := parseExtract(t, "--sprite", "clip.mp4")
		assert.Error(t, err)
	})
}

func TestBuildSummary(t *testing.T) {
	cfg := config.Defaults()
	cfg.OutputDir = "out"

	result := orchestrator.RunResult{
		Source: pipeline.SourceInfo{Locator: "clip.mp4", Backend: "mp4", Duration: 8, Width: 640, Height: 360},
		Plan:   &framegrab.Plan{Format: "image/png", Count: 2, EndTime: 8, Interval: 4, Width: 128, Height: 72},
		Frames: []framegrab.CapturedFrame{{Offset: 0}, {Offset: 4}},
		Files: []pipeline.ExportedFile{
			{Index: 0, Path: "frame-0001.png", Bytes: 100},
			{Index: 1, Offset: 4, Path: "frame-0002.png", Bytes: 200},
		},
		ManifestPath: filepath.Join("out", "frames.json"),
		SpritePath:   filepath.Join("out", "sprite.png"),
		SpriteWidth:  290,
		SpriteHeight: 90,
		TotalBytes:   300,
		ElapsedMs:    42,
	}

	s := buildSummary(cfg, result)

	assert.Equal(t, "clip.mp4", s.Source.Locator)
	assert.Equal(t, 8.0, s.Source.DurationSec)
	assert.False(t, s.Plan.Explicit)
	assert.Equal(t, 4.0, s.Plan.IntervalSec)
	assert.Equal(t, 128, s.Plan.Width)
	require.Len(t, s.Frames, 2)
	assert.Equal(t, "frame-0002.png", s.Frames[1].File)
	assert.Equal(t, 200, s.Frames[1].Bytes)
	assert.Equal(t, 4.0, s.Frames[1].OffsetSec)
	assert.Equal(t, "frames.json", s.Output.Manifest)
	assert.Equal(t, "sprite.png", s.Output.Sprite)
	assert.Equal(t, int64(300), s.Output.TotalBytes)
}

func TestBuildSummary_InMemory(t *testing.T) {
	s := buildSummary(config.Defaults(), orchestrator.RunResult{
		Frames: []framegrab.CapturedFrame{{Offset: 1}},
	})

	require.Len(t, s.Frames, 1)
	assert.Empty(t, s.Frames[0].File)
	assert.Empty(t, s.Output.Manifest)
	assert.Equal(t, 0, s.Plan.Count)
}

func TestPrintProbe(t *testing.T) {
	var buf bytes.Buffer
	printProbe(&buf, probeReport{
		Locator:     "clip.mp4",
		Codec:       "hevc",
		DurationSec: 2.5,
		Width:       1280,
		Height:      720,
		Samples:     75,
	})

	out := buf.String()
	assert.Contains(t, out, "clip.mp4")
	assert.Contains(t, out, "2.500 s")
	assert.Contains(t, out, "1280x720")
	assert.True(t, strings.Contains(out, "--backend chrome"), "unsupported codecs suggest the chrome backend")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	require.NoError(t, app.Run([]string{"framesnap", "version"}))
	assert.Contains(t, buf.String(), version)
}
