// Package orchestrator coordinates all pipeline stages.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/user/framesnap/pkg/framegrab"
	"github.com/user/framesnap/pkg/pipeline"
	"github.com/user/framesnap/pkg/ports"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Extraction
	Options framegrab.RawOptions

	// Output directory for frames, sprite and manifest. Empty keeps the
	// frames in memory only.
	OutputDir string

	// Sprite sheet
	Sprite        bool
	SpriteName    string
	SpriteFormat  string // "png" or "jpeg"
	SpriteQuality int
	Columns       int
	Gap           int
	Padding       int
	BorderWidth   int
	ShowLabels    bool
	LabelHeight   int
	FontPath      string

	// Style
	BackgroundColor [4]uint8 // RGBA
	BorderColor     [4]uint8 // RGBA
	LabelColor      [4]uint8 // RGBA
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	layout := pipeline.DefaultLayoutInput()
	return Config{
		SpriteName:    "sprite.png",
		SpriteFormat:  "png",
		SpriteQuality: 90,
		Columns:       layout.Columns,
		Gap:           layout.Gap,
		Padding:       layout.Padding,
		BorderWidth:   layout.BorderWidth,
		LabelHeight:   14,
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	extractStage pipeline.Stage[pipeline.ExtractInput, pipeline.ExtractResult]
	layoutStage  pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult]
	spriteStage  pipeline.Stage[pipeline.SpriteInput, pipeline.SpriteResult]
	exportStage  pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult]
	sink         ports.DebugSink
	logger       ports.Logger
}

// New creates a new Orchestrator.
func New(
	extractStage pipeline.Stage[pipeline.ExtractInput, pipeline.ExtractResult],
	layoutStage pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult],
	spriteStage pipeline.Stage[pipeline.SpriteInput, pipeline.SpriteResult],
	exportStage pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult],
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		extractStage: extractStage,
		layoutStage:  layoutStage,
		spriteStage:  spriteStage,
		exportStage:  exportStage,
		sink:         sink,
		logger:       logger,
	}
}

// Run executes the complete pipeline.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	o.logger.Info("Starting pipeline")

	// 1. Extract frames
	o.logger.Info("Extracting frames from %s", config.Options.URL)
	extracted, err := o.extractStage.Execute(ctx, pipeline.ExtractInput{Options: config.Options})
	if err != nil {
		o.logger.Error("Failed to extract frames: %s", err)
		return RunResult{}, fmt.Errorf("extract stage: %w", err)
	}
	if len(extracted.Frames) == 0 {
		o.logger.Warn("No frames extracted from %s", config.Options.URL)
	} else {
		o.logger.Info("Extracted %d frames in %d ms", len(extracted.Frames), extracted.ElapsedMs)
	}

	result := RunResult{
		Source:     extracted.Source,
		Plan:       extracted.Plan,
		Frames:     extracted.Frames,
		FrameCount: len(extracted.Frames),
		ElapsedMs:  extracted.ElapsedMs,
	}

	// 2. Sprite sheet (optional)
	var sprite *pipeline.SpriteResult
	if config.Sprite && len(extracted.Frames) > 0 && extracted.Plan != nil {
		o.logger.Info("Calculating sprite layout")
		layoutInput := o.buildLayoutInput(config, extracted)
		layout, err := o.layoutStage.Execute(ctx, layoutInput)
		if err != nil {
			o.logger.Error("Failed to calculate layout: %s", err)
			return RunResult{}, fmt.Errorf("layout stage: %w", err)
		}
		o.logger.Info("Layout calculated: %dx%d canvas, %d columns", layout.Canvas.Width, layout.Canvas.Height, layout.Columns)

		if o.sink.Enabled() {
			if data, err := json.MarshalIndent(layout, "", "  "); err == nil {
				o.sink.SaveLayoutJSON(data)
			}
		}

		o.logger.Info("Composing sprite from %d frames", len(extracted.Frames))
		s, err := o.spriteStage.Execute(ctx, o.buildSpriteInput(config, extracted, layout))
		if err != nil {
			o.logger.Error("Failed to compose sprite: %s", err)
			return RunResult{}, fmt.Errorf("sprite stage: %w", err)
		}
		sprite = &s
		result.SpriteWidth = layout.Canvas.Width
		result.SpriteHeight = layout.Canvas.Height
		o.logger.Info("Sprite composed")
	}

	// 3. Write output files
	if config.OutputDir != "" {
		o.logger.Info("Writing output to %s", config.OutputDir)
		exported, err := o.exportStage.Execute(ctx, pipeline.ExportInput{
			Dir:        config.OutputDir,
			Frames:     extracted.Frames,
			Plan:       extracted.Plan,
			Source:     extracted.Source,
			Sprite:     sprite,
			SpriteName: config.SpriteName,
		})
		if err != nil {
			o.logger.Error("Failed to write output: %s", err)
			return RunResult{}, fmt.Errorf("export stage: %w", err)
		}
		result.Files = exported.Files
		result.ManifestPath = exported.ManifestPath
		result.SpritePath = exported.SpritePath
		result.TotalBytes = exported.TotalBytes
	}

	o.logger.Info("Pipeline completed successfully")
	return result, nil
}

func (o *Orchestrator) buildLayoutInput(config Config, extracted pipeline.ExtractResult) pipeline.LayoutInput {
	input := pipeline.LayoutInput{
		FrameCount:  len(extracted.Frames),
		CellWidth:   max(int(extracted.Plan.Width), 1),
		CellHeight:  max(int(extracted.Plan.Height), 1),
		Columns:     config.Columns,
		Gap:         config.Gap,
		Padding:     config.Padding,
		BorderWidth: config.BorderWidth,
	}
	if config.ShowLabels {
		input.LabelHeight = config.LabelHeight
	}
	return input
}

func (o *Orchestrator) buildSpriteInput(config Config, extracted pipeline.ExtractResult, layout pipeline.LayoutResult) pipeline.SpriteInput {
	theme := pipeline.DefaultSpriteTheme()
	// Override theme colors if specified
	if config.BackgroundColor != [4]uint8{} {
		theme.BackgroundColor = rgbaFromArray(config.BackgroundColor)
	}
	if config.BorderColor != [4]uint8{} {
		theme.BorderColor = rgbaFromArray(config.BorderColor)
	}
	if config.LabelColor != [4]uint8{} {
		theme.LabelColor = rgbaFromArray(config.LabelColor)
	}
	theme.FontPath = config.FontPath

	return pipeline.SpriteInput{
		Frames:     extracted.Frames,
		Layout:     layout,
		Theme:      theme,
		ShowLabels: config.ShowLabels,
		Format:     ports.ParseImageFormat(config.SpriteFormat),
		Quality:    config.SpriteQuality,
	}
}

func rgbaFromArray(c [4]uint8) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	// Source information
	Source pipeline.SourceInfo

	// Extraction
	Plan       *framegrab.Plan
	Frames     []framegrab.CapturedFrame
	FrameCount int
	ElapsedMs  int

	// Output files (empty without an output directory)
	Files        []pipeline.ExportedFile
	ManifestPath string
	SpritePath   string
	TotalBytes   int64

	// Sprite dimensions (zero without a sprite)
	SpriteWidth  int
	SpriteHeight int
}
