// Package extract implements the frame extraction stage.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/user/framesnap/pkg/framegrab"
	"github.com/user/framesnap/pkg/pipeline"
	"github.com/user/framesnap/pkg/ports"
)

// Runner runs one extraction. *framegrab.Extractor satisfies it.
type Runner interface {
	Run(ctx context.Context, opts framegrab.RawOptions) (framegrab.Result, error)
}

// Stage samples frames from the video source the runner drives.
type Stage struct {
	runner  Runner
	source  ports.VideoSource
	sink    ports.DebugSink
	logger  ports.Logger
	backend string
}

// New creates a new extract stage. source must be the one runner drives;
// it is only read to describe the video after the run.
func New(runner Runner, source ports.VideoSource, sink ports.DebugSink, logger ports.Logger, backend string) *Stage {
	return &Stage{
		runner:  runner,
		source:  source,
		sink:    sink,
		logger:  logger.WithComponent("extract"),
		backend: backend,
	}
}

// Execute extracts the frames described by the input options.
// A video that fails to load yields an empty frame list, not an error.
func (s *Stage) Execute(ctx context.Context, input pipeline.ExtractInput) (pipeline.ExtractResult, error) {
	s.logger.Debug("Extracting frames from %s with the %s backend", input.Options.URL, s.backend)
	start := time.Now()

	res, err := s.runner.Run(ctx, input.Options)
	if err != nil {
		return pipeline.ExtractResult{}, fmt.Errorf("extract frames: %w", err)
	}

	result := pipeline.ExtractResult{
		Plan:      res.Plan,
		Frames:    res.Frames,
		Source:    s.describe(input.Options.URL),
		ElapsedMs: int(time.Since(start).Milliseconds()),
	}
	s.logger.Debug("Captured %d frames in %d ms", len(result.Frames), result.ElapsedMs)

	if s.sink.Enabled() {
		s.saveDebug(result)
	}

	return result, nil
}

// describe reads the video properties the source observed.
func (s *Stage) describe(locator string) pipeline.SourceInfo {
	info := pipeline.SourceInfo{
		Locator: locator,
		Backend: s.backend,
	}
	if d := s.source.Duration(); !math.IsNaN(d) && !math.IsInf(d, 0) {
		info.Duration = d
	}
	info.Width, info.Height = s.source.NaturalSize()
	return info
}

func (s *Stage) saveDebug(result pipeline.ExtractResult) {
	if result.Plan != nil {
		if data, err := json.MarshalIndent(result.Plan, "", "  "); err == nil {
			if err := s.sink.SavePlanJSON(data); err != nil {
				s.logger.Debug("Save plan: %v", err)
			}
		}
	}
	for i, frame := range result.Frames {
		decoded, err := pipeline.DecodeFrame(frame.Image)
		if err != nil {
			s.logger.Debug("Skip debug frame %d: %v", i, err)
			continue
		}
		if err := s.sink.SaveFrame(i, decoded.Data, decoded.Extension); err != nil {
			s.logger.Debug("Save debug frame %d: %v", i, err)
		}
	}
}
