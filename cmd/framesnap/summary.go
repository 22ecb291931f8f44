package main

import (
	"context"
	"path/filepath"

	"github.com/ideamans/go-l10n"

	"github.com/user/framesnap/pkg/config"
	"github.com/user/framesnap/pkg/orchestrator"
	"github.com/user/framesnap/pkg/summarizer"
)

// buildSummary collects the results of a run for the summary file.
func buildSummary(cfg config.Config, result orchestrator.RunResult) *summarizer.Summary {
	b := summarizer.NewBuilder().
		WithSource(result.Source.Locator, result.Source.Backend, result.Source.Duration, result.Source.Width, result.Source.Height)

	if p := result.Plan; p != nil {
		b.WithPlan(summarizer.PlanInfo{
			Explicit:    p.Explicit(),
			Format:      p.Format,
			Count:       p.Count,
			StartSec:    p.StartTime,
			EndSec:      p.EndTime,
			IntervalSec: p.Interval,
			Width:       int(p.Width),
			Height:      int(p.Height),
		})
	}

	frames := make([]summarizer.FrameInfo, len(result.Frames))
	for i, f := range result.Frames {
		frames[i] = summarizer.FrameInfo{Index: i, OffsetSec: f.Offset}
	}
	for _, file := range result.Files {
		if file.Index >= 0 && file.Index < len(frames) {
			frames[file.Index].File = file.Path
			frames[file.Index].Bytes = file.Bytes
		}
	}
	b.WithFrames(frames)

	output := summarizer.OutputInfo{
		Dir:          cfg.OutputDir,
		SpriteWidth:  result.SpriteWidth,
		SpriteHeight: result.SpriteHeight,
		TotalBytes:   result.TotalBytes,
		ElapsedMs:    result.ElapsedMs,
	}
	if result.ManifestPath != "" {
		output.Manifest = filepath.Base(result.ManifestPath)
	}
	if result.SpritePath != "" {
		output.Sprite = filepath.Base(result.SpritePath)
	}
	return b.WithOutput(output).Build()
}

// writeSummary renders the summary to cfg.Summary, which may be a local
// path or an s3:// location. A .json extension selects JSON over Markdown.
func writeSummary(ctx context.Context, store *storage, cfg config.Config, result orchestrator.RunResult) error {
	fs, path, err := store.resolve(ctx, cfg.Summary)
	if err != nil {
		return err
	}
	writer := summarizer.NewWriter(summarizer.ForPath(path,
		summarizer.WithTranslator(func(s string) string { return l10n.T(s) }),
		summarizer.WithVersion(version),
	), fs)
	return writer.Write(ctx, path, buildSummary(cfg, result))
}
