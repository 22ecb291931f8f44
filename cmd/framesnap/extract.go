package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/framesnap/pkg/adapters/filesink"
	"github.com/user/framesnap/pkg/adapters/ggrenderer"
	"github.com/user/framesnap/pkg/adapters/logger"
	"github.com/user/framesnap/pkg/adapters/nullsink"
	"github.com/user/framesnap/pkg/adapters/osfilesystem"
	"github.com/user/framesnap/pkg/adapters/systemclock"
	"github.com/user/framesnap/pkg/config"
	"github.com/user/framesnap/pkg/framegrab"
	"github.com/user/framesnap/pkg/orchestrator"
	"github.com/user/framesnap/pkg/ports"
	"github.com/user/framesnap/pkg/stages/export"
	"github.com/user/framesnap/pkg/stages/extract"
	"github.com/user/framesnap/pkg/stages/layout"
	"github.com/user/framesnap/pkg/stages/sprite"
)

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:        "extract",
		Usage:       l10n.T("Extract frames from a video"),
		Description: l10n.T("Sample frames from the video at the given locator (path, file://, http(s):// or s3://) and write them to the output directory."),
		ArgsUsage:   "<url>",
		Flags:       extractFlags(),
		Action:      runExtract,
	}
}

func extractFlags() []cli.Flag {
	return []cli.Flag{
		// Output
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Category: l10n.T(categoryOutput), Usage: l10n.T("Output directory or s3://bucket/prefix (frames are printed as JSON when omitted)")},
		&cli.StringFlag{Name: "summary", Category: l10n.T(categoryOutput), Usage: l10n.T("Write a run summary to a file (Markdown, or JSON for .json)")},
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Category: l10n.T(categoryOutput), Usage: l10n.T("Job file in YAML format")},

		// Sampling
		&cli.StringFlag{Name: "count", Aliases: []string{"n"}, Category: l10n.T(categorySampling), Usage: l10n.T("Number of evenly spaced frames")},
		&cli.StringFlag{Name: "start", Category: l10n.T(categorySampling), Usage: l10n.T("Start of the sampling window in seconds")},
		&cli.StringFlag{Name: "end", Category: l10n.T(categorySampling), Usage: l10n.T("End of the sampling window in seconds")},
		&cli.StringSliceFlag{Name: "offsets", Category: l10n.T(categorySampling), Usage: l10n.T("Explicit timestamps in seconds (comma separated)")},
		&cli.StringFlag{Name: "width", Aliases: []string{"W"}, Category: l10n.T(categorySampling), Usage: l10n.T("Frame width in pixels")},
		&cli.StringFlag{Name: "height", Aliases: []string{"H"}, Category: l10n.T(categorySampling), Usage: l10n.T("Frame height in pixels")},
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Category: l10n.T(categorySampling), Usage: l10n.T("Image media type (e.g., image/png, image/jpeg)")},

		// Video source
		&cli.StringFlag{Name: "backend", Aliases: []string{"b"}, Category: l10n.T(categorySource), Usage: l10n.T("Video backend (mp4, chrome)")},
		&cli.StringFlag{Name: "chrome-path", Category: l10n.T(categorySource), Usage: l10n.T("Path to Chrome executable")},
		&cli.BoolFlag{Name: "no-headless", Category: l10n.T(categorySource), Usage: l10n.T("Run browser in non-headless mode")},
		&cli.StringFlag{Name: "user-agent", Category: l10n.T(categorySource), Usage: l10n.T("User agent of the browser")},
		&cli.StringFlag{Name: "proxy-server", Category: l10n.T(categorySource), Usage: l10n.T("HTTP proxy server (e.g., http://proxy:8080)")},
		&cli.BoolFlag{Name: "ignore-https-errors", Category: l10n.T(categorySource), Usage: l10n.T("Ignore HTTPS certificate errors")},
		&cli.IntFlag{Name: "timeout", Category: l10n.T(categorySource), Usage: l10n.T("Extraction timeout in seconds (0 = none)")},

		// Sprite sheet
		&cli.BoolFlag{Name: "sprite", Aliases: []string{"s"}, Category: l10n.T(categorySprite), Usage: l10n.T("Compose a sprite sheet of the frames")},
		&cli.StringFlag{Name: "sprite-file", Category: l10n.T(categorySprite), Usage: l10n.T("Sprite file name in the output directory")},
		&cli.StringFlag{Name: "sprite-format", Category: l10n.T(categorySprite), Usage: l10n.T("Sprite image format (png, jpeg)")},
		&cli.IntFlag{Name: "quality", Aliases: []string{"q"}, Category: l10n.T(categorySprite), Usage: l10n.T("JPEG quality (1-100)")},
		&cli.IntFlag{Name: "columns", Category: l10n.T(categorySprite), Usage: l10n.T("Number of columns (min: 1)")},
		&cli.IntFlag{Name: "gap", Category: l10n.T(categorySprite), Usage: l10n.T("Gap between cells in pixels")},
		&cli.IntFlag{Name: "padding", Category: l10n.T(categorySprite), Usage: l10n.T("Padding around the sheet in pixels")},
		&cli.IntFlag{Name: "border-width", Category: l10n.T(categorySprite), Usage: l10n.T("Border width in pixels")},
		&cli.BoolFlag{Name: "labels", Category: l10n.T(categorySprite), Usage: l10n.T("Print the timestamp under each frame")},
		&cli.StringFlag{Name: "font", Category: l10n.T(categorySprite), Usage: l10n.T("TrueType font for labels")},
		&cli.StringFlag{Name: "background-color", Category: l10n.T(categorySprite), Usage: l10n.T("Background color (hex, e.g., #1a1a2e)")},
		&cli.StringFlag{Name: "border-color", Category: l10n.T(categorySprite), Usage: l10n.T("Border color (hex, e.g., #333355)")},
		&cli.StringFlag{Name: "label-color", Category: l10n.T(categorySprite), Usage: l10n.T("Label color (hex, e.g., #ffffff)")},
		&cli.IntFlag{Name: "workers", Category: l10n.T(categorySprite), Usage: l10n.T("Number of decode workers")},

		// Debug
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Category: l10n.T(categoryDebug), Usage: l10n.T("Enable debug output")},
		&cli.StringFlag{Name: "debug-dir", Category: l10n.T(categoryDebug), Usage: l10n.T("Directory for debug output")},

		// Logging
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Category: l10n.T(categoryLogging), Usage: l10n.T("Log level (debug, info, warn, error)")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Category: l10n.T(categoryLogging), Usage: l10n.T("Suppress all log output")},
	}
}

// loadConfig merges defaults, the job file, FRAMESNAP_* variables and the
// flags set on the command line, in that order.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return cfg, err
		}
	}
	if err := config.ApplyEnv(c.Context, &cfg); err != nil {
		return cfg, err
	}
	applyFlags(c, &cfg)
	if url := c.Args().First(); url != "" {
		cfg.URL = url
	}

	if cfg.URL == "" {
		return cfg, errors.New(l10n.T("URL argument is required"))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if cfg.Sprite.Enabled && cfg.OutputDir == "" {
		return cfg, errors.New(l10n.T("--sprite requires --output"))
	}
	return cfg, nil
}

// flagSetter is the subset of cli.Context read by applyFlags.
type flagSetter interface {
	IsSet(name string) bool
	String(name string) string
	StringSlice(name string) []string
	Int(name string) int
	Bool(name string) bool
}

func applyFlags(c flagSetter, cfg *config.Config) {
	setString := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	setInt := func(name string, dst *int) {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}
	setBool := func(name string, dst *bool) {
		if c.IsSet(name) {
			*dst = c.Bool(name)
		}
	}

	setString("output", &cfg.OutputDir)
	setString("summary", &cfg.Summary)

	setString("count", &cfg.Count)
	setString("start", &cfg.Start)
	setString("end", &cfg.End)
	if c.IsSet("offsets") {
		cfg.Offsets = c.StringSlice("offsets")
	}
	setString("width", &cfg.Width)
	setString("height", &cfg.Height)
	setString("format", &cfg.Format)

	setString("backend", &cfg.Backend)
	setString("chrome-path", &cfg.ChromePath)
	if c.IsSet("no-headless") {
		cfg.Headless = !c.Bool("no-headless")
	}
	setString("user-agent", &cfg.UserAgent)
	setString("proxy-server", &cfg.ProxyServer)
	setBool("ignore-https-errors", &cfg.IgnoreHTTPSErrors)
	setInt("timeout", &cfg.TimeoutSec)

	setBool("sprite", &cfg.Sprite.Enabled)
	setString("sprite-file", &cfg.Sprite.File)
	setString("sprite-format", &cfg.Sprite.Format)
	setInt("quality", &cfg.Sprite.Quality)
	setInt("columns", &cfg.Sprite.Columns)
	setInt("gap", &cfg.Sprite.Gap)
	setInt("padding", &cfg.Sprite.Padding)
	setInt("border-width", &cfg.Sprite.BorderWidth)
	setBool("labels", &cfg.Sprite.Labels)
	setString("font", &cfg.Sprite.FontPath)
	setString("background-color", &cfg.Sprite.Theme.BackgroundColor)
	setString("border-color", &cfg.Sprite.Theme.BorderColor)
	setString("label-color", &cfg.Sprite.Theme.LabelColor)
	setInt("workers", &cfg.Sprite.Workers)

	setBool("debug", &cfg.Debug)
	setString("debug-dir", &cfg.DebugDir)

	setString("log-level", &cfg.LogLevel)
	setBool("quiet", &cfg.Quiet)
}

func newLogger(cfg config.Config) ports.Logger {
	if cfg.Quiet {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
}

func runExtract(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	if cfg.TimeoutSec > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, time.Duration(cfg.TimeoutSec)*time.Second)
		defer cancelTimeout()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create adapters
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	store := newStorage(cfg, fs)

	orchConfig := cfg.ToOrchestratorConfig()
	outFS := ports.FileSystem(fs)
	if cfg.OutputDir != "" {
		outFS, orchConfig.OutputDir, err = store.resolve(ctx, cfg.OutputDir)
		if err != nil {
			return err
		}
	}

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(ctx, cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	src, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer src.Close()

	workers := cfg.Sprite.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Create stages
	extractor := framegrab.New(src.source, src.surface, systemclock.New(), log)
	orch := orchestrator.New(
		extract.New(extractor, src.source, sink, log, cfg.Backend),
		layout.NewStage(),
		sprite.NewStage(renderer, sink, log, workers),
		export.NewStage(outFS, log),
		sink,
		log,
	)

	result, err := orch.Run(ctx, orchConfig)
	if err != nil {
		return err
	}

	if cfg.OutputDir != "" {
		log.Info("Output saved to %s", cfg.OutputDir)
	} else {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Frames); err != nil {
			return fmt.Errorf("print frames: %w", err)
		}
	}

	if cfg.Summary != "" {
		if err := writeSummary(ctx, store, cfg, result); err != nil {
			log.Error("Failed to write summary: %s", err)
		} else {
			log.Info("Summary saved to %s", cfg.Summary)
		}
	}

	return nil
}
