package main

import (
	"context"
	"fmt"

	"github.com/user/framesnap/pkg/adapters/chromebrowser"
	"github.com/user/framesnap/pkg/adapters/chromevideo"
	"github.com/user/framesnap/pkg/adapters/fetch"
	"github.com/user/framesnap/pkg/adapters/ggrenderer"
	"github.com/user/framesnap/pkg/adapters/mp4video"
	"github.com/user/framesnap/pkg/adapters/smartdecoder"
	"github.com/user/framesnap/pkg/config"
	"github.com/user/framesnap/pkg/ports"
)

// backend is a video source with the surface its frames are drawn on.
type backend struct {
	source  ports.VideoSource
	surface ports.Surface
	closers []func() error
	log     ports.Logger
}

// Close releases the backend in reverse order of creation. Failures are
// logged; the run's result does not depend on them.
func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && b.log != nil {
			b.log.Debug("Failed to close video backend: %s", err)
		}
	}
}

func newFetcher(cfg config.Config) *fetch.Fetcher {
	return fetch.New(fetch.WithS3Config(fetch.S3Config{
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	}))
}

func openBackend(ctx context.Context, cfg config.Config, log ports.Logger) (*backend, error) {
	fetcher := newFetcher(cfg)

	switch cfg.Backend {
	case "chrome":
		browser := chromebrowser.New()
		if err := browser.Launch(ctx, chromebrowser.Options{
			ChromePath:        cfg.ChromePath,
			Headless:          cfg.Headless,
			IgnoreHTTPSErrors: cfg.IgnoreHTTPSErrors,
			ProxyServer:       cfg.ProxyServer,
			UserAgent:         cfg.UserAgent,
			Headers:           cfg.Headers,
		}); err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		b := &backend{closers: []func() error{browser.Close}, log: log}

		player := chromevideo.New(browser, fetcher, log, chromevideo.Options{IsRemote: fetch.IsRemote})
		if err := player.Start(ctx); err != nil {
			b.Close()
			return nil, fmt.Errorf("start player: %w", err)
		}
		b.closers = append(b.closers, player.Close)
		b.source = player
		b.surface = chromevideo.NewSurface(player)
		return b, nil

	default:
		decoder := smartdecoder.New(smartdecoder.Options{})
		source := mp4video.New(fetcher, decoder, log)
		return &backend{
			source:  source,
			surface: ggrenderer.NewSurface(),
			closers: []func() error{source.Close},
			log:     log,
		}, nil
	}
}
