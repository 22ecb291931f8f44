// Package chromebrowser launches and controls a headless Chrome instance
// using chromedp.
package chromebrowser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// ErrChromeNotFound is returned when no Chrome executable can be located.
var ErrChromeNotFound = errors.New("chrome not found: please install Chrome/Chromium, set CHROME_PATH environment variable, or use --chrome-path option")

// Options configures the browser launch.
type Options struct {
	// ChromePath overrides executable discovery.
	ChromePath string
	Headless   bool

	IgnoreHTTPSErrors bool
	ProxyServer       string
	UserAgent         string

	// Headers are sent with every request the page makes.
	Headers map[string]string
}

// Browser is a running Chrome instance with a single tab.
type Browser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new Browser. Call Launch to start it.
func New() *Browser {
	return &Browser{}
}

// Launch starts the browser with the given options.
func (b *Browser) Launch(ctx context.Context, opts Options) error {
	chromePath := ResolveChromePath(opts.ChromePath)
	if chromePath == "" {
		return ErrChromeNotFound
	}

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(ctx, allocatorOptions(chromePath, opts)...)
	b.ctx, b.cancel = chromedp.NewContext(b.allocCtx)

	// Starts the browser process.
	if err := chromedp.Run(b.ctx); err != nil {
		b.Close()
		return fmt.Errorf("start chrome: %w", err)
	}

	if len(opts.Headers) > 0 {
		headers := make(network.Headers, len(opts.Headers))
		for k, v := range opts.Headers {
			headers[k] = v
		}
		if err := chromedp.Run(b.ctx, network.Enable(), network.SetExtraHTTPHeaders(headers)); err != nil {
			b.Close()
			return fmt.Errorf("set headers: %w", err)
		}
	}

	return nil
}

// allocatorOptions builds the Chrome command line.
func allocatorOptions(chromePath string, opts Options) []chromedp.ExecAllocatorOption {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.ExecPath(chromePath),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("safebrowsing-disable-auto-update", true),
		chromedp.Flag("hide-scrollbars", true),
		// Media must play and seek without a user gesture.
		chromedp.Flag("autoplay-policy", "no-user-gesture-required"),
	}

	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.IgnoreHTTPSErrors {
		allocOpts = append(allocOpts,
			chromedp.Flag("ignore-certificate-errors", true),
			chromedp.Flag("ignore-certificate-errors-spki-list", true),
			chromedp.Flag("allow-insecure-localhost", true))
	}
	if opts.ProxyServer != "" {
		allocOpts = append(allocOpts, chromedp.Flag("proxy-server", opts.ProxyServer))
	}

	// Server, background and container execution.
	allocOpts = append(allocOpts,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-software-rasterizer", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-namespace-sandbox", true),
		chromedp.Flag("disable-seccomp-filter-sandbox", true),
		chromedp.Flag("no-zygote", true),
	)
	return allocOpts
}

// Context returns the chromedp context of the browser tab. It is nil
// before Launch.
func (b *Browser) Context() context.Context {
	return b.ctx
}

// Run executes actions in the browser tab.
func (b *Browser) Run(actions ...chromedp.Action) error {
	if b.ctx == nil {
		return fmt.Errorf("browser not launched")
	}
	return chromedp.Run(b.ctx, actions...)
}

// Close shuts down the browser.
func (b *Browser) Close() error {
	if b.cancel != nil {
		b.cancel()
	}

	// Give Chrome a moment to shut down gracefully, then force kill
	time.Sleep(100 * time.Millisecond)

	if b.allocCancel != nil {
		b.allocCancel()
	}
	b.ctx = nil
	return nil
}
