// Package chromevideo implements ports.VideoSource and ports.Surface with a
// <video> and a <canvas> element in a headless Chrome tab. Media events are
// delivered to Go through CDP runtime bindings.
package chromevideo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/user/framesnap/pkg/adapters/chromebrowser"
	"github.com/user/framesnap/pkg/ports"
)

// Binding names exposed to the page.
const (
	seekedBinding = "framesnapSeeked"
	errorBinding  = "framesnapError"
)

// ErrNotStarted is returned when the player is used before Start.
var ErrNotStarted = errors.New("chromevideo: player not started")

// LocatorResolver turns locators the browser cannot load by itself into
// URLs it can, typically data URLs.
type LocatorResolver interface {
	DataURL(ctx context.Context, locator string) (string, error)
}

// Options configures a Player.
type Options struct {
	// CrossOrigin is the CORS mode of the video element. Default "anonymous",
	// which keeps the canvas exportable for servers that allow it.
	CrossOrigin string

	// IsRemote reports whether the browser can load a locator directly.
	// Other locators go through the resolver. Nil treats every locator
	// with a scheme the browser understands as remote.
	IsRemote func(locator string) bool
}

// Player drives a <video> element. It implements ports.VideoSource.
type Player struct {
	browser  *chromebrowser.Browser
	resolver LocatorResolver
	logger   ports.Logger
	opts     Options

	mu       sync.Mutex
	started  bool
	onSeeked func()
	onError  func(err error)

	events chan bindingEvent
	done   chan struct{}
}

type bindingEvent struct {
	name    string
	payload string
}

// state is the snapshot of the video element returned by the page script.
type state struct {
	Duration    float64 `json:"duration"`
	Known       bool    `json:"known"`
	Infinite    bool    `json:"infinite"`
	CurrentTime float64 `json:"currentTime"`
	Seeking     bool    `json:"seeking"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	ReadyState  int     `json:"readyState"`
}

// New creates a Player in a launched browser.
func New(browser *chromebrowser.Browser, resolver LocatorResolver, logger ports.Logger, opts Options) *Player {
	if opts.CrossOrigin == "" {
		opts.CrossOrigin = "anonymous"
	}
	return &Player{
		browser:  browser,
		resolver: resolver,
		logger:   logger.WithComponent("chromevideo"),
		opts:     opts,
	}
}

// Start prepares the tab: installs the bindings, then creates the video and
// canvas elements.
func (p *Player) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}

	tab := p.browser.Context()
	if tab == nil {
		return ErrNotStarted
	}

	p.events = make(chan bindingEvent, 64)
	p.done = make(chan struct{})
	events, done := p.events, p.done

	chromedp.ListenTarget(tab, func(ev interface{}) {
		called, ok := ev.(*runtime.EventBindingCalled)
		if !ok {
			return
		}
		select {
		case events <- bindingEvent{name: called.Name, payload: called.Payload}:
		case <-done:
		}
	})
	go p.dispatch(events, done)

	err := p.browser.Run(
		chromedp.Navigate("about:blank"),
		runtime.AddBinding(seekedBinding),
		runtime.AddBinding(errorBinding),
		chromedp.Evaluate(setupScript(p.opts.CrossOrigin), nil),
	)
	if err != nil {
		close(done)
		return fmt.Errorf("prepare page: %w", err)
	}

	p.started = true
	p.logger.Debug("Video page ready")
	return nil
}

// dispatch delivers binding calls to the registered handlers in order.
func (p *Player) dispatch(events <-chan bindingEvent, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev := <-events:
			p.mu.Lock()
			onSeeked, onError := p.onSeeked, p.onError
			p.mu.Unlock()

			switch ev.name {
			case seekedBinding:
				if onSeeked != nil {
					onSeeked()
				}
			case errorBinding:
				p.logger.Debug("Video element error: %s", ev.payload)
				if onError != nil {
					onError(fmt.Errorf("video element: %s", ev.payload))
				}
			}
		}
	}
}

// Assign points the video element at locator. Locators the browser cannot
// load are resolved to data URLs first.
func (p *Player) Assign(ctx context.Context, locator string) error {
	if !p.isStarted() {
		return ErrNotStarted
	}

	src := locator
	if !p.isRemote(locator) {
		resolved, err := p.resolver.DataURL(ctx, locator)
		if err != nil {
			p.report(err)
			return nil
		}
		src = resolved
	}

	arg, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode locator: %w", err)
	}
	return p.browser.Run(chromedp.Evaluate(fmt.Sprintf("window.__framesnap.assign(%s)", arg), nil))
}

func (p *Player) isRemote(locator string) bool {
	if p.opts.IsRemote != nil {
		return p.opts.IsRemote(locator)
	}
	return true
}

// report delivers a Go-side failure through the error handler.
func (p *Player) report(err error) {
	p.mu.Lock()
	onError := p.onError
	p.mu.Unlock()
	if onError != nil {
		onError(err)
	}
}

func (p *Player) state() (state, bool) {
	var s state
	if !p.isStarted() {
		return s, false
	}
	if err := p.browser.Run(chromedp.Evaluate("window.__framesnap.state()", &s)); err != nil {
		p.logger.Debug("Read video state: %v", err)
		return s, false
	}
	return s, true
}

// Duration returns the media duration in seconds, NaN while unknown and
// +Inf for unbounded streams.
func (p *Player) Duration() float64 {
	s, ok := p.state()
	if !ok {
		return math.NaN()
	}
	return s.duration()
}

func (s state) duration() float64 {
	switch {
	case s.Infinite:
		return math.Inf(1)
	case !s.Known:
		return math.NaN()
	default:
		return s.Duration
	}
}

// CurrentTime returns the playback position in seconds.
func (p *Player) CurrentTime() float64 {
	s, _ := p.state()
	return s.CurrentTime
}

// SetCurrentTime requests a seek.
func (p *Player) SetCurrentTime(seconds float64) {
	if !p.isStarted() {
		return
	}
	script := fmt.Sprintf("window.__framesnap.seek(%s)", jsNumber(seconds))
	if err := p.browser.Run(chromedp.Evaluate(script, nil)); err != nil {
		p.logger.Debug("Seek to %v: %v", seconds, err)
	}
}

// jsNumber formats a float as a JavaScript number literal.
func jsNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}

// Seeking reports whether the video element is seeking.
func (p *Player) Seeking() bool {
	s, _ := p.state()
	return s.Seeking
}

// NaturalSize returns the intrinsic video dimensions.
func (p *Player) NaturalSize() (width, height int) {
	s, _ := p.state()
	return s.Width, s.Height
}

// ReadyState returns the readiness of the video element.
func (p *Player) ReadyState() ports.ReadyState {
	s, _ := p.state()
	return toReadyState(s.ReadyState)
}

func toReadyState(n int) ports.ReadyState {
	if n < int(ports.HaveNothing) || n > int(ports.HaveEnoughData) {
		return ports.HaveNothing
	}
	return ports.ReadyState(n)
}

// OnSeeked registers the seek-complete handler.
func (p *Player) OnSeeked(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onSeeked = fn
}

// OnError registers the fatal-error handler.
func (p *Player) OnError(fn func(err error)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onError = fn
}

// Close detaches the media from the element and stops event delivery.
// The browser itself is owned by the caller.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return nil
	}
	p.started = false
	close(p.done)
	return p.browser.Run(chromedp.Evaluate("window.__framesnap.reset()", nil))
}

func (p *Player) isStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

var _ ports.VideoSource = (*Player)(nil)
