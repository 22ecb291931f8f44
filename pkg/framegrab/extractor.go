package framegrab

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/user/framesnap/pkg/ports"
)

// Result is the outcome of one extraction run.
type Result struct {
	// Plan is the resolved plan. It is nil when the source failed before
	// the plan could be built.
	Plan *Plan

	// Frames holds one frame per planned timestamp, in order, or is empty
	// when the source reported a fatal error.
	Frames []CapturedFrame
}

// Extractor samples frames from a video source onto a rendering surface.
// The source and surface are used exclusively by one extraction at a time.
type Extractor struct {
	source  ports.VideoSource
	surface ports.Surface
	clock   ports.Clock
	logger  ports.Logger
	random  func() float64

	mu sync.Mutex
}

// New creates an Extractor.
func New(source ports.VideoSource, surface ports.Surface, clock ports.Clock, logger ports.Logger) *Extractor {
	return &Extractor{
		source:  source,
		surface: surface,
		clock:   clock,
		logger:  logger.WithComponent("framegrab"),
		random:  rand.Float64,
	}
}

// Extract samples the frames described by opts.
//
// A fatal error reported by the video source is not returned; the result is
// an empty slice instead. Errors are returned for an empty locator, a
// concurrent call, rendering or encoding failures and context cancellation.
func (x *Extractor) Extract(ctx context.Context, opts RawOptions) ([]CapturedFrame, error) {
	result, err := x.Run(ctx, opts)
	if err != nil {
		return nil, err
	}
	return result.Frames, nil
}

// Run is like Extract but also returns the resolved plan.
func (x *Extractor) Run(ctx context.Context, opts RawOptions) (Result, error) {
	if opts.URL == "" {
		return Result{}, ErrNoLocator
	}
	if !x.mu.TryLock() {
		return Result{}, ErrExtractionInProgress
	}
	defer x.mu.Unlock()

	r := newRun()
	x.source.OnSeeked(r.seeks.resolve)
	x.source.OnError(r.failed.fire)
	defer func() {
		x.source.OnSeeked(nil)
		x.source.OnError(nil)
	}()

	x.logger.Debug("Opening video %s", opts.URL)
	if err := x.source.Assign(ctx, opts.URL); err != nil {
		r.failed.fire(err)
		return x.absorb(Result{}, r.failed.err)
	}

	facts, err := x.awaitReady(ctx, r)
	if err != nil {
		return x.absorb(Result{}, err)
	}
	x.logger.Debug("Video ready: %.3f s, aspect ratio %.4f", facts.Duration, facts.AspectRatio)

	plan := Resolve(opts, facts)
	x.logger.Debug("Resolved plan: %d frames, %.0fx%.0f %s", plan.Count, plan.Width, plan.Height, plan.Format)

	if plan.OnLoad != nil {
		plan.OnLoad()
	}

	frames, err := x.sample(ctx, r, plan)
	if err != nil {
		return x.absorb(Result{Plan: &plan}, err)
	}

	return Result{Plan: &plan, Frames: frames}, nil
}

// absorb converts a source failure into an empty result.
func (x *Extractor) absorb(result Result, err error) (Result, error) {
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		x.logger.Warn("Video source failed, no frames extracted: %s", srcErr)
		result.Frames = []CapturedFrame{}
		return result, nil
	}
	return Result{}, err
}
