package framegrab

import (
	"context"
	"math"
	"time"

	"github.com/user/framesnap/pkg/ports"
)

const (
	// pollInterval is the delay between readiness checks.
	pollInterval = 100 * time.Millisecond

	// perturbSpan bounds the random positions used to make the source probe
	// its duration.
	perturbSpan = 10_000_000.0
)

// awaitReady waits until the source knows its duration and has a picture,
// then performs a settle-seek to the middle of the video. Some sources do
// not report the first seek correctly otherwise.
func (x *Extractor) awaitReady(ctx context.Context, r *run) (SourceFacts, error) {
	polls := 0
	for !x.sourceReady() {
		select {
		case <-r.failed.done:
			return SourceFacts{}, r.failed.err
		case <-ctx.Done():
			return SourceFacts{}, ctx.Err()
		case <-x.clock.After(pollInterval):
		}
		if r.failed.fired() {
			return SourceFacts{}, r.failed.err
		}
		polls++
		x.source.SetCurrentTime(x.random() * perturbSpan)
	}
	if r.failed.fired() {
		return SourceFacts{}, r.failed.err
	}
	x.logger.Debug("Video metadata available after %d polls", polls)

	duration := x.source.Duration()
	if err := x.seek(ctx, r, duration/2); err != nil {
		return SourceFacts{}, err
	}

	return SourceFacts{
		Duration:    duration,
		AspectRatio: aspectRatio(x.source.NaturalSize()),
	}, nil
}

// sourceReady reports whether the duration is finite and a picture is loaded.
func (x *Extractor) sourceReady() bool {
	d := x.source.Duration()
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return false
	}
	return x.source.ReadyState() >= ports.HaveCurrentData
}

// aspectRatio returns width/height, or 1 when either is unknown.
func aspectRatio(width, height int) float64 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float64(width) / float64(height)
}
