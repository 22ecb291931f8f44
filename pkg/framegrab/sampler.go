package framegrab

import (
	"context"
	"fmt"
	"math"
)

// sample captures one frame per planned timestamp, strictly in order.
func (x *Extractor) sample(ctx context.Context, r *run, plan Plan) ([]CapturedFrame, error) {
	x.surface.Resize(surfaceSize(plan.Width), surfaceSize(plan.Height))

	frames := make([]CapturedFrame, 0, min(plan.Count, maxPrealloc))
	for i := 0; i < plan.Count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		target := plan.Timestamp(i)
		if err := x.seek(ctx, r, target); err != nil {
			return nil, err
		}

		x.surface.Clear()
		if err := x.surface.RenderFrom(x.source, 0, 0, plan.Width, plan.Height); err != nil {
			return nil, fmt.Errorf("render frame %d: %w", i, err)
		}
		image, err := x.surface.Encode(plan.Format)
		if err != nil {
			return nil, fmt.Errorf("encode frame %d: %w", i, err)
		}

		frames = append(frames, CapturedFrame{
			Offset: x.source.CurrentTime(),
			Image:  image,
		})
		x.logger.Debug("Captured frame %d/%d at %.3f s", i+1, plan.Count, target)

		if plan.OnProgress != nil {
			plan.OnProgress(i+1, plan.Count)
		}
	}

	return frames, nil
}

// seek moves the source to t and waits for the seek to complete.
//
// A completion notification can belong to an earlier, superseded seek. When
// the source still reports a seek in progress after waking up, the waiter is
// re-armed until the source settles.
func (x *Extractor) seek(ctx context.Context, r *run, t float64) error {
	done, err := r.seeks.arm()
	if err != nil {
		return err
	}
	x.source.SetCurrentTime(t)

	for {
		if err := r.await(ctx, done); err != nil {
			r.seeks.disarm()
			return err
		}
		if !x.source.Seeking() {
			return nil
		}
		if done, err = r.seeks.arm(); err != nil {
			return err
		}
		if !x.source.Seeking() {
			r.seeks.disarm()
			return nil
		}
	}
}

// surfaceSize converts a planned dimension to whole pixels, at least one.
func surfaceSize(v float64) int {
	return int(math.Max(1, math.Trunc(v)))
}
