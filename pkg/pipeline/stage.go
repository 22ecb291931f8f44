// Package pipeline provides the stage infrastructure and the data passed
// between the framesnap stages.
package pipeline

import "context"

// Stage is one step of an extraction run: extract, layout, sprite or
// export. Stages hold their adapters and keep no state between calls.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}
