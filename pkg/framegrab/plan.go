package framegrab

import "math"

const (
	// DefaultFormat is used when no format is supplied.
	DefaultFormat = "image/png"

	// DefaultWidth is used when neither width nor height is supplied.
	DefaultWidth = 128.0
)

// SourceFacts are the properties of the video observed once it is ready.
type SourceFacts struct {
	Duration    float64 // Seconds
	AspectRatio float64 // Natural width divided by natural height
}

// Plan is the fully resolved description of one extraction run.
// Build it with Resolve and treat it as read-only.
type Plan struct {
	Format string `json:"format"`

	// Offsets holds the explicit timestamps. Empty means the timestamps
	// are derived from StartTime and Interval.
	Offsets []float64 `json:"offsets"`

	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Count     int     `json:"count"`

	// Interval is the spacing between derived timestamps. Zero in
	// explicit-offsets mode.
	Interval float64 `json:"interval"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	OnProgress ProgressFunc `json:"-"`
	OnLoad     LoadFunc     `json:"-"`
}

// Explicit reports whether the plan samples caller-supplied offsets.
func (p Plan) Explicit() bool {
	return len(p.Offsets) > 0
}

// Timestamp returns the requested timestamp of frame i.
// Derived timestamps start at StartTime: frame i is at StartTime + i*Interval,
// so the last frame lands one interval before EndTime.
func (p Plan) Timestamp(i int) float64 {
	if p.Explicit() {
		return p.Offsets[i]
	}
	return p.StartTime + float64(i)*p.Interval
}

// Timestamps returns every requested timestamp in capture order.
func (p Plan) Timestamps() []float64 {
	out := make([]float64, 0, min(p.Count, maxPrealloc))
	for i := 0; i < p.Count; i++ {
		out = append(out, p.Timestamp(i))
	}
	return out
}

// maxPrealloc bounds capacity hints derived from Count, which comes from
// the caller and may be as large as math.MaxInt32.
const maxPrealloc = 1024

// Resolve turns raw options and the observed source facts into a Plan.
// It never fails: invalid values are replaced with defaults. opts is not
// modified.
func Resolve(opts RawOptions, facts SourceFacts) Plan {
	duration := facts.Duration
	ratio := facts.AspectRatio
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		ratio = 1
	}

	plan := Plan{
		Format:  opts.Format,
		Offsets: filterOffsets(opts.Offsets, duration),
	}
	if plan.Format == "" {
		plan.Format = DefaultFormat
	}

	plan.StartTime = 0
	if t, ok := isTimestamp(opts.StartTime, duration); ok {
		plan.StartTime = t
	}
	plan.EndTime = duration
	if t, ok := isTimestamp(opts.EndTime, duration); ok {
		plan.EndTime = t
	}

	plan.Count = 1
	if opts.Count != nil {
		plan.Count = toNonNegativeInt(opts.Count)
	}
	if plan.Count == 0 {
		plan.Count = 1
	}

	// An empty or inverted window yields a single frame at its end.
	if plan.StartTime >= plan.EndTime {
		plan.StartTime = plan.EndTime
		plan.Count = 1
	}

	if plan.Explicit() {
		plan.Count = len(plan.Offsets)
	} else {
		plan.Interval = (plan.EndTime - plan.StartTime) / float64(plan.Count)
	}

	plan.Width, plan.Height = resolveSize(opts.Width, opts.Height, ratio)

	plan.OnLoad = asLoadFunc(opts.OnLoad)
	plan.OnProgress = asProgressFunc(opts.OnProgress)

	return plan
}

// filterOffsets keeps the elements of raw that are timestamps within
// [0, duration], preserving order. Anything that is not a sequence yields
// no offsets.
func filterOffsets(raw any, duration float64) []float64 {
	seq, ok := toSequence(raw)
	if !ok {
		return []float64{}
	}
	offsets := make([]float64, 0, len(seq))
	for _, v := range seq {
		if t, ok := isTimestamp(v, duration); ok {
			offsets = append(offsets, t)
		}
	}
	return offsets
}

// resolveSize fills in missing output dimensions from the aspect ratio.
// A dimension counts as supplied only if it is a positive finite number.
func resolveSize(rawWidth, rawHeight any, ratio float64) (width, height float64) {
	width, widthSet := dimension(rawWidth)
	height, heightSet := dimension(rawHeight)

	switch {
	case !widthSet && !heightSet:
		width = DefaultWidth
		height = width / ratio
	case widthSet && !heightSet:
		height = width / ratio
	case !widthSet && heightSet:
		width = height * ratio
	}
	return width, height
}

func dimension(v any) (float64, bool) {
	if !isFiniteNumber(v) {
		return 0, false
	}
	f, _ := toNumber(v)
	return f, f > 0
}

func asLoadFunc(v any) LoadFunc {
	switch fn := v.(type) {
	case LoadFunc:
		return fn
	case func():
		return fn
	default:
		return nil
	}
}

func asProgressFunc(v any) ProgressFunc {
	switch fn := v.(type) {
	case ProgressFunc:
		return fn
	case func(done, total int):
		return fn
	default:
		return nil
	}
}
