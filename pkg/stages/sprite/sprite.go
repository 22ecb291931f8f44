// Package sprite implements the sprite sheet composition stage.
package sprite

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sort"
	"sync"

	"github.com/user/framesnap/pkg/framegrab"
	"github.com/user/framesnap/pkg/pipeline"
	"github.com/user/framesnap/pkg/ports"
)

// Stage composes captured frames into one sprite sheet.
type Stage struct {
	renderer   ports.Renderer
	sink       ports.DebugSink
	logger     ports.Logger
	numWorkers int
}

// NewStage creates a new sprite stage.
func NewStage(renderer ports.Renderer, sink ports.DebugSink, logger ports.Logger, numWorkers int) *Stage {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Stage{
		renderer:   renderer,
		sink:       sink,
		logger:     logger.WithComponent("sprite"),
		numWorkers: numWorkers,
	}
}

// Execute decodes the frames in parallel, then draws them onto the grid.
func (s *Stage) Execute(ctx context.Context, input pipeline.SpriteInput) (pipeline.SpriteResult, error) {
	if len(input.Frames) == 0 {
		return pipeline.SpriteResult{Cells: []pipeline.SpriteCell{}}, nil
	}
	if len(input.Layout.Cells) < len(input.Frames) {
		return pipeline.SpriteResult{}, fmt.Errorf("layout has %d cells for %d frames", len(input.Layout.Cells), len(input.Frames))
	}

	s.logger.Debug("Decoding %d frames with %d workers", len(input.Frames), s.numWorkers)
	pictures, err := s.decodeParallel(ctx, input)
	if err != nil {
		return pipeline.SpriteResult{}, err
	}

	theme := input.Theme
	if theme.BackgroundColor == nil {
		theme = pipeline.DefaultSpriteTheme()
	}

	canvas := s.renderer.CreateCanvas(input.Layout.Canvas.Width, input.Layout.Canvas.Height, theme.BackgroundColor)
	cells := make([]pipeline.SpriteCell, len(input.Frames))
	for _, p := range pictures {
		rect := input.Layout.Cells[p.index]
		frame := input.Frames[p.index]

		canvas.DrawImage(p.image, rect.X, rect.Y)
		if border := input.Layout.Border; border > 0 {
			canvas.StrokeRect(rect.X-border, rect.Y-border, rect.Width+border*2, rect.Height+border*2, theme.BorderColor, float64(border))
		}
		if input.ShowLabels && p.index < len(input.Layout.Labels) {
			label := input.Layout.Labels[p.index]
			canvas.DrawText(FormatOffset(frame.Offset), label.X+label.Width/2, label.Y+label.Height/2, ports.TextStyle{
				FontSize: float64(label.Height) * 0.75,
				FontPath: theme.FontPath,
				Color:    theme.LabelColor,
				Align:    ports.AlignCenter,
			})
		}

		cells[p.index] = pipeline.SpriteCell{
			Index:     p.index,
			Offset:    frame.Offset,
			Rectangle: rect,
		}
	}

	img := canvas.ToImage()
	data, err := s.renderer.EncodeImage(img, outputFormat(input.Format), input.Quality)
	if err != nil {
		return pipeline.SpriteResult{}, fmt.Errorf("encode sprite: %w", err)
	}

	if s.sink.Enabled() {
		if err := s.sink.SaveSprite(img); err != nil {
			s.logger.Debug("Save debug sprite: %v", err)
		}
	}

	s.logger.Debug("Sprite composed: %dx%d, %d bytes", input.Layout.Canvas.Width, input.Layout.Canvas.Height, len(data))
	return pipeline.SpriteResult{
		Image: img,
		Data:  data,
		Cells: cells,
	}, nil
}

// indexedPicture holds a decoded frame with its original index for sorting.
type indexedPicture struct {
	index int
	image image.Image
}

// decodeParallel decodes and scales frames using a worker pool.
func (s *Stage) decodeParallel(ctx context.Context, input pipeline.SpriteInput) ([]indexedPicture, error) {
	numFrames := len(input.Frames)
	jobs := make(chan int, numFrames)
	results := make(chan indexedPicture, numFrames)
	errChan := make(chan error, s.numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < s.numWorkers; w++ {
		wg.Add(1)
		go s.worker(ctx, &wg, input, jobs, results, errChan)
	}

	for i := 0; i < numFrames; i++ {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
		close(errChan)
	}()

	pictures := make([]indexedPicture, 0, numFrames)
	for result := range results {
		pictures = append(pictures, result)
	}

	if err := <-errChan; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(pictures, func(i, j int) bool {
		return pictures[i].index < pictures[j].index
	})
	return pictures, nil
}

// worker processes frames from the jobs channel.
func (s *Stage) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	input pipeline.SpriteInput,
	jobs <-chan int,
	results chan<- indexedPicture,
	errChan chan<- error,
) {
	defer wg.Done()

	for idx := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		img, err := s.decodeFrame(input.Frames[idx], input.Layout.Cells[idx])
		if err != nil {
			select {
			case errChan <- fmt.Errorf("decode frame %d: %w", idx, err):
			default:
			}
			return
		}

		results <- indexedPicture{index: idx, image: img}
	}
}

// decodeFrame turns a data URL into a picture sized to its cell.
func (s *Stage) decodeFrame(frame framegrab.CapturedFrame, cell pipeline.Rectangle) (image.Image, error) {
	decoded, err := pipeline.DecodeFrame(frame.Image)
	if err != nil {
		return nil, err
	}
	img, err := s.renderer.DecodeImage(decoded.Data, ports.ParseImageFormat(decoded.MediaType))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", decoded.MediaType, err)
	}
	b := img.Bounds()
	if b.Dx() != cell.Width || b.Dy() != cell.Height || b.Min != (image.Point{}) {
		img = s.renderer.ResizeImage(img, cell.Width, cell.Height)
	}
	return img, nil
}

func outputFormat(f ports.ImageFormat) ports.ImageFormat {
	if f == ports.FormatJPEG {
		return ports.FormatJPEG
	}
	return ports.FormatPNG
}

// FormatOffset renders a position in seconds as m:ss.mmm.
func FormatOffset(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(seconds*1000 + 0.5)
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
}
