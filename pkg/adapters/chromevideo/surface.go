package chromevideo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/user/framesnap/pkg/ports"
)

// ErrForeignSource is returned when RenderFrom is given a source other than
// the surface's own player.
var ErrForeignSource = errors.New("chromevideo: source belongs to another page")

// Surface is the <canvas> element next to a Player's video.
type Surface struct {
	player *Player
}

// NewSurface returns the canvas surface of p.
func NewSurface(p *Player) *Surface {
	return &Surface{player: p}
}

func (s *Surface) run(script string, res interface{}) error {
	if !s.player.isStarted() {
		return ErrNotStarted
	}
	return s.player.browser.Run(chromedp.Evaluate(script, res))
}

// Resize sets the canvas dimensions, which also clears it.
func (s *Surface) Resize(width, height int) {
	if err := s.run(fmt.Sprintf("window.__framesnap.resize(%d, %d)", width, height), nil); err != nil {
		s.player.logger.Debug("Resize canvas: %v", err)
	}
}

// Clear resets every pixel to transparent black.
func (s *Surface) Clear() {
	if err := s.run("window.__framesnap.clear()", nil); err != nil {
		s.player.logger.Debug("Clear canvas: %v", err)
	}
}

// RenderFrom draws the current video picture into the rectangle.
func (s *Surface) RenderFrom(src ports.VideoSource, x, y, width, height float64) error {
	if src != ports.VideoSource(s.player) {
		return ErrForeignSource
	}
	script := fmt.Sprintf("window.__framesnap.draw(%s, %s, %s, %s)",
		jsNumber(x), jsNumber(y), jsNumber(width), jsNumber(height))
	return s.run(script, nil)
}

// Encode exports the canvas as a data URL. The browser falls back to PNG
// for types it cannot encode. Exports of cross-origin video without CORS
// approval fail.
func (s *Surface) Encode(format string) (string, error) {
	arg, err := json.Marshal(format)
	if err != nil {
		return "", fmt.Errorf("encode format: %w", err)
	}
	var out string
	if err := s.run(fmt.Sprintf("window.__framesnap.encode(%s)", arg), &out); err != nil {
		return "", fmt.Errorf("export canvas: %w", err)
	}
	return out, nil
}

var _ ports.Surface = (*Surface)(nil)
