package mocks

import (
	"fmt"
	"sync"

	"github.com/user/framesnap/pkg/ports"
)

// Surface is a mock implementation of ports.Surface.
// Encode returns "data:<format>;frame=<n>" unless EncodeFunc is set.
type Surface struct {
	mu sync.Mutex

	RenderFromFunc func(src ports.VideoSource, x, y, width, height float64) error
	EncodeFunc     func(format string) (string, error)

	Width   int
	Height  int
	Clears  int
	Renders []RenderCall
	Encoded []string
}

// RenderCall records the arguments of one RenderFrom call.
type RenderCall struct {
	Position float64
	X, Y     float64
	Width    float64
	Height   float64
}

func (m *Surface) Resize(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Width = width
	m.Height = height
}

func (m *Surface) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clears++
}

func (m *Surface) RenderFrom(src ports.VideoSource, x, y, width, height float64) error {
	if m.RenderFromFunc != nil {
		if err := m.RenderFromFunc(src, x, y, width, height); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Renders = append(m.Renders, RenderCall{
		Position: src.CurrentTime(),
		X:        x,
		Y:        y,
		Width:    width,
		Height:   height,
	})
	return nil
}

func (m *Surface) Encode(format string) (string, error) {
	if m.EncodeFunc != nil {
		return m.EncodeFunc(format)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := fmt.Sprintf("data:%s;frame=%d", format, len(m.Encoded))
	m.Encoded = append(m.Encoded, s)
	return s, nil
}

var _ ports.Surface = (*Surface)(nil)
