package mocks

import (
	"image"
	"sync"

	"github.com/user/framesnap/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	PlanJSON   []byte
	LayoutJSON []byte
	Frames     map[int][]byte
	Exts       map[int]string
	Sprite     image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled: enabled,
		Frames:  make(map[int][]byte),
		Exts:    make(map[int]string),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SavePlanJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlanJSON = data
	return nil
}

func (m *DebugSink) SaveLayoutJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LayoutJSON = data
	return nil
}

func (m *DebugSink) SaveFrame(index int, data []byte, ext string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames[index] = data
	m.Exts[index] = ext
	return nil
}

func (m *DebugSink) SaveSprite(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sprite = img
	return nil
}

// FrameCount returns the number of saved frames.
func (m *DebugSink) FrameCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Frames)
}

var _ ports.DebugSink = (*DebugSink)(nil)
