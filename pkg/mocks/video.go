package mocks

import (
	"context"
	"image"
	"math"
	"sync"

	"github.com/user/framesnap/pkg/ports"
)

// VideoSource is a mock implementation of ports.VideoSource.
//
// By default Assign makes the source ready immediately with the configured
// duration and natural size, and every seek completes asynchronously at the
// requested position clamped to [0, duration].
type VideoSource struct {
	mu sync.Mutex

	// Media properties reported once loaded.
	DurationValue float64
	Width         int
	Height        int

	// PollsUntilReady keeps the duration unknown for this many seeks after
	// Assign.
	PollsUntilReady int

	// AssignErr is reported through OnError after Assign.
	AssignErr error

	// FailAtSeek reports SeekErr through OnError instead of completing the
	// n-th seek after the source became ready (1-based). Zero disables it.
	FailAtSeek int
	SeekErr    error

	// PositionFunc maps a requested position to the reported one.
	PositionFunc func(requested float64) float64

	// Frame is returned by CurrentFrame.
	Frame image.Image

	AssignFunc func(ctx context.Context, locator string) error

	Locator    string
	Seeks      []float64
	Closed     bool
	current    float64
	loaded     bool
	seeking    bool
	polls      int
	readySeeks int
	onSeeked   func()
	onError    func(err error)
	wg         sync.WaitGroup
}

func (m *VideoSource) Assign(ctx context.Context, locator string) error {
	if m.AssignFunc != nil {
		if err := m.AssignFunc(ctx, locator); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.Locator = locator
	m.loaded = m.PollsUntilReady == 0 && m.AssignErr == nil
	onError := m.onError
	m.mu.Unlock()

	if m.AssignErr != nil && onError != nil {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			onError(m.AssignErr)
		}()
	}
	return nil
}

func (m *VideoSource) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return math.NaN()
	}
	return m.DurationValue
}

func (m *VideoSource) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *VideoSource) SetCurrentTime(seconds float64) {
	m.mu.Lock()
	if !m.loaded {
		m.current = seconds
		if m.AssignErr == nil {
			m.polls++
			if m.polls >= m.PollsUntilReady {
				m.loaded = true
			}
		}
		m.mu.Unlock()
		return
	}

	m.Seeks = append(m.Seeks, seconds)
	m.readySeeks++
	fail := m.FailAtSeek > 0 && m.readySeeks == m.FailAtSeek
	m.seeking = true
	target := math.Max(0, math.Min(seconds, m.DurationValue))
	if m.PositionFunc != nil {
		target = m.PositionFunc(target)
	}
	onSeeked := m.onSeeked
	onError := m.onError
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if fail {
			if onError != nil {
				onError(m.SeekErr)
			}
			return
		}
		m.mu.Lock()
		m.current = target
		m.seeking = false
		m.mu.Unlock()
		if onSeeked != nil {
			onSeeked()
		}
	}()
}

func (m *VideoSource) Seeking() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seeking
}

func (m *VideoSource) NaturalSize() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return 0, 0
	}
	return m.Width, m.Height
}

func (m *VideoSource) ReadyState() ports.ReadyState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return ports.HaveNothing
	}
	return ports.HaveEnoughData
}

func (m *VideoSource) OnSeeked(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSeeked = fn
}

func (m *VideoSource) OnError(fn func(err error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onError = fn
}

func (m *VideoSource) Close() error {
	m.wg.Wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

func (m *VideoSource) CurrentFrame() (image.Image, error) {
	if m.Frame != nil {
		return m.Frame, nil
	}
	w, h := m.NaturalSize()
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

// SeekLog returns a copy of the positions requested after the source became ready.
func (m *VideoSource) SeekLog() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.Seeks...)
}

var (
	_ ports.VideoSource = (*VideoSource)(nil)
	_ ports.FrameReader = (*VideoSource)(nil)
)
