package mocks

import (
	"sync"
	"time"

	"github.com/user/framesnap/pkg/ports"
)

// Clock is a mock implementation of ports.Clock whose timers fire at once.
type Clock struct {
	mu    sync.Mutex
	Waits []time.Duration
}

func (m *Clock) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	m.Waits = append(m.Waits, d)
	m.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

// Count returns the number of timers started.
func (m *Clock) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Waits)
}

var _ ports.Clock = (*Clock)(nil)
