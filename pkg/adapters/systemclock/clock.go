// Package systemclock provides the wall-clock implementation of ports.Clock.
package systemclock

import (
	"time"

	"github.com/user/framesnap/pkg/ports"
)

// Clock implements ports.Clock with real timers.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// After waits for the duration to elapse and then sends the current time.
func (c *Clock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

var _ ports.Clock = (*Clock)(nil)
