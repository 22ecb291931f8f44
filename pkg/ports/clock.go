package ports

import "time"

// Clock abstracts timers so polling loops can be driven in tests.
type Clock interface {
	// After waits for the duration to elapse and then sends the current time.
	After(d time.Duration) <-chan time.Time
}
