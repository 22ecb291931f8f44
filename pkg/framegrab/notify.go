package framegrab

import (
	"context"
	"sync"
)

// seekWaiter holds at most one pending seek completion.
// Notifications that arrive with nothing pending are dropped.
type seekWaiter struct {
	mu      sync.Mutex
	pending chan struct{}
}

// arm registers a new pending completion and returns the channel that is
// closed when it resolves.
func (w *seekWaiter) arm() (<-chan struct{}, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		return nil, errSeekPending
	}
	w.pending = make(chan struct{})
	return w.pending, nil
}

// resolve completes the pending waiter, if any.
func (w *seekWaiter) resolve() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending == nil {
		return
	}
	close(w.pending)
	w.pending = nil
}

// disarm drops the pending waiter without resolving it.
func (w *seekWaiter) disarm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = nil
}

// errorLatch records the first fatal error reported by the source.
type errorLatch struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newErrorLatch() *errorLatch {
	return &errorLatch{done: make(chan struct{})}
}

// fire records err and releases every waiter. Later calls are ignored.
func (l *errorLatch) fire(err error) {
	l.once.Do(func() {
		l.err = &SourceError{Err: err}
		close(l.done)
	})
}

// fired reports whether an error has been recorded.
func (l *errorLatch) fired() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// run carries the notification state of one extraction.
type run struct {
	seeks  seekWaiter
	failed *errorLatch
}

func newRun() *run {
	return &run{failed: newErrorLatch()}
}

// await blocks until ch is closed, the source fails or ctx is done.
// A source failure takes precedence over a completion that raced with it.
func (r *run) await(ctx context.Context, ch <-chan struct{}) error {
	select {
	case <-ch:
		if r.failed.fired() {
			return r.failed.err
		}
		return nil
	case <-r.failed.done:
		return r.failed.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
