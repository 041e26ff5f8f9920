// Package frame provides the per-frame callback facility the page animates
// on. A step runs once per frame slot and must schedule itself again to keep
// the loop alive. A step that fails or panics simply is not run again.
package frame

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StepFunc is one frame of work. now is the time the frame slot started.
type StepFunc func(now time.Time) error

// Scheduler runs a single pending step on the next frame slot. Scheduling
// again before the slot replaces the pending step.
type Scheduler interface {
	Schedule(step StepFunc)
	Stop()
}

// call runs step and converts a panic into an error.
func call(step StepFunc, now time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("frame step panic: %v", r)
		}
	}()
	return step(now)
}

// Ticker is a fixed-rate Scheduler. It also serves as the single callback
// queue: functions passed to Post run on the loop goroutine before the next
// frame, so input handlers and frame steps never overlap.
type Ticker struct {
	interval time.Duration

	mu      sync.Mutex
	pending StepFunc
	stopped bool
	posted  []func()
	err     error

	// OnAbort, if set, is called on the loop goroutine when a step fails.
	OnAbort func(error)
}

// NewTicker creates a ticker running fps frames per second.
func NewTicker(fps int) *Ticker {
	if fps <= 0 {
		fps = 60
	}
	return &Ticker{interval: time.Second / time.Duration(fps)}
}

// Interval returns the frame interval.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Schedule sets the step for the next frame. It is a no-op after Stop.
func (t *Ticker) Schedule(step StepFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.pending = step
}

// Stop drops the pending step and prevents further scheduling.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.pending = nil
}

// Post queues fn to run on the loop goroutine. It never blocks.
func (t *Ticker) Post(fn func()) {
	t.mu.Lock()
	t.posted = append(t.posted, fn)
	t.mu.Unlock()
}

// Err returns the error that ended the step chain, if any.
func (t *Ticker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Run drives frames until ctx is done. It keeps draining posted callbacks
// after the step chain ends so the host can still shut down cleanly.
func (t *Ticker) Run(ctx context.Context) error {
	tick := time.NewTicker(t.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-tick.C:
			t.drain()
			t.fire(now)
		}
	}
}

func (t *Ticker) drain() {
	t.mu.Lock()
	posted := t.posted
	t.posted = nil
	t.mu.Unlock()

	for _, fn := range posted {
		fn()
	}
}

func (t *Ticker) fire(now time.Time) {
	t.mu.Lock()
	step := t.pending
	t.pending = nil
	t.mu.Unlock()

	if step == nil {
		return
	}
	if err := call(step, now); err != nil {
		t.mu.Lock()
		t.err = err
		t.pending = nil
		t.mu.Unlock()
		if t.OnAbort != nil {
			t.OnAbort(err)
		}
	}
}

// Manual is a Scheduler advanced by hand, for tests and offline rendering.
type Manual struct {
	pending StepFunc
	stopped bool
	err     error
}

// Schedule sets the step for the next Fire.
func (m *Manual) Schedule(step StepFunc) {
	if m.stopped {
		return
	}
	m.pending = step
}

// Stop prevents further scheduling.
func (m *Manual) Stop() {
	m.stopped = true
	m.pending = nil
}

// Pending reports whether a step is waiting.
func (m *Manual) Pending() bool {
	return m.pending != nil
}

// Err returns the error that ended the step chain, if any.
func (m *Manual) Err() error {
	return m.err
}

// Fire runs the pending step with now. It reports whether a step ran.
func (m *Manual) Fire(now time.Time) bool {
	step := m.pending
	m.pending = nil
	if step == nil {
		return false
	}
	if err := call(step, now); err != nil {
		m.err = err
		m.pending = nil
	}
	return true
}
