package common

import (
	"sync"
	"time"
)

// Timer is the subset of *time.Timer a Debouncer needs. It lets tests substitute a manual clock.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d elapses and returns a handle that can cancel it.
type AfterFunc func(d time.Duration, f func()) Timer

// DebouncerOption is a functional option applied to a Debouncer during construction.
type DebouncerOption func(*Debouncer)

// WithAfterFunc replaces the scheduling function used by the Debouncer. Defaults to time.AfterFunc.
//
// Parameters:
//   - after: the scheduling function
//
// Returns:
//   - DebouncerOption: option function to apply
func WithAfterFunc(after AfterFunc) DebouncerOption {
	return func(d *Debouncer) {
		d.after = after
	}
}

// Debouncer runs a function once after a quiet period following the last Trigger call.
// Each Trigger cancels the pending run and restarts the quiet period (trailing debounce).
// Stop cancels any pending run and disables the Debouncer permanently.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	after   AfterFunc
	timer   Timer
	gen     uint64
	stopped bool
}

// NewDebouncer creates a Debouncer that calls fn after delay of inactivity.
//
// Parameters:
//   - delay: the quiet period
//   - fn: the function to run
//   - options: functional options
//
// Returns:
//   - *Debouncer: the debouncer
func NewDebouncer(delay time.Duration, fn func(), options ...DebouncerOption) *Debouncer {
	d := &Debouncer{
		delay: delay,
		fn:    fn,
		after: func(delay time.Duration, f func()) Timer {
			return time.AfterFunc(delay, f)
		},
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// Trigger (re)starts the quiet period. It is a no-op after Stop.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.after(d.delay, func() { d.fire(gen) })
}

// Cancel drops the pending run, if any, without disabling the Debouncer.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Stop cancels the pending run and makes every later Trigger a no-op. Safe to call repeatedly.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

// Pending reports whether a run is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	// a timer that already fired but has not yet taken the lock sees a stale generation
	d.gen++
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}
