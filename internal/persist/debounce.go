// internal/persist/debounce.go
//
// Trailing-edge write coalescer. A burst of rapid state changes (drag
// selection, fast tapping) becomes a single persisted write: each trigger
// replaces the pending one and restarts the timer, so only the final state
// of the burst is written. Lost intermediate states are fine; last-state-
// wins is the contract.

package persist

import (
	"sync"
	"time"
)

// DefaultDebounce is the trailing-edge delay used when none is given.
const DefaultDebounce = 250 * time.Millisecond

// Debouncer coalesces triggers into one deferred call. Safe for concurrent
// use; the pending function runs on the timer goroutine.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
}

// NewDebouncer returns a debouncer with the given trailing delay;
// a non-positive delay selects DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the delay, replacing any previously
// scheduled function and restarting the timer.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Flush runs any pending function immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.fire()
}

// Stop drops any pending function without running it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
