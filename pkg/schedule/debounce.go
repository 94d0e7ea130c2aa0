// Package schedule provides the two timer-driven primitives of the editor:
// a trailing-edge debouncer for autosave and a single-slot undo buffer that
// forgets its value after a fixed delay.
package schedule

import (
	"sync"
	"time"

	"github.com/aretw0/framenotes/pkg/clock"
)

// Debouncer delays a call until no new call has been requested for a quiet
// window. Each Trigger cancels the pending call and restarts the window.
type Debouncer struct {
	mu      sync.Mutex
	clock   clock.Clock
	wait    time.Duration
	timer   clock.Timer
	pending func()
	gen     uint64
}

// NewDebouncer creates a Debouncer with the given quiet window.
// A nil clock means the real clock.
func NewDebouncer(c clock.Clock, wait time.Duration) *Debouncer {
	if c == nil {
		c = clock.Real()
	}
	return &Debouncer{clock: c, wait: wait}
}

// Trigger schedules fn to run once the window has been quiet.
// A call still waiting is replaced by fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = d.clock.AfterFunc(d.wait, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Flush runs the pending call immediately. It reports whether there was one.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.pending == nil {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	fn := d.pending
	d.pending = nil
	d.mu.Unlock()

	fn()
	return true
}

// Pending reports whether a call is waiting for the window to close.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop drops the pending call without running it. It reports whether a
// call was dropped.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	dropped := d.pending != nil
	d.pending = nil
	return dropped
}
