package view

import (
	"sync"
	"time"
)

// Debouncer runs the last triggered function after a quiet period. A new
// trigger cancels the pending one. When post is set the function is handed
// to it instead of running on the timer goroutine.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	post  func(func())
	timer *time.Timer
	gen   uint64
}

// NewDebouncer creates a debouncer. post may be nil.
func NewDebouncer(delay time.Duration, post func(func())) *Debouncer {
	return &Debouncer{delay: delay, post: post}
}

// Trigger schedules fn, replacing any pending function
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := gen == d.gen
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if !current {
			return
		}
		if d.post != nil {
			d.post(fn)
			return
		}
		fn()
	})
}

// Pending reports whether a function is scheduled
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop drops the pending function
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
