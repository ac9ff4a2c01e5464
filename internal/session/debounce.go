package session

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs at most one pending task. Scheduling again cancels the
// previous task's context and stops its timer.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	seq    uint64
}

// NewDebouncer creates a debouncer with the given quiet period
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the quiet period. fn receives a context
// that is cancelled as soon as another task is scheduled or Stop is called.
func (d *Debouncer) Trigger(parent context.Context, fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()

	ctx, cancel := context.WithCancel(parent)
	d.seq++
	seq := d.seq
	d.cancel = cancel
	d.timer = time.AfterFunc(d.delay, func() {
		defer d.finish(seq, cancel)
		if ctx.Err() != nil {
			return
		}
		fn(ctx)
	})
}

// finish releases a task's context once it has run. A newer task owns the
// stored cancel by then and is left alone.
func (d *Debouncer) finish(seq uint64, cancel context.CancelFunc) {
	cancel()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seq == seq {
		d.timer = nil
		d.cancel = nil
	}
}

// pending reports whether a task is scheduled or running
func (d *Debouncer) pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil
}

// Stop cancels the pending task, if any
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
