package browse

import (
	"sync"
	"time"
)

// DefaultDebounce matches the free-text input delay: recompute only
// after the user stops typing. Other filter changes apply immediately.
const DefaultDebounce = 250 * time.Millisecond

// Debouncer coalesces bursts of calls into one, firing fn after the
// wait elapses without another Trigger.
type Debouncer struct {
	Wait time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(wait time.Duration) *Debouncer {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Debouncer{Wait: wait}
}

// Trigger schedules fn, replacing any pending invocation.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.Wait, fn)
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
