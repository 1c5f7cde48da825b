package draft

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single call after a quiet
// period. It is explicit and cancellable: teardown must call Cancel or Flush
// so no write fires after its owner is gone.
type Debouncer struct {
	mu      sync.Mutex
	d       time.Duration
	fn      func()
	timer   *time.Timer
	pending bool
	stopped bool
}

// NewDebouncer returns a debouncer that invokes fn once per quiet period d.
func NewDebouncer(d time.Duration, fn func()) *Debouncer {
	return &Debouncer{d: d, fn: fn}
}

// Trigger (re)arms the quiet-period timer. Each call pushes the pending fire
// out by the full period.
func (db *Debouncer) Trigger() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.stopped {
		return
	}
	db.pending = true
	if db.timer != nil {
		db.timer.Stop()
	}
	db.timer = time.AfterFunc(db.d, db.fire)
}

func (db *Debouncer) fire() {
	db.mu.Lock()
	if db.stopped || !db.pending {
		db.mu.Unlock()
		return
	}
	db.pending = false
	fn := db.fn
	db.mu.Unlock()

	fn()
}

// Flush runs the pending call immediately, if there is one.
func (db *Debouncer) Flush() {
	db.mu.Lock()
	if db.stopped || !db.pending {
		db.mu.Unlock()
		return
	}
	if db.timer != nil {
		db.timer.Stop()
	}
	db.pending = false
	fn := db.fn
	db.mu.Unlock()

	fn()
}

// Drop discards any pending call. Unlike Cancel the debouncer stays
// usable; the next Trigger arms it again.
func (db *Debouncer) Drop() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.pending = false
	if db.timer != nil {
		db.timer.Stop()
	}
}

// Cancel drops any pending call and stops the debouncer for good.
func (db *Debouncer) Cancel() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.stopped = true
	db.pending = false
	if db.timer != nil {
		db.timer.Stop()
	}
}
