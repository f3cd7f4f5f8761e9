package engine

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer needs
type Timer interface {
	Stop() bool
}

// Clock schedules delayed callbacks
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by the runtime timers
func RealClock() Clock {
	return realClock{}
}

// CancelHandle stops a scheduled action. Cancel is idempotent and
// a no-op once the action has run.
type CancelHandle interface {
	Cancel()
}

// Debouncer delays actions until input has been quiet for a while.
// Callers cancel the previous handle before scheduling the next one.
type Debouncer struct {
	clock Clock
}

// NewDebouncer creates a debouncer using clock
func NewDebouncer(clock Clock) *Debouncer {
	if clock == nil {
		clock = RealClock()
	}
	return &Debouncer{clock: clock}
}

// Schedule runs action once after delay unless the handle is canceled first
func (d *Debouncer) Schedule(action func(), delay time.Duration) CancelHandle {
	h := &scheduled{action: action}

	// Hold the lock so an early fire cannot race the timer assignment
	h.mu.Lock()
	h.timer = d.clock.AfterFunc(delay, h.fire)
	h.mu.Unlock()

	return h
}

type scheduled struct {
	mu       sync.Mutex
	timer    Timer
	action   func()
	canceled bool
	fired    bool
}

func (h *scheduled) fire() {
	h.mu.Lock()
	if h.canceled || h.fired {
		h.mu.Unlock()
		return
	}
	h.fired = true
	action := h.action
	h.mu.Unlock()

	action()
}

func (h *scheduled) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.canceled || h.fired {
		return
	}
	h.canceled = true
	if h.timer != nil {
		h.timer.Stop()
	}
}
