package presentation

import (
	"fmt"
	"sync"
	"time"

	"algoridigm/internal/timers"
)

const (
	baseTickInterval  = 1000 * time.Millisecond
	minTickInterval   = 100 * time.Millisecond
	tickAcceleration  = 10 * time.Millisecond
	accelerationSlide = 1
)

// TickInterval returns the delay before the next tick. Before the
// acceleration slide it is fixed at one second; from then on it shrinks by
// 10ms per elapsed second, floored at 100ms.
func TickInterval(slide, seconds int) time.Duration {
	if slide < accelerationSlide {
		return baseTickInterval
	}
	d := baseTickInterval - time.Duration(seconds)*tickAcceleration
	if d < minTickInterval {
		return minTickInterval
	}
	return d
}

// FormatClock renders raw seconds as zero-padded HH:MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// Timer is the accelerating elapsed-time counter. It keeps at most one tick
// armed; whenever the interval changes the pending tick is replaced.
//
// Timer is not safe for concurrent use on its own. The Sequencer calls it
// with the stage lock held and passes the same lock as the run lock, so tick
// callbacks are serialised with every other operation.
type Timer struct {
	clock  timers.Clock
	run    sync.Locker
	onTick func()

	seconds  int
	slide    int
	interval time.Duration

	scope   *timers.Scope
	pending timers.Handle
}

// NewTimer creates a stopped timer at zero seconds.
func NewTimer(clock timers.Clock, run sync.Locker, onTick func()) *Timer {
	return &Timer{
		clock:    clock,
		run:      run,
		onTick:   onTick,
		interval: TickInterval(0, 0),
	}
}

// Start begins ticking. Calling Start on a running timer is a no-op.
func (t *Timer) Start() bool {
	if t.scope != nil {
		return false
	}
	t.scope = timers.NewScope(t.clock, t.run)
	t.arm()
	return true
}

// Stop cancels the pending tick. Calling Stop on a stopped timer is a no-op.
func (t *Timer) Stop() bool {
	if t.scope == nil {
		return false
	}
	t.scope.Close()
	t.scope = nil
	t.pending = timers.Handle{}
	return true
}

// Reset zeroes the counter and reschedules if the interval changed.
func (t *Timer) Reset() {
	t.seconds = 0
	t.recompute()
}

// SetSlide tells the timer which slide is showing. The interval may change.
func (t *Timer) SetSlide(slide int) {
	t.slide = slide
	t.recompute()
}

// Running reports whether a tick chain is active.
func (t *Timer) Running() bool { return t.scope != nil }

// Seconds returns the elapsed counter.
func (t *Timer) Seconds() int { return t.seconds }

// Interval returns the current tick interval.
func (t *Timer) Interval() time.Duration { return t.interval }

// PendingTicks reports how many ticks are armed. It is 0 or 1.
func (t *Timer) PendingTicks() int {
	if t.scope == nil {
		return 0
	}
	return t.scope.Pending()
}

func (t *Timer) tick() {
	t.seconds++
	t.interval = TickInterval(t.slide, t.seconds)
	t.arm()
	if t.onTick != nil {
		t.onTick()
	}
}

func (t *Timer) recompute() {
	next := TickInterval(t.slide, t.seconds)
	if next == t.interval {
		return
	}
	t.interval = next
	if t.scope != nil {
		t.arm()
	}
}

func (t *Timer) arm() {
	t.pending.Cancel()
	t.pending = t.scope.After(t.interval, t.tick)
}
