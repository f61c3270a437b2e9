package timers

import (
	"sync"
	"time"
)

// Scope owns every delayed callback and cleanup a component acquires while
// it is mounted. Closing the scope cancels all outstanding timers and runs
// the cleanups, so nothing scheduled through it can outlive the component.
//
// Callbacks run while holding the scope's run lock. A callback whose timer was
// cancelled, or whose scope was closed, before it acquired the lock is
// dropped. Callers that close the scope while holding the same lock therefore
// never observe a callback after Close returns.
type Scope struct {
	clock Clock
	run   sync.Locker

	mu       sync.Mutex
	closed   bool
	nextID   uint64
	pending  map[uint64]Timer
	cleanups []func()
}

// Handle identifies one callback armed through a Scope.
type Handle struct {
	scope *Scope
	id    uint64
}

// NewScope creates a scope that schedules on clock. run may be nil, in which
// case callbacks are not serialised with anything.
func NewScope(clock Clock, run sync.Locker) *Scope {
	if clock == nil {
		clock = RealClock()
	}
	return &Scope{
		clock:   clock,
		run:     run,
		pending: make(map[uint64]Timer),
	}
}

// After schedules fn to run once d has elapsed. On a closed scope it does
// nothing and returns a zero Handle.
func (s *Scope) After(d time.Duration, fn func()) Handle {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Handle{}
	}
	s.nextID++
	id := s.nextID
	// Reserve the slot before arming so an immediate fire finds it.
	s.pending[id] = nil
	s.mu.Unlock()

	t := s.clock.AfterFunc(d, func() { s.fire(id, fn) })

	s.mu.Lock()
	if _, ok := s.pending[id]; ok {
		s.pending[id] = t
	}
	s.mu.Unlock()

	return Handle{scope: s, id: id}
}

// Defer registers fn to run when the scope closes. Cleanups run in reverse
// registration order. On a closed scope fn runs immediately.
func (s *Scope) Defer(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
	s.mu.Unlock()
}

// Pending reports the number of armed callbacks that have not fired.
func (s *Scope) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close cancels every outstanding callback and runs the deferred cleanups.
// Calling Close more than once is a no-op.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	pending := s.pending
	s.pending = make(map[uint64]Timer)
	cleanups := s.cleanups
	s.cleanups = nil
	s.mu.Unlock()

	for _, t := range pending {
		if t != nil {
			t.Stop()
		}
	}
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

func (s *Scope) fire(id uint64, fn func()) {
	if s.run != nil {
		s.run.Lock()
		defer s.run.Unlock()
	}

	s.mu.Lock()
	_, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	live := ok && !s.closed
	s.mu.Unlock()

	if live {
		fn()
	}
}

// Cancel stops the callback if it has not fired yet. It reports whether the
// callback was still pending.
func (h Handle) Cancel() bool {
	if h.scope == nil {
		return false
	}
	s := h.scope

	s.mu.Lock()
	t, ok := s.pending[h.id]
	if ok {
		delete(s.pending, h.id)
	}
	s.mu.Unlock()

	if ok && t != nil {
		t.Stop()
	}
	return ok
}

// Active reports whether the callback is still scheduled.
func (h Handle) Active() bool {
	if h.scope == nil {
		return false
	}
	h.scope.mu.Lock()
	defer h.scope.mu.Unlock()
	_, ok := h.scope.pending[h.id]
	return ok
}
