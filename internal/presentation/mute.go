package presentation

import (
	"slices"
	"sync"
)

// MuteListener is notified when the shared mute flag flips. The notification
// carries no payload: listeners flip their own mirrored state.
type MuteListener interface {
	MuteToggled()
}

// MuteListenerFunc adapts a function to MuteListener.
type MuteListenerFunc func()

// MuteToggled calls f.
func (f MuteListenerFunc) MuteToggled() { f() }

// MuteSignal is the read side of the mute bus handed to audio producers.
// It cannot toggle the flag.
type MuteSignal interface {
	Muted() bool
	Subscribe(l MuteListener) *Subscription
}

// MuteBus is the process-wide mute flag. It starts unmuted and is never
// persisted. Only the owner of the *MuteBus can toggle it.
type MuteBus struct {
	mu        sync.RWMutex
	dispatch  sync.Mutex
	muted     bool
	nextID    uint64
	listeners map[uint64]MuteListener
}

// Subscription is a live registration on the MuteBus.
type Subscription struct {
	bus  *MuteBus
	id   uint64
	once sync.Once
}

// NewMuteBus creates an unmuted bus with no subscribers.
func NewMuteBus() *MuteBus {
	return &MuteBus{listeners: make(map[uint64]MuteListener)}
}

// Muted reports the current flag.
func (b *MuteBus) Muted() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.muted
}

// Subscribe registers l for toggle notifications.
func (b *MuteBus) Subscribe(l MuteListener) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.listeners[b.nextID] = l
	return &Subscription{bus: b, id: b.nextID}
}

// Subscribers reports the number of live subscriptions.
func (b *MuteBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// Toggle flips the flag and synchronously notifies every subscriber, in
// subscription order. It returns the new value.
func (b *MuteBus) Toggle() bool {
	b.dispatch.Lock()
	defer b.dispatch.Unlock()

	b.mu.Lock()
	b.muted = !b.muted
	muted := b.muted
	ids := make([]uint64, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	b.mu.Unlock()

	slices.Sort(ids)
	for _, id := range ids {
		b.mu.RLock()
		l, ok := b.listeners[id]
		b.mu.RUnlock()
		// A listener removed by an earlier handler in this cycle is skipped.
		if ok {
			l.MuteToggled()
		}
	}
	return muted
}

// Unsubscribe removes the registration. Further calls are no-ops.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.listeners, s.id)
		s.bus.mu.Unlock()
	})
}
