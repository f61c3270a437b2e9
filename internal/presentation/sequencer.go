// Package presentation implements the presentation state machine: the slide
// sequencer, the accelerating timer, per-slide phased reveals and the mute
// bus the audio producers listen on.
//
// Everything runs under one stage lock. Operations take it on entry and every
// scheduled callback takes it before running, which gives the same
// single-threaded, callback-driven model a browser would. Each mounted slide
// schedules through its own timers.Scope; unmounting closes the scope, so a
// slide's pending phases, transition chain and mute subscriptions are released
// together.
package presentation

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"algoridigm/internal/metrics"
	"algoridigm/internal/models"
	"algoridigm/internal/timers"
)

// Sequencer is the single source of truth for which slide is visible.
type Sequencer struct {
	mu sync.Mutex

	deck   Deck
	clock  timers.Clock
	mute   *MuteBus
	timer  *Timer
	logger *zap.Logger

	current int
	mounted *mountedSlide
	closed  bool

	nextWatch uint64
	watchers  map[uint64]func(models.PresentationState)
}

type mountedSlide struct {
	index         int
	slide         Slide
	scope         *timers.Scope
	phases        *PhaseController
	cues          []*AudioCue
	acknowledged  bool
	transitioning bool
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithClock sets the clock used for every timer. Defaults to the real clock.
func WithClock(c timers.Clock) Option {
	return func(s *Sequencer) { s.clock = c }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sequencer) { s.logger = l }
}

// WithMuteBus injects the mute bus. The sequencer becomes its only writer.
func WithMuteBus(b *MuteBus) Option {
	return func(s *Sequencer) { s.mute = b }
}

// NewSequencer creates a sequencer showing slide 0 with the timer stopped.
func NewSequencer(deck Deck, opts ...Option) (*Sequencer, error) {
	if err := deck.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deck: %w", err)
	}

	s := &Sequencer{
		deck:     deck,
		clock:    timers.RealClock(),
		logger:   zap.NewNop(),
		watchers: make(map[uint64]func(models.PresentationState)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.mute == nil {
		s.mute = NewMuteBus()
	}
	s.timer = NewTimer(s.clock, &s.mu, s.notify)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mount(0)
	return s, nil
}

// MaxSlide returns the highest slide index.
func (s *Sequencer) MaxSlide() int { return s.deck.MaxIndex() }

// MuteSignal exposes the read side of the mute bus for additional producers.
func (s *Sequencer) MuteSignal() MuteSignal { return s.mute }

// GoToSlide shows slide target. Out-of-range targets are ignored without
// error. It reports whether the visible slide changed.
func (s *Sequencer) GoToSlide(target int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goTo(target)
}

// Next advances one slide. On a slide with a reveal delay it starts the
// delayed transition instead; repeated calls while transitioning are ignored.
// It reports whether anything changed.
func (s *Sequencer) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.mounted
	if m == nil {
		return false
	}
	if m.slide.RevealDelay > 0 && s.current < s.deck.MaxIndex() {
		if m.transitioning {
			s.ignored("transition already running", s.current+1)
			return false
		}
		m.transitioning = true
		target := s.current + 1
		m.scope.After(m.slide.RevealDelay, func() { s.goTo(target) })
		s.logger.Debug("Reveal transition started",
			zap.Int("from", s.current),
			zap.Int("to", target),
			zap.Duration("delay", m.slide.RevealDelay))
		s.notify()
		return true
	}
	return s.goTo(s.current + 1)
}

// Previous goes back one slide.
func (s *Sequencer) Previous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goTo(s.current - 1)
}

// Begin leaves the opening slide once its action button is showing and
// starts the timer. Before that it is ignored.
func (s *Sequencer) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.mounted
	if m == nil {
		return false
	}
	if m.slide.BeginPhase == 0 || !m.phases.Reached(m.slide.BeginPhase) {
		s.ignored("begin not available", s.current+1)
		return false
	}
	changed := s.goTo(s.current + 1)
	if s.timer.Start() {
		s.notify()
	}
	return changed
}

// DismissWarning acknowledges the opening warning and arms the slide's
// phases. On slides without a warning, or a second time, it does nothing.
func (s *Sequencer) DismissWarning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.mounted
	if m == nil {
		return false
	}
	if !m.slide.RequiresAck || m.acknowledged {
		return false
	}
	m.acknowledged = true
	m.phases.Arm()
	s.logger.Info("Warning dismissed", zap.String("slide", m.slide.Name))
	s.notify()
	return true
}

// StartTimer starts the timer. It is idempotent.
func (s *Sequencer) StartTimer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.timer.Start() {
		return false
	}
	s.notify()
	return true
}

// StopTimer stops the timer. It is idempotent.
func (s *Sequencer) StopTimer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.timer.Stop() {
		return false
	}
	s.notify()
	return true
}

// ResetTimer zeroes the elapsed counter without changing its running state.
func (s *Sequencer) ResetTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer.Reset()
	s.notify()
}

// ToggleMute flips the shared mute flag and returns the new value.
func (s *Sequencer) ToggleMute() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	muted := s.mute.Toggle()
	metrics.MuteToggles.Inc()
	s.logger.Debug("Mute toggled", zap.Bool("muted", muted))
	s.notify()
	return muted
}

// State returns a snapshot of the presentation.
func (s *Sequencer) State() models.PresentationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Watch registers fn to receive a snapshot after every change. fn runs with
// the stage lock held, in change order, and must not call back into the
// Sequencer. The returned function removes the watcher.
func (s *Sequencer) Watch(fn func(models.PresentationState)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextWatch++
	id := s.nextWatch
	s.watchers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
		})
	}
}

// Attach runs fn with the current state under the stage lock. No change can
// land between the snapshot and the end of fn, so a watcher that registers
// its listener inside fn sees every later change and nothing older. Like a
// Watch callback, fn must not call back into the Sequencer.
func (s *Sequencer) Attach(fn func(models.PresentationState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.stateLocked())
}

// Close unmounts the current slide and stops the timer.
func (s *Sequencer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.timer.Stop()
	if s.mounted != nil {
		s.mounted.scope.Close()
		s.mounted = nil
	}
}

func (s *Sequencer) goTo(target int) bool {
	if s.closed {
		return false
	}
	if target < 0 || target > s.deck.MaxIndex() {
		s.ignored("out of range", target)
		return false
	}
	if target == s.current {
		return false
	}

	from := s.current
	s.unmount()
	s.current = target
	s.mount(target)
	s.timer.SetSlide(target)

	metrics.SlideTransitions.WithLabelValues(s.deck[target].Name).Inc()
	s.logger.Info("Slide changed",
		zap.Int("from", from),
		zap.Int("to", target),
		zap.String("slide", s.deck[target].Name))
	s.notify()
	return true
}

func (s *Sequencer) mount(index int) {
	slide := s.deck[index]
	scope := timers.NewScope(s.clock, &s.mu)

	m := &mountedSlide{
		index: index,
		slide: slide,
		scope: scope,
	}
	for _, spec := range slide.Cues {
		cue := NewAudioCue(spec.Name, spec.Phase, s.mute)
		cue.observePhase(0)
		scope.Defer(cue.Release)
		m.cues = append(m.cues, cue)
	}
	m.phases = NewPhaseController(scope, slide.Plan, func(phase int) {
		for _, cue := range m.cues {
			cue.observePhase(phase)
		}
		s.logger.Debug("Phase advanced",
			zap.String("slide", slide.Name),
			zap.Int("phase", phase))
		s.notify()
	})
	if !slide.RequiresAck {
		m.phases.Arm()
	}
	s.mounted = m
}

func (s *Sequencer) unmount() {
	if s.mounted == nil {
		return
	}
	s.mounted.scope.Close()
	s.mounted = nil
}

func (s *Sequencer) ignored(reason string, target int) {
	metrics.IgnoredNavigations.Inc()
	s.logger.Debug("Navigation ignored",
		zap.String("reason", reason),
		zap.Int("current", s.current),
		zap.Int("target", target))
}

func (s *Sequencer) notify() {
	if len(s.watchers) == 0 {
		return
	}
	state := s.stateLocked()
	ids := make([]uint64, 0, len(s.watchers))
	for id := range s.watchers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		s.watchers[id](state)
	}
}

func (s *Sequencer) stateLocked() models.PresentationState {
	st := models.PresentationState{
		CurrentSlide:    s.current,
		MaxSlide:        s.deck.MaxIndex(),
		TimerSeconds:    s.timer.Seconds(),
		TimerIntervalMs: int(s.timer.Interval().Milliseconds()),
		IsTimerRunning:  s.timer.Running(),
		TimerDisplay:    FormatClock(s.timer.Seconds()),
		IsMuted:         s.mute.Muted(),
		CanRetreat:      s.current > 0,
		Sections:        []models.SlideSection{},
		Effects:         []string{},
		AudioCues:       []models.AudioCueState{},
	}

	m := s.mounted
	if m == nil {
		return st
	}
	st.SlideName = m.slide.Name
	st.SlideTitle = m.slide.Title
	st.Phase = m.phases.Phase()
	st.PhaseCount = m.phases.Count()
	st.WarningDismissed = !m.slide.RequiresAck || m.acknowledged
	st.Transitioning = m.transitioning

	switch {
	case m.transitioning:
		st.CanAdvance = false
	case m.slide.BeginPhase > 0:
		st.CanAdvance = m.phases.Reached(m.slide.BeginPhase)
	default:
		st.CanAdvance = s.current < s.deck.MaxIndex()
	}

	for _, sec := range m.slide.Sections {
		if sec.UntilAck && st.WarningDismissed {
			continue
		}
		if m.phases.Reached(sec.Phase) {
			st.Sections = append(st.Sections, models.SlideSection{Kind: sec.Kind, Text: sec.Text})
		}
	}
	for _, fx := range m.slide.Effects {
		if m.phases.Reached(fx.Phase) {
			st.Effects = append(st.Effects, fx.Name)
		}
	}
	for _, cue := range m.cues {
		st.AudioCues = append(st.AudioCues, cue.state())
	}
	return st
}
