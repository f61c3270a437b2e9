package presentation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"algoridigm/internal/models"
	"algoridigm/internal/timers"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestSequencer(t *testing.T) (*Sequencer, *timers.FakeClock, *MuteBus) {
	t.Helper()
	clock := timers.NewFakeClock(epoch)
	bus := NewMuteBus()
	seq, err := NewSequencer(DefaultDeck(), WithClock(clock), WithMuteBus(bus))
	require.NoError(t, err)
	t.Cleanup(seq.Close)
	return seq, clock, bus
}

func TestNewSequencer_StartsOnOpeningSlide(t *testing.T) {
	seq, _, _ := newTestSequencer(t)

	st := seq.State()
	assert.Equal(t, 0, st.CurrentSlide)
	assert.Equal(t, 3, st.MaxSlide)
	assert.Equal(t, "opening", st.SlideName)
	assert.Equal(t, 0, st.Phase)
	assert.Equal(t, 4, st.PhaseCount)
	assert.False(t, st.IsTimerRunning)
	assert.False(t, st.IsMuted)
	assert.False(t, st.WarningDismissed)
	assert.False(t, st.CanAdvance)
	assert.False(t, st.CanRetreat)
	assert.Equal(t, "00:00:00", st.TimerDisplay)
	require.Len(t, st.Sections, 1)
	assert.Equal(t, "warning", st.Sections[0].Kind)
}

func TestNewSequencer_RejectsInvalidDeck(t *testing.T) {
	_, err := NewSequencer(Deck{})
	assert.Error(t, err)

	_, err = NewSequencer(Deck{{Name: "bad", Plan: PhasePlan{2 * time.Second, time.Second}}})
	assert.Error(t, err)
}

func TestGoToSlide_OutOfRangeIsIgnored(t *testing.T) {
	seq, _, _ := newTestSequencer(t)
	require.True(t, seq.GoToSlide(2))

	for _, n := range []int{-1000, -2, -1, 4, 5, 1 << 20} {
		assert.False(t, seq.GoToSlide(n), "target %d", n)
		assert.Equal(t, 2, seq.State().CurrentSlide, "target %d", n)
	}
}

func TestGoToSlide_MinusOneOnFirstSlide(t *testing.T) {
	seq, _, _ := newTestSequencer(t)

	assert.False(t, seq.GoToSlide(-1))
	assert.Equal(t, 0, seq.State().CurrentSlide)
	assert.False(t, seq.Previous())
	assert.Equal(t, 0, seq.State().CurrentSlide)
}

func TestGoToSlide_InRangeRemountsAtPhaseZero(t *testing.T) {
	seq, clock, _ := newTestSequencer(t)

	for _, n := range []int{1, 3, 2, 0, 3, 1} {
		require.True(t, seq.GoToSlide(n), "target %d", n)
		st := seq.State()
		assert.Equal(t, n, st.CurrentSlide)
		assert.Equal(t, 0, st.Phase, "slide %d must mount at phase 0", n)

		clock.Advance(2 * time.Second)
		if n != 0 {
			assert.Greater(t, seq.State().Phase, 0, "slide %d should reveal while mounted", n)
		}
	}
}

func TestGoToSlide_SameSlideIsNoop(t *testing.T) {
	seq, clock, _ := newTestSequencer(t)
	require.True(t, seq.GoToSlide(1))
	clock.Advance(3 * time.Second)
	phase := seq.State().Phase

	assert.False(t, seq.GoToSlide(1))
	assert.Equal(t, phase, seq.State().Phase)
}

func TestOpeningSlide_StaysAtPhaseZeroWithoutDismissal(t *testing.T) {
	seq, clock, _ := newTestSequencer(t)

	clock.Advance(10 * time.Minute)
	st := seq.State()
	assert.Equal(t, 0, st.Phase)
	assert.Empty(t, st.Effects)
	assert.False(t, seq.Begin())
	assert.Equal(t, 0, seq.State().CurrentSlide)
}

func TestOpeningSlide_RevealSequence(t *testing.T) {
	seq, clock, _ := newTestSequencer(t)

	require.True(t, seq.DismissWarning())
	assert.False(t, seq.DismissWarning())

	st := seq.State()
	assert.True(t, st.WarningDismissed)
	assert.Empty(t, st.Sections, "warning hides once dismissed")

	steps := []struct {
		at     time.Duration
		phase  int
		effect string
	}{
		{500 * time.Millisecond, PhaseBootSequence, "scanlines"},
		{3500 * time.Millisecond, PhaseLogo, "logo-glitch"},
		{6000 * time.Millisecond, PhaseAIMessage, "typewriter"},
		{8500 * time.Millisecond, PhaseActionButton, "pulse-button"},
	}
	var elapsed time.Duration
	for _, step := range steps {
		clock.Advance(step.at - elapsed - time.Millisecond)
		assert.Equal(t, step.phase-1, seq.State().Phase, "just before %s", step.at)
		clock.Advance(time.Millisecond)
		elapsed = step.at

		st := seq.State()
		assert.Equal(t, step.phase, st.Phase)
		assert.Contains(t, st.Effects, step.effect)
	}

	st = seq.State()
	assert.True(t, st.CanAdvance)
	assert.Equal(t, []string{"scanlines", "logo-glitch", "typewriter", "pulse-button"}, st.Effects)
}

func TestBegin_NavigatesAndStartsTimer(t *testing.T) {
	seq, clock, _ := newTestSequencer(t)

	assert.False(t, seq.Begin(), "begin before the action button is ignored")

	seq.DismissWarning()
	clock.Advance(8 * time.Second)
	assert.False(t, seq.Begin())

	clock.Advance(500 * time.Millisecond)
	require.True(t, seq.Begin())

	st := seq.State()
	assert.Equal(t, 1, st.CurrentSlide)
	assert.True(t, st.IsTimerRunning)
	assert.False(t, seq.Begin(), "begin only exists on the opening slide")
}

func TestTimer_StartIsIdempotent(t *testing.T) {
	seq, clock, _ := newTestSequencer(t)

	require.True(t, seq.StartTimer())
	assert.False(t, seq.StartTimer())

	clock.Advance(3 * time.Second)
	assert.Equal(t, 3, seq.State().TimerSeconds, "a second Start must not double the tick rate")

	require.True(t, seq.StopTimer())
	assert.False(t, seq.StopTimer())
	clock.Advance(time.Minute)
	assert.Equal(t, 3, seq.State().TimerSeconds)
}

func TestTimer_ClampsAtHundredMilliseconds(t *testing.T) {
	seq, clock, _ := newTestSequencer(t)
	require.True(t, seq.GoToSlide(1))
	require.True(t, seq.StartTimer())

	for seq.State().TimerSeconds < 95 {
		clock.Advance(10 * time.Millisecond)
	}
	st := seq.State()
	assert.Equal(t, 95, st.TimerSeconds)
	assert.Equal(t, 100, st.TimerIntervalMs)
}

func TestTimer_FixedIntervalOnOpeningSlide(t *testing.T) {
	seq, clock, _ := newTestSequencer(t)
	require.True(t, seq.StartTimer())

	clock.Advance(100 * time.Second)
	st := seq.State()
	assert.Equal(t, 100, st.TimerSeconds)
	assert.Equal(t, 1000, st.TimerIntervalMs)
	assert.Equal(t, "00:01:40", st.TimerDisplay)
}

func TestTimer_SlideChangeReschedulesSingleTick(t *testing.T) {
	seq, clock, _ := newTestSequencer(t)
	require.True(t, seq.StartTimer())
	clock.Advance(50 * time.Second)
	require.Equal(t, 1000, seq.State().TimerIntervalMs)

	require.True(t, seq.GoToSlide(1))
	assert.Equal(t, 500, seq.State().TimerIntervalMs)
	assert.Equal(t, 1, seq.timer.PendingTicks())

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, 51, seq.State().TimerSeconds)
}

func TestReset_ZeroesCounter(t *testing.T) {
	seq, clock, _ := newTestSequencer(t)
	require.True(t, seq.GoToSlide(1))
	seq.StartTimer()
	clock.Advance(30 * time.Second)
	require.Greater(t, seq.State().TimerSeconds, 0)

	seq.ResetTimer()
	st := seq.State()
	assert.Equal(t, 0, st.TimerSeconds)
	assert.Equal(t, 1000, st.TimerIntervalMs)
	assert.True(t, st.IsTimerRunning)
}

func TestNext_RevealTransition(t *testing.T) {
	seq, clock, _ := newTestSequencer(t)
	require.True(t, seq.GoToSlide(2))

	require.True(t, seq.Next())
	st := seq.State()
	assert.True(t, st.Transitioning)
	assert.False(t, st.CanAdvance)
	assert.Equal(t, 2, st.CurrentSlide)

	assert.False(t, seq.Next(), "double click while transitioning is ignored")

	clock.Advance(DefaultRevealDelay - time.Millisecond)
	assert.Equal(t, 2, seq.State().CurrentSlide)
	clock.Advance(time.Millisecond)
	st = seq.State()
	assert.Equal(t, 3, st.CurrentSlide)
	assert.False(t, st.Transitioning)
	assert.Equal(t, 0, st.Phase)
}

func TestNext_LeavingSlideCancelsTransition(t *testing.T) {
	seq, clock, _ := newTestSequencer(t)
	require.True(t, seq.GoToSlide(2))
	require.True(t, seq.Next())

	require.True(t, seq.Previous())
	clock.Advance(time.Minute)
	assert.Equal(t, 1, seq.State().CurrentSlide)
}

func TestNext_PlainSlides(t *testing.T) {
	seq, _, _ := newTestSequencer(t)
	require.True(t, seq.GoToSlide(1))
	require.True(t, seq.Next())
	assert.Equal(t, 2, seq.State().CurrentSlide)

	require.True(t, seq.GoToSlide(3))
	assert.False(t, seq.Next())
	assert.Equal(t, 3, seq.State().CurrentSlide)
}

func TestUnmount_CancelsEveryPendingCallback(t *testing.T) {
	seq, clock, _ := newTestSequencer(t)
	require.True(t, seq.GoToSlide(1))
	clock.Advance(time.Second)
	require.Equal(t, 1, seq.State().Phase)

	scope := seq.mounted.scope
	require.Equal(t, 3, scope.Pending())

	var late int
	cancel := seq.Watch(func(st models.PresentationState) {
		if st.SlideName == "manifesto" {
			late++
		}
	})
	defer cancel()

	require.True(t, seq.GoToSlide(0))
	assert.True(t, scope.Closed())
	assert.Equal(t, 0, scope.Pending())
	assert.Equal(t, 0, clock.Pending(), "opening slide arms nothing until dismissed")

	clock.Advance(time.Hour)
	assert.Equal(t, 0, late, "no callback from the unmounted slide may fire")
	assert.Equal(t, 0, seq.State().Phase)
}

func TestPhases_MonotonicWhileMounted(t *testing.T) {
	seq, clock, _ := newTestSequencer(t)
	require.True(t, seq.GoToSlide(3))

	var phases []int
	cancel := seq.Watch(func(st models.PresentationState) {
		phases = append(phases, st.Phase)
	})
	defer cancel()

	clock.Advance(10 * time.Second)
	assert.Equal(t, []int{1, 2, 3, 4}, phases)
	assert.Equal(t, 4, seq.State().Phase)
}

func TestMute_TogglingTwiceRestoresMirrors(t *testing.T) {
	seq, clock, _ := newTestSequencer(t)
	seq.DismissWarning()
	clock.Advance(10 * time.Second)

	before := seq.State().AudioCues
	require.Len(t, before, 2)
	for _, cue := range before {
		assert.False(t, cue.Muted)
		assert.True(t, cue.Playing)
	}

	assert.True(t, seq.ToggleMute())
	for _, cue := range seq.State().AudioCues {
		assert.True(t, cue.Muted, cue.Name)
		assert.False(t, cue.Playing, cue.Name)
	}

	assert.False(t, seq.ToggleMute())
	assert.Equal(t, before, seq.State().AudioCues)
}

func TestMute_NewSlideMirrorsCurrentFlag(t *testing.T) {
	seq, _, _ := newTestSequencer(t)
	seq.ToggleMute()

	require.True(t, seq.GoToSlide(2))
	st := seq.State()
	assert.True(t, st.IsMuted)
	for _, cue := range st.AudioCues {
		assert.True(t, cue.Muted)
	}
}

func TestMute_SubscriptionsFollowMountedSlide(t *testing.T) {
	seq, _, bus := newTestSequencer(t)
	assert.Equal(t, 2, bus.Subscribers())

	require.True(t, seq.GoToSlide(1))
	assert.Equal(t, 1, bus.Subscribers())

	require.True(t, seq.GoToSlide(0))
	assert.Equal(t, 2, bus.Subscribers())

	seq.Close()
	assert.Equal(t, 0, bus.Subscribers())
}

func TestWatch_CancelStopsNotifications(t *testing.T) {
	seq, _, _ := newTestSequencer(t)

	var seen []int
	cancel := seq.Watch(func(st models.PresentationState) {
		seen = append(seen, st.CurrentSlide)
	})
	seq.GoToSlide(1)
	seq.GoToSlide(2)
	cancel()
	cancel()
	seq.GoToSlide(3)

	assert.Equal(t, []int{1, 2}, seen)
}

func TestAttach_HoldsStageLock(t *testing.T) {
	seq, _, _ := newTestSequencer(t)
	seq.GoToSlide(1)

	entered := make(chan models.PresentationState)
	release := make(chan struct{})
	attached := make(chan struct{})
	go func() {
		defer close(attached)
		seq.Attach(func(st models.PresentationState) {
			entered <- st
			<-release
		})
	}()
	assert.Equal(t, 1, (<-entered).CurrentSlide)

	moved := make(chan bool)
	go func() { moved <- seq.GoToSlide(2) }()
	select {
	case <-moved:
		t.Fatal("slide changed while Attach was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-attached
	assert.True(t, <-moved)
	assert.Equal(t, 2, seq.State().CurrentSlide)
}

func TestClose_DisablesOperations(t *testing.T) {
	seq, clock, _ := newTestSequencer(t)
	seq.StartTimer()
	seq.Close()

	assert.False(t, seq.GoToSlide(1))
	assert.False(t, seq.Next())
	assert.False(t, seq.DismissWarning())
	assert.False(t, seq.StartTimer())
	assert.Equal(t, 0, clock.Pending())
}
