package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algoridigm/internal/presentation"
	"algoridigm/internal/timers"
)

func newTestModel(t *testing.T) (Model, *presentation.Sequencer, *timers.FakeClock) {
	t.Helper()
	clock := timers.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	seq, err := presentation.NewSequencer(presentation.DefaultDeck(), presentation.WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(seq.Close)

	m := NewModel(seq)
	t.Cleanup(m.Close)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model), seq, clock
}

func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestView_BeforeWindowSize(t *testing.T) {
	clock := timers.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	seq, err := presentation.NewSequencer(presentation.DefaultDeck(), presentation.WithClock(clock))
	require.NoError(t, err)
	defer seq.Close()
	m := NewModel(seq)
	defer m.Close()

	assert.Equal(t, "Initializing...", m.View())
}

func TestOpeningFlow(t *testing.T) {
	m, seq, clock := newTestModel(t)
	assert.Contains(t, m.View(), "ALGORIDIGM")

	m = press(t, m, "enter")
	assert.Equal(t, "Not ready to begin", m.statusMsg)
	assert.Equal(t, 0, seq.State().CurrentSlide)

	m = press(t, m, "d")
	assert.True(t, m.state.WarningDismissed)

	clock.Advance(10 * time.Second)
	m = press(t, m, "enter")
	assert.Equal(t, "Presentation started", m.statusMsg)
	assert.Equal(t, 1, m.state.CurrentSlide)
	assert.True(t, m.state.IsTimerRunning)
}

func TestNavigationKeys(t *testing.T) {
	m, seq, _ := newTestModel(t)

	m = press(t, m, "left")
	assert.Equal(t, "Already on the first slide", m.statusMsg)

	m = press(t, m, "2")
	assert.Equal(t, 2, seq.State().CurrentSlide)

	m = press(t, m, "9")
	assert.Equal(t, "No slide 9", m.statusMsg)
	assert.Equal(t, 2, m.state.CurrentSlide)

	m = press(t, m, "h")
	assert.Equal(t, 1, m.state.CurrentSlide)

	m = press(t, m, "l")
	assert.Equal(t, 2, m.state.CurrentSlide)
}

func TestRevealTransitionThroughKeys(t *testing.T) {
	m, seq, clock := newTestModel(t)
	m = press(t, m, "2")

	m = press(t, m, "right")
	assert.True(t, m.state.Transitioning)
	assert.Contains(t, m.View(), "revealing...")

	clock.Advance(presentation.DefaultRevealDelay)
	assert.Equal(t, 3, seq.State().CurrentSlide)
}

func TestMuteAndTimerKeys(t *testing.T) {
	m, _, clock := newTestModel(t)

	m = press(t, m, "m")
	assert.True(t, m.state.IsMuted)
	assert.Contains(t, m.View(), "MUTED")

	m = press(t, m, "t")
	assert.True(t, m.state.IsTimerRunning)
	clock.Advance(2 * time.Second)

	m = press(t, m, "t")
	assert.False(t, m.state.IsTimerRunning)
	assert.Equal(t, 2, m.state.TimerSeconds)

	m = press(t, m, "r")
	assert.Equal(t, 0, m.state.TimerSeconds)
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestStateMessagesFromSequencer(t *testing.T) {
	m, seq, _ := newTestModel(t)
	seq.GoToSlide(1)

	msg := m.waitForState()()
	updated, cmd := m.Update(msg)
	m = updated.(Model)
	assert.Equal(t, 1, m.state.CurrentSlide)
	assert.NotNil(t, cmd, "keeps listening")
}
