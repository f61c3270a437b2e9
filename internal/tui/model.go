package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"algoridigm/internal/models"
	"algoridigm/internal/presentation"
)

// ────────────────────────────────────────────────────────────
// Model
// ────────────────────────────────────────────────────────────

// Model is the root BubbleTea model for the presenter.
type Model struct {
	seq     *presentation.Sequencer
	updates chan models.PresentationState
	unwatch func()

	state  models.PresentationState
	width  int
	height int

	statusMsg string
}

// NewModel binds a model to seq. Call Close when the program exits.
func NewModel(seq *presentation.Sequencer) Model {
	updates := make(chan models.PresentationState, 1)
	unwatch := seq.Watch(func(state models.PresentationState) {
		// Sole sender, called under the sequencer lock: keep only the newest.
		select {
		case updates <- state:
		default:
			select {
			case <-updates:
			default:
			}
			updates <- state
		}
	})
	return Model{
		seq:       seq,
		updates:   updates,
		unwatch:   unwatch,
		state:     seq.State(),
		statusMsg: "Press d to dismiss the warning",
	}
}

// Close stops listening to the sequencer.
func (m Model) Close() {
	m.unwatch()
}

// ────────────────────────────────────────────────────────────
// Messages
// ────────────────────────────────────────────────────────────

type stateMsg models.PresentationState

func (m Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-m.updates)
	}
}

// ────────────────────────────────────────────────────────────
// Init / Update
// ────────────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return m.waitForState()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		m.state = models.PresentationState(msg)
		return m, m.waitForState()
	}

	return m, nil
}

// handleKey applies presenter controls. Ignored requests only update the
// status line.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "d":
		if m.seq.DismissWarning() {
			m.statusMsg = "Warning dismissed"
		} else {
			m.statusMsg = "Nothing to dismiss"
		}

	case "enter":
		if m.state.CurrentSlide == 0 {
			m.report(m.seq.Begin(), "Presentation started", "Not ready to begin")
		} else {
			m.report(m.seq.Next(), "Next", "Already on the last slide")
		}

	case "right", "l":
		m.report(m.seq.Next(), "Next", "Cannot advance")

	case "left", "h":
		m.report(m.seq.Previous(), "Previous", "Already on the first slide")

	case "m":
		if m.seq.ToggleMute() {
			m.statusMsg = "Muted"
		} else {
			m.statusMsg = "Sound on"
		}

	case "t":
		if m.state.IsTimerRunning {
			m.seq.StopTimer()
			m.statusMsg = "Timer stopped"
		} else {
			m.seq.StartTimer()
			m.statusMsg = "Timer started"
		}

	case "r":
		m.seq.ResetTimer()
		m.statusMsg = "Timer reset"

	default:
		if n, err := strconv.Atoi(key); err == nil {
			m.report(m.seq.GoToSlide(n),
				fmt.Sprintf("Slide %d", n),
				fmt.Sprintf("No slide %d", n))
		}
	}

	m.state = m.seq.State()
	return m, nil
}

func (m *Model) report(changed bool, ok, ignored string) {
	if changed {
		m.statusMsg = ok
	} else {
		m.statusMsg = ignored
	}
}

// ────────────────────────────────────────────────────────────
// View
// ────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	header := renderHeader(&m)
	footer := renderFooter(&m)
	bodyHeight := m.height - 2 // header + footer
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		Padding(1, 2).
		Render(renderSlide(&m))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
