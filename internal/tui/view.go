package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader produces the top bar:
//
//	ALGORIDIGM  |  2/4 manifesto  |  00:01:32  |  SOUND ON
func renderHeader(m *Model) string {
	sep := headerSepStyle.Render(" │ ")
	st := m.state

	timer := timerStoppedStyle.Render(st.TimerDisplay)
	if st.IsTimerRunning {
		timer = timerRunningStyle.Render(st.TimerDisplay)
	}
	sound := headerMetaStyle.Render("SOUND ON")
	if st.IsMuted {
		sound = cueMutedStyle.Render("MUTED")
	}

	parts := []string{
		headerBrandStyle.Render("ALGORIDIGM"),
		sep,
		headerMetaStyle.Render(fmt.Sprintf("%d/%d %s", st.CurrentSlide+1, st.MaxSlide+1, st.SlideName)),
		sep,
		headerMetaStyle.Render(fmt.Sprintf("phase %d/%d", st.Phase, st.PhaseCount)),
		sep,
		timer,
		sep,
		sound,
	}
	return headerBarStyle.Width(m.width).Render(strings.Join(parts, ""))
}

// renderSlide shows the visible sections followed by effects and cues.
func renderSlide(m *Model) string {
	st := m.state
	var b strings.Builder

	b.WriteString(slideTitleStyle.Render(st.SlideTitle))
	b.WriteString("\n")

	for _, s := range st.Sections {
		style, ok := sectionStyles[s.Kind]
		if !ok {
			style = sectionDefaultStyle
		}
		b.WriteString(style.Render(s.Text))
		b.WriteString("\n")
	}

	if st.Transitioning {
		b.WriteString(transitionStyle.Render("revealing..."))
		b.WriteString("\n")
	}

	rule := dividerStyle.Render(strings.Repeat("─", 24))
	b.WriteString("\n" + rule + "\n")

	if len(st.Effects) > 0 {
		b.WriteString(headerMetaStyle.Render("effects "))
		b.WriteString(effectStyle.Render(strings.Join(st.Effects, " ")))
		b.WriteString("\n")
	}

	for _, cue := range st.AudioCues {
		b.WriteString(renderCue(cue.Name, cue.Active, cue.Muted, cue.Playing))
		b.WriteString("\n")
	}

	return b.String()
}

func renderCue(name string, active, muted, playing bool) string {
	switch {
	case playing:
		return cuePlayingStyle.Render("♪ " + name + " playing")
	case active && muted:
		return cueMutedStyle.Render("♪ " + name + " muted")
	default:
		return cueIdleStyle.Render("♪ " + name + " waiting")
	}
}

// renderFooter produces the bottom status bar with keyboard hints.
func renderFooter(m *Model) string {
	var left string
	if m.statusMsg != "" {
		left = statusStyle.Render(m.statusMsg)
	}
	right := renderHints([]hint{
		{"d", "dismiss"},
		{"enter", "begin/next"},
		{"←→", "navigate"},
		{"0-3", "jump"},
		{"m", "mute"},
		{"t", "timer"},
		{"r", "reset"},
		{"q", "quit"},
	})

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().
		Background(colorBgSurface).
		Width(m.width).
		Render(bar)
}

type hint struct {
	key  string
	desc string
}

func renderHints(hints []hint) string {
	var parts []string
	for _, h := range hints {
		parts = append(parts,
			hintKeyStyle.Render(h.key)+" "+hintDescStyle.Render(h.desc))
	}
	return strings.Join(parts, hintDescStyle.Render("  "))
}
