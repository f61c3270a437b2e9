package tui

import "github.com/charmbracelet/lipgloss"

// ────────────────────────────────────────────────────────────
// Color Palette: terminal neon
// ────────────────────────────────────────────────────────────

var (
	// Base
	colorBg        = lipgloss.Color("#05070a")
	colorBgSurface = lipgloss.Color("#0b1016")

	// Text
	colorText      = lipgloss.Color("#c8f7ff")
	colorTextDim   = lipgloss.Color("#7a9aa3")
	colorTextMuted = lipgloss.Color("#3d4d52")

	// Accents
	colorCyan   = lipgloss.Color("#00f0ff")
	colorRed    = lipgloss.Color("#ff5f5f")
	colorGreen  = lipgloss.Color("#3fb950")
	colorYellow = lipgloss.Color("#d29922")
	colorPurple = lipgloss.Color("#bc8cff")

	// Structural
	colorDivider = lipgloss.Color("#1d3a40")
)

// ────────────────────────────────────────────────────────────
// Component Styles
// ────────────────────────────────────────────────────────────

// Header bar
var (
	headerBarStyle = lipgloss.NewStyle().
			Background(colorBgSurface).
			Foreground(colorText).
			Padding(0, 1)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorCyan)

	headerSepStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	timerRunningStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorRed)

	timerStoppedStyle = lipgloss.NewStyle().
				Foreground(colorTextDim)
)

// Slide body
var (
	slideTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan).
			MarginBottom(1)

	sectionStyles = map[string]lipgloss.Style{
		"warning": lipgloss.NewStyle().Foreground(colorRed).Bold(true),
		"alert":   lipgloss.NewStyle().Foreground(colorRed),
		"boot":    lipgloss.NewStyle().Foreground(colorGreen),
		"logo":    lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
		"heading": lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
		"ai":      lipgloss.NewStyle().Foreground(colorPurple),
		"action":  lipgloss.NewStyle().Foreground(colorBg).Background(colorCyan).Padding(0, 2),
		"link":    lipgloss.NewStyle().Foreground(colorCyan).Underline(true),
		"footer":  lipgloss.NewStyle().Foreground(colorTextDim),
	}

	sectionDefaultStyle = lipgloss.NewStyle().
				Foreground(colorText)

	transitionStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Italic(true)

	dividerStyle = lipgloss.NewStyle().
			Foreground(colorDivider)
)

// Cues and effects
var (
	cuePlayingStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	cueMutedStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	cueIdleStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	effectStyle = lipgloss.NewStyle().
			Foreground(colorPurple)
)

// Footer / status bar
var (
	statusStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBgSurface).
			Padding(0, 1)

	hintKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)
)
