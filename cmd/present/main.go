// ALGORIDIGM terminal presenter.
//
// Usage:
//
//	present [flags]
//
// Flags:
//
//	--reveal-delay  Pause before the final slide appears (default: 2.5s)
//	--log-level     Log level for the presenter log file (default: warn)
//	--log-file      Where to write logs while the screen is in use
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"algoridigm/internal/presentation"
	"algoridigm/internal/tui"
)

func main() {
	if err := run(os.Args[1:], presentation.DefaultDeck()); err != nil {
		fmt.Fprintf(os.Stderr, "present: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, deck presentation.Deck) error {
	seq, cleanup, err := setup(args, deck)
	if err != nil {
		return err
	}
	defer cleanup()

	model := tui.NewModel(seq)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// setup parses flags and builds the logger and sequencer. cleanup closes the
// sequencer and flushes the log.
func setup(args []string, deck presentation.Deck) (*presentation.Sequencer, func(), error) {
	fs := flag.NewFlagSet("present", flag.ContinueOnError)
	revealDelay := fs.Duration("reveal-delay", presentation.DefaultRevealDelay, "Pause before the final slide appears")
	logLevel := fs.String("log-level", "warn", "Log level")
	logFile := fs.String("log-file", os.DevNull, "Log file path")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	logger, err := newFileLogger(*logFile, *logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	seq, err := presentation.NewSequencer(
		deck.WithRevealDelay(*revealDelay),
		presentation.WithLogger(logger),
	)
	if err != nil {
		logger.Error("Failed to create presentation", zap.Error(err))
		logger.Sync()
		return nil, nil, fmt.Errorf("failed to create presentation: %w", err)
	}

	cleanup := func() {
		seq.Close()
		logger.Sync()
	}
	return seq, cleanup, nil
}

// newFileLogger keeps log output off the terminal the TUI draws on.
func newFileLogger(path, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
