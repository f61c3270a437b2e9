package presentation

import (
	"fmt"
	"time"
)

// Section is a block of slide content shown once Phase is reached.
type Section struct {
	Phase int
	Kind  string
	Text  string

	// UntilAck hides the section once the slide's warning is dismissed.
	UntilAck bool
}

// Effect is a decorative effect that switches on at Phase and stays on.
type Effect struct {
	Name  string
	Phase int
}

// CueSpec describes an audio cue mounted with a slide.
type CueSpec struct {
	Name  string
	Phase int
}

// Slide is one full-screen view of the deck.
type Slide struct {
	Name  string
	Title string
	Plan  PhasePlan

	// RequiresAck holds the phases at 0 until the warning is dismissed.
	RequiresAck bool
	// BeginPhase is the phase at which the Begin action becomes legal.
	// Zero means the slide has no Begin action.
	BeginPhase int
	// RevealDelay, when set, turns Next into a delayed transition.
	RevealDelay time.Duration

	Sections []Section
	Effects  []Effect
	Cues     []CueSpec
}

// Deck is the ordered slide list. Its last index is the navigation bound.
type Deck []Slide

// MaxIndex returns the highest valid slide index.
func (d Deck) MaxIndex() int { return len(d) - 1 }

// WithRevealDelay returns a copy of d where every delayed transition waits
// delay instead. A zero delay leaves the deck unchanged.
func (d Deck) WithRevealDelay(delay time.Duration) Deck {
	out := make(Deck, len(d))
	copy(out, d)
	if delay <= 0 {
		return out
	}
	for i := range out {
		if out[i].RevealDelay > 0 {
			out[i].RevealDelay = delay
		}
	}
	return out
}

// Validate checks the deck is usable.
func (d Deck) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("deck has no slides")
	}
	for i, s := range d {
		if err := s.Plan.Validate(); err != nil {
			return fmt.Errorf("slide %d (%s): %w", i, s.Name, err)
		}
		if s.BeginPhase > len(s.Plan) {
			return fmt.Errorf("slide %d (%s): begin phase %d beyond %d phases", i, s.Name, s.BeginPhase, len(s.Plan))
		}
	}
	return nil
}

// Opening slide phases.
const (
	PhaseWarning = iota
	PhaseBootSequence
	PhaseLogo
	PhaseAIMessage
	PhaseActionButton
)

// DefaultRevealDelay is the pause between Next on the algorithm slide and
// the invitation slide appearing.
const DefaultRevealDelay = 2500 * time.Millisecond

// DefaultDeck returns the ALGORIDIGM presentation.
func DefaultDeck() Deck {
	return Deck{
		{
			Name:        "opening",
			Title:       "J-Tech Industries",
			RequiresAck: true,
			BeginPhase:  PhaseActionButton,
			Plan: PhasePlan{
				500 * time.Millisecond,
				3500 * time.Millisecond,
				6000 * time.Millisecond,
				8500 * time.Millisecond,
			},
			Sections: []Section{
				{Phase: PhaseWarning, Kind: "warning", Text: "WARNING: this presentation contains flashing lights and loud audio.", UntilAck: true},
				{Phase: PhaseBootSequence, Kind: "boot", Text: "J-TECH OS v3.1 :: initialising neural lattice..."},
				{Phase: PhaseLogo, Kind: "logo", Text: "ALGORIDIGM"},
				{Phase: PhaseAIMessage, Kind: "ai", Text: "Hello. I have been expecting you."},
				{Phase: PhaseActionButton, Kind: "action", Text: "Begin"},
			},
			Effects: []Effect{
				{Name: "scanlines", Phase: PhaseBootSequence},
				{Name: "logo-glitch", Phase: PhaseLogo},
				{Name: "typewriter", Phase: PhaseAIMessage},
				{Name: "pulse-button", Phase: PhaseActionButton},
			},
			Cues: []CueSpec{
				{Name: "boot-hum", Phase: PhaseBootSequence},
				{Name: "ai-voice", Phase: PhaseAIMessage},
			},
		},
		{
			Name:  "manifesto",
			Title: "The Algorithm Knows",
			Plan: PhasePlan{
				800 * time.Millisecond,
				2500 * time.Millisecond,
				4500 * time.Millisecond,
				6500 * time.Millisecond,
			},
			Sections: []Section{
				{Phase: 1, Kind: "heading", Text: "Every choice you make is data."},
				{Phase: 2, Kind: "body", Text: "Every piece of data is a prediction."},
				{Phase: 3, Kind: "body", Text: "Every prediction is a decision already made."},
				{Phase: 4, Kind: "action", Text: "Next"},
			},
			Effects: []Effect{
				{Name: "data-rain", Phase: 1},
				{Name: "neural-grid", Phase: 2},
			},
			Cues: []CueSpec{
				{Name: "heartbeat", Phase: 1},
			},
		},
		{
			Name:        "algorithm",
			Title:       "ALGORIDIGM",
			RevealDelay: DefaultRevealDelay,
			Plan: PhasePlan{
				600 * time.Millisecond,
				2000 * time.Millisecond,
				4000 * time.Millisecond,
				6000 * time.Millisecond,
			},
			Sections: []Section{
				{Phase: 1, Kind: "heading", Text: "A theatrical experiment in machine authorship."},
				{Phase: 2, Kind: "body", Text: "Actors. Engineers. One script written in real time."},
				{Phase: 3, Kind: "alert", Text: "SYSTEM OVERRIDE DETECTED"},
				{Phase: 4, Kind: "action", Text: "Next"},
			},
			Effects: []Effect{
				{Name: "circuit-trace", Phase: 1},
				{Name: "red-alert", Phase: 3},
			},
			Cues: []CueSpec{
				{Name: "alarm", Phase: 3},
			},
		},
		{
			Name:  "invitation",
			Title: "Join the Workshop",
			Plan: PhasePlan{
				500 * time.Millisecond,
				1500 * time.Millisecond,
				3000 * time.Millisecond,
				4500 * time.Millisecond,
			},
			Sections: []Section{
				{Phase: 1, Kind: "heading", Text: "We are casting humans."},
				{Phase: 2, Kind: "body", Text: "Actors, writers, technologists: the workshop needs you."},
				{Phase: 3, Kind: "link", Text: "/register"},
				{Phase: 4, Kind: "footer", Text: "J-Tech Industries"},
			},
			Effects: []Effect{
				{Name: "spotlight", Phase: 1},
			},
			Cues: []CueSpec{
				{Name: "ambient-theme", Phase: 1},
			},
		},
	}
}
