package models

// PresentationState is a consistent snapshot of the running presentation
type PresentationState struct {
	CurrentSlide     int             `json:"currentSlide"`
	MaxSlide         int             `json:"maxSlide"`
	SlideName        string          `json:"slideName"`
	SlideTitle       string          `json:"slideTitle"`
	TimerSeconds     int             `json:"timerSeconds"`
	TimerIntervalMs  int             `json:"timerIntervalMs"`
	IsTimerRunning   bool            `json:"isTimerRunning"`
	TimerDisplay     string          `json:"timerDisplay"`
	IsMuted          bool            `json:"isMuted"`
	Phase            int             `json:"phase"`
	PhaseCount       int             `json:"phaseCount"`
	WarningDismissed bool            `json:"warningDismissed"`
	Transitioning    bool            `json:"transitioning"`
	CanAdvance       bool            `json:"canAdvance"`
	CanRetreat       bool            `json:"canRetreat"`
	Sections         []SlideSection  `json:"sections"`
	Effects          []string        `json:"effects"`
	AudioCues        []AudioCueState `json:"audioCues"`
}

// SlideSection is a piece of slide content revealed at a given phase
type SlideSection struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// AudioCueState describes an audio producer on the mounted slide
type AudioCueState struct {
	Name    string `json:"name"`
	Active  bool   `json:"active"`
	Muted   bool   `json:"muted"`
	Playing bool   `json:"playing"`
}
