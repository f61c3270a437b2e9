package presentation

import "algoridigm/internal/models"

// AudioCue is an audio producer mounted with a slide. It becomes active once
// its slide reaches the cue's phase and plays while active and unmuted.
type AudioCue struct {
	name  string
	phase int

	active bool
	// muted mirrors the bus flag. It is flipped on every notification,
	// never read back from the bus.
	muted bool
	sub   *Subscription
}

// NewAudioCue creates a cue mirroring signal's current mute state and
// subscribes it to toggles. The caller owns the returned cue's Release.
func NewAudioCue(name string, phase int, signal MuteSignal) *AudioCue {
	c := &AudioCue{
		name:  name,
		phase: phase,
		muted: signal.Muted(),
	}
	c.sub = signal.Subscribe(c)
	return c
}

// MuteToggled flips the mirrored flag.
func (c *AudioCue) MuteToggled() {
	c.muted = !c.muted
}

// Release unsubscribes the cue from the bus.
func (c *AudioCue) Release() {
	c.sub.Unsubscribe()
}

// Name returns the cue name.
func (c *AudioCue) Name() string { return c.name }

// Muted returns the mirrored mute flag.
func (c *AudioCue) Muted() bool { return c.muted }

// Playing reports whether the cue is audible.
func (c *AudioCue) Playing() bool { return c.active && !c.muted }

func (c *AudioCue) observePhase(phase int) {
	if phase >= c.phase {
		c.active = true
	}
}

func (c *AudioCue) state() models.AudioCueState {
	return models.AudioCueState{
		Name:    c.name,
		Active:  c.active,
		Muted:   c.muted,
		Playing: c.Playing(),
	}
}
