package models

import "time"

// PresentationSnapshot is the part of the presentation restored after a
// restart. Mute is deliberately absent: every run starts with sound on.
type PresentationSnapshot struct {
	Slide   int       `json:"slide"`
	SavedAt time.Time `json:"savedAt"`
}
