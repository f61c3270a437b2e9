// Package tui implements the terminal presenter for ALGORIDIGM.
//
// The model drives a local presentation sequencer from the keyboard and
// redraws whenever the sequencer reports a change.
//
//	model.go  root model, key handling, sequencer bridge
//	theme.go  colours and styles
//	view.go   header, slide body, cue list, footer
package tui
