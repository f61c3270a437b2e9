package presentation

import (
	"fmt"
	"time"

	"algoridigm/internal/timers"
)

// PhasePlan lists absolute activation offsets measured from the moment the
// plan is armed. Phase i+1 activates at plan[i].
type PhasePlan []time.Duration

// Validate checks that offsets are non-negative and non-decreasing.
func (p PhasePlan) Validate() error {
	var prev time.Duration
	for i, d := range p {
		if d < 0 {
			return fmt.Errorf("phase %d: negative offset %s", i+1, d)
		}
		if d < prev {
			return fmt.Errorf("phase %d: offset %s precedes phase %d at %s", i+1, d, i, prev)
		}
		prev = d
	}
	return nil
}

// PhaseController reveals a slide's sections in order. The phase cursor
// starts at 0 and never decreases while the owning scope is open.
type PhaseController struct {
	scope     *timers.Scope
	plan      PhasePlan
	phase     int
	armed     bool
	onAdvance func(phase int)
}

// NewPhaseController creates a controller at phase 0. Advances are scheduled
// on scope, so closing the scope cancels them all together.
func NewPhaseController(scope *timers.Scope, plan PhasePlan, onAdvance func(phase int)) *PhaseController {
	return &PhaseController{
		scope:     scope,
		plan:      plan,
		onAdvance: onAdvance,
	}
}

// Arm schedules every phase advance at once. Only the first call has effect.
func (c *PhaseController) Arm() bool {
	if c.armed {
		return false
	}
	c.armed = true
	for i, offset := range c.plan {
		target := i + 1
		c.scope.After(offset, func() { c.advanceTo(target) })
	}
	return true
}

// Armed reports whether Arm has been called.
func (c *PhaseController) Armed() bool { return c.armed }

// Phase returns the current phase.
func (c *PhaseController) Phase() int { return c.phase }

// Count returns K, the final phase.
func (c *PhaseController) Count() int { return len(c.plan) }

// Reached reports whether an element gated on required is visible.
func (c *PhaseController) Reached(required int) bool { return c.phase >= required }

// Complete reports whether the final phase has been reached.
func (c *PhaseController) Complete() bool { return c.phase >= len(c.plan) }

func (c *PhaseController) advanceTo(target int) {
	if target <= c.phase {
		return
	}
	c.phase = target
	if c.onAdvance != nil {
		c.onAdvance(target)
	}
}
