package component

import (
	"time"

	"github.com/milk9111/linkpage/ecs/event"
)

// RevealPhase is the local animation phase of one revealable element.
type RevealPhase int

const (
	RevealHidden RevealPhase = iota
	RevealSweeping
	RevealBlinking
	RevealRevealed
)

func (p RevealPhase) String() string {
	switch p {
	case RevealHidden:
		return "hidden"
	case RevealSweeping:
		return "sweeping"
	case RevealBlinking:
		return "blinking"
	case RevealRevealed:
		return "revealed"
	}
	return "unknown"
}

var revealTransitions = map[RevealPhase][]RevealPhase{
	RevealHidden:   {RevealSweeping},
	RevealSweeping: {RevealBlinking, RevealRevealed},
	RevealBlinking: {RevealRevealed},
}

// Reveal drives a mask sweep across an element, an optional blink, and the
// final reveal. Phases never move backward.
type Reveal struct {
	Phase   RevealPhase
	PhaseAt time.Duration

	// Triggers start the reveal; the first one to fire wins.
	Triggers []event.Signal
	// Delay staggers the sweep start after the trigger.
	Delay time.Duration
	Sweep time.Duration

	BlinkToggles  int
	BlinkInterval time.Duration

	// Then is emitted once the element is revealed.
	Then event.Signal

	Triggered   bool
	LateChecked bool
}

// CanEnter reports whether to is a legal next phase.
func (r *Reveal) CanEnter(to RevealPhase) bool {
	if r == nil {
		return false
	}
	if r.Phase == RevealSweeping && to == RevealRevealed && r.BlinkToggles > 0 {
		return false
	}
	for _, next := range revealTransitions[r.Phase] {
		if next == to {
			return true
		}
	}
	return false
}

// Enter moves to the given phase if the transition table allows it.
func (r *Reveal) Enter(to RevealPhase, now time.Duration) bool {
	if !r.CanEnter(to) {
		return false
	}
	r.Phase = to
	r.PhaseAt = now
	return true
}

// TriggeredBy reports whether sig starts this reveal.
func (r *Reveal) TriggeredBy(sig event.Signal) bool {
	if r == nil {
		return false
	}
	for _, t := range r.Triggers {
		if t == sig {
			return true
		}
	}
	return false
}

// SweepProgress is how far the mask has travelled in the current phase, in
// [0,1]. Revealed elements report the exit travel of the mask.
func (r *Reveal) SweepProgress(now time.Duration) float64 {
	if r == nil {
		return 0
	}
	switch r.Phase {
	case RevealHidden:
		return 0
	case RevealBlinking:
		return 1
	}
	if r.Sweep <= 0 {
		return 1
	}
	t := float64(now-r.PhaseAt) / float64(r.Sweep)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func (r *Reveal) Revealed() bool {
	return r != nil && r.Phase == RevealRevealed
}

var RevealComponent = NewComponent[Reveal]()
