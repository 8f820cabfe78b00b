package system

import (
	"github.com/milk9111/linkpage/ecs"
	"github.com/milk9111/linkpage/ecs/component"
	"github.com/milk9111/linkpage/ecs/event"
	"github.com/milk9111/linkpage/session"
)

// RevealSystem runs the per-element reveal state machines. Each element waits
// for one of its trigger signals, sweeps a mask across itself, optionally
// blinks, and settles as revealed. Triggers after the first are ignored.
type RevealSystem struct {
	session *session.Session

	world *ecs.World
	subs  []event.Subscription
}

func NewRevealSystem(sess *session.Session) *RevealSystem {
	return &RevealSystem{session: sess}
}

func (s *RevealSystem) Close() {
	for _, sub := range s.subs {
		sub.Cancel()
	}
	s.subs = nil
	s.world = nil
}

func (s *RevealSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	s.attach(w)

	// elements that mount after music already started still see it
	started := s.session.MusicStarted()
	ecs.ForEach(w, component.RevealComponent.Kind(), func(e ecs.Entity, r *component.Reveal) {
		if r.LateChecked {
			return
		}
		r.LateChecked = true
		if started && r.TriggeredBy(event.SignalMusicStarted) {
			s.begin(w, e, r)
		}
	})
}

// Trigger starts every hidden element listening for sig.
func (s *RevealSystem) Trigger(w *ecs.World, sig event.Signal) {
	ecs.ForEach(w, component.RevealComponent.Kind(), func(e ecs.Entity, r *component.Reveal) {
		if r.TriggeredBy(sig) {
			s.begin(w, e, r)
		}
	})
}

func (s *RevealSystem) attach(w *ecs.World) {
	if s.world == w {
		return
	}
	s.Close()
	s.world = w
	bus := s.session.Bus()
	for sig := event.SignalNone + 1; sig.Valid(); sig++ {
		s.subs = append(s.subs, bus.Subscribe(sig, func(sig event.Signal) {
			if s.world != nil {
				s.Trigger(s.world, sig)
			}
		}))
	}
}

func (s *RevealSystem) begin(w *ecs.World, e ecs.Entity, r *component.Reveal) {
	if r.Triggered || r.Phase != component.RevealHidden {
		return
	}
	r.Triggered = true
	if r.Delay <= 0 {
		s.sweep(w, e, r)
		return
	}
	w.After(e, r.Delay, func() { s.sweep(w, e, r) })
}

func (s *RevealSystem) sweep(w *ecs.World, e ecs.Entity, r *component.Reveal) {
	if !r.Enter(component.RevealSweeping, w.Now()) {
		return
	}
	w.After(e, r.Sweep, func() {
		if r.BlinkToggles <= 0 {
			settleReveal(w, r, s.session.Bus())
			return
		}
		if !r.Enter(component.RevealBlinking, w.Now()) {
			return
		}
		_ = ecs.Add(w, e, component.BlinkComponent.Kind(), &component.Blink{
			Toggles:  r.BlinkToggles,
			Interval: r.BlinkInterval,
			StartAt:  w.Now(),
			On:       true,
		})
	})
}

// settleReveal finishes a reveal and announces it.
func settleReveal(w *ecs.World, r *component.Reveal, bus *event.Bus) {
	if !r.Enter(component.RevealRevealed, w.Now()) {
		return
	}
	if r.Then.Valid() {
		bus.Emit(r.Then)
	}
}
