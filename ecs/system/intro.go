package system

import (
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/milk9111/linkpage/ecs"
	"github.com/milk9111/linkpage/ecs/component"
	"github.com/milk9111/linkpage/ecs/event"
	"github.com/milk9111/linkpage/ecs/sched"
	"github.com/milk9111/linkpage/session"
)

var introLog = logging.Logger("intro")

// IntroSystem hosts the entry choreography. The gate gesture starts a single
// pass over the intro's step table; nothing restarts it short of a new page.
type IntroSystem struct {
	session *session.Session
	onEnter func(w *ecs.World)
}

// NewIntroSystem builds the sequencer host. onEnter, if set, runs once when
// the gate is dismissed, before the first step is scheduled.
func NewIntroSystem(sess *session.Session, onEnter func(w *ecs.World)) *IntroSystem {
	return &IntroSystem{session: sess, onEnter: onEnter}
}

func (s *IntroSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	in, ok := firstInput(w)
	if !ok || !in.Gesture.Pointer() {
		return
	}
	_, intro, ok := s.intro(w)
	if !ok || intro.Phase != component.IntroGate {
		return
	}
	s.Enter(w)
}

// Enter dismisses the gate and starts the timeline. Repeated calls are no-ops
// and report false.
func (s *IntroSystem) Enter(w *ecs.World) bool {
	ent, intro, ok := s.intro(w)
	if !ok || intro.Stepper.Started() || intro.Phase != component.IntroGate {
		return false
	}
	intro.Advance(component.IntroLoading, w.Now())

	s.session.RequestUnlock()
	if s.onEnter != nil {
		s.onEnter(w)
	}
	s.session.Bus().Emit(event.SignalUnlockAudio)

	intro.Stepper = sched.NewStepper(w.Timers(), ecs.Owner(ent), s.steps(w, intro))
	intro.Stepper.Start()
	introLog.Debugw("intro started", "steps", len(intro.Steps))
	return true
}

// Unmount tears down the page host. Pending steps never fire.
func (s *IntroSystem) Unmount(w *ecs.World) {
	ent, _, ok := s.intro(w)
	if !ok {
		return
	}
	ecs.DestroyEntity(w, ent)
}

func (s *IntroSystem) steps(w *ecs.World, intro *component.Intro) []sched.Step {
	bus := s.session.Bus()
	steps := make([]sched.Step, 0, len(intro.Steps))
	for i, st := range intro.Steps {
		i, action := i, st.Action
		steps = append(steps, sched.Step{
			Delay: st.Delay,
			Name:  action.String(),
			Do: func() {
				introLog.Debugw("intro step", "index", i, "action", action.String(), "at", w.Now())
				switch action.Kind {
				case component.ActionSetFlag:
					intro.SetFlag(action.Flag, action.Value, w.Now())
				case component.ActionSetPhase:
					intro.Advance(action.Phase, w.Now())
				case component.ActionEmit:
					bus.Emit(action.Signal)
				}
			},
		})
	}
	return steps
}

func (s *IntroSystem) intro(w *ecs.World) (ecs.Entity, *component.Intro, bool) {
	if w == nil {
		return 0, nil, false
	}
	ent, ok := ecs.First(w, component.IntroComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	intro, ok := ecs.Get(w, ent, component.IntroComponent.Kind())
	return ent, intro, ok
}

// DefaultIntroSteps is the canonical entry timeline. Each delay counts from the
// step before it.
func DefaultIntroSteps() []component.IntroStep {
	flag := func(f component.IntroFlag, v bool) component.IntroAction {
		return component.IntroAction{Kind: component.ActionSetFlag, Flag: f, Value: v}
	}
	phase := func(p component.IntroPhase) component.IntroAction {
		return component.IntroAction{Kind: component.ActionSetPhase, Phase: p}
	}
	emit := func(sig event.Signal) component.IntroAction {
		return component.IntroAction{Kind: component.ActionEmit, Signal: sig}
	}
	return []component.IntroStep{
		{Delay: ms(1500), Action: flag(component.FlagLoading, false)},
		{Delay: ms(100), Action: flag(component.FlagStrip, true)},
		{Delay: 0, Action: phase(component.IntroStripVertical)},
		{Delay: ms(400), Action: phase(component.IntroStripFull)},
		{Delay: ms(200), Action: flag(component.FlagProfileCard, true)},
		{Delay: ms(200), Action: phase(component.IntroStripHorizontal)},
		{Delay: ms(300), Action: flag(component.FlagSocialCard, true)},
		{Delay: ms(200), Action: phase(component.IntroDone)},
		{Delay: 0, Action: flag(component.FlagStrip, false)},
		{Delay: 0, Action: emit(event.SignalNameRevealStart)},
		{Delay: ms(300), Action: emit(event.SignalSocialRevealStart)},
		{Delay: ms(500), Action: emit(event.SignalMusicRevealStart)},
	}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
