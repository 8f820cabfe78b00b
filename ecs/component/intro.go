package component

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/milk9111/linkpage/ecs/event"
	"github.com/milk9111/linkpage/ecs/sched"
)

var (
	ErrUnknownPhase  = errors.New("intro: unknown phase")
	ErrUnknownFlag   = errors.New("intro: unknown flag")
	ErrUnknownAction = errors.New("intro: unknown action")
)

// IntroPhase is the page-wide position in the entry choreography. It only
// moves forward.
type IntroPhase int

const (
	IntroGate IntroPhase = iota
	IntroLoading
	IntroStripVertical
	IntroStripFull
	IntroStripHorizontal
	IntroDone
	introPhaseCount
)

var introPhaseNames = [introPhaseCount]string{
	IntroGate:            "gate",
	IntroLoading:         "loading",
	IntroStripVertical:   "strip_vertical",
	IntroStripFull:       "strip_full",
	IntroStripHorizontal: "strip_horizontal",
	IntroDone:            "done",
}

func (p IntroPhase) String() string {
	if p < 0 || p >= introPhaseCount {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return introPhaseNames[p]
}

func ParseIntroPhase(name string) (IntroPhase, error) {
	clean := strings.ToLower(strings.TrimSpace(name))
	for i, n := range introPhaseNames {
		if n == clean {
			return IntroPhase(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPhase, name)
}

// IntroFlag names a visibility switch owned by the intro.
type IntroFlag int

const (
	FlagLoading IntroFlag = iota
	FlagStrip
	FlagProfileCard
	FlagSocialCard
	introFlagCount
)

var introFlagNames = [introFlagCount]string{
	FlagLoading:     "loading",
	FlagStrip:       "strip",
	FlagProfileCard: "profile_card",
	FlagSocialCard:  "social_card",
}

func (f IntroFlag) String() string {
	if f < 0 || f >= introFlagCount {
		return fmt.Sprintf("flag(%d)", int(f))
	}
	return introFlagNames[f]
}

func ParseIntroFlag(name string) (IntroFlag, error) {
	clean := strings.ToLower(strings.TrimSpace(name))
	for i, n := range introFlagNames {
		if n == clean {
			return IntroFlag(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFlag, name)
}

type IntroActionKind int

const (
	ActionSetFlag IntroActionKind = iota
	ActionSetPhase
	ActionEmit
)

func (k IntroActionKind) String() string {
	switch k {
	case ActionSetFlag:
		return "set_flag"
	case ActionSetPhase:
		return "set_phase"
	case ActionEmit:
		return "emit"
	}
	return "unknown"
}

func ParseIntroActionKind(name string) (IntroActionKind, error) {
	for _, k := range []IntroActionKind{ActionSetFlag, ActionSetPhase, ActionEmit} {
		if strings.EqualFold(strings.TrimSpace(name), k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// IntroAction is the effect of one timeline step.
type IntroAction struct {
	Kind   IntroActionKind
	Flag   IntroFlag
	Value  bool
	Phase  IntroPhase
	Signal event.Signal
}

func (a IntroAction) String() string {
	switch a.Kind {
	case ActionSetFlag:
		return fmt.Sprintf("set_flag %s=%t", a.Flag, a.Value)
	case ActionSetPhase:
		return fmt.Sprintf("set_phase %s", a.Phase)
	case ActionEmit:
		return fmt.Sprintf("emit %s", a.Signal)
	}
	return "unknown"
}

// IntroStep pairs an action with its delay from the previous step.
type IntroStep struct {
	Delay  time.Duration
	Action IntroAction
}

// Intro is the state of the entry choreography on the page entity.
type Intro struct {
	Phase   IntroPhase
	PhaseAt time.Duration
	Flags   [introFlagCount]bool
	FlagAt  [introFlagCount]time.Duration

	Steps   []IntroStep
	Stepper *sched.Stepper
}

// NewIntro starts at the gate with the loading screen armed.
func NewIntro(steps []IntroStep) *Intro {
	in := &Intro{Steps: append([]IntroStep(nil), steps...)}
	in.Flags[FlagLoading] = true
	return in
}

// Advance moves to p if p is later than the current phase.
func (in *Intro) Advance(p IntroPhase, now time.Duration) bool {
	if in == nil || p <= in.Phase || p >= introPhaseCount {
		return false
	}
	in.Phase = p
	in.PhaseAt = now
	return true
}

func (in *Intro) SetFlag(f IntroFlag, v bool, now time.Duration) {
	if in == nil || f < 0 || f >= introFlagCount || in.Flags[f] == v {
		return
	}
	in.Flags[f] = v
	in.FlagAt[f] = now
}

func (in *Intro) Flag(f IntroFlag) bool {
	if in == nil || f < 0 || f >= introFlagCount {
		return false
	}
	return in.Flags[f]
}

// Release stops any pending timeline steps.
func (in *Intro) Release() {
	if in == nil {
		return
	}
	in.Stepper.Cancel()
}

var IntroComponent = NewComponent[Intro]()
