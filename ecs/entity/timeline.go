package entity

import (
	"fmt"

	"github.com/milk9111/linkpage/ecs/component"
	"github.com/milk9111/linkpage/ecs/event"
	"github.com/milk9111/linkpage/ecs/system"
	"github.com/milk9111/linkpage/prefabs"
)

// LoadTimeline reads an intro table from a prefab. An empty name yields the
// built-in table.
func LoadTimeline(name string) ([]component.IntroStep, error) {
	if name == "" {
		return system.DefaultIntroSteps(), nil
	}
	spec, err := prefabs.LoadTimelineSpec(name)
	if err != nil {
		return nil, err
	}
	steps, err := ParseTimeline(spec)
	if err != nil {
		return nil, fmt.Errorf("timeline %s: %w", name, err)
	}
	return steps, nil
}

// ParseTimeline resolves flag, phase and signal names into the intro's closed
// enums. Any unknown name fails the whole table.
func ParseTimeline(spec *prefabs.TimelineSpec) ([]component.IntroStep, error) {
	if spec == nil || len(spec.Steps) == 0 {
		return nil, fmt.Errorf("timeline has no steps")
	}
	steps := make([]component.IntroStep, 0, len(spec.Steps))
	for i, s := range spec.Steps {
		if s.Delay < 0 {
			return nil, fmt.Errorf("step %d: negative delay %s", i, s.Delay.Std())
		}
		kind, err := component.ParseIntroActionKind(s.Action)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		action := component.IntroAction{Kind: kind}
		switch kind {
		case component.ActionSetFlag:
			if action.Flag, err = component.ParseIntroFlag(s.Flag); err != nil {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
			action.Value = s.Value
		case component.ActionSetPhase:
			if action.Phase, err = component.ParseIntroPhase(s.Phase); err != nil {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
		case component.ActionEmit:
			if action.Signal, err = event.ParseSignal(s.Signal); err != nil {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
		}
		steps = append(steps, component.IntroStep{Delay: s.Delay.Std(), Action: action})
	}
	return steps, nil
}
