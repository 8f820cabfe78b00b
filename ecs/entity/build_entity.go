package entity

import (
	"fmt"
	"sort"
	"time"

	"github.com/milk9111/linkpage/ecs"
	"github.com/milk9111/linkpage/ecs/component"
	"github.com/milk9111/linkpage/ecs/event"
	"github.com/milk9111/linkpage/prefabs"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

type buildContext struct {
	PrefabPath string
	// RevealOffset is added to the entity's reveal delay. Stats set it from
	// their index.
	RevealOffset time.Duration
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"input":       addInput,
	"intro":       addIntro,
	"name_tag":    addNameTag,
	"profile":     addProfile,
	"stat":        addStat,
	"social_list": addSocialList,
	"reveal":      addReveal,
	"playback":    addPlayback,
	"track_queue": addTrackQueue,
	"track_sweep": addTrackSweep,
	"player_ui":   addPlayerUI,
}

var componentBuildOrder = []string{
	"input",
	"intro",
	"name_tag",
	"profile",
	"stat",
	"social_list",
	"track_queue",
	"playback",
	"track_sweep",
	"player_ui",
	"reveal",
}

// BuildEntity creates an entity from a single-entity prefab file.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return BuildEntitySpec(w, prefabPath, spec)
}

// BuildEntitySpec creates an entity from an already decoded spec. source
// only labels errors. A failed build leaves nothing behind.
func BuildEntitySpec(w *ecs.World, source string, spec entityPrefabSpec) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	label := source
	if spec.Name != "" {
		label = source + "#" + spec.Name
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", label)
	}

	names := make([]string, 0, len(spec.Components))
	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", label, name)
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return buildRank(names[i]) < buildRank(names[j])
	})

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: source}
	for _, name := range names {
		if err := componentRegistry[name](w, e, spec.Components[name], ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", label, name, err)
		}
	}
	return e, nil
}

func buildRank(name string) int {
	for i, n := range componentBuildOrder {
		if n == name {
			return i
		}
	}
	return len(componentBuildOrder)
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addNameTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.NameTagComponent.Kind(), &component.NameTag{})
}

func addPlayerUI(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerUIComponent.Kind(), &component.PlayerUI{})
}

type introSpec = prefabs.IntroComponentSpec

func addIntro(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[introSpec](raw)
	if err != nil {
		return fmt.Errorf("decode intro spec: %w", err)
	}
	steps, err := LoadTimeline(spec.Timeline)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.IntroComponent.Kind(), component.NewIntro(steps))
}

type profileSpec = prefabs.ProfileComponentSpec

func addProfile(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[profileSpec](raw)
	if err != nil {
		return fmt.Errorf("decode profile spec: %w", err)
	}
	return ecs.Add(w, e, component.ProfileComponent.Kind(), &component.Profile{
		Name:   spec.Name,
		Handle: spec.Handle,
		Bio:    spec.Bio,
		Avatar: spec.Avatar,
	})
}

type statSpec = prefabs.StatComponentSpec

func addStat(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[statSpec](raw)
	if err != nil {
		return fmt.Errorf("decode stat spec: %w", err)
	}
	if spec.Index < 0 {
		return fmt.Errorf("stat index %d is negative", spec.Index)
	}
	if spec.Stagger < 0 {
		return fmt.Errorf("stat stagger %v is negative", spec.Stagger.Std())
	}
	ctx.RevealOffset = time.Duration(spec.Index) * spec.Stagger.Std()
	return ecs.Add(w, e, component.StatComponent.Kind(), &component.Stat{
		Index: spec.Index,
		Value: spec.Value,
		Label: spec.Label,
	})
}

type socialListSpec = prefabs.SocialListComponentSpec

func addSocialList(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[socialListSpec](raw)
	if err != nil {
		return fmt.Errorf("decode social_list spec: %w", err)
	}
	links := make([]component.SocialLink, 0, len(spec.Links))
	for _, l := range spec.Links {
		links = append(links, component.SocialLink{
			Name:     l.Name,
			Href:     l.Href,
			Handle:   l.Handle,
			Bio:      l.Bio,
			Platform: l.Platform,
		})
	}
	return ecs.Add(w, e, component.SocialListComponent.Kind(), &component.SocialList{
		Links:       links,
		Hovered:     -1,
		ItemStagger: spec.ItemStagger.Std(),
	})
}

type revealSpec = prefabs.RevealComponentSpec

func addReveal(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[revealSpec](raw)
	if err != nil {
		return fmt.Errorf("decode reveal spec: %w", err)
	}
	if len(spec.Triggers) == 0 {
		return fmt.Errorf("reveal needs at least one trigger")
	}
	triggers := make([]event.Signal, 0, len(spec.Triggers))
	for _, name := range spec.Triggers {
		sig, err := event.ParseSignal(name)
		if err != nil {
			return fmt.Errorf("reveal trigger: %w", err)
		}
		triggers = append(triggers, sig)
	}
	then := event.SignalNone
	if spec.Then != "" {
		if then, err = event.ParseSignal(spec.Then); err != nil {
			return fmt.Errorf("reveal then: %w", err)
		}
	}
	if spec.BlinkToggles < 0 {
		return fmt.Errorf("reveal blink_toggles %d is negative", spec.BlinkToggles)
	}
	return ecs.Add(w, e, component.RevealComponent.Kind(), &component.Reveal{
		Triggers:      triggers,
		Delay:         spec.Delay.Std() + ctx.RevealOffset,
		Sweep:         spec.Sweep.Std(),
		BlinkToggles:  spec.BlinkToggles,
		BlinkInterval: spec.BlinkInterval.Std(),
		Then:          then,
	})
}

type playbackSpec = prefabs.PlaybackComponentSpec

func addPlayback(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playbackSpec](raw)
	if err != nil {
		return fmt.Errorf("decode playback spec: %w", err)
	}
	volume := 1.0
	if spec.Volume != nil {
		volume = *spec.Volume
	}
	if volume < 0 || volume > 1 {
		return fmt.Errorf("playback volume %v outside [0,1]", volume)
	}
	p := &component.Playback{
		Volume:     volume,
		LastVolume: volume,
		AutoPlay:   spec.AutoPlay,
		LoadErrors: make(map[int]bool),
	}
	if volume == 0 {
		p.LastVolume = 1
	}
	return ecs.Add(w, e, component.PlaybackComponent.Kind(), p)
}

type trackQueueSpec = prefabs.TrackQueueComponentSpec

func addTrackQueue(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[trackQueueSpec](raw)
	if err != nil {
		return fmt.Errorf("decode track_queue spec: %w", err)
	}
	tracks := spec.Tracks
	if len(tracks) == 0 && spec.File != "" {
		file, err := prefabs.LoadTracksSpec(spec.File)
		if err != nil {
			return err
		}
		tracks = file.Tracks
	}
	q, err := component.NewTrackQueue(toTracks(tracks))
	if err != nil {
		return err
	}
	if spec.Index != 0 && !q.Set(spec.Index) {
		return fmt.Errorf("track_queue index %d out of range [0,%d)", spec.Index, q.Len())
	}
	return ecs.Add(w, e, component.TrackQueueComponent.Kind(), q)
}

type trackSweepSpec = prefabs.TrackSweepComponentSpec

func addTrackSweep(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[trackSweepSpec](raw)
	if err != nil {
		return fmt.Errorf("decode track_sweep spec: %w", err)
	}
	return ecs.Add(w, e, component.TrackSweepComponent.Kind(), &component.TrackSweep{Duration: spec.Duration.Std()})
}

func toTracks(specs []prefabs.TrackSpec) []component.Track {
	tracks := make([]component.Track, 0, len(specs))
	for _, t := range specs {
		tracks = append(tracks, component.Track{
			Title:         t.Title,
			Artist:        t.Artist,
			DurationLabel: t.Duration,
			Source:        t.Src,
		})
	}
	return tracks
}
