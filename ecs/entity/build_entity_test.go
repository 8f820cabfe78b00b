package entity

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/milk9111/linkpage/ecs"
	"github.com/milk9111/linkpage/ecs/component"
	"github.com/milk9111/linkpage/ecs/event"
	"github.com/milk9111/linkpage/ecs/system"
	"github.com/milk9111/linkpage/prefabs"
	"github.com/milk9111/linkpage/session"
)

func TestTimelinePrefabMatchesDefault(t *testing.T) {
	steps, err := LoadTimeline("timeline.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(steps, system.DefaultIntroSteps()) {
		t.Fatalf("timeline.yaml drifted from the built-in table:\n%v\n%v", steps, system.DefaultIntroSteps())
	}

	builtin, err := LoadTimeline("")
	if err != nil || len(builtin) != 12 {
		t.Fatalf("built-in: %d steps, %v", len(builtin), err)
	}
}

func TestParseTimelineErrors(t *testing.T) {
	step := func(action string) prefabs.TimelineStepSpec {
		return prefabs.TimelineStepSpec{Action: action, Flag: "strip", Phase: "done", Signal: "music-reveal-start"}
	}
	tests := []struct {
		name  string
		steps []prefabs.TimelineStepSpec
		err   error
	}{
		{"empty", nil, nil},
		{"unknown_action", []prefabs.TimelineStepSpec{step("wait")}, component.ErrUnknownAction},
		{"unknown_flag", []prefabs.TimelineStepSpec{{Action: "set_flag", Flag: "banner"}}, component.ErrUnknownFlag},
		{"unknown_phase", []prefabs.TimelineStepSpec{{Action: "set_phase", Phase: "intro"}}, component.ErrUnknownPhase},
		{"unknown_signal", []prefabs.TimelineStepSpec{{Action: "emit", Signal: "ping"}}, event.ErrUnknownSignal},
		{"negative_delay", []prefabs.TimelineStepSpec{{Delay: prefabs.Duration(-time.Millisecond), Action: "emit", Signal: "ping"}}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTimeline(&prefabs.TimelineSpec{Steps: tc.steps})
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.err != nil && !errors.Is(err, tc.err) {
				t.Fatalf("got %v, want %v", err, tc.err)
			}
		})
	}

	ok, err := ParseTimeline(&prefabs.TimelineSpec{Steps: []prefabs.TimelineStepSpec{step("set_flag"), step("set_phase"), step("emit")}})
	if err != nil || len(ok) != 3 {
		t.Fatalf("valid table: %v, %v", ok, err)
	}
	if ok[2].Action.Signal != event.SignalMusicRevealStart {
		t.Fatalf("emit step resolved to %s", ok[2].Action.Signal)
	}
}

func TestBuildPage(t *testing.T) {
	page, err := prefabs.LoadPageSpec("page.yaml")
	if err != nil {
		t.Fatal(err)
	}
	w := ecs.NewWorld()
	built, err := BuildPage(w, page, "page.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(built) != len(page.Entities) {
		t.Fatalf("built %d of %d entities", len(built), len(page.Entities))
	}

	if _, ok := ecs.First(w, component.IntroComponent.Kind()); !ok {
		t.Fatal("page has no intro")
	}
	if _, ok := ecs.First(w, component.PlaybackComponent.Kind()); ok {
		t.Fatal("the player mounts only after the gate")
	}

	var delays []time.Duration
	ecs.ForEach2(w, component.StatComponent.Kind(), component.RevealComponent.Kind(), func(_ ecs.Entity, s *component.Stat, r *component.Reveal) {
		delays = append(delays, r.Delay)
	})
	ms := time.Millisecond
	if !reflect.DeepEqual(delays, []time.Duration{0, 80 * ms, 160 * ms}) {
		t.Fatalf("stat delays = %v", delays)
	}

	ent, _ := ecs.First(w, component.NameTagComponent.Kind())
	r, ok := ecs.Get(w, ent, component.RevealComponent.Kind())
	if !ok || r.BlinkToggles != 6 || r.Then != event.SignalStatsRevealStart {
		t.Fatalf("name reveal = %+v", r)
	}
}

func TestBuildEntitySpecErrors(t *testing.T) {
	tests := []struct {
		name       string
		components map[string]any
	}{
		{"none", nil},
		{"unknown_component", map[string]any{"input": map[string]any{}, "sprite": map[string]any{}}},
		{"bad_trigger", map[string]any{"input": map[string]any{}, "reveal": map[string]any{"triggers": []any{"soon"}}}},
		{"no_trigger", map[string]any{"reveal": map[string]any{"sweep": "500ms"}}},
		{"loud", map[string]any{"input": map[string]any{}, "playback": map[string]any{"volume": 2}}},
		{"empty_queue", map[string]any{"track_queue": map[string]any{}}},
		{"index_out_of_range", map[string]any{"track_queue": map[string]any{"file": "tracks.yaml", "index": 5}}},
		{"negative_stat", map[string]any{"stat": map[string]any{"index": -1}}},
		{"negative_stagger", map[string]any{"stat": map[string]any{"index": 1, "stagger": "-80ms"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			_, err := BuildEntitySpec(w, "test.yaml", prefabs.EntityBuildSpec{Name: tc.name, Components: tc.components})
			if err == nil {
				t.Fatal("expected error")
			}
			if n := len(ecs.Entities(w)); n != 0 {
				t.Fatalf("failed build left %d entities", n)
			}
		})
	}
}

func TestBuildPageRollsBack(t *testing.T) {
	w := ecs.NewWorld()
	page := &prefabs.PageSpec{Entities: []prefabs.EntityBuildSpec{
		{Name: "ok", Components: map[string]any{"input": map[string]any{}}},
		{Name: "bad", Components: map[string]any{"sprite": map[string]any{}}},
	}}
	if _, err := BuildPage(w, page, "page.yaml"); err == nil {
		t.Fatal("expected error")
	}
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("rollback left %d entities", n)
	}
}

func TestNewMusicPlayerMountsOnce(t *testing.T) {
	w := ecs.NewWorld()
	first, err := NewMusicPlayer(w, "music_player.yaml")
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewMusicPlayer(w, "music_player.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if first != second || len(ecs.Entities(w)) != 1 {
		t.Fatalf("second mount created a new player: %v vs %v", first, second)
	}

	q, ok := ecs.Get(w, first, component.TrackQueueComponent.Kind())
	if !ok || q.Len() != 3 || q.Index != 0 {
		t.Fatalf("queue = %+v", q)
	}
	p, _ := ecs.Get(w, first, component.PlaybackComponent.Kind())
	if p.Volume != 1 || !p.AutoPlay || p.Playing {
		t.Fatalf("playback = %+v", p)
	}
	r, _ := ecs.Get(w, first, component.RevealComponent.Kind())
	if !r.TriggeredBy(event.SignalMusicStarted) || r.Phase != component.RevealHidden {
		t.Fatalf("reveal = %+v", r)
	}
}

func TestPlaybackVolumeSurvivesMount(t *testing.T) {
	tests := []struct {
		name     string
		playback map[string]any
		want     float64
		unmuted  float64
	}{
		{"unset_defaults_full", map[string]any{}, 1, 0},
		{"start_muted", map[string]any{"volume": 0}, 0, 1},
		{"configured", map[string]any{"volume": 0.4}, 0.4, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			ent, err := BuildEntitySpec(w, "test", prefabs.EntityBuildSpec{
				Name: "player",
				Components: map[string]any{
					"playback": tc.playback,
					"track_queue": map[string]any{
						"tracks": []any{map[string]any{"title": "one", "src": "one.mp3"}},
					},
				},
			})
			if err != nil {
				t.Fatal(err)
			}

			music := system.NewMusicSystem(session.New(nil), nil)
			music.Update(w)
			p, _ := ecs.Get(w, ent, component.PlaybackComponent.Kind())
			if !p.Mounted || p.Volume != tc.want {
				t.Fatalf("mounted=%v volume=%v, want %v", p.Mounted, p.Volume, tc.want)
			}
			if tc.want > 0 {
				return
			}
			music.ToggleMute(w)
			if p.Volume != tc.unmuted {
				t.Fatalf("unmuted volume = %v, want %v", p.Volume, tc.unmuted)
			}
		})
	}
}

func TestStatRevealDelayFromIndex(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		name  string
		stat  map[string]any
		delay string
		want  time.Duration
	}{
		{"first", map[string]any{"index": 0, "stagger": "80ms"}, "", 0},
		{"third", map[string]any{"index": 2, "stagger": "80ms"}, "", 160 * ms},
		{"with_base_delay", map[string]any{"index": 3, "stagger": "80ms"}, "10ms", 250 * ms},
		{"no_stagger", map[string]any{"index": 4}, "", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reveal := map[string]any{"triggers": []any{"stats-reveal-start"}, "sweep": "500ms"}
			if tc.delay != "" {
				reveal["delay"] = tc.delay
			}
			w := ecs.NewWorld()
			ent, err := BuildEntitySpec(w, "test", prefabs.EntityBuildSpec{
				Name:       "stat",
				Components: map[string]any{"stat": tc.stat, "reveal": reveal},
			})
			if err != nil {
				t.Fatal(err)
			}
			r, _ := ecs.Get(w, ent, component.RevealComponent.Kind())
			if r.Delay != tc.want {
				t.Fatalf("delay = %v, want %v", r.Delay, tc.want)
			}
		})
	}
}
