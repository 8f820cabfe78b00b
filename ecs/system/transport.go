package system

import (
	"github.com/milk9111/linkpage/ecs"
	"github.com/milk9111/linkpage/ecs/component"
)

// TransportSystem maps keyboard shortcuts and hover onto the music player.
// Controls stay inert until the player has been revealed.
type TransportSystem struct {
	music *MusicSystem
}

func NewTransportSystem(music *MusicSystem) *TransportSystem {
	return &TransportSystem{music: music}
}

func (t *TransportSystem) Update(w *ecs.World) {
	if w == nil || t.music == nil {
		return
	}
	in, ok := firstInput(w)
	if !ok {
		return
	}
	ent, ok := ecs.First(w, component.PlaybackComponent.Kind())
	if !ok {
		return
	}
	r, ok := ecs.Get(w, ent, component.RevealComponent.Kind())
	if !ok || !r.Revealed() {
		return
	}

	if ui, ok := ecs.Get(w, ent, component.PlayerUIComponent.Kind()); ok {
		tracks := 0
		if q, ok := ecs.Get(w, ent, component.TrackQueueComponent.Kind()); ok {
			tracks = q.Len()
		}
		ui.Hovered = PlayerRect(ui.Hovered, tracks).Contains(in.PointerX, in.PointerY)
	}

	switch {
	case in.TogglePressed:
		t.music.Toggle(w)
	case in.NextPressed:
		t.music.Next(w)
	case in.PrevPressed:
		t.music.Prev(w)
	case in.MutePressed:
		t.music.ToggleMute(w)
	}
	if in.VolumeDelta != 0 {
		if p, ok := ecs.Get(w, ent, component.PlaybackComponent.Kind()); ok {
			t.music.SetVolume(w, p.Volume+in.VolumeDelta)
		}
	}
}
