package entity

import (
	"fmt"

	"github.com/milk9111/linkpage/ecs"
	"github.com/milk9111/linkpage/ecs/component"
)

// NewMusicPlayer mounts the floating player. Only one may exist; a second call
// returns the mounted one.
func NewMusicPlayer(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if ent, ok := ecs.First(w, component.PlaybackComponent.Kind()); ok {
		return ent, nil
	}
	ent, err := BuildEntity(w, prefabPath)
	if err != nil {
		return 0, fmt.Errorf("music player: %w", err)
	}
	return ent, nil
}
