package entity

import (
	"fmt"

	"github.com/milk9111/linkpage/ecs"
	"github.com/milk9111/linkpage/prefabs"
)

// BuildPage creates every entity the page spec lists. The music player is not
// among them; it mounts later through NewMusicPlayer.
func BuildPage(w *ecs.World, page *prefabs.PageSpec, source string) ([]ecs.Entity, error) {
	if page == nil {
		return nil, fmt.Errorf("build page: spec is nil")
	}
	built := make([]ecs.Entity, 0, len(page.Entities))
	for _, spec := range page.Entities {
		e, err := BuildEntitySpec(w, source, spec)
		if err != nil {
			for _, prev := range built {
				ecs.DestroyEntity(w, prev)
			}
			return nil, fmt.Errorf("build page: %w", err)
		}
		built = append(built, e)
	}
	return built, nil
}
