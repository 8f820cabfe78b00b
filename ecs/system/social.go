package system

import (
	logging "github.com/ipfs/go-log/v2"
	"github.com/milk9111/linkpage/ecs"
	"github.com/milk9111/linkpage/ecs/component"
)

var socialLog = logging.Logger("social")

// SocialLinkSystem tracks the hovered row of the social card and acts on
// clicks: a left click opens the link, a right click copies the handle.
type SocialLinkSystem struct {
	open     func(url string) error
	copyText func(text string) error
}

func NewSocialLinkSystem(open func(url string) error, copyText func(text string) error) *SocialLinkSystem {
	return &SocialLinkSystem{open: open, copyText: copyText}
}

func (s *SocialLinkSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	in, ok := firstInput(w)
	if !ok {
		return
	}

	ecs.ForEach2(w, component.SocialListComponent.Kind(), component.RevealComponent.Kind(), func(_ ecs.Entity, list *component.SocialList, r *component.Reveal) {
		hovered := -1
		if r.Revealed() && !playerCovers(w, in.PointerX, in.PointerY) {
			for i := range list.Links {
				if SocialRowRect(i).Contains(in.PointerX, in.PointerY) {
					hovered = i
					break
				}
			}
		}
		if hovered != list.Hovered {
			list.Hovered = hovered
			list.HoveredAt = w.Now()
		}
		if hovered < 0 {
			return
		}

		link := list.Links[hovered]
		switch {
		case in.Clicked && s.open != nil:
			if err := s.open(link.Href); err != nil {
				socialLog.Warnw("open link", "href", link.Href, "err", err)
			}
		case in.RightClicked && s.copyText != nil:
			if err := s.copyText(link.Handle); err != nil {
				socialLog.Warnw("copy handle", "handle", link.Handle, "err", err)
			}
		}
	})
}

// playerCovers reports whether the expanded player sits over the point.
func playerCovers(w *ecs.World, x, y float64) bool {
	ent, ok := ecs.First(w, component.PlayerUIComponent.Kind())
	if !ok {
		return false
	}
	ui, _ := ecs.Get(w, ent, component.PlayerUIComponent.Kind())
	if !ui.Hovered {
		return false
	}
	tracks := 0
	if q, ok := ecs.Get(w, ent, component.TrackQueueComponent.Kind()); ok {
		tracks = q.Len()
	}
	return PlayerRect(true, tracks).Contains(x, y)
}
