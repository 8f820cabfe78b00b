package system

import (
	"github.com/milk9111/linkpage/ecs"
	"github.com/milk9111/linkpage/ecs/component"
	"github.com/milk9111/linkpage/session"
)

// BlinkSystem flips blink overlays as their intervals elapse. When the last
// flip lands the blink is removed and the owning reveal settles.
type BlinkSystem struct {
	session *session.Session
}

func NewBlinkSystem(sess *session.Session) *BlinkSystem {
	return &BlinkSystem{session: sess}
}

func (s *BlinkSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	now := w.Now()
	ecs.ForEach(w, component.BlinkComponent.Kind(), func(e ecs.Entity, b *component.Blink) {
		for due := b.Due(now); b.Done < due; b.Done++ {
			b.On = !b.On
		}
		if !b.Settled() {
			return
		}
		_ = ecs.Remove(w, e, component.BlinkComponent.Kind())
		if r, ok := ecs.Get(w, e, component.RevealComponent.Kind()); ok {
			settleReveal(w, r, s.session.Bus())
		}
	})
}
