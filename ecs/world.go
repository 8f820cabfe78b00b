package ecs

import (
	"sort"
	"time"

	"github.com/milk9111/linkpage/ecs/component"
	"github.com/milk9111/linkpage/ecs/sched"
)

// Releaser is implemented by components that hold resources which must be
// freed when their entity is destroyed.
type Releaser interface {
	Release()
}

// World owns entities, component stores and the timer clock.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	timers   *sched.Timers
	delta    time.Duration
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores: make(map[component.ComponentID]*SparseSet),
		timers: sched.NewTimers(),
	}
}

// Timers returns the world clock used by every scheduled callback.
func (w *World) Timers() *sched.Timers {
	if w == nil {
		return nil
	}
	return w.timers
}

// Now is the virtual time of the world clock.
func (w *World) Now() time.Duration {
	if w == nil {
		return 0
	}
	return w.timers.Now()
}

// Delta is the step passed to the most recent Tick.
func (w *World) Delta() time.Duration {
	if w == nil {
		return 0
	}
	return w.delta
}

// Tick advances the world clock by dt, firing due timers.
func (w *World) Tick(dt time.Duration) {
	if w == nil {
		return
	}
	w.delta = dt
	w.timers.Advance(dt)
}

// After schedules fn on the world clock, owned by e. Destroying e cancels it.
func (w *World) After(e Entity, d time.Duration, fn func()) sched.TimerID {
	if w == nil {
		return 0
	}
	return w.timers.After(Owner(e), d, fn)
}

// Owner converts an entity into the timer owner key.
func Owner(e Entity) sched.Owner {
	return sched.Owner(e)
}

// Describe names the components e holds, sorted. It is meant for logs.
func Describe(w *World, e Entity) []string {
	if w == nil || !w.entities.isAlive(e) {
		return nil
	}
	var names []string
	for id, s := range w.stores {
		if s.Has(e) {
			names = append(names, component.Name(id))
		}
	}
	sort.Strings(names)
	return names
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w.stores == nil {
		if !create {
			return nil
		}
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

func (w *World) destroy(e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	if w.timers != nil {
		w.timers.CancelOwner(Owner(e))
	}
	for _, s := range w.stores {
		v := s.Get(e)
		if v == nil {
			continue
		}
		s.Remove(e)
		if r, ok := v.(Releaser); ok {
			r.Release()
		}
	}
	return w.entities.destroy(e)
}
