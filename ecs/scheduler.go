package ecs

// System updates a world each tick.
type System interface {
	Update(w *World)
}

// Closer is implemented by systems that hold resources outside the world,
// such as open audio or bus subscriptions.
type Closer interface {
	Close()
}

// Scheduler runs systems once per tick in registration order. A system sees
// every change made by the systems before it in the same tick.
type Scheduler struct {
	systems []System
	closed  bool
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{systems: make([]System, 0, len(systems))}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

// Add appends system. Nil systems are dropped.
func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update is a no-op once the scheduler is closed.
func (s *Scheduler) Update(w *World) {
	if s == nil || s.closed || w == nil {
		return
	}
	for _, system := range s.systems {
		system.Update(w)
	}
}

// Close closes systems in reverse order. Calling it again does nothing.
func (s *Scheduler) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	for i := len(s.systems) - 1; i >= 0; i-- {
		if c, ok := s.systems[i].(Closer); ok {
			c.Close()
		}
	}
}

func (s *Scheduler) Systems() []System {
	return append([]System(nil), s.systems...)
}
