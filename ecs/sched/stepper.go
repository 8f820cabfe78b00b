package sched

import "time"

// Step is one entry of a scripted timeline. Delay is measured from the moment
// the previous step fired, not from the start of the timeline.
type Step struct {
	Delay time.Duration
	Name  string
	Do    func()
}

// Stepper walks a step table one entry at a time. Only the next step is ever
// scheduled, so cancelling the stepper leaves nothing behind.
type Stepper struct {
	timers  *Timers
	owner   Owner
	steps   []Step
	next    int
	pending TimerID
	started bool
	stopped bool
}

func NewStepper(timers *Timers, owner Owner, steps []Step) *Stepper {
	return &Stepper{
		timers: timers,
		owner:  owner,
		steps:  append([]Step(nil), steps...),
	}
}

// Start schedules the first step. Calling Start again is a no-op and returns
// false.
func (s *Stepper) Start() bool {
	if s == nil || s.started || s.stopped {
		return false
	}
	s.started = true
	s.scheduleNext()
	return true
}

// Cancel stops the timeline; steps that have not fired never will.
func (s *Stepper) Cancel() {
	if s == nil || s.stopped {
		return
	}
	s.stopped = true
	if s.pending != 0 {
		s.timers.Cancel(s.pending)
		s.pending = 0
	}
}

// Fired returns how many steps have run.
func (s *Stepper) Fired() int {
	if s == nil {
		return 0
	}
	return s.next
}

func (s *Stepper) Started() bool {
	return s != nil && s.started
}

// Done reports whether every step has fired.
func (s *Stepper) Done() bool {
	return s != nil && s.started && s.next >= len(s.steps)
}

func (s *Stepper) Cancelled() bool {
	return s != nil && s.stopped
}

// Len is the number of steps in the table.
func (s *Stepper) Len() int {
	if s == nil {
		return 0
	}
	return len(s.steps)
}

func (s *Stepper) scheduleNext() {
	if s.stopped || s.next >= len(s.steps) {
		s.pending = 0
		return
	}
	step := s.steps[s.next]
	s.pending = s.timers.After(s.owner, step.Delay, s.fire)
}

func (s *Stepper) fire() {
	s.pending = 0
	if s.stopped || s.next >= len(s.steps) {
		return
	}
	step := s.steps[s.next]
	s.next++
	if step.Do != nil {
		step.Do()
	}
	s.scheduleNext()
}
