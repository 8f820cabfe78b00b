package sched

import (
	"reflect"
	"testing"
	"time"
)

type stepLog struct {
	timers *Timers
	names  []string
	at     []time.Duration
}

func (l *stepLog) step(name string, delay time.Duration) Step {
	return Step{Name: name, Delay: delay, Do: func() {
		l.names = append(l.names, name)
		l.at = append(l.at, l.timers.Now())
	}}
}

func TestStepperRelativeDelays(t *testing.T) {
	ms := time.Millisecond
	timers := NewTimers()
	log := &stepLog{timers: timers}
	s := NewStepper(timers, 1, []Step{
		log.step("a", 100*ms),
		log.step("b", 0),
		log.step("c", 50*ms),
	})
	if s.Started() || s.Done() {
		t.Fatal("fresh stepper should be idle")
	}
	if !s.Start() {
		t.Fatal("first Start should succeed")
	}
	if s.Start() {
		t.Fatal("second Start should be a no-op")
	}

	timers.Advance(99 * ms)
	if s.Fired() != 0 {
		t.Fatalf("fired %d before the first delay elapsed", s.Fired())
	}
	if timers.Pending(1) != 1 {
		t.Fatalf("only the next step may be scheduled, pending=%d", timers.Pending(1))
	}
	timers.Advance(ms)
	if !reflect.DeepEqual(log.names, []string{"a", "b"}) {
		t.Fatalf("got %v after 100ms", log.names)
	}
	timers.Advance(50 * ms)
	want := []time.Duration{100 * ms, 100 * ms, 150 * ms}
	if !reflect.DeepEqual(log.at, want) {
		t.Fatalf("fired at %v, want %v", log.at, want)
	}
	if !s.Done() || s.Fired() != 3 || s.Len() != 3 {
		t.Fatalf("done=%v fired=%d len=%d", s.Done(), s.Fired(), s.Len())
	}
}

func TestStepperCancel(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		name      string
		cancelAt  time.Duration
		wantFired int
	}{
		{"before_first", 10 * ms, 0},
		{"between_steps", 150 * ms, 1},
		{"after_all", time.Second, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			timers := NewTimers()
			log := &stepLog{timers: timers}
			s := NewStepper(timers, 7, []Step{
				log.step("a", 100*ms),
				log.step("b", 100*ms),
				log.step("c", 100*ms),
			})
			s.Start()
			timers.Advance(tc.cancelAt)
			s.Cancel()
			timers.Advance(time.Second)
			if len(log.names) != tc.wantFired {
				t.Fatalf("fired %v, want %d steps", log.names, tc.wantFired)
			}
			if timers.Pending(7) != 0 {
				t.Fatalf("cancelled stepper left %d timers", timers.Pending(7))
			}
			if !s.Cancelled() || s.Start() {
				t.Fatal("cancelled stepper must not restart")
			}
		})
	}
}

func TestStepperOwnerCancel(t *testing.T) {
	timers := NewTimers()
	log := &stepLog{timers: timers}
	s := NewStepper(timers, 3, []Step{log.step("a", time.Millisecond), log.step("b", time.Millisecond)})
	s.Start()
	timers.CancelOwner(3)
	timers.Advance(time.Second)
	if len(log.names) != 0 {
		t.Fatalf("owner cancellation should drop pending steps, fired %v", log.names)
	}
}
