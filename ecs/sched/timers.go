// Package sched runs delayed callbacks against a tick-driven clock. Nothing in
// here sleeps or spawns goroutines: callbacks fire from Advance, on whatever
// goroutine drives the game loop.
package sched

import "time"

// TimerID identifies a scheduled callback. The zero value is never issued.
type TimerID uint64

// Owner scopes timers so they can be cancelled together when the owning
// entity goes away. The zero Owner means "unowned".
type Owner uint64

type timer struct {
	id    TimerID
	owner Owner
	at    time.Duration
	fn    func()
}

// Timers is a virtual clock plus the callbacks waiting on it.
type Timers struct {
	now     time.Duration
	nextID  TimerID
	pending []*timer
}

func NewTimers() *Timers {
	return &Timers{}
}

// Now returns the virtual time elapsed since the clock was created.
func (t *Timers) Now() time.Duration {
	if t == nil {
		return 0
	}
	return t.now
}

// After schedules fn to run once d has elapsed. Negative delays are treated
// as zero.
func (t *Timers) After(owner Owner, d time.Duration, fn func()) TimerID {
	if t == nil || fn == nil {
		return 0
	}
	if d < 0 {
		d = 0
	}
	t.nextID++
	t.pending = append(t.pending, &timer{id: t.nextID, owner: owner, at: t.now + d, fn: fn})
	return t.nextID
}

// Cancel drops a pending timer. It reports false if the timer already fired
// or was never scheduled.
func (t *Timers) Cancel(id TimerID) bool {
	if t == nil || id == 0 {
		return false
	}
	for i, tm := range t.pending {
		if tm.id == id {
			t.pending = append(t.pending[:i], t.pending[i+1:]...)
			return true
		}
	}
	return false
}

// CancelOwner drops every pending timer registered by owner and returns how
// many were removed.
func (t *Timers) CancelOwner(owner Owner) int {
	if t == nil || owner == 0 {
		return 0
	}
	kept := t.pending[:0]
	removed := 0
	for _, tm := range t.pending {
		if tm.owner == owner {
			removed++
			continue
		}
		kept = append(kept, tm)
	}
	for i := len(kept); i < len(t.pending); i++ {
		t.pending[i] = nil
	}
	t.pending = kept
	return removed
}

// Pending counts timers still waiting for owner. Owner 0 counts all timers.
func (t *Timers) Pending(owner Owner) int {
	if t == nil {
		return 0
	}
	if owner == 0 {
		return len(t.pending)
	}
	n := 0
	for _, tm := range t.pending {
		if tm.owner == owner {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by dt, firing due timers in deadline order.
// Ties fire in registration order. Timers scheduled by a callback fire within
// the same call if their deadline falls inside the window.
func (t *Timers) Advance(dt time.Duration) {
	if t == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	target := t.now + dt
	for {
		idx := t.nextDue(target)
		if idx < 0 {
			break
		}
		tm := t.pending[idx]
		t.pending = append(t.pending[:idx], t.pending[idx+1:]...)
		if tm.at > t.now {
			t.now = tm.at
		}
		tm.fn()
	}
	t.now = target
}

func (t *Timers) nextDue(target time.Duration) int {
	best := -1
	for i, tm := range t.pending {
		if tm.at > target {
			continue
		}
		if best < 0 || tm.at < t.pending[best].at || (tm.at == t.pending[best].at && tm.id < t.pending[best].id) {
			best = i
		}
	}
	return best
}
