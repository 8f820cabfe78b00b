// Package event is the in-process broadcast bus the page components use to
// coordinate. Signals carry no payload; delivery is synchronous on Emit and
// nothing is replayed for late subscribers.
package event

import (
	"errors"
	"fmt"
	"strings"
)

// Signal is the closed set of broadcast kinds.
type Signal int

const (
	SignalNone Signal = iota
	SignalUnlockAudio
	SignalMusicStarted
	SignalNameRevealStart
	SignalStatsRevealStart
	SignalSocialRevealStart
	SignalMusicRevealStart
	signalCount
)

var ErrUnknownSignal = errors.New("event: unknown signal")

var signalNames = [signalCount]string{
	SignalNone:              "none",
	SignalUnlockAudio:       "unlock-audio",
	SignalMusicStarted:      "music-started",
	SignalNameRevealStart:   "name-reveal-start",
	SignalStatsRevealStart:  "stats-reveal-start",
	SignalSocialRevealStart: "social-reveal-start",
	SignalMusicRevealStart:  "music-reveal-start",
}

func (s Signal) String() string {
	if s < 0 || s >= signalCount {
		return fmt.Sprintf("signal(%d)", int(s))
	}
	return signalNames[s]
}

func (s Signal) Valid() bool {
	return s > SignalNone && s < signalCount
}

// ParseSignal maps a wire name such as "name-reveal-start" to its Signal.
func ParseSignal(name string) (Signal, error) {
	clean := strings.ToLower(strings.TrimSpace(name))
	for i := SignalNone + 1; i < signalCount; i++ {
		if signalNames[i] == clean {
			return i, nil
		}
	}
	return SignalNone, fmt.Errorf("%w: %q", ErrUnknownSignal, name)
}

// Handler reacts to a signal.
type Handler func(Signal)

type listener struct {
	id uint64
	fn Handler
}

// Bus fans signals out to subscribers in subscription order.
type Bus struct {
	nextID    uint64
	listeners [signalCount][]listener
	emitted   [signalCount]int
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscription is returned by Subscribe and removes the handler on Cancel.
type Subscription struct {
	bus    *Bus
	signal Signal
	id     uint64
}

// Subscribe registers fn for sig. Invalid signals yield an inert subscription.
func (b *Bus) Subscribe(sig Signal, fn Handler) Subscription {
	if b == nil || fn == nil || !sig.Valid() {
		return Subscription{}
	}
	b.nextID++
	b.listeners[sig] = append(b.listeners[sig], listener{id: b.nextID, fn: fn})
	return Subscription{bus: b, signal: sig, id: b.nextID}
}

// Cancel removes the handler. Safe to call more than once.
func (s Subscription) Cancel() {
	if s.bus == nil || s.id == 0 {
		return
	}
	ls := s.bus.listeners[s.signal]
	for i, l := range ls {
		if l.id == s.id {
			s.bus.listeners[s.signal] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// Emit delivers sig to the handlers subscribed at the time of the call.
// Handlers added or removed during delivery take effect on the next Emit.
func (b *Bus) Emit(sig Signal) {
	if b == nil || !sig.Valid() {
		return
	}
	b.emitted[sig]++
	ls := append([]listener(nil), b.listeners[sig]...)
	for _, l := range ls {
		l.fn(sig)
	}
}

// Emitted counts how many times sig has been emitted on this bus.
func (b *Bus) Emitted(sig Signal) int {
	if b == nil || !sig.Valid() {
		return 0
	}
	return b.emitted[sig]
}

// Listeners counts the handlers currently subscribed to sig.
func (b *Bus) Listeners(sig Signal) int {
	if b == nil || !sig.Valid() {
		return 0
	}
	return len(b.listeners[sig])
}
