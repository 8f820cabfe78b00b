// Package session holds the state that lives for exactly one page load: the
// audio unlock, whether music has started, and the signal bus. There are no
// reset methods; a new page load means a new Session.
package session

import "github.com/milk9111/linkpage/ecs/event"

type Session struct {
	bus *event.Bus

	unlocked        bool
	unlockRequested bool
	musicStarted    bool
}

// New creates a session around bus. A nil bus gets a fresh one.
func New(bus *event.Bus) *Session {
	if bus == nil {
		bus = event.NewBus()
	}
	return &Session{bus: bus}
}

func (s *Session) Bus() *event.Bus {
	if s == nil {
		return nil
	}
	return s.bus
}

// Unlock records the first qualifying user gesture. It returns true only for
// the call that flipped the flag.
func (s *Session) Unlock() bool {
	if s == nil || s.unlocked {
		return false
	}
	s.unlocked = true
	return true
}

func (s *Session) Unlocked() bool {
	return s != nil && s.unlocked
}

// RequestUnlock notes that the gate asked for audio before a player existed
// to honor it.
func (s *Session) RequestUnlock() {
	if s == nil {
		return
	}
	s.unlockRequested = true
}

// TakeUnlockRequest consumes a pending unlock request.
func (s *Session) TakeUnlockRequest() bool {
	if s == nil || !s.unlockRequested {
		return false
	}
	s.unlockRequested = false
	return true
}

// MarkMusicStarted flips the music-started flag and reports whether this
// call was the first.
func (s *Session) MarkMusicStarted() bool {
	if s == nil || s.musicStarted {
		return false
	}
	s.musicStarted = true
	return true
}

// MusicStarted lets listeners that mount late see that playback already began.
func (s *Session) MusicStarted() bool {
	return s != nil && s.musicStarted
}
