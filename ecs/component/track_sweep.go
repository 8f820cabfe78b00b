package component

import "time"

// TrackSweep animates the player while a new track binds. Every retrigger
// bumps Token; a completion only counts if it carries the current token.
type TrackSweep struct {
	Token    uint64
	Changing bool
	Duration time.Duration
	StartAt  time.Duration
}

var TrackSweepComponent = NewComponent[TrackSweep]()
