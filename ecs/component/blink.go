package component

import "time"

// Blink flickers an overlay a fixed number of times, timed against the world
// clock from StartAt.
type Blink struct {
	// Toggles is the total number of flips before the blink settles.
	Toggles  int
	Interval time.Duration
	StartAt  time.Duration
	// Done counts flips already applied.
	Done int
	// On determines whether the overlay is currently drawn.
	On bool
}

// Due is how many flips should have happened by now.
func (b *Blink) Due(now time.Duration) int {
	if b == nil {
		return 0
	}
	if b.Interval <= 0 {
		return b.Toggles
	}
	n := int((now - b.StartAt) / b.Interval)
	if n < 0 {
		return 0
	}
	if n > b.Toggles {
		return b.Toggles
	}
	return n
}

// Settled reports whether every flip has been applied.
func (b *Blink) Settled() bool {
	return b == nil || b.Done >= b.Toggles
}

var BlinkComponent = NewComponent[Blink]()
