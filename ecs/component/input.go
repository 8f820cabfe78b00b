package component

// Gesture kinds that count as a user interaction for the audio unlock.
type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureClick
	GestureTouch
	GestureKey
)

func (k GestureKind) String() string {
	switch k {
	case GestureClick:
		return "click"
	case GestureTouch:
		return "touch"
	case GestureKey:
		return "key"
	}
	return "none"
}

// Pointer reports a click or touch, the gestures that can dismiss the gate.
func (k GestureKind) Pointer() bool {
	return k == GestureClick || k == GestureTouch
}

// Input is the per-tick snapshot written by the input system.
type Input struct {
	// Gesture is the first qualifying interaction this tick.
	Gesture GestureKind

	PointerX     float64
	PointerY     float64
	Clicked      bool
	RightClicked bool

	TogglePressed bool
	NextPressed   bool
	PrevPressed   bool
	MutePressed   bool
	VolumeDelta   float64
}

var InputComponent = NewComponent[Input]()

// PlayerUI is presentation state of the floating music player.
type PlayerUI struct {
	Hovered bool
}

var PlayerUIComponent = NewComponent[PlayerUI]()
