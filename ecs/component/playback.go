package component

import "time"

// Resource is one loaded, playable audio stream.
type Resource interface {
	// Play starts or resumes output. Errors mean the start was refused; the
	// resource stays usable.
	Play() error
	Pause()
	IsPlaying() bool
	SetVolume(v float64)
	Position() time.Duration
	Duration() time.Duration
	// Ended reports that playback ran to the natural end of the stream.
	Ended() bool
	Close() error
}

// ResourceLoader binds a track source locator to a Resource.
type ResourceLoader interface {
	Load(source string) (Resource, error)
}

type PlaybackPhase int

const (
	PlaybackUnloaded PlaybackPhase = iota
	PlaybackLoading
	PlaybackReady
	PlaybackFailed
)

func (p PlaybackPhase) String() string {
	switch p {
	case PlaybackUnloaded:
		return "unloaded"
	case PlaybackLoading:
		return "loading"
	case PlaybackReady:
		return "ready"
	case PlaybackFailed:
		return "failed"
	}
	return "unknown"
}

// Playback is the audio engine state for the page's music player. Only the
// music system writes to it.
//
// Playing is the user's intent, not confirmed output: a refused start leaves
// it true. Started tracks whether the current resource actually began.
type Playback struct {
	Phase      PlaybackPhase
	LoadIndex  int
	Playing    bool
	Started    bool
	Progress   float64
	Volume     float64
	LastVolume float64
	AutoPlay   bool
	Mounted    bool
	LoadErrors map[int]bool

	Resource Resource
}

// Failed reports whether the track at i failed to load.
func (p *Playback) Failed(i int) bool {
	return p != nil && p.LoadErrors[i]
}

// Release tears down the bound resource.
func (p *Playback) Release() {
	if p == nil || p.Resource == nil {
		return
	}
	p.Resource.Pause()
	_ = p.Resource.Close()
	p.Resource = nil
	p.Started = false
}

var PlaybackComponent = NewComponent[Playback]()
