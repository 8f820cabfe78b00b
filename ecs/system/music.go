package system

import (
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/milk9111/linkpage/common"
	"github.com/milk9111/linkpage/ecs"
	"github.com/milk9111/linkpage/ecs/component"
	"github.com/milk9111/linkpage/ecs/event"
	"github.com/milk9111/linkpage/session"
)

var musicLog = logging.Logger("music")

const (
	defaultMusicVolume = 1.0
	trackSweepDuration = 500 * time.Millisecond
)

// MusicSystem is the audio engine. It owns the single playable resource bound
// to the current track and is the only writer of the Playback component.
//
// Transport operations (Play, Next, SetVolume, ...) act immediately on the
// world. Loading a newly bound track happens on the following Update, the
// same way a browser reports readiness asynchronously.
type MusicSystem struct {
	session *session.Session
	loader  component.ResourceLoader

	world *ecs.World
	subs  []event.Subscription
}

func NewMusicSystem(sess *session.Session, loader component.ResourceLoader) *MusicSystem {
	return &MusicSystem{session: sess, loader: loader}
}

// Close drops the bus subscriptions.
func (m *MusicSystem) Close() {
	for _, sub := range m.subs {
		sub.Cancel()
	}
	m.subs = nil
	m.world = nil
}

func (m *MusicSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	m.attach(w)

	if in, ok := firstInput(w); ok && in.Gesture != component.GestureNone {
		m.gesture(w, in.Gesture)
	}

	ent, p, q, ok := m.player(w)
	if !ok {
		return
	}
	if !p.Mounted {
		m.mount(w, ent, p, q)
	}

	switch p.Phase {
	case component.PlaybackLoading:
		m.load(p, q)
	case component.PlaybackReady:
		m.track(w, p)
	}
}

// Unlocked reports the session-wide unlock flag.
func (m *MusicSystem) Unlocked() bool {
	return m.session.Unlocked()
}

// Play records the intent to play. Output starts only once the session is
// unlocked and the current track is ready.
func (m *MusicSystem) Play(w *ecs.World) {
	_, p, _, ok := m.player(w)
	if !ok {
		return
	}
	p.Playing = true
	m.start(p)
}

// Pause stops output and clears the intent. No-op when already paused.
func (m *MusicSystem) Pause(w *ecs.World) {
	_, p, _, ok := m.player(w)
	if !ok || !p.Playing {
		return
	}
	p.Playing = false
	m.halt(p)
}

// Toggle flips the play intent. Pressing a transport control is itself a user
// gesture, so it unlocks the session.
func (m *MusicSystem) Toggle(w *ecs.World) {
	_, p, _, ok := m.player(w)
	if !ok {
		return
	}
	m.session.Unlock()
	if p.Playing {
		p.Playing = false
		m.halt(p)
		return
	}
	p.Playing = true
	m.start(p)
}

func (m *MusicSystem) Next(w *ecs.World) {
	ent, p, q, ok := m.player(w)
	if !ok {
		return
	}
	q.Next()
	m.bind(w, ent, p, q)
}

func (m *MusicSystem) Prev(w *ecs.World) {
	ent, p, q, ok := m.player(w)
	if !ok {
		return
	}
	q.Prev()
	m.bind(w, ent, p, q)
}

// SetTrack jumps to track i. Out-of-range indexes and the current index are
// ignored.
func (m *MusicSystem) SetTrack(w *ecs.World, i int) {
	ent, p, q, ok := m.player(w)
	if !ok || i == q.Index {
		return
	}
	if !q.Set(i) {
		return
	}
	m.bind(w, ent, p, q)
}

// SetVolume clamps v to [0,1] and applies it right away.
func (m *MusicSystem) SetVolume(w *ecs.World, v float64) {
	_, p, _, ok := m.player(w)
	if !ok {
		return
	}
	setVolume(p, v)
}

// ToggleMute silences the player, or restores the last audible volume.
func (m *MusicSystem) ToggleMute(w *ecs.World) {
	_, p, _, ok := m.player(w)
	if !ok {
		return
	}
	if p.Volume > 0 {
		setVolume(p, 0)
		return
	}
	restore := p.LastVolume
	if restore <= 0 {
		restore = defaultMusicVolume
	}
	setVolume(p, restore)
}

// Unlock is the explicit unlock request (the gate's "enter"). It asks for
// playback and unlocks the session if no gesture has yet. Without a mounted
// player the request is parked on the session until one mounts.
func (m *MusicSystem) Unlock(w *ecs.World) {
	_, p, _, ok := m.player(w)
	if !ok {
		m.session.RequestUnlock()
		return
	}
	m.session.TakeUnlockRequest()
	if m.session.Unlock() {
		musicLog.Debugw("audio unlocked", "gesture", "request")
	}
	p.AutoPlay = true
	p.Playing = true
	m.start(p)
}

// gesture handles a user interaction. The first one of the session unlocks
// audio; later ones only retry a start that was refused earlier.
func (m *MusicSystem) gesture(w *ecs.World, kind component.GestureKind) {
	first := m.session.Unlock()
	_, p, _, ok := m.player(w)
	if !first {
		if ok && p.Playing && !p.Started {
			m.start(p)
		}
		return
	}
	musicLog.Debugw("audio unlocked", "gesture", kind.String())
	if !ok {
		return
	}
	if p.AutoPlay {
		p.Playing = true
	}
	m.start(p)
}

func (m *MusicSystem) attach(w *ecs.World) {
	if m.world == w {
		return
	}
	m.Close()
	m.world = w
	bus := m.session.Bus()
	m.subs = append(m.subs, bus.Subscribe(event.SignalUnlockAudio, func(event.Signal) {
		if m.world != nil {
			m.Unlock(m.world)
		}
	}))
}

func (m *MusicSystem) mount(w *ecs.World, ent ecs.Entity, p *component.Playback, q *component.TrackQueue) {
	p.Mounted = true
	// the configured volume is kept as is; zero means start muted
	if p.Volume > 0 {
		p.LastVolume = p.Volume
	} else if p.LastVolume <= 0 {
		p.LastVolume = defaultMusicVolume
	}
	if p.LoadErrors == nil {
		p.LoadErrors = make(map[int]bool)
	}
	// an unlock requested before this player existed is honored now, even if
	// another gesture already unlocked the session
	if m.session.TakeUnlockRequest() {
		m.session.Unlock()
		p.AutoPlay = true
		p.Playing = true
	}
	if p.Phase == component.PlaybackUnloaded {
		m.bind(w, ent, p, q)
	}
}

// bind tears down the current resource and queues the cursor's track for
// loading. Play intent survives the switch.
func (m *MusicSystem) bind(w *ecs.World, ent ecs.Entity, p *component.Playback, q *component.TrackQueue) {
	p.Release()
	p.Phase = component.PlaybackLoading
	p.LoadIndex = q.Index
	p.Progress = 0
	retriggerSweep(w, ent)
}

func (m *MusicSystem) load(p *component.Playback, q *component.TrackQueue) {
	if m.loader == nil {
		return
	}
	track := q.Current()
	res, err := m.loader.Load(track.Source)
	if err != nil {
		musicLog.Warnw("load failed", "track", p.LoadIndex, "source", track.Source, "err", err)
		p.LoadErrors[p.LoadIndex] = true
		p.Phase = component.PlaybackFailed
		return
	}
	p.LoadErrors[p.LoadIndex] = false
	p.Resource = res
	res.SetVolume(p.Volume)
	p.Phase = component.PlaybackReady
	m.start(p)
}

// track follows the resource: progress while playing, auto-advance at the end.
func (m *MusicSystem) track(w *ecs.World, p *component.Playback) {
	res := p.Resource
	if res == nil || !p.Started {
		return
	}
	if res.Ended() {
		m.Next(w)
		return
	}
	if d := res.Duration(); d > 0 {
		p.Progress = common.Clamp(float64(res.Position())/float64(d)*100, 0, 100)
	}
}

// start asks the resource for output when intent, unlock and readiness line
// up. Refusals are swallowed; the intent stays set for the next attempt.
func (m *MusicSystem) start(p *component.Playback) {
	if !p.Playing || !m.session.Unlocked() || p.Phase != component.PlaybackReady || p.Resource == nil {
		return
	}
	if p.Started && p.Resource.IsPlaying() {
		return
	}
	if err := p.Resource.Play(); err != nil {
		musicLog.Debugw("play rejected", "track", p.LoadIndex, "err", err)
		return
	}
	p.Started = true
	if m.session.MarkMusicStarted() {
		musicLog.Infow("music started", "track", p.LoadIndex)
		m.session.Bus().Emit(event.SignalMusicStarted)
	}
}

func (m *MusicSystem) halt(p *component.Playback) {
	if p.Resource != nil {
		p.Resource.Pause()
	}
	p.Started = false
}

func (m *MusicSystem) player(w *ecs.World) (ecs.Entity, *component.Playback, *component.TrackQueue, bool) {
	if w == nil {
		return 0, nil, nil, false
	}
	ent, ok := ecs.First(w, component.PlaybackComponent.Kind())
	if !ok {
		return 0, nil, nil, false
	}
	p, ok := ecs.Get(w, ent, component.PlaybackComponent.Kind())
	if !ok {
		return 0, nil, nil, false
	}
	q, ok := ecs.Get(w, ent, component.TrackQueueComponent.Kind())
	if !ok || q.Len() == 0 {
		return 0, nil, nil, false
	}
	return ent, p, q, true
}

func setVolume(p *component.Playback, v float64) {
	v = common.Clamp01(v)
	p.Volume = v
	if v > 0 {
		p.LastVolume = v
	}
	if p.Resource != nil {
		p.Resource.SetVolume(v)
	}
}

// retriggerSweep restarts the track-change sweep. Older in-flight sweeps are
// left to fire but no longer match the token, so only the latest completes.
func retriggerSweep(w *ecs.World, ent ecs.Entity) {
	ts, ok := ecs.Get(w, ent, component.TrackSweepComponent.Kind())
	if !ok {
		return
	}
	ts.Token++
	ts.Changing = true
	ts.StartAt = w.Now()
	d := ts.Duration
	if d <= 0 {
		d = trackSweepDuration
	}
	token := ts.Token
	w.After(ent, d, func() {
		if ts.Token == token {
			ts.Changing = false
		}
	})
}

func firstInput(w *ecs.World) (*component.Input, bool) {
	ent, ok := ecs.First(w, component.InputComponent.Kind())
	if !ok {
		return nil, false
	}
	return ecs.Get(w, ent, component.InputComponent.Kind())
}
