package assets

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/milk9111/linkpage/ecs/component"
)

//go:embed *
var assetsFS embed.FS

// Dir is the on-disk asset directory checked before the embedded files.
var Dir = "assets"

const (
	sampleRate = 44100
	// 16-bit little endian stereo
	bytesPerFrame = 4
	// Streams report their end a little before the last sample is heard.
	endSlack = 50 * time.Millisecond
)

var (
	ErrUnsupportedFormat = errors.New("assets: unsupported audio format")
	ErrAudioNotReady     = errors.New("assets: audio device not ready")
)

var (
	audioOnce    sync.Once
	audioContext *audio.Context
)

// AudioContext returns the process-wide audio context, creating it on first
// use. Ebiten allows only one.
func AudioContext() *audio.Context {
	audioOnce.Do(func() {
		if ctx := audio.CurrentContext(); ctx != nil {
			audioContext = ctx
			return
		}
		audioContext = audio.NewContext(sampleRate)
	})
	return audioContext
}

// LoadImage loads an image by assets-relative path.
func LoadImage(path string) (*ebiten.Image, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// LoadFile reads an asset from Dir, falling back to the embedded copy.
func LoadFile(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	if clean == "" {
		return nil, fmt.Errorf("assets: empty path")
	}
	if b, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(clean))); err == nil {
		return b, nil
	}
	return assetsFS.ReadFile(clean)
}

// audioStream is what every ebiten decoder returns.
type audioStream interface {
	io.ReadSeeker
	Length() int64
}

// DecodeAudio picks a decoder from the file extension and resamples to rate.
func DecodeAudio(path string, data []byte, rate int) (audioStream, error) {
	reader := bytes.NewReader(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		s, err := mp3.DecodeWithSampleRate(rate, reader)
		if err != nil {
			return nil, fmt.Errorf("decode mp3 %q: %w", path, err)
		}
		return s, nil
	case ".ogg":
		s, err := vorbis.DecodeWithSampleRate(rate, reader)
		if err != nil {
			return nil, fmt.Errorf("decode ogg %q: %w", path, err)
		}
		return s, nil
	case ".wav":
		s, err := wav.DecodeWithSampleRate(rate, reader)
		if err != nil {
			return nil, fmt.Errorf("decode wav %q: %w", path, err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// AudioLoader turns track sources into ebiten audio players.
type AudioLoader struct {
	ctx *audio.Context
}

func NewAudioLoader(ctx *audio.Context) *AudioLoader {
	if ctx == nil {
		ctx = AudioContext()
	}
	return &AudioLoader{ctx: ctx}
}

func (l *AudioLoader) Load(source string) (component.Resource, error) {
	b, err := LoadFile(source)
	if err != nil {
		return nil, fmt.Errorf("load audio %q: %w", source, err)
	}
	stream, err := DecodeAudio(source, b, l.ctx.SampleRate())
	if err != nil {
		return nil, err
	}
	player, err := l.ctx.NewPlayer(stream)
	if err != nil {
		return nil, fmt.Errorf("new player %q: %w", source, err)
	}
	frames := stream.Length() / bytesPerFrame
	return &audioTrack{
		ctx:    l.ctx,
		player: player,
		length: time.Duration(frames) * time.Second / time.Duration(l.ctx.SampleRate()),
	}, nil
}

type audioTrack struct {
	ctx     *audio.Context
	player  *audio.Player
	length  time.Duration
	started bool
}

// Play starts output. It refuses while the device has not come up yet, the
// same way a browser refuses before a gesture.
func (t *audioTrack) Play() error {
	if !t.ctx.IsReady() {
		return ErrAudioNotReady
	}
	if t.started && t.length > 0 && t.player.Position() >= t.length-endSlack {
		if err := t.player.Rewind(); err != nil {
			return err
		}
	}
	t.player.Play()
	t.started = true
	return nil
}

func (t *audioTrack) Pause() { t.player.Pause() }
func (t *audioTrack) IsPlaying() bool { return t.player.IsPlaying() }
func (t *audioTrack) SetVolume(v float64) { t.player.SetVolume(v) }
func (t *audioTrack) Position() time.Duration { return t.player.Position() }
func (t *audioTrack) Duration() time.Duration { return t.length }
func (t *audioTrack) Close() error { return t.player.Close() }

func (t *audioTrack) Ended() bool {
	if !t.started || t.length <= 0 || t.player.IsPlaying() {
		return false
	}
	return t.player.Position() >= t.length-endSlack
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
		return s[idx+len("/assets/"):]
	}
	s = strings.TrimPrefix(s, "/")
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return s
}
