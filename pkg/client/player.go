package client

import (
	"errors"
	"sync"
	"time"
)

// Transport is the audio backend a Player drives. Implementations wrap
// whatever actually produces sound (a speaker library, a headless stub
// in tests).
type Transport interface {
	Load(uri string) error
	Play() error
	Pause() error
	Seek(pos time.Duration) error
	Duration() time.Duration
}

// ErrEmptyPlaylist is returned by cursor movements when nothing is
// loaded.
var ErrEmptyPlaylist = errors.New("playlist is empty")

// Player drives a single Transport over a playlist. The cursor and
// playing state are guarded by one mutex so transport callbacks and
// user actions always observe a consistent index.
type Player struct {
	mu        sync.Mutex
	transport Transport
	playlist  []Track
	index     int
	playing   bool
	loadedURI string
}

// NewPlayer creates a stopped player over transport.
func NewPlayer(transport Transport) *Player {
	return &Player{transport: transport, index: -1}
}

// Play starts the given track. A non-nil playlist replaces the current
// one. Playing the already-current track toggles pause instead of
// restarting it.
func (p *Player) Play(track Track, playlist []Track) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if playlist != nil {
		p.playlist = playlist
	}
	if len(p.playlist) == 0 {
		p.playlist = []Track{track}
	}

	idx := p.indexOf(track.ID)
	if idx == -1 {
		p.playlist = append(p.playlist, track)
		idx = len(p.playlist) - 1
	}

	if p.loadedURI == track.URI && p.index == idx {
		return p.toggleLocked()
	}

	p.index = idx
	return p.startLocked(track)
}

// TogglePlay pauses or resumes the current track.
func (p *Player) TogglePlay() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.index < 0 {
		return ErrEmptyPlaylist
	}
	return p.toggleLocked()
}

// Next advances to the following track, wrapping at the end.
func (p *Player) Next() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stepLocked(1)
}

// Previous moves to the preceding track, wrapping at the start.
func (p *Player) Previous() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stepLocked(-1)
}

// SeekPercent seeks to a position expressed as 0-100 percent of the
// track duration. Out-of-range values are clamped.
func (p *Player) SeekPercent(percent float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.index < 0 {
		return ErrEmptyPlaylist
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	duration := p.transport.Duration()
	return p.transport.Seek(time.Duration(float64(duration) * percent / 100))
}

// HandleEnded is the transport's end-of-track callback. It advances to
// the next track.
func (p *Player) HandleEnded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.playlist) == 0 {
		return
	}
	_ = p.stepLocked(1)
}

// Current returns the track under the cursor.
func (p *Player) Current() (Track, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.index < 0 || p.index >= len(p.playlist) {
		return Track{}, false
	}
	return p.playlist[p.index], true
}

// IsPlaying reports whether audio is currently playing.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Player) indexOf(id uint) int {
	for i, t := range p.playlist {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (p *Player) startLocked(track Track) error {
	if err := p.transport.Load(track.URI); err != nil {
		p.playing = false
		return err
	}
	p.loadedURI = track.URI
	if err := p.transport.Play(); err != nil {
		p.playing = false
		return err
	}
	p.playing = true
	return nil
}

func (p *Player) toggleLocked() error {
	if p.playing {
		if err := p.transport.Pause(); err != nil {
			return err
		}
		p.playing = false
		return nil
	}
	if err := p.transport.Play(); err != nil {
		return err
	}
	p.playing = true
	return nil
}

func (p *Player) stepLocked(delta int) error {
	n := len(p.playlist)
	if n == 0 {
		return ErrEmptyPlaylist
	}
	p.index = ((p.index+delta)%n + n) % n
	return p.startLocked(p.playlist[p.index])
}
