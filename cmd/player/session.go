// Package player drives audio playback: a Session owns the play queue,
// transport state and position tracking, and delegates actual output to a
// Backend.
package player

import (
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/Im-Gonzo/t3rm1n4l/cmd/tags"
)

// ErrNoPlayableTrack is reported through the event channel when a full
// pass over the queue finds nothing that loads and plays.
var ErrNoPlayableTrack = errors.New("no playable track in queue")

// State is the transport state of a Session.
type State string

const (
	// StateIdle means no track is loaded.
	StateIdle State = "idle"
	// StateStopped means a track is loaded but not playing.
	StateStopped State = "stopped"
	StatePlaying State = "playing"
	StatePaused  State = "paused"
)

// EventType discriminates Session events.
type EventType string

const (
	// EventTrackStarted fires when a newly loaded track begins playing.
	EventTrackStarted EventType = "track-started"
	// EventTrackEnded fires when a track runs out and the session is
	// about to advance.
	EventTrackEnded EventType = "track-ended"
	// EventPlaybackError fires when auto-advance exhausts the queue.
	EventPlaybackError EventType = "playback-error"
)

// Event is a playback notification, delivered best-effort on a buffered
// channel: when nobody listens, events are dropped rather than blocking
// the session.
type Event struct {
	Type  EventType
	Path  string
	Index int
	Err   error
}

const defaultPollInterval = 200 * time.Millisecond

// Snapshot is a point-in-time copy of the session state for rendering.
type Snapshot struct {
	Current     string
	State       State
	Position    float64
	Duration    int
	Volume      float64
	QueueIndex  int
	QueueLength int
}

// Session is the playback state machine. All exported methods are safe
// for concurrent use.
type Session struct {
	mu      sync.Mutex
	backend Backend

	current  string
	state    State
	position float64 // seconds, estimated by the polling loop
	duration int     // seconds
	volume   float64

	queue []string
	index int

	loopAlive       bool
	poll            time.Duration
	startedNotified bool
	events          chan Event
}

// New returns an idle session at the default volume.
func New(backend Backend) *Session {
	s := &Session{
		backend: backend,
		state:   StateIdle,
		volume:  0.7,
		index:   -1,
		poll:    defaultPollInterval,
		events:  make(chan Event, 16),
	}
	if err := backend.SetVolume(s.volume); err != nil {
		slog.Warn("failed to set initial volume", "error", err)
	}
	return s
}

// Events returns the channel playback notifications are delivered on.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Load prepares a track for playback, replacing whatever was loaded
// before. Returns false when the file is missing or cannot be decoded; a
// missing file leaves the previous track untouched.
func (s *Session) Load(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(path)
}

// Play starts or resumes the loaded track. Returns false when nothing is
// loaded or the backend refuses.
func (s *Session) Play() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playLocked()
}

// Pause suspends playback. Only valid while playing.
func (s *Session) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pauseLocked()
}

// TogglePlayPause pauses when playing and plays otherwise. Returns the
// resulting playing state.
func (s *Session) TogglePlayPause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StatePlaying {
		s.pauseLocked()
		return false
	}
	return s.playLocked()
}

// Stop halts playback and resets the position. The current track stays
// loaded.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Seek moves the position, clamped to [0, duration]. When playing, output
// restarts at the new position.
func (s *Session) Seek(position float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if position < 0 {
		position = 0
	} else if position > float64(s.duration) {
		position = float64(s.duration)
	}

	wasPlaying := s.state == StatePlaying
	// Invalidate any device-side chain so a later Play starts at the new
	// position instead of resuming the old one.
	if err := s.backend.Stop(); err != nil {
		slog.Warn("failed to halt audio for seek", "error", err)
	}
	s.position = position

	if wasPlaying {
		if err := s.backend.Play(secondsToDuration(position)); err != nil {
			slog.Warn("failed to restart playback after seek", "path", s.current, "error", err)
			s.state = StateStopped
		}
	}
}

// SetVolume sets the volume, clamped to [0, 1].
func (s *Session) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	s.volume = v
	if err := s.backend.SetVolume(v); err != nil {
		slog.Warn("failed to set volume", "error", err)
	}
}

// Volume returns the current volume.
func (s *Session) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// SetQueue replaces the play queue and resets the queue cursor. The
// currently playing track is not interrupted. Returns false for an empty
// queue.
func (s *Session) SetQueue(paths []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(paths) == 0 {
		return false
	}
	s.queue = append([]string(nil), paths...)
	s.index = -1
	return true
}

// Next advances to the next queue entry, wrapping at the end. Unplayable
// entries are skipped; gives up after one full pass.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceLocked(1)
}

// Previous restarts the current track when more than three seconds in,
// otherwise steps back through the queue, wrapping at the start.
func (s *Session) Previous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return false
	}
	if s.position >= 3 && s.index >= 0 && s.index < len(s.queue) {
		if s.loadLocked(s.queue[s.index]) && s.playLocked() {
			return true
		}
	}
	return s.advanceLocked(-1)
}

// PlayAt jumps to a specific queue entry and plays it. No skipping: a
// track the user picked either plays or the call fails.
func (s *Session) PlayAt(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.queue) {
		return false
	}
	s.index = i
	return s.loadLocked(s.queue[i]) && s.playLocked()
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Current:     s.current,
		State:       s.state,
		Position:    s.position,
		Duration:    s.duration,
		Volume:      s.volume,
		QueueIndex:  s.index,
		QueueLength: len(s.queue),
	}
}

// Close stops playback and releases the backend.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	if closer, ok := s.backend.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			slog.Warn("failed to close audio backend", "error", err)
		}
	}
}

func (s *Session) loadLocked(path string) bool {
	if _, err := os.Stat(path); err != nil {
		slog.Warn("track not found", "path", path)
		return false
	}

	s.stopLocked()

	duration := tags.FallbackDuration
	if meta, err := tags.Probe(path); err == nil && meta.Duration > 0 {
		duration = meta.Duration
	}

	if err := s.backend.Load(path); err != nil {
		slog.Warn("failed to load track", "path", path, "error", err)
		s.current = ""
		s.state = StateIdle
		return false
	}

	s.current = path
	s.duration = duration
	s.position = 0
	s.state = StateStopped
	s.startedNotified = false
	slog.Info("loaded track", "path", path, "duration", duration)
	return true
}

func (s *Session) playLocked() bool {
	if s.current == "" {
		return false
	}
	if s.state == StatePlaying {
		return true
	}

	if err := s.backend.Play(secondsToDuration(s.position)); err != nil {
		slog.Warn("failed to start playback", "path", s.current, "error", err)
		return false
	}
	s.state = StatePlaying
	if !s.startedNotified {
		s.startedNotified = true
		s.emitLocked(Event{Type: EventTrackStarted, Path: s.current, Index: s.index})
	}
	s.ensureLoopLocked()
	return true
}

func (s *Session) pauseLocked() bool {
	if s.state != StatePlaying {
		return false
	}
	if err := s.backend.Pause(); err != nil {
		slog.Warn("failed to pause playback", "error", err)
		return false
	}
	s.state = StatePaused
	return true
}

func (s *Session) stopLocked() {
	if err := s.backend.Stop(); err != nil {
		slog.Warn("failed to stop playback", "error", err)
	}
	s.position = 0
	if s.current == "" {
		s.state = StateIdle
	} else {
		s.state = StateStopped
	}
}

// advanceLocked steps through the queue by step (+1 or -1) until a track
// loads and plays, wrapping at either end. One full pass without success
// reports a playback error event.
func (s *Session) advanceLocked(step int) bool {
	n := len(s.queue)
	if n == 0 {
		return false
	}

	for attempt := 0; attempt < n; attempt++ {
		s.index += step
		if s.index >= n {
			s.index = 0
		} else if s.index < 0 {
			s.index = n - 1
		}
		if s.loadLocked(s.queue[s.index]) && s.playLocked() {
			return true
		}
	}

	slog.Warn("no playable track in queue", "queue_length", n)
	s.emitLocked(Event{Type: EventPlaybackError, Err: ErrNoPlayableTrack})
	return false
}

// tickLocked advances the position estimate and handles end of track:
// reset, notify, move on to the next queue entry.
func (s *Session) tickLocked(elapsed float64) {
	s.position += elapsed
	if s.position < float64(s.duration) && s.backend.IsBusy() {
		return
	}

	ended := s.current
	endedIndex := s.index
	s.position = 0
	s.state = StateStopped
	s.emitLocked(Event{Type: EventTrackEnded, Path: ended, Index: endedIndex})

	if !s.advanceLocked(1) {
		// Nothing more to play; make sure the device is quiet too.
		if err := s.backend.Stop(); err != nil {
			slog.Warn("failed to stop playback", "error", err)
		}
	}
}

// ensureLoopLocked starts the polling goroutine if it is not running. The
// loop exits on its own as soon as the session leaves the playing state.
func (s *Session) ensureLoopLocked() {
	if s.loopAlive {
		return
	}
	s.loopAlive = true
	go s.positionLoop()
}

func (s *Session) positionLoop() {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	last := time.Now()
	for now := range ticker.C {
		s.mu.Lock()
		if s.state != StatePlaying {
			s.loopAlive = false
			s.mu.Unlock()
			return
		}
		s.tickLocked(now.Sub(last).Seconds())
		s.mu.Unlock()
		last = now
	}
}

func (s *Session) emitLocked(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
