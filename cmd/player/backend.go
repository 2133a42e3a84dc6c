package player

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrNoTrackLoaded     = errors.New("no track loaded")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// Backend abstracts the audio device. Implementations must be safe for
// concurrent use; the Session calls IsBusy from its polling goroutine.
type Backend interface {
	// Load prepares the file at path for playback without starting it.
	Load(path string) error
	// Play starts or resumes output. A fresh start begins at offset; a
	// resume from pause continues where the audio actually stopped.
	Play(offset time.Duration) error
	// Pause suspends output, keeping the loaded track and its position.
	Pause() error
	// Stop halts output. The loaded track stays loaded so Play can start
	// it again from the top.
	Stop() error
	// SetVolume sets the linear output volume in [0, 1].
	SetVolume(v float64) error
	// IsBusy reports whether the device is actively producing output.
	IsBusy() bool
}

// simulatedBackend tracks transport state without touching any audio
// device. It backs the --simulate flag, builds without audio support, and
// tests.
type simulatedBackend struct {
	mu     sync.Mutex
	loaded string
	busy   bool
	volume float64
}

// NewSimulatedBackend returns a Backend that pretends to play audio.
func NewSimulatedBackend() Backend {
	return &simulatedBackend{volume: 1}
}

func (b *simulatedBackend) Load(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loaded = path
	b.busy = false
	return nil
}

func (b *simulatedBackend) Play(offset time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loaded == "" {
		return ErrNoTrackLoaded
	}
	b.busy = true
	return nil
}

func (b *simulatedBackend) Pause() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.busy = false
	return nil
}

func (b *simulatedBackend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.busy = false
	return nil
}

func (b *simulatedBackend) SetVolume(v float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.volume = v
	return nil
}

func (b *simulatedBackend) IsBusy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busy
}
