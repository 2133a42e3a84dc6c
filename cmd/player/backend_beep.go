//go:build (linux && cgo) || windows || darwin

package player

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// AudioAvailable reports whether this build can produce sound.
const AudioAvailable = true

const (
	outputSampleRate = beep.SampleRate(44100)
	resampleQuality  = 4
)

// deviceBackend plays audio through the system speaker. Tracks are decoded
// with beep's pure Go decoders and resampled to a fixed output rate so the
// speaker only has to be initialized once.
type deviceBackend struct {
	mu          sync.Mutex
	initialized bool
	path        string
	file        *os.File
	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	volNode     *effects.Volume
	vol         float64
	done        chan struct{}
}

// NewDeviceBackend returns a Backend backed by the system audio device.
func NewDeviceBackend() Backend {
	return &deviceBackend{vol: 1}
}

func (b *deviceBackend) Load(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopChainLocked()
	b.unloadLocked()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if !b.initialized {
		if err := speaker.Init(outputSampleRate, outputSampleRate.N(time.Second/10)); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("failed to initialize speaker: %w", err)
		}
		b.initialized = true
	}

	b.path = path
	b.file = f
	b.streamer = streamer
	b.format = format
	return nil
}

func (b *deviceBackend) Play(offset time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.streamer == nil {
		return ErrNoTrackLoaded
	}

	// Resuming a paused chain: just unpause, the audio position is exact.
	if b.ctrl != nil && !b.finishedLocked() {
		speaker.Lock()
		b.ctrl.Paused = false
		speaker.Unlock()
		return nil
	}

	return b.startChainLocked(offset)
}

func (b *deviceBackend) Pause() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctrl == nil {
		return nil
	}
	speaker.Lock()
	b.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

func (b *deviceBackend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopChainLocked()
	return nil
}

func (b *deviceBackend) SetVolume(v float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.vol = v
	if b.volNode != nil {
		speaker.Lock()
		b.volNode.Volume = volumeGain(v)
		b.volNode.Silent = v <= 0
		speaker.Unlock()
	}
	return nil
}

func (b *deviceBackend) IsBusy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctrl == nil || b.finishedLocked() {
		return false
	}
	speaker.Lock()
	paused := b.ctrl.Paused
	speaker.Unlock()
	return !paused
}

func (b *deviceBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopChainLocked()
	b.unloadLocked()
	return nil
}

// startChainLocked seeks the streamer to offset and hands a fresh
// resample/ctrl/volume chain to the speaker.
func (b *deviceBackend) startChainLocked(offset time.Duration) error {
	speaker.Clear()

	if err := b.streamer.Seek(b.format.SampleRate.N(offset)); err != nil {
		return fmt.Errorf("failed to seek in %s: %w", b.path, err)
	}

	resampled := beep.Resample(resampleQuality, b.format.SampleRate, outputSampleRate, b.streamer)
	b.ctrl = &beep.Ctrl{Streamer: resampled}
	b.volNode = &effects.Volume{
		Streamer: b.ctrl,
		Base:     2,
		Volume:   volumeGain(b.vol),
		Silent:   b.vol <= 0,
	}

	// The callback closes over its own channel so a late callback from a
	// superseded chain cannot mark the current one as finished.
	done := make(chan struct{})
	b.done = done
	speaker.Play(beep.Seq(b.volNode, beep.Callback(func() {
		close(done)
	})))
	return nil
}

func (b *deviceBackend) stopChainLocked() {
	if b.ctrl == nil {
		return
	}
	speaker.Clear()
	b.ctrl = nil
	b.volNode = nil
	b.done = nil
}

func (b *deviceBackend) unloadLocked() {
	if b.streamer != nil {
		_ = b.streamer.Close()
		b.streamer = nil
	}
	if b.file != nil {
		_ = b.file.Close()
		b.file = nil
	}
	b.path = ""
}

func (b *deviceBackend) finishedLocked() bool {
	if b.done == nil {
		return true
	}
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// volumeGain converts a linear volume in [0, 1] to the base-2 gain
// expected by effects.Volume. Zero maps to silence via the Silent flag.
func volumeGain(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Log2(v)
}
