//go:build linux && !cgo

package player

// AudioAvailable reports whether this build can produce sound.
const AudioAvailable = false

// NewDeviceBackend falls back to the simulated backend when no audio
// device support is compiled in.
func NewDeviceBackend() Backend {
	return NewSimulatedBackend()
}
