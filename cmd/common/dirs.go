package common

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables overriding the default data layout.
const (
	EnvDataDir  = "T3R_DATA_DIR"
	EnvMusicDir = "T3R_MUSIC_DIR"
	EnvVolume   = "T3R_VOLUME"
)

const defaultVolume = 0.7

// DataDir returns the root directory for persisted state (library file,
// playlists, log). Defaults to ./data next to the working directory.
func DataDir() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	return "data"
}

// MusicDir returns the directory scanned for audio files when no explicit
// path is given.
func MusicDir() string {
	if dir := os.Getenv(EnvMusicDir); dir != "" {
		return dir
	}
	return filepath.Join(DataDir(), "music")
}

// LogFile returns the path of the player log file. The interactive player
// writes slog output here so log lines never corrupt the alternate screen.
func LogFile() string {
	return filepath.Join(DataDir(), "t3r.log")
}

// InitialVolume returns the startup volume, honoring T3R_VOLUME when it
// parses to a value in [0, 1].
func InitialVolume() float64 {
	raw := os.Getenv(EnvVolume)
	if raw == "" {
		return defaultVolume
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 1 {
		slog.Warn("ignoring invalid volume", "env", EnvVolume, "value", raw)
		return defaultVolume
	}
	return v
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Values already set in the environment win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to load .env file", "error", err)
		}
	}
}
