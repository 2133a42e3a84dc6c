package library

import (
	"path/filepath"
	"strings"

	"github.com/Im-Gonzo/t3rm1n4l/cmd/common"
)

// Audio file extensions picked up by Scan and the directory watcher.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".flac": true,
}

// IsAudioFile reports whether path has a supported audio extension.
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// Track is a single audio file in the library, keyed by its path.
type Track struct {
	Path     string `json:"path"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration int    `json:"duration"`
}

// FormattedDuration returns the track length as m:ss.
func (t Track) FormattedDuration() string {
	return common.FormatDuration(t.Duration)
}

// Playlist is a named, ordered list of track paths. The order is the order
// tracks were added in.
type Playlist struct {
	Name   string   `json:"name"`
	Tracks []string `json:"tracks"`
}
