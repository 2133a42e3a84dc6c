package player

import (
	"path/filepath"

	"github.com/Im-Gonzo/t3rm1n4l/cmd/tags"
)

// NowPlaying describes the loaded track in detail: tag metadata plus the
// stream properties of the underlying file.
type NowPlaying struct {
	Path       string
	Filename   string
	Title      string
	Artist     string
	Album      string
	Genre      string
	Year       int
	Duration   int // the duration the session tracks position against
	Bitrate    int // kbps
	SampleRate int // Hz
	Channels   int
	HasArt     bool
}

// NowPlaying probes the loaded track for display metadata. The second
// return is false when nothing is loaded. Probing reads the file, so
// callers rendering at a fixed rate should cache the result per path.
func (s *Session) NowPlaying() (NowPlaying, bool) {
	s.mu.Lock()
	path, duration := s.current, s.duration
	s.mu.Unlock()

	if path == "" {
		return NowPlaying{}, false
	}

	info := NowPlaying{
		Path:     path,
		Filename: filepath.Base(path),
		Duration: duration,
	}
	meta, err := tags.Probe(path)
	if err != nil {
		return info, true
	}
	info.Title = meta.Title
	info.Artist = meta.Artist
	info.Album = meta.Album
	info.Genre = meta.Genre
	info.Year = meta.Year
	info.Bitrate = meta.Bitrate
	info.SampleRate = meta.SampleRate
	info.Channels = meta.Channels
	info.HasArt = meta.HasArt
	return info, true
}

// ExtractArt writes the loaded track's embedded cover art to a temp file
// and returns its path. Returns "" when nothing is loaded or the track
// has no art.
func (s *Session) ExtractArt() (string, error) {
	s.mu.Lock()
	path := s.current
	s.mu.Unlock()

	if path == "" {
		return "", nil
	}
	return tags.ExtractArt(path)
}
