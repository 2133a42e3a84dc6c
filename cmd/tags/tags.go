// Package tags inspects audio files for metadata: id3/vorbis/mp4 tags via
// dhowden/tag, and stream properties (duration, sample rate, channels) by
// decoding the container headers.
package tags

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Placeholder values used when a file carries no usable tags.
const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// FallbackDuration is assumed for tracks whose duration cannot be decoded.
const FallbackDuration = 180

// Meta holds everything Probe could learn about an audio file. Fields that
// could not be determined keep their zero value, except Title/Artist/Album
// which fall back to filename-derived placeholders.
type Meta struct {
	Title      string
	Artist     string
	Album      string
	Genre      string
	Year       int
	Duration   int // seconds
	Bitrate    int // kbps, approximated from file size when not tagged
	SampleRate int // Hz
	Channels   int
	HasArt     bool
}

// Probe reads tags and stream properties from the file at path. Failures
// degrade field by field; the only hard error is a file that cannot be
// opened.
func Probe(path string) (Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var meta Meta
	if m, err := tag.ReadFrom(f); err == nil {
		meta.Title = strings.TrimSpace(m.Title())
		meta.Artist = strings.TrimSpace(m.Artist())
		meta.Album = strings.TrimSpace(m.Album())
		meta.Genre = strings.TrimSpace(m.Genre())
		meta.Year = m.Year()
		meta.HasArt = m.Picture() != nil
	} else {
		slog.Debug("no readable tags", "path", path, "error", err)
	}

	if dur, rate, channels, err := streamInfo(path); err == nil {
		meta.Duration = dur
		meta.SampleRate = rate
		meta.Channels = channels
	} else {
		slog.Debug("failed to decode audio stream", "path", path, "error", err)
	}

	if meta.Duration > 0 {
		if st, err := os.Stat(path); err == nil {
			meta.Bitrate = int(st.Size() * 8 / int64(meta.Duration) / 1000)
		}
	}

	if meta.Title == "" {
		meta.Artist, meta.Title = FromFilename(filepath.Base(path))
	}
	if meta.Artist == "" {
		meta.Artist = UnknownArtist
	}
	if meta.Album == "" {
		meta.Album = UnknownAlbum
	}
	return meta, nil
}

// FromFilename derives artist and title from a bare filename. "A - B" style
// names split into artist A and title B, except that a purely numeric A is
// treated as a track number and discarded. Anything else becomes the title.
func FromFilename(filename string) (artist, title string) {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	before, after, found := strings.Cut(name, " - ")
	if !found {
		return UnknownArtist, strings.TrimSpace(name)
	}
	before = strings.TrimSpace(before)
	after = strings.TrimSpace(after)
	if isDigits(before) {
		return UnknownArtist, after
	}
	return before, after
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ExtractArt writes the embedded cover art of the file at path to a temp
// file and returns its name. Returns "" without error when the file has no
// embedded art.
func ExtractArt(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return "", fmt.Errorf("failed to read tags from %s: %w", path, err)
	}
	pic := m.Picture()
	if pic == nil {
		return "", nil
	}

	ext := ".png"
	if pic.MIMEType == "image/jpeg" {
		ext = ".jpg"
	}
	tmp, err := os.CreateTemp("", "t3r-art-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(pic.Data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write cover art: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close cover art file: %w", err)
	}
	return tmp.Name(), nil
}

// streamInfo decodes just enough of the file to report duration, sample
// rate and channel count.
func streamInfo(path string) (duration, sampleRate, channels int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, 0, err
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
		err = fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
	}
	if err != nil {
		_ = f.Close()
		return 0, 0, 0, err
	}
	defer func() {
		_ = streamer.Close()
		_ = f.Close()
	}()

	d := format.SampleRate.D(streamer.Len())
	return int(d.Seconds()), int(format.SampleRate), format.NumChannels, nil
}
