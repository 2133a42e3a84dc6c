// Package library maintains the music library: known tracks, named
// playlists, and their JSON persistence under the data directory.
package library

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Im-Gonzo/t3rm1n4l/cmd/tags"
	"github.com/samber/lo"
)

// Store is the in-memory library plus its on-disk representation. All
// methods are safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	libraryFile  string
	playlistsDir string
	musicDir     string
	tracks       map[string]Track
	playlists    map[string]*Playlist
}

// Open loads the library from dataDir, creating the directory layout when
// missing. A missing library file yields an empty library; a corrupt one is
// logged and replaced with an empty library on the next mutation.
func Open(dataDir, musicDir string) (*Store, error) {
	s := &Store{
		libraryFile:  filepath.Join(dataDir, "library.json"),
		playlistsDir: filepath.Join(dataDir, "playlists"),
		musicDir:     musicDir,
		tracks:       map[string]Track{},
		playlists:    map[string]*Playlist{},
	}
	if err := os.MkdirAll(s.playlistsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create playlists directory: %w", err)
	}
	if musicDir != "" {
		if err := os.MkdirAll(musicDir, 0o755); err != nil {
			slog.Warn("failed to create music directory", "dir", musicDir, "error", err)
		}
	}
	s.loadLocked()
	return s, nil
}

// MusicDir returns the directory Scan uses when called with an empty root.
func (s *Store) MusicDir() string {
	return s.musicDir
}

// Scan walks root for audio files and runs every hit through the add
// pipeline. A missing root is logged and yields no results. Returns the
// discovered paths.
func (s *Store) Scan(root string) []string {
	if root == "" {
		root = s.musicDir
	}
	if _, err := os.Stat(root); err != nil {
		slog.Warn("music directory not found", "dir", root)
		return nil
	}

	var found []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Warn("failed to read directory entry", "path", path, "error", err)
			return nil
		}
		if info.IsDir() || !IsAudioFile(path) {
			return nil
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		found = append(found, path)
		return nil
	})
	if err != nil {
		slog.Warn("music directory walk failed", "dir", root, "error", err)
	}

	slog.Info("scanned music directory", "dir", root, "found", len(found))
	s.Add(found)
	return found
}

// Add probes each path and inserts (or overwrites) the resulting track.
// Missing files are skipped with a warning. Returns the number of tracks
// added or updated; persists once at the end.
func (s *Store) Add(paths []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, path := range paths {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if _, err := os.Stat(path); err != nil {
			slog.Warn("file not found, skipping", "path", path)
			continue
		}
		s.tracks[path] = probeTrack(path)
		added++
	}
	if added > 0 {
		s.saveLocked()
	}
	return added
}

// Remove deletes a track from the library and purges it from every
// playlist. Returns false when the path is not in the library.
func (s *Store) Remove(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tracks[path]; !ok {
		return false
	}
	delete(s.tracks, path)
	for _, pl := range s.playlists {
		pl.Tracks = lo.Without(pl.Tracks, path)
	}
	s.saveLocked()
	return true
}

// Tracks returns all tracks in no particular order.
func (s *Store) Tracks() []Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Values(s.tracks)
}

// Track looks up a single track by path.
func (s *Store) Track(path string) (Track, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tracks[path]
	return t, ok
}

// Count returns the number of tracks in the library.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tracks)
}

// Search returns tracks whose title, artist or album contains the query,
// case-insensitively.
func (s *Store) Search(query string) []Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	return lo.Filter(lo.Values(s.tracks), func(t Track, _ int) bool {
		return strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Artist), q) ||
			strings.Contains(strings.ToLower(t.Album), q)
	})
}

// Artists returns all distinct artist names, sorted.
func (s *Store) Artists() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artists := lo.Uniq(lo.Map(lo.Values(s.tracks), func(t Track, _ int) string {
		return t.Artist
	}))
	sort.Strings(artists)
	return artists
}

// Albums returns all distinct album names, sorted. The placeholder album
// for untagged files is excluded.
func (s *Store) Albums() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	albums := lo.Uniq(lo.FilterMap(lo.Values(s.tracks), func(t Track, _ int) (string, bool) {
		return t.Album, t.Album != tags.UnknownAlbum
	}))
	sort.Strings(albums)
	return albums
}

// TracksByArtist returns every track by the given artist.
func (s *Store) TracksByArtist(artist string) []Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Filter(lo.Values(s.tracks), func(t Track, _ int) bool {
		return t.Artist == artist
	})
}

// TracksByAlbum returns every track on the given album.
func (s *Store) TracksByAlbum(album string) []Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Filter(lo.Values(s.tracks), func(t Track, _ int) bool {
		return t.Album == album
	})
}

// CreatePlaylist adds a new empty playlist. Returns false when a playlist
// with that name already exists.
func (s *Store) CreatePlaylist(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[name]; ok {
		return false
	}
	s.playlists[name] = &Playlist{Name: name, Tracks: []string{}}
	s.saveLocked()
	return true
}

// DeletePlaylist removes a playlist and its file on disk. Returns false
// when the playlist does not exist.
func (s *Store) DeletePlaylist(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[name]; !ok {
		return false
	}
	delete(s.playlists, name)
	path := s.playlistFile(name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove playlist file", "path", path, "error", err)
	}
	s.saveLocked()
	return true
}

// AddToPlaylist appends library tracks to a playlist. Paths not in the
// library and paths already present are skipped. Returns false only when
// the playlist does not exist.
func (s *Store) AddToPlaylist(name string, paths []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pl, ok := s.playlists[name]
	if !ok {
		return false
	}
	for _, path := range paths {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if _, ok := s.tracks[path]; !ok {
			slog.Warn("track not in library, skipping", "path", path)
			continue
		}
		if lo.Contains(pl.Tracks, path) {
			continue
		}
		pl.Tracks = append(pl.Tracks, path)
	}
	s.saveLocked()
	return true
}

// RemoveFromPlaylist removes a track from a playlist. Returns false when
// the playlist does not exist or does not contain the track.
func (s *Store) RemoveFromPlaylist(name string, path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pl, ok := s.playlists[name]
	if !ok {
		return false
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if !lo.Contains(pl.Tracks, path) {
		return false
	}
	pl.Tracks = lo.Without(pl.Tracks, path)
	s.saveLocked()
	return true
}

// PlaylistNames returns all playlist names, sorted.
func (s *Store) PlaylistNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := lo.Keys(s.playlists)
	sort.Strings(names)
	return names
}

// PlaylistTracks resolves a playlist to its tracks, in playlist order.
// Unknown playlists yield nil; paths that have left the library are
// skipped.
func (s *Store) PlaylistTracks(name string) []Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pl, ok := s.playlists[name]
	if !ok {
		return nil
	}
	return lo.FilterMap(pl.Tracks, func(path string, _ int) (Track, bool) {
		t, ok := s.tracks[path]
		return t, ok
	})
}

// probeTrack builds the library entry for one file, falling back to
// filename-derived metadata when probing fails.
func probeTrack(path string) Track {
	meta, err := tags.Probe(path)
	if err != nil {
		slog.Warn("failed to probe file", "path", path, "error", err)
		artist, title := tags.FromFilename(filepath.Base(path))
		return Track{
			Path:     path,
			Title:    title,
			Artist:   artist,
			Album:    tags.UnknownAlbum,
			Duration: tags.FallbackDuration,
		}
	}
	duration := meta.Duration
	if duration <= 0 {
		duration = tags.FallbackDuration
	}
	return Track{
		Path:     path,
		Title:    meta.Title,
		Artist:   meta.Artist,
		Album:    meta.Album,
		Duration: duration,
	}
}
