package library

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// libraryFile is the wire shape of library.json.
type libraryFile struct {
	Tracks []Track `json:"tracks"`
}

// loadLocked reads library.json and every playlists/<name>.json. A corrupt
// library file resets both tracks and playlists to empty; a corrupt
// playlist file is skipped on its own.
func (s *Store) loadLocked() {
	data, err := os.ReadFile(s.libraryFile)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read library file", "path", s.libraryFile, "error", err)
		}
		return
	}

	var lf libraryFile
	if err := json.Unmarshal(data, &lf); err != nil {
		slog.Warn("library file is corrupt, starting empty", "path", s.libraryFile, "error", err)
		s.tracks = map[string]Track{}
		s.playlists = map[string]*Playlist{}
		return
	}
	for _, t := range lf.Tracks {
		s.tracks[t.Path] = t
	}
	slog.Info("loaded library", "tracks", len(s.tracks))

	s.loadPlaylistsLocked()
}

func (s *Store) loadPlaylistsLocked() {
	entries, err := os.ReadDir(s.playlistsDir)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read playlists directory", "dir", s.playlistsDir, "error", err)
		}
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.playlistsDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("failed to read playlist file", "path", path, "error", err)
			continue
		}
		var pl Playlist
		if err := json.Unmarshal(data, &pl); err != nil {
			slog.Warn("skipping corrupt playlist file", "path", path, "error", err)
			continue
		}
		if pl.Name == "" {
			pl.Name = strings.TrimSuffix(entry.Name(), ".json")
		}
		if pl.Tracks == nil {
			pl.Tracks = []string{}
		}
		s.playlists[pl.Name] = &pl
	}
	slog.Info("loaded playlists", "count", len(s.playlists))
}

// saveLocked writes library.json and all playlist files. Failures are
// logged, never fatal: the in-memory state stays authoritative.
func (s *Store) saveLocked() {
	data, err := json.MarshalIndent(libraryFile{Tracks: lo.Values(s.tracks)}, "", "  ")
	if err != nil {
		slog.Error("failed to marshal library", "error", err)
		return
	}
	if err := os.WriteFile(s.libraryFile, data, 0o644); err != nil {
		slog.Error("failed to save library", "path", s.libraryFile, "error", err)
	}

	for name, pl := range s.playlists {
		data, err := json.MarshalIndent(pl, "", "  ")
		if err != nil {
			slog.Error("failed to marshal playlist", "playlist", name, "error", err)
			continue
		}
		path := s.playlistFile(name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			slog.Error("failed to save playlist", "path", path, "error", err)
		}
	}
}

func (s *Store) playlistFile(name string) string {
	return filepath.Join(s.playlistsDir, name+".json")
}
