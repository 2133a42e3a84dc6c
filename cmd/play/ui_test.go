package play

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Im-Gonzo/t3rm1n4l/cmd/library"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/player"
)

// newTestModel builds a model over a seeded temp library and a simulated
// audio backend.
func newTestModel(t *testing.T) (model, []string) {
	t.Helper()
	dataDir := t.TempDir()
	musicDir := filepath.Join(dataDir, "music")
	store, err := library.Open(dataDir, musicDir)
	if err != nil {
		t.Fatal(err)
	}

	var paths []string
	for _, name := range []string{
		"Burial - Archangel.mp3",
		"Burial - Ghost Hardware.mp3",
		"Arca - Time.mp3",
	} {
		path := filepath.Join(musicDir, name)
		if err := os.WriteFile(path, []byte("dummy audio"), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	store.Add(paths)

	session := player.New(player.NewSimulatedBackend())
	t.Cleanup(session.Close)

	m := newModel(store, session, musicDir, false)
	m.width = 120
	m.height = 40
	return m, paths
}

func TestNewModelBuildsArtistList(t *testing.T) {
	m, _ := newTestModel(t)

	want := []string{allArtists, "Arca", "Burial"}
	if len(m.artists) != len(want) {
		t.Fatalf("artists = %v, want %v", m.artists, want)
	}
	for i := range want {
		if m.artists[i] != want[i] {
			t.Errorf("artists[%d] = %q, want %q", i, m.artists[i], want[i])
		}
	}

	titles := make([]string, len(m.songs))
	for i, track := range m.songs {
		titles[i] = track.Title
	}
	if got := strings.Join(titles, ","); got != "Archangel,Ghost Hardware,Time" {
		t.Errorf("songs = %q, want title order", got)
	}
}

func TestApplyFilterSearch(t *testing.T) {
	m, _ := newTestModel(t)

	m.searchInput = "ghost"
	m = m.applyFilter()

	if len(m.songs) != 1 || m.songs[0].Title != "Ghost Hardware" {
		t.Errorf("songs = %+v, want just Ghost Hardware", m.songs)
	}
}

func TestMoveCursorFiltersByArtist(t *testing.T) {
	m, _ := newTestModel(t)
	m.active = panelArtists

	m = m.moveCursor(1) // "Arca"
	if m.artistIdx != 1 {
		t.Fatalf("artistIdx = %d, want 1", m.artistIdx)
	}
	if len(m.songs) != 1 || m.songs[0].Artist != "Arca" {
		t.Errorf("songs = %+v, want only Arca tracks", m.songs)
	}
	if m.status != "Selected artist: Arca" {
		t.Errorf("status = %q", m.status)
	}

	m = m.moveCursor(-5) // clamps back to "All Artists"
	if m.artistIdx != 0 {
		t.Errorf("artistIdx = %d, want 0", m.artistIdx)
	}
	if len(m.songs) != 3 {
		t.Errorf("songs = %d entries, want the full library", len(m.songs))
	}
}

func TestEnsureSongVisibleScrolls(t *testing.T) {
	m, _ := newTestModel(t)
	m.height = 20 // list height 12

	m.songIdx = 15
	m = m.ensureSongVisible()
	if m.songOff != 4 {
		t.Errorf("songOff = %d, want 4 to keep the cursor on screen", m.songOff)
	}

	m.songIdx = 2
	m = m.ensureSongVisible()
	if m.songOff != 2 {
		t.Errorf("songOff = %d, want 2 after scrolling back up", m.songOff)
	}
}

func TestPlaySelectedStartsPlayback(t *testing.T) {
	m, _ := newTestModel(t)

	m.songIdx = 0
	m = m.playSelected()

	if m.status != "Playing: Archangel" {
		t.Errorf("status = %q", m.status)
	}
	if m.snap.State != player.StatePlaying {
		t.Errorf("state = %q, want playing", m.snap.State)
	}
	if m.snap.QueueLength != 3 {
		t.Errorf("queue length = %d, want the visible songs", m.snap.QueueLength)
	}
}

func TestDrainSessionEventsSetsStatus(t *testing.T) {
	m, _ := newTestModel(t)

	m.songIdx = 2
	m = m.playSelected()
	m.status = ""
	m = m.drainSessionEvents()

	if m.status != "Playing: Time" {
		t.Errorf("status = %q, want title from the started event", m.status)
	}
}

func TestTogglePlaybackWithEmptyLibrary(t *testing.T) {
	dataDir := t.TempDir()
	store, err := library.Open(dataDir, filepath.Join(dataDir, "music"))
	if err != nil {
		t.Fatal(err)
	}
	session := player.New(player.NewSimulatedBackend())
	t.Cleanup(session.Close)

	m := newModel(store, session, store.MusicDir(), false)
	m = m.togglePlayback()

	if m.status != "No tracks to play" {
		t.Errorf("status = %q", m.status)
	}
}

func TestRenderProgressBar(t *testing.T) {
	bar := renderProgressBar(10, 90, 180)
	if got := strings.Count(bar, "█"); got != 5 {
		t.Errorf("filled cells = %d, want 5", got)
	}
	if got := strings.Count(bar, "░"); got != 5 {
		t.Errorf("empty cells = %d, want 5", got)
	}

	if bar := renderProgressBar(10, 50, 0); strings.Count(bar, "█") != 0 {
		t.Error("zero duration should render an empty bar")
	}
	if bar := renderProgressBar(10, 500, 180); strings.Count(bar, "█") != 10 {
		t.Error("overshoot should clamp to a full bar")
	}
}

func TestVolumePercent(t *testing.T) {
	tests := []struct {
		v    float64
		want int
	}{
		{0, 0},
		{0.25, 25},
		{0.7, 70},
		{0.7999999, 80},
		{1, 100},
	}
	for _, tt := range tests {
		if got := volumePercent(tt.v); got != tt.want {
			t.Errorf("volumePercent(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestTitleForFallsBackToFilename(t *testing.T) {
	m, paths := newTestModel(t)

	if got := m.titleFor(paths[0]); got != "Archangel" {
		t.Errorf("titleFor(library track) = %q, want tag title", got)
	}
	if got := m.titleFor("/not/in/library/song.mp3"); got != "song.mp3" {
		t.Errorf("titleFor(unknown) = %q, want base name", got)
	}
}
