package playlist

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Im-Gonzo/t3rm1n4l/cmd/common"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/library"
)

// seedLibrary points the data dir env at a temp dir and puts two tracks
// into the library there.
func seedLibrary(t *testing.T) []string {
	t.Helper()
	dataDir := t.TempDir()
	musicDir := filepath.Join(dataDir, "music")
	t.Setenv(common.EnvDataDir, dataDir)
	t.Setenv(common.EnvMusicDir, musicDir)

	if err := os.MkdirAll(musicDir, 0o755); err != nil {
		t.Fatal(err)
	}
	paths := []string{
		filepath.Join(musicDir, "Burial - Archangel.mp3"),
		filepath.Join(musicDir, "Arca - Time.mp3"),
	}
	for _, p := range paths {
		if err := os.WriteFile(p, []byte("dummy audio"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	store, err := library.Open(dataDir, musicDir)
	if err != nil {
		t.Fatal(err)
	}
	if added := store.Add(paths); added != 2 {
		t.Fatalf("seeded %d tracks, want 2", added)
	}
	return paths
}

func TestPlaylistLifecycle(t *testing.T) {
	paths := seedLibrary(t)
	var stdout, stderr bytes.Buffer

	if code := RunCreate(&CreateParams{Name: "mix"}, &stdout, &stderr); code != 0 {
		t.Fatalf("create: exit %d, stderr %q", code, stderr.String())
	}

	stderr.Reset()
	if code := RunCreate(&CreateParams{Name: "mix"}, &stdout, &stderr); code != 1 {
		t.Error("duplicate create should exit 1")
	}
	if !strings.Contains(stderr.String(), "already exists") {
		t.Errorf("stderr = %q, want mention of already exists", stderr.String())
	}

	stdout.Reset()
	if code := RunAdd(&AddParams{Name: "mix", Paths: paths}, &stdout, &stderr); code != 0 {
		t.Fatalf("add: exit %d, stderr %q", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "now has 2 tracks") {
		t.Errorf("stdout = %q, want track count", stdout.String())
	}

	stdout.Reset()
	if code := RunShow(&ShowParams{Name: "mix"}, &stdout, &stderr); code != 0 {
		t.Fatalf("show: exit %d", code)
	}
	if !strings.Contains(stdout.String(), "Archangel") || !strings.Contains(stdout.String(), "Arca") {
		t.Errorf("show output missing tracks:\n%s", stdout.String())
	}

	stdout.Reset()
	if code := RunList(&stdout, &stderr); code != 0 {
		t.Fatalf("list: exit %d", code)
	}
	if !strings.Contains(stdout.String(), "mix") {
		t.Errorf("list output missing playlist:\n%s", stdout.String())
	}

	if code := RunRemove(&RemoveParams{Name: "mix", Track: paths[0]}, &stdout, &stderr); code != 0 {
		t.Fatalf("remove: exit %d, stderr %q", code, stderr.String())
	}
	stdout.Reset()
	RunShow(&ShowParams{Name: "mix"}, &stdout, &stderr)
	if strings.Contains(stdout.String(), "Archangel") {
		t.Error("removed track still listed")
	}

	if code := RunDelete(&DeleteParams{Name: "mix"}, &stdout, &stderr); code != 0 {
		t.Fatalf("delete: exit %d", code)
	}
	stderr.Reset()
	if code := RunShow(&ShowParams{Name: "mix"}, &stdout, &stderr); code != 1 {
		t.Error("show after delete should exit 1")
	}
	if !strings.Contains(stderr.String(), "not found") {
		t.Errorf("stderr = %q, want not found", stderr.String())
	}
}

func TestAddToUnknownPlaylist(t *testing.T) {
	paths := seedLibrary(t)
	var stdout, stderr bytes.Buffer

	if code := RunAdd(&AddParams{Name: "nope", Paths: paths}, &stdout, &stderr); code != 1 {
		t.Error("add to unknown playlist should exit 1")
	}
	if !strings.Contains(stderr.String(), "not found") {
		t.Errorf("stderr = %q, want not found", stderr.String())
	}
}

func TestListEmpty(t *testing.T) {
	seedLibrary(t)
	var stdout, stderr bytes.Buffer

	if code := RunList(&stdout, &stderr); code != 0 {
		t.Fatalf("list: exit %d", code)
	}
	if !strings.Contains(stdout.String(), "No playlists") {
		t.Errorf("stdout = %q, want no playlists message", stdout.String())
	}
}

func TestShowEmptyPlaylist(t *testing.T) {
	seedLibrary(t)
	var stdout, stderr bytes.Buffer

	RunCreate(&CreateParams{Name: "empty"}, &stdout, &stderr)
	stdout.Reset()
	if code := RunShow(&ShowParams{Name: "empty"}, &stdout, &stderr); code != 0 {
		t.Fatalf("show: exit %d", code)
	}
	if !strings.Contains(stdout.String(), "is empty") {
		t.Errorf("stdout = %q, want empty message", stdout.String())
	}
}
