package scan

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Im-Gonzo/t3rm1n4l/cmd/common"
)

func setupDataDir(t *testing.T) string {
	t.Helper()
	dataDir := t.TempDir()
	musicDir := filepath.Join(dataDir, "music")
	t.Setenv(common.EnvDataDir, dataDir)
	t.Setenv(common.EnvMusicDir, musicDir)

	files := []string{
		"Burial - Archangel.mp3",
		filepath.Join("album", "Boards of Canada - Roygbiv.flac"),
		"cover.jpg",
		"notes.txt",
	}
	for _, name := range files {
		path := filepath.Join(musicDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("dummy audio"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return musicDir
}

func TestRunScan(t *testing.T) {
	setupDataDir(t)
	var stdout, stderr bytes.Buffer

	if code := Run(&Params{}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d, stderr %q", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "Found 2 audio files (2 tracks in library)") {
		t.Errorf("missing summary line:\n%s", out)
	}
	if !strings.Contains(out, "Burial") || !strings.Contains(out, "Roygbiv") {
		t.Errorf("missing discovered tracks:\n%s", out)
	}
	if strings.Contains(out, "cover") || strings.Contains(out, "notes") {
		t.Errorf("non-audio files listed:\n%s", out)
	}
}

func TestRunScanQuiet(t *testing.T) {
	setupDataDir(t)
	var stdout, stderr bytes.Buffer

	if code := Run(&Params{Quiet: true}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d", code)
	}
	out := stdout.String()
	if strings.Contains(out, "Burial") {
		t.Errorf("quiet mode should not print the table:\n%s", out)
	}
	if !strings.Contains(out, "Found 2 audio files") {
		t.Errorf("missing summary line:\n%s", out)
	}
}

func TestRunScanExplicitDir(t *testing.T) {
	musicDir := setupDataDir(t)
	var stdout, stderr bytes.Buffer

	if code := Run(&Params{Dir: filepath.Join(musicDir, "album"), Quiet: true}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stdout.String(), "Found 1 audio files") {
		t.Errorf("stdout = %q, want 1 file from the subdirectory", stdout.String())
	}
}

func TestRunScanMissingDir(t *testing.T) {
	musicDir := setupDataDir(t)
	var stdout, stderr bytes.Buffer

	if code := Run(&Params{Dir: filepath.Join(musicDir, "nope")}, &stdout, &stderr); code != 1 {
		t.Error("scanning a missing directory should exit 1")
	}
	if !strings.Contains(stderr.String(), "Cannot scan") {
		t.Errorf("stderr = %q, want scan error", stderr.String())
	}
}
