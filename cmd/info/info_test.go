package info

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Im-Gonzo/t3rm1n4l/cmd/tags"
)

func writeFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("dummy audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunInfo(t *testing.T) {
	path := writeFile(t, "UNKLE - Lonely Soul.mp3")
	var stdout, stderr bytes.Buffer

	if code := Run(&Params{File: path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d, stderr %q", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{"UNKLE", "Lonely Soul", "Unknown Album", "Embedded art"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunInfoJSON(t *testing.T) {
	path := writeFile(t, "03 - Nightfall.ogg")
	var stdout, stderr bytes.Buffer

	if code := Run(&Params{File: path, JSON: true}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d", code)
	}

	var meta tags.Meta
	if err := json.Unmarshal(stdout.Bytes(), &meta); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, stdout.String())
	}
	if meta.Title != "Nightfall" || meta.Artist != tags.UnknownArtist {
		t.Errorf("meta = %+v, want filename-derived title and placeholder artist", meta)
	}
}

func TestRunInfoMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer

	if code := Run(&Params{File: filepath.Join(t.TempDir(), "gone.mp3")}, &stdout, &stderr); code != 1 {
		t.Error("exit code should be 1 for a missing file")
	}
	if !strings.Contains(stderr.String(), "Error reading") {
		t.Errorf("stderr = %q, want read error", stderr.String())
	}
}
