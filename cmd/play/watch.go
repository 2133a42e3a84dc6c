package play

import (
	"log/slog"

	"github.com/Im-Gonzo/t3rm1n4l/cmd/library"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

type scanDoneMsg struct {
	found int
}

type musicDirChangedMsg struct{}

// scanLibraryCmd runs a library scan off the UI goroutine.
func scanLibraryCmd(store *library.Store, musicDir string) tea.Cmd {
	return func() tea.Msg {
		return scanDoneMsg{found: len(store.Scan(musicDir))}
	}
}

// watchMusicDirCmd blocks until something changes an audio file in the
// music directory, then reports it. The watcher is recreated by the caller
// issuing this command again after each message.
func watchMusicDirCmd(musicDir string) tea.Cmd {
	return func() tea.Msg {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			slog.Warn("failed to create file watcher", "error", err)
			return nil
		}
		defer func() { _ = watcher.Close() }()

		if err := watcher.Add(musicDir); err != nil {
			slog.Warn("failed to watch music directory", "dir", musicDir, "error", err)
			return nil
		}

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !library.IsAudioFile(event.Name) {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
					slog.Info("music directory changed", "file", event.Name, "op", event.Op.String())
					return musicDirChangedMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				slog.Warn("file watcher error", "error", err)
				return nil
			}
		}
	}
}
